// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todo/internal/service"
)

// descriptionIndent lines a description up under the task title.
const descriptionIndent = "          "

// FormatTask formats a task line for the list command.
// Format: "{N:>4}  [x] {TITLE}  (due {DUE})\n", followed by the description
// on its own indented line when present.
func FormatTask(w io.Writer, num int, task service.Task) {
	line := fmt.Sprintf("%4d  %s %s", num, checkbox(task.IsCompleted), normalizeTitle(task.Title))
	if due := strings.TrimSpace(task.DueDate); due != "" {
		line += fmt.Sprintf("  (due %s)", due)
	}
	fmt.Fprintln(w, line)

	if desc := normalizeText(task.Description); desc != "" {
		fmt.Fprintln(w, descriptionIndent+desc)
	}
}

// FormatTaskDetail prints every field of a task, one per line.
func FormatTaskDetail(w io.Writer, task service.Task) {
	status := "pending"
	if task.IsCompleted {
		status = "completed"
	}
	fields := []struct{ name, value string }{
		{"id", task.ID},
		{"title", normalizeTitle(task.Title)},
		{"description", task.Description},
		{"due", task.DueDate},
		{"status", status},
		{"created", task.CreatedAt},
	}
	for _, f := range fields {
		v := f.value
		if strings.TrimSpace(v) == "" {
			v = "-"
		}
		fmt.Fprintf(w, "%-12s %s\n", f.name+":", v)
	}
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = normalizeText(title)
	if title == "" {
		return "(untitled)"
	}
	return title
}

// normalizeText flattens newlines and trims surrounding whitespace.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
