// Package view derives the displayed task order from the stored list.
// Every function here is pure: inputs are never modified and results are
// always fresh slices.
package view

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"todo/internal/service"
)

// Filter selects which tasks are shown.
type Filter string

// Filters.
const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
)

// SortKey selects the display order.
type SortKey string

// Sort keys.
const (
	SortNone    SortKey = "none"
	SortDueDate SortKey = "due"
	SortTitle   SortKey = "title"
	SortCreated SortKey = "created"
)

// Query is a filter plus a sort key.
type Query struct {
	Filter Filter
	Sort   SortKey

	// Locale drives title collation. language.Und (the zero value) means English.
	Locale language.Tag
}

// ParseFilter parses a filter name. Empty means all.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "completed", "done":
		return FilterCompleted, nil
	case "pending", "open":
		return FilterPending, nil
	default:
		return "", fmt.Errorf("invalid filter: %s", s)
	}
}

// ParseSortKey parses a sort key name. Empty means none.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "due", "duedate":
		return SortDueDate, nil
	case "title":
		return SortTitle, nil
	case "created", "createdat":
		return SortCreated, nil
	default:
		return "", fmt.Errorf("invalid sort key: %s", s)
	}
}

// Entry is a derived row: a task and its 1-based position in the stored list.
type Entry struct {
	Pos  int
	Task service.Task
}

// Apply filters then sorts tasks.
func Apply(tasks []service.Task, q Query) []service.Task {
	return unwrap(Entries(tasks, q))
}

// Entries filters then sorts tasks, keeping each task's stored position.
func Entries(tasks []service.Task, q Query) []Entry {
	es := make([]Entry, 0, len(tasks))
	for i, t := range tasks {
		if keep(t, q.Filter) {
			es = append(es, Entry{Pos: i + 1, Task: t})
		}
	}
	sortEntries(es, q.Sort, q.Locale)
	return es
}

// FilterTasks returns the tasks matching f in their input order.
func FilterTasks(tasks []service.Task, f Filter) []service.Task {
	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t, f) {
			out = append(out, t)
		}
	}
	return out
}

func keep(t service.Task, f Filter) bool {
	switch f {
	case FilterCompleted:
		return t.IsCompleted
	case FilterPending:
		return !t.IsCompleted
	}
	return true
}

// Sort returns a copy of tasks ordered by key, ascending.
// Equal keys keep their input order.
func Sort(tasks []service.Task, key SortKey, locale language.Tag) []service.Task {
	es := make([]Entry, len(tasks))
	for i, t := range tasks {
		es[i] = Entry{Pos: i + 1, Task: t}
	}
	sortEntries(es, key, locale)
	return unwrap(es)
}

func sortEntries(es []Entry, key SortKey, locale language.Tag) {
	switch key {
	case SortDueDate:
		sortByTime(es, func(t service.Task) string { return t.DueDate })
	case SortCreated:
		sortByTime(es, func(t service.Task) string { return t.CreatedAt })
	case SortTitle:
		if locale == language.Und {
			locale = language.English
		}
		// Collators keep internal buffers, so each call gets its own.
		c := collate.New(locale)
		sort.SliceStable(es, func(i, j int) bool {
			return c.CompareString(es[i].Task.Title, es[j].Task.Title) < 0
		})
	}
}

// sortByTime stably sorts entries in place by the parsed value of field.
func sortByTime(es []Entry, field func(service.Task) string) {
	type keyed struct {
		e  Entry
		at time.Time
	}
	ks := make([]keyed, len(es))
	for i, e := range es {
		ks[i] = keyed{e: e, at: ParseTime(field(e.Task))}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		return ks[i].at.Before(ks[j].at)
	})
	for i := range ks {
		es[i] = ks[i].e
	}
}

func unwrap(es []Entry) []service.Task {
	out := make([]service.Task, len(es))
	for i, e := range es {
		out[i] = e.Task
	}
	return out
}

// epoch is the key of a missing or unreadable date.
var epoch = time.Unix(0, 0).UTC()

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// ParseTime reads a date string in any of the accepted layouts.
// Times without a zone are read as UTC. An empty or unreadable string yields
// the Unix epoch so it orders before ordinary dates.
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return epoch
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return epoch
}
