package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/tasklist"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Raw string // the reference as typed
	Num int    // 1-based stored position, 0 if Raw is not all digits
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// errTaskNotFound is returned by resolveTask when the reference matches nothing.
var errTaskNotFound = errors.New("task not found")

// ParseTaskRef parses a task reference from args.
//
// An all-digit reference is a position as printed by list; anything else is
// taken as a task id.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}

	raw := strings.TrimSpace(args[0])
	if raw == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	ref := TaskRef{Raw: raw}
	if isAllDigits(raw) {
		num, err := strconv.Atoi(raw)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", raw)
		}
		ref.Num = num
	}
	return ref, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// resolveTask finds the task ref points at. A numeric ref in range selects by
// position; otherwise the ref must equal a task id. Stored ids from older
// data are numeric, so an out-of-range number still gets an id lookup.
func resolveTask(ctx context.Context, svc service.Service, ref TaskRef) (service.Task, int, error) {
	tasks, err := svc.Tasks(ctx)
	if err != nil {
		return service.Task{}, 0, err
	}

	if ref.Num >= 1 && ref.Num <= len(tasks) {
		return tasks[ref.Num-1], ref.Num, nil
	}
	for i, t := range tasks {
		if t.ID == ref.Raw {
			return t, i + 1, nil
		}
	}
	return service.Task{}, 0, errTaskNotFound
}

// loadTask parses args and resolves the task, printing any error.
// ok is false when the command should exit with code.
func loadTask(ctx context.Context, svc service.Service, args []string, errOut io.Writer) (task service.Task, code int, ok bool) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		if err == ErrTaskRefRequired {
			fmt.Fprintln(errOut, "error: task reference required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return service.Task{}, exitcode.UserError, false
	}

	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return service.Task{}, exitcode.UserError, false
	}

	task, _, err = resolveTask(ctx, svc, ref)
	if err != nil {
		if errors.Is(err, errTaskNotFound) {
			fmt.Fprintf(errOut, "error: task not found: %s\n", ref.Raw)
			return service.Task{}, exitcode.UserError, false
		}
		return service.Task{}, storeError(errOut, err), false
	}
	return task, exitcode.Success, true
}

// storeError prints a store failure and returns its exit code.
func storeError(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: store error: %v\n", err)
	if errors.Is(err, tasklist.ErrCorrupt) {
		fmt.Fprintln(errOut, "hint: run: todo logout")
	}
	return exitcode.StoreError
}
