package commands_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/tasklist"
	"todo/internal/testutil"
)

// runCommand is a helper to run a command with FakeService.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := config.Default(t.TempDir())
	cfg.Quiet = quiet

	ctx := context.Background()
	var s service.Service
	if svc != nil {
		s = svc
	}
	code = cmd.Run(ctx, cfg, s, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// seeded returns a logged-in FakeService holding three tasks.
func seeded() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.SetLoggedIn(true)
	svc.Seed(service.Task{ID: "t1", Title: "Buy milk", DueDate: "2024-03-01", CreatedAt: "2024-01-03T00:00:00.000Z"})
	svc.Seed(service.Task{ID: "t2", Title: "apple pie", IsCompleted: true, CreatedAt: "2024-01-01T00:00:00.000Z"})
	svc.Seed(service.Task{ID: "t3", Title: "Call mom", DueDate: "2024-02-01", Description: "sunday", CreatedAt: "2024-01-02T00:00:00.000Z"})
	return svc
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "todo 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "help", stdout)
}

// Tests for config command
func TestConfigCommand(t *testing.T) {
	cmd := &commands.ConfigCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"store:", "driver: sqlite3", "filter: all"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output, got %q", want, stdout)
		}
	}
}

// Tests for list command
func TestListCommand_StoredOrder(t *testing.T) {
	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, seeded(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}

	expected := "   1  [ ] Buy milk  (due 2024-03-01)\n" +
		"   2  [x] apple pie\n" +
		"   3  [ ] Call mom  (due 2024-02-01)\n" +
		"          sunday\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_FilterAndSortKeepPositions(t *testing.T) {
	cmd := &commands.ListCmd{}
	cmd.SetFilter("pending")
	cmd.SetSort("dueDate")
	stdout, _, code := runCommand(t, cmd, seeded(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}

	expected := "   3  [ ] Call mom  (due 2024-02-01)\n" +
		"          sunday\n" +
		"   1  [ ] Buy milk  (due 2024-03-01)\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_SortTitle(t *testing.T) {
	cmd := &commands.ListCmd{}
	cmd.SetSort("title")
	stdout, _, _ := runCommand(t, cmd, seeded(), nil, false)

	first := strings.SplitN(stdout, "\n", 2)[0]
	if first != "   2  [x] apple pie" {
		t.Errorf("expected apple pie first, got %q", first)
	}
}

func TestListCommand_Completed(t *testing.T) {
	cmd := &commands.ListCmd{}
	cmd.SetFilter("completed")
	stdout, _, _ := runCommand(t, cmd, seeded(), nil, false)

	expected := "   2  [x] apple pie\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_Empty(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SetLoggedIn(true)

	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}

	expected := "no tasks found\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SetLoggedIn(true)

	cmd := &commands.ListCmd{}
	stdout, _, _ := runCommand(t, cmd, svc, nil, true)

	// Quiet mode should suppress "no tasks found"
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestListCommand_InvalidFilter(t *testing.T) {
	cmd := &commands.ListCmd{}
	cmd.SetFilter("someday")
	_, stderr, code := runCommand(t, cmd, seeded(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: invalid filter: someday\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestListCommand_CorruptStore(t *testing.T) {
	svc := seeded()
	svc.TasksErr = fmt.Errorf("%w: unexpected end of JSON input", tasklist.ErrCorrupt)

	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.StoreError {
		t.Errorf("expected exit code %d, got %d", exitcode.StoreError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if !strings.Contains(stderr, "hint: run: todo logout") {
		t.Errorf("expected logout hint, got %q", stderr)
	}
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SetLoggedIn(true)

	cmd := &commands.AddCmd{}
	cmd.SetDescription("2 liters")
	cmd.SetDueDate(" 2024-05-01 ")
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"Buy", "milk"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	tasks := svc.Snapshot()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.Title != "Buy milk" || got.Description != "2 liters" || got.DueDate != "2024-05-01" {
		t.Errorf("unexpected task %+v", got)
	}
	if got.IsCompleted {
		t.Error("new task should be pending")
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SetLoggedIn(true)

	cmd := &commands.AddCmd{}
	stdout, _, code := runCommand(t, cmd, svc, []string{"Test task"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestAddCommand_NoTitle(t *testing.T) {
	for _, args := range [][]string{nil, {"   "}} {
		svc := testutil.NewFakeService()
		svc.SetLoggedIn(true)

		cmd := &commands.AddCmd{}
		_, stderr, code := runCommand(t, cmd, svc, args, false)

		if code != exitcode.UserError {
			t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
		}
		if stderr != "error: title required\n" {
			t.Errorf("expected 'error: title required\\n', got %q", stderr)
		}
		if n := len(svc.Snapshot()); n != 0 {
			t.Errorf("expected nothing written, got %d tasks", n)
		}
	}
}

func TestAddCommand_StoreFailure(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SetLoggedIn(true)
	svc.AddErr = errors.New("disk full")

	cmd := &commands.AddCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"x"}, false)

	if code != exitcode.StoreError {
		t.Errorf("expected exit code %d, got %d", exitcode.StoreError, code)
	}
	if stderr != "error: store error: disk full\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for edit command
func TestEditCommand_OnlyGivenFields(t *testing.T) {
	svc := seeded()

	cmd := &commands.EditCmd{}
	cmd.SetTitle("Buy oat milk")
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	got := svc.Snapshot()[0]
	if got.Title != "Buy oat milk" {
		t.Errorf("expected new title, got %q", got.Title)
	}
	if got.DueDate != "2024-03-01" {
		t.Errorf("due date should be unchanged, got %q", got.DueDate)
	}
}

func TestEditCommand_ClearDescriptionByID(t *testing.T) {
	svc := seeded()

	cmd := &commands.EditCmd{}
	cmd.SetDescription("")
	_, _, code := runCommand(t, cmd, svc, []string{"t3"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if got := svc.Snapshot()[2]; got.Description != "" || got.Title != "Call mom" {
		t.Errorf("unexpected task %+v", got)
	}
}

func TestEditCommand_NothingToUpdate(t *testing.T) {
	cmd := &commands.EditCmd{}
	_, stderr, code := runCommand(t, cmd, seeded(), []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: nothing to update\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestEditCommand_BlankTitle(t *testing.T) {
	svc := seeded()

	cmd := &commands.EditCmd{}
	cmd.SetTitle("  ")
	_, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: title required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.Snapshot()[0].Title != "Buy milk" {
		t.Error("task should be unchanged")
	}
}

// Tests for toggle command
func TestToggleCommand_Success(t *testing.T) {
	svc := seeded()

	cmd := &commands.ToggleCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if svc.Snapshot()[1].IsCompleted {
		t.Error("expected task 2 to be pending after toggle")
	}

	runCommand(t, cmd, svc, []string{"2"}, true)
	if !svc.Snapshot()[1].IsCompleted {
		t.Error("expected second toggle to restore completion")
	}
}

func TestToggleCommand_NoRef(t *testing.T) {
	cmd := &commands.ToggleCmd{}
	_, stderr, code := runCommand(t, cmd, seeded(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task reference required\n" {
		t.Errorf("expected 'error: task reference required\\n', got %q", stderr)
	}
}

func TestToggleCommand_NotFound(t *testing.T) {
	for _, ref := range []string{"0", "4", "nope"} {
		cmd := &commands.ToggleCmd{}
		_, stderr, code := runCommand(t, cmd, seeded(), []string{ref}, false)

		if code != exitcode.UserError {
			t.Errorf("ref %q: expected exit code %d, got %d", ref, exitcode.UserError, code)
		}
		expected := "error: task not found: " + ref + "\n"
		if stderr != expected {
			t.Errorf("expected %q, got %q", expected, stderr)
		}
	}
}

// Tests for rm command
func TestRmCommand_Success(t *testing.T) {
	svc := seeded()

	cmd := &commands.RmCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	tasks := svc.Snapshot()
	if len(tasks) != 2 || tasks[0].ID != "t2" {
		t.Errorf("expected t1 removed, got %+v", tasks)
	}
}

func TestRmCommand_StoreFailure(t *testing.T) {
	svc := seeded()
	svc.DeleteErr = errors.New("database is locked")

	cmd := &commands.RmCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.StoreError {
		t.Errorf("expected exit code %d, got %d", exitcode.StoreError, code)
	}
	if stderr != "error: store error: database is locked\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for show command
func TestShowCommand(t *testing.T) {
	cmd := &commands.ShowCmd{}
	stdout, stderr, code := runCommand(t, cmd, seeded(), []string{"3"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"id:          t3\n", "description: sunday\n", "status:      pending\n"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output, got %q", want, stdout)
		}
	}
}

func TestRefCommands_ExtraArgument(t *testing.T) {
	cmds := []commands.Command{&commands.ToggleCmd{}, &commands.RmCmd{}, &commands.ShowCmd{}}

	for _, cmd := range cmds {
		t.Run(cmd.Name(), func(t *testing.T) {
			svc := seeded()
			before := svc.Snapshot()

			stdout, stderr, code := runCommand(t, cmd, svc, []string{"1", "2"}, false)

			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stdout != "" {
				t.Errorf("expected no stdout, got %q", stdout)
			}
			if stderr != "error: unexpected argument: 2\n" {
				t.Errorf("expected 'error: unexpected argument: 2\\n', got %q", stderr)
			}
			if after := svc.Snapshot(); len(after) != len(before) || after[0] != before[0] || after[1] != before[1] {
				t.Errorf("store should be unchanged, got %+v", after)
			}
		})
	}
}
