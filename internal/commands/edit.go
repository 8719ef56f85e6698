package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// optionalString is a flag.Value that records whether it was set, so an
// explicit empty value can clear a field.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

func (o *optionalString) ptr() *string {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

// EditCmd implements the edit command.
type EditCmd struct {
	title       optionalString
	description optionalString
	dueDate     optionalString
}

// SetTitle sets the new title (for testing).
func (c *EditCmd) SetTitle(t string) { c.title.Set(t) }

// SetDescription sets the new description (for testing).
func (c *EditCmd) SetDescription(d string) { c.description.Set(d) }

// SetDueDate sets the new due date (for testing).
func (c *EditCmd) SetDueDate(d string) { c.dueDate.Set(d) }

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Change fields of a task" }
func (c *EditCmd) Usage() string {
	return "todo edit [--title <t>] [--description <d>] [--due <date>] <ref>"
}
func (c *EditCmd) Requires() Requirement { return RequiresSession }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title = optionalString{}
	c.description = optionalString{}
	c.dueDate = optionalString{}

	fs.Var(&c.title, "title", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
	fs.Var(&c.dueDate, "due", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	patch := service.Patch{
		Title:       c.title.ptr(),
		Description: c.description.ptr(),
		DueDate:     c.dueDate.ptr(),
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	if patch.DueDate != nil {
		due := strings.TrimSpace(*patch.DueDate)
		patch.DueDate = &due
	}

	task, code, ok := loadTask(ctx, svc, args, errOut)
	if !ok {
		return code
	}

	if patch.Empty() {
		fmt.Fprintln(errOut, "error: nothing to update")
		return exitcode.UserError
	}

	if err := svc.UpdateTask(ctx, task.ID, patch); err != nil {
		return storeError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
