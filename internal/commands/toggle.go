package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string          { return "toggle" }
func (c *ToggleCmd) Aliases() []string     { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string      { return "Flip a task between pending and completed" }
func (c *ToggleCmd) Usage() string         { return "todo toggle <ref>" }
func (c *ToggleCmd) Requires() Requirement { return RequiresSession }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	task, code, ok := loadTask(ctx, svc, args, errOut)
	if !ok {
		return code
	}

	if err := svc.ToggleComplete(ctx, task.ID); err != nil {
		return storeError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
