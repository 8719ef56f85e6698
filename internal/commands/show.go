package commands

import (
	"context"
	"flag"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd implements the show command.
type ShowCmd struct{}

func (c *ShowCmd) Name() string          { return "show" }
func (c *ShowCmd) Aliases() []string     { return nil }
func (c *ShowCmd) Synopsis() string      { return "Show every field of a task" }
func (c *ShowCmd) Usage() string         { return "todo show <ref>" }
func (c *ShowCmd) Requires() Requirement { return RequiresSession }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	task, code, ok := loadTask(ctx, svc, args, errOut)
	if !ok {
		return code
	}
	output.FormatTaskDetail(out, task)
	return exitcode.Success
}
