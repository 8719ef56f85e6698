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
	Register(&ConfigCmd{})
}

// ConfigCmd prints the effective configuration.
type ConfigCmd struct{}

func (c *ConfigCmd) Name() string          { return "config" }
func (c *ConfigCmd) Aliases() []string     { return nil }
func (c *ConfigCmd) Synopsis() string      { return "Print the effective configuration" }
func (c *ConfigCmd) Usage() string         { return "todo config" }
func (c *ConfigCmd) Requires() Requirement { return RequiresNothing }

func (c *ConfigCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ConfigCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	data, err := cfg.YAML()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "# %s\n", cfg.ConfigPath())
	}
	out.Write(data)
	return exitcode.Success
}
