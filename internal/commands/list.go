package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"golang.org/x/text/language"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
	"todo/internal/view"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todo` (no args) and `todo list`.
type ListCmd struct {
	filter string
	sort   string
}

// SetFilter sets the filter (for testing).
func (c *ListCmd) SetFilter(f string) {
	c.filter = f
}

// SetSort sets the sort key (for testing).
func (c *ListCmd) SetSort(s string) {
	c.sort = s
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "todo list [--filter all|completed|pending] [--sort none|dueDate|title|createdAt]"
}
func (c *ListCmd) Requires() Requirement { return RequiresSession }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "", "")
	fs.StringVar(&c.filter, "f", "", "")
	fs.StringVar(&c.sort, "sort", "", "")
	fs.StringVar(&c.sort, "s", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	q, err := c.query(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	tasks, err := svc.Tasks(ctx)
	if err != nil {
		return storeError(errOut, err)
	}

	entries := view.Entries(tasks, q)
	if len(entries) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	for _, e := range entries {
		output.FormatTask(out, e.Pos, e.Task)
	}
	return exitcode.Success
}

// query builds the view from flags, falling back to the list section of the config.
func (c *ListCmd) query(cfg *config.Config) (view.Query, error) {
	filterName, sortName := c.filter, c.sort
	if filterName == "" {
		filterName = cfg.List.Filter
	}
	if sortName == "" {
		sortName = cfg.List.Sort
	}

	filter, err := view.ParseFilter(filterName)
	if err != nil {
		return view.Query{}, err
	}
	key, err := view.ParseSortKey(sortName)
	if err != nil {
		return view.Query{}, err
	}

	locale := language.Und
	if cfg.List.Locale != "" {
		locale, err = language.Parse(cfg.List.Locale)
		if err != nil {
			return view.Query{}, fmt.Errorf("invalid locale: %s", cfg.List.Locale)
		}
	}
	return view.Query{Filter: filter, Sort: key, Locale: locale}, nil
}
