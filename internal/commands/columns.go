package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
	"taskboard/internal/service"
)

func init() {
	Register(&ColumnsCmd{})
}

// ColumnsCmd implements the columns command: one line per column with its
// card count.
type ColumnsCmd struct {
	view viewFlags
}

func (c *ColumnsCmd) Name() string      { return "columns" }
func (c *ColumnsCmd) Aliases() []string { return nil }
func (c *ColumnsCmd) Synopsis() string  { return "Print column labels and card counts" }
func (c *ColumnsCmd) Usage() string     { return "taskboard columns [--group <key>]" }
func (c *ColumnsCmd) NeedsSource() bool { return true }

func (c *ColumnsCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.view.group, "group", "", "")
}

func (c *ColumnsCmd) Run(ctx context.Context, cfg *config.Config, src service.Source, args []string, out, errOut io.Writer) int {
	v, err := c.view.resolve(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	b, err := fetchBoard(ctx, src, v)
	if err != nil {
		return reportFetchError(errOut, err)
	}

	if b.Empty() {
		if !cfg.Quiet {
			fmt.Fprintln(out, output.EmptyBoard)
		}
		return exitcode.Success
	}
	for _, col := range b.Columns {
		output.FormatColumnSummary(out, col)
	}
	return exitcode.Success
}
