package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
	"taskboard/internal/service"
	"taskboard/internal/watch"
)

// clearScreen homes the cursor and clears the terminal between watch renders.
const clearScreen = "\x1b[H\x1b[2J"

func init() {
	Register(&BoardCmd{})
}

// BoardCmd implements the board command.
// Handles both `taskboard` (no args) and `taskboard board [flags]`.
type BoardCmd struct {
	view   viewFlags
	layout string
	watch  time.Duration
}

// SetView sets the group and sort keys (for testing).
func (c *BoardCmd) SetView(group, sort string) {
	c.view.group = group
	c.view.sort = sort
}

// SetLayout sets the layout (for testing).
func (c *BoardCmd) SetLayout(layout string) {
	c.layout = layout
}

func (c *BoardCmd) Name() string      { return "board" }
func (c *BoardCmd) Aliases() []string { return []string{"show"} }
func (c *BoardCmd) Synopsis() string  { return "Show the task board" }
func (c *BoardCmd) Usage() string {
	return "taskboard board [--group <key>] [--sort <key>] [--layout <layout>] [--watch <interval>]"
}
func (c *BoardCmd) NeedsSource() bool { return true }

func (c *BoardCmd) RegisterFlags(fs *flag.FlagSet) {
	c.view.register(fs)
	fs.StringVar(&c.layout, "layout", "", "")
	fs.DurationVar(&c.watch, "watch", 0, "")
}

func (c *BoardCmd) Run(ctx context.Context, cfg *config.Config, src service.Source, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	v, err := c.view.resolve(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	layoutName := c.layout
	if layoutName == "" {
		layoutName = cfg.Settings.Layout
	}
	layout, err := output.ParseLayout(layoutName)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if c.watch != 0 {
		return c.runWatch(ctx, cfg, src, v, layout, out, errOut)
	}

	b, err := fetchBoard(ctx, src, v)
	if err != nil {
		return reportFetchError(errOut, err)
	}
	if err := renderBoard(cfg, b, layout, out); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

// runWatch re-renders until ctx is cancelled. Results of a fetch that is
// still running at teardown are discarded.
func (c *BoardCmd) runWatch(ctx context.Context, cfg *config.Config, src service.Source, v view, layout output.Layout, out, errOut io.Writer) int {
	if c.watch < watch.MinInterval {
		fmt.Fprintf(errOut, "error: watch interval must be at least %s\n", watch.MinInterval)
		return exitcode.UserError
	}

	render := func(tasks []service.Task) {
		if layout != output.LayoutJSON {
			fmt.Fprint(out, clearScreen)
		}
		b := v.sorter.Build(tasks, v.group, v.sort)
		if err := renderBoard(cfg, b, layout, out); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
	}
	onError := func(err error) {
		reportFetchError(errOut, err)
	}

	r := watch.New(src, render, watch.WithErrorFunc(onError), watch.WithLogger(cfg.Logger()))
	if err := r.Start(ctx, c.watch); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	<-ctx.Done()
	r.Stop()
	return exitcode.Success
}

// renderBoard prints b, or "no tasks found" for an empty board outside
// quiet mode. JSON output always prints, even when empty.
func renderBoard(cfg *config.Config, b board.Board, layout output.Layout, out io.Writer) error {
	if b.Empty() && layout != output.LayoutJSON {
		if !cfg.Quiet {
			fmt.Fprintln(out, output.EmptyBoard)
		}
		return nil
	}
	return output.Render(out, b, layout)
}
