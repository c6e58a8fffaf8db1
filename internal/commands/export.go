package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/export"
	"taskboard/internal/service"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd implements the export command.
type ExportCmd struct {
	view   viewFlags
	format string
	path   string
	title  string
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Export the board to csv, json or pdf" }
func (c *ExportCmd) Usage() string {
	return "taskboard export [--group <key>] [--sort <key>] [--format csv|json|pdf] [-o <path>]"
}
func (c *ExportCmd) NeedsSource() bool { return true }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	c.view.register(fs)
	fs.StringVar(&c.format, "format", "", "")
	fs.StringVar(&c.path, "o", "-", "")
	fs.StringVar(&c.title, "title", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, src service.Source, args []string, out, errOut io.Writer) int {
	v, err := c.view.resolve(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	formatName := c.format
	if formatName == "" {
		formatName = formatFromPath(c.path)
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	b, err := fetchBoard(ctx, src, v)
	if err != nil {
		return reportFetchError(errOut, err)
	}

	e := &export.Exporter{Title: c.title}
	if c.path == "" || c.path == "-" {
		if err := e.Export(out, b, format); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		return exitcode.Success
	}

	f, err := os.Create(c.path)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err := e.Export(f, b, format); err != nil {
		f.Close()
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	cfg.Logger().Debug("exported board", "path", c.path, "format", format, "tasks", b.Len())
	if !cfg.Quiet {
		fmt.Fprintf(out, "wrote %s\n", c.path)
	}
	return exitcode.Success
}

// formatFromPath picks the format from the output file extension,
// defaulting to csv.
func formatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return string(export.FormatCSV)
	}
	return ext
}
