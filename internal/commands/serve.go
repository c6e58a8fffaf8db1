package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/server"
	"taskboard/internal/service"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command.
type ServeCmd struct {
	view viewFlags
	addr string
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Serve the board over HTTP" }
func (c *ServeCmd) Usage() string {
	return "taskboard serve [--addr <host:port>] [--group <key>] [--sort <key>]"
}
func (c *ServeCmd) NeedsSource() bool { return true }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	c.view.register(fs)
	fs.StringVar(&c.addr, "addr", "127.0.0.1:8080", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, src service.Source, args []string, out, errOut io.Writer) int {
	v, err := c.view.resolve(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	srv := server.New(src, v.sorter, server.Defaults{Group: v.group, Sort: v.sort}, cfg.Logger())
	if !cfg.Quiet {
		fmt.Fprintf(out, "serving on http://%s\n", c.addr)
	}
	if err := srv.ListenAndServe(ctx, c.addr); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
