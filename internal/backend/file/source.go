// Package file implements service.Source over a JSON payload on disk.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"taskboard/internal/config"
	"taskboard/internal/service"
)

// Source reads tickets from a local file on every fetch.
type Source struct {
	path   string
	logger *slog.Logger
}

// New creates a file source from the config settings.
func New(cfg *config.Config) (*Source, error) {
	if cfg.Settings.File == "" {
		return nil, fmt.Errorf("no file configured for file source")
	}
	return &Source{path: cfg.Settings.File, logger: cfg.Logger()}, nil
}

// FetchTickets implements service.Source.
func (s *Source) FetchTickets(ctx context.Context) ([]service.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	s.logger.Debug("read tickets file", "path", s.path, "bytes", len(data))
	return service.DecodeTickets(data, s.logger)
}
