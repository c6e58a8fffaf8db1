package cli

import (
	"context"
	"fmt"

	"taskboard/internal/backend/file"
	"taskboard/internal/backend/googletasks"
	"taskboard/internal/backend/httpapi"
	"taskboard/internal/config"
	"taskboard/internal/service"
)

// NewSource is the production SourceFactory: it builds the source named by
// the source setting.
func NewSource(ctx context.Context, cfg *config.Config) (service.Source, error) {
	switch cfg.Settings.Source {
	case config.SourceHTTP:
		return httpapi.New(ctx, cfg)
	case config.SourceFile:
		return file.New(cfg)
	case config.SourceGoogleTasks:
		return googletasks.New(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown source: %s", cfg.Settings.Source)
	}
}
