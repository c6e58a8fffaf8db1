// Package server serves the board over HTTP.
package server

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"taskboard/internal/board"
	"taskboard/internal/output"
	"taskboard/internal/service"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// Defaults are the group and sort keys used when a request names none.
type Defaults struct {
	Group board.GroupKey
	Sort  board.SortKey
}

// Server renders a fresh board from source on every request.
type Server struct {
	source   service.Source
	sorter   *board.Sorter
	defaults Defaults
	logger   *slog.Logger
	router   chi.Router
}

// New creates a Server.
func New(source service.Source, sorter *board.Sorter, defaults Defaults, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		source:   source,
		sorter:   sorter,
		defaults: defaults,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleHTML)
	r.Get("/board", s.handleJSON)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.logger.Info("serving board", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// build fetches with the request context, so a client hanging up cancels
// the fetch.
func (s *Server) build(w http.ResponseWriter, r *http.Request) (board.Board, bool) {
	group, sort := s.defaults.Group, s.defaults.Sort
	q := r.URL.Query()
	if v := q.Get("group"); v != "" {
		k, err := board.ParseGroupKey(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return board.Board{}, false
		}
		group = k
	}
	if v := q.Get("sort"); v != "" {
		k, err := board.ParseSortKey(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return board.Board{}, false
		}
		sort = k
	}

	tasks, err := s.source.FetchTickets(r.Context())
	if err != nil {
		if r.Context().Err() != nil {
			s.logger.Debug("client went away during fetch", "request_id", middleware.GetReqID(r.Context()))
			return board.Board{}, false
		}
		s.logger.Error("fetch failed", "request_id", middleware.GetReqID(r.Context()), "err", err)
		http.Error(w, "backend error: "+err.Error(), http.StatusBadGateway)
		return board.Board{}, false
	}
	return s.sorter.Build(tasks, group, sort), true
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	b, ok := s.build(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := output.WriteJSON(w, b); err != nil {
		s.logger.Error("write board", "err", err)
	}
}

func (s *Server) handleHTML(w http.ResponseWriter, r *http.Request) {
	b, ok := s.build(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, b); err != nil {
		s.logger.Error("render board", "err", err)
	}
}

var pageTemplate = template.Must(template.New("board").Funcs(template.FuncMap{
	"priority": board.PriorityLabel,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Task board</title>
<style>
body { font-family: sans-serif; background: #f4f5f8; }
.columns { display: flex; gap: 16px; align-items: flex-start; }
.column { background: #ebecf0; border-radius: 8px; padding: 8px; width: 280px; }
.card { background: #fff; border-radius: 6px; padding: 8px; margin: 8px 0; box-shadow: 0 1px 2px rgba(0,0,0,.15); }
.meta { color: #6b6f76; font-size: 12px; }
</style>
</head>
<body>
{{if not .Columns}}<p>no tasks found</p>{{end}}
<div class="columns">
{{range .Columns}}<div class="column">
<h3>{{.Label}} <span class="meta">{{len .Tasks}}</span></h3>
{{range .Tasks}}<div class="card">
<div class="meta">{{.ID}}{{if .Priority}} &middot; {{priority .Priority}}{{end}}</div>
<div>{{if .Title}}{{.Title}}{{else}}(untitled){{end}}</div>
{{if .Tags}}<div class="meta">{{range .Tags}}#{{.}} {{end}}</div>{{end}}
</div>
{{end}}</div>
{{end}}</div>
</body>
</html>
`))
