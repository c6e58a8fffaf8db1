// Package watch re-fetches and re-renders a board on a schedule.
//
// Every refresh starts a new generation and cancels the fetch of the
// previous one. A result is rendered only if its generation is still the
// latest and the refresher has not been stopped, so a slow fetch can never
// overwrite a newer board or print after teardown.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"taskboard/internal/service"
)

// MinInterval is the shortest schedule cron can express.
const MinInterval = time.Second

// RenderFunc receives the tasks of the latest refresh.
type RenderFunc func(tasks []service.Task)

// ErrorFunc receives fetch errors of the latest refresh.
type ErrorFunc func(err error)

// Refresher schedules fetches from a source and hands fresh results to a
// render function. Render and error callbacks never run concurrently.
type Refresher struct {
	source  service.Source
	render  RenderFunc
	onError ErrorFunc
	logger  *slog.Logger

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	stopped bool
	cron    *cron.Cron
}

// Option configures a Refresher.
type Option func(*Refresher)

// WithErrorFunc sets the callback for fetch errors. By default errors are logged.
func WithErrorFunc(fn ErrorFunc) Option {
	return func(r *Refresher) { r.onError = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Refresher) { r.logger = l }
}

// New creates a Refresher.
func New(source service.Source, render RenderFunc, opts ...Option) *Refresher {
	r := &Refresher{
		source: source,
		render: render,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.onError == nil {
		r.onError = func(err error) { r.logger.Warn("refresh failed", "err", err) }
	}
	return r
}

// Refresh fetches once and renders the result if it is still current.
// It reports whether the result was delivered to render or onError.
func (r *Refresher) Refresh(ctx context.Context) bool {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return false
	}
	if r.cancel != nil {
		r.cancel()
	}
	r.gen++
	gen := r.gen
	fetchCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()

	tasks, err := r.source.FetchTickets(fetchCtx)

	r.mu.Lock()
	defer r.mu.Unlock()
	cancel()
	if r.stopped || gen != r.gen {
		r.logger.Debug("dropping stale refresh", "generation", gen, "latest", r.gen)
		return false
	}
	r.cancel = nil
	if err != nil {
		r.onError(err)
		return true
	}
	r.render(tasks)
	return true
}

// Start refreshes immediately, then every interval until Stop is called or
// ctx is done.
func (r *Refresher) Start(ctx context.Context, interval time.Duration) error {
	if interval < MinInterval {
		return fmt.Errorf("watch interval must be at least %s", MinInterval)
	}

	r.mu.Lock()
	if r.cron != nil {
		r.mu.Unlock()
		return fmt.Errorf("refresher already started")
	}
	c := cron.New()
	if _, err := c.AddFunc("@every "+interval.String(), func() { r.Refresh(ctx) }); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("invalid watch interval: %w", err)
	}
	r.cron = c
	r.mu.Unlock()

	r.Refresh(ctx)
	c.Start()
	r.logger.Debug("watch started", "interval", interval)
	return nil
}

// Stop cancels any in-flight fetch, discards its result and waits for
// running scheduled jobs to finish. Stop is idempotent.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	c := r.cron
	r.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}
