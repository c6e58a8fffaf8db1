package watch_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/service"
	"taskboard/internal/testutil"
	"taskboard/internal/watch"
)

type recorder struct {
	mu      sync.Mutex
	renders [][]service.Task
	errs    []error
}

func (r *recorder) render(tasks []service.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renders = append(r.renders, tasks)
}

func (r *recorder) onError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) renderCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.renders)
}

func TestRefresh_Renders(t *testing.T) {
	src := testutil.NewFakeSource(testutil.SampleTasks()...)
	rec := &recorder{}
	r := watch.New(src, rec.render, watch.WithErrorFunc(rec.onError))

	require.True(t, r.Refresh(context.Background()))
	require.Len(t, rec.renders, 1)
	assert.Len(t, rec.renders[0], len(testutil.SampleTasks()))
	assert.Empty(t, rec.errs)
}

func TestRefresh_ReportsErrors(t *testing.T) {
	src := testutil.NewFakeSource()
	src.FetchErr = errors.New("boom")
	rec := &recorder{}
	r := watch.New(src, rec.render, watch.WithErrorFunc(rec.onError))

	require.True(t, r.Refresh(context.Background()))
	assert.Empty(t, rec.renders)
	require.Len(t, rec.errs, 1)
	assert.EqualError(t, rec.errs[0], "boom")
}

func TestRefresh_DropsSupersededResult(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var mu sync.Mutex
	calls := 0

	// The first fetch ignores cancellation and returns late; the second
	// returns at once.
	src := service.SourceFunc(func(ctx context.Context) ([]service.Task, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(started)
			<-release
			return []service.Task{{ID: "stale"}}, nil
		}
		return []service.Task{{ID: "fresh"}}, nil
	})

	rec := &recorder{}
	r := watch.New(src, rec.render, watch.WithErrorFunc(rec.onError))

	done := make(chan bool)
	go func() { done <- r.Refresh(context.Background()) }()
	<-started

	require.True(t, r.Refresh(context.Background()))
	close(release)
	assert.False(t, <-done)

	require.Len(t, rec.renders, 1)
	assert.Equal(t, "fresh", rec.renders[0][0].ID)
	assert.Empty(t, rec.errs)
}

func TestStop_CancelsInFlightFetch(t *testing.T) {
	src := testutil.NewFakeSource(testutil.SampleTasks()...)
	src.Block = make(chan struct{})
	rec := &recorder{}
	r := watch.New(src, rec.render, watch.WithErrorFunc(rec.onError))

	done := make(chan bool)
	go func() { done <- r.Refresh(context.Background()) }()
	require.Eventually(t, func() bool { return src.Calls() == 1 }, time.Second, 5*time.Millisecond)

	r.Stop()

	select {
	case delivered := <-done:
		assert.False(t, delivered)
	case <-time.After(time.Second):
		t.Fatal("fetch was not cancelled by Stop")
	}
	assert.Empty(t, rec.renders)
	assert.Empty(t, rec.errs, "cancellation after teardown must not surface as an error")

	// Refreshing after Stop does nothing.
	assert.False(t, r.Refresh(context.Background()))
	assert.Equal(t, 1, src.Calls())
	r.Stop()
}

func TestStart_RendersImmediatelyAndOnSchedule(t *testing.T) {
	src := testutil.NewFakeSource(testutil.SampleTasks()...)
	rec := &recorder{}
	r := watch.New(src, rec.render, watch.WithErrorFunc(rec.onError))

	require.NoError(t, r.Start(context.Background(), time.Second))
	defer r.Stop()

	assert.Equal(t, 1, rec.renderCount())
	require.Eventually(t, func() bool { return rec.renderCount() >= 2 }, 3*time.Second, 20*time.Millisecond)

	assert.Error(t, r.Start(context.Background(), time.Second))
}

func TestStart_RejectsShortInterval(t *testing.T) {
	r := watch.New(testutil.NewFakeSource(), func([]service.Task) {})
	require.Error(t, r.Start(context.Background(), 100*time.Millisecond))
}
