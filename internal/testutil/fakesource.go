// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"taskboard/internal/service"
)

// FakeSource is an in-memory implementation of service.Source for testing.
type FakeSource struct {
	mu    sync.Mutex
	tasks []service.Task
	calls int

	// FetchErr is returned by FetchTickets when set.
	FetchErr error

	// Block, when set, makes FetchTickets wait until it is closed or the
	// context is cancelled.
	Block chan struct{}
}

// NewFakeSource creates a FakeSource holding tasks.
func NewFakeSource(tasks ...service.Task) *FakeSource {
	return &FakeSource{tasks: tasks}
}

// AddTask appends a task.
func (f *FakeSource) AddTask(task service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, task)
}

// SetTasks replaces every task.
func (f *FakeSource) SetTasks(tasks []service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = tasks
}

// Calls returns how many times FetchTickets ran.
func (f *FakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// FetchTickets implements service.Source.
func (f *FakeSource) FetchTickets(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	f.calls++
	block := f.Block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// SampleTasks returns a small board fixture covering every sentinel.
func SampleTasks() []service.Task {
	return []service.Task{
		{ID: "CAM-1", Title: "Update user profile", Status: "Todo", UserID: "usr-1", Priority: 4, Tags: []string{"Feature request"}},
		{ID: "CAM-2", Title: "Add multi-language support", Status: "In progress", UserID: "usr-2", Priority: 3},
		{ID: "CAM-3", Title: "Optimize database queries", Status: "Todo", Priority: 1},
		{ID: "CAM-4", Title: "Implement email notifications", UserID: "usr-1"},
	}
}
