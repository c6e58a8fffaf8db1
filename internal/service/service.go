package service

import (
	"context"
	"errors"
)

// Source supplies the flat ticket list a board is built from.
// Commands never import a backend SDK directly.
type Source interface {
	// FetchTickets returns every ticket in source order.
	// Implementations must stop work when ctx is cancelled.
	FetchTickets(ctx context.Context) ([]Task, error)
}

// ErrAuth marks failures caused by missing or rejected credentials.
var ErrAuth = errors.New("auth error")

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) ([]Task, error)

// FetchTickets implements Source.
func (f SourceFunc) FetchTickets(ctx context.Context) ([]Task, error) {
	return f(ctx)
}
