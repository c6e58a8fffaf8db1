// Package service defines the backend-agnostic types and source interface
// for board data.
package service

// Task represents a single ticket on the board.
// Zero values mean the field was absent in the source payload.
type Task struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Status   string   `json:"status,omitempty"`
	UserID   string   `json:"userId,omitempty"`
	Priority int      `json:"priority"`
	Tags     []string `json:"tag,omitempty"`
}

// TaskList represents a Google Tasks list. Only the googletasks source
// produces these.
type TaskList struct {
	ID        string
	Title     string
	IsDefault bool
}
