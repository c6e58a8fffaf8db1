package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// envelope is the wire payload: {"tickets": [...], "users": [...]}.
// Users are accepted and ignored.
type envelope struct {
	Tickets json.RawMessage `json:"tickets"`
}

// wireTask keeps every field raw so a single bad field cannot fail the
// whole payload.
type wireTask struct {
	ID       json.RawMessage `json:"id"`
	Title    json.RawMessage `json:"title"`
	Status   json.RawMessage `json:"status"`
	UserID   json.RawMessage `json:"userId"`
	Priority json.RawMessage `json:"priority"`
	Tag      json.RawMessage `json:"tag"`
}

// DecodeTickets parses a tickets payload.
// The payload itself must be a JSON object; anything below that degrades:
// a missing or non-array "tickets" yields no tasks, non-object entries are
// skipped and malformed fields fall back to their zero value.
func DecodeTickets(data []byte, logger *slog.Logger) ([]Task, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(env.Tickets, &items); err != nil {
		if logger != nil {
			logger.Debug("tickets is not an array", "raw", truncate(env.Tickets))
		}
		return []Task{}, nil
	}

	tasks := make([]Task, 0, len(items))
	for i, raw := range items {
		var w wireTask
		if err := json.Unmarshal(raw, &w); err != nil {
			if logger != nil {
				logger.Debug("skipping malformed ticket", "index", i, "err", err)
			}
			continue
		}
		tasks = append(tasks, Task{
			ID:       scalarString(w.ID),
			Title:    scalarString(w.Title),
			Status:   scalarString(w.Status),
			UserID:   scalarString(w.UserID),
			Priority: scalarInt(w.Priority),
			Tags:     stringList(w.Tag),
		})
	}
	return tasks, nil
}

// scalarString reads a JSON string or number as a string.
// Anything else, including null and booleans, is empty.
func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// scalarInt reads an integral JSON number, or a string holding one.
// Fractions and non-numbers read as 0.
func scalarInt(raw json.RawMessage) int {
	s := scalarString(raw)
	if s == "" {
		return 0
	}
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0
	}
	return int(f)
}

func stringList(raw json.RawMessage) []string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		if s := scalarString(raw); s != "" {
			return []string{s}
		}
		return nil
	}
	var out []string
	for _, item := range items {
		if s := scalarString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func truncate(raw json.RawMessage) string {
	const max = 64
	if len(raw) > max {
		return string(raw[:max]) + "..."
	}
	return string(raw)
}
