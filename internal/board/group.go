// Package board turns a flat ticket list into kanban columns.
package board

import (
	"fmt"
	"strings"

	"taskboard/internal/service"
)

// GroupKey selects the dimension tasks are partitioned by.
type GroupKey string

// Group keys.
const (
	GroupByStatus   GroupKey = "status"
	GroupByUser     GroupKey = "user"
	GroupByPriority GroupKey = "priority"
)

// Sentinel labels for tasks missing the grouped field.
const (
	NoStatus   = "No Status"
	Unassigned = "Unassigned"
	NoPriority = "No Priority"
)

var priorityLabels = map[int]string{
	0: NoPriority,
	1: "Low",
	2: "Medium",
	3: "High",
	4: "Urgent",
}

// ParseGroupKey parses a group key name (case-insensitive, trimmed).
func ParseGroupKey(s string) (GroupKey, error) {
	switch k := GroupKey(strings.ToLower(strings.TrimSpace(s))); k {
	case GroupByStatus, GroupByUser, GroupByPriority:
		return k, nil
	}
	return "", fmt.Errorf("invalid group key: %s (want status, user or priority)", s)
}

// PriorityLabel returns the display label for a priority value.
// Values outside 0..4 read as "No Priority".
func PriorityLabel(p int) string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return NoPriority
}

// Label returns the column label a task falls into for key.
func Label(t service.Task, key GroupKey) string {
	switch key {
	case GroupByStatus:
		if t.Status == "" {
			return NoStatus
		}
		return t.Status
	case GroupByUser:
		if t.UserID == "" {
			return Unassigned
		}
		return t.UserID
	case GroupByPriority:
		return PriorityLabel(t.Priority)
	}
	return ""
}

// Group partitions tasks into columns in first-seen label order.
// Tasks keep their input order inside a column. A nil input or an unknown
// key yields an empty board.
func Group(tasks []service.Task, key GroupKey) Board {
	switch key {
	case GroupByStatus, GroupByUser, GroupByPriority:
	default:
		return Board{}
	}

	var b Board
	index := make(map[string]int)
	for _, t := range tasks {
		label := Label(t, key)
		i, ok := index[label]
		if !ok {
			i = len(b.Columns)
			index[label] = i
			b.Columns = append(b.Columns, Column{Label: label})
		}
		b.Columns[i].Tasks = append(b.Columns[i].Tasks, t)
	}
	return b
}
