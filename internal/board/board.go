package board

import "taskboard/internal/service"

// Column is one group label and its cards.
type Column struct {
	Label string         `json:"label"`
	Tasks []service.Task `json:"tasks"`
}

// Board is the grouped view, columns in first-seen label order.
type Board struct {
	Columns []Column
}

// Len returns the number of tasks across all columns.
func (b Board) Len() int {
	n := 0
	for _, c := range b.Columns {
		n += len(c.Tasks)
	}
	return n
}

// Empty reports whether the board has no columns.
func (b Board) Empty() bool {
	return len(b.Columns) == 0
}

// Labels returns the column labels in display order.
func (b Board) Labels() []string {
	labels := make([]string, len(b.Columns))
	for i, c := range b.Columns {
		labels[i] = c.Label
	}
	return labels
}

// Build groups tasks by group and sorts each column by sort.
func (s *Sorter) Build(tasks []service.Task, group GroupKey, sort SortKey) Board {
	b := Group(tasks, group)
	for i := range b.Columns {
		b.Columns[i].Tasks = s.Sort(b.Columns[i].Tasks, sort)
	}
	return b
}

// Build is Sorter.Build with the root locale.
func Build(tasks []service.Task, group GroupKey, sort SortKey) Board {
	return NewSorter().Build(tasks, group, sort)
}
