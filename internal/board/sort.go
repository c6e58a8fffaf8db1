package board

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"taskboard/internal/service"
)

// SortKey selects the order of cards within a column.
type SortKey string

// Sort keys.
const (
	SortByPriority SortKey = "priority"
	SortByTitle    SortKey = "title"
)

// ParseSortKey parses a sort key name (case-insensitive, trimmed).
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortByPriority, SortByTitle:
		return k, nil
	}
	return "", fmt.Errorf("invalid sort key: %s (want priority or title)", s)
}

// Sorter orders tasks. The zero value compares titles with the root locale.
type Sorter struct {
	lang language.Tag
}

// Option configures a Sorter.
type Option func(*Sorter)

// WithLanguage sets the collation language for title sorting.
func WithLanguage(tag language.Tag) Option {
	return func(s *Sorter) { s.lang = tag }
}

// NewSorter creates a Sorter.
func NewSorter(opts ...Option) *Sorter {
	s := &Sorter{lang: language.Und}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sort returns a sorted copy of tasks; the input is left unmodified.
// Priority sorts descending, title ascending by locale collation. Both are
// stable, so ties keep input order. An unknown key returns an unsorted copy.
func (s *Sorter) Sort(tasks []service.Task, key SortKey) []service.Task {
	out := slices.Clone(tasks)
	switch key {
	case SortByPriority:
		slices.SortStableFunc(out, func(a, b service.Task) int {
			return cmp.Compare(b.Priority, a.Priority)
		})
	case SortByTitle:
		// Collators are not safe for concurrent use; build one per call.
		c := collate.New(s.lang)
		slices.SortStableFunc(out, func(a, b service.Task) int {
			return c.CompareString(a.Title, b.Title)
		})
	}
	return out
}

// Sort sorts with the root-locale Sorter.
func Sort(tasks []service.Task, key SortKey) []service.Task {
	return NewSorter().Sort(tasks, key)
}
