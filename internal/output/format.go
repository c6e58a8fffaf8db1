// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"taskboard/internal/board"
	"taskboard/internal/service"
)

const (
	// ColumnSeparator is the separator line around column headers.
	ColumnSeparator = "------------"

	// EmptyBoard is printed when no column has any card.
	EmptyBoard = "no tasks found"
)

// Layout selects how a board is rendered.
type Layout string

// Layouts.
const (
	LayoutSections Layout = "sections"
	LayoutColumns  Layout = "columns"
	LayoutJSON     Layout = "json"
)

// ParseLayout parses a layout name.
func ParseLayout(s string) (Layout, error) {
	switch l := Layout(strings.ToLower(strings.TrimSpace(s))); l {
	case LayoutSections, LayoutColumns, LayoutJSON:
		return l, nil
	}
	return "", fmt.Errorf("invalid layout: %s (want sections, columns or json)", s)
}

// Render writes b in the given layout.
func Render(w io.Writer, b board.Board, layout Layout) error {
	switch layout {
	case LayoutColumns:
		_, err := fmt.Fprintln(w, RenderColumns(b, DefaultColumnWidth))
		return err
	case LayoutJSON:
		return WriteJSON(w, b)
	default:
		FormatBoard(w, b)
		return nil
	}
}

// FormatBoard writes every column as a section: a header followed by its cards.
func FormatBoard(w io.Writer, b board.Board) {
	for _, col := range b.Columns {
		FormatColumnHeader(w, col.Label)
		for _, task := range col.Tasks {
			FormatCard(w, task)
		}
	}
}

// FormatColumnHeader formats a column section header.
func FormatColumnHeader(w io.Writer, label string) {
	fmt.Fprintln(w, ColumnSeparator)
	fmt.Fprintln(w, normalizeTitle(label))
	fmt.Fprintln(w, ColumnSeparator)
}

// FormatCard formats a single task card.
// Format: "    {ID:<8}  {TITLE}[ ({PRIORITY})][ #{TAG}...]\n"
func FormatCard(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "    %-8s  %s%s\n", task.ID, normalizeTitle(task.Title), cardMeta(task))
}

// FormatColumnSummary formats a column label with its card count.
func FormatColumnSummary(w io.Writer, col board.Column) {
	fmt.Fprintf(w, "%4d  %s\n", len(col.Tasks), normalizeTitle(col.Label))
}

// WriteJSON writes the board as a JSON array of columns.
func WriteJSON(w io.Writer, b board.Board) error {
	cols := make([]board.Column, len(b.Columns))
	for i, col := range b.Columns {
		cols[i] = col
		if cols[i].Tasks == nil {
			cols[i].Tasks = []service.Task{}
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cols)
}

// cardMeta renders the priority label and tags trailing a card title.
func cardMeta(task service.Task) string {
	var b strings.Builder
	if task.Priority > 0 && board.PriorityLabel(task.Priority) != board.NoPriority {
		fmt.Fprintf(&b, " (%s)", board.PriorityLabel(task.Priority))
	}
	for _, tag := range task.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			b.WriteString(" #")
			b.WriteString(tag)
		}
	}
	return b.String()
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
