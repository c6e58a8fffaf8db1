// Package export writes a built board to csv, json or pdf.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"taskboard/internal/board"
	"taskboard/internal/output"
)

// Format is an export file format.
type Format string

// Formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("unknown format: %s (want csv, json or pdf)", s)
}

// csvHeader is the first row of a csv export.
var csvHeader = []string{"column", "id", "title", "status", "user", "priority", "priority_label", "tags"}

// Exporter renders boards into files.
type Exporter struct {
	// Title heads pdf exports.
	Title string

	// Now stamps pdf exports; defaults to time.Now.
	Now func() time.Time
}

// Export writes b to w in format f.
func (e *Exporter) Export(w io.Writer, b board.Board, f Format) error {
	switch f {
	case FormatCSV:
		return e.writeCSV(w, b)
	case FormatJSON:
		return output.WriteJSON(w, b)
	case FormatPDF:
		return e.writePDF(w, b)
	default:
		return fmt.Errorf("unknown format: %s", f)
	}
}

func (e *Exporter) writeCSV(w io.Writer, b board.Board) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, col := range b.Columns {
		for _, t := range col.Tasks {
			row := []string{
				col.Label,
				t.ID,
				t.Title,
				t.Status,
				t.UserID,
				strconv.Itoa(t.Priority),
				board.PriorityLabel(t.Priority),
				strings.Join(t.Tags, ";"),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func (e *Exporter) writePDF(w io.Writer, b board.Board) error {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	title := e.Title
	if title == "" {
		title = "Task board"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; translate so accented titles survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetCreationDate(now())
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(12)

	for _, col := range b.Columns {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("%s (%d)", col.Label, len(col.Tasks))), "", 1, "L", true, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, t := range col.Tasks {
			var line bytes.Buffer
			output.FormatCard(&line, t)
			pdf.MultiCell(0, 6, tr(strings.TrimSpace(line.String())), "", "L", false)
		}
		pdf.Ln(4)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
