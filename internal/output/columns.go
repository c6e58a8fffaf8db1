package output

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/board"
	"taskboard/internal/service"
)

// DefaultColumnWidth is the content width of a rendered column.
const DefaultColumnWidth = 28

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().Bold(true)

	cardStyle = lipgloss.NewStyle().MarginTop(1)

	metaStyle = lipgloss.NewStyle().Faint(true)
)

// RenderColumns lays the board out as bordered columns side by side.
// Long titles wrap within width.
func RenderColumns(b board.Board, width int) string {
	if width < 8 {
		width = 8
	}
	blocks := make([]string, 0, len(b.Columns))
	for _, col := range b.Columns {
		parts := []string{headerStyle.Render(fmt.Sprintf("%s (%d)", normalizeTitle(col.Label), len(col.Tasks)))}
		for _, task := range col.Tasks {
			parts = append(parts, renderCard(task, width))
		}
		body := lipgloss.JoinVertical(lipgloss.Left, parts...)
		blocks = append(blocks, columnStyle.Width(width+2).Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

func renderCard(task service.Task, width int) string {
	title := lipgloss.NewStyle().Width(width).Render(normalizeTitle(task.Title))
	meta := task.ID + cardMeta(task)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		metaStyle.Width(width).Render(meta),
		title,
	))
}
