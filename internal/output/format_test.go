package output_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/board"
	"taskboard/internal/output"
	"taskboard/internal/service"
	"taskboard/internal/testutil"
)

func testBoard() board.Board {
	return board.Board{Columns: []board.Column{
		{Label: "Todo", Tasks: []service.Task{
			{ID: "CAM-1", Title: "Update user profile", Status: "Todo", UserID: "usr-1", Priority: 4, Tags: []string{"Feature request"}},
			{ID: "CAM-3", Title: "", Status: "Todo"},
		}},
		{Label: "No Status", Tasks: []service.Task{
			{ID: "CAM-4", Title: "Multi\nline", Priority: 2},
		}},
	}}
}

func TestFormatBoard(t *testing.T) {
	var buf bytes.Buffer
	output.FormatBoard(&buf, testBoard())
	testutil.Golden(t, "sections", buf.Bytes())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.WriteJSON(&buf, testBoard()))
	testutil.Golden(t, "board.json", buf.Bytes())
}

func TestWriteJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.WriteJSON(&buf, board.Board{}))
	assert.Equal(t, "[]\n", buf.String())
}

func TestFormatCard(t *testing.T) {
	tests := []struct {
		name string
		task service.Task
		want string
	}{
		{"plain", service.Task{ID: "A", Title: "Do it"}, "    A         Do it\n"},
		{"out of range priority", service.Task{ID: "A", Title: "Do it", Priority: 7}, "    A         Do it\n"},
		{"low", service.Task{ID: "A", Title: "Do it", Priority: 1}, "    A         Do it (Low)\n"},
		{"blank tags skipped", service.Task{ID: "A", Title: "Do it", Tags: []string{" ", "x"}}, "    A         Do it #x\n"},
		{"whitespace title", service.Task{ID: "A", Title: "  \r\n"}, "    A         (untitled)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			output.FormatCard(&buf, tt.task)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestFormatColumnSummary(t *testing.T) {
	var buf bytes.Buffer
	for _, col := range testBoard().Columns {
		output.FormatColumnSummary(&buf, col)
	}
	assert.Equal(t, "   2  Todo\n   1  No Status\n", buf.String())
}

func TestRenderColumns(t *testing.T) {
	out := output.RenderColumns(testBoard(), 24)

	assert.Contains(t, out, "Todo (2)")
	assert.Contains(t, out, "No Status (1)")
	assert.Contains(t, out, "Update user profile")
	assert.Contains(t, out, "(untitled)")

	// Columns sit side by side, so both headers share the first content line.
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 2)
	assert.Contains(t, lines[1], "Todo (2)")
	assert.Contains(t, lines[1], "No Status (1)")
}

func TestRenderColumns_Empty(t *testing.T) {
	assert.Equal(t, "", output.RenderColumns(board.Board{}, 24))
}

func TestParseLayout(t *testing.T) {
	l, err := output.ParseLayout("Columns")
	require.NoError(t, err)
	assert.Equal(t, output.LayoutColumns, l)

	_, err = output.ParseLayout("grid")
	require.EqualError(t, err, "invalid layout: grid (want sections, columns or json)")
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.Render(&buf, testBoard(), output.LayoutSections))
	assert.True(t, strings.HasPrefix(buf.String(), output.ColumnSeparator+"\nTodo\n"))

	buf.Reset()
	require.NoError(t, output.Render(&buf, testBoard(), output.LayoutJSON))
	assert.True(t, strings.HasPrefix(buf.String(), "[\n"))
}
