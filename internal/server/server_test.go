package server_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/board"
	"taskboard/internal/server"
	"taskboard/internal/testutil"
)

type column struct {
	Label string `json:"label"`
	Tasks []struct {
		ID string `json:"id"`
	} `json:"tasks"`
}

func newServer(src *testutil.FakeSource) *server.Server {
	return server.New(src, board.NewSorter(), server.Defaults{
		Group: board.GroupByStatus,
		Sort:  board.SortByPriority,
	}, nil)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestBoardJSON_Defaults(t *testing.T) {
	srv := newServer(testutil.NewFakeSource(testutil.SampleTasks()...))

	rec := get(t, srv, "/board")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var cols []column
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cols))
	require.Len(t, cols, 3)
	assert.Equal(t, "Todo", cols[0].Label)
	assert.Equal(t, "CAM-1", cols[0].Tasks[0].ID)
	assert.Equal(t, board.NoStatus, cols[2].Label)
}

func TestBoardJSON_Query(t *testing.T) {
	srv := newServer(testutil.NewFakeSource(testutil.SampleTasks()...))

	rec := get(t, srv, "/board?group=user&sort=title")
	require.Equal(t, http.StatusOK, rec.Code)

	var cols []column
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cols))
	require.Len(t, cols, 3)
	assert.Equal(t, "usr-1", cols[0].Label)
	// "Implement..." sorts before "Update..."
	assert.Equal(t, "CAM-4", cols[0].Tasks[0].ID)
	assert.Equal(t, board.Unassigned, cols[2].Label)
}

func TestBoardJSON_BadQuery(t *testing.T) {
	srv := newServer(testutil.NewFakeSource())

	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/board?group=owner").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/board?sort=due").Code)
}

func TestBoardJSON_SourceError(t *testing.T) {
	src := testutil.NewFakeSource()
	src.FetchErr = errors.New("upstream down")
	srv := newServer(src)

	rec := get(t, srv, "/board")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "upstream down")
}

func TestBoardHTML(t *testing.T) {
	srv := newServer(testutil.NewFakeSource(testutil.SampleTasks()...))

	rec := get(t, srv, "/?group=priority")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h3>Urgent")
	assert.Contains(t, body, "Update user profile")
	assert.Contains(t, body, "#Feature request")
}

func TestBoardHTML_Empty(t *testing.T) {
	srv := newServer(testutil.NewFakeSource())

	rec := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "no tasks found")
}

func TestHealthz(t *testing.T) {
	rec := get(t, newServer(testutil.NewFakeSource()), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
