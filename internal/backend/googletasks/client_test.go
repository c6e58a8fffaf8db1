package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/service"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		title     string
		wantTitle string
		wantPrio  int
	}{
		{"Plain task", "Plain task", 0},
		{"! low", "low", 1},
		{"!!medium", "medium", 2},
		{"  !!! high", "high", 3},
		{"!!!! urgent", "urgent", 4},
		{"!!!!! shouting", "!!!!! shouting", 0},
		{"wow!", "wow!", 0},
	}
	for _, tt := range tests {
		title, prio := parsePriority(tt.title)
		assert.Equal(t, tt.wantTitle, title, tt.title)
		assert.Equal(t, tt.wantPrio, prio, tt.title)
	}
}

func newTestServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, body string) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			fmt.Fprintf(w, `{"error": {"code": %d, "message": %q}}`, status, http.StatusText(status))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
	mux.HandleFunc("/tasks/v1/users/@me/lists/@default", func(w http.ResponseWriter, r *http.Request) {
		write(w, `{"id": "L1", "title": "My Tasks"}`)
	})
	mux.HandleFunc("/tasks/v1/users/@me/lists", func(w http.ResponseWriter, r *http.Request) {
		write(w, `{"items": [{"id": "L1", "title": "My Tasks"}, {"id": "L2", "title": "Work"}]}`)
	})
	mux.HandleFunc("/tasks/v1/lists/L1/tasks", func(w http.ResponseWriter, r *http.Request) {
		write(w, `{"items": [
			{"id": "t1", "title": "!!! Pay rent", "status": "needsAction"},
			{"id": "t2", "title": "Buy milk", "status": "completed"}
		]}`)
	})
	mux.HandleFunc("/tasks/v1/lists/L2/tasks", func(w http.ResponseWriter, r *http.Request) {
		write(w, `{"items": [{"id": "t3", "title": "Ship release", "status": "needsAction"}]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchTickets(t *testing.T) {
	srv := newTestServer(t, http.StatusOK)

	c, err := NewWithHTTPClient(context.Background(), srv.Client(), srv.URL+"/")
	require.NoError(t, err)

	got, err := c.FetchTickets(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []service.Task{
		{ID: "t1", Title: "Pay rent", Status: StatusTodo, UserID: "My Tasks", Priority: 3},
		{ID: "t2", Title: "Buy milk", Status: StatusDone, UserID: "My Tasks"},
		{ID: "t3", Title: "Ship release", Status: StatusTodo, UserID: "Work"},
	}, got)
}

func TestListLists(t *testing.T) {
	srv := newTestServer(t, http.StatusOK)

	c, err := NewWithHTTPClient(context.Background(), srv.Client(), srv.URL+"/")
	require.NoError(t, err)

	lists, err := c.ListLists(context.Background())
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.True(t, lists[0].IsDefault)
	assert.False(t, lists[1].IsDefault)
}

func TestFetchTickets_AuthError(t *testing.T) {
	srv := newTestServer(t, http.StatusUnauthorized)

	c, err := NewWithHTTPClient(context.Background(), srv.Client(), srv.URL+"/")
	require.NoError(t, err)

	_, err = c.FetchTickets(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrAuth), "got %v", err)
}
