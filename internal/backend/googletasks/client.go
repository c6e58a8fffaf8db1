// Package googletasks implements service.Source using the Google Tasks API.
// Every task in every list becomes a ticket.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"taskboard/internal/config"
	"taskboard/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks requested per page.
	PageSize = 100

	// APITimeout is the default timeout for a full fetch.
	APITimeout = 10 * time.Second

	// Scope is the read-only OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks.readonly"

	// Statuses reported by the API.
	statusNeedsAction = "needsAction"
	statusCompleted   = "completed"
)

// Board statuses that API statuses map to.
const (
	StatusTodo = "Todo"
	StatusDone = "Done"
)

// Client implements service.Source using Google Tasks API.
type Client struct {
	svc     *tasks.Service
	timeout time.Duration
	logger  *slog.Logger
}

// OAuthConfig loads the OAuth client credentials from the config directory.
func OAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read oauth_client.json: %v", service.ErrAuth, err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid oauth_client.json: %v", service.ErrAuth, err)
	}
	return oauthConfig, nil
}

// LoadToken reads the stored OAuth token.
func LoadToken(cfg *config.Config) (*oauth2.Token, error) {
	data, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("%w: not logged in (run: taskboard login)", service.ErrAuth)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("%w: invalid token.json: %v", service.ErrAuth, err)
	}
	return &token, nil
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	token, err := LoadToken(cfg)
	if err != nil {
		return nil, err
	}

	// Token source refreshes on expiry
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	timeout := cfg.Settings.Timeout
	if timeout < APITimeout {
		timeout = APITimeout
	}
	return &Client{svc: svc, timeout: timeout, logger: cfg.Logger()}, nil
}

// NewWithHTTPClient creates a client against a custom endpoint (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint string) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, timeout: APITimeout, logger: slog.New(slog.DiscardHandler)}, nil
}

// ListLists returns all task lists in API order.
func (c *Client) ListLists(ctx context.Context) ([]service.TaskList, error) {
	defaultList, err := c.svc.Tasklists.Get(DefaultListID).Context(ctx).Do()
	if err != nil {
		return nil, wrapError(ctx, err)
	}

	var result []service.TaskList
	err = c.svc.Tasklists.List().MaxResults(100).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			result = append(result, service.TaskList{
				ID:        list.Id,
				Title:     list.Title,
				IsDefault: list.Id == defaultList.Id,
			})
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(ctx, err)
	}
	return result, nil
}

// FetchTickets implements service.Source.
// Lists are walked in API order and tasks in API order within each list.
func (c *Client) FetchTickets(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	lists, err := c.ListLists(ctx)
	if err != nil {
		return nil, err
	}

	var result []service.Task
	for _, list := range lists {
		n := 0
		err := c.svc.Tasks.List(list.ID).
			MaxResults(PageSize).
			ShowCompleted(true).
			ShowHidden(true).
			ShowDeleted(false).
			Pages(ctx, func(resp *tasks.Tasks) error {
				for _, t := range resp.Items {
					result = append(result, toTicket(list, t))
					n++
				}
				return nil
			})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch list: %s: %w", list.Title, wrapError(ctx, err))
		}
		c.logger.Debug("fetched list", "list", list.Title, "tasks", n)
	}
	return result, nil
}

// toTicket maps an API task to a board ticket. The owning list stands in
// for the assignee; a leading run of '!' sets the priority.
func toTicket(list service.TaskList, t *tasks.Task) service.Task {
	title, priority := parsePriority(t.Title)
	return service.Task{
		ID:       t.Id,
		Title:    title,
		Status:   mapStatus(t.Status),
		UserID:   list.Title,
		Priority: priority,
	}
}

func mapStatus(s string) string {
	switch s {
	case statusNeedsAction:
		return StatusTodo
	case statusCompleted:
		return StatusDone
	default:
		return s
	}
}

// parsePriority strips a "!".."!!!!" prefix from title and returns the
// matching priority 1..4. Longer runs are left in the title.
func parsePriority(title string) (string, int) {
	trimmed := strings.TrimLeft(title, " ")
	n := len(trimmed) - len(strings.TrimLeft(trimmed, "!"))
	if n == 0 || n > 4 {
		return title, 0
	}
	return strings.TrimSpace(trimmed[n:]), n
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return context.Canceled
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: token expired or revoked (run: taskboard login)", service.ErrAuth)
		case http.StatusNotFound:
			return fmt.Errorf("not found")
		}
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Errorf("%w: token expired or revoked (run: taskboard login)", service.ErrAuth)
	}

	return err
}
