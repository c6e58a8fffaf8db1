// Package httpapi implements service.Source over a JSON HTTP endpoint
// returning {"tickets": [...]}.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"taskboard/internal/config"
	"taskboard/internal/service"
)

const (
	// DefaultTimeout bounds a single fetch when none is configured.
	DefaultTimeout = 5 * time.Second

	// MaxBodySize caps the payload read from the endpoint.
	MaxBodySize = 16 << 20

	// RequestIDHeader carries a per-request id for server-side correlation.
	RequestIDHeader = "X-Request-Id"
)

// Client implements service.Source over HTTP.
type Client struct {
	url     string
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a client from the config settings.
// A configured token is sent as a bearer token.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	s := cfg.Settings
	if s.URL == "" {
		return nil, fmt.Errorf("no url configured for http source")
	}

	httpClient := &http.Client{}
	if s.Token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: s.Token, TokenType: "Bearer"})
		httpClient = oauth2.NewClient(ctx, src)
	}

	return &Client{
		url:     s.URL,
		http:    httpClient,
		timeout: s.Timeout,
		logger:  cfg.Logger(),
	}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(url string, httpClient *http.Client) *Client {
	return &Client{url: url, http: httpClient, timeout: DefaultTimeout, logger: slog.New(slog.DiscardHandler)}
}

// FetchTickets implements service.Source.
func (c *Client) FetchTickets(ctx context.Context) ([]service.Task, error) {
	timeout := c.timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, wrapError(ctx, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("fetched tickets",
		"url", c.url,
		"request_id", reqID,
		"status", resp.StatusCode,
		"elapsed", time.Since(start))

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, wrapError(ctx, err)
	}

	return service.DecodeTickets(body, c.logger)
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: token rejected (%s)", service.ErrAuth, resp.Status)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("not found")
	default:
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
}

// wrapError turns transport errors into short messages.
func wrapError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	if errors.Is(err, context.Canceled) {
		return context.Canceled
	}
	return err
}
