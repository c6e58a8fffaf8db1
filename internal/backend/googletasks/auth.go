package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"taskboard/internal/config"
)

const (
	// CallbackPort is the first local port tried for the OAuth redirect.
	CallbackPort = 8085

	callbackAttempts = 5
	callbackTimeout  = 5 * time.Minute
	exchangeTimeout  = 30 * time.Second
	refreshTimeout   = 10 * time.Second
)

// Authorizer runs the installed-app OAuth flow: it prints a consent URL,
// waits for the browser redirect on a loopback port and exchanges the code
// for a token.
type Authorizer struct {
	Config *oauth2.Config

	// Prompt receives the consent URL.
	Prompt func(authURL string)

	// Port is the first callback port to try. Zero picks any free port.
	Port    int
	Timeout time.Duration
}

// NewAuthorizer returns an Authorizer for the client in cfg.
func NewAuthorizer(cfg *config.Config, prompt func(string)) (*Authorizer, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Authorizer{Config: oauthConfig, Prompt: prompt, Port: CallbackPort, Timeout: callbackTimeout}, nil
}

// Authorize returns a token granted for Scope.
func (a *Authorizer) Authorize(ctx context.Context) (*oauth2.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("cancelled")
	}

	listener, err := a.listen()
	if err != nil {
		return nil, fmt.Errorf("could not bind to local port for OAuth callback")
	}
	defer listener.Close()

	oauthConfig := *a.Config
	oauthConfig.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", listener.Addr().(*net.TCPAddr).Port)
	verifier := oauth2.GenerateVerifier()
	state := uuid.NewString()

	if a.Prompt != nil {
		a.Prompt(oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier)))
	}

	code, err := a.awaitCode(ctx, listener, state)
	if err != nil {
		return nil, err
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()
	token, err := oauthConfig.Exchange(exchangeCtx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	return token, nil
}

func (a *Authorizer) listen() (net.Listener, error) {
	if a.Port == 0 {
		return net.Listen("tcp", "localhost:0")
	}
	var lastErr error
	for i := range callbackAttempts {
		l, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", a.Port+i))
		if err == nil {
			return l, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// awaitCode serves the redirect until a code arrives, the timeout passes
// or ctx is cancelled.
func (a *Authorizer) awaitCode(ctx context.Context, listener net.Listener, state string) (string, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	r := chi.NewRouter()
	r.Get("/callback", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "State mismatch", http.StatusBadRequest)
			return
		}
		if reason := q.Get("error"); reason != "" {
			http.Error(w, "Authorization denied", http.StatusForbidden)
			trySend(errCh, fmt.Errorf("authorization denied: %s", reason))
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "No code in callback", http.StatusBadRequest)
			trySend(errCh, errors.New("no code in callback"))
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>taskboard is authorized</h1><p>You may close this window.</p></body></html>")
		trySend(codeCh, code)
	})

	srv := &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			trySend(errCh, err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = callbackTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case code := <-codeCh:
		return code, nil
	case err := <-errCh:
		return "", err
	case <-timer.C:
		return "", errors.New("oauth callback timed out")
	case <-ctx.Done():
		return "", errors.New("cancelled")
	}
}

func trySend[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

// SaveToken writes token to the config directory with mode 0600.
func SaveToken(cfg *config.Config, token *oauth2.Token) error {
	if err := cfg.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.TokenPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// TokenUsable reports whether the stored token has a refresh token that the
// token endpoint still accepts.
func TokenUsable(ctx context.Context, cfg *config.Config) bool {
	token, err := LoadToken(cfg)
	if err != nil || token.RefreshToken == "" {
		return false
	}
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()
	_, err = oauthConfig.TokenSource(ctx, token).Token()
	return err == nil
}
