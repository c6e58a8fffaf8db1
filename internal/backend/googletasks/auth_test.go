package googletasks

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"taskboard/internal/config"
)

// newTokenEndpoint accepts one code and checks the PKCE verifier is sent.
func newTokenEndpoint(t *testing.T, wantCode string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != wantCode || r.Form.Get("code_verifier") == "" {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"error":"invalid_grant"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"access_token":"at","refresh_token":"rt","token_type":"Bearer","expires_in":3600}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// browse follows the consent URL the way the browser redirect would.
func browse(t *testing.T, authURL string, params url.Values) *http.Response {
	t.Helper()
	u, err := url.Parse(authURL)
	require.NoError(t, err)
	redirect, err := url.Parse(u.Query().Get("redirect_uri"))
	require.NoError(t, err)
	if params.Get("state") == "" {
		params.Set("state", u.Query().Get("state"))
	}
	redirect.RawQuery = params.Encode()

	resp, err := http.Get(redirect.String())
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func testAuthorizer(tokenURL string, prompt func(string)) *Authorizer {
	return &Authorizer{
		Config: &oauth2.Config{
			ClientID: "test",
			Endpoint: oauth2.Endpoint{AuthURL: "https://accounts.example.com/auth", TokenURL: tokenURL},
			Scopes:   []string{Scope},
		},
		Prompt:  prompt,
		Timeout: 5 * time.Second,
	}
}

func TestAuthorize(t *testing.T) {
	endpoint := newTokenEndpoint(t, "good-code")

	urls := make(chan string, 1)
	auth := testAuthorizer(endpoint.URL, func(u string) { urls <- u })

	go func() {
		authURL := <-urls
		// a forged state is rejected and the flow keeps waiting
		resp := browse(t, authURL, url.Values{"state": {"forged"}, "code": {"bad"}})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp = browse(t, authURL, url.Values{"code": {"good-code"}})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}()

	token, err := auth.Authorize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "at", token.AccessToken)
	assert.Equal(t, "rt", token.RefreshToken)
}

func TestAuthorize_Denied(t *testing.T) {
	endpoint := newTokenEndpoint(t, "unused")

	urls := make(chan string, 1)
	auth := testAuthorizer(endpoint.URL, func(u string) { urls <- u })

	go func() {
		resp := browse(t, <-urls, url.Values{"error": {"access_denied"}})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	}()

	_, err := auth.Authorize(context.Background())
	require.Error(t, err)
	assert.Equal(t, "authorization denied: access_denied", err.Error())
}

func TestAuthorize_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prompted := false
	auth := testAuthorizer("http://127.0.0.1:0/token", func(string) { prompted = true })

	_, err := auth.Authorize(ctx)
	require.Error(t, err)
	assert.False(t, prompted, "no consent URL after cancellation")
}

func TestSaveAndLoadToken(t *testing.T) {
	cfg, err := config.New(t.TempDir() + "/nested")
	require.NoError(t, err)

	require.NoError(t, SaveToken(cfg, &oauth2.Token{AccessToken: "at", RefreshToken: "rt"}))

	token, err := LoadToken(cfg)
	require.NoError(t, err)
	assert.Equal(t, "rt", token.RefreshToken)

	assert.False(t, TokenUsable(context.Background(), cfg), "no oauth client configured")
}
