package instagram

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igmobile/pkg/config"
	"igmobile/pkg/logger"
	"igmobile/pkg/signature"
)

// mockBackend serves just enough of the mobile API for a login, a two page
// timeline and a logout.
type mockBackend struct {
	*httptest.Server
	t      *testing.T
	mu     sync.Mutex
	signer *signature.Signer
	paths  []string
}

func newMockBackend(t *testing.T, cfg *config.Config) *mockBackend {
	b := &mockBackend{t: t, signer: signature.NewSigner(cfg.API.SignatureKey, cfg.API.SignatureKeyVersion)}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Close)
	return b
}

func (b *mockBackend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.paths = append(b.paths, r.URL.Path)
	b.mu.Unlock()

	if !strings.HasPrefix(r.Header.Get("User-Agent"), "Instagram ") {
		http.Error(w, `{"status":"fail","message":"bad user agent"}`, http.StatusBadRequest)
		return
	}

	switch r.URL.Path {
	case "/":
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "srv-csrf", Path: "/"})
		fmt.Fprint(w, `{}`)

	case "/api/v1/accounts/login/":
		require.NoError(b.t, r.ParseForm())
		envelope := r.PostForm.Get("signed_body")
		sig, payload, ok := strings.Cut(envelope, ".")
		want, err := b.signer.Sign([]byte(payload))
		if !ok || err != nil || want != sig {
			http.Error(w, `{"status":"fail","message":"signature mismatch"}`, http.StatusBadRequest)
			return
		}
		if ck, err := r.Cookie("csrftoken"); err != nil || ck.Value != "srv-csrf" {
			http.Error(w, `{"status":"fail","message":"csrf cookie missing"}`, http.StatusForbidden)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "srv-session", Path: "/"})
		fmt.Fprint(w, loginOK)

	case "/api/v1/feed/timeline/":
		if ck, err := r.Cookie("sessionid"); err != nil || ck.Value != "srv-session" {
			http.Error(w, `{"status":"fail","message":"login_required"}`, http.StatusForbidden)
			return
		}
		if r.URL.Query().Get("max_id") == "" {
			fmt.Fprint(w, `{"status":"ok","more_available":true,"next_max_id":"p2","items":[{"pk":1,"media_type":1}]}`)
			return
		}
		fmt.Fprint(w, `{"status":"ok","more_available":false,"items":[{"pk":2,"media_type":2}]}`)

	case "/api/v1/accounts/logout/":
		fmt.Fprint(w, `{"status":"ok"}`)

	default:
		http.NotFound(w, r)
	}
}

func integrationConfig() *config.Config {
	cfg := testConfig()
	cfg.RateLimit.Enabled = false
	cfg.Retry.Enabled = false
	return cfg
}

func TestEndToEndAgainstHTTPServer(t *testing.T) {
	cfg := integrationConfig()
	backend := newMockBackend(t, cfg)
	cfg.API.BaseURL = backend.URL + "/api/v1/"

	c, err := NewClient(cfg, WithLogger(logger.NewNopLogger()))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Login(ctx))
	assert.Equal(t, "srv-csrf", c.Session().CSRFToken)

	page, err := c.FetchTimelineFeed(ctx, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, MediaTypeVideo, page.Items[1].Type)

	// A restored client carries the session cookie
	var buf bytes.Buffer
	require.NoError(t, c.SaveState(&buf))
	restored, err := LoadClient(cfg, &buf, WithLogger(logger.NewNopLogger()))
	require.NoError(t, err)

	page, err = restored.FetchTimelineFeed(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	require.NoError(t, restored.Logout(ctx))
	assert.False(t, restored.IsAuthenticated())

	assert.Equal(t, []string{
		"/",
		"/api/v1/accounts/login/",
		"/api/v1/feed/timeline/",
		"/api/v1/feed/timeline/",
		"/api/v1/feed/timeline/",
		"/api/v1/accounts/logout/",
	}, backend.paths)
}

func TestEndToEndWithoutSessionCookie(t *testing.T) {
	cfg := integrationConfig()
	backend := newMockBackend(t, cfg)
	cfg.API.BaseURL = backend.URL + "/api/v1/"

	c, err := NewClient(cfg, WithLogger(logger.NewNopLogger()))
	require.NoError(t, err)
	require.NoError(t, c.Login(context.Background()))

	// Losing the cookie jar makes the backend reject the session
	fresh, err := NewClient(cfg, WithLogger(logger.NewNopLogger()), WithDevice(c.Device()))
	require.NoError(t, err)
	fresh.session = c.session

	_, err = fresh.FetchTimelineFeed(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
