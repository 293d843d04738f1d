package devserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/apiclient/httpclient"
	"github.com/kbukum/apiclient/tokenstore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestPair starts the dev server and a client resolving "/api" against it.
func newTestPair(t *testing.T, opts ...httpclient.Option) (*Server, *httpclient.Client) {
	t.Helper()
	s, err := New(Config{}, "test", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	cfg := httpclient.DefaultConfig(httpclient.ModeDevelopment)
	cfg.Origin = srv.URL
	cfg.RequestIDHeader = RequestIDHeader
	c, err := httpclient.New(cfg, opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s, c
}

func TestEcho_FormBody(t *testing.T) {
	_, c := newTestPair(t, httpclient.WithTokenStore(tokenStoreWith(t, "tok")))

	echo, ok, err := httpclient.PostJSON[EchoResponse](context.Background(), c, "/echo", map[string]any{"a": 1, "b": "x"})
	if err != nil || !ok {
		t.Fatalf("unexpected result ok=%v err=%v", ok, err)
	}
	if echo.Method != http.MethodPost || echo.Path != "/api/echo" {
		t.Errorf("unexpected method/path %s %s", echo.Method, echo.Path)
	}
	if echo.ContentType != httpclient.ContentTypeForm {
		t.Errorf("expected form content type, got %q", echo.ContentType)
	}
	if echo.Form["a"][0] != "1" || echo.Form["b"][0] != "x" {
		t.Errorf("unexpected form %v", echo.Form)
	}
	if echo.Authorization != "tok" {
		t.Errorf("expected raw token, got %q", echo.Authorization)
	}
	if echo.RequestID == "" {
		t.Error("expected request id to reach the server")
	}
}

func TestLoginFlow(t *testing.T) {
	store := tokenstore.NewMemory()
	_, c := newTestPair(t, httpclient.WithTokenStore(store))
	ctx := context.Background()

	// No token yet: 401 is classified and silently resolved.
	if out := c.Get(ctx, "/me", nil); out.State != httpclient.StateSilentlyResolved || out.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected silent 401, got %s %d", out.State, out.StatusCode)
	}

	token := loginAs(t, c, store, "ann")

	me, ok, err := httpclient.GetJSON[struct {
		User    string `json:"user"`
		Token   string `json:"token"`
		Session bool   `json:"session"`
	}](ctx, c, "/me", nil)
	if err != nil || !ok {
		t.Fatalf("me failed: ok=%v err=%v", ok, err)
	}
	if me.Token != token || me.User != "ann" {
		t.Errorf("unexpected identity %+v", me)
	}
	if !me.Session {
		t.Error("expected session cookie to be forwarded")
	}
}

func TestLogout_RevokedTokenIsForbidden(t *testing.T) {
	var hooked int
	store := tokenstore.NewMemory()
	_, c := newTestPair(t,
		httpclient.WithTokenStore(store),
		httpclient.WithStatusHook(http.StatusForbidden, func(context.Context, *httpclient.Error) { hooked++ }),
	)
	ctx := context.Background()

	token := loginAs(t, c, store, "ann")
	if out := c.Post(ctx, "/logout", nil); out.State != httpclient.StateSucceeded {
		t.Fatalf("logout: expected success, got %s %v", out.State, out.Err)
	}

	out := c.Get(ctx, "/me", nil)
	if out.State != httpclient.StateSilentlyResolved || out.StatusCode != http.StatusForbidden {
		t.Errorf("expected silent 403 after logout, got %s %d", out.State, out.StatusCode)
	}
	if hooked != 1 {
		t.Errorf("expected forbidden hook once, got %d", hooked)
	}

	// The same token presented again is still revoked.
	rejecting, err := httpclient.New(c.Config(), httpclient.WithTokenStore(tokenStoreWith(t, token)), httpclient.WithRejectOnStatus(true))
	if err != nil {
		t.Fatal(err)
	}
	out = rejecting.Get(ctx, "/me", nil)
	if !httpclient.IsForbidden(out.Err) {
		t.Errorf("expected forbidden error, got %v", out.Err)
	}
}

func TestMe_ExpiredTokenIsForbidden(t *testing.T) {
	store := tokenstore.NewMemory()
	s, c := newTestPair(t,
		httpclient.WithTokenStore(store),
		httpclient.WithRejectOnStatus(true),
	)
	ctx := context.Background()

	loginAs(t, c, store, "ann")
	s.sessions.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	out := c.Get(ctx, "/me", nil)
	if !httpclient.IsForbidden(out.Err) {
		t.Errorf("expected forbidden for an expired token, got %v", out.Err)
	}
	// Logging out with an expired token is accepted.
	if out := c.Post(ctx, "/logout", nil); out.State != httpclient.StateSucceeded {
		t.Errorf("logout with expired token: got %s %v", out.State, out.Err)
	}
}

func TestMe_ForeignTokenIsUnauthorized(t *testing.T) {
	other, err := New(Config{TokenSecret: "other-secret"}, "test", nil)
	if err != nil {
		t.Fatal(err)
	}
	foreign, err := other.sessions.issue("ann")
	if err != nil {
		t.Fatal(err)
	}

	_, c := newTestPair(t,
		httpclient.WithTokenStore(tokenStoreWith(t, foreign)),
		httpclient.WithRejectOnStatus(true),
	)
	ctx := context.Background()
	if out := c.Get(ctx, "/me", nil); !httpclient.IsUnauthorized(out.Err) {
		t.Errorf("expected unauthorized for a foreign token, got %v", out.Err)
	}
	if out := c.Post(ctx, "/logout", nil); !httpclient.IsUnauthorized(out.Err) {
		t.Errorf("expected unauthorized logout for a foreign token, got %v", out.Err)
	}
}

func TestStatus(t *testing.T) {
	_, c := newTestPair(t, httpclient.WithRejectOnStatus(true))
	ctx := context.Background()

	out := c.Get(ctx, "/status/404", nil)
	if !httpclient.IsNotFound(out.Err) {
		t.Errorf("expected not found, got %v", out.Err)
	}
	out = c.Get(ctx, "/status/503", nil)
	if !httpclient.IsServerError(out.Err) {
		t.Errorf("expected server error, got %v", out.Err)
	}
	out = c.Get(ctx, "/status/abc", nil)
	if e, ok := httpclient.AsError(out.Err); !ok || e.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad code, got %v", out.Err)
	}
}

func TestHealth(t *testing.T) {
	s, err := New(Config{}, "1.0.0", nil)
	if err != nil {
		t.Fatal(err)
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/health", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "up" || body.Version != "1.0.0" {
		t.Errorf("unexpected health %+v", body)
	}
	if rr.Header().Get(RequestIDHeader) == "" {
		t.Error("expected request id response header")
	}
}

func TestStartStop(t *testing.T) {
	s, err := New(Config{Port: -1}, "", nil)
	if err == nil {
		t.Fatal("expected invalid port error")
	}

	s, err = New(Config{Host: "127.0.0.1", Port: 0}, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	s.httpServer.Addr = "127.0.0.1:0"
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop(context.Background())

	resp, err := http.Get("http://" + s.Addr() + "/api/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

// loginAs logs in through the pipeline and stores the issued token.
func loginAs(t *testing.T, c *httpclient.Client, store *tokenstore.Memory, user string) string {
	t.Helper()
	ctx := context.Background()
	login, ok, err := httpclient.PostJSON[struct {
		Token string `json:"token"`
	}](ctx, c, "/login", map[string]string{"user": user})
	if err != nil || !ok || login.Token == "" {
		t.Fatalf("login failed: %+v ok=%v err=%v", login, ok, err)
	}
	if err := store.Set(ctx, "token", login.Token); err != nil {
		t.Fatal(err)
	}
	return login.Token
}

func tokenStoreWith(t *testing.T, token string) *tokenstore.Memory {
	t.Helper()
	store := tokenstore.NewMemory()
	if err := store.Set(context.Background(), "token", token); err != nil {
		t.Fatal(err)
	}
	return store
}
