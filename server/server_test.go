package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syedmojiz72-lab/agentexchanger/config"
	"github.com/syedmojiz72-lab/agentexchanger/session"
	"github.com/syedmojiz72-lab/agentexchanger/store"
)

type testEnv struct {
	router   *gin.Engine
	store    *store.SQLiteStore
	sessions session.Directory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := &config.Config{
		Features: config.FeatureFlags{StatsEnabled: true},
	}
	sessions := session.NewMemoryDirectory()

	srv := NewServer(cfg, st, sessions)
	router := gin.New()
	srv.RegisterRoutes(router)

	return &testEnv{router: router, store: st, sessions: sessions}
}

func (e *testEnv) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) postForm(path string, form url.Values, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sessionID != "" {
		req.Header.Set("X-Session-Id", sessionID)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(path, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sessionID != "" {
		req.Header.Set("X-Session-Id", sessionID)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func submitForm(name string) url.Values {
	return url.Values{
		"name":        {name},
		"description": {"d"},
		"category":    {"Other"},
		"link":        {"http://x.com"},
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.postJSON("/api/login", `{"walletAddress":"0xabc","signature":"sig"}`)
	require.Equal(t, 200, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "0xabc", resp.WalletAddress)
	require.NotEmpty(t, resp.SessionID)

	wallet, ok := env.sessions.Resolve(resp.SessionID)
	require.True(t, ok)
	assert.Equal(t, "0xabc", wallet)

	// User row was upserted
	user, err := env.store.GetUser("0xabc")
	require.NoError(t, err)
	assert.Equal(t, "0xabc", user.WalletAddress)
}

func TestLogin_MissingWallet(t *testing.T) {
	env := newTestEnv(t)

	w := env.postJSON("/api/login", `{"signature":"sig"}`)
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "walletAddress")
}

func TestLogoutAndProfile(t *testing.T) {
	env := newTestEnv(t)

	w := env.postJSON("/api/login", `{"walletAddress":"0xabc","signature":"sig"}`)
	require.Equal(t, 200, w.Code)
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// Profile resolves through the session header
	w = env.get("/api/profile", resp.SessionID)
	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "0xabc")

	// Logout always reports success
	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.Header.Set("X-Session-Id", resp.SessionID)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "true")

	// Session is gone
	w = env.get("/api/profile", resp.SessionID)
	assert.Equal(t, 401, w.Code)
}

func TestProfile_NoSession(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/api/profile", "")
	assert.Equal(t, 401, w.Code)
}

func TestSubmit_RedirectsToDetail(t *testing.T) {
	env := newTestEnv(t)

	w := env.postForm("/submit", submitForm("Bot1"), "")
	require.Equal(t, 303, w.Code)
	assert.Equal(t, "/agent/1", w.Header().Get("Location"))

	// The detail page renders the stored agent
	w = env.get("/agent/1", "")
	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "Bot1")
}

func TestSubmit_ValidationFailure(t *testing.T) {
	env := newTestEnv(t)

	form := submitForm("Bot1")
	form.Set("link", "not a url")
	w := env.postForm("/submit", form, "")
	assert.Equal(t, 400, w.Code)

	form = submitForm("Bot1")
	form.Del("description")
	w = env.postForm("/submit", form, "")
	assert.Equal(t, 400, w.Code)
}

func TestSubmit_CreatorFromSession(t *testing.T) {
	env := newTestEnv(t)

	w := env.postJSON("/api/login", `{"walletAddress":"0xabc","signature":"sig"}`)
	require.Equal(t, 200, w.Code)
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = env.postForm("/submit", submitForm("Bot1"), resp.SessionID)
	require.Equal(t, 303, w.Code)

	agent, err := env.store.GetAgent(1)
	require.NoError(t, err)
	assert.Equal(t, "0xabc", agent.CreatorWallet)
}

func TestFork_RedirectsPrefilled(t *testing.T) {
	env := newTestEnv(t)

	w := env.postForm("/submit", submitForm("Bot1"), "")
	require.Equal(t, 303, w.Code)

	w = env.get("/fork/1", "")
	require.Equal(t, 302, w.Code)
	location := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/submit?"), "unexpected location %s", location)

	parsed, err := url.Parse(location)
	require.NoError(t, err)
	q := parsed.Query()
	assert.Equal(t, "Fork of Bot1", q.Get("name"))
	assert.Equal(t, "Other", q.Get("category"))
	assert.Equal(t, "1", q.Get("original_agent_id"))
}

func TestFork_UnknownAgent(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/fork/99", "")
	require.Equal(t, 302, w.Code)
	assert.Equal(t, "/browse", w.Header().Get("Location"))

	w = env.get("/fork/abc", "")
	require.Equal(t, 302, w.Code)
	assert.Equal(t, "/browse", w.Header().Get("Location"))
}

func TestFork_FullFlow(t *testing.T) {
	env := newTestEnv(t)

	w := env.postForm("/submit", submitForm("Bot1"), "")
	require.Equal(t, 303, w.Code)

	form := submitForm("Fork of Bot1")
	form.Set("original_agent_id", "1")
	w = env.postForm("/submit", form, "")
	require.Equal(t, 303, w.Code)
	assert.Equal(t, "/agent/2", w.Header().Get("Location"))

	parent, err := env.store.GetAgent(1)
	require.NoError(t, err)
	assert.Equal(t, 1, parent.ForkCount)
}

func TestRate_Flow(t *testing.T) {
	env := newTestEnv(t)

	w := env.postForm("/submit", submitForm("Bot1"), "")
	require.Equal(t, 303, w.Code)

	login := env.postJSON("/api/login", `{"walletAddress":"0xabc","signature":"sig"}`)
	require.Equal(t, 200, login.Code)
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &resp))

	form := url.Values{"agent_id": {"1"}, "stars": {"5"}, "comment": {"great"}}
	w = env.postForm("/rate", form, resp.SessionID)
	require.Equal(t, 302, w.Code)
	assert.Equal(t, "/agent/1", w.Header().Get("Location"))

	// Same wallet rating twice redirects with the error flag
	w = env.postForm("/rate", form, resp.SessionID)
	require.Equal(t, 302, w.Code)
	assert.Equal(t, "/agent/1?error=already_rated", w.Header().Get("Location"))

	ratings, err := env.store.RatingsForAgent(1)
	require.NoError(t, err)
	assert.Len(t, ratings, 1)
}

func TestRate_InvalidInput(t *testing.T) {
	env := newTestEnv(t)

	w := env.postForm("/submit", submitForm("Bot1"), "")
	require.Equal(t, 303, w.Code)

	// Out-of-range stars: silent redirect, no row
	form := url.Values{"agent_id": {"1"}, "stars": {"6"}}
	w = env.postForm("/rate", form, "")
	require.Equal(t, 302, w.Code)
	assert.Equal(t, "/agent/1", w.Header().Get("Location"))

	// Non-integer stars
	form.Set("stars", "lots")
	w = env.postForm("/rate", form, "")
	require.Equal(t, 302, w.Code)

	// Non-integer agent id
	form = url.Values{"agent_id": {"abc"}, "stars": {"3"}}
	w = env.postForm("/rate", form, "")
	require.Equal(t, 302, w.Code)
	assert.Equal(t, "/browse", w.Header().Get("Location"))

	ratings, err := env.store.RatingsForAgent(1)
	require.NoError(t, err)
	assert.Len(t, ratings, 0)
}

func TestBrowse_RendersListings(t *testing.T) {
	env := newTestEnv(t)

	w := env.postForm("/submit", submitForm("SearchableBot"), "")
	require.Equal(t, 303, w.Code)

	w = env.get("/browse", "")
	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "SearchableBot")

	// Filters are honored
	w = env.get("/browse?search=nomatch", "")
	require.Equal(t, 200, w.Code)
	assert.NotContains(t, w.Body.String(), "SearchableBot")
}

func TestAgentDetail_Unknown(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/agent/99", "")
	require.Equal(t, 302, w.Code)
	assert.Equal(t, "/browse", w.Header().Get("Location"))
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/health", "")
	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)

	w := env.postForm("/submit", submitForm("Bot1"), "")
	require.Equal(t, 303, w.Code)

	w = env.get("/stats", "")
	assert.Equal(t, 200, w.Code)
}
