package panel

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestHandler(t *testing.T) (*httptest.Server, *Handler) {
	t.Helper()
	store := setupTestStore(t)
	h := NewHandler(store)

	router := chi.NewRouter()
	router.Route("/panel", func(r chi.Router) {
		h.RegisterRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)
			r.Get("/secret", func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("granted"))
			})
		})
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, h
}

func noRedirectClient(srv *httptest.Server) *http.Client {
	client := srv.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return client
}

func TestStatusReportsSetupState(t *testing.T) {
	srv, h := setupTestHandler(t)

	resp, err := http.Get(srv.URL + "/panel/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["needs_setup"])
	assert.Equal(t, false, body["authenticated"])

	require.NoError(t, h.Auth().SetupPassword("correct-horse"))

	resp2, err := http.Get(srv.URL + "/panel/status")
	require.NoError(t, err)
	defer resp2.Body.Close()

	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&body))
	assert.Equal(t, false, body["needs_setup"])
}

func TestLoginSetsSessionCookie(t *testing.T) {
	srv, h := setupTestHandler(t)
	require.NoError(t, h.Auth().SetupPassword("correct-horse"))

	client := noRedirectClient(srv)
	resp, err := client.PostForm(srv.URL+"/panel/login", url.Values{"password": {"correct-horse"}})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/panel/routines", resp.Header.Get("Location"))

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.NotEmpty(t, session.Value)
	assert.True(t, session.HttpOnly)
}

func TestLoginWrongPassword(t *testing.T) {
	srv, h := setupTestHandler(t)
	require.NoError(t, h.Auth().SetupPassword("correct-horse"))

	resp, err := http.PostForm(srv.URL+"/panel/login", url.Values{"password": {"wrong"}})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Cookies())
}

func TestRequireAuthRedirectsFullPageRequests(t *testing.T) {
	srv, _ := setupTestHandler(t)

	client := noRedirectClient(srv)
	resp, err := client.Get(srv.URL + "/panel/secret")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/panel/login", resp.Header.Get("Location"))
}

func TestRequireAuthRejectsXHRWithJSON(t *testing.T) {
	srv, _ := setupTestHandler(t)

	req, err := http.NewRequest("GET", srv.URL+"/panel/secret", nil)
	require.NoError(t, err)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
}

func TestRequireAuthAllowsValidSession(t *testing.T) {
	srv, h := setupTestHandler(t)
	require.NoError(t, h.Auth().SetupPassword("correct-horse"))

	token, err := h.sessions.Create()
	require.NoError(t, err)

	req, err := http.NewRequest("GET", srv.URL+"/panel/secret", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogoutDestroysSession(t *testing.T) {
	srv, h := setupTestHandler(t)
	require.NoError(t, h.Auth().SetupPassword("correct-horse"))

	token, err := h.sessions.Create()
	require.NoError(t, err)

	client := noRedirectClient(srv)
	resp, err := client.Post(srv.URL+"/panel/logout", "", nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.False(t, h.sessions.Validate(token))
}
