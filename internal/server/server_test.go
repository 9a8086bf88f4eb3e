package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwarner/routinepanel/internal/db"
	"github.com/cwarner/routinepanel/internal/panel"
)

func setupTestServer(t *testing.T) (*httptest.Server, *db.DB) {
	t.Helper()
	path := t.TempDir() + "/test.db"
	database, err := db.New(path)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations())
	t.Cleanup(func() { database.Close() })

	s := New(database, Config{DatabaseName: "shopdb", PageSize: 10})
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return srv, database
}

func noRedirectClient(srv *httptest.Server) *http.Client {
	client := srv.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return client
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := setupTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestRootRedirectsToRoutines(t *testing.T) {
	srv, _ := setupTestServer(t)

	resp, err := noRedirectClient(srv).Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/panel/routines", resp.Header.Get("Location"))
}

func TestRoutinesRequireSession(t *testing.T) {
	srv, _ := setupTestServer(t)

	resp, err := noRedirectClient(srv).Get(srv.URL + "/panel/routines")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/panel/login", resp.Header.Get("Location"))
}

func TestLoginThenListRoutines(t *testing.T) {
	srv, database := setupTestServer(t)

	store := panel.NewStore(database.DB)
	require.NoError(t, panel.NewAuth(store).SetupPassword("correct-horse"))

	client := noRedirectClient(srv)
	resp, err := client.PostForm(srv.URL+"/panel/login", url.Values{"password": {"correct-horse"}})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	req, err := http.NewRequest("GET", srv.URL+"/panel/routines", nil)
	require.NoError(t, err)
	for _, c := range resp.Cookies() {
		req.AddCookie(c)
	}

	resp2, err := client.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()

	assert.Equal(t, http.StatusOK, resp2.StatusCode)
	assert.Contains(t, resp2.Header.Get("Content-Type"), "text/html")
}
