package panel

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const sessionCookieName = "_routinepanel_session"

// Handler serves panel authentication endpoints and gates the admin surface.
type Handler struct {
	store    *Store
	auth     *Auth
	sessions *SessionManager
}

// NewHandler creates a new Handler.
func NewHandler(store *Store) *Handler {
	return &Handler{
		store:    store,
		auth:     NewAuth(store),
		sessions: NewSessionManager(store),
	}
}

// Auth returns the auth component, used by CLI commands.
func (h *Handler) Auth() *Auth {
	return h.auth
}

// RegisterRoutes registers the panel auth routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/login", h.handleLoginPage)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/status", h.handleStatus)
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(loginPage))
}

const loginPage = `<!DOCTYPE html>
<html>
<head><title>routinepanel</title></head>
<body>
<h1>routinepanel</h1>
<form method="post" action="login">
  <label>Password <input type="password" name="password"></label>
  <button type="submit">Sign in</button>
</form>
</body>
</html>
`

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	authenticated := false

	cookie, err := r.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		authenticated = h.sessions.Validate(cookie.Value)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"needs_setup":   h.auth.NeedsSetup(),
		"authenticated": authenticated,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	password := r.PostFormValue("password")
	if password == "" {
		var req struct {
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			password = req.Password
		}
	}

	if !h.auth.VerifyPassword(password) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid password"})
		return
	}

	token, err := h.sessions.Create()
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to create session"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/panel",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   86400, // 24 hours
	})

	http.Redirect(w, r, "/panel/routines", http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Destroy()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/panel",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1, // Delete cookie
	})

	http.Redirect(w, r, "/panel/login", http.StatusSeeOther)
}

// RequireAuth gates routes behind a valid session cookie. Partial
// (XHR) requests get a JSON 401; full-page requests are redirected to
// the login form.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" || !h.sessions.Validate(cookie.Value) {
			if r.Header.Get("X-Requested-With") == "XMLHttpRequest" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
				return
			}
			http.Redirect(w, r, "/panel/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
