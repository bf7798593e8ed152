package handler

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/mkerrall/waypost/internal/domain"
	"github.com/mkerrall/waypost/internal/service"
	"github.com/mkerrall/waypost/internal/view"
)

// AuthHandler handles sign-in, sign-out, and registration, for both the
// browser (form + session cookie) and the JSON API (JWT cookie).
type AuthHandler struct {
	pipeline     *service.Pipeline
	accounts     *service.AccountService
	sessions     *service.SessionService
	tokens       *service.TokenService
	limiter      *service.LoginLimiter
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(pipeline *service.Pipeline, accounts *service.AccountService, sessions *service.SessionService, tokens *service.TokenService, limiter *service.LoginLimiter, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		pipeline:     pipeline,
		accounts:     accounts,
		sessions:     sessions,
		tokens:       tokens,
		limiter:      limiter,
		cookieSecure: cookieSecure,
	}
}

// HandleLoginPage renders the sign-in form.
// GET /login
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	// Already signed in? Straight to the dashboard.
	if _, _, err := authenticateSession(r, h.sessions); err == nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := struct {
		Next    string
		Flashes []FlashMessage
	}{
		Next:    sanitizeNext(r.URL.Query().Get("next")),
		Flashes: PopFlashes(w, r),
	}
	if err := view.Render(w, "login.html", data); err != nil {
		slog.Error("render login page", "error", err)
	}
}

// HandleLoginForm processes the sign-in form, establishes a session, and
// redirects to the originally requested page.
// POST /login
func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	next := r.PostFormValue("next")

	if !h.limiter.Allow(clientKey(r)) {
		AddFlash(w, r, FlashError, "Too many sign-in attempts. Please wait a moment and try again.")
		http.Redirect(w, r, loginURL(next), http.StatusSeeOther)
		return
	}

	user, err := h.pipeline.Authenticate(r.Context(), email, password)
	if err != nil {
		slog.Error("authenticate user", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		AddFlash(w, r, FlashError, "Invalid email or password.")
		http.Redirect(w, r, loginURL(next), http.StatusSeeOther)
		return
	}

	_, token, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		slog.Error("create session", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.setSessionCookie(w, token)
	http.Redirect(w, r, defaultNext(next), http.StatusSeeOther)
}

// HandleLogout revokes the session and clears the cookie.
// POST /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if err := h.sessions.Revoke(r.Context(), cookie.Value); err != nil {
			slog.Error("revoke session", "error", err)
		}
	}
	h.clearSessionCookie(w)
	AddFlash(w, r, FlashInfo, "You have been signed out.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleRegisterPage renders the registration form.
// GET /register
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Flashes []FlashMessage
	}{
		Flashes: PopFlashes(w, r),
	}
	if err := view.Render(w, "register.html", data); err != nil {
		slog.Error("render register page", "error", err)
	}
}

// HandleRegisterForm processes the registration form.
// POST /register
func (h *AuthHandler) HandleRegisterForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	_, err := h.accounts.Register(r.Context(),
		r.PostFormValue("email"),
		r.PostFormValue("display_name"),
		r.PostFormValue("password"),
		r.PostFormValue("confirm_password"),
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			AddFlash(w, r, FlashError, "An account with that email already exists.")
		case errors.Is(err, domain.ErrInvalidInput):
			AddFlash(w, r, FlashError, err.Error())
		default:
			slog.Error("register user", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	AddFlash(w, r, FlashInfo, "Account created. Please sign in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleAPILogin processes a JSON login request.
// POST /api/auth/login
// Request:  {"email":"...","password":"..."}
// Response: {"user": {...}}
func (h *AuthHandler) HandleAPILogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if !h.limiter.Allow(clientKey(r)) {
		writeError(w, http.StatusTooManyRequests, "Too many sign-in attempts.")
		return
	}

	user, err := h.pipeline.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		slog.Error("authenticate user", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		slog.Error("issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400, // 24 hours
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserDTO(user),
	})
}

// HandleAPILogout clears the auth cookie.
// POST /api/auth/logout
// Response: 204 No Content
func (h *AuthHandler) HandleAPILogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     authTokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

// HandleAPIMe returns the currently authenticated user.
// GET /api/auth/me
// Response: {"user": {...}} or 401
func (h *AuthHandler) HandleAPIMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserDTO(user),
	})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessions.TTL().Seconds()),
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// sanitizeNext keeps only same-site paths; anything else reads as empty.
func sanitizeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	return next
}

// defaultNext resolves the post-login destination.
func defaultNext(next string) string {
	if s := sanitizeNext(next); s != "" {
		return s
	}
	return "/dashboard"
}

func loginURL(next string) string {
	if s := sanitizeNext(next); s != "" {
		return "/login?next=" + url.QueryEscape(s)
	}
	return "/login"
}

// clientKey identifies the caller for rate limiting purposes.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
