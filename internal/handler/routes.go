package handler

import (
	"net/http"

	"github.com/mkerrall/waypost/internal/domain"
	"github.com/mkerrall/waypost/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(
	mux *http.ServeMux,
	pipeline *service.Pipeline,
	accounts *service.AccountService,
	sessions *service.SessionService,
	tokens *service.TokenService,
	users domain.UserRepository,
	limiter *service.LoginLimiter,
	cookieSecure bool,
) {
	auth := NewAuthHandler(pipeline, accounts, sessions, tokens, limiter, cookieSecure)

	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.Handle("GET /{$}", OptionalLogin(sessions, http.HandlerFunc(HandleHome)))
	mux.HandleFunc("GET /help", HandleHelpCenter)

	mux.HandleFunc("GET /login", auth.HandleLoginPage)
	mux.HandleFunc("POST /login", auth.HandleLoginForm)
	mux.HandleFunc("POST /logout", auth.HandleLogout)
	mux.HandleFunc("GET /register", auth.HandleRegisterPage)
	mux.HandleFunc("POST /register", auth.HandleRegisterForm)

	// The dashboard never caches and re-saves the session on every hit.
	dashboard := RequireLogin(sessions, PersistSession(sessions, http.HandlerFunc(HandleDashboard)))
	mux.Handle("GET /dashboard", dashboard)

	mux.HandleFunc("POST /api/auth/login", auth.HandleAPILogin)
	mux.HandleFunc("POST /api/auth/logout", auth.HandleAPILogout)
	mux.Handle("GET /api/auth/me", RequireAuth(tokens, users, http.HandlerFunc(auth.HandleAPIMe)))
	mux.Handle("GET /api/dashboard", RequireAuth(tokens, users, http.HandlerFunc(HandleAPIDashboard)))
}
