package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/mkerrall/waypost/internal/domain"
	"github.com/mkerrall/waypost/internal/service"
)

type contextKey string

const (
	userContextKey    contextKey = "user"
	sessionContextKey contextKey = "session"
)

const (
	sessionCookieName = "waypost_session"
	authTokenCookie   = "auth_token"
)

// UserFromContext extracts the authenticated user from the request context.
// Returns nil if no user is authenticated.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}

// SessionFromContext extracts the browser session from the request context.
// Returns nil for requests authenticated another way (or not at all).
func SessionFromContext(ctx context.Context) *domain.Session {
	session, _ := ctx.Value(sessionContextKey).(*domain.Session)
	return session
}

// RequireLogin protects browser pages. Requests without a valid session
// get a flash notice and a redirect to the login page, carrying the
// originally requested path in the next parameter.
func RequireLogin(sessions *service.SessionService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, session, err := authenticateSession(r, sessions)
		if err != nil {
			// A store failure is not a sign-out; only genuinely
			// unauthenticated requests get the login redirect.
			if !errors.Is(err, domain.ErrUnauthorized) && !errors.Is(err, http.ErrNoCookie) {
				slog.Error("authenticate session", "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			AddFlash(w, r, FlashInfo, "Please sign in to access this page.")
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalLogin attempts session authentication but never blocks. A
// valid session puts the user into context; otherwise the request
// proceeds anonymously.
func OptionalLogin(sessions *service.SessionService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, session, err := authenticateSession(r, sessions)
		if err == nil && user != nil {
			ctx := context.WithValue(r.Context(), userContextKey, user)
			ctx = context.WithValue(ctx, sessionContextKey, session)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// PersistSession forces the session to be saved on every hit and marks
// the response uncacheable. It must run inside RequireLogin.
func PersistSession(sessions *service.SessionService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session := SessionFromContext(r.Context()); session != nil {
			if err := sessions.Touch(r.Context(), session); err != nil {
				slog.Error("touch session", "error", err)
			}
		}

		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

// RequireAuth protects API routes using the JWT cookie. Unauthenticated
// requests get a 401 JSON error.
func RequireAuth(tokens *service.TokenService, users domain.UserRepository, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := authenticateToken(r, tokens, users)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Not authenticated.")
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SecurityHeaders sets baseline security headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func authenticateSession(r *http.Request, sessions *service.SessionService) (*domain.User, *domain.Session, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil, nil, err
	}
	return sessions.Authenticate(r.Context(), cookie.Value)
}

func authenticateToken(r *http.Request, tokens *service.TokenService, users domain.UserRepository) (*domain.User, error) {
	cookie, err := r.Cookie(authTokenCookie)
	if err != nil {
		return nil, err
	}
	userID, err := tokens.Validate(cookie.Value)
	if err != nil {
		return nil, err
	}
	return users.GetByID(r.Context(), userID)
}
