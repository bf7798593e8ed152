package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mkerrall/waypost/internal/view"
)

// HandleDashboard renders the signed-in member dashboard. It runs behind
// RequireLogin and PersistSession, so the response is never cached and
// every visit re-saves the session.
func HandleDashboard(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	session := SessionFromContext(r.Context())

	data := struct {
		DisplayName    string
		Email          string
		MemberSince    time.Time
		SessionExpires time.Time
		Flashes        []FlashMessage
	}{
		DisplayName: user.DisplayName,
		Email:       user.Email,
		MemberSince: user.CreatedAt,
		Flashes:     PopFlashes(w, r),
	}
	if session != nil {
		data.SessionExpires = session.ExpiresAt
	}

	if err := view.Render(w, "dashboard.html", data); err != nil {
		slog.Error("render dashboard", "error", err)
	}
}

// HandleAPIDashboard returns the signed-in user's dashboard data for
// API clients. It runs behind RequireAuth.
// GET /api/dashboard
// Response: {"dashboard": {...}} or 401
func HandleAPIDashboard(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"dashboard": toDashboardDTO(user),
	})
}
