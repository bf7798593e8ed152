package handler

import (
	"log/slog"
	"net/http"

	"github.com/mkerrall/waypost/internal/view"
)

// HandleHome renders the home page.
func HandleHome(w http.ResponseWriter, r *http.Request) {
	displayName := ""
	if user := UserFromContext(r.Context()); user != nil {
		displayName = user.DisplayName
	}

	data := struct {
		DisplayName string
		Flashes     []FlashMessage
	}{
		DisplayName: displayName,
		Flashes:     PopFlashes(w, r),
	}
	if err := view.Render(w, "home.html", data); err != nil {
		slog.Error("render home page", "error", err)
	}
}
