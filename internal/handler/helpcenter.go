package handler

import (
	"log/slog"
	"net/http"

	"github.com/mkerrall/waypost/internal/view"
)

type region struct {
	Code string
	Name string
}

// supportedRegions is the coverage list shown in the help center.
var supportedRegions = []region{
	{"US", "United States"},
	{"CA", "Canada"},
	{"GB", "United Kingdom"},
	{"FR", "France"},
	{"DE", "Germany"},
	{"ES", "Spain"},
	{"IT", "Italy"},
	{"JP", "Japan"},
	{"AU", "Australia"},
	{"NZ", "New Zealand"},
}

// HandleHelpCenter renders the static help center page.
// GET /help
func HandleHelpCenter(w http.ResponseWriter, r *http.Request) {
	codes := make([]string, len(supportedRegions))
	for i, reg := range supportedRegions {
		codes[i] = reg.Code
	}

	data := struct {
		Regions  []region
		AllCodes []string
	}{
		Regions:  supportedRegions,
		AllCodes: codes,
	}
	if err := view.Render(w, "help.html", data); err != nil {
		slog.Error("render help center", "error", err)
	}
}
