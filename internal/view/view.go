// Package view renders the application's HTML pages from embedded
// templates.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("waypost").Funcs(template.FuncMap{
	"flag":         Flag,
	"countryFlags": CountryFlags,
}).ParseFS(templateFS, "templates/*.html"))

// Render writes the named page to w.
func Render(w io.Writer, name string, data any) error {
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}
