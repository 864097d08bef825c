// Package templates holds the embedded HTML pages.
package templates

import (
	"embed"
	"html/template"
	"time"
)

//go:embed *.html
var files embed.FS

// Parse compiles every embedded page with the shared helper functions.
func Parse() (*template.Template, error) {
	funcs := template.FuncMap{
		"clock": func(t time.Time) string {
			return t.Format("3:04 PM")
		},
		"appointment": func(t time.Time) string {
			// Matches the "YYYY-MM-DD at h:mm AM" wording used across
			// the dashboards.
			return t.Format("2006-01-02 at 3:04 PM")
		},
		"daykey": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
		"monthName": func(m time.Month) string {
			return m.String()
		},
	}
	return template.New("").Funcs(funcs).ParseFS(files, "*.html")
}
