package delivery

import (
	"embed"
	"html/template"
	"sync"
)

//go:embed templates/*.html
var templateFS embed.FS

// Declare global variables for all your templates.
var (
	loginTemplate *template.Template
	errorTemplate *template.Template

	parseOnce sync.Once
)

// ParseAllTemplates pre-parses all HTML templates once, at router construction.
func ParseAllTemplates() {
	parseOnce.Do(func() {
		loginTemplate = template.Must(template.ParseFS(templateFS, "templates/login.html"))
		errorTemplate = template.Must(template.ParseFS(templateFS, "templates/error.html"))
	})
}
