package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/MKhiriev/go-tour-booking/models"
)

// Rendered pages.
const (
	viewOverview = "overview"
	viewTour     = "tour"
	viewLogin    = "login"
	viewAccount  = "account"
	viewError    = "error"
)

//go:embed templates/*.html
var viewFS embed.FS

// viewData is the data every page template receives.
type viewData struct {
	Title   string
	Msg     string
	Alert   string
	User    *models.User
	Tour    *models.Tour
	Tours   []models.Tour
	Reviews []models.Review
}

// viewRenderer renders the embedded page templates inside the shared layout.
type viewRenderer struct {
	pages map[string]*template.Template
}

func newViewRenderer() (*viewRenderer, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{viewOverview, viewTour, viewLogin, viewAccount, viewError} {
		tmpl, err := template.ParseFS(viewFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("error parsing %s view: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &viewRenderer{pages: pages}, nil
}

// render executes page into a buffer first so a template error never leaves
// a half-written page behind.
func (v *viewRenderer) render(w http.ResponseWriter, statusCode int, page string, data viewData) error {
	tmpl, ok := v.pages[page]
	if !ok {
		return fmt.Errorf("unknown view %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("error rendering %s view: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err := buf.WriteTo(w)

	return err
}
