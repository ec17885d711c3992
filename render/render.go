// Package render turns view models into HTML. It has no knowledge of HTTP beyond
// implementing gin's HTMLRender, so pages can be rendered into any io.Writer in tests.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	ginrender "github.com/gin-gonic/gin/render"

	"biblioteca_portal/models"
	"biblioteca_portal/session"
	"biblioteca_portal/views"
)

//go:embed templates/*.html
var files embed.FS

// page names
const (
	Login        = "login"
	Dashboard    = "dashboard"
	Catalog      = "catalogo"
	Loans        = "prestamos"
	Reservations = "reservas"
)

var pageNames = []string{Login, Dashboard, Catalog, Loans, Reservations}

// Page is what every template receives
type Page struct {
	Title    string
	Active   views.Page
	Nav      []views.NavItem
	User     *models.User
	Flashes  []session.Flash
	Counters *views.Counters
	// Content is the page specific view model
	Content any
}

type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"lines":      func(s string) []string { return strings.Split(s, "\n") },
	"short":      views.ShortID,
	"fine":       views.FineLabel,
	"loanStatus": views.LoanStatusLabel,
	"activity":   views.ActivityLabel,
}

func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Render writes page name with data to w
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("render: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}

// Instance implements gin's render.HTMLRender
func (r *Renderer) Instance(name string, data any) ginrender.Render {
	return ginrender.HTML{Template: r.pages[name], Name: "layout.html", Data: data}
}
