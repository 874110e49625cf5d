package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"

	"github.com/ahmadqo/campus-console/internal/logger"
	"github.com/ahmadqo/campus-console/internal/middleware"
	"github.com/ahmadqo/campus-console/internal/model"
	"github.com/ahmadqo/campus-console/internal/resource"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"login.html", "dashboard.html", "list.html", "form.html", "confirm.html", "documents.html", "verify.html", "error.html"}

// view is what every page template receives.
type view struct {
	Title     string
	Operator  string
	Role      string
	CanWrite  bool
	CSRF      template.HTML
	Flash     string
	Error     string
	Resources []*resource.Definition
	Data      any
}

// Renderer holds the parsed page templates, each paired with the layout.
type Renderer struct {
	pages   map[string]*template.Template
	catalog *resource.Catalog
}

var templateFuncs = template.FuncMap{
	"lower": strings.ToLower,
	"join":  strings.Join,
	"isSelect": func(k resource.Kind) bool {
		return k == resource.Select
	},
	"isTextArea": func(k resource.Kind) bool {
		return k == resource.TextArea
	},
	"inputType": func(k resource.Kind) string {
		switch k {
		case resource.Number, resource.Date, resource.Time, resource.Email, resource.Color:
			return string(k)
		default:
			return "text"
		}
	},
	"add": func(a, b int) int { return a + b },
	"str": model.Stringify,
}

func NewRenderer(catalog *resource.Catalog) (*Renderer, error) {
	r := &Renderer{pages: map[string]*template.Template{}, catalog: catalog}
	for _, page := range pages {
		tpl, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[page] = tpl
	}
	return r, nil
}

// Render writes a full page. Output is buffered so a template error never
// leaves half a page behind.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, v view) {
	tpl, ok := rd.pages[page]
	if !ok {
		http.Error(w, "unknown page "+page, http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	v.Operator = middleware.GetNameFromContext(ctx)
	v.Role = middleware.GetRoleFromContext(ctx)
	v.CanWrite = model.Role(v.Role).CanWrite()
	v.CSRF = csrf.TemplateField(r)
	if v.Resources == nil {
		v.Resources = rd.catalog.All()
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, v); err != nil {
		logger.Error().Err(err).Str("page", page).Msg("render failed")
		http.Error(w, "Render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Fail renders the error page.
func (rd *Renderer) Fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := statusFor(err)
	if status >= 500 {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg(fallback)
	}
	rd.Render(w, r, status, "error.html", view{Title: "Error", Error: messageFor(err, fallback)})
}
