package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const baseLayout = "layouts/base.html"

// Renderer renders the dashboard pages. Each page is parsed together with the
// base layout once at startup.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses every page under pages/ in templatesFS.
func NewRenderer(templatesFS fs.FS) (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}

	entries, err := fs.ReadDir(templatesFS, "pages")
	if err != nil {
		return nil, fmt.Errorf("reading pages: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".html")
		tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, baseLayout, path.Join("pages", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}

	return r, nil
}

// Render satisfies echo.Renderer. The page is buffered so a template error
// never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatTime": func(t time.Time) string {
			return t.UTC().Format("2006-01-02 15:04 MST")
		},
		"lastLogin": func(t *time.Time) string {
			if t == nil {
				return "never"
			}
			return t.UTC().Format("2006-01-02 15:04 MST")
		},
	}
}
