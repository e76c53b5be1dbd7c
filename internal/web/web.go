// Package web serves the server-rendered shells: the public webapp and the
// admin dashboard. Both compose the shared theme and UI components.
package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vaughan-dsouza/alramy/internal/store"
	"github.com/vaughan-dsouza/alramy/internal/theme"
	"github.com/vaughan-dsouza/alramy/internal/ui"
)

//go:embed templates/*.html
var templateFS embed.FS

// App is one site shell with its own title and theme.
type App struct {
	Title       string
	Description string
	Theme       theme.Theme
	// Mount is the path prefix the app is served under.
	Mount string

	store  *store.Store
	logger *zap.Logger
	pages  map[string]*template.Template
	css    string
}

func newApp(mount, title, description string, th theme.Theme, st *store.Store, logger *zap.Logger) (*App, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	return &App{
		Title:       title,
		Description: description,
		Theme:       th,
		Mount:       mount,
		store:       st,
		logger:      logger,
		pages:       pages,
		css:         th.CSS(),
	}, nil
}

// parsePages pairs layout.html with every other page, the way each page gets
// its own template set.
func parsePages() (map[string]*template.Template, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		base := path.Base(name)
		if base == "layout.html" {
			continue
		}
		t, err := ui.Parse(template.New(base).Funcs(funcs()))
		if err != nil {
			return nil, err
		}
		if t, err = t.ParseFS(templateFS, "templates/layout.html", name); err != nil {
			return nil, err
		}
		pages[strings.TrimSuffix(base, ".html")] = t
	}
	return pages, nil
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"markdown": Markdown,
		"date":     func(t time.Time) string { return t.Format("January 2, 2006") },
	}
}

type layoutData struct {
	Title       string
	Description string
	AppTitle    string
	ThemeURL    string
	Page        any
}

func (a *App) render(w http.ResponseWriter, status int, page, title string, data any) {
	t, ok := a.pages[page]
	if !ok {
		a.logger.Error("unknown page", zap.String("page", page))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if title == "" {
		title = a.Title
	} else {
		title = title + " | " + a.Title
	}

	var buf bytes.Buffer
	err := t.ExecuteTemplate(&buf, "layout", layoutData{
		Title:       title,
		Description: a.Description,
		AppTitle:    a.Title,
		ThemeURL:    strings.TrimSuffix(a.Mount, "/") + "/theme.css",
		Page:        data,
	})
	if err != nil {
		a.logger.Error("render page", zap.String("page", page), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// ThemeCSS serves the app's tokens as CSS custom properties.
func (a *App) ThemeCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write([]byte(a.css))
}
