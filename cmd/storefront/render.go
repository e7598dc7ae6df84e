package main

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"finitefield.org/storefront-web/internal/handlers"
	"finitefield.org/storefront-web/internal/i18n"
	mw "finitefield.org/storefront-web/internal/middleware"
)

// views parses the layout, partials and one template set per page. In dev mode
// templates are reparsed on each render.
type views struct {
	dir     string
	devMode bool
	funcs   template.FuncMap

	mu        sync.RWMutex
	pages     map[string]*template.Template
	fragments *template.Template
}

func newViews(dir string, devMode bool, bundle *i18n.Bundle) (*views, error) {
	v := &views{dir: dir, devMode: devMode, funcs: templateFuncs(bundle)}
	if err := v.parse(); err != nil {
		return nil, err
	}
	return v, nil
}

func templateFuncs(bundle *i18n.Bundle) template.FuncMap {
	return template.FuncMap{
		"t": func(lang, key string, args ...any) string {
			return bundle.T(lang, key, args...)
		},
		"now": time.Now,
		"add": func(a, b int) int { return a + b },
		"dict": func(kv ...any) (map[string]any, error) {
			if len(kv)%2 != 0 {
				return nil, errors.New("dict: odd number of arguments")
			}
			m := make(map[string]any, len(kv)/2)
			for i := 0; i < len(kv); i += 2 {
				key, ok := kv[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
				}
				m[key] = kv[i+1]
			}
			return m, nil
		},
	}
}

// shared returns the layout and partial files every set includes.
func (v *views) shared() ([]string, error) {
	var files []string
	for _, sub := range []string{"layouts", "partials"} {
		matches, err := filepath.Glob(filepath.Join(v.dir, sub, "*.tmpl"))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", v.dir)
	}
	return files, nil
}

func (v *views) parse() error {
	shared, err := v.shared()
	if err != nil {
		return err
	}
	base, err := template.New("_root").Funcs(v.funcs).ParseFiles(shared...)
	if err != nil {
		return fmt.Errorf("parse shared templates: %w", err)
	}

	pages := map[string]*template.Template{}
	err = filepath.WalkDir(filepath.Join(v.dir, "pages"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".tmpl") {
			return nil
		}
		set, err := base.Clone()
		if err != nil {
			return err
		}
		if _, err := set.ParseFiles(path); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		pages[strings.TrimSuffix(d.Name(), ".tmpl")] = set
		return nil
	})
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.pages = pages
	v.fragments = base
	v.mu.Unlock()
	return nil
}

func (v *views) lookup(page string) (*template.Template, *template.Template, error) {
	if v.devMode {
		if err := v.parse(); err != nil {
			return nil, nil, err
		}
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.pages[page], v.fragments, nil
}

// renderPage executes the base layout with the page's content block.
func (a *app) renderPage(w http.ResponseWriter, r *http.Request, status int, page string, data handlers.PageData) {
	set, _, err := a.views.lookup(page)
	if err == nil && set == nil {
		err = fmt.Errorf("page template %q not found", page)
	}
	if err != nil {
		a.renderFailure(w, r, err)
		return
	}
	a.execute(w, r, status, set, "base", data)
}

// renderFragment executes one named partial, for htmx swaps.
func (a *app) renderFragment(w http.ResponseWriter, r *http.Request, name string, data handlers.PageData) {
	_, set, err := a.views.lookup("")
	if err != nil {
		a.renderFailure(w, r, err)
		return
	}
	a.execute(w, r, http.StatusOK, set, name, data)
}

func (a *app) execute(w http.ResponseWriter, r *http.Request, status int, set *template.Template, name string, data any) {
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, name, data); err != nil {
		a.renderFailure(w, r, fmt.Errorf("execute %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (a *app) renderFailure(w http.ResponseWriter, r *http.Request, err error) {
	a.requestLogger(r).Error("render failed", zap.Error(err))
	mw.WriteError(w, r, http.StatusInternalServerError, "template error")
}
