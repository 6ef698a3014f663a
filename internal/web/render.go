package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templateFS embed.FS

// IdentityFunc extracts the authenticated user id from a request context.
type IdentityFunc func(ctx context.Context) (int64, bool)

// Renderer executes page templates and adapts page handlers.
type Renderer struct {
	pages    map[string]*template.Template
	identity IdentityFunc
}

// page is the value every template is executed with.
type page struct {
	Authenticated bool
	Data          any
}

func NewRenderer(identity IdentityFunc) (*Renderer, error) {
	funcs := template.FuncMap{
		"formatDate": formatDate,
	}

	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		base := name[len("templates/"):]
		if base == "base.html" {
			continue
		}
		t, err := template.New(base).Funcs(funcs).ParseFS(templateFS, "templates/base.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", base, err)
		}
		pages[base] = t
	}

	return &Renderer{pages: pages, identity: identity}, nil
}

func formatDate(value *time.Time) string {
	if value == nil || value.IsZero() {
		return ""
	}
	return value.Format("2006-01-02")
}

// Adapt converts a page handler into an http.HandlerFunc.
func (rd *Renderer) Adapt(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := r.ParseForm(); err != nil {
			rd.Write(w, r, BadRequest("malformed form data"))
			return
		}

		req := Request{
			Params:  urlParams(r),
			Query:   r.URL.Query(),
			Form:    r.PostForm,
			Cookies: r.Cookies(),
		}
		if rd.identity != nil {
			req.UserID, _ = rd.identity(ctx)
		}

		rd.Write(w, r, fn(ctx, req))
	}
}

func urlParams(r *http.Request) map[string]string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return map[string]string{}
	}
	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, k := range rctx.URLParams.Keys {
		params[k] = rctx.URLParams.Values[i]
	}
	return params
}

// Write carries out a Response directive.
func (rd *Renderer) Write(w http.ResponseWriter, r *http.Request, resp Response) {
	for _, c := range resp.Cookies {
		http.SetCookie(w, c)
	}

	if resp.IsRedirect() {
		status := resp.Status
		if status == 0 {
			status = http.StatusSeeOther
		}
		http.Redirect(w, r, resp.RedirectTo, status)
		return
	}

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	authenticated := false
	if rd.identity != nil {
		_, authenticated = rd.identity(r.Context())
	}
	rd.render(w, r, status, resp.Template, page{Authenticated: authenticated, Data: resp.Data})
}

func (rd *Renderer) render(w http.ResponseWriter, r *http.Request, status int, name string, data page) {
	t, ok := rd.pages[name]
	if !ok {
		slog.ErrorContext(r.Context(), "unknown template", "template", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		slog.ErrorContext(r.Context(), "render template", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
