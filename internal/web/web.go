// Package web turns pure page handlers into net/http handlers.
//
// A page handler receives a Request (current user, path params, form
// values) and returns a Response directive: either redirect somewhere or
// render a named template with data. The handler never touches the
// http.ResponseWriter, which keeps it easy to call from tests.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Request is the request-scoped input of a page handler.
type Request struct {
	UserID  int64
	Params  map[string]string
	Query   url.Values
	Form    url.Values
	Cookies []*http.Cookie
}

// Cookie returns the value of the named request cookie, or "".
func (r Request) Cookie(name string) string {
	for _, c := range r.Cookies {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// ParamInt parses a numeric path parameter such as {list_id}.
func (r Request) ParamInt(name string) (int64, error) {
	raw, ok := r.Params[name]
	if !ok || raw == "" {
		return 0, fmt.Errorf("missing path param %q", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid path param %q: %q", name, raw)
	}
	return id, nil
}

// Response is what a page handler wants done with the request.
type Response struct {
	Status     int
	Template   string
	Data       any
	RedirectTo string
	Cookies    []*http.Cookie
}

// IsRedirect reports whether the response is a redirect directive.
func (r Response) IsRedirect() bool { return r.RedirectTo != "" }

// WithCookie attaches a cookie to be set before the response is written.
func (r Response) WithCookie(c *http.Cookie) Response {
	r.Cookies = append(r.Cookies, c)
	return r
}

// HandlerFunc is a page handler.
type HandlerFunc func(ctx context.Context, req Request) Response

func Redirect(to string) Response {
	return Response{Status: http.StatusSeeOther, RedirectTo: to}
}

func Render(status int, tmpl string, data any) Response {
	return Response{Status: status, Template: tmpl, Data: data}
}

func OK(tmpl string, data any) Response {
	return Render(http.StatusOK, tmpl, data)
}

func NotFound() Response {
	return Render(http.StatusNotFound, "not_found.html", nil)
}

func BadRequest(msg string) Response {
	return Render(http.StatusBadRequest, "error.html", ErrorPage{Message: msg})
}

// ServerError logs err and renders a generic error page.
func ServerError(ctx context.Context, msg string, err error) Response {
	slog.ErrorContext(ctx, msg, "error", err)
	return Render(http.StatusInternalServerError, "error.html", ErrorPage{Message: "Something went wrong. Please try again."})
}

// ErrorPage backs error.html.
type ErrorPage struct {
	Message string
}

// ConfirmDeletePage backs confirm_delete.html.
type ConfirmDeletePage struct {
	Object string
	Action string
	Cancel string
}

// SafeNext returns next when it is a local absolute path, otherwise fallback.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}
