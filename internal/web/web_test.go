package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

type ctxKey struct{}

func testIdentity(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKey{}).(int64)
	return id, ok
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	rd, err := NewRenderer(testIdentity)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return rd
}

func TestRendererParsesAllPages(t *testing.T) {
	rd := newTestRenderer(t)
	for _, name := range []string{"index.html", "list.html", "list_form.html", "item_form.html", "confirm_delete.html", "login.html", "register.html", "not_found.html", "error.html"} {
		if _, ok := rd.pages[name]; !ok {
			t.Fatalf("missing page %s", name)
		}
	}
	if _, ok := rd.pages["base.html"]; ok {
		t.Fatal("base.html must not be registered as a page")
	}
}

func TestAdaptPassesParamsFormAndUser(t *testing.T) {
	rd := newTestRenderer(t)

	var got Request
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, int64(7))))
		})
	})
	r.Post("/list/{list_id}/item/add/", rd.Adapt(func(ctx context.Context, req Request) Response {
		got = req
		return Redirect("/list/" + req.Params["list_id"] + "/")
	}))

	body := url.Values{"title": {"Milk"}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/list/3/item/add/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/list/3/" {
		t.Fatalf("unexpected Location %q", loc)
	}
	if got.UserID != 7 {
		t.Fatalf("expected user 7, got %d", got.UserID)
	}
	if got.Form.Get("title") != "Milk" {
		t.Fatalf("expected form title Milk, got %q", got.Form.Get("title"))
	}
	if id, err := got.ParamInt("list_id"); err != nil || id != 3 {
		t.Fatalf("ParamInt = %d, %v", id, err)
	}
}

func TestWriteRendersStatusAndCookies(t *testing.T) {
	rd := newTestRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()
	rd.Write(rec, req, NotFound().WithCookie(&http.Cookie{Name: "flash", Value: "x"}))

	resp := rec.Result()
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if len(resp.Cookies()) != 1 || resp.Cookies()[0].Name != "flash" {
		t.Fatalf("expected flash cookie, got %v", resp.Cookies())
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Not found") {
		t.Fatalf("unexpected body %s", body)
	}
	if strings.Contains(string(body), "Log out") {
		t.Fatal("anonymous page must not show the logout button")
	}
}

func TestParamInt(t *testing.T) {
	req := Request{Params: map[string]string{"pk": "12", "bad": "x1", "neg": "-4"}}
	if id, err := req.ParamInt("pk"); err != nil || id != 12 {
		t.Fatalf("pk = %d, %v", id, err)
	}
	for _, name := range []string{"bad", "neg", "missing"} {
		if _, err := req.ParamInt(name); err == nil {
			t.Fatalf("expected error for %s", name)
		}
	}
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"":                     "/",
		"/list/1/":             "/list/1/",
		"//evil.example":       "/",
		"https://evil.example": "/",
		"/\\evil":              "/",
	}
	for in, want := range tests {
		if got := SafeNext(in, "/"); got != want {
			t.Fatalf("SafeNext(%q) = %q, want %q", in, got, want)
		}
	}
}
