package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Nasaee/go-todo-lists/internal/user"
)

// userSet answers Get for the ids it holds.
type userSet map[int64]bool

func (s userSet) Get(_ context.Context, id int64) (*user.User, error) {
	if !s[id] {
		return nil, user.ErrNotFound
	}
	return &user.User{ID: id}, nil
}

func TestRequireUserRedirectsAnonymous(t *testing.T) {
	called := false
	h := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/list/3/delete/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if called {
		t.Fatal("protected handler must not run for anonymous requests")
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login/?next=%2Flist%2F3%2Fdelete%2F" {
		t.Fatalf("unexpected Location %q", loc)
	}
}

func TestLoadUserThenRequireUser(t *testing.T) {
	svc := NewSessionService("test-secret", time.Hour, newMemStore())
	token, _, err := svc.Create(context.Background(), 9)
	if err != nil {
		t.Fatal(err)
	}

	var seen int64
	h := LoadUser(svc, userSet{9: true})(RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(SessionCookie(token, time.Hour, false))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen != 9 {
		t.Fatalf("expected user 9 in context, got %d", seen)
	}
}

func TestLoadUserIgnoresBadCookie(t *testing.T) {
	svc := NewSessionService("test-secret", time.Hour, newMemStore())
	h := LoadUser(svc, userSet{})(RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach protected handler")
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-jwt"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
}

func TestLoadUserRevokesSessionOfMissingUser(t *testing.T) {
	svc := NewSessionService("test-secret", time.Hour, newMemStore())
	ctx := context.Background()
	token, _, err := svc.Create(ctx, 9)
	if err != nil {
		t.Fatal(err)
	}

	h := LoadUser(svc, userSet{})(RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach protected handler")
	})))

	req := httptest.NewRequest(http.MethodPost, "/list/add/", nil)
	req.AddCookie(SessionCookie(token, time.Hour, false))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect to login, got %d", rec.Code)
	}
	if _, err := svc.Resolve(ctx, token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected session to be revoked, got %v", err)
	}
}

func TestRedirectIfAuthenticated(t *testing.T) {
	h := RedirectIfAuthenticated("/")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	anon := httptest.NewRecorder()
	h.ServeHTTP(anon, httptest.NewRequest(http.MethodGet, "/login/", nil))
	if anon.Code != http.StatusTeapot {
		t.Fatalf("anonymous: expected handler to run, got %d", anon.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/login/", nil)
	req = req.WithContext(ContextWithUserID(req.Context(), 1))
	authed := httptest.NewRecorder()
	h.ServeHTTP(authed, req)
	if authed.Code != http.StatusFound || authed.Header().Get("Location") != "/" {
		t.Fatalf("authenticated: expected redirect to /, got %d %q", authed.Code, authed.Header().Get("Location"))
	}
}
