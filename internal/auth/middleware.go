package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/Nasaee/go-todo-lists/internal/user"
)

const SessionCookieName = "sessionid"

const LoginURL = "/login/"

// ---- context key for the authenticated user id ----

type ctxKey string

const ctxKeyUserID ctxKey = "userID"

func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, ctxKeyUserID, userID)
}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(ctxKeyUserID)
	if v == nil {
		return 0, false
	}

	id, ok := v.(int64)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

// ---- session cookie ----

func SessionCookie(token string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
	}
}

func ExpiredSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	}
}

// UserLookup is the part of user.UserService the session middleware needs.
type UserLookup interface {
	Get(ctx context.Context, id int64) (*user.User, error)
}

// LoadUser resolves the session cookie, when present, and stores the user id
// in the request context. Requests without a valid session pass through
// anonymously. A session whose user no longer exists is revoked.
func LoadUser(ss SessionService, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := ss.Resolve(ctx, cookie.Value)
			if err != nil {
				if !errors.Is(err, ErrInvalidSession) && !errors.Is(err, ErrExpiredSession) {
					slog.ErrorContext(ctx, "resolve session", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			if _, err := users.Get(ctx, userID); err != nil {
				if !errors.Is(err, user.ErrNotFound) {
					slog.ErrorContext(ctx, "load session user", "user_id", userID, "error", err)
					next.ServeHTTP(w, r)
					return
				}
				if err := ss.Revoke(ctx, cookie.Value); err != nil {
					slog.ErrorContext(ctx, "revoke orphaned session", "user_id", userID, "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUserID(ctx, userID)))
		})
	}
}

// RequireUser redirects anonymous requests to the login page, remembering
// where they were headed in the "next" query parameter.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			http.Redirect(w, r, LoginURL+"?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectIfAuthenticated sends logged-in users away from the login and
// register pages.
func RedirectIfAuthenticated(to string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserIDFromContext(r.Context()); ok {
				http.Redirect(w, r, to, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
