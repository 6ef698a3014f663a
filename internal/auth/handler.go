package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/Nasaee/go-todo-lists/internal/form"
	"github.com/Nasaee/go-todo-lists/internal/user"
	"github.com/Nasaee/go-todo-lists/internal/web"
)

type LoginPage struct {
	Username string
	Next     string
	Errors   map[string]string
}

type RegisterPage struct {
	Username string
	Errors   map[string]string
}

type Handler struct {
	userService    user.UserService
	sessionService SessionService
	isProd         bool
}

func NewHandler(us user.UserService, ss SessionService, isProd bool) *Handler {
	return &Handler{
		userService:    us,
		sessionService: ss,
		isProd:         isProd,
	}
}

// GET /login/
func (h *Handler) LoginForm(ctx context.Context, req web.Request) web.Response {
	return web.OK("login.html", LoginPage{Next: req.Query.Get("next")})
}

// POST /login/
func (h *Handler) Login(ctx context.Context, req web.Request) web.Response {
	in := user.LoginInput{
		Username: req.Form.Get("username"),
		Password: req.Form.Get("password"),
	}
	next := req.Form.Get("next")

	u, err := h.userService.Authenticate(ctx, in)
	if err != nil {
		page := LoginPage{Username: in.Username, Next: next}
		if ve, ok := form.AsValidation(err); ok {
			page.Errors = ve.Fields
			return web.Render(http.StatusUnprocessableEntity, "login.html", page)
		}
		if errors.Is(err, user.ErrInvalidCredentials) {
			page.Errors = map[string]string{form.NonFieldKey: "Please enter a correct username and password."}
			return web.Render(http.StatusUnprocessableEntity, "login.html", page)
		}
		return web.ServerError(ctx, "authenticate user", err)
	}

	return h.startSession(ctx, u.ID, web.SafeNext(next, "/"))
}

// GET /register/
func (h *Handler) RegisterForm(ctx context.Context, req web.Request) web.Response {
	return web.OK("register.html", RegisterPage{})
}

// POST /register/
func (h *Handler) Register(ctx context.Context, req web.Request) web.Response {
	in := user.RegisterInput{
		Username:        req.Form.Get("username"),
		Password:        req.Form.Get("password1"),
		PasswordConfirm: req.Form.Get("password2"),
	}

	u, err := h.userService.Register(ctx, in)
	if err != nil {
		page := RegisterPage{Username: in.Username}
		switch ve, ok := form.AsValidation(err); {
		case ok:
			page.Errors = ve.Fields
		case errors.Is(err, user.ErrUsernameTaken):
			page.Errors = map[string]string{"username": "A user with that username already exists."}
		default:
			return web.ServerError(ctx, "register user", err)
		}
		return web.Render(http.StatusUnprocessableEntity, "register.html", page)
	}

	// new accounts are logged straight in
	return h.startSession(ctx, u.ID, "/")
}

// GET|POST /logout/
func (h *Handler) Logout(ctx context.Context, req web.Request) web.Response {
	if token := req.Cookie(SessionCookieName); token != "" {
		if err := h.sessionService.Revoke(ctx, token); err != nil {
			return web.ServerError(ctx, "revoke session", err)
		}
	}
	return web.Redirect(LoginURL).WithCookie(ExpiredSessionCookie(h.isProd))
}

func (h *Handler) startSession(ctx context.Context, userID int64, to string) web.Response {
	token, _, err := h.sessionService.Create(ctx, userID)
	if err != nil {
		return web.ServerError(ctx, "create session", err)
	}
	return web.Redirect(to).WithCookie(SessionCookie(token, h.sessionService.TTL(), h.isProd))
}
