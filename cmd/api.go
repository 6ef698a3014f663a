package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nasaee/go-todo-lists/internal/auth"
	"github.com/Nasaee/go-todo-lists/internal/todoitem"
	"github.com/Nasaee/go-todo-lists/internal/todolist"
	"github.com/Nasaee/go-todo-lists/internal/user"
	"github.com/Nasaee/go-todo-lists/internal/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type dbConfig struct {
	dsn         string
	autoMigrate bool
}

type redisConfig struct {
	addr     string
	password string
	db       int
}

type sessionConfig struct {
	secret string
	ttl    time.Duration
}

type config struct {
	addr        string
	frontendURL string
	storage     string
	db          dbConfig
	redis       redisConfig
	session     sessionConfig
}

type application struct {
	config         config
	renderer       *web.Renderer
	userService    user.UserService
	sessionService auth.SessionService
	listService    todolist.ListService
	itemService    todoitem.Service
	isProd         bool
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{app.config.frontendURL},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// A good base middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(60 * time.Second))

	// every request learns who is logged in, if anyone
	r.Use(auth.LoadUser(app.sessionService, app.userService))

	rd := app.renderer
	r.NotFound(rd.Adapt(func(ctx context.Context, req web.Request) web.Response {
		return web.NotFound()
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("all good"))
	})

	authHandler := auth.NewHandler(app.userService, app.sessionService, app.isProd)
	listHandler := todolist.NewHandler(app.listService)
	itemHandler := todoitem.NewHandler(app.itemService, app.listService)

	// login / register are only for anonymous visitors
	r.Group(func(r chi.Router) {
		r.Use(auth.RedirectIfAuthenticated("/"))

		r.Get("/login/", rd.Adapt(authHandler.LoginForm))
		r.Post("/login/", rd.Adapt(authHandler.Login))
		r.Get("/register/", rd.Adapt(authHandler.RegisterForm))
		r.Post("/register/", rd.Adapt(authHandler.Register))
	})

	r.Get("/logout/", rd.Adapt(authHandler.Logout))
	r.Post("/logout/", rd.Adapt(authHandler.Logout))

	// everything below requires a session; anonymous requests go to /login/
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser)

		r.Get("/", rd.Adapt(listHandler.Index))

		r.Route("/list", func(r chi.Router) {
			r.Get("/add/", rd.Adapt(listHandler.CreateForm))
			r.Post("/add/", rd.Adapt(listHandler.Create))

			r.Get("/{list_id}/", rd.Adapt(itemHandler.List))
			r.Get("/{list_id}/delete/", rd.Adapt(listHandler.ConfirmDelete))
			r.Post("/{list_id}/delete/", rd.Adapt(listHandler.Delete))

			r.Get("/{list_id}/item/add/", rd.Adapt(itemHandler.CreateForm))
			r.Post("/{list_id}/item/add/", rd.Adapt(itemHandler.Create))
			r.Get("/{list_id}/item/{pk}/", rd.Adapt(itemHandler.UpdateForm))
			r.Post("/{list_id}/item/{pk}/", rd.Adapt(itemHandler.Update))
			r.Get("/{list_id}/item/{pk}/delete/", rd.Adapt(itemHandler.ConfirmDelete))
			r.Post("/{list_id}/item/{pk}/delete/", rd.Adapt(itemHandler.Delete))
		})
	})

	return r
}

// run serves h until ctx is cancelled or SIGINT/SIGTERM arrives, then lets
// in-flight requests finish for up to 10 seconds.
func (app *application) run(ctx context.Context, h http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      h,
		WriteTimeout: 30 * time.Second,
		ReadTimeout:  10 * time.Second,
		IdleTimeout:  time.Minute,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "addr", app.config.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down server...")
	case sig := <-quit:
		slog.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		// the listener died before we asked it to stop
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return err
	}

	slog.Info("server exited gracefully")
	return nil
}
