package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Nasaee/go-todo-lists/internal/auth"
	"github.com/Nasaee/go-todo-lists/internal/database"
	"github.com/Nasaee/go-todo-lists/internal/env"
	"github.com/Nasaee/go-todo-lists/internal/memstore"
	"github.com/Nasaee/go-todo-lists/internal/todoitem"
	"github.com/Nasaee/go-todo-lists/internal/todolist"
	"github.com/Nasaee/go-todo-lists/internal/user"
	"github.com/Nasaee/go-todo-lists/internal/web"
	"github.com/redis/go-redis/v9"
)

const (
	storagePostgres = "postgres"
	storageMemory   = "memory"
)

func loadConfig() config {
	return config{
		addr:        env.GetString("API_PORT", ":8000"),
		frontendURL: env.GetString("FRONTEND_URL", "http://localhost:8000"),
		storage:     env.GetString("STORAGE_BACKEND", storagePostgres),
		db: dbConfig{
			dsn:         env.GetString("GOOSE_DBSTRING", "host=localhost port=5433 user=postgres password=postgres dbname=todo sslmode=disable"),
			autoMigrate: env.GetBool("AUTO_MIGRATE", true),
		},
		redis: redisConfig{
			addr:     env.GetString("REDIS_ADDR", "localhost:6379"),
			password: env.GetString("REDIS_PASSWORD", ""),
			db:       env.GetInt("REDIS_DB", 0),
		},
		session: sessionConfig{
			secret: env.GetString("SESSION_SECRET", "dev-secret"),
			ttl:    env.GetDuration("SESSION_TTL", 14*24*time.Hour),
		},
	}
}

func main() {
	env.Init()

	ctx := context.Background()
	cfg := loadConfig()

	// Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	isProd := env.IsProduction()
	if isProd && cfg.session.secret == "dev-secret" {
		slog.Error("SESSION_SECRET must be set in production")
		os.Exit(1)
	}

	renderer, err := web.NewRenderer(auth.UserIDFromContext)
	if err != nil {
		slog.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	api := &application{
		config:   cfg,
		renderer: renderer,
		isProd:   isProd,
	}

	cleanup, err := api.wireStorage(ctx)
	if err != nil {
		slog.Error("failed to set up storage", "backend", cfg.storage, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := api.run(ctx, api.mount()); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// wireStorage builds repositories and services for the configured backend
// and returns a func that releases its connections.
func (app *application) wireStorage(ctx context.Context) (func(), error) {
	var (
		users    user.UserRepository
		lists    todolist.ListRepository
		items    todoitem.ItemRepository
		sessions auth.SessionStore
		cleanup  = func() {}
	)

	switch app.config.storage {
	case storagePostgres:
		if app.config.db.autoMigrate {
			if err := database.Migrate(ctx, app.config.db.dsn); err != nil {
				return nil, err
			}
		}

		pool, err := database.Connect(ctx, app.config.db.dsn)
		if err != nil {
			return nil, err
		}
		slog.Info("database pool connected")

		rdb := redis.NewClient(&redis.Options{
			Addr:     app.config.redis.addr,
			Password: app.config.redis.password,
			DB:       app.config.redis.db,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}

		users = user.NewRepository(pool)
		lists = todolist.NewRepository(pool)
		items = todoitem.NewRepository(pool)
		sessions = auth.NewRedisStore(rdb)
		cleanup = func() {
			_ = rdb.Close()
			pool.Close()
		}

	case storageMemory:
		slog.Warn("using in-memory storage; data is lost on restart")
		store := memstore.New()
		users = store.Users()
		lists = store.Lists()
		items = store.Items()
		sessions = store.Sessions()

	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", app.config.storage)
	}

	app.userService = user.NewService(users)
	app.sessionService = auth.NewSessionService(app.config.session.secret, app.config.session.ttl, sessions)
	app.listService = todolist.NewService(lists)
	app.itemService = todoitem.NewService(items, lists)

	return cleanup, nil
}
