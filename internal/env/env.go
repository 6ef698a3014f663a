package env

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppEnv string

const (
	EnvDevelopment AppEnv = "development"
	EnvProduction  AppEnv = "production"
)

// Init loads .env from the working directory when one exists. Variables
// already set in the process environment win.
func Init() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file, using process environment")
		return
	}
	slog.Info("loaded .env")
}

func GetString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	return parse(key, fallback, strconv.Atoi)
}

func GetBool(key string, fallback bool) bool {
	return parse(key, fallback, strconv.ParseBool)
}

// GetDuration accepts anything time.ParseDuration does, e.g. "168h".
func GetDuration(key string, fallback time.Duration) time.Duration {
	return parse(key, fallback, time.ParseDuration)
}

// parse converts the variable with conv, keeping fallback when it is unset
// or malformed.
func parse[T any](key string, fallback T, conv func(string) (T, error)) T {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	v, err := conv(val)
	if err != nil {
		slog.Warn("malformed environment variable, using fallback", "key", key, "value", val, "fallback", fallback)
		return fallback
	}
	return v
}

// IsProduction reports whether APP_ENV is set to production.
func IsProduction() bool {
	return AppEnv(GetString("APP_ENV", string(EnvDevelopment))) == EnvProduction
}
