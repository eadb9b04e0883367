package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var loadEnv sync.Once

// Config returns the value of an environment variable, loading .env once.
func Config(key string) string {
	loadEnv.Do(func() {
		// .env is optional; real deployments set the environment directly
		_ = godotenv.Load()
	})
	return strings.TrimSpace(os.Getenv(key))
}

// String returns the value of key or def when it is unset.
func String(key, def string) string {
	if v := Config(key); v != "" {
		return v
	}
	return def
}

func Int(key string, def int) int {
	v, err := strconv.Atoi(Config(key))
	if err != nil {
		return def
	}
	return v
}

func Bool(key string, def bool) bool {
	v, err := strconv.ParseBool(Config(key))
	if err != nil {
		return def
	}
	return v
}

// Duration accepts Go duration strings ("5s") or a bare number of seconds.
func Duration(key string, def time.Duration) time.Duration {
	raw := Config(key)
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}
