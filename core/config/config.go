package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrInvalidTarget is returned when the provided value is not a non-nil struct pointer.
var ErrInvalidTarget = errors.New("config target must be a non-nil pointer to a struct")

var (
	dotenvOnce sync.Once

	// cache holds one parsed value per config type. Keyed by reflect.Type so
	// repeated Load calls for the same type observe identical values.
	cache sync.Map
)

// Load parses environment variables into the given struct pointer using `env` tags.
// A .env file in the working directory is loaded once per process before the first
// parse. Each configuration type is parsed only once; later calls return the cached
// value.
func Load(cfg any) error {
	rv := reflect.ValueOf(cfg)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrInvalidTarget
	}

	dotenvOnce.Do(func() {
		// Missing .env is the normal case outside local development.
		_ = godotenv.Load()
	})

	t := rv.Elem().Type()
	if cached, ok := cache.Load(t); ok {
		rv.Elem().Set(reflect.ValueOf(cached))
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse %s from environment: %w", t, err)
	}

	if cached, loaded := cache.LoadOrStore(t, rv.Elem().Interface()); loaded {
		rv.Elem().Set(reflect.ValueOf(cached))
	}

	return nil
}

// MustLoad is like Load but panics on failure. Intended for application startup
// where a missing required variable should abort the process.
func MustLoad(cfg any) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
