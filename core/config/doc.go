// Package config provides type-safe environment variable loading with caching.
// Each configuration type is loaded once and cached for subsequent calls.
//
// The package automatically loads a .env file on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	type SandboxConfig struct {
//		Container string        `env:"SANDBOX_CONTAINER" envDefault:"trainee"`
//		Timeout   time.Duration `env:"SANDBOX_EXEC_TIMEOUT" envDefault:"30s"`
//	}
//
//	var cfg SandboxConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	// Or panic on failure during startup
//	config.MustLoad(&cfg)
package config
