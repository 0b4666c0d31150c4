// Package config loads application configuration from environment variables
// into typed structs.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: the
// default .env file is loaded once (if present), then env.Parse fills the
// struct based on `env` field tags. Each configuration type is parsed at most
// once per process; subsequent Load calls for the same type return the cached
// copy, so independent components can load their own config without
// coordination.
//
// Usage:
//
//	type DirectoryConfig struct {
//	    BaseURL string        `env:"DIRECTORY_URL,required"`
//	    Timeout time.Duration `env:"DIRECTORY_TIMEOUT" envDefault:"2s"`
//	}
//
//	var cfg DirectoryConfig
//	if err := config.Load(&cfg); err != nil {
//	    // handle error
//	}
//
// MustLoad panics on failure and is intended for configuration the service
// cannot start without.
package config
