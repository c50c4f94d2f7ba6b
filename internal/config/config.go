package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v6"
)

const (
	DefaultRunAddr           = ":8080"
	DefaultBackendURL        = "https://www.atcnagpur.com/atc/backend/"
	DefaultGalleryBackendURL = "https://www.atcnagpur.com/atc/atcbackend/"
	DefaultLogLevel          = "info"
)

type ServerConfig struct {
	RunAddr           string `env:"SERVER_ADDRESS"`
	BackendURL        string `env:"BACKEND_URL"`
	GalleryBackendURL string `env:"GALLERY_BACKEND_URL"`
	OverridesPath     string `env:"RESOURCE_OVERRIDES"`
	LogLevel          string `env:"LOG_LEVEL"`
	ProfileMode       bool   `env:"PROFILE_MODE"`
}

func Default() *ServerConfig {
	return &ServerConfig{
		RunAddr:           DefaultRunAddr,
		BackendURL:        DefaultBackendURL,
		GalleryBackendURL: DefaultGalleryBackendURL,
		LogLevel:          DefaultLogLevel,
	}
}

// ParseFlags reads command line flags first; environment variables override
// them.
func ParseFlags(name string, args []string) (*ServerConfig, error) {
	config := Default()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&config.RunAddr, "a", config.RunAddr, "address and port to run admin gateway")
	fs.StringVar(&config.BackendURL, "b", config.BackendURL, "content API base URL")
	fs.StringVar(&config.GalleryBackendURL, "g", config.GalleryBackendURL, "gallery API base URL")
	fs.StringVar(&config.OverridesPath, "r", "", "resource overrides YAML file")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.BoolVar(&config.ProfileMode, "p", false, "mount pprof handlers")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}

	return config, nil
}

func ApplyEnv(config *ServerConfig) error {
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("error parsing env variables: %w", err)
	}
	return nil
}
