package app

import (
	"errors"
	"net/url"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	UIPath string // manifest file or directory

	Editor             bool
	Release            bool
	RegisterOnPostInit bool

	EditorURL       string
	EditorNamespace string
	HealthcheckPort int

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.UIPath == "" {
		return nil, errors.New("UIPath is a required configuration field and cannot be empty")
	}
	if cfg.EditorURL != "" {
		if !cfg.Editor {
			return nil, errors.New("an editor URL requires editor mode")
		}
		u, err := url.Parse(cfg.EditorURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, errors.New("EditorURL must be an absolute URL like http://localhost:3000")
		}
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, errors.New("HealthcheckPort must be between 0 and 65535")
	}
	if cfg.EditorNamespace == "" {
		cfg.EditorNamespace = "/"
	}
	return &cfg, nil
}
