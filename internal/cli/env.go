package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envDefaults holds flag defaults read from the environment.
type envDefaults struct {
	UIPath             string `env:"ARENAPLUG_UI_PATH"`
	Editor             bool   `env:"ARENAPLUG_EDITOR"`
	Release            bool   `env:"ARENAPLUG_RELEASE"`
	RegisterOnPostInit bool   `env:"ARENAPLUG_REGISTER_ON_POST_INIT"`
	EditorURL          string `env:"ARENAPLUG_EDITOR_URL"`
	EditorNamespace    string `env:"ARENAPLUG_EDITOR_NAMESPACE" envDefault:"/"`
	HealthcheckPort    int    `env:"ARENAPLUG_HEALTHCHECK_PORT" envDefault:"0"`
	LogFormat          string `env:"ARENAPLUG_LOG_FORMAT" envDefault:"text"`
	LogLevel           string `env:"ARENAPLUG_LOG_LEVEL" envDefault:"info"`
}

func loadEnvDefaults() (envDefaults, error) {
	var d envDefaults
	if err := env.Parse(&d); err != nil {
		return d, fmt.Errorf("invalid ARENAPLUG_* environment: %w", err)
	}
	return d, nil
}
