package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/arenaplug/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	defaults, err := loadEnvDefaults()
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	flagSet := flag.NewFlagSet("arenaplug", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
arenaplug - registers a game's UI elements and events with its scripting environment.

Usage:
  arenaplug [options] [UI_PATH]

Arguments:
  UI_PATH
    Path to a single .hcl manifest or a directory containing manifests.

Options:
`)
		flagSet.PrintDefaults()
		fmt.Fprint(output, `
Every option can also be set through the environment, e.g. ARENAPLUG_LOG_LEVEL=debug.
`)
	}

	uiFlag := flagSet.String("ui", defaults.UIPath, "Path to the UI manifest file or directory.")
	editorFlag := flagSet.Bool("editor", defaults.Editor, "Run as an editor host. UI reloads stay possible after start-up.")
	releaseFlag := flagSet.Bool("release", defaults.Release, "Release configuration: skip invalid UI elements silently.")
	postInitFlag := flagSet.Bool("register-on-post-init", defaults.RegisterOnPostInit, "Also register environment packages on game post-init.")
	editorURLFlag := flagSet.String("editor-url", defaults.EditorURL, "socket.io URL of the editor. Keeps the session open to serve reload requests.")
	namespaceFlag := flagSet.String("editor-namespace", defaults.EditorNamespace, "socket.io namespace of the editor.")
	healthPortFlag := flagSet.Int("healthcheck-port", defaults.HealthcheckPort, "Port for the HTTP health check server while connected to the editor. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := *uiFlag
	if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("UI path determined.", "path", path)

	if path == "" {
		slog.Debug("No UI path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		UIPath:             path,
		Editor:             *editorFlag,
		Release:            *releaseFlag,
		RegisterOnPostInit: *postInitFlag,
		EditorURL:          *editorURLFlag,
		EditorNamespace:    *namespaceFlag,
		HealthcheckPort:    *healthPortFlag,
		LogFormat:          logFormat,
		LogLevel:           logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
