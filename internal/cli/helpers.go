package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sdejongh/modnorris/pkg/config"
	"github.com/sdejongh/modnorris/pkg/logging"
	"github.com/sdejongh/modnorris/pkg/server"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(globalFlags.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLogger creates the command logger. Every invocation carries a fresh
// operation id so log lines from one run can be correlated.
func newLogger(operation string) (logging.Logger, error) {
	if globalFlags.LogFile == "" {
		return logging.NewNullLogger(), nil
	}

	format := logging.FormatText
	if globalFlags.LogFormat == "json" {
		format = logging.FormatJSON
	}

	level := logging.ParseLevel(globalFlags.LogLevel)
	if globalFlags.Verbose {
		level = logging.DebugLevel
	}

	logger, err := logging.NewFileLogger(logging.FileLoggerConfig{
		Path:    globalFlags.LogFile,
		Format:  format,
		Level:   level,
		MaxSize: 10 * 1024 * 1024,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger.WithFields(logging.Fields{
		"operation_id": uuid.New().String(),
		"operation":    operation,
	}), nil
}

// ensureServerStopped refuses mutating mod operations while the container
// runs, unless forced. A status probe failure (no docker, no compose file)
// is treated as stopped.
func ensureServerStopped(ctx context.Context, cfg *config.Config, force bool, action string) error {
	if force {
		return nil
	}
	status, err := server.GetStatus(ctx, cfg)
	if err != nil {
		return nil
	}
	if status.Running {
		return fmt.Errorf("server is running; stop it before you %s or pass --force", action)
	}
	return nil
}
