// Package cli provides the start-up steps shared by the ecotrack commands.
package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ecotrack/internal/config"
	applog "ecotrack/internal/log"
)

// InterruptExitCode is the conventional status for a process ended by SIGINT.
const InterruptExitCode = 130

// LoadEnvFile loads a .env file from the working directory when present.
// A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig reads the environment and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the application logger from cfg and installs it as the
// slog default. Records go to stderr so they never mix with the menu.
func SetupLogger(cfg *config.Config) (*applog.Logger, error) {
	logCfg := applog.DefaultConfig()
	if cfg != nil {
		level, err := applog.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("setup logger: %w", err)
		}
		logCfg.Level = level
	}
	logger := applog.New(logCfg)
	applog.SetDefault(logger)
	return logger, nil
}

// OnInterrupt runs cleanup and exits when SIGINT or SIGTERM arrives. The
// returned function stops listening.
func OnInterrupt(logger *applog.Logger, cleanup func()) (stop func()) {
	if logger == nil {
		logger = applog.Discard()
	}
	sigChan := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received",
				append(applog.NewFields().WithOperation(applog.OpShutdown).ToSlice(), "signal", sig.String())...)
			if cleanup != nil {
				cleanup()
			}
			os.Exit(InterruptExitCode)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}
