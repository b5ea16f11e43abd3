package main

import (
	"context"
	"os"

	"ecotrack/internal/backend"
	"ecotrack/internal/cli"
	applog "ecotrack/internal/log"
	"ecotrack/internal/services"
	"ecotrack/internal/shell"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.LoadEnvFile()

	// Until the configured level is known, log with the defaults
	logger, _ := cli.SetupLogger(nil)

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		logger.Error("Configuration validation failed",
			applog.NewFields().WithOperation(applog.OpStartup).WithErrorType(applog.ErrorTypeConfiguration).WithError(err).ToSlice()...)
		return 1
	}
	configured, err := cli.SetupLogger(cfg)
	if err != nil {
		logger.Error("Failed to set up logging",
			applog.NewFields().WithOperation(applog.OpStartup).WithErrorType(applog.ErrorTypeConfiguration).WithError(err).ToSlice()...)
		return 1
	}
	logger = configured

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration",
			applog.NewFields().WithOperation(applog.OpStartup).WithErrorType(applog.ErrorTypeConfiguration).WithError(err).ToSlice()...)
		return 1
	}

	logger = logger.With(applog.FieldBackend, backendCfg.Type.String())

	ctx := context.Background()
	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend",
			applog.NewFields().WithOperation(applog.OpStartup).WithErrorType(applog.ErrorTypeStorage).WithError(err).ToSlice()...)
		return 1
	}
	cleanup := func() {
		if err := res.Close(); err != nil {
			logger.Warn("Cleanup failed",
				applog.NewFields().WithOperation(applog.OpShutdown).WithError(err).ToSlice()...)
		}
	}
	defer cleanup()
	stop := cli.OnInterrupt(logger, cleanup)
	defer stop()

	opts := []services.Option{services.WithLogger(logger)}
	if res.Publisher != nil {
		opts = append(opts, services.WithPublisher(res.Publisher))
	}
	activities, err := services.NewActivityLog(ctx, res.Store, opts...)
	if err != nil {
		logger.Error("Failed to load activities",
			applog.NewFields().WithOperation(applog.OpLoad).WithErrorType(applog.ErrorTypeStorage).WithError(err).ToSlice()...)
		return 1
	}

	logger.Info("Starting ecotrack",
		applog.NewFields().WithOperation(applog.OpStartup).WithCount(activities.Len()).ToSlice()...)
	if err := shell.New(activities, os.Stdin, os.Stdout, logger).Run(ctx); err != nil {
		logger.Error("Session ended with an error",
			applog.NewFields().WithOperation(applog.OpShutdown).WithErrorType(applog.ErrorTypeStorage).WithError(err).ToSlice()...)
		return 1
	}
	logger.Info("Session finished", applog.NewFields().WithOperation(applog.OpShutdown).ToSlice()...)
	return 0
}
