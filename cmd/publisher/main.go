package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"nokicli/internal/config"
	"nokicli/internal/infrastructure"
	"nokicli/internal/operations"
	"nokicli/internal/publisher"
)

func main() {
	workDir := flag.String("dir", "", "working directory holding the report bundle (defaults to the current directory)")
	flag.Parse()

	paths, err := config.GetPaths(*workDir)
	if err != nil {
		fmt.Printf("Error: failed to initialize paths: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Logging.FilePath == "logs/noki.log" {
		cfg.Logging.FilePath = paths.GetLogPath("publisher.log")
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	if err := cfg.ValidatePublish(); err != nil {
		logger.Error("Publish configuration invalid", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Starting publish",
		slog.String("project_root", cfg.Publish.ProjectRoot),
		slog.String("publish_subdir", cfg.Publish.PublishSubdir))

	pub := publisher.New(cfg.Publish, logger)
	step := operations.NewPublishStep(pub, paths)
	manager := operations.NewManager(logger, nil, step)

	if _, err := manager.Run(context.Background()); err != nil {
		logger.Error("Publish failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Println("Publish complete. Remote caches may serve stale content until refreshed.")
}
