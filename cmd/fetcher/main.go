package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"nokicli/internal/config"
	"nokicli/internal/fetcher"
	"nokicli/internal/infrastructure"
	"nokicli/internal/operations"
)

func main() {
	workDir := flag.String("dir", "", "working directory for the dataset (defaults to the current directory)")
	keepHistory := flag.Bool("keep-history", false, "archive the previous download with a timestamp suffix instead of overwriting it")
	flag.Parse()

	paths, err := config.GetPaths(*workDir)
	if err != nil {
		fmt.Printf("Error: failed to initialize paths: %v\n", err)
		os.Exit(1)
	}

	if err := paths.EnsureDirectories(); err != nil {
		fmt.Printf("Error: failed to create required directories: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Logging.FilePath == "logs/noki.log" {
		cfg.Logging.FilePath = paths.GetLogPath("fetcher.log")
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	if err := cfg.ValidateService(); err != nil {
		logger.Error("Service configuration invalid", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Starting dataset download",
		slog.String("deployment", cfg.Service.Deployment),
		slog.String("dest", paths.DatasetCSV),
		slog.Bool("keep_history", *keepHistory))

	client := fetcher.New(cfg.Service, logger)
	step := operations.NewFetchStep(client, paths, *keepHistory)
	manager := operations.NewManager(logger, nil, step)

	if _, err := manager.Run(context.Background()); err != nil {
		logger.Error("Download failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Download complete: %s\n", paths.DatasetCSV)
}
