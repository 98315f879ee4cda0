package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"nokicli/internal/config"
	"nokicli/internal/dataprocessing"
	"nokicli/internal/fetcher"
	"nokicli/internal/infrastructure"
	"nokicli/internal/operations"
	"nokicli/internal/publisher"
)

func main() {
	workDir := flag.String("dir", "", "working directory for the dataset and report (defaults to the current directory)")
	startStr := flag.String("start", "", "include responses from this date onwards (YYYY-MM-DD)")
	endStr := flag.String("end", "", "include responses before this date (YYYY-MM-DD, exclusive)")
	today := flag.Bool("today", false, "only include responses from the current UTC day; explicit -start/-end override this")
	keepHistory := flag.Bool("keep-history", false, "archive the previous download instead of overwriting it")
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
		cfg.Logging.FilePath = paths.GetLogPath("pipeline.log")
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	// Validate every stage's configuration up front so a bad config
	// never aborts a run halfway through.
	if err := cfg.ValidateService(); err != nil {
		logger.Error("Service configuration invalid", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := cfg.ValidatePublish(); err != nil {
		logger.Error("Publish configuration invalid", slog.String("error", err.Error()))
		os.Exit(1)
	}

	window, err := buildWindow(logger, *startStr, *endStr, *today)
	if err != nil {
		logger.Error("Invalid date window", slog.String("error", err.Error()))
		os.Exit(1)
	}

	tracing, err := infrastructure.InitializeTracing(cfg.Tracing, logger)
	if err != nil {
		logger.Error("Failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer tracing.Shutdown(context.Background())

	manager := operations.NewManager(logger, tracing.Tracer,
		operations.NewFetchStep(fetcher.New(cfg.Service, logger), paths, *keepHistory),
		operations.NewAnalyzeStep(logger, paths, window, cfg.Analysis.QuestionPrefix),
		operations.NewPublishStep(publisher.New(cfg.Publish, logger), paths),
	)

	result, err := manager.Run(context.Background())
	if err != nil {
		logger.Error("Pipeline failed",
			slog.String("failed_step", result.Failed),
			slog.String("error", err.Error()))
		fmt.Printf("Pipeline failed at step %q: %v\n", result.Failed, err)
		os.Exit(1)
	}

	fmt.Printf("Pipeline complete in %s (run %s)\n", result.Duration.Round(time.Millisecond), result.RunID)
}

// buildWindow resolves the flag combination into a date window.
// Explicit bounds take precedence over -today.
func buildWindow(logger *slog.Logger, startStr, endStr string, today bool) (dataprocessing.Window, error) {
	if startStr != "" || endStr != "" {
		if today {
			logger.Warn("Both -today and explicit bounds supplied; explicit bounds win")
		}
		return dataprocessing.NewWindow(startStr, endStr)
	}

	if today {
		return dataprocessing.TodayWindow(time.Now()), nil
	}

	return dataprocessing.Window{}, nil
}
