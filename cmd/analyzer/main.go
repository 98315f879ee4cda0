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
	"nokicli/internal/infrastructure"
	"nokicli/internal/operations"
)

func main() {
	workDir := flag.String("dir", "", "working directory for the dataset and report (defaults to the current directory)")
	startStr := flag.String("start", "", "include responses from this date onwards (YYYY-MM-DD)")
	endStr := flag.String("end", "", "include responses before this date (YYYY-MM-DD, exclusive)")
	today := flag.Bool("today", false, "only include responses from the current UTC day; explicit -start/-end override this")
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
		cfg.Logging.FilePath = paths.GetLogPath("analyzer.log")
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	window, err := buildWindow(logger, *startStr, *endStr, *today)
	if err != nil {
		logger.Error("Invalid date window", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Starting analysis",
		slog.String("dataset", paths.DatasetCSV),
		slog.String("window", window.Describe()))

	step := operations.NewAnalyzeStep(logger, paths, window, cfg.Analysis.QuestionPrefix)
	manager := operations.NewManager(logger, nil, step)

	if _, err := manager.Run(context.Background()); err != nil {
		logger.Error("Analysis failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Println("Analysis complete. Output files generated:")
	fmt.Printf("  - %s\n", paths.PlayerChartPNG)
	fmt.Printf("  - %s\n", paths.OverallChartPNG)
	fmt.Printf("  - %s\n", paths.ByTypeChartPNG)
	fmt.Printf("  - %s\n", paths.ReportHTML)
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
