package operations

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"nokicli/internal/config"
	"nokicli/internal/dataprocessing"
	"nokicli/internal/exporter"
	"nokicli/internal/fetcher"
	"nokicli/internal/publisher"
	"nokicli/internal/report"
)

// FetchStep downloads the dataset from the remote service
type FetchStep struct {
	client      *fetcher.Client
	paths       *config.Paths
	keepHistory bool
}

// NewFetchStep creates the download step
func NewFetchStep(client *fetcher.Client, paths *config.Paths, keepHistory bool) *FetchStep {
	return &FetchStep{client: client, paths: paths, keepHistory: keepHistory}
}

func (s *FetchStep) ID() string   { return StepIDFetch }
func (s *FetchStep) Name() string { return StepNameFetch }

// Validate checks the working directory exists before any network call
func (s *FetchStep) Validate(state *State) error {
	return s.paths.EnsureDirectories()
}

// Execute downloads the dataset, overwriting the previous local copy
func (s *FetchStep) Execute(ctx context.Context, state *State) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultFetchTimeout)
	defer cancel()

	return s.client.Download(ctx, s.paths.DatasetCSV, s.keepHistory)
}

// AnalyzeStep reads the dataset, filters it to the window, computes the
// aggregate summary and renders the report bundle plus the summary
// exports.
type AnalyzeStep struct {
	logger         *slog.Logger
	paths          *config.Paths
	window         dataprocessing.Window
	questionPrefix string
}

// NewAnalyzeStep creates the analysis step for the given window
func NewAnalyzeStep(logger *slog.Logger, paths *config.Paths, window dataprocessing.Window, questionPrefix string) *AnalyzeStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeStep{
		logger:         logger,
		paths:          paths,
		window:         window,
		questionPrefix: questionPrefix,
	}
}

func (s *AnalyzeStep) ID() string   { return StepIDAnalyze }
func (s *AnalyzeStep) Name() string { return StepNameAnalyze }

// Validate checks the dataset file exists before any output is touched
func (s *AnalyzeStep) Validate(state *State) error {
	if _, err := os.Stat(s.paths.DatasetCSV); err != nil {
		return fmt.Errorf("dataset file %s not available: %w", s.paths.DatasetCSV, err)
	}
	return nil
}

// Execute runs the analysis and regenerates the report bundle
func (s *AnalyzeStep) Execute(ctx context.Context, state *State) error {
	result, err := dataprocessing.Process(s.paths.DatasetCSV, s.window)
	if err != nil {
		return err
	}

	if result.Summary.Empty() {
		s.logger.Warn("No data found for the specified timeframe",
			slog.String("window", s.window.Describe()))
	}

	reporter := report.NewReporter(s.logger, s.paths)
	if err := reporter.Generate(result.Summary); err != nil {
		return err
	}

	csvWriter := exporter.NewCSVWriter(s.logger)
	if err := csvWriter.WriteResponseSummary(s.paths.ResponseSummaryCSV, result.Responses); err != nil {
		return err
	}
	if err := csvWriter.WriteAnswerPercentages(s.paths.AnswerPercentagesCSV, result.Responses, s.questionPrefix); err != nil {
		return err
	}
	if err := csvWriter.WriteSummaryWorkbook(s.paths.SummaryXLSX, result.Summary); err != nil {
		return err
	}

	state.Set("participants", result.Summary.Total)
	return nil
}

// PublishStep copies the report bundle into the publish directory and
// triggers the deploy command.
type PublishStep struct {
	pub   *publisher.Publisher
	paths *config.Paths
}

// NewPublishStep creates the publish step
func NewPublishStep(pub *publisher.Publisher, paths *config.Paths) *PublishStep {
	return &PublishStep{pub: pub, paths: paths}
}

func (s *PublishStep) ID() string   { return StepIDPublish }
func (s *PublishStep) Name() string { return StepNamePublish }

// Validate checks the bundle files exist before any copy or deploy
func (s *PublishStep) Validate(state *State) error {
	for _, f := range s.paths.BundleFiles() {
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("bundle file %s not available: %w", f, err)
		}
	}
	return nil
}

// Execute publishes the bundle
func (s *PublishStep) Execute(ctx context.Context, state *State) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultPublishTimeout)
	defer cancel()

	return s.pub.Publish(ctx, s.paths.BundleFiles())
}
