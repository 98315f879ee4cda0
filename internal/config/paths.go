package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dataset and report bundle filenames. These are fixed: the analyzer
// reads and writes them in the working directory, and the publisher
// copies the bundle files by these names.
const (
	DatasetFileName        = "NokiEvacuateOutput.csv"
	PlayerChartFileName    = "player_breakdown.png"
	OverallChartFileName   = "evacuation_overall.png"
	ByTypeChartFileName    = "evacuation_by_type.png"
	ReportFileName         = "evacuation_results.html"
	ResponseSummaryCSVName = "response_summary.csv"
	AnswerPercentCSVName   = "answer_percentages.csv"
	SummaryWorkbookName    = "summary.xlsx"
)

// Paths contains all pipeline file paths.
// This is the single source of truth for file locations: the fetcher
// writes DatasetCSV, the analyzer reads it and writes the bundle files,
// and the publisher copies BundleFiles into the publish directory.
type Paths struct {
	WorkDir string
	LogsDir string

	DatasetCSV string

	PlayerChartPNG  string
	OverallChartPNG string
	ByTypeChartPNG  string
	ReportHTML      string

	ResponseSummaryCSV   string
	AnswerPercentagesCSV string
	SummaryXLSX          string
}

// GetPaths returns pipeline paths rooted at the given working directory.
// An empty workDir means the current working directory, matching the
// file-mediated handoff between stages.
func GetPaths(workDir string) (*Paths, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		workDir = wd
	}

	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	return &Paths{
		WorkDir: absDir,
		LogsDir: filepath.Join(absDir, "logs"),

		DatasetCSV: filepath.Join(absDir, DatasetFileName),

		PlayerChartPNG:  filepath.Join(absDir, PlayerChartFileName),
		OverallChartPNG: filepath.Join(absDir, OverallChartFileName),
		ByTypeChartPNG:  filepath.Join(absDir, ByTypeChartFileName),
		ReportHTML:      filepath.Join(absDir, ReportFileName),

		ResponseSummaryCSV:   filepath.Join(absDir, ResponseSummaryCSVName),
		AnswerPercentagesCSV: filepath.Join(absDir, AnswerPercentCSVName),
		SummaryXLSX:          filepath.Join(absDir, SummaryWorkbookName),
	}, nil
}

// EnsureDirectories creates the required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.WorkDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetLogPath returns the path for a named log file under LogsDir
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// BundleFiles returns the report bundle: the chart images and the HTML
// page, treated as one atomic publishable unit.
func (p *Paths) BundleFiles() []string {
	return []string{
		p.PlayerChartPNG,
		p.OverallChartPNG,
		p.ByTypeChartPNG,
		p.ReportHTML,
	}
}
