package report

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"time"

	"nokicli/internal/config"
	"nokicli/internal/dataprocessing"
)

// Reporter renders the report bundle: three chart images and the HTML
// page referencing them. The bundle is regenerated fully on each run
// and written atomically so a reader never sees a torn mix of old and
// new files.
type Reporter struct {
	logger *slog.Logger
	paths  *config.Paths
}

// NewReporter creates a reporter writing into the configured paths
func NewReporter(logger *slog.Logger, paths *config.Paths) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{logger: logger, paths: paths}
}

// Generate renders the full bundle for the summary. An empty summary
// still produces a valid, openable report: zero-valued charts and a
// "no data in range" page.
func (r *Reporter) Generate(summary dataprocessing.Summary) error {
	targets := map[string]string{
		r.paths.PlayerChartPNG:  r.paths.PlayerChartPNG + ".tmp",
		r.paths.OverallChartPNG: r.paths.OverallChartPNG + ".tmp",
		r.paths.ByTypeChartPNG:  r.paths.ByTypeChartPNG + ".tmp",
		r.paths.ReportHTML:      r.paths.ReportHTML + ".tmp",
	}

	cleanup := func() {
		for _, tmp := range targets {
			os.Remove(tmp)
		}
	}

	if err := r.renderAll(summary, targets); err != nil {
		cleanup()
		return err
	}

	// All outputs rendered; swap the bundle into place
	for final, tmp := range targets {
		if err := os.Rename(tmp, final); err != nil {
			cleanup()
			return fmt.Errorf("failed to move %s into place: %w", final, err)
		}
	}

	r.logger.Info("Report bundle generated",
		slog.String("report", r.paths.ReportHTML),
		slog.Int("participants", summary.Total),
		slog.String("window", summary.Window.Describe()))

	return nil
}

// renderAll writes every bundle output to its temporary name
func (r *Reporter) renderAll(summary dataprocessing.Summary, targets map[string]string) error {
	if err := renderPlayerBreakdown(summary.PlayerTypes, targets[r.paths.PlayerChartPNG]); err != nil {
		return fmt.Errorf("player breakdown chart: %w", err)
	}
	if err := renderChoiceOverall(summary.Choices, targets[r.paths.OverallChartPNG]); err != nil {
		return fmt.Errorf("overall choice chart: %w", err)
	}
	if err := renderChoiceByType(summary.ByType, targets[r.paths.ByTypeChartPNG]); err != nil {
		return fmt.Errorf("choice by type chart: %w", err)
	}

	var buf bytes.Buffer
	data := reportData{
		Title:        "Hurricane Evacuation Survey Results",
		WindowInfo:   windowInfo(summary.Window),
		GeneratedAt:  time.Now().UTC().Format("2006-01-02 15:04 UTC"),
		HasData:      !summary.Empty(),
		PlayerChart:  config.PlayerChartFileName,
		OverallChart: config.OverallChartFileName,
		ByTypeChart:  config.ByTypeChartFileName,
	}
	if err := renderHTML(&buf, data); err != nil {
		return fmt.Errorf("report page: %w", err)
	}
	if err := os.WriteFile(targets[r.paths.ReportHTML], buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("report page: %w", err)
	}

	return nil
}

// windowInfo returns the title suffix for the report window, empty for
// an unbounded window.
func windowInfo(w dataprocessing.Window) string {
	if w.Unbounded() {
		return ""
	}
	return w.Describe()
}
