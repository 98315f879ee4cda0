package dataprocessing

import (
	"log/slog"
)

// Result holds everything the analysis derives from the dataset for
// one window: the filtered rows, the per-participant profiles and the
// aggregate summary.
type Result struct {
	Window    Window
	Responses []Response
	Profiles  []Profile
	Summary   Summary
}

// Process reads the dataset file, restricts it to the window and
// computes the aggregate summary. An empty filtered subset is not an
// error; the caller renders a "no data" report from the empty summary.
func Process(filePath string, w Window) (*Result, error) {
	responses, err := ParseFile(filePath)
	if err != nil {
		return nil, err
	}

	filtered := Filter(responses, w)
	profiles := BuildProfiles(filtered)
	summary := Summarize(profiles, w)

	slog.Info("Dataset processed",
		slog.String("window", w.Describe()),
		slog.Int("rows", len(responses)),
		slog.Int("rows_in_window", len(filtered)),
		slog.Int("participants", summary.Total))

	return &Result{
		Window:    w,
		Responses: filtered,
		Profiles:  profiles,
		Summary:   summary,
	}, nil
}
