package dataprocessing

import (
	"fmt"
	"time"
)

// Window is a half-open [start, end) time range. A nil bound is
// open-ended. The zero Window matches everything.
type Window struct {
	Start *time.Time
	End   *time.Time
}

// NewWindow builds a window from optional ISO calendar dates
// (YYYY-MM-DD, interpreted as midnight UTC).
func NewWindow(startDate, endDate string) (Window, error) {
	var w Window

	if startDate != "" {
		t, err := time.ParseInLocation("2006-01-02", startDate, time.UTC)
		if err != nil {
			return Window{}, fmt.Errorf("invalid start date %q: use YYYY-MM-DD", startDate)
		}
		w.Start = &t
	}

	if endDate != "" {
		t, err := time.ParseInLocation("2006-01-02", endDate, time.UTC)
		if err != nil {
			return Window{}, fmt.Errorf("invalid end date %q: use YYYY-MM-DD", endDate)
		}
		w.End = &t
	}

	if w.Start != nil && w.End != nil && !w.Start.Before(*w.End) {
		return Window{}, fmt.Errorf("start date %s is not before end date %s", startDate, endDate)
	}

	return w, nil
}

// TodayWindow returns the window covering the current UTC calendar day,
// the service's reference time zone.
func TodayWindow(now time.Time) Window {
	y, m, d := now.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	return Window{Start: &start, End: &end}
}

// Contains reports whether t falls within the window, using the
// half-open comparison start <= t < end.
func (w Window) Contains(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && !t.Before(*w.End) {
		return false
	}
	return true
}

// Unbounded reports whether the window has no bounds at all
func (w Window) Unbounded() bool {
	return w.Start == nil && w.End == nil
}

// Describe returns a human-readable description for report titles
func (w Window) Describe() string {
	if w.Unbounded() {
		return "All Data"
	}
	start := "Min"
	if w.Start != nil {
		start = w.Start.Format("2006-01-02")
	}
	end := "Max"
	if w.End != nil {
		end = w.End.Format("2006-01-02")
	}
	return fmt.Sprintf("Range: %s to %s", start, end)
}

// Filter returns the responses whose timestamps fall within the window.
// Filtering is idempotent: filtering an already-filtered subset by a
// superset window returns the same subset.
func Filter(responses []Response, w Window) []Response {
	if w.Unbounded() {
		return responses
	}

	filtered := make([]Response, 0, len(responses))
	for _, r := range responses {
		if w.Contains(r.CreatedAt) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
