package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	require.NoError(t, err)
	return parsed
}

func dailyResponses(t *testing.T, first string, days int) []Response {
	t.Helper()
	start := mustDate(t, first)
	responses := make([]Response, 0, days)
	for i := 0; i < days; i++ {
		responses = append(responses, Response{
			SessionID: "s1",
			CreatedAt: start.AddDate(0, 0, i),
			UserID:    "u1",
			StepName:  StepEvacuateSelect,
			Answer:    ChoiceEvacuate,
		})
	}
	return responses
}

func TestNewWindow(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{name: "both bounds", start: "2025-01-01", end: "2025-01-10"},
		{name: "start only", start: "2025-01-01"},
		{name: "end only", end: "2025-01-10"},
		{name: "no bounds"},
		{name: "bad start format", start: "01/01/2025", wantErr: true},
		{name: "bad end format", end: "Jan 10", wantErr: true},
		{name: "start equals end", start: "2025-01-10", end: "2025-01-10", wantErr: true},
		{name: "start after end", start: "2025-02-01", end: "2025-01-10", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWindow(tt.start, tt.end)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.start != "" {
				require.NotNil(t, w.Start)
			} else {
				assert.Nil(t, w.Start)
			}
			if tt.end != "" {
				require.NotNil(t, w.End)
			} else {
				assert.Nil(t, w.End)
			}
		})
	}
}

func TestWindowContains_HalfOpen(t *testing.T) {
	w, err := NewWindow("2025-01-01", "2025-01-05")
	require.NoError(t, err)

	assert.True(t, w.Contains(mustDate(t, "2025-01-01")), "start is inclusive")
	assert.True(t, w.Contains(mustDate(t, "2025-01-04")))
	assert.False(t, w.Contains(mustDate(t, "2025-01-05")), "end is exclusive")
	assert.False(t, w.Contains(mustDate(t, "2024-12-31")))
}

func TestFilter_EndBoundScenario(t *testing.T) {
	// 10 rows dated 2025-01-01 through 2025-01-10, one per day;
	// filtering with end 2025-01-05 keeps exactly the 4 earlier rows.
	responses := dailyResponses(t, "2025-01-01", 10)

	w, err := NewWindow("", "2025-01-05")
	require.NoError(t, err)

	filtered := Filter(responses, w)
	require.Len(t, filtered, 4)
	for _, r := range filtered {
		assert.True(t, r.CreatedAt.Before(mustDate(t, "2025-01-05")))
	}
}

func TestFilter_Containment(t *testing.T) {
	responses := dailyResponses(t, "2025-01-01", 10)
	w, err := NewWindow("2025-01-03", "2025-01-08")
	require.NoError(t, err)

	for _, r := range Filter(responses, w) {
		assert.True(t, w.Contains(r.CreatedAt))
	}
}

func TestFilter_IdempotentUnderSupersetWindow(t *testing.T) {
	responses := dailyResponses(t, "2025-01-01", 10)

	narrow, err := NewWindow("2025-01-03", "2025-01-06")
	require.NoError(t, err)
	wide, err := NewWindow("2025-01-01", "2025-01-10")
	require.NoError(t, err)

	once := Filter(responses, narrow)
	twice := Filter(once, wide)

	assert.Equal(t, once, twice)
}

func TestFilter_UnboundedReturnsAll(t *testing.T) {
	responses := dailyResponses(t, "2025-01-01", 10)
	assert.Equal(t, responses, Filter(responses, Window{}))
}

func TestTodayWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC)
	w := TodayWindow(now)

	require.NotNil(t, w.Start)
	require.NotNil(t, w.End)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), *w.Start)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), *w.End)

	assert.True(t, w.Contains(now))
	assert.False(t, w.Contains(now.AddDate(0, 0, -1)))
	assert.False(t, w.Contains(now.AddDate(0, 0, 1)))
}

func TestTodayWindow_ConvertsLocalTimeToUTC(t *testing.T) {
	// 2025-06-15 23:30 at UTC-5 is already 2025-06-16 in UTC
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2025, 6, 15, 23, 30, 0, 0, loc)

	w := TodayWindow(now)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), *w.Start)
}

func TestWindowDescribe(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  string
	}{
		{name: "unbounded", want: "All Data"},
		{name: "both", start: "2025-01-01", end: "2025-01-10", want: "Range: 2025-01-01 to 2025-01-10"},
		{name: "start only", start: "2025-01-01", want: "Range: 2025-01-01 to Max"},
		{name: "end only", end: "2025-01-10", want: "Range: Min to 2025-01-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWindow(tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, w.Describe())
		})
	}
}
