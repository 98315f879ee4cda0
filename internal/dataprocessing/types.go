package dataprocessing

import (
	"time"
)

// Step names in the survey export that carry the answers we analyze
const (
	StepPlayerSelect    = "player_select"
	StepPlayerSelectAlt = "playerselect"
	StepEvacuateSelect  = "evacuate_select"
)

// Evacuation choices. The display order is fixed so charts are stable
// across runs: evacuate always comes first.
const (
	ChoiceEvacuate = "Yep, evacuate!"
	ChoiceStay     = "Heck no! dont evacuate"
)

// ChoiceOrder is the fixed display order for evacuation choices
var ChoiceOrder = []string{ChoiceEvacuate, ChoiceStay}

// Response is one row of the downloaded dataset: a single answer a
// participant gave during a game session. Rows are immutable once
// downloaded.
type Response struct {
	SessionID string
	CreatedAt time.Time
	UserID    string
	StepName  string
	Question  string
	Answer    string
}

// Profile is the per-participant view derived from responses: the most
// recent player type and evacuation choice. Only participants with both
// answers are analyzed.
type Profile struct {
	UserID     string
	PlayerType string
	Choice     string
}

// Breakdown holds grouped counts in display order with percentages of
// the breakdown total.
type Breakdown struct {
	Labels      []string
	Counts      []int
	Percentages []float64
	Total       int
}

// CrossTab holds choice counts broken down by player type.
// Rows are player types, columns are choices in ChoiceOrder.
type CrossTab struct {
	Rows   []string
	Cols   []string
	Counts [][]int
}

// RowTotal returns the total count for the row at index i
func (ct CrossTab) RowTotal(i int) int {
	total := 0
	for _, n := range ct.Counts[i] {
		total += n
	}
	return total
}

// Summary is the aggregate view of a filtered dataset. It is purely
// computed and never persisted independently of the rendered report.
type Summary struct {
	Window      Window
	Total       int
	PlayerTypes Breakdown
	Choices     Breakdown
	ByType      CrossTab
}

// Empty reports whether the summary covers zero participants
func (s Summary) Empty() bool {
	return s.Total == 0
}
