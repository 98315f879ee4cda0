package dataprocessing

import (
	"sort"
)

// playerTypeAliases maps answer variants to their canonical form
var playerTypeAliases = map[string]string{
	"Petowner": "Pet Owner",
}

// NormalizeAnswer maps known answer variants to their canonical form
func NormalizeAnswer(answer string) string {
	if canonical, ok := playerTypeAliases[answer]; ok {
		return canonical
	}
	return answer
}

// BuildProfiles derives the per-participant view from responses: the
// most recent player type answer and the most recent evacuation choice,
// inner-joined on user. Output is sorted by user ID so downstream
// aggregation is deterministic.
func BuildProfiles(responses []Response) []Profile {
	playerTypes := latestAnswers(responses, func(r Response) bool {
		return r.StepName == StepPlayerSelect || r.StepName == StepPlayerSelectAlt
	})
	choices := latestAnswers(responses, func(r Response) bool {
		return r.StepName == StepEvacuateSelect
	})

	profiles := make([]Profile, 0, len(playerTypes))
	for userID, playerType := range playerTypes {
		choice, ok := choices[userID]
		if !ok {
			continue
		}
		profiles = append(profiles, Profile{
			UserID:     userID,
			PlayerType: NormalizeAnswer(playerType),
			Choice:     NormalizeAnswer(choice),
		})
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].UserID < profiles[j].UserID
	})

	return profiles
}

// latestAnswers returns the most recent matching answer per user
func latestAnswers(responses []Response, match func(Response) bool) map[string]string {
	type dated struct {
		answer string
		at     int64
	}
	latest := make(map[string]dated)

	for _, r := range responses {
		if !match(r) || r.UserID == "" {
			continue
		}
		at := r.CreatedAt.UnixNano()
		if prev, ok := latest[r.UserID]; !ok || at >= prev.at {
			latest[r.UserID] = dated{answer: r.Answer, at: at}
		}
	}

	answers := make(map[string]string, len(latest))
	for userID, d := range latest {
		answers[userID] = d.answer
	}
	return answers
}

// Summarize computes the aggregate summary for a set of profiles.
// Identical profiles always yield identical summaries: every grouping
// is emitted in a stable order.
func Summarize(profiles []Profile, w Window) Summary {
	return Summary{
		Window:      w,
		Total:       len(profiles),
		PlayerTypes: playerTypeBreakdown(profiles),
		Choices:     choiceBreakdown(profiles),
		ByType:      choiceByType(profiles),
	}
}

// playerTypeBreakdown counts participants per player type, ordered by
// count descending with label as tiebreaker.
func playerTypeBreakdown(profiles []Profile) Breakdown {
	counts := make(map[string]int)
	for _, p := range profiles {
		counts[p.PlayerType]++
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})

	return buildBreakdown(labels, counts)
}

// choiceBreakdown counts evacuation choices in the fixed display order.
// Choices outside ChoiceOrder (unexpected answer values) are appended
// alphabetically rather than dropped.
func choiceBreakdown(profiles []Profile) Breakdown {
	counts := make(map[string]int)
	for _, p := range profiles {
		counts[p.Choice]++
	}

	labels := make([]string, 0, len(counts))
	seen := make(map[string]bool)
	for _, label := range ChoiceOrder {
		labels = append(labels, label)
		seen[label] = true
	}

	var extras []string
	for label := range counts {
		if !seen[label] {
			extras = append(extras, label)
		}
	}
	sort.Strings(extras)
	labels = append(labels, extras...)

	return buildBreakdown(labels, counts)
}

// choiceByType cross-tabulates choices against player types
func choiceByType(profiles []Profile) CrossTab {
	types := make(map[string]bool)
	counts := make(map[string]map[string]int)
	for _, p := range profiles {
		types[p.PlayerType] = true
		if counts[p.PlayerType] == nil {
			counts[p.PlayerType] = make(map[string]int)
		}
		counts[p.PlayerType][p.Choice]++
	}

	rows := make([]string, 0, len(types))
	for t := range types {
		rows = append(rows, t)
	}
	sort.Strings(rows)

	ct := CrossTab{
		Rows:   rows,
		Cols:   append([]string(nil), ChoiceOrder...),
		Counts: make([][]int, len(rows)),
	}
	for i, row := range rows {
		ct.Counts[i] = make([]int, len(ct.Cols))
		for j, col := range ct.Cols {
			ct.Counts[i][j] = counts[row][col]
		}
	}

	return ct
}

// buildBreakdown assembles counts and percentages in label order
func buildBreakdown(labels []string, counts map[string]int) Breakdown {
	b := Breakdown{
		Labels:      labels,
		Counts:      make([]int, len(labels)),
		Percentages: make([]float64, len(labels)),
	}
	for _, label := range labels {
		b.Total += counts[label]
	}
	for i, label := range labels {
		b.Counts[i] = counts[label]
		if b.Total > 0 {
			b.Percentages[i] = float64(counts[label]) / float64(b.Total) * 100
		}
	}
	return b
}
