package exporter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"nokicli/internal/dataprocessing"
)

// WriteResponseSummary writes the per-participant answer summary: one
// row per (user, created_at, question) with the unique answers joined,
// sorted by user then timestamp then question.
func (w *CSVWriter) WriteResponseSummary(filePath string, responses []dataprocessing.Response) error {
	type key struct {
		userID    string
		createdAt time.Time
		question  string
	}

	answers := make(map[key][]string)
	seen := make(map[key]map[string]bool)
	var keys []key

	for _, r := range responses {
		k := key{userID: r.UserID, createdAt: r.CreatedAt, question: r.Question}
		if seen[k] == nil {
			seen[k] = make(map[string]bool)
			keys = append(keys, k)
		}
		if r.Answer == "" || seen[k][r.Answer] {
			continue
		}
		seen[k][r.Answer] = true
		answers[k] = append(answers[k], r.Answer)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].userID != keys[j].userID {
			return keys[i].userID < keys[j].userID
		}
		if !keys[i].createdAt.Equal(keys[j].createdAt) {
			return keys[i].createdAt.Before(keys[j].createdAt)
		}
		return keys[i].question < keys[j].question
	})

	records := make([][]string, 0, len(keys))
	for _, k := range keys {
		records = append(records, []string{
			k.userID,
			k.createdAt.Format(time.RFC3339),
			k.question,
			strings.Join(answers[k], ", "),
		})
	}

	return w.WriteSimpleCSV(filePath,
		[]string{"user_id", "created_at", "question", "answer"},
		records)
}

// WriteAnswerPercentages writes the global percentage of each answer
// for questions starting with the given prefix, sorted by percentage
// descending with answer as tiebreaker.
func (w *CSVWriter) WriteAnswerPercentages(filePath string, responses []dataprocessing.Response, questionPrefix string) error {
	counts := make(map[string]int)
	total := 0
	for _, r := range responses {
		if !strings.HasPrefix(r.Question, questionPrefix) || r.Answer == "" {
			continue
		}
		counts[r.Answer]++
		total++
	}

	labels := make([]string, 0, len(counts))
	for answer := range counts {
		labels = append(labels, answer)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})

	records := make([][]string, 0, len(labels))
	for _, answer := range labels {
		pct := float64(counts[answer]) / float64(total) * 100
		records = append(records, []string{answer, fmt.Sprintf("%.2f", pct)})
	}

	return w.WriteSimpleCSV(filePath, []string{"answer", "percentage"}, records)
}
