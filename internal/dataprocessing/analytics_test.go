package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answer(user, step, value string, at time.Time) Response {
	return Response{
		SessionID: "s-" + user,
		CreatedAt: at,
		UserID:    user,
		StepName:  step,
		Answer:    value,
	}
}

func TestBuildProfiles(t *testing.T) {
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		responses []Response
		want      []Profile
	}{
		{
			name: "joins player type and choice per user",
			responses: []Response{
				answer("u1", StepPlayerSelect, "Parent", base),
				answer("u1", StepEvacuateSelect, ChoiceEvacuate, base.Add(time.Minute)),
			},
			want: []Profile{{UserID: "u1", PlayerType: "Parent", Choice: ChoiceEvacuate}},
		},
		{
			name: "most recent answer wins",
			responses: []Response{
				answer("u1", StepPlayerSelect, "Parent", base),
				answer("u1", StepPlayerSelect, "Older Adult", base.Add(time.Hour)),
				answer("u1", StepEvacuateSelect, ChoiceEvacuate, base),
				answer("u1", StepEvacuateSelect, ChoiceStay, base.Add(2*time.Hour)),
			},
			want: []Profile{{UserID: "u1", PlayerType: "Older Adult", Choice: ChoiceStay}},
		},
		{
			name: "petowner variant is normalized",
			responses: []Response{
				answer("u1", StepPlayerSelectAlt, "Petowner", base),
				answer("u1", StepEvacuateSelect, ChoiceEvacuate, base),
			},
			want: []Profile{{UserID: "u1", PlayerType: "Pet Owner", Choice: ChoiceEvacuate}},
		},
		{
			name: "users missing either answer are excluded",
			responses: []Response{
				answer("u1", StepPlayerSelect, "Parent", base),
				answer("u2", StepEvacuateSelect, ChoiceStay, base),
				answer("u3", StepPlayerSelect, "Parent", base),
				answer("u3", StepEvacuateSelect, ChoiceEvacuate, base),
			},
			want: []Profile{{UserID: "u3", PlayerType: "Parent", Choice: ChoiceEvacuate}},
		},
		{
			name:      "no responses",
			responses: nil,
			want:      []Profile{},
		},
		{
			name: "output sorted by user id",
			responses: []Response{
				answer("zz", StepPlayerSelect, "Parent", base),
				answer("zz", StepEvacuateSelect, ChoiceStay, base),
				answer("aa", StepPlayerSelect, "Pet Owner", base),
				answer("aa", StepEvacuateSelect, ChoiceEvacuate, base),
			},
			want: []Profile{
				{UserID: "aa", PlayerType: "Pet Owner", Choice: ChoiceEvacuate},
				{UserID: "zz", PlayerType: "Parent", Choice: ChoiceStay},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildProfiles(tt.responses)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarize(t *testing.T) {
	profiles := []Profile{
		{UserID: "u1", PlayerType: "Parent", Choice: ChoiceEvacuate},
		{UserID: "u2", PlayerType: "Parent", Choice: ChoiceStay},
		{UserID: "u3", PlayerType: "Pet Owner", Choice: ChoiceEvacuate},
		{UserID: "u4", PlayerType: "Parent", Choice: ChoiceEvacuate},
	}

	s := Summarize(profiles, Window{})

	assert.Equal(t, 4, s.Total)
	assert.False(t, s.Empty())

	// Player types ordered by count descending
	assert.Equal(t, []string{"Parent", "Pet Owner"}, s.PlayerTypes.Labels)
	assert.Equal(t, []int{3, 1}, s.PlayerTypes.Counts)
	assert.InDelta(t, 75.0, s.PlayerTypes.Percentages[0], 1e-9)

	// Choices always in fixed order with evacuate first
	assert.Equal(t, ChoiceOrder, s.Choices.Labels)
	assert.Equal(t, []int{3, 1}, s.Choices.Counts)

	// Cross tab rows sorted, columns in choice order
	assert.Equal(t, []string{"Parent", "Pet Owner"}, s.ByType.Rows)
	assert.Equal(t, ChoiceOrder, s.ByType.Cols)
	assert.Equal(t, [][]int{{2, 1}, {1, 0}}, s.ByType.Counts)
	assert.Equal(t, 3, s.ByType.RowTotal(0))
}

func TestSummarize_Deterministic(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	var responses []Response
	types := []string{"Parent", "Pet Owner", "Older Adult", "Business Owner"}
	for i := 0; i < 40; i++ {
		user := string(rune('a'+i%26)) + string(rune('0'+i/26))
		choice := ChoiceEvacuate
		if i%3 == 0 {
			choice = ChoiceStay
		}
		responses = append(responses,
			answer(user, StepPlayerSelect, types[i%len(types)], base.Add(time.Duration(i)*time.Minute)),
			answer(user, StepEvacuateSelect, choice, base.Add(time.Duration(i)*time.Minute)),
		)
	}

	first := Summarize(BuildProfiles(responses), Window{})
	for i := 0; i < 10; i++ {
		again := Summarize(BuildProfiles(responses), Window{})
		require.Equal(t, first, again)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, Window{})

	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Total)
	assert.Empty(t, s.PlayerTypes.Labels)
	// Choice labels stay present with zero counts so charts keep their axes
	assert.Equal(t, ChoiceOrder, s.Choices.Labels)
	assert.Equal(t, []int{0, 0}, s.Choices.Counts)
	assert.Empty(t, s.ByType.Rows)
}

func TestSummarize_UnexpectedChoiceKept(t *testing.T) {
	profiles := []Profile{
		{UserID: "u1", PlayerType: "Parent", Choice: "Maybe later"},
		{UserID: "u2", PlayerType: "Parent", Choice: ChoiceEvacuate},
	}

	s := Summarize(profiles, Window{})
	assert.Equal(t, []string{ChoiceEvacuate, ChoiceStay, "Maybe later"}, s.Choices.Labels)
	assert.Equal(t, []int{1, 0, 1}, s.Choices.Counts)
}
