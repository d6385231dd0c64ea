package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleansight/cleansight/pkg/models"
)

func TestMergeDedupesColumnProblems(t *testing.T) {
	a := New(nil)

	fromIQR := []models.Problem{{
		Column:       "amount",
		Type:         models.ProblemOutlier,
		AffectedRows: []int{3, 7},
		Count:        2,
		Probability:  0.6,
	}}
	fromEnsemble := []models.Problem{{
		Column:       "amount",
		Type:         models.ProblemOutlier,
		AffectedRows: []int{7, 11},
		Count:        2,
		Probability:  0.9,
	}}

	merged := a.Merge(100, fromIQR, fromEnsemble)
	require.Len(t, merged, 1)

	p := merged[0]
	assert.Equal(t, []int{3, 7, 11}, p.AffectedRows)
	assert.Equal(t, 3, p.Count)
	assert.Equal(t, 0.9, p.Probability)
}

func TestMergeKeepsRowLevelProblemsSeparate(t *testing.T) {
	a := New(nil)

	groups := []models.Problem{
		{Type: models.ProblemDuplicateExact, AffectedRows: []int{5}, Count: 1, Probability: 1.0},
		{Type: models.ProblemDuplicateExact, AffectedRows: []int{9, 10}, Count: 2, Probability: 1.0},
	}

	merged := a.Merge(100, groups)
	assert.Len(t, merged, 2)
}

func TestMergeDeterministicOrder(t *testing.T) {
	a := New(nil)

	problems := []models.Problem{
		{Column: "z", Type: models.ProblemTypeMismatch, AffectedRows: []int{1}, Count: 1, Probability: 1.0},
		{Column: "b", Type: models.ProblemMissingValues, AffectedRows: []int{2}, Count: 1, Probability: 0.1, Band: models.BandMinor},
		{Column: "a", Type: models.ProblemMissingValues, AffectedRows: []int{3}, Count: 1, Probability: 0.1, Band: models.BandMinor},
	}

	merged := a.Merge(100, problems)
	require.Len(t, merged, 3)
	assert.Equal(t, "a", merged[0].Column)
	assert.Equal(t, "b", merged[1].Column)
	assert.Equal(t, models.ProblemTypeMismatch, merged[2].Type)
}

func TestSeverityNormalization(t *testing.T) {
	a := New(nil)

	tests := []struct {
		name string
		in   models.Problem
		want models.Severity
	}{
		{
			"structural missing is high",
			models.Problem{Column: "c", Type: models.ProblemMissingValues, Band: models.BandStructural, Count: 80, AffectedRows: make([]int, 80)},
			models.SeverityHigh,
		},
		{
			"scattered missing is medium",
			models.Problem{Column: "c", Type: models.ProblemMissingValues, Band: models.BandScattered, Count: 10, AffectedRows: make([]int, 10)},
			models.SeverityMedium,
		},
		{
			"format is always low",
			models.Problem{Column: "c", Type: models.ProblemFormatInconsistent, Count: 90, Probability: 1.0, AffectedRows: make([]int, 90)},
			models.SeverityLow,
		},
		{
			"large extent is high",
			models.Problem{Column: "c", Type: models.ProblemOutlier, Count: 25, Probability: 0.5, AffectedRows: make([]int, 25)},
			models.SeverityHigh,
		},
		{
			"high probability small extent is medium",
			models.Problem{Column: "c", Type: models.ProblemOutlier, Count: 2, Probability: 0.95, AffectedRows: []int{1, 2}},
			models.SeverityMedium,
		},
		{
			"small and uncertain is low",
			models.Problem{Column: "c", Type: models.ProblemOutlier, Count: 2, Probability: 0.3, AffectedRows: []int{1, 2}},
			models.SeverityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := a.Merge(100, []models.Problem{tt.in})
			require.Len(t, merged, 1)
			assert.Equal(t, tt.want, merged[0].Severity)
		})
	}
}
