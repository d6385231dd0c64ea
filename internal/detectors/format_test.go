package detectors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleansight/cleansight/pkg/models"
)

func TestShape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"John Doe", "Aa Aa"},
		{"JOHN DOE", "A A"},
		{"john doe", "a a"},
		{"2024-01", "9-9"},
		{"AB-123", "A-9"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Shape(tt.in), "input %q", tt.in)
	}
}

func TestFormatDetectorFlagsDeviants(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()
	d := &FormatDetector{}

	// Title case dominates 4 of 5 values; the all-caps row deviates.
	ds := dataset(column("name",
		"John Doe", "Mary Jane", "Alan Poe", "Nina Ray", "BOB STONE"))
	problems, err := d.Detect(context.Background(), ds, profileAll(t, ds), cfg)
	require.NoError(t, err)
	require.Len(t, problems, 1)

	p := problems[0]
	assert.Equal(t, models.ProblemFormatInconsistent, p.Type)
	assert.Equal(t, "name", p.Column)
	assert.Equal(t, []int{4}, p.AffectedRows)
	assert.InDelta(t, 0.2, p.Probability, 1e-9)
	assert.Equal(t, models.SeverityLow, p.Severity)
}

func TestFormatDetectorNoDominantShape(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()
	d := &FormatDetector{}

	// No shape reaches 60% dominance: the column has no standard to
	// enforce, so nothing is flagged.
	ds := dataset(column("mixed",
		"alpha beta", "GAMMA DELTA", "Epsilon Zeta", "eta-theta", "IOTA kappa"))
	problems, err := d.Detect(context.Background(), ds, profileAll(t, ds), cfg)
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestFormatDetectorIgnoresNumericColumns(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()
	d := &FormatDetector{}

	ds := dataset(column("n", "1", "2", "3", "400"))
	problems, err := d.Detect(context.Background(), ds, profileAll(t, ds), cfg)
	require.NoError(t, err)
	assert.Empty(t, problems)
}
