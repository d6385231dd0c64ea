package detectors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleansight/cleansight/pkg/models"
)

func TestMissingValueBands(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()
	d := &MissingValueDetector{}

	// 10 rows: "structural" misses 8 (80%), "scattered" misses 2 (20%),
	// "complete" misses none.
	ds := dataset(
		column("structural", "1", "<nil>", "<nil>", "<nil>", "<nil>", "<nil>", "<nil>", "<nil>", "<nil>", "2"),
		column("scattered", "a b c", "<nil>", "d e f", "g h i", "j k l", "<nil>", "m n o", "p q r", "s t u", "v w x"),
		column("complete", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10"),
	)
	problems, err := d.Detect(context.Background(), ds, profileAll(t, ds), cfg)
	require.NoError(t, err)
	require.Len(t, problems, 2)

	structural := problems[0]
	assert.Equal(t, "structural", structural.Column)
	assert.Equal(t, models.BandStructural, structural.Band)
	assert.Equal(t, models.SeverityHigh, structural.Severity)
	assert.Equal(t, 8, structural.Count)
	assert.InDelta(t, 0.8, structural.Probability, 1e-9)

	scattered := problems[1]
	assert.Equal(t, "scattered", scattered.Column)
	assert.Equal(t, models.BandScattered, scattered.Band)
	assert.Equal(t, models.SeverityMedium, scattered.Severity)
	assert.Equal(t, []int{1, 5}, scattered.AffectedRows)
}

func TestMissingValueMinorBand(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()
	d := &MissingValueDetector{}

	// 2 missing out of 50 rows is 4%, below the scattered threshold.
	values := make([]string, 50)
	for i := range values {
		values[i] = "ok"
	}
	values[10] = "<nil>"
	values[20] = "NA"

	ds := dataset(column("c", values...))
	problems, err := d.Detect(context.Background(), ds, profileAll(t, ds), cfg)
	require.NoError(t, err)
	require.Len(t, problems, 1)

	assert.Equal(t, models.BandMinor, problems[0].Band)
	assert.Equal(t, models.SeverityLow, problems[0].Severity)
	assert.Equal(t, 2, problems[0].Count)
}
