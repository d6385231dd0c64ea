package detectors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleansight/cleansight/pkg/models"
)

func TestIQROutlier(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()
	cfg.OutlierMethod = models.OutlierIQR
	d := &OutlierDetector{}

	// [1 2 3 4 5 1000]: Q1=2.25, Q3=4.75, IQR=2.5, upper fence 8.5. The
	// 1000 sits far past 3 IQRs beyond the fence, so probability caps at 1.
	ds := dataset(column("amount", "1", "2", "3", "4", "5", "1000"))
	problems, err := d.Detect(context.Background(), ds, profileAll(t, ds), cfg)
	require.NoError(t, err)
	require.Len(t, problems, 1)

	p := problems[0]
	assert.Equal(t, models.ProblemOutlier, p.Type)
	assert.Equal(t, "amount", p.Column)
	assert.Equal(t, []int{5}, p.AffectedRows)
	assert.Equal(t, 1.0, p.Probability)
}

func TestIQRMildOutlierProbability(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()
	cfg.OutlierMethod = models.OutlierIQR
	d := &OutlierDetector{}

	// [1..9, 15]: Q1=3.25, Q3=7.75, IQR=4.5, upper fence 14.5. 15 is only
	// 0.5 past the fence: probability 0.5 / (3*4.5) ~ 0.037.
	ds := dataset(column("n", "1", "2", "3", "4", "5", "6", "7", "8", "9", "15"))
	problems, err := d.Detect(context.Background(), ds, profileAll(t, ds), cfg)
	require.NoError(t, err)
	require.Len(t, problems, 1)

	assert.Equal(t, []int{9}, problems[0].AffectedRows)
	assert.InDelta(t, 0.5/13.5, problems[0].Probability, 1e-9)
}

func TestOutlierSkipsConstantAndNonNumeric(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()
	d := &OutlierDetector{}

	ds := dataset(
		column("constant", "5", "5", "5", "5", "5", "5"),
		column("text", "aa bb", "cc dd", "ee ff", "gg hh", "ii jj", "kk ll"),
	)
	problems, err := d.Detect(context.Background(), ds, profileAll(t, ds), cfg)
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestEnsembleIsDeterministic(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()
	cfg.OutlierMethod = models.OutlierEnsemble
	d := &OutlierDetector{}

	values := []string{"10", "11", "12", "10", "11", "12", "10", "11", "12", "10", "11", "500"}
	ds := dataset(column("v", values...))
	profiles := profileAll(t, ds)

	first, err := d.Detect(context.Background(), ds, profiles, cfg)
	require.NoError(t, err)
	second, err := d.Detect(context.Background(), ds, profiles, cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestIsolationForestScoresExtremeRowHigher(t *testing.T) {
	features := make([][]float64, 40)
	for i := range features {
		features[i] = []float64{float64(i%5 + 10)}
	}
	features[39] = []float64{900}

	forest := newIsolationForest(100, 256, 1)
	require.NoError(t, forest.Fit(context.Background(), features))

	normal := forest.Score(features[0])
	extreme := forest.Score(features[39])
	assert.Greater(t, extreme, normal)
	assert.Greater(t, extreme, 0.5)
}
