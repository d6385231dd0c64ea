package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 3.0, Mean([]float64{1, 2, 3, 4, 5}))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, Median(nil))
	assert.Equal(t, 3.0, Median([]float64{5, 1, 3, 2, 4}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))
}

func TestVarianceAndStdDev(t *testing.T) {
	assert.Equal(t, 0.0, Variance([]float64{42}))

	// Sample variance of 2,4,4,4,5,5,7,9 is 32/7.
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 32.0/7.0, Variance(values), 1e-9)
	assert.InDelta(t, 2.13808993, StandardDeviation(values), 1e-6)
}

func TestQuantile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	assert.Equal(t, 1.0, Quantile(values, 0))
	assert.Equal(t, 5.0, Quantile(values, 1))
	assert.Equal(t, 3.0, Quantile(values, 0.5))
	// Linear interpolation at p*(n-1): 0.25*4 = position 1.
	assert.Equal(t, 2.0, Quantile(values, 0.25))
	assert.Equal(t, 4.0, Quantile(values, 0.75))

	// Interpolated position between elements.
	assert.InDelta(t, 1.75, Quantile([]float64{1, 2, 3, 4}, 0.25), 1e-9)
}

func TestMinMax(t *testing.T) {
	values := []float64{3, -1, 7, 2}
	assert.Equal(t, -1.0, Min(values))
	assert.Equal(t, 7.0, Max(values))
}

func TestMode(t *testing.T) {
	_, ok := Mode(nil)
	assert.False(t, ok)

	mode, ok := Mode([]string{"a", "b", "b", "c"})
	assert.True(t, ok)
	assert.Equal(t, "b", mode)

	// Frequency tie breaks toward the lexically smaller value.
	mode, _ = Mode([]string{"b", "a"})
	assert.Equal(t, "a", mode)
}

func TestModeFloat(t *testing.T) {
	mode, ok := ModeFloat([]float64{1, 2, 2, 3})
	assert.True(t, ok)
	assert.Equal(t, 2.0, mode)

	// Tie breaks toward the smaller value.
	mode, _ = ModeFloat([]float64{3, 1})
	assert.Equal(t, 1.0, mode)
}
