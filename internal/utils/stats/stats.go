package stats

import (
	"math"
	"sort"
)

// Mean calculates the arithmetic mean of a slice of float64 values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median calculates the median of a slice of float64 values.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Variance calculates the sample variance of a slice of float64 values.
func Variance(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}

	mean := Mean(values)
	sumSquaredDiff := 0.0

	for _, v := range values {
		diff := v - mean
		sumSquaredDiff += diff * diff
	}

	return sumSquaredDiff / float64(len(values)-1)
}

// StandardDeviation calculates the sample standard deviation.
func StandardDeviation(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// Quantile calculates the p-quantile (0 <= p <= 1) using linear
// interpolation at p*(n-1), the same rule pandas and NumPy default to.
func Quantile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}

	pos := p * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	frac := pos - float64(lower)
	if lower+1 >= len(sorted) {
		return sorted[lower]
	}
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

// Min returns the smallest value, or 0 for an empty slice.
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest value, or 0 for an empty slice.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Mode returns the most frequent string. Frequency ties break toward the
// lexically smaller value so the result is deterministic.
func Mode(values []string) (string, bool) {
	if len(values) == 0 {
		return "", false
	}

	frequency := make(map[string]int)
	for _, v := range values {
		frequency[v]++
	}

	var mode string
	maxFreq := 0
	for val, freq := range frequency {
		if freq > maxFreq || (freq == maxFreq && val < mode) {
			maxFreq = freq
			mode = val
		}
	}

	return mode, true
}

// ModeFloat returns the most frequent numeric value with deterministic
// tie-breaking toward the smaller value.
func ModeFloat(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	frequency := make(map[float64]int)
	for _, v := range values {
		frequency[v]++
	}

	var mode float64
	maxFreq := 0
	for val, freq := range frequency {
		if freq > maxFreq || (freq == maxFreq && val < mode) {
			maxFreq = freq
			mode = val
		}
	}

	return mode, true
}
