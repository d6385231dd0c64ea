package profiler

import (
	"context"
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cleansight/cleansight/internal/utils/stats"
	"github.com/cleansight/cleansight/pkg/models"
)

// categoricalCardinalityMax is the cardinality ratio below which a
// non-numeric column is treated as categorical.
const categoricalCardinalityMax = 0.05

// Profiler computes per-column statistics and inferred semantic types.
type Profiler struct {
	logger *logrus.Logger
}

// New creates a Profiler.
func New(logger *logrus.Logger) *Profiler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Profiler{logger: logger}
}

// ProfileDataset profiles every column. Columns are independent, so they are
// profiled in parallel; output order matches column order.
func (p *Profiler) ProfileDataset(ctx context.Context, ds *models.Dataset) ([]models.ColumnProfile, error) {
	profiles := make([]models.ColumnProfile, len(ds.Columns))

	var wg sync.WaitGroup
	for i := range ds.Columns {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			profiles[idx] = p.ProfileColumn(&ds.Columns[idx])
		}(i)
	}
	wg.Wait()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	p.logger.WithFields(logrus.Fields{
		"columns": len(profiles),
		"rows":    ds.Rows(),
	}).Debug("Dataset profiled")

	return profiles, nil
}

// ProfileColumn computes the profile of a single column. A column with zero
// non-missing values is typed free_text with nil stats; profiling never
// fails.
func (p *Profiler) ProfileColumn(col *models.Column) models.ColumnProfile {
	profile := models.ColumnProfile{
		Name:     col.Name,
		RowCount: len(col.Values),
	}

	present := make([]string, 0, len(col.Values))
	presentRows := make([]int, 0, len(col.Values))
	for i := range col.Values {
		if v, ok := col.Cell(i); ok {
			present = append(present, v)
			presentRows = append(presentRows, i)
		}
	}

	profile.MissingCount = profile.RowCount - len(present)
	if profile.RowCount > 0 {
		profile.MissingRatio = float64(profile.MissingCount) / float64(profile.RowCount)
	}

	if len(present) == 0 {
		profile.InferredType = models.TypeFreeText
		return profile
	}

	unique := make(map[string]struct{}, len(present))
	for _, v := range present {
		unique[v] = struct{}{}
	}
	profile.UniqueCount = len(unique)
	profile.CardinalityRatio = float64(profile.UniqueCount) / float64(len(present))

	profile.InferredType, profile.MismatchRows = inferType(present, presentRows, profile.CardinalityRatio)

	if profile.InferredType.IsNumeric() {
		profile.NumericStats = numericStats(profile.InferredType, present)
	} else {
		profile.ValueLengthStats = lengthStats(present)
	}

	return profile
}

// inferType walks the ordered hypothesis table and accepts the first type
// that parses at least 90% of the non-missing values. Non-numeric,
// low-cardinality columns fall to categorical; free_text is the final
// fallback. Returns the accepted type and the rows whose values failed its
// parse.
func inferType(present []string, presentRows []int, cardinalityRatio float64) (models.ColumnType, []int) {
	threshold := int(math.Ceil(typeAcceptRatio * float64(len(present))))
	if threshold < 1 {
		threshold = 1
	}

	for _, h := range hypotheses {
		matched := 0
		for _, v := range present {
			if h.parses(v) {
				matched++
			}
		}
		if matched >= threshold {
			var mismatches []int
			if matched < len(present) {
				for i, v := range present {
					if !h.parses(v) {
						mismatches = append(mismatches, presentRows[i])
					}
				}
			}
			return h.columnType, mismatches
		}
	}

	if cardinalityRatio < categoricalCardinalityMax {
		return models.TypeCategorical, nil
	}
	return models.TypeFreeText, nil
}

// NumericColumnValues extracts the parseable numeric values of a column,
// alongside their row positions.
func NumericColumnValues(col *models.Column, t models.ColumnType) ([]float64, []int) {
	values := make([]float64, 0, len(col.Values))
	rows := make([]int, 0, len(col.Values))
	for i := range col.Values {
		s, ok := col.Cell(i)
		if !ok {
			continue
		}
		if v, ok := NumericValue(t, s); ok {
			values = append(values, v)
			rows = append(rows, i)
		}
	}
	return values, rows
}

func numericStats(t models.ColumnType, present []string) *models.NumericStats {
	values := make([]float64, 0, len(present))
	for _, s := range present {
		if v, ok := NumericValue(t, s); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil
	}

	return &models.NumericStats{
		Min:    stats.Min(values),
		Max:    stats.Max(values),
		Mean:   stats.Mean(values),
		Median: stats.Median(values),
		StdDev: stats.StandardDeviation(values),
		Q1:     stats.Quantile(values, 0.25),
		Q3:     stats.Quantile(values, 0.75),
	}
}

func lengthStats(present []string) *models.LengthStats {
	min := len(present[0])
	max := min
	total := 0
	for _, v := range present {
		n := len(v)
		total += n
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}
	return &models.LengthStats{
		Min:  min,
		Max:  max,
		Mean: float64(total) / float64(len(present)),
	}
}
