package detectors

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/cleansight/cleansight/internal/profiler"
	"github.com/cleansight/cleansight/internal/utils/stats"
	"github.com/cleansight/cleansight/pkg/models"
)

const (
	// minOutlierCardinality keeps near-constant columns out of the
	// outlier pass.
	minOutlierCardinality = 0.05
	// iqrFenceMultiplier is Tukey's 1.5 rule.
	iqrFenceMultiplier = 1.5
	// iqrProbabilitySpan scales distance beyond the fence into a
	// probability: 3 IQRs past the fence saturates at 1.0.
	iqrProbabilitySpan = 3.0
	// ensembleScoreThreshold is the isolation score above which a row is
	// anomalous.
	ensembleScoreThreshold = 0.65
)

// OutlierDetector runs the IQR fence test per numeric column and an
// isolation-forest ensemble over all numeric columns jointly. Results are
// unioned with probability = max across methods for a given cell.
type OutlierDetector struct{}

func (d *OutlierDetector) Name() string { return "outliers" }

func (d *OutlierDetector) Detect(ctx context.Context, ds *models.Dataset, profiles []models.ColumnProfile, cfg *models.AnalysisConfig) ([]models.Problem, error) {
	eligible := d.eligibleColumns(profiles)
	if len(eligible) == 0 {
		return nil, nil
	}

	// cellProb[columnIndex][row] = max probability across methods.
	cellProb := make(map[int]map[int]float64)
	record := func(col, row int, p float64) {
		if cellProb[col] == nil {
			cellProb[col] = make(map[int]float64)
		}
		if p > cellProb[col][row] {
			cellProb[col][row] = p
		}
	}

	if cfg.OutlierMethod == models.OutlierIQR || cfg.OutlierMethod == models.OutlierBoth {
		for _, colIdx := range eligible {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			d.iqrPass(ds, profiles, colIdx, record)
		}
	}

	if cfg.OutlierMethod == models.OutlierEnsemble || cfg.OutlierMethod == models.OutlierBoth {
		if err := d.ensemblePass(ctx, ds, profiles, eligible, cfg, record); err != nil {
			return d.buildProblems(ds, cellProb, eligible,
				[]models.Problem{IncompleteProblem("ensemble outlier", err.Error())}), nil
		}
	}

	return d.buildProblems(ds, cellProb, eligible, nil), nil
}

// eligibleColumns are numeric, non-degenerate (std > 0), and not ID-like or
// near-constant.
func (d *OutlierDetector) eligibleColumns(profiles []models.ColumnProfile) []int {
	var eligible []int
	for i, p := range profiles {
		if !p.InferredType.IsNumeric() || p.NumericStats == nil {
			continue
		}
		if p.NumericStats.StdDev <= 0 {
			continue
		}
		if p.CardinalityRatio < minOutlierCardinality {
			continue
		}
		eligible = append(eligible, i)
	}
	return eligible
}

func (d *OutlierDetector) iqrPass(ds *models.Dataset, profiles []models.ColumnProfile, colIdx int, record func(col, row int, p float64)) {
	ns := profiles[colIdx].NumericStats
	iqr := ns.Q3 - ns.Q1
	if iqr <= 0 {
		// Degenerate spread: skip silently rather than failing.
		return
	}

	lower := ns.Q1 - iqrFenceMultiplier*iqr
	upper := ns.Q3 + iqrFenceMultiplier*iqr
	span := iqrProbabilitySpan * iqr

	values, rows := profiler.NumericColumnValues(&ds.Columns[colIdx], profiles[colIdx].InferredType)
	for i, v := range values {
		var dist float64
		switch {
		case v < lower:
			dist = lower - v
		case v > upper:
			dist = v - upper
		default:
			continue
		}
		p := dist / span
		if p > 1 {
			p = 1
		}
		record(colIdx, rows[i], p)
	}
}

// ensemblePass scores every row with an isolation forest over the numeric
// feature space. Flagged rows are attributed to the numeric column with the
// largest robust deviation from its median (tie: leftmost column).
func (d *OutlierDetector) ensemblePass(ctx context.Context, ds *models.Dataset, profiles []models.ColumnProfile, eligible []int, cfg *models.AnalysisConfig, record func(col, row int, p float64)) error {
	rows := ds.Rows()
	if rows < 8 {
		return nil
	}

	// Build the feature matrix, median-imputing missing numeric cells so
	// every row can be scored.
	features := make([][]float64, rows)
	for r := range features {
		features[r] = make([]float64, len(eligible))
	}
	medians := make([]float64, len(eligible))
	iqrs := make([]float64, len(eligible))
	for fi, colIdx := range eligible {
		values, valueRows := profiler.NumericColumnValues(&ds.Columns[colIdx], profiles[colIdx].InferredType)
		medians[fi] = stats.Median(values)
		iqrs[fi] = stats.Quantile(values, 0.75) - stats.Quantile(values, 0.25)
		for r := range features {
			features[r][fi] = medians[fi]
		}
		for i, row := range valueRows {
			features[row][fi] = values[i]
		}
	}

	forest := newIsolationForest(cfg.EnsembleTrees, cfg.EnsembleSampleSize, cfg.Seed)
	if err := forest.Fit(ctx, features); err != nil {
		return err
	}

	for r := 0; r < rows; r++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		score := forest.Score(features[r])
		if score < ensembleScoreThreshold {
			continue
		}
		col := d.attributeColumn(features[r], medians, iqrs, eligible, profiles)
		record(col, r, score)
	}

	return nil
}

func (d *OutlierDetector) attributeColumn(row, medians, iqrs []float64, eligible []int, profiles []models.ColumnProfile) int {
	best := eligible[0]
	bestDev := -1.0
	for fi, colIdx := range eligible {
		scale := iqrs[fi]
		if scale <= 0 {
			scale = profiles[colIdx].NumericStats.StdDev
		}
		if scale <= 0 {
			continue
		}
		dev := math.Abs(row[fi]-medians[fi]) / scale
		if dev > bestDev {
			bestDev = dev
			best = colIdx
		}
	}
	return best
}

func (d *OutlierDetector) buildProblems(ds *models.Dataset, cellProb map[int]map[int]float64, eligible []int, extra []models.Problem) []models.Problem {
	var problems []models.Problem
	for _, colIdx := range eligible {
		cells := cellProb[colIdx]
		if len(cells) == 0 {
			continue
		}
		rows := make([]int, 0, len(cells))
		maxProb := 0.0
		for r, p := range cells {
			rows = append(rows, r)
			if p > maxProb {
				maxProb = p
			}
		}
		sort.Ints(rows)

		name := ds.Columns[colIdx].Name
		problems = append(problems, models.Problem{
			Column:       name,
			Type:         models.ProblemOutlier,
			AffectedRows: rows,
			Count:        len(rows),
			Probability:  maxProb,
			Severity:     models.SeverityMedium,
			Description: fmt.Sprintf("column %q has %d outlier value(s)",
				name, len(rows)),
		})
	}
	return append(problems, extra...)
}
