package aggregator

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/cleansight/cleansight/pkg/models"
)

// typeOrder fixes the presentation order of problem types so aggregation is
// deterministic.
var typeOrder = map[models.ProblemType]int{
	models.ProblemMissingValues:      0,
	models.ProblemDuplicateExact:     1,
	models.ProblemDuplicateFuzzy:     2,
	models.ProblemOutlier:            3,
	models.ProblemFormatInconsistent: 4,
	models.ProblemTypeMismatch:       5,
	models.ProblemAnalysisIncomplete: 6,
}

// Aggregator merges detector outputs into one unified problem list. It is
// the fan-in point after the detector barrier: deduplicates per
// (type, column), normalizes severity, and orders deterministically.
type Aggregator struct {
	logger *logrus.Logger
}

// New creates an Aggregator.
func New(logger *logrus.Logger) *Aggregator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Aggregator{logger: logger}
}

// Merge combines per-detector problem slices. Column-level problems sharing
// (type, column) are merged: affected rows unioned, probability takes the
// max. Row-level problems (empty column) are kept apart, one per duplicate
// group.
func (a *Aggregator) Merge(totalRows int, detectorProblems ...[]models.Problem) []models.Problem {
	type key struct {
		t   models.ProblemType
		col string
	}

	merged := make(map[key]*models.Problem)
	var order []key
	var rowLevel []models.Problem

	for _, problems := range detectorProblems {
		for _, p := range problems {
			if p.Column == "" {
				rowLevel = append(rowLevel, p)
				continue
			}
			k := key{p.Type, p.Column}
			existing, ok := merged[k]
			if !ok {
				cp := p
				merged[k] = &cp
				order = append(order, k)
				continue
			}
			existing.AffectedRows = unionRows(existing.AffectedRows, p.AffectedRows)
			existing.Count = len(existing.AffectedRows)
			if p.Probability > existing.Probability {
				existing.Probability = p.Probability
			}
			if p.Band != "" {
				existing.Band = p.Band
			}
		}
	}

	out := make([]models.Problem, 0, len(order)+len(rowLevel))
	for _, k := range order {
		out = append(out, *merged[k])
	}
	out = append(out, rowLevel...)

	for i := range out {
		out[i].Severity = normalizeSeverity(&out[i], totalRows)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if typeOrder[out[i].Type] != typeOrder[out[j].Type] {
			return typeOrder[out[i].Type] < typeOrder[out[j].Type]
		}
		if out[i].Column != out[j].Column {
			return out[i].Column < out[j].Column
		}
		return firstRow(out[i]) < firstRow(out[j])
	})

	a.logger.WithFields(logrus.Fields{
		"problems": len(out),
	}).Debug("Problems aggregated")

	return out
}

// normalizeSeverity derives a uniform severity from band, probability, and
// extent, so detectors with different internal scales rank comparably.
func normalizeSeverity(p *models.Problem, totalRows int) models.Severity {
	switch p.Type {
	case models.ProblemMissingValues:
		switch p.Band {
		case models.BandStructural:
			return models.SeverityHigh
		case models.BandScattered:
			return models.SeverityMedium
		default:
			return models.SeverityLow
		}
	case models.ProblemAnalysisIncomplete:
		return models.SeverityLow
	case models.ProblemFormatInconsistent:
		return models.SeverityLow
	}

	ratio := 0.0
	if totalRows > 0 {
		ratio = float64(p.Count) / float64(totalRows)
	}
	switch {
	case ratio >= 0.20 || (p.Probability >= 0.90 && ratio >= 0.05):
		return models.SeverityHigh
	case ratio >= 0.05 || p.Probability >= 0.70:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

func unionRows(a, b []int) []int {
	set := make(map[int]struct{}, len(a)+len(b))
	for _, r := range a {
		set[r] = struct{}{}
	}
	for _, r := range b {
		set[r] = struct{}{}
	}
	out := make([]int, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	sort.Ints(out)
	return out
}

func firstRow(p models.Problem) int {
	if len(p.AffectedRows) == 0 {
		return -1
	}
	return p.AffectedRows[0]
}
