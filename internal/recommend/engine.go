package recommend

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/cleansight/cleansight/pkg/models"
)

// minRowsForOutlierRemoval: below this row count, removing rows is riskier
// than clipping them.
const minRowsForOutlierRemoval = 50

// maxOutlierRatioForRemoval: past this share of outliers, removal would
// gut the dataset, so clipping is the safe default.
const maxOutlierRatioForRemoval = 0.10

// Engine maps detected problems to concrete corrective operations with
// deterministic priorities and ordering.
type Engine struct {
	logger *logrus.Logger
}

// New creates a recommendation Engine.
func New(logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{logger: logger}
}

// Recommend builds the ranked operation list. Every recommendation traces to
// at least one problem; recommendations for the same column/operation pair
// are deduplicated, keeping the higher priority and summed row estimate.
func (e *Engine) Recommend(problems []models.Problem, profiles []models.ColumnProfile, totalRows int) []models.Recommendation {
	profileByName := make(map[string]models.ColumnProfile, len(profiles))
	for _, p := range profiles {
		profileByName[p.Name] = p
	}

	type key struct {
		op  models.Operation
		col string
	}
	seen := make(map[key]int)
	var recs []models.Recommendation

	add := func(r models.Recommendation) {
		k := key{r.Operation, r.Column}
		if idx, ok := seen[k]; ok {
			recs[idx].EstimatedRowsAffected += r.EstimatedRowsAffected
			if priorityRank(r.Priority) < priorityRank(recs[idx].Priority) {
				recs[idx].Priority = r.Priority
			}
			return
		}
		seen[k] = len(recs)
		recs = append(recs, r)
	}

	for _, p := range problems {
		if r, ok := e.mapProblem(p, profileByName, totalRows); ok {
			add(r)
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if priorityRank(recs[i].Priority) != priorityRank(recs[j].Priority) {
			return priorityRank(recs[i].Priority) < priorityRank(recs[j].Priority)
		}
		if recs[i].EstimatedRowsAffected != recs[j].EstimatedRowsAffected {
			return recs[i].EstimatedRowsAffected > recs[j].EstimatedRowsAffected
		}
		return recs[i].Column < recs[j].Column
	})

	e.logger.WithField("recommendations", len(recs)).Debug("Recommendations generated")
	return recs
}

// mapProblem is the deterministic (problem_type, band/severity) -> operation
// table.
func (e *Engine) mapProblem(p models.Problem, profiles map[string]models.ColumnProfile, totalRows int) (models.Recommendation, bool) {
	switch p.Type {
	case models.ProblemMissingValues:
		switch p.Band {
		case models.BandStructural:
			return models.Recommendation{
				Operation:             models.OpDropColumn,
				Column:                p.Column,
				Priority:              models.PriorityHigh,
				Reason:                fmt.Sprintf("structural missingness: %s", p.Description),
				EstimatedRowsAffected: p.Count,
			}, true
		case models.BandScattered:
			op := models.OpFillMissingMode
			if profile, ok := profiles[p.Column]; ok && profile.InferredType.IsNumeric() {
				op = models.OpFillMissingMedian
			}
			return models.Recommendation{
				Operation:             op,
				Column:                p.Column,
				Priority:              models.PriorityMedium,
				Reason:                fmt.Sprintf("scattered missingness: %s", p.Description),
				EstimatedRowsAffected: p.Count,
			}, true
		default:
			// Minor band: low severity, no mandatory action.
			return models.Recommendation{}, false
		}

	case models.ProblemDuplicateExact:
		return models.Recommendation{
			Operation:             models.OpDropDuplicateRows,
			Priority:              severityPriority(p.Severity),
			Reason:                p.Description,
			EstimatedRowsAffected: p.Count,
		}, true

	case models.ProblemDuplicateFuzzy:
		return models.Recommendation{
			Operation:             models.OpMergeFuzzyDuplicates,
			Priority:              severityPriority(p.Severity),
			Reason:                p.Description,
			EstimatedRowsAffected: p.Count,
		}, true

	case models.ProblemOutlier:
		op := models.OpClipOutliers
		if totalRows >= minRowsForOutlierRemoval {
			ratio := float64(p.Count) / float64(totalRows)
			if ratio <= maxOutlierRatioForRemoval {
				op = models.OpRemoveOutliers
			}
		}
		return models.Recommendation{
			Operation:             op,
			Column:                p.Column,
			Priority:              severityPriority(p.Severity),
			Reason:                p.Description,
			EstimatedRowsAffected: p.Count,
		}, true

	case models.ProblemFormatInconsistent:
		return models.Recommendation{
			Operation:             models.OpStandardizeFormat,
			Column:                p.Column,
			Priority:              models.PriorityLow,
			Reason:                p.Description,
			EstimatedRowsAffected: p.Count,
		}, true

	case models.ProblemTypeMismatch:
		return models.Recommendation{
			Operation:             models.OpCastType,
			Column:                p.Column,
			Priority:              severityPriority(p.Severity),
			Reason:                p.Description,
			EstimatedRowsAffected: p.Count,
		}, true
	}

	return models.Recommendation{}, false
}

func severityPriority(s models.Severity) models.Priority {
	switch s {
	case models.SeverityHigh:
		return models.PriorityHigh
	case models.SeverityMedium:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

func priorityRank(p models.Priority) int {
	switch p {
	case models.PriorityHigh:
		return 0
	case models.PriorityMedium:
		return 1
	default:
		return 2
	}
}
