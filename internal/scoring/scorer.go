package scoring

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cleansight/cleansight/pkg/models"
)

// problemWeights are fixed policy constants. The same formula runs pre- and
// post-clean so "issues reduced %" is directly comparable between the two.
var problemWeights = map[models.ProblemType]float64{
	models.ProblemMissingValues:      30,
	models.ProblemDuplicateExact:     20,
	models.ProblemDuplicateFuzzy:     15,
	models.ProblemOutlier:            15,
	models.ProblemFormatInconsistent: 12,
	models.ProblemTypeMismatch:       8,
	// analysis_incomplete is a warning, not a quality defect.
	models.ProblemAnalysisIncomplete: 0,
}

var severityMultipliers = map[models.Severity]float64{
	models.SeverityHigh:   1.0,
	models.SeverityMedium: 0.6,
	models.SeverityLow:    0.3,
}

// Scorer computes the 0-100 quality score from a problem list.
type Scorer struct {
	logger *logrus.Logger
}

// New creates a Scorer.
func New(logger *logrus.Logger) *Scorer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scorer{logger: logger}
}

// Score applies the weighted-penalty formula:
//
//	score = 100 - sum(weight[type] * min(count/rows, 1) * multiplier[severity])
//
// clamped to [0,100], with a per-type penalty breakdown.
func (s *Scorer) Score(totalRows int, problems []models.Problem) models.QualityScore {
	breakdown := make(map[models.ProblemType]float64)

	penalty := 0.0
	for _, p := range problems {
		weight := problemWeights[p.Type]
		if weight == 0 {
			continue
		}
		extent := 1.0
		if totalRows > 0 {
			extent = math.Min(float64(p.Count)/float64(totalRows), 1.0)
		}
		contribution := weight * extent * severityMultipliers[p.Severity]
		breakdown[p.Type] += contribution
		penalty += contribution
	}

	score := 100 - int(math.Round(penalty))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	s.logger.WithFields(logrus.Fields{
		"score":    score,
		"problems": len(problems),
	}).Debug("Quality score computed")

	return models.QualityScore{Score: score, Breakdown: breakdown}
}
