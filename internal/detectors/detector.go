package detectors

import (
	"context"
	"fmt"

	"github.com/cleansight/cleansight/pkg/models"
)

// Detector is one independent problem detector. Detectors are pure functions
// over an immutable profiled-dataset snapshot: they never mutate the dataset
// or share state, so the engine may run them in parallel.
type Detector interface {
	Name() string
	Detect(ctx context.Context, ds *models.Dataset, profiles []models.ColumnProfile, cfg *models.AnalysisConfig) ([]models.Problem, error)
}

// All returns the default detector set in canonical order.
func All() []Detector {
	return []Detector{
		&MissingValueDetector{},
		&DuplicateDetector{},
		&OutlierDetector{},
		&FormatDetector{},
		&TypeMismatchDetector{},
	}
}

// IncompleteProblem builds the analysis_incomplete warning emitted when a
// detector pass is skipped or cut short. It carries no score weight.
func IncompleteProblem(detector, reason string) models.Problem {
	return models.Problem{
		Type:        models.ProblemAnalysisIncomplete,
		Probability: 1.0,
		Severity:    models.SeverityLow,
		Description: fmt.Sprintf("%s pass incomplete: %s", detector, reason),
	}
}
