package detectors

import (
	"context"
	"fmt"

	"github.com/cleansight/cleansight/pkg/models"
)

// TypeMismatchDetector flags values that fail to parse under the column's
// accepted inferred type: the tolerated remainder below the profiler's 90%
// acceptance threshold. These are violations of an accepted type, not
// probabilistic evidence, so probability is fixed at 1.0.
type TypeMismatchDetector struct{}

func (d *TypeMismatchDetector) Name() string { return "type_mismatch" }

func (d *TypeMismatchDetector) Detect(ctx context.Context, ds *models.Dataset, profiles []models.ColumnProfile, cfg *models.AnalysisConfig) ([]models.Problem, error) {
	var problems []models.Problem

	for _, profile := range profiles {
		select {
		case <-ctx.Done():
			return problems, ctx.Err()
		default:
		}

		if len(profile.MismatchRows) == 0 {
			continue
		}

		rows := make([]int, len(profile.MismatchRows))
		copy(rows, profile.MismatchRows)

		problems = append(problems, models.Problem{
			Column:       profile.Name,
			Type:         models.ProblemTypeMismatch,
			AffectedRows: rows,
			Count:        len(rows),
			Probability:  1.0,
			Severity:     models.SeverityMedium,
			Description: fmt.Sprintf("column %q has %d value(s) not parseable as %s",
				profile.Name, len(rows), profile.InferredType),
		})
	}

	return problems, nil
}
