package detectors

import (
	"context"
	"fmt"

	"github.com/cleansight/cleansight/pkg/models"
)

// MissingValueDetector emits one problem per column with missing cells. The
// probability is the missing ratio itself; the policy band (structural,
// scattered, minor) is attached so the recommendation engine never reads the
// raw ratio.
type MissingValueDetector struct{}

func (d *MissingValueDetector) Name() string { return "missing_values" }

func (d *MissingValueDetector) Detect(ctx context.Context, ds *models.Dataset, profiles []models.ColumnProfile, cfg *models.AnalysisConfig) ([]models.Problem, error) {
	var problems []models.Problem

	for i := range ds.Columns {
		select {
		case <-ctx.Done():
			return problems, ctx.Err()
		default:
		}

		profile := profiles[i]
		if profile.MissingCount == 0 {
			continue
		}

		col := &ds.Columns[i]
		rows := make([]int, 0, profile.MissingCount)
		for r := range col.Values {
			if col.IsMissing(r) {
				rows = append(rows, r)
			}
		}

		probability := profile.MissingRatio
		if probability > 1 {
			probability = 1
		}

		band := models.BandMinor
		severity := models.SeverityLow
		switch {
		case profile.MissingRatio >= cfg.MissingStructuralThreshold:
			band = models.BandStructural
			severity = models.SeverityHigh
		case profile.MissingRatio >= cfg.MissingScatteredThreshold:
			band = models.BandScattered
			severity = models.SeverityMedium
		}

		problems = append(problems, models.Problem{
			Column:       col.Name,
			Type:         models.ProblemMissingValues,
			AffectedRows: rows,
			Count:        len(rows),
			Probability:  probability,
			Severity:     severity,
			Band:         band,
			Description: fmt.Sprintf("column %q has %d missing values (%.1f%%)",
				col.Name, len(rows), profile.MissingRatio*100),
		})
	}

	return problems, nil
}
