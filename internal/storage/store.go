package storage

import (
	"context"
	"errors"

	"github.com/cleansight/cleansight/pkg/models"
)

// ErrReportNotFound is returned when no report exists under the given ID.
var ErrReportNotFound = errors.New("report not found")

// ReportStore persists analysis reports for later retrieval. Reports are
// immutable once saved.
type ReportStore interface {
	SaveReport(ctx context.Context, report *models.AnalysisReport) error
	GetReport(ctx context.Context, id string) (*models.AnalysisReport, error)
	Close() error
}
