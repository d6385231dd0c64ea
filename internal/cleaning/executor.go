package cleaning

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/cleansight/cleansight/internal/detectors"
	"github.com/cleansight/cleansight/internal/profiler"
	enginerrors "github.com/cleansight/cleansight/pkg/errors"
	"github.com/cleansight/cleansight/pkg/models"
)

// maxChangeSamples bounds the before/after audit sample per change-log
// entry. Never the full diff: memory must stay bounded on large tables.
const maxChangeSamples = 5

// stageOrder is the canonical execution order. The approved list may arrive
// in any order; execution always runs destructive row/column operations
// before fills, and fills before cosmetic stages, so later stages see a row
// set with no duplicate rows and no missing cells. Re-running the executor
// with the same approved operations on the same input is idempotent.
var stageOrder = map[models.Operation]int{
	models.OpDropColumn:           0,
	models.OpDropDuplicateRows:    1,
	models.OpMergeFuzzyDuplicates: 2,
	models.OpFillMissingMean:      3,
	models.OpFillMissingMedian:    3,
	models.OpFillMissingMode:      3,
	models.OpRemoveOutliers:       4,
	models.OpClipOutliers:         5,
	models.OpStandardizeFormat:    6,
	models.OpCastType:             7,
}

// columnScoped operations require an existing column.
var columnScoped = map[models.Operation]bool{
	models.OpDropColumn:        true,
	models.OpFillMissingMean:   true,
	models.OpFillMissingMedian: true,
	models.OpFillMissingMode:   true,
	models.OpRemoveOutliers:    true,
	models.OpClipOutliers:      true,
	models.OpStandardizeFormat: true,
	models.OpCastType:          true,
}

// Executor applies an approved operation sequence to a dataset. Cleaning is
// all-or-nothing per request: unknown operations or columns fail the whole
// batch before anything is touched, keeping the audit trail trustworthy.
type Executor struct {
	cfg      *models.AnalysisConfig
	logger   *logrus.Logger
	profiler *profiler.Profiler
}

// New creates an Executor.
func New(cfg *models.AnalysisConfig, logger *logrus.Logger) *Executor {
	if logger == nil {
		logger = logrus.New()
	}
	return &Executor{
		cfg:      cfg.Normalized(),
		logger:   logger,
		profiler: profiler.New(logger),
	}
}

// Clean applies the approved operations in canonical order to a copy of the
// dataset and returns the cleaned table plus the ordered change log.
func (e *Executor) Clean(ctx context.Context, ds *models.Dataset, approved []models.ApprovedOperation) (*models.CleaningResult, error) {
	ops, err := e.validate(ds, approved)
	if err != nil {
		return nil, err
	}

	work := ds.Clone()
	changeLog := make([]models.ChangeLogEntry, 0, len(ops))

	for _, op := range ops {
		select {
		case <-ctx.Done():
			return nil, enginerrors.NewOperationError("CLEAN_TIMEOUT",
				"time budget exhausted during cleaning", ctx.Err())
		default:
		}

		entry, err := e.apply(ctx, work, op)
		if err != nil {
			return nil, err
		}
		changeLog = append(changeLog, entry)

		e.logger.WithFields(logrus.Fields{
			"operation":      entry.Operation,
			"column":         entry.Column,
			"rows_affected":  entry.RowsAffected,
			"values_changed": entry.ValuesChanged,
		}).Info("Cleaning operation applied")
	}

	return &models.CleaningResult{
		Dataset:   work,
		ChangeLog: changeLog,
		Summary: models.CleaningSummary{
			OriginalRows:    ds.Rows(),
			OriginalColumns: len(ds.Columns),
			CleanedRows:     work.Rows(),
			CleanedColumns:  len(work.Columns),
			RowsRemoved:     ds.Rows() - work.Rows(),
			Operations:      len(changeLog),
		},
	}, nil
}

// validate checks every approved operation upfront, deduplicates repeated
// (operation, column) pairs, and fixes the canonical execution order.
func (e *Executor) validate(ds *models.Dataset, approved []models.ApprovedOperation) ([]models.ApprovedOperation, error) {
	type key struct {
		op  models.Operation
		col string
	}
	seen := make(map[key]bool)
	var ops []models.ApprovedOperation

	for _, op := range approved {
		if _, known := stageOrder[op.Operation]; !known {
			return nil, enginerrors.NewOperationError("UNKNOWN_OPERATION",
				fmt.Sprintf("operation %q is not supported", op.Operation),
				enginerrors.ErrUnsupportedOperation)
		}
		if columnScoped[op.Operation] {
			if op.Column == "" {
				return nil, enginerrors.NewOperationError("MISSING_COLUMN",
					fmt.Sprintf("operation %q requires a column", op.Operation),
					enginerrors.ErrUnknownColumn)
			}
			if ds.ColumnIndex(op.Column) < 0 {
				return nil, enginerrors.NewOperationError("UNKNOWN_COLUMN",
					fmt.Sprintf("operation %q references unknown column %q", op.Operation, op.Column),
					enginerrors.ErrUnknownColumn)
			}
		}
		k := key{op.Operation, op.Column}
		if seen[k] {
			continue
		}
		seen[k] = true
		ops = append(ops, op)
	}

	sort.SliceStable(ops, func(i, j int) bool {
		if stageOrder[ops[i].Operation] != stageOrder[ops[j].Operation] {
			return stageOrder[ops[i].Operation] < stageOrder[ops[j].Operation]
		}
		return ops[i].Column < ops[j].Column
	})

	return ops, nil
}

func (e *Executor) apply(ctx context.Context, work *models.Dataset, op models.ApprovedOperation) (models.ChangeLogEntry, error) {
	// Column may legitimately be gone after an earlier drop_column; such an
	// operation becomes a recorded no-op rather than an error, since the
	// batch was validated against the original table.
	if columnScoped[op.Operation] && work.ColumnIndex(op.Column) < 0 {
		return models.ChangeLogEntry{
			Operation: op.Operation,
			Column:    op.Column,
			Detail:    "column already removed by an earlier operation",
		}, nil
	}

	switch op.Operation {
	case models.OpDropColumn:
		return e.dropColumn(work, op.Column), nil
	case models.OpDropDuplicateRows:
		return e.dropDuplicateRows(work), nil
	case models.OpMergeFuzzyDuplicates:
		return e.mergeFuzzyDuplicates(ctx, work)
	case models.OpFillMissingMean, models.OpFillMissingMedian, models.OpFillMissingMode:
		return e.fillMissing(work, op.Operation, op.Column), nil
	case models.OpRemoveOutliers:
		return e.removeOutliers(work, op.Column), nil
	case models.OpClipOutliers:
		return e.clipOutliers(work, op.Column), nil
	case models.OpStandardizeFormat:
		return e.standardizeFormat(work, op.Column), nil
	case models.OpCastType:
		return e.castType(work, op.Column), nil
	}

	return models.ChangeLogEntry{}, enginerrors.NewOperationError("UNKNOWN_OPERATION",
		fmt.Sprintf("operation %q is not supported", op.Operation),
		enginerrors.ErrUnsupportedOperation)
}

// removeRows drops the given row set from every column, preserving order.
func removeRows(ds *models.Dataset, drop map[int]struct{}) {
	if len(drop) == 0 {
		return
	}
	for c := range ds.Columns {
		col := &ds.Columns[c]
		kept := make([]*string, 0, len(col.Values)-len(drop))
		for r, v := range col.Values {
			if _, gone := drop[r]; !gone {
				kept = append(kept, v)
			}
		}
		col.Values = kept
	}
}

// rowPreview renders a bounded textual form of a row for audit samples.
func rowPreview(ds *models.Dataset, row int) string {
	return detectors.CanonicalRowKey(ds, row)
}
