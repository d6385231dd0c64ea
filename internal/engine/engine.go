package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cleansight/cleansight/internal/aggregator"
	"github.com/cleansight/cleansight/internal/cleaning"
	"github.com/cleansight/cleansight/internal/detectors"
	"github.com/cleansight/cleansight/internal/profiler"
	"github.com/cleansight/cleansight/internal/recommend"
	"github.com/cleansight/cleansight/internal/scoring"
	enginerrors "github.com/cleansight/cleansight/pkg/errors"
	"github.com/cleansight/cleansight/pkg/models"
)

// Engine is the orchestration facade: profile, detect, aggregate, recommend,
// score, clean. It holds no dataset state between calls, so one Engine can
// serve concurrent requests.
type Engine struct {
	cfg         *models.AnalysisConfig
	logger      *logrus.Logger
	profiler    *profiler.Profiler
	detectors   []detectors.Detector
	aggregator  *aggregator.Aggregator
	recommender *recommend.Engine
	scorer      *scoring.Scorer
	executor    *cleaning.Executor
}

// New creates an Engine with the given policy config. A nil config uses the
// defaults; a sparse config is filled in from them.
func New(cfg *models.AnalysisConfig, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	cfg = cfg.Normalized()
	return &Engine{
		cfg:         cfg,
		logger:      logger,
		profiler:    profiler.New(logger),
		detectors:   detectors.All(),
		aggregator:  aggregator.New(logger),
		recommender: recommend.New(logger),
		scorer:      scoring.New(logger),
		executor:    cleaning.New(cfg, logger),
	}
}

// Profile validates the dataset and returns per-column profiles.
func (e *Engine) Profile(ctx context.Context, ds *models.Dataset) ([]models.ColumnProfile, error) {
	if err := validateDataset(ds); err != nil {
		return nil, err
	}
	ctx, cancel := e.withBudget(ctx)
	defer cancel()

	profiles, err := e.profiler.ProfileDataset(ctx, ds)
	if err != nil {
		return nil, enginerrors.NewBudgetError("PROFILE_TIMEOUT",
			"time budget exhausted during profiling", err)
	}
	return profiles, nil
}

// Analyze runs the full pipeline: profile, run all detectors over the
// immutable snapshot, aggregate, recommend, score. Given the same dataset and
// config, the report is byte-for-byte identical across runs.
func (e *Engine) Analyze(ctx context.Context, ds *models.Dataset) (*models.AnalysisReport, error) {
	if err := validateDataset(ds); err != nil {
		return nil, err
	}
	start := time.Now()

	ctx, cancel := e.withBudget(ctx)
	defer cancel()

	profiles, err := e.profiler.ProfileDataset(ctx, ds)
	if err != nil {
		return nil, enginerrors.NewBudgetError("PROFILE_TIMEOUT",
			"time budget exhausted during profiling", err)
	}

	detected := e.runDetectors(ctx, ds, profiles)
	problems := e.aggregator.Merge(ds.Rows(), detected...)
	recommendations := e.recommender.Recommend(problems, profiles, ds.Rows())
	score := e.scorer.Score(ds.Rows(), problems)

	report := &models.AnalysisReport{
		ID:              uuid.New().String(),
		Profiles:        profiles,
		Problems:        problems,
		Recommendations: recommendations,
		Score:           score,
		Rows:            ds.Rows(),
		Columns:         len(ds.Columns),
		DurationMS:      time.Since(start).Milliseconds(),
	}

	e.logger.WithFields(logrus.Fields{
		"report_id": report.ID,
		"rows":      report.Rows,
		"columns":   report.Columns,
		"problems":  len(report.Problems),
		"score":     report.Score.Score,
		"duration":  time.Since(start),
	}).Info("Analysis completed")

	return report, nil
}

// Score runs the analysis pipeline and returns only the quality score.
func (e *Engine) Score(ctx context.Context, ds *models.Dataset) (models.QualityScore, error) {
	report, err := e.Analyze(ctx, ds)
	if err != nil {
		return models.QualityScore{}, err
	}
	return report.Score, nil
}

// Clean validates the dataset, then applies the approved operations via the
// executor. The input dataset is never mutated.
func (e *Engine) Clean(ctx context.Context, ds *models.Dataset, approved []models.ApprovedOperation) (*models.CleaningResult, error) {
	if err := validateDataset(ds); err != nil {
		return nil, err
	}
	ctx, cancel := e.withBudget(ctx)
	defer cancel()

	return e.executor.Clean(ctx, ds, approved)
}

// runDetectors fans the detector set out into goroutines and collects their
// problem slices behind a barrier. Detectors are pure functions over the
// profiled snapshot; results land in a fixed per-detector slot so the merge
// input order never depends on goroutine scheduling. A panicking or failing
// detector degrades to an analysis_incomplete warning instead of sinking the
// whole analysis.
func (e *Engine) runDetectors(ctx context.Context, ds *models.Dataset, profiles []models.ColumnProfile) [][]models.Problem {
	results := make([][]models.Problem, len(e.detectors))

	done := make(chan int, len(e.detectors))
	for i, d := range e.detectors {
		go func(idx int, det detectors.Detector) {
			defer func() {
				if r := recover(); r != nil {
					e.logger.WithFields(logrus.Fields{
						"detector": det.Name(),
						"panic":    r,
					}).Error("Detector panicked")
					results[idx] = []models.Problem{
						detectors.IncompleteProblem(det.Name(), fmt.Sprintf("internal failure: %v", r)),
					}
				}
				done <- idx
			}()

			problems, err := det.Detect(ctx, ds, profiles, e.cfg)
			if err != nil {
				e.logger.WithFields(logrus.Fields{
					"detector": det.Name(),
					"error":    err,
				}).Warn("Detector pass incomplete")
				results[idx] = []models.Problem{
					detectors.IncompleteProblem(det.Name(), err.Error()),
				}
				return
			}
			results[idx] = problems
		}(i, d)
	}
	for range e.detectors {
		<-done
	}

	return results
}

// withBudget derives the analysis deadline from the configured time budget.
func (e *Engine) withBudget(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.TimeBudgetMS <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, time.Duration(e.cfg.TimeBudgetMS)*time.Millisecond)
}

// validateDataset rejects structurally unusable input before any pass runs.
func validateDataset(ds *models.Dataset) error {
	if ds == nil {
		return enginerrors.NewInputError("EMPTY_DATASET",
			"dataset is nil", enginerrors.ErrEmptyDataset)
	}
	if len(ds.Columns) == 0 {
		return enginerrors.NewInputError("NO_COLUMNS",
			"dataset has no columns", enginerrors.ErrNoColumns)
	}

	seen := make(map[string]bool, len(ds.Columns))
	for _, col := range ds.Columns {
		if seen[col.Name] {
			return enginerrors.NewInputError("DUPLICATE_COLUMN",
				fmt.Sprintf("column name %q appears more than once", col.Name),
				enginerrors.ErrDuplicateColumn)
		}
		seen[col.Name] = true
	}

	rows := len(ds.Columns[0].Values)
	for _, col := range ds.Columns {
		if len(col.Values) != rows {
			return enginerrors.NewInputError("RAGGED_COLUMNS",
				fmt.Sprintf("column %q has %d values, expected %d",
					col.Name, len(col.Values), rows),
				enginerrors.ErrRaggedColumns)
		}
	}
	if rows == 0 {
		return enginerrors.NewInputError("NO_ROWS",
			"dataset has no rows", enginerrors.ErrNoRows)
	}

	allNull := true
	for c := range ds.Columns {
		for r := 0; r < rows && allNull; r++ {
			if !ds.Columns[c].IsMissing(r) {
				allNull = false
			}
		}
		if !allNull {
			break
		}
	}
	if allNull {
		return enginerrors.NewInputError("ALL_NULL",
			"every cell is missing", enginerrors.ErrAllNullDataset)
	}

	return nil
}
