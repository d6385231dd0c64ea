package cleaning

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/cleansight/cleansight/internal/detectors"
	"github.com/cleansight/cleansight/internal/profiler"
	"github.com/cleansight/cleansight/internal/utils/stats"
	enginerrors "github.com/cleansight/cleansight/pkg/errors"
	"github.com/cleansight/cleansight/pkg/models"
)

const iqrFenceMultiplier = 1.5

func (e *Executor) dropColumn(work *models.Dataset, column string) models.ChangeLogEntry {
	idx := work.ColumnIndex(column)
	rows := len(work.Columns[idx].Values)
	work.Columns = append(work.Columns[:idx], work.Columns[idx+1:]...)
	return models.ChangeLogEntry{
		Operation:    models.OpDropColumn,
		Column:       column,
		RowsAffected: rows,
		Detail:       "column removed",
	}
}

// dropDuplicateRows keeps the first occurrence of each canonical row and
// removes the rest.
func (e *Executor) dropDuplicateRows(work *models.Dataset) models.ChangeLogEntry {
	firstSeen := make(map[string]bool)
	drop := make(map[int]struct{})
	var samples []models.ChangeSample

	for row := 0; row < work.Rows(); row++ {
		key := detectors.CanonicalRowKey(work, row)
		if firstSeen[key] {
			drop[row] = struct{}{}
			if len(samples) < maxChangeSamples {
				samples = append(samples, models.ChangeSample{
					Row:    row,
					Before: rowPreview(work, row),
				})
			}
			continue
		}
		firstSeen[key] = true
	}

	removeRows(work, drop)

	return models.ChangeLogEntry{
		Operation:    models.OpDropDuplicateRows,
		RowsAffected: len(drop),
		Samples:      samples,
		Detail:       fmt.Sprintf("%d exact duplicate row(s) removed", len(drop)),
	}
}

// mergeFuzzyDuplicates re-clusters near-duplicate rows on the current table
// and keeps each cluster's representative (lowest row index). A comparison
// budget overrun fails the batch: a partial merge would leave the table in an
// undefined state.
func (e *Executor) mergeFuzzyDuplicates(ctx context.Context, work *models.Dataset) (models.ChangeLogEntry, error) {
	profiles, err := e.profiler.ProfileDataset(ctx, work)
	if err != nil {
		return models.ChangeLogEntry{}, enginerrors.NewOperationError("MERGE_FUZZY",
			"profiling failed during fuzzy merge", err)
	}

	clusters, err := detectors.FindFuzzyClusters(ctx, work, profiles, e.cfg, nil)
	if err != nil {
		return models.ChangeLogEntry{}, enginerrors.NewOperationError("MERGE_FUZZY",
			"fuzzy clustering failed", err)
	}

	drop := make(map[int]struct{})
	var samples []models.ChangeSample
	for _, c := range clusters {
		for _, row := range c.Duplicates {
			drop[row] = struct{}{}
			if len(samples) < maxChangeSamples {
				samples = append(samples, models.ChangeSample{
					Row:    row,
					Before: rowPreview(work, row),
					After:  rowPreview(work, c.Representative),
				})
			}
		}
	}

	removeRows(work, drop)

	return models.ChangeLogEntry{
		Operation:    models.OpMergeFuzzyDuplicates,
		RowsAffected: len(drop),
		Samples:      samples,
		Detail:       fmt.Sprintf("%d near-duplicate row(s) merged into %d cluster(s)", len(drop), len(clusters)),
	}, nil
}

// fillMissing replaces missing cells with a statistic of the present values.
// Mean and median apply to numeric columns only; a non-numeric column makes
// the operation a recorded no-op rather than an error.
func (e *Executor) fillMissing(work *models.Dataset, op models.Operation, column string) models.ChangeLogEntry {
	col := &work.Columns[work.ColumnIndex(column)]
	profile := e.profiler.ProfileColumn(col)

	var fill string
	switch op {
	case models.OpFillMissingMean, models.OpFillMissingMedian:
		if !profile.InferredType.IsNumeric() {
			return models.ChangeLogEntry{
				Operation: op,
				Column:    column,
				Detail:    fmt.Sprintf("column type %s is not numeric, nothing filled", profile.InferredType),
			}
		}
		values, _ := profiler.NumericColumnValues(col, profile.InferredType)
		if len(values) == 0 {
			return models.ChangeLogEntry{
				Operation: op,
				Column:    column,
				Detail:    "no parseable values to derive a fill value from",
			}
		}
		v := stats.Mean(values)
		if op == models.OpFillMissingMedian {
			v = stats.Median(values)
		}
		fill = strconv.FormatFloat(v, 'g', -1, 64)
	case models.OpFillMissingMode:
		var present []string
		for i := range col.Values {
			if s, ok := col.Cell(i); ok {
				present = append(present, s)
			}
		}
		mode, ok := stats.Mode(present)
		if !ok {
			return models.ChangeLogEntry{
				Operation: op,
				Column:    column,
				Detail:    "column has no present values, nothing filled",
			}
		}
		fill = mode
	}

	changed := 0
	var samples []models.ChangeSample
	for i := range col.Values {
		if !col.IsMissing(i) {
			continue
		}
		if len(samples) < maxChangeSamples {
			samples = append(samples, models.ChangeSample{Row: i, After: fill})
		}
		col.SetCell(i, fill)
		changed++
	}

	return models.ChangeLogEntry{
		Operation:     op,
		Column:        column,
		RowsAffected:  changed,
		ValuesChanged: changed,
		Samples:       samples,
		Detail:        fmt.Sprintf("%d missing cell(s) filled with %q", changed, fill),
	}
}

// outlierFences computes the Tukey fences on the column's current values.
// Returns ok=false when the column has no spread to fence against.
func (e *Executor) outlierFences(col *models.Column) (values []float64, rows []int, lower, upper float64, ok bool) {
	profile := e.profiler.ProfileColumn(col)
	if !profile.InferredType.IsNumeric() {
		return nil, nil, 0, 0, false
	}
	values, rows = profiler.NumericColumnValues(col, profile.InferredType)
	if len(values) < 4 {
		return nil, nil, 0, 0, false
	}
	q1 := stats.Quantile(values, 0.25)
	q3 := stats.Quantile(values, 0.75)
	iqr := q3 - q1
	if iqr <= 0 {
		return nil, nil, 0, 0, false
	}
	return values, rows, q1 - iqrFenceMultiplier*iqr, q3 + iqrFenceMultiplier*iqr, true
}

func (e *Executor) removeOutliers(work *models.Dataset, column string) models.ChangeLogEntry {
	col := &work.Columns[work.ColumnIndex(column)]
	values, rows, lower, upper, ok := e.outlierFences(col)
	if !ok {
		return models.ChangeLogEntry{
			Operation: models.OpRemoveOutliers,
			Column:    column,
			Detail:    "no numeric spread to fence against, nothing removed",
		}
	}

	drop := make(map[int]struct{})
	var samples []models.ChangeSample
	for i, v := range values {
		if v < lower || v > upper {
			drop[rows[i]] = struct{}{}
			if len(samples) < maxChangeSamples {
				samples = append(samples, models.ChangeSample{
					Row:    rows[i],
					Before: strconv.FormatFloat(v, 'g', -1, 64),
				})
			}
		}
	}

	removeRows(work, drop)

	return models.ChangeLogEntry{
		Operation:    models.OpRemoveOutliers,
		Column:       column,
		RowsAffected: len(drop),
		Samples:      samples,
		Detail: fmt.Sprintf("%d row(s) outside [%.4g, %.4g] removed",
			len(drop), lower, upper),
	}
}

func (e *Executor) clipOutliers(work *models.Dataset, column string) models.ChangeLogEntry {
	col := &work.Columns[work.ColumnIndex(column)]
	values, rows, lower, upper, ok := e.outlierFences(col)
	if !ok {
		return models.ChangeLogEntry{
			Operation: models.OpClipOutliers,
			Column:    column,
			Detail:    "no numeric spread to fence against, nothing clipped",
		}
	}

	changed := 0
	var samples []models.ChangeSample
	for i, v := range values {
		clipped := v
		if v < lower {
			clipped = lower
		} else if v > upper {
			clipped = upper
		}
		if clipped == v {
			continue
		}
		after := strconv.FormatFloat(clipped, 'g', -1, 64)
		if len(samples) < maxChangeSamples {
			samples = append(samples, models.ChangeSample{
				Row:    rows[i],
				Before: strconv.FormatFloat(v, 'g', -1, 64),
				After:  after,
			})
		}
		col.SetCell(rows[i], after)
		changed++
	}

	return models.ChangeLogEntry{
		Operation:     models.OpClipOutliers,
		Column:        column,
		RowsAffected:  changed,
		ValuesChanged: changed,
		Samples:       samples,
		Detail: fmt.Sprintf("%d value(s) clipped to [%.4g, %.4g]",
			changed, lower, upper),
	}
}

// caseStyle classifies how a value is cased. Casing plus whitespace is what
// the standardize_format operation normalizes; digits and punctuation stay
// untouched.
type caseStyle int

const (
	caseOther caseStyle = iota
	caseTitle
	caseUpper
	caseLower
)

func classifyCase(s string) caseStyle {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return caseOther
	}
	switch {
	case s == strings.ToUpper(s):
		return caseUpper
	case s == strings.ToLower(s):
		return caseLower
	case s == titleCase(s):
		return caseTitle
	default:
		return caseOther
	}
}

// titleCase uppercases the first letter of each whitespace-separated word and
// lowercases the rest.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func applyCase(s string, style caseStyle) string {
	switch style {
	case caseUpper:
		return strings.ToUpper(s)
	case caseLower:
		return strings.ToLower(s)
	case caseTitle:
		return titleCase(s)
	}
	return s
}

// standardizeFormat rewrites deviant values toward the column's dominant
// presentation: whitespace is collapsed for every value, and casing converges
// on the most common style among the present values. Style ties break in
// fixed order (title, upper, lower) so the rewrite is deterministic.
func (e *Executor) standardizeFormat(work *models.Dataset, column string) models.ChangeLogEntry {
	col := &work.Columns[work.ColumnIndex(column)]

	counts := make(map[caseStyle]int)
	for i := range col.Values {
		if s, ok := col.Cell(i); ok {
			counts[classifyCase(strings.Join(strings.Fields(s), " "))]++
		}
	}
	dominant := caseOther
	best := 0
	for _, style := range []caseStyle{caseTitle, caseUpper, caseLower} {
		if counts[style] > best {
			best = counts[style]
			dominant = style
		}
	}

	changed := 0
	var samples []models.ChangeSample
	for i := range col.Values {
		s, ok := col.Cell(i)
		if !ok {
			continue
		}
		normalized := applyCase(strings.Join(strings.Fields(s), " "), dominant)
		if normalized == s && col.Values[i] != nil && *col.Values[i] == normalized {
			continue
		}
		if len(samples) < maxChangeSamples {
			samples = append(samples, models.ChangeSample{
				Row:    i,
				Before: *col.Values[i],
				After:  normalized,
			})
		}
		col.SetCell(i, normalized)
		changed++
	}

	return models.ChangeLogEntry{
		Operation:     models.OpStandardizeFormat,
		Column:        column,
		RowsAffected:  changed,
		ValuesChanged: changed,
		Samples:       samples,
		Detail:        fmt.Sprintf("%d value(s) normalized to the dominant presentation", changed),
	}
}

// castType rewrites every parseable value into the canonical string form of
// the column's inferred type. Values that do not parse become missing, which
// is the honest representation: a cell that cannot be read as the column's
// type carries no usable value.
func (e *Executor) castType(work *models.Dataset, column string) models.ChangeLogEntry {
	col := &work.Columns[work.ColumnIndex(column)]
	profile := e.profiler.ProfileColumn(col)

	changed := 0
	cleared := 0
	var samples []models.ChangeSample
	for i := range col.Values {
		s, ok := col.Cell(i)
		if !ok {
			continue
		}
		canonical, ok := profiler.CanonicalValue(profile.InferredType, s)
		if !ok {
			if len(samples) < maxChangeSamples {
				samples = append(samples, models.ChangeSample{Row: i, Before: s})
			}
			col.ClearCell(i)
			cleared++
			changed++
			continue
		}
		if canonical == s && col.Values[i] != nil && *col.Values[i] == canonical {
			continue
		}
		if len(samples) < maxChangeSamples {
			samples = append(samples, models.ChangeSample{Row: i, Before: *col.Values[i], After: canonical})
		}
		col.SetCell(i, canonical)
		changed++
	}

	detail := fmt.Sprintf("%d value(s) cast to canonical %s form", changed, profile.InferredType)
	if cleared > 0 {
		detail += fmt.Sprintf(", %d unparseable value(s) cleared", cleared)
	}

	return models.ChangeLogEntry{
		Operation:     models.OpCastType,
		Column:        column,
		RowsAffected:  changed,
		ValuesChanged: changed,
		Samples:       samples,
		Detail:        detail,
	}
}
