package detectors

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/cleansight/cleansight/pkg/models"
)

const (
	// formatShapeTolerance is the normalized shape edit distance beyond
	// which a value deviates from the dominant shape.
	formatShapeTolerance = 0.25
	// formatDominanceMin: with no shape covering this share of values the
	// column has no standard to enforce and the detector stays quiet.
	formatDominanceMin = 0.60
)

// FormatDetector flags string values whose casing/character shape deviates
// from the column's dominant shape.
type FormatDetector struct{}

func (d *FormatDetector) Name() string { return "format_consistency" }

func (d *FormatDetector) Detect(ctx context.Context, ds *models.Dataset, profiles []models.ColumnProfile, cfg *models.AnalysisConfig) ([]models.Problem, error) {
	var problems []models.Problem

	for i := range ds.Columns {
		select {
		case <-ctx.Done():
			return problems, ctx.Err()
		default:
		}

		if !profiles[i].InferredType.IsStringLike() {
			continue
		}

		if p := d.detectColumn(&ds.Columns[i]); p != nil {
			problems = append(problems, *p)
		}
	}

	return problems, nil
}

func (d *FormatDetector) detectColumn(col *models.Column) *models.Problem {
	shapes := make(map[string]int)
	total := 0
	for r := range col.Values {
		if v, ok := col.Cell(r); ok {
			shapes[Shape(v)]++
			total++
		}
	}
	if total < 2 {
		return nil
	}

	dominant := dominantShape(shapes)
	if float64(shapes[dominant])/float64(total) < formatDominanceMin {
		return nil
	}

	var rows []int
	for r := range col.Values {
		v, ok := col.Cell(r)
		if !ok {
			continue
		}
		if shapeDeviation(Shape(v), dominant) > formatShapeTolerance {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	sort.Ints(rows)

	probability := float64(len(rows)) / float64(total)
	return &models.Problem{
		Column:       col.Name,
		Type:         models.ProblemFormatInconsistent,
		AffectedRows: rows,
		Count:        len(rows),
		Probability:  probability,
		Severity:     models.SeverityLow,
		Description: fmt.Sprintf("column %q has %d value(s) deviating from dominant format %q",
			col.Name, len(rows), dominant),
	}
}

// Shape classifies a value's characters into a compressed pattern: runs of
// uppercase become "A", lowercase "a", digits "9"; other characters are kept
// literally. "John Doe" -> "Aa Aa", "JOHN DOE" -> "A A", "2024-01" -> "9-9".
func Shape(s string) string {
	var b strings.Builder
	var last rune
	for _, r := range s {
		var class rune
		switch {
		case unicode.IsUpper(r):
			class = 'A'
		case unicode.IsLower(r):
			class = 'a'
		case unicode.IsDigit(r):
			class = '9'
		default:
			class = r
		}
		if class != last || (class != 'A' && class != 'a' && class != '9') {
			b.WriteRune(class)
		}
		last = class
	}
	return b.String()
}

// dominantShape picks the most frequent shape, breaking frequency ties
// toward the lexically smaller shape for determinism.
func dominantShape(shapes map[string]int) string {
	var dominant string
	maxCount := -1
	for shape, count := range shapes {
		if count > maxCount || (count == maxCount && shape < dominant) {
			maxCount = count
			dominant = shape
		}
	}
	return dominant
}

func shapeDeviation(shape, dominant string) float64 {
	if shape == dominant {
		return 0
	}
	longest := len([]rune(shape))
	if n := len([]rune(dominant)); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	return float64(levenshtein.ComputeDistance(shape, dominant)) / float64(longest)
}
