package detectors

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	enginerrors "github.com/cleansight/cleansight/pkg/errors"
	"github.com/cleansight/cleansight/pkg/models"
)

// DuplicateDetector runs two passes, exact then fuzzy, and never skips one
// because the other found nothing. The fuzzy pass is the only superlinear
// detector, so it is bounded: blocks are capped and a hard ceiling on total
// pairwise comparisons degrades the pass to exact-only rather than hanging.
type DuplicateDetector struct{}

func (d *DuplicateDetector) Name() string { return "duplicates" }

func (d *DuplicateDetector) Detect(ctx context.Context, ds *models.Dataset, profiles []models.ColumnProfile, cfg *models.AnalysisConfig) ([]models.Problem, error) {
	if ds.Rows() < 2 {
		return nil, nil
	}

	problems, exactRows := d.exactPass(ds)

	fuzzyProblems, err := d.fuzzyPass(ctx, ds, profiles, cfg, exactRows)
	if err != nil {
		// Budget exceeded: degrade to exact-only and say so.
		problems = append(problems, IncompleteProblem("fuzzy duplicate", err.Error()))
		return problems, nil
	}
	problems = append(problems, fuzzyProblems...)

	return problems, nil
}

// CanonicalRowKey canonicalizes a row for exact matching: trim, lowercase,
// collapse internal whitespace, join cells with a unit separator.
func CanonicalRowKey(ds *models.Dataset, row int) string {
	parts := make([]string, len(ds.Columns))
	for i := range ds.Columns {
		s, ok := ds.Columns[i].Cell(row)
		if !ok {
			continue
		}
		parts[i] = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	}
	return strings.Join(parts, "\x1f")
}

// exactPass hashes canonical rows; occurrences beyond the first in each
// group are exact duplicates with probability 1.0.
func (d *DuplicateDetector) exactPass(ds *models.Dataset) ([]models.Problem, map[int]struct{}) {
	firstSeen := make(map[string]int)
	groups := make(map[int][]int) // first occurrence -> extra occurrences

	for row := 0; row < ds.Rows(); row++ {
		key := CanonicalRowKey(ds, row)
		if first, ok := firstSeen[key]; ok {
			groups[first] = append(groups[first], row)
		} else {
			firstSeen[key] = row
		}
	}

	firsts := make([]int, 0, len(groups))
	for first := range groups {
		firsts = append(firsts, first)
	}
	sort.Ints(firsts)

	var problems []models.Problem
	flagged := make(map[int]struct{})
	for _, first := range firsts {
		extras := groups[first]
		for _, r := range extras {
			flagged[r] = struct{}{}
		}
		problems = append(problems, models.Problem{
			Type:         models.ProblemDuplicateExact,
			AffectedRows: extras,
			Count:        len(extras),
			Probability:  1.0,
			Severity:     models.SeverityMedium,
			Description: fmt.Sprintf("%d exact duplicate(s) of row %d",
				len(extras), first),
		})
	}

	return problems, flagged
}

// BlockingColumn picks the primary text column used as the fuzzy blocking
// key: lowest cardinality ratio among free_text/categorical columns, falling
// back to any string-like column. Ties break to the leftmost column so the
// choice is deterministic. Returns -1 when no text column exists.
func BlockingColumn(profiles []models.ColumnProfile) int {
	best := -1
	for i, p := range profiles {
		if p.InferredType != models.TypeFreeText && p.InferredType != models.TypeCategorical {
			continue
		}
		if best == -1 || p.CardinalityRatio < profiles[best].CardinalityRatio {
			best = i
		}
	}
	if best >= 0 {
		return best
	}
	for i, p := range profiles {
		if p.InferredType.IsStringLike() {
			return i
		}
	}
	return -1
}

// FuzzyCluster is a group of near-duplicate rows. Representative is the
// lowest row index; the rest are flagged for merging.
type FuzzyCluster struct {
	Representative int
	Duplicates     []int
	// MaxSimilarity is the strongest pairwise similarity observed inside
	// the cluster.
	MaxSimilarity float64
}

// FindFuzzyClusters partitions rows into blocks by the first 3 characters of
// the blocking column, compares pairs within each block by normalized edit
// distance over the concatenated string fields, and closes matched pairs
// transitively. Rows in skip are not considered. Exceeding the comparison
// ceiling returns a budget error with no partial clusters.
func FindFuzzyClusters(ctx context.Context, ds *models.Dataset, profiles []models.ColumnProfile, cfg *models.AnalysisConfig, skip map[int]struct{}) ([]FuzzyCluster, error) {
	blockCol := BlockingColumn(profiles)
	if blockCol < 0 {
		return nil, nil
	}

	blocks := make(map[string][]int)
	var blockKeys []string
	for row := 0; row < ds.Rows(); row++ {
		if _, ok := skip[row]; ok {
			continue
		}
		key := blockKey(&ds.Columns[blockCol], row)
		if _, seen := blocks[key]; !seen {
			blockKeys = append(blockKeys, key)
		}
		blocks[key] = append(blocks[key], row)
	}
	sort.Strings(blockKeys)

	totalComparisons := 0
	for _, key := range blockKeys {
		n := len(blocks[key])
		if n > cfg.MaxBlockSize {
			n = cfg.MaxBlockSize
		}
		totalComparisons += n * (n - 1) / 2
	}
	if totalComparisons > cfg.MaxFuzzyComparisons {
		return nil, enginerrors.NewBudgetError("FUZZY_BUDGET",
			fmt.Sprintf("fuzzy pass needs %d comparisons, ceiling is %d",
				totalComparisons, cfg.MaxFuzzyComparisons), enginerrors.ErrBudgetExceeded)
	}

	parent := make(map[int]int)
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			if rb < ra {
				ra, rb = rb, ra
			}
			parent[rb] = ra
		}
	}

	similarity := make(map[int]float64)
	text := make(map[int]string)
	rowText := func(row int) string {
		if t, ok := text[row]; ok {
			return t
		}
		t := concatStringFields(ds, row)
		text[row] = t
		return t
	}

	for _, key := range blockKeys {
		rows := blocks[key]
		if len(rows) > cfg.MaxBlockSize {
			rows = rows[:cfg.MaxBlockSize]
		}
		for i := 0; i < len(rows); i++ {
			select {
			case <-ctx.Done():
				return nil, enginerrors.NewBudgetError("FUZZY_TIMEOUT",
					"time budget exhausted during fuzzy pass", ctx.Err())
			default:
			}
			for j := i + 1; j < len(rows); j++ {
				sim := Similarity(rowText(rows[i]), rowText(rows[j]))
				if sim < cfg.FuzzyThreshold {
					continue
				}
				a, b := rows[i], rows[j]
				if _, ok := parent[a]; !ok {
					parent[a] = a
				}
				if _, ok := parent[b]; !ok {
					parent[b] = b
				}
				union(a, b)
				if sim > similarity[a] {
					similarity[a] = sim
				}
				if sim > similarity[b] {
					similarity[b] = sim
				}
			}
		}
	}

	members := make(map[int][]int)
	for row := range parent {
		members[find(row)] = append(members[find(row)], row)
	}

	roots := make([]int, 0, len(members))
	for root := range members {
		roots = append(roots, root)
	}
	sort.Ints(roots)

	clusters := make([]FuzzyCluster, 0, len(roots))
	for _, root := range roots {
		rows := members[root]
		sort.Ints(rows)
		maxSim := 0.0
		for _, r := range rows {
			if similarity[r] > maxSim {
				maxSim = similarity[r]
			}
		}
		clusters = append(clusters, FuzzyCluster{
			Representative: rows[0],
			Duplicates:     rows[1:],
			MaxSimilarity:  maxSim,
		})
	}

	return clusters, nil
}

func (d *DuplicateDetector) fuzzyPass(ctx context.Context, ds *models.Dataset, profiles []models.ColumnProfile, cfg *models.AnalysisConfig, exactRows map[int]struct{}) ([]models.Problem, error) {
	clusters, err := FindFuzzyClusters(ctx, ds, profiles, cfg, exactRows)
	if err != nil {
		return nil, err
	}

	var problems []models.Problem
	for _, c := range clusters {
		problems = append(problems, models.Problem{
			Type:         models.ProblemDuplicateFuzzy,
			AffectedRows: c.Duplicates,
			Count:        len(c.Duplicates),
			Probability:  c.MaxSimilarity,
			Severity:     models.SeverityMedium,
			Description: fmt.Sprintf("%d near-duplicate(s) of row %d (similarity %.2f)",
				len(c.Duplicates), c.Representative, c.MaxSimilarity),
		})
	}

	return problems, nil
}

// Similarity is normalized edit-distance similarity in [0,1] after
// casefolding.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1.0
	}
	longest := len([]rune(a))
	if n := len([]rune(b)); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}

func blockKey(col *models.Column, row int) string {
	s, ok := col.Cell(row)
	if !ok {
		return ""
	}
	runes := []rune(strings.ToLower(s))
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return string(runes)
}

// concatStringFields joins the row's cells for pairwise comparison. Numeric
// cells are included verbatim so differing amounts keep rows apart.
func concatStringFields(ds *models.Dataset, row int) string {
	parts := make([]string, 0, len(ds.Columns))
	for i := range ds.Columns {
		if s, ok := ds.Columns[i].Cell(row); ok {
			parts = append(parts, strings.Join(strings.Fields(s), " "))
		}
	}
	return strings.Join(parts, " ")
}
