package models

// ProblemType enumerates the classes of data-quality issues the detectors
// report.
type ProblemType string

const (
	ProblemMissingValues      ProblemType = "missing_values"
	ProblemDuplicateExact     ProblemType = "duplicate_exact"
	ProblemDuplicateFuzzy     ProblemType = "duplicate_fuzzy"
	ProblemOutlier            ProblemType = "outlier"
	ProblemFormatInconsistent ProblemType = "format_inconsistency"
	ProblemTypeMismatch       ProblemType = "type_mismatch"
	// ProblemAnalysisIncomplete is a warning: a detector pass was skipped or
	// cut short (budget exceeded, detector failure). It never contributes to
	// the quality score.
	ProblemAnalysisIncomplete ProblemType = "analysis_incomplete"
)

// Severity buckets a problem by how urgently it needs attention.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// MissingBand is the policy band a missing-value problem falls in. The
// recommendation engine reads the band, not the raw ratio.
type MissingBand string

const (
	BandStructural MissingBand = "structural" // ratio >= structural threshold: drop the column
	BandScattered  MissingBand = "scattered"  // imputation is viable
	BandMinor      MissingBand = "minor"      // below the scattered threshold, no mandatory action
)

// Problem is a detected, quantified data-quality issue.
//
// Invariants: Count == len(AffectedRows) whenever row indices are tracked,
// and Probability is monotonic non-decreasing with evidence strength.
type Problem struct {
	// Column is empty for row-level problems such as exact duplicates.
	Column       string      `json:"column,omitempty"`
	Type         ProblemType `json:"problem_type"`
	AffectedRows []int       `json:"affected_row_indices"`
	Count        int         `json:"count"`
	Probability  float64     `json:"probability"`
	Severity     Severity    `json:"severity"`
	Band         MissingBand `json:"band,omitempty"`
	Description  string      `json:"description"`
}
