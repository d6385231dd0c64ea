package models

// Operation is a corrective operation code the cleaning executor understands.
type Operation string

const (
	OpDropColumn           Operation = "drop_column"
	OpFillMissingMean      Operation = "fill_missing_mean"
	OpFillMissingMedian    Operation = "fill_missing_median"
	OpFillMissingMode      Operation = "fill_missing_mode"
	OpDropDuplicateRows    Operation = "drop_duplicate_rows"
	OpMergeFuzzyDuplicates Operation = "merge_fuzzy_duplicates"
	OpRemoveOutliers       Operation = "remove_outliers"
	OpClipOutliers         Operation = "clip_outliers"
	OpStandardizeFormat    Operation = "standardize_format"
	OpCastType             Operation = "cast_type"
)

// KnownOperations lists every operation code the executor supports, in
// canonical execution order.
var KnownOperations = []Operation{
	OpDropColumn,
	OpDropDuplicateRows,
	OpMergeFuzzyDuplicates,
	OpFillMissingMean,
	OpFillMissingMedian,
	OpFillMissingMode,
	OpRemoveOutliers,
	OpClipOutliers,
	OpStandardizeFormat,
	OpCastType,
}

// Priority orders recommendations for presentation and default application.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recommendation is a proposed corrective operation derived from one or more
// detected problems. Recommendations for the same column/operation pair are
// deduplicated.
type Recommendation struct {
	Operation             Operation `json:"operation"`
	Column                string    `json:"column,omitempty"`
	Priority              Priority  `json:"priority"`
	Reason                string    `json:"reason"`
	EstimatedRowsAffected int       `json:"estimated_rows_affected"`
}

// ApprovedOperation is a client-approved operation the executor applies.
// Column is empty for row-level operations.
type ApprovedOperation struct {
	Operation Operation `json:"operation"`
	Column    string    `json:"column,omitempty"`
}
