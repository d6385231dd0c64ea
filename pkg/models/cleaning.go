package models

// ChangeSample is a bounded before/after sample recorded for audit display.
// Never the full before/after: large datasets would blow the memory bound.
type ChangeSample struct {
	Row    int    `json:"row"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// ChangeLogEntry records one executed cleaning operation. Exactly one entry
// is appended per executed operation, even when it changed nothing.
type ChangeLogEntry struct {
	Operation     Operation      `json:"operation"`
	Column        string         `json:"column,omitempty"`
	RowsAffected  int            `json:"rows_affected"`
	ValuesChanged int            `json:"values_changed"`
	Samples       []ChangeSample `json:"samples,omitempty"`
	Detail        string         `json:"detail,omitempty"`
}

// CleaningSummary compares the table before and after cleaning.
type CleaningSummary struct {
	OriginalRows    int `json:"original_rows"`
	OriginalColumns int `json:"original_columns"`
	CleanedRows     int `json:"cleaned_rows"`
	CleanedColumns  int `json:"cleaned_columns"`
	RowsRemoved     int `json:"rows_removed"`
	Operations      int `json:"operations_performed"`
}

// CleaningResult is the cleaned dataset plus its audit trail.
type CleaningResult struct {
	Dataset   *Dataset         `json:"dataset"`
	ChangeLog []ChangeLogEntry `json:"change_log"`
	Summary   CleaningSummary  `json:"summary"`
}
