package models

// QualityScore is the aggregate 0-100 quality metric with a per-problem-type
// penalty breakdown. The same fixed formula runs pre- and post-clean so the
// two scores are directly comparable.
type QualityScore struct {
	Score     int                     `json:"score"`
	Breakdown map[ProblemType]float64 `json:"component_breakdown"`
}

// AnalysisReport is the full output of one analyze() pass.
type AnalysisReport struct {
	ID              string           `json:"id"`
	Profiles        []ColumnProfile  `json:"profiles"`
	Problems        []Problem        `json:"problems"`
	Recommendations []Recommendation `json:"recommendations"`
	Score           QualityScore     `json:"score"`
	Rows            int              `json:"rows"`
	Columns         int              `json:"columns"`
	DurationMS      int64            `json:"duration_ms"`
}
