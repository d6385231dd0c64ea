package models

// OutlierMethod selects which outlier passes run.
type OutlierMethod string

const (
	OutlierIQR      OutlierMethod = "iqr"
	OutlierEnsemble OutlierMethod = "ensemble"
	OutlierBoth     OutlierMethod = "both"
)

// AnalysisConfig is the immutable policy configuration threaded through every
// engine call. It is never ambient state: analyze() stays reentrant and
// testable under varying policy.
type AnalysisConfig struct {
	FuzzyThreshold             float64       `json:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`
	OutlierMethod              OutlierMethod `json:"outlier_method" mapstructure:"outlier_method"`
	MissingStructuralThreshold float64       `json:"missing_structural_threshold" mapstructure:"missing_structural_threshold"`
	MissingScatteredThreshold  float64       `json:"missing_scattered_threshold" mapstructure:"missing_scattered_threshold"`
	MaxFuzzyComparisons        int           `json:"max_fuzzy_comparisons" mapstructure:"max_fuzzy_comparisons"`
	MaxBlockSize               int           `json:"max_block_size" mapstructure:"max_block_size"`
	TimeBudgetMS               int           `json:"time_budget_ms" mapstructure:"time_budget_ms"`
	// Seed fixes the ensemble outlier pass so analyze() is deterministic.
	Seed               int64 `json:"seed" mapstructure:"seed"`
	EnsembleTrees      int   `json:"ensemble_trees" mapstructure:"ensemble_trees"`
	EnsembleSampleSize int   `json:"ensemble_sample_size" mapstructure:"ensemble_sample_size"`
}

// DefaultAnalysisConfig returns the policy defaults.
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		FuzzyThreshold:             0.85,
		OutlierMethod:              OutlierBoth,
		MissingStructuralThreshold: 0.70,
		MissingScatteredThreshold:  0.05,
		MaxFuzzyComparisons:        2_000_000,
		MaxBlockSize:               512,
		TimeBudgetMS:               0,
		Seed:                       1,
		EnsembleTrees:              100,
		EnsembleSampleSize:         256,
	}
}

// Normalized returns a copy with zero-valued fields replaced by defaults, so
// callers can supply a sparse config.
func (c *AnalysisConfig) Normalized() *AnalysisConfig {
	def := DefaultAnalysisConfig()
	if c == nil {
		return def
	}
	out := *c
	if out.FuzzyThreshold <= 0 {
		out.FuzzyThreshold = def.FuzzyThreshold
	}
	if out.OutlierMethod == "" {
		out.OutlierMethod = def.OutlierMethod
	}
	if out.MissingStructuralThreshold <= 0 {
		out.MissingStructuralThreshold = def.MissingStructuralThreshold
	}
	if out.MissingScatteredThreshold <= 0 {
		out.MissingScatteredThreshold = def.MissingScatteredThreshold
	}
	if out.MaxFuzzyComparisons <= 0 {
		out.MaxFuzzyComparisons = def.MaxFuzzyComparisons
	}
	if out.MaxBlockSize <= 0 {
		out.MaxBlockSize = def.MaxBlockSize
	}
	if out.Seed == 0 {
		out.Seed = def.Seed
	}
	if out.EnsembleTrees <= 0 {
		out.EnsembleTrees = def.EnsembleTrees
	}
	if out.EnsembleSampleSize <= 0 {
		out.EnsembleSampleSize = def.EnsembleSampleSize
	}
	return &out
}
