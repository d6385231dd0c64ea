package models

// ColumnType is the inferred semantic type of a column.
type ColumnType string

const (
	TypeInteger     ColumnType = "integer"
	TypeFloat       ColumnType = "float"
	TypeBoolean     ColumnType = "boolean"
	TypeDate        ColumnType = "date"
	TypeEmail       ColumnType = "email"
	TypePhone       ColumnType = "phone"
	TypeCurrency    ColumnType = "currency"
	TypeCategorical ColumnType = "categorical"
	TypeFreeText    ColumnType = "free_text"
)

// IsNumeric reports whether values of this type carry a numeric
// interpretation the outlier detector and fill strategies can use.
func (t ColumnType) IsNumeric() bool {
	return t == TypeInteger || t == TypeFloat || t == TypeCurrency
}

// IsStringLike reports whether the column holds text shapes worth checking
// for format consistency.
func (t ColumnType) IsStringLike() bool {
	switch t {
	case TypeEmail, TypePhone, TypeCategorical, TypeFreeText, TypeDate:
		return true
	}
	return false
}

// LengthStats summarizes character lengths of string-like values.
type LengthStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
}

// NumericStats summarizes the numeric interpretation of a column.
type NumericStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
}

// ColumnProfile is the derived statistical/type summary of one column.
// Computed once per analysis pass and treated as immutable afterwards.
type ColumnProfile struct {
	Name             string        `json:"name"`
	InferredType     ColumnType    `json:"inferred_type"`
	RowCount         int           `json:"row_count"`
	MissingCount     int           `json:"missing_count"`
	MissingRatio     float64       `json:"missing_ratio"`
	UniqueCount      int           `json:"unique_count"`
	CardinalityRatio float64       `json:"cardinality_ratio"`
	ValueLengthStats *LengthStats  `json:"value_length_stats,omitempty"`
	NumericStats     *NumericStats `json:"numeric_stats,omitempty"`
	// MismatchRows are positions whose value failed to parse under the
	// accepted inferred type (the tolerated <10% remainder).
	MismatchRows []int `json:"mismatch_rows,omitempty"`
}
