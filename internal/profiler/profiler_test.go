package profiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleansight/cleansight/pkg/models"
)

func column(name string, values ...string) models.Column {
	col := models.Column{Name: name, Values: make([]*string, len(values))}
	for i, v := range values {
		if v == "<nil>" {
			continue
		}
		s := v
		col.Values[i] = &s
	}
	return col
}

func TestInferTypeHypotheses(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   models.ColumnType
	}{
		{"integers", []string{"1", "42", "-7", "+3"}, models.TypeInteger},
		{"floats", []string{"1.5", "2.0", "-0.25", "3"}, models.TypeFloat},
		{"booleans", []string{"true", "False", "yes", "N"}, models.TypeBoolean},
		{"dates", []string{"2024-01-15", "2023-12-01", "2024/03/09"}, models.TypeDate},
		{"emails", []string{"a@example.com", "b.c@test.org", "x+y@mail.co"}, models.TypeEmail},
		{"phones", []string{"+1 (555) 123-4567", "555-123-4567", "5551234567"}, models.TypePhone},
		{"currency", []string{"$1,200.00", "$85.50", "$-12.99"}, models.TypeCurrency},
		{"free text", []string{"the quick fox", "lorem ipsum dolor", "hello world"}, models.TypeFreeText},
	}

	p := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := column("c", tt.values...)
			profile := p.ProfileColumn(&col)
			assert.Equal(t, tt.want, profile.InferredType)
		})
	}
}

func TestInferTypeAcceptanceThreshold(t *testing.T) {
	p := New(nil)

	// 9 of 10 values parse as integers: exactly the 90% threshold, so the
	// integer hypothesis is accepted and the odd value becomes a mismatch.
	values := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "oops"}
	col := column("age", values...)
	profile := p.ProfileColumn(&col)

	assert.Equal(t, models.TypeInteger, profile.InferredType)
	assert.Equal(t, []int{9}, profile.MismatchRows)

	// 8 of 10: below the threshold, integer is rejected.
	values[8] = "also bad"
	col = column("age", values...)
	profile = p.ProfileColumn(&col)
	assert.NotEqual(t, models.TypeInteger, profile.InferredType)
}

func TestProfileColumnMissing(t *testing.T) {
	p := New(nil)

	// nil cells and sentinel tokens both count as missing.
	col := column("c", "1", "<nil>", "NA", "n/a", "null", "-", "  ", "2")
	profile := p.ProfileColumn(&col)

	assert.Equal(t, 8, profile.RowCount)
	assert.Equal(t, 6, profile.MissingCount)
	assert.InDelta(t, 0.75, profile.MissingRatio, 1e-9)
	assert.Equal(t, models.TypeInteger, profile.InferredType)
}

func TestProfileColumnAllMissing(t *testing.T) {
	p := New(nil)

	col := column("c", "<nil>", "NA", "")
	profile := p.ProfileColumn(&col)

	assert.Equal(t, models.TypeFreeText, profile.InferredType)
	assert.Equal(t, 3, profile.MissingCount)
	assert.Nil(t, profile.NumericStats)
	assert.Nil(t, profile.ValueLengthStats)
}

func TestProfileColumnNumericStats(t *testing.T) {
	p := New(nil)

	col := column("n", "1", "2", "3", "4", "5")
	profile := p.ProfileColumn(&col)

	require.NotNil(t, profile.NumericStats)
	assert.Equal(t, 1.0, profile.NumericStats.Min)
	assert.Equal(t, 5.0, profile.NumericStats.Max)
	assert.Equal(t, 3.0, profile.NumericStats.Mean)
	assert.Equal(t, 3.0, profile.NumericStats.Median)
	assert.Equal(t, 2.0, profile.NumericStats.Q1)
	assert.Equal(t, 4.0, profile.NumericStats.Q3)
}

func TestCategoricalFallback(t *testing.T) {
	p := New(nil)

	// 3 distinct tokens across 100 rows: cardinality 0.03 < 0.05.
	values := make([]string, 100)
	tokens := []string{"red bike", "blue bike", "green bike"}
	for i := range values {
		values[i] = tokens[i%3]
	}
	col := column("color", values...)
	profile := p.ProfileColumn(&col)

	assert.Equal(t, models.TypeCategorical, profile.InferredType)
	assert.Equal(t, 3, profile.UniqueCount)
}

func TestProfileDatasetOrder(t *testing.T) {
	p := New(nil)

	ds := &models.Dataset{Columns: []models.Column{
		column("a", "1", "2"),
		column("b", "x y z", "q r s"),
	}}
	profiles, err := p.ProfileDataset(context.Background(), ds)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "a", profiles[0].Name)
	assert.Equal(t, "b", profiles[1].Name)
}

func TestCanonicalValue(t *testing.T) {
	tests := []struct {
		t    models.ColumnType
		in   string
		want string
		ok   bool
	}{
		{models.TypeInteger, "007", "7", true},
		{models.TypeInteger, "x", "", false},
		{models.TypeBoolean, "YES", "true", true},
		{models.TypeBoolean, "n", "false", true},
		{models.TypeDate, "01/15/2024", "2024-01-15", true},
		{models.TypeEmail, "User@Example.COM", "user@example.com", true},
		{models.TypePhone, "(555) 123-4567", "5551234567", true},
		{models.TypeCurrency, "$1,200.50", "1200.5", true},
		{models.TypeFreeText, "anything", "anything", true},
	}

	for _, tt := range tests {
		got, ok := CanonicalValue(tt.t, tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, "input %q", tt.in)
		}
	}
}
