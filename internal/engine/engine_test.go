package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	enginerrors "github.com/cleansight/cleansight/pkg/errors"
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

func messyDataset() *models.Dataset {
	return &models.Dataset{Columns: []models.Column{
		column("name", "John Doe", "Jon Doe", "Jane Roe", "Jane Roe", "BOB STONE", "Ann Gray", "Tom Hale", "Sue Park", "Max Vale", "Ivy Moss"),
		column("age", "34", "34", "29", "29", "41", "38", "abc", "55", "27", "31"),
		column("amount", "120.5", "120.5", "80.25", "80.25", "95.0", "110.75", "99.99", "3000", "87.5", "<nil>"),
		column("dept", "sales", "sales", "sales", "sales", "ops", "ops", "ops", "ops", "ops", "ops"),
	}}
}

func TestAnalyzeInputValidation(t *testing.T) {
	e := New(nil, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		ds   *models.Dataset
	}{
		{"nil dataset", nil},
		{"no columns", &models.Dataset{}},
		{"no rows", &models.Dataset{Columns: []models.Column{{Name: "a"}}}},
		{"ragged columns", &models.Dataset{Columns: []models.Column{
			column("a", "1", "2"),
			column("b", "1"),
		}}},
		{"duplicate column names", &models.Dataset{Columns: []models.Column{
			column("a", "1"),
			column("a", "2"),
		}}},
		{"all null", &models.Dataset{Columns: []models.Column{
			column("a", "<nil>", "NA"),
			column("b", "null", "-"),
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Analyze(ctx, tt.ds)
			require.Error(t, err)
			assert.True(t, enginerrors.IsInputError(err), "want input error, got %v", err)
		})
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	e := New(nil, nil)
	ctx := context.Background()
	ds := messyDataset()

	first, err := e.Analyze(ctx, ds)
	require.NoError(t, err)
	second, err := e.Analyze(ctx, ds)
	require.NoError(t, err)

	// The report ID and timing differ per run; everything derived from the
	// data must not.
	assert.Equal(t, first.Profiles, second.Profiles)
	assert.Equal(t, first.Problems, second.Problems)
	assert.Equal(t, first.Recommendations, second.Recommendations)
	assert.Equal(t, first.Score, second.Score)
}

func TestAnalyzeFindsSeededProblems(t *testing.T) {
	e := New(nil, nil)
	report, err := e.Analyze(context.Background(), messyDataset())
	require.NoError(t, err)

	types := make(map[models.ProblemType]bool)
	for _, p := range report.Problems {
		types[p.Type] = true
	}

	assert.True(t, types[models.ProblemDuplicateExact], "rows 2/3 are exact duplicates")
	assert.True(t, types[models.ProblemDuplicateFuzzy], "John/Jon Doe are near duplicates")
	assert.True(t, types[models.ProblemTypeMismatch], "age has a non-integer value")
	assert.True(t, types[models.ProblemMissingValues], "amount has a missing cell")

	assert.NotEmpty(t, report.Recommendations)
	assert.Less(t, report.Score.Score, 100)
	assert.NotEmpty(t, report.ID)
}

func TestCleanImprovesScore(t *testing.T) {
	e := New(nil, nil)
	ctx := context.Background()
	ds := messyDataset()

	before, err := e.Analyze(ctx, ds)
	require.NoError(t, err)

	approved := make([]models.ApprovedOperation, 0, len(before.Recommendations))
	for _, r := range before.Recommendations {
		approved = append(approved, models.ApprovedOperation{
			Operation: r.Operation,
			Column:    r.Column,
		})
	}

	cleaned, err := e.Clean(ctx, ds, approved)
	require.NoError(t, err)

	after, err := e.Analyze(ctx, cleaned.Dataset)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, after.Score.Score, before.Score.Score)
	assert.Equal(t, len(cleaned.ChangeLog), cleaned.Summary.Operations)
}

func TestProfileReturnsAllColumns(t *testing.T) {
	e := New(nil, nil)
	profiles, err := e.Profile(context.Background(), messyDataset())
	require.NoError(t, err)
	require.Len(t, profiles, 4)

	assert.Equal(t, models.TypeInteger, profiles[1].InferredType)
	assert.Equal(t, models.TypeFloat, profiles[2].InferredType)
}

func TestScoreShortcut(t *testing.T) {
	e := New(nil, nil)
	score, err := e.Score(context.Background(), messyDataset())
	require.NoError(t, err)
	assert.Greater(t, score.Score, 0)
	assert.Less(t, score.Score, 100)
}
