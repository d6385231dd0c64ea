package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleansight/cleansight/internal/storage"
	"github.com/cleansight/cleansight/pkg/models"
)

func TestSaveAndGetReport(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	report := &models.AnalysisReport{ID: "r-1", Rows: 10, Columns: 3}
	require.NoError(t, s.SaveReport(ctx, report))

	got, err := s.GetReport(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, report, got)
}

func TestGetMissingReport(t *testing.T) {
	s := NewStore()

	_, err := s.GetReport(context.Background(), "nope")
	assert.ErrorIs(t, err, storage.ErrReportNotFound)
}
