package detectors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cleansight/cleansight/internal/profiler"
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

func dataset(cols ...models.Column) *models.Dataset {
	return &models.Dataset{Columns: cols}
}

func profileAll(t *testing.T, ds *models.Dataset) []models.ColumnProfile {
	t.Helper()
	profiles, err := profiler.New(nil).ProfileDataset(context.Background(), ds)
	require.NoError(t, err)
	return profiles
}
