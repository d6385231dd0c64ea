package cleaning

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

func dataset(cols ...models.Column) *models.Dataset {
	return &models.Dataset{Columns: cols}
}

func cell(t *testing.T, ds *models.Dataset, col string, row int) string {
	t.Helper()
	idx := ds.ColumnIndex(col)
	require.GreaterOrEqual(t, idx, 0)
	v, _ := ds.Columns[idx].Cell(row)
	return v
}

func TestCleanRejectsUnknownOperation(t *testing.T) {
	e := New(nil, nil)
	ds := dataset(column("a", "1", "2"))

	_, err := e.Clean(context.Background(), ds, []models.ApprovedOperation{
		{Operation: "sparkle", Column: "a"},
	})
	require.Error(t, err)
	assert.True(t, enginerrors.IsOperationError(err))
}

func TestCleanRejectsUnknownColumn(t *testing.T) {
	e := New(nil, nil)
	ds := dataset(column("a", "1", "2"))

	_, err := e.Clean(context.Background(), ds, []models.ApprovedOperation{
		{Operation: models.OpDropColumn, Column: "a"},
		{Operation: models.OpFillMissingMean, Column: "ghost"},
	})
	require.Error(t, err)
	assert.True(t, enginerrors.IsOperationError(err))

	// Atomicity: the valid drop_column must not have been applied.
	assert.Len(t, ds.Columns, 1)
}

func TestCleanNeverMutatesInput(t *testing.T) {
	e := New(nil, nil)
	ds := dataset(column("n", "1", "2", "2", "3"))

	result, err := e.Clean(context.Background(), ds, []models.ApprovedOperation{
		{Operation: models.OpDropDuplicateRows},
	})
	require.NoError(t, err)

	assert.Equal(t, 4, ds.Rows())
	assert.Equal(t, 3, result.Dataset.Rows())
	assert.Equal(t, 1, result.Summary.RowsRemoved)
}

func TestCanonicalExecutionOrder(t *testing.T) {
	e := New(nil, nil)
	ds := dataset(
		column("keep", "x y", "x y", "z w", "v u"),
		column("drop_me", "1", "2", "3", "4"),
	)

	// Approved out of order: the executor must still drop the column first
	// and dedupe second, logging in canonical order.
	result, err := e.Clean(context.Background(), ds, []models.ApprovedOperation{
		{Operation: models.OpDropDuplicateRows},
		{Operation: models.OpDropColumn, Column: "drop_me"},
	})
	require.NoError(t, err)
	require.Len(t, result.ChangeLog, 2)

	assert.Equal(t, models.OpDropColumn, result.ChangeLog[0].Operation)
	assert.Equal(t, models.OpDropDuplicateRows, result.ChangeLog[1].Operation)

	// Rows 0 and 1 only collide once drop_me is gone, so ordering is
	// observable in the row count.
	assert.Equal(t, 3, result.Dataset.Rows())
	assert.Len(t, result.Dataset.Columns, 1)
}

func TestFillMissingMedianAndMean(t *testing.T) {
	e := New(nil, nil)
	ds := dataset(
		column("med", "1", "2", "<nil>", "3", "10"),
		column("avg", "2", "4", "<nil>", "6", "8"),
	)

	result, err := e.Clean(context.Background(), ds, []models.ApprovedOperation{
		{Operation: models.OpFillMissingMedian, Column: "med"},
		{Operation: models.OpFillMissingMean, Column: "avg"},
	})
	require.NoError(t, err)

	assert.Equal(t, "2.5", cell(t, result.Dataset, "med", 2))
	assert.Equal(t, "5", cell(t, result.Dataset, "avg", 2))

	for _, entry := range result.ChangeLog {
		assert.Equal(t, 1, entry.ValuesChanged)
		require.Len(t, entry.Samples, 1)
		assert.Equal(t, 2, entry.Samples[0].Row)
	}
}

func TestFillMissingMode(t *testing.T) {
	e := New(nil, nil)
	ds := dataset(column("city", "Berlin", "Berlin", "<nil>", "Munich", "NA"))

	result, err := e.Clean(context.Background(), ds, []models.ApprovedOperation{
		{Operation: models.OpFillMissingMode, Column: "city"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Berlin", cell(t, result.Dataset, "city", 2))
	assert.Equal(t, "Berlin", cell(t, result.Dataset, "city", 4))
	assert.Equal(t, 2, result.ChangeLog[0].ValuesChanged)
}

func TestFillMeanOnTextColumnIsRecordedNoOp(t *testing.T) {
	e := New(nil, nil)
	ds := dataset(column("note", "hello there", "<nil>", "general words"))

	result, err := e.Clean(context.Background(), ds, []models.ApprovedOperation{
		{Operation: models.OpFillMissingMean, Column: "note"},
	})
	require.NoError(t, err)

	// One change-log entry even though nothing changed.
	require.Len(t, result.ChangeLog, 1)
	assert.Equal(t, 0, result.ChangeLog[0].ValuesChanged)
	assert.True(t, result.Dataset.Columns[0].IsMissing(1))
}

func TestRemoveAndClipOutliers(t *testing.T) {
	e := New(nil, nil)

	base := []string{"1", "2", "3", "4", "5", "1000"}

	removed, err := New(nil, nil).Clean(context.Background(),
		dataset(column("v", base...)),
		[]models.ApprovedOperation{{Operation: models.OpRemoveOutliers, Column: "v"}})
	require.NoError(t, err)
	assert.Equal(t, 5, removed.Dataset.Rows())

	clipped, err := e.Clean(context.Background(),
		dataset(column("v", base...)),
		[]models.ApprovedOperation{{Operation: models.OpClipOutliers, Column: "v"}})
	require.NoError(t, err)
	assert.Equal(t, 6, clipped.Dataset.Rows())
	// Upper fence: Q3 + 1.5*IQR = 4.75 + 3.75 = 8.5.
	assert.Equal(t, "8.5", cell(t, clipped.Dataset, "v", 5))
}

func TestStandardizeFormat(t *testing.T) {
	e := New(nil, nil)
	ds := dataset(column("name", "John Doe", "Mary  Jane", "BOB STONE", "Alan Poe"))

	result, err := e.Clean(context.Background(), ds, []models.ApprovedOperation{
		{Operation: models.OpStandardizeFormat, Column: "name"},
	})
	require.NoError(t, err)

	assert.Equal(t, "John Doe", cell(t, result.Dataset, "name", 0))
	assert.Equal(t, "Mary Jane", cell(t, result.Dataset, "name", 1))
	assert.Equal(t, "Bob Stone", cell(t, result.Dataset, "name", 2))
	assert.Equal(t, 2, result.ChangeLog[0].ValuesChanged)
}

func TestCastType(t *testing.T) {
	e := New(nil, nil)
	ds := dataset(column("when",
		"2024-01-15", "01/20/2024", "2024-02-01", "2024-02-10",
		"2024-03-01", "2024-03-05", "2024-03-09", "2024-03-12",
		"2024-04-01", "not a date"))

	result, err := e.Clean(context.Background(), ds, []models.ApprovedOperation{
		{Operation: models.OpCastType, Column: "when"},
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-20", cell(t, result.Dataset, "when", 1))
	// The unparseable value becomes missing.
	assert.True(t, result.Dataset.Columns[0].IsMissing(9))
}

func TestMergeFuzzyDuplicates(t *testing.T) {
	e := New(nil, nil)
	ds := dataset(
		column("name", "John Doe", "Jon Doe", "Jane Roe", "Xavier Quinn"),
		column("dept", "sales", "sales", "sales", "ops"),
	)

	result, err := e.Clean(context.Background(), ds, []models.ApprovedOperation{
		{Operation: models.OpMergeFuzzyDuplicates},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Dataset.Rows())
	assert.Equal(t, "John Doe", cell(t, result.Dataset, "name", 0))
	assert.Equal(t, "Jane Roe", cell(t, result.Dataset, "name", 1))
}

func TestCleanIdempotent(t *testing.T) {
	e := New(nil, nil)
	ds := dataset(column("v", "1", "2", "2", "3", "1000"))
	ops := []models.ApprovedOperation{
		{Operation: models.OpDropDuplicateRows},
		{Operation: models.OpRemoveOutliers, Column: "v"},
	}

	once, err := e.Clean(context.Background(), ds, ops)
	require.NoError(t, err)
	twice, err := e.Clean(context.Background(), once.Dataset, ops)
	require.NoError(t, err)

	assert.Equal(t, once.Dataset, twice.Dataset)
}

func TestDuplicateApprovedOperationsCollapse(t *testing.T) {
	e := New(nil, nil)
	ds := dataset(column("v", "1", "1", "2"))

	result, err := e.Clean(context.Background(), ds, []models.ApprovedOperation{
		{Operation: models.OpDropDuplicateRows},
		{Operation: models.OpDropDuplicateRows},
	})
	require.NoError(t, err)
	assert.Len(t, result.ChangeLog, 1)
}
