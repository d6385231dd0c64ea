package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	in := strings.NewReader("name,age,city\nAlice,34,Berlin\nBob,,Munich\n")

	ds, err := ReadCSV(in)
	require.NoError(t, err)
	require.Len(t, ds.Columns, 3)
	assert.Equal(t, "name", ds.Columns[0].Name)
	assert.Equal(t, 2, ds.Rows())

	v, ok := ds.Columns[1].Cell(0)
	assert.True(t, ok)
	assert.Equal(t, "34", v)

	// Empty cell reads as missing.
	assert.True(t, ds.Columns[1].IsMissing(1))
}

func TestCSVRoundTrip(t *testing.T) {
	in := strings.NewReader("a,b\n1,x\n2,y\n,z\n")
	ds, err := ReadCSV(in)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ds))

	again, err := ReadCSV(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, ds.Rows(), again.Rows())
	assert.Len(t, again.Columns, len(ds.Columns))
	assert.True(t, again.Columns[0].IsMissing(2))

	v, _ := again.Columns[1].Cell(2)
	assert.Equal(t, "z", v)
}

func TestReadCSVEmptyInput(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}
