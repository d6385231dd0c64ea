package ingest

import (
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	enginerrors "github.com/cleansight/cleansight/pkg/errors"
	"github.com/cleansight/cleansight/pkg/models"
)

// ReadCSV loads a headered CSV stream into a Dataset. Every cell is kept as
// its raw string: type inference is the profiler's job, so the frame is read
// untyped on purpose. Empty cells become missing.
func ReadCSV(r io.Reader) (*models.Dataset, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, enginerrors.NewInputError("CSV_PARSE",
			"failed to parse CSV input", df.Err)
	}

	records := df.Records()
	if len(records) == 0 {
		return nil, enginerrors.NewInputError("EMPTY_DATASET",
			"CSV input is empty", enginerrors.ErrEmptyDataset)
	}

	header := records[0]
	rows := records[1:]

	ds := &models.Dataset{Columns: make([]models.Column, len(header))}
	for c, name := range header {
		values := make([]*string, len(rows))
		for r, record := range rows {
			if record[c] == "" {
				continue
			}
			v := record[c]
			values[r] = &v
		}
		ds.Columns[c] = models.Column{Name: name, Values: values}
	}

	return ds, nil
}

// ReadCSVFile loads a CSV file into a Dataset.
func ReadCSVFile(path string) (*models.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, enginerrors.NewInputError("CSV_OPEN",
			"failed to open CSV file", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// WriteCSV writes a Dataset as headered CSV. Missing cells are written empty.
func WriteCSV(w io.Writer, ds *models.Dataset) error {
	records := make([][]string, 0, ds.Rows()+1)

	header := make([]string, len(ds.Columns))
	for i, col := range ds.Columns {
		header[i] = col.Name
	}
	records = append(records, header)

	for r := 0; r < ds.Rows(); r++ {
		record := make([]string, len(ds.Columns))
		for c := range ds.Columns {
			if v := ds.Columns[c].Values[r]; v != nil {
				record[c] = *v
			}
		}
		records = append(records, record)
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return enginerrors.NewInternalError("failed to build output frame", df.Err)
	}
	return df.WriteCSV(w)
}

// WriteCSVFile writes a Dataset to a CSV file.
func WriteCSVFile(path string, ds *models.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return enginerrors.NewInternalError("failed to create CSV file", err)
	}
	defer f.Close()
	return WriteCSV(f, ds)
}
