package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/voidshard/tally/pkg/domain"
)

// check it meets the interface
var _ Store = &CSVFile{}

// CSVFile keeps rows in a comma separated file with a header line.
// Columns are matched by header name, so files with extra, missing or
// reordered columns can still be read. Writes always use the canonical columns.
type CSVFile struct {
	filename string
}

func NewCSVFile(filename string) *CSVFile {
	return &CSVFile{filename: filename}
}

func (f *CSVFile) Read(ctx context.Context) ([]domain.Row, error) {
	fh, err := os.Open(f.filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, f.filename)
	} else if err != nil {
		return nil, err
	}
	defer fh.Close()

	return readCSV(fh)
}

func readCSV(r io.Reader) ([]domain.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // short & long lines are tolerated

	header, err := reader.Read()
	if err == io.EOF {
		return []domain.Row{}, nil // empty file, empty ledger
	} else if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows := []domain.Row{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		row := domain.Row{}
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (f *CSVFile) Write(ctx context.Context, rows []domain.Row) error {
	dir := filepath.Dir(f.filename)

	// write next to the target & rename, so a failed write never leaves
	// us with half a file
	tmp, err := os.CreateTemp(dir, filepath.Base(f.filename)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	err = writeCSV(tmp, rows)
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}

	return os.Rename(tmp.Name(), f.filename)
}

func writeCSV(w io.Writer, rows []domain.Row) error {
	writer := csv.NewWriter(w)

	err := writer.Write(domain.Columns)
	if err != nil {
		return err
	}
	for _, r := range rows {
		err = writer.Write(r.Values())
		if err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
