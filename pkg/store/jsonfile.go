package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/voidshard/tally/pkg/domain"
)

// check it meets the interface
var _ Store = &JSONFile{}

// JSONFile keeps rows as a JSON list of objects keyed by column name.
type JSONFile struct {
	filename string
}

func NewJSONFile(filename string) *JSONFile {
	return &JSONFile{filename: filename}
}

func (f *JSONFile) Read(ctx context.Context) ([]domain.Row, error) {
	data, err := os.ReadFile(f.filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, f.filename)
	} else if err != nil {
		return nil, err
	}
	return decodeRows(data)
}

func (f *JSONFile) Write(ctx context.Context, rows []domain.Row) error {
	data, err := encodeRows(rows)
	if err != nil {
		return err
	}
	return os.WriteFile(f.filename, data, 0644)
}

func encodeRows(rows []domain.Row) ([]byte, error) {
	out := make([]domain.Row, len(rows))
	for i, r := range rows {
		out[i] = r.Canonical()
	}
	return json.Marshal(out)
}

func decodeRows(data []byte) ([]domain.Row, error) {
	if len(data) == 0 {
		return []domain.Row{}, nil
	}
	rows := []domain.Row{}
	err := json.Unmarshal(data, &rows)
	return rows, err
}
