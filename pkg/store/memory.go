package store

import (
	"context"

	"github.com/voidshard/tally/pkg/domain"
)

// check it meets the interface
var _ Store = &Memory{}

// Memory keeps rows in memory. A nil row set reads as a missing source.
type Memory struct {
	rows []domain.Row
}

// NewMemory returns a store already holding the given rows.
func NewMemory(rows ...domain.Row) *Memory {
	m := &Memory{}
	if rows != nil {
		m.rows = copyRows(rows)
	}
	return m
}

func (m *Memory) Read(ctx context.Context) ([]domain.Row, error) {
	if m.rows == nil {
		return nil, ErrNotFound
	}
	return copyRows(m.rows), nil
}

func (m *Memory) Write(ctx context.Context, rows []domain.Row) error {
	m.rows = copyRows(rows)
	return nil
}

// copyRows returns canonical copies so callers can't reach our state
func copyRows(rows []domain.Row) []domain.Row {
	out := make([]domain.Row, len(rows))
	for i, r := range rows {
		out[i] = r.Canonical()
	}
	return out
}
