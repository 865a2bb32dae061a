package store

import (
	"context"
	"errors"

	"github.com/voidshard/tally/pkg/domain"
)

// ErrNotFound is returned by Read when the source does not exist (yet).
var ErrNotFound = errors.New("store source not found")

// Store reads & writes transaction rows. Write replaces everything held with
// the given rows, in the given order.
type Store interface {
	Read(ctx context.Context) ([]domain.Row, error)
	Write(ctx context.Context, rows []domain.Row) error
}
