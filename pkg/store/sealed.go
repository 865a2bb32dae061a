package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/voidshard/tally/pkg/crypto"
	"github.com/voidshard/tally/pkg/domain"
)

// check it meets the interface
var _ Store = &SealedFile{}

// SealedFile is a JSONFile that is encrypted & signed at rest.
type SealedFile struct {
	filename string
	sealer   *crypto.Sealer
}

// NewSealedFile returns a sealed store, both keys must be at least 32 chars
// (see crypto.NewRandomKey).
func NewSealedFile(filename, key, sig string) (*SealedFile, error) {
	sealer, err := crypto.NewSealer(key, sig)
	if err != nil {
		return nil, fmt.Errorf("sealed store: %w", err)
	}
	return &SealedFile{filename: filename, sealer: sealer}, nil
}

func (f *SealedFile) Read(ctx context.Context) ([]domain.Row, error) {
	data, err := os.ReadFile(f.filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, f.filename)
	} else if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []domain.Row{}, nil
	}

	plain, err := f.sealer.Open(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unseal %s: %w", f.filename, err)
	}
	return decodeRows(plain)
}

func (f *SealedFile) Write(ctx context.Context, rows []domain.Row) error {
	data, err := encodeRows(rows)
	if err != nil {
		return err
	}
	sealed, err := f.sealer.Seal(data)
	if err != nil {
		return err
	}
	return os.WriteFile(f.filename, sealed, 0600)
}
