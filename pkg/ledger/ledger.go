// Package ledger holds transactions in memory between an explicit load
// and an explicit save.
//
// A Ledger starts unloaded; every operation on it fails with ErrNotLoaded
// until rows have been ingested, either from a store (Load) or directly
// (Ingest). It is not safe for concurrent use.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/voidshard/tally/pkg/diag"
	"github.com/voidshard/tally/pkg/domain"
	"github.com/voidshard/tally/pkg/ingest"
	"github.com/voidshard/tally/pkg/store"
)

type Options struct {
	// Strict drops rows with unreadable dates on ingestion
	Strict bool

	// RequireDescription refuses adds without a description
	RequireDescription bool

	// Log receives diagnostics, nil discards them
	Log *log.Logger
}

// DefaultOptions mirrors what the command line does out of the box.
func DefaultOptions() Options {
	return Options{RequireDescription: true}
}

type Ledger struct {
	opts   Options
	loaded bool

	transactions []*domain.Transaction

	// ids this ledger took out, so a save doesn't bring them back
	deleted map[string]bool

	// ids of stored rows ingestion skipped, never handed out again
	reserved []string
}

func New(opts Options) *Ledger {
	if opts.Log == nil {
		opts.Log = diag.Discard()
	}
	return &Ledger{
		opts:         opts,
		transactions: []*domain.Transaction{},
		deleted:      map[string]bool{},
	}
}

// Loaded returns if rows have been ingested.
func (l *Ledger) Loaded() bool {
	return l.loaded
}

// Len returns the number of transactions held.
func (l *Ledger) Len() int {
	return len(l.transactions)
}

// Transactions returns copies of all transactions, in ledger order.
func (l *Ledger) Transactions() []*domain.Transaction {
	out := make([]*domain.Transaction, len(l.transactions))
	for i, tx := range l.transactions {
		out[i] = tx.Copy()
	}
	return out
}

// Get returns a copy of the transaction with the given id.
func (l *Ledger) Get(id string) (*domain.Transaction, error) {
	if !l.loaded {
		return nil, ErrNotLoaded
	}
	i := l.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return l.transactions[i].Copy(), nil
}

// Rows renders every transaction with the canonical columns.
func (l *Ledger) Rows() []domain.Row {
	out := make([]domain.Row, len(l.transactions))
	for i, tx := range l.transactions {
		out[i] = tx.Row()
	}
	return out
}

// Load reads & ingests everything in the store, replacing what the ledger
// held. A store with nothing to read leaves the ledger as it was.
func (l *Ledger) Load(ctx context.Context, s store.Store) ([]diag.Diagnostic, error) {
	rows, err := s.Read(ctx)
	if errors.Is(err, store.ErrNotFound) {
		l.opts.Log.Error("transaction source not found", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrMissingSource, err)
	} else if err != nil {
		return nil, err
	}
	return l.Ingest(rows), nil
}

// Ingest normalizes rows into the ledger, replacing what it held, and
// marks it loaded. Diagnostics are logged & returned.
func (l *Ledger) Ingest(rows []domain.Row) []diag.Diagnostic {
	res := ingest.Normalize(rows, ingest.Options{Strict: l.opts.Strict})
	diag.Emit(l.opts.Log, res.Diagnostics)

	l.transactions = res.Transactions
	l.deleted = map[string]bool{}
	l.reserved = res.Skipped
	l.loaded = true

	l.opts.Log.Info("loaded transactions", "count", len(l.transactions), "diagnostics", len(res.Diagnostics))
	return res.Diagnostics
}

// index returns the position of the transaction with the given id, or -1
func (l *Ledger) index(id string) int {
	for i, tx := range l.transactions {
		if tx.ID == id {
			return i
		}
	}
	return -1
}
