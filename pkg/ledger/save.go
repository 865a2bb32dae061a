package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/voidshard/tally/pkg/domain"
	"github.com/voidshard/tally/pkg/store"
)

// SaveReport counts what a save did.
type SaveReport struct {
	Written int // rows now in the store
	Added   int // transactions the store did not have
	Updated int // stored rows replaced by the ledger's version
	Removed int // stored rows deleted through this ledger
	Skipped int // rows dropped for having no id, or an id already written
}

// Save writes the ledger to the store, merging with what is already there.
//
// Stored rows keep their place: rows the ledger also holds are replaced by
// the ledger's version, rows deleted through this ledger are dropped and
// anything else is left as it was. Transactions the store doesn't have yet
// are appended in ledger order. Rows without an id are never written, ids
// are only handed out by Add. Of stored rows sharing an id the first is kept.
func (l *Ledger) Save(ctx context.Context, s store.Store) (*SaveReport, error) {
	if !l.loaded {
		return nil, ErrNotLoaded
	}

	existing, err := s.Read(ctx)
	if errors.Is(err, store.ErrNotFound) {
		existing = []domain.Row{}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read existing transactions: %w", err)
	}

	rows, report := l.reconcile(existing)

	err = s.Write(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to write transactions: %w", err)
	}

	l.opts.Log.Info(
		"transactions saved",
		"written", report.Written,
		"added", report.Added,
		"updated", report.Updated,
		"removed", report.Removed,
		"skipped", report.Skipped,
	)
	return report, nil
}

func (l *Ledger) reconcile(existing []domain.Row) ([]domain.Row, *SaveReport) {
	report := &SaveReport{}

	mine := map[string]*domain.Transaction{}
	for _, tx := range l.transactions {
		if tx.ID == "" {
			report.Skipped++
			l.opts.Log.Warn("transaction missing id, not saved", "row", tx.Row())
			continue
		}
		mine[tx.ID] = tx
	}

	rows := []domain.Row{}
	written := map[string]bool{}

	for _, r := range existing {
		id := r.ID()
		switch {
		case id == "":
			report.Skipped++
			l.opts.Log.Warn("stored transaction missing id, dropped", "row", r)
		case written[id]:
			report.Skipped++
			l.opts.Log.Warn("stored transaction id repeated, dropped", "row", r)
		case l.deleted[id] && mine[id] == nil:
			report.Removed++
		case mine[id] != nil:
			rows = append(rows, mine[id].Row())
			written[id] = true
			report.Updated++
		default:
			rows = append(rows, r.Canonical())
			written[id] = true
		}
	}

	for _, tx := range l.transactions {
		if tx.ID == "" || written[tx.ID] {
			continue
		}
		rows = append(rows, tx.Row())
		written[tx.ID] = true
		report.Added++
	}

	report.Written = len(rows)
	return rows, report
}
