package ledger

import (
	"math/big"
)

// NextID returns the id the next Add will use: one more than the largest
// integer id held. Non integer ids are ignored. Ids of stored rows that were
// skipped on load count too, so a new transaction never takes their place.
//
// The value is worked out fresh each time, so deleting the transaction with
// the largest id makes that id available again.
func (l *Ledger) NextID() (string, error) {
	if !l.loaded {
		return "", ErrNotLoaded
	}
	return l.nextID(), nil
}

// nextID works on arbitrary precision integers, any id made of digits is
// counted however long it is & the successor never wraps around.
func (l *Ledger) nextID() string {
	highest := new(big.Int)
	consider := func(id string) {
		n, ok := new(big.Int).SetString(id, 10)
		if ok && n.Cmp(highest) > 0 {
			highest = n
		}
	}

	for _, tx := range l.transactions {
		consider(tx.ID)
	}
	for _, id := range l.reserved {
		consider(id)
	}

	return new(big.Int).Add(highest, big.NewInt(1)).String()
}
