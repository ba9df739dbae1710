package playlake

import (
	"sync/atomic"
)

// Nexter is a threadsafe monotonic surrogate-key generator. The keys it hands
// out carry no business meaning and are stable only within a single run.
type Nexter struct {
	id *uint64
}

// NewNexter creates a new key generator starting at 0.
func NewNexter() *Nexter {
	var id uint64
	return &Nexter{
		id: &id,
	}
}

// Next generates a new key and returns it.
func (n *Nexter) Next() (nextID uint64) {
	nextID = atomic.AddUint64(n.id, 1)
	return nextID - 1
}

// Last returns the most recently generated key.
func (n *Nexter) Last() (lastID uint64) {
	lastID = atomic.LoadUint64(n.id) - 1
	return
}
