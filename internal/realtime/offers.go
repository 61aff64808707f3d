package realtime

import (
	"sync"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
)

// Offers is the in-process offer board: for each order with an open offer it
// remembers which drivers were told about it, so losers can be notified of
// the withdrawal. Implements ports.OfferBoard.
//
// The board is advisory state, not the source of truth for assignment; the
// store's conditional write is. Losing the board on restart only costs one
// redundant rebroadcast round.
type Offers struct {
	mu   sync.Mutex
	open map[string][]kernel.UUID
}

// NewOffers creates an empty offer board.
func NewOffers() *Offers {
	return &Offers{
		open: make(map[string][]kernel.UUID),
	}
}

// Open records the pool that received an offer for the order, replacing any
// previous pool.
func (o *Offers) Open(orderID kernel.UUID, driverIDs []kernel.UUID) {
	ids := make([]kernel.UUID, len(driverIDs))
	copy(ids, driverIDs)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.open[orderID.String()] = ids
}

// Close removes the order's offer and returns the drivers that held it.
func (o *Offers) Close(orderID kernel.UUID) []kernel.UUID {
	o.mu.Lock()
	defer o.mu.Unlock()

	ids := o.open[orderID.String()]
	delete(o.open, orderID.String())
	return ids
}
