package lottery

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// TicketBatch accumulates (pid, pk, ticket) triples for an in-progress
// aggregation, rejecting a duplicate pid in O(1) via a bitset membership
// check rather than an O(L) linear scan, and reproducing the caller's
// insertion order on Finalize (aggregation is order-sensitive, see
// LotteryScheme.Aggregate). It is sugar over Aggregate/Verify, not a change
// to their semantics.
type TicketBatch struct {
	seen    *bitset.BitSet
	pids    []uint32
	pks     []PublicKey
	tickets []Ticket
}

// NewTicketBatch returns an empty batch.
func NewTicketBatch() *TicketBatch {
	return &TicketBatch{seen: bitset.New(0)}
}

// Add appends a participant's ticket to the batch. Fails if pid was already
// added.
func (b *TicketBatch) Add(pid uint32, pk PublicKey, ticket Ticket) error {
	if b.seen.Test(uint(pid)) {
		return fmt.Errorf("lottery: duplicate participant id %d in ticket batch", pid)
	}
	b.seen.Set(uint(pid))
	b.pids = append(b.pids, pid)
	b.pks = append(b.pks, pk)
	b.tickets = append(b.tickets, ticket)
	return nil
}

// Len returns the number of tickets currently in the batch.
func (b *TicketBatch) Len() int {
	return len(b.pids)
}

// Finalize returns the accumulated pids/pks/tickets, in insertion order,
// ready to be passed to LotteryScheme.Aggregate.
func (b *TicketBatch) Finalize() ([]uint32, []PublicKey, []Ticket) {
	return b.pids, b.pks, b.tickets
}
