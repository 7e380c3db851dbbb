package sim

import "github.com/fleetsim/citysim/internal/domain/models"

// UnservedBacklog is the FIFO of passengers no driver was available to
// serve at arrival time.
type UnservedBacklog struct {
	items []*models.Passenger
}

// NewUnservedBacklog constructs an empty backlog.
func NewUnservedBacklog() *UnservedBacklog {
	return &UnservedBacklog{}
}

// PushBack appends a passenger to the back of the backlog.
func (b *UnservedBacklog) PushBack(p *models.Passenger) {
	b.items = append(b.items, p)
}

// PopFront removes and returns the passenger at the front of the
// backlog, or nil if empty.
func (b *UnservedBacklog) PopFront() *models.Passenger {
	if len(b.items) == 0 {
		return nil
	}
	p := b.items[0]
	b.items = b.items[1:]
	return p
}

// Nonempty reports whether the backlog has at least one passenger.
func (b *UnservedBacklog) Nonempty() bool {
	return len(b.items) > 0
}

// Len reports the current backlog size.
func (b *UnservedBacklog) Len() int {
	return len(b.items)
}

// Remaining returns the passengers still in the backlog, for
// end-of-run diagnostics.
func (b *UnservedBacklog) Remaining() []*models.Passenger {
	return b.items
}
