package sim

import (
	"github.com/fleetsim/citysim/internal/domain/models"
	"github.com/fleetsim/citysim/internal/domain/types"
)

// StatusIndex maps status -> the set of drivers in that bucket.
// Exactly one bucket holds a given driver at any time.
type StatusIndex struct {
	buckets map[types.DriverStatus]*driverSet
	status  map[int]types.DriverStatus
}

// NewStatusIndex constructs an empty StatusIndex with all five
// buckets present.
func NewStatusIndex() *StatusIndex {
	si := &StatusIndex{
		buckets: make(map[types.DriverStatus]*driverSet, len(types.AllStatuses)),
		status:  make(map[int]types.DriverStatus),
	}
	for _, s := range types.AllStatuses {
		si.buckets[s] = newDriverSet()
	}
	return si
}

// Place inserts d into bucket s for the first time (initialization
// only; use Shift to move an already-placed driver).
func (si *StatusIndex) Place(d *models.Driver, s types.DriverStatus) {
	si.buckets[s].add(d)
	si.status[d.ID] = s
}

// Shift moves d from bucket `from` to bucket `to`. It is an invariant
// violation if d is not actually in `from`.
func (si *StatusIndex) Shift(d *models.Driver, from, to types.DriverStatus) error {
	if cur, ok := si.status[d.ID]; !ok || cur != from {
		return types.NewInvariantViolation("status index: driver %d expected in %s but tracked as %v", d.ID, from, cur)
	}
	if !si.buckets[from].remove(d) {
		return types.NewInvariantViolation("status index: driver %d not present in bucket %s", d.ID, from)
	}
	si.buckets[to].add(d)
	si.status[d.ID] = to
	return nil
}

// In reports whether d is currently in bucket s.
func (si *StatusIndex) In(d *models.Driver, s types.DriverStatus) bool {
	return si.status[d.ID] == s
}

// StatusOf returns the bucket currently holding d.
func (si *StatusIndex) StatusOf(d *models.Driver) types.DriverStatus {
	return si.status[d.ID]
}

// Any returns a driver in bucket s, or nil.
func (si *StatusIndex) Any(s types.DriverStatus) *models.Driver {
	return si.buckets[s].any()
}

// Count reports the size of bucket s.
func (si *StatusIndex) Count(s types.DriverStatus) int {
	return si.buckets[s].len()
}

// CheckPartition verifies the five buckets still partition exactly the
// tracked driver set, returning an
// InvariantViolation if not. Intended for use in tests and optionally
// after every event in a debug build.
func (si *StatusIndex) CheckPartition(drivers []*models.Driver) error {
	total := 0
	for _, s := range types.AllStatuses {
		total += si.buckets[s].len()
	}
	if total != len(drivers) {
		return types.NewInvariantViolation("status partition: %d drivers tracked across buckets, expected %d", total, len(drivers))
	}
	for _, d := range drivers {
		if _, ok := si.status[d.ID]; !ok {
			return types.NewInvariantViolation("status partition: driver %d not tracked in any bucket", d.ID)
		}
	}
	return nil
}
