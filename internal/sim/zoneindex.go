package sim

import (
	"github.com/fleetsim/citysim/internal/domain/models"
	"github.com/fleetsim/citysim/internal/domain/types"
)

// ZoneIndex maps zone -> the set of free drivers currently present
// there. A driver appears in ZoneIndex iff its status is free.
type ZoneIndex struct {
	byZone map[int]*driverSet
}

// NewZoneIndex constructs an empty ZoneIndex.
func NewZoneIndex() *ZoneIndex {
	return &ZoneIndex{byZone: make(map[int]*driverSet)}
}

func (zi *ZoneIndex) setFor(zone int) *driverSet {
	s, ok := zi.byZone[zone]
	if !ok {
		s = newDriverSet()
		zi.byZone[zone] = s
	}
	return s
}

// Add places d in zone.
func (zi *ZoneIndex) Add(zone int, d *models.Driver) {
	zi.setFor(zone).add(d)
}

// Remove takes d out of zone. It is an invariant violation to remove a
// driver that is not present there.
func (zi *ZoneIndex) Remove(zone int, d *models.Driver) error {
	s, ok := zi.byZone[zone]
	if !ok || !s.remove(d) {
		return types.NewInvariantViolation("zone index: driver %d not present in zone %d", d.ID, zone)
	}
	return nil
}

// Any returns a free driver in zone, or nil.
func (zi *ZoneIndex) Any(zone int) *models.Driver {
	s, ok := zi.byZone[zone]
	if !ok {
		return nil
	}
	return s.any()
}

// AnyOf returns the first free driver found in zones, scanned in the
// given order, along with the zone it was found in. Returns (nil, 0)
// if none of the zones has a free driver.
func (zi *ZoneIndex) AnyOf(zones []int) (*models.Driver, int) {
	for _, z := range zones {
		if d := zi.Any(z); d != nil {
			return d, z
		}
	}
	return nil, 0
}

// Count reports how many free drivers are in zone.
func (zi *ZoneIndex) Count(zone int) int {
	s, ok := zi.byZone[zone]
	if !ok {
		return 0
	}
	return s.len()
}
