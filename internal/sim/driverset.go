package sim

import "github.com/fleetsim/citysim/internal/domain/models"

// driverSet is a set of drivers with O(1) add, remove, and "pick any",
// backed by a slice so that "any" is deterministic given a fixed
// sequence of add/remove calls. Plain Go maps have nondeterministic
// iteration order, which is unacceptable for reproducibility under a
// fixed seed — so ZoneIndex
// and StatusIndex are built on this instead of a bare map[int]*Driver.
// remove is implemented as swap-with-last, so membership order is not
// strict insertion order after any removal — only reproducible.
type driverSet struct {
	order []int // driver IDs
	pos   map[int]int
	byID  map[int]*models.Driver
}

func newDriverSet() *driverSet {
	return &driverSet{
		pos:  make(map[int]int),
		byID: make(map[int]*models.Driver),
	}
}

func (s *driverSet) add(d *models.Driver) {
	if _, ok := s.byID[d.ID]; ok {
		return
	}
	s.pos[d.ID] = len(s.order)
	s.order = append(s.order, d.ID)
	s.byID[d.ID] = d
}

// remove deletes d from the set. It reports whether d was present.
func (s *driverSet) remove(d *models.Driver) bool {
	i, ok := s.pos[d.ID]
	if !ok {
		return false
	}
	last := len(s.order) - 1
	movedID := s.order[last]
	s.order[i] = movedID
	s.pos[movedID] = i
	s.order = s.order[:last]
	delete(s.pos, d.ID)
	delete(s.byID, d.ID)
	return true
}

func (s *driverSet) contains(d *models.Driver) bool {
	_, ok := s.byID[d.ID]
	return ok
}

// any returns a deterministic member of the set, or nil if empty.
func (s *driverSet) any() *models.Driver {
	if len(s.order) == 0 {
		return nil
	}
	return s.byID[s.order[0]]
}

func (s *driverSet) len() int {
	return len(s.order)
}
