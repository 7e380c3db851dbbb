package sim

import (
	"math/rand"

	"github.com/fleetsim/citysim/internal/domain/models"
	"github.com/fleetsim/citysim/internal/domain/types"
)

// closestZonesSearchWidth (K) bounds how many of a zone's
// closest-by-travel-time neighbors Arrival dispatch step 2 scans
// before falling back to any free driver.
const closestZonesSearchWidth = 5

// City composes the fleet state indices and the travel-time oracle; it
// owns all Drivers and is the sole mutator of simulation state.
type City struct {
	Zones   *ZoneIndex
	Status  *StatusIndex
	Backlog *UnservedBacklog
	Oracle  *TravelTimeOracle

	rng     *rand.Rand
	drivers []*models.Driver
}

// NewCity constructs a City over the given drivers and OD matrix,
// initializing each driver's status:
// free (and present in its start zone) if time 0 falls within its
// schedule, inactive otherwise.
func NewCity(drivers []*models.Driver, oracle *TravelTimeOracle, rng *rand.Rand) *City {
	c := &City{
		Zones:   NewZoneIndex(),
		Status:  NewStatusIndex(),
		Backlog: NewUnservedBacklog(),
		Oracle:  oracle,
		rng:     rng,
		drivers: drivers,
	}

	for _, d := range drivers {
		if d.ActiveAtStart() {
			c.Status.Place(d, types.StatusFree)
			c.Zones.Add(d.StartZone, d)
		} else {
			c.Status.Place(d, types.StatusInactive)
		}
	}

	return c
}

// Drivers returns every driver the City owns, for end-of-run reporting.
func (c *City) Drivers() []*models.Driver {
	return c.drivers
}

// HandleEvent dispatches e to the matching handler and returns zero or
// one successor event. ok is false when there is no
// successor to reinsert into the EventQueue.
func (c *City) HandleEvent(e models.Event) (models.Event, bool, error) {
	switch e.Kind {
	case types.KindArrival:
		return c.handleArrival(e)
	case types.KindMovement:
		return c.handleMovement(e)
	case types.KindTrip:
		return c.handleTrip(e)
	case types.KindDriverArrival:
		return c.handleDriverArrival(e)
	case types.KindDriverDeparture:
		return c.handleDriverDeparture(e)
	default:
		return models.Event{}, false, types.NewInvariantViolation("city: unknown event kind %q", e.Kind)
	}
}

// handleArrival implements dispatch on passenger arrival.
func (c *City) handleArrival(e models.Event) (models.Event, bool, error) {
	p := e.Passenger

	// Step 1: a free driver already at the passenger's origin zone.
	if d := c.Zones.Any(p.StartZone); d != nil {
		if err := c.Zones.Remove(p.StartZone, d); err != nil {
			return models.Event{}, false, err
		}
		if err := c.Status.Shift(d, types.StatusFree, types.StatusBusy); err != nil {
			return models.Event{}, false, err
		}
		d.Enqueue(p)
		d.RecordStartOfMovement(e.Time, p.StartZone)

		dur := c.Oracle.Sample(c.rng, p.StartZone, p.StartZone)
		return models.NewMovement(e.Time+dur, d, p.StartZone, p.StartZone), true, nil
	}

	// Step 2: no driver at the origin, but some free driver exists
	// somewhere — search the K closest zones, else take any free
	// driver.
	if c.Status.Count(types.StatusFree) > 0 {
		candidates := c.Oracle.ClosestZones(p.StartZone)
		if len(candidates) > closestZonesSearchWidth {
			candidates = candidates[:closestZonesSearchWidth]
		}
		d, fromZone := c.Zones.AnyOf(candidates)
		if d == nil {
			d = c.Status.Any(types.StatusFree)
			fromZone = d.LastLocation
		}

		if err := c.Zones.Remove(fromZone, d); err != nil {
			return models.Event{}, false, err
		}
		if err := c.Status.Shift(d, types.StatusFree, types.StatusBusy); err != nil {
			return models.Event{}, false, err
		}
		d.Enqueue(p)
		d.RecordStartOfMovement(e.Time, fromZone)

		dur := c.Oracle.Sample(c.rng, fromZone, p.StartZone)
		return models.NewMovement(e.Time+dur, d, fromZone, p.StartZone), true, nil
	}

	// Step 3: no free driver anywhere, but a busy driver can still
	// absorb the passenger into its queue.
	if c.Status.Count(types.StatusBusy) > 0 {
		d := c.Status.Any(types.StatusBusy)
		d.Enqueue(p)
		if d.AtMaxQueue() {
			if err := c.Status.Shift(d, types.StatusBusy, types.StatusMaxQueue); err != nil {
				return models.Event{}, false, err
			}
		}
		return models.Event{}, false, nil
	}

	// Step 4: nothing available at all; backlog the passenger.
	c.Backlog.PushBack(p)
	return models.Event{}, false, nil
}

// handleMovement runs a driver's movement leg from start to end: the
// driver has reached a pickup point.
func (c *City) handleMovement(e models.Event) (models.Event, bool, error) {
	d := e.Driver
	p := d.PopQueue()
	if p == nil {
		return models.Event{}, false, types.NewInvariantViolation("movement: driver %d reached pickup with empty queue", d.ID)
	}

	if c.Status.In(d, types.StatusMaxQueue) && !d.AtMaxQueue() {
		if err := c.Status.Shift(d, types.StatusMaxQueue, types.StatusBusy); err != nil {
			return models.Event{}, false, err
		}
	}

	d.RecordEndOfMovement(e.Time, e.ZoneTo, nil)
	d.RecordStartOfMovement(e.Time, e.ZoneTo)
	d.Passenger = p

	return models.NewTrip(e.Time+p.ServiceDuration, d, p), true, nil
}

// handleTrip runs a driver's trip carrying passenger p: the passenger is
// dropped off.
func (c *City) handleTrip(e models.Event) (models.Event, bool, error) {
	p := e.Passenger
	d := e.Driver

	p.MarkServed(e.Time)
	d.Passenger = nil
	d.RecordEndOfMovement(e.Time, p.EndZone, p)

	next := d.PeekQueue()
	if next == nil {
		return c.tripEndedIdle(e.Time, d, p.EndZone)
	}
	return c.tripEndedWithQueue(e.Time, d, p.EndZone, next)
}

// tripEndedIdle handles the Trip(d, p) branch where d's queue is empty
// after drop-off: the driver becomes available again (or departs).
func (c *City) tripEndedIdle(t float64, d *models.Driver, endZone int) (models.Event, bool, error) {
	c.Zones.Add(endZone, d)

	wasMarked := c.Status.In(d, types.StatusMarkedForDeparture)
	if wasMarked {
		if err := c.Status.Shift(d, types.StatusMarkedForDeparture, types.StatusFree); err != nil {
			return models.Event{}, false, err
		}
		return models.NewDriverDeparture(d, t), true, nil
	}

	if err := c.Status.Shift(d, types.StatusBusy, types.StatusFree); err != nil {
		return models.Event{}, false, err
	}

	if d.OutOfSchedule(t) {
		return models.NewDriverDeparture(d, t), true, nil
	}

	if c.Backlog.Nonempty() {
		p2 := c.Backlog.PopFront()
		ev, err := c.serveUnserved(t, endZone, d, p2)
		if err != nil {
			return models.Event{}, false, err
		}
		return ev, true, nil
	}

	return models.Event{}, false, nil
}

// tripEndedWithQueue handles the Trip(d, p) branch where another
// passenger is already queued: emit a Movement to their origin.
func (c *City) tripEndedWithQueue(t float64, d *models.Driver, endZone int, next *models.Passenger) (models.Event, bool, error) {
	d.RecordStartOfMovement(t, endZone)
	dur := c.Oracle.Sample(c.rng, endZone, next.StartZone)
	return models.NewMovement(t+dur, d, endZone, next.StartZone), true, nil
}

// handleDriverArrival runs a driver coming on shift: the
// driver activates at shift start.
func (c *City) handleDriverArrival(e models.Event) (models.Event, bool, error) {
	d := e.Driver
	if !c.Status.In(d, types.StatusInactive) {
		// already on shift (activated when the City was built): no-op.
		return models.Event{}, false, nil
	}
	d.LastLocation = d.StartZone

	if err := c.Status.Shift(d, types.StatusInactive, types.StatusFree); err != nil {
		return models.Event{}, false, err
	}
	c.Zones.Add(d.StartZone, d)

	if c.Backlog.Nonempty() {
		p := c.Backlog.PopFront()
		ev, err := c.serveUnserved(e.Time, d.StartZone, d, p)
		if err != nil {
			return models.Event{}, false, err
		}
		return ev, true, nil
	}

	return models.Event{}, false, nil
}

// handleDriverDeparture runs a driver going off shift.
func (c *City) handleDriverDeparture(e models.Event) (models.Event, bool, error) {
	d := e.Driver

	switch c.Status.StatusOf(d) {
	case types.StatusFree:
		if err := c.Status.Shift(d, types.StatusFree, types.StatusInactive); err != nil {
			return models.Event{}, false, err
		}
		if err := c.Zones.Remove(d.LastLocation, d); err != nil {
			return models.Event{}, false, err
		}
	case types.StatusBusy:
		if err := c.Status.Shift(d, types.StatusBusy, types.StatusMarkedForDeparture); err != nil {
			return models.Event{}, false, err
		}
	case types.StatusMaxQueue:
		if err := c.Status.Shift(d, types.StatusMaxQueue, types.StatusMarkedForDeparture); err != nil {
			return models.Event{}, false, err
		}
	case types.StatusInactive, types.StatusMarkedForDeparture:
		// already departing or departed: no-op.
	}

	return models.Event{}, false, nil
}

// serveUnserved assigns a backlogged passenger p to driver d at location, time t.
func (c *City) serveUnserved(t float64, location int, d *models.Driver, p *models.Passenger) (models.Event, error) {
	if err := c.Status.Shift(d, types.StatusFree, types.StatusBusy); err != nil {
		return models.Event{}, err
	}
	if err := c.Zones.Remove(d.LastLocation, d); err != nil {
		return models.Event{}, err
	}
	d.Enqueue(p)
	d.RecordStartOfMovement(t, location)

	dur := c.Oracle.Sample(c.rng, location, p.StartZone)
	return models.NewMovement(t+dur, d, location, p.StartZone), nil
}
