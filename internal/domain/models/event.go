package models

import "github.com/fleetsim/citysim/internal/domain/types"

// Event is a tagged variant over the five event kinds the scheduler
// carries. Only the fields relevant to Kind are populated; handlers
// match on Kind.
type Event struct {
	Kind types.EventKind
	Time float64

	// seq is the monotonically increasing insertion sequence number
	// used to break ties between events with equal Time. Set by EventQueue.Insert, never
	// by callers.
	seq uint64

	Passenger *Passenger
	Driver    *Driver

	// ZoneFrom/ZoneTo are populated for Movement events.
	ZoneFrom int
	ZoneTo   int
}

// SetSeq stamps the event's tie-break sequence number. Called only by
// EventQueue.Insert.
func (e *Event) SetSeq(seq uint64) { e.seq = seq }

// Seq returns the event's tie-break sequence number.
func (e Event) Seq() uint64 { return e.seq }

// NewArrival builds an Arrival(passenger) event.
func NewArrival(p *Passenger) Event {
	return Event{Kind: types.KindArrival, Time: p.ArrivalTime, Passenger: p}
}

// NewDriverArrival builds a DriverArrival(driver) event scheduled at
// the driver's shift start.
func NewDriverArrival(d *Driver) Event {
	return Event{Kind: types.KindDriverArrival, Time: float64(d.ScheduleStart), Driver: d}
}

// NewDriverDeparture builds a DriverDeparture(driver) event at time t.
// Callers apply the max(issued_time, schedule_end) convention
// themselves before constructing the event.
func NewDriverDeparture(d *Driver, t float64) Event {
	return Event{Kind: types.KindDriverDeparture, Time: t, Driver: d}
}

// NewMovement builds a Movement(driver, start, end) event at time t.
func NewMovement(t float64, d *Driver, fromZone, toZone int) Event {
	return Event{Kind: types.KindMovement, Time: t, Driver: d, ZoneFrom: fromZone, ZoneTo: toZone}
}

// NewTrip builds a Trip(driver, passenger) event at time t.
func NewTrip(t float64, d *Driver, p *Passenger) Event {
	return Event{Kind: types.KindTrip, Time: t, Driver: d, Passenger: p}
}
