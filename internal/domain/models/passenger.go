package models

// Passenger is one arrival: an origin-destination pair with a
// pre-sampled on-board service duration. DepartureTime is filled in
// when the Trip event carrying this passenger completes.
type Passenger struct {
	ID              int
	ArrivalTime     float64
	StartZone       int
	EndZone         int
	ServiceDuration float64
	DepartureTime   float64

	// ReplicationIndex ties this passenger's result row back to the
	// replication that generated it.
	ReplicationIndex int

	served bool
}

// NewPassenger constructs a passenger arrival. ServiceDuration must be
// >= 0; the external arrival generator is responsible for that
// guarantee.
func NewPassenger(id int, arrivalTime float64, startZone, endZone int, serviceDuration float64, replicationIndex int) *Passenger {
	return &Passenger{
		ID:               id,
		ArrivalTime:      arrivalTime,
		StartZone:        startZone,
		EndZone:          endZone,
		ServiceDuration:  serviceDuration,
		ReplicationIndex: replicationIndex,
	}
}

// MarkServed records the drop-off time and flips the served flag. It
// is called exactly once per passenger, by the Trip handler.
func (p *Passenger) MarkServed(departureTime float64) {
	p.DepartureTime = departureTime
	p.served = true
}

// Served reports whether this passenger has been dropped off.
func (p *Passenger) Served() bool {
	return p.served
}

// WaitingTime is departure_time - service_duration - arrival_time.
// Only meaningful once Served() is true.
func (p *Passenger) WaitingTime() float64 {
	return p.DepartureTime - p.ServiceDuration - p.ArrivalTime
}
