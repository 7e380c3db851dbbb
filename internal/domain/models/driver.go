package models

// MaxQueueLength is the maximum number of assigned-but-not-yet-picked-up
// passengers a driver may carry in its queue. At this length the driver's status is max_queue.
const MaxQueueLength = 3

// MovementRecord is one append-only entry in a driver's movement
// history: a pause (is_moving=false) or a trip leg (is_moving=true).
// Timestamps are non-decreasing across a driver's whole history.
type MovementRecord struct {
	StartTime    float64
	EndTime      float64
	ZoneFrom     int
	ZoneTo       int
	IsMoving     bool
	HasPassenger bool
}

// Driver holds the per-driver state the dispatcher (City) mutates:
// location, schedule window, on-board/queued passengers, and the
// append-only movement log used for downstream replay.
type Driver struct {
	ID int

	StartZone     int
	ScheduleStart int // minute-of-day in [0, 1440)
	ScheduleEnd   int // minute-of-day in [0, 1440); may wrap (end < start)

	LastLocation int
	LastTime     float64

	Passenger *Passenger
	queue     []*Passenger

	MovementHistory []MovementRecord
}

// NewDriver constructs a driver positioned at startZone with the given
// shift window. The caller is responsible for placing it in the
// correct StatusIndex bucket based on whether time 0 falls in-schedule.
func NewDriver(id, startZone, scheduleStart, scheduleEnd int) *Driver {
	return &Driver{
		ID:            id,
		StartZone:     startZone,
		ScheduleStart: scheduleStart,
		ScheduleEnd:   scheduleEnd,
		LastLocation:  startZone,
		LastTime:      0,
	}
}

// Enqueue appends a passenger to the driver's pickup queue.
func (d *Driver) Enqueue(p *Passenger) {
	d.queue = append(d.queue, p)
}

// PopQueue removes and returns the front of the queue, or nil if empty.
func (d *Driver) PopQueue() *Passenger {
	if len(d.queue) == 0 {
		return nil
	}
	p := d.queue[0]
	d.queue = d.queue[1:]
	return p
}

// PeekQueue returns the front of the queue without removing it, or nil.
func (d *Driver) PeekQueue() *Passenger {
	if len(d.queue) == 0 {
		return nil
	}
	return d.queue[0]
}

// QueueLen reports the number of passengers currently queued.
func (d *Driver) QueueLen() int {
	return len(d.queue)
}

// AtMaxQueue reports whether the driver's queue has reached the cap.
func (d *Driver) AtMaxQueue() bool {
	return len(d.queue) >= MaxQueueLength
}

// IsMoving reports whether the driver currently has an on-board
// passenger or a nonempty queue.
func (d *Driver) IsMoving() bool {
	return d.Passenger != nil || len(d.queue) > 0
}

// RecordStartOfMovement appends a pause record covering [LastTime, t)
// and advances LastTime to t. LastLocation is unchanged until the
// matching RecordEndOfMovement call.
func (d *Driver) RecordStartOfMovement(t float64, toZone int) {
	d.MovementHistory = append(d.MovementHistory, MovementRecord{
		StartTime: d.LastTime,
		EndTime:   t,
		ZoneFrom:  d.LastLocation,
		ZoneTo:    toZone,
		IsMoving:  false,
	})
	d.LastTime = t
}

// RecordEndOfMovement appends a trip-leg record covering [LastTime, t),
// advances LastTime to t, and updates LastLocation to toZone.
func (d *Driver) RecordEndOfMovement(t float64, toZone int, passenger *Passenger) {
	d.MovementHistory = append(d.MovementHistory, MovementRecord{
		StartTime:    d.LastTime,
		EndTime:      t,
		ZoneFrom:     d.LastLocation,
		ZoneTo:       toZone,
		IsMoving:     true,
		HasPassenger: passenger != nil,
	})
	d.LastTime = t
	d.LastLocation = toZone
}

// OutOfSchedule reports whether t falls outside [ScheduleStart,
// ScheduleEnd], using the wrap-aware convention: when
// the shift wraps midnight (end < start), the driver is out-of-window
// only in the gap strictly between end and start.
func (d *Driver) OutOfSchedule(t float64) bool {
	start, end := float64(d.ScheduleStart), float64(d.ScheduleEnd)
	if start < end {
		return t > end || t < start
	}
	if start > end {
		return end < t && t < start
	}
	// start == end: a zero-width window, never active.
	return true
}

// ActiveAtStart reports whether the driver is on-shift at simulated
// time 0, using the same wrap-aware convention as OutOfSchedule.
func (d *Driver) ActiveAtStart() bool {
	return !d.OutOfSchedule(0)
}
