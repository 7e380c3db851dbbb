package sim

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/fleetsim/citysim/internal/domain/models"
	"github.com/fleetsim/citysim/pkg/metrics"
)

// goldenConstant spreads replication indices across the seed space so
// consecutive indices do not produce correlated RNG streams.
const goldenConstant = 0x9E3779B97F4A7C15

// DeriveSeed combines a base seed with a replication index into the
// single seed each replication's *rand.Rand uses, so that running
// `replications` runs from the same base seed always reproduces the
// same datasets.
func DeriveSeed(base int64, replicationIndex int) int64 {
	return base ^ int64(uint64(replicationIndex)*goldenConstant)
}

// Result is everything one replication produces.
type Result struct {
	ReplicationIndex int
	Passengers       []*models.Passenger
	Drivers          []*models.Driver
	EventsProcessed  int
	ResidualBacklog  int
}

// ServedPassengers returns the subset of Result.Passengers that were
// actually dropped off, for the passenger result table.
func (r Result) ServedPassengers() []*models.Passenger {
	out := make([]*models.Passenger, 0, len(r.Passengers))
	for _, p := range r.Passengers {
		if p.Served() {
			out = append(out, p)
		}
	}
	return out
}

// SimulationDriver wires a City and an EventQueue together for one
// replication.
type SimulationDriver struct {
	City       *City
	Queue      *EventQueue
	Passengers []*models.Passenger
}

// NewSimulationDriver builds a City over drivers/oracle seeded by rng,
// and primes the EventQueue with every initial Arrival, DriverArrival,
// and DriverDeparture event.
//
// DriverDeparture is scheduled at driver.ScheduleEnd; the
// re-emission rule `max(issued_time, schedule_end)` only matters for
// the departures City emits mid-run, which already stamp the current
// event time directly.
func NewSimulationDriver(drivers []*models.Driver, passengers []*models.Passenger, oracle *TravelTimeOracle, rng *rand.Rand) *SimulationDriver {
	city := NewCity(drivers, oracle, rng)
	queue := NewEventQueue()

	for _, p := range passengers {
		queue.Insert(models.NewArrival(p))
	}
	for _, d := range drivers {
		queue.Insert(models.NewDriverArrival(d))
		queue.Insert(models.NewDriverDeparture(d, float64(d.ScheduleEnd)))
	}

	return &SimulationDriver{City: city, Queue: queue, Passengers: passengers}
}

// Run drains the EventQueue, handing each popped event to the City and
// reinserting its successor, until the queue is empty — the only
// termination condition the core defines.
// An InvariantViolation from the City aborts the run immediately; the
// caller is expected to log it with its stack trace and exit
// non-zero.
func (sd *SimulationDriver) Run(replicationIndex int) (Result, error) {
	processed := 0
	for !sd.Queue.Empty() {
		e := sd.Queue.PopMin()

		successor, ok, err := sd.City.HandleEvent(e)
		if err != nil {
			return Result{}, err
		}
		processed++
		if ok {
			sd.Queue.Insert(successor)
		}
	}

	return Result{
		ReplicationIndex: replicationIndex,
		Passengers:       sd.Passengers,
		Drivers:          sd.City.Drivers(),
		EventsProcessed:  processed,
		ResidualBacklog:  sd.City.Backlog.Len(),
	}, nil
}

// ArrivalRow is one row of the passenger arrival input table, already sorted by Time by the loader that produced it.
type ArrivalRow struct {
	Time            float64
	StartZone       int
	EndZone         int
	ServiceDuration float64
}

// DriverShift is one row of the driver roster: a start zone and a
// schedule window assigned by ScheduleBuilder.
type DriverShift struct {
	StartZone     int
	ScheduleStart int
	ScheduleEnd   int
}

// RunReplications executes `replications` independent runs from the
// same arrival and driver-shift templates, deriving each run's seed
// from baseSeed via DeriveSeed. Fresh Driver and Passenger objects are
// built for every replication, since both carry mutable per-run state
// (queues, movement history, served flag) that must not leak between
// runs. It stops and returns the error from the first replication that
// hits an InvariantViolation.
func RunReplications(arrivals []ArrivalRow, shifts []DriverShift, oracle *TravelTimeOracle, baseSeed int64, replications int) ([]Result, error) {
	results := make([]Result, 0, replications)

	for i := 0; i < replications; i++ {
		rng := rand.New(rand.NewSource(DeriveSeed(baseSeed, i)))

		drivers := make([]*models.Driver, len(shifts))
		for j, s := range shifts {
			drivers[j] = models.NewDriver(j, s.StartZone, s.ScheduleStart, s.ScheduleEnd)
		}

		passengers := make([]*models.Passenger, len(arrivals))
		for j, a := range arrivals {
			passengers[j] = models.NewPassenger(j, a.Time, a.StartZone, a.EndZone, a.ServiceDuration, i)
		}

		driver := NewSimulationDriver(drivers, passengers, oracle, rng)

		started := time.Now()
		result, err := driver.Run(i)
		if err != nil {
			return results, err
		}
		metrics.RecordReplication(strconv.Itoa(i), result.EventsProcessed, result.ResidualBacklog, time.Since(started))

		results = append(results, result)
	}

	return results, nil
}
