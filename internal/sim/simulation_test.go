package sim

import (
	"math/rand"
	"testing"

	"github.com/fleetsim/citysim/internal/domain/models"
)

func TestDeriveSeed_DifferentIndicesDifferentSeeds(t *testing.T) {
	a := DeriveSeed(7, 0)
	b := DeriveSeed(7, 1)
	if a == b {
		t.Fatalf("consecutive replication indices should not derive the same seed")
	}
}

func TestDeriveSeed_Deterministic(t *testing.T) {
	if DeriveSeed(7, 3) != DeriveSeed(7, 3) {
		t.Fatalf("DeriveSeed must be a pure function of its inputs")
	}
}

func TestSimulationDriver_RunsToExhaustion(t *testing.T) {
	matrix := buildCityMatrix(2)
	oracle := NewTravelTimeOracle(matrix)
	rng := rand.New(rand.NewSource(1))

	drivers := []*models.Driver{models.NewDriver(1, 1, 0, 1440)}
	passengers := []*models.Passenger{
		models.NewPassenger(1, 10, 1, 2, 5, 0),
		models.NewPassenger(2, 11, 1, 2, 5, 0),
	}

	sd := NewSimulationDriver(drivers, passengers, oracle, rng)
	result, err := sd.Run(0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !sd.Queue.Empty() {
		t.Fatalf("queue should be drained after Run returns")
	}
	if result.EventsProcessed == 0 {
		t.Fatalf("expected at least one event processed")
	}
	for _, p := range result.Passengers {
		if !p.Served() {
			t.Fatalf("with a single always-on driver, every passenger should eventually be served")
		}
		if p.DepartureTime < p.ArrivalTime+p.ServiceDuration {
			t.Fatalf("waiting time must be non-negative for passenger %d", p.ID)
		}
	}
}

func TestRunReplications_DeterministicGivenSameSeed(t *testing.T) {
	matrix := buildCityMatrix(2)
	oracle := NewTravelTimeOracle(matrix)

	arrivals := []ArrivalRow{
		{Time: 10, StartZone: 1, EndZone: 2, ServiceDuration: 5},
		{Time: 11, StartZone: 1, EndZone: 2, ServiceDuration: 4},
	}
	shifts := []DriverShift{{StartZone: 1, ScheduleStart: 0, ScheduleEnd: 1440}}

	r1, err := RunReplications(arrivals, shifts, oracle, 99, 2)
	if err != nil {
		t.Fatalf("RunReplications: %v", err)
	}
	r2, err := RunReplications(arrivals, shifts, oracle, 99, 2)
	if err != nil {
		t.Fatalf("RunReplications: %v", err)
	}

	if len(r1) != 2 || len(r2) != 2 {
		t.Fatalf("expected 2 results per run, got %d and %d", len(r1), len(r2))
	}
	for i := range r1 {
		for j := range r1[i].Passengers {
			a, b := r1[i].Passengers[j], r2[i].Passengers[j]
			if a.DepartureTime != b.DepartureTime {
				t.Fatalf("replication %d passenger %d should be byte-identical across runs with the same seed: %v vs %v",
					i, j, a.DepartureTime, b.DepartureTime)
			}
		}
	}
}

func TestRunReplications_TagsReplicationIndex(t *testing.T) {
	matrix := buildCityMatrix(2)
	oracle := NewTravelTimeOracle(matrix)
	arrivals := []ArrivalRow{{Time: 1, StartZone: 1, EndZone: 2, ServiceDuration: 1}}
	shifts := []DriverShift{{StartZone: 1, ScheduleStart: 0, ScheduleEnd: 1440}}

	results, err := RunReplications(arrivals, shifts, oracle, 5, 3)
	if err != nil {
		t.Fatalf("RunReplications: %v", err)
	}
	for i, r := range results {
		if r.ReplicationIndex != i {
			t.Fatalf("result %d has ReplicationIndex %d", i, r.ReplicationIndex)
		}
		for _, p := range r.Passengers {
			if p.ReplicationIndex != i {
				t.Fatalf("passenger in replication %d tagged with index %d", i, p.ReplicationIndex)
			}
		}
	}
}
