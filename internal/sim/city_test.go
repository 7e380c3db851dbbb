package sim

import (
	"math/rand"
	"testing"

	"github.com/fleetsim/citysim/internal/domain/models"
	"github.com/fleetsim/citysim/internal/domain/types"
)

// buildCityMatrix constructs a small OD matrix that matches scenario S1/S2's inputs: OD[1][1] empty (intra-zone falls back to the
// exponential path), OD[1][2] and other cross-zone cells populated.
func buildCityMatrix(zones int) *models.ODMatrix {
	m := models.NewODMatrix(zones)
	for i := 1; i <= zones; i++ {
		for j := 1; j <= zones; j++ {
			if i == j {
				continue
			}
			m.Set(i, j, models.OdCell{Mean: 2, Stdev: 0, MinClip: 2, Count: 100})
		}
	}
	return m
}

// TestCity_S1_SingleDriverSameZone models scenario S1: a
// single driver and a single same-zone-origin passenger dispatch via
// the intra-zone Movement path, then complete a Trip.
func TestCity_S1_SingleDriverSameZone(t *testing.T) {
	matrix := buildCityMatrix(2)
	oracle := NewTravelTimeOracle(matrix)
	rng := rand.New(rand.NewSource(1))

	d := models.NewDriver(1, 1, 0, 1440)
	city := NewCity([]*models.Driver{d}, oracle, rng)

	p := models.NewPassenger(1, 10, 1, 2, 5, 0)
	arrival := models.NewArrival(p)

	movement, ok, err := city.HandleEvent(arrival)
	if err != nil {
		t.Fatalf("HandleEvent(Arrival): %v", err)
	}
	if !ok || movement.Kind != types.KindMovement {
		t.Fatalf("expected a Movement successor, got ok=%v kind=%v", ok, movement.Kind)
	}
	if movement.ZoneFrom != 1 || movement.ZoneTo != 1 {
		t.Fatalf("expected an intra-zone movement 1->1, got %d->%d", movement.ZoneFrom, movement.ZoneTo)
	}
	if !city.Status.In(d, types.StatusBusy) {
		t.Fatalf("driver should be busy after dispatch")
	}

	trip, ok, err := city.HandleEvent(movement)
	if err != nil {
		t.Fatalf("HandleEvent(Movement): %v", err)
	}
	if !ok || trip.Kind != types.KindTrip {
		t.Fatalf("expected a Trip successor, got ok=%v kind=%v", ok, trip.Kind)
	}

	_, ok, err = city.HandleEvent(trip)
	if err != nil {
		t.Fatalf("HandleEvent(Trip): %v", err)
	}
	if ok {
		t.Fatalf("driver with schedule [0,1440) and empty queue should stay on shift, no successor expected")
	}
	if !p.Served() {
		t.Fatalf("passenger should be served")
	}
	if p.DepartureTime < p.ArrivalTime+p.ServiceDuration {
		t.Fatalf("waiting time must be non-negative: departure=%v arrival=%v service=%v",
			p.DepartureTime, p.ArrivalTime, p.ServiceDuration)
	}
	if !city.Status.In(d, types.StatusFree) {
		t.Fatalf("driver should return to free after drop-off")
	}
}

// TestCity_S6_MaxQueueRoutesToBacklog models scenario S6:
// once a driver is at max_queue, a further arrival must not be queued
// onto it — it goes to the backlog instead.
func TestCity_S6_MaxQueueRoutesToBacklog(t *testing.T) {
	matrix := buildCityMatrix(2)
	oracle := NewTravelTimeOracle(matrix)
	rng := rand.New(rand.NewSource(2))

	d := models.NewDriver(1, 1, 0, 1440)
	city := NewCity([]*models.Driver{d}, oracle, rng)

	// First arrival dispatches the only driver (now busy).
	p0 := models.NewPassenger(0, 0, 1, 2, 5, 0)
	if _, _, err := city.HandleEvent(models.NewArrival(p0)); err != nil {
		t.Fatalf("arrival 0: %v", err)
	}

	// Next two arrivals queue onto the busy driver (queue lengths 2
	// then 3); the third assigned passenger must push it to max_queue.
	for i := 1; i <= 2; i++ {
		p := models.NewPassenger(i, float64(i), 1, 2, 5, 0)
		if _, _, err := city.HandleEvent(models.NewArrival(p)); err != nil {
			t.Fatalf("arrival %d: %v", i, err)
		}
	}
	if !city.Status.In(d, types.StatusMaxQueue) {
		t.Fatalf("driver should be at max_queue after the 3rd assigned passenger")
	}

	// A further arrival finds no free driver and max_queue is
	// ineligible for new arrivals: it must land in the backlog.
	p4 := models.NewPassenger(4, 4, 1, 2, 5, 0)
	_, ok, err := city.HandleEvent(models.NewArrival(p4))
	if err != nil {
		t.Fatalf("arrival 4: %v", err)
	}
	if ok {
		t.Fatalf("an arrival with no eligible driver should emit no successor")
	}
	if city.Backlog.Len() != 1 {
		t.Fatalf("backlog should hold exactly the 4th passenger, got len=%d", city.Backlog.Len())
	}
}

// TestCity_S4_BacklogRecoveredOnDriverArrival models scenario S4: a passenger backlogged while every driver is inactive
// is immediately served once a driver arrives on shift.
func TestCity_S4_BacklogRecoveredOnDriverArrival(t *testing.T) {
	matrix := buildCityMatrix(2)
	oracle := NewTravelTimeOracle(matrix)
	rng := rand.New(rand.NewSource(3))

	d := models.NewDriver(1, 1, 30, 200)
	city := NewCity([]*models.Driver{d}, oracle, rng)
	if !city.Status.In(d, types.StatusInactive) {
		t.Fatalf("driver scheduled to start at 30 should be inactive at t=0")
	}

	p := models.NewPassenger(1, 20, 1, 2, 5, 0)
	_, ok, err := city.HandleEvent(models.NewArrival(p))
	if err != nil {
		t.Fatalf("arrival: %v", err)
	}
	if ok {
		t.Fatalf("arrival with no active driver should emit no successor")
	}
	if city.Backlog.Len() != 1 {
		t.Fatalf("passenger should be backlogged, got backlog len=%d", city.Backlog.Len())
	}

	driverArrival := models.NewDriverArrival(d)
	movement, ok, err := city.HandleEvent(driverArrival)
	if err != nil {
		t.Fatalf("driver arrival: %v", err)
	}
	if !ok || movement.Kind != types.KindMovement {
		t.Fatalf("driver arrival with a nonempty backlog must emit a Movement, got ok=%v kind=%v", ok, movement.Kind)
	}
	if city.Backlog.Nonempty() {
		t.Fatalf("backlog should be drained once the driver picks up the passenger")
	}
}

// TestCity_S3_DepartureWhileBusy models scenario S3: a
// DriverDeparture that arrives while the driver is busy defers to
// marked_for_departure, and a fresh DriverDeparture is emitted only
// once the trip completes with an empty queue.
func TestCity_S3_DepartureWhileBusy(t *testing.T) {
	matrix := buildCityMatrix(2)
	oracle := NewTravelTimeOracle(matrix)
	rng := rand.New(rand.NewSource(4))

	d := models.NewDriver(1, 1, 0, 60)
	city := NewCity([]*models.Driver{d}, oracle, rng)

	p := models.NewPassenger(1, 55, 1, 2, 30, 0)
	movement, ok, err := city.HandleEvent(models.NewArrival(p))
	if err != nil || !ok {
		t.Fatalf("arrival should dispatch the only driver: ok=%v err=%v", ok, err)
	}

	departure := models.NewDriverDeparture(d, 60)
	_, ok, err = city.HandleEvent(departure)
	if err != nil {
		t.Fatalf("driver departure: %v", err)
	}
	if ok {
		t.Fatalf("DriverDeparture while busy should emit no successor, only a status change")
	}
	if !city.Status.In(d, types.StatusMarkedForDeparture) {
		t.Fatalf("driver should be marked_for_departure")
	}

	trip, ok, err := city.HandleEvent(movement)
	if err != nil || !ok {
		t.Fatalf("movement -> trip: ok=%v err=%v", ok, err)
	}

	finalDeparture, ok, err := city.HandleEvent(trip)
	if err != nil {
		t.Fatalf("trip completion: %v", err)
	}
	if !ok || finalDeparture.Kind != types.KindDriverDeparture {
		t.Fatalf("trip completion for a marked_for_departure driver must emit a fresh DriverDeparture, got ok=%v kind=%v", ok, finalDeparture.Kind)
	}

	if _, ok, err := city.HandleEvent(finalDeparture); err != nil || ok {
		t.Fatalf("final departure should retire the driver with no successor: ok=%v err=%v", ok, err)
	}
	if !city.Status.In(d, types.StatusInactive) {
		t.Fatalf("driver should end inactive")
	}
	if city.Backlog.Nonempty() {
		t.Fatalf("no residual passengers expected")
	}
}
