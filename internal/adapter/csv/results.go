package csv

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/fleetsim/citysim/internal/sim"
)

// passengerResultRecord is one row of the passenger result table.
type passengerResultRecord struct {
	ArrivalTime      float64 `csv:"arrival_time"`
	StartZone        int     `csv:"start_zone"`
	EndZone          int     `csv:"end_zone"`
	ServiceDuration  float64 `csv:"service_duration"`
	WaitingTime      float64 `csv:"waiting_time"`
	ReplicationIndex int     `csv:"replication_index"`
}

// WritePassengerResults writes one row per served passenger across
// all replications in results.
func WritePassengerResults(path string, results []sim.Result) error {
	var records []*passengerResultRecord
	for _, r := range results {
		for _, p := range r.ServedPassengers() {
			records = append(records, &passengerResultRecord{
				ArrivalTime:      p.ArrivalTime,
				StartZone:        p.StartZone,
				EndZone:          p.EndZone,
				ServiceDuration:  p.ServiceDuration,
				WaitingTime:      p.WaitingTime(),
				ReplicationIndex: p.ReplicationIndex,
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating passenger results file: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(records, f); err != nil {
		return fmt.Errorf("marshaling passenger results csv: %w", err)
	}
	return nil
}

// driverHistoryRecord is one row of the driver movement log: a
// per-driver `driver_id` column concatenated with every driver's
// movement history.
type driverHistoryRecord struct {
	ReplicationIndex int     `csv:"replication_index"`
	DriverID         int     `csv:"driver_id"`
	StartTime        float64 `csv:"start_time"`
	EndTime          float64 `csv:"end_time"`
	StartZone        int     `csv:"start_zone"`
	EndZone          int     `csv:"end_zone"`
	IsMoving         bool    `csv:"is_moving"`
	HasPassenger     bool    `csv:"has_passenger"`
}

// WriteDriverHistories writes the concatenated movement log for every
// driver across all replications in results.
func WriteDriverHistories(path string, results []sim.Result) error {
	var records []*driverHistoryRecord
	for _, r := range results {
		for _, d := range r.Drivers {
			for _, m := range d.MovementHistory {
				records = append(records, &driverHistoryRecord{
					ReplicationIndex: r.ReplicationIndex,
					DriverID:         d.ID,
					StartTime:        m.StartTime,
					EndTime:          m.EndTime,
					StartZone:        m.ZoneFrom,
					EndZone:          m.ZoneTo,
					IsMoving:         m.IsMoving,
					HasPassenger:     m.HasPassenger,
				})
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating driver histories file: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(records, f); err != nil {
		return fmt.Errorf("marshaling driver histories csv: %w", err)
	}
	return nil
}
