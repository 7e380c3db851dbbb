// Package csv reads the passenger arrival table, the OD matrix, and
// the preferred staffing curve from flat CSV files, and writes the
// passenger-result and driver-movement-history output tables
// as CSV.
package csv

import (
	"fmt"
	"os"
	"sort"

	"github.com/gocarina/gocsv"

	"github.com/fleetsim/citysim/internal/sim"
)

// arrivalRecord mirrors the arrivals table's column layout: time,
// pulocationid, dolocationid, service.
type arrivalRecord struct {
	Time         float64 `csv:"time"`
	PULocationID int     `csv:"pulocationid"`
	DOLocationID int     `csv:"dolocationid"`
	Service      float64 `csv:"service"`
}

// ReadArrivals loads the passenger arrival table from path and
// returns it sorted by time.
func ReadArrivals(path string) ([]sim.ArrivalRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening arrivals file: %w", err)
	}
	defer f.Close()

	var records []*arrivalRecord
	if err := gocsv.Unmarshal(f, &records); err != nil {
		return nil, fmt.Errorf("unmarshaling arrivals csv: %w", err)
	}

	rows := make([]sim.ArrivalRow, len(records))
	for i, r := range records {
		if r.Service < 0 {
			return nil, fmt.Errorf("arrivals row %d: negative service duration %v", i, r.Service)
		}
		rows[i] = sim.ArrivalRow{
			Time:            r.Time,
			StartZone:       r.PULocationID,
			EndZone:         r.DOLocationID,
			ServiceDuration: r.Service,
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Time < rows[j].Time })

	return rows, nil
}
