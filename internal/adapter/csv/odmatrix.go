package csv

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/fleetsim/citysim/internal/domain/models"
)

// odCellRecord is one (origin, destination) row of the OD matrix:
// mean, stdev, min_clip, count; all zero means "no data" for that
// pair.
type odCellRecord struct {
	Origin      int     `csv:"origin"`
	Destination int     `csv:"destination"`
	Mean        float64 `csv:"mean"`
	Stdev       float64 `csv:"stdev"`
	MinClip     float64 `csv:"min_clip"`
	Count       int     `csv:"count"`
}

// ReadODMatrix loads the OD matrix CSV into a (zones+1)x(zones+1)
// table. Cells absent from the file are left at the zero value
// (models.OdCell{}, "no data").
func ReadODMatrix(path string, zones int) (*models.ODMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening od matrix file: %w", err)
	}
	defer f.Close()

	var records []*odCellRecord
	if err := gocsv.Unmarshal(f, &records); err != nil {
		return nil, fmt.Errorf("unmarshaling od matrix csv: %w", err)
	}

	matrix := models.NewODMatrix(zones)
	for _, r := range records {
		if r.Origin < 1 || r.Origin > zones || r.Destination < 1 || r.Destination > zones {
			return nil, fmt.Errorf("od matrix cell (%d,%d) out of range for %d zones", r.Origin, r.Destination, zones)
		}
		matrix.Set(r.Origin, r.Destination, models.OdCell{
			Mean:    r.Mean,
			Stdev:   r.Stdev,
			MinClip: r.MinClip,
			Count:   r.Count,
		})
	}

	return matrix, nil
}

// WriteODMatrix serializes a matrix back to CSV, emitting only
// non-empty cells, in the same format ReadODMatrix reads.
func WriteODMatrix(path string, matrix *models.ODMatrix) error {
	var records []*odCellRecord
	for origin := 1; origin <= matrix.Zones; origin++ {
		for dest := 1; dest <= matrix.Zones; dest++ {
			cell := matrix.Cell(origin, dest)
			if cell.IsEmpty() {
				continue
			}
			records = append(records, &odCellRecord{
				Origin:      origin,
				Destination: dest,
				Mean:        cell.Mean,
				Stdev:       cell.Stdev,
				MinClip:     cell.MinClip,
				Count:       cell.Count,
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating od matrix file: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(records, f); err != nil {
		return fmt.Errorf("marshaling od matrix csv: %w", err)
	}
	return nil
}
