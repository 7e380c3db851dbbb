package csv

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/fleetsim/citysim/internal/sim"
)

// staffingRecord is one minute-of-day row of the preferred staffing
// curve: the desired number of drivers on duty.
type staffingRecord struct {
	Minute    int `csv:"minute"`
	Preferred int `csv:"preferred"`
}

// ReadStaffingCurve loads a 1440-entry preferred staffing curve,
// indexed by minute-of-day.
func ReadStaffingCurve(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening staffing curve file: %w", err)
	}
	defer f.Close()

	var records []*staffingRecord
	if err := gocsv.Unmarshal(f, &records); err != nil {
		return nil, fmt.Errorf("unmarshaling staffing curve csv: %w", err)
	}

	const minutesPerDay = 1440
	curve := make([]int, minutesPerDay)
	seen := make([]bool, minutesPerDay)
	for _, r := range records {
		if r.Minute < 0 || r.Minute >= minutesPerDay {
			return nil, fmt.Errorf("staffing curve minute %d out of range [0,%d)", r.Minute, minutesPerDay)
		}
		if r.Preferred < 0 {
			return nil, fmt.Errorf("staffing curve minute %d: negative preferred count %d", r.Minute, r.Preferred)
		}
		curve[r.Minute] = r.Preferred
		seen[r.Minute] = true
	}
	for m, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("staffing curve missing minute %d", m)
		}
	}

	return curve, nil
}

// zoneVolumeRecord is one row of the historical per-zone arrival
// volume fixture used to distribute generated shifts across zones
// proportionally.
type zoneVolumeRecord struct {
	Zone   int `csv:"zone"`
	Volume int `csv:"volume"`
}

// ReadZoneVolumes loads the historical arrival-count-per-zone table,
// keyed by zone id.
func ReadZoneVolumes(path string) (map[int]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening zone volumes file: %w", err)
	}
	defer f.Close()

	var records []*zoneVolumeRecord
	if err := gocsv.Unmarshal(f, &records); err != nil {
		return nil, fmt.Errorf("unmarshaling zone volumes csv: %w", err)
	}

	volumes := make(map[int]int, len(records))
	for _, r := range records {
		volumes[r.Zone] = r.Volume
	}
	return volumes, nil
}

// shiftRecord is one row of a generated schedule: a shift window plus
// the zone its driver is distributed to.
type shiftRecord struct {
	DriverID int `csv:"driver_id"`
	Zone     int `csv:"zone"`
	Start    int `csv:"schedule_start"`
	End      int `csv:"schedule_end"`
}

// WriteSchedule serializes the zone-assigned shifts produced by
// DistributeShifts to a CSV file.
func WriteSchedule(path string, shifts []sim.DriverShift) error {
	records := make([]*shiftRecord, len(shifts))
	for i, s := range shifts {
		records[i] = &shiftRecord{
			DriverID: i,
			Zone:     s.StartZone,
			Start:    s.ScheduleStart,
			End:      s.ScheduleEnd,
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating schedule file: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(records, f); err != nil {
		return fmt.Errorf("marshaling schedule csv: %w", err)
	}
	return nil
}

// ReadSchedule loads a previously generated schedule back into driver
// shifts, for the validate command and for replaying a fixed roster
// across replications.
func ReadSchedule(path string) ([]sim.DriverShift, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening schedule file: %w", err)
	}
	defer f.Close()

	var records []*shiftRecord
	if err := gocsv.Unmarshal(f, &records); err != nil {
		return nil, fmt.Errorf("unmarshaling schedule csv: %w", err)
	}

	shifts := make([]sim.DriverShift, len(records))
	for i, r := range records {
		shifts[i] = sim.DriverShift{
			StartZone:     r.Zone,
			ScheduleStart: r.Start,
			ScheduleEnd:   r.End,
		}
	}
	return shifts, nil
}
