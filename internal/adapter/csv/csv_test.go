package csv

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetsim/citysim/internal/sim"
)

func TestReadArrivals_SortsByTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arrivals.csv")
	content := "time,pulocationid,dolocationid,service\n11,1,2,4\n5,1,3,2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rows, err := ReadArrivals(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, float64(5), rows[0].Time)
	assert.Equal(t, float64(11), rows[1].Time)
}

func TestReadArrivals_RejectsNegativeService(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arrivals.csv")
	content := "time,pulocationid,dolocationid,service\n1,1,2,-1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := ReadArrivals(path)
	assert.Error(t, err)
}

func TestODMatrix_WriteThenRead_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "od.csv")

	content := "origin,destination,mean,stdev,min_clip,count\n1,2,10.5,2.1,3,40\n2,1,9.25,1.8,3,38\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	matrix, err := ReadODMatrix(path, 2)
	require.NoError(t, err)

	cell := matrix.Cell(1, 2)
	assert.Equal(t, 10.5, cell.Mean)
	assert.Equal(t, 40, cell.Count)
	assert.True(t, matrix.Cell(1, 1).IsEmpty(), "diagonal cell should be empty when absent from the file")

	outPath := filepath.Join(dir, "od_out.csv")
	require.NoError(t, WriteODMatrix(outPath, matrix))

	reread, err := ReadODMatrix(outPath, 2)
	require.NoError(t, err)
	assert.Equal(t, 10.5, reread.Cell(1, 2).Mean, "round-trip lost cell data")
}

func TestReadODMatrix_RejectsOutOfRangeZone(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "od.csv")
	content := "origin,destination,mean,stdev,min_clip,count\n5,1,10,1,3,10\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := ReadODMatrix(path, 2)
	assert.Error(t, err)
}

func TestReadStaffingCurve_RequiresEveryMinute(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "staffing.csv")
	content := "minute,preferred\n0,5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := ReadStaffingCurve(path)
	assert.Error(t, err)
}

func TestSchedule_WriteThenRead_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.csv")

	shifts := []sim.DriverShift{
		{StartZone: 1, ScheduleStart: 0, ScheduleEnd: 480},
		{StartZone: 2, ScheduleStart: 480, ScheduleEnd: 960},
	}
	require.NoError(t, WriteSchedule(path, shifts))

	reread, err := ReadSchedule(path)
	require.NoError(t, err)
	require.Len(t, reread, 2)
	assert.Equal(t, 2, reread[1].StartZone)
	assert.Equal(t, 480, reread[1].ScheduleStart)
}

func TestDistributeShifts_FallsBackToUniformWithNoVolumeData(t *testing.T) {
	shifts := []sim.Shift{{Start: 0, End: 100}, {Start: 100, End: 200}}
	rng := rand.New(rand.NewSource(1))

	out := sim.DistributeShifts(shifts, 3, map[int]int{}, rng)
	require.Len(t, out, 2)
	for _, s := range out {
		assert.GreaterOrEqual(t, s.StartZone, 1)
		assert.LessOrEqual(t, s.StartZone, 3)
	}
}

func TestDistributeShifts_WeightsTowardHighVolumeZone(t *testing.T) {
	shifts := make([]sim.Shift, 200)
	for i := range shifts {
		shifts[i] = sim.Shift{Start: 0, End: 60}
	}
	rng := rand.New(rand.NewSource(42))

	out := sim.DistributeShifts(shifts, 2, map[int]int{1: 1, 2: 99}, rng)
	zone2 := 0
	for _, s := range out {
		if s.StartZone == 2 {
			zone2++
		}
	}
	assert.GreaterOrEqual(t, zone2, 150, "expected most shifts assigned to the high-volume zone")
}
