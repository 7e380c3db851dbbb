package sim

import (
	"math"
	"math/rand"

	"github.com/fleetsim/citysim/internal/domain/models"
)

// TravelTimeOracle samples a movement duration between two zones from
// the OD matrix, with fallbacks for when a cell is sparse or empty.
type TravelTimeOracle struct {
	matrix *models.ODMatrix

	// defaultTime[z] is the weighted-mean trip time into zone z, used
	// when the (origin, z) cell has no data.
	defaultTime []float64

	// closestZones[z] lists zone ids ascending by mean travel time
	// from z, z itself removed, computed once from aggregate data.
	closestZones [][]int
}

// NewTravelTimeOracle precomputes defaultTime and closestZones from
// the given OD matrix.
func NewTravelTimeOracle(matrix *models.ODMatrix) *TravelTimeOracle {
	o := &TravelTimeOracle{matrix: matrix}
	o.computeDefaults()
	o.computeClosestZones()
	return o
}

func (o *TravelTimeOracle) computeDefaults() {
	z := o.matrix.Zones
	o.defaultTime = make([]float64, z+1)

	// Pass 1: weighted mean of all origins into each destination column.
	unresolved := make([]int, 0, z)
	for dest := 1; dest <= z; dest++ {
		var weightedSum, totalCount float64
		for origin := 1; origin <= z; origin++ {
			c := o.matrix.Cell(origin, dest)
			if c.Count > 0 {
				weightedSum += c.Mean * float64(c.Count)
				totalCount += float64(c.Count)
			}
		}
		if totalCount > 0 {
			o.defaultTime[dest] = weightedSum / totalCount
			continue
		}

		// Pass 2: fall back to the mean of all destinations from this
		// zone acting as an origin.
		weightedSum, totalCount = 0, 0
		for d := 1; d <= z; d++ {
			c := o.matrix.Cell(dest, d)
			if c.Count > 0 {
				weightedSum += c.Mean * float64(c.Count)
				totalCount += float64(c.Count)
			}
		}
		if totalCount > 0 {
			o.defaultTime[dest] = weightedSum / totalCount
			continue
		}

		unresolved = append(unresolved, dest)
	}

	// Pass 3: zones with neither an origin nor destination row get the
	// mean of all previously-computed defaults.
	if len(unresolved) > 0 {
		var sum float64
		var n int
		for dest := 1; dest <= z; dest++ {
			stillUnresolved := false
			for _, u := range unresolved {
				if u == dest {
					stillUnresolved = true
					break
				}
			}
			if !stillUnresolved {
				sum += o.defaultTime[dest]
				n++
			}
		}
		mean := 0.0
		if n > 0 {
			mean = sum / float64(n)
		}
		for _, dest := range unresolved {
			o.defaultTime[dest] = mean
		}
	}
}

func (o *TravelTimeOracle) computeClosestZones() {
	z := o.matrix.Zones
	o.closestZones = make([][]int, z+1)

	for origin := 1; origin <= z; origin++ {
		type entry = struct {
			zone int
			mean float64
		}
		entries := make([]entry, 0, z-1)
		for dest := 1; dest <= z; dest++ {
			if dest == origin {
				continue
			}
			c := o.matrix.Cell(origin, dest)
			if c.IsEmpty() {
				continue
			}
			entries = append(entries, entry{zone: dest, mean: c.Mean})
		}
		sortEntriesByMean(entries)
		ids := make([]int, len(entries))
		for i, e := range entries {
			ids[i] = e.zone
		}
		o.closestZones[origin] = ids
	}
}

// sortEntriesByMean is a tiny insertion sort: closestZones rows are
// typically a few hundred entries (Z=263 in the reference dataset), so
// a stdlib-free sort keeps this file dependency-light and fully
// deterministic regardless of sort.Slice's internal tie handling.
func sortEntriesByMean(entries []struct {
	zone int
	mean float64
}) {
	for i := 1; i < len(entries); i++ {
		j := i
		for j > 0 && entries[j-1].mean > entries[j].mean {
			entries[j-1], entries[j] = entries[j], entries[j-1]
			j--
		}
	}
}

// ClosestZones returns the zones ordered ascending by mean travel time
// from origin, origin itself and all-zero rows removed.
func (o *TravelTimeOracle) ClosestZones(origin int) []int {
	if origin < 0 || origin >= len(o.closestZones) {
		return nil
	}
	return o.closestZones[origin]
}

// Sample draws a movement duration in minutes from origin to dest.
// If the cell has no data, it returns an exponentially
// distributed value with mean defaultTime[dest]; otherwise a Normal
// draw clipped from below at MinClip.
func (o *TravelTimeOracle) Sample(rng *rand.Rand, origin, dest int) float64 {
	c := o.matrix.Cell(origin, dest)
	if c.IsEmpty() {
		mean := o.defaultTime[dest]
		if mean <= 0 {
			mean = 0.1
		}
		return rng.ExpFloat64() * mean
	}
	v := c.Mean + rng.NormFloat64()*c.Stdev
	return math.Max(v, c.MinClip)
}
