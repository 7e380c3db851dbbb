package sim

import (
	"math/rand"
	"sort"

	"github.com/fleetsim/citysim/internal/domain/types"
)

const (
	minutesPerDay = 1440

	// Default packing parameters.
	DefaultToleratedUnderPreferred = 3000
	DefaultAcceptableOverlap       = 60
	DefaultChunkSize               = 100000

	// maxChunks bounds schedule generation so a pathological demand
	// curve cannot loop forever.
	maxChunks = 50

	minShiftLength = 120
	maxShiftLength = 600
)

// ScheduleBuilder packs randomly sampled work intervals against a
// preferred-staffing curve.
type ScheduleBuilder struct {
	Preferred              []int
	ToleratedUnderPreferred int
	AcceptableOverlap       int
	ChunkSize               int

	lengthWeights []float64 // cumulative, over even lengths [120, 600]
	lengthValues  []int
}

// NewScheduleBuilder constructs a builder over the given preferred
// staffing curve (must have exactly 1440 entries), using the spec's
// default tolerances.
func NewScheduleBuilder(preferred []int) (*ScheduleBuilder, error) {
	if len(preferred) != minutesPerDay {
		return nil, types.ErrEmptyPreferredCurve
	}
	b := &ScheduleBuilder{
		Preferred:               preferred,
		ToleratedUnderPreferred: DefaultToleratedUnderPreferred,
		AcceptableOverlap:       DefaultAcceptableOverlap,
		ChunkSize:               DefaultChunkSize,
	}
	b.buildLengthWeights()
	return b, nil
}

func (b *ScheduleBuilder) buildLengthWeights() {
	var cum float64
	for length := minShiftLength; length <= maxShiftLength; length += 2 {
		w := 1.0 / (absInt(480-length) + 15)
		cum += w
		b.lengthValues = append(b.lengthValues, length)
		b.lengthWeights = append(b.lengthWeights, cum)
	}
}

func absInt(x int) float64 {
	if x < 0 {
		return float64(-x)
	}
	return float64(x)
}

// sampleLength draws a shift length from the weighted distribution
// over even values in [120, 600].
func (b *ScheduleBuilder) sampleLength(rng *rand.Rand) int {
	total := b.lengthWeights[len(b.lengthWeights)-1]
	target := rng.Float64() * total
	lo, hi := 0, len(b.lengthWeights)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if b.lengthWeights[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return b.lengthValues[lo]
}

// Shift is one accepted (schedule_start, schedule_end) candidate.
type Shift struct {
	Start int
	End   int
}

// BuildResult reports the outcome of schedule generation: the accepted
// shifts, whether the tolerated-shortfall target was met, and the
// worst remaining shortfall.
type BuildResult struct {
	Shifts     []Shift
	Converged  bool
	Shortfall  int // min(preferred - availability): positive when every minute is understaffed, negative when some minute is above preferred
}

type candidate struct {
	center int
	length int
}

// Build runs the packing algorithm and returns the
// accepted shifts along with convergence diagnostics. It never returns
// an error: running out of chunk budget before convergence is a
// reportable shortfall, not a failure.
func (b *ScheduleBuilder) Build(rng *rand.Rand) BuildResult {
	availability := make([]int, minutesPerDay)

	var accepted []Shift
	converged := false
	var shortfall int

	for chunk := 0; chunk < maxChunks; chunk++ {
		candidates := make([]candidate, b.ChunkSize)
		for i := range candidates {
			candidates[i] = candidate{
				center: rng.Intn(minutesPerDay),
				length: b.sampleLength(rng),
			}
		}
		sortCandidatesByLengthDesc(candidates)

		for _, cand := range candidates {
			lo, hi := shiftWindow(cand.center, cand.length)
			overlap := restrictedOverlap(availability, b.Preferred, lo, hi)
			if overlap > b.AcceptableOverlap {
				continue
			}
			applyMask(availability, lo, hi)
			accepted = append(accepted, Shift{Start: lo, End: hi})
		}

		shortfall = worstShortfall(b.Preferred, availability)
		if shortfall > -b.ToleratedUnderPreferred {
			converged = true
			break
		}
	}

	return BuildResult{Shifts: accepted, Converged: converged, Shortfall: shortfall}
}

// shiftWindow computes the wrapping interval [lo, hi) for a candidate
// shift, mod 1440. lo/hi are returned as
// schedule_start/schedule_end in [0, 1440), possibly with end < start
// when the shift wraps midnight.
func shiftWindow(center, length int) (int, int) {
	lo := mod(center-length/2, minutesPerDay)
	hi := mod(center+length/2, minutesPerDay)
	return lo, hi
}

func mod(x, m int) int {
	r := x % m
	if r < 0 {
		r += m
	}
	return r
}

// coveredMinutes iterates the minutes a wrapping interval [lo, hi)
// covers, calling fn(m) for each — walking only the interval's own
// length rather than scanning all 1440 minutes.
func coveredMinutes(lo, hi int, fn func(m int)) {
	if lo == hi {
		for m := 0; m < minutesPerDay; m++ {
			fn(m)
		}
		return
	}
	length := hi - lo
	if length < 0 {
		length += minutesPerDay
	}
	for i := 0; i < length; i++ {
		fn(mod(lo+i, minutesPerDay))
	}
}

// restrictedOverlap counts minutes the candidate [lo, hi) covers where
// availability has already met or exceeded the preferred curve.
func restrictedOverlap(availability, preferred []int, lo, hi int) int {
	count := 0
	coveredMinutes(lo, hi, func(m int) {
		if availability[m] >= preferred[m] {
			count++
		}
	})
	return count
}

// applyMask increments availability for every minute the candidate
// [lo, hi) covers.
func applyMask(availability []int, lo, hi int) {
	coveredMinutes(lo, hi, func(m int) {
		availability[m]++
	})
}

func worstShortfall(preferred, availability []int) int {
	worst := preferred[0] - availability[0]
	for m := 1; m < len(preferred); m++ {
		if d := preferred[m] - availability[m]; d < worst {
			worst = d
		}
	}
	return worst
}

// DistributeShifts assigns each accepted shift a start zone drawn at
// random, weighted by historical arrival volume per zone; when no zone
// has any volume, zones are drawn uniformly. Each shift is drawn
// independently, so per-zone counts follow volume only on average:
// there is no proportional allocation and no separate remainder step.
// zones must be 1..Z; volumes missing a zone are treated as zero weight
// for that zone.
func DistributeShifts(shifts []Shift, zones int, volumes map[int]int, rng *rand.Rand) []DriverShift {
	total := 0
	for z := 1; z <= zones; z++ {
		total += volumes[z]
	}

	out := make([]DriverShift, len(shifts))
	for i, s := range shifts {
		var zone int
		if total > 0 {
			target := rng.Intn(total)
			cum := 0
			for z := 1; z <= zones; z++ {
				cum += volumes[z]
				if target < cum {
					zone = z
					break
				}
			}
		} else {
			zone = rng.Intn(zones) + 1
		}
		out[i] = DriverShift{StartZone: zone, ScheduleStart: s.Start, ScheduleEnd: s.End}
	}
	return out
}

// sortCandidatesByLengthDesc places the longest shifts first within a
// chunk, so long shifts get first claim on
// coverage before the chunk's shorter ones compete for the same slots.
func sortCandidatesByLengthDesc(candidates []candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].length > candidates[j].length
	})
}
