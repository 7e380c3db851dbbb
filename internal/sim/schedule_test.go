package sim

import (
	"math/rand"
	"testing"

	"github.com/fleetsim/citysim/internal/domain/types"
)

func flatCurve(value int) []int {
	c := make([]int, minutesPerDay)
	for i := range c {
		c[i] = value
	}
	return c
}

func TestNewScheduleBuilder_RejectsWrongLength(t *testing.T) {
	_, err := NewScheduleBuilder([]int{1, 2, 3})
	if err != types.ErrEmptyPreferredCurve {
		t.Fatalf("expected ErrEmptyPreferredCurve, got %v", err)
	}
}

func TestScheduleBuilder_Build_ConvergesOnLowDemand(t *testing.T) {
	b, err := NewScheduleBuilder(flatCurve(1))
	if err != nil {
		t.Fatalf("NewScheduleBuilder: %v", err)
	}
	b.ChunkSize = 500

	rng := rand.New(rand.NewSource(42))
	result := b.Build(rng)

	if !result.Converged {
		t.Fatalf("a demand curve of 1 should converge well within the chunk budget, shortfall=%d", result.Shortfall)
	}
	if len(result.Shifts) == 0 {
		t.Fatalf("expected at least one accepted shift")
	}
	for _, s := range result.Shifts {
		if s.Start < 0 || s.Start >= minutesPerDay || s.End < 0 || s.End >= minutesPerDay {
			t.Fatalf("shift %+v has an out-of-range boundary", s)
		}
	}
}

func TestScheduleBuilder_Build_ReportsShortfallWhenUnmet(t *testing.T) {
	b, err := NewScheduleBuilder(flatCurve(10000))
	if err != nil {
		t.Fatalf("NewScheduleBuilder: %v", err)
	}
	b.ChunkSize = 50
	b.ToleratedUnderPreferred = 1

	rng := rand.New(rand.NewSource(1))
	result := b.Build(rng)

	if !result.Converged {
		t.Fatalf("min(preferred - availability) stays far above -ToleratedUnderPreferred, so the stop rule is met after the first chunk")
	}
	if result.Shortfall <= 0 {
		t.Fatalf("shortfall should be positive (every minute understaffed), got %d", result.Shortfall)
	}
}

func TestShiftWindow_WrapsAtMidnight(t *testing.T) {
	lo, hi := shiftWindow(10, 40)
	if lo != mod(10-20, minutesPerDay) || hi != mod(10+20, minutesPerDay) {
		t.Fatalf("shiftWindow(10, 40) = (%d, %d), wrap math mismatch", lo, hi)
	}
	if hi >= lo {
		t.Fatalf("shiftWindow(10, 40) should wrap past midnight (hi < lo), got lo=%d hi=%d", lo, hi)
	}
}

func TestCoveredMinutes_NonWrapping(t *testing.T) {
	var got []int
	coveredMinutes(10, 15, func(m int) { got = append(got, m) })
	want := []int{10, 11, 12, 13, 14}
	if len(got) != len(want) {
		t.Fatalf("coveredMinutes(10,15) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("coveredMinutes(10,15) = %v, want %v", got, want)
		}
	}
}

func TestCoveredMinutes_Wrapping(t *testing.T) {
	var got []int
	coveredMinutes(1438, 2, func(m int) { got = append(got, m) })
	want := []int{1438, 1439, 0, 1}
	if len(got) != len(want) {
		t.Fatalf("coveredMinutes(1438,2) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("coveredMinutes(1438,2) = %v, want %v", got, want)
		}
	}
}
