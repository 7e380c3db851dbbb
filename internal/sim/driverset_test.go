package sim

import (
	"testing"

	"github.com/fleetsim/citysim/internal/domain/models"
)

func TestDriverSet_AddRemoveContains(t *testing.T) {
	s := newDriverSet()
	d1 := models.NewDriver(1, 1, 0, 1440)
	d2 := models.NewDriver(2, 1, 0, 1440)

	s.add(d1)
	s.add(d2)
	if s.len() != 2 {
		t.Fatalf("len = %d, want 2", s.len())
	}
	if !s.contains(d1) || !s.contains(d2) {
		t.Fatalf("set should contain both drivers")
	}

	if !s.remove(d1) {
		t.Fatalf("remove should report true for a present driver")
	}
	if s.contains(d1) {
		t.Fatalf("d1 should no longer be present")
	}
	if !s.contains(d2) {
		t.Fatalf("d2 should still be present after removing d1")
	}
	if s.remove(d1) {
		t.Fatalf("removing an absent driver twice should report false")
	}
}

func TestDriverSet_AnyDeterministic(t *testing.T) {
	s := newDriverSet()
	if s.any() != nil {
		t.Fatalf("empty set any() should return nil")
	}
	d1 := models.NewDriver(1, 1, 0, 1440)
	s.add(d1)
	if s.any() != d1 {
		t.Fatalf("any() on a singleton set should return its only member")
	}
}
