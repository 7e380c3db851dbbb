package sim

import (
	"testing"

	"github.com/fleetsim/citysim/internal/domain/models"
)

func TestUnservedBacklog_FIFO(t *testing.T) {
	b := NewUnservedBacklog()
	if b.Nonempty() {
		t.Fatalf("new backlog should be empty")
	}

	p1 := models.NewPassenger(1, 0, 1, 2, 5, 0)
	p2 := models.NewPassenger(2, 1, 1, 2, 5, 0)
	b.PushBack(p1)
	b.PushBack(p2)

	if b.Len() != 2 {
		t.Fatalf("len = %d, want 2", b.Len())
	}
	if got := b.PopFront(); got != p1 {
		t.Fatalf("pop should return p1 first")
	}
	if got := b.PopFront(); got != p2 {
		t.Fatalf("pop should return p2 second")
	}
	if b.Nonempty() {
		t.Fatalf("backlog should be empty after draining")
	}
	if got := b.PopFront(); got != nil {
		t.Fatalf("pop on empty backlog should return nil")
	}
}
