package sim

import (
	"container/heap"

	"github.com/fleetsim/citysim/internal/domain/models"
)

// EventQueue is a time-ordered priority queue over heterogeneous
// events. Ties are broken by insertion order: events with equal Time
// are popped in the order they were inserted, which is required for
// determinism under a fixed seed.
//
// Implemented as a binary heap ordered on (time, seq) ascending — one
// of two equally valid approaches (the other being a sorted array
// with binary-search insertion).
type EventQueue struct {
	h      eventHeap
	nextSeq uint64
}

// NewEventQueue constructs an empty event queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{}
	heap.Init(&q.h)
	return q
}

// Insert adds e to the queue, stamping it with the next sequence
// number so equal-time ties resolve to FIFO order.
func (q *EventQueue) Insert(e models.Event) {
	e.SetSeq(q.nextSeq)
	q.nextSeq++
	heap.Push(&q.h, e)
}

// PopMin removes and returns the minimum-(time, seq) event. Panics if
// the queue is empty — callers must check Empty() first, exactly as
// the reference event loop does.
func (q *EventQueue) PopMin() models.Event {
	return heap.Pop(&q.h).(models.Event)
}

// Empty reports whether the queue has no events left.
func (q *EventQueue) Empty() bool {
	return q.h.Len() == 0
}

// Len reports the number of events currently queued.
func (q *EventQueue) Len() int {
	return q.h.Len()
}

// eventHeap implements container/heap.Interface over models.Event,
// ordered on (Time, seq) ascending.
type eventHeap []models.Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].Time != h[j].Time {
		return h[i].Time < h[j].Time
	}
	return h[i].Seq() < h[j].Seq()
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(models.Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}
