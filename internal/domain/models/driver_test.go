package models

import "testing"

func TestDriver_QueueFIFO(t *testing.T) {
	d := NewDriver(1, 10, 0, 1440)
	p1 := NewPassenger(1, 0, 10, 20, 5, 0)
	p2 := NewPassenger(2, 1, 10, 20, 5, 0)

	d.Enqueue(p1)
	d.Enqueue(p2)

	if got := d.PeekQueue(); got != p1 {
		t.Fatalf("peek should return the front passenger, got %v want %v", got, p1)
	}
	if got := d.PopQueue(); got != p1 {
		t.Fatalf("pop should return p1 first, got %v", got)
	}
	if got := d.PopQueue(); got != p2 {
		t.Fatalf("pop should return p2 second, got %v", got)
	}
	if got := d.PopQueue(); got != nil {
		t.Fatalf("pop on empty queue should return nil, got %v", got)
	}
}

func TestDriver_AtMaxQueue(t *testing.T) {
	d := NewDriver(1, 10, 0, 1440)
	for i := 0; i < MaxQueueLength-1; i++ {
		d.Enqueue(NewPassenger(i, 0, 10, 20, 5, 0))
		if d.AtMaxQueue() {
			t.Fatalf("driver should not be at max queue with %d entries", i+1)
		}
	}
	d.Enqueue(NewPassenger(99, 0, 10, 20, 5, 0))
	if !d.AtMaxQueue() {
		t.Fatalf("driver should be at max queue with %d entries", MaxQueueLength)
	}
}

func TestDriver_IsMoving(t *testing.T) {
	d := NewDriver(1, 10, 0, 1440)
	if d.IsMoving() {
		t.Fatalf("fresh driver should not be moving")
	}
	d.Enqueue(NewPassenger(1, 0, 10, 20, 5, 0))
	if !d.IsMoving() {
		t.Fatalf("driver with a queued passenger should be moving")
	}
}

func TestDriver_OutOfSchedule_NonWrapping(t *testing.T) {
	d := NewDriver(1, 10, 100, 500)
	cases := []struct {
		t    float64
		want bool
	}{
		{50, true},
		{100, false},
		{300, false},
		{500, false},
		{501, true},
	}
	for _, c := range cases {
		if got := d.OutOfSchedule(c.t); got != c.want {
			t.Fatalf("OutOfSchedule(%v) = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestDriver_OutOfSchedule_Wrapping(t *testing.T) {
	d := NewDriver(1, 10, 1400, 100)
	cases := []struct {
		t    float64
		want bool
	}{
		{0, false},
		{1400, false},
		{100, false},
		{1439, false},
		{200, true},
		{1399, true},
	}
	for _, c := range cases {
		if got := d.OutOfSchedule(c.t); got != c.want {
			t.Fatalf("OutOfSchedule(%v) = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestDriver_OutOfSchedule_ZeroWidth(t *testing.T) {
	d := NewDriver(1, 10, 300, 300)
	if !d.OutOfSchedule(300) {
		t.Fatalf("a driver with schedule_start == schedule_end must never be active")
	}
	if d.ActiveAtStart() {
		t.Fatalf("a zero-width schedule must not be active at t=0")
	}
}

func TestDriver_ActiveAtStart_FullDay(t *testing.T) {
	d := NewDriver(1, 10, 0, 1440)
	if !d.ActiveAtStart() {
		t.Fatalf("a driver scheduled [0, 1440) must be active at t=0")
	}
	if d.OutOfSchedule(1439) {
		t.Fatalf("a driver scheduled [0, 1440) must be active through t=1439")
	}
}

func TestDriver_MovementHistory_Ordering(t *testing.T) {
	d := NewDriver(1, 10, 0, 1440)
	d.RecordStartOfMovement(5, 20)
	d.RecordEndOfMovement(8, 20, nil)

	if len(d.MovementHistory) != 2 {
		t.Fatalf("expected 2 movement records, got %d", len(d.MovementHistory))
	}
	pause, leg := d.MovementHistory[0], d.MovementHistory[1]
	if pause.IsMoving {
		t.Fatalf("first record should be a pause, got is_moving=true")
	}
	if !leg.IsMoving {
		t.Fatalf("second record should be a trip leg, got is_moving=false")
	}
	if pause.EndTime != leg.StartTime {
		t.Fatalf("records must be time-contiguous: pause end %v != leg start %v", pause.EndTime, leg.StartTime)
	}
	if d.LastLocation != 20 || d.LastTime != 8 {
		t.Fatalf("driver should now be at (20, t=8), got (%d, %v)", d.LastLocation, d.LastTime)
	}
}

func TestPassenger_WaitingTime(t *testing.T) {
	p := NewPassenger(1, 10, 1, 2, 5, 0)
	p.MarkServed(30)
	if got, want := p.WaitingTime(), 15.0; got != want {
		t.Fatalf("waiting time = %v, want %v", got, want)
	}
	if !p.Served() {
		t.Fatalf("passenger should be marked served")
	}
}
