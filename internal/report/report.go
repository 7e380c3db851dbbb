// Package report formats the per-run textual diagnostics summary:
// mean and median waiting time, and counts of processed events, served
// passengers and the residual backlog.
package report

import (
	"fmt"
	"io"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/fleetsim/citysim/internal/sim"
)

// Stats summarizes one or more replications' results.
type Stats struct {
	RunID             string
	Replications      int
	EventsProcessed   int
	ServedPassengers  int
	ResidualBacklog   int
	MeanWaitMinutes   float64
	MedianWaitMinutes float64
}

// Summarize computes Stats across every replication in results.
func Summarize(results []sim.Result) Stats {
	var s Stats
	s.Replications = len(results)

	var waits []float64
	for _, r := range results {
		s.EventsProcessed += r.EventsProcessed
		s.ResidualBacklog += r.ResidualBacklog
		for _, p := range r.ServedPassengers() {
			waits = append(waits, p.WaitingTime())
		}
	}
	s.ServedPassengers = len(waits)

	if len(waits) == 0 {
		return s
	}

	sort.Float64s(waits)
	var sum float64
	for _, w := range waits {
		sum += w
	}
	s.MeanWaitMinutes = sum / float64(len(waits))

	mid := len(waits) / 2
	if len(waits)%2 == 0 {
		s.MedianWaitMinutes = (waits[mid-1] + waits[mid]) / 2
	} else {
		s.MedianWaitMinutes = waits[mid]
	}

	return s
}

// Write renders Stats as a human-readable report to w, using
// locale-aware thousands separators for the event and passenger
// counts.
func Write(w io.Writer, s Stats) error {
	p := message.NewPrinter(language.English)

	if s.RunID != "" {
		if _, err := p.Fprintf(w, "run id:                   %s\n", s.RunID); err != nil {
			return err
		}
	}
	if _, err := p.Fprintf(w, "replications run:        %d\n", s.Replications); err != nil {
		return err
	}
	if _, err := p.Fprintf(w, "events processed:         %d\n", s.EventsProcessed); err != nil {
		return err
	}
	if _, err := p.Fprintf(w, "passengers served:        %d\n", s.ServedPassengers); err != nil {
		return err
	}
	if _, err := p.Fprintf(w, "residual backlog:         %d\n", s.ResidualBacklog); err != nil {
		return err
	}
	if s.ServedPassengers == 0 {
		_, err := fmt.Fprintln(w, "mean/median waiting time: n/a (no passengers served)")
		return err
	}
	if _, err := p.Fprintf(w, "mean waiting time:        %.2f min\n", s.MeanWaitMinutes); err != nil {
		return err
	}
	_, err := p.Fprintf(w, "median waiting time:      %.2f min\n", s.MedianWaitMinutes)
	return err
}
