package types

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Input errors: malformed external data, detected at startup. Fail fast.
var (
	ErrNoArrivals          = errors.New("arrival table is empty")
	ErrZoneOutOfRange      = errors.New("zone id out of range [1, Z]")
	ErrODMatrixMismatch    = errors.New("od matrix dimensions do not match zone count")
	ErrNegativeService     = errors.New("passenger service duration is negative")
	ErrEmptyPreferredCurve = errors.New("preferred staffing curve must have exactly 1440 entries")
	ErrOutputFolderExists  = errors.New("output folder already exists and is not empty")
)

// Schedule generation gives up after exhausting its chunk budget without
// meeting tolerated_under_preferred.
var ErrScheduleShortfall = errors.New("schedule generation did not converge within the chunk budget")

// InvariantViolation marks a programmer error: a condition that must
// never occur in a correct implementation (a driver in
// two status buckets, a queue over 3, removing a driver absent from its
// zone). It is never expected to be handled — only logged with its
// stack trace and treated as fatal by the simulation loop.
type InvariantViolation struct {
	cause error
}

// NewInvariantViolation builds an InvariantViolation with a stack trace
// captured at the call site, via github.com/pkg/errors, so the
// diagnostic context is not lost by the time it reaches the CLI
// boundary's log line.
func NewInvariantViolation(format string, args...any) error {
	return &InvariantViolation{cause: pkgerrors.Errorf(format, args...)}
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.cause.Error())
}

func (e *InvariantViolation) Unwrap() error {
	return e.cause
}

// IsInvariantViolation reports whether err (or anything it wraps) is an
// InvariantViolation.
func IsInvariantViolation(err error) bool {
	var iv *InvariantViolation
	return errors.As(err, &iv)
}
