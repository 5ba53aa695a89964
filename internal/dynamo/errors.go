package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for vehicle setup and simulation runs.
var (
	// ErrInvalidConfig indicates a vehicle asset that cannot be simulated.
	ErrInvalidConfig = errors.New("dynamo: invalid vehicle config")

	// ErrNoGears indicates an empty gear table.
	ErrNoGears = errors.New("dynamo: gear table is empty")

	// ErrDegenerateQuat indicates a correction rotation with near zero length.
	ErrDegenerateQuat = errors.New("dynamo: degenerate quaternion")

	// ErrNonUnitQuat indicates a correction rotation that is not normalized.
	ErrNonUnitQuat = errors.New("dynamo: quaternion not normalized")

	// ErrUnknownParam indicates a SetParam call with an unknown name.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrInvalidState indicates the body state became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrContextCanceled indicates the run was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// TickError wraps an error with the tick it happened on.
type TickError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
