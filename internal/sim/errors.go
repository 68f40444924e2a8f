package sim

import (
	"errors"
	"fmt"
)

// Domain errors for simulation runs.
var (
	// ErrInvalidConfig indicates a run configuration that cannot be executed.
	ErrInvalidConfig = errors.New("sim: invalid configuration")

	// ErrNumericalInstability indicates the integration produced a
	// non-finite state.
	ErrNumericalInstability = errors.New("sim: numerical instability (state diverged)")
)

// ConfigError reports which part of a run configuration failed validation.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidConfig, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// InstabilityError records where the integration diverged. Step is the
// step that produced the non-finite state; the preceding step was the
// last valid one.
type InstabilityError struct {
	Step int
	Time float64
	Body string
}

func (e *InstabilityError) Error() string {
	return fmt.Sprintf("%s: body %q at step %d (t=%g s)", ErrNumericalInstability, e.Body, e.Step, e.Time)
}

func (e *InstabilityError) Unwrap() error { return ErrNumericalInstability }
