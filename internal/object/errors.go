package object

import (
	"errors"
	"fmt"
	"math"
)

// State errors: the caller attempted an operation the entity cannot perform.
var (
	ErrTerminated    = errors.New("entity is terminated")
	ErrAlreadyHosted = errors.New("entity already belongs to a world or ship")
	ErrNoWorld       = errors.New("ship is not in a world")
	ErrNotCarried    = errors.New("bullet is not carried by this ship")
	ErrNotParent     = errors.New("ship is not the bullet's parent")
	ErrInvalidAngle  = errors.New("angle is not a finite number")
	ErrInvalidCount  = errors.New("bullet count is negative")
	ErrNilEntity     = errors.New("entity is nil")
)

// ErrNegativeTime is returned for a negative time argument. Negative time is
// rejected outright, never clamped.
var ErrNegativeTime = errors.New("time must not be negative")

// ErrInvalidTime is returned for a NaN or infinite time argument.
var ErrInvalidTime = errors.New("time is not a finite number")

// CheckTime validates a time step.
func CheckTime(dt float64) error {
	switch {
	case math.IsNaN(dt) || math.IsInf(dt, 0):
		return ErrInvalidTime
	case dt < 0:
		return ErrNegativeTime
	}
	return nil
}

// Construction errors.
var (
	ErrInvalidRadius      = errors.New("invalid radius")
	ErrInvalidPosition    = errors.New("invalid position")
	ErrInvalidMass        = errors.New("invalid mass")
	ErrInvalidOrientation = errors.New("invalid orientation")
)

// ConstructionError reports an invalid parameter passed to a constructor.
type ConstructionError struct {
	Kind  Kind
	Field string
	Value any
	Err   error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construct %s: %s=%v: %v", e.Kind, e.Field, e.Value, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}
