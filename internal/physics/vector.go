package physics

import (
	"errors"
	"fmt"
	"math"
)

// ErrZeroVector is returned when normalizing a vector without direction.
var ErrZeroVector = errors.New("physics: cannot normalize the zero vector")

// Vector2D is an immutable two-dimensional vector.
type Vector2D struct {
	X float64
	Y float64
}

// Zero is the zero vector.
var Zero = Vector2D{}

// Vec builds a vector from its components.
func Vec(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

// FromAngle creates a vector of the given magnitude pointing along angle (radians).
func FromAngle(angle, magnitude float64) Vector2D {
	return Vector2D{
		X: magnitude * math.Cos(angle),
		Y: magnitude * math.Sin(angle),
	}
}

// Add returns the sum of two vectors.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the component-wise difference v - other.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{X: v.X - other.X, Y: v.Y - other.Y}
}

// Scale multiplies the vector by a scalar.
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{X: v.X * factor, Y: v.Y * factor}
}

// Dot returns the dot product of two vectors.
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Length returns the magnitude of the vector.
func (v Vector2D) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// LengthSquared returns the squared magnitude.
// Use this when comparing lengths to avoid the sqrt cost.
func (v Vector2D) LengthSquared() float64 {
	return v.Dot(v)
}

// Normalize returns the unit vector with the same direction.
func (v Vector2D) Normalize() (Vector2D, error) {
	length := v.Length()
	if length == 0 {
		return Zero, ErrZeroVector
	}
	return Vector2D{X: v.X / length, Y: v.Y / length}, nil
}

// Distance returns the Euclidean distance between two points.
func (v Vector2D) Distance(other Vector2D) float64 {
	return v.Sub(other).Length()
}

// IsFinite reports whether both components are real, finite numbers.
func (v Vector2D) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func (v Vector2D) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}
