// Package physics provides the vector type and the closed-form contact math
// used to predict collisions between moving circles and arena walls.
package physics

import "math"

// Distance calculates the Euclidean distance between two points.
func Distance(a, b Vector2D) float64 {
	return a.Distance(b)
}

// DistanceSquared calculates the squared distance between two points.
func DistanceSquared(a, b Vector2D) float64 {
	return a.Sub(b).LengthSquared()
}

// EdgeDistance returns the gap between the edges of two circles.
// Negative values mean the circles intersect.
func EdgeDistance(p1 Vector2D, r1 float64, p2 Vector2D, r2 float64) float64 {
	return Distance(p1, p2) - r1 - r2
}

// CirclesOverlap checks if two circles touch or intersect.
func CirclesOverlap(p1 Vector2D, r1 float64, p2 Vector2D, r2 float64) bool {
	return EdgeDistance(p1, r1, p2, r2) <= 0
}

// ContactTime returns the time until two circles whose centres are dp apart
// (p2 - p1), moving with relative velocity dv (v2 - v1), first touch at
// centre distance sigma. Separating or grazing pairs never touch and yield
// +Inf. A pair already inside sigma that is still closing yields 0.
func ContactTime(dp, dv Vector2D, sigma float64) float64 {
	dvdp := dv.Dot(dp)
	if dvdp >= 0 {
		return math.Inf(1)
	}

	dvdv := dv.Dot(dv)
	d := dvdp*dvdp - dvdv*(dp.Dot(dp)-sigma*sigma)
	if d <= 0 {
		return math.Inf(1)
	}

	t := -(dvdp + math.Sqrt(d)) / dvdv
	if t < 0 {
		return 0
	}
	return t
}

// WallTime returns the time until a circle of radius r centred at coord and
// moving with speed vel along one axis reaches either end of [0, extent].
// high reports whether the wall hit is the one at extent.
func WallTime(coord, vel, r, extent float64) (t float64, high bool) {
	switch {
	case vel > 0:
		t, high = (extent-r-coord)/vel, true
	case vel < 0:
		t = (r - coord) / vel
	default:
		return math.Inf(1), false
	}
	if t < 0 {
		t = 0
	}
	return t, high
}

// WithinBounds reports whether a circle lies completely inside [0,w]x[0,h].
func WithinBounds(p Vector2D, r, w, h float64) bool {
	return p.X-r >= 0 && p.X+r <= w && p.Y-r >= 0 && p.Y+r <= h
}
