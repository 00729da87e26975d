package kinematic

// This package includes the vector math used to move entities around the arena.

import (
	"math"
)

// Vector is a 2D vector in world units. The Y axis points down.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vector) Add(other Vector) Vector {
	return Vector{X: v.X + other.X, Y: v.Y + other.Y}
}

func (v Vector) Sub(other Vector) Vector {
	return Vector{X: v.X - other.X, Y: v.Y - other.Y}
}

func (v Vector) Scale(factor float64) Vector {
	return Vector{X: v.X * factor, Y: v.Y * factor}
}

func (v Vector) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns the unit vector pointing in the same direction.
// The zero vector is returned unchanged.
func (v Vector) Normalize() Vector {
	length := v.Length()
	if length == 0 {
		return v
	}
	return Vector{X: v.X / length, Y: v.Y / length}
}

// Lerp moves v towards target by factor (0 stays, 1 arrives).
func (v Vector) Lerp(target Vector, factor float64) Vector {
	return Vector{
		X: v.X + (target.X-v.X)*factor,
		Y: v.Y + (target.Y-v.Y)*factor,
	}
}

// Distance returns the distance between two points.
func Distance(a, b Vector) float64 {
	return b.Sub(a).Length()
}

// Direction returns the unit direction for a rotation in degrees,
// where 0 faces up (0,-1) and 90 faces right (1,0).
func Direction(rotation float64) Vector {
	rad := rotation * math.Pi / 180
	x := math.Sin(rad)
	y := -math.Cos(rad)
	// avoid -0 and float noise for the cardinal directions
	if math.Abs(x) < 1e-12 {
		x = 0
	}
	if math.Abs(y) < 1e-12 {
		y = 0
	}
	return Vector{X: x, Y: y}
}

// NormalizeRotation wraps a rotation in degrees into [0, 360).
func NormalizeRotation(rotation float64) float64 {
	if math.IsNaN(rotation) || math.IsInf(rotation, 0) {
		return 0
	}
	r := math.Mod(rotation, 360)
	if r < 0 {
		r += 360
	}
	return r
}

// Displacement returns how far an object travels at a constant velocity over time seconds.
func Displacement(velocity Vector, time float64) Vector {
	return velocity.Scale(time)
}

// Clamp restricts v to [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
