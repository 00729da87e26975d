package collisions

import (
	"math"

	"github.com/cbodonnell/arena/pkg/kinematic"
)

// Circle is a circle in world space.
type Circle struct {
	Center kinematic.Vector
	Radius float64
}

// Rect is an axis-aligned rectangle whose position is its top-left corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// CirclesIntersect reports whether two circles overlap or touch.
func CirclesIntersect(a, b Circle) bool {
	dx := b.Center.X - a.Center.X
	dy := b.Center.Y - a.Center.Y
	radSum := a.Radius + b.Radius
	return dx*dx+dy*dy <= radSum*radSum
}

// CircleIntersectsRect reports whether a circle overlaps or touches a rectangle.
func CircleIntersectsRect(c Circle, r Rect) bool {
	nearestX := math.Max(r.X, math.Min(c.Center.X, r.X+r.W))
	nearestY := math.Max(r.Y, math.Min(c.Center.Y, r.Y+r.H))
	dx := c.Center.X - nearestX
	dy := c.Center.Y - nearestY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// RectsOverlap reports whether two rectangles share any area.
func RectsOverlap(a, b Rect) bool {
	return a.X < b.X+b.W && a.X+a.W > b.X && a.Y < b.Y+b.H && a.Y+a.H > b.Y
}

// InBounds reports whether a point lies within a width x height area grown by margin on every side.
func InBounds(p kinematic.Vector, width, height, margin float64) bool {
	return p.X >= -margin && p.X <= width+margin && p.Y >= -margin && p.Y <= height+margin
}
