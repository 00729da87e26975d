package collisions

import (
	"math"

	"github.com/solarlune/resolv"
)

const (
	CollisionSpaceTagObstacle string = "obstacle"
	CollisionSpaceTagProbe    string = "probe"

	// CellSize is the size of a collision space cell in world units
	CellSize = 16

	// probeMargin grows the broadphase probe so circles touching an obstacle
	// edge that lies on a cell boundary still share a cell with it
	probeMargin = 0.1
)

// ObstacleSpace indexes static rectangles in a resolv.Space so circle queries
// only run the exact test against obstacles sharing cells with the circle.
// It is not safe for concurrent use.
type ObstacleSpace struct {
	space *resolv.Space
	rects map[*resolv.Object]Rect
	probe *resolv.Object
}

// NewObstacleSpace builds a space covering width x height and adds every obstacle to it.
func NewObstacleSpace(width, height float64, obstacles []Rect) *ObstacleSpace {
	space := resolv.NewSpace(int(math.Ceil(width)), int(math.Ceil(height)), CellSize, CellSize)
	rects := make(map[*resolv.Object]Rect, len(obstacles))
	for _, r := range obstacles {
		obj := resolv.NewObject(r.X, r.Y, r.W, r.H, CollisionSpaceTagObstacle)
		space.Add(obj)
		rects[obj] = r
	}

	probe := resolv.NewObject(0, 0, 1, 1, CollisionSpaceTagProbe)
	space.Add(probe)

	return &ObstacleSpace{
		space: space,
		rects: rects,
		probe: probe,
	}
}

// Len returns the number of obstacles in the space.
func (s *ObstacleSpace) Len() int {
	return len(s.rects)
}

// CircleHit returns the first obstacle the circle touches.
func (s *ObstacleSpace) CircleHit(c Circle) (Rect, bool) {
	s.probe.Position.X = c.Center.X - c.Radius - probeMargin
	s.probe.Position.Y = c.Center.Y - c.Radius - probeMargin
	s.probe.Size.X = c.Radius*2 + probeMargin*2
	s.probe.Size.Y = c.Radius*2 + probeMargin*2
	s.probe.Update()

	collision := s.probe.Check(0, 0, CollisionSpaceTagObstacle)
	if collision == nil {
		return Rect{}, false
	}
	for _, obj := range collision.Objects {
		r, ok := s.rects[obj]
		if !ok {
			continue
		}
		if CircleIntersectsRect(c, r) {
			return r, true
		}
	}
	return Rect{}, false
}

// CircleHits reports whether the circle touches any obstacle.
func (s *ObstacleSpace) CircleHits(c Circle) bool {
	_, hit := s.CircleHit(c)
	return hit
}
