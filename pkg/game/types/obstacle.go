package types

import (
	"math/rand"

	"github.com/cbodonnell/arena/pkg/collisions"
	"github.com/cbodonnell/arena/pkg/game/constants"
)

// Obstacle is a static axis-aligned rectangle. Obstacles never move.
type Obstacle struct {
	ID   int             `json:"id"`
	Rect collisions.Rect `json:"rect"`
}

// maxPlacementAttempts bounds how long we look for a non-overlapping spot
const maxPlacementAttempts = 50

// GenerateObstacles places count obstacles inside the arena margins.
// Obstacles avoid overlapping each other when a free spot can be found.
func GenerateObstacles(rng *rand.Rand, count int) []Obstacle {
	obstacles := make([]Obstacle, 0, count)
	for i := 0; i < count; i++ {
		var rect collisions.Rect
		for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
			rect = randomObstacleRect(rng)
			if !overlapsAny(rect, obstacles) {
				break
			}
		}
		obstacles = append(obstacles, Obstacle{ID: i, Rect: rect})
	}
	return obstacles
}

func randomObstacleRect(rng *rand.Rand) collisions.Rect {
	w := constants.ObstacleMinSize + rng.Float64()*(constants.ObstacleMaxSize-constants.ObstacleMinSize)
	h := constants.ObstacleMinSize + rng.Float64()*(constants.ObstacleMaxSize-constants.ObstacleMinSize)
	m := constants.ObstacleSpawnMargin
	return collisions.Rect{
		X: m + rng.Float64()*(constants.WorldWidth-2*m-w),
		Y: m + rng.Float64()*(constants.WorldHeight-2*m-h),
		W: w,
		H: h,
	}
}

func overlapsAny(rect collisions.Rect, obstacles []Obstacle) bool {
	for _, o := range obstacles {
		if collisions.RectsOverlap(rect, o.Rect) {
			return true
		}
	}
	return false
}
