package types

import (
	"math/rand"

	"github.com/cbodonnell/arena/pkg/collisions"
	"github.com/cbodonnell/arena/pkg/game/constants"
)

// World is the authoritative state of one session.
type World struct {
	// Players maps player IDs to player states
	Players     map[string]*PlayerState `json:"players"`
	Projectiles []*Projectile           `json:"projectiles"`
	// Obstacles are generated once when the world is created
	Obstacles  []Obstacle   `json:"obstacles"`
	Pickups    []*Pickup    `json:"pickups"`
	Explosives []*Explosive `json:"explosives"`

	LastUpdate        int64 `json:"lastUpdate"`
	Created           int64 `json:"created"`
	LastPickupSpawnAt int64 `json:"lastPickupSpawnAt"`

	// CollisionSpace indexes the obstacles for circle queries
	CollisionSpace *collisions.ObstacleSpace `json:"-"`
}

// NewWorld creates an empty world with freshly generated obstacles.
func NewWorld(rng *rand.Rand, now int64) *World {
	return NewWorldWithObstacles(GenerateObstacles(rng, constants.ObstacleCount), now)
}

// NewWorldWithObstacles creates an empty world around a fixed obstacle layout.
func NewWorldWithObstacles(obstacles []Obstacle, now int64) *World {
	rects := make([]collisions.Rect, 0, len(obstacles))
	for _, o := range obstacles {
		rects = append(rects, o.Rect)
	}
	return &World{
		Players:           make(map[string]*PlayerState),
		Projectiles:       make([]*Projectile, 0),
		Obstacles:         obstacles,
		Pickups:           make([]*Pickup, 0),
		Explosives:        make([]*Explosive, 0),
		LastUpdate:        now,
		Created:           now,
		LastPickupSpawnAt: now,
		CollisionSpace:    collisions.NewObstacleSpace(constants.WorldWidth, constants.WorldHeight, rects),
	}
}

func (w *World) Touch(now int64) {
	if now > w.LastUpdate {
		w.LastUpdate = now
	}
}

func (w *World) AddPlayer(state *PlayerState) {
	w.Players[state.ID] = state
}

func (w *World) RemovePlayer(id string) bool {
	if _, ok := w.Players[id]; !ok {
		return false
	}
	delete(w.Players, id)
	return true
}

func (w *World) IsEmpty() bool {
	return len(w.Players) == 0
}

// NextColor picks a palette color not used by any current player when possible.
func (w *World) NextColor() string {
	used := make(map[string]bool, len(w.Players))
	for _, p := range w.Players {
		used[p.Color] = true
	}
	for _, c := range PlayerColors {
		if !used[c] {
			return c
		}
	}
	return PlayerColors[len(w.Players)%len(PlayerColors)]
}

// FindPickup returns the index of the pickup with the given id, or -1.
func (w *World) FindPickup(id string) int {
	for i, p := range w.Pickups {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// RemovePickupAt removes the pickup at index i preserving order.
func (w *World) RemovePickupAt(i int) *Pickup {
	p := w.Pickups[i]
	w.Pickups = append(w.Pickups[:i], w.Pickups[i+1:]...)
	return p
}

// Copy returns a deep copy of the world without the collision space.
func (w *World) Copy() *World {
	c := &World{
		Players:           make(map[string]*PlayerState, len(w.Players)),
		Projectiles:       make([]*Projectile, 0, len(w.Projectiles)),
		Obstacles:         append([]Obstacle(nil), w.Obstacles...),
		Pickups:           make([]*Pickup, 0, len(w.Pickups)),
		Explosives:        make([]*Explosive, 0, len(w.Explosives)),
		LastUpdate:        w.LastUpdate,
		Created:           w.Created,
		LastPickupSpawnAt: w.LastPickupSpawnAt,
	}
	for id, p := range w.Players {
		c.Players[id] = p.Copy()
	}
	for _, p := range w.Projectiles {
		c.Projectiles = append(c.Projectiles, p.Copy())
	}
	for _, p := range w.Pickups {
		c.Pickups = append(c.Pickups, p.Copy())
	}
	for _, e := range w.Explosives {
		c.Explosives = append(c.Explosives, e.Copy())
	}
	return c
}
