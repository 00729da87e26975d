package types

import (
	"github.com/cbodonnell/arena/pkg/collisions"
	"github.com/cbodonnell/arena/pkg/game/constants"
	"github.com/cbodonnell/arena/pkg/kinematic"
)

type Explosive struct {
	ID         string           `json:"id"`
	Position   kinematic.Vector `json:"position"`
	Direction  kinematic.Vector `json:"direction"`
	OwnerID    string           `json:"ownerId"`
	Speed      float64          `json:"speed"`
	CreatedAt  int64            `json:"createdAt"`
	DetonateAt int64            `json:"detonateAt"`
}

func NewExplosive(id string, owner *PlayerState, now int64) *Explosive {
	return &Explosive{
		ID:         id,
		Position:   owner.Position,
		Direction:  kinematic.Direction(owner.Rotation),
		OwnerID:    owner.ID,
		Speed:      constants.ExplosiveSpeed,
		CreatedAt:  now,
		DetonateAt: now + constants.ExplosiveFuse,
	}
}

// FuseElapsed reports whether the explosive is due to detonate at now.
func (e *Explosive) FuseElapsed(now int64) bool {
	return now >= e.DetonateAt
}

func (e *Explosive) Advance(deltaTime float64) {
	e.Position = e.Position.Add(kinematic.Displacement(e.Velocity(), deltaTime))
}

func (e *Explosive) Velocity() kinematic.Vector {
	return e.Direction.Scale(e.Speed)
}

func (e *Explosive) Circle() collisions.Circle {
	return collisions.Circle{Center: e.Position, Radius: constants.ExplosiveRadius}
}

func (e *Explosive) Copy() *Explosive {
	c := *e
	return &c
}
