package types

import (
	"github.com/cbodonnell/arena/pkg/collisions"
	"github.com/cbodonnell/arena/pkg/game/constants"
	"github.com/cbodonnell/arena/pkg/kinematic"
)

type Projectile struct {
	ID       string           `json:"id"`
	Position kinematic.Vector `json:"position"`
	// Direction is a unit vector
	Direction kinematic.Vector `json:"direction"`
	OwnerID   string           `json:"ownerId"`
	Damage    int              `json:"damage"`
	Speed     float64          `json:"speed"`
	CreatedAt int64            `json:"createdAt"`
}

func NewProjectile(id string, owner *PlayerState, now int64) *Projectile {
	return &Projectile{
		ID:        id,
		Position:  owner.Position,
		Direction: kinematic.Direction(owner.Rotation),
		OwnerID:   owner.ID,
		Damage:    constants.ProjectileDamage,
		Speed:     constants.ProjectileSpeed,
		CreatedAt: now,
	}
}

func (p *Projectile) Age(now int64) int64 {
	return now - p.CreatedAt
}

func (p *Projectile) Expired(now int64) bool {
	return p.Age(now) > constants.ProjectileLifetime
}

// Advance moves the projectile along its direction for deltaTime seconds.
func (p *Projectile) Advance(deltaTime float64) {
	p.Position = p.Position.Add(kinematic.Displacement(p.Velocity(), deltaTime))
}

func (p *Projectile) Velocity() kinematic.Vector {
	return p.Direction.Scale(p.Speed)
}

func (p *Projectile) Circle() collisions.Circle {
	return collisions.Circle{Center: p.Position, Radius: constants.ProjectileRadius}
}

func (p *Projectile) Copy() *Projectile {
	c := *p
	return &c
}
