package types

import (
	"github.com/cbodonnell/arena/pkg/collisions"
	"github.com/cbodonnell/arena/pkg/game/constants"
	"github.com/cbodonnell/arena/pkg/kinematic"
)

type PickupKind string

const (
	PickupKindInvisibility    PickupKind = "invisibility"
	PickupKindExplosiveRefill PickupKind = "explosive-refill"
)

// PickupKinds lists every kind a pickup can spawn as.
var PickupKinds = []PickupKind{PickupKindInvisibility, PickupKindExplosiveRefill}

func (k PickupKind) Valid() bool {
	return k == PickupKindInvisibility || k == PickupKindExplosiveRefill
}

type Pickup struct {
	ID        string           `json:"id"`
	Position  kinematic.Vector `json:"position"`
	Kind      PickupKind       `json:"kind"`
	SpawnedAt int64            `json:"spawnedAt"`
	// Duration is how long the effect lasts once collected, zero for instant effects
	Duration int64 `json:"duration,omitempty"`
}

func NewPickup(id string, kind PickupKind, position kinematic.Vector, now int64) *Pickup {
	p := &Pickup{
		ID:        id,
		Position:  position,
		Kind:      kind,
		SpawnedAt: now,
	}
	if kind == PickupKindInvisibility {
		p.Duration = constants.InvisibilityDuration
	}
	return p
}

// Apply grants the pickup's effect to the player.
func (p *Pickup) Apply(player *PlayerState, now int64) {
	switch p.Kind {
	case PickupKindInvisibility:
		duration := p.Duration
		if duration <= 0 {
			duration = constants.InvisibilityDuration
		}
		player.Effects.Invisibility = NewTimedEffect(now + duration)
	case PickupKindExplosiveRefill:
		player.AddExplosives(1)
	}
	player.LastUpdate = now
}

// Touches reports whether a player is within collection range.
func (p *Pickup) Touches(player *PlayerState) bool {
	return collisions.CirclesIntersect(
		collisions.Circle{Center: p.Position, Radius: constants.PickupRadius},
		player.Circle(),
	)
}

func (p *Pickup) Copy() *Pickup {
	c := *p
	return &c
}
