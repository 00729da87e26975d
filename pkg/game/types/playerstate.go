package types

import (
	"github.com/cbodonnell/arena/pkg/collisions"
	"github.com/cbodonnell/arena/pkg/game/constants"
	"github.com/cbodonnell/arena/pkg/kinematic"
)

// PlayerColors is the palette players are assigned from in join order.
var PlayerColors = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8",
	"#f58231", "#911eb4", "#42d4f4", "#f032e6",
}

type PlayerState struct {
	ID       string           `json:"id"`
	Position kinematic.Vector `json:"position"`
	// Rotation is in degrees, 0 faces up
	Rotation       float64 `json:"rotation"`
	Color          string  `json:"color"`
	Health         int     `json:"health"`
	LastShotAt     int64   `json:"lastShotAt"`
	LastThrowAt    int64   `json:"lastThrowAt"`
	ExplosiveCount int     `json:"explosiveCount"`
	// Sequence is the last movement sequence number reported by the client
	Sequence   uint64  `json:"sequence"`
	LastUpdate int64   `json:"lastUpdate"`
	Effects    Effects `json:"effects"`
}

// NewPlayerState returns a player with full health and the starting inventory.
func NewPlayerState(id string, position kinematic.Vector, color string, now int64) *PlayerState {
	return &PlayerState{
		ID:             id,
		Position:       position,
		Color:          color,
		Health:         constants.PlayerMaxHealth,
		ExplosiveCount: constants.PlayerStartingExplosives,
		LastUpdate:     now,
	}
}

func (p *PlayerState) IsAlive() bool {
	return p.Health > 0
}

func (p *PlayerState) IsInvisible(now int64) bool {
	return p.Effects.Invisibility.ActiveAt(now)
}

// CanShoot reports whether the shoot cooldown has elapsed at now.
func (p *PlayerState) CanShoot(now int64) bool {
	return now-p.LastShotAt >= constants.PlayerShootCooldown
}

// CanThrow reports whether the player holds an explosive and the throw cooldown has elapsed.
func (p *PlayerState) CanThrow(now int64) bool {
	return p.ExplosiveCount > 0 && now-p.LastThrowAt >= constants.PlayerThrowCooldown
}

// TakeDamage reduces health without going below zero and returns the damage actually applied.
func (p *PlayerState) TakeDamage(damage int, now int64) int {
	if damage <= 0 || !p.IsAlive() {
		return 0
	}
	if damage > p.Health {
		damage = p.Health
	}
	p.Health -= damage
	p.Effects.LastHit = HitMarker{Hit: true, At: now}
	p.LastUpdate = now
	return damage
}

// AddExplosives adds to the inventory, capped at the maximum.
func (p *PlayerState) AddExplosives(n int) {
	p.ExplosiveCount += n
	if p.ExplosiveCount > constants.PlayerMaxExplosives {
		p.ExplosiveCount = constants.PlayerMaxExplosives
	}
	if p.ExplosiveCount < 0 {
		p.ExplosiveCount = 0
	}
}

func (p *PlayerState) Circle() collisions.Circle {
	return collisions.Circle{Center: p.Position, Radius: constants.PlayerRadius}
}

// Copy returns a copy of the player state
func (p *PlayerState) Copy() *PlayerState {
	c := *p
	return &c
}
