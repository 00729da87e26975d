package types

import (
	"math/rand"
	"testing"

	"github.com/cbodonnell/arena/pkg/game/constants"
	"github.com/cbodonnell/arena/pkg/kinematic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorld(t *testing.T) {
	w := NewWorld(rand.New(rand.NewSource(1)), 1000)

	require.Len(t, w.Obstacles, constants.ObstacleCount)
	assert.Equal(t, constants.ObstacleCount, w.CollisionSpace.Len())
	assert.Equal(t, int64(1000), w.Created)
	assert.Equal(t, int64(1000), w.LastUpdate)
	assert.Equal(t, int64(1000), w.LastPickupSpawnAt)
	assert.True(t, w.IsEmpty())

	for _, o := range w.Obstacles {
		assert.GreaterOrEqual(t, o.Rect.X, constants.ObstacleSpawnMargin)
		assert.GreaterOrEqual(t, o.Rect.Y, constants.ObstacleSpawnMargin)
		assert.LessOrEqual(t, o.Rect.X+o.Rect.W, constants.WorldWidth-constants.ObstacleSpawnMargin)
		assert.LessOrEqual(t, o.Rect.Y+o.Rect.H, constants.WorldHeight-constants.ObstacleSpawnMargin)
	}
}

func TestPlayerState_TakeDamage(t *testing.T) {
	p := NewPlayerState("a", kinematic.Vector{}, "#fff", 0)

	assert.Equal(t, 2, p.TakeDamage(2, 10))
	assert.Equal(t, 1, p.Health)
	assert.Equal(t, HitMarker{Hit: true, At: 10}, p.Effects.LastHit)

	// health never goes below zero
	assert.Equal(t, 1, p.TakeDamage(2, 20))
	assert.Equal(t, 0, p.Health)
	assert.False(t, p.IsAlive())

	// dead players take no further damage
	assert.Equal(t, 0, p.TakeDamage(1, 30))
	assert.Equal(t, int64(20), p.Effects.LastHit.At)
}

func TestPlayerState_Cooldowns(t *testing.T) {
	p := NewPlayerState("a", kinematic.Vector{}, "#fff", 0)
	p.LastShotAt = 1000
	p.LastThrowAt = 1000

	assert.False(t, p.CanShoot(2999))
	assert.True(t, p.CanShoot(3000))
	assert.False(t, p.CanThrow(1999))
	assert.True(t, p.CanThrow(2000))

	p.ExplosiveCount = 0
	assert.False(t, p.CanThrow(5000))
}

func TestPickup_Apply(t *testing.T) {
	p := NewPlayerState("a", kinematic.Vector{}, "#fff", 0)
	p.ExplosiveCount = constants.PlayerMaxExplosives

	NewPickup("r", PickupKindExplosiveRefill, kinematic.Vector{}, 0).Apply(p, 100)
	assert.Equal(t, constants.PlayerMaxExplosives, p.ExplosiveCount)

	NewPickup("i", PickupKindInvisibility, kinematic.Vector{}, 0).Apply(p, 100)
	assert.True(t, p.IsInvisible(100))
	assert.True(t, p.IsInvisible(100+constants.InvisibilityDuration-1))
	assert.False(t, p.IsInvisible(100+constants.InvisibilityDuration))
}

func TestTimedEffect_zeroValue(t *testing.T) {
	var e TimedEffect
	assert.False(t, e.ActiveAt(0))
	assert.False(t, e.ActiveAt(-1))
}

func TestWorld_Copy(t *testing.T) {
	w := NewWorld(rand.New(rand.NewSource(2)), 0)
	w.AddPlayer(NewPlayerState("a", kinematic.Vector{X: 1, Y: 2}, "#fff", 0))

	c := w.Copy()
	c.Players["a"].Health = 0

	assert.Equal(t, constants.PlayerMaxHealth, w.Players["a"].Health)
	assert.Nil(t, c.CollisionSpace)
	assert.Equal(t, w.Obstacles, c.Obstacles)
}
