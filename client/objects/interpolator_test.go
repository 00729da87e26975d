package objects

import (
	"testing"

	"github.com/cbodonnell/arena/pkg/kinematic"
	"github.com/cbodonnell/arena/pkg/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolator_followsVelocity(t *testing.T) {
	i := NewInterpolator(DefaultBlendFactor)
	i.Sync([]Sample{{ID: "pr1", Position: kinematic.Vector{X: 100, Y: 100}, Velocity: kinematic.Vector{Y: -300}}}, 1000)

	tracked, ok := i.Get("pr1")
	require.True(t, ok)
	assert.Equal(t, kinematic.Vector{X: 100, Y: 100}, tracked.Position)

	i.Advance(1100)
	tracked, _ = i.Get("pr1")
	assert.InDelta(t, 100.0, tracked.Position.X, 1e-9)
	assert.InDelta(t, 70.0, tracked.Position.Y, 1e-9)
}

func TestInterpolator_blendsCorrections(t *testing.T) {
	i := NewInterpolator(DefaultBlendFactor)
	i.Sync([]Sample{{ID: "p2", Position: kinematic.Vector{}}}, 0)
	i.Sync([]Sample{{ID: "p2", Position: kinematic.Vector{X: 100}}}, 0)

	i.Advance(16)
	tracked, _ := i.Get("p2")
	assert.InDelta(t, 12.0, tracked.Position.X, 1e-9, "one frame closes the blend fraction of the gap")

	previous := tracked.Position.X
	for frame := 2; frame <= 60; frame++ {
		i.Advance(int64(frame) * 16)
		tracked, _ = i.Get("p2")
		assert.Greater(t, tracked.Position.X, previous)
		assert.LessOrEqual(t, tracked.Position.X, 100.0)
		previous = tracked.Position.X
	}
	assert.InDelta(t, 100.0, tracked.Position.X, 0.1)
}

func TestInterpolator_blendTarget(t *testing.T) {
	tests := []struct {
		name     string
		velocity kinematic.Vector
		want     float64
	}{
		// 0 + 0.12 * (50 - 0)
		{name: "stationary target", velocity: kinematic.Vector{}, want: 6},
		// local moves to 10, the sample is carried to 60, 10 + 0.12 * (60 - 10)
		{name: "moving target", velocity: kinematic.Vector{X: 100}, want: 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := NewInterpolator(DefaultBlendFactor)
			i.Sync([]Sample{{ID: "e1", Velocity: tt.velocity}}, 0)
			i.Sync([]Sample{{ID: "e1", Position: kinematic.Vector{X: 50}, Velocity: tt.velocity}}, 0)

			i.Advance(100)
			tracked, ok := i.Get("e1")
			require.True(t, ok)
			assert.InDelta(t, tt.want, tracked.Position.X, 1e-9)
			assert.InDelta(t, 0.0, tracked.Position.Y, 1e-9)
		})
	}
}

func TestInterpolator_dropsAbsentEntities(t *testing.T) {
	i := NewInterpolator(0.15)
	i.Sync([]Sample{{ID: "a"}, {ID: "b"}, {ID: "c"}}, 0)
	require.Equal(t, 3, i.Len())

	i.Sync([]Sample{{ID: "c"}, {ID: "d"}}, 10)
	entities := i.Entities()
	require.Len(t, entities, 2)
	assert.Equal(t, "c", entities[0].ID)
	assert.Equal(t, "d", entities[1].ID)

	i.Sync(nil, 20)
	assert.Zero(t, i.Len())
	_, ok := i.Get("c")
	assert.False(t, ok)
}

func TestNewInterpolator_blendFallback(t *testing.T) {
	for _, blend := range []float64{0, -1, 1.5} {
		i := NewInterpolator(blend)
		assert.Equal(t, DefaultBlendFactor, i.blend)
	}
	assert.Equal(t, 1.0, NewInterpolator(1).blend)
}

func TestSamples(t *testing.T) {
	projectiles := ProjectileSamples([]*messages.ProjectileSnapshot{{ID: "pr1", X: 1, Y: 2, DX: 0, DY: -1, Speed: 300}})
	require.Len(t, projectiles, 1)
	assert.Equal(t, kinematic.Vector{X: 0, Y: -300}, projectiles[0].Velocity)

	explosives := ExplosiveSamples([]*messages.ExplosiveSnapshot{{ID: "ex1", X: 5, Y: 6, DX: 1, DY: 0, Speed: 200}})
	require.Len(t, explosives, 1)
	assert.Equal(t, kinematic.Vector{X: 200}, explosives[0].Velocity)
	assert.Equal(t, kinematic.Vector{X: 5, Y: 6}, explosives[0].Position)

	players := RemotePlayerSamples(map[string]*messages.PlayerSnapshot{
		"me":    {ID: "me", X: 1, Y: 1},
		"other": {ID: "other", X: 2, Y: 3, Rotation: 90},
	}, "me")
	require.Len(t, players, 1)
	assert.Equal(t, "other", players[0].ID)
	assert.Equal(t, 90.0, players[0].Rotation)
	assert.Equal(t, kinematic.Vector{}, players[0].Velocity)
}
