package objects

import (
	"testing"
	"time"

	"github.com/cbodonnell/arena/client/input"
	"github.com/cbodonnell/arena/pkg/game/constants"
	"github.com/cbodonnell/arena/pkg/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 {
	return &v
}

// placedPlayer returns a player the server has placed at (x, y)
func placedPlayer(t *testing.T, x, y float64) *LocalPlayer {
	t.Helper()
	p := NewLocalPlayer("p1", DefaultReconcileOptions())
	require.True(t, p.Reconcile(&messages.PlayerSnapshot{ID: "p1", X: x, Y: y, Health: 3, ExplosiveCount: 1}, 0))
	return p
}

func TestLocalPlayer_Update(t *testing.T) {
	p := placedPlayer(t, 400, 300)

	assert.False(t, p.Update(input.State{}, 0.1, 100))
	assert.Zero(t, p.Sequence())

	assert.True(t, p.Update(input.State{Right: true}, 0.1, 200))
	assert.InDelta(t, 420.0, p.State.X, 1e-9)
	assert.InDelta(t, 300.0, p.State.Y, 1e-9)
	assert.Equal(t, uint64(1), p.Sequence())

	assert.True(t, p.Update(input.State{}.WithAim(450), 0.1, 300))
	assert.Equal(t, 90.0, p.State.Rotation)
	assert.Equal(t, uint64(2), p.Sequence())
	assert.InDelta(t, 420.0, p.State.X, 1e-9)
}

func TestLocalPlayer_pendingInputsBounded(t *testing.T) {
	p := placedPlayer(t, 400, 300)
	for i := 0; i < 15; i++ {
		p.Update(input.State{Down: true}, 0.01, int64(i))
	}
	pending := p.PendingInputs()
	require.Len(t, pending, MaxPendingInputs)
	assert.Equal(t, uint64(6), pending[0].Sequence)
	assert.Equal(t, uint64(15), pending[len(pending)-1].Sequence)
}

func TestLocalPlayer_staysInBounds(t *testing.T) {
	p := placedPlayer(t, 400, 300)
	for i := 0; i < 30; i++ {
		p.Update(input.State{Left: true, Up: true}, 0.1, int64(i))
	}
	assert.Equal(t, constants.PlayerRadius, p.State.X)
	assert.Equal(t, constants.PlayerRadius, p.State.Y)
}

func TestLocalPlayer_obstacles(t *testing.T) {
	p := placedPlayer(t, 400, 300)
	p.SetObstacles([]*messages.ObstacleSnapshot{{ID: 0, X: 430, Y: 250, Width: 40, Height: 100}})

	p.Update(input.State{Right: true}, 0.1, 100)
	assert.InDelta(t, 400.0, p.State.X, 1e-9, "blocked by the obstacle")

	// sliding: the blocked axis is dropped, the free one is kept
	p.Update(input.State{Right: true, Down: true}, 0.1, 200)
	assert.InDelta(t, 400.0, p.State.X, 1e-9)
	assert.Greater(t, p.State.Y, 300.0)
}

func TestLocalPlayer_deadPlayerDoesNotMove(t *testing.T) {
	p := placedPlayer(t, 400, 300)
	p.Reconcile(&messages.PlayerSnapshot{ID: "p1", X: 400, Y: 300, Health: 0}, 10)

	assert.False(t, p.Update(input.State{Right: true}, 0.1, 20))
	assert.Equal(t, 400.0, p.State.X)
	assert.False(t, p.CanShoot(10_000))
}

func TestLocalPlayer_Reconcile(t *testing.T) {
	t.Run("server owned fields always apply", func(t *testing.T) {
		p := placedPlayer(t, 400, 300)
		p.State.LastShotAt = 5000
		p.Update(input.State{Right: true}, 0.1, 1000)

		adopted := p.Reconcile(&messages.PlayerSnapshot{
			ID:             "p1",
			X:              10,
			Y:              10,
			Color:          "#3cb44b",
			Health:         1,
			HitAt:          int64Ptr(900),
			InvisibleUntil: int64Ptr(9000),
			ExplosiveCount: 3,
			LastThrowAt:    700,
			LastShotAt:     4000,
		}, 1500)

		assert.False(t, adopted)
		assert.InDelta(t, 420.0, p.State.X, 1e-9, "recent prediction is kept")
		assert.Equal(t, 1, p.State.Health)
		assert.Equal(t, "#3cb44b", p.State.Color)
		assert.Equal(t, int64(900), *p.State.HitAt)
		assert.Equal(t, 3, p.State.ExplosiveCount)
		assert.Equal(t, int64(700), p.State.LastThrowAt)
		assert.Equal(t, int64(5000), p.State.LastShotAt, "the later shot wins")
		assert.True(t, p.IsInvisible(8999))
		assert.False(t, p.IsInvisible(9000))

		p.Reconcile(&messages.PlayerSnapshot{ID: "p1", Health: 1, LastShotAt: 6000}, 1600)
		assert.Equal(t, int64(6000), p.State.LastShotAt)
		assert.Nil(t, p.State.HitAt)
	})

	t.Run("stale prediction adopts the server and replays", func(t *testing.T) {
		p := placedPlayer(t, 100, 100)
		p.Update(input.State{Right: true}, 0.1, 1000)
		p.Update(input.State{Right: true}, 0.1, 1100)
		require.InDelta(t, 140.0, p.State.X, 1e-9)

		adopted := p.Reconcile(&messages.PlayerSnapshot{ID: "p1", X: 110, Y: 100, Rotation: 0, Health: 3, Sequence: 1}, 1100+DefaultStaleAfter.Milliseconds())
		assert.True(t, adopted)
		assert.InDelta(t, 130.0, p.State.X, 1e-9, "input 2 replayed on top of the server position")
		assert.Equal(t, uint64(1), p.AckedSequence())
	})

	t.Run("tunable window", func(t *testing.T) {
		p := NewLocalPlayer("p1", ReconcileOptions{StaleAfter: 50 * time.Millisecond})
		p.Reconcile(&messages.PlayerSnapshot{ID: "p1", X: 100, Y: 100, Health: 3}, 0)
		p.Update(input.State{Right: true}, 0.1, 1000)
		assert.False(t, p.Reconcile(&messages.PlayerSnapshot{ID: "p1", X: 100, Y: 100, Health: 3, Sequence: 1}, 1049))
		assert.True(t, p.Reconcile(&messages.PlayerSnapshot{ID: "p1", X: 100, Y: 100, Health: 3, Sequence: 1}, 1050))
		assert.Equal(t, 100.0, p.State.X)
	})

	t.Run("nil snapshot", func(t *testing.T) {
		p := NewLocalPlayer("p1", DefaultReconcileOptions())
		assert.False(t, p.Reconcile(nil, 0))
		assert.False(t, p.Placed())
	})
}

func TestLocalPlayer_MoveIntent(t *testing.T) {
	p := NewLocalPlayer("p1", DefaultReconcileOptions())
	intent := p.MoveIntent()
	assert.Equal(t, messages.IntentKindMove, intent.Kind)
	assert.Nil(t, intent.X, "the server picks the spawn")
	assert.Nil(t, intent.Y)

	p.Reconcile(&messages.PlayerSnapshot{ID: "p1", X: 50, Y: 60, Health: 3}, 0)
	p.Update(input.State{}.WithAim(180), 0.1, 10)
	intent = p.MoveIntent()
	require.NotNil(t, intent.X)
	assert.Equal(t, 50.0, *intent.X)
	assert.Equal(t, 60.0, *intent.Y)
	assert.Equal(t, 180.0, *intent.Rotation)
	assert.Equal(t, uint64(1), intent.Sequence)

	p.Reset()
	assert.False(t, p.Placed())
	assert.Nil(t, p.MoveIntent().X)
	assert.Empty(t, p.PendingInputs())
}

func TestLocalPlayer_shooting(t *testing.T) {
	p := placedPlayer(t, 400, 300)

	intent, ok := p.ShotIntent(2000)
	require.True(t, ok)
	assert.Equal(t, messages.IntentKindShoot, intent.Kind)
	assert.Equal(t, 400.0, *intent.X)
	assert.Zero(t, p.State.LastShotAt, "shots are not predicted")

	p.ConfirmShot(&messages.IntentResponse{Success: true, Accepted: false}, 2000)
	assert.Zero(t, p.State.LastShotAt)

	p.ConfirmShot(&messages.IntentResponse{
		Success:  true,
		Accepted: true,
		World: &messages.WorldSnapshot{Players: map[string]*messages.PlayerSnapshot{
			"p1": {ID: "p1", LastShotAt: 2010},
		}},
	}, 2050)
	assert.Equal(t, int64(2010), p.State.LastShotAt)

	_, ok = p.ShotIntent(3000)
	assert.False(t, ok)
	assert.Equal(t, int64(1010), p.ShotCooldownRemaining(3000))
	_, ok = p.ShotIntent(4010)
	assert.True(t, ok)
	assert.Zero(t, p.ShotCooldownRemaining(5000))

	p.ConfirmShot(&messages.IntentResponse{Success: true, Accepted: true}, 4020)
	assert.Equal(t, int64(4020), p.State.LastShotAt)
}

func TestLocalPlayer_throwing(t *testing.T) {
	p := placedPlayer(t, 400, 300)

	intent, ok := p.ThrowIntent(5000)
	require.True(t, ok)
	assert.Equal(t, messages.IntentKindThrow, intent.Kind)

	p.Reconcile(&messages.PlayerSnapshot{ID: "p1", X: 400, Y: 300, Health: 3, ExplosiveCount: 0, LastThrowAt: 5000}, 5100)
	_, ok = p.ThrowIntent(9000)
	assert.False(t, ok, "no explosives left")

	p.Reconcile(&messages.PlayerSnapshot{ID: "p1", X: 400, Y: 300, Health: 3, ExplosiveCount: 1, LastThrowAt: 5000}, 5200)
	_, ok = p.ThrowIntent(5500)
	assert.False(t, ok, "cooldown")
	_, ok = p.ThrowIntent(6000)
	assert.True(t, ok)
}
