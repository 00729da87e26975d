package state

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	gametypes "github.com/cbodonnell/arena/pkg/game/types"
	"github.com/cbodonnell/arena/pkg/kinematic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	lock sync.Mutex
	now  time.Time
}

func (c *testClock) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(idleTimeout time.Duration) (*InMemorySessionStore, *testClock, *int) {
	clock := &testClock{now: time.UnixMilli(1_000_000)}
	created := 0
	store := NewInMemorySessionStore(NewInMemorySessionStoreOptions{
		NewWorld: func(now int64) *gametypes.World {
			created++
			return gametypes.NewWorldWithObstacles([]gametypes.Obstacle{{ID: created}}, now)
		},
		Now:         clock.Now,
		IdleTimeout: idleTimeout,
	})
	return store, clock, &created
}

func addPlayer(id string, now int64) UpdateFunc {
	return func(w *gametypes.World) (bool, error) {
		w.AddPlayer(gametypes.NewPlayerState(id, kinematic.Vector{}, "#fff", now))
		w.Touch(now)
		return false, nil
	}
}

func TestInMemorySessionStore_GetUnknown(t *testing.T) {
	store, _, _ := newTestStore(0)

	_, err := store.Get(context.Background(), "ABC123")
	assert.True(t, IsSessionNotFound(err))
	assert.Equal(t, 0, store.Len())

	err = store.UpdateExisting(context.Background(), "ABC123", func(w *gametypes.World) (bool, error) {
		t.Fatal("must not run")
		return false, nil
	})
	assert.True(t, IsSessionNotFound(err))
}

func TestInMemorySessionStore_UpdateCreates(t *testing.T) {
	ctx := context.Background()
	store, clock, created := newTestStore(0)

	require.NoError(t, store.Update(ctx, "ABC123", addPlayer("a", clock.Now().UnixMilli())))
	require.NoError(t, store.Update(ctx, "ABC123", addPlayer("b", clock.Now().UnixMilli())))
	assert.Equal(t, 1, *created)

	world, err := store.Get(ctx, "ABC123")
	require.NoError(t, err)
	assert.Len(t, world.Players, 2)

	// Get returns a copy
	delete(world.Players, "a")
	world, err = store.Get(ctx, "ABC123")
	require.NoError(t, err)
	assert.Len(t, world.Players, 2)
}

func TestInMemorySessionStore_RemoveRecreatesFreshWorld(t *testing.T) {
	ctx := context.Background()
	store, clock, created := newTestStore(0)

	require.NoError(t, store.Update(ctx, "ABC123", addPlayer("a", clock.Now().UnixMilli())))
	require.NoError(t, store.Update(ctx, "ABC123", func(w *gametypes.World) (bool, error) {
		w.RemovePlayer("a")
		return w.IsEmpty(), nil
	}))

	_, err := store.Get(ctx, "ABC123")
	assert.True(t, IsSessionNotFound(err))

	require.NoError(t, store.Update(ctx, "ABC123", addPlayer("b", clock.Now().UnixMilli())))
	world, err := store.Get(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, 2, *created)
	assert.Equal(t, 2, world.Obstacles[0].ID)
	assert.NotContains(t, world.Players, "a")
}

func TestInMemorySessionStore_Delete(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(0)

	_, err := store.Create(ctx, "ABC123")
	require.NoError(t, err)
	assert.True(t, store.Delete(ctx, "ABC123"))
	assert.False(t, store.Delete(ctx, "ABC123"))
	assert.Equal(t, 0, store.Len())
}

func TestInMemorySessionStore_EvictIdle(t *testing.T) {
	ctx := context.Background()
	store, clock, _ := newTestStore(0)

	require.NoError(t, store.Update(ctx, "OLD111", addPlayer("a", clock.Now().UnixMilli())))
	clock.Advance(10 * time.Minute)
	require.NoError(t, store.Update(ctx, "NEW222", addPlayer("b", clock.Now().UnixMilli())))
	clock.Advance(5*time.Minute + time.Millisecond)

	evicted := store.EvictIdle(ctx, clock.Now().UnixMilli(), 15*time.Minute)
	assert.Equal(t, []string{"OLD111"}, evicted)
	assert.Equal(t, 1, store.Len())

	_, err := store.Get(ctx, "OLD111")
	assert.True(t, IsSessionNotFound(err))
	_, err = store.Get(ctx, "NEW222")
	assert.NoError(t, err)
}

func TestInMemorySessionStore_ExpiresOnAccess(t *testing.T) {
	ctx := context.Background()
	store, clock, created := newTestStore(15 * time.Minute)

	require.NoError(t, store.Update(ctx, "ABC123", addPlayer("a", clock.Now().UnixMilli())))
	clock.Advance(15*time.Minute + time.Millisecond)

	_, err := store.Get(ctx, "ABC123")
	assert.True(t, IsSessionNotFound(err))

	require.NoError(t, store.Update(ctx, "ABC123", addPlayer("b", clock.Now().UnixMilli())))
	world, err := store.Get(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, 2, *created)
	assert.NotContains(t, world.Players, "a")
}

func TestInMemorySessionStore_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	store, clock, _ := newTestStore(0)
	now := clock.Now().UnixMilli()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		code := fmt.Sprintf("CODE%02d", i%2)
		for j := 0; j < 50; j++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				assert.NoError(t, store.Update(ctx, code, addPlayer(id, now)))
			}(fmt.Sprintf("p%d-%d", i, j))
		}
	}
	wg.Wait()

	for _, code := range []string{"CODE00", "CODE01"} {
		world, err := store.Get(ctx, code)
		require.NoError(t, err)
		assert.Len(t, world.Players, 200)
	}
}

func TestInMemorySessionStore_CancelledContext(t *testing.T) {
	store, _, _ := newTestStore(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Update(ctx, "ABC123", addPlayer("a", 0))
	assert.ErrorIs(t, err, context.Canceled)
}
