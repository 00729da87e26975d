package network

import (
	"context"
	"math/rand"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cbodonnell/arena/pkg/api"
	"github.com/cbodonnell/arena/pkg/game"
	"github.com/cbodonnell/arena/pkg/messages"
	"github.com/cbodonnell/arena/pkg/queue"
	"github.com/cbodonnell/arena/pkg/repositories"
	"github.com/cbodonnell/arena/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()
	engine := game.NewEngine(game.NewEngineOptions{Rand: rand.New(rand.NewSource(7))})
	gm := game.NewGameManager(game.NewGameManagerOptions{
		Store:      state.NewInMemorySessionStore(state.NewInMemorySessionStoreOptions{NewWorld: engine.NewWorld}),
		Engine:     engine,
		EventQueue: queue.NewInMemoryQueue(100),
	})
	server := httptest.NewServer(api.NewHandler(api.NewAPIServerOptions{
		GameManager: gm,
		Repository:  repositories.NewMemoryRepository(),
	}))
	t.Cleanup(server.Close)
	return server
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestHTTPClient_sessionFlow(t *testing.T) {
	for _, msgpack := range []bool{false, true} {
		name := "json"
		if msgpack {
			name = "msgpack"
		}
		t.Run(name, func(t *testing.T) {
			server := newTestAPI(t)
			client, err := NewHTTPClient(NewHTTPClientOptions{BaseURL: server.URL, Msgpack: msgpack})
			require.NoError(t, err)
			ctx := context.Background()

			joined, err := client.Join(ctx, "ABC123")
			require.NoError(t, err)
			assert.Equal(t, "ABC123", joined.Code)
			assert.Len(t, joined.Obstacles, 10)
			assert.Empty(t, joined.Players)

			move, err := client.SubmitIntent(ctx, "ABC123", &messages.Intent{
				Kind:     messages.IntentKindMove,
				PlayerID: "p1",
				Rotation: floatPtr(90),
				Sequence: 1,
			})
			require.NoError(t, err)
			assert.True(t, move.Success)
			assert.True(t, move.Accepted)
			require.Contains(t, move.World.Players, "p1")

			shot, err := client.SubmitIntent(ctx, "ABC123", &messages.Intent{
				Kind:     messages.IntentKindShoot,
				PlayerID: "p1",
			})
			require.NoError(t, err)
			assert.True(t, shot.Accepted)

			projectiles, err := client.Projectiles(ctx, "ABC123")
			require.NoError(t, err)
			require.Len(t, projectiles.Projectiles, 1)
			assert.Equal(t, "p1", projectiles.Projectiles[0].OwnerID)

			explosives, err := client.Explosives(ctx, "ABC123")
			require.NoError(t, err)
			assert.Empty(t, explosives.Explosives)

			world, err := client.World(ctx, "ABC123")
			require.NoError(t, err)
			assert.Equal(t, 3, world.Players["p1"].Health)

			left, err := client.Leave(ctx, "ABC123", "p1")
			require.NoError(t, err)
			assert.True(t, left.Success)
			assert.True(t, left.Removed)

			world, err = client.World(ctx, "ABC123")
			require.NoError(t, err)
			assert.Empty(t, world.Players)
			assert.Empty(t, world.Obstacles)
		})
	}
}

func TestHTTPClient_unexpectedStatus(t *testing.T) {
	server := newTestAPI(t)
	client, err := NewHTTPClient(NewHTTPClientOptions{BaseURL: server.URL + "/"})
	require.NoError(t, err)

	_, err = client.World(context.Background(), "ABC")
	require.Error(t, err)
	assert.True(t, IsUnexpectedStatus(err))

	_, err = client.SubmitIntent(context.Background(), "ABC123", &messages.Intent{Kind: messages.IntentKindMove})
	require.Error(t, err)
	assert.True(t, IsUnexpectedStatus(err))
	assert.Contains(t, err.Error(), "400")
}

func TestHTTPClient_cancelled(t *testing.T) {
	server := newTestAPI(t)
	client, err := NewHTTPClient(NewHTTPClientOptions{BaseURL: server.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()

	_, err = client.World(ctx, "ABC123")
	assert.Error(t, err)
	assert.False(t, IsUnexpectedStatus(err))
}

func TestNewHTTPClient(t *testing.T) {
	tests := []struct {
		baseURL string
		wantErr bool
	}{
		{baseURL: ""},
		{baseURL: "http://localhost:8080"},
		{baseURL: "https://arena.example/"},
		{baseURL: "ftp://arena.example", wantErr: true},
		{baseURL: "://bad", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.baseURL, func(t *testing.T) {
			_, err := NewHTTPClient(NewHTTPClientOptions{BaseURL: tt.baseURL})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
