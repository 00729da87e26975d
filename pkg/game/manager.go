package game

import (
	"context"
	"fmt"
	"time"

	"github.com/cbodonnell/arena/pkg/game/types"
	"github.com/cbodonnell/arena/pkg/log"
	"github.com/cbodonnell/arena/pkg/messages"
	"github.com/cbodonnell/arena/pkg/queue"
	"github.com/cbodonnell/arena/pkg/state"
)

// GameManager serves client requests against the session store.
// Every request that touches an existing world first advances it by one step.
type GameManager struct {
	store             state.SessionStore
	engine            *Engine
	eventQueue        queue.Queue
	playerIdleTimeout time.Duration
	now               func() time.Time
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	Store  state.SessionStore
	Engine *Engine
	// EventQueue receives the events of every world, nil discards them
	EventQueue        queue.Queue
	PlayerIdleTimeout time.Duration
	// Now is the server clock, defaults to time.Now
	Now func() time.Time
}

func NewGameManager(opts NewGameManagerOptions) *GameManager {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &GameManager{
		store:             opts.Store,
		engine:            opts.Engine,
		eventQueue:        opts.EventQueue,
		playerIdleTimeout: opts.PlayerIdleTimeout,
		now:               now,
	}
}

// Sessions returns the number of live sessions.
func (gm *GameManager) Sessions() int {
	return gm.store.Len()
}

// Join returns the world of a session, creating it if needed.
func (gm *GameManager) Join(ctx context.Context, code string) (*messages.WorldSnapshot, error) {
	var snapshot *messages.WorldSnapshot
	var events []types.Event
	err := gm.store.Update(ctx, code, func(w *types.World) (bool, error) {
		now := gm.now().UnixMilli()
		events = gm.advance(w, now)
		snapshot = WorldSnapshotFromState(code, w, now)
		return false, nil
	})
	gm.publish(code, events)
	if err != nil {
		return nil, fmt.Errorf("failed to join session %s: %w", code, err)
	}
	return snapshot, nil
}

// World returns the world of a session, or an empty snapshot for unknown codes.
func (gm *GameManager) World(ctx context.Context, code string) (*messages.WorldSnapshot, error) {
	var snapshot *messages.WorldSnapshot
	err := gm.read(ctx, code, func(w *types.World, now int64) {
		snapshot = WorldSnapshotFromState(code, w, now)
	})
	if state.IsSessionNotFound(err) {
		return messages.EmptyWorldSnapshot(code, gm.now().UnixMilli()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", code, err)
	}
	return snapshot, nil
}

// Projectiles returns the projectiles of a session, or none for unknown codes.
func (gm *GameManager) Projectiles(ctx context.Context, code string) (*messages.ProjectilesResponse, error) {
	response := &messages.ProjectilesResponse{Projectiles: []*messages.ProjectileSnapshot{}}
	err := gm.read(ctx, code, func(w *types.World, now int64) {
		response.Projectiles = ProjectileSnapshotsFromState(w)
		response.Timestamp = now
	})
	if state.IsSessionNotFound(err) {
		response.Timestamp = gm.now().UnixMilli()
		return response, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get projectiles of session %s: %w", code, err)
	}
	return response, nil
}

// Explosives returns the explosives of a session, or none for unknown codes.
func (gm *GameManager) Explosives(ctx context.Context, code string) (*messages.ExplosivesResponse, error) {
	response := &messages.ExplosivesResponse{Explosives: []*messages.ExplosiveSnapshot{}}
	err := gm.read(ctx, code, func(w *types.World, now int64) {
		response.Explosives = ExplosiveSnapshotsFromState(w)
		response.Timestamp = now
	})
	if state.IsSessionNotFound(err) {
		response.Timestamp = gm.now().UnixMilli()
		return response, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get explosives of session %s: %w", code, err)
	}
	return response, nil
}

// SubmitIntent applies a client intent, creating the session if needed.
// Malformed intents return ErrInvalidAction without touching the store.
func (gm *GameManager) SubmitIntent(ctx context.Context, code string, intent *messages.Intent) (*messages.IntentResponse, error) {
	action, err := ActionFromIntent(intent)
	if err != nil {
		return nil, err
	}

	response := &messages.IntentResponse{Success: true}
	var events []types.Event
	err = gm.store.Update(ctx, code, func(w *types.World) (bool, error) {
		now := gm.now().UnixMilli()
		events = gm.engine.Step(w, now)
		result, err := gm.engine.Apply(w, action, now)
		if err != nil {
			return false, err
		}
		events = append(events, result.Events...)
		response.Accepted = result.Accepted
		response.World = WorldSnapshotFromState(code, w, now)
		return false, nil
	})
	gm.publish(code, events)
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Leave removes a player and deletes the session once nobody is left.
// Leaving an unknown session is not an error.
func (gm *GameManager) Leave(ctx context.Context, code string, playerID string) (bool, error) {
	if playerID == "" {
		return false, &ErrInvalidAction{Reason: "missing player id"}
	}

	removed := false
	var events []types.Event
	err := gm.store.UpdateExisting(ctx, code, func(w *types.World) (bool, error) {
		now := gm.now().UnixMilli()
		events = gm.engine.Step(w, now)
		var left []types.Event
		removed, left = gm.engine.Leave(w, playerID, now)
		events = append(events, left...)
		return removed && w.IsEmpty(), nil
	})
	gm.publish(code, events)
	if state.IsSessionNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to leave session %s: %w", code, err)
	}
	if removed {
		log.Debug("Player %s left session %s", playerID, code)
	}
	return removed, nil
}

// read advances an existing world, prunes idle players and hands it to fn.
// The session is deleted if pruning emptied it.
func (gm *GameManager) read(ctx context.Context, code string, fn func(w *types.World, now int64)) error {
	var events []types.Event
	err := gm.store.UpdateExisting(ctx, code, func(w *types.World) (bool, error) {
		now := gm.now().UnixMilli()
		hadPlayers := !w.IsEmpty()
		events = gm.advance(w, now)
		fn(w, now)
		return hadPlayers && w.IsEmpty(), nil
	})
	gm.publish(code, events)
	return err
}

func (gm *GameManager) advance(w *types.World, now int64) []types.Event {
	events := gm.engine.Step(w, now)
	if gm.playerIdleTimeout > 0 {
		events = append(events, gm.engine.PruneIdlePlayers(w, now, gm.playerIdleTimeout)...)
	}
	return events
}

// publish hands events to the event queue, dropping them if the queue is full.
func (gm *GameManager) publish(code string, events []types.Event) {
	if gm.eventQueue == nil {
		return
	}
	dropped := 0
	for _, event := range events {
		event.SessionCode = code
		if err := gm.eventQueue.Enqueue(event); err != nil {
			dropped++
		}
	}
	if dropped > 0 {
		log.Warn("Dropped %d events of session %s: event queue is full", dropped, code)
	}
}
