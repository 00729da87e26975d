package game

import (
	"fmt"
	"math"

	"github.com/cbodonnell/arena/pkg/game/types"
	"github.com/cbodonnell/arena/pkg/kinematic"
	"github.com/cbodonnell/arena/pkg/log"
)

type ActionKind string

const (
	ActionKindMove    ActionKind = "move"
	ActionKindShoot   ActionKind = "shoot"
	ActionKindThrow   ActionKind = "throw"
	ActionKindCollect ActionKind = "collect"
)

// Action is a validated client intent against one world.
type Action struct {
	Kind     ActionKind
	PlayerID string
	// Position and Rotation are optional, nil keeps the current value
	Position *kinematic.Vector
	Rotation *float64
	Sequence uint64
	PickupID string
}

// ErrInvalidAction is returned for actions that cannot be applied to any world,
// as opposed to actions that are merely not allowed right now.
type ErrInvalidAction struct {
	Reason string
}

func (e *ErrInvalidAction) Error() string {
	return fmt.Sprintf("invalid action: %s", e.Reason)
}

func IsInvalidAction(err error) bool {
	_, ok := err.(*ErrInvalidAction)
	return ok
}

// ActionResult reports whether the rules allowed the action and what happened.
// A rejected action is a no-op, not an error.
type ActionResult struct {
	Accepted bool
	Events   []types.Event
}

// Apply validates an action and applies it to the world at server time now (ms).
func (e *Engine) Apply(w *types.World, action Action, now int64) (ActionResult, error) {
	if action.PlayerID == "" {
		return ActionResult{}, &ErrInvalidAction{Reason: "missing player id"}
	}

	var result ActionResult
	switch action.Kind {
	case ActionKindMove:
		result = e.move(w, action, now)
	case ActionKindShoot:
		result = e.shoot(w, action, now)
	case ActionKindThrow:
		result = e.throw(w, action, now)
	case ActionKindCollect:
		if action.PickupID == "" {
			return ActionResult{}, &ErrInvalidAction{Reason: "missing pickup id"}
		}
		result = e.collect(w, action, now)
	default:
		return ActionResult{}, &ErrInvalidAction{Reason: fmt.Sprintf("unknown kind %q", action.Kind)}
	}

	if result.Accepted {
		w.Touch(now)
	}
	return result, nil
}

// Join adds the player to the world if absent and returns it.
func (e *Engine) Join(w *types.World, playerID string, position *kinematic.Vector, now int64) (*types.PlayerState, []types.Event) {
	if player, ok := w.Players[playerID]; ok {
		return player, nil
	}

	var spawn kinematic.Vector
	if position != nil && isFinite(*position) {
		spawn = *position
	} else {
		spawn = e.SpawnPosition(w)
	}
	player := types.NewPlayerState(playerID, spawn, w.NextColor(), now)
	w.AddPlayer(player)
	w.Touch(now)
	log.Debug("Player %s joined as %s", playerID, player.Color)

	return player, []types.Event{{
		Type:      types.EventTypePlayerJoined,
		Timestamp: now,
		PlayerID:  playerID,
		Position:  spawn,
	}}
}

// move trusts the client's position and rotation, creating the player on first contact.
func (e *Engine) move(w *types.World, action Action, now int64) ActionResult {
	player, events := e.Join(w, action.PlayerID, action.Position, now)

	if action.Sequence != 0 && action.Sequence < player.Sequence {
		log.Trace("Player %s sent an outdated move %d < %d", player.ID, action.Sequence, player.Sequence)
		return ActionResult{Accepted: false, Events: events}
	}

	applyPose(player, action)
	if action.Sequence > player.Sequence {
		player.Sequence = action.Sequence
	}
	player.LastUpdate = now

	events = append(events, autoCollect(w, player, now)...)
	return ActionResult{Accepted: true, Events: events}
}

// shoot fires one projectile when the cooldown has elapsed. A refused shot leaves the pose untouched.
func (e *Engine) shoot(w *types.World, action Action, now int64) ActionResult {
	player, ok := w.Players[action.PlayerID]
	if !ok || !player.IsAlive() {
		return ActionResult{}
	}
	if !player.CanShoot(now) {
		log.Trace("Player %s shot during cooldown", player.ID)
		return ActionResult{}
	}

	applyPose(player, action)
	projectile := types.NewProjectile(e.newID(), player, now)
	w.Projectiles = append(w.Projectiles, projectile)
	player.LastShotAt = now
	player.LastUpdate = now
	return ActionResult{Accepted: true}
}

// throw launches one explosive when the player holds one and the cooldown has elapsed.
func (e *Engine) throw(w *types.World, action Action, now int64) ActionResult {
	player, ok := w.Players[action.PlayerID]
	if !ok || !player.IsAlive() {
		return ActionResult{}
	}
	if !player.CanThrow(now) {
		log.Trace("Player %s threw during cooldown or without explosives", player.ID)
		return ActionResult{}
	}

	applyPose(player, action)
	explosive := types.NewExplosive(e.newID(), player, now)
	w.Explosives = append(w.Explosives, explosive)
	player.ExplosiveCount--
	player.LastThrowAt = now
	player.LastUpdate = now
	return ActionResult{Accepted: true}
}

// collect applies a named pickup to the player if both still exist.
func (e *Engine) collect(w *types.World, action Action, now int64) ActionResult {
	player, ok := w.Players[action.PlayerID]
	if !ok {
		return ActionResult{}
	}
	i := w.FindPickup(action.PickupID)
	if i < 0 {
		return ActionResult{}
	}
	pickup := w.RemovePickupAt(i)
	pickup.Apply(player, now)
	return ActionResult{Accepted: true, Events: []types.Event{collectedEvent(player, pickup, now)}}
}

// Leave removes the player and reports whether it was present.
func (e *Engine) Leave(w *types.World, playerID string, now int64) (bool, []types.Event) {
	player, ok := w.Players[playerID]
	if !ok {
		return false, nil
	}
	w.RemovePlayer(playerID)
	w.Touch(now)
	return true, []types.Event{{
		Type:      types.EventTypePlayerLeft,
		Timestamp: now,
		PlayerID:  playerID,
		Position:  player.Position,
	}}
}

// autoCollect applies every pickup a living player is touching.
func autoCollect(w *types.World, player *types.PlayerState, now int64) []types.Event {
	if !player.IsAlive() {
		return nil
	}
	var events []types.Event
	for i := 0; i < len(w.Pickups); {
		pickup := w.Pickups[i]
		if !pickup.Touches(player) {
			i++
			continue
		}
		w.RemovePickupAt(i)
		pickup.Apply(player, now)
		events = append(events, collectedEvent(player, pickup, now))
	}
	return events
}

func collectedEvent(player *types.PlayerState, pickup *types.Pickup, now int64) types.Event {
	return types.Event{
		Type:      types.EventTypePickupCollected,
		Timestamp: now,
		PlayerID:  player.ID,
		EntityID:  pickup.ID,
		Cause:     string(pickup.Kind),
		Position:  pickup.Position,
	}
}

// applyPose copies the optional position and rotation of an action onto the player.
// Non-finite values are ignored.
func applyPose(player *types.PlayerState, action Action) {
	if action.Position != nil && isFinite(*action.Position) {
		player.Position = *action.Position
	}
	if action.Rotation != nil {
		player.Rotation = kinematic.NormalizeRotation(*action.Rotation)
	}
}

func isFinite(v kinematic.Vector) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
