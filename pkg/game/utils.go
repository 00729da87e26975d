package game

import (
	"github.com/cbodonnell/arena/pkg/game/types"
	"github.com/cbodonnell/arena/pkg/kinematic"
	"github.com/cbodonnell/arena/pkg/messages"
)

// WorldSnapshotFromState converts a world into its wire form at server time now.
func WorldSnapshotFromState(code string, w *types.World, now int64) *messages.WorldSnapshot {
	players := make(map[string]*messages.PlayerSnapshot, len(w.Players))
	for id, p := range w.Players {
		players[id] = PlayerSnapshotFromState(p)
	}

	obstacles := make([]*messages.ObstacleSnapshot, 0, len(w.Obstacles))
	for _, o := range w.Obstacles {
		obstacles = append(obstacles, &messages.ObstacleSnapshot{
			ID:     o.ID,
			X:      o.Rect.X,
			Y:      o.Rect.Y,
			Width:  o.Rect.W,
			Height: o.Rect.H,
		})
	}

	pickups := make([]*messages.PickupSnapshot, 0, len(w.Pickups))
	for _, p := range w.Pickups {
		pickups = append(pickups, &messages.PickupSnapshot{
			ID:        p.ID,
			X:         p.Position.X,
			Y:         p.Position.Y,
			Kind:      string(p.Kind),
			SpawnedAt: p.SpawnedAt,
			Duration:  p.Duration,
		})
	}

	return &messages.WorldSnapshot{
		Code:        code,
		Players:     players,
		Projectiles: ProjectileSnapshotsFromState(w),
		Obstacles:   obstacles,
		Pickups:     pickups,
		Explosives:  ExplosiveSnapshotsFromState(w),
		LastUpdate:  w.LastUpdate,
		Created:     w.Created,
		Timestamp:   now,
	}
}

func PlayerSnapshotFromState(p *types.PlayerState) *messages.PlayerSnapshot {
	snapshot := &messages.PlayerSnapshot{
		ID:             p.ID,
		X:              p.Position.X,
		Y:              p.Position.Y,
		Rotation:       p.Rotation,
		Color:          p.Color,
		Health:         p.Health,
		LastShotAt:     p.LastShotAt,
		LastThrowAt:    p.LastThrowAt,
		ExplosiveCount: p.ExplosiveCount,
		Sequence:       p.Sequence,
		LastUpdate:     p.LastUpdate,
	}
	if p.Effects.Invisibility.Active {
		until := p.Effects.Invisibility.Until
		snapshot.InvisibleUntil = &until
	}
	if p.Effects.LastHit.Hit {
		at := p.Effects.LastHit.At
		snapshot.HitAt = &at
	}
	return snapshot
}

func ProjectileSnapshotsFromState(w *types.World) []*messages.ProjectileSnapshot {
	projectiles := make([]*messages.ProjectileSnapshot, 0, len(w.Projectiles))
	for _, p := range w.Projectiles {
		projectiles = append(projectiles, &messages.ProjectileSnapshot{
			ID:        p.ID,
			X:         p.Position.X,
			Y:         p.Position.Y,
			DX:        p.Direction.X,
			DY:        p.Direction.Y,
			OwnerID:   p.OwnerID,
			Damage:    p.Damage,
			Speed:     p.Speed,
			CreatedAt: p.CreatedAt,
		})
	}
	return projectiles
}

func ExplosiveSnapshotsFromState(w *types.World) []*messages.ExplosiveSnapshot {
	explosives := make([]*messages.ExplosiveSnapshot, 0, len(w.Explosives))
	for _, e := range w.Explosives {
		explosives = append(explosives, &messages.ExplosiveSnapshot{
			ID:         e.ID,
			X:          e.Position.X,
			Y:          e.Position.Y,
			DX:         e.Direction.X,
			DY:         e.Direction.Y,
			OwnerID:    e.OwnerID,
			Speed:      e.Speed,
			CreatedAt:  e.CreatedAt,
			DetonateAt: e.DetonateAt,
		})
	}
	return explosives
}

// ActionFromIntent validates the shape of a wire intent and converts it to an Action.
// Missing optional fields are left unset.
func ActionFromIntent(intent *messages.Intent) (Action, error) {
	if intent.PlayerID == "" {
		return Action{}, &ErrInvalidAction{Reason: "missing player id"}
	}
	action := Action{
		Kind:     ActionKind(intent.Kind),
		PlayerID: intent.PlayerID,
		Rotation: intent.Rotation,
		Sequence: intent.Sequence,
		PickupID: intent.PickupID,
	}
	switch action.Kind {
	case ActionKindMove, ActionKindShoot, ActionKindThrow:
	case ActionKindCollect:
		if action.PickupID == "" {
			return Action{}, &ErrInvalidAction{Reason: "missing pickup id"}
		}
	default:
		return Action{}, &ErrInvalidAction{Reason: "unknown kind " + intent.Kind}
	}
	if intent.X != nil && intent.Y != nil {
		action.Position = &kinematic.Vector{X: *intent.X, Y: *intent.Y}
	}
	return action, nil
}
