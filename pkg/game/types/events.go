package types

import "github.com/cbodonnell/arena/pkg/kinematic"

type EventType string

const (
	EventTypePlayerJoined       EventType = "player_joined"
	EventTypePlayerLeft         EventType = "player_left"
	EventTypePlayerHit          EventType = "player_hit"
	EventTypePlayerEliminated   EventType = "player_eliminated"
	EventTypeExplosiveDetonated EventType = "explosive_detonated"
	EventTypePickupSpawned      EventType = "pickup_spawned"
	EventTypePickupCollected    EventType = "pickup_collected"
)

// Cause of damage carried by hit and elimination events
const (
	CauseProjectile = "projectile"
	CauseExplosion  = "explosion"
)

// Event is something that happened in a world, reported by the simulation
// and the action handlers for the match statistics.
type Event struct {
	Type        EventType        `json:"type"`
	SessionCode string           `json:"sessionCode"`
	Timestamp   int64            `json:"timestamp"`
	PlayerID    string           `json:"playerId,omitempty"`
	SourceID    string           `json:"sourceId,omitempty"`
	EntityID    string           `json:"entityId,omitempty"`
	Cause       string           `json:"cause,omitempty"`
	Damage      int              `json:"damage,omitempty"`
	Position    kinematic.Vector `json:"position"`
}
