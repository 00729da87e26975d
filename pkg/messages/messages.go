package messages

import (
	"github.com/cbodonnell/arena/pkg/repositories/models"
)

// Intent kinds accepted by the intents endpoint
const (
	IntentKindMove    = "move"
	IntentKindShoot   = "shoot"
	IntentKindThrow   = "throw"
	IntentKindCollect = "collect"
)

// PlayerSnapshot is the wire form of a player.
// InvisibleUntil and HitAt are omitted when the effect has never applied.
type PlayerSnapshot struct {
	ID             string  `json:"id"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Rotation       float64 `json:"rotation"`
	Color          string  `json:"color"`
	Health         int     `json:"health"`
	LastShotAt     int64   `json:"lastShotAt"`
	LastThrowAt    int64   `json:"lastThrowAt"`
	ExplosiveCount int     `json:"explosiveCount"`
	InvisibleUntil *int64  `json:"invisibleUntil,omitempty"`
	HitAt          *int64  `json:"hitAt,omitempty"`
	Sequence       uint64  `json:"sequence"`
	LastUpdate     int64   `json:"lastUpdate"`
}

type ProjectileSnapshot struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	DX        float64 `json:"dx"`
	DY        float64 `json:"dy"`
	OwnerID   string  `json:"ownerId"`
	Damage    int     `json:"damage"`
	Speed     float64 `json:"speed"`
	CreatedAt int64   `json:"createdAt"`
}

type ExplosiveSnapshot struct {
	ID         string  `json:"id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	DX         float64 `json:"dx"`
	DY         float64 `json:"dy"`
	OwnerID    string  `json:"ownerId"`
	Speed      float64 `json:"speed"`
	CreatedAt  int64   `json:"createdAt"`
	DetonateAt int64   `json:"detonateAt"`
}

type PickupSnapshot struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Kind      string  `json:"kind"`
	SpawnedAt int64   `json:"spawnedAt"`
	Duration  int64   `json:"duration,omitempty"`
}

type ObstacleSnapshot struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// WorldSnapshot is the full state of one session as seen by clients.
// Timestamp is the server time the snapshot was taken at.
type WorldSnapshot struct {
	Code        string                     `json:"code"`
	Players     map[string]*PlayerSnapshot `json:"players"`
	Projectiles []*ProjectileSnapshot      `json:"projectiles"`
	Obstacles   []*ObstacleSnapshot        `json:"obstacles"`
	Pickups     []*PickupSnapshot          `json:"pickups"`
	Explosives  []*ExplosiveSnapshot       `json:"explosives"`
	LastUpdate  int64                      `json:"lastUpdate"`
	Created     int64                      `json:"created"`
	Timestamp   int64                      `json:"timestamp"`
}

// EmptyWorldSnapshot is returned for unknown session codes so late pollers don't fail.
func EmptyWorldSnapshot(code string, now int64) *WorldSnapshot {
	return &WorldSnapshot{
		Code:        code,
		Players:     map[string]*PlayerSnapshot{},
		Projectiles: []*ProjectileSnapshot{},
		Obstacles:   []*ObstacleSnapshot{},
		Pickups:     []*PickupSnapshot{},
		Explosives:  []*ExplosiveSnapshot{},
		Timestamp:   now,
	}
}

// Intent is a client-submitted action. Optional fields may be omitted.
type Intent struct {
	Kind     string   `json:"kind"`
	PlayerID string   `json:"playerId"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	Sequence uint64   `json:"sequence,omitempty"`
	PickupID string   `json:"pickupId,omitempty"`
}

// IntentResponse reports whether the intent was accepted by the rules.
// A rejected intent is still a successful request.
type IntentResponse struct {
	Success  bool           `json:"success"`
	Accepted bool           `json:"accepted"`
	World    *WorldSnapshot `json:"world,omitempty"`
}

type LeaveRequest struct {
	PlayerID string `json:"playerId"`
}

type LeaveResponse struct {
	Success bool `json:"success"`
	Removed bool `json:"removed"`
}

type ProjectilesResponse struct {
	Projectiles []*ProjectileSnapshot `json:"projectiles"`
	Timestamp   int64                 `json:"timestamp"`
}

type ExplosivesResponse struct {
	Explosives []*ExplosiveSnapshot `json:"explosives"`
	Timestamp  int64                `json:"timestamp"`
}

type EventsResponse struct {
	Events []*models.MatchEvent `json:"events"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
	Version  string `json:"version"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
