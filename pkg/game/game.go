package game

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/cbodonnell/arena/pkg/collisions"
	"github.com/cbodonnell/arena/pkg/game/constants"
	"github.com/cbodonnell/arena/pkg/game/types"
	"github.com/cbodonnell/arena/pkg/kinematic"
	"github.com/cbodonnell/arena/pkg/log"
	"github.com/google/uuid"
)

// Engine advances worlds and applies player actions to them.
// It holds no world state itself, so one Engine serves every session.
// Callers must serialize access to each world.
type Engine struct {
	rngMutex  sync.Mutex
	rng       *rand.Rand
	newID     func() string
	tickDelta float64
}

// NewEngineOptions contains options for creating a new Engine.
type NewEngineOptions struct {
	// Rand is the random source for pickup kinds and spawn positions
	Rand *rand.Rand
	// NewID generates entity ids, defaults to random UUIDs
	NewID func() string
	// TickDelta is the integration step applied per Step, in seconds
	TickDelta float64
}

func NewEngine(opts NewEngineOptions) *Engine {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	newID := opts.NewID
	if newID == nil {
		newID = func() string { return uuid.NewString() }
	}
	tickDelta := opts.TickDelta
	if tickDelta <= 0 {
		tickDelta = constants.TickDelta
	}
	return &Engine{
		rng:       rng,
		newID:     newID,
		tickDelta: tickDelta,
	}
}

// NewWorld creates a world with a fresh obstacle layout.
func (e *Engine) NewWorld(now int64) *types.World {
	e.rngMutex.Lock()
	defer e.rngMutex.Unlock()
	return types.NewWorld(e.rng, now)
}

func (e *Engine) float64() float64 {
	e.rngMutex.Lock()
	defer e.rngMutex.Unlock()
	return e.rng.Float64()
}

func (e *Engine) intn(n int) int {
	e.rngMutex.Lock()
	defer e.rngMutex.Unlock()
	return e.rng.Intn(n)
}

// Step advances the world by one fixed tick at server time now (ms)
// and returns the events that happened during the tick.
func (e *Engine) Step(w *types.World, now int64) []types.Event {
	var events []types.Event
	events = append(events, e.updateProjectiles(w, now)...)
	events = append(events, e.updateExplosives(w, now)...)
	events = append(events, e.spawnPickups(w, now)...)
	return events
}

// updateProjectiles moves every projectile and resolves its collisions.
func (e *Engine) updateProjectiles(w *types.World, now int64) []types.Event {
	var events []types.Event
	playerIDs := sortedPlayerIDs(w)
	remaining := w.Projectiles[:0]
	for _, p := range w.Projectiles {
		p.Advance(e.tickDelta)

		if p.Expired(now) {
			continue
		}
		if !collisions.InBounds(p.Position, constants.WorldWidth, constants.WorldHeight, constants.WorldBoundsMargin) {
			continue
		}
		if obstacleHit(w, p.Circle()) {
			log.Trace("Projectile %s hit an obstacle", p.ID)
			continue
		}

		victim := projectileVictim(w, playerIDs, p, now)
		if victim == nil {
			remaining = append(remaining, p)
			continue
		}

		damage := victim.TakeDamage(p.Damage, now)
		log.Debug("Player %s hit player %s with projectile %s", p.OwnerID, victim.ID, p.ID)
		events = append(events, hitEvents(victim, p.OwnerID, p.ID, types.CauseProjectile, damage, now)...)
	}
	clearTail(w.Projectiles, len(remaining))
	w.Projectiles = remaining
	return events
}

// projectileVictim returns the first living, non-owner, visible player the projectile touches.
func projectileVictim(w *types.World, playerIDs []string, p *types.Projectile, now int64) *types.PlayerState {
	for _, id := range playerIDs {
		player := w.Players[id]
		if player.ID == p.OwnerID || !player.IsAlive() || player.IsInvisible(now) {
			continue
		}
		if collisions.CirclesIntersect(p.Circle(), player.Circle()) {
			return player
		}
	}
	return nil
}

// updateExplosives moves every explosive and detonates those that hit an obstacle or ran out of fuse.
func (e *Engine) updateExplosives(w *types.World, now int64) []types.Event {
	var events []types.Event
	remaining := w.Explosives[:0]
	for _, x := range w.Explosives {
		x.Advance(e.tickDelta)

		if obstacleHit(w, x.Circle()) || x.FuseElapsed(now) {
			events = append(events, detonate(w, x, now)...)
			continue
		}
		remaining = append(remaining, x)
	}
	clearTail(w.Explosives, len(remaining))
	w.Explosives = remaining
	return events
}

// detonate applies area damage around the explosive. The caller removes it from the world.
func detonate(w *types.World, x *types.Explosive, now int64) []types.Event {
	events := []types.Event{{
		Type:      types.EventTypeExplosiveDetonated,
		Timestamp: now,
		SourceID:  x.OwnerID,
		EntityID:  x.ID,
		Position:  x.Position,
	}}
	for _, id := range sortedPlayerIDs(w) {
		player := w.Players[id]
		if !player.IsAlive() {
			continue
		}
		if kinematic.Distance(player.Position, x.Position) > constants.ExplosionRadius {
			continue
		}
		damage := constants.ExplosionDamage
		if player.IsInvisible(now) {
			damage /= 2
		}
		applied := player.TakeDamage(damage, now)
		log.Debug("Explosive %s from %s hit player %s for %d", x.ID, x.OwnerID, player.ID, applied)
		events = append(events, hitEvents(player, x.OwnerID, x.ID, types.CauseExplosion, applied, now)...)
	}
	return events
}

// spawnPickups spawns one pickup when the spawn interval has elapsed, the cap
// has not been reached and someone is playing.
func (e *Engine) spawnPickups(w *types.World, now int64) []types.Event {
	if now-w.LastPickupSpawnAt < constants.PickupSpawnInterval {
		return nil
	}
	if len(w.Pickups) >= constants.MaxPickups || w.IsEmpty() {
		return nil
	}

	kind := types.PickupKinds[e.intn(len(types.PickupKinds))]
	pickup := types.NewPickup(e.newID(), kind, e.pickupPosition(w), now)
	w.Pickups = append(w.Pickups, pickup)
	w.LastPickupSpawnAt = now
	log.Debug("Spawned %s pickup %s", pickup.Kind, pickup.ID)

	return []types.Event{{
		Type:      types.EventTypePickupSpawned,
		Timestamp: now,
		EntityID:  pickup.ID,
		Cause:     string(pickup.Kind),
		Position:  pickup.Position,
	}}
}

// maxSpawnAttempts bounds the search for a spawn point clear of obstacles
const maxSpawnAttempts = 20

// pickupPosition picks a random point inside the spawn margins, avoiding obstacles when possible.
func (e *Engine) pickupPosition(w *types.World) kinematic.Vector {
	return e.freePosition(w, constants.PickupSpawnMargin, constants.PickupRadius)
}

// SpawnPosition picks a random point for a new player, avoiding obstacles when possible.
func (e *Engine) SpawnPosition(w *types.World) kinematic.Vector {
	return e.freePosition(w, constants.PlayerRadius*2, constants.PlayerRadius)
}

func (e *Engine) freePosition(w *types.World, margin float64, radius float64) kinematic.Vector {
	var pos kinematic.Vector
	for attempt := 0; attempt < maxSpawnAttempts; attempt++ {
		pos = kinematic.Vector{
			X: margin + e.float64()*(constants.WorldWidth-2*margin),
			Y: margin + e.float64()*(constants.WorldHeight-2*margin),
		}
		if !obstacleHit(w, collisions.Circle{Center: pos, Radius: radius}) {
			break
		}
	}
	return pos
}

// PruneIdlePlayers removes players that have not been updated within timeout.
func (e *Engine) PruneIdlePlayers(w *types.World, now int64, timeout time.Duration) []types.Event {
	var events []types.Event
	for _, id := range sortedPlayerIDs(w) {
		player := w.Players[id]
		if now-player.LastUpdate <= timeout.Milliseconds() {
			continue
		}
		w.RemovePlayer(id)
		log.Debug("Pruned idle player %s", id)
		events = append(events, types.Event{
			Type:      types.EventTypePlayerLeft,
			Timestamp: now,
			PlayerID:  id,
			Cause:     "idle",
			Position:  player.Position,
		})
	}
	return events
}

func hitEvents(victim *types.PlayerState, sourceID string, entityID string, cause string, damage int, now int64) []types.Event {
	if damage <= 0 {
		return nil
	}
	events := []types.Event{{
		Type:      types.EventTypePlayerHit,
		Timestamp: now,
		PlayerID:  victim.ID,
		SourceID:  sourceID,
		EntityID:  entityID,
		Cause:     cause,
		Damage:    damage,
		Position:  victim.Position,
	}}
	if !victim.IsAlive() {
		events = append(events, types.Event{
			Type:      types.EventTypePlayerEliminated,
			Timestamp: now,
			PlayerID:  victim.ID,
			SourceID:  sourceID,
			EntityID:  entityID,
			Cause:     cause,
			Position:  victim.Position,
		})
	}
	return events
}

// obstacleHit reports whether the circle touches any obstacle of the world.
func obstacleHit(w *types.World, c collisions.Circle) bool {
	if w.CollisionSpace != nil {
		return w.CollisionSpace.CircleHits(c)
	}
	for _, o := range w.Obstacles {
		if collisions.CircleIntersectsRect(c, o.Rect) {
			return true
		}
	}
	return false
}

// sortedPlayerIDs gives collision checks a stable order so "first match wins" is deterministic.
func sortedPlayerIDs(w *types.World) []string {
	ids := make([]string, 0, len(w.Players))
	for id := range w.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// clearTail drops references past n after an in-place filter.
func clearTail[T any](s []*T, n int) {
	for i := n; i < len(s); i++ {
		s[i] = nil
	}
}
