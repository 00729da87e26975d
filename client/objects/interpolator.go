package objects

import (
	"sort"

	"github.com/cbodonnell/arena/pkg/kinematic"
	"github.com/cbodonnell/arena/pkg/messages"
)

// DefaultBlendFactor is the fraction of the gap to the authoritative
// position that is closed every frame
const DefaultBlendFactor = 0.12

// Sample is one authoritative observation of a moving entity.
type Sample struct {
	ID       string
	Position kinematic.Vector
	// Velocity is in units per second
	Velocity kinematic.Vector
	Rotation float64
}

// Tracked is the locally rendered state of an entity.
type Tracked struct {
	ID       string
	Position kinematic.Vector
	Velocity kinematic.Vector
	Rotation float64

	target          kinematic.Vector
	targetAt        int64
	lastLocalUpdate int64
}

// Interpolator smooths entities the local client does not own between
// authoritative samples. It is not safe for concurrent use.
type Interpolator struct {
	blend    float64
	entities map[string]*Tracked
}

// NewInterpolator creates an Interpolator. A blend outside (0, 1] falls back to DefaultBlendFactor.
func NewInterpolator(blend float64) *Interpolator {
	if blend <= 0 || blend > 1 {
		blend = DefaultBlendFactor
	}
	return &Interpolator{
		blend:    blend,
		entities: make(map[string]*Tracked),
	}
}

// Sync records the latest authoritative samples received at now. New
// entities appear at their sampled position and entities missing from
// samples are dropped.
func (i *Interpolator) Sync(samples []Sample, now int64) {
	seen := make(map[string]struct{}, len(samples))
	for _, sample := range samples {
		seen[sample.ID] = struct{}{}
		tracked, ok := i.entities[sample.ID]
		if !ok {
			i.entities[sample.ID] = &Tracked{
				ID:              sample.ID,
				Position:        sample.Position,
				Velocity:        sample.Velocity,
				Rotation:        sample.Rotation,
				target:          sample.Position,
				targetAt:        now,
				lastLocalUpdate: now,
			}
			continue
		}
		tracked.Velocity = sample.Velocity
		tracked.Rotation = sample.Rotation
		tracked.target = sample.Position
		tracked.targetAt = now
	}

	for id := range i.entities {
		if _, ok := seen[id]; !ok {
			delete(i.entities, id)
		}
	}
}

// Advance moves every entity along its velocity for the time since its last
// local update, then closes a fraction of the gap to the authoritative
// position, itself carried forward along the velocity since it was sampled.
func (i *Interpolator) Advance(now int64) {
	for _, tracked := range i.entities {
		elapsed := float64(now-tracked.lastLocalUpdate) / 1000
		if elapsed < 0 {
			elapsed = 0
		}
		position := tracked.Position.Add(kinematic.Displacement(tracked.Velocity, elapsed))

		sinceSample := float64(now-tracked.targetAt) / 1000
		if sinceSample < 0 {
			sinceSample = 0
		}
		target := tracked.target.Add(kinematic.Displacement(tracked.Velocity, sinceSample))

		tracked.Position = position.Lerp(target, i.blend)
		tracked.lastLocalUpdate = now
	}
}

// Get returns a copy of one tracked entity.
func (i *Interpolator) Get(id string) (Tracked, bool) {
	tracked, ok := i.entities[id]
	if !ok {
		return Tracked{}, false
	}
	return *tracked, true
}

// Entities returns copies of every tracked entity ordered by id.
func (i *Interpolator) Entities() []Tracked {
	entities := make([]Tracked, 0, len(i.entities))
	for _, tracked := range i.entities {
		entities = append(entities, *tracked)
	}
	sort.Slice(entities, func(a, b int) bool {
		return entities[a].ID < entities[b].ID
	})
	return entities
}

func (i *Interpolator) Len() int {
	return len(i.entities)
}

// ProjectileSamples converts projectile snapshots into samples.
func ProjectileSamples(projectiles []*messages.ProjectileSnapshot) []Sample {
	samples := make([]Sample, 0, len(projectiles))
	for _, p := range projectiles {
		samples = append(samples, Sample{
			ID:       p.ID,
			Position: kinematic.Vector{X: p.X, Y: p.Y},
			Velocity: kinematic.Vector{X: p.DX, Y: p.DY}.Scale(p.Speed),
		})
	}
	return samples
}

// ExplosiveSamples converts explosive snapshots into samples.
func ExplosiveSamples(explosives []*messages.ExplosiveSnapshot) []Sample {
	samples := make([]Sample, 0, len(explosives))
	for _, e := range explosives {
		samples = append(samples, Sample{
			ID:       e.ID,
			Position: kinematic.Vector{X: e.X, Y: e.Y},
			Velocity: kinematic.Vector{X: e.DX, Y: e.DY}.Scale(e.Speed),
		})
	}
	return samples
}

// RemotePlayerSamples converts every player except localID into samples.
// Players carry no velocity, so they only blend towards their samples.
func RemotePlayerSamples(players map[string]*messages.PlayerSnapshot, localID string) []Sample {
	samples := make([]Sample, 0, len(players))
	for id, p := range players {
		if id == localID {
			continue
		}
		samples = append(samples, Sample{
			ID:       id,
			Position: kinematic.Vector{X: p.X, Y: p.Y},
			Rotation: p.Rotation,
		})
	}
	return samples
}
