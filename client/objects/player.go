package objects

import (
	"time"

	"github.com/cbodonnell/arena/client/input"
	"github.com/cbodonnell/arena/pkg/collisions"
	"github.com/cbodonnell/arena/pkg/game/constants"
	"github.com/cbodonnell/arena/pkg/kinematic"
	"github.com/cbodonnell/arena/pkg/log"
	"github.com/cbodonnell/arena/pkg/messages"
)

const (
	// MaxPendingInputs is the maximum number of past inputs to keep for replay
	MaxPendingInputs = 10
	// DefaultStaleAfter is how long the local prediction is trusted over the server position
	DefaultStaleAfter = 2000 * time.Millisecond
)

// ReconcileOptions tunes how authoritative snapshots override the prediction.
type ReconcileOptions struct {
	// StaleAfter is how long after the last local update the server position
	// is adopted. A local copy updated more recently keeps its predicted pose.
	StaleAfter time.Duration
}

func DefaultReconcileOptions() ReconcileOptions {
	return ReconcileOptions{StaleAfter: DefaultStaleAfter}
}

// PendingInput is one locally applied movement step.
type PendingInput struct {
	Sequence  uint64
	Direction kinematic.Vector
	Rotation  float64
	DeltaTime float64
	Timestamp int64
}

// LocalPlayer is the predicted copy of the player controlled by this client.
// It is not safe for concurrent use.
type LocalPlayer struct {
	ID    string
	State *messages.PlayerSnapshot

	opts            ReconcileOptions
	obstacles       *collisions.ObstacleSpace
	pendingInputs   []PendingInput
	sequence        uint64
	ackedSequence   uint64
	lastLocalUpdate int64
	placed          bool
}

func NewLocalPlayer(id string, opts ReconcileOptions) *LocalPlayer {
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = DefaultStaleAfter
	}
	return &LocalPlayer{
		ID:   id,
		opts: opts,
		State: &messages.PlayerSnapshot{
			ID:             id,
			X:              constants.WorldWidth / 2,
			Y:              constants.WorldHeight / 2,
			Health:         constants.PlayerMaxHealth,
			ExplosiveCount: constants.PlayerStartingExplosives,
		},
		obstacles: collisions.NewObstacleSpace(constants.WorldWidth, constants.WorldHeight, nil),
	}
}

// SetObstacles replaces the static geometry the prediction collides with.
func (o *LocalPlayer) SetObstacles(obstacles []*messages.ObstacleSnapshot) {
	rects := make([]collisions.Rect, 0, len(obstacles))
	for _, obstacle := range obstacles {
		rects = append(rects, collisions.Rect{X: obstacle.X, Y: obstacle.Y, W: obstacle.Width, H: obstacle.Height})
	}
	o.obstacles = collisions.NewObstacleSpace(constants.WorldWidth, constants.WorldHeight, rects)
}

// Placed reports whether the server has told us where the player is.
func (o *LocalPlayer) Placed() bool {
	return o.placed
}

// Sequence returns the sequence number of the latest local input.
func (o *LocalPlayer) Sequence() uint64 {
	return o.sequence
}

// AckedSequence returns the latest input sequence the server has applied.
func (o *LocalPlayer) AckedSequence() uint64 {
	return o.ackedSequence
}

// PendingInputs returns the buffered inputs, oldest first.
func (o *LocalPlayer) PendingInputs() []PendingInput {
	inputs := make([]PendingInput, len(o.pendingInputs))
	copy(inputs, o.pendingInputs)
	return inputs
}

// Reset forgets the server placement so the next move lets the server spawn the player again.
func (o *LocalPlayer) Reset() {
	o.placed = false
	o.pendingInputs = nil
	o.ackedSequence = 0
}

// Update applies one frame of input to the local copy. It returns whether
// the pose changed, in which case the step is tagged and buffered.
func (o *LocalPlayer) Update(in input.State, deltaTime float64, now int64) bool {
	if o.State.Health <= 0 {
		return false
	}

	rotation := o.State.Rotation
	if in.Aim != nil {
		rotation = kinematic.NormalizeRotation(*in.Aim)
	}
	direction := in.Axis()
	if !in.IsMoving() && rotation == o.State.Rotation {
		return false
	}

	o.sequence++
	step := PendingInput{
		Sequence:  o.sequence,
		Direction: direction,
		Rotation:  rotation,
		DeltaTime: deltaTime,
		Timestamp: now,
	}
	o.applyInput(step)

	o.pendingInputs = append(o.pendingInputs, step)
	for len(o.pendingInputs) > MaxPendingInputs {
		o.pendingInputs = o.pendingInputs[1:]
	}
	o.lastLocalUpdate = now
	return true
}

// applyInput moves the player, sliding along obstacles and staying in the arena.
func (o *LocalPlayer) applyInput(step PendingInput) {
	o.State.Rotation = step.Rotation
	if step.Direction.X == 0 && step.Direction.Y == 0 {
		return
	}

	position := kinematic.Vector{X: o.State.X, Y: o.State.Y}
	displacement := kinematic.Displacement(step.Direction.Scale(constants.PlayerSpeed), step.DeltaTime)
	candidates := []kinematic.Vector{
		position.Add(displacement),
		position.Add(kinematic.Vector{X: displacement.X}),
		position.Add(kinematic.Vector{Y: displacement.Y}),
	}
	for _, candidate := range candidates {
		candidate.X = kinematic.Clamp(candidate.X, constants.PlayerRadius, constants.WorldWidth-constants.PlayerRadius)
		candidate.Y = kinematic.Clamp(candidate.Y, constants.PlayerRadius, constants.WorldHeight-constants.PlayerRadius)
		if o.obstacles.CircleHits(collisions.Circle{Center: candidate, Radius: constants.PlayerRadius}) {
			continue
		}
		o.State.X = candidate.X
		o.State.Y = candidate.Y
		return
	}
}

// Reconcile merges an authoritative snapshot of this player into the local copy.
// Health, hit marker, color and the pickup derived fields always come from the
// server. The pose is only taken from the server when the local copy has not
// been updated within StaleAfter, after which newer buffered inputs are replayed.
// It returns whether the server pose was adopted.
func (o *LocalPlayer) Reconcile(server *messages.PlayerSnapshot, now int64) bool {
	if server == nil {
		return false
	}

	o.State.Health = server.Health
	o.State.HitAt = copyInt64(server.HitAt)
	o.State.Color = server.Color
	o.State.InvisibleUntil = copyInt64(server.InvisibleUntil)
	o.State.ExplosiveCount = server.ExplosiveCount
	o.State.LastThrowAt = server.LastThrowAt
	if server.LastShotAt > o.State.LastShotAt {
		o.State.LastShotAt = server.LastShotAt
	}
	o.State.LastUpdate = server.LastUpdate
	if server.Sequence > o.ackedSequence {
		o.ackedSequence = server.Sequence
	}

	stale := now-o.lastLocalUpdate >= o.opts.StaleAfter.Milliseconds()
	if o.placed && !stale {
		return false
	}

	if o.placed {
		log.Debug("Adopting server position for %s after %dms without local updates", o.ID, now-o.lastLocalUpdate)
	}
	o.State.X = server.X
	o.State.Y = server.Y
	o.State.Rotation = server.Rotation
	o.placed = true

	// replay all of the inputs the server has not applied yet
	for _, step := range o.pendingInputs {
		if step.Sequence > o.ackedSequence {
			o.applyInput(step)
		}
	}
	return true
}

// MoveIntent returns the move intent for the current predicted pose. The
// position is left out until the server has placed the player.
func (o *LocalPlayer) MoveIntent() *messages.Intent {
	rotation := o.State.Rotation
	intent := &messages.Intent{
		Kind:     messages.IntentKindMove,
		PlayerID: o.ID,
		Rotation: &rotation,
		Sequence: o.sequence,
	}
	if o.placed {
		x, y := o.State.X, o.State.Y
		intent.X = &x
		intent.Y = &y
	}
	return intent
}

// CanShoot reports whether the local view of the cooldown allows a shot. The
// server makes the final decision.
func (o *LocalPlayer) CanShoot(now int64) bool {
	return o.placed && o.State.Health > 0 && now-o.State.LastShotAt >= constants.PlayerShootCooldown
}

// ShotIntent returns a shoot intent from the current pose when CanShoot allows it.
// Shots are never applied locally before the server confirms them.
func (o *LocalPlayer) ShotIntent(now int64) (*messages.Intent, bool) {
	if !o.CanShoot(now) {
		return nil, false
	}
	return o.poseIntent(messages.IntentKindShoot), true
}

// ConfirmShot records a shot the server accepted, so the cooldown display
// starts from the server's view of it.
func (o *LocalPlayer) ConfirmShot(resp *messages.IntentResponse, now int64) {
	if resp == nil || !resp.Accepted {
		return
	}
	shotAt := now
	if resp.World != nil {
		if server, ok := resp.World.Players[o.ID]; ok && server.LastShotAt > 0 {
			shotAt = server.LastShotAt
		}
	}
	if shotAt > o.State.LastShotAt {
		o.State.LastShotAt = shotAt
	}
}

// CanThrow reports whether the local copy holds an explosive off cooldown.
func (o *LocalPlayer) CanThrow(now int64) bool {
	return o.placed && o.State.Health > 0 && o.State.ExplosiveCount > 0 &&
		now-o.State.LastThrowAt >= constants.PlayerThrowCooldown
}

func (o *LocalPlayer) ThrowIntent(now int64) (*messages.Intent, bool) {
	if !o.CanThrow(now) {
		return nil, false
	}
	return o.poseIntent(messages.IntentKindThrow), true
}

// ShotCooldownRemaining is the advisory time left until the next shot, in milliseconds.
func (o *LocalPlayer) ShotCooldownRemaining(now int64) int64 {
	remaining := constants.PlayerShootCooldown - (now - o.State.LastShotAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (o *LocalPlayer) IsInvisible(now int64) bool {
	return o.State.InvisibleUntil != nil && now < *o.State.InvisibleUntil
}

func (o *LocalPlayer) poseIntent(kind string) *messages.Intent {
	x, y, rotation := o.State.X, o.State.Y, o.State.Rotation
	return &messages.Intent{
		Kind:     kind,
		PlayerID: o.ID,
		X:        &x,
		Y:        &y,
		Rotation: &rotation,
	}
}

func copyInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
