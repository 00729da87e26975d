package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/cbodonnell/arena/client/input"
	"github.com/cbodonnell/arena/client/network"
	"github.com/cbodonnell/arena/client/objects"
	"github.com/cbodonnell/arena/pkg/game/constants"
	"github.com/cbodonnell/arena/pkg/log"
	"github.com/cbodonnell/arena/pkg/messages"
	"github.com/google/uuid"
)

const (
	// CodeAlphabet leaves out characters that are easy to confuse (0/O, 1/I)
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// MaxFrameDelta caps the time a single frame may simulate, in seconds
	MaxFrameDelta = 0.1
)

// GenerateCode returns a random session code.
func GenerateCode(rng *rand.Rand) string {
	code := make([]byte, constants.SessionCodeLength)
	for i := range code {
		code[i] = CodeAlphabet[rng.Intn(len(CodeAlphabet))]
	}
	return string(code)
}

// ErrInvalidSessionCode is returned for codes the server would reject
type ErrInvalidSessionCode struct {
	Code string
}

func (e *ErrInvalidSessionCode) Error() string {
	return fmt.Sprintf("invalid session code %q: must be exactly %d characters", e.Code, constants.SessionCodeLength)
}

// Session ties the local prediction, the interpolation of remote entities and
// the synchronization loops together for one session code.
type Session struct {
	code      string
	playerID  string
	transport network.Transport
	scheduler *network.Scheduler
	now       func() time.Time

	mu            sync.Mutex
	player        *objects.LocalPlayer
	remotePlayers *objects.Interpolator
	projectiles   *objects.Interpolator
	explosives    *objects.Interpolator
	world         *messages.WorldSnapshot
	lastFrame     time.Time
	left          bool
}

// NewSessionOptions contains options for creating a new Session.
type NewSessionOptions struct {
	Transport network.Transport
	Code      string
	// PlayerID defaults to a random UUID
	PlayerID    string
	Scheduler   network.SchedulerOptions
	Reconcile   objects.ReconcileOptions
	BlendFactor float64
	Now         func() time.Time
}

func NewSession(opts NewSessionOptions) (*Session, error) {
	if utf8.RuneCountInString(opts.Code) != constants.SessionCodeLength {
		return nil, &ErrInvalidSessionCode{Code: opts.Code}
	}
	if opts.Transport == nil {
		return nil, fmt.Errorf("transport is required")
	}
	playerID := opts.PlayerID
	if playerID == "" {
		playerID = uuid.NewString()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Session{
		code:          opts.Code,
		playerID:      playerID,
		transport:     opts.Transport,
		now:           now,
		player:        objects.NewLocalPlayer(playerID, opts.Reconcile),
		remotePlayers: objects.NewInterpolator(opts.BlendFactor),
		projectiles:   objects.NewInterpolator(opts.BlendFactor),
		explosives:    objects.NewInterpolator(opts.BlendFactor),
		world:         messages.EmptyWorldSnapshot(opts.Code, 0),
	}
	s.scheduler = network.NewScheduler(network.NewSchedulerOptions{
		Transport:     opts.Transport,
		Code:          opts.Code,
		Options:       opts.Scheduler,
		Movement:      s.movementIntent,
		ShotIntent:    s.shotIntent,
		OnWorld:       s.onWorld,
		OnProjectiles: s.onProjectiles,
		OnExplosives:  s.onExplosives,
		OnShot:        s.onShot,
		Now:           now,
	})
	return s, nil
}

func (s *Session) Code() string {
	return s.code
}

func (s *Session) PlayerID() string {
	return s.playerID
}

// Start creates or joins the session and starts synchronizing with it. The
// player itself is spawned by the server on the first movement push.
func (s *Session) Start(ctx context.Context) error {
	snapshot, err := s.transport.Join(ctx, s.code)
	if err != nil {
		return fmt.Errorf("failed to join session %s: %w", s.code, err)
	}
	s.onWorld(snapshot)

	if err := s.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %v", err)
	}
	log.Info("Joined session %s as %s", s.code, s.playerID)
	return nil
}

// Frame advances one presentation frame: local input is applied to the
// predicted player and remote entities are interpolated.
func (s *Session) Frame(now time.Time, in input.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.left {
		return
	}

	deltaTime := 0.0
	if !s.lastFrame.IsZero() {
		deltaTime = now.Sub(s.lastFrame).Seconds()
	}
	if deltaTime < 0 {
		deltaTime = 0
	}
	if deltaTime > MaxFrameDelta {
		deltaTime = MaxFrameDelta
	}
	s.lastFrame = now

	nowMillis := now.UnixMilli()
	s.player.Update(in, deltaTime, nowMillis)
	if in.Shoot {
		s.scheduler.RequestShot()
	}

	s.remotePlayers.Advance(nowMillis)
	s.projectiles.Advance(nowMillis)
	s.explosives.Advance(nowMillis)
}

// RequestShot asks the scheduler to fire once the cooldown and the request rate allow it.
func (s *Session) RequestShot() {
	s.scheduler.RequestShot()
}

// Throw throws an explosive from the current pose. It reports whether the
// server accepted the throw; a throw the local state already rules out is
// not sent.
func (s *Session) Throw(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.left {
		s.mu.Unlock()
		return false, nil
	}
	intent, ok := s.player.ThrowIntent(s.scheduler.ServerTime())
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	return s.submit(ctx, intent)
}

// Collect asks the server to apply and remove a pickup.
func (s *Session) Collect(ctx context.Context, pickupID string) (bool, error) {
	s.mu.Lock()
	left := s.left
	s.mu.Unlock()
	if left {
		return false, nil
	}
	return s.submit(ctx, &messages.Intent{
		Kind:     messages.IntentKindCollect,
		PlayerID: s.playerID,
		PickupID: pickupID,
	})
}

func (s *Session) submit(ctx context.Context, intent *messages.Intent) (bool, error) {
	resp, err := s.transport.SubmitIntent(ctx, s.code, intent)
	if err != nil {
		return false, err
	}
	if resp.World != nil {
		s.onWorld(resp.World)
	}
	return resp.Accepted, nil
}

// Leave stops every loop and removes the player from the session. No
// requests other than the leave itself are issued once it returns.
func (s *Session) Leave(ctx context.Context) error {
	s.mu.Lock()
	if s.left {
		s.mu.Unlock()
		return nil
	}
	s.left = true
	s.mu.Unlock()

	s.scheduler.Stop()
	if _, err := s.transport.Leave(ctx, s.code, s.playerID); err != nil {
		return fmt.Errorf("failed to leave session %s: %w", s.code, err)
	}
	log.Info("Left session %s", s.code)
	return nil
}

// Done is closed when synchronization stops, including when the session is abandoned.
func (s *Session) Done() <-chan struct{} {
	return s.scheduler.Done()
}

// Err reports why synchronization stopped.
func (s *Session) Err() error {
	return s.scheduler.Err()
}

func (s *Session) Stats() network.DeliveryStats {
	return s.scheduler.Stats()
}

func (s *Session) movementIntent() *messages.Intent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.left {
		return nil
	}
	return s.player.MoveIntent()
}

func (s *Session) shotIntent(time.Time) (*messages.Intent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.left {
		return nil, false
	}
	return s.player.ShotIntent(s.scheduler.ServerTime())
}

func (s *Session) onWorld(snapshot *messages.WorldSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.left {
		return
	}

	now := s.now().UnixMilli()
	if !sameObstacles(s.world.Obstacles, snapshot.Obstacles) {
		s.player.SetObstacles(snapshot.Obstacles)
	}
	s.world = snapshot

	if local, ok := snapshot.Players[s.playerID]; ok {
		s.player.Reconcile(local, now)
	} else if s.player.Placed() {
		// pruned or the session was recreated; the next move spawns us again
		log.Warn("Player %s missing from session %s, rejoining", s.playerID, s.code)
		s.player.Reset()
	}
	s.remotePlayers.Sync(objects.RemotePlayerSamples(snapshot.Players, s.playerID), now)
}

func (s *Session) onProjectiles(resp *messages.ProjectilesResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectiles.Sync(objects.ProjectileSamples(resp.Projectiles), s.now().UnixMilli())
}

func (s *Session) onExplosives(resp *messages.ExplosivesResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.explosives.Sync(objects.ExplosiveSamples(resp.Explosives), s.now().UnixMilli())
}

func (s *Session) onShot(resp *messages.IntentResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.ConfirmShot(resp, s.scheduler.ServerTime())
}

func sameObstacles(a, b []*messages.ObstacleSnapshot) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if *a[i] != *b[i] {
			return false
		}
	}
	return true
}
