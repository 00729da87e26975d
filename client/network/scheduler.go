package network

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cbodonnell/arena/pkg/log"
	"github.com/cbodonnell/arena/pkg/messages"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// SchedulerOptions are the cadences of the synchronization loops.
type SchedulerOptions struct {
	MovementInterval   time.Duration
	WorldInterval      time.Duration
	ProjectileInterval time.Duration
	ExplosiveInterval  time.Duration
	ShootCheckInterval time.Duration
	// RequestTimeout bounds every single request
	RequestTimeout time.Duration
	// AbandonAfter is how long the world may go unfetched before the session is given up
	AbandonAfter time.Duration
	// ShotRate and ShotBurst gate how often shoot requests may be issued
	ShotRate  rate.Limit
	ShotBurst int
}

// DefaultSchedulerOptions returns the cadences used by the game client.
func DefaultSchedulerOptions() SchedulerOptions {
	return SchedulerOptions{
		MovementInterval:   100 * time.Millisecond,
		WorldInterval:      200 * time.Millisecond,
		ProjectileInterval: 66 * time.Millisecond,
		ExplosiveInterval:  66 * time.Millisecond,
		ShootCheckInterval: 50 * time.Millisecond,
		RequestTimeout:     2 * time.Second,
		AbandonAfter:       10 * time.Second,
		ShotRate:           rate.Every(500 * time.Millisecond),
		ShotBurst:          1,
	}
}

// DeliveryStats counts what happened to every scheduled request.
type DeliveryStats struct {
	MovementSent      uint64
	MovementDropped   uint64
	WorldReceived     uint64
	WorldFailed       uint64
	ProjectilesPulled uint64
	ProjectilesMissed uint64
	ExplosivesPulled  uint64
	ExplosivesMissed  uint64
	ShotsSent         uint64
	ShotsFailed       uint64
	Discarded         uint64
}

type deliveryCounters struct {
	movementSent      atomic.Uint64
	movementDropped   atomic.Uint64
	worldReceived     atomic.Uint64
	worldFailed       atomic.Uint64
	projectilesPulled atomic.Uint64
	projectilesMissed atomic.Uint64
	explosivesPulled  atomic.Uint64
	explosivesMissed  atomic.Uint64
	shotsSent         atomic.Uint64
	shotsFailed       atomic.Uint64
	discarded         atomic.Uint64
}

// NewSchedulerOptions contains options for creating a new Scheduler.
// The callbacks run on the scheduler goroutines and must not call Stop.
type NewSchedulerOptions struct {
	Transport Transport
	Code      string
	Options   SchedulerOptions
	// Movement returns the move intent to push, or nil to skip the tick
	Movement func() *messages.Intent
	// ShotIntent returns the shoot intent when the local cooldown allows a shot
	ShotIntent func(now time.Time) (*messages.Intent, bool)
	// OnWorld, OnProjectiles and OnExplosives receive every successful pull in receipt order
	OnWorld       func(snapshot *messages.WorldSnapshot)
	OnProjectiles func(resp *messages.ProjectilesResponse)
	OnExplosives  func(resp *messages.ExplosivesResponse)
	// OnShot receives the server's answer to an issued shoot intent
	OnShot func(resp *messages.IntentResponse)
	Now    func() time.Time
}

// Scheduler runs the movement push, the world, projectile and explosive pulls
// and the shoot check as independent loops against one session.
type Scheduler struct {
	transport Transport
	code      string
	opts      SchedulerOptions
	callbacks NewSchedulerOptions
	now       func() time.Time

	limiter     *rate.Limiter
	shotPending atomic.Bool
	lastWorldAt atomic.Int64
	stats       deliveryCounters
	latency     latencyTracker

	mu         sync.Mutex
	generation uint64
	started    bool
	cancel     context.CancelFunc
	done       chan struct{}
	doneOnce   sync.Once
	err        error
}

// NewScheduler creates a new Scheduler. Zero cadences fall back to the defaults.
func NewScheduler(opts NewSchedulerOptions) *Scheduler {
	schedulerOpts := withDefaults(opts.Options)
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		transport: opts.Transport,
		code:      opts.Code,
		opts:      schedulerOpts,
		callbacks: opts,
		now:       now,
		limiter:   rate.NewLimiter(schedulerOpts.ShotRate, schedulerOpts.ShotBurst),
		done:      make(chan struct{}),
	}
}

func withDefaults(opts SchedulerOptions) SchedulerOptions {
	defaults := DefaultSchedulerOptions()
	if opts.MovementInterval <= 0 {
		opts.MovementInterval = defaults.MovementInterval
	}
	if opts.WorldInterval <= 0 {
		opts.WorldInterval = defaults.WorldInterval
	}
	if opts.ProjectileInterval <= 0 {
		opts.ProjectileInterval = defaults.ProjectileInterval
	}
	if opts.ExplosiveInterval <= 0 {
		opts.ExplosiveInterval = defaults.ExplosiveInterval
	}
	if opts.ShootCheckInterval <= 0 {
		opts.ShootCheckInterval = defaults.ShootCheckInterval
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaults.RequestTimeout
	}
	if opts.AbandonAfter <= 0 {
		opts.AbandonAfter = defaults.AbandonAfter
	}
	if opts.ShotRate <= 0 {
		opts.ShotRate = defaults.ShotRate
	}
	if opts.ShotBurst <= 0 {
		opts.ShotBurst = defaults.ShotBurst
	}
	return opts
}

// Start launches every loop. The loops stop when ctx is cancelled, when Stop
// is called or when the session is abandoned.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return &ErrSchedulerStarted{}
	}
	s.started = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	generation := s.generation
	s.lastWorldAt.Store(s.now().UnixMilli())

	loops := []struct {
		interval time.Duration
		run      func(ctx context.Context, generation uint64) error
	}{
		{s.opts.MovementInterval, s.pushMovement},
		{s.opts.WorldInterval, s.pullWorld},
		{s.opts.ProjectileInterval, s.pullProjectiles},
		{s.opts.ExplosiveInterval, s.pullExplosives},
		{s.opts.ShootCheckInterval, s.checkShot},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, loop := range loops {
		loop := loop
		g.Go(func() error {
			return s.every(gctx, loop.interval, func(ctx context.Context) error {
				return loop.run(ctx, generation)
			})
		})
	}

	go func() {
		err := g.Wait()
		cancel()
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		if err != nil {
			log.Warn("Scheduler for session %s stopped: %v", s.code, err)
		}
		s.mu.Lock()
		s.err = err
		s.generation++
		s.mu.Unlock()
		s.closeDone()
	}()

	log.Debug("Scheduler started for session %s", s.code)
	return nil
}

// Stop cancels every loop and waits for them to return. Results of requests
// still in flight are discarded.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.started = true
		s.generation++
		s.mu.Unlock()
		s.closeDone()
		return
	}
	s.generation++
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	<-s.done
}

func (s *Scheduler) closeDone() {
	s.doneOnce.Do(func() { close(s.done) })
}

// Done is closed once every loop has returned.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Err returns why the loops stopped, nil after a Stop or a cancelled context.
func (s *Scheduler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// RequestShot marks a shot as pending. At most one shot is pending at a time.
func (s *Scheduler) RequestShot() {
	s.shotPending.Store(true)
}

// ShotPending reports whether a requested shot has not been issued yet.
func (s *Scheduler) ShotPending() bool {
	return s.shotPending.Load()
}

// Ping returns the smoothed round trip time in milliseconds.
func (s *Scheduler) Ping() float64 {
	ping, _ := s.latency.estimate()
	return ping
}

// ServerTime estimates the current server clock in unix milliseconds.
func (s *Scheduler) ServerTime() int64 {
	_, offset := s.latency.estimate()
	return s.now().UnixMilli() + offset
}

func (s *Scheduler) Stats() DeliveryStats {
	return DeliveryStats{
		MovementSent:      s.stats.movementSent.Load(),
		MovementDropped:   s.stats.movementDropped.Load(),
		WorldReceived:     s.stats.worldReceived.Load(),
		WorldFailed:       s.stats.worldFailed.Load(),
		ProjectilesPulled: s.stats.projectilesPulled.Load(),
		ProjectilesMissed: s.stats.projectilesMissed.Load(),
		ExplosivesPulled:  s.stats.explosivesPulled.Load(),
		ExplosivesMissed:  s.stats.explosivesMissed.Load(),
		ShotsSent:         s.stats.shotsSent.Load(),
		ShotsFailed:       s.stats.shotsFailed.Load(),
		Discarded:         s.stats.discarded.Load(),
	}
}

func (s *Scheduler) every(ctx context.Context, interval time.Duration, fn func(ctx context.Context) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := fn(ctx); err != nil {
				return err
			}
		}
	}
}

// deliver runs fn only if the scheduler has not been stopped since generation.
// Holding the lock keeps Stop from returning while a result is being applied.
func (s *Scheduler) deliver(generation uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		s.stats.discarded.Add(1)
		return false
	}
	if fn != nil {
		fn()
	}
	return true
}

func (s *Scheduler) current(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation == generation
}

func (s *Scheduler) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opts.RequestTimeout)
}

func (s *Scheduler) pushMovement(ctx context.Context, generation uint64) error {
	if s.callbacks.Movement == nil || !s.current(generation) {
		return nil
	}
	intent := s.callbacks.Movement()
	if intent == nil {
		return nil
	}

	reqCtx, cancel := s.requestContext(ctx)
	defer cancel()
	if _, err := s.transport.SubmitIntent(reqCtx, s.code, intent); err != nil {
		s.stats.movementDropped.Add(1)
		log.Trace("Dropped movement %d: %v", intent.Sequence, err)
		return nil
	}
	s.stats.movementSent.Add(1)
	return nil
}

func (s *Scheduler) pullWorld(ctx context.Context, generation uint64) error {
	if !s.current(generation) {
		return nil
	}

	reqCtx, cancel := s.requestContext(ctx)
	defer cancel()
	sentAt := s.now()
	snapshot, err := s.transport.World(reqCtx, s.code)
	receivedAt := s.now()
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		s.stats.worldFailed.Add(1)
		log.Debug("Failed to pull world for session %s: %v", s.code, err)
		if receivedAt.UnixMilli()-s.lastWorldAt.Load() >= s.opts.AbandonAfter.Milliseconds() {
			return &ErrSessionAbandoned{Code: s.code}
		}
		return nil
	}

	s.lastWorldAt.Store(receivedAt.UnixMilli())
	s.stats.worldReceived.Add(1)
	s.latency.record(sentAt.UnixMilli(), receivedAt.UnixMilli(), snapshot.Timestamp)
	s.deliver(generation, func() {
		if s.callbacks.OnWorld != nil {
			s.callbacks.OnWorld(snapshot)
		}
	})
	return nil
}

func (s *Scheduler) pullProjectiles(ctx context.Context, generation uint64) error {
	if !s.current(generation) {
		return nil
	}

	reqCtx, cancel := s.requestContext(ctx)
	defer cancel()
	resp, err := s.transport.Projectiles(reqCtx, s.code)
	if err != nil {
		s.stats.projectilesMissed.Add(1)
		log.Trace("Missed projectile pull: %v", err)
		return nil
	}
	s.stats.projectilesPulled.Add(1)
	s.deliver(generation, func() {
		if s.callbacks.OnProjectiles != nil {
			s.callbacks.OnProjectiles(resp)
		}
	})
	return nil
}

func (s *Scheduler) pullExplosives(ctx context.Context, generation uint64) error {
	if !s.current(generation) {
		return nil
	}

	reqCtx, cancel := s.requestContext(ctx)
	defer cancel()
	resp, err := s.transport.Explosives(reqCtx, s.code)
	if err != nil {
		s.stats.explosivesMissed.Add(1)
		log.Trace("Missed explosive pull: %v", err)
		return nil
	}
	s.stats.explosivesPulled.Add(1)
	s.deliver(generation, func() {
		if s.callbacks.OnExplosives != nil {
			s.callbacks.OnExplosives(resp)
		}
	})
	return nil
}

func (s *Scheduler) checkShot(ctx context.Context, generation uint64) error {
	if !s.shotPending.Load() || s.callbacks.ShotIntent == nil || !s.current(generation) {
		return nil
	}
	now := s.now()
	intent, ok := s.callbacks.ShotIntent(now)
	if !ok {
		return nil
	}
	if !s.limiter.AllowN(now, 1) {
		return nil
	}
	if !s.shotPending.CompareAndSwap(true, false) {
		return nil
	}

	reqCtx, cancel := s.requestContext(ctx)
	defer cancel()
	resp, err := s.transport.SubmitIntent(reqCtx, s.code, intent)
	if err != nil {
		s.shotPending.Store(true)
		s.stats.shotsFailed.Add(1)
		log.Warn("Failed to shoot in session %s: %v", s.code, err)
		return nil
	}
	s.stats.shotsSent.Add(1)
	s.deliver(generation, func() {
		if s.callbacks.OnShot != nil {
			s.callbacks.OnShot(resp)
		}
	})
	return nil
}
