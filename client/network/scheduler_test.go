package network

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cbodonnell/arena/pkg/messages"
	mocks "github.com/cbodonnell/arena/mocks/github.com/cbodonnell/arena/client/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const testCode = "ABC123"

// fastOptions ticks every loop quickly so tests observe several rounds
func fastOptions() SchedulerOptions {
	return SchedulerOptions{
		MovementInterval:   5 * time.Millisecond,
		WorldInterval:      5 * time.Millisecond,
		ProjectileInterval: 5 * time.Millisecond,
		ExplosiveInterval:  5 * time.Millisecond,
		ShootCheckInterval: 5 * time.Millisecond,
		RequestTimeout:     time.Second,
		AbandonAfter:       time.Minute,
		ShotRate:           rate.Inf,
		ShotBurst:          1,
	}
}

// idleOptions only ticks the world pull
func idleOptions() SchedulerOptions {
	opts := fastOptions()
	opts.MovementInterval = time.Hour
	opts.ProjectileInterval = time.Hour
	opts.ExplosiveInterval = time.Hour
	opts.ShootCheckInterval = time.Hour
	return opts
}

func TestScheduler_pollsEveryChannel(t *testing.T) {
	transport := mocks.NewTransport(t)
	var calls atomic.Int64
	count := func() { calls.Add(1) }

	transport.EXPECT().World(mock.Anything, testCode).RunAndReturn(func(ctx context.Context, code string) (*messages.WorldSnapshot, error) {
		count()
		return messages.EmptyWorldSnapshot(code, 1000), nil
	}).Maybe()
	transport.EXPECT().Projectiles(mock.Anything, testCode).RunAndReturn(func(ctx context.Context, code string) (*messages.ProjectilesResponse, error) {
		count()
		return &messages.ProjectilesResponse{Timestamp: 1000}, nil
	}).Maybe()
	transport.EXPECT().Explosives(mock.Anything, testCode).RunAndReturn(func(ctx context.Context, code string) (*messages.ExplosivesResponse, error) {
		count()
		return &messages.ExplosivesResponse{Timestamp: 1000}, nil
	}).Maybe()
	transport.EXPECT().SubmitIntent(mock.Anything, testCode, mock.Anything).RunAndReturn(func(ctx context.Context, code string, intent *messages.Intent) (*messages.IntentResponse, error) {
		count()
		if intent.Kind == messages.IntentKindMove {
			return nil, errors.New("connection reset")
		}
		return &messages.IntentResponse{Success: true}, nil
	}).Maybe()

	var worlds, projectiles, explosives atomic.Int64
	var sequence atomic.Uint64
	scheduler := NewScheduler(NewSchedulerOptions{
		Transport: transport,
		Code:      testCode,
		Options:   fastOptions(),
		Movement: func() *messages.Intent {
			return &messages.Intent{Kind: messages.IntentKindMove, PlayerID: "p1", Sequence: sequence.Add(1)}
		},
		OnWorld:       func(*messages.WorldSnapshot) { worlds.Add(1) },
		OnProjectiles: func(*messages.ProjectilesResponse) { projectiles.Add(1) },
		OnExplosives:  func(*messages.ExplosivesResponse) { explosives.Add(1) },
	})
	require.NoError(t, scheduler.Start(context.Background()))

	assert.Eventually(t, func() bool {
		stats := scheduler.Stats()
		return stats.WorldReceived >= 3 && stats.ProjectilesPulled >= 3 && stats.ExplosivesPulled >= 3 && stats.MovementDropped >= 3
	}, 2*time.Second, 5*time.Millisecond)

	scheduler.Stop()
	select {
	case <-scheduler.Done():
	default:
		t.Fatal("Done should be closed after Stop")
	}
	assert.NoError(t, scheduler.Err())

	stats := scheduler.Stats()
	assert.Zero(t, stats.MovementSent)
	// every successful pull was either delivered or discarded by the stop
	pulled := stats.WorldReceived + stats.ProjectilesPulled + stats.ExplosivesPulled
	delivered := uint64(worlds.Load() + projectiles.Load() + explosives.Load())
	assert.Equal(t, pulled, delivered+stats.Discarded)

	// no requests once stopped
	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, calls.Load())
}

func TestScheduler_shotRetriedAfterFailure(t *testing.T) {
	transport := mocks.NewTransport(t)
	transport.EXPECT().World(mock.Anything, testCode).Return(messages.EmptyWorldSnapshot(testCode, 0), nil).Maybe()

	var attempts atomic.Int64
	transport.EXPECT().SubmitIntent(mock.Anything, testCode, mock.Anything).RunAndReturn(func(ctx context.Context, code string, intent *messages.Intent) (*messages.IntentResponse, error) {
		if intent.Kind != messages.IntentKindShoot {
			return nil, errors.New("unexpected intent")
		}
		if attempts.Add(1) == 1 {
			return nil, errors.New("timeout")
		}
		return &messages.IntentResponse{Success: true, Accepted: true}, nil
	}).Maybe()

	opts := idleOptions()
	opts.ShootCheckInterval = 5 * time.Millisecond
	var confirmed atomic.Int64
	scheduler := NewScheduler(NewSchedulerOptions{
		Transport: transport,
		Code:      testCode,
		Options:   opts,
		ShotIntent: func(now time.Time) (*messages.Intent, bool) {
			return &messages.Intent{Kind: messages.IntentKindShoot, PlayerID: "p1"}, true
		},
		OnShot: func(resp *messages.IntentResponse) {
			if resp.Accepted {
				confirmed.Add(1)
			}
		},
	})
	require.NoError(t, scheduler.Start(context.Background()))
	defer scheduler.Stop()

	scheduler.RequestShot()
	assert.Eventually(t, func() bool { return confirmed.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	// the flag was consumed by the successful attempt
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int64(2), attempts.Load())
	assert.False(t, scheduler.ShotPending())

	stats := scheduler.Stats()
	assert.Equal(t, uint64(1), stats.ShotsFailed)
	assert.Equal(t, uint64(1), stats.ShotsSent)
}

func TestScheduler_shotWaitsForLocalCooldown(t *testing.T) {
	transport := mocks.NewTransport(t)
	transport.EXPECT().World(mock.Anything, testCode).Return(messages.EmptyWorldSnapshot(testCode, 0), nil).Maybe()

	opts := idleOptions()
	opts.ShootCheckInterval = 5 * time.Millisecond
	var ready atomic.Bool
	scheduler := NewScheduler(NewSchedulerOptions{
		Transport: transport,
		Code:      testCode,
		Options:   opts,
		ShotIntent: func(now time.Time) (*messages.Intent, bool) {
			return &messages.Intent{Kind: messages.IntentKindShoot, PlayerID: "p1"}, ready.Load()
		},
	})
	require.NoError(t, scheduler.Start(context.Background()))
	defer scheduler.Stop()

	scheduler.RequestShot()
	time.Sleep(30 * time.Millisecond)
	assert.True(t, scheduler.ShotPending())
	assert.Zero(t, scheduler.Stats().ShotsSent)

	transport.EXPECT().SubmitIntent(mock.Anything, testCode, mock.Anything).Return(&messages.IntentResponse{Success: true, Accepted: true}, nil).Once()
	ready.Store(true)
	assert.Eventually(t, func() bool { return scheduler.Stats().ShotsSent == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.False(t, scheduler.ShotPending())
}

func TestScheduler_rateGate(t *testing.T) {
	transport := mocks.NewTransport(t)
	transport.EXPECT().World(mock.Anything, testCode).Return(messages.EmptyWorldSnapshot(testCode, 0), nil).Maybe()
	transport.EXPECT().SubmitIntent(mock.Anything, testCode, mock.Anything).Return(&messages.IntentResponse{Success: true, Accepted: true}, nil).Once()

	opts := idleOptions()
	opts.ShootCheckInterval = 5 * time.Millisecond
	opts.ShotRate = rate.Every(time.Hour)
	scheduler := NewScheduler(NewSchedulerOptions{
		Transport: transport,
		Code:      testCode,
		Options:   opts,
		ShotIntent: func(now time.Time) (*messages.Intent, bool) {
			return &messages.Intent{Kind: messages.IntentKindShoot, PlayerID: "p1"}, true
		},
	})
	require.NoError(t, scheduler.Start(context.Background()))
	defer scheduler.Stop()

	scheduler.RequestShot()
	assert.Eventually(t, func() bool { return scheduler.Stats().ShotsSent == 1 }, 2*time.Second, 5*time.Millisecond)

	scheduler.RequestShot()
	time.Sleep(30 * time.Millisecond)
	assert.True(t, scheduler.ShotPending())
	assert.Equal(t, uint64(1), scheduler.Stats().ShotsSent)
}

func TestScheduler_abandonsSilentSession(t *testing.T) {
	transport := mocks.NewTransport(t)
	transport.EXPECT().World(mock.Anything, testCode).Return(nil, errors.New("connection refused")).Maybe()

	opts := idleOptions()
	opts.AbandonAfter = 30 * time.Millisecond
	scheduler := NewScheduler(NewSchedulerOptions{
		Transport: transport,
		Code:      testCode,
		Options:   opts,
	})
	require.NoError(t, scheduler.Start(context.Background()))

	select {
	case <-scheduler.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not give up on the session")
	}
	assert.True(t, IsSessionAbandoned(scheduler.Err()))
	assert.NotZero(t, scheduler.Stats().WorldFailed)

	// Stop after abandonment is a no-op
	scheduler.Stop()
}

func TestScheduler_discardsInFlightResultAfterStop(t *testing.T) {
	transport := mocks.NewTransport(t)
	entered := make(chan struct{})
	var once atomic.Bool
	transport.EXPECT().World(mock.Anything, testCode).RunAndReturn(func(ctx context.Context, code string) (*messages.WorldSnapshot, error) {
		if once.CompareAndSwap(false, true) {
			close(entered)
		}
		<-ctx.Done()
		// the response arrived anyway
		return messages.EmptyWorldSnapshot(code, 0), nil
	}).Maybe()

	var delivered atomic.Int64
	scheduler := NewScheduler(NewSchedulerOptions{
		Transport: transport,
		Code:      testCode,
		Options:   idleOptions(),
		OnWorld:   func(*messages.WorldSnapshot) { delivered.Add(1) },
	})
	require.NoError(t, scheduler.Start(context.Background()))

	<-entered
	scheduler.Stop()

	assert.Zero(t, delivered.Load())
	assert.Equal(t, uint64(1), scheduler.Stats().Discarded)
}

func TestScheduler_lifecycle(t *testing.T) {
	transport := mocks.NewTransport(t)
	transport.EXPECT().World(mock.Anything, testCode).Return(messages.EmptyWorldSnapshot(testCode, 0), nil).Maybe()

	scheduler := NewScheduler(NewSchedulerOptions{Transport: transport, Code: testCode, Options: idleOptions()})
	require.NoError(t, scheduler.Start(context.Background()))
	assert.Error(t, scheduler.Start(context.Background()))
	scheduler.Stop()
	scheduler.Stop()

	unstarted := NewScheduler(NewSchedulerOptions{Transport: transport, Code: testCode})
	unstarted.Stop()
	<-unstarted.Done()
	assert.Error(t, unstarted.Start(context.Background()))
}

func TestScheduler_parentContextCancelled(t *testing.T) {
	transport := mocks.NewTransport(t)
	transport.EXPECT().World(mock.Anything, testCode).Return(messages.EmptyWorldSnapshot(testCode, 0), nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	scheduler := NewScheduler(NewSchedulerOptions{Transport: transport, Code: testCode, Options: idleOptions()})
	require.NoError(t, scheduler.Start(ctx))
	cancel()

	select {
	case <-scheduler.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop with its context")
	}
	assert.NoError(t, scheduler.Err())
}

func TestScheduler_serverTime(t *testing.T) {
	transport := mocks.NewTransport(t)
	local := time.UnixMilli(10_000)
	transport.EXPECT().World(mock.Anything, testCode).RunAndReturn(func(ctx context.Context, code string) (*messages.WorldSnapshot, error) {
		return messages.EmptyWorldSnapshot(code, 50_000), nil
	}).Maybe()

	scheduler := NewScheduler(NewSchedulerOptions{
		Transport: transport,
		Code:      testCode,
		Options:   idleOptions(),
		Now:       func() time.Time { return local },
	})
	require.NoError(t, scheduler.Start(context.Background()))
	assert.Eventually(t, func() bool { return scheduler.Stats().WorldReceived > 0 }, 2*time.Second, 5*time.Millisecond)
	scheduler.Stop()

	assert.Equal(t, 0.0, scheduler.Ping())
	assert.Equal(t, int64(50_000), scheduler.ServerTime())
}

func TestRemoveOutlierRTTs(t *testing.T) {
	tests := []struct {
		name string
		rtts []int64
		want []int64
	}{
		{name: "empty", rtts: nil, want: []int64{}},
		{name: "steady", rtts: []int64{40, 42, 41}, want: []int64{40, 42, 41}},
		{name: "spike", rtts: []int64{40, 42, 41, 400}, want: []int64{40, 42, 41}},
		{name: "small values kept", rtts: []int64{2, 3, 15}, want: []int64{2, 3, 15}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, removeOutlierRTTs(tt.rtts))
		})
	}
}

func TestLatencyTracker(t *testing.T) {
	tracker := &latencyTracker{}
	tracker.record(1000, 1040, 5000)
	tracker.record(2000, 2060, 6020)
	for i := 0; i < maxRecentRTTs; i++ {
		tracker.record(3000, 3050, 7025)
	}
	ping, offset := tracker.estimate()
	assert.Equal(t, 50.0, ping)
	assert.Equal(t, int64(4000), offset)
	assert.Len(t, tracker.recentRTTs, maxRecentRTTs)
}
