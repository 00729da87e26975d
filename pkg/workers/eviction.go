package workers

import (
	"context"
	"time"

	"github.com/cbodonnell/arena/pkg/log"
	"github.com/cbodonnell/arena/pkg/state"
)

type EvictionWorker struct {
	store       state.SessionStore
	interval    time.Duration
	idleTimeout time.Duration
	now         func() time.Time
}

type NewEvictionWorkerOptions struct {
	Store       state.SessionStore
	Interval    time.Duration
	IdleTimeout time.Duration
	// Now is the server clock, defaults to time.Now
	Now func() time.Time
}

// NewEvictionWorker creates a new EvictionWorker.
// The worker periodically deletes sessions that have not been updated within the idle timeout.
func NewEvictionWorker(opts NewEvictionWorkerOptions) *EvictionWorker {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &EvictionWorker{
		store:       opts.Store,
		interval:    opts.Interval,
		idleTimeout: opts.IdleTimeout,
		now:         now,
	}
}

// Start runs the sweep every interval until ctx is cancelled.
func (w *EvictionWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("Eviction worker stopped")
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep evicts idle sessions once and returns their codes.
// A panic during the sweep is logged and does not stop the worker.
func (w *EvictionWorker) Sweep(ctx context.Context) (evicted []string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Recovered from panic during session sweep: %v", r)
		}
	}()

	evicted = w.store.EvictIdle(ctx, w.now().UnixMilli(), w.idleTimeout)
	for _, code := range evicted {
		log.Info("Evicted idle session %s", code)
	}
	return evicted
}
