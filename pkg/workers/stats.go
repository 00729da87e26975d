package workers

import (
	"context"
	"time"

	gametypes "github.com/cbodonnell/arena/pkg/game/types"
	"github.com/cbodonnell/arena/pkg/log"
	"github.com/cbodonnell/arena/pkg/queue"
	"github.com/cbodonnell/arena/pkg/repositories"
	"github.com/cbodonnell/arena/pkg/repositories/models"
)

// finalFlushTimeout bounds the flush run after the worker is cancelled
const finalFlushTimeout = 5 * time.Second

type StatsWorker struct {
	repository repositories.Repository
	eventQueue queue.Queue
	interval   time.Duration
}

type NewStatsWorkerOptions struct {
	Repository repositories.Repository
	EventQueue queue.Queue
	Interval   time.Duration
}

// NewStatsWorker creates a new StatsWorker.
// The worker drains gameplay events from the queue and
// periodically saves them to the repository.
func NewStatsWorker(opts NewStatsWorkerOptions) *StatsWorker {
	return &StatsWorker{
		repository: opts.Repository,
		eventQueue: opts.EventQueue,
		interval:   opts.Interval,
	}
}

func (w *StatsWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), finalFlushTimeout)
			w.Flush(flushCtx)
			cancel()
			log.Debug("Stats worker stopped")
			return
		case <-ticker.C:
			w.Flush(ctx)
		}
	}
}

// Flush saves every queued event and returns how many were saved.
func (w *StatsWorker) Flush(ctx context.Context) (saved int) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Recovered from panic while flushing match events: %v", r)
		}
	}()

	items, err := w.eventQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read events from queue: %v", err)
		return 0
	}
	if len(items) == 0 {
		return 0
	}

	events := make([]*models.MatchEvent, 0, len(items))
	for _, item := range items {
		event, ok := item.(gametypes.Event)
		if !ok {
			log.Warn("Unhandled item type in event queue: %T", item)
			continue
		}
		events = append(events, MatchEventFromEvent(event))
	}

	if err := w.repository.SaveMatchEvents(ctx, events); err != nil {
		log.Error("Failed to save %d match events: %v", len(events), err)
		return 0
	}
	log.Trace("Saved %d match events", len(events))
	return len(events)
}

func MatchEventFromEvent(event gametypes.Event) *models.MatchEvent {
	return &models.MatchEvent{
		SessionCode: event.SessionCode,
		Type:        string(event.Type),
		Timestamp:   event.Timestamp,
		PlayerID:    event.PlayerID,
		SourceID:    event.SourceID,
		EntityID:    event.EntityID,
		Cause:       event.Cause,
		Damage:      event.Damage,
		X:           event.Position.X,
		Y:           event.Position.Y,
	}
}
