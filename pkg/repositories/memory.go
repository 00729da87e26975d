package repositories

import (
	"context"
	"sync"

	"github.com/cbodonnell/arena/pkg/repositories/models"
)

// MemoryRepository keeps events in process memory. Events are lost on restart.
type MemoryRepository struct {
	lock   sync.RWMutex
	nextID int64
	events map[string][]*models.MatchEvent
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		events: make(map[string][]*models.MatchEvent),
	}
}

func (r *MemoryRepository) Close(ctx context.Context) error {
	return nil
}

func (r *MemoryRepository) SaveMatchEvents(ctx context.Context, events []*models.MatchEvent) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, e := range events {
		r.nextID++
		stored := *e
		stored.ID = r.nextID
		r.events[e.SessionCode] = append(r.events[e.SessionCode], &stored)
	}
	return nil
}

func (r *MemoryRepository) ListMatchEvents(ctx context.Context, sessionCode string, limit int) ([]*models.MatchEvent, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	stored := r.events[sessionCode]
	if len(stored) == 0 {
		return nil, &ErrNotFound{}
	}

	limit = clampLimit(limit)
	events := make([]*models.MatchEvent, 0, limit)
	for i := len(stored) - 1; i >= 0 && len(events) < limit; i-- {
		e := *stored[i]
		events = append(events, &e)
	}
	return events, nil
}
