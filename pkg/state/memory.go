package state

import (
	"context"
	"math/rand"
	"sync"
	"time"

	gametypes "github.com/cbodonnell/arena/pkg/game/types"
	"github.com/cbodonnell/arena/pkg/log"
)

// session owns one world. Lock order is session, then store, never the reverse.
type session struct {
	lock    sync.Mutex
	code    string
	world   *gametypes.World
	deleted bool
}

// InMemorySessionStore keeps every world in process memory.
type InMemorySessionStore struct {
	lock        sync.RWMutex
	sessions    map[string]*session
	newWorld    func(now int64) *gametypes.World
	now         func() time.Time
	idleTimeout time.Duration
}

// NewInMemorySessionStoreOptions contains options for creating a new InMemorySessionStore.
type NewInMemorySessionStoreOptions struct {
	// NewWorld creates the world for a new session, defaults to randomly placed obstacles
	NewWorld func(now int64) *gametypes.World
	// Now is the server clock, defaults to time.Now
	Now func() time.Time
	// IdleTimeout makes worlds idle for longer than this absent on access,
	// independently of the eviction sweep. Zero disables the check.
	IdleTimeout time.Duration
}

func NewInMemorySessionStore(opts NewInMemorySessionStoreOptions) *InMemorySessionStore {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newWorld := opts.NewWorld
	if newWorld == nil {
		newWorld = func(now int64) *gametypes.World {
			return gametypes.NewWorld(rand.New(rand.NewSource(time.Now().UnixNano())), now)
		}
	}
	return &InMemorySessionStore{
		sessions:    make(map[string]*session),
		newWorld:    newWorld,
		now:         now,
		idleTimeout: opts.IdleTimeout,
	}
}

func (m *InMemorySessionStore) Create(ctx context.Context, code string) (*gametypes.World, error) {
	s := &session{code: code, world: m.newWorld(m.now().UnixMilli())}
	world := s.world.Copy()

	m.lock.Lock()
	old := m.sessions[code]
	m.sessions[code] = s
	m.lock.Unlock()

	if old != nil {
		old.lock.Lock()
		old.deleted = true
		old.lock.Unlock()
	}
	return world, nil
}

func (m *InMemorySessionStore) Get(ctx context.Context, code string) (*gametypes.World, error) {
	var world *gametypes.World
	err := m.UpdateExisting(ctx, code, func(w *gametypes.World) (bool, error) {
		world = w.Copy()
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return world, nil
}

func (m *InMemorySessionStore) Update(ctx context.Context, code string, fn UpdateFunc) error {
	return m.update(ctx, code, true, fn)
}

func (m *InMemorySessionStore) UpdateExisting(ctx context.Context, code string, fn UpdateFunc) error {
	return m.update(ctx, code, false, fn)
}

func (m *InMemorySessionStore) update(ctx context.Context, code string, create bool, fn UpdateFunc) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s := m.lookup(code, create)
		if s == nil {
			return &ErrSessionNotFound{Code: code}
		}

		s.lock.Lock()
		if s.deleted {
			// lost a race with a delete, the next lookup sees the new state of the map
			s.lock.Unlock()
			continue
		}
		if m.expired(s.world) {
			log.Debug("Session %s expired on access", code)
			m.deleteLocked(s)
			s.lock.Unlock()
			continue
		}

		remove, err := fn(s.world)
		if remove {
			m.deleteLocked(s)
		}
		s.lock.Unlock()
		return err
	}
}

// lookup returns the session stored under code, creating it if asked to.
func (m *InMemorySessionStore) lookup(code string, create bool) *session {
	m.lock.RLock()
	s, ok := m.sessions[code]
	m.lock.RUnlock()
	if ok || !create {
		return s
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	if s, ok := m.sessions[code]; ok {
		return s
	}
	s = &session{code: code, world: m.newWorld(m.now().UnixMilli())}
	m.sessions[code] = s
	log.Debug("Created session %s", code)
	return s
}

func (m *InMemorySessionStore) expired(world *gametypes.World) bool {
	if m.idleTimeout <= 0 {
		return false
	}
	return m.now().UnixMilli()-world.LastUpdate > m.idleTimeout.Milliseconds()
}

// deleteLocked marks the session deleted and drops it from the map.
// The caller must hold s.lock.
func (m *InMemorySessionStore) deleteLocked(s *session) {
	s.deleted = true
	m.lock.Lock()
	if m.sessions[s.code] == s {
		delete(m.sessions, s.code)
	}
	m.lock.Unlock()
}

func (m *InMemorySessionStore) Delete(ctx context.Context, code string) bool {
	m.lock.RLock()
	s, ok := m.sessions[code]
	m.lock.RUnlock()
	if !ok {
		return false
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	if s.deleted {
		return false
	}
	m.deleteLocked(s)
	return true
}

func (m *InMemorySessionStore) EvictIdle(ctx context.Context, now int64, timeout time.Duration) []string {
	m.lock.RLock()
	sessions := make([]*session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.lock.RUnlock()

	var evicted []string
	for _, s := range sessions {
		if ctx.Err() != nil {
			break
		}
		s.lock.Lock()
		if !s.deleted && now-s.world.LastUpdate > timeout.Milliseconds() {
			m.deleteLocked(s)
			evicted = append(evicted, s.code)
		}
		s.lock.Unlock()
	}
	return evicted
}

func (m *InMemorySessionStore) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.sessions)
}
