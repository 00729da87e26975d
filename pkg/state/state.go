package state

import (
	"context"
	"fmt"
	"time"

	gametypes "github.com/cbodonnell/arena/pkg/game/types"
)

// UpdateFunc mutates a world under its session's lock.
// Returning remove=true deletes the session once the function returns.
type UpdateFunc func(world *gametypes.World) (remove bool, err error)

// SessionStore provides shared access to the world of every session.
// Implementations must be thread-safe, and must run at most one
// UpdateFunc per session at a time.
type SessionStore interface {
	// Create replaces any world stored under code with a fresh one and returns a copy of it.
	Create(ctx context.Context, code string) (*gametypes.World, error)
	// Get returns a copy of the world stored under code.
	Get(ctx context.Context, code string) (*gametypes.World, error)
	// Update runs fn against the world stored under code, creating it first if absent.
	Update(ctx context.Context, code string, fn UpdateFunc) error
	// UpdateExisting runs fn against the world stored under code,
	// or returns ErrSessionNotFound if there is none.
	UpdateExisting(ctx context.Context, code string, fn UpdateFunc) error
	// Delete removes the world stored under code and reports whether there was one.
	Delete(ctx context.Context, code string) bool
	// EvictIdle deletes every world not updated within timeout of now (ms) and returns their codes.
	EvictIdle(ctx context.Context, now int64, timeout time.Duration) []string
	// Len returns the number of live sessions.
	Len() int
}

type ErrSessionNotFound struct {
	Code string
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("session %s not found", e.Code)
}

func IsSessionNotFound(err error) bool {
	_, ok := err.(*ErrSessionNotFound)
	return ok
}
