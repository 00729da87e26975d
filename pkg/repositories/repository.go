package repositories

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/url"
	"sort"

	"github.com/cbodonnell/arena/pkg/repositories/models"
)

const (
	// DefaultListLimit is used when a list is requested without a positive limit
	DefaultListLimit = 50
	// MaxListLimit caps the size of a list
	MaxListLimit = 500
)

//go:embed migrations
var migrations embed.FS

type Repository interface {
	Close(ctx context.Context) error
	// SaveMatchEvents stores events in one batch. The ID of each event is ignored.
	SaveMatchEvents(ctx context.Context, events []*models.MatchEvent) error
	// ListMatchEvents returns the most recent events of a session, newest first.
	// It returns ErrNotFound if the session has no events.
	ListMatchEvents(ctx context.Context, sessionCode string, limit int) ([]*models.MatchEvent, error)
}

// NewRepository picks a Repository implementation from the scheme of a database URL:
// memory://, sqlite://<path> or postgresql://...
func NewRepository(ctx context.Context, databaseURL string) (Repository, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %v", err)
	}

	switch u.Scheme {
	case "memory":
		return NewMemoryRepository(), nil
	case "sqlite":
		path := u.Host + u.Path
		if path == "" {
			return nil, fmt.Errorf("sqlite database url is missing a path")
		}
		return NewSQLiteRepository(ctx, path)
	case "postgres", "postgresql":
		return NewPostgresRepository(ctx, u.String())
	default:
		return nil, fmt.Errorf("unknown database type %s", u.Scheme)
	}
}

// readMigrations returns the migration scripts for a dialect in file name order.
func readMigrations(dialect string) ([]string, error) {
	dir := "migrations/" + dialect
	entries, err := fs.ReadDir(migrations, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	scripts := make([]string, 0, len(names))
	for _, name := range names {
		b, err := fs.ReadFile(migrations, dir+"/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %v", name, err)
		}
		scripts = append(scripts, string(b))
	}
	return scripts, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
