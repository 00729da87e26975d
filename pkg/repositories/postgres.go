package repositories

import (
	"context"
	"fmt"

	"github.com/cbodonnell/arena/pkg/log"
	"github.com/cbodonnell/arena/pkg/repositories/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository connects to the database and runs the migrations.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string) (Repository, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %v", err)
	}

	var username string
	var database string
	err = pool.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to query database: %v", err)
	}
	log.Info("Connected to %s as %s", database, username)

	scripts, err := readMigrations("postgres")
	if err != nil {
		pool.Close()
		return nil, err
	}
	for i, migration := range scripts {
		if _, err := pool.Exec(ctx, migration); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to execute migration %d: %v", i+1, err)
		}
	}

	return &PostgresRepository{
		pool: pool,
	}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	r.pool.Close()
	return nil
}

func (r *PostgresRepository) SaveMatchEvents(ctx context.Context, events []*models.MatchEvent) error {
	if len(events) == 0 {
		return nil
	}

	q := `
	INSERT INTO match_events (session_code, type, timestamp, player_id, source_id, entity_id, cause, damage, x, y)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(q, e.SessionCode, e.Type, e.Timestamp, e.PlayerID, e.SourceID, e.EntityID, e.Cause, e.Damage, e.X, e.Y)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range events {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert match event: %v", err)
		}
	}

	return nil
}

func (r *PostgresRepository) ListMatchEvents(ctx context.Context, sessionCode string, limit int) ([]*models.MatchEvent, error) {
	q := `
	SELECT id, session_code, type, timestamp, player_id, source_id, entity_id, cause, damage, x, y
	FROM match_events WHERE session_code = $1
	ORDER BY timestamp DESC, id DESC LIMIT $2;
	`
	rows, err := r.pool.Query(ctx, q, sessionCode, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query match events: %v", err)
	}
	defer rows.Close()

	events := make([]*models.MatchEvent, 0)
	for rows.Next() {
		e := &models.MatchEvent{}
		if err := rows.Scan(&e.ID, &e.SessionCode, &e.Type, &e.Timestamp, &e.PlayerID, &e.SourceID, &e.EntityID, &e.Cause, &e.Damage, &e.X, &e.Y); err != nil {
			return nil, fmt.Errorf("failed to scan match event: %v", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate match events: %v", err)
	}

	if len(events) == 0 {
		return nil, &ErrNotFound{}
	}
	return events, nil
}
