package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cbodonnell/arena/pkg/repositories/models"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(ctx context.Context, path string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	scripts, err := readMigrations("sqlite")
	if err != nil {
		db.Close()
		return nil, err
	}
	for i, migration := range scripts {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute migration %d: %v", i+1, err)
		}
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) SaveMatchEvents(ctx context.Context, events []*models.MatchEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	q := `
	INSERT INTO match_events (session_code, type, timestamp, player_id, source_id, entity_id, cause, damage, x, y)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %v", err)
	}
	defer stmt.Close()

	for _, e := range events {
		_, err := stmt.ExecContext(ctx, e.SessionCode, e.Type, e.Timestamp, e.PlayerID, e.SourceID, e.EntityID, e.Cause, e.Damage, e.X, e.Y)
		if err != nil {
			return fmt.Errorf("failed to insert match event: %v", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) ListMatchEvents(ctx context.Context, sessionCode string, limit int) ([]*models.MatchEvent, error) {
	q := `
	SELECT id, session_code, type, timestamp, player_id, source_id, entity_id, cause, damage, x, y
	FROM match_events WHERE session_code = ?
	ORDER BY timestamp DESC, id DESC LIMIT ?;
	`
	rows, err := r.db.QueryContext(ctx, q, sessionCode, clampLimit(limit))
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
