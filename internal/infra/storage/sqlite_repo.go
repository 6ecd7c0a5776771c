package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event GameEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, session_id, timestamp, event_type, actor_id, target_id, payload, tick)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.SessionID, event.Timestamp.UTC(), event.EventType, event.ActorID,
		event.TargetID, string(payloadBytes), event.Tick,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

const selectEvents = `SELECT id, session_id, timestamp, event_type, actor_id, target_id, payload, tick FROM events`

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]GameEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []GameEvent
	for rows.Next() {
		var e GameEvent
		var payloadStr string
		err := rows.Scan(
			&e.ID, &e.SessionID, &e.Timestamp, &e.EventType, &e.ActorID,
			&e.TargetID, &payloadStr, &e.Tick,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *SQLiteEventRepository) GetBySessionID(ctx context.Context, sessionID string) ([]GameEvent, error) {
	return r.getMany(ctx, selectEvents+` WHERE session_id = ? ORDER BY timestamp ASC, rowid ASC`, sessionID)
}

func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, sessionID string, eventType string) ([]GameEvent, error) {
	return r.getMany(ctx, selectEvents+` WHERE session_id = ? AND event_type = ? ORDER BY timestamp ASC, rowid ASC`, sessionID, eventType)
}

// ---------------------------------------------------------
// SQLitePetRepository
// ---------------------------------------------------------

type SQLitePetRepository struct {
	db *sql.DB
}

func NewSQLitePetRepository(db *sql.DB) *SQLitePetRepository {
	return &SQLitePetRepository{db: db}
}

func (r *SQLitePetRepository) Adopt(ctx context.Context, rec PetRecord) error {
	query := `INSERT INTO pets (session_id, name, kind, adopted_at) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, rec.SessionID, rec.Name, rec.Kind, rec.AdoptedAt.UTC()); err != nil {
		return fmt.Errorf("failed to record adoption: %w", err)
	}
	return nil
}

// MarkDead updates the oldest living record with that name in the session.
func (r *SQLitePetRepository) MarkDead(ctx context.Context, sessionID, name string, diedAt time.Time, lifespanSeconds int64) error {
	query := `
		UPDATE pets SET died_at = ?, lifespan_seconds = ?
		WHERE rowid = (
			SELECT rowid FROM pets
			WHERE session_id = ? AND name = ? AND died_at IS NULL
			ORDER BY rowid LIMIT 1
		)
	`
	res, err := r.db.ExecContext(ctx, query, diedAt.UTC(), lifespanSeconds, sessionID, name)
	if err != nil {
		return fmt.Errorf("failed to record death: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no living pet %q in session %s", name, sessionID)
	}
	return nil
}

func (r *SQLitePetRepository) Graveyard(ctx context.Context, limit int) ([]PetRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT session_id, name, kind, adopted_at, died_at, lifespan_seconds
		FROM pets WHERE died_at IS NOT NULL
		ORDER BY died_at DESC LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []PetRecord
	for rows.Next() {
		var p PetRecord
		var died sql.NullTime
		if err := rows.Scan(&p.SessionID, &p.Name, &p.Kind, &p.AdoptedAt, &died, &p.LifespanSeconds); err != nil {
			return nil, err
		}
		if died.Valid {
			t := died.Time
			p.DiedAt = &t
		}
		recs = append(recs, p)
	}
	return recs, rows.Err()
}
