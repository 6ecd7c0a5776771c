// Package storage provides the optional on-disk journal: every game event
// written to SQLite, plus a record of each pet adopted and how long it
// lived. Nothing is ever loaded back into a running game.
package storage

import (
	"context"
	"time"
)

// GameEvent mirrors the in-memory event for persistence.
// The domain packages should NOT import this.
type GameEvent struct {
	ID        string                 `json:"id" db:"id"`
	SessionID string                 `json:"session_id" db:"session_id"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	EventType string                 `json:"event_type" db:"event_type"`
	ActorID   string                 `json:"actor_id" db:"actor_id"`
	TargetID  string                 `json:"target_id" db:"target_id"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
	Tick      int64                  `json:"tick" db:"tick"`
}

// EventRepository defines the interface for event persistence.
type EventRepository interface {
	// Append adds a new event to the journal.
	Append(ctx context.Context, event GameEvent) error

	// GetBySessionID retrieves all events of one session, oldest first.
	GetBySessionID(ctx context.Context, sessionID string) ([]GameEvent, error)

	// GetByEventType retrieves all events of a specific type in a session.
	GetByEventType(ctx context.Context, sessionID string, eventType string) ([]GameEvent, error)
}

// PetRecord is one adopted pet as the journal remembers it.
type PetRecord struct {
	SessionID       string     `json:"session_id" db:"session_id"`
	Name            string     `json:"name" db:"name"`
	Kind            string     `json:"kind" db:"kind"`
	AdoptedAt       time.Time  `json:"adopted_at" db:"adopted_at"`
	DiedAt          *time.Time `json:"died_at,omitempty" db:"died_at"`
	LifespanSeconds int64      `json:"lifespan_seconds" db:"lifespan_seconds"`
}

// PetRepository defines the interface for pet records.
type PetRepository interface {
	// Adopt records a newly adopted pet.
	Adopt(ctx context.Context, rec PetRecord) error

	// MarkDead stamps the death of a living pet in a session.
	MarkDead(ctx context.Context, sessionID, name string, diedAt time.Time, lifespanSeconds int64) error

	// Graveyard lists every pet that died, most recent first.
	Graveyard(ctx context.Context, limit int) ([]PetRecord, error)
}
