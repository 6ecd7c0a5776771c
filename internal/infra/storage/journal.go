package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MRamiBalles/VirtualPets/internal/events"
	"github.com/MRamiBalles/VirtualPets/internal/platform/metrics"
)

// DefaultWriteTimeout bounds a single journal write.
const DefaultWriteTimeout = 2 * time.Second

// Journal persists game events and pet records to SQLite. It satisfies
// events.EventPersister.
type Journal struct {
	db      *sql.DB
	events  EventRepository
	pets    PetRepository
	metrics *metrics.Collector
	timeout time.Duration
}

// OpenJournal opens (or creates) the journal database at path.
func OpenJournal(path string, m *metrics.Collector) (*Journal, error) {
	db, err := InitSQLite(path)
	if err != nil {
		return nil, err
	}
	return &Journal{
		db:      db,
		events:  NewSQLiteEventRepository(db),
		pets:    NewSQLitePetRepository(db),
		metrics: m,
		timeout: DefaultWriteTimeout,
	}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Append writes one event, and keeps the pets table in step with
// adoptions and deaths.
func (j *Journal) Append(e events.GameEvent) error {
	start := time.Now()
	err := j.append(e)
	if j.metrics != nil {
		j.metrics.RecordEventWrite(time.Since(start), err)
	}
	return err
}

func (j *Journal) append(e events.GameEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	stored, err := FromEvent(e)
	if err != nil {
		return err
	}
	if err := j.events.Append(ctx, stored); err != nil {
		return err
	}

	switch p := e.Payload.(type) {
	case events.AdoptionPayload:
		return j.pets.Adopt(ctx, PetRecord{
			SessionID: e.SessionID,
			Name:      e.TargetID,
			Kind:      p.Kind,
			AdoptedAt: e.Timestamp,
		})
	case events.DeathPayload:
		return j.pets.MarkDead(ctx, e.SessionID, e.TargetID, e.Timestamp, p.LifespanSeconds)
	}
	return nil
}

// FromEvent converts an in-memory event into its stored form.
func FromEvent(e events.GameEvent) (GameEvent, error) {
	payload, err := toPayloadMap(e.Payload)
	if err != nil {
		return GameEvent{}, fmt.Errorf("event %s: %w", e.ID, err)
	}
	return GameEvent{
		ID:        e.ID,
		SessionID: e.SessionID,
		Timestamp: e.Timestamp,
		EventType: string(e.Type),
		ActorID:   e.ActorID,
		TargetID:  e.TargetID,
		Payload:   payload,
		Tick:      e.Tick,
	}, nil
}

// toPayloadMap flattens a typed payload into the generic form stored in
// the payload column.
func toPayloadMap(payload interface{}) (map[string]interface{}, error) {
	if payload == nil {
		return nil, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("payload is not an object: %w", err)
	}
	return out, nil
}

// Session returns the stored events of one session.
func (j *Journal) Session(ctx context.Context, sessionID string) ([]GameEvent, error) {
	return j.events.GetBySessionID(ctx, sessionID)
}

// Deaths returns the PET_DIED events of one session.
func (j *Journal) Deaths(ctx context.Context, sessionID string) ([]GameEvent, error) {
	return j.events.GetByEventType(ctx, sessionID, string(events.EventTypePetDied))
}

// Graveyard lists the pets that have died, most recent first.
func (j *Journal) Graveyard(ctx context.Context, limit int) ([]PetRecord, error) {
	return j.pets.Graveyard(ctx, limit)
}
