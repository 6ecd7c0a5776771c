// Package events provides the append-only record of what happened to the
// pets in a session: adoptions, player actions, decay ticks and deaths.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a game event.
type EventType string

const (
	EventTypeSessionStarted   EventType = "SESSION_STARTED"
	EventTypePetAdopted       EventType = "PET_ADOPTED"
	EventTypeActivePetChanged EventType = "ACTIVE_PET_CHANGED"
	EventTypePetFed           EventType = "PET_FED"
	EventTypePetPlayed        EventType = "PET_PLAYED"
	EventTypePetTalked        EventType = "PET_TALKED"
	EventTypeDecayTick        EventType = "DECAY_TICK"
	EventTypePetDied          EventType = "PET_DIED"
	EventTypeSessionEnded     EventType = "SESSION_ENDED"
)

// ActorScheduler is the actor ID used for events raised by the decay scheduler.
const ActorScheduler = "SCHEDULER"

// ActorPlayer is the actor ID used for events raised by menu actions.
const ActorPlayer = "PLAYER"

// AdoptionPayload is attached to PET_ADOPTED.
type AdoptionPayload struct {
	Kind string `json:"kind"`
}

// TalkPayload is attached to PET_TALKED.
type TalkPayload struct {
	Line string `json:"line"`
}

// CarePayload is attached to PET_FED and PET_PLAYED.
type CarePayload struct {
	Amount int `json:"amount"`
	After  int `json:"after"`
}

// DecayPayload is attached to DECAY_TICK.
type DecayPayload struct {
	Hunger  int     `json:"hunger"`
	Boredom int     `json:"boredom"`
	Mood    float64 `json:"mood"`
}

// DeathPayload is attached to PET_DIED.
type DeathPayload struct {
	Kind            string  `json:"kind"`
	Mood            float64 `json:"mood"`
	LifespanSeconds int64   `json:"lifespan_seconds"`
}

// GameEvent represents an immutable record of an action in the game.
type GameEvent struct {
	ID        string      `json:"id"`
	SessionID string      `json:"session_id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`  // Who performed the action
	TargetID  string      `json:"target_id"` // Which pet was affected (optional)
	Payload   interface{} `json:"payload"`   // Event-specific data
	Tick      int64       `json:"tick"`
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// EventLog is the in-memory append-only log of game events, optionally
// written through to a persister.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	persister EventPersister
	onError   func(GameEvent, error)
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
}

// OnPersistError registers a callback for persister failures. The event
// stays in the in-memory log either way.
func (el *EventLog) OnPersistError(fn func(GameEvent, error)) {
	el.mu.Lock()
	el.onError = fn
	el.mu.Unlock()
}

// Append adds a new event to the log, filling in ID and Timestamp when
// empty. Events are immutable once appended.
func (el *EventLog) Append(event GameEvent) GameEvent {
	if event.ID == "" {
		event.ID = GenerateEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	el.mu.Lock()
	el.events = append(el.events, event)
	persister, onError := el.persister, el.onError
	el.mu.Unlock()

	if persister != nil {
		if err := persister.Append(event); err != nil && onError != nil {
			onError(event, err)
		}
	}
	return event
}

// GetBySession returns all events recorded for a session.
func (el *EventLog) GetBySession(sessionID string) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.SessionID == sessionID {
			result = append(result, e)
		}
	}
	return result
}

// GetByTarget returns all events that affected a specific pet.
func (el *EventLog) GetByTarget(targetID string) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.TargetID == targetID {
			result = append(result, e)
		}
	}
	return result
}

// Replay returns a copy of the full history.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	out := make([]GameEvent, len(el.events))
	copy(out, el.events)
	return out
}

// Since returns the events after the first offset ones, and the offset to
// pass next time.
func (el *EventLog) Since(offset int) ([]GameEvent, int) {
	el.mu.RLock()
	defer el.mu.RUnlock()
	if offset >= len(el.events) {
		return nil, len(el.events)
	}
	if offset < 0 {
		offset = 0
	}
	out := make([]GameEvent, len(el.events)-offset)
	copy(out, el.events[offset:])
	return out, len(el.events)
}

// Len returns the number of events recorded.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return len(el.events)
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
