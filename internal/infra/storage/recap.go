package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/MRamiBalles/VirtualPets/internal/events"
)

// RecapEvent is a simplified event for reading a past game back.
type RecapEvent struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	Summary   string    `json:"summary"` // Human-readable description
	Impact    string    `json:"impact"`  // "POSITIVE", "NEGATIVE", "NEUTRAL"
}

const (
	ImpactPositive = "POSITIVE"
	ImpactNegative = "NEGATIVE"
	ImpactNeutral  = "NEUTRAL"
)

// Recap turns the stored events of a session into readable lines.
func (j *Journal) Recap(ctx context.Context, sessionID string) ([]RecapEvent, error) {
	stored, err := j.events.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get events for session: %w", err)
	}

	recap := make([]RecapEvent, 0, len(stored))
	for _, e := range stored {
		summary, impact := Summarize(e)
		recap = append(recap, RecapEvent{
			Timestamp: e.Timestamp,
			EventType: e.EventType,
			Summary:   summary,
			Impact:    impact,
		})
	}
	return recap, nil
}

// Summarize describes one stored event and classifies its impact on the pets.
func Summarize(e GameEvent) (string, string) {
	switch events.EventType(e.EventType) {
	case events.EventTypeSessionStarted:
		return "A new game began.", ImpactNeutral
	case events.EventTypePetAdopted:
		return fmt.Sprintf("%s the %s was adopted.", e.TargetID, str(e.Payload, "kind")), ImpactPositive
	case events.EventTypeActivePetChanged:
		return fmt.Sprintf("%s was picked to look after.", e.TargetID), ImpactNeutral
	case events.EventTypePetFed:
		n := num(e.Payload, "amount")
		if n == 0 {
			return fmt.Sprintf("%s wasn't hungry.", e.TargetID), ImpactNeutral
		}
		return fmt.Sprintf("%s was fed %d units of food.", e.TargetID, n), ImpactPositive
	case events.EventTypePetPlayed:
		n := num(e.Payload, "amount")
		if n == 0 {
			return fmt.Sprintf("%s didn't want to play.", e.TargetID), ImpactNeutral
		}
		return fmt.Sprintf("%s played for %d minutes.", e.TargetID, n), ImpactPositive
	case events.EventTypePetTalked:
		return fmt.Sprintf("%s said something.", e.TargetID), ImpactNeutral
	case events.EventTypeDecayTick:
		return fmt.Sprintf("%s got hungrier (+%d) and more bored (+%d).",
			e.TargetID, num(e.Payload, "hunger"), num(e.Payload, "boredom")), ImpactNegative
	case events.EventTypePetDied:
		return fmt.Sprintf("%s passed out for good after %d seconds.", e.TargetID, num(e.Payload, "lifespan_seconds")), ImpactNegative
	case events.EventTypeSessionEnded:
		return "The game ended.", ImpactNeutral
	}
	return e.EventType, ImpactNeutral
}

func str(payload map[string]interface{}, key string) string {
	s, _ := payload[key].(string)
	return s
}

// num reads a JSON number; decoded payloads hold them as float64.
func num(payload map[string]interface{}, key string) int64 {
	f, _ := payload[key].(float64)
	return int64(f)
}
