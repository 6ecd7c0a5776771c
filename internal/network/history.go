package network

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MRamiBalles/VirtualPets/internal/events"
	"github.com/MRamiBalles/VirtualPets/internal/infra/storage"
)

// HistoryEvent is an event as shown to spectators.
type HistoryEvent struct {
	ID         string `json:"id"`
	Timestamp  string `json:"timestamp"`
	Tick       int64  `json:"tick,omitempty"`
	Type       string `json:"type"`
	ActorName  string `json:"actor_name"`
	TargetName string `json:"target_name,omitempty"`
	Summary    string `json:"summary"`
	Impact     string `json:"impact"`
}

// HistoryResponse is the API response for a session's history.
type HistoryResponse struct {
	SessionID   string         `json:"session_id"`
	TotalEvents int            `json:"total_events"`
	FilteredBy  string         `json:"filtered_by,omitempty"`
	GeneratedAt string         `json:"generated_at"`
	Events      []HistoryEvent `json:"events"`
}

// handleHistory returns the in-memory history of one session.
// GET /sessions/{sessionID}/history?type=PET_FED&limit=N
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	eventType := r.URL.Query().Get("type")

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	all := s.eventLog.GetBySession(sessionID)
	if len(all) == 0 {
		jsonError(w, "Unknown session", http.StatusNotFound)
		return
	}

	out := make([]HistoryEvent, 0, len(all))
	for _, e := range all {
		if eventType != "" && string(e.Type) != eventType {
			continue
		}
		out = append(out, toHistoryEvent(e))
	}
	// Most recent events win when limited.
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}

	resp := HistoryResponse{
		SessionID:   sessionID,
		TotalEvents: len(out),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Events:      out,
	}
	if eventType != "" {
		resp.FilteredBy = "type " + eventType
	}
	jsonSuccess(w, resp)
}

func toHistoryEvent(e events.GameEvent) HistoryEvent {
	h := HistoryEvent{
		ID:         e.ID,
		Timestamp:  e.Timestamp.Format("15:04:05"),
		Tick:       e.Tick,
		Type:       string(e.Type),
		ActorName:  actorName(e.ActorID),
		TargetName: e.TargetID,
		Impact:     storage.ImpactNeutral,
	}
	if stored, err := storage.FromEvent(e); err == nil {
		h.Summary, h.Impact = storage.Summarize(stored)
	} else {
		h.Summary = string(e.Type)
	}
	return h
}

func actorName(id string) string {
	switch id {
	case events.ActorScheduler:
		return "Time"
	case events.ActorPlayer:
		return "Keeper"
	}
	return id
}

// jsonError sends an error response.
func jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// jsonSuccess sends a success response.
func jsonSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}
