// Package network serves the read-only spectator surface: a small HTTP
// status API and a WebSocket feed of game events. Nothing received over
// the network can act on the pets.
package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/MRamiBalles/VirtualPets/internal/events"
	"github.com/MRamiBalles/VirtualPets/internal/platform/logger"
	"github.com/MRamiBalles/VirtualPets/internal/platform/metrics"
)

// PollInterval is how often StartEventPoller checks the event log.
const PollInterval = 200 * time.Millisecond

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.Mutex
	logger     *logger.Logger
	metrics    *metrics.Collector
}

// NewHub initializes a new WebSocket Hub. m may be nil.
func NewHub(log *logger.Logger, m *metrics.Collector) *Hub {
	if log == nil {
		log = logger.Discard()
	}
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		logger:     log,
		metrics:    m,
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				h.drop(client)
			}
			h.mu.Unlock()
			h.logger.Info("WebSocket Hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.recordConnection(1)
			h.logger.Info("New spectator connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.logger.Info("Spectator disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					if h.metrics != nil {
						h.metrics.RecordWSMessage()
					}
				default:
					// Too slow to keep up.
					h.drop(client)
					if h.metrics != nil {
						h.metrics.RecordWSError()
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop removes a client. Callers hold h.mu.
func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.recordConnection(-1)
}

func (h *Hub) recordConnection(delta int64) {
	if h.metrics != nil {
		h.metrics.RecordWSConnection(delta)
	}
}

// ClientCount returns the number of connected spectators.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// BroadcastEvent serializes a GameEvent to JSON and queues it for every
// connected client. It returns false once the hub has stopped.
func (h *Hub) BroadcastEvent(event events.GameEvent) bool {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to serialize GameEvent for WebSocket broadcast: " + err.Error())
		return true
	}
	select {
	case h.broadcast <- payload:
		return true
	case <-h.done:
		return false
	}
}

// StartEventPoller spawns a goroutine that polls the EventLog and pushes
// new events to the Hub. The game never waits on spectators.
func (h *Hub) StartEventPoller(ctx context.Context, eventLog *events.EventLog) {
	go func() {
		ticker := time.NewTicker(PollInterval)
		defer ticker.Stop()

		_, offset := eventLog.Since(0)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				var batch []events.GameEvent
				batch, offset = eventLog.Since(offset)
				for _, event := range batch {
					if !h.BroadcastEvent(event) {
						return
					}
				}
			}
		}
	}()
}
