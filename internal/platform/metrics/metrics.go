// Package metrics provides observability for the game process.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Action names a player action counted by RecordAction.
type Action string

const (
	ActionFeed   Action = "feed"
	ActionPlay   Action = "play"
	ActionTalk   Action = "talk"
	ActionSwitch Action = "switch"
)

// Collector gathers counters for one process. It is safe for concurrent use.
type Collector struct {
	// Tick metrics
	TickCount      int64
	TickLatencySum int64 // nanoseconds
	TickLatencyMax int64
	LastTickTime   time.Time

	// Player metrics
	Feeds         int64
	Plays         int64
	Talks         int64
	Switches      int64
	InvalidInputs int64

	// Session metrics
	SessionsStarted int64
	Deaths          int64

	// Journal metrics
	EventsWritten    int64
	EventWriteLatSum int64
	EventWriteLatMax int64
	EventWriteErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesOut       int64
	WSErrors            int64

	StartTime time.Time
	mu        sync.RWMutex
}

// NewCollector returns a Collector whose uptime starts now.
func NewCollector() *Collector {
	return &Collector{StartTime: time.Now()}
}

func storeMax(addr *int64, v int64) {
	for {
		cur := atomic.LoadInt64(addr)
		if v <= cur || atomic.CompareAndSwapInt64(addr, cur, v) {
			return
		}
	}
}

// RecordTick records a completed decay tick.
func (c *Collector) RecordTick(latency time.Duration) {
	atomic.AddInt64(&c.TickCount, 1)
	atomic.AddInt64(&c.TickLatencySum, int64(latency))
	storeMax(&c.TickLatencyMax, int64(latency))

	c.mu.Lock()
	c.LastTickTime = time.Now()
	c.mu.Unlock()
}

// RecordAction counts one player action.
func (c *Collector) RecordAction(a Action) {
	switch a {
	case ActionFeed:
		atomic.AddInt64(&c.Feeds, 1)
	case ActionPlay:
		atomic.AddInt64(&c.Plays, 1)
	case ActionTalk:
		atomic.AddInt64(&c.Talks, 1)
	case ActionSwitch:
		atomic.AddInt64(&c.Switches, 1)
	}
}

// RecordInvalidInput counts a rejected menu answer.
func (c *Collector) RecordInvalidInput() {
	atomic.AddInt64(&c.InvalidInputs, 1)
}

// RecordSession counts a started session.
func (c *Collector) RecordSession() {
	atomic.AddInt64(&c.SessionsStarted, 1)
}

// RecordDeath counts a pet death.
func (c *Collector) RecordDeath() {
	atomic.AddInt64(&c.Deaths, 1)
}

// RecordEventWrite records an event written to the journal.
func (c *Collector) RecordEventWrite(latency time.Duration, err error) {
	atomic.AddInt64(&c.EventsWritten, 1)
	atomic.AddInt64(&c.EventWriteLatSum, int64(latency))
	storeMax(&c.EventWriteLatMax, int64(latency))

	if err != nil {
		atomic.AddInt64(&c.EventWriteErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records an outgoing WebSocket message.
func (c *Collector) RecordWSMessage() {
	atomic.AddInt64(&c.WSMessagesOut, 1)
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	lastTick := c.LastTickTime
	c.mu.RUnlock()

	tickCount := atomic.LoadInt64(&c.TickCount)
	eventsWritten := atomic.LoadInt64(&c.EventsWritten)

	var tickAvg, eventAvg float64
	if tickCount > 0 {
		tickAvg = float64(atomic.LoadInt64(&c.TickLatencySum)) / float64(tickCount) / 1e6 // ms
	}
	if eventsWritten > 0 {
		eventAvg = float64(atomic.LoadInt64(&c.EventWriteLatSum)) / float64(eventsWritten) / 1e6
	}

	var last string
	if !lastTick.IsZero() {
		last = lastTick.Format(time.RFC3339)
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"tick": map[string]interface{}{
			"count":          tickCount,
			"avg_latency_ms": tickAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.TickLatencyMax)) / 1e6,
			"last_tick":      last,
		},

		"player": map[string]interface{}{
			"feeds":          atomic.LoadInt64(&c.Feeds),
			"plays":          atomic.LoadInt64(&c.Plays),
			"talks":          atomic.LoadInt64(&c.Talks),
			"switches":       atomic.LoadInt64(&c.Switches),
			"invalid_inputs": atomic.LoadInt64(&c.InvalidInputs),
		},

		"sessions": map[string]interface{}{
			"started": atomic.LoadInt64(&c.SessionsStarted),
			"deaths":  atomic.LoadInt64(&c.Deaths),
		},

		"events": map[string]interface{}{
			"written":          eventsWritten,
			"avg_write_lat_ms": eventAvg,
			"max_write_lat_ms": float64(atomic.LoadInt64(&c.EventWriteLatMax)) / 1e6,
			"errors":           atomic.LoadInt64(&c.EventWriteErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler returns an HTTP handler serving the JSON snapshot.
func (c *Collector) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		json.NewEncoder(w).Encode(c.Snapshot())
	}
}

// PrometheusHandler returns metrics in Prometheus text format.
func (c *Collector) PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		fmt.Fprintf(w, "# HELP pets_tick_count Total decay ticks\n")
		fmt.Fprintf(w, "# TYPE pets_tick_count counter\n")
		fmt.Fprintf(w, "pets_tick_count %d\n\n", atomic.LoadInt64(&c.TickCount))

		fmt.Fprintf(w, "# HELP pets_tick_latency_max_ms Maximum tick latency\n")
		fmt.Fprintf(w, "# TYPE pets_tick_latency_max_ms gauge\n")
		fmt.Fprintf(w, "pets_tick_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.TickLatencyMax))/1e6)

		fmt.Fprintf(w, "# HELP pets_actions_total Player actions\n")
		fmt.Fprintf(w, "# TYPE pets_actions_total counter\n")
		fmt.Fprintf(w, "pets_actions_total{action=\"feed\"} %d\n", atomic.LoadInt64(&c.Feeds))
		fmt.Fprintf(w, "pets_actions_total{action=\"play\"} %d\n", atomic.LoadInt64(&c.Plays))
		fmt.Fprintf(w, "pets_actions_total{action=\"talk\"} %d\n", atomic.LoadInt64(&c.Talks))
		fmt.Fprintf(w, "pets_actions_total{action=\"switch\"} %d\n\n", atomic.LoadInt64(&c.Switches))

		fmt.Fprintf(w, "# HELP pets_invalid_inputs_total Rejected menu answers\n")
		fmt.Fprintf(w, "# TYPE pets_invalid_inputs_total counter\n")
		fmt.Fprintf(w, "pets_invalid_inputs_total %d\n\n", atomic.LoadInt64(&c.InvalidInputs))

		fmt.Fprintf(w, "# HELP pets_sessions_total Sessions started\n")
		fmt.Fprintf(w, "# TYPE pets_sessions_total counter\n")
		fmt.Fprintf(w, "pets_sessions_total %d\n\n", atomic.LoadInt64(&c.SessionsStarted))

		fmt.Fprintf(w, "# HELP pets_deaths_total Pets that passed out for good\n")
		fmt.Fprintf(w, "# TYPE pets_deaths_total counter\n")
		fmt.Fprintf(w, "pets_deaths_total %d\n\n", atomic.LoadInt64(&c.Deaths))

		fmt.Fprintf(w, "# HELP pets_events_written Total events written to the journal\n")
		fmt.Fprintf(w, "# TYPE pets_events_written counter\n")
		fmt.Fprintf(w, "pets_events_written %d\n\n", atomic.LoadInt64(&c.EventsWritten))

		fmt.Fprintf(w, "# HELP pets_event_write_errors Total journal write errors\n")
		fmt.Fprintf(w, "# TYPE pets_event_write_errors counter\n")
		fmt.Fprintf(w, "pets_event_write_errors %d\n\n", atomic.LoadInt64(&c.EventWriteErrors))

		fmt.Fprintf(w, "# HELP pets_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE pets_ws_connections gauge\n")
		fmt.Fprintf(w, "pets_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP pets_ws_messages_total WebSocket messages sent\n")
		fmt.Fprintf(w, "# TYPE pets_ws_messages_total counter\n")
		fmt.Fprintf(w, "pets_ws_messages_total %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
