package metrics

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestRecordTickTracksMax(t *testing.T) {
	c := NewCollector()
	c.RecordTick(2 * time.Millisecond)
	c.RecordTick(5 * time.Millisecond)
	c.RecordTick(1 * time.Millisecond)

	if c.TickCount != 3 {
		t.Fatalf("expected 3 ticks got %d", c.TickCount)
	}
	if c.TickLatencyMax != int64(5*time.Millisecond) {
		t.Fatalf("expected max 5ms got %d", c.TickLatencyMax)
	}
}

func TestRecordActionCountsPerKind(t *testing.T) {
	c := NewCollector()
	c.RecordAction(ActionFeed)
	c.RecordAction(ActionFeed)
	c.RecordAction(ActionPlay)
	c.RecordAction(ActionSwitch)

	if c.Feeds != 2 || c.Plays != 1 || c.Talks != 0 || c.Switches != 1 {
		t.Fatalf("unexpected counters: feeds=%d plays=%d talks=%d switches=%d", c.Feeds, c.Plays, c.Talks, c.Switches)
	}
}

func TestRecordEventWriteCountsErrors(t *testing.T) {
	c := NewCollector()
	c.RecordEventWrite(time.Millisecond, nil)
	c.RecordEventWrite(time.Millisecond, errors.New("disk full"))

	if c.EventsWritten != 2 {
		t.Fatalf("expected 2 writes got %d", c.EventsWritten)
	}
	if c.EventWriteErrors != 1 {
		t.Fatalf("expected 1 error got %d", c.EventWriteErrors)
	}
}

func TestConcurrentRecording(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	const workers = 20
	const iterations = 100

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				c.RecordTick(time.Microsecond)
				c.RecordInvalidInput()
				_ = c.Snapshot()
			}
		}()
	}
	wg.Wait()

	if c.TickCount != workers*iterations {
		t.Fatalf("expected %d ticks got %d", workers*iterations, c.TickCount)
	}
}

func TestHandlerServesJSON(t *testing.T) {
	c := NewCollector()
	c.RecordSession()
	c.RecordDeath()

	rec := httptest.NewRecorder()
	c.Handler()(rec, httptest.NewRequest("GET", "/metrics", nil))

	var body struct {
		Sessions struct {
			Started int64 `json:"started"`
			Deaths  int64 `json:"deaths"`
		} `json:"sessions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Sessions.Started != 1 || body.Sessions.Deaths != 1 {
		t.Fatalf("unexpected sessions block: %+v", body.Sessions)
	}
}

func TestPrometheusHandler(t *testing.T) {
	c := NewCollector()
	c.RecordAction(ActionTalk)

	rec := httptest.NewRecorder()
	c.PrometheusHandler()(rec, httptest.NewRequest("GET", "/metrics/prometheus", nil))

	if !strings.Contains(rec.Body.String(), `pets_actions_total{action="talk"} 1`) {
		t.Fatalf("unexpected body:\n%s", rec.Body.String())
	}
}
