package engine

import (
	"bytes"
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MRamiBalles/VirtualPets/internal/domain/pet"
	"github.com/MRamiBalles/VirtualPets/internal/events"
	"github.com/MRamiBalles/VirtualPets/internal/game"
	"github.com/MRamiBalles/VirtualPets/internal/platform/clock"
	"github.com/MRamiBalles/VirtualPets/internal/platform/logger"
	"github.com/MRamiBalles/VirtualPets/internal/platform/metrics"
	"github.com/MRamiBalles/VirtualPets/internal/platform/random"
)

var epoch = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

func newSession(t *testing.T, a, b *pet.Pet) *game.Session {
	t.Helper()
	s, err := game.NewSession(epoch, a, b, 0)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestTickDecaysEveryPet(t *testing.T) {
	clk := clock.NewManual(epoch)
	a := pet.New("tom", pet.Cat, clk, random.NewSequence(2, 3))
	b := pet.New("rex", pet.Dog, clk, random.NewSequence(4, 5))
	sess := newSession(t, a, b)
	el := events.NewEventLog(nil)

	sched := NewScheduler(sess, Options{Clock: clk, EventLog: el})
	sched.Tick()

	if a.Hunger() != 2 || a.Boredom() != 3 {
		t.Fatalf("tom: expected 2/3 got %d/%d", a.Hunger(), a.Boredom())
	}
	if b.Hunger() != 4 || b.Boredom() != 5 {
		t.Fatalf("rex: expected 4/5 got %d/%d", b.Hunger(), b.Boredom())
	}
	if sess.Over() {
		t.Fatalf("no pet should have died")
	}
	if sched.Ticks() != 1 {
		t.Fatalf("expected tick count 1 got %d", sched.Ticks())
	}

	evs := el.GetBySession(sess.ID)
	if len(evs) != 2 {
		t.Fatalf("expected 2 decay events got %d", len(evs))
	}
	for _, e := range evs {
		if e.Type != events.EventTypeDecayTick || e.ActorID != events.ActorScheduler || e.Tick != 1 {
			t.Fatalf("unexpected event %+v", e)
		}
		if !e.Timestamp.Equal(epoch) {
			t.Fatalf("event should be stamped from the session clock, got %v", e.Timestamp)
		}
	}
}

func TestDeathLatchesGameOverAndOtherPetKeepsTicking(t *testing.T) {
	clk := clock.NewManual(epoch)
	a := pet.New("tom", pet.Cat, clk, random.NewSequence(2, 2, 7, 7), pet.WithNeeds(90, 10))
	b := pet.New("rex", pet.Dog, clk, random.NewSequence(2, 2, 3, 3, 4, 4))
	sess := newSession(t, a, b)
	el := events.NewEventLog(nil)
	m := metrics.NewCollector()

	sched := NewScheduler(sess, Options{Clock: clk, EventLog: el, Metrics: m})

	clk.Advance(7500 * time.Millisecond)
	sched.Tick()
	if sess.Over() || !a.Alive() {
		t.Fatalf("mood %v should not be fatal yet", a.Mood())
	}

	clk.Advance(7500 * time.Millisecond)
	sched.Tick()
	if a.Alive() {
		t.Fatalf("tom should be dead at mood %v", a.Mood())
	}
	if !sess.Over() {
		t.Fatalf("game-over should be latched")
	}
	diedAt, _ := a.DiedAt()
	if !diedAt.Equal(epoch.Add(15 * time.Second)) {
		t.Fatalf("unexpected death stamp %v", diedAt)
	}

	frozenHunger := a.Hunger()
	sched.Tick()
	if a.Hunger() != frozenHunger {
		t.Fatalf("dead pet kept decaying")
	}
	if b.Hunger() != 2+3+4 || !b.Alive() {
		t.Fatalf("rex should have ticked three times, hunger=%d", b.Hunger())
	}

	var deaths int
	for _, e := range el.Replay() {
		if e.Type == events.EventTypePetDied {
			deaths++
			p, ok := e.Payload.(events.DeathPayload)
			if !ok || p.Kind != "Cat" || p.LifespanSeconds != 15 {
				t.Fatalf("unexpected death payload %+v", e.Payload)
			}
		}
	}
	if deaths != 1 {
		t.Fatalf("expected exactly one PET_DIED event got %d", deaths)
	}
	if m.Deaths != 1 || m.TickCount != 3 {
		t.Fatalf("unexpected metrics: deaths=%d ticks=%d", m.Deaths, m.TickCount)
	}
}

func TestStartTicksOnInterval(t *testing.T) {
	a := pet.New("tom", pet.Cat, clock.RealClock{}, random.Uniform{})
	b := pet.New("rex", pet.Dog, clock.RealClock{}, random.Uniform{})
	sess := newSession(t, a, b)

	var ticks atomic.Int64
	fired := make(chan struct{}, 16)
	sched := NewScheduler(sess, Options{
		Interval: 5 * time.Millisecond,
		OnTick: func() {
			ticks.Add(1)
			select {
			case fired <- struct{}{}:
			default:
			}
		},
	})
	sched.Start(context.Background())

	for i := 0; i < 3; i++ {
		select {
		case <-fired:
		case <-time.After(2 * time.Second):
			t.Fatalf("scheduler did not tick")
		}
	}
	sched.Stop()

	after := ticks.Load()
	hunger := a.Hunger()
	time.Sleep(30 * time.Millisecond)
	if ticks.Load() != after || a.Hunger() != hunger {
		t.Fatalf("scheduler kept ticking after Stop")
	}
	if after < 3 {
		t.Fatalf("expected at least 3 ticks got %d", after)
	}
}

func TestStopIsIdempotentAndSafeBeforeStart(t *testing.T) {
	a := pet.New("tom", pet.Cat, clock.RealClock{}, random.Uniform{})
	b := pet.New("rex", pet.Dog, clock.RealClock{}, random.Uniform{})
	sched := NewScheduler(newSession(t, a, b), Options{Interval: time.Millisecond})

	done := make(chan struct{})
	go func() {
		sched.Stop()
		sched.Stop()
		sched.Start(context.Background())
		sched.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Stop blocked")
	}
	if sched.Ticks() != 0 {
		t.Fatalf("a stopped scheduler must not start, got %d ticks", sched.Ticks())
	}
}

func TestContextCancelStopsScheduler(t *testing.T) {
	var buf bytes.Buffer
	a := pet.New("tom", pet.Cat, clock.RealClock{}, random.Uniform{})
	b := pet.New("rex", pet.Dog, clock.RealClock{}, random.Uniform{})
	sched := NewScheduler(newSession(t, a, b), Options{
		Interval: time.Hour,
		Logger:   logger.NewLogger(&buf),
	})

	ctx, cancel := context.WithCancel(context.Background())
	sched.Start(ctx)
	cancel()

	stopped := make(chan struct{})
	go func() {
		sched.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("scheduler did not exit on cancel")
	}
	if !strings.Contains(buf.String(), "Decay scheduler started") {
		t.Fatalf("expected start to be logged, got:\n%s", buf.String())
	}
}
