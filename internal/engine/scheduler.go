// Package engine contains the decay scheduler: the heartbeat that makes
// pets hungrier and more bored on a fixed wall-clock cadence, whatever the
// player happens to be doing.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MRamiBalles/VirtualPets/internal/events"
	"github.com/MRamiBalles/VirtualPets/internal/game"
	"github.com/MRamiBalles/VirtualPets/internal/platform/clock"
	"github.com/MRamiBalles/VirtualPets/internal/platform/logger"
	"github.com/MRamiBalles/VirtualPets/internal/platform/metrics"
)

// DefaultInterval is how often pets decay.
const DefaultInterval = 7500 * time.Millisecond

// Options configures a Scheduler. Zero values fall back to defaults.
type Options struct {
	Interval time.Duration
	Clock    clock.Clock
	EventLog *events.EventLog
	Logger   *logger.Logger
	Metrics  *metrics.Collector
	// OnTick runs on the scheduler goroutine after every tick. It must not block.
	OnTick func()
}

// Scheduler decays every live pet of one session. It never waits on the
// player and holds no lock while idle.
type Scheduler struct {
	session  *game.Session
	interval time.Duration
	clk      clock.Clock
	eventLog *events.EventLog
	logger   *logger.Logger
	metrics  *metrics.Collector
	onTick   func()

	mu         sync.Mutex
	tickNumber int64

	startOnce sync.Once
	stopOnce  sync.Once
	stopChan  chan struct{}
	done      chan struct{}
}

// NewScheduler creates a scheduler bound to a session.
func NewScheduler(session *game.Session, opts Options) *Scheduler {
	s := &Scheduler{
		session:  session,
		interval: opts.Interval,
		clk:      opts.Clock,
		eventLog: opts.EventLog,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		onTick:   opts.OnTick,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
	if s.interval <= 0 {
		s.interval = DefaultInterval
	}
	if s.clk == nil {
		s.clk = clock.RealClock{}
	}
	if s.logger == nil {
		s.logger = logger.Discard()
	}
	return s
}

// Start runs the scheduler on its own goroutine. Calling Start more than
// once has no further effect.
func (s *Scheduler) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		go s.run(ctx)
	})
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)
	s.logger.Info(fmt.Sprintf("Decay scheduler started for session %s (every %s).", s.session.ID, s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Decay scheduler stopped by context.")
			return
		case <-s.stopChan:
			s.logger.Info("Decay scheduler stopped.")
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Stop halts the scheduler and waits for an in-flight tick to finish, so no
// pet is mutated after Stop returns. Safe to call more than once, and
// before Start.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	started := true
	s.startOnce.Do(func() {
		started = false
		close(s.done)
	})
	if started {
		<-s.done
	}
}

// Ticks returns how many ticks have run.
func (s *Scheduler) Ticks() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickNumber
}

// Tick decays every live pet once. A pet that dies is skipped from then
// on; the first death latches game-over on the session. The other pet
// keeps decaying until the scheduler is stopped.
func (s *Scheduler) Tick() {
	s.mu.Lock()
	s.tickNumber++
	tick := s.tickNumber
	s.mu.Unlock()

	started := time.Now()
	for _, p := range s.session.Pets() {
		if !p.Alive() {
			continue
		}

		d := p.Tick()
		snap := p.Snapshot()
		s.record(events.GameEvent{
			Type:     events.EventTypeDecayTick,
			ActorID:  events.ActorScheduler,
			TargetID: snap.DisplayName,
			Payload: events.DecayPayload{
				Hunger:  d.Hunger,
				Boredom: d.Boredom,
				Mood:    snap.Mood,
			},
			Tick: tick,
		})

		if !d.Died {
			continue
		}

		lifespan := snap.DiedAt.Sub(snap.BornAt)
		s.logger.Warn(fmt.Sprintf("%s the %s passed out for good (mood %.1f) after %s.",
			snap.DisplayName, snap.Kind, snap.Mood, lifespan.Truncate(time.Second)))
		s.record(events.GameEvent{
			Type:     events.EventTypePetDied,
			ActorID:  events.ActorScheduler,
			TargetID: snap.DisplayName,
			Payload: events.DeathPayload{
				Kind:            snap.Kind.String(),
				Mood:            snap.Mood,
				LifespanSeconds: int64(lifespan / time.Second),
			},
			Tick: tick,
		})
		if s.metrics != nil {
			s.metrics.RecordDeath()
		}
		if s.session.End() {
			s.logger.Warn("Game over latched for session " + s.session.ID)
		}
	}

	if s.metrics != nil {
		s.metrics.RecordTick(time.Since(started))
	}
	if s.onTick != nil {
		s.onTick()
	}
}

func (s *Scheduler) record(e events.GameEvent) {
	e.SessionID = s.session.ID
	e.Timestamp = s.clk.Now()
	if s.eventLog != nil {
		s.eventLog.Append(e)
	}
	s.logger.Event(string(e.Type), e.ActorID, e.TargetID)
}
