// Package controller runs the player's side of the game: adopting two pets,
// the main menu loop, and what happens when a pet dies. It owns the session
// and the decay scheduler for the duration of each game.
package controller

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MRamiBalles/VirtualPets/internal/domain/pet"
	"github.com/MRamiBalles/VirtualPets/internal/engine"
	"github.com/MRamiBalles/VirtualPets/internal/events"
	"github.com/MRamiBalles/VirtualPets/internal/game"
	"github.com/MRamiBalles/VirtualPets/internal/platform/clock"
	"github.com/MRamiBalles/VirtualPets/internal/platform/logger"
	"github.com/MRamiBalles/VirtualPets/internal/platform/metrics"
	"github.com/MRamiBalles/VirtualPets/internal/platform/random"
)

// Phase is a state of the controller.
type Phase int

const (
	PhaseSetup Phase = iota
	PhasePlaying
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "Setup"
	case PhasePlaying:
		return "Playing"
	case PhaseGameOver:
		return "GameOver"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Main menu entries, zero-based as returned by Choose.
const (
	menuFeed = iota
	menuPlay
	menuTalk
	menuSwitch
	menuExit
	menuSize
)

// DefaultNuisanceMood is the inactive pet's mood above which the player is
// reminded about it.
const DefaultNuisanceMood = 25

// Options configures a Controller. Zero values fall back to defaults.
type Options struct {
	TickInterval  time.Duration
	NuisanceMood  float64
	ExitCountdown int

	Clock    clock.Clock
	Random   random.Source
	Logger   *logger.Logger
	Metrics  *metrics.Collector
	EventLog *events.EventLog
	// Art returns the picture drawn above a pet's status. May be nil.
	Art func(pet.Kind) string
	// Sleep is used by the exit countdown.
	Sleep func(time.Duration)
}

type outcome int

const (
	outcomeExit outcome = iota
	outcomeGameOver
)

// Controller is the game's state machine: Setup, Playing, GameOver, then
// either a fresh Setup or exit.
type Controller struct {
	screen *screen
	in     InputSource
	opts   Options

	phase   atomic.Int32
	current atomic.Pointer[game.Session]
}

// New builds a Controller drawing on r and reading from in.
func New(r Renderer, in InputSource, opts Options) *Controller {
	if opts.TickInterval <= 0 {
		opts.TickInterval = engine.DefaultInterval
	}
	if opts.NuisanceMood <= 0 {
		opts.NuisanceMood = DefaultNuisanceMood
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Random == nil {
		opts.Random = random.Uniform{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewCollector()
	}
	if opts.EventLog == nil {
		opts.EventLog = events.NewEventLog(nil)
	}
	if opts.Art == nil {
		opts.Art = func(pet.Kind) string { return "" }
	}
	return &Controller{
		screen: &screen{r: r},
		in:     in,
		opts:   opts,
	}
}

// Phase returns the current state.
func (c *Controller) Phase() Phase {
	return Phase(c.phase.Load())
}

// Snapshot returns the current session, if one is being played.
func (c *Controller) Snapshot() (game.Snapshot, bool) {
	s := c.current.Load()
	if s == nil {
		return game.Snapshot{}, false
	}
	return s.Snapshot(), true
}

func (c *Controller) setPhase(p Phase) {
	c.phase.Store(int32(p))
	c.opts.Logger.Info("Controller phase: " + p.String())
}

// Run plays games until the player exits or declines a restart. Each
// restart builds a brand new session and scheduler. It returns
// ErrInputClosed if input runs out, and ErrNoDeceased if game-over is
// reached without a dead pet.
func (c *Controller) Run(ctx context.Context) error {
	for {
		c.setPhase(PhaseSetup)
		sess, err := c.setup()
		if err != nil {
			return err
		}

		c.setPhase(PhasePlaying)
		result, err := c.play(ctx, sess)
		c.record(sess, events.GameEvent{Type: events.EventTypeSessionEnded, ActorID: events.ActorPlayer})
		if err != nil {
			return err
		}

		if result == outcomeExit {
			c.opts.Logger.Info("Player exited session " + sess.ID)
			c.screen.Write("\nThanks for playing!\n")
			Shutdown(c.screen, c.opts.ExitCountdown, c.opts.Sleep)
			return nil
		}

		c.setPhase(PhaseGameOver)
		restart, err := c.gameOver(sess)
		if err != nil {
			return err
		}
		if !restart {
			c.screen.Write("\nThanks for playing!\n")
			Shutdown(c.screen, c.opts.ExitCountdown, c.opts.Sleep)
			return nil
		}
		c.opts.Logger.Info("Player restarted after session " + sess.ID)
		c.screen.Clear()
	}
}

func ordinal(i int) string {
	if i == 0 {
		return "first"
	}
	return "second"
}

func (c *Controller) setup() (*game.Session, error) {
	c.current.Store(nil)
	kinds := pet.Kinds()

	var pets [game.PetCount]*pet.Pet
	for i := range pets {
		var b strings.Builder
		b.WriteString("Welcome to VirtualPets, the best Pet-Keeping Simulator in Go!\n\n")
		fmt.Fprintf(&b, "What is your %s pet going to be? Choose from the following:\n", ordinal(i))
		for j, k := range kinds {
			fmt.Fprintf(&b, "\n  %d. %s", j+1, k)
		}
		b.WriteString("\n\n > ")

		choice, err := c.choose(b.String(), 1, len(kinds), nil)
		if err != nil {
			return nil, err
		}
		kind := kinds[choice]

		name, err := c.askName(kind, i)
		if err != nil {
			return nil, err
		}
		pets[i] = pet.New(name, kind, c.opts.Clock, c.opts.Random)
		c.screen.Clear()
	}

	prompt := fmt.Sprintf("\nYou now have two pets; %s and %s. Select one to act on.\n\n  1. %s\n  2. %s\n\n > ",
		pets[0].DisplayName(), pets[1].DisplayName(), pets[0].DisplayName(), pets[1].DisplayName())
	active, err := c.choose(prompt, 1, game.PetCount, nil)
	if err != nil {
		return nil, err
	}

	sess, err := game.NewSession(c.opts.Clock.Now(), pets[0], pets[1], active)
	if err != nil {
		return nil, err
	}
	c.opts.Metrics.RecordSession()
	c.record(sess, events.GameEvent{Type: events.EventTypeSessionStarted, ActorID: events.ActorPlayer})
	for _, p := range pets {
		c.record(sess, events.GameEvent{
			Type:     events.EventTypePetAdopted,
			ActorID:  events.ActorPlayer,
			TargetID: p.DisplayName(),
			Payload:  events.AdoptionPayload{Kind: p.Kind().String()},
		})
	}
	c.opts.Logger.Info(fmt.Sprintf("Session %s started with %s the %s and %s the %s.", sess.ID,
		pets[0].DisplayName(), pets[0].Kind(), pets[1].DisplayName(), pets[1].Kind()))

	p := sess.Active()
	c.screen.Write(fmt.Sprintf("You have selected your %s, %s. To get started, press [ RETURN ]", p.Kind(), p.DisplayName()))
	if _, err := readLine(c.in); err != nil {
		return nil, err
	}
	c.current.Store(sess)
	return sess, nil
}

func (c *Controller) askName(kind pet.Kind, i int) (string, error) {
	for {
		c.screen.Write(fmt.Sprintf("\nYou chose a %s to be your %s pet. What are you going to name it?\n > ", kind, ordinal(i)))
		line, err := readLine(c.in)
		if err != nil {
			return "", err
		}
		if name := strings.TrimSpace(line); name != "" {
			return name, nil
		}
	}
}

// choose wraps Choose with invalid-input accounting.
func (c *Controller) choose(prompt string, min, max int, redraw func(r Renderer)) (int, error) {
	return Choose(c.screen, c.in, prompt, min, max, func() {
		c.opts.Metrics.RecordInvalidInput()
		c.screen.draw(func(r Renderer) {
			r.Clear()
			if redraw != nil {
				redraw(r)
			}
		})
	})
}

func (c *Controller) play(ctx context.Context, sess *game.Session) (outcome, error) {
	ticked := make(chan struct{}, 1)
	sched := engine.NewScheduler(sess, engine.Options{
		Interval: c.opts.TickInterval,
		Clock:    c.opts.Clock,
		EventLog: c.opts.EventLog,
		Logger:   c.opts.Logger,
		Metrics:  c.opts.Metrics,
		OnTick: func() {
			select {
			case ticked <- struct{}{}:
			default:
			}
		},
	})

	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.refresh(refreshCtx, sess, ticked)
	}()

	sched.Start(ctx)
	defer func() {
		sched.Stop()
		cancelRefresh()
		wg.Wait()
		c.screen.setMenu(false)
	}()

	for {
		if sess.Over() {
			return outcomeGameOver, nil
		}

		c.screen.draw(func(r Renderer) {
			r.Clear()
			c.drawStatus(r, sess)
		})

		c.screen.setMenu(true)
		choice, err := c.choose(mainMenu, 1, menuSize, func(r Renderer) { c.drawStatus(r, sess) })
		c.screen.setMenu(false)
		if err != nil {
			return outcomeExit, err
		}
		if sess.Over() {
			return outcomeGameOver, nil
		}

		switch choice {
		case menuFeed:
			err = c.feed(sess)
		case menuPlay:
			err = c.playWith(sess)
		case menuTalk:
			err = c.talk(sess)
		case menuSwitch:
			err = c.switchPet(sess)
		case menuExit:
			return outcomeExit, nil
		}
		if err != nil {
			return outcomeExit, err
		}
	}
}

const mainMenu = "\nWhat are you going to do next? Choose from the following:\n\n  1. Feed\n  2. Play\n  3. Speak with pet\n  4. Choose Pet\n  5. Exit\n\n > "

// refresh redraws the status after every tick while the main menu is
// waiting, and tells the player when a pet has died under them.
func (c *Controller) refresh(ctx context.Context, sess *game.Session, ticked <-chan struct{}) {
	notified := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticked:
		}
		if sess.Over() {
			if !notified {
				notified = true
				c.screen.draw(func(r Renderer) {
					r.Write("\n\nOh no! One of your pets has passed out. Press [ RETURN ] to continue.")
				})
			}
			continue
		}
		c.screen.drawIfMenu(func(r Renderer) {
			r.Clear()
			c.drawStatus(r, sess)
			r.Write(mainMenu)
		})
	}
}

func (c *Controller) drawStatus(r Renderer, sess *game.Session) {
	active := sess.Active().Snapshot()
	var b strings.Builder
	if art := c.opts.Art(active.Kind); art != "" {
		b.WriteString(art)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Name: %s\nType: %s\nHunger: %d\nBoredom: %d\nMood: %s\n",
		active.DisplayName, active.Kind, active.Hunger, active.Boredom, active.Label)

	if other := sess.Other().Snapshot(); other.Mood > c.opts.NuisanceMood {
		fmt.Fprintf(&b, "\n > Don't forget about %s as well!\n", other.DisplayName)
	}
	r.Write(b.String())
}

func (c *Controller) pressReturn() error {
	c.screen.Write("\nTo continue, press [ RETURN ]")
	_, err := readLine(c.in)
	return err
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func (c *Controller) feed(sess *game.Session) error {
	p := sess.Active()
	after, fed := p.Feed(pet.Random())
	c.opts.Metrics.RecordAction(metrics.ActionFeed)
	c.record(sess, events.GameEvent{
		Type:     events.EventTypePetFed,
		ActorID:  events.ActorPlayer,
		TargetID: p.DisplayName(),
		Payload:  events.CarePayload{Amount: fed, After: after},
	})

	if fed > 0 {
		c.screen.Write(fmt.Sprintf("\nYou fed %s %d %s of food.\n", p.DisplayName(), fed, plural(fed, "unit")))
	} else {
		c.screen.Write(fmt.Sprintf("\n%s isn't hungry right now. Try again when its hunger goes up!\n", p.DisplayName()))
	}
	return c.pressReturn()
}

func (c *Controller) playWith(sess *game.Session) error {
	p := sess.Active()
	after, played := p.Play(pet.Random())
	c.opts.Metrics.RecordAction(metrics.ActionPlay)
	c.record(sess, events.GameEvent{
		Type:     events.EventTypePetPlayed,
		ActorID:  events.ActorPlayer,
		TargetID: p.DisplayName(),
		Payload:  events.CarePayload{Amount: played, After: after},
	})

	if played > 0 {
		c.screen.Write(fmt.Sprintf("\nYou played with %s for %d %s.\n", p.DisplayName(), played, plural(played, "minute")))
	} else {
		c.screen.Write(fmt.Sprintf("\n%s doesn't need any attention right now. Try again when its boredom goes up!\n", p.DisplayName()))
	}
	return c.pressReturn()
}

func (c *Controller) talk(sess *game.Session) error {
	p := sess.Active()
	line := p.Speak()
	c.opts.Metrics.RecordAction(metrics.ActionTalk)
	c.record(sess, events.GameEvent{
		Type:     events.EventTypePetTalked,
		ActorID:  events.ActorPlayer,
		TargetID: p.DisplayName(),
		Payload:  events.TalkPayload{Line: line},
	})

	c.screen.Write(fmt.Sprintf("\n%s says:\n%s\n", p.DisplayName(), line))
	return c.pressReturn()
}

func (c *Controller) switchPet(sess *game.Session) error {
	var b strings.Builder
	b.WriteString("\nSelect a pet to pet:\n\n")
	for i, p := range sess.Pets() {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, p.DisplayName())
	}
	b.WriteString("\n > ")

	choice, err := c.choose(b.String(), 1, game.PetCount, nil)
	if err != nil {
		return err
	}
	if err := sess.Select(choice); err != nil {
		return err
	}
	p := sess.Active()
	c.opts.Metrics.RecordAction(metrics.ActionSwitch)
	c.record(sess, events.GameEvent{
		Type:     events.EventTypeActivePetChanged,
		ActorID:  events.ActorPlayer,
		TargetID: p.DisplayName(),
	})
	c.screen.Write(fmt.Sprintf("\nYou have selected %s the %s.\n", p.DisplayName(), p.Kind()))
	return nil
}

func (c *Controller) gameOver(sess *game.Session) (bool, error) {
	deceased, err := DetectDeceased(sess.Pets())
	if err != nil {
		c.opts.Logger.Error("Game over without a deceased pet in session " + sess.ID)
		return false, err
	}

	snap := deceased.Snapshot()
	var b strings.Builder
	if art := c.opts.Art(snap.Kind); art != "" {
		b.WriteString(art)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "GAME OVER\n\n%s the %s has passed out from neglect and won't be waking up.\n", snap.DisplayName, snap.Kind)
	fmt.Fprintf(&b, "%s lived for %s.\n", snap.DisplayName, Lifespan(snap.BornAt, snap.DiedAt))

	c.screen.draw(func(r Renderer) {
		r.Clear()
		r.Write(b.String())
	})
	return PromptRestart(c.screen, c.in)
}

func (c *Controller) record(sess *game.Session, e events.GameEvent) {
	e.SessionID = sess.ID
	e.Timestamp = c.opts.Clock.Now()
	c.opts.EventLog.Append(e)
	c.opts.Logger.Event(string(e.Type), e.ActorID, e.TargetID)
}
