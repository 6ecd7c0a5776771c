// Package pet defines the virtual pet and the rules for its needs.
// This package is PURE and must NOT import events, engine or network
// packages; the only collaborators it knows are a clock and a random source.
package pet

import (
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/MRamiBalles/VirtualPets/internal/platform/clock"
	"github.com/MRamiBalles/VirtualPets/internal/platform/random"
)

const (
	// DefaultPortion is how much a default feed or play removes.
	DefaultPortion = 5
	// RandomPortionMin and RandomPortionMax bound a random feed or play, max exclusive.
	RandomPortionMin = 3
	RandomPortionMax = 8
	// DecayMin and DecayMax bound the per-tick increase of each need, max exclusive.
	DecayMin = 2
	DecayMax = 8

	// BoredomWeight keeps boredom alone from being very likely to kill a pet.
	BoredomWeight = 0.2
	// DeathMood is the mood score at which a pet passes out for good.
	DeathMood = 100
	// NeedThreshold is the hunger/boredom level above which a pet complains.
	NeedThreshold = 25
)

type amountMode int

const (
	modeDefault amountMode = iota
	modeRandom
	modeUnits
)

// Amount says how much a feed or play should remove.
type Amount struct {
	mode  amountMode
	units int
}

// Default removes DefaultPortion.
func Default() Amount { return Amount{mode: modeDefault} }

// Random removes a uniform draw from [RandomPortionMin, RandomPortionMax).
func Random() Amount { return Amount{mode: modeRandom} }

// Units removes exactly n. Negative values are treated as zero.
func Units(n int) Amount {
	if n < 0 {
		n = 0
	}
	return Amount{mode: modeUnits, units: n}
}

// Decay is the outcome of one tick on one pet.
type Decay struct {
	Hunger  int  `json:"hunger"`
	Boredom int  `json:"boredom"`
	Died    bool `json:"died"`
}

// Snapshot is a consistent copy of a pet's state.
type Snapshot struct {
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Kind        Kind      `json:"kind"`
	Hunger      int       `json:"hunger"`
	Boredom     int       `json:"boredom"`
	Mood        float64   `json:"mood"`
	Label       Mood      `json:"label"`
	BornAt      time.Time `json:"born_at"`
	DiedAt      time.Time `json:"died_at"`
	Alive       bool      `json:"alive"`
}

// Pet holds one pet's needs. All methods are safe for concurrent use; the
// decay scheduler and the player's menu actions both mutate the same Pet.
type Pet struct {
	mu      sync.Mutex
	name    string
	kind    Kind
	hunger  int
	boredom int
	bornAt  time.Time
	diedAt  time.Time
	dead    bool

	clk clock.Clock
	rng random.Source
}

// Option customises a new Pet.
type Option func(*Pet)

// WithNeeds sets the starting hunger and boredom, clamped at zero.
func WithNeeds(hunger, boredom int) Option {
	return func(p *Pet) {
		p.hunger = max(hunger, 0)
		p.boredom = max(boredom, 0)
	}
}

// New adopts a pet. bornAt is taken from clk.
func New(name string, kind Kind, clk clock.Clock, rng random.Source, opts ...Option) *Pet {
	p := &Pet{
		name: name,
		kind: kind,
		clk:  clk,
		rng:  rng,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bornAt = clk.Now()
	return p
}

// Name returns the name as the player typed it.
func (p *Pet) Name() string {
	return p.name
}

// DisplayName returns the title-cased name.
func (p *Pet) DisplayName() string {
	return TitleCase(p.name)
}

// TitleCase applies British English title casing to a name.
func TitleCase(s string) string {
	return cases.Title(language.BritishEnglish).String(s)
}

func (p *Pet) Kind() Kind {
	return p.kind
}

func (p *Pet) Hunger() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hunger
}

func (p *Pet) Boredom() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.boredom
}

// Mood returns hunger + BoredomWeight*boredom.
func (p *Pet) Mood() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mood()
}

func (p *Pet) mood() float64 {
	return MoodOf(p.hunger, p.boredom)
}

// MoodOf computes the mood score for the given needs.
func MoodOf(hunger, boredom int) float64 {
	return float64(hunger) + BoredomWeight*float64(boredom)
}

// deadly compares in fifths so boredom's weight introduces no rounding.
func deadly(hunger, boredom int) bool {
	return 5*hunger+boredom >= 5*DeathMood
}

// AtDeathMood reports whether the mood score is at or above DeathMood.
func (p *Pet) AtDeathMood() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return deadly(p.hunger, p.boredom)
}

// MoodLabel returns the label for the current mood.
func (p *Pet) MoodLabel() Mood {
	return LabelFor(p.Mood())
}

// Alive reports whether the pet has not yet died.
func (p *Pet) Alive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.dead
}

func (p *Pet) BornAt() time.Time {
	return p.bornAt
}

// DiedAt returns the death stamp and whether it is set.
func (p *Pet) DiedAt() (time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.diedAt, p.dead
}

// Snapshot copies the pet's state under one lock acquisition.
func (p *Pet) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	m := p.mood()
	return Snapshot{
		Name:        p.name,
		DisplayName: TitleCase(p.name),
		Kind:        p.kind,
		Hunger:      p.hunger,
		Boredom:     p.boredom,
		Mood:        m,
		Label:       LabelFor(m),
		BornAt:      p.bornAt,
		DiedAt:      p.diedAt,
		Alive:       !p.dead,
	}
}

func (p *Pet) portion(a Amount) int {
	switch a.mode {
	case modeRandom:
		return p.rng.IntInRange(RandomPortionMin, RandomPortionMax)
	case modeUnits:
		return a.units
	default:
		return DefaultPortion
	}
}

// Feed lowers hunger by a and returns the new hunger and how much it
// actually dropped. Hunger never goes below zero. A dead pet is frozen.
func (p *Pet) Feed(a Amount) (hunger, fed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dead {
		return p.hunger, 0
	}
	before := p.hunger
	p.hunger = max(before-p.portion(a), 0)
	return p.hunger, before - p.hunger
}

// Play lowers boredom by a and returns the new boredom and how much it
// actually dropped. Boredom never goes below zero. A dead pet is frozen.
func (p *Pet) Play(a Amount) (boredom, played int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dead {
		return p.boredom, 0
	}
	before := p.boredom
	p.boredom = max(before-p.portion(a), 0)
	return p.boredom, before - p.boredom
}

// Tick applies one round of decay and, if the mood reaches DeathMood,
// stamps the death time. It is a no-op on a dead pet. Died is true only
// on the tick that killed the pet.
func (p *Pet) Tick() Decay {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dead {
		return Decay{}
	}

	d := Decay{
		Hunger:  p.rng.IntInRange(DecayMin, DecayMax),
		Boredom: p.rng.IntInRange(DecayMin, DecayMax),
	}
	p.hunger += d.Hunger
	p.boredom += d.Boredom

	if deadly(p.hunger, p.boredom) {
		p.dead = true
		p.diedAt = p.clk.Now()
		d.Died = true
	}
	return d
}

// Speak returns a random phrase for the pet's kind, followed by a
// complaint when hunger or boredom is above NeedThreshold.
func (p *Pet) Speak() string {
	lines := phrases[p.kind]
	var line string
	if len(lines) > 0 {
		line = lines[p.rng.IntInRange(0, len(lines))]
	}

	p.mu.Lock()
	hungry := p.hunger > NeedThreshold
	bored := p.boredom > NeedThreshold
	p.mu.Unlock()

	switch {
	case hungry && bored:
		return line + "\n" + hungryAndBoredLine
	case hungry:
		return line + "\n" + hungryLine
	case bored:
		return line + "\n" + boredLine
	}
	return line
}
