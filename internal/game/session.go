// Package game holds the state shared between the player's menu loop and
// the decay scheduler: the two pets, which one is active, and the
// game-over latch. A Session is created fresh for every game and is never
// reused after a restart.
package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MRamiBalles/VirtualPets/internal/domain/pet"
)

// PetCount is the number of pets a player keeps.
const PetCount = 2

// ErrInvalidPet is returned when a pet index is out of range.
var ErrInvalidPet = errors.New("invalid pet index")

// Snapshot is a consistent view of a session.
type Snapshot struct {
	ID        string         `json:"id"`
	StartedAt time.Time      `json:"started_at"`
	Active    int            `json:"active"`
	Over      bool           `json:"over"`
	Pets      []pet.Snapshot `json:"pets"`
}

// Session is safe for concurrent use.
type Session struct {
	ID        string
	StartedAt time.Time

	mu     sync.RWMutex
	pets   [PetCount]*pet.Pet
	active int

	overOnce sync.Once
	over     chan struct{}
}

// NewSession starts a session over exactly two pets with the given
// active index.
func NewSession(startedAt time.Time, first, second *pet.Pet, active int) (*Session, error) {
	if first == nil || second == nil {
		return nil, errors.New("session needs two pets")
	}
	if active < 0 || active >= PetCount {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPet, active)
	}
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: startedAt,
		pets:      [PetCount]*pet.Pet{first, second},
		active:    active,
		over:      make(chan struct{}),
	}, nil
}

// Pets returns both pets in adoption order.
func (s *Session) Pets() []*pet.Pet {
	return []*pet.Pet{s.pets[0], s.pets[1]}
}

// Pet returns the pet at index i.
func (s *Session) Pet(i int) (*pet.Pet, error) {
	if i < 0 || i >= PetCount {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPet, i)
	}
	return s.pets[i], nil
}

// ActiveIndex returns the index of the pet menu actions target.
func (s *Session) ActiveIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Active returns the pet menu actions target.
func (s *Session) Active() *pet.Pet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pets[s.active]
}

// Other returns the pet that is not active.
func (s *Session) Other() *pet.Pet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pets[PetCount-1-s.active]
}

// Select makes pet i the active one.
func (s *Session) Select(i int) error {
	if i < 0 || i >= PetCount {
		return fmt.Errorf("%w: %d", ErrInvalidPet, i)
	}
	s.mu.Lock()
	s.active = i
	s.mu.Unlock()
	return nil
}

// End latches game-over. It reports true only for the call that latched.
func (s *Session) End() bool {
	latched := false
	s.overOnce.Do(func() {
		close(s.over)
		latched = true
	})
	return latched
}

// Over reports whether game-over has been latched.
func (s *Session) Over() bool {
	select {
	case <-s.over:
		return true
	default:
		return false
	}
}

// Done is closed when game-over is latched.
func (s *Session) Done() <-chan struct{} {
	return s.over
}

// Snapshot copies the session. Each pet is copied under its own lock.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	active := s.active
	s.mu.RUnlock()

	pets := make([]pet.Snapshot, 0, PetCount)
	for _, p := range s.pets {
		pets = append(pets, p.Snapshot())
	}
	return Snapshot{
		ID:        s.ID,
		StartedAt: s.StartedAt,
		Active:    active,
		Over:      s.Over(),
		Pets:      pets,
	}
}
