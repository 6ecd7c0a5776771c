// Package random provides the uniform integer source used for feeding,
// playing, decay and flavour text.
package random

import (
	"fmt"
	"math/rand"
	"sync"
)

// Source draws uniform integers from [low, high).
type Source interface {
	IntInRange(low, high int) int
}

// Uniform draws from the runtime's global generator.
type Uniform struct{}

// IntInRange returns a uniform integer in [low, high). It panics if high <= low.
func (Uniform) IntInRange(low, high int) int {
	if high <= low {
		panic(fmt.Sprintf("random: empty range [%d,%d)", low, high))
	}
	return low + rand.Intn(high-low)
}

// Sequence replays a fixed list of draws. Each draw must fall inside the
// requested range, otherwise IntInRange panics; this keeps scripted tests
// honest about the ranges used at each call site.
type Sequence struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewSequence returns a Sequence that yields values in order.
func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) IntInRange(low, high int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.values) {
		panic(fmt.Sprintf("random: sequence exhausted after %d draws", len(s.values)))
	}
	v := s.values[s.next]
	if v < low || v >= high {
		panic(fmt.Sprintf("random: scripted draw %d outside [%d,%d)", v, low, high))
	}
	s.next++
	return v
}

// Remaining reports how many scripted draws are left.
func (s *Sequence) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values) - s.next
}
