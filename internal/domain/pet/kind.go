package pet

import "fmt"

// Kind is the species of a pet. It is fixed at adoption and selects its
// phrases and art.
type Kind int

const (
	Cat Kind = iota
	Dog
	Rabbit
	Turtle
	Parrot
	Horse
)

var kindNames = [...]string{"Cat", "Dog", "Rabbit", "Turtle", "Parrot", "Horse"}

// Kinds returns every kind in menu order.
func Kinds() []Kind {
	return []Kind{Cat, Dog, Rabbit, Turtle, Parrot, Horse}
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k >= Cat && k <= Horse
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Mood is the label derived from a pet's mood score.
type Mood int

const (
	Euphoric Mood = iota
	Happy
	Unhappy
	Mad
	RagingMad
	PassedOut
)

func (m Mood) String() string {
	switch m {
	case Euphoric:
		return "Having the time of its life"
	case Happy:
		return "Happy"
	case Unhappy:
		return "Unhappy"
	case Mad:
		return "Mad"
	case RagingMad:
		return "Raging Mad"
	case PassedOut:
		return "Passed Out"
	}
	return fmt.Sprintf("Mood(%d)", int(m))
}

func (m Mood) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// LabelFor maps a mood score to its label.
func LabelFor(score float64) Mood {
	switch {
	case score < 5:
		return Euphoric
	case score < 25:
		return Happy
	case score < 50:
		return Unhappy
	case score < 75:
		return Mad
	case score < 95:
		return RagingMad
	default:
		return PassedOut
	}
}
