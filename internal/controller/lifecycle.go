package controller

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MRamiBalles/VirtualPets/internal/domain/pet"
)

// ErrNoDeceased means game-over handling ran with every pet still alive.
// It is a programming error, not something the player can cause.
var ErrNoDeceased = errors.New("no pet has reached the death mood")

// DetectDeceased returns the first pet whose mood reached pet.DeathMood.
func DetectDeceased(pets []*pet.Pet) (*pet.Pet, error) {
	for _, p := range pets {
		if p.AtDeathMood() {
			return p, nil
		}
	}
	return nil, ErrNoDeceased
}

type lifespanUnit struct {
	size     time.Duration
	singular string
	plural   string
}

var lifespanUnits = []lifespanUnit{
	{24 * time.Hour, "Day", "Days"},
	{time.Hour, "Hour", "Hours"},
	{time.Minute, "Minute", "Minutes"},
	{time.Second, "Second", "Seconds"},
}

// Lifespan renders the time between birth and death, truncated to whole
// seconds. Leading units that are zero are left out, so 90 seconds reads
// "1 Minute and 30 Seconds" and a zero lifespan reads "0 Seconds".
func Lifespan(bornAt, diedAt time.Time) string {
	d := diedAt.Sub(bornAt)
	if d < 0 {
		d = 0
	}

	var parts []string
	for _, u := range lifespanUnits {
		n := int64(d / u.size)
		d -= time.Duration(n) * u.size
		if n == 0 && len(parts) == 0 && u.size != time.Second {
			continue
		}
		word := u.plural
		if n == 1 {
			word = u.singular
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, word))
	}

	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
}

// PromptRestart asks whether to play again. Any answer starting with "y",
// in either case, means yes.
func PromptRestart(r Renderer, in InputSource) (bool, error) {
	r.Write("\nWould you like to play again? (y/n)\n\n > ")
	line, err := readLine(in)
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y"), nil
}

// Shutdown counts down from delaySeconds, one second per step, and returns
// when the count reaches zero. The caller then exits the process.
func Shutdown(r Renderer, delaySeconds int, sleep func(time.Duration)) {
	if sleep == nil {
		sleep = time.Sleep
	}
	for n := delaySeconds; n > 0; n-- {
		r.Write(fmt.Sprintf("\rExiting in %d", n))
		sleep(time.Second)
	}
	r.Write("\n")
}
