package pet

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MRamiBalles/VirtualPets/internal/platform/clock"
	"github.com/MRamiBalles/VirtualPets/internal/platform/random"
)

var epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func TestNewPetStampsBirth(t *testing.T) {
	clk := clock.NewManual(epoch)
	p := New("tom", Cat, clk, random.Uniform{})

	if !p.BornAt().Equal(epoch) {
		t.Fatalf("expected bornAt %v got %v", epoch, p.BornAt())
	}
	if _, dead := p.DiedAt(); dead {
		t.Fatalf("new pet should be alive")
	}
	if p.Hunger() != 0 || p.Boredom() != 0 {
		t.Fatalf("expected zero needs, got hunger=%d boredom=%d", p.Hunger(), p.Boredom())
	}
}

func TestDisplayNameIsTitleCased(t *testing.T) {
	p := New("sir fluffington the third", Rabbit, clock.RealClock{}, random.Uniform{})

	if p.Name() != "sir fluffington the third" {
		t.Fatalf("raw name changed: %q", p.Name())
	}
	if got := p.DisplayName(); got != "Sir Fluffington The Third" {
		t.Fatalf("expected title case, got %q", got)
	}
}

func TestFeedClampsAtZero(t *testing.T) {
	cases := []struct {
		start, amount, want int
	}{
		{start: 10, amount: 4, want: 6},
		{start: 3, amount: 5, want: 0},
		{start: 0, amount: 7, want: 0},
		{start: 8, amount: 0, want: 8},
		{start: 100, amount: 100, want: 0},
	}
	for _, tc := range cases {
		p := New("p", Dog, clock.RealClock{}, random.Uniform{}, WithNeeds(tc.start, tc.start))

		hunger, fed := p.Feed(Units(tc.amount))
		if hunger != tc.want {
			t.Errorf("feed %d from %d: expected %d got %d", tc.amount, tc.start, tc.want, hunger)
		}
		if fed != tc.start-tc.want {
			t.Errorf("feed %d from %d: expected delta %d got %d", tc.amount, tc.start, tc.start-tc.want, fed)
		}

		boredom, played := p.Play(Units(tc.amount))
		if boredom != tc.want || played != tc.start-tc.want {
			t.Errorf("play %d from %d: got boredom=%d played=%d", tc.amount, tc.start, boredom, played)
		}
	}
}

func TestNegativeUnitsAreIgnored(t *testing.T) {
	p := New("p", Dog, clock.RealClock{}, random.Uniform{}, WithNeeds(10, 10))

	if hunger, fed := p.Feed(Units(-5)); hunger != 10 || fed != 0 {
		t.Fatalf("expected no change, got hunger=%d fed=%d", hunger, fed)
	}
}

func TestDefaultPortion(t *testing.T) {
	p := New("p", Horse, clock.RealClock{}, random.Uniform{}, WithNeeds(12, 4))

	if hunger, fed := p.Feed(Default()); hunger != 7 || fed != DefaultPortion {
		t.Fatalf("expected hunger 7 fed 5, got %d %d", hunger, fed)
	}
	if boredom, played := p.Play(Default()); boredom != 0 || played != 4 {
		t.Fatalf("expected boredom 0 played 4, got %d %d", boredom, played)
	}
}

func TestRandomFeedWhenNotHungryReportsZero(t *testing.T) {
	p := New("p", Cat, clock.RealClock{}, random.Uniform{})

	hunger, fed := p.Feed(Random())
	if hunger != 0 || fed != 0 {
		t.Fatalf("expected 0 units fed, got hunger=%d fed=%d", hunger, fed)
	}
}

func TestRandomPortionStaysInRange(t *testing.T) {
	for i := 0; i < 2000; i++ {
		p := New("p", Parrot, clock.RealClock{}, random.Uniform{}, WithNeeds(50, 50))
		_, fed := p.Feed(Random())
		_, played := p.Play(Random())
		if fed < RandomPortionMin || fed >= RandomPortionMax {
			t.Fatalf("random feed %d outside [3,8)", fed)
		}
		if played < RandomPortionMin || played >= RandomPortionMax {
			t.Fatalf("random play %d outside [3,8)", played)
		}
	}
}

func TestTickDecayStaysInRange(t *testing.T) {
	for i := 0; i < 2000; i++ {
		p := New("p", Turtle, clock.RealClock{}, random.Uniform{})
		d := p.Tick()
		if d.Hunger < DecayMin || d.Hunger >= DecayMax || d.Boredom < DecayMin || d.Boredom >= DecayMax {
			t.Fatalf("decay %+v outside [2,8)", d)
		}
		if p.Hunger() != d.Hunger || p.Boredom() != d.Boredom {
			t.Fatalf("decay not applied: %+v vs hunger=%d boredom=%d", d, p.Hunger(), p.Boredom())
		}
	}
}

func TestMoodIsPureFunctionOfNeeds(t *testing.T) {
	p := New("p", Cat, clock.RealClock{}, random.Uniform{}, WithNeeds(40, 30))

	first := p.Mood()
	second := p.Mood()
	if first != second || first < 45.999 || first > 46.001 {
		t.Fatalf("expected mood 46 twice, got %v and %v", first, second)
	}
	if MoodOf(40, 30) != first {
		t.Fatalf("MoodOf disagrees with Mood")
	}

	p.Feed(Units(10))
	if p.Mood() != MoodOf(30, 30) {
		t.Fatalf("mood did not follow hunger: %v", p.Mood())
	}
}

func TestMoodLabels(t *testing.T) {
	cases := []struct {
		score float64
		want  Mood
	}{
		{0, Euphoric},
		{4.8, Euphoric},
		{5, Happy},
		{24.9, Happy},
		{25, Unhappy},
		{49, Unhappy},
		{50, Mad},
		{74.8, Mad},
		{75, RagingMad},
		{94.9, RagingMad},
		{95, PassedOut},
		{150, PassedOut},
	}
	for _, tc := range cases {
		if got := LabelFor(tc.score); got != tc.want {
			t.Errorf("LabelFor(%v): expected %v got %v", tc.score, tc.want, got)
		}
	}

	p := New("p", Cat, clock.RealClock{}, random.Uniform{}, WithNeeds(20, 30))
	if p.MoodLabel() != Unhappy {
		t.Fatalf("expected Unhappy for mood 26, got %v", p.MoodLabel())
	}
}

func TestDeathScenario(t *testing.T) {
	clk := clock.NewManual(epoch)
	rngA := random.NewSequence(2, 2, 7, 7)
	a := New("a", Dog, clk, rngA, WithNeeds(90, 10))
	b := New("b", Cat, clk, random.NewSequence(3, 3))

	d := a.Tick()
	if d.Died {
		t.Fatalf("first tick should not kill")
	}
	if a.Hunger() != 92 || a.Boredom() != 12 || a.Mood() != MoodOf(92, 12) {
		t.Fatalf("expected hunger 92 boredom 12, got %d %d (mood %v)", a.Hunger(), a.Boredom(), a.Mood())
	}

	clk.Advance(15 * time.Second)

	// [2,8) cannot yield +8, so the second draw is +7/+7 on top of the
	// scripted first tick: hunger 99, boredom 19, mood 102.8.
	d = a.Tick()
	if !d.Died {
		t.Fatalf("second tick should kill, mood=%v", a.Mood())
	}
	diedAt, dead := a.DiedAt()
	if !dead || !diedAt.Equal(epoch.Add(15*time.Second)) {
		t.Fatalf("expected death stamped at %v, got %v (dead=%v)", epoch.Add(15*time.Second), diedAt, dead)
	}

	if b.Tick().Died || !b.Alive() {
		t.Fatalf("other pet must be unaffected")
	}
	if b.Hunger() != 3 || b.Boredom() != 3 {
		t.Fatalf("other pet should still tick, got hunger=%d boredom=%d", b.Hunger(), b.Boredom())
	}
}

func TestTickAfterDeathIsNoop(t *testing.T) {
	clk := clock.NewManual(epoch)
	p := New("p", Horse, clk, random.Uniform{}, WithNeeds(99, 0))

	if !p.Tick().Died {
		t.Fatalf("expected death on first tick")
	}
	hunger, boredom := p.Hunger(), p.Boredom()
	diedAt, _ := p.DiedAt()

	clk.Advance(time.Hour)
	for i := 0; i < 5; i++ {
		if d := p.Tick(); d != (Decay{}) {
			t.Fatalf("tick on dead pet returned %+v", d)
		}
	}
	if _, fed := p.Feed(Units(50)); fed != 0 {
		t.Fatalf("dead pet should not be fed")
	}
	if _, played := p.Play(Units(50)); played != 0 {
		t.Fatalf("dead pet should not play")
	}

	again, _ := p.DiedAt()
	if p.Hunger() != hunger || p.Boredom() != boredom || !again.Equal(diedAt) {
		t.Fatalf("dead pet changed: hunger=%d boredom=%d diedAt=%v", p.Hunger(), p.Boredom(), again)
	}
}

func TestTickBelowThresholdNeverKills(t *testing.T) {
	p := New("p", Rabbit, clock.RealClock{}, random.Uniform{})
	deaths := 0
	for p.Alive() {
		if p.AtDeathMood() {
			t.Fatalf("pet alive at death mood %v", p.Mood())
		}
		d := p.Tick()
		if d.Died != p.AtDeathMood() {
			t.Fatalf("died=%v with mood %v", d.Died, p.Mood())
		}
		if d.Died {
			deaths++
		}
	}
	if deaths != 1 {
		t.Fatalf("expected exactly one death, got %d", deaths)
	}
	if !p.AtDeathMood() {
		t.Fatalf("dead pet should be at death mood")
	}
}

func TestSpeakSuffix(t *testing.T) {
	cases := []struct {
		name            string
		hunger, boredom int
		want            string
	}{
		{"content", 10, 10, ""},
		{"hungry", 26, 25, hungryLine},
		{"bored", 25, 40, boredLine},
		{"both", 30, 30, hungryAndBoredLine},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := New("p", Parrot, clock.RealClock{}, random.NewSequence(0), WithNeeds(tc.hunger, tc.boredom))
			got := p.Speak()
			if !strings.HasPrefix(got, phrases[Parrot][0]) {
				t.Fatalf("expected phrase prefix, got %q", got)
			}
			if tc.want == "" {
				if got != phrases[Parrot][0] {
					t.Fatalf("expected no suffix, got %q", got)
				}
				return
			}
			if !strings.HasSuffix(got, tc.want) {
				t.Fatalf("expected suffix %q, got %q", tc.want, got)
			}
		})
	}
}

func TestEveryKindHasPhrases(t *testing.T) {
	for _, k := range Kinds() {
		if len(phrases[k]) == 0 {
			t.Errorf("%v has no phrases", k)
		}
	}
}

func TestKindStringAndValidity(t *testing.T) {
	if Turtle.String() != "Turtle" {
		t.Fatalf("unexpected name %q", Turtle.String())
	}
	if Kind(6).Valid() || Kind(-1).Valid() {
		t.Fatalf("out-of-range kinds should be invalid")
	}
	if len(Kinds()) != 6 {
		t.Fatalf("expected 6 kinds")
	}
}

func TestConcurrentFeedAndTick(t *testing.T) {
	p := New("p", Dog, clock.RealClock{}, random.Uniform{})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500 && p.Alive(); i++ {
			p.Tick()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			p.Feed(Random())
			p.Play(Random())
			s := p.Snapshot()
			if s.Hunger < 0 || s.Boredom < 0 {
				t.Errorf("negative needs: %+v", s)
				return
			}
			if s.Mood != MoodOf(s.Hunger, s.Boredom) {
				t.Errorf("torn snapshot: %+v", s)
				return
			}
		}
	}()
	wg.Wait()
}
