package console

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/MRamiBalles/VirtualPets/internal/domain/pet"
)

func TestTerminalWritesAndClears(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out, strings.NewReader(""))

	term.Write("hello")
	term.Clear()
	term.Write(" > ")

	if got := out.String(); got != "hello"+clearScreen+" > " {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestTerminalReadsLinesThenEOF(t *testing.T) {
	term := NewTerminal(io.Discard, strings.NewReader("1\r\ntom\n\nlast"))

	for _, want := range []string{"1", "tom", "", "last"} {
		got, err := term.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine: %v", err)
		}
		if got != want {
			t.Fatalf("expected %q got %q", want, got)
		}
	}
	if _, err := term.ReadLine(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF got %v", err)
	}
}

func TestArtForEveryKind(t *testing.T) {
	seen := map[string]pet.Kind{}
	for _, k := range pet.Kinds() {
		a := Art(k)
		if strings.TrimSpace(a) == "" {
			t.Fatalf("no art for %s", k)
		}
		if other, dup := seen[a]; dup {
			t.Fatalf("%s and %s share art", k, other)
		}
		seen[a] = k
	}
	if Art(pet.Kind(42)) != "" {
		t.Fatalf("unknown kind should have no art")
	}
}
