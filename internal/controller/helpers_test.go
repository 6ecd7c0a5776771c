package controller

import (
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

// recorder is a Renderer that keeps everything written to it.
type recorder struct {
	mu     sync.Mutex
	out    strings.Builder
	clears int
}

func (r *recorder) Clear() {
	r.mu.Lock()
	r.clears++
	r.mu.Unlock()
}

func (r *recorder) Write(text string) {
	r.mu.Lock()
	r.out.WriteString(text)
	r.mu.Unlock()
}

func (r *recorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.out.String()
}

func (r *recorder) Clears() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clears
}

// lines is an InputSource fed through a channel; closing it ends input.
type lines chan string

func (l lines) ReadLine() (string, error) {
	line, ok := <-l
	if !ok {
		return "", io.EOF
	}
	return line, nil
}

// script returns an InputSource that yields the given lines then io.EOF.
func script(in ...string) lines {
	l := make(lines, len(in))
	for _, s := range in {
		l <- s
	}
	close(l)
	return l
}

func noSleep(time.Duration) {}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}
