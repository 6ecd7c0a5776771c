package controller

import (
	"errors"
	"io"
	"sync"
)

// Renderer is the screen the game draws on.
type Renderer interface {
	Clear()
	Write(text string)
}

// InputSource yields one line of player input at a time. It blocks until a
// line is available and returns io.EOF once input is exhausted.
type InputSource interface {
	ReadLine() (string, error)
}

// ErrInputClosed is returned when the player's input stream ends.
var ErrInputClosed = errors.New("input closed")

func readLine(in InputSource) (string, error) {
	line, err := in.ReadLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", err
	}
	return line, nil
}

// screen serialises drawing between the menu loop and the background
// refresher so output is never interleaved.
type screen struct {
	mu     sync.Mutex
	r      Renderer
	inMenu bool
}

func (s *screen) Clear() {
	s.mu.Lock()
	s.r.Clear()
	s.mu.Unlock()
}

func (s *screen) Write(text string) {
	s.mu.Lock()
	s.r.Write(text)
	s.mu.Unlock()
}

// draw runs fn with exclusive access to the renderer.
func (s *screen) draw(fn func(r Renderer)) {
	s.mu.Lock()
	fn(s.r)
	s.mu.Unlock()
}

func (s *screen) setMenu(in bool) {
	s.mu.Lock()
	s.inMenu = in
	s.mu.Unlock()
}

// drawIfMenu runs fn only while the main menu is waiting for input.
func (s *screen) drawIfMenu(fn func(r Renderer)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inMenu {
		return false
	}
	fn(s.r)
	return true
}
