// Package console connects the controller to a real terminal: ANSI screen
// clearing on the way out and line reads on the way in.
package console

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

// clearScreen moves the cursor home and erases the display.
const clearScreen = "\033[H\033[2J"

// Terminal draws to an io.Writer and reads lines from an io.Reader.
type Terminal struct {
	mu      sync.Mutex
	out     io.Writer
	scanner *bufio.Scanner
}

// NewTerminal wraps the given streams, normally os.Stdout and os.Stdin.
func NewTerminal(out io.Writer, in io.Reader) *Terminal {
	return &Terminal{
		out:     out,
		scanner: bufio.NewScanner(in),
	}
}

// Clear wipes the screen.
func (t *Terminal) Clear() {
	t.Write(clearScreen)
}

// Write prints text as is, without adding a newline.
func (t *Terminal) Write(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.out, text)
}

// ReadLine blocks for the next line of input, without its line ending.
// It returns io.EOF once the input is exhausted.
func (t *Terminal) ReadLine() (string, error) {
	if t.scanner.Scan() {
		return t.scanner.Text(), nil
	}
	if err := t.scanner.Err(); err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return "", io.EOF
}
