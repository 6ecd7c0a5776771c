package controller

import (
	"strconv"
	"strings"
)

// Choose shows prompt and reads lines until the player enters an integer in
// [min, max]. Each rejected answer runs onInvalid (Clear when nil) before the
// prompt is shown again. It returns the zero-based choice, answer - 1.
func Choose(r Renderer, in InputSource, prompt string, min, max int, onInvalid func()) (int, error) {
	if onInvalid == nil {
		onInvalid = r.Clear
	}
	for {
		r.Write(prompt)
		line, err := readLine(in)
		if err != nil {
			return -1, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && n >= min && n <= max {
			return n - 1, nil
		}
		onInvalid()
	}
}
