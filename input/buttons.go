// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package input

import (
	"errors"
	"fmt"

	"github.com/GermanBionicSystems/pantilt/pantilt"
	"periph.io/x/conn/v3/gpio"
)

// ButtonPins holds one input pin per direction. Buttons connect the pin to
// ground when pressed.
type ButtonPins struct {
	Up, Down, Left, Right gpio.PinIn
}

// DefaultButtonPins names the Raspberry Pi header pins the buttons are
// usually wired to. Resolve them with gpioreg.ByName.
var DefaultButtonPins = [4]string{"P1_11", "P1_22", "P1_23", "P1_24"}

// DefaultWindow is the number of consecutive low samples for a press.
const DefaultWindow = 20

// Buttons is a Source backed by four debounced push buttons.
type Buttons struct {
	pins    [4]gpio.PinIn
	windows [4]window
}

// NewButtons configures the pins as pulled-up inputs and returns a Source.
// A direction is pressed once its pin read low on the last window samples.
// window <= 0 uses DefaultWindow.
func NewButtons(pins ButtonPins, window int) (*Buttons, error) {
	if window <= 0 {
		window = DefaultWindow
	}
	b := &Buttons{pins: [4]gpio.PinIn{pins.Up, pins.Down, pins.Left, pins.Right}}
	for i, p := range b.pins {
		if p == nil {
			return nil, errors.New("input: missing button pin")
		}
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("input: %s: %w", p, err)
		}
		b.windows[i] = newWindow(window)
	}
	return b, nil
}

// Read implements Source.
func (b *Buttons) Read() (pantilt.Direction, error) {
	dirs := [4]pantilt.Direction{pantilt.Up, pantilt.Down, pantilt.Left, pantilt.Right}
	var d pantilt.Direction
	for i, p := range b.pins {
		if b.windows[i].push(p.Read()) {
			d |= dirs[i]
		}
	}
	return d, nil
}

// window is a ring of the last samples of a pin. It starts released.
type window struct {
	samples []gpio.Level
	next    int
	lows    int
}

func newWindow(n int) window {
	s := make([]gpio.Level, n)
	for i := range s {
		s[i] = gpio.High
	}
	return window{samples: s}
}

// push records l and reports whether the whole window is low.
func (w *window) push(l gpio.Level) bool {
	if w.samples[w.next] == gpio.Low {
		w.lows--
	}
	w.samples[w.next] = l
	if l == gpio.Low {
		w.lows++
	}
	w.next = (w.next + 1) % len(w.samples)
	return w.lows == len(w.samples)
}
