// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package input

import "github.com/GermanBionicSystems/pantilt/pantilt"

// KeyState reports whether a key is currently held.
type KeyState interface {
	IsPressed(key rune) bool
}

// Poller is implemented by a KeyState that must be refreshed before it is
// queried.
type Poller interface {
	Poll() error
}

// Keys maps a key to each direction.
type Keys struct {
	Up, Down, Left, Right rune
}

// DefaultKeys is the WASD layout.
var DefaultKeys = Keys{Up: 'w', Down: 's', Left: 'a', Right: 'd'}

// Keyboard is a Source backed by the state of four keys.
type Keyboard struct {
	state KeyState
	keys  Keys
}

// NewKeyboard returns a keyboard Source. keys can be nil.
func NewKeyboard(state KeyState, keys *Keys) *Keyboard {
	if keys == nil {
		keys = &DefaultKeys
	}
	return &Keyboard{state: state, keys: *keys}
}

// Read implements Source.
func (k *Keyboard) Read() (pantilt.Direction, error) {
	if p, ok := k.state.(Poller); ok {
		if err := p.Poll(); err != nil {
			return pantilt.None, err
		}
	}
	var d pantilt.Direction
	if k.state.IsPressed(k.keys.Up) {
		d |= pantilt.Up
	}
	if k.state.IsPressed(k.keys.Down) {
		d |= pantilt.Down
	}
	if k.state.IsPressed(k.keys.Left) {
		d |= pantilt.Left
	}
	if k.state.IsPressed(k.keys.Right) {
		d |= pantilt.Right
	}
	return d, nil
}
