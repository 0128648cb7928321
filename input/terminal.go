// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package input

import (
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/pkg/term"
)

// ErrInterrupted is returned by Terminal.Poll when Ctrl-C is typed. The tty
// is in raw mode so no SIGINT is delivered.
var ErrInterrupted = errors.New("input: interrupted")

const ctrlC = 0x03

// DefaultHold is how long a key stays held after its last byte. It bridges
// the gap between the first key press and the terminal auto-repeat.
const DefaultHold = 600 * time.Millisecond

// Terminal is a KeyState reading a tty in raw mode.
//
// A terminal only reports key presses, not releases, so a key is considered
// held while bytes for it keep arriving, Hold apart at most.
type Terminal struct {
	Hold time.Duration

	t        *term.Term
	buf      []byte
	lastSeen map[rune]time.Time
	now      func() time.Time
}

// OpenTerminal puts the tty at name in raw mode. An empty name uses the
// controlling terminal.
func OpenTerminal(name string) (*Terminal, error) {
	if name == "" {
		name = "/dev/tty"
	}
	t, err := term.Open(name, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	return &Terminal{
		Hold:     DefaultHold,
		t:        t,
		buf:      make([]byte, 64),
		lastSeen: map[rune]time.Time{},
		now:      time.Now,
	}, nil
}

// Poll drains the bytes typed since the last call. It does not block.
func (k *Terminal) Poll() error {
	n, err := k.t.Available()
	if err != nil {
		return fmt.Errorf("input: %w", err)
	}
	for n > 0 {
		l := n
		if l > len(k.buf) {
			l = len(k.buf)
		}
		r, err := k.t.Read(k.buf[:l])
		if err != nil {
			return fmt.Errorf("input: %w", err)
		}
		if err := k.update(k.buf[:r]); err != nil {
			return err
		}
		n -= r
	}
	return nil
}

func (k *Terminal) update(b []byte) error {
	now := k.now()
	for _, c := range b {
		if c == ctrlC {
			return ErrInterrupted
		}
		k.lastSeen[unicode.ToLower(rune(c))] = now
	}
	return nil
}

// IsPressed implements KeyState. Letters are matched case insensitively.
func (k *Terminal) IsPressed(key rune) bool {
	t, ok := k.lastSeen[unicode.ToLower(key)]
	return ok && k.now().Sub(t) < k.Hold
}

// Close restores the tty to its previous mode.
func (k *Terminal) Close() error {
	err := k.t.Restore()
	if cerr := k.t.Close(); err == nil {
		err = cerr
	}
	return err
}
