// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package input turns manual controls into pan/tilt moves.
//
// Three sources are provided: a keyboard, an analog joystick behind a
// PCF8591 and four push buttons on GPIO pins. Run polls one of them and
// applies the requested moves to a pantilt.Controller.
package input

import (
	"context"
	"fmt"
	"time"

	"github.com/GermanBionicSystems/pantilt/pantilt"
)

// Source is a polled input device.
type Source interface {
	// Read samples the device once and returns the directions currently
	// requested.
	Read() (pantilt.Direction, error)
}

// RunOpts controls Run.
type RunOpts struct {
	// Step is the pulse increment per requested direction and iteration.
	Step int
	// Iterations bounds the number of polls. 0 polls until ctx is done.
	Iterations int
	// Interval is the pause between polls. 0 polls back to back.
	Interval time.Duration
}

// DefaultRunOpts is the recommended default options.
var DefaultRunOpts = RunOpts{
	Step: 15,
}

// Run polls src, moves c accordingly and applies the result after every
// poll. opts can be nil.
//
// It returns ctx.Err() when ctx is done, nil once the iteration budget is
// used up, or the first error from src or c.
func Run(ctx context.Context, src Source, c *pantilt.Controller, opts *RunOpts) error {
	if opts == nil {
		opts = &DefaultRunOpts
	}
	var tick <-chan time.Time
	if opts.Interval > 0 {
		t := time.NewTicker(opts.Interval)
		defer t.Stop()
		tick = t.C
	}
	for i := 0; opts.Iterations == 0 || i < opts.Iterations; i++ {
		if i != 0 && tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		d, err := src.Read()
		if err != nil {
			return fmt.Errorf("input: %w", err)
		}
		c.Move(d, opts.Step)
		if err := c.Apply(); err != nil {
			return err
		}
	}
	return nil
}
