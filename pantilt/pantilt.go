// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pantilt tracks the pulse of the two servos of a pan/tilt mount and
// moves them in bounded steps.
//
// Input code only deals in directions. Bounds are enforced here, per axis,
// and again by the servo channels: a step that would leave the axis range is
// dropped whole rather than clipped.
//
// Moves only change the tracked pulses. Apply sends them to the servos, so
// the rate at which inputs are sampled is independent from the rate at which
// the bus is written.
package pantilt

import (
	"fmt"
	"strings"
	"sync"
)

// Axis is one degree of freedom of the mount.
type Axis int

const (
	X Axis = iota // pan
	Y             // tilt
)

func (a Axis) String() string {
	switch a {
	case X:
		return "X"
	case Y:
		return "Y"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Direction is a set of requested moves.
type Direction uint8

const (
	Up Direction = 1 << iota
	Down
	Left
	Right

	None Direction = 0
)

func (d Direction) String() string {
	if d == None {
		return "none"
	}
	var names []string
	for _, n := range []struct {
		d    Direction
		name string
	}{{Up, "up"}, {Down, "down"}, {Left, "left"}, {Right, "right"}} {
		if d&n.d != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// Bounds is the inclusive pulse range of an axis.
type Bounds struct {
	Min, Max int
}

// Contains reports whether pulse lies inside b.
func (b Bounds) Contains(pulse int) bool {
	return pulse >= b.Min && pulse <= b.Max
}

// within returns the part of b inside o, or o when they do not overlap.
func (b Bounds) within(o Bounds) Bounds {
	if b.Min < o.Min {
		b.Min = o.Min
	}
	if b.Max > o.Max {
		b.Max = o.Max
	}
	if b.Min > b.Max {
		return o
	}
	return b
}

// Default stops. X and Y share a range but are tracked separately.
const (
	UpStop    = 510
	DownStop  = 130
	LeftStop  = 130
	RightStop = 510
)

// Servo is what the controller drives. *servo.Channel implements it.
type Servo interface {
	SetPulse(pulse int) error
}

// Reporter is told about the pulses after every Apply.
type Reporter interface {
	Report(x, y int) error
}

// Opts holds the configuration of a Controller.
type Opts struct {
	X, Y Bounds
	// StartX and StartY are the initial pulses.
	StartX, StartY int
	// InvertX and InvertY swap the sign of moves on an axis, for servos
	// mounted the other way around.
	InvertX, InvertY bool
	// Reporter is optional.
	Reporter Reporter
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	X:      Bounds{Min: LeftStop, Max: RightStop},
	Y:      Bounds{Min: DownStop, Max: UpStop},
	StartX: 130,
	StartY: 130,
}

// Controller holds the pulses of both axes.
//
// It is safe for concurrent use; Move and Apply from different goroutines
// are serialised so that the pair written to the servos is always
// consistent.
type Controller struct {
	mu     sync.Mutex
	x, y   Servo
	opts   Opts
	pulses [2]int
}

// New returns a Controller driving x and y. opts can be nil.
//
// Bounds are narrowed to the servo pulse range [DownStop, UpStop]. A start
// pulse outside its axis bounds is replaced by the bounds minimum.
func New(x, y Servo, opts *Opts) *Controller {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	full := Bounds{Min: DownStop, Max: UpStop}
	o.X = o.X.within(full)
	o.Y = o.Y.within(full)
	if !o.X.Contains(o.StartX) {
		o.StartX = o.X.Min
	}
	if !o.Y.Contains(o.StartY) {
		o.StartY = o.Y.Min
	}
	return &Controller{
		x:      x,
		y:      y,
		opts:   o,
		pulses: [2]int{o.StartX, o.StartY},
	}
}

// Increment adds delta to the pulse of axis if the result stays within the
// axis bounds. It reports whether the pulse changed.
func (c *Controller) Increment(axis Axis, delta int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.increment(axis, delta)
}

func (c *Controller) increment(axis Axis, delta int) bool {
	var b Bounds
	switch axis {
	case X:
		b = c.opts.X
	case Y:
		b = c.opts.Y
	default:
		return false
	}
	next := c.pulses[axis] + delta
	if !b.Contains(next) {
		return false
	}
	c.pulses[axis] = next
	return true
}

// Move steps each axis named in d by step, in the order up, down, left,
// right. Up and right increase the pulse unless the axis is inverted.
func (c *Controller) Move(d Direction, step int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sx, sy := step, step
	if c.opts.InvertX {
		sx = -sx
	}
	if c.opts.InvertY {
		sy = -sy
	}
	if d&Up != 0 {
		c.increment(Y, sy)
	}
	if d&Down != 0 {
		c.increment(Y, -sy)
	}
	if d&Left != 0 {
		c.increment(X, -sx)
	}
	if d&Right != 0 {
		c.increment(X, sx)
	}
}

// Apply sends the current pulses to the X then the Y servo, then notifies
// the Reporter.
func (c *Controller) Apply() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	x, y := c.pulses[X], c.pulses[Y]
	if err := c.x.SetPulse(x); err != nil {
		return fmt.Errorf("pantilt: axis X: %w", err)
	}
	if err := c.y.SetPulse(y); err != nil {
		return fmt.Errorf("pantilt: axis Y: %w", err)
	}
	if c.opts.Reporter != nil {
		return c.opts.Reporter.Report(x, y)
	}
	return nil
}

// Pulses returns the current pulse of both axes.
func (c *Controller) Pulses() (x, y int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pulses[X], c.pulses[Y]
}

func (c *Controller) String() string {
	x, y := c.Pulses()
	return fmt.Sprintf("PanTilt{X: %d, Y: %d}", x, y)
}
