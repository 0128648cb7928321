// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package input

import (
	"log"

	"github.com/GermanBionicSystems/pantilt/pantilt"
)

// ADC is an 8-bit analog to digital converter. *pcf8591.Dev implements it.
type ADC interface {
	Read(channel int) (byte, error)
}

// JoystickOpts describes how the stick is wired to the converter and where
// its dead zone ends.
type JoystickOpts struct {
	ButtonChannel, YChannel, XChannel int

	// Y above UpAbove is up, below DownBelow is down.
	UpAbove, DownBelow byte
	// The X potentiometer is mounted reversed: a high reading is left.
	LeftAbove, RightBelow byte

	// Logger receives one line per sample when set.
	Logger *log.Logger
}

// DefaultJoystickOpts matches the common PCF8591 joystick board. It centers
// around 194/199 and spans roughly 10 to 212.
var DefaultJoystickOpts = JoystickOpts{
	ButtonChannel: 0,
	YChannel:      1,
	XChannel:      2,
	UpAbove:       207,
	DownBelow:     70,
	LeftAbove:     202,
	RightBelow:    70,
}

// Sample is one reading of the joystick.
type Sample struct {
	X, Y    byte
	Pressed bool
}

// Joystick is a Source backed by an analog two-axis stick.
type Joystick struct {
	adc  ADC
	opts JoystickOpts
	last Sample
}

// NewJoystick returns a joystick Source. opts can be nil.
func NewJoystick(adc ADC, opts *JoystickOpts) *Joystick {
	if opts == nil {
		opts = &DefaultJoystickOpts
	}
	return &Joystick{adc: adc, opts: *opts}
}

// Read implements Source.
func (j *Joystick) Read() (pantilt.Direction, error) {
	but, err := j.adc.Read(j.opts.ButtonChannel)
	if err != nil {
		return pantilt.None, err
	}
	y, err := j.adc.Read(j.opts.YChannel)
	if err != nil {
		return pantilt.None, err
	}
	x, err := j.adc.Read(j.opts.XChannel)
	if err != nil {
		return pantilt.None, err
	}
	// The button pulls its input to ground.
	j.last = Sample{X: x, Y: y, Pressed: but == 0}
	if j.opts.Logger != nil {
		state := "released"
		if j.last.Pressed {
			state = "pressed"
		}
		j.opts.Logger.Printf("x=%d\ty=%d\tbutton %s", x, y, state)
	}

	var d pantilt.Direction
	if y > j.opts.UpAbove {
		d |= pantilt.Up
	}
	if y < j.opts.DownBelow {
		d |= pantilt.Down
	}
	if x > j.opts.LeftAbove {
		d |= pantilt.Left
	}
	if x < j.opts.RightBelow {
		d |= pantilt.Right
	}
	return d, nil
}

// Last returns the most recent sample.
func (j *Joystick) Last() Sample {
	return j.last
}
