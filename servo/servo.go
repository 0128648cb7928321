// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package servo drives a hobby servo attached to one channel of a PWM
// controller such as the PCA9685.
//
// Pulses are expressed in ticks of the controller's 12-bit period. At 50Hz a
// tick is about 4.9µs, so PulseMin and PulseMax cover roughly 0.6ms to 2.5ms.
// Pulses outside that range are never forwarded to the controller: the call
// is dropped without an error so a runaway input cannot drive the horn past
// its mechanical stop.
package servo

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"
)

const (
	PulseMin    = 130
	PulseMax    = 510
	PulseCenter = 300

	AngleMin = 0
	AngleMax = 180

	// DefaultFrequency is the usual refresh rate of analog servos.
	DefaultFrequency = 50 * physic.Hertz
)

var (
	errInvalidChannel = errors.New("servo: invalid channel")
	errInvalidRange   = errors.New("servo: invalid angle range")
)

// PWM is the part of a PWM controller a Channel needs. *pca9685.Dev
// implements it.
type PWM interface {
	SetPwm(channel int, on, off uint16) error
	SetPwmFreq(f physic.Frequency) error
}

// Opts holds the configuration of a Channel.
type Opts struct {
	// Settle is how long to wait after each write to the controller.
	Settle time.Duration
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Settle: 5 * time.Millisecond,
}

// Channel is a servo on one output of a PWM controller.
type Channel struct {
	pwm     PWM
	channel int
	opts    Opts
	pulse   int
}

// New returns a Channel on output channel of pwm. opts can be nil.
//
// Configure must be called before angles or pulses are meaningful to the
// servo.
func New(pwm PWM, channel int, opts *Opts) (*Channel, error) {
	if channel < 0 || channel > 15 {
		return nil, errInvalidChannel
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	return &Channel{pwm: pwm, channel: channel, opts: *opts}, nil
}

// Configure sets the controller's refresh frequency and moves the servo to
// PulseCenter so it does not jump to an end stop on power up.
//
// The frequency is shared by all the channels of the controller.
func (c *Channel) Configure(f physic.Frequency) error {
	if err := c.pwm.SetPwmFreq(f); err != nil {
		return fmt.Errorf("servo: %w", err)
	}
	c.settle()
	return c.SetPulse(PulseCenter)
}

// SetPulse drives the servo with a pulse of the given width in ticks.
//
// A pulse outside [PulseMin, PulseMax] is ignored.
func (c *Channel) SetPulse(pulse int) error {
	if pulse < PulseMin || pulse > PulseMax {
		return nil
	}
	if err := c.pwm.SetPwm(c.channel, 0, uint16(pulse)); err != nil {
		return fmt.Errorf("servo: %w", err)
	}
	c.pulse = pulse
	c.settle()
	return nil
}

// SetAngle moves the servo to angle degrees, 0 to 180.
//
// 90 maps to 319 and 180 to 508, not PulseMax: Map truncates.
func (c *Channel) SetAngle(angle int) error {
	return c.SetAngleRange(angle, AngleMin, AngleMax)
}

// SetAngleRange maps angle from [angleMin, angleMax] onto the pulse range and
// drives the servo with the result.
func (c *Channel) SetAngleRange(angle, angleMin, angleMax int) error {
	if angleMax < angleMin {
		return errInvalidRange
	}
	return c.SetPulse(Map(angle, angleMin, angleMax, PulseMin, PulseMax))
}

// Disable stops the pulse train. Depending on its electronics the servo then
// goes limp or holds its position unpowered.
func (c *Channel) Disable() error {
	if err := c.pwm.SetPwm(c.channel, 0, 0); err != nil {
		return fmt.Errorf("servo: %w", err)
	}
	c.pulse = 0
	c.settle()
	return nil
}

// Pulse returns the last pulse sent to the controller, 0 when nothing was
// sent or the channel is disabled.
func (c *Channel) Pulse() int {
	return c.pulse
}

func (c *Channel) String() string {
	return fmt.Sprintf("Servo{%d}", c.channel)
}

func (c *Channel) settle() {
	if c.opts.Settle > 0 {
		time.Sleep(c.opts.Settle)
	}
}

// Map linearly maps x from [inMin, inMax] to [outMin, outMax] using integer
// arithmetic.
//
// Both spans are widened by one so that truncation spreads evenly across the
// output range. Servo calibration tables depend on this exact rounding.
//
// An input span of zero width, inMax == inMin-1, returns outMin.
func Map(x, inMin, inMax, outMin, outMax int) int {
	if inMax-inMin+1 == 0 {
		return outMin
	}
	return (x-inMin)*(outMax-outMin+1)/(inMax-inMin+1) + outMin
}
