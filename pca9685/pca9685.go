// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pca9685

import (
	"fmt"
	"math"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

const (
	// DefaultAddress is the 7-bit address of a board with no address
	// jumpers set.
	DefaultAddress uint16 = 0x40

	// Channels is the number of PWM outputs.
	Channels = 16

	// MaxTick is the largest value of the 12-bit PWM counter.
	MaxTick = 4095

	oscillator = 25 * physic.MegaHertz
	steps      = 4096
)

// Register map.
const (
	regMode1     byte = 0x00
	regMode2     byte = 0x01
	regLED0OnL   byte = 0x06
	regAllLEDOnL byte = 0xFA
	regPrescale  byte = 0xFE
)

// MODE1 and MODE2 bits.
const (
	mode1Restart byte = 0x80
	mode1Sleep   byte = 0x10
	mode1AllCall byte = 0x01
	mode2Invrt   byte = 0x10
	mode2OutDrv  byte = 0x04
)

const (
	oscillatorSettle = 5 * time.Millisecond
	restartSettle    = 10 * time.Millisecond
)

// sleep is replaced in tests.
var sleep = time.Sleep

// State is the lifecycle state of the chip as seen by the driver.
type State int

const (
	Uninitialized State = iota
	Active
	// Sleeping is only entered while the prescaler is being changed, or
	// left behind when that sequence fails half way.
	Sleeping
	// Reset is terminal.
	Reset
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Active:
		return "active"
	case Sleeping:
		return "sleeping"
	case Reset:
		return "reset"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Dev is a PCA9685 on an I²C bus.
type Dev struct {
	d     i2c.Dev
	state State
}

// New returns an initialized PCA9685 ready for channel writes.
//
// All outputs are turned off, the outputs are set to totem pole, all-call is
// enabled and the oscillator is woken up.
func New(bus i2c.Bus, address uint16) (*Dev, error) {
	if err := isValidAddress(address); err != nil {
		return nil, err
	}
	d := &Dev{d: i2c.Dev{Bus: bus, Addr: address}}
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dev) init() error {
	if err := d.setAllPwm(0, 0); err != nil {
		return err
	}
	if err := d.writeReg(regMode2, mode2OutDrv); err != nil {
		return err
	}
	if err := d.writeReg(regMode1, mode1AllCall); err != nil {
		return err
	}
	sleep(oscillatorSettle)
	mode1, err := d.readReg(regMode1)
	if err != nil {
		return err
	}
	if err := d.writeReg(regMode1, mode1&^mode1Sleep); err != nil {
		return err
	}
	sleep(oscillatorSettle)
	d.state = Active
	return nil
}

// Reset restarts the chip and waits for it to settle. The Dev cannot be
// used for channel writes afterward.
func (d *Dev) Reset() error {
	d.state = Reset
	if err := d.writeReg(regMode1, mode1Restart); err != nil {
		return err
	}
	sleep(restartSettle)
	return nil
}

// Halt turns all the outputs off. Implements conn.Resource.
func (d *Dev) Halt() error {
	return d.SetAllPwm(0, 0)
}

// SetAddress changes the 7-bit address used for subsequent transactions.
func (d *Dev) SetAddress(address uint16) error {
	if err := isValidAddress(address); err != nil {
		return err
	}
	d.d.Addr = address
	return nil
}

// SetInvert inverts the output logic state of every channel, for outputs
// driven through an external inverting stage.
func (d *Dev) SetInvert(invert bool) error {
	if d.state != Active {
		return ErrNotActive
	}
	mode2 := mode2OutDrv
	if invert {
		mode2 |= mode2Invrt
	}
	return d.writeReg(regMode2, mode2)
}

// State returns the lifecycle state of the chip.
func (d *Dev) State() State {
	return d.state
}

// SetPwm programs the ON and OFF ticks of one channel.
func (d *Dev) SetPwm(channel int, on, off uint16) error {
	if channel < 0 || channel >= Channels {
		return errInvalidChannel
	}
	if on > MaxTick || off > MaxTick {
		return errInvalidTick
	}
	if d.state != Active {
		return ErrNotActive
	}
	return d.writeTicks(regLED0OnL+byte(4*channel), on, off)
}

// SetAllPwm programs the ON and OFF ticks of every channel at once through
// the ALL_LED block.
func (d *Dev) SetAllPwm(on, off uint16) error {
	if on > MaxTick || off > MaxTick {
		return errInvalidTick
	}
	if d.state != Active {
		return ErrNotActive
	}
	return d.setAllPwm(on, off)
}

func (d *Dev) setAllPwm(on, off uint16) error {
	return d.writeTicks(regAllLEDOnL, on, off)
}

// writeTicks writes ON_L, ON_H, OFF_L and OFF_H starting at base.
func (d *Dev) writeTicks(base byte, on, off uint16) error {
	regs := [4]byte{byte(on), byte(on >> 8), byte(off), byte(off >> 8)}
	for i, v := range regs {
		if err := d.writeReg(base+byte(i), v); err != nil {
			return err
		}
	}
	return nil
}

// SetPwmFreq sets the PWM refresh frequency of all channels.
//
// The prescaler can only be written while the oscillator is asleep, so the
// chip is put to sleep, the prescaler written and the previous mode restored
// with a restart. If a bus transaction fails the sequence stops where it is
// and the chip may be left asleep.
func (d *Dev) SetPwmFreq(f physic.Frequency) error {
	prescale, err := Prescale(f)
	if err != nil {
		return err
	}
	if d.state != Active && d.state != Sleeping {
		return ErrNotActive
	}
	oldMode, err := d.readReg(regMode1)
	if err != nil {
		return err
	}
	if err := d.writeReg(regMode1, (oldMode&^mode1Restart)|mode1Sleep); err != nil {
		return err
	}
	d.state = Sleeping
	if err := d.writeReg(regPrescale, byte(prescale)); err != nil {
		return err
	}
	if err := d.writeReg(regMode1, oldMode); err != nil {
		return err
	}
	d.state = Active
	sleep(oscillatorSettle)
	return d.writeReg(regMode1, oldMode|mode1Restart)
}

// Prescale returns the prescaler value for the requested PWM frequency,
// rounded half up.
//
// The chip accepts prescaler values from 3 to 255, about 24Hz to 1526Hz.
func Prescale(f physic.Frequency) (int, error) {
	if f <= 0 {
		return 0, errInvalidFrequency
	}
	v := float64(oscillator)/(steps*float64(f)) - 1
	p := int(math.Floor(v + 0.5))
	if p < 3 || p > 0xFF {
		return 0, errInvalidFrequency
	}
	return p, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("PCA9685{%s, %#02x}", d.d.Bus, d.d.Addr)
}

func (d *Dev) readReg(reg byte) (byte, error) {
	rx := make([]byte, 1)
	if err := d.d.Tx([]byte{reg}, rx); err != nil {
		return 0, &BusError{Op: "read", Reg: reg, Err: err}
	}
	return rx[0], nil
}

func (d *Dev) writeReg(reg, value byte) error {
	if err := d.d.Tx([]byte{reg, value}, nil); err != nil {
		return &BusError{Op: "write", Reg: reg, Err: err}
	}
	return nil
}

func isValidAddress(address uint16) error {
	if address > 0x7F {
		return errInvalidAddress
	}
	return nil
}

var _ conn.Resource = &Dev{}
