// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pcf8591 provides a driver for the NXP PCF8591 8-bit A/D and D/A
// converter. It is found on many analog joystick breakout boards.
//
// Each conversion is selected by writing a control byte, then reading the
// result. Only the four single-ended inputs are supported.
//
// # Datasheet
//
// https://www.nxp.com/docs/en/data-sheet/PCF8591.pdf
package pcf8591

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
)

const (
	// DefaultAddress is the address with A0-A2 tied low.
	DefaultAddress uint16 = 0x48

	// Inputs is the number of analog inputs.
	Inputs = 4

	// ctrlAnalogOut keeps the D/A output and its oscillator running, which
	// the joystick boards rely on.
	ctrlAnalogOut byte = 0x40
)

var errInvalidChannel = errors.New("pcf8591: invalid channel")

// Dev is a PCF8591 on an I²C bus.
type Dev struct {
	d i2c.Dev
}

// New returns a PCF8591 at address. No transaction is done.
func New(bus i2c.Bus, address uint16) (*Dev, error) {
	if address > 0x7F {
		return nil, errors.New("pcf8591: invalid 7-bit address")
	}
	return &Dev{d: i2c.Dev{Bus: bus, Addr: address}}, nil
}

// Read selects channel and returns its 8-bit conversion.
func (d *Dev) Read(channel int) (byte, error) {
	if channel < 0 || channel >= Inputs {
		return 0, errInvalidChannel
	}
	if err := d.d.Tx([]byte{ctrlAnalogOut | byte(channel)}, nil); err != nil {
		return 0, wrap(err)
	}
	r := make([]byte, 1)
	if err := d.d.Tx(nil, r); err != nil {
		return 0, wrap(err)
	}
	return r[0], nil
}

// Halt implements conn.Resource. It is a no-op.
func (d *Dev) Halt() error {
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("PCF8591{%s, %#02x}", d.d.Bus, d.d.Addr)
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("pcf8591: %w", err)
}

var _ conn.Resource = &Dev{}
