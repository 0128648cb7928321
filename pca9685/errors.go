// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pca9685

import (
	"errors"
	"fmt"
)

var (
	// ErrNotActive is returned when a channel is written while the chip is
	// not in the active state, i.e. before initialization, while it sleeps
	// for a prescaler change or after Reset.
	ErrNotActive = errors.New("pca9685: device not active")

	errInvalidAddress   = errors.New("pca9685: invalid 7-bit address")
	errInvalidChannel   = errors.New("pca9685: invalid channel")
	errInvalidTick      = errors.New("pca9685: tick out of 12-bit range")
	errInvalidFrequency = errors.New("pca9685: frequency out of prescaler range")
)

// BusError is returned when a register read or write fails on the bus.
//
// The operation that failed is not retried.
type BusError struct {
	Op  string // "read" or "write"
	Reg byte
	Err error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("pca9685: %s register %#02x: %v", e.Op, e.Reg, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}
