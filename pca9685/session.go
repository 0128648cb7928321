// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pca9685

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// Session initializes the chip at address, hands it to fn and resets the
// chip when fn returns.
//
// The reset is issued on every exit path: when initialization fails, when fn
// returns an error and when fn panics. Errors from fn and from the reset are
// joined.
func Session(bus i2c.Bus, address uint16, fn func(*Dev) error) (err error) {
	if err := isValidAddress(address); err != nil {
		return err
	}
	d := &Dev{d: i2c.Dev{Bus: bus, Addr: address}}
	defer func() {
		if rerr := d.Reset(); rerr != nil {
			err = errors.Join(err, fmt.Errorf("reset: %w", rerr))
		}
	}()
	if err := d.init(); err != nil {
		return err
	}
	return fn(d)
}
