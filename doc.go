// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pantilt is a container for the drivers and controls of a two-axis
// servo mount.
//
// The pca9685 package speaks to the PWM controller, servo maps pulses and
// angles onto one of its channels, and pantilt keeps both axes within their
// stops. The input package reads the keyboard, a joystick on a pcf8591 or
// push buttons, and cmd/pantilt ties them together.
package pantilt
