// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pca9685 drives the NXP PCA9685 16-channel, 12-bit PWM controller
// over I²C.
//
// Every channel is programmed with an ON and an OFF tick inside a 4096 tick
// period. This package always uses ON=0 and varies the OFF edge, which is
// what hobby servos expect.
//
// Register writes are done one byte per transaction. The four writes that
// make up a channel update are not atomic: a bus failure part way leaves the
// channel with a mix of old and new values. This is a property of the
// protocol and is not compensated for.
//
// # Datasheet
//
// https://www.nxp.com/docs/en/data-sheet/PCA9685.pdf
package pca9685
