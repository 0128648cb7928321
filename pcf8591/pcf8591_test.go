// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pcf8591

import (
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"
)

func TestRead(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x48, W: []byte{0x40}},
			{Addr: 0x48, R: []byte{0x00}},
			{Addr: 0x48, W: []byte{0x41}},
			{Addr: 0x48, R: []byte{0xd2}},
			{Addr: 0x48, W: []byte{0x42}},
			{Addr: 0x48, R: []byte{0x0a}},
		},
	}
	dev, err := New(bus, DefaultAddress)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x00, 0xd2, 0x0a}
	for ch, w := range want {
		got, err := dev.Read(ch)
		if err != nil {
			t.Fatal(err)
		}
		if got != w {
			t.Errorf("Read(%d) = %#x, want %#x", ch, got, w)
		}
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestInvalid(t *testing.T) {
	bus := &i2ctest.Record{}
	if _, err := New(bus, 0x80); err == nil {
		t.Fatal("New accepted an 8-bit address")
	}
	dev, err := New(bus, DefaultAddress)
	if err != nil {
		t.Fatal(err)
	}
	for _, ch := range []int{-1, 4} {
		if _, err := dev.Read(ch); err != errInvalidChannel {
			t.Errorf("Read(%d) = %v", ch, err)
		}
	}
	if len(bus.Ops) != 0 {
		t.Fatalf("unexpected bus traffic %v", bus.Ops)
	}
	if err := dev.Halt(); err != nil {
		t.Fatal(err)
	}
	if s := dev.String(); s == "" {
		t.Fatal("empty string")
	}
}
