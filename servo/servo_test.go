// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package servo

import (
	"errors"
	"testing"

	"github.com/GermanBionicSystems/pantilt/pca9685"
	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

type pwmCall struct {
	Channel int
	On, Off uint16
}

type fakePWM struct {
	calls []pwmCall
	freqs []physic.Frequency
	err   error
}

func (f *fakePWM) SetPwm(channel int, on, off uint16) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, pwmCall{channel, on, off})
	return nil
}

func (f *fakePWM) SetPwmFreq(freq physic.Frequency) error {
	if f.err != nil {
		return f.err
	}
	f.freqs = append(f.freqs, freq)
	return nil
}

var noSettle = &Opts{}

// zeroBus accepts every write and reads back zeros.
type zeroBus struct{}

func (zeroBus) String() string { return "zero" }

func (zeroBus) SetSpeed(physic.Frequency) error { return nil }

func (zeroBus) Tx(addr uint16, w, r []byte) error {
	for i := range r {
		r[i] = 0
	}
	return nil
}

func TestConfigure(t *testing.T) {
	pwm := &fakePWM{}
	c, err := New(pwm, 1, noSettle)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Configure(DefaultFrequency); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]physic.Frequency{50 * physic.Hertz}, pwm.freqs); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]pwmCall{{1, 0, 300}}, pwm.calls); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if c.Pulse() != PulseCenter {
		t.Fatalf("Pulse() = %d", c.Pulse())
	}
}

func TestSetPulseBounds(t *testing.T) {
	pwm := &fakePWM{}
	c, _ := New(pwm, 0, noSettle)
	for _, p := range []int{-1, 0, 129, 511, 4095, 10000} {
		if err := c.SetPulse(p); err != nil {
			t.Fatalf("SetPulse(%d) = %v", p, err)
		}
	}
	if len(pwm.calls) != 0 {
		t.Fatalf("out of range pulses forwarded: %v", pwm.calls)
	}
	for _, p := range []int{PulseMin, PulseCenter, PulseMax} {
		if err := c.SetPulse(p); err != nil {
			t.Fatal(err)
		}
	}
	want := []pwmCall{{0, 0, 130}, {0, 0, 300}, {0, 0, 510}}
	if diff := cmp.Diff(want, pwm.calls); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

// Every in-range pulse turns into exactly the four channel register writes
// on the chip, and nothing else.
func TestSetPulseOnChip(t *testing.T) {
	bus := &i2ctest.Record{Bus: zeroBus{}}
	dev, err := pca9685.New(bus, pca9685.DefaultAddress)
	if err != nil {
		t.Fatal(err)
	}
	c, err := New(dev, 2, noSettle)
	if err != nil {
		t.Fatal(err)
	}
	const base = 0x06 + 4*2
	for p := PulseMin - 5; p <= PulseMax+5; p++ {
		bus.Ops = nil
		if err := c.SetPulse(p); err != nil {
			t.Fatal(err)
		}
		if p < PulseMin || p > PulseMax {
			if len(bus.Ops) != 0 {
				t.Fatalf("SetPulse(%d) wrote %v", p, bus.Ops)
			}
			continue
		}
		want := []i2ctest.IO{
			{Addr: 0x40, W: []byte{base, 0}},
			{Addr: 0x40, W: []byte{base + 1, 0}},
			{Addr: 0x40, W: []byte{base + 2, byte(p & 0xff)}},
			{Addr: 0x40, W: []byte{base + 3, byte(p >> 8)}},
		}
		if len(bus.Ops) != len(want) {
			t.Fatalf("SetPulse(%d) wrote %d ops", p, len(bus.Ops))
		}
		for i := range want {
			if diff := cmp.Diff(want[i].W, bus.Ops[i].W); diff != "" || bus.Ops[i].Addr != want[i].Addr {
				t.Fatalf("SetPulse(%d) op %d (-want +got):\n%s", p, i, diff)
			}
		}
	}
}

func TestSetAngle(t *testing.T) {
	tests := []struct {
		angle int
		want  uint16
	}{
		{0, 130},
		{45, 224},
		{90, 319},
		{179, 506},
		{180, 508},
	}
	for _, tc := range tests {
		pwm := &fakePWM{}
		c, _ := New(pwm, 0, noSettle)
		if err := c.SetAngle(tc.angle); err != nil {
			t.Fatal(err)
		}
		if len(pwm.calls) != 1 || pwm.calls[0].Off != tc.want {
			t.Errorf("SetAngle(%d) = %v, want off=%d", tc.angle, pwm.calls, tc.want)
		}
	}
}

func TestSetAngleOutOfRange(t *testing.T) {
	pwm := &fakePWM{}
	c, _ := New(pwm, 0, noSettle)
	for _, a := range []int{-10, -1, 200, 360} {
		if err := c.SetAngle(a); err != nil {
			t.Fatal(err)
		}
	}
	if len(pwm.calls) != 0 {
		t.Fatalf("out of range angles forwarded: %v", pwm.calls)
	}
	if err := c.SetAngleRange(10, 90, -90); err != errInvalidRange {
		t.Fatalf("SetAngleRange with inverted range = %v", err)
	}
}

func TestSetAngleRange(t *testing.T) {
	pwm := &fakePWM{}
	c, _ := New(pwm, 0, noSettle)
	if err := c.SetAngleRange(0, -90, 90); err != nil {
		t.Fatal(err)
	}
	if want := uint16(Map(0, -90, 90, PulseMin, PulseMax)); pwm.calls[0].Off != want {
		t.Fatalf("off = %d, want %d", pwm.calls[0].Off, want)
	}
}

func TestMap(t *testing.T) {
	tests := []struct {
		x, inMin, inMax, outMin, outMax, want int
	}{
		{90, 0, 180, 130, 510, 319},
		{0, 0, 180, 130, 510, 130},
		{180, 0, 180, 130, 510, 508},
		{50, 0, 100, 0, 1000, 495},
		{255, 0, 255, 0, 255, 255},
		{0, 5, 4, 130, 510, 130},
	}
	for _, tc := range tests {
		if got := Map(tc.x, tc.inMin, tc.inMax, tc.outMin, tc.outMax); got != tc.want {
			t.Errorf("Map(%d, %d, %d, %d, %d) = %d, want %d", tc.x, tc.inMin, tc.inMax, tc.outMin, tc.outMax, got, tc.want)
		}
	}
}

func TestDisable(t *testing.T) {
	pwm := &fakePWM{}
	c, _ := New(pwm, 5, noSettle)
	_ = c.SetPulse(200)
	if err := c.Disable(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]pwmCall{{5, 0, 200}, {5, 0, 0}}, pwm.calls); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if c.Pulse() != 0 {
		t.Fatalf("Pulse() = %d after Disable", c.Pulse())
	}
}

func TestErrors(t *testing.T) {
	if _, err := New(&fakePWM{}, 16, nil); err != errInvalidChannel {
		t.Fatalf("New(16) = %v", err)
	}
	errBus := errors.New("bus")
	pwm := &fakePWM{err: errBus}
	c, _ := New(pwm, 0, noSettle)
	if err := c.Configure(DefaultFrequency); !errors.Is(err, errBus) {
		t.Fatalf("Configure() = %v", err)
	}
	if err := c.SetPulse(300); !errors.Is(err, errBus) {
		t.Fatalf("SetPulse() = %v", err)
	}
	if err := c.Disable(); !errors.Is(err, errBus) {
		t.Fatalf("Disable() = %v", err)
	}
	if c.Pulse() != 0 {
		t.Fatalf("Pulse() = %d after failed writes", c.Pulse())
	}
}
