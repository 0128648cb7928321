// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	want := &config{
		Address:     "0x40",
		PanChannel:  0,
		TiltChannel: 1,
		Input:       "keyboard",
		Step:        15,
		JoyAddress:  "0x48",
		Buttons:     []string{"P1_11", "P1_22", "P1_23", "P1_24"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("PANTILT_INPUT", "joystick")
	t.Setenv("PANTILT_INTERVAL", "20ms")
	t.Setenv("PANTILT_JOYSTICK_BUS", "1")
	t.Setenv("PANTILT_GAUGE", "true")
	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Input != "joystick" || cfg.Interval != 20*time.Millisecond || cfg.JoyBus != "1" || !cfg.Gauge {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	for k, v := range map[string]string{
		"PANTILT_INPUT":   "mouse",
		"PANTILT_BUTTONS": "P1_11,P1_22",
		"PANTILT_STEP":    "0",
	} {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, v)
			if _, err := loadConfig(); err == nil {
				t.Fatalf("%s=%s accepted", k, v)
			}
		})
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in   string
		want uint16
		ok   bool
	}{
		{"0x40", 0x40, true},
		{"64", 0x40, true},
		{" 0x48 ", 0x48, true},
		{"0x80", 0, false},
		{"foo", 0, false},
	}
	for _, tc := range tests {
		got, err := parseAddress(tc.in)
		if (err == nil) != tc.ok || got != tc.want {
			t.Errorf("parseAddress(%q) = %#x, %v", tc.in, got, err)
		}
	}
}
