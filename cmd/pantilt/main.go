// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// pantilt drives a pan/tilt servo mount on a PCA9685 from the keyboard, an
// analog joystick or four push buttons.
//
// It is configured through the environment:
//
//	PANTILT_I2C_BUS           I²C bus of the PCA9685, empty for the first one
//	PANTILT_ADDRESS           PCA9685 address (0x40)
//	PANTILT_PAN_CHANNEL       PWM channel of the pan servo (0)
//	PANTILT_TILT_CHANNEL      PWM channel of the tilt servo (1)
//	PANTILT_INPUT             keyboard, joystick or buttons (keyboard)
//	PANTILT_STEP              pulse increment per poll (15)
//	PANTILT_INTERVAL          pause between polls (0, busy poll)
//	PANTILT_TTY               terminal for keyboard input (/dev/tty)
//	PANTILT_JOYSTICK_BUS      I²C bus of the PCF8591
//	PANTILT_JOYSTICK_ADDRESS  PCF8591 address (0x48)
//	PANTILT_BUTTONS           up,down,left,right pin names (P1_11,P1_22,P1_23,P1_24)
//	PANTILT_GAUGE             draw the servo positions on stdout (false)
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/pantilt/input"
	"github.com/GermanBionicSystems/pantilt/pantilt"
	"github.com/GermanBionicSystems/pantilt/pca9685"
	"github.com/GermanBionicSystems/pantilt/pcf8591"
	"github.com/GermanBionicSystems/pantilt/screen1d"
	"github.com/GermanBionicSystems/pantilt/servo"
	"github.com/caarlos0/env/v6"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

type config struct {
	Bus         string        `env:"PANTILT_I2C_BUS"`
	Address     string        `env:"PANTILT_ADDRESS" envDefault:"0x40"`
	PanChannel  int           `env:"PANTILT_PAN_CHANNEL" envDefault:"0"`
	TiltChannel int           `env:"PANTILT_TILT_CHANNEL" envDefault:"1"`
	Input       string        `env:"PANTILT_INPUT" envDefault:"keyboard"`
	Step        int           `env:"PANTILT_STEP" envDefault:"15"`
	Interval    time.Duration `env:"PANTILT_INTERVAL" envDefault:"0s"`
	TTY         string        `env:"PANTILT_TTY"`
	JoyBus      string        `env:"PANTILT_JOYSTICK_BUS"`
	JoyAddress  string        `env:"PANTILT_JOYSTICK_ADDRESS" envDefault:"0x48"`
	Buttons     []string      `env:"PANTILT_BUTTONS" envSeparator:"," envDefault:"P1_11,P1_22,P1_23,P1_24"`
	Gauge       bool          `env:"PANTILT_GAUGE" envDefault:"false"`
}

func loadConfig() (*config, error) {
	cfg := &config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	switch cfg.Input {
	case "keyboard", "joystick", "buttons":
	default:
		return nil, fmt.Errorf("unknown input %q", cfg.Input)
	}
	if len(cfg.Buttons) != 4 {
		return nil, fmt.Errorf("PANTILT_BUTTONS needs 4 pins, got %d", len(cfg.Buttons))
	}
	if cfg.Step <= 0 {
		return nil, fmt.Errorf("invalid step %d", cfg.Step)
	}
	return cfg, nil
}

func parseAddress(s string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 7)
	if err != nil {
		return 0, fmt.Errorf("invalid I²C address %q: %w", s, err)
	}
	return uint16(v), nil
}

// openSource returns the configured input and a function releasing it.
func openSource(cfg *config) (input.Source, func() error, error) {
	switch cfg.Input {
	case "joystick":
		addr, err := parseAddress(cfg.JoyAddress)
		if err != nil {
			return nil, nil, err
		}
		bus, err := i2creg.Open(cfg.JoyBus)
		if err != nil {
			return nil, nil, err
		}
		adc, err := pcf8591.New(bus, addr)
		if err != nil {
			bus.Close()
			return nil, nil, err
		}
		opts := input.DefaultJoystickOpts
		opts.Logger = log.New(os.Stderr, "joystick: ", 0)
		return input.NewJoystick(adc, &opts), bus.Close, nil

	case "buttons":
		var pins [4]gpio.PinIn
		for i, name := range cfg.Buttons {
			p := gpioreg.ByName(strings.TrimSpace(name))
			if p == nil {
				return nil, nil, fmt.Errorf("no such pin %q", name)
			}
			pins[i] = p
		}
		b, err := input.NewButtons(input.ButtonPins{Up: pins[0], Down: pins[1], Left: pins[2], Right: pins[3]}, input.DefaultWindow)
		if err != nil {
			return nil, nil, err
		}
		return b, func() error { return nil }, nil

	default:
		k, err := input.OpenTerminal(cfg.TTY)
		if err != nil {
			return nil, nil, err
		}
		return input.NewKeyboard(k, nil), k.Close, nil
	}
}

func run(ctx context.Context, cfg *config, pca *pca9685.Dev) error {
	pan, err := servo.New(pca, cfg.PanChannel, nil)
	if err != nil {
		return err
	}
	tilt, err := servo.New(pca, cfg.TiltChannel, nil)
	if err != nil {
		return err
	}
	// Both channels share the prescaler; each still gets its centering pulse.
	for _, s := range []*servo.Channel{pan, tilt} {
		if err := s.Configure(servo.DefaultFrequency); err != nil {
			return err
		}
	}

	opts := pantilt.DefaultOpts
	if cfg.Gauge {
		g := screen1d.New(&screen1d.Opts{Width: 24, Min: servo.PulseMin, Max: servo.PulseMax})
		defer g.Halt()
		opts.Reporter = g
	}
	ctl := pantilt.New(pan, tilt, &opts)

	log.Printf("listening to %s input", cfg.Input)
	src, release, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer release()

	return input.Run(ctx, src, ctl, &input.RunOpts{Step: cfg.Step, Interval: cfg.Interval})
}

func mainImpl() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr, err := parseAddress(cfg.Address)
	if err != nil {
		return err
	}
	if _, err := host.Init(); err != nil {
		return err
	}
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return err
	}
	defer bus.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = pca9685.Session(bus, addr, func(pca *pca9685.Dev) error {
		return run(ctx, cfg, pca)
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, input.ErrInterrupted) {
		return nil
	}
	return err
}

func main() {
	log.SetFlags(log.Ltime)
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "pantilt: %s.\n", err)
		os.Exit(1)
	}
}
