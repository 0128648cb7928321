// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen1d draws the position of the pan/tilt servos as two 1D
// gauges on the terminal (stdout) using ANSI color codes.
//
// Useful to see where the mount points while the servos are unplugged.
package screen1d

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// Opts represents the options available for this display.
type Opts struct {
	// Width is the number of cells of each gauge.
	Width int
	// Min and Max are the pulses at both ends of a gauge.
	Min, Max int
	Palette  *ansi256.Palette
	// Writer defaults to stdout.
	Writer io.Writer

	_ struct{}
}

var (
	colorCursor = color.NRGBA{0x00, 0xff, 0x00, 0xff}
	colorTrail  = color.NRGBA{0x00, 0x40, 0x80, 0xff}
	colorEmpty  = color.NRGBA{0x20, 0x20, 0x20, 0xff}
)

// Dev renders pan/tilt pulses at the console.
type Dev struct {
	w       io.Writer
	opts    Opts
	palette ansi256.Palette

	buf bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.Writer
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	o := *opts
	if o.Width < 2 {
		o.Width = 2
	}
	if o.Max <= o.Min {
		o.Max = o.Min + 1
	}
	return &Dev{w: w, opts: o, palette: *p}
}

func (d *Dev) String() string {
	return "Screen1D"
}

// Halt implements conn.Resource.
//
// It moves to a new line so the gauges are not overwritten.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Report redraws both gauges in place. Implements pantilt.Reporter.
func (d *Dev) Report(x, y int) error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0mX ")
	d.gauge(x)
	_, _ = d.buf.WriteString("\033[0m Y ")
	d.gauge(y)
	_, _ = fmt.Fprintf(&d.buf, "\033[0m %3d,%3d ", x, y)
	_, err := d.buf.WriteTo(d.w)
	return err
}

// Cell returns the gauge cell pulse falls in, clamped to the gauge.
func (d *Dev) Cell(pulse int) int {
	c := (pulse - d.opts.Min) * (d.opts.Width - 1) / (d.opts.Max - d.opts.Min)
	if c < 0 {
		return 0
	}
	if c >= d.opts.Width {
		return d.opts.Width - 1
	}
	return c
}

func (d *Dev) gauge(pulse int) {
	cur := d.Cell(pulse)
	for i := 0; i < d.opts.Width; i++ {
		c := colorEmpty
		switch {
		case i == cur:
			c = colorCursor
		case i < cur:
			c = colorTrail
		}
		_, _ = io.WriteString(&d.buf, d.palette.Block(c))
	}
}
