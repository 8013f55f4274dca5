// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ltc4283smoketest verifies that a LTC4283 GPIO controller is working
// as expected.
//
// It reconfigures every valid line, so nothing must be connected to them
// that could be hurt by toggling. The previous configuration is restored
// when done. PGIO lines left in a reserved mode are skipped and never
// written.
package ltc4283smoketest

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c/i2creg"

	"periph.io/x/ltc4283"
)

// SmokeTest is imported by ltc4283gpio.
type SmokeTest struct {
}

// Name implements the SmokeTest interface.
func (s *SmokeTest) Name() string {
	return "ltc4283"
}

// Description implements the SmokeTest interface.
func (s *SmokeTest) Description() string {
	return "Tests LTC4283 GPIO lines"
}

// Run implements the SmokeTest interface.
func (s *SmokeTest) Run(f *flag.FlagSet, args []string) (err error) {
	busName := f.String("b", "", "I²C bus to use")
	addr := f.Uint("a", 0, "I²C address of the LTC4283")
	mask := f.Uint("m", 0xff, "valid line mask")
	if err := f.Parse(args); err != nil {
		return err
	}
	if f.NArg() != 0 {
		f.Usage()
		return errors.New("unrecognized arguments")
	}
	if *addr == 0 || *addr > 0x7f {
		return errors.New("-a is required and must be a 7-bit address")
	}
	if *mask > 0xff {
		return errors.New("-m must fit in 8 bits")
	}
	b, err := i2creg.Open(*busName)
	if err != nil {
		return err
	}
	defer func() {
		if err2 := b.Close(); err == nil {
			err = err2
		}
	}()
	d, err := ltc4283.NewI2C(b, uint16(*addr), &ltc4283.Opts{ValidMask: ltc4283.Mask(*mask)})
	if err != nil {
		return err
	}
	defer func() {
		if err2 := d.Close(); err == nil {
			err = err2
		}
	}()
	return Test(d)
}

// Test round-trips the direction and the output value of every valid line of
// d, then restores their initial configuration.
//
// PGIO lines in a reserved mode are skipped.
func Test(d *ltc4283.Dev) (err error) {
	before, err := d.State()
	if err != nil {
		return err
	}
	defer func() {
		if err2 := restore(d, &before); err == nil {
			err = err2
		}
	}()
	fmt.Printf("  %s, valid lines 0x%02x:\n", d, uint8(d.ValidMask()))
	for off, p := range d.Pins {
		if !before.Lines[off].Valid {
			continue
		}
		if l := &before.Lines[off]; l.Reserved() {
			fmt.Printf("    %s: skipped, mode %s\n", l.Name, l.Mode)
			continue
		}
		if err := lineTest(d, off, &loggingPin{p}); err != nil {
			return err
		}
	}
	return nil
}

// lineTest ensures that the line follows its configuration.
func lineTest(d *ltc4283.Dev, off int, p gpio.PinIO) error {
	for _, l := range []gpio.Level{gpio.Low, gpio.High, gpio.Low} {
		if err := p.Out(l); err != nil {
			return err
		}
		if dir, err := d.Direction(off); err != nil {
			return err
		} else if dir != ltc4283.Output {
			return fmt.Errorf("%s: expected %s but got %s", p, ltc4283.Output, dir)
		}
		if got := p.Read(); got != l {
			return fmt.Errorf("%s: expected to read %s but got %s", p, l, got)
		}
	}
	if err := p.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return err
	}
	if dir, err := d.Direction(off); err != nil {
		return err
	} else if dir != ltc4283.Input {
		return fmt.Errorf("%s: expected %s but got %s", p, ltc4283.Input, dir)
	}
	return nil
}

func restore(d *ltc4283.Dev, s *ltc4283.State) error {
	for off, l := range s.Lines {
		if !l.Valid || l.Reserved() {
			continue
		}
		var err error
		if l.Direction == ltc4283.Input {
			if err = d.DirectionInput(off); err == nil {
				err = d.Set(off, l.Level)
			}
		} else {
			err = d.DirectionOutput(off, l.Level)
		}
		if err != nil {
			return fmt.Errorf("restoring %s: %w", l.Name, err)
		}
	}
	return nil
}

// loggingPin logs when its state changes.
type loggingPin struct {
	gpio.PinIO
}

func (p *loggingPin) In(pull gpio.Pull, edge gpio.Edge) error {
	start := time.Now()
	if err := p.PinIO.In(pull, edge); err != nil {
		fmt.Printf("    %s %s.In(%s, %s) = %v\n", time.Since(start), p, pull, edge, err)
		return err
	}
	fmt.Printf("    %s %s.In(%s, %s)\n", time.Since(start), p, pull, edge)
	return nil
}

func (p *loggingPin) Read() gpio.Level {
	start := time.Now()
	l := p.PinIO.Read()
	fmt.Printf("    %s %s.Read() = %s\n", time.Since(start), p, l)
	return l
}

func (p *loggingPin) Out(l gpio.Level) error {
	start := time.Now()
	if err := p.PinIO.Out(l); err != nil {
		fmt.Printf("    %s %s.Out(%s) = %v\n", time.Since(start), p, l, err)
		return err
	}
	fmt.Printf("    %s %s.Out(%s)\n", time.Since(start), p, l)
	return nil
}
