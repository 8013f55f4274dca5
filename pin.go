// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ltc4283

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// Pin is one line of a LTC4283.
//
// It is stateless; every call is a register transaction.
type Pin struct {
	dev  *Dev
	name string
	num  int
}

// String implements conn.Resource.
func (p *Pin) String() string {
	return p.name
}

// Halt implements conn.Resource.
func (p *Pin) Halt() error {
	return nil
}

// Name implements pin.Pin.
func (p *Pin) Name() string {
	return p.name
}

// Number implements pin.Pin.
//
// It is the offset of the line on the chip.
func (p *Pin) Number() int {
	return p.num
}

// Deprecated: Use PinFunc.Func. Will be removed in v4. Function implements pin.Pin.
func (p *Pin) Function() string {
	return string(p.Func())
}

// Func implements pin.PinFunc.
func (p *Pin) Func() pin.Func {
	dir, err := p.dev.Direction(p.num)
	if err != nil {
		return pin.FuncNone
	}
	l, err := p.dev.Get(p.num)
	if err != nil {
		return pin.FuncNone
	}
	if dir == Input {
		// The driven value is what Read reports.
		if l {
			return gpio.IN_HIGH
		}
		return gpio.IN_LOW
	}
	if l {
		return gpio.OUT_HIGH
	}
	return gpio.OUT_LOW
}

// SupportedFuncs implements pin.PinFunc.
func (p *Pin) SupportedFuncs() []pin.Func {
	return []pin.Func{gpio.IN, gpio.OUT}
}

// SetFunc implements pin.PinFunc.
func (p *Pin) SetFunc(f pin.Func) error {
	switch f {
	case gpio.IN:
		return p.In(gpio.PullNoChange, gpio.NoEdge)
	case gpio.OUT_HIGH:
		return p.Out(gpio.High)
	case gpio.OUT, gpio.OUT_LOW:
		return p.Out(gpio.Low)
	default:
		return fmt.Errorf("%w: function %q on %s", ErrNotSupported, f, p.name)
	}
}

// In implements gpio.PinIn.
//
// The chip has neither configurable pulls nor edge detection.
func (p *Pin) In(pull gpio.Pull, edge gpio.Edge) error {
	if edge != gpio.NoEdge {
		return fmt.Errorf("%w: edge detection on %s", ErrNotSupported, p.name)
	}
	if pull != gpio.PullNoChange && pull != gpio.Float {
		return fmt.Errorf("%w: %s on %s", ErrNotSupported, pull, p.name)
	}
	return p.dev.DirectionInput(p.num)
}

// Read implements gpio.PinIn.
//
// Errors are logged and reported as gpio.Low.
func (p *Pin) Read() gpio.Level {
	l, err := p.dev.Get(p.num)
	if err != nil {
		p.dev.log.Error(err, "read", "pin", p.name)
		return gpio.Low
	}
	return l
}

// WaitForEdge implements gpio.PinIn.
func (p *Pin) WaitForEdge(t time.Duration) bool {
	return false
}

// Pull implements gpio.PinIn.
func (p *Pin) Pull() gpio.Pull {
	return gpio.Float
}

// DefaultPull implements gpio.PinIn.
func (p *Pin) DefaultPull() gpio.Pull {
	return gpio.Float
}

// Out implements gpio.PinOut.
//
// The line is switched to output first if needed.
func (p *Pin) Out(l gpio.Level) error {
	return p.dev.DirectionOutput(p.num, l)
}

// PWM implements gpio.PinOut.
func (p *Pin) PWM(d gpio.Duty, f physic.Frequency) error {
	return fmt.Errorf("%w: PWM on %s", ErrNotSupported, p.name)
}

//

// invalidPin is a line that the board doesn't make usable.
type invalidPin struct {
	name string
	num  int
}

func (p *invalidPin) String() string {
	return p.name
}

func (p *invalidPin) Halt() error {
	return nil
}

func (p *invalidPin) Name() string {
	return p.name
}

func (p *invalidPin) Number() int {
	return p.num
}

func (p *invalidPin) Function() string {
	return "N/A"
}

func (p *invalidPin) In(pull gpio.Pull, e gpio.Edge) error {
	return p.err()
}

func (p *invalidPin) Read() gpio.Level {
	return gpio.Low
}

func (p *invalidPin) WaitForEdge(t time.Duration) bool {
	return false
}

func (p *invalidPin) Pull() gpio.Pull {
	return gpio.PullNoChange
}

func (p *invalidPin) DefaultPull() gpio.Pull {
	return gpio.PullNoChange
}

func (p *invalidPin) Out(l gpio.Level) error {
	return p.err()
}

func (p *invalidPin) PWM(d gpio.Duty, f physic.Frequency) error {
	return p.err()
}

func (p *invalidPin) err() error {
	return fmt.Errorf("%w: %s is not usable", ErrInvalidPin, p.name)
}

var _ gpio.PinIO = &Pin{}
var _ pin.PinFunc = &Pin{}
var _ gpio.PinIO = &invalidPin{}
