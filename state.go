// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ltc4283

import (
	"encoding/json"
	"fmt"
	"strconv"

	"periph.io/x/conn/v3/gpio"

	"periph.io/x/ltc4283/regmap"
)

// PGIOMode is the raw content of a PGIO mode field.
type PGIOMode uint8

const (
	ModeReserved0 PGIOMode = 0
	ModeReserved1 PGIOMode = 1
	ModeOutput    PGIOMode = 2
	ModeInput     PGIOMode = 3
)

func (m PGIOMode) String() string {
	switch m {
	case ModeOutput:
		return "Output"
	case ModeInput:
		return "Input"
	default:
		return "Reserved(" + strconv.Itoa(int(m)) + ")"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m PGIOMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// LineState is the decoded configuration of one line.
type LineState struct {
	Name      string
	Offset    int
	Valid     bool
	Direction Direction
	Level     gpio.Level
	// Mode is only meaningful for PGIO lines.
	Mode PGIOMode
}

// Reserved reports whether the line is a PGIO line left in one of the
// reserved modes. Such a line is neither an input nor an output GPIO.
func (l *LineState) Reserved() bool {
	return isPGIO(l.Offset) && l.Mode < ModeOutput
}

// MarshalJSON implements json.Marshaler.
func (l LineState) MarshalJSON() ([]byte, error) {
	var mode *PGIOMode
	if isPGIO(l.Offset) {
		mode = &l.Mode
	}
	return json.Marshal(struct {
		Name      string    `json:"Name"`
		Offset    int       `json:"Offset"`
		Valid     bool      `json:"Valid"`
		Direction Direction `json:"Direction"`
		Level     bool      `json:"Level"`
		Mode      *PGIOMode `json:"Mode,omitempty"`
	}{
		Name:      l.Name,
		Offset:    l.Offset,
		Valid:     l.Valid,
		Direction: l.Direction,
		Level:     bool(l.Level),
		Mode:      mode,
	})
}

// State is a snapshot of all the lines of a device.
type State struct {
	Lines [NumGPIO]LineState
}

// State reads the three GPIO registers once and decodes every line,
// including the ones outside the valid mask.
func (d *Dev) State() (State, error) {
	var s State
	var regs [3]uint8
	for i, r := range [...]uint8{regPGIOConfig, regPGIOConfig2, regADIOConfig} {
		v, err := d.m.Read(r)
		if err != nil {
			return s, wrapReg(r, err)
		}
		regs[i] = v
	}
	for off := range NumGPIO {
		l := &s.Lines[off]
		l.Name = d.name + "_" + lineName(off)
		l.Offset = off
		l.Valid = d.valid.Has(off)
		if isPGIO(off) {
			l.Mode = PGIOMode(regmap.FieldGet(pgioCfgMask(off), regs[0]))
			l.Direction = Output
			if l.Mode == ModeInput {
				l.Direction = Input
			}
			l.Level = regs[1]&pgioOutMask(off) != 0
			continue
		}
		l.Direction = Output
		if regs[2]&adioDirMask(off) != 0 {
			l.Direction = Input
		}
		l.Level = regs[2]&adioOutMask(off) != 0
	}
	return s, nil
}

func wrapReg(reg uint8, err error) error {
	return fmt.Errorf("ltc4283: register 0x%02x: %w", reg, err)
}
