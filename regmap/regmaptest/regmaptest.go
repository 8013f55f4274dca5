// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package regmaptest is meant to be used to test drivers built on
// regmap.Map without real hardware.
package regmaptest

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/ltc4283/regmap"
)

// Kind is the type of operation recorded by Fake.
type Kind string

const (
	Read   Kind = "read"
	Update Kind = "update"
)

// Op is one recorded access.
type Op struct {
	Kind Kind
	Reg  uint8
	Mask uint8 // Only for Update.
	Val  uint8 // Value read, or value passed to UpdateBits.
}

func (o Op) String() string {
	if o.Kind == Read {
		return fmt.Sprintf("read(0x%02x) = 0x%02x", o.Reg, o.Val)
	}
	return fmt.Sprintf("update(0x%02x, 0x%02x, 0x%02x)", o.Reg, o.Mask, o.Val)
}

// ErrIO is returned by Fake when a failure is injected without a specific
// error.
var ErrIO = errors.New("regmaptest: injected I/O error")

// Fake is an in-memory register file implementing regmap.Map.
//
// The zero value is ready to use; all registers read as 0.
type Fake struct {
	sync.Mutex
	// Regs is the register file.
	Regs [256]uint8
	// Ops is the log of successful and failed accesses, in order.
	Ops []Op
	// ReadErr, when set for a register, makes Read and UpdateBits on it fail.
	ReadErr map[uint8]error
	// WriteErr, when set for a register, makes UpdateBits on it fail after
	// the read succeeded. The register is left unchanged.
	WriteErr map[uint8]error
}

// Read implements regmap.Map.
func (f *Fake) Read(reg uint8) (uint8, error) {
	f.Lock()
	defer f.Unlock()
	if err := f.readErr(reg); err != nil {
		f.Ops = append(f.Ops, Op{Kind: Read, Reg: reg})
		return 0, err
	}
	v := f.Regs[reg]
	f.Ops = append(f.Ops, Op{Kind: Read, Reg: reg, Val: v})
	return v, nil
}

// UpdateBits implements regmap.Map.
func (f *Fake) UpdateBits(reg, mask, val uint8) error {
	f.Lock()
	defer f.Unlock()
	f.Ops = append(f.Ops, Op{Kind: Update, Reg: reg, Mask: mask, Val: val})
	if err := f.readErr(reg); err != nil {
		return err
	}
	if err, ok := f.WriteErr[reg]; ok {
		if err == nil {
			err = ErrIO
		}
		return err
	}
	f.Regs[reg] = f.Regs[reg]&^mask | val&mask
	return nil
}

// Reset clears the operation log.
func (f *Fake) Reset() {
	f.Lock()
	defer f.Unlock()
	f.Ops = nil
}

func (f *Fake) readErr(reg uint8) error {
	err, ok := f.ReadErr[reg]
	if !ok {
		return nil
	}
	if err == nil {
		return ErrIO
	}
	return err
}

var _ regmap.Map = &Fake{}
