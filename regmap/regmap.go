// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package regmap provides masked access to the 8-bit register file of an
// I²C device.
//
// It is the thin layer device drivers use to read a register and to do a
// read-modify-write of a bitfield without disturbing the other bits.
package regmap

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/mmr"
)

// Map is a register map.
//
// Implementations must make UpdateBits atomic with regard to other calls on
// the same Map.
type Map interface {
	// Read returns the current value of register reg.
	Read(reg uint8) (uint8, error)
	// UpdateBits replaces the bits selected by mask in register reg with the
	// corresponding bits of val.
	UpdateBits(reg, mask, val uint8) error
}

// FieldGet extracts the field selected by mask from v and returns it shifted
// down to bit 0.
//
// mask must be a contiguous run of bits. A zero mask returns 0.
func FieldGet(mask, v uint8) uint8 {
	if mask == 0 {
		return 0
	}
	return (v & mask) >> bits.TrailingZeros8(mask)
}

// FieldPrep shifts val into the position of the field selected by mask.
//
// Bits of val that do not fit in the field are dropped.
func FieldPrep(mask, val uint8) uint8 {
	if mask == 0 {
		return 0
	}
	return (val << bits.TrailingZeros8(mask)) & mask
}

// I2C is a Map backed by a device on an I²C bus.
//
// Registers are addressed with one byte and hold one byte.
type I2C struct {
	mu  sync.Mutex
	dev mmr.Dev8
	c   conn.Conn
}

// NewI2C returns a Map talking to the device at addr on b.
func NewI2C(b i2c.Bus, addr uint16) *I2C {
	c := &i2c.Dev{Bus: b, Addr: addr}
	return &I2C{
		dev: mmr.Dev8{Conn: c, Order: binary.BigEndian},
		c:   c,
	}
}

func (r *I2C) String() string {
	return r.c.String()
}

// Read implements Map.
func (r *I2C) Read(reg uint8) (uint8, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, err := r.dev.ReadUint8(reg)
	if err != nil {
		return 0, fmt.Errorf("regmap: read 0x%02x: %w", reg, err)
	}
	return v, nil
}

// UpdateBits implements Map.
//
// The register is only written when the update changes its value.
func (r *I2C) UpdateBits(reg, mask, val uint8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	orig, err := r.dev.ReadUint8(reg)
	if err != nil {
		return fmt.Errorf("regmap: read 0x%02x: %w", reg, err)
	}
	v := orig&^mask | val&mask
	if v == orig {
		return nil
	}
	if err := r.dev.WriteUint8(reg, v); err != nil {
		return fmt.Errorf("regmap: write 0x%02x: %w", reg, err)
	}
	return nil
}

var _ Map = &I2C{}
