// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package regmap

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/go-logr/logr/funcr"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

func TestFieldGet(t *testing.T) {
	data := []struct {
		mask, v, want uint8
	}{
		{0x03, 0xff, 3},
		{0x0c, 0x20, 0},
		{0x30, 0x20, 2},
		{0xc0, 0x80, 2},
		{0x40, 0x40, 1},
		{0x01, 0xfe, 0},
		{0x00, 0xff, 0},
	}
	for _, line := range data {
		if got := FieldGet(line.mask, line.v); got != line.want {
			t.Errorf("FieldGet(0x%02x, 0x%02x) = %d; want %d", line.mask, line.v, got, line.want)
		}
	}
}

func TestFieldPrep(t *testing.T) {
	data := []struct {
		mask, val, want uint8
	}{
		{0x03, 3, 0x03},
		{0x30, 2, 0x20},
		{0xc0, 3, 0xc0},
		{0x40, 1, 0x40},
		{0x40, 2, 0x00},
		{0x0c, 0xff, 0x0c},
		{0x00, 1, 0x00},
	}
	for _, line := range data {
		if got := FieldPrep(line.mask, line.val); got != line.want {
			t.Errorf("FieldPrep(0x%02x, %d) = 0x%02x; want 0x%02x", line.mask, line.val, got, line.want)
		}
	}
}

func TestFieldRoundTrip(t *testing.T) {
	for shift := 0; shift < 7; shift++ {
		mask := uint8(3) << shift
		for v := uint8(0); v < 4; v++ {
			if got := FieldGet(mask, FieldPrep(mask, v)); got != v {
				t.Fatalf("mask 0x%02x: FieldGet(FieldPrep(%d)) = %d", mask, v, got)
			}
		}
	}
}

func TestI2C_Read(t *testing.T) {
	bus := i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x15, W: []byte{0x10}, R: []byte{0xaf}},
		},
	}
	r := NewI2C(&bus, 0x15)
	v, err := r.Read(0x10)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xaf {
		t.Fatalf("Read() = 0x%02x; want 0xaf", v)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestI2C_UpdateBits(t *testing.T) {
	bus := i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x15, W: []byte{0x10}, R: []byte{0xff}},
			{Addr: 0x15, W: []byte{0x10, 0xef}},
		},
	}
	r := NewI2C(&bus, 0x15)
	if err := r.UpdateBits(0x10, 0x30, 0x20); err != nil {
		t.Fatal(err)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestI2C_UpdateBits_unchanged(t *testing.T) {
	// No write is expected.
	bus := i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x15, W: []byte{0x11}, R: []byte{0x47}},
		},
	}
	r := NewI2C(&bus, 0x15)
	if err := r.UpdateBits(0x11, 0x40, 0xff); err != nil {
		t.Fatal(err)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestI2C_errors(t *testing.T) {
	bus := failBus{}
	r := NewI2C(&bus, 0x15)
	if _, err := r.Read(0x10); !errors.Is(err, errNAK) {
		t.Fatalf("Read() = %v; want %v", err, errNAK)
	}
	if err := r.UpdateBits(0x10, 1, 1); !errors.Is(err, errNAK) {
		t.Fatalf("UpdateBits() = %v; want %v", err, errNAK)
	}
	if bus.count != 2 {
		t.Fatalf("expected 2 transactions, got %d", bus.count)
	}
}

func TestI2C_UpdateBits_concurrent(t *testing.T) {
	bus := memBus{}
	r := NewI2C(&bus, 0x15)
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for bit := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mask := uint8(1) << bit
			// Ends with the bit set.
			for i := 0; i <= 1000; i++ {
				val := uint8(0)
				if i%2 == 0 {
					val = 0xff
				}
				if err := r.UpdateBits(0x10, mask, val); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
	if v := bus.regs[0x10]; v != 0xff {
		t.Fatalf("reg 0x10 = 0x%02x; want 0xff", v)
	}
}

func TestLog(t *testing.T) {
	var lines []string
	l := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 1})
	bus := i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x15, W: []byte{0x11}, R: []byte{0x07}},
			{Addr: 0x15, W: []byte{0x11}, R: []byte{0x07}},
			{Addr: 0x15, W: []byte{0x11, 0x17}},
		},
	}
	m := Log(NewI2C(&bus, 0x15), l)
	if v, err := m.Read(0x11); err != nil || v != 7 {
		t.Fatalf("Read() = %d, %v", v, err)
	}
	if err := m.UpdateBits(0x11, 0x10, 0x10); err != nil {
		t.Fatal(err)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %q", lines)
	}
	if !strings.Contains(lines[0], `"read"`) || !strings.Contains(lines[1], `"update"`) {
		t.Fatalf("unexpected log lines %q", lines)
	}
}

func TestLog_error(t *testing.T) {
	var lines []string
	l := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 1})
	m := Log(NewI2C(&failBus{}, 0x15), l)
	if _, err := m.Read(0x10); !errors.Is(err, errNAK) {
		t.Fatalf("Read() = %v", err)
	}
	if err := m.UpdateBits(0x10, 1, 1); !errors.Is(err, errNAK) {
		t.Fatalf("UpdateBits() = %v", err)
	}
	if len(lines) != 2 || !strings.Contains(lines[0], "NAK") || !strings.Contains(lines[1], "NAK") {
		t.Fatalf("unexpected log lines %q", lines)
	}

	// Failures are left to the caller to report.
	lines = nil
	m = Log(NewI2C(&failBus{}, 0x15), funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{}))
	if _, err := m.Read(0x10); err == nil {
		t.Fatal("expected error")
	}
	if len(lines) != 0 {
		t.Fatalf("unexpected log lines %q", lines)
	}
}

//

var errNAK = errors.New("got NAK")

// failBus is an i2c.Bus where every transaction fails.
type failBus struct {
	count int
}

func (f *failBus) String() string {
	return "fail"
}

func (f *failBus) Tx(addr uint16, w, r []byte) error {
	f.count++
	return errNAK
}

func (f *failBus) SetSpeed(physic.Frequency) error {
	return nil
}

// memBus is an i2c.Bus holding the register file of a single device in
// memory.
//
// It has no lock of its own.
type memBus struct {
	regs [256]byte
}

func (m *memBus) String() string {
	return "mem"
}

func (m *memBus) Tx(addr uint16, w, r []byte) error {
	switch {
	case len(w) == 1 && len(r) == 1:
		r[0] = m.regs[w[0]]
	case len(w) == 2 && len(r) == 0:
		m.regs[w[0]] = w[1]
	default:
		return errors.New("memBus: unexpected transaction")
	}
	return nil
}

func (m *memBus) SetSpeed(physic.Frequency) error {
	return nil
}
