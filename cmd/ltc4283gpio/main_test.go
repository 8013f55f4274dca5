// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"testing"

	"periph.io/x/conn/v3/gpio"

	"periph.io/x/ltc4283"
	"periph.io/x/ltc4283/regmap/regmaptest"
)

func TestParseLine(t *testing.T) {
	data := []struct {
		in   string
		want int
	}{
		{"0", 0},
		{"7", 7},
		{"PGIO1", 0},
		{"pgio4", 3},
		{"ADIO1", 4},
		{"Adio4", 7},
	}
	for _, line := range data {
		got, err := parseLine(line.in)
		if err != nil {
			t.Fatalf("parseLine(%q): %v", line.in, err)
		}
		if got != line.want {
			t.Fatalf("parseLine(%q) = %d; want %d", line.in, got, line.want)
		}
	}
	for _, in := range []string{"-1", "8", "PGIO0", "PGIO5", "ADIO", "GPIO1", ""} {
		if _, err := parseLine(in); err == nil {
			t.Fatalf("parseLine(%q) should fail", in)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, in := range []string{"1", "high", "HIGH", "true"} {
		if l, err := parseLevel(in); err != nil || l != gpio.High {
			t.Fatalf("parseLevel(%q) = %s, %v", in, l, err)
		}
	}
	for _, in := range []string{"0", "low", "false"} {
		if l, err := parseLevel(in); err != nil || l != gpio.Low {
			t.Fatalf("parseLevel(%q) = %s, %v", in, l, err)
		}
	}
	if _, err := parseLevel("2"); err == nil {
		t.Fatal("parseLevel(2) should fail")
	}
}

func TestRun(t *testing.T) {
	f := &regmaptest.Fake{}
	d, err := ltc4283.New(f, &ltc4283.Opts{Name: "LTC4283_cmd", ValidMask: 0xff})
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	steps := [][]string{
		{"out", "PGIO3", "1"},
		{"in", "5"},
		{"set", "ADIO4", "high"},
		{"get", "ADIO4"},
		{"dir", "PGIO3"},
		{"status"},
	}
	for _, args := range steps {
		if err := run(d, args); err != nil {
			t.Fatalf("run(%q): %v", args, err)
		}
	}
	if f.Regs[0x10] != 0x20 || f.Regs[0x11] != 0x40 || f.Regs[0x12] != 0x82 {
		t.Fatalf("unexpected registers 0x%02x 0x%02x 0x%02x", f.Regs[0x10], f.Regs[0x11], f.Regs[0x12])
	}
	bad := [][]string{
		{"toggle", "1"},
		{"out", "1"},
		{"status", "1"},
		{"get", "PGIO9"},
		{"set", "1", "maybe"},
	}
	for _, args := range bad {
		if err := run(d, args); err == nil {
			t.Fatalf("run(%q) should fail", args)
		}
	}
}
