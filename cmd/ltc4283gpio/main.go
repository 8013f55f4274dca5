// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// ltc4283gpio reads and configures the GPIO lines of a LTC4283.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"periph.io/x/ltc4283"
	"periph.io/x/ltc4283/ltc4283smoketest"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: ltc4283gpio [flags] <command> [args]

Commands:
  status               print the configuration of every line as JSON
  dir <line>           print the direction of a line
  in <line>            configure a line as input
  out <line> <0|1>     configure a line as output and drive it
  get <line>           print the value driven on a line
  set <line> <0|1>     change the value driven on a line
  smoketest -a <addr> [-b bus] [-m mask]
                       round-trip every valid line

A line is its offset (0-7) or its name (PGIO1-PGIO4, ADIO1-ADIO4).

Flags:
`)
	flag.PrintDefaults()
}

// parseLine returns the offset of a line given by offset or datasheet name.
func parseLine(s string) (int, error) {
	if off, err := strconv.Atoi(s); err == nil {
		if off < 0 || off >= ltc4283.NumGPIO {
			return 0, fmt.Errorf("line offset %d out of range [0, %d)", off, ltc4283.NumGPIO)
		}
		return off, nil
	}
	u := strings.ToUpper(s)
	for prefix, base := range map[string]int{"PGIO": 0, "ADIO": 4} {
		if !strings.HasPrefix(u, prefix) {
			continue
		}
		n, err := strconv.Atoi(u[len(prefix):])
		if err != nil || n < 1 || n > 4 {
			break
		}
		return base + n - 1, nil
	}
	return 0, fmt.Errorf("unknown line %q", s)
}

func parseLevel(s string) (gpio.Level, error) {
	switch strings.ToLower(s) {
	case "0", "low", "false":
		return gpio.Low, nil
	case "1", "high", "true":
		return gpio.High, nil
	default:
		return gpio.Low, fmt.Errorf("invalid level %q", s)
	}
}

func newLogger(verbose bool) (logr.Logger, func(), error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	z, err := cfg.Build()
	if err != nil {
		return logr.Discard(), func() {}, err
	}
	return zapr.NewLogger(z), func() { _ = z.Sync() }, nil
}

func run(d *ltc4283.Dev, args []string) error {
	cmd := args[0]
	args = args[1:]
	want := map[string]int{"status": 0, "dir": 1, "in": 1, "out": 2, "get": 1, "set": 2}
	n, ok := want[cmd]
	if !ok {
		return fmt.Errorf("unknown command %q", cmd)
	}
	if len(args) != n {
		return fmt.Errorf("%s: expected %d arguments, got %d", cmd, n, len(args))
	}
	if cmd == "status" {
		s, err := d.State()
		if err != nil {
			return err
		}
		b, err := json.MarshalIndent(s.Lines, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Printf("%s\n", b)
		return err
	}
	off, err := parseLine(args[0])
	if err != nil {
		return err
	}
	var l gpio.Level
	if n == 2 {
		if l, err = parseLevel(args[1]); err != nil {
			return err
		}
	}
	switch cmd {
	case "dir":
		dir, err := d.Direction(off)
		if err != nil {
			return err
		}
		fmt.Println(dir)
	case "in":
		return d.DirectionInput(off)
	case "out":
		return d.DirectionOutput(off, l)
	case "get":
		v, err := d.Get(off)
		if err != nil {
			return err
		}
		fmt.Println(v)
	case "set":
		return d.Set(off, l)
	}
	return nil
}

func mainImpl() error {
	busName := flag.String("b", "", "I²C bus to use")
	addr := flag.Uint("a", 0, "I²C address of the LTC4283")
	mask := flag.Uint("m", 0xff, "valid line mask, as wired on the board")
	name := flag.String("n", "", "device label; defaults to LTC4283_<addr>")
	verbose := flag.Bool("v", false, "trace register accesses")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		return errors.New("a command is required")
	}

	if _, err := host.Init(); err != nil {
		return err
	}

	if flag.Arg(0) == "smoketest" {
		s := ltc4283smoketest.SmokeTest{}
		f := flag.NewFlagSet(s.Name(), flag.ExitOnError)
		return s.Run(f, flag.Args()[1:])
	}

	if *addr == 0 || *addr > 0x7f {
		return errors.New("-a is required and must be a 7-bit address")
	}
	if *mask > 0xff {
		return errors.New("-m must fit in 8 bits")
	}
	log, sync, err := newLogger(*verbose)
	if err != nil {
		return err
	}
	defer sync()

	b, err := i2creg.Open(*busName)
	if err != nil {
		return err
	}
	defer b.Close()

	opts := ltc4283.Opts{Name: *name, ValidMask: ltc4283.Mask(*mask), Logger: log}
	d, err := ltc4283.NewI2C(b, uint16(*addr), &opts)
	if err != nil {
		return err
	}
	defer d.Close()
	log.V(1).Info("opened", "bus", b.String(), "dev", d.String())
	return run(d, flag.Args())
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "ltc4283gpio: %s.\n", err)
		os.Exit(1)
	}
}
