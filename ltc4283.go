// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ltc4283

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-logr/logr"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/pin"
	"periph.io/x/conn/v3/pin/pinreg"

	"periph.io/x/ltc4283/regmap"
)

var (
	// ErrInvalidPin is returned for an offset out of range or not in the
	// valid-line mask.
	ErrInvalidPin = errors.New("ltc4283: invalid pin")
	// ErrNotSupported is returned for features the chip doesn't have.
	ErrNotSupported = errors.New("ltc4283: not supported")
)

// Direction is the direction of a line.
type Direction uint8

const (
	Input Direction = iota + 1
	Output
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "Input"
	case Output:
		return "Output"
	default:
		return "Direction(" + strconv.Itoa(int(d)) + ")"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Mask is a set of lines; bit n is line offset n.
type Mask uint8

// Has returns true if line off is in the mask.
func (m Mask) Has(off int) bool {
	return off >= 0 && off < 8 && m&(1<<off) != 0
}

// InitValidMask returns the low ngpio bits of parent, unchanged.
//
// ngpio is clamped to [0, 8].
func InitValidMask(parent Mask, ngpio int) Mask {
	if ngpio <= 0 {
		return 0
	}
	if ngpio >= 8 {
		return parent
	}
	return parent & Mask(1<<ngpio-1)
}

// Opts holds the configuration of a Dev.
type Opts struct {
	// Name is the label of the device. It prefixes the line names. Defaults
	// to "LTC4283".
	Name string
	// ValidMask is the set of lines usable on this board. It is owned by the
	// caller and copied as is.
	ValidMask Mask
	// Logger receives register traces at V(1) and errors that can't be
	// returned. Defaults to discarding.
	Logger logr.Logger
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Name:      "LTC4283",
	ValidMask: 0xff,
}

// Dev is the GPIO controller of a LTC4283.
type Dev struct {
	// Pins holds all NumGPIO lines, indexed by offset. Lines outside the
	// valid mask are present but refuse I/O.
	Pins []gpio.PinIO

	name       string
	m          regmap.Map
	valid      Mask
	log        logr.Logger
	registered []string
	header     bool
}

// NewI2C returns a Dev for the chip at addr on b.
//
// When opts.Name is empty, the name is derived from the address.
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	if o.Name == "" {
		o.Name = "LTC4283_" + strconv.FormatUint(uint64(addr), 16)
	}
	return New(regmap.NewI2C(b, addr), &o)
}

// New returns a Dev using the register map m and registers its valid lines
// in gpioreg and pinreg.
//
// Call Close to unregister them.
func New(m regmap.Map, opts *Opts) (*Dev, error) {
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	if o.Name == "" {
		o.Name = DefaultOpts.Name
	}
	l := o.Logger
	if l.GetSink() == nil {
		l = logr.Discard()
	} else {
		m = regmap.Log(m, l.WithName("regmap"))
	}
	d := &Dev{
		Pins:  make([]gpio.PinIO, NumGPIO),
		name:  o.Name,
		m:     m,
		valid: InitValidMask(o.ValidMask, NumGPIO),
		log:   l,
	}
	var hdr []pin.Pin
	for off := range NumGPIO {
		name := d.name + "_" + lineName(off)
		if !d.valid.Has(off) {
			d.Pins[off] = &invalidPin{name: name, num: off}
			continue
		}
		p := &Pin{dev: d, name: name, num: off}
		d.Pins[off] = p
		if err := gpioreg.Register(p); err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("ltc4283: %w", err)
		}
		d.registered = append(d.registered, name)
		hdr = append(hdr, p)
	}
	if len(hdr) != 0 {
		if err := pinreg.Register(d.name, [][]pin.Pin{hdr}); err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("ltc4283: %w", err)
		}
		d.header = true
	}
	l.V(1).Info("registered", "name", d.name, "valid", uint8(d.valid))
	return d, nil
}

func (d *Dev) String() string {
	return d.name
}

// NumGPIO returns the number of lines of the controller, valid or not.
func (d *Dev) NumGPIO() int {
	return NumGPIO
}

// ValidMask returns the lines usable on this device.
func (d *Dev) ValidMask() Mask {
	return d.valid
}

// CanSleep returns true: every operation goes over the bus and may block.
func (d *Dev) CanSleep() bool {
	return true
}

// Close unregisters the lines from gpioreg and pinreg.
func (d *Dev) Close() error {
	var err error
	if d.header {
		err = pinreg.Unregister(d.name)
		d.header = false
	}
	for _, name := range d.registered {
		if e := gpioreg.Unregister(name); e != nil && err == nil {
			err = e
		}
	}
	d.registered = nil
	return err
}

// ByName returns the line with the given name, either its full name or its
// datasheet name like "ADIO2". Returns nil if not found.
func (d *Dev) ByName(name string) gpio.PinIO {
	for off, p := range d.Pins {
		if p.Name() == name || lineName(off) == name {
			return p
		}
	}
	return nil
}

// Direction returns the current direction of line off.
//
// A PGIO mode field holding anything else than the input mode is reported
// as Output.
func (d *Dev) Direction(off int) (Direction, error) {
	if err := d.check(off); err != nil {
		return 0, err
	}
	if isPGIO(off) {
		v, err := d.m.Read(regPGIOConfig)
		if err != nil {
			return 0, wrap(off, err)
		}
		if PGIOMode(regmap.FieldGet(pgioCfgMask(off), v)) == ModeInput {
			return Input, nil
		}
		return Output, nil
	}
	v, err := d.m.Read(regADIOConfig)
	if err != nil {
		return 0, wrap(off, err)
	}
	if v&adioDirMask(off) != 0 {
		return Input, nil
	}
	return Output, nil
}

// DirectionInput configures line off as an input.
func (d *Dev) DirectionInput(off int) error {
	if err := d.check(off); err != nil {
		return err
	}
	return d.setDirection(off, true)
}

// DirectionOutput configures line off as an output then drives it to l.
//
// If the direction can't be changed, the value is not written.
func (d *Dev) DirectionOutput(off int, l gpio.Level) error {
	if err := d.check(off); err != nil {
		return err
	}
	if err := d.setDirection(off, false); err != nil {
		return err
	}
	return d.setValue(off, l)
}

// Get returns the value driven on line off.
func (d *Dev) Get(off int) (gpio.Level, error) {
	if err := d.check(off); err != nil {
		return gpio.Low, err
	}
	if isPGIO(off) {
		v, err := d.m.Read(regPGIOConfig2)
		if err != nil {
			return gpio.Low, wrap(off, err)
		}
		return regmap.FieldGet(pgioOutMask(off), v) != 0, nil
	}
	v, err := d.m.Read(regADIOConfig)
	if err != nil {
		return gpio.Low, wrap(off, err)
	}
	return regmap.FieldGet(adioOutMask(off), v) != 0, nil
}

// Set sets the output value of line off without changing its direction.
func (d *Dev) Set(off int, l gpio.Level) error {
	if err := d.check(off); err != nil {
		return err
	}
	return d.setValue(off, l)
}

// Mode returns the raw mode field of PGIO line off.
func (d *Dev) Mode(off int) (PGIOMode, error) {
	if err := d.check(off); err != nil {
		return 0, err
	}
	if !isPGIO(off) {
		return 0, fmt.Errorf("%w: %s has no mode field", ErrNotSupported, lineName(off))
	}
	v, err := d.m.Read(regPGIOConfig)
	if err != nil {
		return 0, wrap(off, err)
	}
	return PGIOMode(regmap.FieldGet(pgioCfgMask(off), v)), nil
}

// MarshalJSON implements json.Marshaler.
func (d *Dev) MarshalJSON() ([]byte, error) {
	lines := make([]string, 0, NumGPIO)
	for off := range NumGPIO {
		if d.valid.Has(off) {
			lines = append(lines, d.Pins[off].Name())
		}
	}
	return json.Marshal(struct {
		Name      string   `json:"Name"`
		NumGPIO   int      `json:"NumGPIO"`
		ValidMask uint8    `json:"ValidMask"`
		Lines     []string `json:"Lines"`
	}{
		Name:      d.name,
		NumGPIO:   NumGPIO,
		ValidMask: uint8(d.valid),
		Lines:     lines,
	})
}

//

func (d *Dev) check(off int) error {
	if off < 0 || off >= NumGPIO {
		return fmt.Errorf("%w: offset %d", ErrInvalidPin, off)
	}
	if !d.valid.Has(off) {
		return fmt.Errorf("%w: %s is not usable on %s", ErrInvalidPin, lineName(off), d.name)
	}
	return nil
}

func (d *Dev) setDirection(off int, input bool) error {
	if isPGIO(off) {
		mode := ModeOutput
		if input {
			mode = ModeInput
		}
		mask := pgioCfgMask(off)
		return wrap(off, d.m.UpdateBits(regPGIOConfig, mask, regmap.FieldPrep(mask, uint8(mode))))
	}
	mask := adioDirMask(off)
	return wrap(off, d.m.UpdateBits(regADIOConfig, mask, regmap.FieldPrep(mask, b2u(input))))
}

func (d *Dev) setValue(off int, l gpio.Level) error {
	if isPGIO(off) {
		mask := pgioOutMask(off)
		return wrap(off, d.m.UpdateBits(regPGIOConfig2, mask, regmap.FieldPrep(mask, b2u(bool(l)))))
	}
	mask := adioOutMask(off)
	return wrap(off, d.m.UpdateBits(regADIOConfig, mask, regmap.FieldPrep(mask, b2u(bool(l)))))
}

// lineName returns the datasheet name of line off.
func lineName(off int) string {
	if isPGIO(off) {
		return "PGIO" + strconv.Itoa(off+1)
	}
	return "ADIO" + strconv.Itoa(off-numPGIO+1)
}

func wrap(off int, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("ltc4283: %s: %w", lineName(off), err)
}

func b2u(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
