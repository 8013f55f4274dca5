// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package regmap

import (
	"github.com/go-logr/logr"
)

// Log returns a Map that traces every access to m on l at verbosity 1.
//
// Failures are traced with their error but not logged as errors; reporting
// them is left to the caller that receives them.
func Log(m Map, l logr.Logger) Map {
	return &logged{m: m, l: l}
}

type logged struct {
	m Map
	l logr.Logger
}

func (l *logged) Read(reg uint8) (uint8, error) {
	v, err := l.m.Read(reg)
	if err != nil {
		l.l.V(1).Info("read", "reg", reg, "err", err)
		return v, err
	}
	l.l.V(1).Info("read", "reg", reg, "val", v)
	return v, nil
}

func (l *logged) UpdateBits(reg, mask, val uint8) error {
	if err := l.m.UpdateBits(reg, mask, val); err != nil {
		l.l.V(1).Info("update", "reg", reg, "mask", mask, "val", val, "err", err)
		return err
	}
	l.l.V(1).Info("update", "reg", reg, "mask", mask, "val", val)
	return nil
}
