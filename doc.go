// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ltc4283 controls the GPIO lines of the Analog Devices LTC4283
// negative voltage hot swap controller.
//
// The chip exposes 8 lines: PGIO1 to PGIO4 (offsets 0 to 3) and ADIO1 to
// ADIO4 (offsets 4 to 7). PGIO lines are configured with a 2-bit mode field,
// ADIO lines with a single direction bit. Every operation is a register
// transaction on the I²C bus and may block; no state is cached by the
// driver.
//
// Which lines are usable depends on how the board wires the chip, so the
// owner of the device passes a valid-line mask in Opts. Only valid lines are
// registered in gpioreg.
//
// # Datasheet
//
// https://www.analog.com/media/en/technical-documentation/data-sheets/ltc4283.pdf
package ltc4283
