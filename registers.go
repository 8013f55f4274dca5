// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ltc4283

// Register map of the GPIO related part of the LTC4283.
const (
	// regPGIOConfig holds one 2-bit mode field per PGIO line.
	regPGIOConfig = 0x10
	// regPGIOConfig2 holds the PGIO output values in bits 7:4. Bits 2:0
	// select the ADC configuration and must never be touched here.
	regPGIOConfig2 = 0x11
	// regADIOConfig holds the ADIO direction bits in 3:0 and the ADIO
	// output values in 7:4.
	regADIOConfig = 0x12
)

const (
	// NumGPIO is the number of lines exposed by the chip.
	NumGPIO = 8
	// numPGIO is the number of PGIO lines. ADIO lines follow them.
	numPGIO = 4
)

// pgioCfgMask returns the mode field of PGIO line off in regPGIOConfig.
func pgioCfgMask(off int) uint8 {
	return 3 << (2 * off)
}

// pgioOutMask returns the output bit of PGIO line off in regPGIOConfig2.
func pgioOutMask(off int) uint8 {
	return 1 << (4 + off)
}

// adioDirMask returns the direction bit of ADIO line off in regADIOConfig.
//
// The Linux gpio-ltc4283 driver uses the opposite layout, with the direction
// in bits 7:4 and the output value in bits 3:0. Swap adioDirMask and
// adioOutMask if hardware behaves that way.
func adioDirMask(off int) uint8 {
	return 1 << (off - numPGIO)
}

// adioOutMask returns the output bit of ADIO line off in regADIOConfig.
func adioOutMask(off int) uint8 {
	return 1 << off
}

func isPGIO(off int) bool {
	return off < numPGIO
}
