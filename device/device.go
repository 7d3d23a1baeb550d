//go:build stm32l476vg || stm32l496ag

// Package device is the firmware entry point to the hardware: it hands out
// the Device value once, and the Device splits once into one token per
// peripheral instance of the part selected by build tag.
//
// Build with exactly one of -tags stm32l476vg or -tags stm32l496ag. Without a
// tag this package has no files and importing it fails to build.
package device

import (
	"sync/atomic"

	"stm32l4hal/chip"
	"stm32l4hal/internal/mint"
	"stm32l4hal/regs"
)

// Device is all peripherals, not yet split.
type Device struct {
	bank  regs.Bank
	split bool
}

var taken atomic.Bool

// TakeFrom returns the Device backed by bank. Only the first call in the
// program, across Take and TakeFrom, returns it; later calls get nil, false.
func TakeFrom(bank regs.Bank) (*Device, bool) {
	if !taken.CompareAndSwap(false, true) {
		return nil, false
	}
	return &Device{bank: bank}, true
}

// Variant is the part the image was built for.
func (d *Device) Variant() chip.Variant { return chip.Selected }

// Split consumes the Device and returns its peripheral tokens. No register is
// touched. Splitting twice panics.
func (d *Device) Split() Peripherals {
	if d.split {
		panic("device: already split")
	}
	d.split = true
	return split(mint.New(), chip.Selected, d.bank)
}
