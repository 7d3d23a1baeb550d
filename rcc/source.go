package rcc

import (
	"strings"

	"stm32l4hal/regs"
)

// Source is a clock source the RCC can enable and select.
type Source uint8

const (
	MSI   Source = iota // multi-speed internal RC, running at reset
	HSI16               // 16 MHz internal RC
	HSE                 // external crystal or clock
	LSI                 // 32 kHz internal RC
	LSE                 // 32.768 kHz external crystal
	PLL                 // main PLL
)

// Fixed internal oscillator frequencies.
const (
	HSI16Hz = 16_000_000
	LSIHz   = 32_000
)

func (s Source) String() string {
	switch s {
	case MSI:
		return "MSI"
	case HSI16:
		return "HSI16"
	case HSE:
		return "HSE"
	case LSI:
		return "LSI"
	case LSE:
		return "LSE"
	case PLL:
		return "PLL"
	}
	return "unknown"
}

// ParseSource is the inverse of Source.String, case-insensitive.
func ParseSource(name string) (Source, bool) {
	for s := MSI; s <= PLL; s++ {
		if strings.EqualFold(s.String(), name) {
			return s, true
		}
	}
	return 0, false
}

// Control returns the register offset holding the enable and ready flags of s.
func (s Source) Control() (offset uintptr, on, rdy uint32) {
	switch s {
	case MSI:
		return OffsetCR, crMSION, crMSIRDY
	case HSI16:
		return OffsetCR, crHSION, crHSIRDY
	case HSE:
		return OffsetCR, crHSEON, crHSERDY
	case LSI:
		return OffsetCSR, csrLSION, csrLSIRDY
	case LSE:
		return OffsetBDCR, bdcrLSEON, bdcrLSERDY
	case PLL:
		return OffsetCR, crPLLON, crPLLRDY
	}
	return OffsetCR, 0, 0
}

// sw returns the RCC_CFGR.SW encoding for sources that can drive SYSCLK.
func (s Source) sw() (uint32, bool) {
	switch s {
	case MSI:
		return swMSI, true
	case HSI16:
		return swHSI16, true
	case HSE:
		return swHSE, true
	case PLL:
		return swPLL, true
	}
	return 0, false
}

// pllsrc returns the RCC_PLLCFGR.PLLSRC encoding for PLL inputs.
func (s Source) pllsrc() (uint32, bool) {
	switch s {
	case MSI:
		return 0b01, true
	case HSI16:
		return 0b10, true
	case HSE:
		return 0b11, true
	}
	return 0, false
}

// MSIRange selects the MSI frequency.
type MSIRange uint8

const (
	MSI100K MSIRange = iota
	MSI200K
	MSI400K
	MSI800K
	MSI1M
	MSI2M
	MSI4M // reset value
	MSI8M
	MSI16M
	MSI24M
	MSI32M
	MSI48M
)

var msiHz = [...]uint32{
	100_000, 200_000, 400_000, 800_000, 1_000_000, 2_000_000,
	4_000_000, 8_000_000, 16_000_000, 24_000_000, 32_000_000, 48_000_000,
}

// Hz returns the nominal frequency of the range, or 0 for an invalid range.
func (r MSIRange) Hz() uint32 {
	if int(r) >= len(msiHz) {
		return 0
	}
	return msiHz[r]
}

// Oscillators enables oscillators and waits for them to report ready.
//
// There is no time base at this point in boot, so waits are bounded by a
// number of status-register polls rather than a duration. A timeout is
// reported once; retrying is the caller's decision.
type Oscillators struct {
	r *RCC
}

func (o *Oscillators) reg(s Source) (regs.Register32, uint32, uint32) {
	off, on, rdy := s.Control()
	return o.r.Reg(off), on, rdy
}

// Enable requests that s starts. It does not wait.
func (o *Oscillators) Enable(s Source) {
	r, on, _ := o.reg(s)
	regs.SetBits(r, on)
}

// Disable stops s. Stopping the source that drives SYSCLK is ignored by the hardware.
func (o *Oscillators) Disable(s Source) {
	r, on, _ := o.reg(s)
	regs.ClearBits(r, on)
}

// Ready reads the ready flag of s once.
func (o *Oscillators) Ready(s Source) bool {
	r, _, rdy := o.reg(s)
	return regs.HasBits(r, rdy)
}

// AwaitReady polls the ready flag of s at most polls times. It returns nil on
// the first poll that sees the flag set, and a *StartupTimeoutError naming s
// after polls unsuccessful reads. With polls == 0 it fails without reading.
func (o *Oscillators) AwaitReady(s Source, polls uint32) error {
	r, _, rdy := o.reg(s)
	for i := uint32(0); i < polls; i++ {
		if regs.HasBits(r, rdy) {
			return nil
		}
	}
	println("[rcc]", s.String(), "not ready after", polls, "polls")
	return &StartupTimeoutError{Source: s, Polls: polls}
}

// Start enables s and waits for it.
func (o *Oscillators) Start(s Source, polls uint32) error {
	o.Enable(s)
	return o.AwaitReady(s, polls)
}

// awaitStopped polls until the ready flag of s drops.
func (o *Oscillators) awaitStopped(s Source, polls uint32) error {
	r, _, rdy := o.reg(s)
	for i := uint32(0); i < polls; i++ {
		if !regs.HasBits(r, rdy) {
			return nil
		}
	}
	return &StartupTimeoutError{Source: s, Polls: polls}
}
