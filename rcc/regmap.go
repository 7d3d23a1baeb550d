package rcc

import (
	"stm32l4hal/chip"
	"stm32l4hal/regs"
)

// RCC register offsets (RM0351 §6.4).
const (
	OffsetCR       uintptr = 0x00
	OffsetCFGR     uintptr = 0x08
	OffsetPLLCFGR  uintptr = 0x0C
	OffsetAHB1RSTR uintptr = 0x28
	OffsetAHB2RSTR uintptr = 0x2C
	OffsetAHB3RSTR uintptr = 0x30
	OffsetAPB1RST1 uintptr = 0x38
	OffsetAPB1RST2 uintptr = 0x3C
	OffsetAPB2RSTR uintptr = 0x40
	OffsetAHB1ENR  uintptr = 0x48
	OffsetAHB2ENR  uintptr = 0x4C
	OffsetAHB3ENR  uintptr = 0x50
	OffsetAPB1ENR1 uintptr = 0x58
	OffsetAPB1ENR2 uintptr = 0x5C
	OffsetAPB2ENR  uintptr = 0x60
	OffsetCCIPR    uintptr = 0x88
	OffsetBDCR     uintptr = 0x90
	OffsetCSR      uintptr = 0x94
)

// FLASH_ACR sits at the start of the FLASH register block.
const OffsetACR uintptr = 0x00

// RCC_CR
const (
	crMSION    = 1 << 0
	crMSIRDY   = 1 << 1
	crMSIRGSEL = 1 << 3
	crHSION    = 1 << 8
	crHSIRDY   = 1 << 10
	crHSEON    = 1 << 16
	crHSERDY   = 1 << 17
	crHSEBYP   = 1 << 18
	crPLLON    = 1 << 24
	crPLLRDY   = 1 << 25
)

var fieldMSIRANGE = regs.Field{Pos: 4, Width: 4}

// RCC_BDCR and RCC_CSR
const (
	bdcrLSEON  = 1 << 0
	bdcrLSERDY = 1 << 1
	csrLSION   = 1 << 0
	csrLSIRDY  = 1 << 1
)

// RCC_CFGR. The switch fields are exported for hardware simulators.
var (
	FieldSW    = regs.Field{Pos: 0, Width: 2}
	FieldSWS   = regs.Field{Pos: 2, Width: 2}
	fieldHPRE  = regs.Field{Pos: 4, Width: 4}
	fieldPPRE1 = regs.Field{Pos: 8, Width: 3}
	fieldPPRE2 = regs.Field{Pos: 11, Width: 3}
)

// RCC_PLLCFGR
var (
	fieldPLLSRC  = regs.Field{Pos: 0, Width: 2}
	fieldPLLM    = regs.Field{Pos: 4, Width: 3}
	fieldPLLN    = regs.Field{Pos: 8, Width: 7}
	fieldPLLP    = regs.Field{Pos: 17, Width: 1}
	fieldPLLQ    = regs.Field{Pos: 21, Width: 2}
	fieldPLLR    = regs.Field{Pos: 25, Width: 2}
	fieldPLLPDIV = regs.Field{Pos: 27, Width: 5}
)

const (
	pllcfgrPLLPEN = 1 << 16
	pllcfgrPLLQEN = 1 << 20
	pllcfgrPLLREN = 1 << 24
)

// FLASH_ACR
var FieldLATENCY = regs.Field{Pos: 0, Width: 3}

// SW/SWS encodings.
const (
	swMSI   = 0b00
	swHSI16 = 0b01
	swHSE   = 0b10
	swPLL   = 0b11
)

// ResetCR is RCC_CR after reset: MSI on and ready at 4 MHz.
const ResetCR = 0x00000063

// ResetPLLCFGR is RCC_PLLCFGR after reset.
const ResetPLLCFGR = 0x00001000

// hpreCode maps an AHB divider to its HPRE encoding.
func hpreCode(div uint32) (uint32, bool) {
	switch div {
	case 1:
		return 0b0000, true
	case 2:
		return 0b1000, true
	case 4:
		return 0b1001, true
	case 8:
		return 0b1010, true
	case 16:
		return 0b1011, true
	case 64:
		return 0b1100, true
	case 128:
		return 0b1101, true
	case 256:
		return 0b1110, true
	case 512:
		return 0b1111, true
	}
	return 0, false
}

// ppreCode maps an APB divider to its PPREx encoding.
func ppreCode(div uint32) (uint32, bool) {
	switch div {
	case 1:
		return 0b000, true
	case 2:
		return 0b100, true
	case 4:
		return 0b101, true
	case 8:
		return 0b110, true
	case 16:
		return 0b111, true
	}
	return 0, false
}

// hpreDiv decodes an HPRE field. HPRE has no /32 step.
func hpreDiv(code uint32) uint32 {
	switch {
	case code < 0b1000:
		return 1
	case code < 0b1100:
		return 2 << (code - 0b1000)
	}
	return 4 << (code - 0b1000)
}

// ppreDiv decodes a PPRE1 or PPRE2 field.
func ppreDiv(code uint32) uint32 {
	if code < 0b100 {
		return 1
	}
	return 2 << (code - 0b100)
}

// gateOffsets returns the enable and reset register offsets of a bus gate.
func gateOffsets(b chip.Bus) (enr, rstr uintptr) {
	switch b {
	case chip.AHB1:
		return OffsetAHB1ENR, OffsetAHB1RSTR
	case chip.AHB2:
		return OffsetAHB2ENR, OffsetAHB2RSTR
	case chip.AHB3:
		return OffsetAHB3ENR, OffsetAHB3RSTR
	case chip.APB1R1:
		return OffsetAPB1ENR1, OffsetAPB1RST1
	case chip.APB1R2:
		return OffsetAPB1ENR2, OffsetAPB1RST2
	case chip.APB2:
		return OffsetAPB2ENR, OffsetAPB2RSTR
	}
	return 0, 0
}
