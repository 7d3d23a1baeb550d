// Package rcc owns the reset and clock control block: it starts oscillators,
// validates and commits a clock tree, and hands out the per-bus gates drivers
// use to clock and reset their peripheral.
//
// Boot sequence:
//
//	parts := rcc.Constrain(p.RCC)
//	clocks, err := parts.Config().
//		HSE(8 * rcc.MHz).
//		PLL(rcc.PLLConfig{Source: rcc.HSE, M: 1, N: 20, R: 2}).
//		SysClk(rcc.PLL).
//		Freeze(p.FLASH)
//
// Clocks can be frozen once per program; there is no reclocking.
package rcc

import (
	"stm32l4hal/chip"
	"stm32l4hal/internal/mint"
	"stm32l4hal/periph"
	"stm32l4hal/regs"
)

const MHz = 1_000_000

// DefaultPollBudget bounds every ready-flag wait unless a Config overrides it.
const DefaultPollBudget = 0x0500

// RCC is the token for the reset and clock control block.
type RCC struct {
	periph.Token
	variant     chip.Variant
	constrained bool
	frozen      bool
}

// Issue constructs the RCC token of v on bank.
func Issue(k mint.Key, v chip.Variant, bank regs.Bank) *RCC {
	r := &RCC{variant: v}
	periph.Bind(k, &r.Token, v.MustLookup("RCC"), bank)
	return r
}

// Variant returns the part whose limits this RCC validates against.
func (r *RCC) Variant() chip.Variant { return r.variant }

// Parts are the independently owned pieces of the RCC.
type Parts struct {
	AHB1   *Bus
	AHB2   *Bus
	AHB3   *Bus
	APB1R1 *Bus
	APB1R2 *Bus
	APB2   *Bus
	CCIPR  *CCIPR
	Osc    *Oscillators

	rcc *RCC
}

// Constrain splits the RCC token into its parts. The token must not be used
// afterwards; constraining it twice panics.
func Constrain(r *RCC) Parts {
	if r.constrained {
		panic("rcc: RCC already constrained")
	}
	r.constrained = true
	return Parts{
		AHB1:   newBus(r, chip.AHB1),
		AHB2:   newBus(r, chip.AHB2),
		AHB3:   newBus(r, chip.AHB3),
		APB1R1: newBus(r, chip.APB1R1),
		APB1R2: newBus(r, chip.APB1R2),
		APB2:   newBus(r, chip.APB2),
		CCIPR:  &CCIPR{reg: r.Reg(OffsetCCIPR)},
		Osc:    &Oscillators{r: r},
		rcc:    r,
	}
}

// Config starts a new clock tree request with the reset defaults: SYSCLK from
// MSI at 4 MHz, every bus undivided. Requests can be built and committed
// until one commit succeeds.
func (p Parts) Config() *Config {
	return &Config{
		rcc:   p.rcc,
		osc:   p.Osc,
		sys:   MSI,
		msi:   MSI4M,
		ahb:   1,
		apb1:  1,
		apb2:  1,
		polls: DefaultPollBudget,
	}
}

// Bus is the clock gate of one bus: the matching xxxENR and xxxRSTR registers.
type Bus struct {
	bus  chip.Bus
	enr  regs.Register32
	rstr regs.Register32
}

func newBus(r *RCC, b chip.Bus) *Bus {
	enr, rstr := gateOffsets(b)
	return &Bus{bus: b, enr: r.Reg(enr), rstr: r.Reg(rstr)}
}

func (b *Bus) bit(p periph.Peripheral) (uint32, error) {
	in := p.Instance()
	if in.Bus != b.bus {
		return 0, ErrWrongBus
	}
	return 1 << in.Bit, nil
}

// Enable turns on the peripheral clock. The enable register is read back
// before returning since the clock needs two bus cycles to reach the block.
func (b *Bus) Enable(p periph.Peripheral) error {
	m, err := b.bit(p)
	if err != nil {
		return err
	}
	regs.SetBits(b.enr, m)
	_ = b.enr.Get()
	return nil
}

// Disable gates the peripheral clock off.
func (b *Bus) Disable(p periph.Peripheral) error {
	m, err := b.bit(p)
	if err != nil {
		return err
	}
	regs.ClearBits(b.enr, m)
	return nil
}

// IsEnabled reports whether the peripheral clock is on.
func (b *Bus) IsEnabled(p periph.Peripheral) bool {
	m, err := b.bit(p)
	return err == nil && regs.HasBits(b.enr, m)
}

// Reset pulses the peripheral reset line.
func (b *Bus) Reset(p periph.Peripheral) error {
	m, err := b.bit(p)
	if err != nil {
		return err
	}
	regs.SetBits(b.rstr, m)
	regs.ClearBits(b.rstr, m)
	return nil
}
