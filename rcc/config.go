package rcc

import (
	"stm32l4hal/x/mathx"
)

// PLLConfig are the main PLL settings. The input is divided by M, multiplied
// by N in the VCO, and the VCO output is divided by R for SYSCLK, Q for the
// 48 MHz domain and P for the SAIs. A zero R, Q or P leaves that output off.
type PLLConfig struct {
	Source Source
	M      uint32
	N      uint32
	R      uint32
	Q      uint32
	P      uint32
}

// Config is a clock tree request. Setters check what they can on their own
// and latch the first failure; everything that depends on more than one
// setting is checked by Freeze before any register is written.
type Config struct {
	rcc *RCC
	osc *Oscillators

	hse       uint32
	hseBypass bool
	lse       uint32
	lsi       bool
	hsi       bool
	msi       MSIRange
	sys       Source
	pll       PLLConfig
	pllOn     bool
	ahb       uint32
	apb1      uint32
	apb2      uint32
	polls     uint32

	err  error
	used bool
}

func (c *Config) fail(field, reason string) *Config {
	if c.err == nil {
		c.err = invalid(field, reason)
	}
	return c
}

// HSE declares an external crystal of hz. The frequency cannot be measured
// by the hardware and is trusted as given.
func (c *Config) HSE(hz uint32) *Config { return c.setHSE(hz, false) }

// HSEBypass declares an external clock signal of hz on OSC_IN.
func (c *Config) HSEBypass(hz uint32) *Config { return c.setHSE(hz, true) }

func (c *Config) setHSE(hz uint32, bypass bool) *Config {
	lim := c.rcc.variant.Limits
	if !mathx.Between(hz, lim.HSEMin, lim.HSEMax) {
		return c.fail("HSE frequency", outside("HSE", uint64(hz), uint64(lim.HSEMin), uint64(lim.HSEMax)))
	}
	c.hse = hz
	c.hseBypass = bypass
	return c
}

// LSE requests the 32 kHz crystal. The backup domain must already be
// writable (PWR_CR1.DBP) or the enable bit does not stick.
func (c *Config) LSE(hz uint32) *Config {
	if !mathx.Between(hz, 1, 1_000_000) {
		return c.fail("LSE frequency", outside("LSE", uint64(hz), 1, 1_000_000))
	}
	c.lse = hz
	return c
}

// LSI requests the low-speed internal oscillator.
func (c *Config) LSI() *Config {
	c.lsi = true
	return c
}

// HSI16 keeps the 16 MHz internal oscillator running even when nothing in
// the tree selects it, for peripherals that use it as kernel clock.
func (c *Config) HSI16() *Config {
	c.hsi = true
	return c
}

// MSIRange sets the MSI frequency used when MSI drives SYSCLK or the PLL.
func (c *Config) MSIRange(r MSIRange) *Config {
	if r.Hz() == 0 {
		return c.fail("MSI range", notInRange(uint32(r), uint32(MSI100K), uint32(MSI48M)))
	}
	c.msi = r
	return c
}

// SysClk selects the SYSCLK source. LSI and LSE cannot drive it.
func (c *Config) SysClk(s Source) *Config {
	if _, ok := s.sw(); !ok {
		return c.fail("system clock source", s.String()+" cannot drive SYSCLK")
	}
	c.sys = s
	return c
}

// PLL configures the main PLL. It is started by Freeze whether or not it
// drives SYSCLK.
func (c *Config) PLL(p PLLConfig) *Config {
	lim := c.rcc.variant.Limits
	if _, ok := p.Source.pllsrc(); !ok {
		return c.fail("PLL source", p.Source.String()+" cannot feed the PLL")
	}
	if !mathx.Between(p.M, lim.PLLMMin, lim.PLLMMax) {
		return c.fail("PLL input divider", notInRange(p.M, lim.PLLMMin, lim.PLLMMax))
	}
	if !mathx.Between(p.N, lim.PLLNMin, lim.PLLNMax) {
		return c.fail("PLL multiplier", notInRange(p.N, lim.PLLNMin, lim.PLLNMax))
	}
	if p.R != 0 && !mathx.In(p.R, lim.PLLR) {
		return c.fail("PLL R divider", notIn(p.R, lim.PLLR))
	}
	if p.Q != 0 && !mathx.In(p.Q, lim.PLLQ) {
		return c.fail("PLL Q divider", notIn(p.Q, lim.PLLQ))
	}
	if p.P != 0 && !mathx.In(p.P, lim.PLLP) {
		return c.fail("PLL P divider", notIn(p.P, lim.PLLP))
	}
	c.pll = p
	c.pllOn = true
	return c
}

// AHB sets the HCLK divider: 1, 2, 4, 8, 16, 64, 128, 256 or 512.
func (c *Config) AHB(div uint32) *Config {
	if _, ok := hpreCode(div); !ok {
		return c.fail("AHB prescaler", notIn(div, []uint32{1, 2, 4, 8, 16, 64, 128, 256, 512}))
	}
	c.ahb = div
	return c
}

var apbDividers = []uint32{1, 2, 4, 8, 16}

// APB1 sets the PCLK1 divider: 1, 2, 4, 8 or 16.
func (c *Config) APB1(div uint32) *Config {
	if _, ok := ppreCode(div); !ok {
		return c.fail("APB1 prescaler", notIn(div, apbDividers))
	}
	c.apb1 = div
	return c
}

// APB2 sets the PCLK2 divider: 1, 2, 4, 8 or 16.
func (c *Config) APB2(div uint32) *Config {
	if _, ok := ppreCode(div); !ok {
		return c.fail("APB2 prescaler", notIn(div, apbDividers))
	}
	c.apb2 = div
	return c
}

// PollBudget bounds every ready-flag wait of the commit. A budget of zero
// makes any wait fail without reading the flag.
func (c *Config) PollBudget(n uint32) *Config {
	c.polls = n
	return c
}

// Err returns the first setter failure, if any.
func (c *Config) Err() error { return c.err }
