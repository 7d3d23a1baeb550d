package rcc

import (
	"stm32l4hal/x/mathx"
)

// plan is a validated clock tree: the register values to program and the
// frequencies they produce. Building one touches no register.
type plan struct {
	clocks  Clocks
	start   uint8 // bit per Source to start
	pllcfgr uint32
	cfgr    uint32 // HPRE/PPRE1/PPRE2 bits
	sw      uint32
}

func (p *plan) starts(s Source) bool { return p.start&(1<<s) != 0 }

func (p *plan) run(s Source) { p.start |= 1 << s }

// sourceHz returns the frequency of an oscillator that drives SYSCLK or the
// PLL and records it as started.
func (c *Config) sourceHz(p *plan, s Source, field string) (uint32, error) {
	switch s {
	case MSI:
		p.run(MSI)
		return c.msi.Hz(), nil
	case HSI16:
		p.run(HSI16)
		p.clocks.hsi16 = HSI16Hz
		return HSI16Hz, nil
	case HSE:
		if c.hse == 0 {
			return 0, invalid(field, "HSE selected without a declared frequency")
		}
		p.run(HSE)
		p.clocks.hse = c.hse
		return c.hse, nil
	}
	return 0, invalid(field, s.String()+" is not an oscillator")
}

// plan checks the whole request against the part limits.
func (c *Config) plan() (plan, error) {
	var p plan
	if c.err != nil {
		return p, c.err
	}
	lim := c.rcc.variant.Limits

	p.clocks.src = c.sys
	if c.msi != MSI4M {
		p.run(MSI)
	}
	if c.lsi {
		p.run(LSI)
		p.clocks.lsi = LSIHz
	}
	if c.lse != 0 {
		p.run(LSE)
		p.clocks.lse = c.lse
	}
	if c.hsi {
		p.run(HSI16)
		p.clocks.hsi16 = HSI16Hz
	}

	if c.pllOn {
		if err := c.planPLL(&p); err != nil {
			return p, err
		}
	}

	var sys uint32
	if c.sys == PLL {
		switch {
		case !c.pllOn:
			return p, invalid("PLL", "PLL selected as system clock but not configured")
		case c.pll.R == 0:
			return p, invalid("PLL R divider", "R output disabled but PLL drives SYSCLK")
		}
		sys = p.clocks.pllr
	} else {
		hz, err := c.sourceHz(&p, c.sys, "system clock source")
		if err != nil {
			return p, err
		}
		sys = hz
	}
	p.sw, _ = c.sys.sw()

	if sys > lim.SYSCLKMax {
		return p, invalid("system clock", exceeds("SYSCLK", uint64(sys), uint64(lim.SYSCLKMax)))
	}
	hclk := sys / c.ahb
	if hclk > lim.HCLKMax {
		return p, invalid("AHB prescaler", exceeds("HCLK", uint64(hclk), uint64(lim.HCLKMax)))
	}
	pclk1 := hclk / c.apb1
	if pclk1 > lim.PCLK1Max {
		return p, invalid("APB1 prescaler", exceeds("PCLK1", uint64(pclk1), uint64(lim.PCLK1Max)))
	}
	pclk2 := hclk / c.apb2
	if pclk2 > lim.PCLK2Max {
		return p, invalid("APB2 prescaler", exceeds("PCLK2", uint64(pclk2), uint64(lim.PCLK2Max)))
	}

	ws := -1
	for n, max := range lim.FlashWS {
		if n > int(FieldLATENCY.Mask()) {
			break
		}
		if hclk <= max {
			ws = n
			break
		}
	}
	if ws < 0 {
		return p, invalid("flash latency", exceeds("HCLK", uint64(hclk), uint64(lim.FlashWS[len(lim.FlashWS)-1])))
	}

	hpre, _ := hpreCode(c.ahb)
	ppre1, _ := ppreCode(c.apb1)
	ppre2, _ := ppreCode(c.apb2)
	p.cfgr = fieldHPRE.Bits(hpre) | fieldPPRE1.Bits(ppre1) | fieldPPRE2.Bits(ppre2)

	if p.starts(MSI) {
		p.clocks.msi = c.msi.Hz()
	}
	p.clocks.sysclk = sys
	p.clocks.hclk = hclk
	p.clocks.pclk1 = pclk1
	p.clocks.pclk2 = pclk2
	p.clocks.ppre1 = uint8(c.apb1)
	p.clocks.ppre2 = uint8(c.apb2)
	p.clocks.latency = uint8(ws)
	return p, nil
}

func (c *Config) planPLL(p *plan) error {
	lim := c.rcc.variant.Limits
	cfg := c.pll

	in, err := c.sourceHz(p, cfg.Source, "PLL source")
	if err != nil {
		return err
	}
	ref := in / cfg.M
	if !mathx.Between(ref, lim.PLLInMin, lim.PLLInMax) {
		return invalid("PLL input divider", outside("PLL input", uint64(ref), uint64(lim.PLLInMin), uint64(lim.PLLInMax)))
	}
	vco := uint64(ref) * uint64(cfg.N)
	if !mathx.Between(vco, uint64(lim.VCOMin), uint64(lim.VCOMax)) {
		return invalid("PLL multiplier", outside("VCO", vco, uint64(lim.VCOMin), uint64(lim.VCOMax)))
	}

	outputs := [...]struct {
		div   uint32
		max   uint32
		field string
		name  string
		out   *uint32
	}{
		{cfg.R, lim.PLLRMax, "PLL R divider", "PLLR", &p.clocks.pllr},
		{cfg.Q, lim.PLLQMax, "PLL Q divider", "PLLQ", &p.clocks.pllq},
		{cfg.P, lim.PLLPMax, "PLL P divider", "PLLP", &p.clocks.pllp},
	}
	for _, o := range outputs {
		if o.div == 0 {
			continue
		}
		hz := vco / uint64(o.div)
		if hz > uint64(o.max) {
			return invalid(o.field, exceeds(o.name, hz, uint64(o.max)))
		}
		*o.out = uint32(hz)
	}

	p.pllcfgr = c.pllcfgr()
	p.run(PLL)
	return nil
}

// pllcfgr encodes the PLL settings into RCC_PLLCFGR.
func (c *Config) pllcfgr() uint32 {
	cfg := c.pll
	src, _ := cfg.Source.pllsrc()
	v := fieldPLLSRC.Bits(src) | fieldPLLM.Bits(cfg.M-1) | fieldPLLN.Bits(cfg.N)
	if cfg.R != 0 {
		v |= pllcfgrPLLREN | fieldPLLR.Bits(cfg.R/2-1)
	}
	if cfg.Q != 0 {
		v |= pllcfgrPLLQEN | fieldPLLQ.Bits(cfg.Q/2-1)
	}
	if cfg.P != 0 {
		v |= pllcfgrPLLPEN
		switch {
		case c.rcc.variant.PLLPDiv:
			v |= fieldPLLPDIV.Bits(cfg.P)
		case cfg.P == 17:
			v |= fieldPLLP.Bits(1)
		}
	}
	return v
}
