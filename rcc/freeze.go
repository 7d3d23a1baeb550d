package rcc

import (
	"stm32l4hal/periph"
	"stm32l4hal/regs"
)

// Freeze commits the request to the hardware and returns the frozen clock
// record. The Config is consumed by the call whatever its outcome; build a
// new one from Parts to try again, for example with a safer source.
//
// Nothing is written when the request fails validation. The commit order is:
// low-speed oscillators, flash wait states up if needed, the SYSCLK or PLL
// input oscillator, the PLL, the prescalers that slow a bus, the SYSCLK
// switch, the prescalers that speed one up, and flash wait states down if
// the new HCLK allows it. HSE is refused when it already runs in the other
// of crystal and bypass mode. A ready timeout at any step
// leaves the SYSCLK switch where it was.
func (c *Config) Freeze(flash *periph.Flash) (Clocks, error) {
	if c.used {
		return Clocks{}, ErrConsumed
	}
	c.used = true
	if c.rcc.frozen {
		return Clocks{}, ErrFrozen
	}
	p, err := c.plan()
	if err != nil {
		return Clocks{}, err
	}
	if err := c.commit(&p, flash.Reg(OffsetACR)); err != nil {
		return Clocks{}, err
	}
	c.rcc.frozen = true

	clk := p.clocks
	println("[rcc] clocks frozen: src", clk.src.String(), "sysclk", clk.sysclk,
		"hclk", clk.hclk, "pclk1", clk.pclk1, "pclk2", clk.pclk2)
	return clk, nil
}

func (c *Config) commit(p *plan, acr regs.Register32) error {
	o := c.osc
	cr := c.rcc.Reg(OffsetCR)
	cfgr := c.rcc.Reg(OffsetCFGR)

	if c.pllOn && FieldSWS.Get(cfgr) == swPLL {
		return invalid("PLL", "PLL drives SYSCLK and cannot be reprogrammed")
	}
	// HSEBYP is only writable while HSE is off.
	if p.starts(HSE) {
		if v := cr.Get(); v&crHSEON != 0 && (v&crHSEBYP != 0) != c.hseBypass {
			return invalid("HSE bypass", "HSE is already running in the other mode")
		}
	}

	for _, s := range [...]Source{LSI, LSE} {
		if p.starts(s) {
			if err := o.Start(s, c.polls); err != nil {
				return err
			}
		}
	}

	latency := uint32(p.clocks.latency)
	if FieldLATENCY.Get(acr) < latency {
		if err := setLatency(acr, latency); err != nil {
			return err
		}
	}

	if p.starts(HSI16) {
		if err := o.Start(HSI16, c.polls); err != nil {
			return err
		}
	}
	if p.starts(HSE) {
		if v := cr.Get(); v&crHSEON == 0 {
			want := v &^ crHSEBYP
			if c.hseBypass {
				want |= crHSEBYP
			}
			if want != v {
				cr.Set(want)
			}
		}
		if err := o.Start(HSE, c.polls); err != nil {
			return err
		}
	}
	if p.starts(MSI) {
		if err := c.startMSI(cr); err != nil {
			return err
		}
	}

	if p.starts(PLL) {
		if regs.HasBits(cr, crPLLON) {
			o.Disable(PLL)
			if err := o.awaitStopped(PLL, c.polls); err != nil {
				return err
			}
		}
		c.rcc.Reg(OffsetPLLCFGR).Set(p.pllcfgr)
		if err := o.Start(PLL, c.polls); err != nil {
			return err
		}
	}

	// Dividers that slow a bus go in before the switch, those that speed
	// one up after it, so HCLK never exceeds the old or the new rate.
	old := cfgr.Get()
	stage := stagePrescalers(old, p.cfgr)
	if old&prescalerMask() != stage {
		cfgr.Set(old&^prescalerMask() | stage)
	}

	FieldSW.Set(cfgr, p.sw)
	if !awaitSwitch(cfgr, p.sw, c.polls) {
		cfgr.Set(old)
		println("[rcc] SYSCLK switch to", c.sys.String(), "not acknowledged, restored")
		return &StartupTimeoutError{Source: c.sys, Polls: c.polls}
	}
	if stage != p.cfgr {
		cfgr.Set(cfgr.Get()&^prescalerMask() | p.cfgr)
	}

	if !p.starts(MSI) {
		p.clocks.msi = runningMSI(cr.Get())
	}

	if FieldLATENCY.Get(acr) > latency {
		return setLatency(acr, latency)
	}
	return nil
}

// startMSI starts MSI and moves it to the requested range. The range can
// only change while MSI is off or ready.
func (c *Config) startMSI(cr regs.Register32) error {
	o := c.osc
	if err := o.Start(MSI, c.polls); err != nil {
		return err
	}
	v := cr.Get()
	cur := MSI4M
	if v&crMSIRGSEL != 0 {
		cur = MSIRange(fieldMSIRANGE.Extract(v))
	}
	if cur == c.msi {
		return nil
	}
	cr.Set(v&^fieldMSIRANGE.Mask() | fieldMSIRANGE.Bits(uint32(c.msi)) | crMSIRGSEL)
	return o.AwaitReady(MSI, c.polls)
}

func awaitSwitch(cfgr regs.Register32, sw, polls uint32) bool {
	for i := uint32(0); i < polls; i++ {
		if FieldSWS.Get(cfgr) == sw {
			return true
		}
	}
	return false
}

// setLatency programs the flash wait states and checks they were taken.
func setLatency(acr regs.Register32, ws uint32) error {
	FieldLATENCY.Set(acr, ws)
	if FieldLATENCY.Get(acr) != ws {
		return invalid("flash latency", "FLASH_ACR did not take the new wait states")
	}
	return nil
}

func prescalerMask() uint32 {
	return fieldHPRE.Mask() | fieldPPRE1.Mask() | fieldPPRE2.Mask()
}

// stagePrescalers returns the HPRE/PPRE bits to program before the SYSCLK
// switch: the new divider where it is not smaller than the current one, the
// current divider otherwise.
func stagePrescalers(cur, next uint32) uint32 {
	fields := [...]struct {
		f   regs.Field
		div func(uint32) uint32
	}{
		{fieldHPRE, hpreDiv},
		{fieldPPRE1, ppreDiv},
		{fieldPPRE2, ppreDiv},
	}
	var v uint32
	for _, x := range fields {
		c, n := x.f.Extract(cur), x.f.Extract(next)
		if x.div(n) >= x.div(c) {
			v |= x.f.Bits(n)
		} else {
			v |= x.f.Bits(c)
		}
	}
	return v
}

// runningMSI returns the MSI frequency RCC_CR reports, or 0 when MSI is
// not ready. Without MSIRGSEL the range is the reset one.
func runningMSI(cr uint32) uint32 {
	if cr&crMSIRDY == 0 {
		return 0
	}
	if cr&crMSIRGSEL == 0 {
		return MSI4M.Hz()
	}
	return MSIRange(fieldMSIRANGE.Extract(cr)).Hz()
}
