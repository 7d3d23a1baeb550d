package rcc

// Clocks is the frozen record of a committed clock tree. It is a plain value:
// copy it freely, read it from any context. Nothing in it is re-read from
// the hardware, and a zero frequency means the clock is not running.
type Clocks struct {
	src     Source
	sysclk  uint32
	hclk    uint32
	pclk1   uint32
	pclk2   uint32
	pllr    uint32
	pllq    uint32
	pllp    uint32
	hse     uint32
	hsi16   uint32
	msi     uint32
	lse     uint32
	lsi     uint32
	ppre1   uint8
	ppre2   uint8
	latency uint8
}

// Source is the oscillator or PLL driving SYSCLK.
func (c Clocks) Source() Source { return c.src }

func (c Clocks) SysClk() uint32 { return c.sysclk }

// HCLK is the AHB bus, core and memory clock.
func (c Clocks) HCLK() uint32 { return c.hclk }

// PCLK1 is the APB1 peripheral clock.
func (c Clocks) PCLK1() uint32 { return c.pclk1 }

// PCLK2 is the APB2 peripheral clock.
func (c Clocks) PCLK2() uint32 { return c.pclk2 }

// TimClk1 is the clock of the timers on APB1. It runs at twice PCLK1
// whenever the APB1 prescaler divides.
func (c Clocks) TimClk1() uint32 { return timclk(c.pclk1, c.ppre1) }

// TimClk2 is TimClk1 for APB2.
func (c Clocks) TimClk2() uint32 { return timclk(c.pclk2, c.ppre2) }

func timclk(pclk uint32, div uint8) uint32 {
	if div == 1 {
		return pclk
	}
	return pclk * 2
}

// PLLR, PLLQ and PLLP are the PLL output frequencies; zero when the output
// is disabled.
func (c Clocks) PLLR() uint32 { return c.pllr }
func (c Clocks) PLLQ() uint32 { return c.pllq }
func (c Clocks) PLLP() uint32 { return c.pllp }

// Oscillator frequencies, zero for those not started by the commit.
// MSI is on from reset; it is reported whenever it was running at commit.
func (c Clocks) HSE() uint32   { return c.hse }
func (c Clocks) HSI16() uint32 { return c.hsi16 }
func (c Clocks) MSI() uint32   { return c.msi }
func (c Clocks) LSE() uint32   { return c.lse }
func (c Clocks) LSI() uint32   { return c.lsi }

// PPRE1 and PPRE2 are the APB divider values, 1 to 16.
func (c Clocks) PPRE1() uint8 { return c.ppre1 }
func (c Clocks) PPRE2() uint8 { return c.ppre2 }

// FlashLatency is the number of flash wait states programmed for HCLK.
func (c Clocks) FlashLatency() uint8 { return c.latency }
