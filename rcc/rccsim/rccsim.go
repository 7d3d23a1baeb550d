// Package rccsim simulates the RCC and FLASH interface registers on top of
// regs.Fake: oscillators come ready when enabled, the SYSCLK status follows
// the switch once its source is ready, and FLASH_ACR stores what is written.
// Oscillators can be made slow or dead to exercise timeouts.
package rccsim

import (
	"sync"

	"stm32l4hal/chip"
	"stm32l4hal/internal/mint"
	"stm32l4hal/periph"
	"stm32l4hal/rcc"
	"stm32l4hal/regs"
)

// Sim is a simulated clock controller. Its tokens are freshly minted; they
// never alias the ones a device split hands out.
type Sim struct {
	*regs.Fake
	Variant chip.Variant
	RCC     *rcc.RCC
	Flash   *periph.Flash

	rccBase   uintptr
	flashBase uintptr

	mu       sync.Mutex
	stuck    map[rcc.Source]bool
	delay    map[rcc.Source]int
	polls    map[rcc.Source]int
	noSwitch bool
}

var allSources = [...]rcc.Source{rcc.MSI, rcc.HSI16, rcc.HSE, rcc.LSI, rcc.LSE, rcc.PLL}

// New returns a simulator in the reset state of v.
func New(v chip.Variant) *Sim {
	k := mint.New()
	f := regs.NewFake()
	s := &Sim{
		Fake:      f,
		Variant:   v,
		rccBase:   v.MustLookup("RCC").Base,
		flashBase: v.MustLookup("FLASH").Base,
		stuck:     make(map[rcc.Source]bool),
		delay:     make(map[rcc.Source]int),
		polls:     make(map[rcc.Source]int),
	}
	s.RCC = rcc.Issue(k, v, f)
	s.Flash = periph.Issue[periph.Flash](k, v.MustLookup("FLASH"), f)

	for name, off := range map[string]uintptr{
		"RCC_CR": rcc.OffsetCR, "RCC_CFGR": rcc.OffsetCFGR, "RCC_PLLCFGR": rcc.OffsetPLLCFGR,
		"RCC_AHB1RSTR": rcc.OffsetAHB1RSTR, "RCC_AHB2RSTR": rcc.OffsetAHB2RSTR,
		"RCC_AHB3RSTR": rcc.OffsetAHB3RSTR, "RCC_APB1RSTR1": rcc.OffsetAPB1RST1,
		"RCC_APB1RSTR2": rcc.OffsetAPB1RST2, "RCC_APB2RSTR": rcc.OffsetAPB2RSTR,
		"RCC_AHB1ENR": rcc.OffsetAHB1ENR, "RCC_AHB2ENR": rcc.OffsetAHB2ENR,
		"RCC_AHB3ENR": rcc.OffsetAHB3ENR, "RCC_APB1ENR1": rcc.OffsetAPB1ENR1,
		"RCC_APB1ENR2": rcc.OffsetAPB1ENR2, "RCC_APB2ENR": rcc.OffsetAPB2ENR,
		"RCC_CCIPR": rcc.OffsetCCIPR, "RCC_BDCR": rcc.OffsetBDCR, "RCC_CSR": rcc.OffsetCSR,
	} {
		f.Label(s.rccBase+off, name)
	}
	f.Label(s.ACR(), "FLASH_ACR")

	f.Poke(s.Addr(rcc.OffsetCR), rcc.ResetCR)
	f.Poke(s.Addr(rcc.OffsetPLLCFGR), rcc.ResetPLLCFGR)
	// FLASH clock is on at reset.
	f.Poke(s.Addr(rcc.OffsetAHB1ENR), 1<<8)

	for _, off := range [...]uintptr{rcc.OffsetCR, rcc.OffsetBDCR, rcc.OffsetCSR} {
		off := off
		f.OnRead(s.Addr(off), func(v uint32) uint32 { return s.status(off, v, true) })
	}
	f.OnRead(s.Addr(rcc.OffsetCFGR), s.cfgr)
	return s
}

// Addr returns the absolute address of an RCC register.
func (s *Sim) Addr(off uintptr) uintptr { return s.rccBase + off }

// ACR returns the address of FLASH_ACR.
func (s *Sim) ACR() uintptr { return s.flashBase + rcc.OffsetACR }

// Stick keeps the ready flag of src low forever.
func (s *Sim) Stick(src rcc.Source) {
	s.mu.Lock()
	s.stuck[src] = true
	s.mu.Unlock()
}

// Delay makes src report ready only after n status reads with its enable
// bit set.
func (s *Sim) Delay(src rcc.Source, n int) {
	s.mu.Lock()
	s.delay[src] = n
	s.mu.Unlock()
}

// RefuseSwitch keeps RCC_CFGR.SWS at its current value whatever SW says.
func (s *Sim) RefuseSwitch() {
	s.mu.Lock()
	s.noSwitch = true
	s.mu.Unlock()
}

// status derives the ready flags of the sources controlled by the register
// at off from their enable bits. count advances the start-up delays.
func (s *Sim) status(off uintptr, v uint32, count bool) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, src := range allSources {
		o, on, rdy := src.Control()
		if o != off {
			continue
		}
		if v&on == 0 {
			s.polls[src] = 0
			v &^= rdy
			continue
		}
		if s.stuck[src] {
			v &^= rdy
			continue
		}
		if s.polls[src] < s.delay[src] {
			if count {
				s.polls[src]++
			}
			v &^= rdy
			continue
		}
		v |= rdy
	}
	return v
}

func (s *Sim) ready(src rcc.Source) bool {
	off, _, rdy := src.Control()
	return s.status(off, s.Peek(s.Addr(off)), false)&rdy != 0
}

// cfgr mirrors SW into SWS when the selected source is running.
func (s *Sim) cfgr(v uint32) uint32 {
	s.mu.Lock()
	refuse := s.noSwitch
	s.mu.Unlock()
	if refuse {
		return v
	}
	sw := rcc.FieldSW.Extract(v)
	src := [...]rcc.Source{rcc.MSI, rcc.HSI16, rcc.HSE, rcc.PLL}[sw]
	if !s.ready(src) {
		return v
	}
	v = v&^rcc.FieldSWS.Mask() | rcc.FieldSWS.Bits(sw)
	s.Poke(s.Addr(rcc.OffsetCFGR), v)
	return v
}

// SysClkSource decodes RCC_CFGR.SWS without recording a read.
func (s *Sim) SysClkSource() rcc.Source {
	sws := rcc.FieldSWS.Extract(s.Peek(s.Addr(rcc.OffsetCFGR)))
	return [...]rcc.Source{rcc.MSI, rcc.HSI16, rcc.HSE, rcc.PLL}[sws]
}

// Latency decodes FLASH_ACR.LATENCY without recording a read.
func (s *Sim) Latency() uint32 {
	return rcc.FieldLATENCY.Extract(s.Peek(s.ACR()))
}
