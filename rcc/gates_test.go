package rcc_test

import (
	"errors"
	"reflect"
	"testing"

	"stm32l4hal/chip"
	"stm32l4hal/errcode"
	"stm32l4hal/internal/mint"
	"stm32l4hal/periph"
	"stm32l4hal/rcc"
	"stm32l4hal/rcc/rccsim"
)

func usart(t *testing.T, sim *rccsim.Sim, name string) *periph.USART {
	t.Helper()
	return periph.Issue[periph.USART](mint.New(), sim.Variant.MustLookup(name), sim)
}

func TestBusEnableResetHandshake(t *testing.T) {
	sim := rccsim.New(chip.L476VG)
	parts := rcc.Constrain(sim.RCC)
	u2 := usart(t, sim, "USART2")
	enr, rstr := sim.Addr(rcc.OffsetAPB1ENR1), sim.Addr(rcc.OffsetAPB1RST1)

	if parts.APB1R1.IsEnabled(u2) {
		t.Fatal("USART2 clocked at reset")
	}
	sim.ResetLog()
	if err := parts.APB1R1.Enable(u2); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if sim.Peek(enr) != 1<<17 {
		t.Fatalf("APB1ENR1 = %#x", sim.Peek(enr))
	}
	// read-modify-write plus the read-back
	if n := sim.Reads(enr); n != 2 {
		t.Fatalf("%d reads of APB1ENR1", n)
	}
	if !parts.APB1R1.IsEnabled(u2) {
		t.Fatal("IsEnabled after Enable")
	}

	if err := parts.APB1R1.Reset(u2); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if got := sim.Writes(rstr); !reflect.DeepEqual(got, []uint32{1 << 17, 0}) {
		t.Fatalf("APB1RSTR1 writes %#v", got)
	}

	if err := parts.APB1R1.Disable(u2); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if sim.Peek(enr) != 0 {
		t.Fatalf("APB1ENR1 = %#x after Disable", sim.Peek(enr))
	}
}

func TestBusRejectsForeignPeripheral(t *testing.T) {
	sim := rccsim.New(chip.L476VG)
	parts := rcc.Constrain(sim.RCC)
	u1 := usart(t, sim, "USART1")
	sim.ResetLog()

	for _, op := range []func(periph.Peripheral) error{parts.APB1R1.Enable, parts.APB1R1.Disable, parts.APB1R1.Reset} {
		if err := op(u1); !errors.Is(err, rcc.ErrWrongBus) {
			t.Fatalf("err = %v, want ErrWrongBus", err)
		}
	}
	if parts.APB1R1.IsEnabled(u1) {
		t.Fatal("foreign peripheral reported enabled")
	}
	if len(sim.Log()) != 0 {
		t.Fatalf("wrong-bus calls touched registers:\n%v", sim.Trace())
	}
	if err := parts.APB2.Enable(u1); err != nil || sim.Peek(sim.Addr(rcc.OffsetAPB2ENR)) != 1<<14 {
		t.Fatalf("APB2 enable: %v", err)
	}
}

func TestGatesCoverEveryInstance(t *testing.T) {
	for _, v := range chip.Variants() {
		sim := rccsim.New(v)
		parts := rcc.Constrain(sim.RCC)
		buses := map[chip.Bus]*rcc.Bus{
			chip.AHB1: parts.AHB1, chip.AHB2: parts.AHB2, chip.AHB3: parts.AHB3,
			chip.APB1R1: parts.APB1R1, chip.APB1R2: parts.APB1R2, chip.APB2: parts.APB2,
		}
		k := mint.New()
		for _, in := range v.Instances {
			if in.Bus == chip.NoBus {
				continue
			}
			b := periph.Issue[periph.Block](k, in, sim)
			if err := buses[in.Bus].Enable(b); err != nil {
				t.Fatalf("%s %s: %v", v.Part, in.Name, err)
			}
			if !buses[in.Bus].IsEnabled(b) {
				t.Fatalf("%s %s not enabled", v.Part, in.Name)
			}
		}
	}
}

func TestSelectUSARTKernelClock(t *testing.T) {
	sim := rccsim.New(overclocked())
	parts := rcc.Constrain(sim.RCC)
	clk, err := pll160(parts).Freeze(sim.Flash)
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	ccipr := sim.Addr(rcc.OffsetCCIPR)

	cases := []struct {
		name string
		k    rcc.KernelClock
		hz   uint32
		sel  uint32
	}{
		{"USART2", rcc.KernelPCLK, 80 * mhz, 0},
		{"USART1", rcc.KernelPCLK, 160 * mhz, 0},
		{"USART2", rcc.KernelSYSCLK, 160 * mhz, 1},
		{"LPUART1", rcc.KernelSYSCLK, 160 * mhz, 1},
	}
	for _, tc := range cases {
		u := usart(t, sim, tc.name)
		hz, err := parts.CCIPR.SelectUSART(u, tc.k, clk)
		if err != nil || hz != tc.hz {
			t.Fatalf("%s/%s: %d Hz, %v", tc.name, tc.k, hz, err)
		}
		pos := u.Instance().Sel
		if got := sim.Peek(ccipr) >> pos & 0b11; got != tc.sel {
			t.Fatalf("%s/%s: selector %d", tc.name, tc.k, got)
		}
	}
}

func TestSelectUSARTRejectsStoppedClock(t *testing.T) {
	sim := rccsim.New(chip.L476VG)
	parts := rcc.Constrain(sim.RCC)
	clk, err := parts.Config().SysClk(rcc.MSI).Freeze(sim.Flash)
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	sim.ResetLog()
	u := usart(t, sim, "USART3")
	for _, k := range []rcc.KernelClock{rcc.KernelHSI16, rcc.KernelLSE} {
		_, err := parts.CCIPR.SelectUSART(u, k, clk)
		var ce *rcc.ConfigError
		if !errors.As(err, &ce) || ce.Field != "USART3 kernel clock" {
			t.Fatalf("%s: err = %v", k, err)
		}
	}
	if len(sim.Writes(sim.Addr(rcc.OffsetCCIPR))) != 0 {
		t.Fatal("CCIPR written for a stopped clock")
	}
}

func TestSelectUSARTWithoutSelector(t *testing.T) {
	sim := rccsim.New(chip.L476VG)
	parts := rcc.Constrain(sim.RCC)
	in := chip.Instance{Name: "UARTX", Kind: chip.KindUSART, Base: 0x40004400, Bus: chip.APB1R1, Sel: chip.NoSel}
	u := periph.Issue[periph.USART](mint.New(), in, sim)
	if _, err := parts.CCIPR.SelectUSART(u, rcc.KernelPCLK, rcc.Clocks{}); errcode.Of(err) != errcode.Unsupported {
		t.Fatalf("err = %v", err)
	}
}
