//go:build stm32l476vg || stm32l496ag

package device

import (
	"reflect"
	"testing"

	"stm32l4hal/chip"
	"stm32l4hal/internal/mint"
	"stm32l4hal/periph"
	"stm32l4hal/rcc"
	"stm32l4hal/regs"
)

// The once-flag is process wide, so the whole lifecycle lives in one test.
func TestTakeSplitOnce(t *testing.T) {
	bank := regs.NewFake()
	d, ok := TakeFrom(bank)
	if !ok || d == nil {
		t.Fatal("first TakeFrom refused")
	}
	if again, ok := TakeFrom(regs.NewFake()); ok || again != nil {
		t.Fatal("second TakeFrom returned a Device")
	}
	if d.Variant().Part != chip.Selected.Part {
		t.Fatalf("variant %s", d.Variant().Part)
	}

	p := d.Split()
	if n := len(bank.Log()); n != 0 {
		t.Fatalf("split touched %d registers", n)
	}

	seen := map[string]bool{}
	pv := reflect.ValueOf(p)
	for i := 0; i < pv.NumField(); i++ {
		f := pv.Field(i)
		if f.IsNil() {
			t.Fatalf("field %s not issued", pv.Type().Field(i).Name)
		}
		tok, ok := f.Interface().(periph.Peripheral)
		if !ok {
			t.Fatalf("field %s is not a token", pv.Type().Field(i).Name)
		}
		name := tok.Instance().Name
		if name != pv.Type().Field(i).Name {
			t.Fatalf("field %s holds %s", pv.Type().Field(i).Name, name)
		}
		if seen[name] {
			t.Fatalf("%s issued twice", name)
		}
		seen[name] = true
	}
	for _, in := range chip.Selected.Instances {
		if !seen[in.Name] {
			t.Fatalf("%s has no token", in.Name)
		}
	}
	if len(seen) != len(chip.Selected.Instances) {
		t.Fatalf("%d tokens for %d instances", len(seen), len(chip.Selected.Instances))
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("second Split did not panic")
			}
		}()
		d.Split()
	}()

	// The split RCC drives the clock tree like any other.
	parts := rcc.Constrain(p.RCC)
	if err := parts.AHB2.Enable(p.GPIOA); err != nil {
		t.Fatalf("enable GPIOA: %v", err)
	}
	if bank.Peek(0x40021000+rcc.OffsetAHB2ENR) != 1 {
		t.Fatal("GPIOAEN not set")
	}
}

func TestIssuerChecksKind(t *testing.T) {
	is := issuer{k: mint.New(), v: chip.Selected, bank: regs.NewFake()}
	if u := is.usart("USART1"); u.Name() != "USART1" {
		t.Fatalf("issued %s", u.Name())
	}
	for name, issue := range map[string]func(){
		"USART1 as GPIO": func() { is.gpio("USART1") },
		"TIM2 as block":  func() { is.block("TIM2") },
		"PWR as DMA":     func() { is.dma("PWR") },
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("%s: no panic", name)
				}
			}()
			issue()
		}()
	}
}
