package chip

import "testing"

type gate struct {
	bus Bus
	bit uint8
}

// Every instance must be unique by name, base address and clock gate,
// otherwise the device split could hand two tokens for one block.
func TestInstancesAreUnique(t *testing.T) {
	for _, v := range Variants() {
		names := map[string]bool{}
		bases := map[uintptr]string{}
		gates := map[gate]string{}
		for _, in := range v.Instances {
			if names[in.Name] {
				t.Fatalf("%s: duplicate instance %s", v.Part, in.Name)
			}
			names[in.Name] = true
			if other, ok := bases[in.Base]; ok {
				t.Fatalf("%s: %s and %s share base %#x", v.Part, in.Name, other, in.Base)
			}
			bases[in.Base] = in.Name
			if in.Bus == NoBus {
				continue
			}
			g := gate{in.Bus, in.Bit}
			if other, ok := gates[g]; ok {
				t.Fatalf("%s: %s and %s share gate %s bit %d", v.Part, in.Name, other, in.Bus, in.Bit)
			}
			gates[g] = in.Name
		}
	}
}

func TestVariantInstanceSets(t *testing.T) {
	cases := []struct {
		v       Variant
		present []string
		absent  []string
	}{
		{L476VG, []string{"RCC", "FLASH", "GPIOH", "USART2", "LCD", "TIM17"}, []string{"GPIOF", "GPIOI", "I2C4", "CAN2"}},
		{L496AG, []string{"RCC", "GPIOF", "GPIOG", "GPIOI", "I2C4", "CAN2", "DCMI"}, []string{"LCD"}},
	}
	for _, c := range cases {
		for _, n := range c.present {
			if _, ok := c.v.Lookup(n); !ok {
				t.Fatalf("%s: missing %s", c.v.Part, n)
			}
		}
		for _, n := range c.absent {
			if _, ok := c.v.Lookup(n); ok {
				t.Fatalf("%s: unexpected %s", c.v.Part, n)
			}
		}
	}
}

func TestUSARTSelectorsDistinct(t *testing.T) {
	for _, v := range Variants() {
		seen := map[int8]string{}
		for _, in := range v.Instances {
			if in.Kind != KindUSART {
				continue
			}
			if in.Sel == NoSel {
				t.Fatalf("%s: %s has no kernel clock selector", v.Part, in.Name)
			}
			if other, ok := seen[in.Sel]; ok {
				t.Fatalf("%s: %s and %s share selector %d", v.Part, in.Name, other, in.Sel)
			}
			seen[in.Sel] = in.Name
		}
	}
}

func TestLimitsAreConsistent(t *testing.T) {
	for _, v := range Variants() {
		l := v.Limits
		if l.VCOMin >= l.VCOMax || l.PLLInMin >= l.PLLInMax || l.HSEMin >= l.HSEMax {
			t.Fatalf("%s: inverted range in %+v", v.Part, l)
		}
		if last := l.FlashWS[len(l.FlashWS)-1]; last < l.HCLKMax {
			t.Fatalf("%s: flash table stops at %d below HCLK max %d", v.Part, last, l.HCLKMax)
		}
	}
	if len(L476VG.Limits.PLLP) != 2 || len(L496AG.Limits.PLLP) != 30 {
		t.Fatal("PLLP sets differ per part")
	}
	if L476VG.PLLPDiv || !L496AG.PLLPDiv {
		t.Fatal("PLLPDIV only exists on L496AG")
	}
}

func TestByTagAndMustLookup(t *testing.T) {
	v, ok := ByTag("stm32l496ag")
	if !ok || v.Part != STM32L496AG {
		t.Fatalf("ByTag: %v %v", v.Part, ok)
	}
	if _, ok := ByTag("stm32f469"); ok {
		t.Fatal("unknown tag resolved")
	}
	if L476VG.MustLookup("USART2").Base != 0x40004400 {
		t.Fatal("USART2 base")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for missing instance")
		}
	}()
	L476VG.MustLookup("GPIOI")
}
