package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"stm32l4hal/chip"
	"stm32l4hal/errcode"
	"stm32l4hal/rcc"
	"stm32l4hal/rcc/rccsim"
)

const sample = `{"chip":"stm32l476vg","hse_hz":8000000,"sysclk":"pll",
 "pll":{"source":"hse","m":1,"n":20,"r":2,"q":4},
 "ahb_div":1,"apb1_div":2,"apb2_div":1,"poll_budget":1280}`

func TestParseAndApply(t *testing.T) {
	p, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	v, err := p.Variant()
	if err != nil || v.Part != chip.STM32L476VG {
		t.Fatalf("Variant: %v %v", v.Part, err)
	}

	sim := rccsim.New(v)
	cfg := rcc.Constrain(sim.RCC).Config()
	if err := p.Apply(cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	clk, err := cfg.Freeze(sim.Flash)
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	if clk.SysClk() != 80_000_000 || clk.PCLK1() != 40_000_000 || clk.PLLQ() != 40_000_000 {
		t.Fatalf("sysclk %d pclk1 %d pllq %d", clk.SysClk(), clk.PCLK1(), clk.PLLQ())
	}
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown chip":  `{"chip":"stm32f469"}`,
		"unknown field": `{"chip":"stm32l476vg","hse":8000000}`,
		"not json":      `chip=stm32l476vg`,
		"wrong type":    `{"chip":"stm32l476vg","hse_hz":"8MHz"}`,
	}
	for name, in := range cases {
		if _, err := Parse([]byte(in)); errcode.Of(err) != errcode.InvalidParams {
			t.Fatalf("%s: err = %v", name, err)
		}
	}
}

func TestApplyRejects(t *testing.T) {
	cases := map[string]struct {
		plan  ClockPlan
		field string
	}{
		"sysclk name":  {ClockPlan{Chip: "stm32l476vg", SysClk: "crystal"}, ""},
		"pll source":   {ClockPlan{Chip: "stm32l476vg", PLL: &PLL{Source: "lsi2", M: 1, N: 20}}, ""},
		"msi hz":       {ClockPlan{Chip: "stm32l476vg", MSIHz: 5_000_000}, ""},
		"apb1 divider": {ClockPlan{Chip: "stm32l476vg", APB1Div: 3}, "APB1 prescaler"},
		"hse range":    {ClockPlan{Chip: "stm32l476vg", HSEHz: 1_000_000, HSEBypass: true}, "HSE frequency"},
	}
	for name, tc := range cases {
		sim := rccsim.New(chip.L476VG)
		err := tc.plan.Apply(rcc.Constrain(sim.RCC).Config())
		if tc.field == "" {
			if errcode.Of(err) != errcode.InvalidParams {
				t.Fatalf("%s: err = %v", name, err)
			}
			continue
		}
		var ce *rcc.ConfigError
		if !errors.As(err, &ce) || ce.Field != tc.field {
			t.Fatalf("%s: err = %v", name, err)
		}
	}
}

func TestApplyOptionalSources(t *testing.T) {
	budget := uint32(0)
	p := ClockPlan{Chip: "stm32l496ag", MSIHz: 24_000_000, SysClk: "MSI", LSI: true, HSI16: true, PollBudget: &budget}
	sim := rccsim.New(chip.L496AG)
	cfg := rcc.Constrain(sim.RCC).Config()
	if err := p.Apply(cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// A zero poll budget cannot observe any oscillator.
	_, err := cfg.Freeze(sim.Flash)
	var te *rcc.StartupTimeoutError
	if !errors.As(err, &te) || te.Polls != 0 {
		t.Fatalf("Freeze: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clocks.json")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil || p.PLL == nil || p.PLL.N != 20 || *p.PollBudget != 1280 {
		t.Fatalf("Load: %+v %v", p, err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("missing file loaded")
	}
}
