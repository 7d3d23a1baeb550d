// Package config is the host-side description of a clock tree: a JSON
// document naming the part and the settings to hand to the rcc builder.
//
//	{"chip":"stm32l476vg","hse_hz":8000000,"sysclk":"pll",
//	 "pll":{"source":"hse","m":1,"n":20,"r":2},"apb1_div":2}
package config

import (
	"bytes"
	"encoding/json"
	"os"

	"stm32l4hal/chip"
	"stm32l4hal/errcode"
	"stm32l4hal/rcc"
)

// ClockPlan is one clock tree request. Zero values keep the builder defaults.
type ClockPlan struct {
	Chip       string  `json:"chip"`
	HSEHz      uint32  `json:"hse_hz,omitempty"`
	HSEBypass  bool    `json:"hse_bypass,omitempty"`
	LSEHz      uint32  `json:"lse_hz,omitempty"`
	LSI        bool    `json:"lsi,omitempty"`
	HSI16      bool    `json:"hsi16,omitempty"`
	MSIHz      uint32  `json:"msi_hz,omitempty"`
	SysClk     string  `json:"sysclk,omitempty"` // msi, hsi16, hse or pll
	PLL        *PLL    `json:"pll,omitempty"`
	AHBDiv     uint32  `json:"ahb_div,omitempty"`
	APB1Div    uint32  `json:"apb1_div,omitempty"`
	APB2Div    uint32  `json:"apb2_div,omitempty"`
	PollBudget *uint32 `json:"poll_budget,omitempty"`
}

// PLL mirrors rcc.PLLConfig with the source by name.
type PLL struct {
	Source string `json:"source"`
	M      uint32 `json:"m"`
	N      uint32 `json:"n"`
	R      uint32 `json:"r,omitempty"`
	Q      uint32 `json:"q,omitempty"`
	P      uint32 `json:"p,omitempty"`
}

func bad(msg string, err error) error {
	return &errcode.E{C: errcode.InvalidParams, Op: "config", Msg: msg, Err: err}
}

// Parse decodes a plan. Unknown keys and unknown parts are rejected.
func Parse(b []byte) (ClockPlan, error) {
	var p ClockPlan
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return ClockPlan{}, bad("decode: "+err.Error(), err)
	}
	if _, err := p.Variant(); err != nil {
		return ClockPlan{}, err
	}
	return p, nil
}

// Load reads and parses the plan at path.
func Load(path string) (ClockPlan, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ClockPlan{}, &errcode.E{C: errcode.Error, Op: "config", Msg: path, Err: err}
	}
	return Parse(b)
}

// Variant returns the part the plan targets.
func (p ClockPlan) Variant() (chip.Variant, error) {
	v, ok := chip.ByTag(p.Chip)
	if !ok {
		return chip.Variant{}, bad("unknown chip "+p.Chip, nil)
	}
	return v, nil
}

func source(field, name string) (rcc.Source, error) {
	s, ok := rcc.ParseSource(name)
	if !ok {
		return 0, bad(field+": unknown clock source "+name, nil)
	}
	return s, nil
}

func msiRange(hz uint32) (rcc.MSIRange, bool) {
	for r := rcc.MSI100K; r <= rcc.MSI48M; r++ {
		if r.Hz() == hz {
			return r, true
		}
	}
	return 0, false
}

// Apply feeds the plan to c. It returns the first naming error of the plan
// or the first setting c rejected.
func (p ClockPlan) Apply(c *rcc.Config) error {
	if p.HSEHz != 0 {
		if p.HSEBypass {
			c.HSEBypass(p.HSEHz)
		} else {
			c.HSE(p.HSEHz)
		}
	}
	if p.LSEHz != 0 {
		c.LSE(p.LSEHz)
	}
	if p.LSI {
		c.LSI()
	}
	if p.HSI16 {
		c.HSI16()
	}
	if p.MSIHz != 0 {
		r, ok := msiRange(p.MSIHz)
		if !ok {
			return bad("msi_hz: no MSI range runs at the requested frequency", nil)
		}
		c.MSIRange(r)
	}
	if p.PLL != nil {
		src, err := source("pll.source", p.PLL.Source)
		if err != nil {
			return err
		}
		c.PLL(rcc.PLLConfig{Source: src, M: p.PLL.M, N: p.PLL.N, R: p.PLL.R, Q: p.PLL.Q, P: p.PLL.P})
	}
	if p.SysClk != "" {
		src, err := source("sysclk", p.SysClk)
		if err != nil {
			return err
		}
		c.SysClk(src)
	}
	if p.AHBDiv != 0 {
		c.AHB(p.AHBDiv)
	}
	if p.APB1Div != 0 {
		c.APB1(p.APB1Div)
	}
	if p.APB2Div != 0 {
		c.APB2(p.APB2Div)
	}
	if p.PollBudget != nil {
		c.PollBudget(*p.PollBudget)
	}
	return c.Err()
}
