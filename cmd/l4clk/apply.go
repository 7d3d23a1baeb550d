package main

import (
	"flag"
	"fmt"
	"io"

	"stm32l4hal/config"
	"stm32l4hal/internal/mint"
	"stm32l4hal/periph"
	"stm32l4hal/rcc"
	"stm32l4hal/regs"
	"stm32l4hal/report"
)

// blockSize is the register window mapped for RCC and FLASH.
const blockSize = 0x400

func runApply(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	path := fs.String("config", "clocks.json", "clock plan (JSON)")
	image := fs.String("image", "l4regs.img", "register image: the RCC block followed by the FLASH block")
	reset := fs.Bool("reset", false, "load RCC reset values into the image before committing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, err := config.Load(*path)
	if err != nil {
		return err
	}
	v, err := p.Variant()
	if err != nil {
		return err
	}

	rccIn, flashIn := v.MustLookup("RCC"), v.MustLookup("FLASH")
	img, err := regs.MapImage(*image,
		regs.Window{Base: rccIn.Base, Size: blockSize},
		regs.Window{Base: flashIn.Base, Size: blockSize})
	if err != nil {
		return err
	}
	defer img.Close()
	if *reset {
		img.Reg(rccIn.Base + rcc.OffsetCR).Set(rcc.ResetCR)
		img.Reg(rccIn.Base + rcc.OffsetPLLCFGR).Set(rcc.ResetPLLCFGR)
	}

	k := mint.New()
	cfg := rcc.Constrain(rcc.Issue(k, v, img)).Config()
	if err := p.Apply(cfg); err != nil {
		return err
	}
	clk, err := cfg.Freeze(periph.Issue[periph.Flash](k, flashIn, img))
	// A failed commit may still have started oscillators.
	if ferr := img.Flush(); err == nil {
		err = ferr
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(report.Append(nil, clk)))
	return nil
}
