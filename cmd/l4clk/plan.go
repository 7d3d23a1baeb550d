package main

import (
	"flag"
	"fmt"
	"io"

	"stm32l4hal/config"
	"stm32l4hal/report"
)

func runPlan(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	path := fs.String("config", "clocks.json", "clock plan (JSON)")
	trace := fs.Bool("trace", false, "print the register writes of the commit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, err := config.Load(*path)
	if err != nil {
		return err
	}
	sim, clk, err := simulate(p)
	if *trace && sim != nil {
		for _, l := range sim.Trace() {
			fmt.Fprintln(out, l)
		}
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(report.Append(nil, clk)))
	return nil
}
