// Command l4clk works with clock plans from the host.
//
//	l4clk plan   -config clocks.json [-trace]
//	l4clk apply  -config clocks.json -image regs.img [-reset]
//	l4clk verify -config clocks.json -port /dev/ttyACM0 [-baud 115200]
//
// plan runs the commit against the simulated RCC and prints the resulting
// report line. apply commits into a register image file shared with an
// external simulator. verify waits for the board's boot report and checks it
// against the plan.
package main

import (
	"fmt"
	"io"
	"os"

	"stm32l4hal/config"
	"stm32l4hal/errcode"
	"stm32l4hal/rcc"
	"stm32l4hal/rcc/rccsim"
	"stm32l4hal/report"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: l4clk plan|apply|verify -config FILE [flags]")
	fmt.Fprintln(w, "run 'l4clk <command> -h' for the flags of a command")
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "plan":
		err = runPlan(os.Args[2:], os.Stdout)
	case "apply":
		err = runApply(os.Args[2:], os.Stdout)
	case "verify":
		err = runVerify(os.Args[2:], os.Stdout)
	case "help", "-h", "--help":
		usage(os.Stdout)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "[l4clk] %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

// simulate commits p against a fresh simulated RCC.
func simulate(p config.ClockPlan) (*rccsim.Sim, rcc.Clocks, error) {
	v, err := p.Variant()
	if err != nil {
		return nil, rcc.Clocks{}, err
	}
	sim := rccsim.New(v)
	cfg := rcc.Constrain(sim.RCC).Config()
	if err := p.Apply(cfg); err != nil {
		return sim, rcc.Clocks{}, err
	}
	clk, err := cfg.Freeze(sim.Flash)
	return sim, clk, err
}

// expect returns the report a board running p should print.
func expect(p config.ClockPlan) (report.Summary, error) {
	_, clk, err := simulate(p)
	if err != nil {
		return report.Summary{}, &errcode.E{C: errcode.Of(err), Op: "plan", Msg: "plan does not commit", Err: err}
	}
	return report.From(clk), nil
}
