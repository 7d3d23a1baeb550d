package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"time"

	"stm32l4hal/config"
	"stm32l4hal/errcode"
	"stm32l4hal/report"

	"github.com/tarm/serial"
)

func runVerify(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	path := fs.String("config", "clocks.json", "clock plan (JSON)")
	port := fs.String("port", "/dev/ttyACM0", "serial port of the board")
	baud := fs.Int("baud", 115200, "baud rate")
	wait := fs.Duration("timeout", 10*time.Second, "how long to wait for the boot report")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, err := config.Load(*path)
	if err != nil {
		return err
	}
	want, err := expect(p)
	if err != nil {
		return err
	}

	s, err := serial.OpenPort(&serial.Config{
		Name:        *port,
		Baud:        *baud,
		ReadTimeout: 200 * time.Millisecond,
	})
	if err != nil {
		return err
	}
	defer s.Close()
	fmt.Fprintf(out, "waiting for clock report on %s at %d baud\n", *port, *baud)

	got, err := awaitReport(s, *wait)
	if err != nil {
		return err
	}
	if err := report.Compare(want, got); err != nil {
		return err
	}
	fmt.Fprintln(out, "board matches plan:", got.Source, got.SysClk, "Hz")
	return nil
}

// awaitReport reads r until a clock report line arrives or wait elapses.
// Other lines, such as boot logs, are skipped. A read that returns no data
// with io.EOF is treated as a serial read timeout.
func awaitReport(r io.Reader, wait time.Duration) (report.Summary, error) {
	deadline := time.Now().Add(wait)
	var pending []byte
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		pending = append(pending, buf[:n]...)
		for {
			i := bytes.IndexByte(pending, '\n')
			if i < 0 {
				break
			}
			line := pending[:i]
			pending = pending[i+1:]
			if s, perr := report.Parse(line); perr == nil {
				return s, nil
			}
		}
		if err != nil && err != io.EOF {
			return report.Summary{}, err
		}
		if !time.Now().Before(deadline) {
			return report.Summary{}, &errcode.E{C: errcode.Timeout, Op: "verify", Msg: "no clock report within " + wait.String()}
		}
		if n == 0 {
			time.Sleep(10 * time.Millisecond)
		}
	}
}
