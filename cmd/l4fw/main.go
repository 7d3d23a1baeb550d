//go:build tinygo && (stm32l476vg || stm32l496ag)

// Command l4fw brings up the clock tree at boot and prints the frozen
// clocks on USART2, where l4clk verify listens for them.
package main

import (
	"machine"
	"time"

	"stm32l4hal/device"
	"stm32l4hal/periph"
	"stm32l4hal/rcc"
	"stm32l4hal/report"
)

const baud = 115200

// USART register offsets and bits used to retune the baud rate.
const (
	usartCR1 = 0x00
	usartBRR = 0x0C
	cr1UE    = 1 << 0
)

func halt(msg string, err error) {
	println("[main]", msg, err.Error())
	for {
		time.Sleep(time.Second)
	}
}

// freeze tries the 80 MHz HSE/PLL tree first and falls back to HSI16
// when the crystal does not start.
func freeze(parts rcc.Parts, flash *periph.Flash) (rcc.Clocks, error) {
	clk, err := parts.Config().
		HSE(8*rcc.MHz).
		PLL(rcc.PLLConfig{Source: rcc.HSE, M: 1, N: 20, R: 2, Q: 4}).
		SysClk(rcc.PLL).
		APB1(2).
		Freeze(flash)
	if err == nil {
		return clk, nil
	}
	println("[main] HSE/PLL tree failed:", err.Error(), "falling back to HSI16")
	return parts.Config().SysClk(rcc.HSI16).Freeze(flash)
}

// retune reprograms BRR for the kernel clock actually running. The
// machine package computes it from the clock the runtime configured.
func retune(u *periph.USART, kernel uint32) {
	cr1 := u.Reg(usartCR1)
	cr1.Set(cr1.Get() &^ cr1UE)
	u.Reg(usartBRR).Set((kernel + baud/2) / baud)
	cr1.Set(cr1.Get() | cr1UE)
}

func main() {
	time.Sleep(500 * time.Millisecond)
	println("[main] boot")

	d, ok := device.Take()
	if !ok {
		println("[main] device already taken")
		return
	}
	p := d.Split()
	parts := rcc.Constrain(p.RCC)

	clk, err := freeze(parts, p.FLASH)
	if err != nil {
		halt("clock bring-up failed:", err)
	}

	if err := parts.APB1R1.Enable(p.USART2); err != nil {
		halt("USART2 clock:", err)
	}
	kernel, err := parts.CCIPR.SelectUSART(p.USART2, rcc.KernelPCLK, clk)
	if err != nil {
		halt("USART2 kernel clock:", err)
	}
	machine.DefaultUART.Configure(machine.UARTConfig{BaudRate: baud})
	retune(p.USART2, kernel)

	for {
		if err := report.Write(machine.DefaultUART, clk); err != nil {
			println("[main] report:", err.Error())
		}
		time.Sleep(2 * time.Second)
	}
}
