package rcc

import (
	"stm32l4hal/chip"
	"stm32l4hal/errcode"
	"stm32l4hal/periph"
	"stm32l4hal/regs"
)

// KernelClock is the clock a USART or LPUART shifts bits with.
type KernelClock uint8

const (
	KernelPCLK KernelClock = iota
	KernelSYSCLK
	KernelHSI16
	KernelLSE
)

func (k KernelClock) String() string {
	switch k {
	case KernelPCLK:
		return "PCLK"
	case KernelSYSCLK:
		return "SYSCLK"
	case KernelHSI16:
		return "HSI16"
	case KernelLSE:
		return "LSE"
	}
	return "unknown"
}

// CCIPR owns the peripheral kernel clock selection register.
type CCIPR struct {
	reg regs.Register32
}

// SelectUSART routes k to the USART behind u and returns the resulting
// kernel clock frequency, which is what the baud-rate divisor divides.
// A source that is not running in clocks is rejected without writing.
func (c *CCIPR) SelectUSART(u *periph.USART, k KernelClock, clocks Clocks) (uint32, error) {
	in := u.Instance()
	if in.Sel == chip.NoSel {
		return 0, errcode.Unsupported
	}
	var hz uint32
	switch k {
	case KernelPCLK:
		hz = clocks.PCLK1()
		if in.Bus == chip.APB2 {
			hz = clocks.PCLK2()
		}
	case KernelSYSCLK:
		hz = clocks.SysClk()
	case KernelHSI16:
		hz = clocks.HSI16()
	case KernelLSE:
		hz = clocks.LSE()
	default:
		return 0, invalid(in.Name+" kernel clock", "unknown selection")
	}
	if hz == 0 {
		return 0, invalid(in.Name+" kernel clock", k.String()+" is not running")
	}
	regs.ReplaceBits(c.reg, uint32(k), 0b11, uint8(in.Sel))
	return hz, nil
}
