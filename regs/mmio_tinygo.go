//go:build tinygo

package regs

import (
	"runtime/volatile"
	"unsafe"
)

// MMIO is the Bank of the running chip: every address is a volatile register.
type MMIO struct{}

// Reg implements Bank.
func (MMIO) Reg(addr uintptr) Register32 {
	return (*volatile.Register32)(unsafe.Pointer(addr))
}
