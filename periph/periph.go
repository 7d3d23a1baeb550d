// Package periph defines the peripheral tokens: move-only values that stand
// for exclusive ownership of one hardware block's registers.
//
// Tokens are issued once, by the device split. Outside this module they can
// only be received, never constructed: issuing needs a key from an internal
// package. A zero value declared by hand is unbound and panics on use.
// Tokens carry a noCopy marker so `go vet` reports code that duplicates one
// by value; hand them around as pointers and stop using a pointer once it
// has been passed to a driver.
package periph

import (
	"stm32l4hal/chip"
	"stm32l4hal/internal/mint"
	"stm32l4hal/regs"
)

// noCopy is recognised by the copylocks vet check.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Peripheral is implemented by every token.
type Peripheral interface {
	Instance() chip.Instance
}

// Token is the common part of every peripheral token.
type Token struct {
	_    noCopy
	inst chip.Instance
	bank regs.Bank
}

func (t *Token) bind(inst chip.Instance, bank regs.Bank) {
	t.inst = inst
	t.bank = bank
}

func (t *Token) mustBound() {
	if t.bank == nil {
		panic("periph: unbound token")
	}
}

// Instance returns the table entry the token was issued for.
func (t *Token) Instance() chip.Instance {
	t.mustBound()
	return t.inst
}

// Name is the instance name, e.g. "USART2".
func (t *Token) Name() string { return t.Instance().Name }

// Reg returns the register at offset from the instance base.
func (t *Token) Reg(offset uintptr) regs.Register32 {
	t.mustBound()
	return t.bank.Reg(t.inst.Base + offset)
}

// Token kinds. Distinct types keep a GPIO port from being passed where a
// USART is expected.
type (
	GPIO  struct{ Token }
	USART struct{ Token }
	SPI   struct{ Token }
	I2C   struct{ Token }
	Timer struct{ Token }
	DMA   struct{ Token }
	Flash struct{ Token }
	Block struct{ Token }
)

type binder[T any] interface {
	*T
	bind(inst chip.Instance, bank regs.Bank)
}

// Issue constructs the token for inst. Only holders of a mint.Key can call it.
func Issue[T any, P binder[T]](_ mint.Key, inst chip.Instance, bank regs.Bank) *T {
	t := new(T)
	P(t).bind(inst, bank)
	return t
}

// Bind initialises a Token embedded in a token type defined by another
// package of this module (the RCC token lives with the clock code).
func Bind(_ mint.Key, t *Token, inst chip.Instance, bank regs.Bank) {
	t.bind(inst, bank)
}
