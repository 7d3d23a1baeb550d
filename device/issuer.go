//go:build stm32l476vg || stm32l496ag

package device

import (
	"stm32l4hal/chip"
	"stm32l4hal/internal/mint"
	"stm32l4hal/periph"
	"stm32l4hal/regs"
)

// issuer mints the tokens of one split. Names come from the chip tables; a
// name missing from the selected part, or of another kind, panics at split
// time.
type issuer struct {
	k    mint.Key
	v    chip.Variant
	bank regs.Bank
}

func (is issuer) lookup(name string, k chip.Kind) chip.Instance {
	in := is.v.MustLookup(name)
	if in.Kind != k {
		panic("device: " + name + " is not of the requested token kind")
	}
	return in
}

func (is issuer) block(name string) *periph.Block {
	return periph.Issue[periph.Block](is.k, is.lookup(name, chip.KindBlock), is.bank)
}

func (is issuer) dma(name string) *periph.DMA {
	return periph.Issue[periph.DMA](is.k, is.lookup(name, chip.KindDMA), is.bank)
}

func (is issuer) gpio(name string) *periph.GPIO {
	return periph.Issue[periph.GPIO](is.k, is.lookup(name, chip.KindGPIO), is.bank)
}

func (is issuer) usart(name string) *periph.USART {
	return periph.Issue[periph.USART](is.k, is.lookup(name, chip.KindUSART), is.bank)
}

func (is issuer) spi(name string) *periph.SPI {
	return periph.Issue[periph.SPI](is.k, is.lookup(name, chip.KindSPI), is.bank)
}

func (is issuer) i2c(name string) *periph.I2C {
	return periph.Issue[periph.I2C](is.k, is.lookup(name, chip.KindI2C), is.bank)
}

func (is issuer) timer(name string) *periph.Timer {
	return periph.Issue[periph.Timer](is.k, is.lookup(name, chip.KindTimer), is.bank)
}
