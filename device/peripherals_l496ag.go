//go:build stm32l496ag

package device

import (
	"stm32l4hal/chip"
	"stm32l4hal/internal/mint"
	"stm32l4hal/periph"
	"stm32l4hal/rcc"
	"stm32l4hal/regs"
)

// Peripherals are the STM32L496AG tokens, one per instance.
type Peripherals struct {
	RCC   *rcc.RCC
	FLASH *periph.Flash

	PWR, SYSCFG, CRC, RNG, ADC, CAN1, CAN2, DCMI, DMA2D *periph.Block

	DMA1, DMA2 *periph.DMA

	GPIOA, GPIOB, GPIOC, GPIOD, GPIOE, GPIOF, GPIOG, GPIOH, GPIOI *periph.GPIO

	USART1, USART2, USART3, UART4, UART5, LPUART1 *periph.USART

	SPI1, SPI2, SPI3 *periph.SPI

	I2C1, I2C2, I2C3, I2C4 *periph.I2C

	TIM1, TIM2, TIM3, TIM4, TIM5, TIM6, TIM7, TIM8, TIM15, TIM16, TIM17 *periph.Timer
}

func split(k mint.Key, v chip.Variant, bank regs.Bank) Peripherals {
	is := issuer{k: k, v: v, bank: bank}
	return Peripherals{
		RCC:   rcc.Issue(k, v, bank),
		FLASH: periph.Issue[periph.Flash](k, is.lookup("FLASH", chip.KindFlash), bank),

		PWR: is.block("PWR"), SYSCFG: is.block("SYSCFG"), CRC: is.block("CRC"),
		RNG: is.block("RNG"), ADC: is.block("ADC"), CAN1: is.block("CAN1"), CAN2: is.block("CAN2"),
		DCMI: is.block("DCMI"), DMA2D: is.block("DMA2D"),

		DMA1: is.dma("DMA1"), DMA2: is.dma("DMA2"),

		GPIOA: is.gpio("GPIOA"), GPIOB: is.gpio("GPIOB"), GPIOC: is.gpio("GPIOC"),
		GPIOD: is.gpio("GPIOD"), GPIOE: is.gpio("GPIOE"), GPIOF: is.gpio("GPIOF"),
		GPIOG: is.gpio("GPIOG"), GPIOH: is.gpio("GPIOH"), GPIOI: is.gpio("GPIOI"),

		USART1: is.usart("USART1"), USART2: is.usart("USART2"), USART3: is.usart("USART3"),
		UART4: is.usart("UART4"), UART5: is.usart("UART5"), LPUART1: is.usart("LPUART1"),

		SPI1: is.spi("SPI1"), SPI2: is.spi("SPI2"), SPI3: is.spi("SPI3"),

		I2C1: is.i2c("I2C1"), I2C2: is.i2c("I2C2"), I2C3: is.i2c("I2C3"), I2C4: is.i2c("I2C4"),

		TIM1: is.timer("TIM1"), TIM2: is.timer("TIM2"), TIM3: is.timer("TIM3"), TIM4: is.timer("TIM4"),
		TIM5: is.timer("TIM5"), TIM6: is.timer("TIM6"), TIM7: is.timer("TIM7"), TIM8: is.timer("TIM8"),
		TIM15: is.timer("TIM15"), TIM16: is.timer("TIM16"), TIM17: is.timer("TIM17"),
	}
}
