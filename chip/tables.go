package chip

const mhz = 1_000_000

// Voltage range 1 limits, shared by the STM32L4x6 line (RM0351 §6.2, DS10198, DS11585).
func l4Limits() Limits {
	return Limits{
		SYSCLKMax: 80 * mhz,
		HCLKMax:   80 * mhz,
		PCLK1Max:  80 * mhz,
		PCLK2Max:  80 * mhz,

		HSEMin: 4 * mhz,
		HSEMax: 48 * mhz,

		PLLInMin: 4 * mhz,
		PLLInMax: 16 * mhz,
		VCOMin:   64 * mhz,
		VCOMax:   344 * mhz,

		PLLMMin: 1,
		PLLMMax: 8,
		PLLNMin: 8,
		PLLNMax: 86,

		PLLR:    []uint32{2, 4, 6, 8},
		PLLQ:    []uint32{2, 4, 6, 8},
		PLLP:    []uint32{7, 17},
		PLLRMax: 80 * mhz,
		PLLQMax: 80 * mhz,
		PLLPMax: 80 * mhz,

		FlashWS: []uint32{16 * mhz, 32 * mhz, 48 * mhz, 64 * mhz, 80 * mhz},
	}
}

// Instances present on every STM32L4x6 package this module supports.
func l4Common() []Instance {
	return []Instance{
		{Name: "RCC", Kind: KindRCC, Base: 0x40021000, Sel: NoSel},
		{Name: "FLASH", Kind: KindFlash, Base: 0x40022000, Bus: AHB1, Bit: 8, Sel: NoSel},
		{Name: "PWR", Base: 0x40007000, Bus: APB1R1, Bit: 28, Sel: NoSel},
		{Name: "SYSCFG", Base: 0x40010000, Bus: APB2, Bit: 0, Sel: NoSel},
		{Name: "CRC", Base: 0x40023000, Bus: AHB1, Bit: 12, Sel: NoSel},
		{Name: "RNG", Base: 0x50060800, Bus: AHB2, Bit: 18, Sel: NoSel},
		{Name: "ADC", Base: 0x50040000, Bus: AHB2, Bit: 13, Sel: NoSel},
		{Name: "CAN1", Base: 0x40006400, Bus: APB1R1, Bit: 25, Sel: NoSel},

		{Name: "DMA1", Kind: KindDMA, Base: 0x40020000, Bus: AHB1, Bit: 0, Sel: NoSel},
		{Name: "DMA2", Kind: KindDMA, Base: 0x40020400, Bus: AHB1, Bit: 1, Sel: NoSel},

		{Name: "GPIOA", Kind: KindGPIO, Base: 0x48000000, Bus: AHB2, Bit: 0, Sel: NoSel},
		{Name: "GPIOB", Kind: KindGPIO, Base: 0x48000400, Bus: AHB2, Bit: 1, Sel: NoSel},
		{Name: "GPIOC", Kind: KindGPIO, Base: 0x48000800, Bus: AHB2, Bit: 2, Sel: NoSel},
		{Name: "GPIOD", Kind: KindGPIO, Base: 0x48000C00, Bus: AHB2, Bit: 3, Sel: NoSel},
		{Name: "GPIOE", Kind: KindGPIO, Base: 0x48001000, Bus: AHB2, Bit: 4, Sel: NoSel},
		{Name: "GPIOH", Kind: KindGPIO, Base: 0x48001C00, Bus: AHB2, Bit: 7, Sel: NoSel},

		{Name: "USART1", Kind: KindUSART, Base: 0x40013800, Bus: APB2, Bit: 14, Sel: 0},
		{Name: "USART2", Kind: KindUSART, Base: 0x40004400, Bus: APB1R1, Bit: 17, Sel: 2},
		{Name: "USART3", Kind: KindUSART, Base: 0x40004800, Bus: APB1R1, Bit: 18, Sel: 4},
		{Name: "UART4", Kind: KindUSART, Base: 0x40004C00, Bus: APB1R1, Bit: 19, Sel: 6},
		{Name: "UART5", Kind: KindUSART, Base: 0x40005000, Bus: APB1R1, Bit: 20, Sel: 8},
		{Name: "LPUART1", Kind: KindUSART, Base: 0x40008000, Bus: APB1R2, Bit: 0, Sel: 10},

		{Name: "SPI1", Kind: KindSPI, Base: 0x40013000, Bus: APB2, Bit: 12, Sel: NoSel},
		{Name: "SPI2", Kind: KindSPI, Base: 0x40003800, Bus: APB1R1, Bit: 14, Sel: NoSel},
		{Name: "SPI3", Kind: KindSPI, Base: 0x40003C00, Bus: APB1R1, Bit: 15, Sel: NoSel},

		{Name: "I2C1", Kind: KindI2C, Base: 0x40005400, Bus: APB1R1, Bit: 21, Sel: NoSel},
		{Name: "I2C2", Kind: KindI2C, Base: 0x40005800, Bus: APB1R1, Bit: 22, Sel: NoSel},
		{Name: "I2C3", Kind: KindI2C, Base: 0x40005C00, Bus: APB1R1, Bit: 23, Sel: NoSel},

		{Name: "TIM1", Kind: KindTimer, Base: 0x40012C00, Bus: APB2, Bit: 11, Sel: NoSel},
		{Name: "TIM2", Kind: KindTimer, Base: 0x40000000, Bus: APB1R1, Bit: 0, Sel: NoSel},
		{Name: "TIM3", Kind: KindTimer, Base: 0x40000400, Bus: APB1R1, Bit: 1, Sel: NoSel},
		{Name: "TIM4", Kind: KindTimer, Base: 0x40000800, Bus: APB1R1, Bit: 2, Sel: NoSel},
		{Name: "TIM5", Kind: KindTimer, Base: 0x40000C00, Bus: APB1R1, Bit: 3, Sel: NoSel},
		{Name: "TIM6", Kind: KindTimer, Base: 0x40001000, Bus: APB1R1, Bit: 4, Sel: NoSel},
		{Name: "TIM7", Kind: KindTimer, Base: 0x40001400, Bus: APB1R1, Bit: 5, Sel: NoSel},
		{Name: "TIM8", Kind: KindTimer, Base: 0x40013400, Bus: APB2, Bit: 13, Sel: NoSel},
		{Name: "TIM15", Kind: KindTimer, Base: 0x40014000, Bus: APB2, Bit: 16, Sel: NoSel},
		{Name: "TIM16", Kind: KindTimer, Base: 0x40014400, Bus: APB2, Bit: 17, Sel: NoSel},
		{Name: "TIM17", Kind: KindTimer, Base: 0x40014800, Bus: APB2, Bit: 18, Sel: NoSel},
	}
}

// L476VG is the STM32L476VG (LQFP100): ports A-E and H, segment LCD.
var L476VG = Variant{
	Part:   STM32L476VG,
	Tag:    "stm32l476vg",
	Limits: l4Limits(),
	Instances: append(l4Common(),
		Instance{Name: "LCD", Base: 0x40002400, Bus: APB1R1, Bit: 9, Sel: NoSel},
	),
}

// L496AG is the STM32L496AG (UFBGA169): ports A-I, a second CAN and I2C4,
// the camera interface and Chrom-ART; no LCD. Its PLL has the PLLPDIV field.
var L496AG = Variant{
	Part:    STM32L496AG,
	Tag:     "stm32l496ag",
	Limits:  l496Limits(),
	PLLPDiv: true,
	Instances: append(l4Common(),
		Instance{Name: "GPIOF", Kind: KindGPIO, Base: 0x48001400, Bus: AHB2, Bit: 5, Sel: NoSel},
		Instance{Name: "GPIOG", Kind: KindGPIO, Base: 0x48001800, Bus: AHB2, Bit: 6, Sel: NoSel},
		Instance{Name: "GPIOI", Kind: KindGPIO, Base: 0x48002000, Bus: AHB2, Bit: 8, Sel: NoSel},
		Instance{Name: "I2C4", Kind: KindI2C, Base: 0x40008400, Bus: APB1R2, Bit: 1, Sel: NoSel},
		Instance{Name: "CAN2", Base: 0x40006800, Bus: APB1R1, Bit: 26, Sel: NoSel},
		Instance{Name: "DCMI", Base: 0x50050000, Bus: AHB2, Bit: 14, Sel: NoSel},
		Instance{Name: "DMA2D", Base: 0x4002B000, Bus: AHB1, Bit: 17, Sel: NoSel},
	),
}

func l496Limits() Limits {
	l := l4Limits()
	l.PLLP = make([]uint32, 0, 30)
	for p := uint32(2); p <= 31; p++ {
		l.PLLP = append(l.PLLP, p)
	}
	return l
}
