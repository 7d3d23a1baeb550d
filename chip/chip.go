// Package chip holds the per-part data the ownership and clock layers are
// parameterised on: which peripheral instances exist, where they live, which
// clock-gate bit feeds them, and the datasheet frequency limits.
//
// Both tables are always compiled so tools can reason about any part. The
// firmware picks one through Selected, which only exists when exactly one of
// the build tags stm32l476vg or stm32l496ag is set.
package chip

// Part is the ST order code of a supported device.
type Part string

const (
	STM32L476VG Part = "STM32L476VG"
	STM32L496AG Part = "STM32L496AG"
)

// Kind classifies a peripheral instance. The device split checks it against
// the token type it issues for each name.
type Kind uint8

const (
	KindBlock Kind = iota // anything without a dedicated token type
	KindRCC
	KindFlash
	KindGPIO
	KindUSART
	KindSPI
	KindI2C
	KindTimer
	KindDMA
)

// Bus names the clock-gate register pair (xxxENR / xxxRSTR) of an instance.
type Bus uint8

const (
	NoBus Bus = iota // always clocked, no gate
	AHB1
	AHB2
	AHB3
	APB1R1
	APB1R2
	APB2
)

func (b Bus) String() string {
	switch b {
	case AHB1:
		return "AHB1"
	case AHB2:
		return "AHB2"
	case AHB3:
		return "AHB3"
	case APB1R1:
		return "APB1R1"
	case APB1R2:
		return "APB1R2"
	case APB2:
		return "APB2"
	}
	return "none"
}

// NoSel marks an instance without a kernel clock selector in RCC_CCIPR.
const NoSel = -1

// Instance describes one hardware block.
type Instance struct {
	Name string
	Kind Kind
	Base uintptr
	Bus  Bus
	Bit  uint8 // enable/reset bit inside the Bus registers
	Sel  int8  // RCC_CCIPR kernel clock selector position, or NoSel
}

// Limits are the numeric bounds the clock tree is validated against.
// All frequencies are in hertz.
type Limits struct {
	SYSCLKMax uint32
	HCLKMax   uint32
	PCLK1Max  uint32
	PCLK2Max  uint32

	HSEMin, HSEMax uint32

	// PLL input after the M divider, and the VCO output.
	PLLInMin, PLLInMax uint32
	VCOMin, VCOMax     uint32

	PLLMMin, PLLMMax uint32
	PLLNMin, PLLNMax uint32

	PLLR    []uint32 // legal SYSCLK output dividers
	PLLQ    []uint32 // legal 48 MHz domain dividers
	PLLP    []uint32 // legal SAI dividers
	PLLRMax uint32
	PLLQMax uint32
	PLLPMax uint32

	// FlashWS[n] is the highest HCLK allowed with n flash wait states.
	FlashWS []uint32
}

// Variant is everything part-specific.
type Variant struct {
	Part   Part
	Tag    string // build tag selecting the part
	Limits Limits
	// PLLPDiv is set on parts with the 5-bit PLLPDIV field in RCC_PLLCFGR.
	PLLPDiv   bool
	Instances []Instance
}

// Lookup finds an instance by name.
func (v Variant) Lookup(name string) (Instance, bool) {
	for _, in := range v.Instances {
		if in.Name == name {
			return in, true
		}
	}
	return Instance{}, false
}

// MustLookup is Lookup for names the tables are known to contain.
func (v Variant) MustLookup(name string) Instance {
	in, ok := v.Lookup(name)
	if !ok {
		panic("chip: " + string(v.Part) + " has no instance " + name)
	}
	return in
}

// Variants lists every supported part.
func Variants() []Variant { return []Variant{L476VG, L496AG} }

// ByTag returns the part selected by a build tag name such as "stm32l476vg".
func ByTag(tag string) (Variant, bool) {
	for _, v := range Variants() {
		if v.Tag == tag {
			return v, true
		}
	}
	return Variant{}, false
}
