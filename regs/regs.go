// Package regs is the register access surface the ownership and clock layers
// sit on. It knows nothing about what the bits mean; callers bring offsets,
// masks and field layouts from the chip tables.
//
// Access through a Bank is not synchronised. Exclusivity comes from the
// peripheral tokens that hand a register block to a single owner.
package regs

// Register32 is one memory-mapped 32-bit register.
// *volatile.Register32 from TinyGo satisfies it.
type Register32 interface {
	Get() uint32
	Set(value uint32)
}

// Bank resolves absolute peripheral addresses to registers.
type Bank interface {
	Reg(addr uintptr) Register32
}

// SetBits sets the given bits with a read/modify/write.
func SetBits(r Register32, bits uint32) { r.Set(r.Get() | bits) }

// ClearBits clears the given bits with a read/modify/write.
func ClearBits(r Register32, bits uint32) { r.Set(r.Get() &^ bits) }

// HasBits reports whether any of the given bits is set.
func HasBits(r Register32, bits uint32) bool { return r.Get()&bits != 0 }

// ReplaceBits replaces mask<<pos with value<<pos in one read/modify/write.
func ReplaceBits(r Register32, value, mask uint32, pos uint8) {
	r.Set(r.Get()&^(mask<<pos) | (value&mask)<<pos)
}

// Field is a multi-bit field inside a register.
type Field struct {
	Pos   uint8
	Width uint8
}

// Mask returns the in-place mask of the field.
func (f Field) Mask() uint32 {
	if f.Width >= 32 {
		return ^uint32(0)
	}
	return (uint32(1)<<f.Width - 1) << f.Pos
}

// Bits encodes v into the field position, dropping bits that do not fit.
func (f Field) Bits(v uint32) uint32 { return v << f.Pos & f.Mask() }

// Extract decodes the field from a raw register value.
func (f Field) Extract(raw uint32) uint32 { return raw & f.Mask() >> f.Pos }

// Get reads the register and decodes the field.
func (f Field) Get(r Register32) uint32 { return f.Extract(r.Get()) }

// Set writes v into the field, leaving the other bits of r unchanged.
func (f Field) Set(r Register32, v uint32) {
	r.Set(r.Get()&^f.Mask() | f.Bits(v))
}
