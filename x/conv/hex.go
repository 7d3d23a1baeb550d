package conv

const hexd = "0123456789ABCDEF"

// AppendHex32 appends "0x" and 8 uppercase, zero-padded hex digits.
func AppendHex32(dst []byte, n uint32) []byte {
	dst = append(dst, '0', 'x')
	for shift := 28; shift >= 0; shift -= 4 {
		dst = append(dst, hexd[(n>>uint(shift))&0xF])
	}
	return dst
}

// Hex32 returns n as "0x" followed by 8 hex digits.
func Hex32(n uint32) string { return string(AppendHex32(nil, n)) }
