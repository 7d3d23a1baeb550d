package conv

// AppendUint appends the base-10 representation of n to dst.
// No allocations beyond dst growth; no fmt/strconv dependency.
func AppendUint(dst []byte, n uint64) []byte {
	var buf [20]byte
	i := len(buf)
	if n == 0 {
		i--
		buf[i] = '0'
	}
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return append(dst, buf[i:]...)
}

// Utoa returns n in base 10.
func Utoa(n uint64) string { return string(AppendUint(nil, n)) }

// ParseUint parses an unsigned base-10 number that fits in 32 bits.
// Empty input, non-digits and overflow report false.
func ParseUint(b []byte) (uint32, bool) {
	if len(b) == 0 {
		return 0, false
	}
	var n uint64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + uint64(c-'0')
		if n > 0xFFFFFFFF {
			return 0, false
		}
	}
	return uint32(n), true
}
