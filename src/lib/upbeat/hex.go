package upbeat

const hexDigits = "0123456789abcdef"

// AppendHex32 appends exactly 8 lowercase hex digits, most significant
// first, with no prefix.
func AppendHex32(dst []byte, d uint32) []byte {
	for rb := 32; rb > 0; {
		rb -= 4
		dst = append(dst, hexDigits[(d>>rb)&0xf])
	}
	return dst
}

// AppendHex64 is AppendHex32 for 16 digits.
func AppendHex64(dst []byte, d uint64) []byte {
	for rb := 64; rb > 0; {
		rb -= 4
		dst = append(dst, hexDigits[(d>>rb)&0xf])
	}
	return dst
}
