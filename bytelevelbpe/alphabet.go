package bytelevelbpe

// Byte-level alphabet: a bijection between raw byte values and printable runes, so that
// arbitrary byte sequences become printable "words" before merging. This is the GPT-2
// bytes-to-unicode scheme: printable latin bytes map to themselves, the rest are shifted
// into nearby unused code points.
//
// The tables are pure functions of the byte value, computed once at package
// initialization and shared read-only by every tokenizer instance.

var (
	byteToRune [256]rune
	runeToByte map[rune]byte
)

func init() {
	runeToByte = make(map[rune]byte, 256)
	for b := 0; b < 256; b++ {
		r := rune(b)
		switch {
		case r == 0x00ad:
			r = 0x0143
		case r <= 0x0020:
			r = r + 0x0100
		case r >= 0x007f && r <= 0x00a0:
			r = r + 0x00a2
		}
		byteToRune[b] = r
		runeToByte[r] = byte(b)
	}
}

// mapBytes remaps every byte of s through the byte-level alphabet, returning the
// printable representation.
func mapBytes(s string) string {
	runes := make([]rune, len(s))
	for ii := 0; ii < len(s); ii++ {
		runes[ii] = byteToRune[s[ii]]
	}
	return string(runes)
}

// unmapRune inverts the alphabet for a single rune. The second result is false when the
// rune is not part of the alphabet (e.g. a literal rune from an added token).
func unmapRune(r rune) (byte, bool) {
	b, ok := runeToByte[r]
	return b, ok
}
