package message

import (
	"encoding/hex"
	"strings"
)

// Format renders bytes as hex in groups of 4 bytes, for logs.
func Format(b []byte) string {
	h := hex.EncodeToString(b)
	hlen := len(h)
	ss := make([]string, 0, (hlen/8)+1)
	for i := 0; i < hlen; i += 8 {
		hi := i + 8
		if hi > hlen {
			hi = hlen
		}
		ss = append(ss, h[i:hi])
	}
	return strings.Join(ss, " ")
}

// ParseHex accepts hex with optional whitespace, ':' or '.' separators.
func ParseHex(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ':', '.':
			return -1
		}
		return r
	}, s)
	clean = strings.TrimPrefix(strings.TrimPrefix(clean, "0x"), "0X")
	return hex.DecodeString(clean)
}
