package utils

import (
	"github.com/google/uuid"
)

// ShortCodeAlphabet omits characters that are easy to misread (0/O, 1/I/L)
const ShortCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// ShortCodeLength is the length of generated share codes
const ShortCodeLength = 8

// GenerateShortCode creates a human-shareable code of ShortCodeLength characters.
// Format: 8 characters from ShortCodeAlphabet, e.g. "K7QMW2XA".
//
// Characters come from the low 5 bits of the last 8 bytes of a random (v4) UUID.
// Those bits never carry version or variant markers.
func GenerateShortCode() string {
	id := uuid.New()
	out := make([]byte, ShortCodeLength)
	for i := range out {
		out[i] = ShortCodeAlphabet[int(id[8+i])%len(ShortCodeAlphabet)]
	}
	return string(out)
}

// IsShortCode reports whether s has the shape of a generated code
func IsShortCode(s string) bool {
	if len(s) != ShortCodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !containsByte(ShortCodeAlphabet, s[i]) {
			return false
		}
	}
	return true
}

func containsByte(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}
