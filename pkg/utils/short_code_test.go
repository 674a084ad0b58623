package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateShortCode_UsesAlphabet(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := GenerateShortCode()
		assert.Len(t, code, ShortCodeLength)
		assert.True(t, IsShortCode(code), "generated code %q", code)
	}
}

func TestGenerateShortCode_IsRandom(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		seen[GenerateShortCode()] = struct{}{}
	}
	assert.Greater(t, len(seen), 495)
}

func TestIsShortCode(t *testing.T) {
	assert.True(t, IsShortCode("ABCD2345"))
	assert.False(t, IsShortCode("ABCD234"), "too short")
	assert.False(t, IsShortCode("ABCD2340"), "zero is excluded")
	assert.False(t, IsShortCode("abcd2345"), "lowercase")
}
