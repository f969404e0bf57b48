package randgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHasher_KnownAlgorithms(t *testing.T) {
	h := DefaultHasher{}
	for _, algo := range []string{"md5", "sha1", "sha256", "sha512", "sha3-256", "sha3-512", "blake2b-256", "crc32"} {
		digest, ok := h.Hash(algo, 8, "hello")
		require.True(t, ok, algo)
		assert.Len(t, digest, 8, algo)
	}
}

func TestDefaultHasher_UnknownAlgorithm(t *testing.T) {
	h := DefaultHasher{}
	_, ok := h.Hash("not-a-real-algo", 8, "hello")
	assert.False(t, ok)
}

func TestDefaultHasher_LongerThanDigestRepeats(t *testing.T) {
	h := DefaultHasher{}
	digest, ok := h.Hash("crc32", 20, "x")
	require.True(t, ok)
	assert.Len(t, digest, 20)
}

func TestDefaultHasher_Deterministic(t *testing.T) {
	h := DefaultHasher{}
	a, _ := h.Hash("sha256", 16, "same input")
	b, _ := h.Hash("sha256", 16, "same input")
	assert.Equal(t, a, b)
}

func TestDefaultRandomizer_KnownCharset(t *testing.T) {
	r := NewDefaultRandomizer(map[string]string{"hex": "0123456789abcdef"})
	s, ok := r.Random(10, "hex")
	require.True(t, ok)
	assert.Len(t, s, 10)
	for _, c := range s {
		assert.Contains(t, "0123456789abcdef", string(c))
	}
}

func TestDefaultRandomizer_UnknownCharsetFallsBack(t *testing.T) {
	r := NewDefaultRandomizer(map[string]string{})
	s, ok := r.Random(12, "nonexistent")
	require.True(t, ok)
	assert.Len(t, s, 12)
}

func TestDefaultRandomizer_ZeroLength(t *testing.T) {
	r := NewDefaultRandomizer(nil)
	s, ok := r.Random(0, "anything")
	require.True(t, ok)
	assert.Empty(t, s)
}
