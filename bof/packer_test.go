package bof

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacker_IntThenCString(t *testing.T) {
	p := New()
	p.Pack("INT", float64(1))
	p.Pack("CSTR", "hi")

	got, err := base64.StdEncoding.DecodeString(p.Build())
	require.NoError(t, err)

	want := []byte{
		0x0B, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
		0x03, 0x00, 0x00, 0x00,
		0x68, 0x69, 0x00,
	}
	assert.Equal(t, want, got)
}

func TestPacker_PackBofScenario(t *testing.T) {
	p := New()
	p.Pack("INT", float64(5))
	p.Pack("CSTR", "hello")

	got, err := base64.StdEncoding.DecodeString(p.Build())
	require.NoError(t, err)

	want := []byte{
		0x0E, 0x00, 0x00, 0x00,
		0x05, 0x00, 0x00, 0x00,
		0x06, 0x00, 0x00, 0x00,
		0x68, 0x65, 0x6C, 0x6C, 0x6F, 0x00,
	}
	assert.Equal(t, want, got)
}

func TestPacker_EmptyCSTR(t *testing.T) {
	p := New()
	p.Pack("CSTR", "")
	got, err := base64.StdEncoding.DecodeString(p.Build())
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 0, 0, 0, 0, 0, 0, 0}, got)
}

func TestPacker_UnknownTypeEmitsNothing(t *testing.T) {
	p := New()
	p.Pack("NOPE", "value")
	got, err := base64.StdEncoding.DecodeString(p.Build())
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, got)
}

func TestPacker_IntFromStringAndBool(t *testing.T) {
	p1 := New()
	p1.Pack("INT", "42")
	p2 := New()
	p2.Pack("INT", true)

	b1, _ := base64.StdEncoding.DecodeString(p1.Build())
	b2, _ := base64.StdEncoding.DecodeString(p2.Build())

	assert.Equal(t, []byte{4, 0, 0, 0, 42, 0, 0, 0}, b1)
	assert.Equal(t, []byte{4, 0, 0, 0, 1, 0, 0, 0}, b2)
}

func TestPacker_IntFromUnparsableStringEmitsNothing(t *testing.T) {
	p := New()
	p.Pack("INT", "not-a-number")
	got, err := base64.StdEncoding.DecodeString(p.Build())
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, got)
}

func TestPacker_Bytes(t *testing.T) {
	p := New()
	raw := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	p.Pack("BYTES", base64.StdEncoding.EncodeToString(raw))
	got, err := base64.StdEncoding.DecodeString(p.Build())
	require.NoError(t, err)
	assert.Equal(t, append([]byte{8, 0, 0, 0, 4, 0, 0, 0}, raw...), got)
}

func TestPacker_WString(t *testing.T) {
	p := New()
	p.Pack("WSTR", "hi")
	got, err := base64.StdEncoding.DecodeString(p.Build())
	require.NoError(t, err)
	// length prefix (4 + 6) then inner length (6: "h","i",NUL as UTF-16LE)
	want := []byte{10, 0, 0, 0, 6, 0, 0, 0, 'h', 0, 'i', 0, 0, 0}
	assert.Equal(t, want, got)
}
