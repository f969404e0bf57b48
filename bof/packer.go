// Package bof implements the little-endian, length-prefixed, base64-wrapped
// argument packing format consumed by a Beacon Object File loader.
package bof

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"strconv"

	"golang.org/x/text/encoding/unicode"
)

// Packer is a stateful accumulator. Each call to Pack appends the typed
// encoding of one value to the internal buffer; Build finalizes it.
type Packer struct {
	buf bytes.Buffer
}

// New returns an empty Packer.
func New() *Packer {
	return &Packer{}
}

// Pack appends value, interpreted according to typ, to the buffer.
// Supported types: CSTR, WSTR, INT, SHORT, BYTES. value may be a string,
// a float64 (as produced by encoding/json numeric decode), an int (as the
// binder produces for INT arguments), or a bool.
// An unrecognized type or a value that cannot be coerced emits nothing,
// matching the packer DSL's forgiving behavior.
func (p *Packer) Pack(typ string, value interface{}) {
	switch typ {
	case "CSTR":
		p.packCSTR(value)
	case "WSTR":
		p.packWSTR(value)
	case "INT":
		p.packInt(value)
	case "SHORT":
		p.packShort(value)
	case "BYTES":
		p.packBytes(value)
	}
}

func (p *Packer) packCSTR(value interface{}) {
	s, ok := value.(string)
	if !ok {
		return
	}
	data := []byte(s)
	if len(data) == 0 {
		p.writeLength(0)
		return
	}
	data = append(data, 0)
	p.writeLength(len(data))
	p.buf.Write(data)
}

func (p *Packer) packWSTR(value interface{}) {
	s, ok := value.(string)
	if !ok {
		return
	}
	if len(s) == 0 {
		p.writeLength(0)
		return
	}
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	data, err := enc.Bytes([]byte(s))
	if err != nil {
		return
	}
	data = append(data, 0, 0)
	p.writeLength(len(data))
	p.buf.Write(data)
}

func (p *Packer) packInt(value interface{}) {
	n, ok := coerceInt(value)
	if !ok {
		return
	}
	binary.Write(&p.buf, binary.LittleEndian, int32(n))
}

func (p *Packer) packShort(value interface{}) {
	n, ok := coerceInt(value)
	if !ok {
		return
	}
	binary.Write(&p.buf, binary.LittleEndian, int16(n))
}

func (p *Packer) packBytes(value interface{}) {
	s, ok := value.(string)
	if !ok {
		return
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return
	}
	p.writeLength(len(data))
	if len(data) > 0 {
		p.buf.Write(data)
	}
}

func (p *Packer) writeLength(n int) {
	binary.Write(&p.buf, binary.LittleEndian, int32(n))
}

// coerceInt accepts a JSON number, a JSON bool (0/1), or a decimal string.
func coerceInt(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Build prepends a 4-byte little-endian length of the accumulated body and
// returns the whole thing base64-encoded.
func (p *Packer) Build() string {
	out := new(bytes.Buffer)
	binary.Write(out, binary.LittleEndian, int32(p.buf.Len()))
	out.Write(p.buf.Bytes())
	return base64.StdEncoding.EncodeToString(out.Bytes())
}
