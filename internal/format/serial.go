package format

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf16"
)

// SerialType is the varint tag preceding every record column,
// encoding both the storage class and, for blobs and text, the length.
type SerialType int64

const (
	SerialNull   SerialType = 0
	SerialInt8   SerialType = 1
	SerialInt16  SerialType = 2
	SerialInt24  SerialType = 3
	SerialInt32  SerialType = 4
	SerialInt48  SerialType = 5
	SerialInt64  SerialType = 6
	SerialFloat  SerialType = 7
	SerialZero   SerialType = 8
	SerialOne    SerialType = 9
	SerialTen    SerialType = 10
	SerialEleven SerialType = 11
)

// IsBlob reports whether t tags a blob value.
func (t SerialType) IsBlob() bool { return t >= 12 && t%2 == 0 }

// IsText reports whether t tags a text value.
func (t SerialType) IsText() bool { return t >= 13 && t%2 == 1 }

// ContentSize is the number of body bytes the value of this serial
// type occupies. Serial types 10 and 11 are reserved;
// ErrReservedSerialType is returned for them and for negative tags.
func (t SerialType) ContentSize() (int, error) {
	switch t {
	case SerialNull, SerialZero, SerialOne:
		return 0, nil
	case SerialInt8:
		return 1, nil
	case SerialInt16:
		return 2, nil
	case SerialInt24:
		return 3, nil
	case SerialInt32:
		return 4, nil
	case SerialInt48:
		return 6, nil
	case SerialInt64, SerialFloat:
		return 8, nil
	}
	switch {
	case t.IsBlob():
		return int((t - 12) / 2), nil
	case t.IsText():
		return int((t - 13) / 2), nil
	}
	return 0, fmt.Errorf("%w: %d", ErrReservedSerialType, int64(t))
}

func (t SerialType) String() string {
	switch t {
	case SerialNull:
		return "NULL"
	case SerialInt8, SerialInt16, SerialInt24, SerialInt32, SerialInt48, SerialInt64:
		return fmt.Sprintf("int%d", []int{8, 16, 24, 32, 48, 64}[t-1])
	case SerialFloat:
		return "float64"
	case SerialZero:
		return "integer 0"
	case SerialOne:
		return "integer 1"
	case SerialTen, SerialEleven:
		return "reserved"
	}
	if n, err := t.ContentSize(); err == nil {
		if t.IsBlob() {
			return fmt.Sprintf("blob(%d)", n)
		}
		return fmt.Sprintf("text(%d)", n)
	}
	return fmt.Sprintf("SerialType(%d)", int64(t))
}

// ValueKind classifies a decoded column value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindInt
	KindFloat
	KindText
	KindBlob
	KindReserved
)

// Value is one decoded record column. Exactly one of Int, Float, Text
// or Blob is meaningful, per Kind; Span covers the value's body bytes
// within the logical payload (zero-length for NULL and the constants).
type Value struct {
	Type  SerialType
	Kind  ValueKind
	Int   int64
	Float float64
	Text  string
	Blob  []byte
	Span  Span
}

// IsNull reports whether the value is a NULL.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsInt returns the value as an int64 for the integer storage classes
// (including the zero/one constants); ok is false otherwise.
func (v Value) AsInt() (int64, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.Int, true
}

// DecodeValue decodes the body bytes at buf[off:] according to the
// serial type. Text is interpreted with the database text encoding.
func DecodeValue(t SerialType, enc TextEncoding, buf []byte, off int) (Value, error) {
	size, err := t.ContentSize()
	if err != nil {
		return Value{Type: t, Kind: KindReserved, Span: NewSpan(off, 0)}, err
	}
	if off+size > len(buf) {
		return Value{}, fmt.Errorf("value of serial type %d at %d: %w", int64(t), off, ErrRecordHeaderOverrun)
	}
	body := buf[off : off+size]
	span := NewSpan(off, size)

	switch t {
	case SerialNull:
		return Value{Type: t, Kind: KindNull, Span: span}, nil
	case SerialZero:
		return Value{Type: t, Kind: KindInt, Int: 0, Span: span}, nil
	case SerialOne:
		return Value{Type: t, Kind: KindInt, Int: 1, Span: span}, nil
	case SerialInt8, SerialInt16, SerialInt24, SerialInt32, SerialInt48, SerialInt64:
		return Value{Type: t, Kind: KindInt, Int: decodeTwosComplement(body), Span: span}, nil
	case SerialFloat:
		bits := binary.BigEndian.Uint64(body)
		return Value{Type: t, Kind: KindFloat, Float: math.Float64frombits(bits), Span: span}, nil
	}
	if t.IsBlob() {
		return Value{Type: t, Kind: KindBlob, Blob: body, Span: span}, nil
	}
	text, err := decodeText(enc, body)
	if err != nil {
		return Value{}, err
	}
	return Value{Type: t, Kind: KindText, Text: text, Span: span}, nil
}

// decodeTwosComplement sign-extends a 1..8 byte big-endian integer.
func decodeTwosComplement(body []byte) int64 {
	var v int64
	if len(body) > 0 && body[0]&0x80 != 0 {
		v = -1
	}
	for _, b := range body {
		v = (v << 8) | int64(b)&0xff
	}
	return v
}

func decodeText(enc TextEncoding, body []byte) (string, error) {
	switch enc {
	case UTF8:
		return string(body), nil
	case UTF16LE, UTF16BE:
		if len(body)%2 != 0 {
			// Odd tail byte cannot form a code unit; drop it the way
			// the engine itself tolerates it.
			body = body[:len(body)-1]
		}
		units := make([]uint16, 0, len(body)/2)
		for i := 0; i+1 < len(body); i += 2 {
			if enc == UTF16LE {
				units = append(units, binary.LittleEndian.Uint16(body[i:i+2]))
			} else {
				units = append(units, binary.BigEndian.Uint16(body[i:i+2]))
			}
		}
		return string(utf16.Decode(units)), nil
	default:
		return "", fmt.Errorf("%w: %d", ErrInvalidTextEncoding, uint32(enc))
	}
}
