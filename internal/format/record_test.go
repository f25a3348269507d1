package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerialType_ContentSize(t *testing.T) {
	t.Parallel()

	sizes := map[SerialType]int{
		SerialNull: 0, SerialInt8: 1, SerialInt16: 2, SerialInt24: 3,
		SerialInt32: 4, SerialInt48: 6, SerialInt64: 8, SerialFloat: 8,
		SerialZero: 0, SerialOne: 0,
		12: 0, 14: 1, 13: 0, 15: 1, 100: 44, 101: 44,
	}
	for st, want := range sizes {
		got, err := st.ContentSize()
		require.NoError(t, err, "serial type %d", st)
		require.Equal(t, want, got, "serial type %d", st)
	}

	for _, st := range []SerialType{SerialTen, SerialEleven, -1} {
		_, err := st.ContentSize()
		require.ErrorIs(t, err, ErrReservedSerialType)
	}
}

func TestDecodeValue_Integers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		st   SerialType
		body []byte
		want int64
	}{
		{SerialInt8, []byte{0x02}, 2},
		{SerialInt8, []byte{0xff}, -1},
		{SerialInt16, []byte{0x01, 0x00}, 256},
		{SerialInt24, []byte{0xff, 0xff, 0xfe}, -2},
		{SerialInt32, []byte{0x7f, 0xff, 0xff, 0xff}, math.MaxInt32},
		{SerialInt48, []byte{0x80, 0x00, 0x00, 0x00, 0x00, 0x00}, -(1 << 47)},
		{SerialInt64, []byte{0x80, 0, 0, 0, 0, 0, 0, 0}, math.MinInt64},
	}
	for _, tc := range cases {
		v, err := DecodeValue(tc.st, UTF8, tc.body, 0)
		require.NoError(t, err)
		require.Equal(t, KindInt, v.Kind)
		require.Equal(t, tc.want, v.Int, "serial type %d", tc.st)
		require.Equal(t, len(tc.body), v.Span.Len)
	}
}

func TestDecodeValue_Constants(t *testing.T) {
	t.Parallel()

	v, err := DecodeValue(SerialZero, UTF8, nil, 0)
	require.NoError(t, err)
	require.Equal(t, int64(0), v.Int)
	require.Equal(t, 0, v.Span.Len)

	v, err = DecodeValue(SerialOne, UTF8, nil, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), v.Int)

	v, err = DecodeValue(SerialNull, UTF8, nil, 0)
	require.NoError(t, err)
	require.True(t, v.IsNull())
}

func TestDecodeValue_Float(t *testing.T) {
	t.Parallel()

	body := make([]byte, 8)
	bits := math.Float64bits(8.6)
	for i := 7; i >= 0; i-- {
		body[i] = byte(bits)
		bits >>= 8
	}
	v, err := DecodeValue(SerialFloat, UTF8, body, 0)
	require.NoError(t, err)
	require.Equal(t, KindFloat, v.Kind)
	require.Equal(t, 8.6, v.Float)
}

func TestDecodeValue_Text(t *testing.T) {
	t.Parallel()

	// text(6) = serial type 13+2*6 = 25
	v, err := DecodeValue(25, UTF8, []byte("Sirius"), 0)
	require.NoError(t, err)
	require.Equal(t, "Sirius", v.Text)

	// "Hi" in UTF-16 LE, serial type 13+2*4 = 21
	v, err = DecodeValue(21, UTF16LE, []byte{'H', 0, 'i', 0}, 0)
	require.NoError(t, err)
	require.Equal(t, "Hi", v.Text)

	// "Hi" in UTF-16 BE
	v, err = DecodeValue(21, UTF16BE, []byte{0, 'H', 0, 'i'}, 0)
	require.NoError(t, err)
	require.Equal(t, "Hi", v.Text)
}

func TestDecodeRecord(t *testing.T) {
	t.Parallel()

	// Header: len=4, types [int8, text(3), NULL]; body: 0x2a, "abc".
	payload := []byte{0x04, 0x01, 0x13, 0x00, 0x2a, 'a', 'b', 'c'}
	rec, err := DecodeRecord(payload, UTF8)
	require.NoError(t, err)

	require.Equal(t, int64(4), rec.HeaderLen.Value)
	require.Equal(t, 3, rec.NumColumns())
	require.Equal(t, SerialInt8, rec.Types[0].Value)
	require.Equal(t, SerialType(0x13), rec.Types[1].Value)
	require.Equal(t, SerialNull, rec.Types[2].Value)

	require.Equal(t, int64(0x2a), rec.Values[0].Int)
	require.Equal(t, Span{Start: 4, Len: 1}, rec.Values[0].Span)
	require.Equal(t, "abc", rec.Values[1].Text)
	require.Equal(t, Span{Start: 5, Len: 3}, rec.Values[1].Span)
	require.True(t, rec.Values[2].IsNull())
}

func TestDecodeRecord_SingleIntColumn(t *testing.T) {
	t.Parallel()

	// The shape produced by "INSERT INTO simple VALUES(1)": the value 1
	// elides its body via serial type 9.
	rec, err := DecodeRecord([]byte{0x02, 0x09}, UTF8)
	require.NoError(t, err)
	require.Equal(t, 1, rec.NumColumns())
	require.Equal(t, int64(1), rec.Values[0].Int)

	// Value 2 is stored as int8 with one body byte.
	rec, err = DecodeRecord([]byte{0x02, 0x01, 0x02}, UTF8)
	require.NoError(t, err)
	require.Equal(t, int64(2), rec.Values[0].Int)
}

func TestDecodeRecord_HeaderOverrun(t *testing.T) {
	t.Parallel()

	// Declared header longer than the payload.
	_, err := DecodeRecord([]byte{0x09, 0x01}, UTF8)
	require.ErrorIs(t, err, ErrRecordHeaderOverrun)

	// Body shorter than the serial types demand.
	_, err = DecodeRecord([]byte{0x02, 0x06, 0x01}, UTF8)
	require.ErrorIs(t, err, ErrRecordHeaderOverrun)

	// Body longer than the serial types account for.
	_, err = DecodeRecord([]byte{0x02, 0x01, 0x01, 0xff}, UTF8)
	require.ErrorIs(t, err, ErrRecordHeaderOverrun)
}
