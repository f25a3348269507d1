package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeVarint(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		buf   []byte
		value int64
		n     int
	}{
		{"single byte", []byte{0x04}, 0x04, 1},
		{"single byte max", []byte{0x7f}, 0x7f, 1},
		{"two bytes", []byte{0x88, 0x43}, 0x443, 2},
		{"two bytes trailing garbage", []byte{0x04, 0x88, 0x43}, 0x04, 1},
		{"nine bytes all continuation", []byte{0x88, 0x88, 0x88, 0x88, 0x88, 0x88, 0x88, 0x88, 0x88, 0x88},
			1161999626690365576, 9},
		{"minus one", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, -1, 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, n, err := DecodeVarint(tc.buf, 0)
			require.NoError(t, err)
			require.Equal(t, tc.value, v)
			require.Equal(t, tc.n, n)
		})
	}
}

func TestDecodeVarint_Offset(t *testing.T) {
	t.Parallel()

	buf := []byte{0x00, 0x00, 0x81, 0x01}
	v, n, err := DecodeVarint(buf, 2)
	require.NoError(t, err)
	require.Equal(t, int64(0x81), v)
	require.Equal(t, 2, n)
}

func TestDecodeVarint_Truncated(t *testing.T) {
	t.Parallel()

	_, _, err := DecodeVarint(nil, 0)
	require.ErrorIs(t, err, ErrTruncatedVarint)

	_, _, err = DecodeVarint([]byte{0x88}, 0)
	require.ErrorIs(t, err, ErrTruncatedVarint)

	_, _, err = DecodeVarint([]byte{0x88, 0x88, 0x88, 0x88, 0x88, 0x88, 0x88, 0x88}, 0)
	require.ErrorIs(t, err, ErrTruncatedVarint)

	_, _, err = DecodeVarint([]byte{0x01}, 5)
	require.ErrorIs(t, err, ErrTruncatedVarint)
}

func TestVarint_RoundTrip(t *testing.T) {
	t.Parallel()

	values := []int64{
		0, 1, 0x7f, 0x80, 0x443, 16383, 16384,
		1<<21 - 1, 1 << 21, 1<<28 - 1, 1 << 28,
		1<<35 - 1, 1 << 42, 1<<49 - 1, 1<<56 - 1, 1 << 56,
		1<<63 - 1, -1, -128, minInt64,
	}
	for _, v := range values {
		buf := EncodeVarint(nil, v)
		require.LessOrEqual(t, len(buf), MaxVarintLen)
		require.Equal(t, VarintLen(v), len(buf), "value %d", v)

		got, n, err := DecodeVarint(buf, 0)
		require.NoError(t, err)
		require.Equal(t, v, got, "value %d", v)
		require.Equal(t, len(buf), n, "value %d", v)
	}
}

const minInt64 = -1 << 63
