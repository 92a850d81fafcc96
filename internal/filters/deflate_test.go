package filters

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"
)

func zlibCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDecodeDeflate(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		want    []byte
		wantErr bool
	}{
		{name: "valid compressed data", input: zlibCompress(t, []byte("hello world")), want: []byte("hello world")},
		{name: "empty data", input: zlibCompress(t, []byte{}), want: []byte{}},
		{name: "large data", input: zlibCompress(t, bytes.Repeat([]byte("test"), 1000)), want: bytes.Repeat([]byte("test"), 1000)},
		{name: "invalid compressed data", input: []byte{0x00, 0x01, 0x02, 0x03}, wantErr: true},
		{name: "truncated compressed data", input: zlibCompress(t, []byte("hello"))[:5], wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeDeflate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
