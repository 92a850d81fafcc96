package filters

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

func zstdCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

func TestDecodeZstd(t *testing.T) {
	payload := bytes.Repeat([]byte("chunked dataset"), 50)

	got, err := decodeZstd(zstdCompress(t, payload))
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestDecodeZstd_InvalidData(t *testing.T) {
	_, err := decodeZstd([]byte{0x00, 0x01, 0x02})
	require.Error(t, err)
}
