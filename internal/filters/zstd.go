package filters

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// decodeZstd decompresses chunk data encoded with the dynamically
// registered Zstandard filter (HDF5 filter ID 32015).
func decodeZstd(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder creation failed: %w", err)
	}
	defer decoder.Close()

	decompressed, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}
	return decompressed, nil
}
