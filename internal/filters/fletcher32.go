package filters

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ComputeFletcher32 computes the Fletcher-32 checksum HDF5 stores
// alongside chunk data protected by the Fletcher32 filter: two 16-bit
// running sums over the data treated as a stream of little-endian
// 16-bit words, packed into a single uint32 as (sum2<<16 | sum1).
func ComputeFletcher32(data []byte) uint32 {
	var sum1, sum2 uint32
	n := len(data) / 2

	for i := 0; i < n; i++ {
		word := uint32(data[2*i]) | uint32(data[2*i+1])<<8
		sum1 = (sum1 + word) % 65535
		sum2 = (sum2 + sum1) % 65535
	}

	if len(data)%2 != 0 {
		word := uint32(data[len(data)-1])
		sum1 = (sum1 + word) % 65535
		sum2 = (sum2 + sum1) % 65535
	}

	return sum2<<16 | sum1
}

// decodeFletcher32 strips the trailing 4-byte checksum and verifies it
// against the payload, returning an error on mismatch rather than
// silently trusting the stored data.
func decodeFletcher32(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, errors.New("data too short for Fletcher32 checksum")
	}

	payload := data[:len(data)-4]
	stored := binary.LittleEndian.Uint32(data[len(data)-4:])
	computed := ComputeFletcher32(payload)

	if stored != computed {
		return nil, fmt.Errorf("fletcher32 checksum mismatch: stored=0x%08x computed=0x%08x", stored, computed)
	}

	return payload, nil
}
