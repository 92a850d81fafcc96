package filters

import (
	"errors"
	"fmt"
)

// decodeShuffle reverses HDF5's byte-shuffle transform: the compressor
// rearranged [e0b0 e1b0 e2b0 ...][e0b1 e1b1 ...]... back into contiguous
// per-element byte runs.
func decodeShuffle(data []byte, clientData []uint32) ([]byte, error) {
	if len(clientData) == 0 {
		return nil, errors.New("shuffle filter missing element size")
	}

	elementSize := int(clientData[0])
	if elementSize <= 0 || elementSize > len(data) {
		return nil, fmt.Errorf("invalid shuffle element size: %d", elementSize)
	}

	if len(data)%elementSize != 0 {
		return nil, errors.New("data size not multiple of element size")
	}
	numElements := len(data) / elementSize

	result := make([]byte, len(data))
	for elemIdx := 0; elemIdx < numElements; elemIdx++ {
		for byteIdx := 0; byteIdx < elementSize; byteIdx++ {
			srcPos := byteIdx*numElements + elemIdx
			dstPos := elemIdx*elementSize + byteIdx
			result[dstPos] = data[srcPos]
		}
	}

	return result, nil
}
