package chunkread

import "github.com/h5lite/hdf5/internal/utils"

// InternalOffsetTable precomputes the row layout shared by every chunk of
// a dataset's ChunkDims shape, so the full-dataset and slice readers
// don't recompute strides and per-row byte offsets for every chunk they
// touch. A "row" here is one contiguous run along the chunk's
// fastest-varying (last) dimension.
type InternalOffsetTable struct {
	// RowElements is the element count of one row (chunkDims[last]).
	RowElements uint64
	// RowBytes is RowElements * element size.
	RowBytes uint64
	// ChunkRowByteStart[r] is the byte offset, within one chunk's raw
	// (decompressed) buffer, where row r begins.
	ChunkRowByteStart []uint64
	// RowOuterIndex[r] is the chunk-local multi-index of row r across
	// every dimension except the last (length ndims-1).
	RowOuterIndex [][]uint64
}

// BuildInternalOffsetTable builds the row table for chunks shaped
// chunkDims, with the given per-element size in bytes.
func BuildInternalOffsetTable(chunkDims []uint64, elemSize uint64) (*InternalOffsetTable, error) {
	ndims := len(chunkDims)
	if ndims == 0 {
		return &InternalOffsetTable{RowElements: 0, RowBytes: 0}, nil
	}

	strides, err := Strides(chunkDims)
	if err != nil {
		return nil, err
	}

	rowElements := chunkDims[ndims-1]
	rowBytes, err := utils.SafeMultiply(rowElements, elemSize)
	if err != nil {
		return nil, err
	}

	outerDims := chunkDims[:ndims-1]
	rowCount := uint64(1)
	for _, d := range outerDims {
		rowCount, err = utils.SafeMultiply(rowCount, d)
		if err != nil {
			return nil, err
		}
	}

	table := &InternalOffsetTable{
		RowElements:       rowElements,
		RowBytes:          rowBytes,
		ChunkRowByteStart: make([]uint64, rowCount),
		RowOuterIndex:     make([][]uint64, rowCount),
	}

	idx := make([]uint64, ndims) // last slot always 0: rows start at element 0 along the last dim.
	for r := uint64(0); r < rowCount; r++ {
		var elementOffset uint64
		for i := 0; i < ndims-1; i++ {
			elementOffset += idx[i] * strides[i]
		}
		table.ChunkRowByteStart[r] = elementOffset * elemSize
		table.RowOuterIndex[r] = append([]uint64(nil), idx[:ndims-1]...)

		if ndims > 1 {
			incrementOdometer(idx[:ndims-1], outerDims)
		}
	}

	return table, nil
}
