package chunkread

// IsPartial reports whether a chunk anchored at chunkOffset (element
// coordinates of the chunk's first element) extends past the dataset
// boundary in at least one dimension. Chunks on interior positions always
// occupy their full chunkDims footprint; only chunks on the trailing edge
// of a dimension can be partial, since HDF5 always stores whole chunks.
func IsPartial(chunkOffset, chunkDims, dsDims []uint64) bool {
	for i := range chunkOffset {
		if chunkOffset[i]+chunkDims[i] > dsDims[i] {
			return true
		}
	}
	return false
}

// PartOfChunkIsOutsideDataset reports whether the element at
// internalLinearElementIndex (a row-major linear offset within a single
// chunk's own chunkDims footprint) falls outside the dataset once the
// chunk is placed at chunkOffset. The full and slice readers do not call
// it; they clip partial edge chunks row by row through
// RowOutsideDataset/ClippedRowLength.
//
// The fastest-varying dimension is excluded from this check: a row can be
// partially out of bounds along it, which is a ragged-row concern handled
// separately by ClippedRowLength/RowOutsideDataset, not an all-or-nothing
// geometric cap.
func PartOfChunkIsOutsideDataset(internalLinearElementIndex uint64, chunkDims, chunkOffset, dsDims []uint64) bool {
	local := LinearToIndex(internalLinearElementIndex, chunkDims)
	for i := 0; i < len(local)-1; i++ {
		if chunkOffset[i]+local[i] >= dsDims[i] {
			return true
		}
	}
	return false
}

// ClippedRowLength returns how many elements of a chunk-internal
// contiguous row (along the fastest-varying dimension) actually land
// inside the dataset when the chunk is placed at chunkOffset. It never
// exceeds fullRowLength.
func ClippedRowLength(chunkOffset, chunkDims, dsDims []uint64, fullRowLength uint64) uint64 {
	last := len(chunkOffset) - 1
	if last < 0 {
		return fullRowLength
	}
	start := chunkOffset[last]
	if start >= dsDims[last] {
		return 0
	}
	available := dsDims[last] - start
	if available < fullRowLength {
		return available
	}
	return fullRowLength
}

// RowOutsideDataset reports whether an entire chunk-internal row, located
// at the outer multi-index outerIdx (every dimension except the last),
// falls outside the dataset once the chunk is placed at chunkOffset. The
// last dimension is handled separately by ClippedRowLength since a row
// can be partially, not just wholly, out of bounds.
func RowOutsideDataset(outerIdx, chunkOffset, dsDims []uint64) bool {
	for i, v := range outerIdx {
		if chunkOffset[i]+v >= dsDims[i] {
			return true
		}
	}
	return false
}
