package chunkread

// RawChunkBufferAt returns the raw, still-filtered bytes of the chunk
// anchored at offset, or a ChunkNotFoundError if no chunk is stored
// there.
func (cr *ChunkedDatasetReader) RawChunkBufferAt(offset []uint64) ([]byte, error) {
	chunk, err := cr.chunkAt(offset)
	if err != nil {
		return nil, err
	}
	return cr.RawChunkBuffer(chunk)
}

// DecompressedChunkAt returns the fully decoded bytes of the chunk
// anchored at offset, or a ChunkNotFoundError if no chunk is stored
// there.
func (cr *ChunkedDatasetReader) DecompressedChunkAt(offset []uint64) ([]byte, error) {
	chunk, err := cr.chunkAt(offset)
	if err != nil {
		return nil, err
	}
	return cr.DecompressedChunk(chunk)
}

func (cr *ChunkedDatasetReader) chunkAt(offset []uint64) (*Chunk, error) {
	lookup, err := cr.chunkLookup()
	if err != nil {
		return nil, err
	}
	chunk, ok := lookup[EncodeOffsetKey(offset)]
	if !ok {
		return nil, &ChunkNotFoundError{Offset: offset}
	}
	return chunk, nil
}

// StorageInBytes returns the sum of the on-disk (still-filtered) sizes of
// every stored chunk.
func (cr *ChunkedDatasetReader) StorageInBytes() (uint64, error) {
	lookup, err := cr.chunkLookup()
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, chunk := range lookup {
		total += chunk.Size
	}
	return total, nil
}

// IsEmpty reports whether the dataset has no stored chunks at all.
func (cr *ChunkedDatasetReader) IsEmpty() (bool, error) {
	lookup, err := cr.chunkLookup()
	if err != nil {
		return false, err
	}
	return len(lookup) == 0, nil
}

// Filters exposes the dataset's decode-time filter pipeline, forcing its
// lazy construction if it hasn't run yet. Callers that only want to list
// what filters are applied — without decoding a single chunk — can call
// Descriptors() on the result.
func (cr *ChunkedDatasetReader) Filters() (FilterPipeline, error) {
	return cr.filterPipeline()
}
