package chunkread

// RawChunkBuffer reads chunk's raw, still-filtered bytes directly from
// the backing store.
func (cr *ChunkedDatasetReader) RawChunkBuffer(chunk *Chunk) ([]byte, error) {
	buf := make([]byte, chunk.Size)
	//nolint:gosec // G115: chunk addresses come from a parsed on-disk index sized for int64 ReadAt
	if _, err := cr.Storage.ReadAt(buf, int64(chunk.Address)); err != nil {
		return nil, &BackingReadError{Offset: chunk.Offset, Cause: err}
	}
	return buf, nil
}

// DecompressedChunk reads and fully decodes chunk through the dataset's
// filter pipeline. The pipeline is initialized at most once (see
// ChunkedDatasetReader.filterPipeline) and every codec it composes is
// re-entrant, so concurrent callers (FullReader's parallel fan-out) never
// need additional synchronization here.
func (cr *ChunkedDatasetReader) DecompressedChunk(chunk *Chunk) ([]byte, error) {
	raw, err := cr.RawChunkBuffer(chunk)
	if err != nil {
		return nil, err
	}

	pipeline, err := cr.filterPipeline()
	if err != nil {
		return nil, err
	}

	decoded, err := pipeline.Decode(raw, chunk.FilterMask)
	if err != nil {
		return nil, &FilterDecodeError{Offset: chunk.Offset, Cause: err}
	}
	return decoded, nil
}
