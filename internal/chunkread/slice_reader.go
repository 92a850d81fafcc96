package chunkread

import (
	"fmt"

	"github.com/h5lite/hdf5/internal/utils"
)

// SliceDataBuffer materializes a single contiguous hyperslab — a
// dataset-aligned block described by an absolute starting element
// coordinate and an element shape — into its own row-major byte buffer.
// Unlike DataBuffer, this runs sequentially: a hyperslab typically touches
// a small, overlap-heavy subset of chunks, and sequential chunk-by-chunk
// extraction avoids decoding a chunk more than once.
//
// Positions of the requested region with no backing chunk (a sparse or
// never-written dataset) are left at their zero value rather than
// erroring.
func (cr *ChunkedDatasetReader) SliceDataBuffer(sliceOffset []int64, sliceShape []int32) ([]byte, error) {
	ndims := len(cr.DatasetDims)
	if len(sliceOffset) != ndims || len(sliceShape) != ndims {
		return nil, &DimensionOverflowError{Detail: fmt.Sprintf("slice rank mismatch: offset=%d shape=%d dataset=%d", len(sliceOffset), len(sliceShape), ndims)}
	}

	start := make([]uint64, ndims)
	count := make([]uint64, ndims)
	for i := 0; i < ndims; i++ {
		if sliceOffset[i] < 0 || sliceShape[i] <= 0 {
			return nil, &DimensionOverflowError{Detail: fmt.Sprintf("slice dimension %d has negative offset or non-positive shape", i)}
		}
		start[i] = uint64(sliceOffset[i])
		count[i] = uint64(sliceShape[i])
		if start[i]+count[i] > cr.DatasetDims[i] {
			return nil, &DimensionOverflowError{Detail: fmt.Sprintf("slice dimension %d exceeds dataset bounds: start=%d count=%d dim=%d", i, start[i], count[i], cr.DatasetDims[i])}
		}
	}

	totalElements := uint64(1)
	var err error
	for _, c := range count {
		totalElements, err = utils.SafeMultiply(totalElements, c)
		if err != nil {
			return nil, &DimensionOverflowError{Detail: err.Error()}
		}
	}
	totalBytes, err := utils.SafeMultiply(totalElements, cr.ElementSize)
	if err != nil {
		return nil, &DimensionOverflowError{Detail: err.Error()}
	}

	out := make([]byte, totalBytes)
	if totalBytes == 0 || ndims == 0 {
		return out, nil
	}

	lookup, err := cr.chunkLookup()
	if err != nil {
		return nil, err
	}

	chunkIdxStart := make([]uint64, ndims)
	candidateCounts := make([]uint64, ndims)
	for i := 0; i < ndims; i++ {
		chunkIdxStart[i] = start[i] / cr.ChunkDims[i]
		chunkIdxEndIncl := (start[i] + count[i] - 1) / cr.ChunkDims[i]
		candidateCounts[i] = chunkIdxEndIncl - chunkIdxStart[i] + 1
	}

	totalCandidates := uint64(1)
	for _, c := range candidateCounts {
		totalCandidates *= c
	}

	chunkIdx := make([]uint64, ndims)
	for cand := uint64(0); cand < totalCandidates; cand++ {
		chunkOffset := make([]uint64, ndims)
		for i := 0; i < ndims; i++ {
			chunkOffset[i] = (chunkIdxStart[i] + chunkIdx[i]) * cr.ChunkDims[i]
		}

		if err := cr.copyChunkOverlapIntoSlice(out, lookup, chunkOffset, start, count); err != nil {
			return nil, err
		}

		incrementOdometer(chunkIdx, candidateCounts)
	}

	return out, nil
}

// copyChunkOverlapIntoSlice copies the portion of one chunk that overlaps
// the requested slice region. It is a no-op if the chunk is absent from
// the index (sparse dataset) or the overlap is empty.
func (cr *ChunkedDatasetReader) copyChunkOverlapIntoSlice(out []byte, lookup ChunkLookup, chunkOffset, start, count []uint64) error {
	chunk, ok := lookup[EncodeOffsetKey(chunkOffset)]
	if !ok {
		return nil
	}

	data, err := cr.DecompressedChunk(chunk)
	if err != nil {
		return err
	}

	ndims := len(chunkOffset)
	ovStart := make([]uint64, ndims)
	ovEnd := make([]uint64, ndims)
	for i := 0; i < ndims; i++ {
		chunkEnd := chunkOffset[i] + cr.ChunkDims[i]
		if chunkEnd > cr.DatasetDims[i] {
			chunkEnd = cr.DatasetDims[i]
		}
		sliceEnd := start[i] + count[i]

		ovStart[i] = chunkOffset[i]
		if start[i] > ovStart[i] {
			ovStart[i] = start[i]
		}
		ovEnd[i] = chunkEnd
		if sliceEnd < ovEnd[i] {
			ovEnd[i] = sliceEnd
		}
		if ovStart[i] >= ovEnd[i] {
			return nil
		}
	}

	last := ndims - 1
	rowLen := ovEnd[last] - ovStart[last]
	rowBytes := rowLen * cr.ElementSize

	outerCounts := make([]uint64, ndims)
	for i := 0; i < last; i++ {
		outerCounts[i] = ovEnd[i] - ovStart[i]
	}
	totalOuterRows := uint64(1)
	for i := 0; i < last; i++ {
		totalOuterRows *= outerCounts[i]
	}

	outerIdx := make([]uint64, ndims)
	absIdx := make([]uint64, ndims)
	chunkLocal := make([]uint64, ndims)
	sliceLocal := make([]uint64, ndims)

	for r := uint64(0); r < totalOuterRows; r++ {
		for i := 0; i < last; i++ {
			absIdx[i] = ovStart[i] + outerIdx[i]
			chunkLocal[i] = absIdx[i] - chunkOffset[i]
			sliceLocal[i] = absIdx[i] - start[i]
		}
		absIdx[last] = ovStart[last]
		chunkLocal[last] = ovStart[last] - chunkOffset[last]
		sliceLocal[last] = ovStart[last] - start[last]

		srcLinear, err := IndexToLinear(chunkLocal, cr.ChunkDims)
		if err != nil {
			return err
		}
		destLinear, err := IndexToLinear(sliceLocal, count)
		if err != nil {
			return err
		}

		srcOff := srcLinear * cr.ElementSize
		destOff := destLinear * cr.ElementSize

		if srcOff+rowBytes > uint64(len(data)) || destOff+rowBytes > uint64(len(out)) {
			return &DimensionOverflowError{Detail: "hyperslab row copy out of range"}
		}
		copy(out[destOff:destOff+rowBytes], data[srcOff:srcOff+rowBytes])

		if last > 0 {
			incrementOdometer(outerIdx[:last], outerCounts[:last])
		}
	}

	return nil
}
