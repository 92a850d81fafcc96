package chunkread

import (
	"context"
	"fmt"
	"runtime"

	"github.com/h5lite/hdf5/internal/utils"
	"golang.org/x/sync/errgroup"
)

// DataBuffer materializes the entire dataset into one contiguous,
// row-major byte buffer, decoding and placing every stored chunk. Chunks
// are decoded and copied concurrently, bounded by GOMAXPROCS, since each
// chunk's destination region is disjoint from every other's.
func (cr *ChunkedDatasetReader) DataBuffer(ctx context.Context) ([]byte, error) {
	lookup, err := cr.chunkLookup()
	if err != nil {
		return nil, err
	}

	totalElements := uint64(1)
	for _, d := range cr.DatasetDims {
		totalElements, err = utils.SafeMultiply(totalElements, d)
		if err != nil {
			return nil, &DimensionOverflowError{Detail: fmt.Sprintf("dataset element count overflow: %v", err)}
		}
	}
	totalBytes, err := utils.SafeMultiply(totalElements, cr.ElementSize)
	if err != nil {
		return nil, &DimensionOverflowError{Detail: fmt.Sprintf("dataset byte size overflow: %v", err)}
	}

	out := make([]byte, totalBytes)
	if totalBytes == 0 {
		return out, nil
	}

	dataStrides, err := Strides(cr.DatasetDims)
	if err != nil {
		return nil, err
	}

	table, err := cr.rowTable()
	if err != nil {
		return nil, err
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, chunk := range lookup {
		chunk := chunk
		g.Go(func() error {
			return cr.fillFromChunk(out, chunk, dataStrides, table)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// fillFromChunk decodes chunk and copies its rows into out, clipping rows
// of a partial edge chunk to the dataset boundary and skipping rows that
// fall entirely outside it.
func (cr *ChunkedDatasetReader) fillFromChunk(out []byte, chunk *Chunk, dataStrides []uint64, table *InternalOffsetTable) error {
	data, err := cr.DecompressedChunk(chunk)
	if err != nil {
		return err
	}

	ndims := len(chunk.Offset)
	partial := IsPartial(chunk.Offset, cr.ChunkDims, cr.DatasetDims)

	rowLen := table.RowElements
	if partial {
		rowLen = ClippedRowLength(chunk.Offset, cr.ChunkDims, cr.DatasetDims, table.RowElements)
	}
	if rowLen == 0 {
		return nil
	}
	rowBytes := rowLen * cr.ElementSize

	absIdx := make([]uint64, ndims)
	if ndims > 0 {
		absIdx[ndims-1] = chunk.Offset[ndims-1]
	}

	for r, outerIdx := range table.RowOuterIndex {
		if partial && RowOutsideDataset(outerIdx, chunk.Offset, cr.DatasetDims) {
			continue
		}
		for i, v := range outerIdx {
			absIdx[i] = chunk.Offset[i] + v
		}

		destElementOffset, err := IndexToLinear(absIdx, cr.DatasetDims)
		if err != nil {
			return err
		}

		// Preserved historical quirk: this early-exit compares an element
		// count directly against out's byte length rather than normalizing
		// by ElementSize first. The clamp below still protects against an
		// actual out-of-range copy, but a row that this guard should have
		// rejected can still reach the clamp.
		if destElementOffset > uint64(len(out)) {
			continue
		}

		destByteOffset := destElementOffset * cr.ElementSize
		srcStart := table.ChunkRowByteStart[r]

		n := rowBytes
		if destByteOffset >= uint64(len(out)) {
			continue
		}
		if destByteOffset+n > uint64(len(out)) {
			n = uint64(len(out)) - destByteOffset
		}
		if srcStart >= uint64(len(data)) {
			continue
		}
		if srcStart+n > uint64(len(data)) {
			n = uint64(len(data)) - srcStart
		}

		copy(out[destByteOffset:destByteOffset+n], data[srcStart:srcStart+n])
	}
	return nil
}
