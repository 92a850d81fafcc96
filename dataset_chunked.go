package hdf5

import (
	"context"

	"github.com/h5lite/hdf5/internal/chunkread"
	"github.com/h5lite/hdf5/internal/core"
)

// chunkedReader loads this dataset's object header and constructs the
// chunk-read engine over it. It returns an error for non-chunked
// datasets.
func (d *Dataset) chunkedReader() (*chunkread.ChunkedDatasetReader, error) {
	header, err := core.ReadObjectHeader(d.file.osFile, d.address, d.file.sb)
	if err != nil {
		return nil, err
	}
	return core.BuildChunkedReader(d.file.osFile, header, d.file.sb)
}

// DataBuffer materializes the entire dataset into one row-major byte
// buffer, decoding and placing every stored chunk in parallel. It is
// only valid for chunked-layout datasets.
func (d *Dataset) DataBuffer(ctx context.Context) ([]byte, error) {
	reader, err := d.chunkedReader()
	if err != nil {
		return nil, err
	}
	return reader.DataBuffer(ctx)
}

// SliceDataBuffer materializes a single contiguous hyperslab — given by
// an absolute starting element coordinate and an element shape — into
// its own row-major byte buffer. It is only valid for chunked-layout
// datasets.
func (d *Dataset) SliceDataBuffer(sliceOffset []int64, sliceShape []int32) ([]byte, error) {
	reader, err := d.chunkedReader()
	if err != nil {
		return nil, err
	}
	return reader.SliceDataBuffer(sliceOffset, sliceShape)
}

// RawChunkBuffer returns the raw, still-filtered bytes of the single
// chunk anchored at the given element-space offset.
func (d *Dataset) RawChunkBuffer(offset []uint64) ([]byte, error) {
	reader, err := d.chunkedReader()
	if err != nil {
		return nil, err
	}
	return reader.RawChunkBufferAt(offset)
}

// DecompressedChunk returns the fully decoded bytes of the single chunk
// anchored at the given element-space offset.
func (d *Dataset) DecompressedChunk(offset []uint64) ([]byte, error) {
	reader, err := d.chunkedReader()
	if err != nil {
		return nil, err
	}
	return reader.DecompressedChunkAt(offset)
}

// StorageInBytes returns the sum of the on-disk (still-filtered) sizes of
// every chunk stored for this dataset.
func (d *Dataset) StorageInBytes() (uint64, error) {
	reader, err := d.chunkedReader()
	if err != nil {
		return 0, err
	}
	return reader.StorageInBytes()
}

// IsEmpty reports whether this chunked dataset has no stored chunks.
func (d *Dataset) IsEmpty() (bool, error) {
	reader, err := d.chunkedReader()
	if err != nil {
		return false, err
	}
	return reader.IsEmpty()
}

// Filters lists the filters applied to this dataset's chunks, in
// application order. A dataset with no filter pipeline returns an empty
// slice.
func (d *Dataset) Filters() ([]chunkread.Descriptor, error) {
	reader, err := d.chunkedReader()
	if err != nil {
		return nil, err
	}
	pipeline, err := reader.Filters()
	if err != nil {
		return nil, err
	}
	return pipeline.Descriptors(), nil
}
