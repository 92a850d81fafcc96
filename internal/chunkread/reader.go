package chunkread

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Chunk describes one stored chunk of a chunked dataset: its element-space
// offset (the coordinates of its first element within the dataset), its
// location and size in the backing store, and the filter-exclusion mask
// recorded alongside it in the chunk index.
type Chunk struct {
	Offset     []uint64
	Address    uint64
	Size       uint64
	FilterMask uint32
}

// ChunkLookup maps an encoded chunk offset (see EncodeOffsetKey) to its
// Chunk. Go slices cannot be map keys directly, so every chunk index
// adapter is expected to build its lookup through EncodeOffsetKey.
type ChunkLookup map[string]*Chunk

// EncodeOffsetKey encodes an element-space chunk offset into a string
// usable as a ChunkLookup key.
func EncodeOffsetKey(offset []uint64) string {
	parts := make([]string, len(offset))
	for i, v := range offset {
		parts[i] = strconv.FormatUint(v, 10)
	}
	return strings.Join(parts, ",")
}

// BackingStorage is the minimal read surface the engine needs from the
// underlying storage medium.
type BackingStorage interface {
	ReadAt(p []byte, off int64) (int, error)
}

// ChunkIndexProvider supplies the set of stored chunks for a dataset.
// Implementations adapt a concrete on-disk chunk index (e.g. a B-tree)
// into the engine's offset-keyed lookup.
type ChunkIndexProvider interface {
	ChunkLookup() (ChunkLookup, error)
}

// Descriptor describes one filter applied to a dataset's chunks — its
// registered ID, a human-readable name, the optional/required flag and
// any codec parameters — without requiring the caller to decode
// anything. It lives in this package, not internal/filters, so that any
// format built on this engine can list its filters through FilterPipeline
// alone.
type Descriptor struct {
	ID         uint16
	Name       string
	Flags      uint16
	ClientData []uint32
}

// FilterPipeline decodes one chunk's raw stored bytes into its
// decompressed form, honoring the per-chunk filter-exclusion mask, and
// can enumerate the filters it applies without decoding anything.
type FilterPipeline interface {
	Decode(data []byte, filterMask uint32) ([]byte, error)
	Descriptors() []Descriptor
}

// FilterPipelineFactory builds the FilterPipeline for a dataset. It is
// invoked at most once per ChunkedDatasetReader, regardless of how many
// chunks are subsequently decoded.
type FilterPipelineFactory func() (FilterPipeline, error)

// noFilterPipeline is returned by NoFilters; Decode is the identity
// function and there are no filters to describe.
type noFilterPipeline struct{}

func (noFilterPipeline) Decode(data []byte, _ uint32) ([]byte, error) { return data, nil }
func (noFilterPipeline) Descriptors() []Descriptor                    { return nil }

// NoFilters is a FilterPipelineFactory for datasets with no filter
// pipeline message: chunks are copied out verbatim.
func NoFilters() (FilterPipeline, error) { return noFilterPipeline{}, nil }

// ChunkedDatasetReader materializes a chunked HDF5-style dataset, in
// whole or in hyperslab selections, from a chunk index and a backing
// store. It owns no parsing logic of its own; everything it needs is
// supplied by the caller through ChunkIndexProvider, FilterPipelineFactory
// and BackingStorage.
type ChunkedDatasetReader struct {
	Storage       BackingStorage
	Index         ChunkIndexProvider
	FilterFactory FilterPipelineFactory

	// DatasetDims and ChunkDims are element counts per dimension, not
	// byte counts; ElementSize converts between the two.
	DatasetDims []uint64
	ChunkDims   []uint64
	ElementSize uint64

	lookupOnce sync.Once
	lookup     ChunkLookup
	lookupErr  error

	pipelineOnce sync.Once
	pipeline     FilterPipeline
	pipelineErr  error

	offsetTable     *InternalOffsetTable
	offsetTableErr  error
	offsetTableOnce sync.Once
}

// NewChunkedDatasetReader constructs a reader over the given chunk index,
// filter factory and backing store. filterFactory may be NoFilters.
func NewChunkedDatasetReader(storage BackingStorage, index ChunkIndexProvider, filterFactory FilterPipelineFactory, datasetDims, chunkDims []uint64, elementSize uint64) (*ChunkedDatasetReader, error) {
	if len(datasetDims) != len(chunkDims) {
		return nil, &DimensionOverflowError{Detail: fmt.Sprintf("dataset rank %d does not match chunk rank %d", len(datasetDims), len(chunkDims))}
	}
	if elementSize == 0 {
		return nil, &DimensionOverflowError{Detail: "element size must be non-zero"}
	}
	if filterFactory == nil {
		filterFactory = NoFilters
	}
	return &ChunkedDatasetReader{
		Storage:       storage,
		Index:         index,
		FilterFactory: filterFactory,
		DatasetDims:   datasetDims,
		ChunkDims:     chunkDims,
		ElementSize:   elementSize,
	}, nil
}

// chunkLookup returns the dataset's chunk index, built exactly once.
func (cr *ChunkedDatasetReader) chunkLookup() (ChunkLookup, error) {
	cr.lookupOnce.Do(func() {
		cr.lookup, cr.lookupErr = cr.Index.ChunkLookup()
	})
	return cr.lookup, cr.lookupErr
}

// filterPipeline returns the dataset's lazily-constructed filter
// pipeline. Every caller, including concurrent ones from FullReader's
// fan-out, observes the same pipeline instance or the same error.
func (cr *ChunkedDatasetReader) filterPipeline() (FilterPipeline, error) {
	cr.pipelineOnce.Do(func() {
		cr.pipeline, cr.pipelineErr = cr.FilterFactory()
		if cr.pipelineErr != nil {
			cr.pipelineErr = &FilterInitError{Cause: cr.pipelineErr}
		}
	})
	return cr.pipeline, cr.pipelineErr
}

// rowTable returns the dataset's precomputed per-chunk row layout,
// built exactly once and shared by every chunk of identical ChunkDims.
func (cr *ChunkedDatasetReader) rowTable() (*InternalOffsetTable, error) {
	cr.offsetTableOnce.Do(func() {
		cr.offsetTable, cr.offsetTableErr = BuildInternalOffsetTable(cr.ChunkDims, cr.ElementSize)
	})
	return cr.offsetTable, cr.offsetTableErr
}
