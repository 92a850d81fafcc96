package chunkread

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeOffsetKey(t *testing.T) {
	require.Equal(t, "0,0", EncodeOffsetKey([]uint64{0, 0}))
	require.Equal(t, "2,4,6", EncodeOffsetKey([]uint64{2, 4, 6}))
	require.NotEqual(t, EncodeOffsetKey([]uint64{1, 2}), EncodeOffsetKey([]uint64{12})) // no delimiter collision
}

func TestNewChunkedDatasetReader_RankMismatch(t *testing.T) {
	_, err := NewChunkedDatasetReader(&memoryStorage{}, &staticIndex{}, NoFilters,
		[]uint64{4, 4}, []uint64{2}, 1)
	require.Error(t, err)
	var dimErr *DimensionOverflowError
	require.ErrorAs(t, err, &dimErr)
}

func TestNewChunkedDatasetReader_ZeroElementSize(t *testing.T) {
	_, err := NewChunkedDatasetReader(&memoryStorage{}, &staticIndex{}, NoFilters,
		[]uint64{4, 4}, []uint64{2, 2}, 0)
	require.Error(t, err)
}

func TestNewChunkedDatasetReader_NilFilterFactoryDefaultsToNoFilters(t *testing.T) {
	reader, err := NewChunkedDatasetReader(&memoryStorage{}, &staticIndex{lookup: ChunkLookup{}}, nil,
		[]uint64{4, 4}, []uint64{2, 2}, 1)
	require.NoError(t, err)

	pipeline, err := reader.Filters()
	require.NoError(t, err)
	out, err := pipeline.Decode([]byte{1, 2, 3}, 0)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, out)
}

func TestChunkLookup_CachedAcrossCalls(t *testing.T) {
	calls := 0
	lookup := ChunkLookup{EncodeOffsetKey([]uint64{0, 0}): chunk([]uint64{0, 0}, 0, 4)}
	index := countingIndex{lookup: lookup, calls: &calls}

	reader, err := NewChunkedDatasetReader(&memoryStorage{data: []byte{1, 2, 3, 4}}, index, NoFilters,
		[]uint64{2, 2}, []uint64{2, 2}, 1)
	require.NoError(t, err)

	_, err = reader.IsEmpty()
	require.NoError(t, err)
	_, err = reader.StorageInBytes()
	require.NoError(t, err)
	_, err = reader.RawChunkBufferAt([]uint64{0, 0})
	require.NoError(t, err)

	require.Equal(t, 1, calls)
}

type countingIndex struct {
	lookup ChunkLookup
	calls  *int
}

func (c countingIndex) ChunkLookup() (ChunkLookup, error) {
	*c.calls++
	return c.lookup, nil
}
