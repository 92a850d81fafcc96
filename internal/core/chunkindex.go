package core

import (
	"io"

	"github.com/h5lite/hdf5/internal/chunkread"
)

// btreeChunkIndex adapts a B-tree v1 chunk index into a
// chunkread.ChunkIndexProvider. dataDims is the dataset's own rank;
// chunkDims may carry one extra trailing dimension for the element size,
// per HDF5's "fastest-varying dimension is bytes" convention, and is
// trimmed back down to dataDims' rank before building offsets.
type btreeChunkIndex struct {
	r           io.ReaderAt
	dataAddress uint64
	offsetSize  uint8
	chunkDims   []uint64
	dataDims    []uint64
}

// NewBTreeChunkIndex builds a chunkread.ChunkIndexProvider backed by the
// B-tree v1 chunk index rooted at dataAddress.
func NewBTreeChunkIndex(r io.ReaderAt, dataAddress uint64, offsetSize uint8, chunkDims, dataDims []uint64) chunkread.ChunkIndexProvider {
	return &btreeChunkIndex{
		r:           r,
		dataAddress: dataAddress,
		offsetSize:  offsetSize,
		chunkDims:   chunkDims,
		dataDims:    dataDims,
	}
}

// ChunkLookup parses the B-tree and converts every chunk's scaled
// coordinates into an element-space offset keyed the way chunkread
// expects.
func (idx *btreeChunkIndex) ChunkLookup() (chunkread.ChunkLookup, error) {
	ndims := len(idx.chunkDims)

	btree, err := ParseBTreeV1Node(idx.r, idx.dataAddress, idx.offsetSize, ndims, idx.chunkDims)
	if err != nil {
		return nil, err
	}

	entries, err := btree.CollectAllChunks(idx.r, idx.offsetSize, idx.chunkDims)
	if err != nil {
		return nil, err
	}

	rank := len(idx.dataDims)
	lookup := make(chunkread.ChunkLookup, len(entries))
	for _, entry := range entries {
		scaled := entry.Key.Scaled[:rank]
		actualChunkDims := idx.chunkDims[:rank]

		offset := make([]uint64, rank)
		for i, s := range scaled {
			offset[i] = s * actualChunkDims[i]
		}

		lookup[chunkread.EncodeOffsetKey(offset)] = &chunkread.Chunk{
			Offset:     offset,
			Address:    entry.Address,
			Size:       uint64(entry.Key.Nbytes),
			FilterMask: entry.Key.FilterMask,
		}
	}

	return lookup, nil
}
