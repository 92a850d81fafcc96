// Package chunkread implements the generic chunked-dataset read engine:
// row-major stride arithmetic, chunk geometry, lazy filter decoding, and
// both whole-dataset and hyperslab materialization over an arbitrary
// chunk index and backing store.
//
// The package has no dependency on the HDF5 object-header/B-tree parsing
// in internal/core; callers adapt their own chunk index into a
// ChunkIndexProvider and their own filter metadata into a
// FilterPipelineFactory.
package chunkread
