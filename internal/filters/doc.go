// Package filters implements the HDF5 chunk filter pipeline used to
// decode stored chunk bytes back into their uncompressed form: deflate,
// shuffle, Fletcher32, SZIP (rejected), and the dynamically-registered
// zstd and lz4 codecs.
//
// The package has no dependency on internal/core; callers adapt a
// dataset's parsed filter-pipeline message into a slice of Spec.
package filters
