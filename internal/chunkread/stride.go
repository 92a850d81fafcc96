package chunkread

import (
	"fmt"
	"math"

	"github.com/h5lite/hdf5/internal/utils"
)

// Strides computes row-major (C-order) element strides for shape.
// Strides[len(shape)-1] is always 1; Strides[i] is the number of elements
// between consecutive indices along dimension i.
func Strides(shape []uint64) ([]uint64, error) {
	ndims := len(shape)
	strides := make([]uint64, ndims)
	if ndims == 0 {
		return strides, nil
	}

	strides[ndims-1] = 1
	for i := ndims - 2; i >= 0; i-- {
		next, err := utils.SafeMultiply(strides[i+1], shape[i+1])
		if err != nil {
			return nil, fmt.Errorf("stride overflow at dimension %d: %w", i, err)
		}
		strides[i] = next
	}
	return strides, nil
}

// LinearToIndex decomposes a row-major linear element index k into its
// multi-dimensional coordinates within shape.
func LinearToIndex(k uint64, shape []uint64) []uint64 {
	ndims := len(shape)
	idx := make([]uint64, ndims)
	for i := ndims - 1; i >= 0; i-- {
		if shape[i] == 0 {
			continue
		}
		idx[i] = k % shape[i]
		k /= shape[i]
	}
	return idx
}

// IndexToLinear composes multi-dimensional coordinates idx within shape
// into a row-major linear element index, using checked arithmetic so a
// corrupt or adversarial shape cannot silently wrap around.
func IndexToLinear(idx, shape []uint64) (uint64, error) {
	if len(idx) != len(shape) {
		return 0, fmt.Errorf("index/shape dimension mismatch: %d vs %d", len(idx), len(shape))
	}

	strides, err := Strides(shape)
	if err != nil {
		return 0, err
	}

	var linear uint64
	for i := range idx {
		term, err := utils.SafeMultiply(idx[i], strides[i])
		if err != nil {
			return 0, fmt.Errorf("linear index overflow at dimension %d: %w", i, err)
		}
		if linear > math.MaxUint64-term {
			return 0, fmt.Errorf("linear index overflow accumulating dimension %d", i)
		}
		linear += term
	}
	return linear, nil
}

// incrementOdometer advances idx by one in row-major order within bounds,
// returning false once idx has wrapped past the last element (all zero).
// Used to walk N-dimensional spaces without recursion.
func incrementOdometer(idx, bounds []uint64) bool {
	for i := len(idx) - 1; i >= 0; i-- {
		idx[i]++
		if idx[i] < bounds[i] {
			return true
		}
		idx[i] = 0
	}
	return false
}
