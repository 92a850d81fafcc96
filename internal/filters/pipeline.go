package filters

import (
	"fmt"

	"github.com/h5lite/hdf5/internal/chunkread"
)

// ID identifies an HDF5 filter, matching the registered filter IDs in the
// HDF Group's filter registry.
type ID uint16

// Filter identifier constants for every codec this package decodes.
const (
	IDDeflate   ID = 1     // GZIP/deflate compression.
	IDShuffle   ID = 2     // Byte-shuffle transform.
	IDFletcher  ID = 3     // Fletcher32 checksum.
	IDSZIP      ID = 4     // SZIP compression (unsupported: no pure-Go implementation).
	IDNBit      ID = 5     // N-bit packing (unsupported).
	IDScaleOff  ID = 6     // Scale-offset (unsupported).
	IDLZ4       ID = 32004 // Dynamically-registered LZ4 codec.
	IDZstandard ID = 32015 // Dynamically-registered Zstandard codec.
)

// Spec describes one filter in a pipeline, independent of how the caller
// parsed it off disk.
type Spec struct {
	ID         ID
	Flags      uint16
	ClientData []uint32
}

// optionalFlag mirrors H5Z_FLAG_OPTIONAL: a filter so flagged is skipped,
// not fatal, when its decode fails.
const optionalFlag = 0x0001

// Pipeline is an ordered sequence of filters applied to every chunk of
// one dataset.
type Pipeline struct {
	specs []Spec
}

// NewPipeline builds a Pipeline from specs, in the order they were
// applied during compression (i.e. decode walks them in reverse).
func NewPipeline(specs []Spec) *Pipeline {
	return &Pipeline{specs: append([]Spec(nil), specs...)}
}

// Descriptors returns a chunkread.Descriptor for every filter in the
// pipeline, in the order they were applied during compression. This is
// what makes Pipeline satisfy chunkread.FilterPipeline's introspection
// half, alongside Decode.
func (p *Pipeline) Descriptors() []chunkread.Descriptor {
	if p == nil {
		return nil
	}
	out := make([]chunkread.Descriptor, len(p.specs))
	for i, spec := range p.specs {
		out[i] = chunkread.Descriptor{
			ID:         uint16(spec.ID),
			Name:       name(spec.ID),
			Flags:      spec.Flags,
			ClientData: append([]uint32(nil), spec.ClientData...),
		}
	}
	return out
}

// Decode reverses every filter in the pipeline, skipping any filter whose
// bit is set in filterMask (HDF5's per-chunk filter-exclusion mask) and
// tolerating failures from filters flagged optional.
func (p *Pipeline) Decode(data []byte, filterMask uint32) ([]byte, error) {
	if p == nil || len(p.specs) == 0 {
		return data, nil
	}

	result := data
	for i := len(p.specs) - 1; i >= 0; i-- {
		spec := p.specs[i]

		if filterMask&(1<<uint(i)) != 0 {
			continue
		}

		decoded, err := decodeOne(spec, result)
		if err != nil {
			if spec.Flags&optionalFlag != 0 {
				continue
			}
			return nil, fmt.Errorf("filter %d (%s) failed: %w", spec.ID, name(spec.ID), err)
		}
		result = decoded
	}

	return result, nil
}

func decodeOne(spec Spec, data []byte) ([]byte, error) {
	switch spec.ID {
	case IDDeflate:
		return decodeDeflate(data)
	case IDShuffle:
		return decodeShuffle(data, spec.ClientData)
	case IDFletcher:
		return decodeFletcher32(data)
	case IDLZ4:
		return decodeLZ4(data)
	case IDZstandard:
		return decodeZstd(data)
	case IDSZIP:
		return decodeSZIP(data)
	default:
		return nil, fmt.Errorf("unsupported filter ID: %d", spec.ID)
	}
}

func name(id ID) string {
	switch id {
	case IDDeflate:
		return "deflate"
	case IDShuffle:
		return "shuffle"
	case IDFletcher:
		return "fletcher32"
	case IDSZIP:
		return "szip"
	case IDNBit:
		return "n-bit"
	case IDScaleOff:
		return "scale-offset"
	case IDLZ4:
		return "lz4"
	case IDZstandard:
		return "zstd"
	default:
		return fmt.Sprintf("unknown-%d", id)
	}
}
