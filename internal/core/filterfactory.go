package core

import (
	"github.com/h5lite/hdf5/internal/chunkread"
	"github.com/h5lite/hdf5/internal/filters"
)

// NewFilterPipelineFactory adapts a parsed filter pipeline message into a
// chunkread.FilterPipelineFactory. A nil message (no filter pipeline
// message on the dataset) yields chunkread.NoFilters.
func NewFilterPipelineFactory(msg *FilterPipelineMessage) chunkread.FilterPipelineFactory {
	specs := filterSpecs(msg)
	if specs == nil {
		return chunkread.NoFilters
	}

	return func() (chunkread.FilterPipeline, error) {
		return filters.NewPipeline(specs), nil
	}
}

// filterSpecs converts a parsed filter pipeline message into filters.Spec
// values, or nil if the dataset has no filter pipeline at all.
func filterSpecs(msg *FilterPipelineMessage) []filters.Spec {
	if msg == nil || len(msg.Filters) == 0 {
		return nil
	}

	specs := make([]filters.Spec, len(msg.Filters))
	for i, f := range msg.Filters {
		specs[i] = filters.Spec{
			ID:         filters.ID(f.ID),
			Flags:      f.Flags,
			ClientData: f.ClientData,
		}
	}
	return specs
}
