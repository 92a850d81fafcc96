package core

import (
	"errors"
	"fmt"
	"io"

	"github.com/h5lite/hdf5/internal/chunkread"
)

// BuildChunkedReader extracts a dataset's datatype, dataspace, layout and
// filter pipeline messages from header and, if the dataset is chunked,
// constructs the chunkread engine over it. It returns an error for any
// other layout class; callers that only care about raw chunk-level
// access should check for that case themselves.
func BuildChunkedReader(r io.ReaderAt, header *ObjectHeader, sb *Superblock) (*chunkread.ChunkedDatasetReader, error) {
	var datatypeMsg, dataspaceMsg, layoutMsg, filterPipelineMsg *HeaderMessage

	for _, msg := range header.Messages {
		switch msg.Type {
		case MsgDatatype:
			datatypeMsg = msg
		case MsgDataspace:
			dataspaceMsg = msg
		case MsgDataLayout:
			layoutMsg = msg
		case MsgFilterPipeline:
			filterPipelineMsg = msg
		}
	}

	if datatypeMsg == nil || dataspaceMsg == nil || layoutMsg == nil {
		return nil, errors.New("missing required messages for chunked dataset")
	}

	datatype, err := ParseDatatypeMessage(datatypeMsg.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse datatype: %w", err)
	}

	dataspace, err := ParseDataspaceMessage(dataspaceMsg.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataspace: %w", err)
	}

	layout, err := ParseDataLayoutMessage(layoutMsg.Data, sb)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	if !layout.IsChunked() {
		return nil, fmt.Errorf("dataset layout class %d is not chunked", layout.Class)
	}

	var filterPipeline *FilterPipelineMessage
	if filterPipelineMsg != nil {
		filterPipeline, err = ParseFilterPipelineMessage(filterPipelineMsg.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse filter pipeline: %w", err)
		}
	}

	dataDims := dataspace.Dimensions
	chunkDims := layout.ChunkSize[:len(dataDims)]

	index := NewBTreeChunkIndex(r, layout.DataAddress, sb.OffsetSize, layout.ChunkSize, dataDims)
	filterFactory := NewFilterPipelineFactory(filterPipeline)

	return chunkread.NewChunkedDatasetReader(r, index, filterFactory, dataDims, chunkDims, uint64(datatype.Size))
}
