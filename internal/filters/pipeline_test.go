package filters

import (
	"testing"

	"github.com/h5lite/hdf5/internal/chunkread"
	"github.com/stretchr/testify/require"
)

func TestPipeline_Decode(t *testing.T) {
	tests := []struct {
		name       string
		specs      []Spec
		data       []byte
		filterMask uint32
		want       []byte
		wantErr    bool
	}{
		{
			name:  "no filters",
			specs: nil,
			data:  []byte{0x01, 0x02, 0x03},
			want:  []byte{0x01, 0x02, 0x03},
		},
		{
			name:  "single shuffle filter",
			specs: []Spec{{ID: IDShuffle, ClientData: []uint32{2}}},
			data:  []byte{0x01, 0x02, 0xAA, 0xBB},
			want:  []byte{0x01, 0xAA, 0x02, 0xBB},
		},
		{
			name: "shuffle then deflate, decoded in reverse",
			specs: []Spec{
				{ID: IDShuffle, ClientData: []uint32{2}},
				{ID: IDDeflate},
			},
			data: zlibCompressForPipelineTest(t, []byte{0x01, 0x02, 0xAA, 0xBB}),
			want: []byte{0x01, 0xAA, 0x02, 0xBB},
		},
		{
			name: "required filter failure is fatal",
			specs: []Spec{
				{ID: IDSZIP},
			},
			data:    []byte{0x01, 0x02, 0x03, 0x04},
			wantErr: true,
		},
		{
			name: "optional filter failure is swallowed",
			specs: []Spec{
				{ID: IDSZIP, Flags: 0x0001},
			},
			data: []byte{0x01, 0x02, 0x03, 0x04},
			want: []byte{0x01, 0x02, 0x03, 0x04},
		},
		{
			name: "filter mask skips the indexed filter",
			specs: []Spec{
				{ID: IDShuffle, ClientData: []uint32{2}},
			},
			data:       []byte{0x01, 0x02, 0xAA, 0xBB},
			filterMask: 1 << 0,
			want:       []byte{0x01, 0x02, 0xAA, 0xBB},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline(tt.specs)
			got, err := p.Decode(tt.data, tt.filterMask)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPipeline_Decode_NilPipeline(t *testing.T) {
	var p *Pipeline
	got, err := p.Decode([]byte{1, 2, 3}, 0)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, got)
}

func TestPipeline_Descriptors(t *testing.T) {
	p := NewPipeline([]Spec{
		{ID: IDShuffle, ClientData: []uint32{4}},
		{ID: IDDeflate, Flags: 0x0001},
	})

	got := p.Descriptors()
	require.Len(t, got, 2)
	require.Equal(t, chunkread.Descriptor{ID: uint16(IDShuffle), Name: "shuffle", ClientData: []uint32{4}}, got[0])
	require.Equal(t, chunkread.Descriptor{ID: uint16(IDDeflate), Name: "deflate", Flags: 0x0001}, got[1])
}

func TestPipeline_Descriptors_NilPipeline(t *testing.T) {
	var p *Pipeline
	require.Nil(t, p.Descriptors())
}

func zlibCompressForPipelineTest(t *testing.T, data []byte) []byte {
	t.Helper()
	return zlibCompress(t, data)
}
