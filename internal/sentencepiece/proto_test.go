package sentencepiece

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestModelProto_RoundTrip(t *testing.T) {
	p := unigramProto()
	p.TrainerSpec.ByteFallback = true
	p.TrainerSpec.PadID = 3
	p.TrainerSpec.UnkSurface = "?"
	p.NormalizerSpec.Name = "nmt_nfkc"
	p.NormalizerSpec.PrecompiledCharsmap = []byte{1, 2, 3}
	p.NormalizerSpec.AddDummyPrefix = false

	got, err := ParseModelProto(p.Marshal())
	require.NoError(t, err)

	if diff := cmp.Diff(p, got, cmp.AllowUnexported(ModelProto{}, SentencePiece{}, TrainerSpec{}, NormalizerSpec{}), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestModelProto_Defaults(t *testing.T) {
	got, err := ParseModelProto(nil)
	require.NoError(t, err)

	assert.Empty(t, got.Pieces)
	assert.Equal(t, ModelUnigram, got.TrainerSpec.ModelType)
	assert.Equal(t, DefaultPadPiece, got.TrainerSpec.PadPiece)
	assert.Equal(t, int32(-1), got.TrainerSpec.PadID)
	assert.Equal(t, DefaultUnkSurface, got.TrainerSpec.UnkSurface)
	assert.True(t, got.NormalizerSpec.AddDummyPrefix)
	assert.True(t, got.NormalizerSpec.RemoveExtraWhitespaces)
	assert.True(t, got.NormalizerSpec.EscapeWhitespaces)
}

func TestModelProto_PieceTypeDefaultsToNormal(t *testing.T) {
	var piece []byte
	piece = protowire.AppendTag(piece, pieceString, protowire.BytesType)
	piece = protowire.AppendString(piece, "x")

	var raw []byte
	raw = protowire.AppendTag(raw, modelPieces, protowire.BytesType)
	raw = protowire.AppendBytes(raw, piece)

	got, err := ParseModelProto(raw)
	require.NoError(t, err)
	require.Len(t, got.Pieces, 1)
	assert.Equal(t, PieceNormal, got.Pieces[0].Type)
}

func TestModelProto_PreservesUnknownFields(t *testing.T) {
	raw := unigramProto().Marshal()
	raw = protowire.AppendTag(raw, 99, protowire.VarintType)
	raw = protowire.AppendVarint(raw, 42)
	raw = protowire.AppendTag(raw, 100, protowire.BytesType)
	raw = protowire.AppendString(raw, "self test data")

	got, err := ParseModelProto(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, got.Marshal())
}

func TestModelProto_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"truncated tag", []byte{0xff, 0xff}},
		{"truncated length", []byte{0x0a, 0x05, 0x01}},
		{"bad nested piece", []byte{0x0a, 0x02, 0x0a, 0x05}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModelProto(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestPieceType_String(t *testing.T) {
	assert.Equal(t, "CONTROL", PieceControl.String())
	assert.Equal(t, "BYTE", PieceByte.String())
	assert.Equal(t, "PieceType(9)", PieceType(9).String())
	assert.Equal(t, "BPE", ModelBPE.String())
}
