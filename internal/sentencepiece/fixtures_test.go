package sentencepiece

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func normal(piece string, score float32) SentencePiece {
	return SentencePiece{Piece: piece, Score: score, Type: PieceNormal}
}

func typed(piece string, typ PieceType) SentencePiece {
	return SentencePiece{Piece: piece, Type: typ}
}

// newTestProto returns a model with identity normalization and the given pieces.
func newTestProto(typ ModelType, pieces ...SentencePiece) *ModelProto {
	p := NewModelProto()
	p.TrainerSpec.ModelType = typ
	p.NormalizerSpec.Name = "identity"
	p.Pieces = append(p.Pieces, pieces...)
	return p
}

// unigramProto is a small English unigram model.
//
//	0 <unk>  1 <s>  2 </s>  3 ▁hello  4 ▁world  5 ▁  6 he  7 ll  8.. single letters
func unigramProto() *ModelProto {
	return newTestProto(ModelUnigram,
		typed("<unk>", PieceUnknown),
		typed("<s>", PieceControl),
		typed("</s>", PieceControl),
		normal("▁hello", -1),
		normal("▁world", -1),
		normal("▁", -3),
		normal("he", -3),
		normal("ll", -3),
		normal("h", -4),
		normal("e", -4),
		normal("l", -4),
		normal("o", -4),
		normal("w", -4),
		normal("r", -4),
		normal("d", -4),
	)
}

// bpeProto is a BPE model over "abc" with the given merge scores.
func bpeProto(ab, bc float32) *ModelProto {
	return newTestProto(ModelBPE,
		typed("<unk>", PieceUnknown),
		typed("<s>", PieceControl),
		typed("</s>", PieceControl),
		normal("▁", 0),
		normal("a", 0),
		normal("b", 0),
		normal("c", 0),
		normal("ab", ab),
		normal("bc", bc),
	)
}

// byteFallbackProto is a BPE model with all 256 byte pieces.
func byteFallbackProto() *ModelProto {
	p := newTestProto(ModelBPE,
		typed("<unk>", PieceUnknown),
		typed("<s>", PieceControl),
		typed("</s>", PieceControl),
		normal("▁", 0),
		normal("h", 0),
		normal("▁h", 1),
	)
	for b := range 256 {
		p.Pieces = append(p.Pieces, typed(bytePiece(byte(b)), PieceByte))
	}
	p.TrainerSpec.ByteFallback = true
	return p
}

func writeModel(t testing.TB, p *ModelProto) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spm.model")
	require.NoError(t, os.WriteFile(path, p.Marshal(), 0o600))
	return path
}

// newTestProcessor writes p, loads it with a pad token appended and returns a
// processor for it.
func newTestProcessor(t testing.TB, p *ModelProto, opts ...ProcessorOption) *Processor {
	t.Helper()
	proc, err := NewProcessorFromFile(writeModel(t, p), ModelOptions{ControlTokens: []string{PadToken}}, opts...)
	require.NoError(t, err)
	return proc
}
