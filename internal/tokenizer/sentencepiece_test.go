package tokenizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/zapr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/born-ml/datapipe/internal/data"
	"github.com/born-ml/datapipe/internal/logging"
	"github.com/born-ml/datapipe/internal/sentencepiece"
)

func writeCharModel(t *testing.T, name string) string {
	t.Helper()
	p := sentencepiece.NewModelProto()
	p.TrainerSpec.ModelType = sentencepiece.ModelChar
	p.NormalizerSpec.Name = "identity"
	p.Pieces = []sentencepiece.SentencePiece{
		{Piece: "<unk>", Type: sentencepiece.PieceUnknown},
		{Piece: "<s>", Type: sentencepiece.PieceControl},
		{Piece: "</s>", Type: sentencepiece.PieceControl},
		{Piece: "▁", Type: sentencepiece.PieceNormal},
		{Piece: "a", Type: sentencepiece.PieceNormal},
		{Piece: "b", Type: sentencepiece.PieceNormal},
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, p.Marshal(), 0o600))
	return path
}

func TestSentencePiece_Tokenizer(t *testing.T) {
	tok, err := LoadSentencePiece(writeCharModel(t, "char.model"), []string{sentencepiece.LegacyPadToken})
	require.NoError(t, err)

	var _ Tokenizer = tok
	var _ data.TextEncoder = tok

	assert.Equal(t, 7, tok.VocabSize())
	assert.Equal(t, int32(0), tok.PadToken())
	assert.Equal(t, int32(1), tok.UnkToken())
	assert.Equal(t, int32(2), tok.BosToken())
	assert.Equal(t, int32(3), tok.EosToken())

	ids, err := tok.Encode("ab ba")
	require.NoError(t, err)
	assert.Equal(t, []int32{4, 5, 6, 4, 6, 5}, ids)

	text, err := tok.Decode(ids)
	require.NoError(t, err)
	assert.Equal(t, "ab ba", text)

	text, err = tok.Decode(append([]int32{tok.BosToken()}, ids...))
	require.NoError(t, err)
	assert.Equal(t, "ab ba", text)

	_, err = tok.Decode([]int32{99})
	assert.ErrorIs(t, err, sentencepiece.ErrRange)

	assert.True(t, tok.IsSpecialToken(0))
	assert.True(t, tok.IsSpecialToken(1))
	assert.False(t, tok.IsSpecialToken(5))
}

func TestSentencePiece_Sample(t *testing.T) {
	tok, err := LoadSentencePiece(writeCharModel(t, "char.model"), []string{sentencepiece.PadToken}, WithProcessorOptions(sentencepiece.WithSeed(3)))
	require.NoError(t, err)

	want, err := tok.Encode("ab")
	require.NoError(t, err)

	got, err := tok.Sample("ab", -1, 0.5)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSentencePiece_LoadErrors(t *testing.T) {
	_, err := LoadSentencePiece(filepath.Join(t.TempDir(), "missing.model"), []string{sentencepiece.PadToken})
	assert.ErrorIs(t, err, sentencepiece.ErrNotFound)

	_, err = LoadSentencePiece(writeCharModel(t, "char.model"), nil)
	assert.ErrorIs(t, err, sentencepiece.ErrConfig)
}

func TestAutoLoad(t *testing.T) {
	t.Run("model extension", func(t *testing.T) {
		tok, err := AutoLoad(writeCharModel(t, "spm.model"), []string{sentencepiece.PadToken})
		require.NoError(t, err)
		assert.IsType(t, &SentencePiece{}, tok)
	})

	t.Run("existing file", func(t *testing.T) {
		tok, err := AutoLoad(writeCharModel(t, "vocab.bin"), []string{sentencepiece.PadToken})
		require.NoError(t, err)
		assert.Equal(t, int32(6), tok.PadToken())
	})

	t.Run("missing model file", func(t *testing.T) {
		_, err := AutoLoad(filepath.Join(t.TempDir(), "missing.model"), nil)
		assert.ErrorIs(t, err, sentencepiece.ErrNotFound)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := AutoLoad("definitely-not-a-tokenizer", nil)
		assert.ErrorIs(t, err, ErrNoTokenizer)
	})
}

func TestAutoLoad_LoggerReachesLoader(t *testing.T) {
	core, logs := observer.New(zapcore.Level(-logging.DEBUG))
	log := zapr.NewLogger(zap.New(core))

	_, err := AutoLoad(writeCharModel(t, "spm.model"), []string{sentencepiece.PadToken}, WithLogger(log))
	require.NoError(t, err)

	assert.Equal(t, 3, logs.FilterMessage("Model loader stage complete").Len())
	assert.Equal(t, 1, logs.FilterMessage("SentencePiece processor ready").Len())

	loaded := logs.FilterMessage("Tokenizer loaded").All()
	require.Len(t, loaded, 1)
	assert.Equal(t, "sentencepiece", loaded[0].ContextMap()["backend"])
}
