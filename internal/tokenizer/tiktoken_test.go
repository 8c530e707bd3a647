package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadTikToken skips the test when the BPE ranks cannot be fetched.
func loadTikToken(t *testing.T, encoding string) *TikToken {
	t.Helper()
	if testing.Short() {
		t.Skip("tiktoken downloads its BPE ranks")
	}
	tok, err := NewTikToken(encoding)
	if err != nil {
		t.Skipf("tiktoken encoding %s unavailable: %v", encoding, err)
	}
	return tok
}

func TestTikToken_Metadata(t *testing.T) {
	tests := []struct {
		encoding  string
		vocabSize int
		eos       int32
	}{
		{"cl100k_base", 100256, 100257},
		{"p50k_base", 50257, 50256},
		{"r50k_base", 50257, 50256},
	}

	for _, tt := range tests {
		t.Run(tt.encoding, func(t *testing.T) {
			tok := loadTikToken(t, tt.encoding)

			assert.Equal(t, tt.encoding, tok.Name())
			assert.Equal(t, tt.vocabSize, tok.VocabSize())
			assert.Equal(t, tt.eos, tok.EosToken())
			assert.Equal(t, int32(-1), tok.BosToken())
			assert.Equal(t, int32(-1), tok.PadToken())
			assert.Equal(t, int32(-1), tok.UnkToken())
		})
	}
}

func TestTikToken_InvalidEncoding(t *testing.T) {
	tok, err := NewTikToken("invalid_encoding_xyz")
	assert.Error(t, err)
	assert.Nil(t, tok)
}

func TestTikToken_Roundtrip(t *testing.T) {
	tok := loadTikToken(t, "cl100k_base")

	for _, text := range []string{
		"Hello, world!",
		"Hello\nWorld\n",
		"Hello 世界! 🌍",
		"",
		"The quick brown fox jumps over the lazy dog.",
	} {
		tokens, err := tok.Encode(text)
		require.NoError(t, err)

		decoded, err := tok.Decode(tokens)
		require.NoError(t, err)
		assert.Equal(t, text, decoded)
	}
}

func TestTikToken_SpecialTokens(t *testing.T) {
	tok := loadTikToken(t, "cl100k_base")

	assert.True(t, tok.IsSpecialToken(tok.EosToken()))
	assert.True(t, tok.IsSpecialToken(100256))
	assert.True(t, tok.IsSpecialToken(100276))
	assert.False(t, tok.IsSpecialToken(0))
	assert.False(t, tok.IsSpecialToken(1000))

	p50 := loadTikToken(t, "p50k_base")
	assert.True(t, p50.IsSpecialToken(50256))
	assert.False(t, p50.IsSpecialToken(50255))
}

func TestTikToken_ForModel(t *testing.T) {
	if testing.Short() {
		t.Skip("tiktoken downloads its BPE ranks")
	}

	tok, err := NewTikTokenForModel("gpt-4")
	if err != nil {
		t.Skipf("tiktoken unavailable: %v", err)
	}
	assert.Equal(t, "gpt-4", tok.Name())
	assert.Equal(t, int32(100257), tok.EosToken())

	_, err = NewTikTokenForModel("invalid-model-xyz")
	assert.Error(t, err)
}
