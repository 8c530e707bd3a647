package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// tiktokenEncoding describes the ids tiktoken-go does not expose.
type tiktokenEncoding struct {
	vocabSize    int
	endOfText    int32
	specialFirst int32 // First reserved special id, -1 if none beyond endOfText
	specialLast  int32
}

var tiktokenEncodings = map[string]tiktokenEncoding{
	"cl100k_base": {vocabSize: 100256, endOfText: 100257, specialFirst: 100256, specialLast: 100276},
	"p50k_base":   {vocabSize: 50257, endOfText: 50256, specialFirst: -1, specialLast: -1},
	"r50k_base":   {vocabSize: 50257, endOfText: 50256, specialFirst: -1, specialLast: -1},
}

// modelEncodings maps model names to encodings for names tiktoken-go may
// not know.
var modelEncodings = map[string]string{
	"gpt-4":                  "cl100k_base",
	"gpt-3.5-turbo":          "cl100k_base",
	"text-embedding-ada-002": "cl100k_base",
	"gpt-3":                  "p50k_base",
	"text-davinci-003":       "p50k_base",
}

// TikToken wraps the pkoukk/tiktoken-go library for OpenAI encodings.
type TikToken struct {
	encoding *tiktoken.Tiktoken
	name     string
	meta     tiktokenEncoding
}

// NewTikToken returns a tokenizer for the named encoding.
func NewTikToken(encodingName string) (*TikToken, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}
	return newTikToken(encoding, encodingName, encodingName), nil
}

// NewTikTokenForModel returns a tokenizer for a model name such as "gpt-4".
func NewTikTokenForModel(modelName string) (*TikToken, error) {
	if enc, ok := modelEncodings[modelName]; ok {
		encoding, err := tiktoken.GetEncoding(enc)
		if err != nil {
			return nil, fmt.Errorf("failed to load tiktoken encoding %q for model %q: %w", enc, modelName, err)
		}
		return newTikToken(encoding, modelName, enc), nil
	}

	encoding, err := tiktoken.EncodingForModel(modelName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken for model %q: %w", modelName, err)
	}
	return newTikToken(encoding, modelName, ""), nil
}

func newTikToken(encoding *tiktoken.Tiktoken, name, encodingName string) *TikToken {
	meta, ok := tiktokenEncodings[encodingName]
	if !ok {
		meta = tiktokenEncoding{vocabSize: 100000, endOfText: -1, specialFirst: -1, specialLast: -1}
	}
	return &TikToken{encoding: encoding, name: name, meta: meta}
}

// Encode converts text to token IDs.
func (t *TikToken) Encode(text string) ([]int32, error) {
	tokens := t.encoding.Encode(text, nil, nil)

	ids := make([]int32, len(tokens))
	for i, tok := range tokens {
		ids[i] = int32(tok) //nolint:gosec // G115: Token ID fits in int32 - vocab size < 2^31.
	}
	return ids, nil
}

// Decode converts token IDs back to text.
func (t *TikToken) Decode(tokens []int32) (string, error) {
	ids := make([]int, len(tokens))
	for i, tok := range tokens {
		ids[i] = int(tok)
	}
	return t.encoding.Decode(ids), nil
}

// VocabSize returns the size of the regular vocabulary.
func (t *TikToken) VocabSize() int {
	return t.meta.vocabSize
}

// BosToken returns -1: tiktoken encodings have no BOS token.
func (t *TikToken) BosToken() int32 {
	return -1
}

// EosToken returns the <|endoftext|> id.
func (t *TikToken) EosToken() int32 {
	return t.meta.endOfText
}

// PadToken returns -1: tiktoken encodings have no padding token.
func (t *TikToken) PadToken() int32 {
	return -1
}

// UnkToken returns -1: byte-level BPE never produces an unknown token.
func (t *TikToken) UnkToken() int32 {
	return -1
}

// IsSpecialToken reports whether token is <|endoftext|> or a reserved id.
func (t *TikToken) IsSpecialToken(token int32) bool {
	if token == t.meta.endOfText {
		return true
	}
	return t.meta.specialFirst >= 0 && token >= t.meta.specialFirst && token <= t.meta.specialLast
}

// Name returns the encoding or model name the tokenizer was created with.
func (t *TikToken) Name() string {
	return t.name
}
