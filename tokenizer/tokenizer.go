// Package tokenizer exposes the text encoders behind one interface.
//
// Supported tokenizers:
//   - SentencePiece: Unigram, BPE, Word and Char models
//   - TikToken: OpenAI BPE encodings
//
// Example usage:
//
//	import "github.com/born-ml/datapipe/tokenizer"
//
//	tok, err := tokenizer.AutoLoad("spm.model", []string{"<pad>@0"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tokens, err := tok.Encode("Hello, world!")
//	if err != nil {
//	    log.Fatal(err)
//	}
package tokenizer

import (
	"github.com/born-ml/datapipe/internal/tokenizer"
)

// Tokenizer converts between text and token ids.
type Tokenizer = tokenizer.Tokenizer

// ErrNoTokenizer is returned by AutoLoad when nothing matches.
var ErrNoTokenizer = tokenizer.ErrNoTokenizer

// Option configures LoadSentencePiece and AutoLoad.
type Option = tokenizer.Option

// Options.
var (
	WithLogger           = tokenizer.WithLogger
	WithProcessorOptions = tokenizer.WithProcessorOptions
)

// NewTikToken creates a TikToken tokenizer with the specified encoding.
//
// Supported encodings: "cl100k_base", "p50k_base", "r50k_base".
func NewTikToken(encodingName string) (Tokenizer, error) {
	tok, err := tokenizer.NewTikToken(encodingName)
	if err != nil {
		return nil, err
	}
	return tok, nil
}

// NewTikTokenForModel creates a TikToken tokenizer for a specific model.
//
// Example models: "gpt-4", "gpt-3.5-turbo", "text-embedding-ada-002".
func NewTikTokenForModel(modelName string) (Tokenizer, error) {
	tok, err := tokenizer.NewTikTokenForModel(modelName)
	if err != nil {
		return nil, err
	}
	return tok, nil
}

// LoadSentencePiece loads a SentencePiece model with the given control tokens.
func LoadSentencePiece(path string, controlTokens []string, opts ...Option) (Tokenizer, error) {
	tok, err := tokenizer.LoadSentencePiece(path, controlTokens, opts...)
	if err != nil {
		return nil, err
	}
	return tok, nil
}

// AutoLoad picks a tokenizer for pathOrName: a model file loads as
// SentencePiece, anything else is tried as a tiktoken model or encoding name.
func AutoLoad(pathOrName string, controlTokens []string, opts ...Option) (Tokenizer, error) {
	return tokenizer.AutoLoad(pathOrName, controlTokens, opts...)
}
