package tokenizer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/born-ml/datapipe/internal/logging"
)

// ErrNoTokenizer is returned by AutoLoad when no backend accepts its argument.
var ErrNoTokenizer = errors.New("no tokenizer found")

// sentencePieceExt is the conventional extension of SentencePiece models.
const sentencePieceExt = ".model"

// AutoLoad picks a tokenizer for pathOrName.
//
// Strategies, in order:
//  1. A ".model" path, or any existing regular file, loads as SentencePiece
//     with controlTokens applied
//  2. A tiktoken model name ("gpt-4")
//  3. A tiktoken encoding name ("cl100k_base")
//
// Options apply to the SentencePiece backend; WithLogger also reports the
// chosen backend at logging.VERBOSE.
func AutoLoad(pathOrName string, controlTokens []string, opts ...Option) (Tokenizer, error) {
	log := newOptions(opts).log.WithValues("tokenizer", pathOrName)

	info, statErr := os.Stat(pathOrName)
	isFile := statErr == nil && info.Mode().IsRegular()
	if isFile || strings.EqualFold(filepath.Ext(pathOrName), sentencePieceExt) {
		tok, err := LoadSentencePiece(pathOrName, controlTokens, opts...)
		if err != nil {
			return nil, err
		}
		log.V(logging.VERBOSE).Info("Tokenizer loaded", "backend", "sentencepiece", "vocab", tok.VocabSize())
		return tok, nil
	}

	if tok, err := NewTikTokenForModel(pathOrName); err == nil {
		log.V(logging.VERBOSE).Info("Tokenizer loaded", "backend", "tiktoken", "by", "model")
		return tok, nil
	}
	if tok, err := NewTikToken(pathOrName); err == nil {
		log.V(logging.VERBOSE).Info("Tokenizer loaded", "backend", "tiktoken", "by", "encoding")
		return tok, nil
	}

	return nil, fmt.Errorf("%w for %q", ErrNoTokenizer, pathOrName)
}
