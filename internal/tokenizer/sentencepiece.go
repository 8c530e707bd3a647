package tokenizer

import (
	"fmt"

	"github.com/born-ml/datapipe/internal/sentencepiece"
)

// SentencePiece adapts a sentencepiece.Processor to the Tokenizer interface.
type SentencePiece struct {
	proc *sentencepiece.Processor
}

// NewSentencePiece wraps proc.
func NewSentencePiece(proc *sentencepiece.Processor) *SentencePiece {
	return &SentencePiece{proc: proc}
}

// LoadSentencePiece loads the model at path with the given control tokens.
func LoadSentencePiece(path string, controlTokens []string, opts ...Option) (*SentencePiece, error) {
	o := newOptions(opts)
	modelOpts := sentencepiece.ModelOptions{ControlTokens: controlTokens, Logger: o.log}
	proc, err := sentencepiece.NewProcessorFromFile(path, modelOpts, o.procOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentencepiece model %q: %w", path, err)
	}
	return NewSentencePiece(proc), nil
}

// Encode converts text to token IDs.
func (s *SentencePiece) Encode(text string) ([]int32, error) {
	res, err := s.proc.Encode(text)
	if err != nil {
		return nil, err
	}
	return res.IDs(), nil
}

// Sample encodes text with subword regularization.
func (s *SentencePiece) Sample(text string, nbestSize int, alpha float64) ([]int32, error) {
	res, err := s.proc.Sample(text, nbestSize, alpha)
	if err != nil {
		return nil, err
	}
	return res.IDs(), nil
}

// Decode converts token IDs back to text.
func (s *SentencePiece) Decode(tokens []int32) (string, error) {
	pieces := make([]string, len(tokens))
	for i, id := range tokens {
		piece, err := s.proc.IndexToToken(id)
		if err != nil {
			return "", fmt.Errorf("token %d: %w", i, err)
		}
		pieces[i] = piece
	}
	return s.proc.Decode(pieces)
}

// VocabSize returns the number of pieces.
func (s *SentencePiece) VocabSize() int { return s.proc.VocabSize() }

// BosToken returns the begin-of-sentence id, or -1.
func (s *SentencePiece) BosToken() int32 { return s.proc.BOSID() }

// EosToken returns the end-of-sentence id, or -1.
func (s *SentencePiece) EosToken() int32 { return s.proc.EOSID() }

// PadToken returns the padding id.
func (s *SentencePiece) PadToken() int32 { return s.proc.PadID() }

// UnkToken returns the unknown id, or -1.
func (s *SentencePiece) UnkToken() int32 { return s.proc.UnkID() }

// IsSpecialToken reports whether token is a control piece or the unknown piece.
func (s *SentencePiece) IsSpecialToken(token int32) bool {
	return s.proc.IsControl(token) || (token >= 0 && token == s.proc.UnkID())
}

// Processor returns the wrapped processor.
func (s *SentencePiece) Processor() *sentencepiece.Processor {
	return s.proc
}
