package sentencepiece

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-logr/logr"

	"github.com/born-ml/datapipe/internal/logging"
	"github.com/born-ml/datapipe/internal/parallel"
)

// Processor encodes and decodes text with a compiled Model.
//
// A Processor is immutable after construction and safe for concurrent use.
type Processor struct {
	model *Model

	unkID     int32
	bosID     int32
	eosID     int32
	padID     int32
	vocabSize int

	log      logr.Logger
	parallel parallel.Config

	rngMu sync.Mutex
	rng   *rand.Rand // Seed source for per-call generators, nil when unseeded
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithLogger sets the logger. The zero Logger discards.
func WithLogger(log logr.Logger) ProcessorOption {
	return func(p *Processor) {
		p.log = log
	}
}

// WithSeed makes Sample reproducible: the same seed and the same sequence of
// Sample calls give the same results.
func WithSeed(seed uint64) ProcessorOption {
	return func(p *Processor) {
		p.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithParallelConfig sets the worker configuration used by EncodeBatch.
func WithParallelConfig(cfg parallel.Config) ProcessorOption {
	return func(p *Processor) {
		p.parallel = cfg
	}
}

// NewProcessor takes ownership of model and returns a Processor for it.
//
// It fails with ErrConfig if the model has no padding piece.
func NewProcessor(model *Model, opts ...ProcessorOption) (*Processor, error) {
	p := &Processor{
		model:     model,
		unkID:     model.UnkID(),
		bosID:     model.BOSID(),
		eosID:     model.EOSID(),
		padID:     model.PadID(),
		vocabSize: model.PieceSize(),
		log:       logr.Discard(),
		parallel:  parallel.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.padID < 0 {
		return nil, fmt.Errorf("%w: the model has no padding token specified", ErrConfig)
	}

	p.log.V(logging.DEFAULT).Info("SentencePiece processor ready",
		"type", model.Type().String(), "vocabSize", p.vocabSize,
		"unk", p.unkID, "bos", p.bosID, "eos", p.eosID, "pad", p.padID)
	return p, nil
}

// NewProcessorFromFile loads the model at path and returns a Processor for it.
func NewProcessorFromFile(path string, modelOpts ModelOptions, opts ...ProcessorOption) (*Processor, error) {
	model, err := LoadModel(path, modelOpts)
	if err != nil {
		return nil, err
	}
	opts = append([]ProcessorOption{WithLogger(modelOpts.Logger)}, opts...)
	return NewProcessor(model, opts...)
}

// Encode segments text deterministically.
func (p *Processor) Encode(text string) (*EncodedResult, error) {
	nz := p.model.normalizer.normalize(text)
	res, err := p.result(opEncode, text, nz, p.model.segmenter.encode(nz.text))
	p.observe(opEncode, res, err)
	return res, err
}

// Sample segments text stochastically for subword regularization.
//
// nbestSize 0 or 1 disables sampling. For Unigram models nbestSize > 1
// samples among the n-best segmentations with probability proportional to
// exp(alpha * score), and nbestSize < 0 samples from all segmentations. For
// BPE models alpha is the merge dropout probability and must not exceed 1.
func (p *Processor) Sample(text string, nbestSize int, alpha float64) (*EncodedResult, error) {
	res, err := p.sample(text, nbestSize, alpha)
	p.observe(opSample, res, err)
	return res, err
}

func (p *Processor) sample(text string, nbestSize int, alpha float64) (*EncodedResult, error) {
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) || alpha < 0 {
		return nil, engineErrorf(opSample, "alpha must be a finite non-negative number, got %v", alpha)
	}
	if p.model.Type() == ModelBPE && alpha > 1 {
		return nil, engineErrorf(opSample, "alpha must be in [0, 1] for BPE dropout, got %v", alpha)
	}

	nz := p.model.normalizer.normalize(text)
	if nbestSize == 0 || nbestSize == 1 {
		return p.result(opSample, text, nz, p.model.segmenter.encode(nz.text))
	}

	toks, err := p.model.segmenter.sample(nz.text, nbestSize, alpha, p.newRand())
	if err != nil {
		return nil, engineErrorf(opSample, "%v", err)
	}
	return p.result(opSample, text, nz, toks)
}

func (p *Processor) newRand() *rand.Rand {
	if p.rng == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // Sampling, not security.
	}
	p.rngMu.Lock()
	defer p.rngMu.Unlock()
	return rand.New(rand.NewPCG(p.rng.Uint64(), p.rng.Uint64())) //nolint:gosec // Sampling, not security.
}

// result maps segmenter tokens back to the original text, expanding unknown
// segments into byte pieces when the model has byte fallback.
func (p *Processor) result(op, text string, nz normalized, toks []token) (*EncodedResult, error) {
	m := p.model
	res := &EncodedResult{Text: text, Pieces: make([]EncodedPiece, 0, len(toks))}

	for _, t := range toks {
		surface := nz.text[t.begin:t.end]
		if t.id < 0 {
			return nil, engineErrorf(op, "%q needs the unknown piece but the model defines none", surface)
		}

		if t.id != p.unkID {
			res.Pieces = append(res.Pieces, EncodedPiece{
				Piece: m.IDToPiece(t.id),
				ID:    t.id,
				Begin: nz.origin(t.begin),
				End:   nz.origin(t.end),
			})
			continue
		}

		if !m.byteFallback {
			res.Pieces = append(res.Pieces, EncodedPiece{
				Piece: surface,
				ID:    t.id,
				Begin: nz.origin(t.begin),
				End:   nz.origin(t.end),
			})
			continue
		}

		for off, r := range surface {
			begin := t.begin + off
			end := begin + utf8.RuneLen(r)
			if r == utf8.RuneError {
				end = begin + runeLen(surface[off:])
			}
			for i := begin; i < end; i++ {
				id := m.byteIDs[nz.text[i]]
				res.Pieces = append(res.Pieces, EncodedPiece{
					Piece: m.IDToPiece(id),
					ID:    id,
					Begin: nz.origin(begin),
					End:   nz.origin(end),
				})
			}
		}
	}
	return res, nil
}

// Decode joins piece surfaces back into text.
func (p *Processor) Decode(pieces []string) (string, error) {
	s, err := p.decode(pieces)
	recordOperation(opDecode, err)
	return s, err
}

//nolint:gocognit // One branch per piece class.
func (p *Processor) decode(pieces []string) (string, error) {
	m := p.model
	nz := m.normalizer
	stripPrefix := nz.addDummyPrefix || nz.removeExtraWhitespaces

	var (
		out     strings.Builder
		pending []byte // Consecutive byte pieces
		first   = true
	)

	flush := func() {
		if len(pending) == 0 {
			return
		}
		out.WriteString(strings.ToValidUTF8(string(pending), "�"))
		pending = pending[:0]
		first = false
	}

	for i, piece := range pieces {
		if piece == "" {
			return "", engineErrorf(opDecode, "piece %d is empty", i)
		}

		id, known := m.pieceIDs[piece]
		if known {
			switch m.PieceType(id) {
			case PieceControl:
				continue
			case PieceByte:
				b, _ := parseBytePiece(piece)
				pending = append(pending, b)
				continue
			case PieceUnknown:
				flush()
				out.WriteString(m.proto.TrainerSpec.UnkSurface)
				first = false
				continue
			}
		}
		flush()

		text := strings.ReplaceAll(piece, spaceSymbol, " ")
		if first && stripPrefix && !nz.suffixWhitespace {
			text = strings.TrimPrefix(text, " ")
		}
		out.WriteString(text)
		first = false
	}
	flush()

	s := out.String()
	if stripPrefix && nz.suffixWhitespace {
		s = strings.TrimSuffix(s, " ")
	}
	return s, nil
}

// EncodeBatch encodes texts concurrently. Results are in input order; on
// failure every error is reported.
func (p *Processor) EncodeBatch(texts []string) ([]*EncodedResult, error) {
	results := make([]*EncodedResult, len(texts))
	err := parallel.ForErr(len(texts), func(i int) error {
		res, err := p.Encode(texts[i])
		if err != nil {
			return fmt.Errorf("text %d: %w", i, err)
		}
		results[i] = res
		return nil
	}, p.parallel)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// TokenToIndex returns the id of token, or the unknown id if it is not in
// the vocabulary.
func (p *Processor) TokenToIndex(token string) int32 {
	return p.model.PieceToID(token)
}

// IndexToToken returns the piece with the given id.
func (p *Processor) IndexToToken(id int32) (string, error) {
	if id < 0 || int(id) >= p.vocabSize {
		return "", fmt.Errorf("%w: id %d, vocabulary size %d", ErrRange, id, p.vocabSize)
	}
	return p.model.IDToPiece(id), nil
}

// IsControl reports whether id is a control piece.
func (p *Processor) IsControl(id int32) bool { return p.model.IsControl(id) }

// VocabSize returns the number of pieces.
func (p *Processor) VocabSize() int { return p.vocabSize }

// UnkID returns the unknown piece id, or -1.
func (p *Processor) UnkID() int32 { return p.unkID }

// BOSID returns the begin-of-sentence id, or -1.
func (p *Processor) BOSID() int32 { return p.bosID }

// EOSID returns the end-of-sentence id, or -1.
func (p *Processor) EOSID() int32 { return p.eosID }

// PadID returns the padding id.
func (p *Processor) PadID() int32 { return p.padID }

func (p *Processor) observe(op string, res *EncodedResult, err error) {
	recordOperation(op, err)
	if err == nil {
		recordEncodedPieces(res.Len())
	}
}
