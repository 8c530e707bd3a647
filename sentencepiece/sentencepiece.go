// Package sentencepiece loads SentencePiece models and segments text.
//
// Example usage:
//
//	import "github.com/born-ml/datapipe/sentencepiece"
//
//	proc, err := sentencepiece.NewProcessorFromFile("spm.model", sentencepiece.ModelOptions{
//	    ControlTokens: []string{sentencepiece.LegacyPadToken},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := proc.Encode("Hello world")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	text, err := proc.Decode(res.Surfaces())
package sentencepiece

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/born-ml/datapipe/internal/sentencepiece"
)

// Padding spellings accepted in ModelOptions.ControlTokens.
const (
	PadToken       = sentencepiece.PadToken
	LegacyPadToken = sentencepiece.LegacyPadToken
)

// Types.
type (
	ModelOptions    = sentencepiece.ModelOptions
	ModelLoader     = sentencepiece.ModelLoader
	Model           = sentencepiece.Model
	Processor       = sentencepiece.Processor
	ProcessorOption = sentencepiece.ProcessorOption
	EncodedResult   = sentencepiece.EncodedResult
	EncodedPiece    = sentencepiece.EncodedPiece
	EngineError     = sentencepiece.EngineError
	ModelProto      = sentencepiece.ModelProto
	ModelType       = sentencepiece.ModelType
	PieceType       = sentencepiece.PieceType
	SentencePiece   = sentencepiece.SentencePiece
)

// Model types.
const (
	ModelUnigram = sentencepiece.ModelUnigram
	ModelBPE     = sentencepiece.ModelBPE
	ModelWord    = sentencepiece.ModelWord
	ModelChar    = sentencepiece.ModelChar
)

// Piece types.
const (
	PieceNormal      = sentencepiece.PieceNormal
	PieceUnknown     = sentencepiece.PieceUnknown
	PieceControl     = sentencepiece.PieceControl
	PieceUserDefined = sentencepiece.PieceUserDefined
	PieceUnused      = sentencepiece.PieceUnused
	PieceByte        = sentencepiece.PieceByte
)

// Errors.
var (
	ErrNotFound         = sentencepiece.ErrNotFound
	ErrPermissionDenied = sentencepiece.ErrPermissionDenied
	ErrParse            = sentencepiece.ErrParse
	ErrConfig           = sentencepiece.ErrConfig
	ErrRange            = sentencepiece.ErrRange
	ErrEngine           = sentencepiece.ErrEngine
	ErrLoaderConsumed   = sentencepiece.ErrLoaderConsumed
)

// Processor options.
var (
	WithLogger         = sentencepiece.WithLogger
	WithSeed           = sentencepiece.WithSeed
	WithParallelConfig = sentencepiece.WithParallelConfig
)

// NewModelLoader returns a single-use loader for the model at path.
func NewModelLoader(path string, opts ModelOptions) *ModelLoader {
	return sentencepiece.NewModelLoader(path, opts)
}

// NewModelLoaderFromReader returns a single-use loader that reads the model from r.
func NewModelLoaderFromReader(r io.Reader, opts ModelOptions) *ModelLoader {
	return sentencepiece.NewModelLoaderFromReader(r, opts)
}

// LoadModel is shorthand for NewModelLoader(path, opts).Load().
func LoadModel(path string, opts ModelOptions) (*Model, error) {
	return sentencepiece.LoadModel(path, opts)
}

// NewProcessor returns a Processor that owns model.
func NewProcessor(model *Model, opts ...ProcessorOption) (*Processor, error) {
	return sentencepiece.NewProcessor(model, opts...)
}

// NewProcessorFromFile loads the model at path and returns a Processor for it.
func NewProcessorFromFile(path string, modelOpts ModelOptions, opts ...ProcessorOption) (*Processor, error) {
	return sentencepiece.NewProcessorFromFile(path, modelOpts, opts...)
}

// NewModelProto returns an empty model with default trainer and normalizer
// settings.
func NewModelProto() *ModelProto {
	return sentencepiece.NewModelProto()
}

// Register adds the processor metrics to reg. Later calls are no-ops.
func Register(reg prometheus.Registerer) {
	sentencepiece.Register(reg)
}

// ParseModelProto decodes a serialized model.
func ParseModelProto(b []byte) (*ModelProto, error) {
	return sentencepiece.ParseModelProto(b)
}
