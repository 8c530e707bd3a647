package tokenizer

import (
	"github.com/go-logr/logr"

	"github.com/born-ml/datapipe/internal/sentencepiece"
)

// Option configures LoadSentencePiece and AutoLoad.
type Option func(*options)

type options struct {
	log      logr.Logger
	procOpts []sentencepiece.ProcessorOption
}

// WithLogger sets the logger passed to the model loader and processor.
func WithLogger(log logr.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithProcessorOptions appends options for the SentencePiece processor.
func WithProcessorOptions(opts ...sentencepiece.ProcessorOption) Option {
	return func(o *options) {
		o.procOpts = append(o.procOpts, opts...)
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
