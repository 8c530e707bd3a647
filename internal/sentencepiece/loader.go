package sentencepiece

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/go-logr/logr"

	"github.com/born-ml/datapipe/internal/logging"
)

// Padding spellings recognised in ModelOptions.ControlTokens.
const (
	// PadToken appends a "<pad>" control piece at the end of the vocabulary.
	PadToken = "<pad>"
	// LegacyPadToken appends "<pad>" and relocates it to index 0.
	LegacyPadToken = "<pad>@0"
)

// ModelOptions configures a ModelLoader.
type ModelOptions struct {
	// ControlTokens are appended to the vocabulary as control pieces, in
	// order. Empty entries are skipped.
	ControlTokens []string

	// Logger receives stage transitions at logging.DEBUG. Zero value discards.
	Logger logr.Logger
}

type loaderState int

const (
	stateUnloaded loaderState = iota
	stateProtoLoaded
	stateControlTokensApplied
	stateCompiled
	stateFailed
)

func (s loaderState) String() string {
	switch s {
	case stateUnloaded:
		return "unloaded"
	case stateProtoLoaded:
		return "proto-loaded"
	case stateControlTokensApplied:
		return "control-tokens-applied"
	case stateCompiled:
		return "compiled"
	case stateFailed:
		return "failed"
	default:
		return fmt.Sprintf("loaderState(%d)", int(s))
	}
}

// ModelLoader reads, patches and compiles a SentencePiece model.
//
// A ModelLoader is single-use: Load may be called once. Any later call,
// including after a failed Load, returns ErrLoaderConsumed.
type ModelLoader struct {
	path   string
	reader io.Reader
	opts   ModelOptions
	log    logr.Logger

	state loaderState
	proto *ModelProto
}

// NewModelLoader returns a loader that reads the model at path.
func NewModelLoader(path string, opts ModelOptions) *ModelLoader {
	return &ModelLoader{
		path: path,
		opts: opts,
		log:  opts.Logger.WithValues("model", path),
	}
}

// NewModelLoaderFromReader returns a loader that reads the model from r.
func NewModelLoaderFromReader(r io.Reader, opts ModelOptions) *ModelLoader {
	return &ModelLoader{
		reader: r,
		opts:   opts,
		log:    opts.Logger,
	}
}

// Load runs every stage and returns the compiled model.
func (l *ModelLoader) Load() (*Model, error) {
	if l.state != stateUnloaded {
		return nil, fmt.Errorf("%w (state %s)", ErrLoaderConsumed, l.state)
	}

	m, err := l.run()
	if err != nil {
		l.state = stateFailed
		l.proto = nil
		return nil, err
	}
	return m, nil
}

func (l *ModelLoader) run() (*Model, error) {
	if err := l.loadProto(); err != nil {
		return nil, err
	}
	l.applyControlTokens()
	return l.compile()
}

func (l *ModelLoader) loadProto() error {
	raw, err := l.readRaw()
	if err != nil {
		return err
	}

	proto, err := ParseModelProto(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}

	l.proto = proto
	l.transition(stateProtoLoaded, "pieces", len(proto.Pieces), "type", proto.TrainerSpec.ModelType.String())
	return nil
}

func (l *ModelLoader) readRaw() ([]byte, error) {
	if l.reader != nil {
		raw, err := io.ReadAll(l.reader)
		if err != nil {
			return nil, classifyReadError(err)
		}
		return raw, nil
	}

	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, classifyReadError(err)
	}
	return raw, nil
}

func classifyReadError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
}

// applyControlTokens appends the configured control pieces. The legacy pad
// spelling then bubbles the new piece down to index 0 so that every other
// piece shifts up by one in order.
func (l *ModelLoader) applyControlTokens() {
	p := l.proto
	for _, tok := range l.opts.ControlTokens {
		if tok == "" {
			continue
		}

		if tok == PadToken || tok == LegacyPadToken {
			p.TrainerSpec.PadPiece = PadToken
			p.Pieces = append(p.Pieces, SentencePiece{Piece: PadToken, Type: PieceControl})

			if tok == LegacyPadToken {
				for i := len(p.Pieces) - 1; i > 0; i-- {
					p.Pieces[i], p.Pieces[i-1] = p.Pieces[i-1], p.Pieces[i]
				}
			}
			continue
		}

		p.Pieces = append(p.Pieces, SentencePiece{Piece: tok, Type: PieceControl})
	}
	l.transition(stateControlTokensApplied, "controlTokens", len(l.opts.ControlTokens), "pieces", len(p.Pieces))
}

func (l *ModelLoader) compile() (*Model, error) {
	m, err := compileModel(l.proto)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	l.proto = nil
	l.transition(stateCompiled, "pad", m.PadID(), "unk", m.UnkID())
	return m, nil
}

func (l *ModelLoader) transition(to loaderState, kv ...any) {
	l.log.V(logging.DEBUG).Info("Model loader stage complete", append([]any{"from", l.state.String(), "to", to.String()}, kv...)...)
	l.state = to
}

// LoadModel is shorthand for NewModelLoader(path, opts).Load().
func LoadModel(path string, opts ModelOptions) (*Model, error) {
	return NewModelLoader(path, opts).Load()
}
