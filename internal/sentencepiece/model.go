package sentencepiece

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Model is a compiled, immutable segmentation engine.
//
// A Model is produced by ModelLoader and is safe for concurrent use. It owns
// its ModelProto; nothing mutates the proto after compilation.
type Model struct {
	proto *ModelProto

	pieceIDs     map[string]int32 // All pieces, by surface
	userDefined  map[string]int32 // User-defined pieces, matched before segmentation
	maxUserLen   int              // Longest user-defined piece, in bytes
	maxPieceLen  int              // Longest segmentable piece, in bytes
	byteIDs      [256]int32       // Byte fallback pieces, -1 if absent
	byteFallback bool

	unkID int32
	bosID int32
	eosID int32
	padID int32

	minScore float32
	maxScore float32

	normalizer *normalizer
	segmenter  segmenter
}

// token is a segment of normalized text. begin and end are byte offsets.
type token struct {
	id         int32
	begin, end int
}

// segmenter is implemented by each model type.
type segmenter interface {
	encode(text string) []token
	sample(text string, nbestSize int, alpha float64, rng randSource) ([]token, error)
}

// randSource is the subset of *rand.Rand used for sampling.
type randSource interface {
	Float64() float64
}

// unkPenalty is subtracted from the lowest piece score to score unknown characters.
const unkPenalty = 10.0

// compileModel validates proto and builds the engine. proto is owned by the
// returned Model.
//
//nolint:gocognit,gocyclo,cyclop // Consistency checks run in a single pass over the vocabulary.
func compileModel(proto *ModelProto) (*Model, error) {
	m := &Model{
		proto:       proto,
		pieceIDs:    make(map[string]int32, len(proto.Pieces)),
		userDefined: make(map[string]int32),
		unkID:       -1,
		minScore:    float32(math.Inf(1)),
		maxScore:    float32(math.Inf(-1)),
	}
	for i := range m.byteIDs {
		m.byteIDs[i] = -1
	}

	if len(proto.Pieces) > math.MaxInt32 {
		return nil, fmt.Errorf("too many pieces: %d", len(proto.Pieces))
	}

	for i, p := range proto.Pieces {
		id := int32(i) //nolint:gosec // G115: bounded above.
		if p.Piece == "" {
			return nil, fmt.Errorf("piece %d is empty", i)
		}
		if !utf8.ValidString(p.Piece) && p.Type != PieceByte {
			return nil, fmt.Errorf("piece %d is not valid UTF-8", i)
		}
		if prev, ok := m.pieceIDs[p.Piece]; ok {
			return nil, fmt.Errorf("piece %q is defined twice (ids %d and %d)", p.Piece, prev, id)
		}
		m.pieceIDs[p.Piece] = id

		switch p.Type {
		case PieceNormal:
			m.minScore = min(m.minScore, p.Score)
			m.maxScore = max(m.maxScore, p.Score)
			m.maxPieceLen = max(m.maxPieceLen, len(p.Piece))
		case PieceUserDefined:
			m.userDefined[p.Piece] = id
			m.maxUserLen = max(m.maxUserLen, len(p.Piece))
			m.maxPieceLen = max(m.maxPieceLen, len(p.Piece))
		case PieceUnknown:
			if m.unkID >= 0 {
				return nil, fmt.Errorf("unknown piece defined twice (ids %d and %d)", m.unkID, id)
			}
			m.unkID = id
		case PieceByte:
			b, ok := parseBytePiece(p.Piece)
			if !ok {
				return nil, fmt.Errorf("byte piece %d has invalid spelling %q", i, p.Piece)
			}
			m.byteIDs[b] = id
		case PieceControl, PieceUnused:
		default:
			return nil, fmt.Errorf("piece %d has unknown type %d", i, p.Type)
		}
	}

	if math.IsInf(float64(m.minScore), 1) {
		m.minScore, m.maxScore = 0, 0
	}

	ts := &proto.TrainerSpec
	if ts.ByteFallback {
		for b, id := range m.byteIDs {
			if id < 0 {
				return nil, fmt.Errorf("byte fallback is enabled but piece %s is missing", bytePiece(byte(b)))
			}
		}
		m.byteFallback = true
	}

	m.bosID = m.specialID(ts.BOSPiece)
	m.eosID = m.specialID(ts.EOSPiece)
	m.padID = m.specialID(ts.PadPiece)
	m.normalizer = newNormalizer(&proto.NormalizerSpec, ts)

	switch ts.ModelType {
	case ModelUnigram:
		m.segmenter = &unigramSegmenter{model: m}
	case ModelBPE:
		m.segmenter = &bpeSegmenter{model: m}
	case ModelWord:
		m.segmenter = &wordSegmenter{model: m}
	case ModelChar:
		m.segmenter = &charSegmenter{model: m}
	default:
		return nil, fmt.Errorf("unsupported model type %s", ts.ModelType)
	}

	return m, nil
}

// specialID resolves a special piece by name. Only control pieces qualify.
func (m *Model) specialID(piece string) int32 {
	id, ok := m.pieceIDs[piece]
	if !ok || m.proto.Pieces[id].Type != PieceControl {
		return -1
	}
	return id
}

// Type returns the segmentation algorithm.
func (m *Model) Type() ModelType {
	return m.proto.TrainerSpec.ModelType
}

// PieceSize returns the number of pieces in the vocabulary.
func (m *Model) PieceSize() int {
	return len(m.proto.Pieces)
}

// UnkID returns the id of the unknown piece, or -1 if the model has none.
func (m *Model) UnkID() int32 { return m.unkID }

// BOSID returns the id of the begin-of-sentence piece, or -1.
func (m *Model) BOSID() int32 { return m.bosID }

// EOSID returns the id of the end-of-sentence piece, or -1.
func (m *Model) EOSID() int32 { return m.eosID }

// PadID returns the id of the padding piece, or -1.
func (m *Model) PadID() int32 { return m.padID }

// PieceToID returns the id of piece, or UnkID() if piece is not in the vocabulary.
func (m *Model) PieceToID(piece string) int32 {
	if id, ok := m.pieceIDs[piece]; ok {
		return id
	}
	return m.unkID
}

// IDToPiece returns the surface of id. The caller guarantees 0 <= id < PieceSize().
func (m *Model) IDToPiece(id int32) string {
	return m.proto.Pieces[id].Piece
}

// PieceType returns the classification of id.
func (m *Model) PieceType(id int32) PieceType {
	return m.proto.Pieces[id].Type
}

// Score returns the score of id.
func (m *Model) Score(id int32) float32 {
	return m.proto.Pieces[id].Score
}

// IsControl reports whether id is a control piece.
func (m *Model) IsControl(id int32) bool {
	return m.validID(id) && m.proto.Pieces[id].Type == PieceControl
}

// IsUnknown reports whether id is the unknown piece.
func (m *Model) IsUnknown(id int32) bool {
	return m.validID(id) && m.proto.Pieces[id].Type == PieceUnknown
}

// IsByte reports whether id is a byte fallback piece.
func (m *Model) IsByte(id int32) bool {
	return m.validID(id) && m.proto.Pieces[id].Type == PieceByte
}

// IsUnused reports whether id is an unused piece.
func (m *Model) IsUnused(id int32) bool {
	return m.validID(id) && m.proto.Pieces[id].Type == PieceUnused
}

func (m *Model) validID(id int32) bool {
	return id >= 0 && int(id) < len(m.proto.Pieces)
}

// Proto returns a copy of the compiled model in wire format.
func (m *Model) Proto() []byte {
	return m.proto.Marshal()
}

// segmentable returns the id of s if the segmenters may emit it as one piece.
func (m *Model) segmentable(s string) (int32, bool) {
	id, ok := m.pieceIDs[s]
	if !ok {
		return 0, false
	}
	switch m.proto.Pieces[id].Type {
	case PieceNormal, PieceUserDefined:
		return id, true
	default:
		return 0, false
	}
}

// matchUserDefined returns the length of the longest user-defined piece that
// prefixes text, or 0.
func (m *Model) matchUserDefined(text string) (int32, int) {
	if m.maxUserLen == 0 {
		return 0, 0
	}
	for l := min(len(text), m.maxUserLen); l > 0; l-- {
		if id, ok := m.userDefined[text[:l]]; ok {
			return id, l
		}
	}
	return 0, 0
}

// bytePiece returns the spelling of the byte fallback piece for b.
func bytePiece(b byte) string {
	return fmt.Sprintf("<0x%02X>", b)
}

func parseBytePiece(s string) (byte, bool) {
	if len(s) != 6 || !strings.HasPrefix(s, "<0x") || s[5] != '>' {
		return 0, false
	}
	v, err := strconv.ParseUint(s[3:5], 16, 8)
	if err != nil {
		return 0, false
	}
	return byte(v), true
}
