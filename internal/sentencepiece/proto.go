package sentencepiece

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// SentencePiece model protobuf data structures (hand-written subset).
//
// Fields this package does not interpret are kept as raw wire bytes so that a
// parsed and re-marshaled model loses nothing.

// PieceType classifies a vocabulary piece.
type PieceType int32

// Piece types (ModelProto.SentencePiece.Type).
const (
	PieceNormal      PieceType = 1 // Ordinary content unit
	PieceUnknown     PieceType = 2 // The unknown-token piece
	PieceControl     PieceType = 3 // Control symbol (<s>, </s>, <pad>, ...)
	PieceUserDefined PieceType = 4 // Always segmented as one unit
	PieceUnused      PieceType = 5 // Present in vocabulary, never produced
	PieceByte        PieceType = 6 // Byte fallback piece (<0x00> ... <0xFF>)
)

// String returns the proto enum name.
func (t PieceType) String() string {
	switch t {
	case PieceNormal:
		return "NORMAL"
	case PieceUnknown:
		return "UNKNOWN"
	case PieceControl:
		return "CONTROL"
	case PieceUserDefined:
		return "USER_DEFINED"
	case PieceUnused:
		return "UNUSED"
	case PieceByte:
		return "BYTE"
	default:
		return fmt.Sprintf("PieceType(%d)", int32(t))
	}
}

// ModelType identifies the segmentation algorithm (TrainerSpec.model_type).
type ModelType int32

// Model types.
const (
	ModelUnigram ModelType = 1
	ModelBPE     ModelType = 2
	ModelWord    ModelType = 3
	ModelChar    ModelType = 4
)

// String returns the proto enum name.
func (t ModelType) String() string {
	switch t {
	case ModelUnigram:
		return "UNIGRAM"
	case ModelBPE:
		return "BPE"
	case ModelWord:
		return "WORD"
	case ModelChar:
		return "CHAR"
	default:
		return fmt.Sprintf("ModelType(%d)", int32(t))
	}
}

// ModelProto is a serialized SentencePiece model.
type ModelProto struct {
	Pieces         []SentencePiece // Vocabulary; index = piece id
	TrainerSpec    TrainerSpec     // Training configuration, incl. special pieces
	NormalizerSpec NormalizerSpec  // Text normalization rules

	unknown []byte // Unparsed fields (self_test_data, denormalizer_spec, ...)
}

// SentencePiece is a single vocabulary entry.
type SentencePiece struct {
	Piece string    // Surface string
	Score float32   // Log probability (Unigram) or merge priority (BPE)
	Type  PieceType // Classification

	unknown []byte
}

// TrainerSpec holds the training-time settings the runtime depends on.
type TrainerSpec struct {
	ModelType               ModelType
	VocabSize               int32
	TreatWhitespaceAsSuffix bool
	ByteFallback            bool

	UnkID int32
	BOSID int32
	EOSID int32
	PadID int32

	UnkPiece   string
	BOSPiece   string
	EOSPiece   string
	PadPiece   string
	UnkSurface string

	unknown []byte
}

// NormalizerSpec holds the text normalization settings.
type NormalizerSpec struct {
	Name                   string // "identity", "nfkc", "nmt_nfkc", ...
	PrecompiledCharsmap    []byte
	AddDummyPrefix         bool
	RemoveExtraWhitespaces bool
	EscapeWhitespaces      bool

	unknown []byte
}

// Default special piece spellings.
const (
	DefaultUnkPiece   = "<unk>"
	DefaultBOSPiece   = "<s>"
	DefaultEOSPiece   = "</s>"
	DefaultPadPiece   = "<pad>"
	DefaultUnkSurface = " ⁇ "
)

// DefaultTrainerSpec returns a TrainerSpec with proto2 default values.
func DefaultTrainerSpec() TrainerSpec {
	return TrainerSpec{
		ModelType:  ModelUnigram,
		VocabSize:  8000,
		UnkID:      0,
		BOSID:      1,
		EOSID:      2,
		PadID:      -1,
		UnkPiece:   DefaultUnkPiece,
		BOSPiece:   DefaultBOSPiece,
		EOSPiece:   DefaultEOSPiece,
		PadPiece:   DefaultPadPiece,
		UnkSurface: DefaultUnkSurface,
	}
}

// DefaultNormalizerSpec returns a NormalizerSpec with proto2 default values.
func DefaultNormalizerSpec() NormalizerSpec {
	return NormalizerSpec{
		AddDummyPrefix:         true,
		RemoveExtraWhitespaces: true,
		EscapeWhitespaces:      true,
	}
}

// NewModelProto returns an empty model with default specs.
func NewModelProto() *ModelProto {
	return &ModelProto{
		TrainerSpec:    DefaultTrainerSpec(),
		NormalizerSpec: DefaultNormalizerSpec(),
	}
}

// Field numbers.
const (
	modelPieces         protowire.Number = 1
	modelTrainerSpec    protowire.Number = 2
	modelNormalizerSpec protowire.Number = 3

	pieceString protowire.Number = 1
	pieceScore  protowire.Number = 2
	pieceType   protowire.Number = 3

	trainerModelType        protowire.Number = 3
	trainerVocabSize        protowire.Number = 4
	trainerWhitespaceSuffix protowire.Number = 24
	trainerByteFallback     protowire.Number = 35
	trainerUnkID            protowire.Number = 40
	trainerBOSID            protowire.Number = 41
	trainerEOSID            protowire.Number = 42
	trainerPadID            protowire.Number = 43
	trainerUnkSurface       protowire.Number = 44
	trainerUnkPiece         protowire.Number = 45
	trainerBOSPiece         protowire.Number = 46
	trainerEOSPiece         protowire.Number = 47
	trainerPadPiece         protowire.Number = 48

	normalizerName          protowire.Number = 1
	normalizerCharsmap      protowire.Number = 2
	normalizerDummyPrefix   protowire.Number = 3
	normalizerRemoveExtraWS protowire.Number = 4
	normalizerEscapeWS      protowire.Number = 5
)

// ParseModelProto decodes a serialized SentencePiece model.
func ParseModelProto(data []byte) (*ModelProto, error) {
	m := NewModelProto()
	if err := m.unmarshal(data); err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}
	return m, nil
}

// fieldFunc consumes the value of a known field. It returns handled=false for
// fields it does not interpret, and n < 0 on a wire error.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (n int, handled bool)

// walkFields iterates the fields of a message, keeping unhandled ones raw.
func walkFields(b []byte, unknown *[]byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		m, handled := fn(num, typ, b[n:])
		if !handled {
			m = protowire.ConsumeFieldValue(num, typ, b[n:])
			if m >= 0 {
				*unknown = append(*unknown, b[:n+m]...)
			}
		}
		if m < 0 {
			return fmt.Errorf("field %d: %w", num, protowire.ParseError(m))
		}
		b = b[n+m:]
	}
	return nil
}

func (m *ModelProto) unmarshal(b []byte) error {
	var nested error
	err := walkFields(b, &m.unknown, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		if typ != protowire.BytesType {
			return 0, false
		}
		var decode func([]byte) error
		switch num {
		case modelPieces:
			decode = func(v []byte) error {
				p := SentencePiece{Type: PieceNormal}
				if err := p.unmarshal(v); err != nil {
					return fmt.Errorf("piece %d: %w", len(m.Pieces), err)
				}
				m.Pieces = append(m.Pieces, p)
				return nil
			}
		case modelTrainerSpec:
			decode = m.TrainerSpec.unmarshal
		case modelNormalizerSpec:
			decode = m.NormalizerSpec.unmarshal
		default:
			return 0, false
		}

		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return n, true
		}
		if nested = decode(v); nested != nil {
			return -1, true
		}
		return n, true
	})
	if nested != nil {
		return nested
	}
	return err
}

func (p *SentencePiece) unmarshal(b []byte) error {
	return walkFields(b, &p.unknown, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		switch {
		case num == pieceString && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			p.Piece = v
			return n, true
		case num == pieceScore && typ == protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			p.Score = math.Float32frombits(v)
			return n, true
		case num == pieceType && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			p.Type = PieceType(int32(v)) //nolint:gosec // G115: proto enum is int32.
			return n, true
		}
		return 0, false
	})
}

//nolint:gocyclo,cyclop // Field-by-field switch.
func (s *TrainerSpec) unmarshal(b []byte) error {
	return walkFields(b, &s.unknown, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			i32 := int32(int64(v)) //nolint:gosec // G115: int32 fields are sign-extended varints.
			switch num {
			case trainerModelType:
				s.ModelType = ModelType(i32)
			case trainerVocabSize:
				s.VocabSize = i32
			case trainerWhitespaceSuffix:
				s.TreatWhitespaceAsSuffix = protowire.DecodeBool(v)
			case trainerByteFallback:
				s.ByteFallback = protowire.DecodeBool(v)
			case trainerUnkID:
				s.UnkID = i32
			case trainerBOSID:
				s.BOSID = i32
			case trainerEOSID:
				s.EOSID = i32
			case trainerPadID:
				s.PadID = i32
			default:
				return 0, false
			}
			return n, true
		case protowire.BytesType:
			var dst *string
			switch num {
			case trainerUnkSurface:
				dst = &s.UnkSurface
			case trainerUnkPiece:
				dst = &s.UnkPiece
			case trainerBOSPiece:
				dst = &s.BOSPiece
			case trainerEOSPiece:
				dst = &s.EOSPiece
			case trainerPadPiece:
				dst = &s.PadPiece
			default:
				return 0, false
			}
			v, n := protowire.ConsumeString(b)
			*dst = v
			return n, true
		}
		return 0, false
	})
}

func (s *NormalizerSpec) unmarshal(b []byte) error {
	return walkFields(b, &s.unknown, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		switch {
		case num == normalizerName && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			s.Name = v
			return n, true
		case num == normalizerCharsmap && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			s.PrecompiledCharsmap = append([]byte(nil), v...)
			return n, true
		case typ == protowire.VarintType:
			var dst *bool
			switch num {
			case normalizerDummyPrefix:
				dst = &s.AddDummyPrefix
			case normalizerRemoveExtraWS:
				dst = &s.RemoveExtraWhitespaces
			case normalizerEscapeWS:
				dst = &s.EscapeWhitespaces
			default:
				return 0, false
			}
			v, n := protowire.ConsumeVarint(b)
			*dst = protowire.DecodeBool(v)
			return n, true
		}
		return 0, false
	})
}

// Marshal encodes the model in protobuf wire format.
func (m *ModelProto) Marshal() []byte {
	var b []byte
	for i := range m.Pieces {
		b = protowire.AppendTag(b, modelPieces, protowire.BytesType)
		b = protowire.AppendBytes(b, m.Pieces[i].marshal())
	}
	b = protowire.AppendTag(b, modelTrainerSpec, protowire.BytesType)
	b = protowire.AppendBytes(b, m.TrainerSpec.marshal())
	b = protowire.AppendTag(b, modelNormalizerSpec, protowire.BytesType)
	b = protowire.AppendBytes(b, m.NormalizerSpec.marshal())
	return append(b, m.unknown...)
}

func (p *SentencePiece) marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, pieceString, protowire.BytesType)
	b = protowire.AppendString(b, p.Piece)
	b = protowire.AppendTag(b, pieceScore, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, math.Float32bits(p.Score))
	b = protowire.AppendTag(b, pieceType, protowire.VarintType)
	b = appendInt32(b, int32(p.Type))
	return append(b, p.unknown...)
}

func (s *TrainerSpec) marshal() []byte {
	var b []byte
	appendVarintField := func(num protowire.Number, v int32) {
		b = protowire.AppendTag(b, num, protowire.VarintType)
		b = appendInt32(b, v)
	}
	appendBoolField := func(num protowire.Number, v bool) {
		b = protowire.AppendTag(b, num, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(v))
	}
	appendStringField := func(num protowire.Number, v string) {
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendString(b, v)
	}

	appendVarintField(trainerModelType, int32(s.ModelType))
	appendVarintField(trainerVocabSize, s.VocabSize)
	appendBoolField(trainerWhitespaceSuffix, s.TreatWhitespaceAsSuffix)
	appendBoolField(trainerByteFallback, s.ByteFallback)
	appendVarintField(trainerUnkID, s.UnkID)
	appendVarintField(trainerBOSID, s.BOSID)
	appendVarintField(trainerEOSID, s.EOSID)
	appendVarintField(trainerPadID, s.PadID)
	appendStringField(trainerUnkSurface, s.UnkSurface)
	appendStringField(trainerUnkPiece, s.UnkPiece)
	appendStringField(trainerBOSPiece, s.BOSPiece)
	appendStringField(trainerEOSPiece, s.EOSPiece)
	appendStringField(trainerPadPiece, s.PadPiece)
	return append(b, s.unknown...)
}

func (s *NormalizerSpec) marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, normalizerName, protowire.BytesType)
	b = protowire.AppendString(b, s.Name)
	if len(s.PrecompiledCharsmap) > 0 {
		b = protowire.AppendTag(b, normalizerCharsmap, protowire.BytesType)
		b = protowire.AppendBytes(b, s.PrecompiledCharsmap)
	}
	for _, f := range []struct {
		num protowire.Number
		v   bool
	}{
		{normalizerDummyPrefix, s.AddDummyPrefix},
		{normalizerRemoveExtraWS, s.RemoveExtraWhitespaces},
		{normalizerEscapeWS, s.EscapeWhitespaces},
	} {
		b = protowire.AppendTag(b, f.num, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(f.v))
	}
	return append(b, s.unknown...)
}

// appendInt32 encodes an int32 the way protobuf does: sign-extended to 64 bits.
func appendInt32(b []byte, v int32) []byte {
	return protowire.AppendVarint(b, uint64(int64(v))) //nolint:gosec // G115: intentional sign extension.
}
