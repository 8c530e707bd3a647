package serialization

import (
	"encoding/binary"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Format constants.
const (
	MagicBytes      = "DPTP"
	FormatVersion   = 1
	ChecksumSize    = 32 // SHA-256 checksum size (32 bytes)
	ChecksumOffset  = 8
	FixedHeaderSize = ChecksumOffset + ChecksumSize
)

// Payload field numbers, one per value kind.
const (
	fieldInt64   protowire.Number = 1 // zigzag varint
	fieldBool    protowire.Number = 2 // varint
	fieldFloat64 protowire.Number = 3 // fixed64
	fieldString  protowire.Number = 4 // length-delimited
	fieldBytes   protowire.Number = 5 // length-delimited
)

// EncodeValues encodes values into a checkpoint blob.
//
// Supported value types: int64, bool, float64, string, []byte.
func EncodeValues(values []any) ([]byte, error) {
	var payload []byte
	for i, v := range values {
		switch x := v.(type) {
		case int64:
			payload = protowire.AppendTag(payload, fieldInt64, protowire.VarintType)
			payload = protowire.AppendVarint(payload, protowire.EncodeZigZag(x))
		case bool:
			payload = protowire.AppendTag(payload, fieldBool, protowire.VarintType)
			payload = protowire.AppendVarint(payload, protowire.EncodeBool(x))
		case float64:
			payload = protowire.AppendTag(payload, fieldFloat64, protowire.Fixed64Type)
			payload = protowire.AppendFixed64(payload, math.Float64bits(x))
		case string:
			payload = protowire.AppendTag(payload, fieldString, protowire.BytesType)
			payload = protowire.AppendString(payload, x)
		case []byte:
			payload = protowire.AppendTag(payload, fieldBytes, protowire.BytesType)
			payload = protowire.AppendBytes(payload, x)
		default:
			return nil, fmt.Errorf("%w: value %d has type %T", ErrUnknownValueKind, i, v)
		}
	}

	checksum := ComputeChecksum(payload)

	blob := make([]byte, 0, FixedHeaderSize+len(payload))
	blob = append(blob, MagicBytes...)
	blob = binary.LittleEndian.AppendUint32(blob, FormatVersion)
	blob = append(blob, checksum[:]...)
	blob = append(blob, payload...)
	return blob, nil
}

// DecodeValues decodes a blob produced by EncodeValues.
func DecodeValues(blob []byte) ([]any, error) {
	if len(blob) < FixedHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, header needs %d", ErrTruncated, len(blob), FixedHeaderSize)
	}
	if string(blob[:4]) != MagicBytes {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidMagic, blob[:4])
	}
	if version := binary.LittleEndian.Uint32(blob[4:8]); version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	var stored [ChecksumSize]byte
	copy(stored[:], blob[ChecksumOffset:FixedHeaderSize])
	payload := blob[FixedHeaderSize:]
	if err := ValidateChecksum(ComputeChecksum(payload), stored); err != nil {
		return nil, err
	}

	return decodePayload(payload)
}

//nolint:gocyclo,cyclop // One case per value kind.
func decodePayload(b []byte) ([]any, error) {
	values := make([]any, 0, 8)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldInt64 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, protowire.ParseError(m))
			}
			values = append(values, protowire.DecodeZigZag(v))
			n = m
		case num == fieldBool && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, protowire.ParseError(m))
			}
			values = append(values, protowire.DecodeBool(v))
			n = m
		case num == fieldFloat64 && typ == protowire.Fixed64Type:
			v, m := protowire.ConsumeFixed64(b)
			if m < 0 {
				return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, protowire.ParseError(m))
			}
			values = append(values, math.Float64frombits(v))
			n = m
		case num == fieldString && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, protowire.ParseError(m))
			}
			values = append(values, v)
			n = m
		case num == fieldBytes && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, protowire.ParseError(m))
			}
			values = append(values, append([]byte(nil), v...))
			n = m
		default:
			return nil, fmt.Errorf("%w: field %d with wire type %d", ErrUnknownValueKind, num, typ)
		}
		b = b[n:]
	}
	return values, nil
}
