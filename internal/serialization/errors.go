package serialization

import "errors"

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: checkpoint may be corrupted")
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrTruncated          = errors.New("checkpoint blob is truncated")
	ErrMalformedPayload   = errors.New("malformed checkpoint payload")
	ErrUnknownValueKind   = errors.New("unsupported value kind")
)
