package data

import (
	"fmt"

	"github.com/born-ml/datapipe/internal/serialization"
)

// Tape is an append-only capture medium for producer positions.
//
// Values are recorded in order and read back front-to-back. A tape written by
// one producer must only be read by an identically configured producer of the
// same type; any mismatch in count or type is reported as ErrCorruptTape.
//
// Supported value types: int64, bool, float64, string, []byte.
type Tape struct {
	values []any // Recorded values (in record order)
	pos    int   // Read cursor
}

// NewTape creates an empty tape.
func NewTape() *Tape {
	return &Tape{
		values: make([]any, 0, 8),
	}
}

// RecordInt64 appends an int64 value.
func (t *Tape) RecordInt64(v int64) {
	t.values = append(t.values, v)
}

// RecordBool appends a bool value.
func (t *Tape) RecordBool(v bool) {
	t.values = append(t.values, v)
}

// RecordFloat64 appends a float64 value.
func (t *Tape) RecordFloat64(v float64) {
	t.values = append(t.values, v)
}

// RecordString appends a string value.
func (t *Tape) RecordString(v string) {
	t.values = append(t.values, v)
}

// RecordBytes appends a copy of b.
func (t *Tape) RecordBytes(b []byte) {
	t.values = append(t.values, append([]byte(nil), b...))
}

// ReadInt64 consumes the next value, which must be an int64.
func (t *Tape) ReadInt64() (int64, error) {
	return readValue[int64](t)
}

// ReadBool consumes the next value, which must be a bool.
func (t *Tape) ReadBool() (bool, error) {
	return readValue[bool](t)
}

// ReadFloat64 consumes the next value, which must be a float64.
func (t *Tape) ReadFloat64() (float64, error) {
	return readValue[float64](t)
}

// ReadString consumes the next value, which must be a string.
func (t *Tape) ReadString() (string, error) {
	return readValue[string](t)
}

// ReadBytes consumes the next value, which must be a byte slice.
func (t *Tape) ReadBytes() ([]byte, error) {
	b, err := readValue[[]byte](t)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

func readValue[T any](t *Tape) (T, error) {
	var zero T
	if t.pos >= len(t.values) {
		return zero, fmt.Errorf("%w: read past end at position %d", ErrCorruptTape, t.pos)
	}
	v, ok := t.values[t.pos].(T)
	if !ok {
		return zero, fmt.Errorf("%w: position %d holds %T, want %T", ErrCorruptTape, t.pos, t.values[t.pos], zero)
	}
	t.pos++
	return v, nil
}

// Len returns the number of recorded values.
func (t *Tape) Len() int {
	return len(t.values)
}

// Remaining returns the number of values not yet read.
func (t *Tape) Remaining() int {
	return len(t.values) - t.pos
}

// Rewind moves the read cursor back to the first value.
func (t *Tape) Rewind() {
	t.pos = 0
}

// MarshalBinary encodes the recorded values as a checkpoint blob.
// The read cursor is not part of the encoding.
func (t *Tape) MarshalBinary() ([]byte, error) {
	return serialization.EncodeValues(t.values)
}

// UnmarshalBinary replaces the tape contents with the values in data and
// rewinds the cursor.
func (t *Tape) UnmarshalBinary(data []byte) error {
	values, err := serialization.DecodeValues(data)
	if err != nil {
		return fmt.Errorf("failed to decode tape: %w", err)
	}
	t.values = values
	t.pos = 0
	return nil
}
