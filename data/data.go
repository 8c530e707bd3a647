// Package data provides checkpointable sequential data producers.
//
// A Producer yields records one at a time. Its position can be recorded to a
// Tape and later reloaded into a fresh, identically configured producer,
// which then continues exactly where the original left off:
//
//	p := data.NewCountProducer(10)
//	p.Next() // 10
//	p.Next() // 11
//
//	tape := data.NewTape()
//	p.RecordPosition(tape)
//	blob, _ := tape.MarshalBinary()
//
//	restored := data.NewCountProducer(10)
//	saved := data.NewTape()
//	_ = saved.UnmarshalBinary(blob)
//	_ = restored.ReloadPosition(saved)
//	restored.Next() // 12
package data

import (
	"github.com/born-ml/datapipe/internal/data"
)

// Record is a value yielded by a Producer.
type Record = data.Record

// Producer is a resumable, single-consumer stream of records.
type Producer = data.Producer

// Tape is an ordered store of position state.
type Tape = data.Tape

// TextEncoder converts text to token ids.
type TextEncoder = data.TextEncoder

// Producer implementations.
type (
	CountProducer      = data.CountProducer
	SequenceProducer   = data.SequenceProducer
	TextEncodeProducer = data.TextEncodeProducer
)

// Errors.
var (
	ErrEndOfData        = data.ErrEndOfData
	ErrCorruptTape      = data.ErrCorruptTape
	ErrUnexpectedRecord = data.ErrUnexpectedRecord
)

// NewTape returns an empty tape.
func NewTape() *Tape {
	return data.NewTape()
}

// NewCountProducer returns an infinite producer of start, start+1, ...
func NewCountProducer(start int64) *CountProducer {
	return data.NewCountProducer(start)
}

// NewSequenceProducer returns a producer over records.
func NewSequenceProducer(records []Record) *SequenceProducer {
	return data.NewSequenceProducer(records)
}

// NewTextEncodeProducer returns a producer that encodes the strings yielded
// by inner.
func NewTextEncodeProducer(inner Producer, encoder TextEncoder) *TextEncodeProducer {
	return data.NewTextEncodeProducer(inner, encoder)
}

// Take pulls up to n records from p.
func Take(p Producer, n int) ([]Record, error) {
	return data.Take(p, n)
}
