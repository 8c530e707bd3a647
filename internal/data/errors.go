package data

import "errors"

// Common errors.
var (
	// ErrEndOfData is returned by Producer.Next when the stream is exhausted.
	ErrEndOfData = errors.New("end of data")

	// ErrCorruptTape means a tape does not match the shape the reading
	// producer expects: it ran out of values, or a value has the wrong type.
	ErrCorruptTape = errors.New("corrupt tape")

	// ErrUnexpectedRecord means a stage received a record of a type it cannot handle.
	ErrUnexpectedRecord = errors.New("unexpected record type")
)
