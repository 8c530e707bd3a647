package data

import "errors"

// Record is a single item produced by a pipeline stage.
//
// Records are opaque to the producer contract; stages agree on concrete types
// among themselves (int64 for CountProducer, []int32 for TextEncodeProducer).
type Record = any

// Producer is the pull-based contract every pipeline stage implements.
//
// Producers are stateful and single-consumer. Concurrent calls on the same
// instance are not allowed.
type Producer interface {
	// Next returns the next record, or ErrEndOfData when the stream is
	// exhausted. The result is a deterministic function of the prior call
	// history and of any prior ReloadPosition.
	Next() (Record, error)

	// Reset returns the producer to the state it had right after construction.
	// Configuration is not affected.
	Reset()

	// RecordPosition appends to t exactly the mutable state needed to resume
	// at the current point. Configuration is never recorded.
	RecordPosition(t *Tape)

	// ReloadPosition reads back what RecordPosition wrote, in the same order.
	// It returns an error wrapping ErrCorruptTape if t does not have the
	// expected shape; the producer must then be discarded.
	ReloadPosition(t *Tape) error
}

// Take pulls up to n records from p. It stops early, without error, when p
// reaches the end of its data.
func Take(p Producer, n int) ([]Record, error) {
	out := make([]Record, 0, n)
	for range n {
		r, err := p.Next()
		if errors.Is(err, ErrEndOfData) {
			break
		}
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}
	return out, nil
}
