package data

import (
	"fmt"
	"math"
)

// CountProducer yields a strictly increasing stream of int64 values starting
// at a configured value. The stream ends before math.MaxInt64 instead of
// wrapping.
//
// It is the reference implementation of Producer: only the counter is part of
// the position, the start value is configuration.
type CountProducer struct {
	start   int64 // Immutable after construction
	counter int64 // Next value to return
}

// NewCountProducer creates a producer yielding start, start+1, start+2, ...
func NewCountProducer(start int64) *CountProducer {
	return &CountProducer{
		start:   start,
		counter: start,
	}
}

// Next returns the current counter and advances it. Once the counter reaches
// math.MaxInt64 it reports ErrEndOfData and leaves the counter in place.
func (c *CountProducer) Next() (Record, error) {
	if c.counter == math.MaxInt64 {
		return nil, fmt.Errorf("%w: counter reached math.MaxInt64", ErrEndOfData)
	}
	v := c.counter
	c.counter++
	return v, nil
}

// Reset rewinds the counter to the start value.
func (c *CountProducer) Reset() {
	c.counter = c.start
}

// RecordPosition writes the counter.
func (c *CountProducer) RecordPosition(t *Tape) {
	t.RecordInt64(c.counter)
}

// ReloadPosition reads the counter. The start value is left untouched.
func (c *CountProducer) ReloadPosition(t *Tape) error {
	counter, err := t.ReadInt64()
	if err != nil {
		return err
	}
	c.counter = counter
	return nil
}

// Start returns the configured start value.
func (c *CountProducer) Start() int64 {
	return c.start
}
