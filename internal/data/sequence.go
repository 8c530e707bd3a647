package data

import "fmt"

// SequenceProducer yields the elements of an in-memory slice in order.
type SequenceProducer struct {
	records []Record
	next    int
}

// NewSequenceProducer creates a producer over records. The slice is not
// copied and must not be modified while the producer is in use.
func NewSequenceProducer(records []Record) *SequenceProducer {
	return &SequenceProducer{records: records}
}

// Next returns the next element, or ErrEndOfData after the last one.
func (s *SequenceProducer) Next() (Record, error) {
	if s.next >= len(s.records) {
		return nil, ErrEndOfData
	}
	r := s.records[s.next]
	s.next++
	return r, nil
}

// Reset moves back to the first element.
func (s *SequenceProducer) Reset() {
	s.next = 0
}

// RecordPosition writes the index of the next element.
func (s *SequenceProducer) RecordPosition(t *Tape) {
	t.RecordInt64(int64(s.next))
}

// ReloadPosition reads the index of the next element.
func (s *SequenceProducer) ReloadPosition(t *Tape) error {
	next, err := t.ReadInt64()
	if err != nil {
		return err
	}
	if next < 0 || next > int64(len(s.records)) {
		return fmt.Errorf("%w: position %d outside sequence of length %d", ErrCorruptTape, next, len(s.records))
	}
	s.next = int(next)
	return nil
}
