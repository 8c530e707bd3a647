package data

import "fmt"

// TextEncoder converts text to token ids.
//
// Every tokenizer.Tokenizer satisfies it.
type TextEncoder interface {
	Encode(text string) ([]int32, error)
}

// TextEncodeProducer pulls strings from an inner producer and yields their
// token ids as []int32.
//
// It holds no position of its own: checkpointing delegates to the inner
// producer, so restoring it re-encodes nothing that was already consumed.
type TextEncodeProducer struct {
	inner   Producer
	encoder TextEncoder
}

// NewTextEncodeProducer creates an encoding stage over inner.
func NewTextEncodeProducer(inner Producer, encoder TextEncoder) *TextEncodeProducer {
	return &TextEncodeProducer{
		inner:   inner,
		encoder: encoder,
	}
}

// Next encodes the next string from the inner producer.
func (p *TextEncodeProducer) Next() (Record, error) {
	r, err := p.inner.Next()
	if err != nil {
		return nil, err
	}

	text, ok := r.(string)
	if !ok {
		return nil, fmt.Errorf("%w: text encoder got %T, want string", ErrUnexpectedRecord, r)
	}

	ids, err := p.encoder.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return ids, nil
}

// Reset resets the inner producer.
func (p *TextEncodeProducer) Reset() {
	p.inner.Reset()
}

// RecordPosition records the inner producer's position.
func (p *TextEncodeProducer) RecordPosition(t *Tape) {
	p.inner.RecordPosition(t)
}

// ReloadPosition restores the inner producer's position.
func (p *TextEncodeProducer) ReloadPosition(t *Tape) error {
	return p.inner.ReloadPosition(t)
}
