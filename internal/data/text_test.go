package data

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runeEncoder maps every rune to its code point.
type runeEncoder struct{}

func (runeEncoder) Encode(text string) ([]int32, error) {
	if strings.Contains(text, "\x00") {
		return nil, errors.New("nul byte")
	}
	ids := make([]int32, 0, len(text))
	for _, r := range text {
		ids = append(ids, r)
	}
	return ids, nil
}

func TestTextEncodeProducer_Next(t *testing.T) {
	inner := NewSequenceProducer([]Record{"ab", "", "c"})
	p := NewTextEncodeProducer(inner, runeEncoder{})

	got, err := Take(p, 5)
	require.NoError(t, err)
	assert.Equal(t, []Record{[]int32{'a', 'b'}, []int32{}, []int32{'c'}}, got)
}

func TestTextEncodeProducer_Checkpoint(t *testing.T) {
	texts := []Record{"one", "two", "three", "four"}

	p := NewTextEncodeProducer(NewSequenceProducer(texts), runeEncoder{})
	_, err := Take(p, 1)
	require.NoError(t, err)

	tape := NewTape()
	p.RecordPosition(tape)

	fresh := NewTextEncodeProducer(NewSequenceProducer(texts), runeEncoder{})
	require.NoError(t, fresh.ReloadPosition(tape))

	r, err := fresh.Next()
	require.NoError(t, err)
	assert.Equal(t, []int32{'t', 'w', 'o'}, r)

	fresh.Reset()
	r, err = fresh.Next()
	require.NoError(t, err)
	assert.Equal(t, []int32{'o', 'n', 'e'}, r)
}

func TestTextEncodeProducer_Errors(t *testing.T) {
	p := NewTextEncodeProducer(NewCountProducer(0), runeEncoder{})
	_, err := p.Next()
	assert.ErrorIs(t, err, ErrUnexpectedRecord)

	p = NewTextEncodeProducer(NewSequenceProducer([]Record{"bad\x00"}), runeEncoder{})
	_, err = p.Next()
	assert.Error(t, err)

	_, err = p.Next()
	assert.ErrorIs(t, err, ErrEndOfData)
}
