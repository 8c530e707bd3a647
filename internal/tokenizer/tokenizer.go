package tokenizer

// Tokenizer converts between text and token ids.
//
// Every implementation also satisfies data.TextEncoder, so any Tokenizer can
// feed a TextEncodeProducer.
type Tokenizer interface {
	// Encode converts text to token IDs.
	Encode(text string) ([]int32, error)

	// Decode converts token IDs back to text.
	Decode(tokens []int32) (string, error)

	// VocabSize returns the total vocabulary size.
	VocabSize() int

	// BosToken returns the beginning-of-sequence token ID, or -1.
	BosToken() int32

	// EosToken returns the end-of-sequence token ID, or -1.
	EosToken() int32

	// PadToken returns the padding token ID, or -1.
	PadToken() int32

	// UnkToken returns the unknown token ID, or -1.
	UnkToken() int32

	// IsSpecialToken reports whether token is a control or special token.
	IsSpecialToken(token int32) bool
}
