package sentencepiece

// EncodedPiece is one segment of an encoded text.
type EncodedPiece struct {
	Piece string // Vocabulary surface; the normalized text for unknown pieces
	ID    int32
	Begin int // Byte offset into the original text
	End   int
}

// EncodedResult is the segmentation of a text.
type EncodedResult struct {
	Text   string // Original input
	Pieces []EncodedPiece
}

// IDs returns the piece ids in order.
func (r *EncodedResult) IDs() []int32 {
	ids := make([]int32, len(r.Pieces))
	for i, p := range r.Pieces {
		ids[i] = p.ID
	}
	return ids
}

// Surfaces returns the piece strings in order, suitable for Decode.
func (r *EncodedResult) Surfaces() []string {
	s := make([]string, len(r.Pieces))
	for i, p := range r.Pieces {
		s[i] = p.Piece
	}
	return s
}

// Len returns the number of pieces.
func (r *EncodedResult) Len() int {
	return len(r.Pieces)
}
