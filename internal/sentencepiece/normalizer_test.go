package sentencepiece

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizer_Normalize(t *testing.T) {
	tests := []struct {
		name   string
		spec   func(*NormalizerSpec, *TrainerSpec)
		input  string
		want   string
		origin map[int]int // normalized byte -> input byte
	}{
		{
			name:   "dummy prefix and escaping",
			input:  "hello world",
			want:   "▁hello▁world",
			origin: map[int]int{0: 0, 3: 0, 8: 5, 11: 6, 16: 11},
		},
		{
			name:   "collapses extra whitespace",
			input:  "  hello   world  ",
			want:   "▁hello▁world",
			origin: map[int]int{3: 2, 8: 7, 11: 10, 16: 17},
		},
		{
			name: "keeps whitespace when removal is off",
			spec: func(n *NormalizerSpec, _ *TrainerSpec) {
				n.RemoveExtraWhitespaces = false
				n.AddDummyPrefix = false
			},
			input: "a  b",
			want:  "a▁▁b",
		},
		{
			name: "no escaping",
			spec: func(n *NormalizerSpec, _ *TrainerSpec) {
				n.EscapeWhitespaces = false
			},
			input: "a b",
			want:  " a b",
		},
		{
			name: "whitespace as suffix",
			spec: func(_ *NormalizerSpec, ts *TrainerSpec) {
				ts.TreatWhitespaceAsSuffix = true
			},
			input:  "a b",
			want:   "a▁b▁",
			origin: map[int]int{0: 0, 1: 1, 4: 2, 5: 3, 8: 3},
		},
		{
			name: "nfkc",
			spec: func(n *NormalizerSpec, _ *TrainerSpec) {
				n.Name = "nmt_nfkc"
				n.AddDummyPrefix = false
			},
			input:  "ﬁx",
			want:   "fix",
			origin: map[int]int{0: 0, 3: 4},
		},
		{
			name: "nfkc case fold",
			spec: func(n *NormalizerSpec, _ *TrainerSpec) {
				n.Name = "nfkc_cf"
				n.AddDummyPrefix = false
			},
			input: "ABC",
			want:  "abc",
		},
		{
			name:   "only whitespace",
			input:  "   ",
			want:   "",
			origin: map[int]int{0: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := DefaultNormalizerSpec()
			spec.Name = "identity"
			ts := DefaultTrainerSpec()
			if tt.spec != nil {
				tt.spec(&spec, &ts)
			}

			got := newNormalizer(&spec, &ts).normalize(tt.input)
			assert.Equal(t, tt.want, got.text)
			assert.Len(t, got.offsets, len(got.text)+1)
			assert.Equal(t, len(tt.input), got.origin(len(got.text)))
			for pos, want := range tt.origin {
				assert.Equal(t, want, got.origin(pos), "origin(%d)", pos)
			}
		})
	}
}
