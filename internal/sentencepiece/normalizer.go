package sentencepiece

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// spaceSymbol replaces whitespace in normalized text ("▁", U+2581).
const spaceSymbol = "▁"

// normalizer rewrites raw text into the form the segmenters operate on.
type normalizer struct {
	form                   *norm.Form // nil for identity
	caseFold               bool
	addDummyPrefix         bool
	removeExtraWhitespaces bool
	escapeWhitespaces      bool
	suffixWhitespace       bool
}

// normalized is normalizer output with a byte-level map back to the input.
type normalized struct {
	text string
	// offsets[i] is the input byte offset that produced text[i];
	// offsets[len(text)] is len(input).
	offsets []int
}

// origin maps a normalized byte position to an input byte position.
func (n *normalized) origin(pos int) int {
	return n.offsets[pos]
}

func newNormalizer(spec *NormalizerSpec, trainer *TrainerSpec) *normalizer {
	nz := &normalizer{
		addDummyPrefix:         spec.AddDummyPrefix,
		removeExtraWhitespaces: spec.RemoveExtraWhitespaces,
		escapeWhitespaces:      spec.EscapeWhitespaces,
		suffixWhitespace:       trainer.TreatWhitespaceAsSuffix,
	}

	name := strings.ToLower(spec.Name)
	switch {
	case strings.Contains(name, "nfkc"):
		f := norm.NFKC
		nz.form = &f
	case strings.Contains(name, "nfc"):
		f := norm.NFC
		nz.form = &f
	}
	nz.caseFold = strings.HasSuffix(name, "_cf")
	return nz
}

func (nz *normalizer) space() string {
	if nz.escapeWhitespaces {
		return spaceSymbol
	}
	return " "
}

// normalize applies Unicode normalization, whitespace cleanup, escaping and
// the dummy prefix.
func (nz *normalizer) normalize(input string) normalized {
	var b strings.Builder
	b.Grow(len(input) + 8)
	offsets := make([]int, 0, len(input)+8)

	write := func(s string, origin int) {
		b.WriteString(s)
		for range len(s) {
			offsets = append(offsets, origin)
		}
	}

	atStart := true
	pendingSpace := -1 // input offset of a deferred whitespace run, or -1

	emit := func(r rune, origin int) {
		if nz.caseFold {
			r = unicode.ToLower(r)
		}
		if r == ' ' {
			if !nz.removeExtraWhitespaces {
				write(nz.space(), origin)
				return
			}
			if !atStart && pendingSpace < 0 {
				pendingSpace = origin
			}
			return
		}
		if pendingSpace >= 0 {
			write(nz.space(), pendingSpace)
			pendingSpace = -1
		}
		atStart = false
		var buf [utf8.UTFMax]byte
		write(string(buf[:utf8.EncodeRune(buf[:], r)]), origin)
	}

	if nz.form != nil {
		var it norm.Iter
		it.InitString(*nz.form, input)
		for !it.Done() {
			origin := it.Pos()
			seg := it.Next()
			for _, r := range string(seg) {
				emit(r, origin)
			}
		}
	} else {
		for i, r := range input {
			emit(r, i)
		}
	}

	if b.Len() == 0 {
		return normalized{offsets: []int{len(input)}}
	}

	text := b.String()
	if nz.addDummyPrefix {
		space := nz.space()
		prefix := make([]int, len(space))
		if nz.suffixWhitespace {
			text += space
			for i := range prefix {
				prefix[i] = len(input)
			}
			offsets = append(offsets, prefix...)
		} else {
			text = space + text
			offsets = append(prefix, offsets...)
		}
	}
	offsets = append(offsets, len(input))

	return normalized{text: text, offsets: offsets}
}
