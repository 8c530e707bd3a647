package sentencepiece

import (
	"strings"
	"unicode/utf8"
)

// wordSegmenter emits whole whitespace-delimited words.
type wordSegmenter struct {
	model *Model
}

func (s *wordSegmenter) encode(text string) []token {
	m := s.model
	suffix := m.proto.TrainerSpec.TreatWhitespaceAsSuffix

	var out []token
	emit := func(begin, end int) {
		if begin == end {
			return
		}
		id, ok := m.segmentable(text[begin:end])
		if !ok {
			id = m.unkID
		}
		out = append(out, token{id: id, begin: begin, end: end})
	}

	begin := 0
	for pos := 0; pos < len(text); {
		rest := text[pos:]
		if !strings.HasPrefix(rest, spaceSymbol) {
			pos += runeLen(rest)
			continue
		}
		if suffix {
			pos += len(spaceSymbol)
			emit(begin, pos)
			begin = pos
			continue
		}
		emit(begin, pos)
		begin = pos
		pos += len(spaceSymbol)
	}
	emit(begin, len(text))
	return mergeUnknown(out, m.unkID)
}

func (s *wordSegmenter) sample(text string, _ int, _ float64, _ randSource) ([]token, error) {
	return s.encode(text), nil
}

// charSegmenter emits one piece per character, preferring user-defined
// pieces where they match.
type charSegmenter struct {
	model *Model
}

func (s *charSegmenter) encode(text string) []token {
	m := s.model
	out := make([]token, 0, utf8.RuneCountInString(text))
	for pos := 0; pos < len(text); {
		if id, l := m.matchUserDefined(text[pos:]); l > 0 {
			out = append(out, token{id: id, begin: pos, end: pos + l})
			pos += l
			continue
		}
		end := pos + runeLen(text[pos:])
		id, ok := m.segmentable(text[pos:end])
		if !ok {
			id = m.unkID
		}
		out = append(out, token{id: id, begin: pos, end: end})
		pos = end
	}
	return mergeUnknown(out, m.unkID)
}

func (s *charSegmenter) sample(text string, _ int, _ float64, _ randSource) ([]token, error) {
	return s.encode(text), nil
}

// runeLen returns the byte length of the first rune of s. Invalid bytes
// count as one.
func runeLen(s string) int {
	_, n := utf8.DecodeRuneInString(s)
	return max(n, 1)
}
