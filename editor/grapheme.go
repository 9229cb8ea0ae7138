package editor

import (
	"unicode/utf8"

	"github.com/go-text/typesetting/segmenter"
)

// graphemeReader finds grapheme cluster boundaries around a byte offset.
// Segmentation only looks at the slice of text on the side of the offset
// being queried.
type graphemeReader struct {
	segmenter.Segmenter
	runes []rune
}

func (g *graphemeReader) init(text string) *segmenter.GraphemeIterator {
	g.runes = g.runes[:0]
	for _, r := range text {
		g.runes = append(g.runes, r)
	}
	g.Segmenter.Init(g.runes)
	return g.Segmenter.GraphemeIterator()
}

// Before returns the byte offset where the last grapheme cluster of
// text[:off] starts, or 0 if there is none.
func (g *graphemeReader) Before(text string, off int) int {
	if off <= 0 {
		return 0
	}
	off = min(off, len(text))

	iter := g.init(text[:off])
	last, pos := 0, 0
	for iter.Next() {
		last = pos
		pos += runesLen(iter.Grapheme().Text)
	}
	return last
}

// After returns the byte offset where the grapheme cluster following off
// ends, or len(text) if off is at the last cluster.
func (g *graphemeReader) After(text string, off int) int {
	off = max(off, 0)
	if off >= len(text) {
		return len(text)
	}

	iter := g.init(text[off:])
	if !iter.Next() {
		return len(text)
	}
	return min(off+runesLen(iter.Grapheme().Text), len(text))
}

func runesLen(runes []rune) int {
	n := 0
	for _, r := range runes {
		n += utf8.RuneLen(r)
	}
	return n
}
