package buffer

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrOutOfBounds is returned when an offset or range does not address a
// valid position of the buffer.
var ErrOutOfBounds = errors.New("offset out of bounds")

// Buffer is a growable sequence of UTF-8 encoded text addressed by byte
// offsets. The content is always valid UTF-8, so every offset the buffer
// hands out is a rune boundary.
type Buffer struct {
	text    []byte
	changed bool
	lines   lineIndex
}

// New creates a buffer holding s.
func New(s string) *Buffer {
	b := &Buffer{}
	b.text = append(b.text, Sanitize(s)...)
	return b
}

// Len returns the size of the text in bytes.
func (b *Buffer) Len() int {
	return len(b.text)
}

// String returns the whole text.
func (b *Buffer) String() string {
	return string(b.text)
}

// Slice returns the text between start and end. It panics if the range is
// invalid, like slicing a string would.
func (b *Buffer) Slice(start, end int) string {
	return string(b.text[start:end])
}

// Replace splices text into the byte range [start, end). The range must lie
// within [0, Len] and both ends must be rune boundaries.
func (b *Buffer) Replace(start, end int, text string) error {
	if start < 0 || end > len(b.text) || start > end {
		return fmt.Errorf("%w: range [%d, %d) of %d bytes", ErrOutOfBounds, start, end, len(b.text))
	}
	if !b.IsBoundary(start) || !b.IsBoundary(end) {
		return fmt.Errorf("%w: range [%d, %d) splits a character", ErrOutOfBounds, start, end)
	}

	text = Sanitize(text)
	if start == end && len(text) == 0 {
		return nil
	}

	tail := len(b.text) - end
	grow := len(text) - (end - start)
	if grow > 0 {
		b.text = append(b.text, make([]byte, grow)...)
	}
	copy(b.text[start+len(text):], b.text[end:end+tail])
	copy(b.text[start:], text)
	b.text = b.text[:start+len(text)+tail]
	b.changed = true
	b.lines.invalidate()
	return nil
}

// Set replaces the whole content.
func (b *Buffer) Set(s string) {
	b.text = append(b.text[:0], Sanitize(s)...)
	b.changed = true
	b.lines.invalidate()
}

// IsBoundary reports whether off is a valid rune boundary of the text.
func (b *Buffer) IsBoundary(off int) bool {
	if off < 0 || off > len(b.text) {
		return false
	}
	return off == len(b.text) || utf8.RuneStart(b.text[off])
}

// Floor clamps off to [0, Len] and moves it back to the start of the rune
// it falls into.
func (b *Buffer) Floor(off int) int {
	off = max(0, min(off, len(b.text)))
	for off > 0 && !b.IsBoundary(off) {
		off--
	}
	return off
}

// Changed reports whether the content was modified since the last call.
func (b *Buffer) Changed() bool {
	c := b.changed
	b.changed = false
	return c
}

// Sanitize replaces the invalid UTF-8 sequences of s with U+FFFD, the way
// the buffer stores text.
func Sanitize(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}
