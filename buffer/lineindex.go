package buffer

import (
	"sort"
)

const (
	lineBreak = '\n'
)

// Line is a logical line of the text, in byte offsets. End includes the
// trailing line break, if any.
type Line struct {
	Start, End int
	// HasBreak is set if the line ends with a line break.
	HasBreak bool
}

// Len returns the length of the line in bytes, excluding the line break.
func (l Line) Len() int {
	if l.HasBreak {
		return l.End - l.Start - 1
	}
	return l.End - l.Start
}

// lineIndex caches the logical lines of the text. It is rebuilt on the
// first query after a modification.
type lineIndex struct {
	lines []Line
	valid bool
}

func (li *lineIndex) invalidate() {
	li.valid = false
}

func (li *lineIndex) update(text []byte) {
	if li.valid {
		return
	}
	li.lines = parseLines(li.lines[:0], text)
	li.valid = true
}

// parseLines appends the lines of text to lines. The text always has at
// least one line, which is empty for an empty text or after a trailing
// line break.
func parseLines(lines []Line, text []byte) []Line {
	start := 0
	for i, c := range text {
		if c == lineBreak {
			lines = append(lines, Line{Start: start, End: i + 1, HasBreak: true})
			start = i + 1
		}
	}
	return append(lines, Line{Start: start, End: len(text)})
}

// Lines returns the logical lines of the text. The returned slice is owned
// by the buffer and is only valid until the next modification.
func (b *Buffer) Lines() []Line {
	b.lines.update(b.text)
	return b.lines.lines
}

// LineAt returns the index of the line containing the byte offset off and
// the column of off within it, in bytes. Offsets are clamped to the text.
func (b *Buffer) LineAt(off int) (line, col int) {
	lines := b.Lines()
	off = b.Floor(off)
	line = sort.Search(len(lines), func(i int) bool {
		return lines[i].End > off
	})
	if line == len(lines) {
		line = len(lines) - 1
	}
	return line, off - lines[line].Start
}
