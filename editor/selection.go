package editor

import "fmt"

// Range is a half-open span [Start, End) of offsets. The unit of the offsets
// depends on the API returning or accepting it: byte offsets for the
// buffer-facing methods, UTF-16 code units for the input method protocol.
type Range struct {
	Start int
	End   int
}

// Len returns the number of units covered by the range.
func (r Range) Len() int {
	return abs(r.End - r.Start)
}

// IsEmpty reports whether the range covers nothing.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

func (r Range) normalize() Range {
	if r.Start > r.End {
		r.Start, r.End = r.End, r.Start
	}
	return r
}

// Selection is the active selection of the editor, in byte offsets. Start is
// never greater than End. Reversed records that the anchor of the selection
// is End, so the caret sits at Start.
type Selection struct {
	Start    int
	End      int
	Reversed bool
}

// Caret returns the offset of the insertion point: Start if the selection is
// reversed, End otherwise.
func (s Selection) Caret() int {
	if s.Reversed {
		return s.Start
	}
	return s.End
}

// Anchor returns the fixed end of the selection.
func (s Selection) Anchor() int {
	if s.Reversed {
		return s.End
	}
	return s.Start
}

// IsCollapsed reports whether the selection is a plain caret.
func (s Selection) IsCollapsed() bool {
	return s.Start == s.End
}

// Range returns the selected byte range.
func (s Selection) Range() Range {
	return Range{Start: s.Start, End: s.End}
}

// collapse places a caret at offset.
func (s *Selection) collapse(offset int) {
	s.Start = offset
	s.End = offset
	s.Reversed = false
}

// extend moves the caret end of the selection to offset. When the caret
// crosses the anchor the ends are swapped and the direction flips, which
// keeps Start <= End.
func (s *Selection) extend(offset int) {
	if s.Reversed {
		s.Start = offset
	} else {
		s.End = offset
	}

	if s.End < s.Start {
		s.Reversed = !s.Reversed
		s.Start, s.End = s.End, s.Start
	}
}

// validate panics if the selection does not fit a text of length bytes.
func (s Selection) validate(length int) {
	if s.Start < 0 || s.Start > s.End || s.End > length {
		panic(fmt.Sprintf("editor: invalid selection [%d, %d) for text of %d bytes", s.Start, s.End, length))
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
