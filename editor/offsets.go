package editor

import (
	"unicode/utf16"
	"unicode/utf8"
)

// Offsets translates the byte offsets of a text to the units used by input
// method hosts: UTF-16 code units, and runes for hosts that count code
// points. All conversions are linear scans of the text.
type Offsets struct {
	text string
}

// NewOffsets returns a translator for text.
func NewOffsets(text string) Offsets {
	return Offsets{text: text}
}

// floor clamps off into the text and moves it to the start of the rune it
// falls into.
func (o Offsets) floor(off int) int {
	off = max(0, min(off, len(o.text)))
	for off > 0 && off < len(o.text) && !utf8.RuneStart(o.text[off]) {
		off--
	}
	return off
}

// ToUTF16 returns the number of UTF-16 code units encoding the text before
// the byte offset off.
func (o Offsets) ToUTF16(off int) int {
	off = o.floor(off)
	units := 0
	for _, r := range o.text[:off] {
		units += utf16Len(r)
	}
	return units
}

// FromUTF16 returns the byte offset of the first character at which the
// accumulated UTF-16 width reaches units. A count inside a surrogate pair
// resolves to the character after the pair. Counts beyond the text resolve
// to its length.
func (o Offsets) FromUTF16(units int) int {
	current := 0
	for i, r := range o.text {
		if current >= units {
			return i
		}
		current += utf16Len(r)
	}
	return len(o.text)
}

// RangeToUTF16 converts both ends of a byte range.
func (o Offsets) RangeToUTF16(r Range) Range {
	return Range{Start: o.ToUTF16(r.Start), End: o.ToUTF16(r.End)}
}

// RangeFromUTF16 converts both ends of a UTF-16 range.
func (o Offsets) RangeFromUTF16(r Range) Range {
	return Range{Start: o.FromUTF16(r.Start), End: o.FromUTF16(r.End)}
}

// ToRunes returns the number of runes before the byte offset off.
func (o Offsets) ToRunes(off int) int {
	return utf8.RuneCountInString(o.text[:o.floor(off)])
}

// FromRunes returns the byte offset of the rune at index runes, or the text
// length if there are fewer runes.
func (o Offsets) FromRunes(runes int) int {
	n := 0
	for i := range o.text {
		if n >= runes {
			return i
		}
		n++
	}
	return len(o.text)
}

func utf16Len(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	// Invalid runes are written as U+FFFD.
	return 1
}
