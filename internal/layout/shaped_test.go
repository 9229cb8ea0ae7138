package layout

import (
	"image"
	"testing"

	"gioui.org/font/gofont"
	"gioui.org/text"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/math/fixed"
)

func glyph(x, y, advance int, runes uint16, flags text.Flags) text.Glyph {
	return text.Glyph{
		X:       fixed.I(x),
		Y:       int32(y),
		Advance: fixed.I(advance),
		Ascent:  fixed.I(8),
		Descent: fixed.I(2),
		Runes:   runes,
		Flags:   flags | text.FlagClusterBreak,
	}
}

const endOfLine = text.FlagRunBreak | text.FlagLineBreak

// indexGlyphs builds a layout of s from hand made glyphs.
func indexGlyphs(s string, glyphs ...text.Glyph) *Shaped {
	l := &Shaped{}
	l.reset(s)
	for _, g := range glyphs {
		l.Glyph(g)
	}
	l.segment()
	return l
}

func TestShapedCaret(t *testing.T) {
	l := indexGlyphs("ab",
		glyph(0, 10, 10, 1, 0),
		glyph(10, 10, 10, 1, endOfLine),
	)

	for off, wantX := range []int{0, 10, 20} {
		c := l.Caret(off)
		if c.X != fixed.I(wantX) || c.Y != 10 {
			t.Errorf("Caret(%d)=(%v, %d), want (%d, 10)", off, c.X, c.Y, wantX)
		}
	}
	if got := l.ClosestIndex(image.Pt(12, 5)); got != 1 {
		t.Errorf("ClosestIndex(12, 5)=%d, want 1", got)
	}
	if got := l.ClosestIndex(image.Pt(100, 100)); got != 2 {
		t.Errorf("ClosestIndex below the text=%d, want 2", got)
	}
}

func TestShapedClosestIndexSnapsToClusters(t *testing.T) {
	// One glyph for the base letter and its combining accent.
	l := indexGlyphs("e\u0301x",
		glyph(0, 10, 10, 2, 0),
		glyph(10, 10, 10, 1, endOfLine),
	)

	if got := l.ClosestIndex(image.Pt(6, 5)); got != 3 {
		t.Errorf("ClosestIndex(6, 5)=%d, want 3", got)
	}
	if got := l.ClosestIndex(image.Pt(4, 5)); got != 0 {
		t.Errorf("ClosestIndex(4, 5)=%d, want 0", got)
	}
}

func TestShapedLines(t *testing.T) {
	l := indexGlyphs("ab\ncd",
		glyph(0, 10, 10, 1, 0),
		glyph(10, 10, 10, 1, 0),
		glyph(20, 10, 0, 1, text.FlagParagraphBreak|endOfLine),
		glyph(0, 30, 10, 1, 0),
		glyph(10, 30, 10, 1, endOfLine),
	)

	if n := len(l.Lines()); n != 2 {
		t.Fatalf("%d lines, want 2", n)
	}
	if c := l.Caret(3); c.X != 0 || c.Y != 30 {
		t.Errorf("Caret(3)=(%v, %d), want (0, 30)", c.X, c.Y)
	}
	if got := l.ClosestIndex(image.Pt(15, 25)); got != 4 {
		t.Errorf("ClosestIndex(15, 25)=%d, want 4", got)
	}
	if got, want := l.Size(), image.Pt(20, 32); got != want {
		t.Errorf("Size()=%v, want %v", got, want)
	}

	want := []Region{
		{Bounds: image.Rect(10, 2, 20, 12), Baseline: 2},
		{Bounds: image.Rect(0, 22, 10, 32), Baseline: 2},
	}
	if diff := cmp.Diff(want, l.Regions(4, 1, nil)); diff != "" {
		t.Errorf("Regions mismatch (-want +got):\n%s", diff)
	}
}

func TestShapedWithGoFont(t *testing.T) {
	shaper := text.NewShaper(text.NoSystemFonts(), text.WithCollection(gofont.Collection()))
	params := text.Parameters{
		PxPerEm:  fixed.I(16),
		MaxWidth: 10000,
	}
	const s = "GET https://example.com/ü"
	l := Shape(shaper, params, s)

	if len(l.Lines()) != 1 {
		t.Fatalf("%d lines, want 1", len(l.Lines()))
	}

	prev := fixed.Int26_6(-1)
	for off := range s {
		c := l.Caret(off)
		if c.X <= prev {
			t.Fatalf("Caret(%d).X=%v does not advance past %v", off, c.X, prev)
		}
		prev = c.X
		if got := l.ClosestIndex(image.Pt(c.X.Round(), c.Y)); got != off {
			t.Errorf("ClosestIndex at caret %d=%d", off, got)
		}
	}
	if c := l.Caret(len(s)); c.X <= prev {
		t.Errorf("caret at end %v does not advance past %v", c.X, prev)
	}
}
