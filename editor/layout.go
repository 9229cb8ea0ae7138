package editor

import (
	"image"

	"golang.org/x/image/math/fixed"
)

// Layout is the shaped geometry of the text, produced by the host after
// painting. Coordinates are relative to the top-left corner of the painted
// text and offsets are in bytes.
type Layout interface {
	// ClosestIndex returns the byte offset of the caret position closest
	// to pos.
	ClosestIndex(pos image.Point) int
	// Caret returns the caret geometry at the byte offset.
	Caret(offset int) Caret
}

// Caret describes where a caret is drawn.
type Caret struct {
	// X is the horizontal position of the caret.
	X fixed.Int26_6
	// Y is the baseline of the line containing the caret.
	Y               int
	Ascent, Descent fixed.Int26_6
}

// Rect returns the caret as a zero width rectangle spanning its line.
func (c Caret) Rect() image.Rectangle {
	x := c.X.Round()
	return image.Rect(x, c.Y-c.Ascent.Ceil(), x, c.Y+c.Descent.Ceil())
}

// layoutSnapshot is the layout of the last paint and the bounds it was
// painted into. It may be stale right after an edit.
type layoutSnapshot struct {
	layout Layout
	bounds image.Rectangle
}

// SetLayout records the layout of the last paint and the bounds it was
// painted into. It replaces any previous layout.
func (e *Editor) SetLayout(l Layout, bounds image.Rectangle) {
	e.snapshot = layoutSnapshot{layout: l, bounds: bounds}
}

// LastLayout returns the layout recorded by the last paint and the bounds
// it was painted into.
func (e *Editor) LastLayout() (Layout, image.Rectangle, bool) {
	return e.snapshot.layout, e.snapshot.bounds, e.snapshot.layout != nil
}

// BoundsForRange returns the area covered by rng, given in UTF-16 code
// units, in the coordinates of the painted bounds. ok is false if no layout
// was produced yet.
func (e *Editor) BoundsForRange(rng Range) (bounds image.Rectangle, ok bool) {
	e.initBuffer()
	l, origin, ok := e.LastLayout()
	if !ok {
		return image.Rectangle{}, false
	}
	r := e.Offsets().RangeFromUTF16(rng).normalize()
	start, end := l.Caret(r.Start).Rect(), l.Caret(r.End).Rect()
	// Caret rectangles have no width, so Union would drop them.
	bounds = image.Rectangle{
		Min: image.Pt(min(start.Min.X, end.Min.X), min(start.Min.Y, end.Min.Y)),
		Max: image.Pt(max(start.Max.X, end.Max.X), max(start.Max.Y, end.Max.Y)),
	}
	return bounds.Add(origin.Min), true
}

// CharacterIndexForPoint returns the UTF-16 offset of the character closest
// to pt. ok is false if no layout was produced yet.
func (e *Editor) CharacterIndexForPoint(pt image.Point) (index int, ok bool) {
	e.initBuffer()
	l, origin, ok := e.LastLayout()
	if !ok {
		return 0, false
	}
	off := e.buf.Floor(l.ClosestIndex(pt.Sub(origin.Min)))
	return e.Offsets().ToUTF16(off), true
}

// indexForPoint maps a pointer position to a byte offset. Points left of a
// single line input map to its start, points right of it to its end.
func (e *Editor) indexForPoint(pt image.Point) int {
	l, bounds, ok := e.LastLayout()
	if !ok {
		return 0
	}
	if e.mode == ModeSingleLine {
		if pt.X < bounds.Min.X {
			return 0
		}
		if pt.X > bounds.Max.X {
			return e.buf.Len()
		}
	}
	return e.buf.Floor(l.ClosestIndex(pt.Sub(bounds.Min)))
}
