package layout

import (
	"image"
	"sort"

	"github.com/mattn/go-runewidth"
	"github.com/oligo/gvinput/buffer"
	"github.com/oligo/gvinput/editor"
	"github.com/rivo/uniseg"
	"golang.org/x/image/math/fixed"
)

// Monospace lays text out on a grid of fixed size cells, one line per
// logical line. Grapheme clusters take as many cells as they are wide in a
// terminal. It implements [editor.Layout] without a font shaper.
type Monospace struct {
	// CellWidth is the width of a cell in pixels.
	CellWidth int
	// LineHeight is the height of a line in pixels.
	LineHeight int

	buf *buffer.Buffer
	// stops holds the caret positions of every line.
	stops [][]stop
}

// stop is a caret position: a grapheme cluster boundary.
type stop struct {
	offset int
	cells  int
}

var _ editor.Layout = (*Monospace)(nil)

// NewMonospace lays s out in cells of cellWidth by lineHeight pixels.
func NewMonospace(s string, cellWidth, lineHeight int) *Monospace {
	m := &Monospace{CellWidth: cellWidth, LineHeight: lineHeight}
	m.Reset(s)
	return m
}

// Reset lays s out again.
func (m *Monospace) Reset(s string) {
	m.buf = buffer.New(s)
	s = m.buf.String()
	m.stops = m.stops[:0]
	for _, line := range m.buf.Lines() {
		m.stops = append(m.stops, lineStops(s, line))
	}
}

func lineStops(s string, line buffer.Line) []stop {
	stops := []stop{{offset: line.Start}}
	rest := s[line.Start : line.Start+line.Len()]
	off, cells := line.Start, 0
	state := -1
	var cluster string
	for len(rest) > 0 {
		cluster, rest, _, state = uniseg.StepString(rest, state)
		off += len(cluster)
		cells += runewidth.StringWidth(cluster)
		stops = append(stops, stop{offset: off, cells: cells})
	}
	return stops
}

// Size returns the size of the grid covering the text.
func (m *Monospace) Size() image.Point {
	width := 0
	for _, stops := range m.stops {
		width = max(width, stops[len(stops)-1].cells)
	}
	return image.Pt(width*m.CellWidth, len(m.stops)*m.LineHeight)
}

// ClosestIndex implements [editor.Layout].
func (m *Monospace) ClosestIndex(pos image.Point) int {
	if len(m.stops) == 0 {
		return 0
	}
	line := 0
	if m.LineHeight > 0 && pos.Y > 0 {
		line = min(pos.Y/m.LineHeight, len(m.stops)-1)
	}
	stops := m.stops[line]
	closest, closestDist := stops[0], abs(pos.X)
	for _, s := range stops[1:] {
		if d := abs(s.cells*m.CellWidth - pos.X); d < closestDist {
			closest, closestDist = s, d
		}
	}
	return closest.offset
}

// Caret implements [editor.Layout].
func (m *Monospace) Caret(offset int) editor.Caret {
	if len(m.stops) == 0 {
		return editor.Caret{}
	}
	line, _ := m.buf.LineAt(offset)
	line = min(line, len(m.stops)-1)

	stops := m.stops[line]
	i := sort.Search(len(stops), func(i int) bool {
		return stops[i].offset > offset
	})
	s := stops[max(i-1, 0)]

	ascent := m.LineHeight * 4 / 5
	return editor.Caret{
		X:       fixed.I(s.cells * m.CellWidth),
		Y:       line*m.LineHeight + ascent,
		Ascent:  fixed.I(ascent),
		Descent: fixed.I(m.LineHeight - ascent),
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
