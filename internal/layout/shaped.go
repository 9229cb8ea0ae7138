package layout

import (
	"image"
	"math"
	"sort"

	"gioui.org/text"
	"github.com/go-text/typesetting/segmenter"
	"github.com/oligo/gvinput/editor"
	"golang.org/x/exp/slices"
	"golang.org/x/image/math/fixed"
)

// Shaped indexes the caret positions of a text shaped by a Gio
// [text.Shaper]. It implements [editor.Layout].
type Shaped struct {
	text    string
	offsets editor.Offsets
	// glyphs holds the glyphs processed.
	glyphs []text.Glyph
	// positions contain all possible caret positions, sorted by rune index.
	positions []position
	// lines contains the size and position of each line of text.
	lines []Line
	// graphemes holds the rune offsets of grapheme cluster boundaries.
	graphemes []int
	seg       segmenter.Segmenter
	runes     []rune

	// lineMin and lineMax track the horizontal extent of the line being
	// indexed.
	lineMin, lineMax fixed.Int26_6
	// lineStart is the index of the first glyph of the line being indexed.
	lineStart int
	// pos tracks attributes of the next caret position.
	pos position
	// clusterAdvance accumulates the advances of glyphs in a glyph cluster.
	clusterAdvance fixed.Int26_6
	// midCluster tracks whether the next glyph processed is not the first
	// glyph in a cluster.
	midCluster bool
	truncated  bool
}

var _ editor.Layout = (*Shaped)(nil)

// position is a caret position within the shaped text.
type position struct {
	// runes is the offset in runes.
	runes int
	// line is the index of the screen line.
	line int

	x fixed.Int26_6
	y int

	ascent, descent fixed.Int26_6

	// runIndex counts the runs of the line preceding this position.
	runIndex int
	// towardOrigin is set for positions in right to left runs.
	towardOrigin bool
}

// Line is a line of shaped text as displayed.
type Line struct {
	XOff            fixed.Int26_6
	YOff            int
	Width           fixed.Int26_6
	Ascent, Descent fixed.Int26_6
	// GlyphStart and GlyphEnd delimit the glyphs of the line.
	GlyphStart, GlyphEnd int
}

// Region describes the position and baseline of an area of interest within
// shaped text.
type Region struct {
	// Bounds is the bounding box relative to the text origin.
	Bounds image.Rectangle
	// Baseline is the quantity of vertical pixels between the baseline and
	// the bottom of bounds.
	Baseline int
}

// Shape lays s out with shaper and indexes the result.
func Shape(shaper *text.Shaper, params text.Parameters, s string) *Shaped {
	l := &Shaped{}
	l.Reshape(shaper, params, s)
	return l
}

// Reshape lays s out again, reusing the storage of l.
func (l *Shaped) Reshape(shaper *text.Shaper, params text.Parameters, s string) {
	l.reset(s)
	shaper.LayoutString(params, s)
	for {
		g, ok := shaper.NextGlyph()
		if !ok {
			break
		}
		l.Glyph(g)
	}
	l.segment()
}

// reset prepares the index for s.
func (l *Shaped) reset(s string) {
	l.text = s
	l.offsets = editor.NewOffsets(s)
	l.glyphs = l.glyphs[:0]
	l.positions = l.positions[:0]
	l.lines = l.lines[:0]
	l.graphemes = l.graphemes[:0]
	l.lineMin = 0
	l.lineMax = 0
	l.lineStart = 0
	l.pos = position{}
	l.clusterAdvance = 0
	l.midCluster = false
	l.truncated = false
}

// segment records the grapheme cluster boundaries of the text.
func (l *Shaped) segment() {
	l.runes = l.runes[:0]
	for _, r := range l.text {
		l.runes = append(l.runes, r)
	}
	l.graphemes = append(l.graphemes, 0)
	if len(l.runes) == 0 {
		return
	}
	l.seg.Init(l.runes)
	iter := l.seg.GraphemeIterator()
	for iter.Next() {
		g := iter.Grapheme()
		l.graphemes = append(l.graphemes, g.Offset+len(g.Text))
	}
}

func (l *Shaped) insertPosition(pos position) {
	lastIdx := len(l.positions) - 1
	if lastIdx >= 0 {
		lastPos := l.positions[lastIdx]
		if lastPos.runes == pos.runes && (lastPos.y != pos.y || (lastPos.x == pos.x)) {
			// Consecutive positions with the same logical position: keep
			// the latest.
			l.positions[lastIdx] = pos
			return
		}
	}
	l.positions = append(l.positions, pos)
}

// Glyph indexes gl, generating caret positions for it. Glyphs must be
// provided in the order the shaper produces them.
func (l *Shaped) Glyph(gl text.Glyph) {
	l.glyphs = append(l.glyphs, gl)
	if l.lineStart == len(l.glyphs)-1 {
		// First glyph of a line.
		l.lineMin = math.MaxInt32
		l.lineMax = 0
	}
	if gl.X < l.lineMin {
		l.lineMin = gl.X
	}
	if end := gl.X + gl.Advance; end > l.lineMax {
		l.lineMax = end
	}

	needsNewLine := gl.Flags&text.FlagLineBreak != 0
	needsNewRun := gl.Flags&text.FlagRunBreak != 0
	breaksParagraph := gl.Flags&text.FlagParagraphBreak != 0
	breaksCluster := gl.Flags&text.FlagClusterBreak != 0
	// Positions are inserted within a glyph that terminates a cluster, has
	// runes, and is not a hard newline.
	insertPositionsWithin := breaksCluster && !breaksParagraph && gl.Runes > 0

	l.pos.towardOrigin = gl.Flags&text.FlagTowardOrigin != 0
	if !l.midCluster {
		// The position prior to the glyph.
		l.pos.x = gl.X
		l.pos.y = int(gl.Y)
		l.pos.ascent = gl.Ascent
		l.pos.descent = gl.Descent
		if l.pos.towardOrigin {
			l.pos.x += gl.Advance
		}
		l.insertPosition(l.pos)
	}

	l.midCluster = !breaksCluster

	if breaksParagraph {
		// Paragraph breaks are zero width: only step over their runes.
		l.clusterAdvance = 0
		l.pos.runes += int(gl.Runes)
	}
	l.clusterAdvance += gl.Advance
	if insertPositionsWithin {
		l.pos.y = int(gl.Y)
		l.pos.ascent = gl.Ascent
		l.pos.descent = gl.Descent
		width := l.clusterAdvance
		positionCount := int(gl.Runes)
		runesPerPosition := 1
		if gl.Flags&text.FlagTruncator != 0 {
			// The truncator is selected as a whole.
			positionCount = 1
			runesPerPosition = int(gl.Runes)
			l.truncated = true
		}
		perRune := width / fixed.Int26_6(positionCount)
		adjust := fixed.Int26_6(0)
		if l.pos.towardOrigin {
			adjust = width
			perRune = -perRune
		}
		for i := 1; i <= positionCount; i++ {
			l.pos.x = gl.X + adjust + perRune*fixed.Int26_6(i)
			l.pos.runes += runesPerPosition
			l.insertPosition(l.pos)
		}
		l.clusterAdvance = 0
	}
	if needsNewRun {
		l.pos.runIndex++
	}
	if needsNewLine {
		last := l.positions[len(l.positions)-1]
		l.lines = append(l.lines, Line{
			XOff:       l.lineMin,
			YOff:       int(gl.Y),
			Width:      l.lineMax - l.lineMin,
			Ascent:     last.ascent,
			Descent:    last.descent,
			GlyphStart: l.lineStart,
			GlyphEnd:   len(l.glyphs),
		})
		l.lineStart = len(l.glyphs)
		l.pos.line++
		l.pos.runIndex = 0
	}
}

// Text returns the text that was shaped.
func (l *Shaped) Text() string {
	return l.text
}

// Glyphs returns the shaped glyphs.
func (l *Shaped) Glyphs() []text.Glyph {
	return l.glyphs
}

// Lines returns the lines of the shaped text.
func (l *Shaped) Lines() []Line {
	return l.lines
}

// Truncated reports whether the shaper truncated the text.
func (l *Shaped) Truncated() bool {
	return l.truncated
}

// Size returns the size of the area covered by the text.
func (l *Shaped) Size() image.Point {
	var size image.Point
	for _, line := range l.lines {
		if w := (line.XOff + line.Width).Ceil(); w > size.X {
			size.X = w
		}
	}
	if n := len(l.lines); n > 0 {
		last := l.lines[n-1]
		size.Y = last.YOff + last.Descent.Ceil()
	}
	return size
}

// Baseline returns the distance from the top of the text to the baseline
// of its first line.
func (l *Shaped) Baseline() int {
	if len(l.lines) == 0 {
		return 0
	}
	return l.lines[0].YOff
}

// ClosestIndex implements [editor.Layout]. The result is aligned to a
// grapheme cluster boundary.
func (l *Shaped) ClosestIndex(pt image.Point) int {
	pos := l.closestToXYGraphemes(fixed.I(pt.X), pt.Y)
	return l.offsets.FromRunes(pos.runes)
}

// Caret implements [editor.Layout].
func (l *Shaped) Caret(offset int) editor.Caret {
	pos, _ := l.closestToRune(l.offsets.ToRunes(offset))
	return editor.Caret{
		X:       pos.x,
		Y:       pos.y,
		Ascent:  pos.ascent,
		Descent: pos.descent,
	}
}

// Regions returns the regions covering the byte range [start, end). If
// regions has enough capacity it is reused for the result.
func (l *Shaped) Regions(start, end int, regions []Region) []Region {
	regions = regions[:0]
	if len(l.positions) == 0 {
		return regions
	}
	if start > end {
		start, end = end, start
	}
	caretStart, _ := l.closestToRune(l.offsets.ToRunes(start))
	caretEnd, _ := l.closestToRune(l.offsets.ToRunes(end))

	for i := caretStart.line; i <= caretEnd.line && i < len(l.lines); i++ {
		line := l.lines[i]
		startX, endX := line.XOff, line.XOff+line.Width
		if i == caretStart.line {
			startX = caretStart.x
		}
		if i == caretEnd.line {
			endX = caretEnd.x
		}
		regions = append(regions, makeRegion(line, line.YOff, startX, endX))
	}
	return regions
}

func (l *Shaped) closestToRune(runeIdx int) (position, int) {
	if len(l.positions) == 0 {
		return position{}, 0
	}
	i := sort.Search(len(l.positions), func(i int) bool {
		return l.positions[i].runes >= runeIdx
	})
	if i > 0 {
		i--
	}
	closest := l.positions[i]
	closestI := i
	for ; i < len(l.positions); i++ {
		if l.positions[i].runes == runeIdx {
			return l.positions[i], i
		}
	}
	return closest, closestI
}

func (l *Shaped) closestToXY(x fixed.Int26_6, y int) position {
	if len(l.positions) == 0 {
		return position{}
	}
	i := sort.Search(len(l.positions), func(i int) bool {
		pos := l.positions[i]
		return pos.y+pos.descent.Round() >= y
	})
	// Points below the text map to its last position.
	if i == len(l.positions) {
		return l.positions[i-1]
	}
	first := l.positions[i]
	closest := i
	closestDist := dist(first.x, x)
	line := first.line
	// Bidi text has no ordering of x within a line, so the whole line is
	// scanned.
	for i := i + 1; i < len(l.positions) && l.positions[i].line == line; i++ {
		candidate := l.positions[i]
		distance := dist(candidate.x, x)
		if distance.Round() == 0 {
			return candidate
		}
		if distance < closestDist {
			closestDist = distance
			closest = i
		}
	}
	return l.positions[closest]
}

// closestToXYGraphemes returns the position closest to (x, y) that is
// aligned to a grapheme cluster boundary.
func (l *Shaped) closestToXYGraphemes(x fixed.Int26_6, y int) position {
	pos := l.closestToXY(x, y)
	firstOption := l.moveByGraphemes(pos.runes, 0)
	distance := 1
	if firstOption > pos.runes {
		distance = -1
	}
	secondOption := l.moveByGraphemes(firstOption, distance)
	first, _ := l.closestToRune(firstOption)
	second, _ := l.closestToRune(secondOption)
	if dist(first.x, x) > dist(second.x, x) {
		return second
	}
	return first
}

// moveByGraphemes returns the rune offset of the grapheme boundary n
// clusters away from the boundary at or after runeIdx.
func (l *Shaped) moveByGraphemes(runeIdx, n int) int {
	if len(l.graphemes) == 0 {
		return runeIdx
	}
	idx, _ := slices.BinarySearch(l.graphemes, runeIdx)
	idx = max(idx+n, 0)
	idx = min(idx, len(l.graphemes)-1)
	pos, _ := l.closestToRune(l.graphemes[idx])
	return pos.runes
}

// makeRegion creates a text-aligned rectangle from start to end. The
// vertical extent is derived from the ascent and descent of line, whose
// baseline is at y.
func makeRegion(line Line, y int, start, end fixed.Int26_6) Region {
	if start > end {
		start, end = end, start
	}
	dotStart := image.Pt(start.Round(), y)
	dotEnd := image.Pt(end.Round(), y)
	return Region{
		Bounds: image.Rectangle{
			Min: dotStart.Sub(image.Point{Y: line.Ascent.Ceil()}),
			Max: dotEnd.Add(image.Point{Y: line.Descent.Floor()}),
		},
		Baseline: line.Descent.Floor(),
	}
}

func dist(a, b fixed.Int26_6) fixed.Int26_6 {
	if a > b {
		return a - b
	}
	return b - a
}
