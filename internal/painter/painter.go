package painter

import (
	"image"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"github.com/oligo/gvinput/editor"
	lt "github.com/oligo/gvinput/internal/layout"
	"github.com/oligo/gvinput/textstyle/decoration"
	"golang.org/x/image/math/fixed"
)

// TextPainter paints shaped text together with its decorations.
type TextPainter struct {
	// regions is reused between decorations to decrease allocations.
	regions []lt.Region
}

// Paint paints the glyphs of shaped using material. Decoration backgrounds
// are painted below the glyphs and strokes above them. A decoration without
// a color uses material.
func (tp *TextPainter) Paint(gtx layout.Context, shaper *text.Shaper, shaped *lt.Shaped, material op.CallOp,
	decorations []decoration.Decoration) {
	for _, deco := range decorations {
		if bg, ok := deco.(decoration.Background); ok {
			tp.paintBackground(gtx, shaped, bg)
		}
	}

	glyphs := shaped.Glyphs()
	for _, line := range shaped.Lines() {
		if line.GlyphEnd <= line.GlyphStart {
			continue
		}
		tp.drawText(gtx, shaper, glyphs[line.GlyphStart:line.GlyphEnd], material)
	}

	for _, deco := range decorations {
		start, end := deco.Range()
		tp.regions = shaped.Regions(start, end, tp.regions)
		for _, r := range tp.regions {
			switch d := deco.(type) {
			case decoration.Underline:
				from, to := underlineAt(r)
				tp.drawLine(gtx, from, to, orDefault(d.Color, material))
			case decoration.Strikethrough:
				from, to := strikethroughAt(r)
				tp.drawLine(gtx, from, to, orDefault(d.Color, material))
			case decoration.Box:
				tp.drawStroke(gtx, clip.Rect(r.Bounds).Path(), orDefault(d.Color, material))
			}
		}
	}
}

func (tp *TextPainter) paintBackground(gtx layout.Context, shaped *lt.Shaped, bg decoration.Background) {
	start, end := bg.Range()
	tp.regions = shaped.Regions(start, end, tp.regions)
	for _, r := range tp.regions {
		area := clip.Rect(r.Bounds).Push(gtx.Ops)
		bg.Color.Add(gtx.Ops)
		paint.PaintOp{}.Add(gtx.Ops)
		area.Pop()
	}
}

// PaintCaret paints the caret using material. width is the stroke width
// in pixels.
func (tp *TextPainter) PaintCaret(gtx layout.Context, caret editor.Caret, width int, material op.CallOp) {
	defer clip.Rect(caretRect(caret, width)).Push(gtx.Ops).Pop()
	material.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
}

// drawText paints glyphs of the same line. Shaped paths are relative to
// the dot of the first glyph.
func (tp *TextPainter) drawText(gtx layout.Context, shaper *text.Shaper, glyphs []text.Glyph, material op.CallOp) {
	off := f32.Point{X: fixedToFloat(glyphs[0].X), Y: float32(glyphs[0].Y)}
	defer op.Affine(f32.Affine2D{}.Offset(off)).Push(gtx.Ops).Pop()

	path := shaper.Shape(glyphs)
	outline := clip.Outline{Path: path}.Op().Push(gtx.Ops)
	material.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
	outline.Pop()
	if call := shaper.Bitmaps(glyphs); call != (op.CallOp{}) {
		call.Add(gtx.Ops)
	}
}

func (tp *TextPainter) drawLine(gtx layout.Context, from, to f32.Point, material op.CallOp) {
	path := clip.Path{}
	path.Begin(gtx.Ops)
	path.MoveTo(from)
	path.LineTo(to)
	tp.drawStroke(gtx, path.End(), material)
}

func (tp *TextPainter) drawStroke(gtx layout.Context, path clip.PathSpec, material op.CallOp) {
	shape := clip.Stroke{
		Path:  path,
		Width: 1,
	}.Op()

	defer shape.Push(gtx.Ops).Pop()
	material.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
}

// underlineAt returns the end points of an underline of r, halfway through
// its descent.
func underlineAt(r lt.Region) (from, to f32.Point) {
	y := float32(r.Bounds.Max.Y-r.Baseline) + float32(max(r.Baseline/2, 1))
	return f32.Pt(float32(r.Bounds.Min.X), y), f32.Pt(float32(r.Bounds.Max.X), y)
}

// strikethroughAt returns the end points of a line through r, a third of
// its ascent above the baseline.
func strikethroughAt(r lt.Region) (from, to f32.Point) {
	baseline := r.Bounds.Max.Y - r.Baseline
	y := float32(baseline) - float32(baseline-r.Bounds.Min.Y)/3
	return f32.Pt(float32(r.Bounds.Min.X), y), f32.Pt(float32(r.Bounds.Max.X), y)
}

func caretRect(caret editor.Caret, width int) image.Rectangle {
	r := caret.Rect()
	r.Min.X -= width / 2
	r.Max.X = r.Min.X + max(width, 1)
	return r
}

func orDefault(c, fallback op.CallOp) op.CallOp {
	if c == (op.CallOp{}) {
		return fallback
	}
	return c
}

func fixedToFloat(i fixed.Int26_6) float32 {
	return float32(i) / 64.0
}
