package widget

import (
	"image"
	"math"
	"time"
	"unicode/utf8"

	"gioui.org/font"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/io/semantic"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/text"
	"gioui.org/unit"
	"github.com/oligo/gvinput/editor"
	lt "github.com/oligo/gvinput/internal/layout"
	"github.com/oligo/gvinput/internal/painter"
	"github.com/oligo/gvinput/textstyle/decoration"
	"golang.org/x/image/math/fixed"
)

// Input is a text input widget backed by an [editor.Editor]. The zero
// value is a ready to use single-line input. Use [NewInput] with
// [editor.WithMode] for a multi-line one.
type Input struct {
	editor.Editor
	// InputHint specifies the type of on-screen keyboard to be displayed.
	InputHint key.InputHint

	shaped *lt.Shaped
	hint   *lt.Shaped
	// params are the parameters of the last shaping.
	params text.Parameters

	painter     painter.TextPainter
	decorations *decoration.DecorationTree

	// pending holds the editor events not yet returned by Update.
	pending []editor.EditorEvent
	cancel  func()

	ime struct {
		selection struct {
			rng   key.Range
			caret key.Caret
		}
		snippet    key.Snippet
		start, end int
	}

	blinkStart time.Time
	showCaret  bool
}

// Decoration sources owned by the widget.
type (
	selectionSource   struct{}
	compositionSource struct{}
)

const (
	blinksPerSecond  = 1
	maxBlinkDuration = 10 * time.Second
	// singleLineWidth is the wrap width of single line inputs, wide enough
	// to never wrap.
	singleLineWidth = 1e6
)

// NewInput creates an input configured with options.
func NewInput(options ...editor.Option) *Input {
	in := &Input{}
	in.WithOptions(options...)
	return in
}

func (in *Input) init() {
	if in.cancel != nil {
		return
	}
	in.decorations = decoration.NewDecorationTree()
	in.cancel = in.Subscribe(func(ev editor.EditorEvent) {
		in.pending = append(in.pending, ev)
	})
}

// Decorations returns the decorations painted with the text. Offsets are
// in bytes. Decorations are not moved by edits, callers refresh them when
// the text changes.
func (in *Input) Decorations() *decoration.DecorationTree {
	in.init()
	return in.decorations
}

// Update handles the input events of the frame and returns the next editor
// event, in the order they were generated.
func (in *Input) Update(gtx layout.Context) (editor.EditorEvent, bool) {
	in.init()
	in.processPointer(gtx)
	in.processKey(gtx)
	in.updateIME(gtx)

	if len(in.pending) == 0 {
		return nil, false
	}
	ev := in.pending[0]
	in.pending = in.pending[1:]
	return ev, true
}

func (in *Input) processPointer(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: in,
			Kinds:  pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel,
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		pos := image.Point{
			X: int(math.Round(float64(pe.Position.X))),
			Y: int(math.Round(float64(pe.Position.Y))),
		}
		switch pe.Kind {
		case pointer.Press:
			if pe.Source == pointer.Mouse && !pe.Buttons.Contain(pointer.ButtonPrimary) {
				break
			}
			in.blinkStart = gtx.Now
			in.Press(pos, convertModifiers(pe.Modifiers))
			gtx.Execute(key.FocusCmd{Tag: in})
			gtx.Execute(key.SoftKeyboardCmd{Show: true})
		case pointer.Drag:
			if in.Dragging() {
				in.blinkStart = gtx.Now
				in.Drag(pos)
			}
		case pointer.Release, pointer.Cancel:
			in.Release()
		}
	}
}

func (in *Input) processKey(gtx layout.Context) {
	filters := []event.Filter{
		key.FocusFilter{Target: in},
		key.Filter{Focus: in, Name: key.NameEnter, Optional: key.ModShift},
		key.Filter{Focus: in, Name: key.NameReturn, Optional: key.ModShift},
		key.Filter{Focus: in, Name: key.NameLeftArrow, Optional: key.ModShift},
		key.Filter{Focus: in, Name: key.NameRightArrow, Optional: key.ModShift},
		key.Filter{Focus: in, Name: key.NameDeleteBackward, Optional: key.ModShift},
		key.Filter{Focus: in, Name: key.NameDeleteForward, Optional: key.ModShift},
		key.Filter{Focus: in, Name: "A", Required: key.ModCtrl, Optional: key.ModShift},
		key.Filter{Focus: in, Name: "A", Required: key.ModCommand, Optional: key.ModShift},
	}

	for {
		ev, ok := gtx.Event(filters...)
		if !ok {
			break
		}
		in.blinkStart = gtx.Now

		switch ke := ev.(type) {
		case key.FocusEvent:
			// Focus changes end any composition in progress.
			in.UnmarkText()
			in.ime.start, in.ime.end = 0, 0
			if ke.Focus {
				gtx.Execute(key.SoftKeyboardCmd{Show: true})
			}
		case key.Event:
			if !gtx.Focused(in) || ke.State != key.Press {
				break
			}
			if ed, ok := convertKey(ke); ok {
				in.HandleKey(ed)
			}
		case key.EditEvent:
			if in.Mode() == editor.ModeSingleLine && ke.Text == "\n" {
				in.HandleKey(editor.KeyEvent{Name: editor.KeyEnter})
				break
			}
			o := in.Offsets()
			rng := o.RangeToUTF16(editor.Range{
				Start: o.FromRunes(ke.Range.Start),
				End:   o.FromRunes(ke.Range.End),
			})
			in.ReplaceTextInRange(&rng, ke.Text)
		case key.SnippetEvent:
			in.updateSnippet(gtx, ke.Start, ke.End)
		case key.SelectionEvent:
			o := in.Offsets()
			in.SetCaret(o.FromRunes(ke.Start), o.FromRunes(ke.End))
		}
	}
}

// updateIME notifies the platform input method of selection and snippet
// changes.
func (in *Input) updateIME(gtx layout.Context) {
	o := in.Offsets()
	sel := in.Selection()

	newSel := in.ime.selection
	newSel.rng = key.Range{
		Start: o.ToRunes(sel.Caret()),
		End:   o.ToRunes(sel.Anchor()),
	}
	if l, bounds, ok := in.LastLayout(); ok {
		c := l.Caret(sel.Caret())
		newSel.caret = key.Caret{
			Pos:     layout.FPt(image.Pt(c.X.Round(), c.Y).Add(bounds.Min)),
			Ascent:  fixedToFloat(c.Ascent),
			Descent: fixedToFloat(c.Descent),
		}
	}
	if newSel != in.ime.selection {
		in.ime.selection = newSel
		gtx.Execute(key.SelectionCmd{Tag: in, Range: newSel.rng, Caret: newSel.caret})
	}

	in.updateSnippet(gtx, in.ime.start, in.ime.end)
}

// updateSnippet sends the text of the rune range [start, end) to the
// platform input method if it changed.
func (in *Input) updateSnippet(gtx layout.Context, start, end int) {
	if start > end {
		start, end = end, start
	}
	content := in.Text()
	length := utf8.RuneCountInString(content)
	if end > length {
		logger.Debug("snippet request out of range", "start", start, "end", end, "len", length)
		start, end = min(start, length), length
	}
	in.ime.start, in.ime.end = start, end

	o := in.Offsets()
	newSnip := key.Snippet{
		Range: key.Range{Start: start, End: end},
		Text:  content[o.FromRunes(start):o.FromRunes(end)],
	}
	if newSnip == in.ime.snippet {
		return
	}
	in.ime.snippet = newSnip
	gtx.Execute(key.SnippetCmd{Tag: in, Snippet: newSnip})
}

// Layout lays out and paints the input. textMaterial paints the glyphs and
// the caret, selectMaterial the selection background and hintMaterial the
// placeholder.
func (in *Input) Layout(gtx layout.Context, shaper *text.Shaper, font font.Font, size unit.Sp,
	textMaterial, selectMaterial, hintMaterial op.CallOp) layout.Dimensions {
	for {
		_, ok := in.Update(gtx)
		if !ok {
			break
		}
	}

	params := text.Parameters{
		Font:     font,
		PxPerEm:  fixed.I(gtx.Sp(size)),
		MaxWidth: gtx.Constraints.Max.X,
		Locale:   gtx.Locale,
	}
	if in.Mode() == editor.ModeSingleLine {
		params.MaxWidth = singleLineWidth
		params.MaxLines = 1
	}
	in.reshape(shaper, params)

	textSize := in.shaped.Size()
	if in.Len() == 0 && in.hint != nil {
		textSize.Y = max(textSize.Y, in.hint.Size().Y)
	}
	dims := layout.Dimensions{
		Size:     gtx.Constraints.Constrain(image.Pt(gtx.Constraints.Max.X, textSize.Y)),
		Baseline: textSize.Y - in.shaped.Baseline(),
	}
	in.SetLayout(in.shaped, image.Rectangle{Max: image.Pt(textSize.X, dims.Size.Y)})

	defer clip.Rect(image.Rectangle{Max: dims.Size}).Push(gtx.Ops).Pop()
	pointer.CursorText.Add(gtx.Ops)
	event.Op(gtx.Ops, in)
	key.InputHintOp{Tag: in, Hint: in.InputHint}.Add(gtx.Ops)

	in.showCaret = false
	if gtx.Focused(in) {
		now := gtx.Now
		dt := now.Sub(in.blinkStart)
		blinking := dt < maxBlinkDuration
		const timePerBlink = time.Second / blinksPerSecond
		nextBlink := now.Add(timePerBlink/2 - dt%(timePerBlink/2))
		if blinking {
			gtx.Execute(op.InvalidateCmd{At: nextBlink})
		}
		in.showCaret = !blinking || dt%timePerBlink < timePerBlink/2
	}
	semantic.Editor.Add(gtx.Ops)

	if in.Len() == 0 && in.hint != nil && !gtx.Focused(in) {
		in.painter.Paint(gtx, shaper, in.hint, hintMaterial, nil)
	} else {
		in.updateDecorations(textMaterial, selectMaterial)
		in.painter.Paint(gtx, shaper, in.shaped, textMaterial, in.decorations.QueryRange(0, in.Len()))
	}

	if gtx.Enabled() && in.showCaret {
		in.painter.PaintCaret(gtx, in.shaped.Caret(in.CursorOffset()), gtx.Dp(1), textMaterial)
	}
	return dims
}

// reshape shapes the text and the placeholder again if the text or params
// changed since the last call.
func (in *Input) reshape(shaper *text.Shaper, params text.Parameters) {
	changed := in.Changed()
	if in.shaped != nil && !changed && params == in.params {
		return
	}
	if in.shaped == nil {
		in.shaped = &lt.Shaped{}
	}
	content := in.Text()
	in.shaped.Reshape(shaper, params, content)
	logger.Debug("reshaped text", "bytes", len(content), "lines", len(in.shaped.Lines()))

	in.hint = nil
	if placeholder := in.Placeholder(); placeholder != "" {
		in.hint = lt.Shape(shaper, params, placeholder)
	}
	in.params = params
}

// updateDecorations refreshes the decorations of the selection and of the
// text being composed.
func (in *Input) updateDecorations(textMaterial, selectMaterial op.CallOp) {
	in.decorations.RemoveBySource(selectionSource{})
	in.decorations.RemoveBySource(compositionSource{})

	if rng := in.Selection().Range(); !rng.IsEmpty() {
		bg := decoration.BackgroundDeco(rng.Start, rng.End, selectMaterial)
		bg.Src = selectionSource{}
		in.decorations.Insert(bg)
	}
	if rng, ok := in.Composition(); ok && !rng.IsEmpty() {
		underline := decoration.UnderlineDeco(rng.Start, rng.End, textMaterial)
		underline.Src = compositionSource{}
		underline.Priority = 1
		in.decorations.Insert(underline)
	}
}

// convertKey maps a key press to the key names and modifiers of the
// editor.
func convertKey(ke key.Event) (editor.KeyEvent, bool) {
	ev := editor.KeyEvent{Modifiers: convertModifiers(ke.Modifiers)}
	switch ke.Name {
	case key.NameLeftArrow:
		ev.Name = editor.KeyLeft
	case key.NameRightArrow:
		ev.Name = editor.KeyRight
	case key.NameDeleteBackward:
		ev.Name = editor.KeyBackspace
	case key.NameDeleteForward:
		ev.Name = editor.KeyDelete
	case key.NameReturn, key.NameEnter:
		ev.Name = editor.KeyEnter
	case "A":
		ev.Name = "a"
	default:
		return ev, false
	}
	return ev, true
}

func convertModifiers(mods key.Modifiers) editor.Modifiers {
	var m editor.Modifiers
	if mods.Contain(key.ModShift) {
		m |= editor.ModShift
	}
	if mods.Contain(key.ModCtrl) {
		m |= editor.ModCtrl
	}
	if mods.Contain(key.ModCommand) || mods.Contain(key.ModSuper) {
		m |= editor.ModPlatform
	}
	if mods.Contain(key.ModAlt) {
		m |= editor.ModAlt
	}
	return m
}

func fixedToFloat(i fixed.Int26_6) float32 {
	return float32(i) / 64.0
}
