package editor

import (
	"image"
	"math/rand"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/math/fixed"
)

// cellLayout lays text out on a single line where every rune is 10 pixels
// wide.
type cellLayout struct {
	text string
}

const cellWidth = 10

func (l cellLayout) ClosestIndex(pos image.Point) int {
	n := max(0, (pos.X+cellWidth/2)/cellWidth)
	return NewOffsets(l.text).FromRunes(n)
}

func (l cellLayout) Caret(offset int) Caret {
	runes := NewOffsets(l.text).ToRunes(offset)
	return Caret{
		X:       fixed.I(runes * cellWidth),
		Y:       12,
		Ascent:  fixed.I(12),
		Descent: fixed.I(4),
	}
}

func newEditor(t *testing.T, text string, opts ...Option) *Editor {
	t.Helper()
	e := New(opts...)
	e.SetText(text)
	return e
}

func checkInvariants(t *testing.T, e *Editor) {
	t.Helper()
	text := e.Text()
	sel := e.Selection()
	if sel.Start < 0 || sel.Start > sel.End || sel.End > len(text) {
		t.Fatalf("selection %+v out of bounds for %d bytes", sel, len(text))
	}
	if !utf8.ValidString(text) {
		t.Fatalf("text %q is not valid UTF-8", text)
	}
	for _, off := range []int{sel.Start, sel.End} {
		if off < len(text) && !utf8.RuneStart(text[off]) {
			t.Fatalf("offset %d of %q is not a rune boundary", off, text)
		}
	}
	if r, ok := e.Composition(); ok {
		if r.Start < 0 || r.Start > r.End || r.End > len(text) {
			t.Fatalf("composition %+v out of bounds for %d bytes", r, len(text))
		}
		for _, off := range []int{r.Start, r.End} {
			if off < len(text) && !utf8.RuneStart(text[off]) {
				t.Fatalf("composition offset %d of %q is not a rune boundary", off, text)
			}
		}
	}
}

func TestZeroValueEditor(t *testing.T) {
	var e Editor
	if e.Len() != 0 || e.CursorOffset() != 0 {
		t.Fatalf("zero editor: len=%d caret=%d", e.Len(), e.CursorOffset())
	}
	if e.Mode() != ModeSingleLine {
		t.Errorf("mode=%v, want %v", e.Mode(), ModeSingleLine)
	}
	e.Insert("abc")
	if e.Text() != "abc" || e.CursorOffset() != 3 {
		t.Errorf("text=%q caret=%d, want \"abc\" and 3", e.Text(), e.CursorOffset())
	}
}

func TestSetTextPlacesCaretAtEnd(t *testing.T) {
	e := newEditor(t, "hello")
	if got := e.Selection(); got != (Selection{Start: 5, End: 5}) {
		t.Errorf("selection=%+v, want caret at 5", got)
	}
}

func TestMoveToClamps(t *testing.T) {
	e := newEditor(t, "a😀b")

	cases := []struct {
		offset, want int
	}{
		{offset: -3, want: 0},
		{offset: 0, want: 0},
		{offset: 1, want: 1},
		{offset: 3, want: 1},
		{offset: 5, want: 5},
		{offset: 6, want: 6},
		{offset: 42, want: 6},
	}
	for _, tc := range cases {
		e.MoveTo(tc.offset)
		if got := e.CursorOffset(); got != tc.want {
			t.Errorf("MoveTo(%d): caret=%d, want %d", tc.offset, got, tc.want)
		}
		if e.Selection().Reversed {
			t.Errorf("MoveTo(%d) left the selection reversed", tc.offset)
		}
	}
}

func TestSelectToFlipsDirection(t *testing.T) {
	e := newEditor(t, "hello world")
	e.MoveTo(5)
	e.SelectTo(2)

	want := Selection{Start: 2, End: 5, Reversed: true}
	if diff := cmp.Diff(want, e.Selection()); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}
	if e.CursorOffset() != 2 {
		t.Errorf("caret=%d, want 2", e.CursorOffset())
	}

	e.SelectTo(7)
	want = Selection{Start: 5, End: 7}
	if diff := cmp.Diff(want, e.Selection()); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}
	if e.SelectedText() != " w" {
		t.Errorf("selected %q, want %q", e.SelectedText(), " w")
	}
}

func TestSelectAllAndSetCaret(t *testing.T) {
	e := newEditor(t, "hello")
	e.SetCaret(1, 4)
	if want := (Selection{Start: 1, End: 4, Reversed: true}); e.Selection() != want {
		t.Errorf("SetCaret(1, 4): selection=%+v, want %+v", e.Selection(), want)
	}

	e.SelectAll()
	if want := (Selection{Start: 0, End: 5}); e.Selection() != want {
		t.Errorf("SelectAll: selection=%+v, want %+v", e.Selection(), want)
	}
}

func TestTextForRange(t *testing.T) {
	e := newEditor(t, "a😀b")

	text, actual := e.TextForRange(Range{Start: 1, End: 3})
	if text != "😀" || actual != (Range{Start: 1, End: 3}) {
		t.Errorf("TextForRange(1, 3)=(%q, %v)", text, actual)
	}

	text, actual = e.TextForRange(Range{Start: 3, End: 99})
	if text != "b" || actual != (Range{Start: 3, End: 4}) {
		t.Errorf("TextForRange(3, 99)=(%q, %v)", text, actual)
	}

	text, actual = e.TextForRange(Range{Start: 4, End: 1})
	if text != "😀b" || actual != (Range{Start: 1, End: 4}) {
		t.Errorf("TextForRange(4, 1)=(%q, %v)", text, actual)
	}
}

func TestSelectedTextRange(t *testing.T) {
	e := newEditor(t, "😀😀😀")
	e.MoveTo(8)
	e.SelectTo(4)

	rng, reversed := e.SelectedTextRange()
	if rng != (Range{Start: 2, End: 4}) || !reversed {
		t.Errorf("SelectedTextRange=(%v, %v), want ({2 4}, true)", rng, reversed)
	}
}

func TestReplaceTextInRange(t *testing.T) {
	e := newEditor(t, "a😀b")

	e.ReplaceTextInRange(&Range{Start: 1, End: 3}, "xy")
	if e.Text() != "axyb" || e.CursorOffset() != 3 {
		t.Errorf("text=%q caret=%d, want \"axyb\" and 3", e.Text(), e.CursorOffset())
	}

	e.SelectAll()
	e.ReplaceTextInRange(nil, "z")
	if e.Text() != "z" || e.CursorOffset() != 1 {
		t.Errorf("text=%q caret=%d, want \"z\" and 1", e.Text(), e.CursorOffset())
	}
}

func TestSingleLineFlattensNewlines(t *testing.T) {
	e := New()
	e.Insert("a\r\nb\nc\rd")
	if e.Text() != "a b c d" {
		t.Errorf("single line text=%q", e.Text())
	}

	e.SetText("x\ny")
	if e.Text() != "x y" {
		t.Errorf("single line SetText=%q", e.Text())
	}

	m := New(WithMode(ModeMultiLine))
	m.Insert("a\nb")
	if m.Text() != "a\nb" {
		t.Errorf("multi-line text=%q", m.Text())
	}
}

func TestInvalidUTF8Insert(t *testing.T) {
	e := New()
	e.Insert("a\xffb")
	if e.Text() != "a�b" {
		t.Errorf("text=%q", e.Text())
	}
	if e.CursorOffset() != e.Len() {
		t.Errorf("caret=%d, want %d", e.CursorOffset(), e.Len())
	}
}

func TestInvalidUTF8Offsets(t *testing.T) {
	e := New(WithMode(ModeMultiLine))
	e.Insert("a\xffb")
	checkInvariants(t, e)

	e.SelectTo(0)
	if got := e.SelectedText(); got != "a\uFFFDb" || !utf8.ValidString(got) {
		t.Errorf("selected text=%q, want %q", got, "a\uFFFDb")
	}

	e.MoveTo(e.Len())
	e.ReplaceAndMarkTextInRange(nil, "\xff", nil)
	checkInvariants(t, e)
	if r, ok := e.Composition(); !ok || r != (Range{Start: 5, End: 8}) {
		t.Errorf("composition=%+v ok=%v, want {5 8}", r, ok)
	}
	if got := e.CursorOffset(); got != 8 {
		t.Errorf("caret=%d, want 8", got)
	}
	if r, _ := e.MarkedTextRange(); r != (Range{Start: 3, End: 4}) {
		t.Errorf("marked UTF-16 range=%+v, want {3 4}", r)
	}
}

func TestValidateRejectsSplitCharacter(t *testing.T) {
	e := New()
	e.SetText("é")

	defer func() {
		if recover() == nil {
			t.Error("selection inside a character did not panic")
		}
	}()
	e.sel = Selection{Start: 1, End: 1}
	e.validate()
}

func TestPointerSelection(t *testing.T) {
	e := newEditor(t, "hello")
	bounds := image.Rect(10, 0, 60, 20)

	// Without a layout every point maps to the start.
	e.Press(image.Pt(40, 5), 0)
	e.Release()
	if e.CursorOffset() != 0 {
		t.Fatalf("caret=%d without layout, want 0", e.CursorOffset())
	}

	e.SetLayout(cellLayout{text: e.Text()}, bounds)

	e.Press(image.Pt(5, 5), 0)
	e.Release()
	if e.CursorOffset() != 0 {
		t.Errorf("press left of bounds: caret=%d, want 0", e.CursorOffset())
	}

	e.Press(image.Pt(100, 5), 0)
	e.Release()
	if e.CursorOffset() != 5 {
		t.Errorf("press right of bounds: caret=%d, want 5", e.CursorOffset())
	}

	e.Press(image.Pt(30, 5), 0)
	if e.CursorOffset() != 2 || !e.Dragging() {
		t.Errorf("press: caret=%d dragging=%v, want 2 and true", e.CursorOffset(), e.Dragging())
	}
	e.Drag(image.Pt(50, 5))
	e.Release()
	if want := (Selection{Start: 2, End: 4}); e.Selection() != want {
		t.Errorf("drag: selection=%+v, want %+v", e.Selection(), want)
	}

	e.Drag(image.Pt(10, 5))
	if want := (Selection{Start: 2, End: 4}); e.Selection() != want {
		t.Errorf("drag after release changed the selection to %+v", e.Selection())
	}

	e.Press(image.Pt(20, 5), ModShift)
	e.Release()
	if want := (Selection{Start: 1, End: 2, Reversed: true}); e.Selection() != want {
		t.Errorf("shift press: selection=%+v, want %+v", e.Selection(), want)
	}
}

func TestLayoutQueries(t *testing.T) {
	e := newEditor(t, "a😀b")

	if _, ok := e.BoundsForRange(Range{Start: 0, End: 1}); ok {
		t.Error("BoundsForRange succeeded without a layout")
	}
	if _, ok := e.CharacterIndexForPoint(image.Pt(0, 0)); ok {
		t.Error("CharacterIndexForPoint succeeded without a layout")
	}

	e.SetLayout(cellLayout{text: e.Text()}, image.Rect(10, 0, 60, 20))

	bounds, ok := e.BoundsForRange(Range{Start: 1, End: 3})
	if want := image.Rect(20, 0, 30, 16); !ok || bounds != want {
		t.Errorf("BoundsForRange=(%v, %v), want %v", bounds, ok, want)
	}

	// The third rune starts at 20 pixels inside the bounds, after the
	// surrogate pair of the emoji.
	index, ok := e.CharacterIndexForPoint(image.Pt(30, 5))
	if !ok || index != 3 {
		t.Errorf("CharacterIndexForPoint=(%d, %v), want 3", index, ok)
	}

	// No clamping to the start for points left of the bounds.
	index, ok = e.CharacterIndexForPoint(image.Pt(0, 5))
	if !ok || index != 0 {
		t.Errorf("CharacterIndexForPoint left of bounds=(%d, %v), want 0", index, ok)
	}
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	inserts := []string{"a", "😀", "é", "你好", "\n", "", "x\xffy", "👨‍👩‍👧"}
	keys := []string{KeyLeft, KeyRight, KeyBackspace, KeyDelete, KeyEnter, "a"}

	for _, mode := range []Mode{ModeSingleLine, ModeMultiLine} {
		rnd := rand.New(rand.NewSource(int64(mode) + 1))
		e := New(WithMode(mode))

		for i := 0; i < 2000; i++ {
			n := e.Len()
			switch rnd.Intn(9) {
			case 0:
				e.MoveTo(rnd.Intn(n+10) - 5)
			case 1:
				e.SelectTo(rnd.Intn(n+10) - 5)
			case 2:
				e.Insert(inserts[rnd.Intn(len(inserts))])
			case 3:
				var mods Modifiers
				if rnd.Intn(2) == 0 {
					mods = ModShift
				}
				e.HandleKey(KeyEvent{Name: keys[rnd.Intn(len(keys))], Modifiers: mods})
			case 4:
				units := e.Offsets().ToUTF16(n)
				rng := Range{Start: rnd.Intn(units+4) - 2, End: rnd.Intn(units+4) - 2}
				e.ReplaceTextInRange(&rng, inserts[rnd.Intn(len(inserts))])
			case 5:
				sel := &Range{Start: 0, End: rnd.Intn(4)}
				e.ReplaceAndMarkTextInRange(nil, inserts[rnd.Intn(len(inserts))], sel)
			case 6:
				e.UnmarkText()
			case 7:
				e.SetCaret(rnd.Intn(n+2), rnd.Intn(n+2))
			case 8:
				if rnd.Intn(20) == 0 {
					e.SetText(inserts[rnd.Intn(len(inserts))])
				} else {
					e.SelectAll()
				}
			}
			checkInvariants(t, e)
		}
	}
}
