package editor

import (
	"fmt"
	"strings"

	"github.com/oligo/gvinput/buffer"
)

// Editor is the editing model behind a text input: it owns the text, the
// selection, the input method composition and the latest layout of the
// text. The zero value is an empty single line editor.
//
// Editor is not safe for concurrent use. Every method runs to completion and
// leaves the selection inside the text.
type Editor struct {
	mode        Mode
	placeholder string
	// selectAll lists the modifiers accepted by the select-all shortcut.
	selectAll []Modifiers

	buf *buffer.Buffer
	sel Selection
	// ime tracks the state relevant to input methods.
	ime       imeState
	graphemes graphemeReader
	snapshot  layoutSnapshot
	// dragging is set between a pointer press and release.
	dragging bool

	observers    []observer
	nextObserver int
}

// New creates an editor configured by opts.
func New(opts ...Option) *Editor {
	e := &Editor{}
	e.WithOptions(opts...)
	e.initBuffer()
	return e
}

// WithOptions applies opts to the editor.
func (e *Editor) WithOptions(opts ...Option) {
	for _, opt := range opts {
		opt(e)
	}
}

// initBuffer should be invoked first in every exported function that accesses
// the editor state.
func (e *Editor) initBuffer() {
	if e.buf == nil {
		e.buf = buffer.New("")
	}
	if e.selectAll == nil {
		e.selectAll = DefaultSelectAllModifiers()
	}
}

// Mode returns the editing mode.
func (e *Editor) Mode() Mode {
	return e.mode
}

// Placeholder returns the text to show while the editor is empty.
func (e *Editor) Placeholder() string {
	return e.placeholder
}

// Len is the length of the editor contents, in bytes.
func (e *Editor) Len() int {
	e.initBuffer()
	return e.buf.Len()
}

// Text returns the contents of the editor.
func (e *Editor) Text() string {
	e.initBuffer()
	return e.buf.String()
}

// Offsets returns a translator for the current text.
func (e *Editor) Offsets() Offsets {
	e.initBuffer()
	return NewOffsets(e.buf.String())
}

// SetText replaces the content of the editor and places the caret at its
// end. Any composition in progress is dropped.
func (e *Editor) SetText(s string) {
	e.initBuffer()
	old := e.sel
	e.buf.Set(e.sanitize(s))
	e.ime.clear()
	e.sel.collapse(e.buf.Len())
	e.validate()
	e.notify(true, old)
}

// Selection returns the selection in byte offsets.
func (e *Editor) Selection() Selection {
	e.initBuffer()
	return e.sel
}

// SelectedText returns the currently selected text.
func (e *Editor) SelectedText() string {
	e.initBuffer()
	return e.buf.Slice(e.sel.Start, e.sel.End)
}

// CursorOffset returns the byte offset of the caret.
func (e *Editor) CursorOffset() int {
	e.initBuffer()
	return e.sel.Caret()
}

// MoveTo collapses the selection to a caret at offset. Offsets outside the
// text are clamped.
func (e *Editor) MoveTo(offset int) {
	e.initBuffer()
	old := e.sel
	e.sel.collapse(e.buf.Floor(offset))
	e.validate()
	e.notify(false, old)
}

// SelectTo moves the caret end of the selection to offset, keeping the
// anchor in place. Offsets outside the text are clamped.
func (e *Editor) SelectTo(offset int) {
	e.initBuffer()
	old := e.sel
	e.sel.extend(e.buf.Floor(offset))
	e.validate()
	e.notify(false, old)
}

// SelectAll selects the whole text.
func (e *Editor) SelectAll() {
	e.initBuffer()
	old := e.sel
	e.sel = Selection{Start: 0, End: e.buf.Len()}
	e.validate()
	e.notify(false, old)
}

// SetCaret places the caret at caret and the anchor of the selection at
// anchor, both in byte offsets.
func (e *Editor) SetCaret(caret, anchor int) {
	e.initBuffer()
	old := e.sel
	caret, anchor = e.buf.Floor(caret), e.buf.Floor(anchor)
	e.sel = Selection{Start: min(caret, anchor), End: max(caret, anchor), Reversed: caret < anchor}
	e.validate()
	e.notify(false, old)
}

// TextForRange returns the text in rng and the range actually used after
// clamping it to the text. Both ranges are in UTF-16 code units.
func (e *Editor) TextForRange(rng Range) (string, Range) {
	e.initBuffer()
	offsets := e.Offsets()
	r := offsets.RangeFromUTF16(rng).normalize()
	return e.buf.Slice(r.Start, r.End), offsets.RangeToUTF16(r)
}

// SelectedTextRange returns the selection in UTF-16 code units, and whether
// it is reversed.
func (e *Editor) SelectedTextRange() (rng Range, reversed bool) {
	e.initBuffer()
	return e.Offsets().RangeToUTF16(e.sel.Range()), e.sel.Reversed
}

// ReplaceTextInRange replaces the text in rng, given in UTF-16 code units,
// with text. When rng is nil the composed text is replaced, or the selection
// if there is no composition. The caret is placed after the inserted text
// and any composition ends.
func (e *Editor) ReplaceTextInRange(rng *Range, text string) {
	e.initBuffer()
	target := e.targetRange(rng)
	e.commit(target.Start, target.End, text)
}

// Insert replaces the selection with s.
func (e *Editor) Insert(s string) {
	e.initBuffer()
	e.commit(e.sel.Start, e.sel.End, s)
}

// commit replaces the byte range [start, end) with text as a finished edit.
func (e *Editor) commit(start, end int, text string) {
	old := e.sel
	if e.ime.composing {
		logger.Debug("composition superseded", "range", e.ime.marked)
	}
	e.sel.collapse(e.replace(start, end, text))
	e.ime.clear()
	e.validate()
	e.notify(true, old)
}

// targetRange resolves the byte range an input method edit applies to.
func (e *Editor) targetRange(rng *Range) Range {
	switch {
	case rng != nil:
		return e.Offsets().RangeFromUTF16(*rng).normalize()
	case e.ime.composing:
		return e.ime.marked
	default:
		return e.sel.Range()
	}
}

// replace the text between start and end with s. Indices are in bytes and
// are clamped to the text. It returns the end offset of the inserted text.
func (e *Editor) replace(start, end int, s string) int {
	start, end = e.buf.Floor(start), e.buf.Floor(end)
	if start > end {
		start, end = end, start
	}
	// Measure the text as stored so the returned offset is a rune boundary.
	s = buffer.Sanitize(e.sanitize(s))
	if err := e.buf.Replace(start, end, s); err != nil {
		panic(fmt.Sprintf("editor: %v", err))
	}
	return start + len(s)
}

// sanitize prepares text for insertion according to the mode.
func (e *Editor) sanitize(s string) string {
	if e.mode == ModeSingleLine && strings.ContainsAny(s, "\r\n") {
		s = strings.ReplaceAll(s, "\r\n", " ")
		s = strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
	}
	return s
}

func (e *Editor) validate() {
	e.sel.validate(e.buf.Len())
	e.validateBoundary("selection start", e.sel.Start)
	e.validateBoundary("selection end", e.sel.End)
	if e.ime.composing {
		m := e.ime.marked
		if m.Start < 0 || m.Start > m.End || m.End > e.buf.Len() {
			panic(fmt.Sprintf("editor: invalid composition [%d, %d) for text of %d bytes", m.Start, m.End, e.buf.Len()))
		}
		e.validateBoundary("composition start", m.Start)
		e.validateBoundary("composition end", m.End)
	}
}

func (e *Editor) validateBoundary(what string, off int) {
	if !e.buf.IsBoundary(off) {
		panic(fmt.Sprintf("editor: %s %d is not a character boundary", what, off))
	}
}

// Changed reports whether the text was modified since the last call.
func (e *Editor) Changed() bool {
	e.initBuffer()
	return e.buf.Changed()
}
