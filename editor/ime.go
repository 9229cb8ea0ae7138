package editor

// imeState tracks the text an input method is still composing. The marked
// range is in byte offsets and is only meaningful while composing is set.
type imeState struct {
	composing bool
	marked    Range
}

func (s *imeState) mark(start, end int) {
	s.composing = true
	s.marked = Range{Start: start, End: end}
}

func (s *imeState) clear() {
	s.composing = false
	s.marked = Range{}
}

func (s *imeState) markedRange() (Range, bool) {
	return s.marked, s.composing
}

// MarkedTextRange returns the range of text under composition, in UTF-16
// code units. ok is false when no composition is in progress.
func (e *Editor) MarkedTextRange() (rng Range, ok bool) {
	e.initBuffer()
	marked, ok := e.ime.markedRange()
	if !ok {
		return Range{}, false
	}
	return e.Offsets().RangeToUTF16(marked), true
}

// Composition returns the byte range of text under composition.
func (e *Editor) Composition() (Range, bool) {
	e.initBuffer()
	return e.ime.markedRange()
}

// UnmarkText commits the composed text as it is.
func (e *Editor) UnmarkText() {
	e.initBuffer()
	if !e.ime.composing {
		return
	}
	logger.Debug("composition committed", "range", e.ime.marked)
	e.ime.clear()
	e.emit(ChangeEvent{})
}

// ReplaceAndMarkTextInRange replaces text and marks the inserted text as
// being composed by an input method. rng is in UTF-16 code units; when nil
// the composed text is replaced, or the selection if there is no
// composition. selected is the selection to show inside the composed text,
// in UTF-16 code units relative to its start. When nil the caret is placed
// after the inserted text.
func (e *Editor) ReplaceAndMarkTextInRange(rng *Range, text string, selected *Range) {
	e.initBuffer()
	old := e.sel
	target := e.targetRange(rng)
	end := e.replace(target.Start, target.End, text)
	e.ime.mark(target.Start, end)

	if selected != nil {
		offsets := e.Offsets()
		base := offsets.ToUTF16(target.Start)
		inner := offsets.RangeFromUTF16(Range{
			Start: base + selected.Start,
			End:   base + selected.End,
		}).normalize()
		e.sel = Selection{Start: inner.Start, End: inner.End}
	} else {
		e.sel.collapse(end)
	}
	e.validate()

	logger.Debug("composing", "range", e.ime.marked, "selection", e.sel.Range())
	e.notify(true, old)
}
