package editor

import (
	"image"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Modifiers is a set of modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	// ModPlatform is the platform meta key, Command on macOS.
	ModPlatform
	ModAlt
)

// Contain reports whether m contains all modifiers in m2.
func (m Modifiers) Contain(m2 Modifiers) bool {
	return m&m2 == m2
}

func (m Modifiers) String() string {
	var names []string
	if m.Contain(ModCtrl) {
		names = append(names, "ctrl")
	}
	if m.Contain(ModPlatform) {
		names = append(names, "platform")
	}
	if m.Contain(ModAlt) {
		names = append(names, "alt")
	}
	if m.Contain(ModShift) {
		names = append(names, "shift")
	}
	return strings.Join(names, "+")
}

// Names of the keys the editor handles.
const (
	KeyLeft      = "left"
	KeyRight     = "right"
	KeyBackspace = "backspace"
	KeyDelete    = "delete"
	KeyEnter     = "enter"
)

// KeyEvent is a key press delivered to the editor.
type KeyEvent struct {
	// Name of the key, one of the Key constants or the character on the
	// key for printable keys.
	Name string
	// Text is the text typed by the key, if any. When empty, a single
	// character Name is used.
	Text      string
	Modifiers Modifiers
}

// HandleKey applies a key press and reports whether the editor used it.
func (e *Editor) HandleKey(ke KeyEvent) bool {
	e.initBuffer()
	extend := ke.Modifiers.Contain(ModShift)

	switch ke.Name {
	case KeyLeft:
		cursor := e.sel.Caret()
		if cursor > 0 {
			cursor = e.graphemes.Before(e.buf.String(), cursor)
		}
		e.moveOrSelect(cursor, extend)
		return true
	case KeyRight:
		cursor := e.sel.Caret()
		if cursor < e.buf.Len() {
			cursor = e.graphemes.After(e.buf.String(), cursor)
		}
		e.moveOrSelect(cursor, extend)
		return true
	case KeyBackspace:
		e.deleteBackward()
		return true
	case KeyDelete:
		e.deleteForward()
		return true
	case KeyEnter:
		if e.mode == ModeSingleLine {
			e.emit(SubmitEvent{Text: e.buf.String()})
		} else {
			e.Insert("\n")
		}
		return true
	}

	if strings.EqualFold(ke.Name, "a") && e.isSelectAll(ke.Modifiers) {
		e.SelectAll()
		return true
	}

	if ke.Modifiers.Contain(ModCtrl) || ke.Modifiers.Contain(ModPlatform) {
		return false
	}
	text := ke.Text
	if text == "" && utf8.RuneCountInString(ke.Name) == 1 {
		text = ke.Name
	}
	if text == "" || !isPrintable(text) {
		return false
	}
	e.Insert(text)
	return true
}

func (e *Editor) moveOrSelect(offset int, extend bool) {
	if extend {
		e.SelectTo(offset)
	} else {
		e.MoveTo(offset)
	}
}

// deleteBackward removes the selection, or the grapheme cluster before the
// caret if the selection is collapsed.
func (e *Editor) deleteBackward() {
	if !e.sel.IsCollapsed() {
		e.commit(e.sel.Start, e.sel.End, "")
		return
	}
	cursor := e.sel.Caret()
	if cursor == 0 {
		return
	}
	e.commit(e.graphemes.Before(e.buf.String(), cursor), cursor, "")
}

// deleteForward removes the selection, or the grapheme cluster after the
// caret if the selection is collapsed.
func (e *Editor) deleteForward() {
	if !e.sel.IsCollapsed() {
		e.commit(e.sel.Start, e.sel.End, "")
		return
	}
	cursor := e.sel.Caret()
	if cursor >= e.buf.Len() {
		return
	}
	e.commit(cursor, e.graphemes.After(e.buf.String(), cursor), "")
}

func (e *Editor) isSelectAll(mods Modifiers) bool {
	mods &^= ModShift
	for _, m := range e.selectAll {
		if m != 0 && mods == m {
			return true
		}
	}
	return false
}

func isPrintable(s string) bool {
	for _, r := range s {
		if !unicode.IsPrint(r) && !unicode.Is(unicode.Mn, r) && r != '\t' {
			return false
		}
	}
	return true
}

// Press starts a pointer interaction at pos. With Shift held the selection
// is extended to pos, otherwise the caret moves there.
func (e *Editor) Press(pos image.Point, mods Modifiers) {
	e.initBuffer()
	e.dragging = true
	e.moveOrSelect(e.indexForPoint(pos), mods.Contain(ModShift))
}

// Drag extends the selection to pos while a press is held.
func (e *Editor) Drag(pos image.Point) {
	e.initBuffer()
	if !e.dragging {
		return
	}
	e.SelectTo(e.indexForPoint(pos))
}

// Release ends the pointer interaction started by Press.
func (e *Editor) Release() {
	e.dragging = false
}

// Dragging reports whether a pointer press is held.
func (e *Editor) Dragging() bool {
	return e.dragging
}
