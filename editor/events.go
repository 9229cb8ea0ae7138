package editor

import "slices"

// EditorEvent is a notification sent to the observers of an [Editor].
type EditorEvent interface {
	isEditorEvent()
}

// A ChangeEvent is generated after every mutation of the editor state,
// including selection moves. Hosts use it to lay the text out again.
type ChangeEvent struct{}

// A TextEvent is generated when the content of the editor changed. Text is
// the full current text.
type TextEvent struct {
	Text string
}

// A SelectEvent is generated when the selection changed, including if it
// collapsed to a caret.
type SelectEvent struct{}

// A SubmitEvent is generated when Enter is pressed in a single line editor.
type SubmitEvent struct {
	Text string
}

func (ChangeEvent) isEditorEvent() {}
func (TextEvent) isEditorEvent()   {}
func (SelectEvent) isEditorEvent() {}
func (SubmitEvent) isEditorEvent() {}

type observer struct {
	id int
	fn func(EditorEvent)
}

// Subscribe registers fn to be called synchronously with every event the
// editor generates, in the order they are generated. The returned function
// removes the subscription.
func (e *Editor) Subscribe(fn func(EditorEvent)) (cancel func()) {
	e.nextObserver++
	id := e.nextObserver
	e.observers = append(e.observers, observer{id: id, fn: fn})

	return func() {
		for i, o := range e.observers {
			if o.id == id {
				e.observers = append(e.observers[:i], e.observers[i+1:]...)
				return
			}
		}
	}
}

func (e *Editor) emit(ev EditorEvent) {
	// Observers may cancel their subscription while being called.
	for _, o := range slices.Clone(e.observers) {
		o.fn(ev)
	}
}

// notify emits the events following a mutation. textChanged tells whether
// the content was modified, old is the selection before the mutation.
func (e *Editor) notify(textChanged bool, old Selection) {
	e.emit(ChangeEvent{})
	if textChanged {
		e.emit(TextEvent{Text: e.buf.String()})
	}
	if old != e.sel {
		e.emit(SelectEvent{})
	}
}
