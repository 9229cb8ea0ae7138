package editor

import "runtime"

// Mode selects between a single line input and a multi-line text area.
type Mode uint8

const (
	// ModeSingleLine submits on Enter and flattens inserted newlines to
	// spaces.
	ModeSingleLine Mode = iota
	// ModeMultiLine inserts a newline on Enter.
	ModeMultiLine
)

func (m Mode) String() string {
	switch m {
	case ModeSingleLine:
		return "single-line"
	case ModeMultiLine:
		return "multi-line"
	default:
		return "unknown"
	}
}

// Option configures an [Editor].
type Option func(*Editor)

// WithMode sets the editing mode.
func WithMode(mode Mode) Option {
	return func(e *Editor) {
		e.mode = mode
	}
}

// WithSelectAllModifiers sets the modifier combinations that turn the "a"
// key into select-all. Any one of them is accepted. With no modifiers
// select-all is disabled.
func WithSelectAllModifiers(mods ...Modifiers) Option {
	return func(e *Editor) {
		e.selectAll = append(make([]Modifiers, 0, len(mods)), mods...)
	}
}

// WithPlaceholder sets the text shown by hosts while the editor is empty.
func WithPlaceholder(text string) Option {
	return func(e *Editor) {
		e.placeholder = text
	}
}

// DefaultSelectAllModifiers returns the select-all modifiers of the host
// platform: Command on macOS, Control elsewhere.
func DefaultSelectAllModifiers() []Modifiers {
	if runtime.GOOS == "darwin" || runtime.GOOS == "ios" {
		return []Modifiers{ModPlatform}
	}
	return []Modifiers{ModCtrl}
}
