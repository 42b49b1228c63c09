package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// AnswerEntry is the single-line spelling field. Escape hands the keyboard
// back to the window shortcuts.
type AnswerEntry struct {
	widget.Entry
	onEscape func()
}

// NewAnswerEntry creates the answer field
func NewAnswerEntry() *AnswerEntry {
	entry := &AnswerEntry{}
	entry.SetPlaceHolder("Type spelling here and press Enter")
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedKey handles key events
func (e *AnswerEntry) TypedKey(key *fyne.KeyEvent) {
	if key.Name == fyne.KeyEscape && e.onEscape != nil {
		e.onEscape()
		return
	}
	e.Entry.TypedKey(key)
}

// SetOnEscape sets the callback for when Escape is pressed
func (e *AnswerEntry) SetOnEscape(f func()) {
	e.onEscape = f
}
