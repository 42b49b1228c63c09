package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/spellbee/internal"
)

// setupKeyboardShortcuts binds single-key shortcuts that work while the
// answer field is not focused
func (a *Application) setupKeyboardShortcuts() {
	a.window.Canvas().SetOnTypedRune(func(r rune) {
		if a.window.Canvas().Focused() == a.answerEntry {
			return
		}
		a.handleShortcut(r)
	})

	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyEscape:
			a.window.Canvas().Unfocus()
		case fyne.KeyReturn, fyne.KeyEnter:
			// Enter with nothing focused jumps to the answer field
			if !a.answerEntry.Disabled() {
				a.window.Canvas().Focus(a.answerEntry)
			}
		}
	})
}

// handleShortcut runs the action bound to r if its button is enabled
func (a *Application) handleShortcut(r rune) {
	switch r {
	case 'l', 'L':
		a.onLoad()
	case 'r', 'R':
		if !a.readAllBtn.Disabled() {
			a.onReadAll()
		}
	case 's', 'S':
		if !a.stopBtn.Disabled() {
			a.onStop()
		}
	case 't', 'T':
		if !a.startTestBtn.Disabled() {
			a.onStartTest()
		}
	case 'e', 'E':
		if !a.endTestBtn.Disabled() {
			a.onEndTest()
		}
	case 'n', 'N':
		if !a.readNextBtn.Disabled() {
			a.onReadNext()
		}
	case 'w', 'W':
		if !a.showSpellingBtn.Disabled() {
			a.onShowSpelling()
		}
	case 'm', 'M':
		if !a.markIncorrectBtn.Disabled() {
			a.onMarkIncorrect()
		}
	case 'c', 'C':
		a.logViewer.Clear()
	case 'h', 'H':
		a.onShowHotkeys()
	case 'q', 'Q':
		a.window.Close()
	}
}

func (a *Application) onShowHotkeys() {
	hotkeys := `## Word list
**l** Load word file  
**r** Start reading all  
**s** Stop  

## Test
**t** Start test  
**n** Read next  
**w** Show spelling  
**m** Mark incorrect  
**e** End test  
**Enter** Focus the answer field  
**Esc** Leave the answer field  

## Other
**c** Clear the log  
**h** Show hotkeys  
**q** Quit  

---
*` + versionLine() + `*`

	content := widget.NewRichTextFromMarkdown(hotkeys)
	content.Wrapping = fyne.TextWrapWord

	scroll := container.NewScroll(container.NewPadded(content))
	scroll.SetMinSize(fyne.NewSize(360, 420))

	d := dialog.NewCustom("Keyboard Shortcuts", "Close", scroll, a.window)
	d.Show()
}

func versionLine() string {
	return fmt.Sprintf("spellbee v%s", internal.Version)
}
