package terminal

import (
	"fmt"
	"io"
	"unicode"
)

// EditEvent is what a keypress meant to the line editor.
type EditEvent int

const (
	EditNone EditEvent = iota
	EditChanged
	EditSubmit
	EditCancel
	EditCompleteNext
	EditCompletePrev
)

// LineEditor is a single-line input buffer with backspace, clear-line and
// recall of the previously submitted line.
type LineEditor struct {
	buf  []rune
	last string
}

// Handle applies k to the buffer and reports what happened.
func (e *LineEditor) Handle(k Key) EditEvent {
	switch k.Kind {
	case KeyRune:
		if !unicode.IsPrint(k.Rune) {
			return EditNone
		}
		e.buf = append(e.buf, k.Rune)
		return EditChanged
	case KeyBackspace:
		if len(e.buf) == 0 {
			return EditNone
		}
		e.buf = e.buf[:len(e.buf)-1]
		return EditChanged
	case KeyCtrlU:
		if len(e.buf) == 0 {
			return EditNone
		}
		e.buf = e.buf[:0]
		return EditChanged
	case KeyUp:
		if e.last == "" || e.last == string(e.buf) {
			return EditNone
		}
		e.buf = []rune(e.last)
		return EditChanged
	case KeyTab, KeyRight:
		return EditCompleteNext
	case KeyBackTab, KeyLeft:
		return EditCompletePrev
	case KeyEnter:
		if len(e.buf) > 0 {
			e.last = string(e.buf)
		}
		return EditSubmit
	case KeyEscape, KeyCtrlC:
		return EditCancel
	}
	return EditNone
}

// Text returns the current buffer.
func (e *LineEditor) Text() string {
	return string(e.buf)
}

// SetText replaces the buffer, e.g. with a completion.
func (e *LineEditor) SetText(s string) {
	e.buf = []rune(s)
}

// Reset clears the buffer but keeps the recall history.
func (e *LineEditor) Reset() {
	e.buf = e.buf[:0]
}

// Last returns the previously submitted line.
func (e *LineEditor) Last() string {
	return e.last
}

// Render redraws prompt and buffer on the current line.
func (e *LineEditor) Render(w io.Writer, prompt string) error {
	_, err := fmt.Fprintf(w, "\r\x1b[K%s%s", prompt, string(e.buf))
	return err
}
