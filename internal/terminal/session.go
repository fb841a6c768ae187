// Package terminal owns the raw-mode terminal session and decodes keypresses.
package terminal

import (
	"errors"
	"os"
	"strconv"
	"sync"

	"golang.org/x/term"

	"github.com/oakwood-commons/iterminator/internal/errs"
)

// Terminal mode calls, replaced in tests.
var (
	isTerminalFn = term.IsTerminal
	getStateFn   = term.GetState
	makeRawFn    = term.MakeRaw
	restoreFn    = term.Restore
)

// Session is a terminal switched into raw mode. The original mode is restored
// by Restore, which is safe to call more than once.
type Session struct {
	fd      int
	state   *term.State
	once    sync.Once
	restErr error
}

// Raw switches the terminal behind f into raw mode: no line buffering, no
// echo, control characters delivered as bytes.
func Raw(f *os.File) (*Session, error) {
	const op = "terminal.Raw"

	fd := int(f.Fd())
	if !isTerminalFn(fd) {
		return nil, errs.New(errs.TerminalMode, op, f.Name()+" is not a terminal")
	}
	orig, err := getStateFn(fd)
	if err != nil {
		return nil, errs.Wrap(errs.TerminalMode, op, "read terminal mode", err)
	}
	if _, err := makeRawFn(fd); err != nil {
		// MakeRaw may have partially applied settings.
		if restErr := restoreFn(fd, orig); restErr != nil {
			err = errors.Join(err, restErr)
		}
		return nil, errs.Wrap(errs.TerminalMode, op, "enable raw mode", err)
	}
	return &Session{fd: fd, state: orig}, nil
}

// Restore puts the terminal back into the mode captured by Raw.
func (s *Session) Restore() error {
	if s == nil {
		return nil
	}
	s.once.Do(func() {
		if err := restoreFn(s.fd, s.state); err != nil {
			s.restErr = errs.Wrap(errs.TerminalMode, "terminal.Restore", "restore mode", err)
		}
	})
	return s.restErr
}

// Width returns the terminal width, falling back to $COLUMNS and then 80.
func Width(f *os.File) int {
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return w
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isTerminalFn(int(f.Fd()))
}
