package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
)

// StatusOptions configures a StatusLine.
type StatusOptions struct {
	Theme   Theme
	NoColor bool
	Quiet   bool // suppress banners; scheme names and errors are still shown
	Width   int  // terminal width; 0 disables truncation
}

// StatusLine owns the terminal line that shows the current scheme. Every
// write first clears the widest text shown so far, so a shorter name fully
// replaces a longer one.
type StatusLine struct {
	mu    sync.Mutex
	w     io.Writer
	opts  StatusOptions
	blank int

	scheme lipgloss.Style
	banner lipgloss.Style
	errs   lipgloss.Style
	muted  lipgloss.Style
}

// NewStatusLine writes to w.
func NewStatusLine(w io.Writer, opts StatusOptions) *StatusLine {
	s := &StatusLine{w: w, opts: opts}
	s.scheme = lipgloss.NewStyle()
	s.banner = lipgloss.NewStyle()
	s.errs = lipgloss.NewStyle()
	s.muted = lipgloss.NewStyle()
	if !opts.NoColor {
		th := opts.Theme
		if th.Scheme == nil {
			th = DefaultTheme()
		}
		s.scheme = s.scheme.Bold(true).Foreground(th.Scheme)
		s.banner = s.banner.Foreground(th.Banner)
		s.errs = s.errs.Foreground(th.Error)
		s.muted = s.muted.Faint(true).Foreground(th.Muted)
	}
	return s
}

// Tell shows the current scheme name, marking it when paused.
func (s *StatusLine) Tell(name string, paused bool) error {
	text := s.fit(name)
	plain := text
	styled := s.scheme.Render(text)
	if paused {
		plain += " (paused)"
		styled += s.muted.Render(" (paused)")
	}
	return s.redraw(plain, styled)
}

// Say shows a banner such as key binding help, unless quiet.
func (s *StatusLine) Say(msg string) error {
	if s.opts.Quiet {
		return nil
	}
	msg = s.fit(msg)
	return s.redraw(msg, s.banner.Render(msg))
}

// Error shows a transient error.
func (s *StatusLine) Error(msg string) error {
	msg = s.fit(msg)
	return s.redraw(msg, s.errs.Render(msg))
}

// Suggest shows a list of alternative names after a message.
func (s *StatusLine) Suggest(msg string, names []string) error {
	if len(names) == 0 {
		return s.Error(msg)
	}
	hint := " did you mean: " + strings.Join(names, ", ")
	text := s.fit(msg + hint)
	if displayWidth(text) <= displayWidth(msg) {
		return s.Error(text)
	}
	return s.redraw(text, s.errs.Render(msg)+s.muted.Render(text[len(msg):]))
}

// Prompt shows an input prompt followed by the text typed so far.
func (s *StatusLine) Prompt(prompt, text string) error {
	line := prompt + text
	return s.redraw(line, s.banner.Render(prompt)+text)
}

// Break ends the status line so following output starts on a fresh line.
func (s *StatusLine) Break() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, "\r\n")
	return err
}

func (s *StatusLine) redraw(plain, styled string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.w, "\r%s\r%s", blankOfWidth(s.blank), styled)
	if w := displayWidth(plain); w > s.blank {
		s.blank = w
	}
	return err
}

func (s *StatusLine) fit(text string) string {
	if s.opts.Width > 1 {
		return truncate(text, s.opts.Width-1)
	}
	return text
}
