// Package selector drives scheme selection: it owns the ring, pairs every
// rotation with an apply and a status redraw, and coordinates the key
// dispatcher with the animator.
package selector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/iterminator/internal/applier"
	"github.com/oakwood-commons/iterminator/internal/catalog"
	"github.com/oakwood-commons/iterminator/internal/completion"
	"github.com/oakwood-commons/iterminator/internal/errs"
	"github.com/oakwood-commons/iterminator/internal/ring"
)

// DefaultPollInterval is how often a paused animator checks for resume.
const DefaultPollInterval = 100 * time.Millisecond

// Teller redraws the status line.
type Teller interface {
	Tell(name string, paused bool) error
	Say(msg string) error
	Error(msg string) error
	Suggest(msg string, names []string) error
	Prompt(prompt, text string) error
	Break() error
}

// Options configures a Selector.
type Options struct {
	Applier      applier.Applier
	Status       Teller
	Log          logr.Logger
	PollInterval time.Duration
}

// Selector is the single shared selection state of a run. The ring and the
// paused/quitting flags are guarded by one mutex, and a rotation together
// with its apply and tell happens inside one critical section, so observers
// never see one scheme applied while another is reported.
type Selector struct {
	mu       sync.Mutex
	ring     *ring.Ring
	engine   *completion.Engine
	paused   bool
	quitting bool
	quit     chan struct{}

	applier applier.Applier
	status  Teller
	log     logr.Logger
	poll    time.Duration
}

// New creates a Selector over r.
func New(r *ring.Ring, opts Options) *Selector {
	poll := opts.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &Selector{
		ring:    r,
		engine:  completion.NewEngine(r.IndexOrder()),
		quit:    make(chan struct{}),
		applier: opts.Applier,
		status:  opts.Status,
		log:     opts.Log,
		poll:    poll,
	}
}

// Current returns the head of the ring.
func (s *Selector) Current() catalog.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ring.Current()
}

// Names returns the scheme names in ring order starting at the head.
func (s *Selector) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ring.Names()
}

// Paused reports whether animation is paused.
func (s *Selector) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// SetPaused pauses or resumes animation and redraws the status line.
func (s *Selector) SetPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = paused
	s.tellLocked()
}

// TogglePause flips the paused flag and returns the new value.
func (s *Selector) TogglePause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = !s.paused
	s.tellLocked()
	return s.paused
}

// Quit raises the quitting flag. It is safe to call more than once.
func (s *Selector) Quit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.quitting {
		s.quitting = true
		close(s.quit)
	}
}

// Quitting reports whether Quit was called.
func (s *Selector) Quitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quitting
}

// Done is closed when Quit is called.
func (s *Selector) Done() <-chan struct{} {
	return s.quit
}

// Next selects the following scheme.
func (s *Selector) Next(ctx context.Context) error {
	return s.step(ctx, func(r *ring.Ring) error { r.Next(); return nil })
}

// Prev selects the preceding scheme.
func (s *Selector) Prev(ctx context.Context) error {
	return s.step(ctx, func(r *ring.Ring) error { r.Prev(); return nil })
}

// JumpToIndex selects the scheme with catalog index i (modulo the ring length).
func (s *Selector) JumpToIndex(ctx context.Context, i int) error {
	return s.step(ctx, func(r *ring.Ring) error { return r.JumpToIndex(i) })
}

// JumpToName selects the next scheme whose name contains query.
func (s *Selector) JumpToName(ctx context.Context, query string) error {
	return s.step(ctx, func(r *ring.Ring) error { return r.JumpToName(query) })
}

// Center selects the scheme with the given name.
func (s *Selector) Center(ctx context.Context, name string) error {
	return s.step(ctx, func(r *ring.Ring) error { return r.Center(name) })
}

// Shuffle randomly reorders the schemes and selects the new head.
func (s *Selector) Shuffle(ctx context.Context) error {
	return s.step(ctx, func(r *ring.Ring) error {
		r.Shuffle()
		return nil
	})
}

// Apply applies and reports the current scheme without moving.
func (s *Selector) Apply(ctx context.Context) error {
	return s.step(ctx, func(*ring.Ring) error { return nil })
}

// Tell redraws the status line with the current scheme.
func (s *Selector) Tell() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tellLocked()
}

// advanceUnlessPaused is the animator's tick: the paused check and the
// rotation happen under the same lock. It reports whether it advanced.
func (s *Selector) advanceUnlessPaused(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused || s.quitting {
		return false, nil
	}
	s.ring.Next()
	return true, s.applyLocked(ctx)
}

// Complete runs the incremental matcher over the scheme names. A unique match
// that has not been committed yet is selected and applied before returning.
func (s *Selector) Complete(ctx context.Context, query string) (completion.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.engine.Complete(query)
	if !res.AutoCommitted {
		return res, nil
	}
	if err := s.ring.Center(res.Matches[0]); err != nil {
		return res, err
	}
	return res, s.applyLocked(ctx)
}

func (s *Selector) candidates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Candidates()
}

// ResetCompletion forgets the last auto-committed match.
func (s *Selector) ResetCompletion() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Reset()
}

// Reload swaps in a new catalog, staying on the current scheme when it still
// exists. Nothing is applied unless the current scheme disappeared.
func (s *Selector) Reload(ctx context.Context, c *catalog.Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := s.ring.Current().Name
	if err := s.ring.Replace(c.Entries()); err != nil {
		return err
	}
	s.engine.SetCandidates(c.Names())
	s.log.V(1).Info("catalog reloaded", "schemes", s.ring.Len(), "current", name)
	if s.ring.Contains(name) {
		_ = s.ring.Center(name)
		s.tellLocked()
		return nil
	}
	return s.applyLocked(ctx)
}

func (s *Selector) step(ctx context.Context, mutate func(*ring.Ring) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := mutate(s.ring); err != nil {
		return err
	}
	return s.applyLocked(ctx)
}

// applyLocked applies the head and reports it. An apply failure is shown on
// the status line and returned; the ring keeps its new position.
func (s *Selector) applyLocked(ctx context.Context) error {
	cur := s.ring.Current()
	if s.applier != nil {
		if err := s.applier.Apply(ctx, cur.Path); err != nil {
			s.log.V(1).Info("apply failed", "scheme", cur.Name, "error", err.Error())
			if !errors.Is(err, errs.ErrApply) {
				err = errs.Wrap(errs.Apply, "selector.Apply", cur.Name, err)
			}
			if s.status != nil {
				_ = s.status.Error(fmt.Sprintf("%s: %v", cur.Name, err))
			}
			return err
		}
	}
	s.tellLocked()
	return nil
}

func (s *Selector) tellLocked() {
	if s.status != nil {
		_ = s.status.Tell(s.ring.Current().Name, s.paused)
	}
}
