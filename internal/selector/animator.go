package selector

import (
	"context"
	"time"

	"github.com/oakwood-commons/iterminator/internal/errs"
)

// Animator advances the selection on a timer until the selector quits.
type Animator struct {
	sel      *Selector
	interval time.Duration
}

// NewAnimator advances sel speed times per second.
func NewAnimator(sel *Selector, speed float64) (*Animator, error) {
	if speed <= 0 {
		return nil, errs.Newf(errs.InvalidInput, "selector.NewAnimator", "animation speed must be positive, got %g", speed)
	}
	return &Animator{sel: sel, interval: time.Duration(float64(time.Second) / speed)}, nil
}

// Interval is the delay between two advances.
func (a *Animator) Interval() time.Duration {
	return a.interval
}

// Start runs the animator in its own goroutine. The returned channel is
// closed once it has stopped, which happens promptly after Quit or ctx ends.
func (a *Animator) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.Run(ctx)
	}()
	return done
}

// Run advances, applies and tells, then sleeps for the interval; while paused
// it polls for resume. Apply failures are reported by the selector and do not
// stop the animation.
func (a *Animator) Run(ctx context.Context) {
	for {
		advanced, err := a.sel.advanceUnlessPaused(ctx)
		if err != nil {
			a.sel.log.V(1).Info("animation step failed", "error", err.Error())
		}
		wait := a.interval
		if !advanced {
			wait = a.sel.poll
		}
		select {
		case <-ctx.Done():
			return
		case <-a.sel.Done():
			return
		case <-time.After(wait):
		}
	}
}

// Animate starts an animator at speed schemes per second. The returned
// channel is closed once it has stopped.
func (s *Selector) Animate(ctx context.Context, speed float64) (<-chan struct{}, error) {
	a, err := NewAnimator(s, speed)
	if err != nil {
		return nil, err
	}
	return a.Start(ctx), nil
}
