package selector

import (
	"context"
	"io"

	"github.com/oakwood-commons/iterminator/internal/terminal"
)

// CompletionBanner introduces the completion prompt.
const CompletionBanner = "Tab to complete color scheme names"

// SessionOptions configures an interactive session.
type SessionOptions struct {
	// Input is the raw-mode terminal input.
	Input io.Reader
	// Speed > 0 runs the animator at that many schemes per second.
	Speed float64
	// Shuffle randomizes the order before animating.
	Shuffle bool
	// Prompt starts in the completion prompt instead of the key dispatcher.
	Prompt bool
}

// RunSession runs the key dispatcher, and the animator when requested, until
// the user quits, the input ends or ctx is canceled. The animator is stopped
// and waited for before RunSession returns.
func RunSession(ctx context.Context, sel *Selector, opts SessionOptions) error {
	var d *Dispatcher
	if opts.Prompt {
		_ = sel.status.Say(CompletionBanner)
		d = NewPromptDispatcher(sel)
	} else {
		_ = sel.status.Say(UsageBanner)
		d = NewDispatcher(sel)
	}

	var animDone <-chan struct{}
	if opts.Speed > 0 {
		sel.prepareAnimation(opts.Shuffle)
		var err error
		if animDone, err = sel.Animate(ctx, opts.Speed); err != nil {
			return err
		}
	}

	err := d.Run(ctx, terminal.NewDecoder(opts.Input))
	sel.Quit()
	if animDone != nil {
		<-animDone
	}
	_ = sel.status.Break()
	return err
}

// prepareAnimation positions the ring one step before the scheme the
// animation should show first.
func (s *Selector) prepareAnimation(shuffle bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if shuffle {
		s.ring.Shuffle()
	}
	s.ring.Prev()
}
