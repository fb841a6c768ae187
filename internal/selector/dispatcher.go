package selector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/oakwood-commons/iterminator/internal/completion"
	"github.com/oakwood-commons/iterminator/internal/errs"
	"github.com/oakwood-commons/iterminator/internal/terminal"
)

// State is the dispatcher's state.
type State int

const (
	Idle State = iota
	AwaitingJumpTarget
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingJumpTarget:
		return "awaiting-jump-target"
	case Done:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type jumpMode int

const (
	jumpName jumpMode = iota
	jumpIndex
	jumpComplete
)

var jumpPrompts = map[jumpMode]string{
	jumpName:     "search",
	jumpIndex:    "index",
	jumpComplete: "scheme",
}

// suggestionLimit caps "did you mean" hints after a failed jump.
const suggestionLimit = 3

// Dispatcher turns keypresses into selector operations.
type Dispatcher struct {
	sel    *Selector
	status Teller
	state  State
	mode   jumpMode
	editor terminal.LineEditor
	cursor completion.Cursor

	// promptOnly keeps the dispatcher in the completion prompt after each
	// submission; an empty submission or cancel ends the session.
	promptOnly bool
}

// NewDispatcher starts idle.
func NewDispatcher(sel *Selector) *Dispatcher {
	return &Dispatcher{sel: sel, status: sel.status}
}

// NewPromptDispatcher starts in the completion prompt and stays there.
func NewPromptDispatcher(sel *Selector) *Dispatcher {
	d := NewDispatcher(sel)
	d.promptOnly = true
	d.enterPrompt(jumpComplete)
	return d
}

// State returns the current state.
func (d *Dispatcher) State() State {
	return d.state
}

// Query returns the text typed at the prompt.
func (d *Dispatcher) Query() string {
	return d.editor.Text()
}

// HandleKey processes one keypress and returns the new state. Errors caused
// by the keypress are reported on the status line, never returned.
func (d *Dispatcher) HandleKey(ctx context.Context, k terminal.Key) State {
	switch d.state {
	case Idle:
		d.handleIdle(ctx, k)
	case AwaitingJumpTarget:
		d.handlePrompt(ctx, k)
	}
	if d.state == Done {
		d.sel.Quit()
	}
	return d.state
}

func (d *Dispatcher) handleIdle(ctx context.Context, k terminal.Key) {
	action := Classify(k)
	d.sel.log.V(1).Info("key", "key", k.String(), "action", action.String())
	switch action {
	case ActionNext:
		_ = d.sel.Next(ctx)
	case ActionPrev:
		_ = d.sel.Prev(ctx)
	case ActionPause:
		d.sel.TogglePause()
	case ActionShuffle:
		_ = d.sel.Shuffle(ctx)
	case ActionCopy:
		d.copyCurrent()
	case ActionJumpName:
		d.enterPrompt(jumpName)
	case ActionJumpIndex:
		d.enterPrompt(jumpIndex)
	case ActionComplete:
		d.enterPrompt(jumpComplete)
	default:
		d.state = Done
	}
}

func (d *Dispatcher) copyCurrent() {
	name := d.sel.Current().Name
	if err := copyToClipboardFn(name); err != nil {
		d.say(d.status.Error("copy failed: " + err.Error()))
		return
	}
	d.say(d.status.Say("copied " + name))
}

func (d *Dispatcher) enterPrompt(mode jumpMode) {
	d.state = AwaitingJumpTarget
	d.mode = mode
	d.editor.Reset()
	d.cursor = completion.NewCursor(nil)
	d.sel.ResetCompletion()
	d.renderPrompt()
}

func (d *Dispatcher) renderPrompt() {
	prompt := fmt.Sprintf("%s [%s]: ", jumpPrompts[d.mode], d.sel.Current().Name)
	d.say(d.status.Prompt(prompt, d.editor.Text()))
}

func (d *Dispatcher) handlePrompt(ctx context.Context, k terminal.Key) {
	switch d.editor.Handle(k) {
	case terminal.EditChanged:
		d.cursor = completion.NewCursor(nil)
		switch d.mode {
		case jumpComplete:
			res, _ := d.sel.Complete(ctx, d.editor.Text())
			d.cursor = completion.NewCursor(res.Matches)
		case jumpName:
			// the ring only moves once the search is submitted
			d.cursor = completion.NewCursor(completion.Match(d.editor.Text(), d.sel.candidates()))
		}
		d.renderPrompt()
	case terminal.EditCompleteNext:
		d.advance(ctx, completion.Forward)
	case terminal.EditCompletePrev:
		d.advance(ctx, completion.Backward)
	case terminal.EditSubmit:
		d.submit(ctx)
	case terminal.EditCancel:
		d.leavePrompt(d.promptOnly)
	}
}

// advance steps through the current matches without recomputing them. In the
// completion prompt the selected scheme is previewed; a search only fills in
// the name.
func (d *Dispatcher) advance(ctx context.Context, dir completion.Direction) {
	if d.mode == jumpIndex {
		return
	}
	if len(d.cursor.Matches) == 0 {
		d.cursor = completion.NewCursor(completion.Match(d.editor.Text(), d.sel.candidates()))
	}
	name, next := d.cursor.Advance(dir)
	d.cursor = next
	if name == "" {
		return
	}
	d.editor.SetText(name)
	if d.mode == jumpComplete {
		_ = d.sel.Center(ctx, name)
	}
	d.renderPrompt()
}

func (d *Dispatcher) submit(ctx context.Context) {
	text := strings.TrimSpace(d.editor.Text())
	if text == "" {
		d.leavePrompt(d.promptOnly)
		return
	}
	err := d.jump(ctx, text)
	switch {
	case err == nil, errors.Is(err, errs.ErrApply):
		// apply failures were already reported by the selector
		if d.promptOnly {
			d.enterPrompt(jumpComplete)
			return
		}
		d.state = Idle
	default:
		d.reportFailure(text, err)
		if d.promptOnly {
			d.editor.Reset()
			d.cursor = completion.NewCursor(nil)
			return
		}
		d.state = Idle
	}
}

// jump resolves a submitted target: integers jump by index, anything else by
// exact name first and then by forward substring search.
func (d *Dispatcher) jump(ctx context.Context, text string) error {
	if i, err := strconv.Atoi(text); err == nil {
		return d.sel.JumpToIndex(ctx, i)
	}
	if d.mode == jumpIndex {
		return errs.Newf(errs.InvalidInput, "selector.jump", "%q is not a scheme index", text)
	}
	if exact := completion.Match(text+completion.ExactTerminator, d.sel.candidates()); len(exact) == 1 {
		return d.sel.Center(ctx, exact[0])
	}
	return d.sel.JumpToName(ctx, text)
}

func (d *Dispatcher) reportFailure(text string, err error) {
	msg := err.Error()
	var e *errs.Error
	if errors.As(err, &e) && e.Msg != "" {
		msg = e.Msg
	}
	var suggestions []string
	if errors.Is(err, errs.ErrNotFound) {
		suggestions = completion.Suggest(text, d.sel.candidates(), suggestionLimit)
	}
	d.say(d.status.Suggest(msg+" | "+UsageBanner, suggestions))
}

func (d *Dispatcher) leavePrompt(quit bool) {
	if quit {
		d.state = Done
		return
	}
	d.state = Idle
	d.sel.Tell()
}

func (d *Dispatcher) say(err error) {
	if err != nil {
		d.sel.log.V(1).Info("status write failed", "error", err.Error())
	}
}

// Run reads keys from the decoder until the dispatcher is done, the input
// ends, the selector quits or ctx is canceled. A canceled context is a clean
// quit.
func (d *Dispatcher) Run(ctx context.Context, dec *terminal.Decoder) error {
	type result struct {
		key terminal.Key
		err error
	}
	keys := make(chan result)
	go func() {
		for {
			k, err := dec.ReadKey()
			select {
			case keys <- result{k, err}:
			case <-d.sel.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	defer d.sel.Quit()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-d.sel.Done():
			return nil
		case r := <-keys:
			if r.err != nil {
				if errors.Is(r.err, io.EOF) {
					return nil
				}
				return fmt.Errorf("read key: %w", r.err)
			}
			if d.HandleKey(ctx, r.key) == Done {
				return nil
			}
		}
	}
}
