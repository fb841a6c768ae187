package selector

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/iterminator/internal/terminal"
)

func feed(t *testing.T, d *Dispatcher, input string) State {
	t.Helper()
	dec := terminal.NewDecoder(strings.NewReader(input))
	state := d.State()
	for {
		k, err := dec.ReadKey()
		if errors.Is(err, io.EOF) {
			return state
		}
		require.NoError(t, err)
		state = d.HandleKey(context.Background(), k)
	}
}

func countPrefix(events []string, prefix string) int {
	n := 0
	for _, ev := range events {
		if strings.HasPrefix(ev, prefix) {
			n++
		}
	}
	return n
}

func TestDispatcherRotation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		applies []string
	}{
		{name: "vi keys", input: "jjk", applies: []string{"Solarized Light", "Dracula", "Solarized Light"}},
		{name: "n and p", input: "pn", applies: []string{"Dracula", "Solarized Dark"}},
		{name: "arrows", input: "\x1b[C\x1b[B\x1b[D\x1b[A", applies: []string{"Solarized Light", "Dracula", "Solarized Light", "Solarized Dark"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, rec := newSelector(t)
			d := NewDispatcher(sel)
			assert.Equal(t, Idle, feed(t, d, tt.input))
			assert.Equal(t, tt.applies, rec.Applies())
		})
	}
}

func TestDispatcherJumpByName(t *testing.T) {
	sel, _ := newSelector(t)
	d := NewDispatcher(sel)

	assert.Equal(t, AwaitingJumpTarget, feed(t, d, "/drac"))
	assert.Equal(t, "drac", d.Query())
	assert.Equal(t, Idle, feed(t, d, "\r"))
	assert.Equal(t, "Dracula", sel.Current().Name)
}

func TestDispatcherExactNameWins(t *testing.T) {
	sel, _ := newSelector(t, "Nord", "Gruvbox Dark", "Gruvbox")
	d := NewDispatcher(sel)

	feed(t, d, "/gruvbox\r")
	assert.Equal(t, "Gruvbox", sel.Current().Name)
}

func TestDispatcherFailedJumpLeavesRing(t *testing.T) {
	sel, rec := newSelector(t)
	d := NewDispatcher(sel)

	assert.Equal(t, Idle, feed(t, d, "/zzz\r"))
	assert.Equal(t, "Solarized Dark", sel.Current().Name)
	assert.Empty(t, rec.Applies())

	events := rec.Events()
	last := events[len(events)-1]
	assert.True(t, strings.HasPrefix(last, "suggest:"), last)
	assert.Contains(t, last, `no scheme matches "zzz"`)
	assert.Contains(t, last, UsageBanner)

	rec.Reset()
	feed(t, d, "/drcla\r")
	events = rec.Events()
	assert.True(t, strings.HasSuffix(events[len(events)-1], "=> Dracula"), "fuzzy suggestion offered")
}

func TestDispatcherSearchDoesNotMoveBeforeSubmit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "failed search", input: "/drz\r"},
		{name: "canceled search", input: "/drac\x1b"},
		{name: "tab in search then cancel", input: "/sol\t\t\x1b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, rec := newSelector(t)
			d := NewDispatcher(sel)

			assert.Equal(t, Idle, feed(t, d, tt.input))
			assert.Equal(t, "Solarized Dark", sel.Current().Name)
			assert.Empty(t, rec.Applies())
		})
	}
}

func TestDispatcherSearchTabFillsName(t *testing.T) {
	sel, rec := newSelector(t)
	d := NewDispatcher(sel)

	feed(t, d, "/sol\t\t")
	assert.Equal(t, "Solarized Light", d.Query())
	assert.Empty(t, rec.Applies())

	assert.Equal(t, Idle, feed(t, d, "\r"))
	assert.Equal(t, "Solarized Light", sel.Current().Name)
	assert.Equal(t, []string{"Solarized Light"}, rec.Applies())
}

func TestDispatcherJumpByIndex(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: ":2\r", want: "Dracula"},
		{input: ":-1\r", want: "Dracula"},
		{input: ":4\r", want: "Solarized Light"},
		{input: "/1\r", want: "Solarized Light"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sel, _ := newSelector(t)
			d := NewDispatcher(sel)
			assert.Equal(t, Idle, feed(t, d, tt.input))
			assert.Equal(t, tt.want, sel.Current().Name)
		})
	}
}

func TestDispatcherIndexModeRejectsNames(t *testing.T) {
	sel, rec := newSelector(t)
	d := NewDispatcher(sel)

	assert.Equal(t, Idle, feed(t, d, ":drac\r"))
	assert.Equal(t, "Solarized Dark", sel.Current().Name)
	assert.Empty(t, rec.Applies(), "typing in index mode does not auto-commit")
	events := rec.Events()
	assert.Contains(t, events[len(events)-1], "is not a scheme index")
}

func TestDispatcherQuitKeys(t *testing.T) {
	for _, input := range []string{"q", "\r", "\x03", "x", "Z", "\x1b"} {
		t.Run(input, func(t *testing.T) {
			sel, rec := newSelector(t)
			d := NewDispatcher(sel)
			assert.Equal(t, Done, feed(t, d, input))
			assert.True(t, sel.Quitting())
			assert.Empty(t, rec.Applies())
		})
	}
}

func TestDispatcherPause(t *testing.T) {
	sel, rec := newSelector(t)
	d := NewDispatcher(sel)

	feed(t, d, " ")
	assert.True(t, sel.Paused())
	feed(t, d, " ")
	assert.False(t, sel.Paused())
	assert.Equal(t, []string{"tell:Solarized Dark (paused)", "tell:Solarized Dark"}, rec.Events())
}

func TestDispatcherCopy(t *testing.T) {
	var copied string
	restore := StubClipboard(func(s string) error { copied = s; return nil })
	defer restore()

	sel, rec := newSelector(t)
	d := NewDispatcher(sel)
	feed(t, d, "jy")
	assert.Equal(t, "Solarized Light", copied)
	assert.Contains(t, rec.Events(), "say:copied Solarized Light")

	StubClipboard(func(string) error { return errors.New("no clipboard") })
	feed(t, d, "y")
	assert.Contains(t, rec.Events(), "error:copy failed: no clipboard")
	assert.Equal(t, Idle, d.State())
}

func TestDispatcherCompletionAutoCommitsOnce(t *testing.T) {
	sel, rec := newSelector(t)
	d := NewDispatcher(sel)

	feed(t, d, "\tdr")
	assert.Equal(t, "Dracula", sel.Current().Name)
	feed(t, d, "a")
	assert.Equal(t, []string{"Dracula"}, rec.Applies())

	// backspacing to an ambiguous query re-arms the commit
	feed(t, d, "\x7f\x7f\x7f")
	feed(t, d, "dr")
	assert.Equal(t, []string{"Dracula", "Dracula"}, rec.Applies())
}

func TestDispatcherCompletionCycles(t *testing.T) {
	sel, rec := newSelector(t)
	d := NewDispatcher(sel)

	feed(t, d, "\tsol\t\t")
	assert.Equal(t, []string{"Solarized Dark", "Solarized Light"}, rec.Applies())
	assert.Equal(t, "Solarized Light", d.Query())

	feed(t, d, "\t")
	assert.Equal(t, "Solarized Dark", sel.Current().Name, "cycling wraps")

	feed(t, d, "\x1b[Z")
	assert.Equal(t, "Solarized Light", sel.Current().Name, "shift-tab steps back")
}

func TestDispatcherCancelAndRecall(t *testing.T) {
	sel, _ := newSelector(t)
	d := NewDispatcher(sel)

	assert.Equal(t, Idle, feed(t, d, "/sol\x1b"))
	assert.Equal(t, "Solarized Dark", sel.Current().Name)

	feed(t, d, "/drac\r/\x1b[A")
	assert.Equal(t, AwaitingJumpTarget, d.State())
	assert.Equal(t, "drac", d.Query())
}

func TestPromptDispatcher(t *testing.T) {
	sel, rec := newSelector(t)
	d := NewPromptDispatcher(sel)
	require.Equal(t, AwaitingJumpTarget, d.State())

	assert.Equal(t, AwaitingJumpTarget, feed(t, d, "light\r"))
	assert.Equal(t, "Solarized Light", sel.Current().Name)
	assert.Empty(t, d.Query())

	assert.Equal(t, AwaitingJumpTarget, feed(t, d, "zzz\r"), "failures keep prompting")
	assert.Equal(t, 1, countPrefix(rec.Events(), "suggest:"))

	assert.Equal(t, Done, feed(t, d, "\r"))
	assert.True(t, sel.Quitting())
}

func TestDispatcherRun(t *testing.T) {
	t.Run("quit key", func(t *testing.T) {
		sel, rec := newSelector(t)
		d := NewDispatcher(sel)
		require.NoError(t, d.Run(context.Background(), terminal.NewDecoder(strings.NewReader("jqjj"))))
		assert.Equal(t, []string{"Solarized Light"}, rec.Applies())
		assert.True(t, sel.Quitting())
	})

	t.Run("end of input", func(t *testing.T) {
		sel, rec := newSelector(t)
		d := NewDispatcher(sel)
		require.NoError(t, d.Run(context.Background(), terminal.NewDecoder(strings.NewReader("jj"))))
		assert.Equal(t, []string{"Solarized Light", "Dracula"}, rec.Applies())
		assert.True(t, sel.Quitting())
	})

	t.Run("canceled context", func(t *testing.T) {
		sel, _ := newSelector(t)
		d := NewDispatcher(sel)
		pr, pw := io.Pipe()
		t.Cleanup(func() { _ = pw.Close() })

		ctx, cancel := context.WithCancel(context.Background())
		errc := make(chan error, 1)
		go func() { errc <- d.Run(ctx, terminal.NewDecoder(pr)) }()
		cancel()

		select {
		case err := <-errc:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not return after cancel")
		}
		assert.True(t, sel.Quitting())
	})
}
