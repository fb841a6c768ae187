package selector

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/iterminator/internal/catalog"
	"github.com/oakwood-commons/iterminator/internal/ring"
)

// recorder is both the fake applier and the fake status line. Events are
// recorded in order as "apply:<name>", "tell:<name>", "error:<msg>", ...
type recorder struct {
	mu      sync.Mutex
	events  []string
	applied []time.Time
	fail    map[string]bool
}

func (r *recorder) Apply(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := nameFromPath(path)
	r.events = append(r.events, "apply:"+name)
	r.applied = append(r.applied, time.Now())
	if r.fail[name] {
		return errors.New("preview failed")
	}
	return nil
}

func (r *recorder) add(ev string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) Tell(name string, paused bool) error {
	if paused {
		return r.add("tell:" + name + " (paused)")
	}
	return r.add("tell:" + name)
}
func (r *recorder) Say(msg string) error   { return r.add("say:" + msg) }
func (r *recorder) Error(msg string) error { return r.add("error:" + msg) }
func (r *recorder) Suggest(msg string, names []string) error {
	return r.add("suggest:" + msg + " => " + strings.Join(names, ","))
}
func (r *recorder) Prompt(prompt, text string) error { return r.add("prompt:" + prompt + text) }
func (r *recorder) Break() error                     { return r.add("break") }

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) Applies() []string {
	var out []string
	for _, ev := range r.Events() {
		if name, ok := strings.CutPrefix(ev, "apply:"); ok {
			out = append(out, name)
		}
	}
	return out
}

func (r *recorder) ApplyTimes() []time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Time(nil), r.applied...)
}

func (r *recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.applied = nil
}

func nameFromPath(path string) string {
	return strings.TrimSuffix(strings.TrimPrefix(path, "/schemes/"), catalog.DefaultSuffix)
}

func newCatalog(names ...string) *catalog.Catalog {
	entries := make([]catalog.Entry, len(names))
	for i, n := range names {
		entries[i] = catalog.Entry{Name: n, Path: "/schemes/" + n + catalog.DefaultSuffix}
	}
	return catalog.New(entries)
}

func newSelector(t *testing.T, names ...string) (*Selector, *recorder) {
	t.Helper()
	if len(names) == 0 {
		names = []string{"Solarized Dark", "Solarized Light", "Dracula"}
	}
	r, err := ring.FromCatalog(newCatalog(names...))
	require.NoError(t, err)
	rec := &recorder{}
	sel := New(r, Options{Applier: rec, Status: rec, Log: logr.Discard(), PollInterval: 10 * time.Millisecond})
	return sel, rec
}
