// Package ring implements the rotating selection over a list of schemes.
//
// The ring is a slice plus a head offset: Next and Prev are O(1), while
// JumpToName, Center and Shuffle are O(n). Rotation never reorders entries,
// so cyclic adjacency is preserved; only Shuffle permutes them.
// A Ring is not safe for concurrent use.
package ring

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/oakwood-commons/iterminator/internal/catalog"
	"github.com/oakwood-commons/iterminator/internal/errs"
)

// Ring is a circular sequence of entries with one current entry (the head).
type Ring struct {
	entries []catalog.Entry
	head    int
	byIndex map[int]int    // entry.Index -> slice position
	byName  map[string]int // entry.Name -> slice position
	shuffle func(n int, swap func(i, j int))
}

// New creates a ring over entries with the first entry as head.
func New(entries []catalog.Entry) (*Ring, error) {
	r := &Ring{shuffle: rand.Shuffle}
	if err := r.Replace(entries); err != nil {
		return nil, err
	}
	return r, nil
}

// FromCatalog creates a ring over all entries of c.
func FromCatalog(c *catalog.Catalog) (*Ring, error) {
	return New(c.Entries())
}

// Replace swaps the ring content, resetting the head to the first entry.
func (r *Ring) Replace(entries []catalog.Entry) error {
	if len(entries) == 0 {
		return errs.New(errs.NotFound, "ring.Replace", "no schemes to select from")
	}
	r.entries = append([]catalog.Entry(nil), entries...)
	r.head = 0
	r.reindex()
	return nil
}

func (r *Ring) reindex() {
	r.byIndex = make(map[int]int, len(r.entries))
	r.byName = make(map[string]int, len(r.entries))
	for pos, e := range r.entries {
		r.byIndex[e.Index] = pos
		r.byName[e.Name] = pos
	}
}

// Len returns the number of entries.
func (r *Ring) Len() int {
	return len(r.entries)
}

// Current returns the head.
func (r *Ring) Current() catalog.Entry {
	return r.entries[r.head]
}

// Next rotates the head forward by one, wrapping at the end.
func (r *Ring) Next() {
	r.head = (r.head + 1) % len(r.entries)
}

// Prev rotates the head backward by one, wrapping at the start.
func (r *Ring) Prev() {
	r.head = (r.head - 1 + len(r.entries)) % len(r.entries)
}

// JumpToIndex makes the entry whose original index is i mod Len the head.
// Negative and oversized values wrap.
func (r *Ring) JumpToIndex(i int) error {
	n := len(r.entries)
	target := ((i % n) + n) % n
	pos, ok := r.byIndex[target]
	if !ok {
		return errs.Newf(errs.OutOfRange, "ring.JumpToIndex", "no scheme with index %d", target)
	}
	r.head = pos
	return nil
}

// JumpToName searches forward from the entry after the head for the first name
// containing query, case-insensitively, wrapping once. The head itself is only
// considered after every other entry.
func (r *Ring) JumpToName(query string) error {
	q := strings.ToLower(query)
	n := len(r.entries)
	for step := 1; step <= n; step++ {
		pos := (r.head + step) % n
		if strings.Contains(strings.ToLower(r.entries[pos].Name), q) {
			r.head = pos
			return nil
		}
	}
	return errs.Newf(errs.NotFound, "ring.JumpToName", "no scheme matches %q", query)
}

// Center makes the entry with the given name the head.
func (r *Ring) Center(name string) error {
	pos, ok := r.byName[name]
	if !ok {
		return errs.Newf(errs.NotFound, "ring.Center", "no scheme named %q", name)
	}
	r.head = pos
	return nil
}

// Contains reports whether an entry with the given name is in the ring.
func (r *Ring) Contains(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Shuffle randomly permutes the entries; whichever lands first becomes the head.
func (r *Ring) Shuffle() {
	r.shuffle(len(r.entries), func(i, j int) {
		r.entries[i], r.entries[j] = r.entries[j], r.entries[i]
	})
	r.head = 0
	r.reindex()
}

// Entries returns the entries in ring order starting at the head.
func (r *Ring) Entries() []catalog.Entry {
	out := make([]catalog.Entry, 0, len(r.entries))
	out = append(out, r.entries[r.head:]...)
	return append(out, r.entries[:r.head]...)
}

// Names returns the entry names in ring order starting at the head.
func (r *Ring) Names() []string {
	entries := r.Entries()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// IndexOrder returns the entry names ordered by catalog index, independent of
// rotation and shuffling.
func (r *Ring) IndexOrder() []string {
	entries := append([]catalog.Entry(nil), r.entries...)
	slices.SortFunc(entries, func(a, b catalog.Entry) int { return cmp.Compare(a.Index, b.Index) })
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
