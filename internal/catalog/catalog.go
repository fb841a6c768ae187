// Package catalog enumerates color-scheme files and exposes them as an ordered,
// immutable list of entries. Filtering produces a new Catalog with fresh indices.
package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/oakwood-commons/iterminator/internal/errs"
)

// DefaultSuffix is the file suffix of iTerm2 color-scheme files.
const DefaultSuffix = ".itermcolors"

// Entry is a single scheme. Index is its position in the Catalog it came from.
type Entry struct {
	Index int
	Name  string
	Path  string
}

func (e Entry) String() string {
	return e.Name
}

// Catalog is an ordered list of scheme entries.
type Catalog struct {
	entries []Entry
	byName  map[string]Entry
}

// LoadOptions controls how a directory is enumerated.
type LoadOptions struct {
	// Suffix selects files ending with it; ignored when Pattern is set.
	Suffix string
	// Pattern is a glob matched against file names (e.g. "*.itermcolors").
	Pattern string
}

func (o LoadOptions) pattern() string {
	if o.Pattern != "" {
		return o.Pattern
	}
	suffix := o.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return "*" + suffix
}

// Load enumerates dir and returns a Catalog sorted by file name.
// It fails with a NotFound error when dir is missing or contains no scheme files.
func Load(dir string, opts LoadOptions) (*Catalog, error) {
	const op = "catalog.Load"

	matcher, err := glob.Compile(opts.pattern())
	if err != nil {
		return nil, errs.Wrap(errs.InvalidInput, op, "invalid scheme file pattern "+opts.pattern(), err)
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errs.Wrap(errs.NotFound, op, "cannot read scheme directory "+dir, err)
	}

	var files []string
	for _, de := range dirEntries {
		if de.IsDir() || !matcher.Match(de.Name()) {
			continue
		}
		files = append(files, de.Name())
	}
	if len(files) == 0 {
		return nil, errs.Newf(errs.NotFound, op, "no scheme files matching %s in %s", opts.pattern(), dir)
	}
	sort.Strings(files)

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		entries = append(entries, Entry{
			Name: nameFromFile(f, opts),
			Path: filepath.Join(dir, f),
		})
	}
	return New(entries), nil
}

// nameFromFile derives the scheme name from the file stem.
func nameFromFile(file string, opts LoadOptions) string {
	if opts.Pattern == "" {
		suffix := opts.Suffix
		if suffix == "" {
			suffix = DefaultSuffix
		}
		if trimmed := strings.TrimSuffix(file, suffix); trimmed != "" {
			return trimmed
		}
	}
	return strings.TrimSuffix(file, filepath.Ext(file))
}

// New builds a Catalog from entries, assigning sequential indices.
// Duplicate names resolve to the last entry in lookups.
func New(entries []Entry) *Catalog {
	c := &Catalog{
		entries: make([]Entry, len(entries)),
		byName:  make(map[string]Entry, len(entries)),
	}
	for i, e := range entries {
		e.Index = i
		c.entries[i] = e
		c.byName[e.Name] = e
	}
	return c
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the entries in catalog order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Names returns the entry names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// Lookup returns the entry with the given name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	e, ok := c.byName[name]
	return e, ok
}

// Filter returns a new Catalog holding the entries for which keep returns true,
// re-indexed sequentially. Relative order is preserved.
func (c *Catalog) Filter(keep func(Entry) bool) *Catalog {
	var kept []Entry
	for _, e := range c.entries {
		if keep(e) {
			kept = append(kept, e)
		}
	}
	return New(kept)
}
