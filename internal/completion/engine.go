// Package completion matches partial queries against scheme names.
package completion

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// ExactTerminator forces an exact, case-insensitive match when it ends a query,
// so a name that is a prefix of another can still be selected.
const ExactTerminator = "$"

// Match returns the candidates matching query, in candidate order.
//   - "" matches everything.
//   - "name$" matches candidates equal to name, ignoring case.
//   - anything else matches candidates containing query, ignoring case.
//
// Matches are returned with the candidate's own spelling.
func Match(query string, candidates []string) []string {
	if query == "" {
		return append([]string(nil), candidates...)
	}

	matches := []string{}
	if exact, ok := strings.CutSuffix(query, ExactTerminator); ok {
		for _, c := range candidates {
			if strings.EqualFold(c, exact) {
				matches = append(matches, c)
			}
		}
		return matches
	}

	q := strings.ToLower(query)
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c), q) {
			matches = append(matches, c)
		}
	}
	return matches
}

// Result is the outcome of Engine.Complete.
type Result struct {
	Query   string
	Matches []string
	// AutoCommitted is set when a non-empty query narrows to exactly one name
	// that was not already committed; the caller should select Matches[0].
	AutoCommitted bool
}

// Unique returns the single match, if there is exactly one.
func (r Result) Unique() (string, bool) {
	if len(r.Matches) == 1 {
		return r.Matches[0], true
	}
	return "", false
}

// Engine tracks the candidate names and the last auto-committed match so a
// unique match commits once rather than on every recomputation.
type Engine struct {
	candidates []string
	committed  string
}

// NewEngine creates an engine over candidates.
func NewEngine(candidates []string) *Engine {
	return &Engine{candidates: append([]string(nil), candidates...)}
}

// SetCandidates replaces the candidate list and forgets the last commit.
func (e *Engine) SetCandidates(candidates []string) {
	e.candidates = append([]string(nil), candidates...)
	e.committed = ""
}

// Candidates returns the candidate names.
func (e *Engine) Candidates() []string {
	return append([]string(nil), e.candidates...)
}

// Complete matches query and decides whether the result auto-commits.
func (e *Engine) Complete(query string) Result {
	res := Result{Query: query, Matches: Match(query, e.candidates)}
	name, unique := res.Unique()
	switch {
	case query == "" || !unique:
		e.committed = ""
	case name != e.committed:
		e.committed = name
		res.AutoCommitted = true
	}
	return res
}

// Reset forgets the last commit, e.g. when a new query line starts.
func (e *Engine) Reset() {
	e.committed = ""
}

// Suggest returns up to limit candidates that fuzzily resemble query, best first.
func Suggest(query string, candidates []string, limit int) []string {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	lowered := make([]string, len(candidates))
	for i, c := range candidates {
		lowered[i] = strings.ToLower(c)
	}
	found := fuzzy.Find(strings.ToLower(strings.TrimSuffix(query, ExactTerminator)), lowered)
	out := make([]string, 0, min(limit, len(found)))
	for _, m := range found {
		if len(out) == limit {
			break
		}
		out = append(out, candidates[m.Index])
	}
	return out
}
