package selector

import (
	"context"
	"strings"

	"github.com/oakwood-commons/iterminator/internal/catalog"
	"github.com/oakwood-commons/iterminator/internal/completion"
	"github.com/oakwood-commons/iterminator/internal/errs"
)

// Resolve picks exactly one name for a one-shot query. A query matching
// several names is retried as an exact match before it is ambiguous.
func Resolve(query string, names []string) (string, error) {
	const op = "selector.Resolve"

	matches := completion.Match(query, names)
	if len(matches) > 1 {
		if exact := completion.Match(query+completion.ExactTerminator, names); len(exact) == 1 {
			matches = exact
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		msg := "No matches"
		if sugg := completion.Suggest(query, names, suggestionLimit); len(sugg) > 0 {
			msg += " (did you mean: " + strings.Join(sugg, ", ") + ")"
		}
		return "", errs.New(errs.NotFound, op, msg)
	}
	return "", errs.New(errs.AmbiguousMatch, op, "Multiple matches: "+strings.Join(matches, ", "))
}

// SelectQuery resolves query, selects and applies the scheme.
func (s *Selector) SelectQuery(ctx context.Context, query string) (catalog.Entry, error) {
	name, err := Resolve(query, s.candidates())
	if err != nil {
		return catalog.Entry{}, err
	}
	if err := s.Center(ctx, name); err != nil {
		return catalog.Entry{}, err
	}
	return s.Current(), nil
}

// SelectRandom shuffles, then applies the new head.
func (s *Selector) SelectRandom(ctx context.Context) (catalog.Entry, error) {
	if err := s.Shuffle(ctx); err != nil {
		return catalog.Entry{}, err
	}
	return s.Current(), nil
}
