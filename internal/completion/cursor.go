package completion

// Direction selects which way Advance steps.
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// Cursor is a position within a fixed list of matches. Pos is -1 until the
// first Advance.
type Cursor struct {
	Matches []string
	Pos     int
}

// NewCursor starts a cursor before the first match.
func NewCursor(matches []string) Cursor {
	return Cursor{Matches: matches, Pos: -1}
}

// Advance steps through the matches without recomputing them, wrapping at both
// ends. It returns the selected name and the new cursor; with no matches it
// returns "" and the cursor unchanged.
func (c Cursor) Advance(dir Direction) (string, Cursor) {
	n := len(c.Matches)
	if n == 0 {
		return "", c
	}
	next := c
	switch {
	case c.Pos < 0 && dir == Backward:
		next.Pos = n - 1
	case c.Pos < 0:
		next.Pos = 0
	default:
		next.Pos = ((c.Pos+int(dir))%n + n) % n
	}
	return next.Matches[next.Pos], next
}

// Selected returns the name under the cursor, if any.
func (c Cursor) Selected() (string, bool) {
	if c.Pos < 0 || c.Pos >= len(c.Matches) {
		return "", false
	}
	return c.Matches[c.Pos], true
}
