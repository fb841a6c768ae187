package selector

import "github.com/oakwood-commons/iterminator/internal/terminal"

// Action is what a keypress asks for while idle.
type Action int

const (
	ActionQuit Action = iota
	ActionNext
	ActionPrev
	ActionPause
	ActionJumpName
	ActionJumpIndex
	ActionComplete
	ActionShuffle
	ActionCopy
)

var actionNames = map[Action]string{
	ActionQuit:      "quit",
	ActionNext:      "next",
	ActionPrev:      "prev",
	ActionPause:     "pause",
	ActionJumpName:  "jump-name",
	ActionJumpIndex: "jump-index",
	ActionComplete:  "complete",
	ActionShuffle:   "shuffle",
	ActionCopy:      "copy",
}

func (a Action) String() string {
	return actionNames[a]
}

// runeBindings maps printable keys to actions.
var runeBindings = map[rune]Action{
	' ': ActionPause,
	'j': ActionNext,
	'n': ActionNext,
	'k': ActionPrev,
	'p': ActionPrev,
	'q': ActionQuit,
	'/': ActionJumpName,
	':': ActionJumpIndex,
	's': ActionShuffle,
	'y': ActionCopy,
}

// keyBindings maps special keys to actions.
var keyBindings = map[terminal.KeyKind]Action{
	terminal.KeyRight: ActionNext,
	terminal.KeyDown:  ActionNext,
	terminal.KeyLeft:  ActionPrev,
	terminal.KeyUp:    ActionPrev,
	terminal.KeyEnter: ActionQuit,
	terminal.KeyCtrlC: ActionQuit,
	terminal.KeyTab:   ActionComplete,
}

// Classify maps a keypress to its action. Keys outside the binding table
// quit, like the explicit quit keys.
func Classify(k terminal.Key) Action {
	if k.Kind == terminal.KeyRune {
		if a, ok := runeBindings[k.Rune]; ok {
			return a
		}
		return ActionQuit
	}
	if a, ok := keyBindings[k.Kind]; ok {
		return a
	}
	return ActionQuit
}

// UsageBanner is shown at start and after a failed jump.
const UsageBanner = "Use left/right or j/k or n/p to select color schemes, / to search, : to jump, space to pause, q to quit"
