package terminal

import (
	"bufio"
	"fmt"
	"io"
)

// KeyKind classifies a decoded keypress.
type KeyKind int

const (
	KeyUnknown KeyKind = iota
	KeyRune
	KeyEnter
	KeyTab
	KeyBackTab
	KeyBackspace
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlC
	KeyCtrlU
)

const esc = 0x1b

// Key is one keypress: a single character or a recognized escape sequence.
type Key struct {
	Kind KeyKind
	Rune rune   // set for KeyRune
	Seq  string // raw bytes of escape sequences and unknown keys
}

func (k Key) String() string {
	switch k.Kind {
	case KeyRune:
		return string(k.Rune)
	case KeyEnter:
		return "<Enter>"
	case KeyTab:
		return "<Tab>"
	case KeyBackTab:
		return "<S-Tab>"
	case KeyBackspace:
		return "<BS>"
	case KeyEscape:
		return "<Esc>"
	case KeyUp:
		return "<Up>"
	case KeyDown:
		return "<Down>"
	case KeyLeft:
		return "<Left>"
	case KeyRight:
		return "<Right>"
	case KeyCtrlC:
		return "<C-c>"
	case KeyCtrlU:
		return "<C-u>"
	}
	return fmt.Sprintf("<%q>", k.Seq)
}

// Decoder reads keypresses from a raw-mode input stream.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder wraps r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// ReadKey blocks until one keypress is available. An escape byte with nothing
// buffered behind it is a lone Escape; otherwise the rest of the CSI/SS3
// sequence is consumed.
func (d *Decoder) ReadKey() (Key, error) {
	r, _, err := d.r.ReadRune()
	if err != nil {
		return Key{}, err
	}
	switch r {
	case '\r', '\n':
		return Key{Kind: KeyEnter}, nil
	case '\t':
		return Key{Kind: KeyTab}, nil
	case 0x7f, 0x08:
		return Key{Kind: KeyBackspace}, nil
	case 0x03:
		return Key{Kind: KeyCtrlC}, nil
	case 0x15:
		return Key{Kind: KeyCtrlU}, nil
	case esc:
		return d.readEscape()
	}
	if r < 0x20 {
		return Key{Kind: KeyUnknown, Seq: string(r)}, nil
	}
	return Key{Kind: KeyRune, Rune: r}, nil
}

func (d *Decoder) readEscape() (Key, error) {
	if d.r.Buffered() == 0 {
		return Key{Kind: KeyEscape, Seq: "\x1b"}, nil
	}
	intro, err := d.r.ReadByte()
	if err != nil {
		return Key{Kind: KeyEscape, Seq: "\x1b"}, nil
	}
	seq := []byte{esc, intro}
	if intro != '[' && intro != 'O' {
		return Key{Kind: KeyUnknown, Seq: string(seq)}, nil
	}
	// parameters and intermediates until a final byte in 0x40-0x7e
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return Key{Kind: KeyUnknown, Seq: string(seq)}, nil
		}
		seq = append(seq, b)
		if b >= 0x40 && b <= 0x7e {
			break
		}
	}
	return Key{Kind: sequenceKinds[string(seq)], Seq: string(seq)}, nil
}

var sequenceKinds = map[string]KeyKind{
	"\x1b[A": KeyUp,
	"\x1b[B": KeyDown,
	"\x1b[C": KeyRight,
	"\x1b[D": KeyLeft,
	"\x1bOA": KeyUp,
	"\x1bOB": KeyDown,
	"\x1bOC": KeyRight,
	"\x1bOD": KeyLeft,
	"\x1b[Z": KeyBackTab,
}
