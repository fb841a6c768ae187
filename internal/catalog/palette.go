package catalog

import (
	"fmt"
	"math"
	"os"
	"strings"

	"howett.net/plist"

	"github.com/oakwood-commons/iterminator/internal/errs"
)

// RGB is a color with components in [0,1].
type RGB struct {
	R, G, B float64
}

// Hex renders the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int {
	return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// Palette is the subset of an iTerm2 scheme a terminal can be recolored with.
// Missing colors are nil.
type Palette struct {
	Background *RGB
	Foreground *RGB
	Cursor     *RGB
	ANSI       [16]*RGB
}

// ReadPalette parses the iTerm2 property list at path.
func ReadPalette(path string) (Palette, error) {
	const op = "catalog.ReadPalette"

	data, err := os.ReadFile(path)
	if err != nil {
		return Palette{}, errs.Wrap(errs.Classification, op, "read "+path, err)
	}
	var raw map[string]any
	if _, err := plist.Unmarshal(data, &raw); err != nil {
		return Palette{}, errs.Wrap(errs.Classification, op, "parse "+path, err)
	}

	var p Palette
	p.Background = colorAt(raw, "Background Color")
	p.Foreground = colorAt(raw, "Foreground Color")
	p.Cursor = colorAt(raw, "Cursor Color")
	for i := range p.ANSI {
		p.ANSI[i] = colorAt(raw, fmt.Sprintf("Ansi %d Color", i))
	}
	return p, nil
}

// colorAt returns the color dictionary under key, or nil unless all three
// components are present.
func colorAt(raw map[string]any, key string) *RGB {
	dict, ok := raw[key].(map[string]any)
	if !ok {
		return nil
	}
	r, okR := component(dict, "Red Component")
	g, okG := component(dict, "Green Component")
	b, okB := component(dict, "Blue Component")
	if !okR || !okG || !okB {
		return nil
	}
	return &RGB{R: r, G: g, B: b}
}

func component(dict map[string]any, key string) (float64, bool) {
	switch v := dict[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// OSC renders xterm control sequences that recolor a running terminal:
// OSC 4 for the ANSI colors, OSC 10/11/12 for foreground, background and
// cursor.
func (p Palette) OSC() string {
	var b strings.Builder
	for i, c := range p.ANSI {
		if c != nil {
			fmt.Fprintf(&b, "\x1b]4;%d;%s\a", i, c.Hex())
		}
	}
	for _, dyn := range []struct {
		code int
		c    *RGB
	}{{10, p.Foreground}, {11, p.Background}, {12, p.Cursor}} {
		if dyn.c != nil {
			fmt.Fprintf(&b, "\x1b]%d;%s\a", dyn.code, dyn.c.Hex())
		}
	}
	return b.String()
}
