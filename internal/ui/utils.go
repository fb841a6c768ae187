package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// blankOfWidth returns spaces covering width display columns.
func blankOfWidth(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat(" ", width)
}

// displayWidth is the terminal column width of s.
func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// truncate shortens s to width columns, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 || displayWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
