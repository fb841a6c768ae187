// Package ui renders the picker's single status line and help banner.
package ui

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
)

// Theme holds the colors used on the status line.
type Theme struct {
	Scheme color.Color // current scheme name
	Banner color.Color // help banner and prompts
	Error  color.Color // transient errors
	Muted  color.Color // suggestions, paused marker
}

// ThemeColors is the configurable form of Theme; values are lipgloss color
// tokens (ANSI numbers or #rrggbb).
type ThemeColors struct {
	Scheme string `yaml:"scheme"`
	Banner string `yaml:"banner"`
	Error  string `yaml:"error"`
	Muted  string `yaml:"muted"`
}

// DefaultTheme returns the built-in palette.
func DefaultTheme() Theme {
	return Theme{
		Scheme: lipgloss.Color("81"),
		Banner: lipgloss.Color("246"),
		Error:  lipgloss.Color("203"),
		Muted:  lipgloss.Color("244"),
	}
}

// ThemeFromColors overlays the non-empty tokens in c on the default theme.
func ThemeFromColors(c ThemeColors) Theme {
	th := DefaultTheme()
	set := func(dst *color.Color, token string) {
		if token = strings.TrimSpace(token); token != "" {
			*dst = lipgloss.Color(token)
		}
	}
	set(&th.Scheme, c.Scheme)
	set(&th.Banner, c.Banner)
	set(&th.Error, c.Error)
	set(&th.Muted, c.Muted)
	return th
}
