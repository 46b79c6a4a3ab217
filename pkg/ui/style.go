// Package ui contains types for representing keyboard input and terminal
// styling.
package ui

import (
	"strconv"
	"strings"
)

// Style specifies how a piece of text shall be displayed.
type Style struct {
	Foreground Color
	Bold       bool
	Dim        bool
	Inverse    bool
}

// Color is an ANSI foreground color.
type Color int

// Standard ANSI colors. ColorDefault leaves the terminal's default in place.
const (
	ColorDefault Color = 0
	ColorBlack   Color = 30 + iota - 1
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
)

// SGR returns the SGR parameter string for the style, without the
// surrounding "\033[" and "m". An empty string means "reset to plain".
func (s Style) SGR() string {
	var sgr []string
	if s.Bold {
		sgr = append(sgr, "1")
	}
	if s.Dim {
		sgr = append(sgr, "2")
	}
	if s.Inverse {
		sgr = append(sgr, "7")
	}
	if s.Foreground != ColorDefault {
		sgr = append(sgr, strconv.Itoa(int(s.Foreground)))
	}
	return strings.Join(sgr, ";")
}
