package term

import "whelk.sh/pkg/ui"

// Event represents an event that can be read from the terminal.
type Event interface {
	isEvent()
}

// KeyEvent represents a key press.
type KeyEvent ui.Key

// K constructs a new KeyEvent.
func K(r rune, mods ...ui.Mod) KeyEvent {
	return KeyEvent(ui.K(r, mods...))
}

func (k KeyEvent) String() string { return ui.Key(k).String() }

// Pos is a line/column position on the terminal. Lines and columns are
// 1-based in what the terminal reports.
type Pos struct {
	Line, Col int
}

// MouseEvent represents a mouse event (button press or release). The editor
// does not act on these; they are decoded so that they can be discarded
// cleanly instead of corrupting the input stream.
type MouseEvent struct {
	Pos
	Down   bool
	Button int
	Mod    ui.Mod
}

// CursorPosition is a report of the terminal cursor position, sent in
// response to a position query.
type CursorPosition Pos

// PasteSetting indicates the start (true) or end (false) of a bracketed
// paste.
type PasteSetting bool

func (KeyEvent) isEvent()       {}
func (MouseEvent) isEvent()     {}
func (CursorPosition) isEvent() {}
func (PasteSetting) isEvent()   {}
