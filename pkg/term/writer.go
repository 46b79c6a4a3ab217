package term

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"whelk.sh/pkg/ui"
)

// Writer renders the editor UI: the prompt line being edited and a fixed
// height panel of suggestions below it.
//
// A Writer holds no terminal handle, only an io.Writer; the mapping from
// editor state to control sequences is deterministic, and each method issues
// a single Write on the sink. A failed write aborts that repaint only and is
// reported to the caller.
type Writer interface {
	// RedrawLine clears the current terminal line, writes prompt and content,
	// and leaves the terminal cursor on the column corresponding to dot, a
	// byte offset into content.
	RedrawLine(prompt, content string, dot int) error
	// MoveCursor repositions the terminal cursor on the prompt line for the
	// given dot, without repainting.
	MoveCursor(prompt, content string, dot int) error
	// PaintSuggestions repaints the suggestion panel with the given
	// candidates, highlighting the selected one (-1 for no selection). The
	// terminal cursor is saved before and restored after, so the user's
	// editing position is undisturbed.
	PaintSuggestions(items []string, selected int) error
	// ClearSuggestions blanks the suggestion panel.
	ClearSuggestions() error
	// QueryCursor asks the terminal to report where the cursor is; the reply
	// arrives as a CursorPosition event on the Reader.
	QueryCursor() error
	// SetGeometry records the terminal row the edited line is on and the
	// terminal height. The suggestion panel only uses rows below the edited
	// line; without geometry it assumes there is always room.
	SetGeometry(line, height int)
	// Finish ends the edited line with a newline, after which the terminal
	// cursor is at the start of a fresh line.
	Finish() error
}

// Marker styles for the suggestion panel.
var (
	selectedStyle   = ui.Style{Bold: true, Foreground: ui.ColorCyan}
	unselectedStyle = ui.Style{Dim: true}
)

const (
	selectedMarker   = "▶ "
	unselectedMarker = "▷ "

	hideCursor = "\033[?25l"
	showCursor = "\033[?25h"
	saveCursor = "\0337"
	loadCursor = "\0338"
)

type writer struct {
	out io.Writer
	// Height of the suggestion panel.
	rows int
	// Rows below the edited line, per the last SetGeometry call; -1 when the
	// geometry is unknown.
	avail int
}

// NewWriter returns a Writer that writes VT100 sequences to the given
// io.Writer, with a suggestion panel of the given height.
func NewWriter(out io.Writer, rows int) Writer {
	return &writer{out: out, rows: rows, avail: -1}
}

// CursorCol returns the 0-based terminal column for the given prompt,
// content and dot. Columns are counted in runes; the prompt contributes a
// fixed offset.
func CursorCol(prompt, content string, dot int) int {
	return utf8.RuneCountInString(prompt) + utf8.RuneCountInString(content[:dot])
}

func moveToCol(buf *bytes.Buffer, col int) {
	buf.WriteString("\r")
	if col > 0 {
		fmt.Fprintf(buf, "\033[%dC", col)
	}
}

func (w *writer) RedrawLine(prompt, content string, dot int) error {
	buf := new(bytes.Buffer)
	// Hide the cursor while clearing and repainting to avoid flicker.
	buf.WriteString(hideCursor)
	buf.WriteString("\r\033[K")
	buf.WriteString(prompt)
	buf.WriteString(content)
	moveToCol(buf, CursorCol(prompt, content, dot))
	buf.WriteString(showCursor)
	_, err := w.out.Write(buf.Bytes())
	return err
}

func (w *writer) MoveCursor(prompt, content string, dot int) error {
	buf := new(bytes.Buffer)
	moveToCol(buf, CursorCol(prompt, content, dot))
	_, err := w.out.Write(buf.Bytes())
	return err
}

func (w *writer) QueryCursor() error {
	_, err := io.WriteString(w.out, "\033[6n")
	return err
}

func (w *writer) SetGeometry(line, height int) {
	avail := height - line
	if avail < 0 {
		avail = 0
	}
	w.avail = avail
}

// panelRows is the effective panel height: the configured height, clamped to
// the known number of rows below the edited line.
func (w *writer) panelRows() int {
	if w.avail >= 0 && w.avail < w.rows {
		return w.avail
	}
	return w.rows
}

func (w *writer) PaintSuggestions(items []string, selected int) error {
	rows := w.panelRows()
	if rows == 0 {
		// The edited line is on the bottom row; painting below it would
		// overwrite it.
		return nil
	}
	if len(items) > rows {
		items = items[:rows]
	}
	buf := new(bytes.Buffer)
	buf.WriteString(hideCursor)
	buf.WriteString(saveCursor)
	for i := 0; i < rows; i++ {
		// Cursor down without scrolling, then erase the row. Erasing every
		// row before writing keeps repaints idempotent: no artifacts survive
		// from a previous, longer candidate list.
		buf.WriteString("\033[B\r\033[K")
		if i >= len(items) {
			continue
		}
		style, marker := unselectedStyle, unselectedMarker
		if i == selected {
			style, marker = selectedStyle, selectedMarker
		}
		fmt.Fprintf(buf, "\033[%sm%s%s\033[m", style.SGR(), marker, items[i])
	}
	buf.WriteString(loadCursor)
	buf.WriteString(showCursor)
	_, err := w.out.Write(buf.Bytes())
	return err
}

func (w *writer) ClearSuggestions() error {
	rows := w.panelRows()
	if rows == 0 {
		return nil
	}
	buf := new(bytes.Buffer)
	buf.WriteString(saveCursor)
	for i := 0; i < rows; i++ {
		buf.WriteString("\033[B\r\033[K")
	}
	buf.WriteString(loadCursor)
	_, err := w.out.Write(buf.Bytes())
	return err
}

func (w *writer) Finish() error {
	_, err := io.WriteString(w.out, "\r\n")
	return err
}
