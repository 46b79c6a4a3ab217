// Package edit implements the interactive line editor: an event loop that
// reads key events, mutates the line buffer, history and suggestion state,
// and repaints the terminal after every event.
package edit

import (
	"os"
	"strings"
	"time"
	"unicode"

	"whelk.sh/pkg/histutil"
	"whelk.sh/pkg/logutil"
	"whelk.sh/pkg/term"
	"whelk.sh/pkg/ui"
)

var logger = logutil.GetLogger("[edit] ")

type state int

const (
	stateEditing state = iota
	stateSubmitted
)

// Editor is the interactive line editor. It is strictly single-threaded:
// ReadLine blocks on one key event at a time and performs all mutation and
// rendering before blocking again, so no state is ever observed mid-update.
type Editor struct {
	reader term.Reader
	writer term.Writer
	prompt string

	store  *histutil.Store
	recall *histutil.Cursor

	// Channel delivering SIGWINCH; drained between key events. May be nil.
	winch <-chan os.Signal

	// Queries the terminal size. Together with the cursor position reports
	// requested from the terminal it gives the writer the geometry to size
	// the suggestion panel. May be nil.
	size func() (rows, cols int)

	// Called on the interrupt key. os.Exit outside of tests.
	exit func(int)

	state state
	buf   buffer
	sugg  suggestions
	// The line that was being composed before history recall started,
	// restored when recall walks past the newest entry.
	preRecall string
}

// NewEditor creates an Editor reading events from rd, painting on w and
// recalling from store.
func NewEditor(rd term.Reader, w term.Writer, store *histutil.Store, prompt string) *Editor {
	return &Editor{
		reader: rd,
		writer: w,
		prompt: prompt,
		store:  store,
		recall: histutil.NewCursor(store),
		exit:   os.Exit,
	}
}

// NotifyWinch gives the editor a channel on which window size changes are
// delivered; on such a change the editor re-issues the last redraw.
func (ed *Editor) NotifyWinch(ch <-chan os.Signal) { ed.winch = ch }

// SetSize gives the editor a way to query the terminal size. When set, the
// editor asks the terminal for the cursor position and feeds both to the
// writer, so that the suggestion panel shrinks to the rows actually below
// the edited line.
func (ed *Editor) SetSize(f func() (rows, cols int)) { ed.size = f }

// ReadLine reads a line from the terminal. It returns the submitted line
// with leading and trailing whitespace trimmed; non-empty lines are added to
// the history store before ReadLine returns.
func (ed *Editor) ReadLine() (string, error) {
	ed.reset()
	ed.redrawLine()
	ed.redrawSuggestions()
	ed.queryGeometry()

	for ed.state == stateEditing {
		ed.handleWinch()
		event, err := ed.reader.ReadEvent()
		if err != nil {
			if err == term.ErrInterrupted {
				ed.winchAfterInterrupt()
				continue
			}
			if term.IsReadErrorRecoverable(err) {
				logger.Println("dropped event:", err)
				continue
			}
			return "", err
		}
		ed.handle(event)
	}

	line := strings.TrimSpace(ed.buf.content)
	if line != "" {
		ed.store.Add(line)
	}
	ed.recall.Reset()
	return line, nil
}

func (ed *Editor) reset() {
	ed.state = stateEditing
	ed.buf = buffer{}
	ed.sugg = suggestions{selected: -1}
	ed.preRecall = ""
}

// handle dispatches one event. Key events go through the keymap, with
// printable unmodified runes falling through to insertion; cursor position
// reports update the panel geometry; mouse and paste events are ignored.
func (ed *Editor) handle(event term.Event) {
	switch event := event.(type) {
	case term.KeyEvent:
		k := ui.Key(event)
		if fn, ok := keymap[k]; ok {
			fn(ed)
			return
		}
		if k.Mod == 0 && k.Rune > 0 && unicode.IsPrint(k.Rune) {
			ed.insert(k.Rune)
		}
	case term.CursorPosition:
		ed.setGeometry(event)
	}
}

// keymap is the fixed key-to-action table. Keys not in the table and not
// printable are ignored.
var keymap = map[ui.Key]func(*Editor){
	ui.K(ui.Backspace): (*Editor).backspace,
	ui.K(ui.Delete):    (*Editor).deleteAtDot,
	ui.K(ui.Left):      (*Editor).left,
	ui.K(ui.Right):     (*Editor).right,
	ui.K(ui.Home):      (*Editor).home,
	ui.K(ui.End):       (*Editor).end,
	ui.K(ui.Up):        (*Editor).recallPrev,
	ui.K(ui.Down):      (*Editor).recallNext,
	ui.K(ui.Tab):       (*Editor).complete,
	ui.K(ui.Enter):     (*Editor).submit,
	ui.K('C', ui.Ctrl): (*Editor).interrupt,
}

func (ed *Editor) insert(r rune) {
	ed.buf.insert(r)
	ed.textChanged()
}

func (ed *Editor) backspace() {
	ed.buf.backspace()
	ed.textChanged()
}

func (ed *Editor) deleteAtDot() {
	ed.buf.deleteAtDot()
	ed.textChanged()
}

// textChanged follows every key that edits the buffer text: the suggestions
// are recomputed for the new prefix and everything is repainted.
func (ed *Editor) textChanged() {
	ed.sugg.refresh(ed.store, ed.buf.content)
	ed.redrawLine()
	ed.redrawSuggestions()
}

func (ed *Editor) left()  { ed.buf.left(); ed.moveCursor() }
func (ed *Editor) right() { ed.buf.right(); ed.moveCursor() }
func (ed *Editor) home()  { ed.buf.home(); ed.moveCursor() }
func (ed *Editor) end()   { ed.buf.end(); ed.moveCursor() }

func (ed *Editor) recallPrev() {
	if !ed.recall.Active() {
		ed.preRecall = ed.buf.content
	}
	line, err := ed.recall.Prev()
	if err != nil {
		return
	}
	ed.buf.replaceAll(line)
	ed.textChanged()
}

func (ed *Editor) recallNext() {
	wasActive := ed.recall.Active()
	line, err := ed.recall.Next()
	if err != nil {
		if wasActive && !ed.recall.Active() {
			// Walked past the newest entry: return to the line that was
			// being composed before recall started.
			ed.buf.replaceAll(ed.preRecall)
			ed.textChanged()
		}
		return
	}
	ed.buf.replaceAll(line)
	ed.textChanged()
}

// complete advances the suggestion selection and adopts the selected
// candidate. It deliberately does not recompute the candidates, so repeated
// presses keep cycling over the candidates for the originally typed prefix.
func (ed *Editor) complete() {
	item, ok := ed.sugg.advance()
	if !ok {
		return
	}
	ed.buf.replaceAll(item)
	ed.redrawLine()
	ed.redrawSuggestions()
}

func (ed *Editor) submit() {
	if err := ed.writer.ClearSuggestions(); err != nil {
		logger.Println("clear suggestions:", err)
	}
	if err := ed.writer.Finish(); err != nil {
		logger.Println("finish line:", err)
	}
	ed.state = stateSubmitted
}

// interrupt ends the process immediately, with no cleanup and without
// restoring the terminal mode. This coarse cancellation is a deliberate
// trade-off.
func (ed *Editor) interrupt() {
	ed.exit(0)
}

// Render errors abort only the repaint at hand; the editor state stays
// intact and the loop continues.

func (ed *Editor) redrawLine() {
	if err := ed.writer.RedrawLine(ed.prompt, ed.buf.content, ed.buf.dot); err != nil {
		logger.Println("redraw line:", err)
	}
}

func (ed *Editor) redrawSuggestions() {
	var err error
	if len(ed.sugg.items) == 0 {
		err = ed.writer.ClearSuggestions()
	} else {
		err = ed.writer.PaintSuggestions(ed.sugg.items, ed.sugg.selected)
	}
	if err != nil {
		logger.Println("redraw suggestions:", err)
	}
}

func (ed *Editor) moveCursor() {
	if err := ed.writer.MoveCursor(ed.prompt, ed.buf.content, ed.buf.dot); err != nil {
		logger.Println("move cursor:", err)
	}
}

// queryGeometry asks the terminal where the cursor is. The reply comes back
// through the reader as a CursorPosition event.
func (ed *Editor) queryGeometry() {
	if ed.size == nil {
		return
	}
	if err := ed.writer.QueryCursor(); err != nil {
		logger.Println("query cursor:", err)
	}
}

// setGeometry feeds a cursor position report and the terminal height to the
// writer and repaints the panel under the new geometry.
func (ed *Editor) setGeometry(pos term.CursorPosition) {
	if ed.size == nil {
		return
	}
	rows, _ := ed.size()
	ed.writer.SetGeometry(pos.Line, rows)
	ed.redrawSuggestions()
}

// handleWinch drains pending window size changes and, if there was any,
// re-issues the last redraw without mutating editor state.
func (ed *Editor) handleWinch() {
	if ed.winch == nil {
		return
	}
	resized := false
	for {
		select {
		case <-ed.winch:
			resized = true
		default:
			if resized {
				ed.resized()
			}
			return
		}
	}
}

// Bounds the wait for the size change signal behind an interrupted read.
const winchDelay = 10 * time.Millisecond

// winchAfterInterrupt runs after a blocking read came back with
// ErrInterrupted. The signal that interrupted the read may not have been
// forwarded onto the channel yet, so wait for it briefly instead of only
// draining on the next loop iteration.
func (ed *Editor) winchAfterInterrupt() {
	if ed.winch == nil {
		return
	}
	select {
	case <-ed.winch:
		ed.resized()
	case <-time.After(winchDelay):
	}
}

func (ed *Editor) resized() {
	ed.redrawLine()
	ed.redrawSuggestions()
	ed.queryGeometry()
}
