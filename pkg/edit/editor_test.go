package edit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
	"testing"

	"github.com/google/go-cmp/cmp"

	"whelk.sh/pkg/histutil"
	"whelk.sh/pkg/term"
	"whelk.sh/pkg/ui"
)

// fakeReader delivers a fixed sequence of events, then fails with io.EOF.
type fakeReader struct {
	events []term.Event
	// Called at the start of every ReadEvent call.
	onRead func()
}

func (r *fakeReader) ReadEvent() (term.Event, error) {
	if r.onRead != nil {
		r.onRead()
	}
	if len(r.events) == 0 {
		return nil, io.EOF
	}
	ev := r.events[0]
	r.events = r.events[1:]
	return ev, nil
}

func (r *fakeReader) Close() {}

// opWriter records rendering operations instead of painting a terminal, per
// the injectable-sink design of term.Writer.
type opWriter struct {
	ops []string
	err error
}

func (w *opWriter) op(format string, args ...any) error {
	w.ops = append(w.ops, fmt.Sprintf(format, args...))
	return w.err
}

func (w *opWriter) RedrawLine(prompt, content string, dot int) error {
	return w.op("redraw %q %d", content, dot)
}

func (w *opWriter) MoveCursor(prompt, content string, dot int) error {
	return w.op("move %d", dot)
}

func (w *opWriter) PaintSuggestions(items []string, selected int) error {
	return w.op("paint %v %d", items, selected)
}

func (w *opWriter) ClearSuggestions() error { return w.op("clear") }

func (w *opWriter) QueryCursor() error { return w.op("query") }

func (w *opWriter) SetGeometry(line, height int) { w.op("geometry %d %d", line, height) }

func (w *opWriter) Finish() error { return w.op("finish") }

func keys(s string) []term.Event {
	var events []term.Event
	for _, r := range s {
		events = append(events, term.K(r))
	}
	return events
}

func setup(store *histutil.Store, events ...term.Event) (*Editor, *opWriter) {
	if store == nil {
		store = histutil.NewStore(0)
	}
	w := &opWriter{}
	ed := NewEditor(&fakeReader{events: events}, w, store, "host> ")
	return ed, w
}

func TestReadLine_SubmitsTypedText(t *testing.T) {
	store := histutil.NewStore(0)
	ed, _ := setup(store, append(keys("ex"), term.K(ui.Enter))...)
	line, err := ed.ReadLine()
	if line != "ex" || err != nil {
		t.Fatalf("ReadLine -> (%q, %v), want (%q, nil)", line, err, "ex")
	}
	if diff := cmp.Diff([]string{"ex"}, store.All()); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
}

func TestReadLine_TrimsOnlyAtSubmit(t *testing.T) {
	ed, w := setup(nil, append(keys("  ls "), term.K(ui.Enter))...)
	line, err := ed.ReadLine()
	if line != "ls" || err != nil {
		t.Fatalf("ReadLine -> (%q, %v), want (%q, nil)", line, err, "ls")
	}
	// The whitespace was present while editing.
	wantOp := `redraw "  ls " 5`
	found := false
	for _, op := range w.ops {
		if op == wantOp {
			found = true
		}
	}
	if !found {
		t.Errorf("ops do not contain %q:\n%v", wantOp, w.ops)
	}
}

func TestReadLine_EmptySubmissionNotRecorded(t *testing.T) {
	store := histutil.NewStore(0)
	ed, _ := setup(store, term.K(' '), term.K(ui.Enter))
	line, err := ed.ReadLine()
	if line != "" || err != nil {
		t.Fatalf("ReadLine -> (%q, %v), want (%q, nil)", line, err, "")
	}
	if store.Len() != 0 {
		t.Errorf("empty submission was added to history")
	}
}

func TestReadLine_EditingKeys(t *testing.T) {
	// "ls", Left, Backspace leaves "s" with the dot at 0; Delete then
	// empties the buffer.
	events := append(keys("ls"),
		term.K(ui.Left), term.K(ui.Backspace), term.K(ui.Delete),
		term.K(ui.Enter))
	ed, _ := setup(nil, events...)
	line, err := ed.ReadLine()
	if line != "" || err != nil {
		t.Fatalf("ReadLine -> (%q, %v), want (%q, nil)", line, err, "")
	}
}

func TestReadLine_RecallAndRestore(t *testing.T) {
	store := histutil.NewStore(0)
	store.Add("c1")
	store.Add("c2")
	events := append(keys("a"),
		term.K(ui.Up),   // recalls c2
		term.K(ui.Up),   // recalls c1
		term.K(ui.Down), // back to c2
		term.K(ui.Down), // past the newest: restores "a"
		term.K(ui.Enter))
	ed, _ := setup(store, events...)
	line, err := ed.ReadLine()
	if line != "a" || err != nil {
		t.Fatalf("ReadLine -> (%q, %v), want (%q, nil)", line, err, "a")
	}
}

func TestReadLine_RecallSubmitsEntry(t *testing.T) {
	store := histutil.NewStore(0)
	store.Add("c1")
	store.Add("c2")
	ed, _ := setup(store, term.K(ui.Up), term.K(ui.Up), term.K(ui.Enter))
	line, err := ed.ReadLine()
	if line != "c1" || err != nil {
		t.Fatalf("ReadLine -> (%q, %v), want (%q, nil)", line, err, "c1")
	}
}

func TestReadLine_CompletionCyclesThroughCandidates(t *testing.T) {
	store := histutil.NewStore(0)
	store.Add("git status")
	store.Add("git commit")
	store.Add("ls")
	// Three Tab presses cycle through both candidates and wrap around.
	events := append(keys("gi"),
		term.K(ui.Tab), term.K(ui.Tab), term.K(ui.Tab),
		term.K(ui.Enter))
	ed, w := setup(store, events...)
	line, err := ed.ReadLine()
	if line != "git commit" || err != nil {
		t.Fatalf("ReadLine -> (%q, %v), want (%q, nil)", line, err, "git commit")
	}
	// The selection visibly walked 0, 1, 0 over the unchanged candidates.
	var paints []string
	for _, op := range w.ops {
		if op == `paint [git commit git status] 0` || op == `paint [git commit git status] 1` {
			paints = append(paints, op)
		}
	}
	want := []string{
		`paint [git commit git status] 0`,
		`paint [git commit git status] 1`,
		`paint [git commit git status] 0`,
	}
	if diff := cmp.Diff(want, paints); diff != "" {
		t.Errorf("paint ops (-want +got):\n%s", diff)
	}
}

func TestReadLine_CompletionWithNoCandidates(t *testing.T) {
	ed, _ := setup(nil, term.K('x'), term.K(ui.Tab), term.K(ui.Enter))
	line, err := ed.ReadLine()
	if line != "x" || err != nil {
		t.Fatalf("ReadLine -> (%q, %v), want (%q, nil)", line, err, "x")
	}
}

func TestReadLine_IgnoresNonKeyEvents(t *testing.T) {
	events := []term.Event{
		term.MouseEvent{Pos: term.Pos{Line: 1, Col: 1}, Down: true, Button: 0},
		term.PasteSetting(true),
		term.CursorPosition{Line: 1, Col: 1},
		term.K(ui.F1),
		term.K(ui.Enter),
	}
	ed, _ := setup(nil, events...)
	line, err := ed.ReadLine()
	if line != "" || err != nil {
		t.Fatalf("ReadLine -> (%q, %v), want (%q, nil)", line, err, "")
	}
}

func TestReadLine_ResizeRedrawsWithoutStateChange(t *testing.T) {
	ch := make(chan os.Signal, 1)
	rd := &fakeReader{events: append(keys("ab"), term.K(ui.Enter))}
	reads := 0
	rd.onRead = func() {
		reads++
		if reads == 2 {
			// Arrives while the second key is being read, so it is drained
			// before the third.
			ch <- syscall.SIGWINCH
		}
	}
	w := &opWriter{}
	ed := NewEditor(rd, w, histutil.NewStore(0), "host> ")
	ed.NotifyWinch(ch)

	line, err := ed.ReadLine()
	if line != "ab" || err != nil {
		t.Fatalf("ReadLine -> (%q, %v), want (%q, nil)", line, err, "ab")
	}
	// The resize re-issues the last redraw verbatim, with the buffer intact.
	want := []string{
		`redraw "" 0`, "clear",
		`redraw "a" 1`, "clear",
		`redraw "ab" 2`, "clear",
		`redraw "ab" 2`, "clear",
		"clear", "finish",
	}
	if diff := cmp.Diff(want, w.ops); diff != "" {
		t.Errorf("ops (-want +got):\n%s", diff)
	}
}

// interruptingReader fails the first read the way a signal-interrupted
// blocking read does, delivering the signal just before returning.
type interruptingReader struct {
	ch   chan<- os.Signal
	sent bool
	rest []term.Event
}

func (r *interruptingReader) ReadEvent() (term.Event, error) {
	if !r.sent {
		r.sent = true
		r.ch <- syscall.SIGWINCH
		return nil, term.ErrInterrupted
	}
	if len(r.rest) == 0 {
		return nil, io.EOF
	}
	ev := r.rest[0]
	r.rest = r.rest[1:]
	return ev, nil
}

func (r *interruptingReader) Close() {}

func TestReadLine_InterruptedReadWaitsForResize(t *testing.T) {
	ch := make(chan os.Signal, 1)
	rd := &interruptingReader{ch: ch, rest: append(keys("h"), term.K(ui.Enter))}
	w := &opWriter{}
	ed := NewEditor(rd, w, histutil.NewStore(0), "host> ")
	ed.NotifyWinch(ch)

	line, err := ed.ReadLine()
	if line != "h" || err != nil {
		t.Fatalf("ReadLine -> (%q, %v), want (%q, nil)", line, err, "h")
	}
	// The redraw happens right after the interrupted read, not only once the
	// next key arrives.
	want := []string{
		`redraw "" 0`, "clear",
		`redraw "" 0`, "clear",
		`redraw "h" 1`, "clear",
		"clear", "finish",
	}
	if diff := cmp.Diff(want, w.ops); diff != "" {
		t.Errorf("ops (-want +got):\n%s", diff)
	}
}

func TestReadLine_CursorReportSizesPanel(t *testing.T) {
	store := histutil.NewStore(0)
	store.Add("git status")
	events := []term.Event{term.CursorPosition{Line: 23, Col: 1}, term.K(ui.Enter)}
	ed, w := setup(store, events...)
	ed.SetSize(func() (int, int) { return 24, 80 })

	if _, err := ed.ReadLine(); err != nil {
		t.Fatal(err)
	}
	want := []string{
		`redraw "" 0`, "clear", "query",
		"geometry 23 24", "clear",
		"clear", "finish",
	}
	if diff := cmp.Diff(want, w.ops); diff != "" {
		t.Errorf("ops (-want +got):\n%s", diff)
	}
}

var errExited = errors.New("exited")

func TestReadLine_InterruptStopsProcessing(t *testing.T) {
	exited := false
	events := append(keys("a"), term.K('C', ui.Ctrl), term.K('b'), term.K(ui.Enter))
	ed, _ := setup(nil, events...)
	ed.exit = func(code int) {
		if code != 0 {
			t.Errorf("exit code = %d, want 0", code)
		}
		exited = true
		// The real implementation never returns from exit.
		panic(errExited)
	}
	defer func() {
		if r := recover(); r != errExited {
			t.Fatalf("recovered %v, want errExited", r)
		}
		if !exited {
			t.Errorf("interrupt did not exit")
		}
		if ed.buf.content != "a" {
			t.Errorf("events were processed after the interrupt: %q", ed.buf.content)
		}
	}()
	ed.ReadLine()
}

func TestReadLine_RenderErrorsAreFailSoft(t *testing.T) {
	store := histutil.NewStore(0)
	w := &opWriter{err: errors.New("tty gone")}
	ed := NewEditor(&fakeReader{events: append(keys("ok"), term.K(ui.Enter))}, w, store, "> ")
	line, err := ed.ReadLine()
	if line != "ok" || err != nil {
		t.Fatalf("ReadLine -> (%q, %v), want (%q, nil)", line, err, "ok")
	}
}

func TestReadLine_FinalOpsClearPanel(t *testing.T) {
	ed, w := setup(nil, append(keys("e"), term.K(ui.Enter))...)
	ed.ReadLine()
	n := len(w.ops)
	if n < 2 || w.ops[n-2] != "clear" || w.ops[n-1] != "finish" {
		t.Errorf("final ops = %v, want ... clear, finish", w.ops)
	}
}
