//go:build unix

package edit_test

import (
	"testing"
	"time"

	"github.com/creack/pty"

	"whelk.sh/pkg/edit"
	"whelk.sh/pkg/histutil"
	"whelk.sh/pkg/must"
	"whelk.sh/pkg/term"
)

// Drives the real reader, writer and raw-mode setup through a pty.
func TestEditor_EndToEndOverPty(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("cannot open pty: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	restore := must.OK1(term.Setup(tty))
	defer restore()

	rd := must.OK1(term.NewReader(tty))
	defer rd.Close()

	store := histutil.NewStore(0)
	ed := edit.NewEditor(rd, term.NewWriter(tty, 5), store, "> ")

	go func() {
		// Give ReadLine a moment to paint the initial prompt.
		time.Sleep(10 * time.Millisecond)
		ptmx.WriteString("ex\r")
	}()

	line, err := ed.ReadLine()
	if line != "ex" || err != nil {
		t.Fatalf("ReadLine -> (%q, %v), want (%q, nil)", line, err, "ex")
	}
	if store.Len() != 1 {
		t.Errorf("history has %d entries, want 1", store.Len())
	}
}
