//go:build unix

package sys

import (
	"testing"

	"github.com/creack/pty"
)

func TestWinSize(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("cannot open pty: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	if err := pty.Setsize(ptmx, &pty.Winsize{Rows: 24, Cols: 80}); err != nil {
		t.Fatal(err)
	}
	row, col := WinSize(tty)
	if row != 24 || col != 80 {
		t.Errorf("WinSize -> (%d, %d), want (24, 80)", row, col)
	}
}
