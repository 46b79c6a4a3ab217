// Package sys provides thin wrappers around the system facilities the shell
// needs: terminal detection, window size queries and signal delivery.
package sys

import (
	"os"

	"github.com/mattn/go-isatty"
)

const sigsChanBufferSize = 256

// IsATTY determines whether the given file is a terminal.
func IsATTY(file *os.File) bool {
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// WinSize queries the size of the terminal referenced by the given file.
func WinSize(file *os.File) (row, col int) { return winSize(file) }
