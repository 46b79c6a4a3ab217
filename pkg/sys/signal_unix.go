//go:build unix

package sys

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// SIGWINCH is the window size change signal.
const SIGWINCH = unix.SIGWINCH

// NotifyWinch returns a channel on which window size change signals are
// delivered.
func NotifyWinch() chan os.Signal {
	sigCh := make(chan os.Signal, sigsChanBufferSize)
	signal.Notify(sigCh, unix.SIGWINCH)
	return sigCh
}
