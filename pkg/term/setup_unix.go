//go:build unix

package term

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Setup puts the terminal in the mode the editor needs: canonical mode and
// echo off so that keys are delivered one at a time without local echo, ISIG
// off so that the interrupt key arrives as an ordinary key event, and CR
// translated to NL so that Enter reads as '\n'. It returns a function that
// restores the saved terminal attributes.
//
// All fds pointing at the same terminal are equivalent, so the input file is
// used for the attribute calls.
func Setup(in *os.File) (func() error, error) {
	fd := int(in.Fd())
	termios, err := unix.IoctlGetTermios(fd, getAttrIOCTL)
	if err != nil {
		return nil, fmt.Errorf("can't get terminal attribute: %w", err)
	}

	saved := *termios

	termios.Lflag &^= unix.ICANON | unix.ECHO | unix.ISIG
	termios.Iflag |= unix.ICRNL
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, setAttrIOCTL, termios); err != nil {
		return nil, fmt.Errorf("can't set terminal attribute: %w", err)
	}

	restore := func() error {
		return unix.IoctlSetTermios(fd, setAttrIOCTL, &saved)
	}
	return restore, nil
}
