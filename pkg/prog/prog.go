// Package prog provides the entry frame of the shell binary: it maps the
// error returned by a Program onto an exit status and standard error output.
package prog

import (
	"fmt"
	"os"
)

// Program is the interface implemented by the shell proper.
type Program interface {
	// Run runs the program with the three standard files and the command
	// line arguments (excluding the program name).
	Run(fds [3]*os.File, args []string) error
}

// Run runs a Program and returns the exit status for the process.
func Run(fds [3]*os.File, args []string, p Program) int {
	err := p.Run(fds, args[1:])
	if err == nil {
		return 0
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(fds[2], msg)
	}
	switch err := err.(type) {
	case badUsageError:
		return 2
	case exitError:
		return err.exit
	}
	return 2
}

// BadUsage returns a special error that may be returned by Program.Run,
// causing the process to exit with 2 after printing the message.
func BadUsage(msg string) error { return badUsageError{msg} }

type badUsageError struct{ msg string }

func (e badUsageError) Error() string { return e.msg }

// Exit returns a special error that may be returned by Program.Run, causing
// the process to exit with the given status without printing any message.
// Exit(0) returns nil.
func Exit(exit int) error {
	if exit == 0 {
		return nil
	}
	return exitError{exit}
}

type exitError struct{ exit int }

func (e exitError) Error() string { return "" }
