// Package term provides the terminal-facing halves of the editor: raw mode
// setup, an escape-sequence decoder producing key events, and a renderer
// that paints the prompt line and the suggestion panel.
package term

import (
	"errors"
	"fmt"
	"os"
)

// Reader reads events from the terminal.
type Reader interface {
	// ReadEvent reads a single event from the terminal. It blocks until an
	// event is available or an error occurs.
	ReadEvent() (Event, error)
	// Close releases resources associated with the Reader. It does not close
	// the underlying file.
	Close()
}

// ErrStopped is returned by Reader when Close is called during an
// outstanding ReadEvent call.
var ErrStopped = errors.New("stopped")

// ErrInterrupted is returned by Reader when a blocking read was interrupted
// by signal delivery. The caller should service pending signals and read
// again.
var ErrInterrupted = errors.New("interrupted by signal")

var errTimeout = errors.New("timed out")

// seqError is the error returned when a malformed escape sequence is read.
type seqError struct {
	msg string
	seq string
}

func (err seqError) Error() string {
	return fmt.Sprintf("%s: %q", err.msg, err.seq)
}

// NewReader creates a new Reader on the given terminal file.
func NewReader(f *os.File) (Reader, error) {
	return newReader(f)
}

// IsReadErrorRecoverable returns whether an error returned by Reader should
// be treated as transient: the current event is lost, but reading can
// continue.
func IsReadErrorRecoverable(err error) bool {
	if _, ok := err.(seqError); ok {
		return true
	}
	return err == ErrStopped || err == ErrInterrupted || err == errTimeout
}
