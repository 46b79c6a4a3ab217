//go:build unix

package term

import (
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"whelk.sh/pkg/sys"
)

// A helper for reading single bytes from a file, with an optional timeout.
type byteReaderWithTimeout interface {
	// ReadByteWithTimeout reads a single byte. A negative timeout means
	// blocking indefinitely.
	ReadByteWithTimeout(timeout time.Duration) (byte, error)
}

type fileReader interface {
	byteReaderWithTimeout
	// Stop aborts any outstanding read call.
	Stop() error
	// Close releases resources allocated for the fileReader. It does not
	// close the underlying file.
	Close()
}

func newFileReader(file *os.File) (fileReader, error) {
	rStop, wStop, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &bReader{file: file, rStop: rStop, wStop: wStop}, nil
}

type bReader struct {
	file  *os.File
	rStop *os.File
	wStop *os.File
}

func (r *bReader) ReadByteWithTimeout(timeout time.Duration) (byte, error) {
	for {
		ready, err := sys.WaitForRead(timeout, r.file, r.rStop)
		if err != nil {
			if err == unix.EINTR {
				if timeout >= 0 {
					// Mid-sequence; the rest of the sequence is still
					// coming, so just wait for it again.
					continue
				}
				// Blocked between events. Surface the interruption so that
				// the caller can service pending signals (notably SIGWINCH)
				// before blocking again.
				return 0, ErrInterrupted
			}
			return 0, err
		}
		if ready[1] {
			var b [1]byte
			r.rStop.Read(b[:])
			return 0, ErrStopped
		}
		if !ready[0] {
			return 0, errTimeout
		}
		var b [1]byte
		nr, err := r.file.Read(b[:])
		if err != nil {
			return 0, err
		}
		if nr != 1 {
			return 0, io.ErrNoProgress
		}
		return b[0], nil
	}
}

func (r *bReader) Stop() error {
	_, err := r.wStop.Write([]byte{'q'})
	return err
}

func (r *bReader) Close() {
	r.rStop.Close()
	r.wStop.Close()
}
