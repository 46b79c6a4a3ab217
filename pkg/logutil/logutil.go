// Package logutil provides a registry of per-package loggers.
//
// Loggers are silent by default; they only become active when SetOutput or
// SetOutputFile is called. This lets packages log unconditionally without
// polluting the terminal the editor is drawing on.
package logutil

import (
	"fmt"
	"io"
	"log"
	"os"
)

var (
	out     io.Writer = io.Discard
	outFile *os.File
	loggers []*log.Logger
)

// GetLogger gets a logger with the given prefix. The logger writes to the
// output set by SetOutput or SetOutputFile, which may be changed after the
// logger is created.
func GetLogger(prefix string) *log.Logger {
	logger := log.New(out, prefix, log.LstdFlags)
	loggers = append(loggers, logger)
	return logger
}

// SetOutput redirects the output of all loggers, including those created
// before the call, to the given io.Writer.
func SetOutput(newOut io.Writer) {
	closeOutFile()
	out = newOut
	applyOut()
}

// SetOutputFile redirects the output of all loggers to the named file. An
// empty name silences all loggers.
func SetOutputFile(fname string) error {
	if fname == "" {
		SetOutput(io.Discard)
		return nil
	}
	file, err := os.OpenFile(fname, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}
	closeOutFile()
	outFile = file
	out = file
	applyOut()
	return nil
}

func closeOutFile() {
	if outFile != nil {
		outFile.Close()
		outFile = nil
	}
}

func applyOut() {
	for _, logger := range loggers {
		logger.SetOutput(out)
	}
}
