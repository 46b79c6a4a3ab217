// Package shell ties the pieces together: it loads the configuration, sets
// up the terminal and the editor, and runs the read-dispatch loop.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"whelk.sh/pkg/edit"
	"whelk.sh/pkg/histutil"
	"whelk.sh/pkg/logutil"
	"whelk.sh/pkg/prog"
	"whelk.sh/pkg/store"
	"whelk.sh/pkg/sys"
	"whelk.sh/pkg/term"
)

var logger = logutil.GetLogger("[shell] ")

// Program is the whole shell, usable with prog.Run.
type Program struct{}

// Run implements prog.Program.
func (Program) Run(fds [3]*os.File, args []string) error {
	if len(args) > 0 {
		return prog.BadUsage("whelk accepts no arguments")
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(fds[2], err)
	}
	if cfg.LogFile != "" {
		if err := logutil.SetOutputFile(cfg.LogFile); err != nil {
			fmt.Fprintln(fds[2], err)
		}
	}

	hist := histutil.NewStore(cfg.HistorySize)
	var db *store.DB
	if cfg.HistoryFile != "" {
		db, err = store.Open(cfg.HistoryFile)
		if err != nil {
			// Degrade to in-memory history.
			fmt.Fprintln(fds[2], "cannot open history file:", err)
			db = nil
		} else {
			defer db.Close()
			seedHistory(hist, db, cfg.HistorySize)
		}
	}

	if sys.IsATTY(fds[0]) {
		return interact(fds, cfg, hist, db)
	}
	return interactMin(fds, hist, db)
}

// interact runs the interactive editor loop. Raw mode is acquired once here
// and held for the rest of the process; it is restored when the shell exits
// through the exit built-in, and deliberately not on the interrupt key.
func interact(fds [3]*os.File, cfg Config, hist *histutil.Store, db *store.DB) error {
	restore, err := term.Setup(fds[0])
	if err != nil {
		return fmt.Errorf("cannot set up terminal: %w", err)
	}
	defer restore()

	rd, err := term.NewReader(fds[0])
	if err != nil {
		return fmt.Errorf("cannot set up terminal reader: %w", err)
	}
	defer rd.Close()

	ed := edit.NewEditor(rd, term.NewWriter(fds[1], cfg.SuggestionRows), hist, prompt())
	ed.NotifyWinch(sys.NotifyWinch())
	ed.SetSize(func() (rows, cols int) { return sys.WinSize(fds[0]) })

	for {
		line, err := ed.ReadLine()
		if err != nil {
			return fmt.Errorf("editor: %w", err)
		}
		if line == "" {
			continue
		}
		persist(db, line)
		if status, exit := dispatch(fds, line, hist); exit {
			return prog.Exit(status)
		}
	}
}

// interactMin runs a minimal line-at-a-time loop for when stdin is not a
// terminal. EOF ends the loop normally.
func interactMin(fds [3]*os.File, hist *histutil.Store, db *store.DB) error {
	rd := bufio.NewReader(fds[0])
	for {
		fmt.Fprint(fds[1], prompt())
		line, err := rd.ReadString('\n')
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			hist.Add(trimmed)
			persist(db, trimmed)
			if status, exit := dispatch(fds, trimmed, hist); exit {
				return prog.Exit(status)
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func seedHistory(hist *histutil.Store, db *store.DB, n int) {
	next, err := db.NextCmdSeq()
	if err != nil {
		logger.Println("cannot read history sequence:", err)
		return
	}
	from := next - n
	if from < 1 {
		from = 1
	}
	cmds, err := db.Cmds(from, next)
	if err != nil {
		logger.Println("cannot read history:", err)
		return
	}
	for _, cmd := range cmds {
		hist.Add(cmd.Text)
	}
}

func persist(db *store.DB, line string) {
	if db == nil {
		return
	}
	if _, err := db.AddCmd(line); err != nil {
		logger.Println("cannot persist history:", err)
	}
}
