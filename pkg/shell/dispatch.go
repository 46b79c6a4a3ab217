package shell

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"whelk.sh/pkg/histutil"
)

// dispatch tokenizes and runs one submitted line: built-ins are handled in
// process, anything else is spawned as an external command with the standard
// files passed through. It reports whether the shell should exit, and with
// which status.
//
// cd must be a built-in: an external process could only change its own
// working directory, not the shell's.
func dispatch(fds [3]*os.File, line string, hist *histutil.Store) (status int, exit bool) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return 0, false
	}
	name, args := tokens[0], tokens[1:]

	switch name {
	case "cd":
		dir := homeDir()
		if len(args) > 0 {
			dir = resolvePath(args[0])
		}
		if err := os.Chdir(dir); err != nil {
			fmt.Fprintf(fds[2], "Failed to change directory to '%s': %v\n", dir, err)
		}
	case "pwd":
		wd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(fds[2], "Failed to get current directory: %v\n", err)
		} else {
			fmt.Fprintln(fds[1], wd)
		}
	case "exit":
		if len(args) > 0 {
			code, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Fprintln(fds[2], "exit: numeric argument required")
				return 2, true
			}
			return code, true
		}
		return 0, true
	case "history":
		for i, entry := range hist.All() {
			fmt.Fprintf(fds[1], "%4d  %s\n", i+1, entry)
		}
	default:
		cmd := exec.Command(name, args...)
		cmd.Stdin = fds[0]
		cmd.Stdout = fds[1]
		cmd.Stderr = fds[2]
		if err := cmd.Run(); err != nil {
			// A child that ran but exited non-zero is not a dispatch
			// failure; only spawn and wait errors are reported.
			if _, exited := err.(*exec.ExitError); !exited {
				fmt.Fprintf(fds[2], "%s: %v\n", name, err)
			}
		}
	}
	return 0, false
}

// homeDir falls back to the root directory when the home directory cannot be
// determined.
func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home
	}
	return "/"
}

// resolvePath expands a leading ~ to the home directory.
func resolvePath(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return strings.TrimRight(homeDir(), "/") + "/" + path[2:]
	}
	return path
}
