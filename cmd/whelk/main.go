// Command whelk is an interactive Unix shell with a hand-rolled line editor:
// history recall, prefix completion and a live suggestion panel.
package main

import (
	"os"

	"whelk.sh/pkg/prog"
	"whelk.sh/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args, shell.Program{}))
}
