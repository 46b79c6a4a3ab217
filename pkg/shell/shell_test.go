package shell

import (
	"io"
	"os"
	"strings"
	"testing"

	"whelk.sh/pkg/histutil"
	"whelk.sh/pkg/must"
)

func runMin(t *testing.T, input string) (stdout string, err error) {
	t.Helper()
	rIn, wIn := must.Pipe()
	rOut, wOut := must.Pipe()
	go func() {
		wIn.WriteString(input)
		wIn.Close()
	}()
	hist := histutil.NewStore(0)
	err = interactMin([3]*os.File{rIn, wOut, wOut}, hist, nil)
	wOut.Close()
	stdout = string(must.OK1(io.ReadAll(rOut)))
	rIn.Close()
	rOut.Close()
	return stdout, err
}

func TestInteractMin_RunsUntilExit(t *testing.T) {
	stdout, err := runMin(t, "pwd\nexit\n")
	if err != nil {
		t.Fatal(err)
	}
	wd := must.OK1(os.Getwd())
	if !strings.Contains(stdout, wd) {
		t.Errorf("output %q does not contain the working directory", stdout)
	}
	// One prompt per cycle.
	if strings.Count(stdout, "> ") < 2 {
		t.Errorf("output %q is missing prompts", stdout)
	}
}

func TestInteractMin_ExitStatusPropagates(t *testing.T) {
	_, err := runMin(t, "exit 3\n")
	if err == nil {
		t.Fatal("exit 3 returned nil, want a status-carrying error")
	}
	// The error carries the status, not a message to print.
	if err.Error() != "" {
		t.Errorf("exit error has message %q, want empty", err.Error())
	}
}

func TestInteractMin_EOFEndsLoop(t *testing.T) {
	_, err := runMin(t, "pwd\n")
	if err != nil {
		t.Errorf("EOF ended the loop with %v, want nil", err)
	}
}

func TestInteractMin_EmptyLinesArePromptedAgain(t *testing.T) {
	stdout, err := runMin(t, "\n   \nexit\n")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(stdout, "> ") < 3 {
		t.Errorf("output %q is missing prompts for empty submissions", stdout)
	}
}

func TestProgram_RejectsArguments(t *testing.T) {
	err := Program{}.Run([3]*os.File{os.Stdin, os.Stdout, os.Stderr}, []string{"script.sh"})
	if err == nil {
		t.Errorf("Run with arguments succeeds, want usage error")
	}
}
