// Command scm-record-demo exercises the record engine directly against a
// unified diff on stdin (or a fixed built-in sample with no input), for
// manual interactive testing of the library without a host SCM in the
// loop (spec.md section 6, "library, primarily embedded").
package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"scm-record/internal/config"
	"scm-record/internal/diffbuild"
	"scm-record/internal/errkind"
	"scm-record/internal/reconstruct"
	"scm-record/internal/record"
	"scm-record/internal/tui"
)

const sampleDiff = `diff --git a/greeting.txt b/greeting.txt
index 1111111..2222222 100644
--- a/greeting.txt
+++ b/greeting.txt
@@ -1,3 +1,3 @@
 Hello,
-World!
+scm-record!
 Goodbye.
`

func main() {
	os.Exit(run())
}

func run() int {
	raw, err := readInput()
	if err != nil {
		fmt.Fprintln(os.Stderr, errkind.New(errkind.ModelConstruction, "", err))
		return 1
	}

	cs, err := diffbuild.FromUnifiedDiff(raw)
	if err != nil {
		fmt.Fprintln(os.Stderr, errkind.New(errkind.ModelConstruction, "", err))
		return 1
	}

	model := tui.New(cs, tui.ModeRecord, false, config.UseUnicode())
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := program.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, errkind.New(errkind.Terminal, "", err))
		return 1
	}

	outcome := finalModel.(tui.Model).Outcome()
	switch outcome.Kind {
	case tui.Accepted:
		fmt.Println("accepted the following selection:")
		for _, result := range reconstructSummary(outcome.ChangeSet) {
			fmt.Println(result)
		}
		return 0
	case tui.Discarded:
		fmt.Println("discarded")
		return 1
	default:
		fmt.Fprintln(os.Stderr, errkind.New(errkind.Terminal, "", outcome.Err))
		return 1
	}
}

func reconstructSummary(cs *record.ChangeSet) []string {
	var out []string
	for _, result := range reconstruct.ChangeSet(cs) {
		switch result.Selected.Kind {
		case reconstruct.Present:
			out = append(out, fmt.Sprintf("%s:\n%s", result.Path, result.Selected.Text))
		case reconstruct.Absent:
			out = append(out, fmt.Sprintf("%s: (deleted)", result.Path))
		case reconstruct.Binary:
			out = append(out, fmt.Sprintf("%s: (binary)", result.Path))
		case reconstruct.Unchanged:
			out = append(out, fmt.Sprintf("%s: (unchanged)", result.Path))
		}
	}
	return out
}

func readInput() ([]byte, error) {
	stat, err := os.Stdin.Stat()
	if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
		return []byte(sampleDiff), nil
	}
	return io.ReadAll(os.Stdin)
}
