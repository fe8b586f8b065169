// Command scm-diff-editor is a two-pane diff editor meant to be invoked as
// a git difftool, Mercurial extdiff, or Jujutsu ui.diff-editor backend
// (spec.md section 6): scm-diff-editor LEFT RIGHT [flags]. The selected
// side of the edited tree is written back to RIGHT. The exit code is 0
// when the user accepted (and every write succeeded) or discarded, 1 when
// the session or a write failed, and 2 for a usage error.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"scm-record/internal/config"
	"scm-record/internal/diffbuild"
	"scm-record/internal/errkind"
	"scm-record/internal/fsys"
	"scm-record/internal/input"
	"scm-record/internal/reconstruct"
	"scm-record/internal/record"
	"scm-record/internal/tui"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("scm-diff-editor", flag.ContinueOnError)
	readOnly := fs.Bool("read-only", false, "disable all editing; view the diff only")
	dryRun := fs.Bool("dry-run", false, "print what would be written instead of writing it")
	colorFlag := fs.String("color", "auto", "color mode: auto, always, or never")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: scm-diff-editor [flags] LEFT RIGHT")
		return exitUsage(errkind.New(errkind.Usage, "", fmt.Errorf("expected exactly 2 positional arguments, got %d", fs.NArg())))
	}
	left, right := fs.Arg(0), fs.Arg(1)

	colorMode, ok := config.ParseColorMode(*colorFlag)
	if !ok {
		return exitUsage(errkind.New(errkind.Usage, "", fmt.Errorf("invalid --color value %q", *colorFlag)))
	}
	// lipgloss.NewStyle() everywhere in internal/tui and internal/layout
	// renders through this same process-wide default renderer, so setting
	// its profile here is enough to make --color take effect without
	// threading a *lipgloss.Renderer through every style call site.
	if config.ResolveColor(colorMode, os.Stdout) {
		lipgloss.SetColorProfile(termenv.ANSI256)
	} else {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	filesystem := fsys.RealFilesystem{}
	cs, err := diffbuild.FromTrees(filesystem, left, right)
	if err != nil {
		return exitErr(errkind.New(errkind.ModelConstruction, left, err))
	}
	cs.IsReadOnly = *readOnly

	mode := tui.ModeRecord
	if *readOnly {
		mode = tui.ModeDiffViewOnly
	}
	model := tui.New(cs, mode, *readOnly, config.UseUnicode())
	if userCfg, _, err := config.Load(); err == nil && len(userCfg.KeyOverrides) > 0 {
		km := input.DefaultKeyMap()
		config.ApplyKeyOverrides(&km, userCfg.KeyOverrides)
		model = model.WithKeyMap(km)
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := program.Run()
	if err != nil {
		return exitErr(errkind.New(errkind.Terminal, "", err))
	}

	outcome := finalModel.(tui.Model).Outcome()
	switch outcome.Kind {
	case tui.Discarded:
		return 0
	case tui.Failed:
		return exitErr(errkind.New(errkind.Write, "", outcome.Err))
	case tui.Accepted:
		return apply(filesystem, left, right, outcome.ChangeSet, *dryRun, config.UseUnicode())
	default:
		return 1
	}
}

// apply writes the reconstructed selected side of each file back under
// writeRoot, or (with dryRun) describes what it would have written.
// Grounded on scm_diff_editor.rs's apply_changes/print_dry_run. On a write
// failure it re-enters the TUI with the write-error dialog (spec.md
// section 4.8) so the user can retry at a corrected path or abandon.
func apply(filesystem fsys.Filesystem, readRoot, writeRoot string, cs *record.ChangeSet, dryRun bool, unicode bool) int {
	if cs.IsReadOnly {
		return 0
	}
	results := reconstruct.ChangeSet(cs)
	for i, result := range results {
		filePath := filepath.Join(writeRoot, result.Path)
		oldRel := result.Path
		if cs.Files[i].HasOldPath {
			oldRel = cs.Files[i].OldPath
		}
		oldPath := filepath.Join(readRoot, oldRel)
		if dryRun {
			printDryRunEntry(filePath, result)
			continue
		}
		for {
			err := applyEntry(filesystem, oldPath, filePath, result)
			if err == nil {
				break
			}
			retryPath, ok := promptWriteRetry(filePath, err, unicode)
			if !ok {
				fmt.Fprintln(os.Stderr, errkind.New(errkind.Write, filePath, err))
				return 1
			}
			filePath = retryPath
		}
	}
	return 0
}

// promptWriteRetry runs a standalone TUI session showing only the
// write-error dialog, and reports whether the user chose to retry (with
// the possibly-edited path) or abandon.
func promptWriteRetry(failedPath string, writeErr error, unicode bool) (string, bool) {
	dialogModel := tui.New(&record.ChangeSet{}, tui.ModeDiffViewOnly, true, unicode)
	dialogModel.ShowWriteError(failedPath, writeErr)

	program := tea.NewProgram(dialogModel, tea.WithAltScreen())
	finalModel, err := program.Run()
	if err != nil {
		return "", false
	}
	outcome := finalModel.(tui.Model).Outcome()
	if outcome.Kind != tui.Retry {
		return "", false
	}
	return outcome.RetryPath, true
}

func printDryRunEntry(filePath string, result reconstruct.FileResult) {
	switch result.Selected.Kind {
	case reconstruct.Absent:
		fmt.Printf("Would delete file: %s\n", filePath)
	case reconstruct.Unchanged:
		fmt.Printf("Would leave file unchanged: %s\n", filePath)
	case reconstruct.Binary:
		fmt.Printf("Would update binary file: %s\n", filePath)
		fmt.Printf("  Old: %q\n", result.Selected.OldDescription)
		fmt.Printf("  New: %q\n", result.Selected.NewDescription)
	case reconstruct.Present:
		fmt.Printf("Would update text file: %s\n", filePath)
		for _, line := range splitLines(result.Selected.Text) {
			fmt.Printf("  %s\n", line)
		}
	}
}

func applyEntry(filesystem fsys.Filesystem, oldPath, filePath string, result reconstruct.FileResult) error {
	switch result.Selected.Kind {
	case reconstruct.Absent:
		return filesystem.RemoveFile(filePath)
	case reconstruct.Unchanged:
		return nil
	case reconstruct.Binary:
		return filesystem.CopyFile(oldPath, filePath)
	case reconstruct.Present:
		if dir := filepath.Dir(filePath); dir != "." {
			if err := filesystem.CreateDirAll(dir); err != nil {
				return err
			}
		}
		return filesystem.WriteFile(filePath, result.Selected.Text)
	}
	return nil
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func exitUsage(e *errkind.Error) int {
	fmt.Fprintln(os.Stderr, e)
	return 2
}

func exitErr(e *errkind.Error) int {
	fmt.Fprintln(os.Stderr, e)
	return 1
}
