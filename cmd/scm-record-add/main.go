// Command scm-record-add implements a git-add-p-like workflow (spec.md
// section 1's primary motivating use case): list the working tree's
// changed files, build a ChangeSet from each file's diff against HEAD,
// record a selection interactively, then stage the reconstructed
// selection into the git index.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"scm-record/internal/config"
	"scm-record/internal/diffbuild"
	"scm-record/internal/errkind"
	"scm-record/internal/fsys"
	"scm-record/internal/git"
	"scm-record/internal/reconstruct"
	"scm-record/internal/record"
	"scm-record/internal/tui"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, errkind.New(errkind.ModelConstruction, "", err))
		return 1
	}
	repoRoot, err := git.DiscoverRepoRoot(ctx, cwd)
	if err != nil {
		fmt.Fprintln(os.Stderr, errkind.New(errkind.ModelConstruction, "", fmt.Errorf("not a git repository: %w", err)))
		return 1
	}

	status := git.NewStatusService()
	files, err := status.ListChangedFiles(ctx, repoRoot)
	if err != nil {
		fmt.Fprintln(os.Stderr, errkind.New(errkind.ModelConstruction, "", err))
		return 1
	}

	diffs := git.NewDiffService()
	cs := &record.ChangeSet{}
	for _, f := range files {
		if !f.HasUnstaged {
			continue
		}
		raw, err := diffs.AllChangesDiff(ctx, repoRoot, f.Path)
		if err != nil || raw == "" {
			continue
		}
		fileCS, err := diffbuild.FromUnifiedDiff([]byte(raw))
		if err != nil {
			fmt.Fprintln(os.Stderr, errkind.New(errkind.ModelConstruction, f.Path, err))
			return 1
		}
		cs.Files = append(cs.Files, fileCS.Files...)
	}

	if len(cs.Files) == 0 {
		fmt.Println("no unstaged changes")
		return 0
	}

	model := tui.New(cs, tui.ModeRecord, false, config.UseUnicode())
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := program.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, errkind.New(errkind.Terminal, "", err))
		return 1
	}

	outcome := finalModel.(tui.Model).Outcome()
	if outcome.Kind != tui.Accepted {
		return 1
	}

	filesystem := fsys.RealFilesystem{}
	return stageSelection(ctx, repoRoot, filesystem, outcome.ChangeSet)
}

// stageSelection writes each file's reconstructed selected content into
// the git index directly, the add-p equivalent of `git apply --cached`
// against a hunk-level patch (see internal/git/stage.go).
func stageSelection(ctx context.Context, repoRoot string, filesystem fsys.Filesystem, cs *record.ChangeSet) int {
	for _, result := range reconstruct.ChangeSet(cs) {
		switch result.Selected.Kind {
		case reconstruct.Absent:
			if err := git.UnstagePath(ctx, repoRoot, result.Path); err != nil {
				fmt.Fprintln(os.Stderr, errkind.New(errkind.Write, result.Path, err))
				return 1
			}
		case reconstruct.Unchanged, reconstruct.Binary:
			// Nothing selected to stage for this file.
		case reconstruct.Present:
			mode := uint32(0o100644)
			if result.HasMode {
				mode = uint32(result.Mode)
			}
			if err := git.StageBlob(ctx, repoRoot, result.Path, result.Selected.Text, mode); err != nil {
				fmt.Fprintln(os.Stderr, errkind.New(errkind.Write, result.Path, err))
				return 1
			}
		}
	}
	return 0
}
