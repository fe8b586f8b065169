package tui

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"scm-record/internal/record"
)

func oneFileChangeSet() *record.ChangeSet {
	return &record.ChangeSet{Files: []record.FileChange{
		{
			Path: "foo.txt", HasPath: true,
			Sections: []record.Section{
				{Kind: record.SectionChanged, ChangedLines: []record.ChangedLine{
					{ChangeType: record.Removed, Line: "old\n"},
					{ChangeType: record.Added, Line: "new\n"},
				}},
			},
		},
	}}
}

func TestQuitWithoutSelectionDiscardsImmediately(t *testing.T) {
	m := New(oneFileChangeSet(), ModeRecord, false, true)
	got, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	gm := got.(Model)
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if gm.outcome.Kind != Discarded {
		t.Fatalf("outcome = %v, want Discarded", gm.outcome.Kind)
	}
}

func TestQuitWithSelectionOpensConfirmDialog(t *testing.T) {
	m := New(oneFileChangeSet(), ModeRecord, false, true)
	_ = m.cs.Toggle(m.focus)

	got, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	gm := got.(Model)
	if cmd != nil {
		t.Fatal("expected no quit command while the confirm dialog is open")
	}
	if gm.dialog != dialogConfirmQuit {
		t.Fatalf("dialog = %v, want dialogConfirmQuit", gm.dialog)
	}

	got, cmd = gm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	gm = got.(Model)
	if cmd != nil || gm.dialog != dialogNone {
		t.Fatal("expected 'n' to dismiss the confirm dialog without quitting")
	}
}

func TestConfirmInReadOnlyModeIsNoOp(t *testing.T) {
	m := New(oneFileChangeSet(), ModeDiffViewOnly, false, true)
	got, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	gm := got.(Model)
	if cmd != nil || gm.outcome.Kind != Running {
		t.Fatal("expected confirm to be ignored in read-only mode")
	}
}

func TestToggleAndAdvanceMovesToNextLine(t *testing.T) {
	m := New(oneFileChangeSet(), ModeRecord, false, true)
	// Descend from the file header to the first changed line.
	m.focus = record.LinePath(0, 0, 0)

	got, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	gm := got.(Model)
	if gm.focus != record.LinePath(0, 0, 1) {
		t.Fatalf("focus = %+v, want the second changed line", gm.focus)
	}
	if t2, err := gm.cs.Compute(record.LinePath(0, 0, 0)); err != nil || t2 != record.TristateAll {
		t.Fatalf("expected the first line to be toggled on, got %v (%v)", t2, err)
	}
}

func TestWriteErrorDialogAllowsEditingRetryPath(t *testing.T) {
	m := New(oneFileChangeSet(), ModeRecord, false, true)
	m.ShowWriteError("/tmp/foo.txt", fmt.Errorf("permission denied"))
	if m.dialog != dialogWriteError {
		t.Fatal("expected the write-error dialog to be showing")
	}
	if got := m.RetryPath(); got != "/tmp/foo.txt" {
		t.Fatalf("RetryPath() = %q, want the failing path preloaded", got)
	}

	got, _ := m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	gm := got.(Model)
	if gm.RetryPath() != "/tmp/foo.tx" {
		t.Fatalf("RetryPath() = %q, want the edit applied", gm.RetryPath())
	}

	got, cmd := gm.Update(tea.KeyMsg{Type: tea.KeyEnter})
	gm = got.(Model)
	if cmd == nil {
		t.Fatal("expected enter to quit the loop so the host can retry the write")
	}
	if gm.outcome.Kind != Retry || gm.outcome.RetryPath != "/tmp/foo.tx" {
		t.Fatalf("outcome = %+v, want Retry at the edited path", gm.outcome)
	}
}

func TestWindowSizeReconcilesViewport(t *testing.T) {
	m := New(oneFileChangeSet(), ModeRecord, false, true)
	got, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 2})
	gm := got.(Model)
	if gm.vp.Height < 1 {
		t.Fatal("expected at least one visible row")
	}
}
