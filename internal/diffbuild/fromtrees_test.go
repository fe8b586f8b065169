package diffbuild

import (
	"os"
	"path/filepath"
	"testing"

	"scm-record/internal/fsys"
	"scm-record/internal/record"
)

func writeFile(t *testing.T, path, contents string, perm os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), perm); err != nil {
		t.Fatal(err)
	}
}

// Mirrors scm_diff_editor.rs's test_diff_absent_left: a file present only
// on the right side becomes an all-Added Changed section.
func TestFromTreesAbsentLeft(t *testing.T) {
	dir := t.TempDir()
	left, right := filepath.Join(dir, "left"), filepath.Join(dir, "right")
	if err := os.MkdirAll(left, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(right, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(right, "f.txt"), "right\n", 0o644)

	cs, err := FromTrees(fsys.RealFilesystem{}, left, right)
	if err != nil {
		t.Fatal(err)
	}
	if len(cs.Files) != 1 {
		t.Fatalf("got %d files, want 1", len(cs.Files))
	}
	f := cs.Files[0]
	if len(f.Sections) != 1 || f.Sections[0].Kind != record.SectionChanged {
		t.Fatalf("sections = %+v, want one Changed section", f.Sections)
	}
	lines := f.Sections[0].ChangedLines
	if len(lines) != 1 || lines[0].ChangeType != record.Added || lines[0].Line != "right\n" {
		t.Fatalf("changed lines = %+v", lines)
	}
}

// Mirrors scm_diff_editor.rs's test_diff_absent_right: a file present only
// on the left side becomes an all-Removed Changed section.
func TestFromTreesAbsentRight(t *testing.T) {
	dir := t.TempDir()
	left, right := filepath.Join(dir, "left"), filepath.Join(dir, "right")
	if err := os.MkdirAll(left, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(right, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(left, "f.txt"), "left\n", 0o644)

	cs, err := FromTrees(fsys.RealFilesystem{}, left, right)
	if err != nil {
		t.Fatal(err)
	}
	f := cs.Files[0]
	lines := f.Sections[0].ChangedLines
	if len(lines) != 1 || lines[0].ChangeType != record.Removed || lines[0].Line != "left\n" {
		t.Fatalf("changed lines = %+v", lines)
	}
}

// A binary file added on the right yields a Binary section carrying only
// a new description, the binary analogue of createFile's Absent/Text case.
func TestFromTreesBinaryAdded(t *testing.T) {
	dir := t.TempDir()
	left, right := filepath.Join(dir, "left"), filepath.Join(dir, "right")
	if err := os.MkdirAll(left, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(right, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(right, "f.bin"), "bin\x00ary", 0o644)

	cs, err := FromTrees(fsys.RealFilesystem{}, left, right)
	if err != nil {
		t.Fatal(err)
	}
	f := cs.Files[0]
	if len(f.Sections) != 1 || f.Sections[0].Kind != record.SectionBinary {
		t.Fatalf("sections = %+v, want one Binary section", f.Sections)
	}
	s := f.Sections[0]
	if s.HasOldDescription || !s.HasNewDescription {
		t.Fatalf("section = %+v, want only a new description", s)
	}
}

// A binary file changed on both sides yields a Binary section carrying
// both old and new descriptions, createFile's default binary-change case.
func TestFromTreesBinaryChanged(t *testing.T) {
	dir := t.TempDir()
	left, right := filepath.Join(dir, "left"), filepath.Join(dir, "right")
	if err := os.MkdirAll(left, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(right, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(left, "f.bin"), "bin\x00ary-old", 0o644)
	writeFile(t, filepath.Join(right, "f.bin"), "bin\x00ary-new", 0o644)

	cs, err := FromTrees(fsys.RealFilesystem{}, left, right)
	if err != nil {
		t.Fatal(err)
	}
	f := cs.Files[0]
	if len(f.Sections) != 1 || f.Sections[0].Kind != record.SectionBinary {
		t.Fatalf("sections = %+v, want one Binary section", f.Sections)
	}
	s := f.Sections[0]
	if !s.HasOldDescription || !s.HasNewDescription {
		t.Fatalf("section = %+v, want both descriptions", s)
	}
	if s.OldDescription == s.NewDescription {
		t.Fatalf("descriptions should differ for different contents: %q", s.OldDescription)
	}
}

// A permission-only change with unchanged content yields a standalone
// FileMode section, the content staying a plain Unchanged section.
func TestFromTreesModeChangeOnly(t *testing.T) {
	dir := t.TempDir()
	left, right := filepath.Join(dir, "left"), filepath.Join(dir, "right")
	if err := os.MkdirAll(left, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(right, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(left, "f.sh"), "echo hi\n", 0o644)
	writeFile(t, filepath.Join(right, "f.sh"), "echo hi\n", 0o755)

	cs, err := FromTrees(fsys.RealFilesystem{}, left, right)
	if err != nil {
		t.Fatal(err)
	}
	f := cs.Files[0]
	if len(f.Sections) != 2 || f.Sections[0].Kind != record.SectionFileMode || f.Sections[1].Kind != record.SectionUnchanged {
		t.Fatalf("sections = %+v, want [FileMode, Unchanged]", f.Sections)
	}
	s := f.Sections[0]
	if s.BeforeMode != 0o100644 || s.AfterMode != 0o100755 {
		t.Fatalf("before/after mode = %o/%o, want 0o100644/0o100755", s.BeforeMode, s.AfterMode)
	}
}

// Identical content and mode on both sides yields a single Unchanged
// section covering the whole file, and no FileMode section.
func TestFromTreesNoChanges(t *testing.T) {
	dir := t.TempDir()
	left, right := filepath.Join(dir, "left"), filepath.Join(dir, "right")
	if err := os.MkdirAll(left, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(right, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(left, "f.txt"), "same\n", 0o644)
	writeFile(t, filepath.Join(right, "f.txt"), "same\n", 0o644)

	cs, err := FromTrees(fsys.RealFilesystem{}, left, right)
	if err != nil {
		t.Fatal(err)
	}
	f := cs.Files[0]
	if len(f.Sections) != 1 || f.Sections[0].Kind != record.SectionUnchanged {
		t.Fatalf("sections = %+v, want a single Unchanged section", f.Sections)
	}
	if got := f.Sections[0].Lines; len(got) != 1 || got[0] != "same\n" {
		t.Fatalf("unchanged lines = %+v", got)
	}
}
