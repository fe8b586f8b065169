package diffbuild

import (
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"scm-record/internal/fsys"
	"scm-record/internal/record"
)

// FromTrees builds a ChangeSet by diffing every file under the union of
// relative paths present below left and right (or, if both are plain
// files, the two files directly). This is the diff-editor front-end's own
// diff algorithm for the no-external-diff case (spec.md section 4.7 step
// 2), grounded on scm_diff_editor.rs's create_file/create_diff, adapted
// from the original's diffy crate to sergi/go-diff/diffmatchpatch (the
// pack's line-diff library, see SPEC_FULL.md section 4).
func FromTrees(filesystem fsys.Filesystem, left, right string) (*record.ChangeSet, error) {
	relPaths, err := filesystem.ReadDirDiffPaths(left, right)
	if err != nil {
		return nil, err
	}

	cs := &record.ChangeSet{}
	for _, rel := range relPaths {
		leftPath := filepath.Join(left, rel)
		rightPath := filepath.Join(right, rel)
		displayPath := rel
		if rel == "" {
			leftPath, rightPath = left, right
			displayPath = filepath.Base(right)
		}

		fc, err := createFile(filesystem, displayPath, leftPath, rightPath)
		if err != nil {
			return nil, err
		}
		cs.Files = append(cs.Files, fc)
	}
	return cs, nil
}

func createFile(filesystem fsys.Filesystem, displayPath, leftPath, rightPath string) (record.FileChange, error) {
	leftInfo, err := filesystem.ReadFileInfo(leftPath)
	if err != nil {
		return record.FileChange{}, err
	}
	rightInfo, err := filesystem.ReadFileInfo(rightPath)
	if err != nil {
		return record.FileChange{}, err
	}

	fc := record.FileChange{Path: displayPath, HasPath: true}

	if leftInfo.Mode != rightInfo.Mode && leftInfo.HasMode && rightInfo.HasMode {
		fc.Sections = append(fc.Sections, record.Section{
			Kind: record.SectionFileMode, BeforeMode: leftInfo.Mode, AfterMode: rightInfo.Mode,
		})
	}

	switch {
	case leftInfo.Contents.Kind == fsys.Absent && rightInfo.Contents.Kind == fsys.Absent:
		// No content sections.

	case leftInfo.Contents.Kind == fsys.Absent && rightInfo.Contents.Kind == fsys.Text:
		fc.Sections = append(fc.Sections, allAddedSection(rightInfo.Contents.Text))

	case leftInfo.Contents.Kind == fsys.Absent && rightInfo.Contents.Kind == fsys.Binary:
		fc.Sections = append(fc.Sections, record.Section{
			Kind: record.SectionBinary,
			NewDescription: fsys.MakeBinaryDescription(rightInfo.Contents.Hash, rightInfo.Contents.NumBytes), HasNewDescription: true,
		})

	case leftInfo.Contents.Kind == fsys.Text && rightInfo.Contents.Kind == fsys.Absent:
		fc.Sections = append(fc.Sections, allRemovedSection(leftInfo.Contents.Text))

	case leftInfo.Contents.Kind == fsys.Binary && rightInfo.Contents.Kind == fsys.Absent:
		fc.Sections = append(fc.Sections, record.Section{
			Kind: record.SectionBinary,
			OldDescription: fsys.MakeBinaryDescription(leftInfo.Contents.Hash, leftInfo.Contents.NumBytes), HasOldDescription: true,
		})

	case leftInfo.Contents.Kind == fsys.Text && rightInfo.Contents.Kind == fsys.Text:
		fc.Sections = append(fc.Sections, diffText(leftInfo.Contents.Text, rightInfo.Contents.Text)...)

	default:
		// At least one side is binary and the other is present: binary change.
		fc.Sections = append(fc.Sections, record.Section{
			Kind:              record.SectionBinary,
			OldDescription:    fsys.MakeBinaryDescription(leftInfo.Contents.Hash, leftInfo.Contents.NumBytes),
			HasOldDescription: leftInfo.Contents.Kind != fsys.Absent,
			NewDescription:    fsys.MakeBinaryDescription(rightInfo.Contents.Hash, rightInfo.Contents.NumBytes),
			HasNewDescription: rightInfo.Contents.Kind != fsys.Absent,
		})
	}

	return fc, nil
}

func allAddedSection(contents string) record.Section {
	return record.Section{Kind: record.SectionChanged, ChangedLines: linesAs(contents, record.Added)}
}

func allRemovedSection(contents string) record.Section {
	return record.Section{Kind: record.SectionChanged, ChangedLines: linesAs(contents, record.Removed)}
}

func linesAs(contents string, ct record.ChangeType) []record.ChangedLine {
	var out []record.ChangedLine
	for _, line := range splitInclusive(contents) {
		out = append(out, record.ChangedLine{ChangeType: ct, Line: line})
	}
	return out
}

// diffText computes a line-grained diff between old and new file
// contents using diffmatchpatch in line mode (each line encoded as one
// rune) plus semantic cleanup, then folds it into Unchanged/Changed
// sections exactly as create_diff does for the diffy crate's Line enum in
// the original.
func diffText(old, new_ string) []record.Section {
	dmp := diffmatchpatch.New()
	oldChars, newChars, lineArray := dmp.DiffLinesToChars(old, new_)
	diffs := dmp.DiffMain(oldChars, newChars, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var sections []record.Section
	for _, d := range diffs {
		for _, line := range splitInclusive(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				appendUnchanged(&sections, line)
			case diffmatchpatch.DiffDelete:
				appendChanged(&sections, record.ChangedLine{ChangeType: record.Removed, Line: line})
			case diffmatchpatch.DiffInsert:
				appendChanged(&sections, record.ChangedLine{ChangeType: record.Added, Line: line})
			}
		}
	}
	return mergeAdjacentSections(sections)
}

// splitInclusive splits s into lines that retain their trailing newline,
// mirroring str::split_inclusive used throughout the original's
// render::make_section_changed_lines.
func splitInclusive(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for {
		idx := strings.IndexByte(s, '\n')
		if idx < 0 {
			out = append(out, s)
			return out
		}
		out = append(out, s[:idx+1])
		s = s[idx+1:]
		if s == "" {
			return out
		}
	}
}
