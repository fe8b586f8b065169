// Package diffbuild constructs a record.ChangeSet from either unified
// diff text already produced by the host SCM, or from two on-disk trees
// (spec.md section 4.7, step 2: "Build a ChangeSet via the external diff
// algorithm"). The diff algorithm itself remains out of scope for the
// core record engine (spec.md section 1); this package is the external
// collaborator the core consumes.
package diffbuild

import (
	"fmt"
	"strings"

	sgdiff "github.com/sourcegraph/go-diff/diff"

	"scm-record/internal/record"
)

// FromUnifiedDiff parses a multi-file unified diff (as produced by `git
// diff`, `hg diff`, etc.) into a ChangeSet, grounded on the teacher's
// internal/diffview/parse.go hunk-walking logic but emitting record.Section
// values instead of flat display rows.
func FromUnifiedDiff(raw []byte) (*record.ChangeSet, error) {
	fileDiffs, err := sgdiff.ParseMultiFileDiff(raw)
	if err != nil {
		return nil, fmt.Errorf("parse unified diff: %w", err)
	}

	cs := &record.ChangeSet{}
	for _, fd := range fileDiffs {
		oldPath, hasOld := normalizeDiffPath(fd.OrigName)
		newPath, hasNew := normalizeDiffPath(fd.NewName)

		fc := record.FileChange{
			OldPath: oldPath, HasOldPath: hasOld,
			Path: newPath, HasPath: hasNew,
		}
		if !hasNew {
			fc.Path, fc.HasPath = oldPath, hasOld
		}

		for _, h := range fd.Hunks {
			fc.Sections = append(fc.Sections, sectionsFromHunkBody(h.Body)...)
		}
		fc.Sections = mergeAdjacentSections(fc.Sections)
		cs.Files = append(cs.Files, fc)
	}
	return cs, nil
}

func normalizeDiffPath(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || name == "/dev/null" {
		return "", false
	}
	name = strings.TrimPrefix(name, "a/")
	name = strings.TrimPrefix(name, "b/")
	return name, true
}

// sectionsFromHunkBody walks one hunk's raw body lines and groups them
// into Unchanged/Changed sections, mirroring the fold in
// original_source/scm-record/src/scm_diff_editor.rs's create_diff (there
// driven by the diffy crate's Line enum; here driven by already-unified
// diff text).
func sectionsFromHunkBody(body []byte) []record.Section {
	lines := splitLines(string(body))
	var sections []record.Section
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if line == "" {
			continue
		}
		if line[0] == '\\' {
			continue // "\ No newline at end of file" marker.
		}
		content := line[1:]
		if !(i+1 < len(lines) && len(lines[i+1]) > 0 && lines[i+1][0] == '\\') {
			content += "\n"
		}
		switch line[0] {
		case ' ':
			appendUnchanged(&sections, content)
		case '-':
			appendChanged(&sections, record.ChangedLine{ChangeType: record.Removed, Line: content})
		case '+':
			appendChanged(&sections, record.ChangedLine{ChangeType: record.Added, Line: content})
		}
	}
	return sections
}

func appendUnchanged(sections *[]record.Section, line string) {
	if n := len(*sections); n > 0 && (*sections)[n-1].Kind == record.SectionUnchanged {
		(*sections)[n-1].Lines = append((*sections)[n-1].Lines, line)
		return
	}
	*sections = append(*sections, record.Section{Kind: record.SectionUnchanged, Lines: []string{line}})
}

func appendChanged(sections *[]record.Section, line record.ChangedLine) {
	if n := len(*sections); n > 0 && (*sections)[n-1].Kind == record.SectionChanged {
		(*sections)[n-1].ChangedLines = append((*sections)[n-1].ChangedLines, line)
		return
	}
	*sections = append(*sections, record.Section{Kind: record.SectionChanged, ChangedLines: []record.ChangedLine{line}})
}

// mergeAdjacentSections folds consecutive sections of the same kind
// produced across hunk boundaries, so a file's Section list reads as one
// coherent sequence (spec.md section 3, "FileChange ... an ordered
// sequence of Section").
func mergeAdjacentSections(sections []record.Section) []record.Section {
	if len(sections) == 0 {
		return sections
	}
	out := []record.Section{sections[0]}
	for _, s := range sections[1:] {
		last := &out[len(out)-1]
		if last.Kind == s.Kind && s.Kind == record.SectionUnchanged {
			last.Lines = append(last.Lines, s.Lines...)
			continue
		}
		if last.Kind == s.Kind && s.Kind == record.SectionChanged {
			last.ChangedLines = append(last.ChangedLines, s.ChangedLines...)
			continue
		}
		out = append(out, s)
	}
	return out
}

func splitLines(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	lines := strings.Split(body, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
