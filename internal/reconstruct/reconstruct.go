// Package reconstruct implements the reconstructor (spec.md section 4.3):
// given a ChangeSet and its selection state, derive the "selected" and
// "unselected" content and mode for each file.
package reconstruct

import (
	"scm-record/internal/record"
)

// ContentKind tags the shape of a reconstructed file's content.
type ContentKind int

const (
	Absent ContentKind = iota
	Unchanged
	Binary
	Present
)

// Content is the reconstructed content of one side (selected or
// unselected) of one file.
type Content struct {
	Kind ContentKind

	// Present
	Text string

	// Binary
	OldDescription    string
	HasOldDescription bool
	NewDescription    string
	HasNewDescription bool
}

func (c *Content) pushText(s string) {
	switch c.Kind {
	case Absent, Unchanged:
		c.Kind = Present
		c.Text = s
	case Present:
		c.Text += s
	case Binary:
		// Binary content is opaque; text pushes are ignored, matching the
		// original's SelectedContents::push_str.
	}
}

// FileResult is the pair of reconstructed sides for one file, plus its
// resolved file mode.
type FileResult struct {
	Path       string
	Selected   Content
	Unselected Content
	Mode       record.FileMode
	HasMode    bool
}

// File reconstructs both sides of a single FileChange, per spec.md
// section 4.3's per-section rules.
func File(f *record.FileChange) FileResult {
	var selected, unselected Content
	selected.Kind, unselected.Kind = Absent, Absent

	for i := range f.Sections {
		s := &f.Sections[i]
		switch s.Kind {
		case record.SectionUnchanged:
			for _, line := range s.Lines {
				selected.pushText(line)
				unselected.pushText(line)
			}

		case record.SectionChanged:
			for _, line := range s.ChangedLines {
				switch {
				case line.ChangeType == record.Added && line.Toggled:
					selected.pushText(line.Line)
				case line.ChangeType == record.Removed && !line.Toggled:
					selected.pushText(line.Line)
				case line.ChangeType == record.Added && !line.Toggled:
					unselected.pushText(line.Line)
				case line.ChangeType == record.Removed && line.Toggled:
					unselected.pushText(line.Line)
				}
			}

		case record.SectionFileMode:
			if s.ModeToggled && s.AfterMode.Absent() {
				selected.Kind, selected.Text = Absent, ""
			} else if !s.ModeToggled && s.BeforeMode.Absent() {
				unselected.Kind, unselected.Text = Absent, ""
			}

		case record.SectionBinary:
			bin := Content{
				Kind:              Binary,
				OldDescription:    s.OldDescription,
				HasOldDescription: s.HasOldDescription,
				NewDescription:    s.NewDescription,
				HasNewDescription: s.HasNewDescription,
			}
			if s.BinaryToggled {
				selected = bin
				unselected = Content{Kind: Unchanged}
			} else {
				selected = Content{Kind: Unchanged}
				unselected = bin
			}
		}
	}

	mode, hasMode := f.GetFileMode()
	return FileResult{
		Path:       f.Path,
		Selected:   selected,
		Unselected: unselected,
		Mode:       mode,
		HasMode:    hasMode,
	}
}

// ChangeSet reconstructs every file in the set, in order.
func ChangeSet(cs *record.ChangeSet) []FileResult {
	out := make([]FileResult, 0, len(cs.Files))
	for i := range cs.Files {
		out = append(out, File(&cs.Files[i]))
	}
	return out
}

