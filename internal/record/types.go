// Package record implements the change model and selection algebra: the
// in-memory representation of a proposed set of file modifications, the
// tri-state selection it carries, and the Toggle/Invert operations that
// mutate it. See spec.md sections 3 and 4.1-4.2.
package record

// FileMode holds POSIX mode bits. Only the file-type and permission
// nibbles are meaningful; zero means "path absent".
type FileMode uint32

// AbsentMode is the sentinel FileMode for a path that does not exist on one
// side of the change.
const AbsentMode FileMode = 0

func (m FileMode) Absent() bool { return m == AbsentMode }

// Tristate is a container's aggregate selection state.
type Tristate int

const (
	TristateNone Tristate = iota
	TristatePartial
	TristateAll
)

// ChangeType distinguishes an added line from a removed one within a
// Changed section.
type ChangeType int

const (
	Added ChangeType = iota
	Removed
)

// ChangedLine is one leaf inside a Changed section.
type ChangedLine struct {
	Toggled    bool
	ChangeType ChangeType
	Line       string
}

// SectionKind tags the variant carried by a Section.
type SectionKind int

const (
	SectionUnchanged SectionKind = iota
	SectionChanged
	SectionFileMode
	SectionBinary
)

// Section is a contiguous, typed portion of a file's diff.
type Section struct {
	Kind SectionKind

	// SectionUnchanged
	Lines []string

	// SectionChanged
	ChangedLines []ChangedLine

	// SectionFileMode
	ModeToggled bool
	BeforeMode  FileMode
	AfterMode   FileMode

	// SectionBinary
	BinaryToggled     bool
	OldDescription    string
	HasOldDescription bool
	NewDescription    string
	HasNewDescription bool
}

// IsEditable reports whether this section carries user-editable content as
// opposed to pure context.
func (s *Section) IsEditable() bool {
	return s.Kind != SectionUnchanged
}

// Tristate computes the section's aggregate selection bottom-up, per
// spec.md section 3. A section with no leaves reports TristateNone.
func (s *Section) Tristate() Tristate {
	var seen *bool
	conflict := false
	see := func(checked bool) {
		if conflict {
			return
		}
		if seen == nil {
			v := checked
			seen = &v
			return
		}
		if *seen != checked {
			conflict = true
		}
	}
	switch s.Kind {
	case SectionUnchanged:
		// No leaves; contributes nothing.
	case SectionChanged:
		for _, line := range s.ChangedLines {
			see(line.Toggled)
		}
	case SectionFileMode:
		see(s.ModeToggled)
	case SectionBinary:
		see(s.BinaryToggled)
	}
	if conflict {
		return TristatePartial
	}
	if seen != nil && *seen {
		return TristateAll
	}
	return TristateNone
}

// SetChecked sets every leaf in the section to the given state.
func (s *Section) SetChecked(checked bool) {
	switch s.Kind {
	case SectionUnchanged:
	case SectionChanged:
		for i := range s.ChangedLines {
			s.ChangedLines[i].Toggled = checked
		}
	case SectionFileMode:
		s.ModeToggled = checked
	case SectionBinary:
		s.BinaryToggled = checked
	}
}

// ToggleAll flips every leaf bit in the section.
func (s *Section) ToggleAll() {
	switch s.Kind {
	case SectionUnchanged:
	case SectionChanged:
		for i := range s.ChangedLines {
			s.ChangedLines[i].Toggled = !s.ChangedLines[i].Toggled
		}
	case SectionFileMode:
		s.ModeToggled = !s.ModeToggled
	case SectionBinary:
		s.BinaryToggled = !s.BinaryToggled
	}
}

// FileChange is one file's entry within a ChangeSet.
type FileChange struct {
	OldPath    string
	HasOldPath bool
	Path       string
	HasPath    bool

	// FileMode is the file mode the change was constructed with, read only
	// by GetFileMode when no SectionFileMode overrides it.
	FileMode    FileMode
	HasFileMode bool

	Sections []Section
}

// GetFileMode returns the new Unix file mode: the after-mode of a checked
// SectionFileMode if present, else the constructed FileMode.
func (f *FileChange) GetFileMode() (FileMode, bool) {
	for _, s := range f.Sections {
		if s.Kind == SectionFileMode && s.ModeToggled {
			return s.AfterMode, true
		}
	}
	return f.FileMode, f.HasFileMode
}

// Tristate computes the file's aggregate selection bottom-up.
func (f *FileChange) Tristate() Tristate {
	var seen *bool
	conflict := false
	see := func(checked bool) {
		if conflict {
			return
		}
		if seen == nil {
			v := checked
			seen = &v
			return
		}
		if *seen != checked {
			conflict = true
		}
	}
	for _, s := range f.Sections {
		switch s.Kind {
		case SectionUnchanged:
		case SectionChanged:
			for _, line := range s.ChangedLines {
				see(line.Toggled)
			}
		case SectionFileMode:
			see(s.ModeToggled)
		case SectionBinary:
			see(s.BinaryToggled)
		}
		if conflict {
			return TristatePartial
		}
	}
	if seen != nil && *seen {
		return TristateAll
	}
	return TristateNone
}

// SetChecked sets every leaf in every section of the file.
func (f *FileChange) SetChecked(checked bool) {
	for i := range f.Sections {
		f.Sections[i].SetChecked(checked)
	}
}

// ToggleAll flips every leaf bit in the file.
func (f *FileChange) ToggleAll() {
	for i := range f.Sections {
		f.Sections[i].ToggleAll()
	}
}

// ChangeSet is the complete in-memory description of a set of file
// modifications presented to the user. Iteration order reflects display
// order.
type ChangeSet struct {
	IsReadOnly bool
	Files      []FileChange
}

// Tristate computes the change set's root aggregate selection.
func (c *ChangeSet) Tristate() Tristate {
	var seen *bool
	conflict := false
	for i := range c.Files {
		t := c.Files[i].Tristate()
		var checked bool
		switch t {
		case TristateAll:
			checked = true
		case TristateNone:
			checked = false
		case TristatePartial:
			return TristatePartial
		}
		if seen == nil {
			v := checked
			seen = &v
		} else if *seen != checked {
			conflict = true
		}
	}
	if conflict {
		return TristatePartial
	}
	if seen != nil && *seen {
		return TristateAll
	}
	return TristateNone
}

// DirtyFileCount counts files whose tri-state is Partial or All: the
// number of files the user has made at least one selection in. Gates
// whether the confirm-quit dialog appears (ui.rs num_user_file_changes).
func (c *ChangeSet) DirtyFileCount() int {
	n := 0
	for i := range c.Files {
		if t := c.Files[i].Tristate(); t == TristatePartial || t == TristateAll {
			n++
		}
	}
	return n
}
