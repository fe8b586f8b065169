package record

import "fmt"

// BugError signals an out-of-range Path: a programming error in the
// caller, not a recoverable condition (mirrors RecordError::Bug in the
// original).
type BugError struct {
	Path Path
}

func (e *BugError) Error() string {
	return fmt.Sprintf("record: path out of range: %+v", e.Path)
}

func (c *ChangeSet) file(p Path) (*FileChange, error) {
	if p.FileIndex < 0 || p.FileIndex >= len(c.Files) {
		return nil, &BugError{Path: p}
	}
	return &c.Files[p.FileIndex], nil
}

func (c *ChangeSet) section(p Path) (*Section, error) {
	f, err := c.file(p)
	if err != nil {
		return nil, err
	}
	if p.SectionIndex < 0 || p.SectionIndex >= len(f.Sections) {
		return nil, &BugError{Path: p}
	}
	return &f.Sections[p.SectionIndex], nil
}

// Compute returns the tri-state of the container or leaf addressed by p.
// A line-level Path reports TristateAll or TristateNone for its own bit.
func (c *ChangeSet) Compute(p Path) (Tristate, error) {
	switch {
	case p.IsLine():
		s, err := c.section(p)
		if err != nil {
			return TristateNone, err
		}
		if s.Kind != SectionChanged || p.LineIndex < 0 || p.LineIndex >= len(s.ChangedLines) {
			return TristateNone, &BugError{Path: p}
		}
		if s.ChangedLines[p.LineIndex].Toggled {
			return TristateAll, nil
		}
		return TristateNone, nil
	case p.IsSection():
		s, err := c.section(p)
		if err != nil {
			return TristateNone, err
		}
		return s.Tristate(), nil
	default:
		f, err := c.file(p)
		if err != nil {
			return TristateNone, err
		}
		return f.Tristate(), nil
	}
}

// Toggle applies the selection algebra's Toggle rule to p, per spec.md
// section 4.2:
//
//   - leaf: flip its bit.
//   - container at tri-state All: set every leaf under it to none.
//   - container at tri-state None or Partial: set every leaf under it to all.
func (c *ChangeSet) Toggle(p Path) error {
	switch {
	case p.IsLine():
		s, err := c.section(p)
		if err != nil {
			return err
		}
		if s.Kind != SectionChanged || p.LineIndex < 0 || p.LineIndex >= len(s.ChangedLines) {
			return &BugError{Path: p}
		}
		s.ChangedLines[p.LineIndex].Toggled = !s.ChangedLines[p.LineIndex].Toggled
		return nil
	case p.IsSection():
		s, err := c.section(p)
		if err != nil {
			return err
		}
		s.SetChecked(s.Tristate() != TristateAll)
		return nil
	default:
		f, err := c.file(p)
		if err != nil {
			return err
		}
		f.SetChecked(f.Tristate() != TristateAll)
		return nil
	}
}

// Invert flips every leaf bit in the change set.
func (c *ChangeSet) Invert() {
	for i := range c.Files {
		c.Files[i].ToggleAll()
	}
}

// ToggleAllUniform applies the root cycle rule to the whole change set: if
// every file is TristateAll, clear everything; otherwise select everything.
func (c *ChangeSet) ToggleAllUniform() {
	checked := c.Tristate() != TristateAll
	for i := range c.Files {
		c.Files[i].SetChecked(checked)
	}
}
