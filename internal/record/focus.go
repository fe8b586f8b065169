package record

// Expansion tracks, per container, whether its children are rendered.
// Default: files expanded, Unchanged sections collapsed, all other section
// kinds expanded (spec.md section 3 "Expansion state").
type Expansion struct {
	fileCollapsed    map[int]bool
	sectionExpanded  map[sectionKey]bool
	allCollapsed     bool
}

type sectionKey struct {
	FileIndex    int
	SectionIndex int
}

func NewExpansion() *Expansion {
	return &Expansion{
		fileCollapsed:   make(map[int]bool),
		sectionExpanded: make(map[sectionKey]bool),
	}
}

func (e *Expansion) FileExpanded(fileIndex int) bool {
	return !e.fileCollapsed[fileIndex]
}

// ToggleFile flips the expansion of the file containing focus.
func (e *Expansion) ToggleFile(fileIndex int) {
	e.fileCollapsed[fileIndex] = !e.fileCollapsed[fileIndex]
}

func (e *Expansion) SectionExpanded(fileIndex, sectionIndex int, kind SectionKind) bool {
	key := sectionKey{fileIndex, sectionIndex}
	if v, ok := e.sectionExpanded[key]; ok {
		return v
	}
	return kind != SectionUnchanged
}

// ToggleSection flips the expansion of the section containing focus.
func (e *Expansion) ToggleSection(fileIndex, sectionIndex int, kind SectionKind) {
	cur := e.SectionExpanded(fileIndex, sectionIndex, kind)
	e.sectionExpanded[sectionKey{fileIndex, sectionIndex}] = !cur
}

// ToggleExpandAll flips the global "all-collapsed" latch, propagating the
// new state to every file and section in cs (spec.md section 4.5
// "toggle-expand-all").
func (e *Expansion) ToggleExpandAll(cs *ChangeSet) {
	e.allCollapsed = !e.allCollapsed
	for fi := range cs.Files {
		e.fileCollapsed[fi] = e.allCollapsed
		for si := range cs.Files[fi].Sections {
			e.sectionExpanded[sectionKey{fi, si}] = !e.allCollapsed
		}
	}
}

// FocusList builds the ordered, finite sequence of valid focus positions
// for the current (possibly collapsed) model, in display order. Headers of
// collapsed containers are included; their children are not (spec.md
// section 4.5: "Skips headers of collapsed containers" refers to the
// children of a collapsed container, not the container's own header).
func FocusList(cs *ChangeSet, exp *Expansion) []Path {
	var keys []Path
	for fi := range cs.Files {
		keys = append(keys, FilePath(fi))
		if !exp.FileExpanded(fi) {
			continue
		}
		f := &cs.Files[fi]
		for si := range f.Sections {
			keys = append(keys, SectionPath(fi, si))
			s := &f.Sections[si]
			if s.Kind != SectionChanged {
				continue
			}
			if !exp.SectionExpanded(fi, si, s.Kind) {
				continue
			}
			for li := range s.ChangedLines {
				keys = append(keys, LinePath(fi, si, li))
			}
		}
	}
	return keys
}

// FindSelection returns the index of target within keys, or -1.
func FindSelection(keys []Path, target Path) int {
	for i, k := range keys {
		if k == target {
			return i
		}
	}
	return -1
}

// SelectPrev moves to the previous position in display order. Does not
// wrap: at the first position it returns current unchanged (spec.md
// section 4.5, "Wraps? No — stops at first/last"; this is a deliberate
// divergence from the upstream Rust implementation, which wraps — see
// DESIGN.md).
func SelectPrev(keys []Path, current Path) Path {
	i := FindSelection(keys, current)
	if i <= 0 {
		if i < 0 && len(keys) > 0 {
			return keys[0]
		}
		return current
	}
	return keys[i-1]
}

// SelectNext moves to the next position in display order, stopping at the
// last position (no wrap).
func SelectNext(keys []Path, current Path) Path {
	i := FindSelection(keys, current)
	if i < 0 {
		if len(keys) > 0 {
			return keys[0]
		}
		return current
	}
	if i >= len(keys)-1 {
		return current
	}
	return keys[i+1]
}

// FirstSelectionKey returns the first focusable position, if any.
func FirstSelectionKey(cs *ChangeSet, exp *Expansion) (Path, bool) {
	keys := FocusList(cs, exp)
	if len(keys) == 0 {
		return Path{}, false
	}
	return keys[0], true
}

// ResolveVisible moves a focus that has become hidden (e.g. by collapsing
// its container) to the nearest visible ancestor, per invariant 2.
func ResolveVisible(keys []Path, current Path) Path {
	if FindSelection(keys, current) >= 0 {
		return current
	}
	if current.IsLine() {
		ancestor := SectionPath(current.FileIndex, current.SectionIndex)
		if FindSelection(keys, ancestor) >= 0 {
			return ancestor
		}
	}
	if current.IsLine() || current.IsSection() {
		ancestor := FilePath(current.FileIndex)
		if FindSelection(keys, ancestor) >= 0 {
			return ancestor
		}
	}
	if len(keys) > 0 {
		return keys[0]
	}
	return current
}
