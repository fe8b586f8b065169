package record

// Path is an index-based address of a file, a section within that file, or
// a single changed line within that section. Using stable indices rather
// than parent pointers avoids cyclic references entirely (spec.md section
// 9, "Heterogeneous tree of change nodes").
//
// SectionIndex and LineIndex are -1 when not present: a file-level Path has
// both -1; a section-level Path has SectionIndex set and LineIndex -1; a
// line-level Path has both set.
type Path struct {
	FileIndex    int
	SectionIndex int
	LineIndex    int
}

const noIndex = -1

// FilePath addresses a whole file.
func FilePath(fileIndex int) Path {
	return Path{FileIndex: fileIndex, SectionIndex: noIndex, LineIndex: noIndex}
}

// SectionPath addresses a whole section within a file.
func SectionPath(fileIndex, sectionIndex int) Path {
	return Path{FileIndex: fileIndex, SectionIndex: sectionIndex, LineIndex: noIndex}
}

// LinePath addresses a single changed line within a section.
func LinePath(fileIndex, sectionIndex, lineIndex int) Path {
	return Path{FileIndex: fileIndex, SectionIndex: sectionIndex, LineIndex: lineIndex}
}

func (p Path) IsFile() bool    { return p.SectionIndex == noIndex }
func (p Path) IsSection() bool { return p.SectionIndex != noIndex && p.LineIndex == noIndex }
func (p Path) IsLine() bool    { return p.LineIndex != noIndex }

// Less orders paths in display order: by file, then section, then line,
// with a file/section header ordering before its children.
func (p Path) Less(q Path) bool {
	if p.FileIndex != q.FileIndex {
		return p.FileIndex < q.FileIndex
	}
	if p.SectionIndex != q.SectionIndex {
		return p.SectionIndex < q.SectionIndex
	}
	return p.LineIndex < q.LineIndex
}
