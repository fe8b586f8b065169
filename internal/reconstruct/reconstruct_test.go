package reconstruct

import (
	"testing"

	"scm-record/internal/record"
)

func changedSection(removed, added []string) record.Section {
	var lines []record.ChangedLine
	for _, l := range removed {
		lines = append(lines, record.ChangedLine{ChangeType: record.Removed, Line: l})
	}
	for _, l := range added {
		lines = append(lines, record.ChangedLine{ChangeType: record.Added, Line: l})
	}
	return record.Section{Kind: record.SectionChanged, ChangedLines: lines}
}

// S1 from spec.md section 8: accept the edit wholesale (both removed lines
// and both added lines toggled on) and get the after-text back.
func TestScenarioS1(t *testing.T) {
	f := record.FileChange{
		Path: "f", HasPath: true,
		Sections: []record.Section{changedSection([]string{"a\n", "b\n"}, []string{"A\n", "B\n"})},
	}
	f.Sections[0].ChangedLines[0].Toggled = true // a
	f.Sections[0].ChangedLines[1].Toggled = true // b
	f.Sections[0].ChangedLines[2].Toggled = true // A
	f.Sections[0].ChangedLines[3].Toggled = true // B

	res := File(&f)
	if res.Selected.Kind != Present || res.Selected.Text != "A\nB\n" {
		t.Fatalf("selected = %+v", res.Selected)
	}
	if res.Unselected.Kind != Present || res.Unselected.Text != "a\nb\n" {
		t.Fatalf("unselected = %+v", res.Unselected)
	}
	if got := f.Tristate(); got != record.TristateAll {
		t.Fatalf("root tristate = %v, want All", got)
	}
}

// S2 from spec.md section 8.
func TestScenarioS2Invert(t *testing.T) {
	cs := &record.ChangeSet{Files: []record.FileChange{
		{Path: "f", HasPath: true, Sections: []record.Section{changedSection([]string{"a\n", "b\n"}, []string{"A\n", "B\n"})}},
	}}
	cs.Invert()
	res := File(&cs.Files[0])
	if res.Selected.Text != "A\nB\n" {
		t.Fatalf("selected after first invert = %q", res.Selected.Text)
	}
	if res.Unselected.Text != "a\nb\n" {
		t.Fatalf("unselected after first invert = %q", res.Unselected.Text)
	}

	cs.Invert()
	res = File(&cs.Files[0])
	if res.Selected.Text != "a\nb\n" {
		t.Fatalf("selected after second invert = %q", res.Selected.Text)
	}
	if res.Unselected.Text != "A\nB\n" {
		t.Fatalf("unselected after second invert = %q", res.Unselected.Text)
	}
}

// S4 from spec.md section 8.
func TestScenarioS4FileMode(t *testing.T) {
	f := record.FileChange{
		Path: "f", HasPath: true,
		FileMode: 0o644, HasFileMode: true,
		Sections: []record.Section{
			{Kind: record.SectionFileMode, ModeToggled: true, BeforeMode: 0o644, AfterMode: 0o755},
			changedSection(nil, []string{"x\n"}),
		},
	}
	res := File(&f)
	if res.Selected.Kind != Absent {
		t.Fatalf("selected content should be absent (no content touched, only the mode), got %+v", res.Selected)
	}
	mode, ok := f.GetFileMode()
	if !ok || mode != 0o755 {
		t.Fatalf("mode = %v, ok = %v, want 0o755", mode, ok)
	}
}

func TestReconstructionIdentity(t *testing.T) {
	before := "a\nb\nc\n"
	after := "A\nb\nC\n"
	f := record.FileChange{Path: "f", HasPath: true, Sections: []record.Section{
		changedSection([]string{"a\n"}, []string{"A\n"}),
		{Kind: record.SectionUnchanged, Lines: []string{"b\n"}},
		changedSection([]string{"c\n"}, []string{"C\n"}),
	}}

	res := File(&f)
	if res.Selected.Text != before {
		t.Fatalf("all-none selected = %q, want before %q", res.Selected.Text, before)
	}

	for i := range f.Sections {
		f.Sections[i].SetChecked(true)
	}
	res = File(&f)
	if res.Selected.Text != after {
		t.Fatalf("all-all selected = %q, want after %q", res.Selected.Text, after)
	}
}

func TestBinarySectionDual(t *testing.T) {
	f := record.FileChange{Path: "f", HasPath: true, Sections: []record.Section{
		{Kind: record.SectionBinary, BinaryToggled: true, OldDescription: "old", HasOldDescription: true, NewDescription: "new", HasNewDescription: true},
	}}
	res := File(&f)
	if res.Selected.Kind != Binary || res.Selected.NewDescription != "new" {
		t.Fatalf("selected = %+v", res.Selected)
	}
	if res.Unselected.Kind != Unchanged {
		t.Fatalf("unselected = %+v, want Unchanged", res.Unselected)
	}
}
