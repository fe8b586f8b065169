package diffbuild

import (
	"testing"

	"scm-record/internal/record"
)

const sampleDiff = `diff --git a/foo.txt b/foo.txt
index 1234567..89abcde 100644
--- a/foo.txt
+++ b/foo.txt
@@ -1,3 +1,3 @@
 context line
-removed line
+added line
 trailing context
`

func TestFromUnifiedDiffBasic(t *testing.T) {
	cs, err := FromUnifiedDiff([]byte(sampleDiff))
	if err != nil {
		t.Fatal(err)
	}
	if len(cs.Files) != 1 {
		t.Fatalf("got %d files, want 1", len(cs.Files))
	}
	f := cs.Files[0]
	if f.Path != "foo.txt" {
		t.Fatalf("path = %q", f.Path)
	}

	var sawChanged bool
	for _, s := range f.Sections {
		if s.Kind == record.SectionChanged {
			sawChanged = true
			if len(s.ChangedLines) != 2 {
				t.Fatalf("changed section has %d lines, want 2", len(s.ChangedLines))
			}
		}
	}
	if !sawChanged {
		t.Fatal("expected a Changed section")
	}
}
