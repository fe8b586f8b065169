package config

import "testing"

func TestParseColorMode(t *testing.T) {
	cases := []struct {
		in   string
		want ColorMode
		ok   bool
	}{
		{"", ColorAuto, true},
		{"auto", ColorAuto, true},
		{"always", ColorAlways, true},
		{"never", ColorNever, true},
		{"bogus", ColorAuto, false},
	}
	for _, tc := range cases {
		got, ok := ParseColorMode(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseColorMode(%q) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestContainsUTF8(t *testing.T) {
	if !containsUTF8("en_US.UTF-8") {
		t.Fatal("expected en_US.UTF-8 to report UTF-8 support")
	}
	if containsUTF8("C") {
		t.Fatal("expected C locale to report no UTF-8 support")
	}
}
