package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestDispatchBasicCommands(t *testing.T) {
	km := DefaultKeyMap()
	cases := []struct {
		key  string
		want Command
	}{
		{"q", Quit},
		{"c", Confirm},
		{"x", Toggle},
		{"enter", ToggleAndAdvance},
		{"a", ToggleAllUniform},
		{"i", Invert},
		{"j", FocusNext},
		{"k", FocusPrev},
		{"z", ToggleExpandAll},
	}
	for _, tc := range cases {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tc.key)}
		if tc.key == "enter" {
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		}
		if got := Dispatch(km, msg); got != tc.want {
			t.Errorf("Dispatch(%q) = %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestDispatchUnboundKeyIsNone(t *testing.T) {
	km := DefaultKeyMap()
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("9")}
	if got := Dispatch(km, msg); got != None {
		t.Fatalf("Dispatch(9) = %v, want None", got)
	}
}
