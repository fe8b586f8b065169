// Package input maps terminal key events to the fixed command table of
// spec.md section 4.5. It owns no state; Dispatch is a pure function from
// a KeyMap and a tea.KeyMsg to a Command.
package input

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"
)

// Command is one entry of the fixed key->command table in spec.md section
// 4.5.
type Command int

const (
	None Command = iota
	Quit
	Confirm
	ToggleExpand
	ToggleExpandAll
	FocusNext
	FocusPrev
	FocusNextSameKind
	FocusPrevSameKind
	Toggle
	ToggleAndAdvance
	Invert
	ToggleAllUniform
	ScrollLineUp
	ScrollLineDown
	ScrollPageUp
	ScrollPageDown
	ScrollHalfPageUp
	ScrollHalfPageDown
)

// KeyMap binds every Command to one or more keys, following the teacher's
// key.Binding idiom (internal/app/keymap.go), generalized to cover the
// whole spec.md section 4.5 table (the teacher's own keymap.go only bound
// a handful of commands used by its file/diff panes).
type KeyMap struct {
	Quit                key.Binding
	Confirm             key.Binding
	ToggleExpand        key.Binding
	ToggleExpandAll     key.Binding
	FocusNext           key.Binding
	FocusPrev           key.Binding
	FocusNextSameKind   key.Binding
	FocusPrevSameKind   key.Binding
	Toggle              key.Binding
	ToggleAndAdvance    key.Binding
	Invert              key.Binding
	ToggleAllUniform    key.Binding
	ScrollLineUp        key.Binding
	ScrollLineDown      key.Binding
	ScrollPageUp        key.Binding
	ScrollPageDown      key.Binding
	ScrollHalfPageUp    key.Binding
	ScrollHalfPageDown  key.Binding
	Help                key.Binding
}

// DefaultKeyMap mirrors ui.rs's Event::from<crossterm::event::Event> key
// table (q=quit, c=confirm, x=toggle, enter=toggle-and-advance,
// space/tab=expand, i=invert, a=toggle all uniformly, ctrl+y/ctrl+e=scroll
// line, ctrl+b/ctrl+u=page/half-page, etc.), adapted to bubbletea's key
// names; see Dispatch for why Space is not the toggle key here.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:               key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Confirm:            key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "confirm and exit")),
		ToggleExpand:       key.NewBinding(key.WithKeys(" ", "tab"), key.WithHelp("tab", "expand/collapse")),
		ToggleExpandAll:    key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "expand/collapse all")),
		FocusNext:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "next")),
		FocusPrev:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "prev")),
		FocusNextSameKind:  key.NewBinding(key.WithKeys("right", "l")),
		FocusPrevSameKind:  key.NewBinding(key.WithKeys("left", "h")),
		Toggle:             key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle")),
		ToggleAndAdvance:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "toggle and advance")),
		Invert:             key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "invert all")),
		ToggleAllUniform:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle all")),
		ScrollLineUp:       key.NewBinding(key.WithKeys("ctrl+y")),
		ScrollLineDown:     key.NewBinding(key.WithKeys("ctrl+e")),
		ScrollPageUp:       key.NewBinding(key.WithKeys("ctrl+b", "pgup")),
		ScrollPageDown:     key.NewBinding(key.WithKeys("ctrl+f", "pgdown")),
		ScrollHalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		ScrollHalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Help:               key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// commandNames maps the stable, external name of each rebindable command
// (used by on-disk config) to the KeyMap field it controls.
var commandNames = map[string]func(*KeyMap) *key.Binding{
	"quit":                  func(km *KeyMap) *key.Binding { return &km.Quit },
	"confirm":               func(km *KeyMap) *key.Binding { return &km.Confirm },
	"toggle_expand":         func(km *KeyMap) *key.Binding { return &km.ToggleExpand },
	"toggle_expand_all":     func(km *KeyMap) *key.Binding { return &km.ToggleExpandAll },
	"focus_next":            func(km *KeyMap) *key.Binding { return &km.FocusNext },
	"focus_prev":            func(km *KeyMap) *key.Binding { return &km.FocusPrev },
	"focus_next_same_kind":  func(km *KeyMap) *key.Binding { return &km.FocusNextSameKind },
	"focus_prev_same_kind":  func(km *KeyMap) *key.Binding { return &km.FocusPrevSameKind },
	"toggle":                func(km *KeyMap) *key.Binding { return &km.Toggle },
	"toggle_and_advance":    func(km *KeyMap) *key.Binding { return &km.ToggleAndAdvance },
	"invert":                func(km *KeyMap) *key.Binding { return &km.Invert },
	"toggle_all_uniform":    func(km *KeyMap) *key.Binding { return &km.ToggleAllUniform },
	"scroll_line_up":        func(km *KeyMap) *key.Binding { return &km.ScrollLineUp },
	"scroll_line_down":      func(km *KeyMap) *key.Binding { return &km.ScrollLineDown },
	"scroll_page_up":        func(km *KeyMap) *key.Binding { return &km.ScrollPageUp },
	"scroll_page_down":      func(km *KeyMap) *key.Binding { return &km.ScrollPageDown },
	"scroll_half_page_up":   func(km *KeyMap) *key.Binding { return &km.ScrollHalfPageUp },
	"scroll_half_page_down": func(km *KeyMap) *key.Binding { return &km.ScrollHalfPageDown },
	"help":                  func(km *KeyMap) *key.Binding { return &km.Help },
}

// IsCommandName reports whether name is a recognized rebindable command.
func IsCommandName(name string) bool {
	_, ok := commandNames[name]
	return ok
}

// Rebind adds key to the named command's binding, alongside its existing
// keys. A call for an unrecognized name is a no-op.
func (km *KeyMap) Rebind(name, newKey string) {
	field, ok := commandNames[name]
	if !ok {
		return
	}
	b := field(km)
	keys := append(append([]string{}, b.Keys()...), newKey)
	*b = key.NewBinding(key.WithKeys(keys...), key.WithHelp(b.Help().Key, b.Help().Desc))
}

// Dispatch maps a key message to the command it triggers, or None if the
// key is not bound. The ToggleExpand binding also carries Space per
// ui.rs, which doubles as the Toggle key there; this rewrite keeps Space
// and Tab on ToggleExpand and reserves a distinct key ("x") for Toggle so
// the two commands do not collide in a key.Binding-driven dispatch table.
func Dispatch(km KeyMap, msg tea.KeyMsg) Command {
	switch {
	case key.Matches(msg, km.Quit):
		return Quit
	case key.Matches(msg, km.Confirm):
		return Confirm
	case key.Matches(msg, km.ToggleAndAdvance):
		return ToggleAndAdvance
	case key.Matches(msg, km.Toggle):
		return Toggle
	case key.Matches(msg, km.ToggleExpand):
		return ToggleExpand
	case key.Matches(msg, km.ToggleExpandAll):
		return ToggleExpandAll
	case key.Matches(msg, km.Invert):
		return Invert
	case key.Matches(msg, km.ToggleAllUniform):
		return ToggleAllUniform
	case key.Matches(msg, km.ScrollLineUp):
		return ScrollLineUp
	case key.Matches(msg, km.ScrollLineDown):
		return ScrollLineDown
	case key.Matches(msg, km.ScrollPageUp):
		return ScrollPageUp
	case key.Matches(msg, km.ScrollPageDown):
		return ScrollPageDown
	case key.Matches(msg, km.ScrollHalfPageUp):
		return ScrollHalfPageUp
	case key.Matches(msg, km.ScrollHalfPageDown):
		return ScrollHalfPageDown
	case key.Matches(msg, km.FocusNext):
		return FocusNext
	case key.Matches(msg, km.FocusPrev):
		return FocusPrev
	case key.Matches(msg, km.FocusNextSameKind):
		return FocusNextSameKind
	case key.Matches(msg, km.FocusPrevSameKind):
		return FocusPrevSameKind
	default:
		return None
	}
}
