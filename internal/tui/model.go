// Package tui implements the TUI controller (spec.md section 4.6): the
// bubbletea event loop that owns focus, expansion, viewport scroll, and
// the confirm-quit/write-error dialog stack. Structured after the
// teacher's internal/app.Model (NewModel/Init/Update/View), generalized
// from a file/diff/comments pane layout to scm-record's single scrollable
// change tree.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"scm-record/internal/input"
	"scm-record/internal/layout"
	"scm-record/internal/record"
)

// Mode distinguishes interactive recording from read-only diff viewing
// (spec.md section 6, library entry point).
type Mode int

const (
	ModeRecord Mode = iota
	ModeDiffViewOnly
)

// OutcomeKind is one of the two terminal outcomes (Accepted, Discarded),
// a failure case the Go rewrite surfaces structurally instead of via a
// panic/unwind (Failed), the write-error dialog's Retry, or Running while
// the loop is still active.
type OutcomeKind int

const (
	Running OutcomeKind = iota
	Accepted
	Discarded
	Failed
	Retry
)

// Outcome is what Model.Outcome reports to the host once the event loop
// exits.
// RetryPath is only meaningful when Kind is Retry: the host should
// re-attempt its failed write at that path and re-enter the loop (via
// ShowWriteError again on renewed failure) rather than exiting.
type Outcome struct {
	Kind      OutcomeKind
	ChangeSet *record.ChangeSet
	Err       error
	RetryPath string
}

type dialogKind int

const (
	dialogNone dialogKind = iota
	dialogConfirmQuit
	dialogWriteError
)

// Model is the bubbletea state container for one recording session. The
// scrollable tree is rendered through a bubbles/viewport.Model, matching
// the teacher's own use of viewport for its scrolling diff pane
// (internal/app/model.go); this package owns the semantic notion of
// "focus row" on top of it, since viewport itself knows nothing about
// RenderLine/Path.
type Model struct {
	cs       *record.ChangeSet
	exp      *record.Expansion
	focus    record.Path
	keys     input.KeyMap
	mode     Mode
	readOnly bool
	unicode  bool

	vp viewport.Model

	dialog       dialogKind
	writeErrPath string
	writeErrMsg  string
	pathInput    textinput.Model

	outcome Outcome
}

// New constructs a controller over cs. readOnly disables all toggle and
// confirm commands (spec.md section 6, --read-only).
func New(cs *record.ChangeSet, mode Mode, readOnly bool, unicode bool) Model {
	exp := record.NewExpansion()
	focus, _ := record.FirstSelectionKey(cs, exp)
	ti := textinput.New()
	ti.Prompt = "path: "
	return Model{
		cs: cs, exp: exp, focus: focus,
		keys: input.DefaultKeyMap(),
		mode: mode, readOnly: readOnly || mode == ModeDiffViewOnly,
		unicode: unicode,
		vp:      viewport.New(0, 0),
		pathInput: ti,
		outcome: Outcome{Kind: Running},
	}
}

// WithKeyMap overrides the controller's default key bindings, for a host
// that has loaded config.AppConfig.KeyOverrides.
func (m Model) WithKeyMap(km input.KeyMap) Model {
	m.keys = km
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Outcome returns the session's terminal outcome; valid once the program
// loop has exited (m.outcome.Kind != Running).
func (m Model) Outcome() Outcome {
	return m.outcome
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.vp.Width = msg.Width
		m.vp.Height = msg.Height - 1 // reserve one row for the status/help line
		if m.vp.Height < 1 {
			m.vp.Height = 1
		}
		m.syncViewportContent()
		m.reconcileViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.dialog != dialogNone {
		return m.handleDialogKey(msg)
	}

	cmd := input.Dispatch(m.keys, msg)
	switch cmd {
	case input.Quit:
		return m.handleQuit()

	case input.Confirm:
		if m.readOnly {
			return m, nil
		}
		m.outcome = Outcome{Kind: Accepted, ChangeSet: m.cs}
		return m, tea.Quit

	case input.ToggleExpand:
		m.toggleExpandFocus()

	case input.ToggleExpandAll:
		m.exp.ToggleExpandAll(m.cs)
		m.resolveFocusVisible()

	case input.FocusNext:
		m.focus = record.SelectNext(m.focusList(), m.focus)
	case input.FocusPrev:
		m.focus = record.SelectPrev(m.focusList(), m.focus)

	case input.FocusNextSameKind, input.FocusPrevSameKind:
		// Not yet implemented; treated as a no-op per spec.md section 9.

	case input.Toggle:
		if !m.readOnly {
			_ = m.cs.Toggle(m.focus)
		}
	case input.ToggleAndAdvance:
		if !m.readOnly {
			_ = m.cs.Toggle(m.focus)
		}
		m.focus = m.advanceSameKind()

	case input.Invert:
		if !m.readOnly {
			m.cs.Invert()
		}
	case input.ToggleAllUniform:
		if !m.readOnly {
			m.cs.ToggleAllUniform()
		}

	case input.ScrollLineUp:
		m.vp.LineUp(1)
	case input.ScrollLineDown:
		m.vp.LineDown(1)
	case input.ScrollPageUp:
		m.vp.ViewUp()
	case input.ScrollPageDown:
		m.vp.ViewDown()
	case input.ScrollHalfPageUp:
		m.scrollHalfPage(-1)
	case input.ScrollHalfPageDown:
		m.scrollHalfPage(1)
	}

	m.syncViewportContent()
	m.reconcileViewport()
	return m, nil
}

func (m *Model) handleQuit() (tea.Model, tea.Cmd) {
	if m.mode == ModeRecord && m.cs.DirtyFileCount() > 0 {
		m.dialog = dialogConfirmQuit
		return *m, nil
	}
	m.outcome = Outcome{Kind: Discarded}
	return *m, tea.Quit
}

func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.dialog {
	case dialogConfirmQuit:
		switch msg.String() {
		case "y", "enter":
			m.outcome = Outcome{Kind: Discarded}
			return m, tea.Quit
		case "n", "esc", "q":
			m.dialog = dialogNone
		}
	case dialogWriteError:
		switch msg.Type {
		case tea.KeyEnter:
			m.outcome = Outcome{Kind: Retry, ChangeSet: m.cs, RetryPath: m.pathInput.Value()}
			return m, tea.Quit
		case tea.KeyEsc:
			m.outcome = Outcome{Kind: Failed, Err: fmt.Errorf("write failed: %s: %s", m.writeErrPath, m.writeErrMsg)}
			return m, tea.Quit
		default:
			var cmd tea.Cmd
			m.pathInput, cmd = m.pathInput.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// ShowWriteError pushes the write-error dialog onto the controller, for
// use by a diff-editor front-end that re-enters the loop after a failed
// write (spec.md section 4.8). The failing path is preloaded into the
// dialog's editable text field so the user can retry at a corrected path.
func (m *Model) ShowWriteError(path string, err error) {
	m.dialog = dialogWriteError
	m.writeErrPath = path
	m.writeErrMsg = err.Error()
	m.pathInput.SetValue(path)
	m.pathInput.CursorEnd()
	m.pathInput.Focus()
}

// RetryPath returns the (possibly user-edited) path to retry the write at,
// valid after the write-error dialog has been dismissed with enter.
func (m Model) RetryPath() string {
	return m.pathInput.Value()
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	row := m.vp.YOffset + msg.Y
	lines := m.renderLines()
	if row < 0 || row >= len(lines) {
		return m, nil
	}
	line := lines[row]
	if !line.Focusable {
		return m, nil
	}
	m.focus = line.Path
	if line.Path.IsLine() || line.Kind == layout.BinaryLine || line.Kind == layout.ModeLine {
		if !m.readOnly {
			_ = m.cs.Toggle(line.Path)
		}
	} else {
		m.toggleExpandFocus()
	}
	m.syncViewportContent()
	m.reconcileViewport()
	return m, nil
}

func (m *Model) toggleExpandFocus() {
	switch {
	case m.focus.IsFile():
		m.exp.ToggleFile(m.focus.FileIndex)
	case m.focus.IsSection():
		f := &m.cs.Files[m.focus.FileIndex]
		m.exp.ToggleSection(m.focus.FileIndex, m.focus.SectionIndex, f.Sections[m.focus.SectionIndex].Kind)
	}
	m.resolveFocusVisible()
}

func (m *Model) resolveFocusVisible() {
	m.focus = record.ResolveVisible(m.focusList(), m.focus)
}

func (m *Model) focusList() []record.Path {
	return record.FocusList(m.cs, m.exp)
}

// advanceSameKind implements toggle-and-advance's "stay at the same
// selection kind" behavior (ui.rs advance_to_next_of_kind), distinct from
// the unimplemented standalone focus-next-same-kind/focus-prev-same-kind
// commands.
func (m *Model) advanceSameKind() record.Path {
	keys := m.focusList()
	i := record.FindSelection(keys, m.focus)
	if i < 0 {
		return m.focus
	}
	wantLine := m.focus.IsLine()
	wantSection := m.focus.IsSection()
	for j := i + 1; j < len(keys); j++ {
		if (wantLine && keys[j].IsLine()) || (wantSection && keys[j].IsSection()) || (!wantLine && !wantSection && keys[j].IsFile()) {
			return keys[j]
		}
	}
	return m.focus
}

// scrollHalfPage moves the viewport and focus together by height/2 lines
// such that the focus remains at the same screen row (spec.md section
// 4.5, scroll-half-page-up/down).
func (m *Model) scrollHalfPage(dir int) {
	half := m.vp.Height / 2
	if half < 1 {
		half = 1
	}
	lines := m.renderLines()
	curRow := rowOf(lines, m.focus)
	if dir < 0 {
		m.vp.LineUp(half)
	} else {
		m.vp.LineDown(half)
	}
	targetRow := curRow + dir*half
	if targetRow >= 0 && targetRow < len(lines) {
		for _, l := range lines[targetRow:] {
			if l.Focusable {
				m.focus = l.Path
				break
			}
		}
	}
}

func rowOf(lines []layout.RenderLine, p record.Path) int {
	for i, l := range lines {
		if l.Path == p {
			return i
		}
	}
	return 0
}

// reconcileViewport restores invariant 3: the focus row must lie within
// the viewport's visible window.
func (m *Model) reconcileViewport() {
	lines := m.renderLines()
	row := rowOf(lines, m.focus)
	switch {
	case row < m.vp.YOffset:
		m.vp.YOffset = row
	case row >= m.vp.YOffset+m.vp.Height:
		m.vp.YOffset = row - m.vp.Height + 1
	}
	if m.vp.YOffset < 0 {
		m.vp.YOffset = 0
	}
}

func (m Model) renderLines() []layout.RenderLine {
	return layout.Build(m.cs, m.exp, m.focus, layout.Options{
		Cols: max(1, m.vp.Width), Unicode: m.unicode,
	})
}

// syncViewportContent re-renders the model into the viewport's content
// buffer; called after any mutation that can change the line count or
// styling (toggles, expansion, resize).
func (m *Model) syncViewportContent() {
	lines := m.renderLines()
	rendered := make([]string, len(lines))
	for i, l := range lines {
		rendered[i] = m.styleLine(l)
	}
	m.vp.SetContent(strings.Join(rendered, "\n"))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
