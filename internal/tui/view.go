package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"scm-record/internal/layout"
)

var (
	styleFocused   = lipgloss.NewStyle().Reverse(true)
	styleHeader    = lipgloss.NewStyle().Bold(true)
	styleHelp      = lipgloss.NewStyle().Faint(true)
	styleDialogBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.vp.View())
	b.WriteByte('\n')
	b.WriteString(styleHelp.Render(m.helpLine()))

	body := b.String()
	if m.dialog != dialogNone {
		return overlayDialog(body, m.dialogView())
	}
	return body
}

// styleLine applies focus highlighting on top of l.Text. The add/remove
// diff color and any chroma syntax highlighting are already baked into
// l.Text by internal/layout, since truncation has to happen after
// styling to stay ANSI-aware (ansi.Truncate); only the header style and
// the cursor's reverse-video treatment are decided here.
func (m Model) styleLine(l layout.RenderLine) string {
	focused := l.Path == m.focus
	text := l.Text
	switch l.Kind {
	case layout.FileHeader, layout.SectionHeader:
		text = styleHeader.Render(text)
	}
	if focused && l.Focusable {
		return styleFocused.Render(text)
	}
	return text
}

func (m Model) helpLine() string {
	if m.readOnly {
		return "q quit  j/k move  tab expand"
	}
	return "q quit  c confirm  x toggle  enter toggle+advance  i invert  a all  tab expand  z expand-all"
}

func (m Model) dialogView() string {
	switch m.dialog {
	case dialogConfirmQuit:
		n := m.cs.DirtyFileCount()
		return styleDialogBox.Render(fmt.Sprintf(
			"Discard selections in %d file(s)?\n\n[y] discard   [n] stay", n))
	case dialogWriteError:
		return styleDialogBox.Render(fmt.Sprintf(
			"Failed to write %s:\n%s\n\n%s\n\n[enter] retry at path   [esc] abandon",
			m.writeErrPath, m.writeErrMsg, m.pathInput.View()))
	}
	return ""
}

// overlayDialog appends the dialog box below body after a blank line,
// matching the teacher's simple modal compositing approach (no true
// terminal-cell overlay, just a trailing block under the tree).
func overlayDialog(body, dialog string) string {
	return body + "\n\n" + dialog
}
