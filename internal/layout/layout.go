// Package layout implements the layout engine (spec.md section 4.4): it
// turns a ChangeSet plus its expansion/focus state into a flat list of
// RenderLine records ready to be styled and paged by the TUI controller.
package layout

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"scm-record/internal/record"
)

// NumContextLines is the number of Unchanged lines shown at each end of an
// expanded Unchanged section longer than 2*NumContextLines+1 lines, around
// the elision marker; a collapsed Unchanged section renders only its
// one-line header (ui.rs NUM_CONTEXT_LINES, carried over per SPEC_FULL.md
// section 5).
const NumContextLines = 3

// styleAdded and styleRemoved are the diff-wide fallback colors for
// changed lines: the marker is always colored this way, and so is the
// line's content when no chroma lexer matched the file (or it produced
// no tokens).
var (
	styleAdded   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleRemoved = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// LineKind tags the shape of one rendered row.
type LineKind int

const (
	FileHeader LineKind = iota
	SectionHeader
	UnchangedLine
	RemovedLine
	AddedLine
	ModeLine
	BinaryLine
	Blank
)

// RenderLine is one screen row: its kind, the model path it originates
// from (for focus/click mapping), and its already width-clamped text.
type RenderLine struct {
	Kind      LineKind
	Path      record.Path
	Text      string
	Focusable bool
	Tristate  record.Tristate
}

// Options configures rendering: the viewport width and glyph set. Syntax
// highlighting is driven by each file's own path (see highlightLexer), not a
// single process-wide language; Filename overrides that per-file
// detection for callers rendering a single synthetic file with no real
// path (e.g. a standalone demo reading one diff from stdin).
type Options struct {
	Cols     int
	Unicode  bool
	Filename string
}

// checkboxGlyph renders the tri-state + focus combination as a checkbox,
// matching ui.rs's TristateBox glyph table. Parenthesized glyphs mark the
// focused row; an unfocused row gets the bare glyph (square-bracketed in
// ASCII mode, unbracketed in Unicode mode).
func checkboxGlyph(t record.Tristate, focused, unicode bool) string {
	type pair struct{ plain, focused string }
	ascii := map[record.Tristate]pair{
		record.TristateNone:    {"[ ]", "( )"},
		record.TristatePartial: {"[~]", "(~)"},
		record.TristateAll:     {"[x]", "(x)"},
	}
	uni := map[record.Tristate]pair{
		record.TristateNone:    {"☐", "(☐)"},
		record.TristatePartial: {"◐", "(◐)"},
		record.TristateAll:     {"☑", "(☑)"},
	}
	table := ascii
	if unicode {
		table = uni
	}
	p := table[t]
	if focused {
		return p.focused
	}
	return p.plain
}

func truncate(s string, cols int) string {
	if cols <= 0 {
		return ""
	}
	return ansi.Truncate(s, cols, "…")
}

func highlightLexer(filename string) chroma.Lexer {
	if filename == "" {
		return nil
	}
	lexer := lexers.Match(filename)
	if lexer == nil {
		return nil
	}
	return chroma.Coalesce(lexer)
}

// tokenStyle maps a chroma token type to a lipgloss color. Grounded on
// _examples/fwojciec-diffstory/chroma/tokenizer.go's tokenStyle, adapted
// from that package's diffview.Style to lipgloss and from hex colors to
// ANSI indices (the 256-color palette the rest of this package uses).
func tokenStyle(tt chroma.TokenType) lipgloss.Style {
	switch tt {
	case chroma.Keyword, chroma.KeywordConstant, chroma.KeywordDeclaration,
		chroma.KeywordNamespace, chroma.KeywordPseudo, chroma.KeywordReserved,
		chroma.KeywordType:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)

	case chroma.Comment, chroma.CommentHashbang, chroma.CommentMultiline,
		chroma.CommentPreproc, chroma.CommentPreprocFile, chroma.CommentSingle,
		chroma.CommentSpecial:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	case chroma.String, chroma.StringAffix, chroma.StringBacktick, chroma.StringChar,
		chroma.StringDelimiter, chroma.StringDoc, chroma.StringDouble,
		chroma.StringEscape, chroma.StringHeredoc, chroma.StringInterpol,
		chroma.StringOther, chroma.StringRegex, chroma.StringSingle,
		chroma.StringSymbol:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	case chroma.Number, chroma.NumberBin, chroma.NumberFloat, chroma.NumberHex,
		chroma.NumberInteger, chroma.NumberIntegerLong, chroma.NumberOct:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	case chroma.Operator, chroma.OperatorWord:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	case chroma.NameBuiltin, chroma.NameBuiltinPseudo:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	case chroma.NameFunction, chroma.NameFunctionMagic:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("4"))

	case chroma.Name, chroma.NameAttribute, chroma.NameClass, chroma.NameConstant,
		chroma.NameDecorator, chroma.NameEntity, chroma.NameException,
		chroma.NameLabel, chroma.NameNamespace, chroma.NameOther,
		chroma.NameProperty, chroma.NameTag, chroma.NameVariable,
		chroma.NameVariableAnonymous, chroma.NameVariableClass,
		chroma.NameVariableGlobal, chroma.NameVariableInstance,
		chroma.NameVariableMagic:
		return lipgloss.NewStyle()

	default:
		return lipgloss.NewStyle()
	}
}

// renderContent runs lexer over line and re-assembles it with each token
// colored by tokenStyle; with no lexer match (or no tokens), it falls back
// to rendering the whole line with fallback, which for a changed line is
// its add/remove color. Invoked per changed and unchanged line from
// renderSection/renderUnchanged, so the result is what actually reaches
// the viewport, not a discarded byproduct.
func renderContent(lexer chroma.Lexer, line string, fallback lipgloss.Style) string {
	if lexer == nil || line == "" {
		return fallback.Render(line)
	}
	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return fallback.Render(line)
	}
	var b strings.Builder
	any := false
	for tok := iterator(); tok != chroma.EOF; tok = iterator() {
		b.WriteString(tokenStyle(tok.Type).Render(tok.Value))
		any = true
	}
	if !any {
		return fallback.Render(line)
	}
	return b.String()
}

// Build computes the full flat RenderLine list for the current model and
// expansion state (spec.md section 4.4).
func Build(cs *record.ChangeSet, exp *record.Expansion, focus record.Path, opts Options) []RenderLine {
	var lines []RenderLine

	for fi := range cs.Files {
		f := &cs.Files[fi]
		fp := record.FilePath(fi)
		header := fileHeaderText(f)
		lines = append(lines, RenderLine{
			Kind: FileHeader, Path: fp, Focusable: true,
			Text:     truncate(fmt.Sprintf("%s %s", checkboxGlyph(f.Tristate(), focus == fp, opts.Unicode), header), opts.Cols),
			Tristate: f.Tristate(),
		})
		if !exp.FileExpanded(fi) {
			continue
		}
		name := opts.Filename
		if name == "" {
			name = header
		}
		lexer := highlightLexer(name)
		for si := range f.Sections {
			s := &f.Sections[si]
			sp := record.SectionPath(fi, si)
			expanded := exp.SectionExpanded(fi, si, s.Kind)
			lines = append(lines, renderSection(s, fi, si, sp, expanded, focus, opts, lexer)...)
		}
	}
	return lines
}

func fileHeaderText(f *record.FileChange) string {
	switch {
	case f.HasOldPath && f.HasPath && f.OldPath != f.Path:
		return fmt.Sprintf("%s -> %s", f.OldPath, f.Path)
	case f.HasPath:
		return f.Path
	case f.HasOldPath:
		return f.OldPath
	default:
		return "(unknown)"
	}
}

func renderSection(s *record.Section, fi, si int, sp record.Path, expanded bool, focus record.Path, opts Options, lexer chroma.Lexer) []RenderLine {
	switch s.Kind {
	case record.SectionUnchanged:
		return renderUnchanged(s, sp, expanded, opts, lexer)

	case record.SectionChanged:
		out := []RenderLine{{
			Kind: SectionHeader, Path: sp, Focusable: true,
			Text:     truncate(fmt.Sprintf("%s changed lines", checkboxGlyph(s.Tristate(), focus == sp, opts.Unicode)), opts.Cols),
			Tristate: s.Tristate(),
		}}
		if !expanded {
			return out
		}
		for li, line := range s.ChangedLines {
			lp := record.LinePath(fi, si, li)
			kind := RemovedLine
			diffStyle := styleRemoved
			marker := "-"
			if line.ChangeType == record.Added {
				kind = AddedLine
				diffStyle = styleAdded
				marker = "+"
			}
			t := record.TristateNone
			if line.Toggled {
				t = record.TristateAll
			}
			content := renderContent(lexer, strings.TrimSuffix(line.Line, "\n"), diffStyle)
			prefix := fmt.Sprintf("%s %s ", checkboxGlyph(t, focus == lp, opts.Unicode), diffStyle.Render(marker))
			out = append(out, RenderLine{
				Kind: kind, Path: lp, Focusable: true,
				Text:     truncate(prefix+content, opts.Cols),
				Tristate: t,
			})
		}
		return out

	case record.SectionFileMode:
		out := []RenderLine{{
			Kind: SectionHeader, Path: sp, Focusable: true,
			Text:     truncate(fmt.Sprintf("%s file mode changed", checkboxGlyph(s.Tristate(), focus == sp, opts.Unicode)), opts.Cols),
			Tristate: s.Tristate(),
		}}
		if !expanded {
			return out
		}
		out = append(out,
			RenderLine{Kind: ModeLine, Path: sp, Text: truncate(fmt.Sprintf("before: %s", formatMode(s.BeforeMode)), opts.Cols)},
			RenderLine{Kind: ModeLine, Path: sp, Text: truncate(fmt.Sprintf("after:  %s", formatMode(s.AfterMode)), opts.Cols)},
		)
		return out

	case record.SectionBinary:
		return []RenderLine{{
			Kind: BinaryLine, Path: sp, Focusable: true,
			Text:     truncate(fmt.Sprintf("%s binary contents changed", checkboxGlyph(s.Tristate(), focus == sp, opts.Unicode)), opts.Cols),
			Tristate: s.Tristate(),
		}}
	}
	return nil
}

func renderUnchanged(s *record.Section, sp record.Path, expanded bool, opts Options, lexer chroma.Lexer) []RenderLine {
	n := len(s.Lines)
	contextLine := func(l string) RenderLine {
		content := renderContent(lexer, strings.TrimSuffix(l, "\n"), lipgloss.NewStyle())
		return RenderLine{Kind: UnchangedLine, Path: sp, Text: truncate("  "+content, opts.Cols)}
	}
	if !expanded {
		ellipsis := "..."
		if opts.Unicode {
			ellipsis = "⋮"
		}
		return []RenderLine{{
			Kind: SectionHeader, Path: sp,
			Text: truncate(fmt.Sprintf("%s %d unchanged line(s)", ellipsis, n), opts.Cols),
		}}
	}
	if n <= 2*NumContextLines+1 {
		out := make([]RenderLine, 0, n)
		for _, l := range s.Lines {
			out = append(out, contextLine(l))
		}
		return out
	}
	var out []RenderLine
	for _, l := range s.Lines[:NumContextLines] {
		out = append(out, contextLine(l))
	}
	elided := n - 2*NumContextLines
	ellipsis := "..."
	if opts.Unicode {
		ellipsis = "⋮"
	}
	out = append(out, RenderLine{Kind: Blank, Path: sp, Text: truncate(fmt.Sprintf("%s %d line(s) hidden", ellipsis, elided), opts.Cols)})
	for _, l := range s.Lines[n-NumContextLines:] {
		out = append(out, contextLine(l))
	}
	return out
}

func formatMode(m record.FileMode) string {
	if m.Absent() {
		return "absent"
	}
	return fmt.Sprintf("%o", uint32(m))
}
