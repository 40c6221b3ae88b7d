// Package viewer is an interactive terminal pager for annotated records.
// The status line describes the column under the cursor, standing in for
// the hover tooltips of the web page.
package viewer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dgallion1/pdbhighlight/internal/pdb"
	"github.com/dgallion1/pdbhighlight/internal/render"
	"github.com/mattn/go-runewidth"
)

// Model is the bubbletea model for the viewer.
type Model struct {
	schema pdb.Schema
	lines  []string
	segs   [][]pdb.Segment
	r      *lipgloss.Renderer
	term   *render.Terminal

	statusStyle lipgloss.Style
	cursorStyle lipgloss.Style

	row, col int
	top      int
	width    int
	height   int
}

// New builds a viewer over text. r decides the color profile of the output.
func New(text string, schema pdb.Schema, r *lipgloss.Renderer) Model {
	return Model{
		schema:      schema,
		lines:       pdb.SplitLines(text),
		segs:        pdb.AnnotateDocument(text, schema),
		r:           r,
		term:        render.NewTerminal(r),
		statusStyle: r.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")),
		cursorStyle: r.NewStyle().Reverse(true),
		width:       80,
		height:      24,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.scroll()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.row--
		case "down", "j":
			m.row++
		case "left", "h":
			m.col = m.stepLeft()
		case "right", "l":
			m.col = m.stepRight()
		case "pgup", "ctrl+b":
			m.row -= m.pageSize()
		case "pgdown", "ctrl+f", " ":
			m.row += m.pageSize()
		case "home", "0":
			m.col = 0
		case "end", "$":
			m.col = max(len(m.lines[m.row]), m.schema.Width()) - 1
		case "g":
			m.row = 0
		case "G":
			m.row = len(m.lines) - 1
		case "tab":
			m.col = m.nextColumn(m.col)
		case "shift+tab":
			m.col = m.prevColumn(m.col)
		}
		m.clamp()
		m.scroll()
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	end := min(m.top+m.pageSize(), len(m.lines))
	for i := m.top; i < end; i++ {
		var line string
		if i == m.row {
			line = m.cursorLine(i)
		} else {
			line = m.term.Line(m.segs[i])
		}
		b.WriteString(m.r.NewStyle().MaxWidth(m.width).Render(line))
		b.WriteByte('\n')
	}
	for i := end - m.top; i < m.pageSize(); i++ {
		b.WriteByte('\n')
	}
	b.WriteString(m.statusStyle.Render(runewidth.FillRight(runewidth.Truncate(m.Status(), m.width, "…"), m.width)))
	return b.String()
}

// Status describes the cursor position and the column under it.
func (m Model) Status() string {
	pos := fmt.Sprintf("Ln %d, Col %d", m.row+1, m.col+1)
	c, ok := m.schema.ColumnAt(m.col)
	switch {
	case !ok:
		return pos + "  (outside schema)"
	case c.Label == "":
		return fmt.Sprintf("%s  (gap) [%d-%d]", pos, c.Start+1, c.End)
	default:
		return fmt.Sprintf("%s  %s [%d-%d]", pos, c.Label, c.Start+1, c.End)
	}
}

// Cursor returns the 0-based line and byte offset of the cursor.
func (m Model) Cursor() (row, col int) { return m.row, m.col }

// cursorLine renders line i with the cursor cell reversed. The cursor may
// sit past the end of a short line, in which case a blank cell is drawn.
func (m Model) cursorLine(i int) string {
	var b strings.Builder
	drawn := false
	for _, s := range m.segs[i] {
		if m.col < s.Start || m.col >= s.Start+len(s.Text) {
			b.WriteString(m.term.Line([]pdb.Segment{s}))
			continue
		}
		off := m.col - s.Start
		_, size := utf8.DecodeRuneInString(s.Text[off:])
		before, cell, after := s, s, s
		before.Text = s.Text[:off]
		cell.Text = s.Text[off : off+size]
		after.Text = s.Text[off+size:]
		b.WriteString(m.term.Line([]pdb.Segment{before}))
		b.WriteString(m.cursorStyle.Render(cell.Text))
		b.WriteString(m.term.Line([]pdb.Segment{after}))
		drawn = true
	}
	if !drawn {
		covered := len(pdb.Text(m.segs[i]))
		b.WriteString(strings.Repeat(" ", max(m.col-covered, 0)))
		b.WriteString(m.cursorStyle.Render(" "))
	}
	return b.String()
}

func (m Model) pageSize() int {
	return max(m.height-1, 1)
}

// clamp keeps the cursor inside the document and on the first byte of a rune.
func (m *Model) clamp() {
	m.row = max(min(m.row, len(m.lines)-1), 0)
	m.col = max(min(m.col, max(len(m.lines[m.row]), m.schema.Width())-1), 0)
	line := m.lines[m.row]
	for m.col > 0 && m.col < len(line) && !utf8.RuneStart(line[m.col]) {
		m.col--
	}
}

func (m Model) stepRight() int {
	line := m.lines[m.row]
	if m.col < len(line) {
		_, size := utf8.DecodeRuneInString(line[m.col:])
		return m.col + size
	}
	return m.col + 1
}

func (m Model) stepLeft() int {
	line := m.lines[m.row]
	if m.col > 0 && m.col <= len(line) {
		_, size := utf8.DecodeLastRuneInString(line[:m.col])
		return m.col - size
	}
	return m.col - 1
}

func (m *Model) scroll() {
	if m.row < m.top {
		m.top = m.row
	}
	if m.row >= m.top+m.pageSize() {
		m.top = m.row - m.pageSize() + 1
	}
}

func (m Model) nextColumn(col int) int {
	for _, c := range m.schema.Labeled() {
		if c.Start > col {
			return c.Start
		}
	}
	return col
}

func (m Model) prevColumn(col int) int {
	cur := col
	if c, ok := m.schema.ColumnAt(col); ok {
		cur = c.Start
	}
	labeled := m.schema.Labeled()
	for i := len(labeled) - 1; i >= 0; i-- {
		if labeled[i].Start < cur {
			return labeled[i].Start
		}
	}
	return col
}
