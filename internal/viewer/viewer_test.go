package viewer

import (
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dgallion1/pdbhighlight/internal/pdb"
	"github.com/muesli/termenv"
)

const doc = "ATOM      3  N   ALA A  30      86.170  84.190  79.710  1.00  0.00           N\n" +
	"ATOM      4  H1  ALA A  30      86.670  83.830  80.500  1.00  0.00           H\n" +
	"\n" +
	"ATOM      5"

func newModel() Model {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	return New(doc, pdb.Atom, r)
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStatus_DescribesColumnUnderCursor(t *testing.T) {
	m := newModel()
	if got := m.Status(); got != "Ln 1, Col 1  Record type [1-6]" {
		t.Errorf("unexpected status %q", got)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.Status(); got != "Ln 1, Col 7  Atom serial number [7-11]" {
		t.Errorf("unexpected status after tab %q", got)
	}

	m = press(t, m, runes("l"), runes("l"), runes("l"), runes("l"), runes("l"))
	if got := m.Status(); got != "Ln 1, Col 12  (gap) [12-12]" {
		t.Errorf("unexpected status on gap %q", got)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	if got := m.Status(); got != "Ln 1, Col 80  Atom charge [79-80]" {
		t.Errorf("unexpected status at end %q", got)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := m.Status(); got != "Ln 1, Col 77  Element [77-78]" {
		t.Errorf("unexpected status after shift+tab %q", got)
	}
}

func TestUpdate_Clamps(t *testing.T) {
	m := newModel()
	m = press(t, m, runes("k"), runes("h"))
	if row, col := m.Cursor(); row != 0 || col != 0 {
		t.Errorf("expected cursor at 0,0, got %d,%d", row, col)
	}

	m = press(t, m, runes("G"), runes("j"), runes("j"))
	if row, _ := m.Cursor(); row != 3 {
		t.Errorf("expected last row 3, got %d", row)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnd}, runes("l"))
	if _, col := m.Cursor(); col != 79 {
		t.Errorf("expected column clamped to 79, got %d", col)
	}

	m = press(t, m, runes("g"), tea.KeyMsg{Type: tea.KeyHome})
	if row, col := m.Cursor(); row != 0 || col != 0 {
		t.Errorf("expected cursor back at 0,0, got %d,%d", row, col)
	}
}

func TestUpdate_Quit(t *testing.T) {
	m := newModel()
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestView_RendersLinesAndStatus(t *testing.T) {
	m := newModel()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 6})
	m = next.(Model)

	out := m.View()
	rows := strings.Split(out, "\n")
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows, got %d: %q", len(rows), out)
	}
	if rows[0] != strings.SplitN(doc, "\n", 2)[0] {
		t.Errorf("expected cursor line text preserved, got %q", rows[0])
	}
	if rows[1] != strings.Split(doc, "\n")[1] {
		t.Errorf("unexpected second row %q", rows[1])
	}
	if rows[3] != "ATOM      5" {
		t.Errorf("unexpected short row %q", rows[3])
	}
	if !strings.HasPrefix(rows[5], "Ln 1, Col 1  Record type [1-6]") {
		t.Errorf("unexpected status row %q", rows[5])
	}
	if len(rows[5]) != 100 {
		t.Errorf("expected status padded to 100, got %d", len(rows[5]))
	}
}

func TestView_ScrollsWithCursor(t *testing.T) {
	m := newModel()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 3})
	m = press(t, next.(Model), runes("G"))

	rows := strings.Split(m.View(), "\n")
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[1] != "ATOM      5" {
		t.Errorf("expected last line visible at bottom, got %q", rows[1])
	}
	if !strings.HasPrefix(rows[2], "Ln 4, Col 1") {
		t.Errorf("unexpected status %q", rows[2])
	}
}

func TestCursor_MovesByRune(t *testing.T) {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	text := "HETATM    1  N   \u00c5b  A\nATOM      2  N   ALA A"
	m := New(text, pdb.Atom, r)

	tab := tea.KeyMsg{Type: tea.KeyTab}
	m = press(t, m, tab, tab, tab, tab)
	if row, col := m.Cursor(); row != 0 || col != 17 {
		t.Fatalf("expected cursor at 0,17, got %d,%d", row, col)
	}
	if line := m.cursorLine(0); !utf8.ValidString(line) || !strings.Contains(line, "\u00c5b") {
		t.Errorf("expected cursor cell to keep the whole rune, got %q", line)
	}

	m = press(t, m, runes("l"))
	if _, col := m.Cursor(); col != 19 {
		t.Errorf("expected right to skip the rest of the rune, got col %d", col)
	}
	m = press(t, m, runes("h"))
	if _, col := m.Cursor(); col != 17 {
		t.Errorf("expected left to land on the rune start, got col %d", col)
	}

	// Col 18 is inside the rune on the first line.
	m = press(t, m, runes("j"), runes("l"), runes("k"))
	if row, col := m.Cursor(); row != 0 || col != 17 {
		t.Errorf("expected cursor snapped to 0,17, got %d,%d", row, col)
	}
}
