package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgallion1/pdbhighlight/internal/pdb"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// Terminal renders annotated lines with ANSI background colors.
type Terminal struct {
	r *lipgloss.Renderer
}

// NewTerminal creates a terminal renderer. The renderer's color profile
// decides whether escape sequences are emitted at all.
func NewTerminal(r *lipgloss.Renderer) *Terminal {
	return &Terminal{r: r}
}

// Style returns the style used for a segment with the given background.
// Whitespace and tabs are left untouched.
func (t *Terminal) Style(color string) lipgloss.Style {
	st := t.r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	if color == "" {
		return st
	}
	return st.Background(lipgloss.Color(color)).Foreground(lipgloss.Color(Foreground(color)))
}

// Line renders one annotated line.
func (t *Terminal) Line(segs []pdb.Segment) string {
	var b strings.Builder
	for _, s := range segs {
		if s.Text == "" {
			continue
		}
		if s.Style == "" {
			b.WriteString(s.Text)
			continue
		}
		b.WriteString(t.Style(s.Style).Render(s.Text))
	}
	return b.String()
}

// Document renders every line, separated by newlines.
func (t *Terminal) Document(lines [][]pdb.Segment) string {
	out := make([]string, len(lines))
	for i, segs := range lines {
		out[i] = t.Line(segs)
	}
	return strings.Join(out, "\n")
}

// Legend lists the labeled columns with a color swatch.
func (t *Terminal) Legend(schema pdb.Schema) string {
	labeled := schema.Labeled()
	width := 0
	for _, c := range labeled {
		width = max(width, runewidth.StringWidth(columnRange(c)))
	}

	var b strings.Builder
	for _, c := range labeled {
		swatch := "  "
		if c.Style != "" {
			swatch = t.Style(c.Style).Render("  ")
		}
		fmt.Fprintf(&b, "%s %s %s\n", runewidth.FillLeft(columnRange(c), width), swatch, c.Label)
	}
	return b.String()
}

// Foreground picks black or white text for legibility on the background.
// Unparseable colors get black.
func Foreground(bg string) string {
	c, err := colorful.Hex(bg)
	if err != nil {
		return "#000000"
	}
	r, g, b := c.LinearRgb()
	if 0.2126*r+0.7152*g+0.0722*b > 0.179 {
		return "#000000"
	}
	return "#FFFFFF"
}
