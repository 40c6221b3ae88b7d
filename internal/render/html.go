package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/pdbhighlight/internal/pdb"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// LineNode builds a <p> holding one <span> per segment. n is the 1-based
// line number, used to keep element ids unique within a page.
func LineNode(n int, segs []pdb.Segment) *html.Node {
	p := element(atom.P, html.Attribute{Key: "class", Val: "pdb-line"})
	for _, s := range segs {
		attrs := []html.Attribute{
			{Key: "class", Val: s.ID()},
			{Key: "id", Val: fmt.Sprintf("L%d-%s", n, s.ID())},
			{Key: "style", Val: spanStyle(s.Style)},
		}
		if s.Label != "" {
			attrs = append(attrs,
				html.Attribute{Key: "title", Val: s.Label},
				html.Attribute{Key: "data-label", Val: s.Label},
			)
		}
		span := element(atom.Span, attrs...)
		if s.Text != "" {
			span.AppendChild(&html.Node{Type: html.TextNode, Data: s.Text})
		}
		p.AppendChild(span)
	}
	return p
}

// DocumentNode wraps the rendered lines in a <div class="pdb-output">.
func DocumentNode(lines [][]pdb.Segment) *html.Node {
	div := element(atom.Div, html.Attribute{Key: "class", Val: "pdb-output"})
	for i, segs := range lines {
		div.AppendChild(LineNode(i+1, segs))
	}
	return div
}

// WriteHTML renders the annotated document as an HTML fragment.
func WriteHTML(w io.Writer, lines [][]pdb.Segment) error {
	if err := html.Render(w, DocumentNode(lines)); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// HTML is WriteHTML into a string.
func HTML(lines [][]pdb.Segment) (string, error) {
	var b strings.Builder
	if err := WriteHTML(&b, lines); err != nil {
		return "", err
	}
	return b.String(), nil
}

// LegendNode builds a table listing every labeled column of the schema.
func LegendNode(schema pdb.Schema) *html.Node {
	table := element(atom.Table, html.Attribute{Key: "class", Val: "pdb-legend"})
	for _, c := range schema.Labeled() {
		tr := element(atom.Tr)

		cols := element(atom.Td, html.Attribute{Key: "class", Val: "pdb-legend-range"})
		cols.AppendChild(text(columnRange(c)))
		tr.AppendChild(cols)

		swatch := element(atom.Td, html.Attribute{Key: "style", Val: spanStyle(c.Style)})
		swatch.AppendChild(text(strings.Repeat(" ", 4)))
		tr.AppendChild(swatch)

		label := element(atom.Td)
		label.AppendChild(text(c.Label))
		tr.AppendChild(label)

		table.AppendChild(tr)
	}
	return table
}

// WriteLegendHTML renders LegendNode.
func WriteLegendHTML(w io.Writer, schema pdb.Schema) error {
	if err := html.Render(w, LegendNode(schema)); err != nil {
		return fmt.Errorf("render legend: %w", err)
	}
	return nil
}

func spanStyle(color string) string {
	if color == "" {
		return "white-space: pre"
	}
	return "white-space: pre; background-color: " + color
}

// columnRange formats a column as 1-based inclusive positions, the way the
// PDB format documentation numbers columns.
func columnRange(c pdb.ColumnSpec) string {
	if c.Width() == 1 {
		return fmt.Sprintf("%d", c.End)
	}
	return fmt.Sprintf("%d-%d", c.Start+1, c.End)
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
