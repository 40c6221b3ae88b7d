package pdb

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// ColumnSpec describes one fixed-width field of a record line.
type ColumnSpec struct {
	Start int    // inclusive byte offset
	End   int    // exclusive byte offset
	Style string // hex background color, empty for no highlight
	Label string // human-readable description, empty for no tooltip
}

// Width returns the number of bytes the column spans.
func (c ColumnSpec) Width() int { return c.End - c.Start }

// IsGap reports whether the column only consumes spacer bytes.
func (c ColumnSpec) IsGap() bool { return c.Style == "" && c.Label == "" }

// ID returns a stable identifier derived from the column range.
func (c ColumnSpec) ID() string { return fmt.Sprintf("field_%d_%d", c.Start, c.End) }

// Schema is an ordered, immutable set of columns. Order is left-to-right.
type Schema struct {
	cols []ColumnSpec
}

// NewSchema validates the columns and returns a Schema holding a copy of them.
func NewSchema(cols ...ColumnSpec) (Schema, error) {
	prevEnd := 0
	for i, c := range cols {
		if c.Start < 0 {
			return Schema{}, fmt.Errorf("column %d: negative start %d", i, c.Start)
		}
		if c.Start >= c.End {
			return Schema{}, fmt.Errorf("column %d: start %d not before end %d", i, c.Start, c.End)
		}
		if c.Start < prevEnd {
			return Schema{}, fmt.Errorf("column %d: range %d-%d overlaps previous column ending at %d", i, c.Start, c.End, prevEnd)
		}
		if c.Style != "" {
			if _, err := colorful.Hex(c.Style); err != nil {
				return Schema{}, fmt.Errorf("column %d: style %q: %w", i, c.Style, err)
			}
		}
		prevEnd = c.End
	}
	return Schema{cols: append([]ColumnSpec(nil), cols...)}, nil
}

// MustSchema is like NewSchema but panics on an invalid table.
func MustSchema(cols ...ColumnSpec) Schema {
	s, err := NewSchema(cols...)
	if err != nil {
		panic("pdb: " + err.Error())
	}
	return s
}

// Len returns the number of columns.
func (s Schema) Len() int { return len(s.cols) }

// At returns the i-th column.
func (s Schema) At(i int) ColumnSpec { return s.cols[i] }

// Columns returns a copy of the columns in declaration order.
func (s Schema) Columns() []ColumnSpec {
	return append([]ColumnSpec(nil), s.cols...)
}

// Labeled returns the columns that carry a description.
func (s Schema) Labeled() []ColumnSpec {
	var out []ColumnSpec
	for _, c := range s.cols {
		if c.Label != "" {
			out = append(out, c)
		}
	}
	return out
}

// Width returns the largest end offset in the schema.
func (s Schema) Width() int {
	w := 0
	for _, c := range s.cols {
		if c.End > w {
			w = c.End
		}
	}
	return w
}

// ColumnAt returns the column covering the byte offset, if any.
func (s Schema) ColumnAt(offset int) (ColumnSpec, bool) {
	for _, c := range s.cols {
		if offset >= c.Start && offset < c.End {
			return c, true
		}
	}
	return ColumnSpec{}, false
}

// Atom is the column layout of a PDB ATOM/HETATM record line.
// Bytes 66-76 are left as an unlabeled gap.
var Atom = MustSchema(
	ColumnSpec{Start: 0, End: 6, Style: "#E6E6FF", Label: "Record type"},
	ColumnSpec{Start: 6, End: 11, Style: "#FF7979", Label: "Atom serial number"},
	ColumnSpec{Start: 11, End: 12},
	ColumnSpec{Start: 12, End: 16, Style: "#FFAFAF", Label: "Atom name"},
	ColumnSpec{Start: 16, End: 17, Label: "Alternate location indicator"},
	ColumnSpec{Start: 17, End: 20, Style: "#FFC179", Label: "Residue name"},
	ColumnSpec{Start: 20, End: 21},
	ColumnSpec{Start: 21, End: 22, Label: "Chain identifier"},
	ColumnSpec{Start: 22, End: 26, Style: "#FFD7A8", Label: "Residue sequence number"},
	ColumnSpec{Start: 26, End: 27, Label: "Insertion code"},
	ColumnSpec{Start: 27, End: 30},
	ColumnSpec{Start: 30, End: 38, Style: "#CC66FF", Label: "X coordinate (angstrom)"},
	ColumnSpec{Start: 38, End: 46, Style: "#FF99FF", Label: "Y coordinate (angstrom)"},
	ColumnSpec{Start: 46, End: 54, Style: "#E699FF", Label: "Z coordinate (angstrom)"},
	ColumnSpec{Start: 54, End: 60, Style: "#66FF99", Label: "Occupancy"},
	ColumnSpec{Start: 60, End: 66, Style: "#A3EDA3", Label: "Temperature factor"},
	ColumnSpec{Start: 66, End: 76},
	ColumnSpec{Start: 76, End: 78, Style: "#B2C2F0", Label: "Element"},
	ColumnSpec{Start: 78, End: 80, Style: "#5882FA", Label: "Atom charge"},
)
