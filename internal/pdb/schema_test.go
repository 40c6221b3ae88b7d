package pdb

import (
	"strings"
	"testing"
)

func TestAtomSchema_Layout(t *testing.T) {
	if Atom.Len() != 19 {
		t.Fatalf("expected 19 columns, got %d", Atom.Len())
	}
	if Atom.Width() != 80 {
		t.Errorf("expected width 80, got %d", Atom.Width())
	}

	// The table is contiguous from 0 to 80.
	next := 0
	for i, c := range Atom.Columns() {
		if c.Start != next {
			t.Errorf("column %d: expected start %d, got %d", i, next, c.Start)
		}
		next = c.End
	}

	gap := Atom.At(16)
	if gap.Start != 66 || gap.End != 76 || !gap.IsGap() {
		t.Errorf("expected unlabeled gap at 66-76, got %+v", gap)
	}
	var unlabeled []string
	for _, c := range Atom.Columns() {
		if c.Label == "" {
			unlabeled = append(unlabeled, c.ID())
		}
	}
	want := []string{"field_11_12", "field_20_21", "field_27_30", "field_66_76"}
	if strings.Join(unlabeled, ",") != strings.Join(want, ",") {
		t.Errorf("expected unlabeled columns %v, got %v", want, unlabeled)
	}
	if got := len(Atom.Labeled()); got != Atom.Len()-len(want) {
		t.Errorf("expected %d labeled columns, got %d", Atom.Len()-len(want), got)
	}
}

func TestSchema_ColumnsReturnsCopy(t *testing.T) {
	cols := Atom.Columns()
	cols[0].Label = "mutated"
	if Atom.At(0).Label != "Record type" {
		t.Error("expected schema to be unaffected by changes to Columns() result")
	}
}

func TestSchema_ColumnAt(t *testing.T) {
	tests := []struct {
		offset int
		label  string
		ok     bool
	}{
		{0, "Record type", true},
		{5, "Record type", true},
		{6, "Atom serial number", true},
		{11, "", true},
		{77, "Element", true},
		{79, "Atom charge", true},
		{80, "", false},
		{-1, "", false},
	}
	for _, tt := range tests {
		c, ok := Atom.ColumnAt(tt.offset)
		if ok != tt.ok {
			t.Errorf("offset %d: expected ok=%v, got %v", tt.offset, tt.ok, ok)
			continue
		}
		if c.Label != tt.label {
			t.Errorf("offset %d: expected label %q, got %q", tt.offset, tt.label, c.Label)
		}
	}
}

func TestNewSchema_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cols    []ColumnSpec
		wantErr string
	}{
		{"empty range", []ColumnSpec{{Start: 3, End: 3}}, "not before end"},
		{"reversed range", []ColumnSpec{{Start: 5, End: 2}}, "not before end"},
		{"negative start", []ColumnSpec{{Start: -1, End: 2}}, "negative start"},
		{"overlap", []ColumnSpec{{Start: 0, End: 4}, {Start: 3, End: 6}}, "overlaps"},
		{"decreasing", []ColumnSpec{{Start: 4, End: 6}, {Start: 0, End: 2}}, "overlaps"},
		{"bad color", []ColumnSpec{{Start: 0, End: 2, Style: "pinkish"}}, "style"},
	}
	for _, tt := range tests {
		_, err := NewSchema(tt.cols...)
		if err == nil {
			t.Errorf("%s: expected error, got nil", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%s: expected error containing %q, got %v", tt.name, tt.wantErr, err)
		}
	}
}

func TestNewSchema_AllowsGaps(t *testing.T) {
	s, err := NewSchema(ColumnSpec{Start: 0, End: 2}, ColumnSpec{Start: 10, End: 12, Style: "#abc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Width() != 12 {
		t.Errorf("expected width 12, got %d", s.Width())
	}
}

func TestMustSchema_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid schema")
		}
	}()
	MustSchema(ColumnSpec{Start: 2, End: 1})
}

func TestColumnSpec_Helpers(t *testing.T) {
	c := ColumnSpec{Start: 30, End: 38, Style: "#CC66FF", Label: "X coordinate (angstrom)"}
	if c.Width() != 8 {
		t.Errorf("expected width 8, got %d", c.Width())
	}
	if c.IsGap() {
		t.Error("expected styled column not to be a gap")
	}
	if c.ID() != "field_30_38" {
		t.Errorf("expected id %q, got %q", "field_30_38", c.ID())
	}
}
