package pdb

import (
	"context"
	"strings"
	"sync"
)

// Segment is one column's slice of a line, tagged with the column's metadata.
type Segment struct {
	Text  string `json:"text"`
	Style string `json:"style"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// IsGap reports whether the segment came from a spacer column.
func (s Segment) IsGap() bool { return s.Style == "" && s.Label == "" }

// ID returns the identifier of the column that produced the segment.
func (s Segment) ID() string {
	return ColumnSpec{Start: s.Start, End: s.End}.ID()
}

// AnnotateLine slices line by every column of the schema, in order.
// It returns exactly schema.Len() segments. Ranges past the end of the line
// yield partial or empty text. Bytes outside every column are not represented.
func AnnotateLine(line string, schema Schema) []Segment {
	segs := make([]Segment, len(schema.cols))
	for i, c := range schema.cols {
		segs[i] = Segment{
			Text:  slice(line, c.Start, c.End),
			Style: c.Style,
			Label: c.Label,
			Start: c.Start,
			End:   c.End,
		}
	}
	return segs
}

func slice(s string, start, end int) string {
	if start >= len(s) {
		return ""
	}
	if end > len(s) {
		end = len(s)
	}
	return s[start:end]
}

// SplitLines splits text on "\n" and drops one trailing "\r" from each line.
// Empty text is a single empty line; a trailing newline produces a trailing
// empty line.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// AnnotateDocument annotates every line of text independently, in order.
func AnnotateDocument(text string, schema Schema) [][]Segment {
	lines := SplitLines(text)
	out := make([][]Segment, len(lines))
	for i, l := range lines {
		out[i] = AnnotateLine(l, schema)
	}
	return out
}

// AnnotateDocumentParallel produces the same result as AnnotateDocument using
// up to workers goroutines. It stops early and returns ctx.Err() if ctx is
// cancelled.
func AnnotateDocumentParallel(ctx context.Context, text string, schema Schema, workers int) ([][]Segment, error) {
	lines := SplitLines(text)
	out := make([][]Segment, len(lines))

	if workers <= 1 {
		for i, l := range lines {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out[i] = AnnotateLine(l, schema)
		}
		return out, nil
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, l := range lines {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		}
		wg.Add(1)
		go func(i int, l string) {
			defer wg.Done()
			defer func() { <-sem }()
			out[i] = AnnotateLine(l, schema)
		}(i, l)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Text concatenates the text of the segments.
func Text(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}
