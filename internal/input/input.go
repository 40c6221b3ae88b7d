package input

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// Extractor pulls the raw record text out of an uploaded file.
type Extractor interface {
	Extract(r io.Reader, filename string) (string, error)
}

// ErrUnsupported is returned by ForFile for unknown extensions.
var ErrUnsupported = errors.New("unsupported file extension")

// extractors maps a lowercase file extension to a constructor for its
// extractor. ForFile returns a fresh value on every call.
var extractors = map[string]func() Extractor{
	".pdb":      func() Extractor { return &TextExtractor{} },
	".ent":      func() Extractor { return &TextExtractor{} },
	".txt":      func() Extractor { return &TextExtractor{} },
	".md":       func() Extractor { return &MarkdownExtractor{} },
	".markdown": func() Extractor { return &MarkdownExtractor{} },
	".html":     func() Extractor { return &HTMLExtractor{} },
	".htm":      func() Extractor { return &HTMLExtractor{} },
	".pdf":      func() Extractor { return &PDFExtractor{} },
	".docx":     func() Extractor { return &DOCXExtractor{} },
}

// ForFile returns the extractor for a filename.
func ForFile(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	newExtractor, ok := extractors[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	return newExtractor(), nil
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	_, ok := extractors[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// SupportedExtensions returns the supported extensions, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extractors))
	for ext := range extractors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// TextExtractor returns the file contents verbatim.
type TextExtractor struct{}

func (e *TextExtractor) Extract(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filename, err)
	}
	return string(data), nil
}
