// Command pdbhl highlights the columns of PDB records in the terminal.
//
//	pdbhl [-view] [-legend] [-color auto|always|never] [file]
//
// With no file, records are read from standard input.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dgallion1/pdbhighlight/internal/input"
	"github.com/dgallion1/pdbhighlight/internal/pdb"
	"github.com/dgallion1/pdbhighlight/internal/render"
	"github.com/dgallion1/pdbhighlight/internal/viewer"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

func main() {
	view := flag.Bool("view", false, "open the interactive viewer")
	legend := flag.Bool("legend", false, "print the column legend and exit")
	color := flag.String("color", "auto", "color output: auto, always or never")
	noFallback := flag.Bool("no-pdftotext", false, "do not fall back to pdftotext for PDF input")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] [file]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "file types: %s (others are read as text)\n", strings.Join(input.SupportedExtensions(), " "))
		flag.PrintDefaults()
	}
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	r, err := newRenderer(os.Stdout, *color)
	if err != nil {
		log.Error("invalid flag", "error", err)
		flag.Usage()
		os.Exit(2)
	}

	if *legend {
		fmt.Fprint(os.Stdout, render.NewTerminal(r).Legend(pdb.Atom))
		return
	}

	text, err := readInput(flag.Arg(0), !*noFallback)
	if err != nil {
		log.Error("read input", "error", err)
		os.Exit(1)
	}

	if *view {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			log.Error("-view needs a terminal on stdout")
			os.Exit(1)
		}
		p := tea.NewProgram(viewer.New(text, pdb.Atom, r), tea.WithAltScreen(), tea.WithInputTTY())
		if _, err := p.Run(); err != nil {
			log.Error("viewer", "error", err)
			os.Exit(1)
		}
		return
	}

	out := render.NewTerminal(r).Document(pdb.AnnotateDocument(text, pdb.Atom))
	fmt.Fprintln(os.Stdout, out)
}

// newRenderer picks the color profile for mode. auto keeps lipgloss's
// detection, which turns colors off when w is not a terminal.
func newRenderer(w io.Writer, mode string) (*lipgloss.Renderer, error) {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case "auto":
		if f, ok := w.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
			r.SetColorProfile(termenv.Ascii)
		}
	case "always":
		r.SetColorProfile(termenv.TrueColor)
	case "never":
		r.SetColorProfile(termenv.Ascii)
	default:
		return nil, fmt.Errorf("unknown color mode %q", mode)
	}
	return r, nil
}

// readInput extracts text from path, or reads stdin verbatim when path is
// empty or "-".
func readInput(path string, pdfFallback bool) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	ext, err := input.ForFile(path)
	if err != nil {
		if errors.Is(err, input.ErrUnsupported) {
			// Unknown extensions are treated as plain text.
			ext = &input.TextExtractor{}
		} else {
			return "", err
		}
	}
	if pe, ok := ext.(*input.PDFExtractor); ok {
		pe.FallbackPdftotext = pdfFallback
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return ext.Extract(bytes.NewReader(data), path)
}
