package api

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/dgallion1/pdbhighlight/internal/render"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const explanationMarkdown = `Highlight fields in a PDB document.

Paste ATOM or HETATM records below. Each fixed-width column gets its own
color; hover over a field to see what it holds. Columns follow the wwPDB
coordinate section layout, see https://www.wwpdb.org/documentation/file-format.
`

// ExampleText is shown in the input box on first load.
const ExampleText = `ATOM      3  N   ALA A  30      86.170  84.190  79.710  1.00  0.00           N
ATOM      4  H1  ALA A  30      86.670  83.830  80.500  1.00  0.00           H
ATOM      5  H2  ALA A  30      85.870  83.430  79.130  1.00  0.00           H
ATOM      6  H3  ALA A  30      86.770  84.790  79.180  1.00  0.00           H
ATOM      7  CA  ALA A  30      85.000  84.950  80.170  1.00  0.00           C
ATOM      8  CB  ALA A  30      83.940  85.410  79.160  1.00  0.00           C
ATOM      9  C   ALA A  30      84.270  84.000  81.120  1.00  0.00           C
ATOM     10  O   ALA A  30      84.010  82.840  80.780  1.00  0.00           O
ATOM     11  N   PRO A  31      83.880  84.460  82.310  1.00  0.00           N`

const placeholder = "ATOM      1  N   GLY A   3      17.119   0.186  36.320  1.00 64.10           N  "

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { margin: 0; font-family: system-ui, sans-serif; background: #f5f6f8; }
nav { display: flex; justify-content: space-between; align-items: center; padding: 12px 20px; background: #2c6fbb; }
nav a { color: #fff; text-decoration: none; }
nav .brand { font-size: 1.25rem; font-weight: 600; }
.explanation { margin: 20px; }
.card { margin: 20px; padding: 10px 20px 20px; background: #fff; border: 1px solid #dde1e6; border-radius: 4px; }
label { display: block; margin: 8px 0; }
textarea { width: 100%; box-sizing: border-box; font-family: monospace; }
button { margin: 10px 0; }
#output, .pdb-legend { font-family: monospace; }
.pdb-line { margin: 0; min-height: 1.2em; }
.pdb-line span[title] { cursor: help; }
.error { color: #b00020; }
footer { margin: 0 20px 20px; color: #6c757d; }
</style>
</head>
<body>
<nav><a class="brand" href="#">{{.Brand}}</a>{{if .SourceURL}}<a href="{{.SourceURL}}">Source</a>{{end}}</nav>
<div class="explanation">{{.Explanation}}</div>
<form class="card" method="post" action="/">
<h3>Input</h3>
{{if .Error}}<p class="error" role="alert">{{.Error}}</p>{{end}}
<label for="pdb-text">Text for highlighting (copy and paste text here)</label>
<textarea id="pdb-text" name="text" rows="10" placeholder="{{.Placeholder}}">
{{.Text}}</textarea>
<button type="submit" id="submit">Generate text</button>
</form>
<div class="card">
<h3>Highlighted</h3>
<label>Highlighted text (hover your cursor over text to see what fields they are)</label>
<div id="output">{{.Output}}</div>
<details><summary>Columns</summary>{{.Legend}}</details>
</div>
<footer>Columns are sliced by fixed byte offset; nothing is validated.</footer>
<script>
(function () {
  var input = document.getElementById("pdb-text");
  var output = document.getElementById("output");
  var timer;
  input.addEventListener("input", function () {
    clearTimeout(timer);
    timer = setTimeout(function () {
      fetch("/highlight", {method: "POST", headers: {"Content-Type": "text/plain"}, body: input.value})
        .then(function (r) { return r.ok ? r.text() : Promise.reject(r.status); })
        .then(function (html) { output.innerHTML = html; })
        .catch(function () {});
    }, 250);
  });
})();
</script>
</body>
</html>
`

type pageData struct {
	Title       string
	Brand       string
	SourceURL   string
	Explanation template.HTML
	Placeholder string
	Text        string
	Output      template.HTML
	Legend      template.HTML
	Error       string
}

func (s *Server) setupPage() error {
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return fmt.Errorf("parse page template: %w", err)
	}
	s.page = tmpl

	md := goldmark.New(
		goldmark.WithExtensions(extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	var buf bytes.Buffer
	if err := md.Convert([]byte(explanationMarkdown), &buf); err != nil {
		return fmt.Errorf("render explanation: %w", err)
	}
	s.explanation = template.HTML(buf.String())

	var legend strings.Builder
	if err := render.WriteLegendHTML(&legend, s.schema); err != nil {
		return err
	}
	s.legend = template.HTML(legend.String())
	return nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, ExampleText)
}

// handlePageSubmit serves the form post used when scripts are disabled.
// Errors are shown on the page rather than as JSON.
func (s *Server) handlePageSubmit(w http.ResponseWriter, r *http.Request) {
	text, err := readText(w, r, s.cfg.MaxTextBytes)
	if err != nil {
		msg, code := s.textError(err)
		s.log.Warn("page submit rejected", "status", code, "error", err)
		s.renderPageStatus(w, r, code, "", msg)
		return
	}
	s.renderPage(w, r, text)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, text string) {
	s.renderPageStatus(w, r, http.StatusOK, text, "")
}

func (s *Server) renderPageStatus(w http.ResponseWriter, r *http.Request, code int, text, errMsg string) {
	lines, err := s.annotate(r.Context(), text)
	if err != nil {
		http.Error(w, "annotation cancelled", http.StatusServiceUnavailable)
		return
	}
	output, err := render.HTML(lines)
	if err != nil {
		s.log.Error("render output failed", "error", err)
		http.Error(w, "failed to render output", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err = s.page.Execute(&buf, pageData{
		Title:       s.cfg.Title,
		Brand:       s.cfg.Brand,
		SourceURL:   s.cfg.SourceURL,
		Explanation: s.explanation,
		Placeholder: placeholder,
		Text:        text,
		Output:      template.HTML(output),
		Legend:      s.legend,
		Error:       errMsg,
	})
	if err != nil {
		s.log.Error("render page failed", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}
