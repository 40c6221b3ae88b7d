package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/pdbhighlight/internal/input"
)

// handleUpload highlights an uploaded file. Extraction depends on the file
// extension; format=html returns a fragment instead of JSON.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		if isMaxBytes(err) {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !input.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %q (supported: %s)",
			filepath.Ext(filename), strings.Join(input.SupportedExtensions(), ", ")), http.StatusUnsupportedMediaType)
		return
	}
	extractor, err := input.ForFile(filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	}
	if pe, ok := extractor.(*input.PDFExtractor); ok {
		pe.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	text, err := extractor.Extract(bytes.NewReader(data), filename)
	if err != nil {
		s.log.Warn("extract failed", "filename", filename, "error", err)
		jsonError(w, "failed to extract text: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if r.FormValue("format") == "html" {
		s.writeFragment(w, r, text)
		return
	}

	lines, err := s.annotate(r.Context(), text)
	if err != nil {
		jsonError(w, "annotation cancelled: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"filename":   filename,
		"line_count": len(lines),
		"lines":      lines,
	})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
