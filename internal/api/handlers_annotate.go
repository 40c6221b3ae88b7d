package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/dgallion1/pdbhighlight/internal/render"
)

type annotateRequest struct {
	Text string `json:"text"`
}

type columnResponse struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Style string `json:"style"`
	Label string `json:"label"`
	Gap   bool   `json:"gap"`
}

// errTooLarge marks input rejected for exceeding MaxTextBytes.
var errTooLarge = errors.New("input too large")

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	cols := make([]columnResponse, 0, s.schema.Len())
	for _, c := range s.schema.Columns() {
		cols = append(cols, columnResponse{
			Start: c.Start,
			End:   c.End,
			Style: c.Style,
			Label: c.Label,
			Gap:   c.IsGap(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"columns": cols})
}

// handleAnnotate returns the segments of every line as JSON.
func (s *Server) handleAnnotate(w http.ResponseWriter, r *http.Request) {
	text, ok := s.requestText(w, r)
	if !ok {
		return
	}
	lines, err := s.annotate(r.Context(), text)
	if err != nil {
		jsonError(w, "annotation cancelled: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"line_count": len(lines),
		"lines":      lines,
	})
}

// handleHighlight returns the highlighted lines as an HTML fragment.
func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	text, ok := s.requestText(w, r)
	if !ok {
		return
	}
	s.writeFragment(w, r, text)
}

func (s *Server) writeFragment(w http.ResponseWriter, r *http.Request, text string) {
	lines, err := s.annotate(r.Context(), text)
	if err != nil {
		jsonError(w, "annotation cancelled: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	frag, err := render.HTML(lines)
	if err != nil {
		s.log.Error("render fragment failed", "error", err)
		jsonError(w, "failed to render output", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, frag)
}

// requestText reads the document from a JSON body ({"text": ...}), a form
// field named text, or a raw text body. It writes the error response itself.
func (s *Server) requestText(w http.ResponseWriter, r *http.Request) (string, bool) {
	text, err := readText(w, r, s.cfg.MaxTextBytes)
	if err != nil {
		msg, code := s.textError(err)
		jsonError(w, msg, code)
		return "", false
	}
	return text, true
}

// textError maps a readText failure to a message and status code.
func (s *Server) textError(err error) (string, int) {
	if errors.Is(err, errTooLarge) {
		return fmt.Sprintf("text exceeds max size (%d bytes)", s.cfg.MaxTextBytes), http.StatusRequestEntityTooLarge
	}
	return err.Error(), http.StatusBadRequest
}

func readText(w http.ResponseWriter, r *http.Request, limit int64) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	// JSON and form bodies carry overhead beyond the text itself.
	r.Body = http.MaxBytesReader(w, r.Body, limit+64*1024)

	var text string
	switch mediaType {
	case "application/json":
		var req annotateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if isMaxBytes(err) {
				return "", errTooLarge
			}
			return "", fmt.Errorf("invalid json body: %w", err)
		}
		text = req.Text
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(limit); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			if isMaxBytes(err) {
				return "", errTooLarge
			}
			return "", fmt.Errorf("invalid form body: %w", err)
		}
		text = r.FormValue("text")
	default:
		data, err := io.ReadAll(r.Body)
		if err != nil {
			if isMaxBytes(err) {
				return "", errTooLarge
			}
			return "", fmt.Errorf("read body: %w", err)
		}
		text = string(data)
	}

	if int64(len(text)) > limit {
		return "", errTooLarge
	}
	return text, nil
}

func isMaxBytes(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
