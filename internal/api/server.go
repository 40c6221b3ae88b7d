package api

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dgallion1/pdbhighlight/internal/config"
	"github.com/dgallion1/pdbhighlight/internal/pdb"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP server for the highlighter page and API.
type Server struct {
	router chi.Router
	schema pdb.Schema
	log    *slog.Logger
	cfg    config.Config

	page        *template.Template
	explanation template.HTML
	legend      template.HTML
}

// NewServer creates and configures the HTTP server.
func NewServer(schema pdb.Schema, log *slog.Logger, cfg config.Config) (*Server, error) {
	s := &Server{
		schema: schema,
		log:    log,
		cfg:    cfg,
	}
	if err := s.setupPage(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Get("/", s.handlePage)
	r.Post("/", s.handlePageSubmit)
	r.Post("/highlight", s.handleHighlight)

	r.Route("/api", func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Get("/schema", s.handleSchema)
		r.Post("/annotate", s.handleAnnotate)
		r.Post("/highlight", s.handleHighlight)
		r.Post("/upload", s.handleUpload)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// annotate switches to the parallel annotator for large documents.
func (s *Server) annotate(ctx context.Context, text string) ([][]pdb.Segment, error) {
	if strings.Count(text, "\n")+1 > s.cfg.ParallelLineThreshold {
		return pdb.AnnotateDocumentParallel(ctx, text, s.schema, s.cfg.Workers)
	}
	return pdb.AnnotateDocument(text, s.schema), nil
}
