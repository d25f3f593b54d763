package http

import "net/http"

type Server struct {
	mux      *http.ServeMux
	handlers *Handlers
}

func NewServer(svc TranscriptionService, maxSizeMB int, defaultLanguage, version string) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		handlers: NewHandlers(svc, maxSizeMB, defaultLanguage, version),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/transcribe", s.handlers.CreateJob())
	s.mux.HandleFunc("GET /api/jobs", s.handlers.ListJobs())
	s.mux.HandleFunc("GET /api/jobs/{id}", s.handlers.GetJob())
	s.mux.HandleFunc("GET /api/jobs/{id}/download", s.handlers.DownloadResult())
	s.mux.HandleFunc("DELETE /api/jobs/{id}", s.handlers.DeleteJob())
	s.mux.HandleFunc("GET /api/health", s.handlers.Health())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
