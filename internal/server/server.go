package server

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tipenter/tipenter/internal/batch"
	"github.com/tipenter/tipenter/internal/export"
)

// Processor is the pipeline contract the server depends on.
type Processor interface {
	Process(ctx context.Context, files []batch.NormalizedFile, opts batch.ProcessOptions) (*batch.Batch, error)
	Estimate(n int) time.Duration
}

// Server handles HTTP requests for receipt batches
type Server struct {
	processor Processor
	store     batch.Store
	printer   export.Printer
	basicAuth BasicAuth
	mux       *http.ServeMux
}

// BasicAuth holds basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

// NewServer creates a new Server with default mux
func NewServer(processor Processor, store batch.Store, printer export.Printer, basicAuth BasicAuth) *Server {
	return NewServerWithMux(processor, store, printer, basicAuth, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(processor Processor, store batch.Store, printer export.Printer, basicAuth BasicAuth, mux *http.ServeMux) *Server {
	s := &Server{
		processor: processor,
		store:     store,
		printer:   printer,
		basicAuth: basicAuth,
		mux:       mux,
	}
	s.registerRoutes()
	return s
}

// authenticate checks basic auth credentials and returns the authenticated
// username. With no credentials configured every request passes with no
// user identity.
func (s *Server) authenticate(r *http.Request) (string, bool) {
	if s.basicAuth.Username == "" && s.basicAuth.Password == "" {
		return "", true
	}

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Basic ") {
		return "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
	if err != nil {
		return "", false
	}

	credentials := strings.SplitN(string(decoded), ":", 2)
	if len(credentials) != 2 {
		return "", false
	}

	if credentials[0] != s.basicAuth.Username || credentials[1] != s.basicAuth.Password {
		return "", false
	}
	return credentials[0], true
}

// corsMiddleware adds CORS headers to responses
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

// requireAuth middleware
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.authenticate(r); !ok {
			setCORSHeaders(w)
			w.Header().Set("WWW-Authenticate", `Basic realm="TipEnter"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// registerRoutes registers all API routes on the server's mux
// Routes must be registered from most specific to least specific to avoid conflicts
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/batches/{id}/files/{index}", s.requireAuth(s.handleGetBatchFile))
	s.mux.HandleFunc("GET /api/batches/{id}/print/{index}", s.requireAuth(s.handlePrintBatchFile))
	s.mux.HandleFunc("GET /api/batches/{id}/export", s.requireAuth(s.handleExportBatch))
	s.mux.HandleFunc("GET /api/batches/{id}", s.requireAuth(s.handleGetBatch))
	s.mux.HandleFunc("GET /api/batches", s.requireAuth(s.handleListBatches))
	s.mux.HandleFunc("POST /api/batches", s.requireAuth(s.handleProcessBatch))

	s.mux.Handle("GET /metrics", promhttp.Handler())
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	return http.ListenAndServe(addr, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			s.mux.ServeHTTP(w, r)
		})(w, r)
	}))
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
