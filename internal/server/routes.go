package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Reports
	mux.HandleFunc("/api/reports", s.app.ReportHandler.GenerateHandler)      // POST - worker JSON in, PDF out
	mux.HandleFunc("/api/reports/prompt", s.app.ReportHandler.PromptHandler) // POST - compiled prompt only

	// API routes - System
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/config", s.app.ConfigHandler.GetConfig)

	// Prometheus scrape endpoint
	mux.Handle("/metrics", s.app.Metrics.Handler())

	// 404 handler for unmatched API routes
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}
