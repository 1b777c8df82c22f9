package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/lazyserp/CuraVie/internal/common"
)

type APIHandler struct {
	logger arbor.ILogger
	model  string
}

// NewAPIHandler creates the health and version handler; model is reported by the health check
func NewAPIHandler(logger arbor.ILogger, model string) *APIHandler {
	return &APIHandler{
		logger: logger,
		model:  model,
	}
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"name":       common.AppName,
		"version":    common.Version,
		"build":      common.Build,
		"git_commit": common.GitCommit,
	})
}

// HealthHandler returns health check status
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"model":  h.model,
	})
}

// NotFoundHandler handles 404 errors with JSON response
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"status": "error",
		"error":  "Error: Not Found",
		"path":   r.URL.Path,
	})
}
