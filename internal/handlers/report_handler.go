package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"

	"github.com/lazyserp/CuraVie/internal/interfaces"
	"github.com/lazyserp/CuraVie/internal/models"
	"github.com/lazyserp/CuraVie/internal/services/llm"
	"github.com/lazyserp/CuraVie/internal/services/report"
	"github.com/lazyserp/CuraVie/internal/services/workers"
)

// ReportHandler delivers health reports for worker aggregates posted as JSON
type ReportHandler struct {
	reports   *report.Service
	configSvc interfaces.ConfigService
	logger    arbor.ILogger
}

func NewReportHandler(reports *report.Service, configSvc interfaces.ConfigService, logger arbor.ILogger) *ReportHandler {
	return &ReportHandler{
		reports:   reports,
		configSvc: configSvc,
		logger:    logger,
	}
}

// GenerateHandler handles POST /api/reports.
// Success streams the PDF; any failure is a JSON ErrorResponse and never a partial document.
func (h *ReportHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	worker, ok := h.decodeWorker(w, r)
	if !ok {
		return
	}

	result, err := h.reports.Generate(r.Context(), worker)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	doc := result.Document
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	w.Header().Set("Content-Length", strconv.FormatInt(doc.Size, 10))
	w.Header().Set("X-Report-ID", result.ReportID)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, doc.Content); err != nil {
		h.logger.Warn().
			Str("report_id", result.ReportID).
			Err(err).
			Msg("Client went away during report download")
	}
}

// PromptHandler handles POST /api/reports/prompt and returns the prompt that
// would be sent for the posted worker, without generating anything.
func (h *ReportHandler) PromptHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	worker, ok := h.decodeWorker(w, r)
	if !ok {
		return
	}

	prompt, err := h.reports.Prompt(worker)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, prompt)
}

func (h *ReportHandler) decodeWorker(w http.ResponseWriter, r *http.Request) (*models.Worker, bool) {
	if limit := h.configSvc.GetMaxBodyBytes(); limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "Error: Worker record is too large.")
			return nil, false
		}
		WriteError(w, http.StatusBadRequest, "Error: Could not read the request body.")
		return nil, false
	}

	worker, err := workers.Decode(data, workers.FormatJSON)
	if err != nil {
		h.logger.Debug().Err(err).Msg("Rejected worker record")
		WriteError(w, http.StatusBadRequest, "Error: Invalid worker record: "+err.Error())
		return nil, false
	}
	return worker, true
}

func (h *ReportHandler) writeFailure(w http.ResponseWriter, err error) {
	var failure *report.Failure
	if !errors.As(err, &failure) {
		h.logger.Error().Err(err).Msg("Unexpected report error")
		WriteError(w, http.StatusInternalServerError, "Error: The health report could not be generated.")
		return
	}

	resp := ErrorResponse{
		Status:   "error",
		Error:    failure.UserMessage(),
		Stage:    string(failure.Stage),
		ReportID: failure.ReportID,
	}
	if errors.Is(err, report.ErrProfileMissing) {
		resp.Redirect = h.configSvc.GetProfileURL()
	}

	WriteJSON(w, statusForFailure(failure), resp)
}

func statusForFailure(failure *report.Failure) int {
	var genErr *llm.GenerationError
	switch {
	case errors.Is(failure, report.ErrProfileMissing):
		return http.StatusUnprocessableEntity
	case errors.As(failure, &genErr) && genErr.Kind == llm.KindTimeout:
		return http.StatusGatewayTimeout
	case errors.As(failure, &genErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
