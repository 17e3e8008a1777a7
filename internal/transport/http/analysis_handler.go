// Package http exposes the analysis engine over a JSON API. The handlers
// own no analysis logic; they validate requests, invoke the service and
// render its output or its error verbatim.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apperrors "mdacli/internal/errors"
	"mdacli/internal/files"
	"mdacli/internal/services"
)

// AnalysisHandler handles analysis requests.
type AnalysisHandler struct {
	service   *services.AnalysisService
	discovery *files.Discovery
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewAnalysisHandler creates an analysis handler.
func NewAnalysisHandler(service *services.AnalysisService, discovery *files.Discovery, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service:   service,
		discovery: discovery,
		validate:  validator.New(),
		logger:    logger.With(slog.String("component", "analysis_handler")),
	}
}

// Routes returns the analysis routes.
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/analysis", h.RunAnalysis)
	r.Get("/reports", h.ListReports)
	return r
}

// RunAnalysis executes one analysis request and renders the chart.
func (h *AnalysisHandler) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	var req services.AnalysisRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.renderError(w, r, apperrors.ErrInvalidRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			h.renderError(w, r, apperrors.ErrValidation(fieldErrs[0].Field(), fieldErrs[0].Tag()))
			return
		}
		h.renderError(w, r, apperrors.ErrValidationFailed)
		return
	}

	chart, err := h.service.Run(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			h.renderError(w, r, apperrors.NewWithDetails(http.StatusNotFound, "STUDENT_NOT_FOUND", err.Error(), nil))
			return
		}
		h.renderError(w, r, apperrors.FromDomain(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, chart)
}

// ListReports lists the discoverable report files.
func (h *AnalysisHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	found, err := h.discovery.FindReportFiles(".")
	if err != nil {
		h.renderError(w, r, apperrors.NewWithDetails(http.StatusInternalServerError, "FILESYSTEM_ERROR", "Failed to list report files", err.Error()))
		return
	}

	type reportFile struct {
		Name string `json:"name"`
		Path string `json:"path"`
		Size int64  `json:"size"`
	}
	out := make([]reportFile, 0, len(found))
	for _, f := range found {
		out = append(out, reportFile{Name: f.Name, Path: f.Path, Size: f.Size})
	}
	render.JSON(w, r, map[string]interface{}{"reports": out})
}

func (h *AnalysisHandler) renderError(w http.ResponseWriter, r *http.Request, apiErr *apperrors.APIError) {
	if apiErr.StatusCode >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", apiErr.Message))
	}
	render.Status(r, apiErr.StatusCode)
	render.JSON(w, r, apiErr)
}
