// Package handlers provides HTTP handlers for the period report API.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/medwatch/go-medtrack/internal/api/middleware"
	"github.com/medwatch/go-medtrack/internal/observability/metrics"
	"github.com/medwatch/go-medtrack/internal/query"
)

// ReportHandler serves plain-text period reports.
type ReportHandler struct {
	service *query.Service
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewReportHandler creates a new handler. Metrics may be nil.
func NewReportHandler(service *query.Service, m *metrics.Metrics, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{service: service, metrics: m, logger: logger}
}

// Routes returns the handler routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Prompt)
	r.Get("/{p_id}", h.Get)
	return r
}

// Prompt handles GET / with a static usage hint.
func (h *ReportHandler) Prompt(w http.ResponseWriter, r *http.Request) {
	h.text(w, http.StatusOK, "Must add p_id")
}

// Get handles GET /{p_id}. Unknown patients and unparsable ids both get
// the same client-error body so the caller never learns which it was.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	raw := chi.URLParam(r, "p_id")

	patientID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.notFound(w, raw)
		return
	}

	report, err := h.service.GetReport(ctx, patientID)
	if err != nil {
		if errors.Is(err, query.ErrNotFound) {
			h.notFound(w, raw)
			return
		}
		h.logger.Error("report query failed",
			zap.Int64("p_id", patientID),
			zap.String("request_id", middleware.GetRequestID(ctx)),
			zap.Error(err),
		)
		h.text(w, http.StatusInternalServerError, "report unavailable")
		return
	}

	if h.metrics != nil {
		h.metrics.ReportsServed.Inc()
	}
	h.text(w, http.StatusOK, report)
}

func (h *ReportHandler) notFound(w http.ResponseWriter, rawID string) {
	if h.metrics != nil {
		h.metrics.ReportsNotFound.Inc()
	}
	h.text(w, http.StatusBadRequest, fmt.Sprintf("There is no p_id %s", rawID))
}

func (h *ReportHandler) text(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	fmt.Fprint(w, body)
}
