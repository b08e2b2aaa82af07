package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/wonny/finhealth/internal/assessment"
	"github.com/wonny/finhealth/internal/commentary"
	"github.com/wonny/finhealth/internal/contracts"
	"github.com/wonny/finhealth/pkg/logger"
	"github.com/wonny/finhealth/pkg/redis"
)

// AssessmentHandler serves assessments and narrative reports
type AssessmentHandler struct {
	service  *assessment.Service
	repo     contracts.AssessmentRepository
	reporter commentary.Reporter
	cache    *redis.Cache
	logger   *logger.Logger
}

// NewAssessmentHandler creates a new assessment handler. reporter and cache may be nil.
func NewAssessmentHandler(
	service *assessment.Service,
	repo contracts.AssessmentRepository,
	reporter commentary.Reporter,
	cache *redis.Cache,
	log *logger.Logger,
) *AssessmentHandler {
	if reporter == nil {
		reporter = commentary.NoopNarrator{}
	}
	return &AssessmentHandler{
		service:  service,
		repo:     repo,
		reporter: reporter,
		cache:    cache,
		logger:   log,
	}
}

// PreviewRequest is a synchronous assessment of caller-supplied figures
type PreviewRequest struct {
	Financials      contracts.Financials   `json:"financials"`
	Business        contracts.BusinessMeta `json:"business"`
	RevenueHistory  []float64              `json:"revenue_history" validate:"max=40"`
	CashFlowHistory []float64              `json:"cash_flow_history" validate:"max=40"`
}

// Preview assesses the posted figures without storing anything
// POST /api/assessments/preview
func (h *AssessmentHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	a, err := h.service.Assess(r.Context(), assessment.Input{
		Financials:      req.Financials,
		Business:        req.Business,
		RevenueHistory:  req.RevenueHistory,
		CashFlowHistory: req.CashFlowHistory,
	})
	if err != nil {
		h.logger.WithError(err).Error("Preview assessment failed")
		respondError(w, http.StatusInternalServerError, "Assessment failed")
		return
	}
	respondJSON(w, http.StatusOK, a)
}

// ListByBusiness returns a business's assessments newest first
// GET /api/assessments/business/{id}
func (h *AssessmentHandler) ListByBusiness(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid business id")
		return
	}

	list, err := h.repo.ListByBusiness(r.Context(), id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list assessments")
		respondError(w, http.StatusInternalServerError, "Failed to list assessments")
		return
	}
	if list == nil {
		list = []*contracts.Assessment{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"assessments": list,
		"count":       len(list),
	})
}

// Latest returns the most recent assessment of a business
// GET /api/assessments/latest/{id}
func (h *AssessmentHandler) Latest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid business id")
		return
	}

	ctx := r.Context()
	if h.cache == nil {
		a, err := h.repo.GetLatest(ctx, id)
		if err != nil {
			h.respondLookupError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, a)
		return
	}

	var a contracts.Assessment
	_, err := h.cache.GetOrSet(ctx, redis.LatestAssessmentKey(id), &a, redis.TTLShort, func() (interface{}, error) {
		return h.repo.GetLatest(ctx, id)
	})
	if err != nil {
		h.respondLookupError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, &a)
}

// Get returns one assessment
// GET /api/assessments/{id}
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid assessment id")
		return
	}

	a, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.respondLookupError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, a)
}

// Report renders the narrative report of an assessment.
// A failed model call falls back to the template report.
// GET /api/assessments/{id}/report?format=html|md&language=en
func (h *AssessmentHandler) Report(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid assessment id")
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "html"
	}
	if format != "html" && format != "md" {
		respondError(w, http.StatusBadRequest, "format must be html or md")
		return
	}
	language := strings.ToLower(r.URL.Query().Get("language"))
	if language == "" {
		language = "en"
	}

	a, err := h.repo.GetByID(ctx, id)
	if err != nil {
		h.respondLookupError(w, err)
		return
	}

	md := h.reportMarkdown(ctx, a, language)

	if format == "md" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(md))
		return
	}

	html, err := commentary.RenderHTML(md)
	if err != nil {
		h.logger.WithError(err).Error("Failed to render report")
		respondError(w, http.StatusInternalServerError, "Failed to render report")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

func (h *AssessmentHandler) reportMarkdown(ctx context.Context, a *contracts.Assessment, language string) string {
	key := redis.ReportKey(a.ID, language)

	if h.cache != nil {
		var cached string
		if found, err := h.cache.Get(ctx, key, &cached); err == nil && found {
			return cached
		}
	}

	md, err := h.reporter.Report(ctx, a, language)
	if err != nil {
		h.logger.WithError(err).WithField("assessment_id", a.ID).Warn("Report generation failed, using template")
		return commentary.FallbackReport(a)
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, key, md, redis.TTLLong); err != nil {
			h.logger.WithError(err).Warn("Failed to cache report")
		}
	}
	return md
}

func (h *AssessmentHandler) respondLookupError(w http.ResponseWriter, err error) {
	if statusFor(err) == http.StatusNotFound {
		respondError(w, http.StatusNotFound, "Assessment not found")
		return
	}
	h.logger.WithError(err).Error("Failed to get assessment")
	respondError(w, http.StatusInternalServerError, "Failed to retrieve assessment")
}
