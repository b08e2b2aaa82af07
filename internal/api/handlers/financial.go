package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/wonny/finhealth/internal/contracts"
	"github.com/wonny/finhealth/internal/ingest"
	"github.com/wonny/finhealth/internal/queue"
	"github.com/wonny/finhealth/pkg/config"
	"github.com/wonny/finhealth/pkg/logger"
)

// Enqueuer schedules background assessments
type Enqueuer interface {
	Enqueue(ctx context.Context, businessID int64, fiscalYear int) (*queue.AnalysisJob, error)
}

// Analysis status values reported after an upload
const (
	AnalysisProcessing = "processing"
	AnalysisNotQueued  = "not_queued"
)

// multipartOverhead is allowed on top of the file limit for form fields
const multipartOverhead = 1 << 20

// FinancialHandler handles financial statement uploads and records
// ⭐ SSOT: 업로드 → 파싱 → 저장 → 분석 예약 흐름은 여기서만
type FinancialHandler struct {
	parser     *ingest.Parser
	repo       contracts.FinancialRepository
	businesses contracts.BusinessRepository
	queue      Enqueuer
	upload     config.UploadConfig
	logger     *logger.Logger
}

// NewFinancialHandler creates a new financial handler. q may be nil.
func NewFinancialHandler(
	parser *ingest.Parser,
	repo contracts.FinancialRepository,
	businesses contracts.BusinessRepository,
	q Enqueuer,
	upload config.UploadConfig,
	log *logger.Logger,
) *FinancialHandler {
	return &FinancialHandler{
		parser:     parser,
		repo:       repo,
		businesses: businesses,
		queue:      q,
		upload:     upload,
		logger:     log,
	}
}

// UploadRequest holds the non-file form fields of an upload
type UploadRequest struct {
	BusinessID int64 `validate:"required,gt=0"`
	FiscalYear int   `validate:"required,gte=1900,lte=2100"`
}

// UploadResponse is returned after a successful upload
type UploadResponse struct {
	*contracts.FinancialRecord
	Report         contracts.ExtractionReport `json:"extraction_report"`
	AnalysisStatus string                     `json:"analysis_status"`
	JobID          string                     `json:"job_id,omitempty"`
}

// Upload parses a statement file, stores its financials and queues an assessment
// POST /api/financial-data/upload (multipart: file, business_id, fiscal_year)
func (h *FinancialHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	maxBytes := h.upload.MaxBytes()

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File exceeds %d MB limit", h.upload.MaxSizeMB))
			return
		}
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	req, err := parseUploadRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	if !h.upload.Allowed(header.Filename) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Unsupported file type; allowed: %s", strings.Join(h.upload.AllowedExtensions, ", ")))
		return
	}
	if header.Size > maxBytes {
		respondError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File exceeds %d MB limit", h.upload.MaxSizeMB))
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	if _, err := h.businesses.GetByID(ctx, req.BusinessID); err != nil {
		h.respondLookupError(w, err, "Business not found")
		return
	}

	doc, err := h.parser.Parse(ctx, header.Filename, content)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.WithError(err).Error("Failed to parse upload")
			respondError(w, status, "Failed to parse file")
			return
		}
		respondError(w, status, err.Error())
		return
	}

	stored, err := h.saveFile(header.Filename, content)
	if err != nil {
		h.logger.WithError(err).Error("Failed to store upload")
		respondError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}

	rec, replaced, err := h.merge(ctx, req, doc, stored)
	if err != nil {
		h.removeFile(stored)
		if statusFor(err) == http.StatusNotFound {
			respondError(w, http.StatusNotFound, "Business not found")
			return
		}
		h.logger.WithError(err).Error("Failed to save financial data")
		respondError(w, http.StatusInternalServerError, "Failed to save financial data")
		return
	}
	h.removeFile(replaced)

	resp := UploadResponse{
		FinancialRecord: rec,
		Report:          doc.Report,
		AnalysisStatus:  AnalysisNotQueued,
	}
	if h.queue != nil {
		job, err := h.queue.Enqueue(ctx, rec.BusinessID, rec.FiscalYear)
		if err != nil {
			h.logger.WithError(err).Warn("Failed to enqueue analysis")
		} else {
			resp.AnalysisStatus = AnalysisProcessing
			resp.JobID = job.CorrelationID.String()
		}
	}

	h.logger.WithFields(map[string]interface{}{
		"business_id":   rec.BusinessID,
		"fiscal_year":   rec.FiscalYear,
		"document_type": doc.Kind,
		"rows_matched":  doc.Report.RowsMatched,
		"rows_skipped":  doc.Report.RowsSkipped,
	}).Info("Financial statement uploaded")

	respondJSON(w, http.StatusCreated, resp)
}

func parseUploadRequest(r *http.Request) (UploadRequest, error) {
	var req UploadRequest
	var err error
	if v := r.FormValue("business_id"); v != "" {
		if req.BusinessID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return req, fmt.Errorf("invalid business_id")
		}
	}
	if v := r.FormValue("fiscal_year"); v != "" {
		if req.FiscalYear, err = strconv.Atoi(v); err != nil {
			return req, fmt.Errorf("invalid fiscal_year")
		}
	}
	if err := validate.Struct(req); err != nil {
		return req, errors.New(validationMessage(err))
	}
	return req, nil
}

// merge combines the parsed figures with any stored record for the year,
// so separate balance sheet and P&L uploads end up in one row
func (h *FinancialHandler) merge(ctx context.Context, req UploadRequest, doc *ingest.ParsedDocument, stored string) (*contracts.FinancialRecord, string, error) {
	start, end := contracts.FiscalPeriod(req.FiscalYear)
	rec := &contracts.FinancialRecord{
		BusinessID:   req.BusinessID,
		FiscalYear:   req.FiscalYear,
		PeriodStart:  start,
		PeriodEnd:    end,
		Kind:         doc.Kind,
		Source:       doc.Source,
		UploadedFile: stored,
		Financials:   doc.Financials,
	}
	replaced, err := h.repo.Merge(ctx, rec)
	if err != nil {
		return nil, "", err
	}
	return rec, replaced, nil
}

// saveFile writes the upload under a random name, keeping the extension
func (h *FinancialHandler) saveFile(filename string, content []byte) (string, error) {
	if h.upload.Dir == "" {
		return "", nil
	}
	if err := os.MkdirAll(h.upload.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	path := filepath.Join(h.upload.Dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path, nil
}

// List returns a business's financial records
// GET /api/financial-data?business_id=
func (h *FinancialHandler) List(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(r.URL.Query().Get("business_id"), 10, 64)
	if err != nil || businessID <= 0 {
		respondError(w, http.StatusBadRequest, "business_id is required")
		return
	}

	recs, err := h.repo.ListByBusiness(r.Context(), businessID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list financial data")
		respondError(w, http.StatusInternalServerError, "Failed to list financial data")
		return
	}
	if recs == nil {
		recs = []*contracts.FinancialRecord{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"financial_data": recs,
		"count":          len(recs),
	})
}

// Get returns one financial record
// GET /api/financial-data/{id}
func (h *FinancialHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid financial data id")
		return
	}

	rec, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.respondLookupError(w, err, "Financial data not found")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// Delete removes a financial record and its stored upload
// DELETE /api/financial-data/{id}
func (h *FinancialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid financial data id")
		return
	}

	rec, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		h.respondLookupError(w, err, "Financial data not found")
		return
	}

	h.removeFile(rec.UploadedFile)
	w.WriteHeader(http.StatusNoContent)
}

// removeFile deletes a stored upload; failures are only logged
func (h *FinancialHandler) removeFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		h.logger.WithError(err).WithField("path", path).Warn("Failed to remove uploaded file")
	}
}

func (h *FinancialHandler) respondLookupError(w http.ResponseWriter, err error, notFound string) {
	if statusFor(err) == http.StatusNotFound {
		respondError(w, http.StatusNotFound, notFound)
		return
	}
	h.logger.WithError(err).Error("Lookup failed")
	respondError(w, http.StatusInternalServerError, "Internal server error")
}
