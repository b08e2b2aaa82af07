package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/wonny/finhealth/internal/contracts"
	"github.com/wonny/finhealth/pkg/logger"
)

// BusinessHandler handles business profile endpoints
type BusinessHandler struct {
	repo   contracts.BusinessRepository
	logger *logger.Logger
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(repo contracts.BusinessRepository, log *logger.Logger) *BusinessHandler {
	return &BusinessHandler{repo: repo, logger: log}
}

// Create registers a business
// POST /api/businesses
func (h *BusinessHandler) Create(w http.ResponseWriter, r *http.Request) {
	var b contracts.Business
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(b); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	if err := h.repo.Create(r.Context(), &b); err != nil {
		h.logger.WithError(err).Error("Failed to create business")
		respondError(w, http.StatusInternalServerError, "Failed to create business")
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"business_id": b.ID,
		"industry":    b.Industry,
	}).Info("Business created")
	respondJSON(w, http.StatusCreated, b)
}

// List returns businesses newest first
// GET /api/businesses?limit=&offset=
func (h *BusinessHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	if limit > 200 {
		limit = 200
	}

	list, err := h.repo.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list businesses")
		respondError(w, http.StatusInternalServerError, "Failed to list businesses")
		return
	}
	if list == nil {
		list = []*contracts.Business{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"businesses": list,
		"count":      len(list),
	})
}

// Get returns one business
// GET /api/businesses/{id}
func (h *BusinessHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid business id")
		return
	}

	b, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if statusFor(err) == http.StatusNotFound {
			respondError(w, http.StatusNotFound, "Business not found")
			return
		}
		h.logger.WithError(err).Error("Failed to get business")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve business")
		return
	}
	respondJSON(w, http.StatusOK, b)
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
