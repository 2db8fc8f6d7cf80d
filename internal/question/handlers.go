package question

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	httperrors "github.com/aptisure/aptisure-api/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for question access.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for question endpoints.
func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		svc:    svc,
		logger: logger.With().Str("component", "question_http").Logger(),
	}
}

// GetRandom handles GET /v1/questions/random?type=&difficulty=&subtopic=
func (h *HTTPHandlers) GetRandom(w http.ResponseWriter, r *http.Request) {
	filter := Filter{
		Type:       r.URL.Query().Get("type"),
		Difficulty: r.URL.Query().Get("difficulty"),
		Tag:        r.URL.Query().Get("subtopic"),
	}

	q, err := h.svc.GetRandom(r.Context(), filter)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httperrors.RespondNotFound(w, httperrors.ErrCodeQuestionNotFound, "No questions found matching criteria")
			return
		}
		h.logger.Error().Err(err).Msg("random question fetch failed")
		httperrors.RespondInternalError(w, "Failed to fetch question")
		return
	}

	respondJSON(w, http.StatusOK, q)
}

// GenerateSet handles POST /v1/questions/generate-set
func (h *HTTPHandlers) GenerateSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic  string       `json:"topic"`
		Counts BucketCounts `json:"counts"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.Counts.Total() <= 0 {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "At least one bucket count must be positive", "counts")
		return
	}

	qs, err := h.svc.GenerateSet(r.Context(), req.Topic, req.Counts)
	if err != nil {
		if errors.Is(err, ErrInvalidDifficulty) {
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, err.Error(), "counts")
			return
		}
		h.logger.Error().Err(err).Msg("practice set generation failed")
		httperrors.RespondInternalError(w, "Failed to generate practice set")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"questions": qs})
}

// GetByID handles GET /v1/questions/{id}
func (h *HTTPHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "Invalid question id", "id")
		return
	}

	q, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httperrors.RespondNotFound(w, httperrors.ErrCodeQuestionNotFound, "Question not found")
			return
		}
		h.logger.Error().Err(err).Str("question_id", id.String()).Msg("question fetch failed")
		httperrors.RespondInternalError(w, "Failed to fetch question")
		return
	}

	respondJSON(w, http.StatusOK, q)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
