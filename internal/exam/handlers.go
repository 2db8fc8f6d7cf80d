package exam

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aptisure/aptisure-api/internal/auth"
	"github.com/aptisure/aptisure-api/internal/question"
	httperrors "github.com/aptisure/aptisure-api/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for company test sets.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for test endpoints.
func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		svc:    svc,
		logger: logger.With().Str("component", "exam_http").Logger(),
	}
}

// List handles GET /v1/tests
func (h *HTTPHandlers) List(w http.ResponseWriter, r *http.Request) {
	tests, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("test list failed")
		httperrors.RespondInternalError(w, "Failed to list tests")
		return
	}
	respondJSON(w, http.StatusOK, tests)
}

// Start handles GET /v1/tests/{id}/start
func (h *HTTPHandlers) Start(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "Invalid test id", "id")
		return
	}

	resp, err := h.svc.Start(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTestNotFound) {
			httperrors.RespondNotFound(w, httperrors.ErrCodeTestNotFound, "Test not found")
			return
		}
		h.logger.Error().Err(err).Str("test_id", id.String()).Msg("test start failed")
		httperrors.RespondInternalError(w, "Failed to start test")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Submit handles POST /v1/tests/{id}/submit
func (h *HTTPHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "Invalid test id", "id")
		return
	}

	var req struct {
		Answers []SubmittedAnswer `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	for _, ans := range req.Answers {
		if ans.SelectedOption < 0 || ans.SelectedOption >= question.OptionCount {
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "Selected option out of range", "answers")
			return
		}
	}

	resp, err := h.svc.Submit(r.Context(), userID, id, req.Answers)
	if err != nil {
		if errors.Is(err, ErrTestNotFound) {
			httperrors.RespondNotFound(w, httperrors.ErrCodeTestNotFound, "Test not found")
			return
		}
		h.logger.Error().Err(err).Str("test_id", id.String()).Msg("test submission failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeSubmitFailed, "Failed to submit test")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Questions handles GET /v1/tests/{id}/questions
func (h *HTTPHandlers) Questions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "Invalid test id", "id")
		return
	}

	qs, err := h.svc.Questions(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTestNotFound) {
			httperrors.RespondNotFound(w, httperrors.ErrCodeTestNotFound, "Test not found")
			return
		}
		h.logger.Error().Err(err).Str("test_id", id.String()).Msg("test questions fetch failed")
		httperrors.RespondInternalError(w, "Failed to fetch test questions")
		return
	}
	respondJSON(w, http.StatusOK, qs)
}

// RecentResults handles GET /v1/users/me/results
func (h *HTTPHandlers) RecentResults(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	results, err := h.svc.RecentResults(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("recent results fetch failed")
		httperrors.RespondInternalError(w, "Failed to fetch results")
		return
	}
	respondJSON(w, http.StatusOK, results)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
