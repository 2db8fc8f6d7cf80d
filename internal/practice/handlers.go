package practice

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

// HTTPHandlers provides the practice submission endpoint.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for practice endpoints.
func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		svc:    svc,
		logger: logger.With().Str("component", "practice_http").Logger(),
	}
}

// SubmitAttempt handles POST /v1/attempts
func (h *HTTPHandlers) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	var req struct {
		QuestionID     string `json:"questionId"`
		SelectedOption int    `json:"selectedOption"`
		TimeTaken      *int   `json:"timeTaken,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "Invalid question id", "questionId")
		return
	}
	if req.SelectedOption < 0 || req.SelectedOption >= question.OptionCount {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "Selected option out of range", "selectedOption")
		return
	}

	feedback, err := h.svc.SubmitAnswer(r.Context(), userID, questionID, req.SelectedOption, req.TimeTaken)
	if err != nil {
		if errors.Is(err, question.ErrNotFound) {
			httperrors.RespondNotFound(w, httperrors.ErrCodeQuestionNotFound, "Question not found")
			return
		}
		h.logger.Error().Err(err).Str("question_id", questionID.String()).Msg("practice submission failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeSubmitFailed, "Failed to submit attempt")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(feedback)
}
