package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopsense-ai/query-normalizer/internal/history"
	"github.com/shopsense-ai/query-normalizer/internal/observability"
)

// SessionsHandler serves the normalization session history.
type SessionsHandler struct {
	logger   *observability.Logger
	sessions *history.Store
}

// NewSessionsHandler creates a sessions handler.
func NewSessionsHandler(logger *observability.Logger, sessions *history.Store) *SessionsHandler {
	return &SessionsHandler{logger: logger, sessions: sessions}
}

// SessionDTO represents one recorded normalization session.
type SessionDTO struct {
	ID             string  `json:"id"`
	Query          string  `json:"query"`
	ProductType    string  `json:"product_type"`
	Confidence     float64 `json:"confidence"`
	IsValid        bool    `json:"is_valid"`
	IsComplete     bool    `json:"is_complete"`
	Clarifications int     `json:"clarifications"`
	CreatedAt      string  `json:"created_at"`
}

// List handles GET /api/v1/sessions.
func (h *SessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil {
		writeError(w, http.StatusServiceUnavailable, "session history disabled", "")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 200 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 200", "")
			return
		}
		limit = parsed
	}

	sessions, err := h.sessions.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list sessions")
		writeError(w, http.StatusInternalServerError, "failed to list sessions", "")
		return
	}

	dtos := make([]SessionDTO, 0, len(sessions))
	for _, s := range sessions {
		dtos = append(dtos, SessionDTO{
			ID:             s.ID.String(),
			Query:          s.Query,
			ProductType:    s.ProductType,
			Confidence:     s.Confidence,
			IsValid:        s.IsValid,
			IsComplete:     s.IsComplete,
			Clarifications: s.Clarifications,
			CreatedAt:      s.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": dtos})
}
