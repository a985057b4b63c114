// Package handlers provides HTTP handlers for the query normalizer API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/shopsense-ai/query-normalizer/internal/history"
	"github.com/shopsense-ai/query-normalizer/internal/normalizer"
	"github.com/shopsense-ai/query-normalizer/internal/observability"
	"github.com/shopsense-ai/query-normalizer/internal/schema"
)

// NormalizeHandler handles query normalization requests.
type NormalizeHandler struct {
	logger     *observability.Logger
	normalizer *normalizer.Normalizer
	sessions   *history.Store
	validate   *validator.Validate
}

// NewNormalizeHandler creates a normalize handler. The session store may
// be nil when history is disabled.
func NewNormalizeHandler(logger *observability.Logger, n *normalizer.Normalizer, sessions *history.Store) *NormalizeHandler {
	return &NormalizeHandler{
		logger:     logger,
		normalizer: n,
		sessions:   sessions,
		validate:   validator.New(),
	}
}

// NormalizeRequestDTO represents the API request for normalization.
type NormalizeRequestDTO struct {
	Query     string            `json:"query" validate:"required,min=1,max=1024"`
	Responses map[string]string `json:"responses,omitempty" validate:"omitempty,max=8"`
}

// NormalizeResponseDTO represents the API response.
type NormalizeResponseDTO struct {
	ProductType        string                 `json:"product_type"`
	PriceRange         *schema.PriceRange     `json:"price_range,omitempty"`
	UsageContext       []string               `json:"usage_context"`
	FeaturePreferences []string               `json:"feature_preferences"`
	ConfidenceScore    float64                `json:"confidence_score"`
	IsComplete         bool                   `json:"is_complete"`
	MissingFields      []string               `json:"missing_fields"`
	IsValid            bool                   `json:"is_valid"`
	ValidationErrors   []string               `json:"validation_errors"`
	ValidationWarnings []string               `json:"validation_warnings"`
	ClarificationsMade []ClarificationMadeDTO `json:"clarifications_made"`
}

// ClarificationMadeDTO pairs a clarified field with its question.
type ClarificationMadeDTO struct {
	FieldName string `json:"field_name"`
	Question  string `json:"question"`
}

// AmbiguitiesRequestDTO represents the API request for ambiguity detection.
type AmbiguitiesRequestDTO struct {
	Query string `json:"query" validate:"required,min=1,max=1024"`
}

// AmbiguitiesResponseDTO represents the detected clarification requests.
type AmbiguitiesResponseDTO struct {
	IsAmbiguous    bool                          `json:"is_ambiguous"`
	Clarifications []schema.ClarificationRequest `json:"clarifications"`
}

// Normalize handles POST /api/v1/normalize.
func (h *NormalizeHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req NormalizeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result, err := h.normalizer.Normalize(ctx, req.Query, req.Responses)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "normalization failed", err.Error())
		return
	}

	if h.sessions != nil {
		session, err := history.NewSession(req.Query, result)
		if err == nil {
			err = h.sessions.Record(ctx, session)
		}
		if err != nil {
			h.logger.Warn().Err(err).Msg("Failed to record normalization session")
		}
	}

	writeJSON(w, http.StatusOK, toNormalizeDTO(result))
}

// Ambiguities handles POST /api/v1/ambiguities.
func (h *NormalizeHandler) Ambiguities(w http.ResponseWriter, r *http.Request) {
	var req AmbiguitiesRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	clarifications := h.normalizer.Ambiguities(req.Query)
	if clarifications == nil {
		clarifications = []schema.ClarificationRequest{}
	}

	writeJSON(w, http.StatusOK, AmbiguitiesResponseDTO{
		IsAmbiguous:    len(clarifications) > 0,
		Clarifications: clarifications,
	})
}

func toNormalizeDTO(result schema.NormalizedResult) NormalizeResponseDTO {
	q := result.ParsedQuery

	contexts := make([]string, 0, len(q.UsageContext))
	for _, c := range q.UsageContext {
		contexts = append(contexts, string(c))
	}

	made := make([]ClarificationMadeDTO, 0, len(result.ClarificationsMade))
	for _, c := range result.ClarificationsMade {
		made = append(made, ClarificationMadeDTO{FieldName: c.FieldName, Question: c.Question})
	}

	return NormalizeResponseDTO{
		ProductType:        string(q.ProductType),
		PriceRange:         q.PriceRange,
		UsageContext:       contexts,
		FeaturePreferences: emptyIfNil(q.FeaturePreferences),
		ConfidenceScore:    q.ConfidenceScore,
		IsComplete:         q.IsComplete,
		MissingFields:      emptyIfNil(q.MissingFields),
		IsValid:            result.IsValid,
		ValidationErrors:   emptyIfNil(result.ValidationErrors),
		ValidationWarnings: emptyIfNil(result.ValidationWarnings),
		ClarificationsMade: made,
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	resp := map[string]string{"error": message}
	if detail != "" {
		resp["detail"] = detail
	}
	writeJSON(w, status, resp)
}
