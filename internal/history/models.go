// Package history persists normalization sessions for audit and review.
package history

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/shopsense-ai/query-normalizer/internal/schema"
)

// Session records one pass through the normalization pipeline.
type Session struct {
	ID             uuid.UUID `json:"id"`
	Query          string    `json:"query"`
	ProductType    string    `json:"product_type"`
	Confidence     float64   `json:"confidence"`
	IsValid        bool      `json:"is_valid"`
	IsComplete     bool      `json:"is_complete"`
	Clarifications int       `json:"clarifications"`
	Result         []byte    `json:"result"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewSession builds a session record from a pipeline result.
func NewSession(query string, result schema.NormalizedResult) (*Session, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	return &Session{
		ID:             uuid.New(),
		Query:          query,
		ProductType:    string(result.ParsedQuery.ProductType),
		Confidence:     result.ParsedQuery.ConfidenceScore,
		IsValid:        result.IsValid,
		IsComplete:     result.ParsedQuery.IsComplete,
		Clarifications: len(result.ClarificationsMade),
		Result:         payload,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// DecodeResult unpacks the stored normalization result.
func (s *Session) DecodeResult() (schema.NormalizedResult, error) {
	var result schema.NormalizedResult
	err := json.Unmarshal(s.Result, &result)
	return result, err
}
