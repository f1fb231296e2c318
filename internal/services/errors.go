package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/evidly-backend/internal/platform/apierr"
)

var (
	ErrJurisdictionNotConfigured = errors.New("no jurisdiction configured for location: run jurisdiction detection first")
	ErrMissingLocationID         = errors.New("location_id is required")
	ErrInvalidLocationID         = errors.New("location_id must be a UUID")
)

const (
	CodeJurisdictionNotConfigured = "jurisdiction_not_configured"
	CodeMissingLocationID         = "missing_location_id"
	CodeInvalidLocationID         = "invalid_location_id"
	CodeScoringFailed             = "scoring_failed"
)

func jurisdictionNotConfigured(locationID uuid.UUID) error {
	return apierr.New(
		http.StatusNotFound,
		CodeJurisdictionNotConfigured,
		fmt.Errorf("location %s: %w", locationID, ErrJurisdictionNotConfigured),
	)
}

// ParseLocationID validates a caller-supplied location id.
func ParseLocationID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, apierr.BadRequest(CodeMissingLocationID, ErrMissingLocationID)
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apierr.BadRequest(CodeInvalidLocationID, fmt.Errorf("%w: %q", ErrInvalidLocationID, raw))
	}
	return id, nil
}
