package handler

import (
	"errors"
	"net/http"

	"github.com/ultraselfai/game-provider-sub000/internal/domain"
)

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"

	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgGameNotFound       = "Game not found"
	ErrMsgPoolNotFound       = "Pool not found"
	ErrMsgRoundNotFound      = "Round not found"
	ErrMsgInvalidBet         = "Invalid bet parameters"
	ErrMsgInvalidAmount      = "Amount must be positive"
	ErrMsgInsufficientPool   = "Insufficient pool balance"
	ErrMsgInvalidPhase       = "Unknown pool phase"
	ErrMsgInvalidAuditSeed   = "Audit seed is malformed"
	ErrMsgSpinFailed         = "Failed to process spin"
)

// mapServiceError maps domain errors to HTTP status codes and client-safe
// messages. Anything unmapped is a 500 with a generic message.
func mapServiceError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrGameNotFound):
		return http.StatusNotFound, ErrMsgGameNotFound
	case errors.Is(err, domain.ErrPoolNotFound):
		return http.StatusNotFound, ErrMsgPoolNotFound
	case errors.Is(err, domain.ErrRoundNotFound):
		return http.StatusNotFound, ErrMsgRoundNotFound
	case errors.Is(err, domain.ErrInvalidBet), errors.Is(err, domain.ErrInvalidWinChance):
		return http.StatusBadRequest, ErrMsgInvalidBet
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, ErrMsgInvalidAmount
	case errors.Is(err, domain.ErrInsufficientPool):
		return http.StatusConflict, ErrMsgInsufficientPool
	case errors.Is(err, domain.ErrInvalidPhase):
		return http.StatusBadRequest, ErrMsgInvalidPhase
	case errors.Is(err, domain.ErrInvalidAuditSeed):
		return http.StatusUnprocessableEntity, ErrMsgInvalidAuditSeed
	default:
		return http.StatusInternalServerError, ErrMsgGenericServerError
	}
}
