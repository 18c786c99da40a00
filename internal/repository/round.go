package repository

import (
	"context"

	"github.com/ultraselfai/game-provider-sub000/internal/domain"
)

// Round defines persistence for settled spin records.
type Round interface {
	CreateRound(ctx context.Context, round *domain.Round) error

	// GetRound returns a round by ID or domain.ErrRoundNotFound.
	GetRound(ctx context.Context, roundID string) (*domain.Round, error)
}
