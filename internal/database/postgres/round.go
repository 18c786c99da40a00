package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ultraselfai/game-provider-sub000/internal/domain"
	"github.com/ultraselfai/game-provider-sub000/internal/repository"
)

type roundRepository struct {
	db *pgxpool.Pool
}

// NewRoundRepository creates a new PostgreSQL round repository
func NewRoundRepository(db *pgxpool.Pool) repository.Round {
	return &roundRepository{db: db}
}

func (r *roundRepository) CreateRound(ctx context.Context, round *domain.Round) error {
	query := `
		INSERT INTO game_rounds (id, agent_id, game_id, player_id, session_id,
			bet_per_line, credits_per_line, line_count, total_bet, total_win, multiplier,
			effective_win_chance, max_multiplier, phase, audit_seed, is_win, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.db.Exec(ctx, query,
		round.ID, round.AgentID, round.GameID, round.PlayerID, round.SessionID,
		round.BetPerLine, round.CreditsPerLine, round.LineCount, round.TotalBet,
		round.TotalWin, round.Multiplier, round.EffectiveWinChance, round.MaxMultiplier,
		round.Phase, round.AuditSeed, round.IsWin, round.CreatedAt)
	return err
}

func (r *roundRepository) GetRound(ctx context.Context, roundID string) (*domain.Round, error) {
	query := `
		SELECT id, agent_id, game_id, player_id, session_id,
			bet_per_line, credits_per_line, line_count, total_bet, total_win, multiplier,
			effective_win_chance, max_multiplier, phase, audit_seed, is_win, created_at
		FROM game_rounds
		WHERE id = $1
	`
	var rd domain.Round
	err := r.db.QueryRow(ctx, query, roundID).Scan(
		&rd.ID, &rd.AgentID, &rd.GameID, &rd.PlayerID, &rd.SessionID,
		&rd.BetPerLine, &rd.CreditsPerLine, &rd.LineCount, &rd.TotalBet,
		&rd.TotalWin, &rd.Multiplier, &rd.EffectiveWinChance, &rd.MaxMultiplier,
		&rd.Phase, &rd.AuditSeed, &rd.IsWin, &rd.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRoundNotFound, roundID)
		}
		return nil, err
	}
	return &rd, nil
}
