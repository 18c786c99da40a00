// Package spin orchestrates one full round: limits from the pool governor,
// outcome resolution against the game's curated table, persistence of the
// round record, and posting of the settlement to the ledger.
package spin

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ultraselfai/game-provider-sub000/internal/domain"
	"github.com/ultraselfai/game-provider-sub000/internal/event"
	"github.com/ultraselfai/game-provider-sub000/internal/game"
	"github.com/ultraselfai/game-provider-sub000/internal/logger"
	"github.com/ultraselfai/game-provider-sub000/internal/metrics"
	"github.com/ultraselfai/game-provider-sub000/internal/outcome"
	"github.com/ultraselfai/game-provider-sub000/internal/pool"
	"github.com/ultraselfai/game-provider-sub000/internal/repository"
	"github.com/ultraselfai/game-provider-sub000/internal/rng"
)

// PlayRequest is one spin submission from the settlement layer.
type PlayRequest struct {
	AgentID        string `json:"agent_id" validate:"required"`
	GameID         string `json:"game_id" validate:"required"`
	PlayerID       string `json:"player_id" validate:"required"`
	SessionID      string `json:"session_id"`
	BetPerLine     int64  `json:"bet_per_line" validate:"required,min=1"`
	CreditsPerLine int64  `json:"credits_per_line" validate:"required,min=1"`
	LineCount      int    `json:"line_count" validate:"required,min=1"`

	// WinChanceOverride replaces the governor's effective win chance when
	// set (agent-level RTP customization delivered by the config layer).
	// The governor's multiplier ceiling still applies.
	WinChanceOverride *float64 `json:"win_chance_override,omitempty" validate:"omitempty,min=0,max=100"`
}

// PlayResult is the full answer to one spin.
type PlayResult struct {
	Round  *domain.Round        `json:"round"`
	Spin   *domain.SpinResult   `json:"spin"`
	Limits *domain.PayoutLimits `json:"limits"`
	Pool   *domain.PoolSnapshot `json:"pool"`
}

// Service defines the interface for spin operations
type Service interface {
	Play(ctx context.Context, req PlayRequest) (*PlayResult, error)
	Replay(ctx context.Context, roundID string) (*domain.SpinResult, error)
	Shutdown(ctx context.Context) error
}

type service struct {
	registry  game.Registry
	selector  *outcome.Selector
	pools     pool.Service
	rounds    repository.Round
	publisher *event.ResilientPublisher
	validate  *validator.Validate
	newEngine func() (*rng.Engine, error) // Injectable for testing
}

// NewService creates a new spin service
func NewService(registry game.Registry, selector *outcome.Selector, pools pool.Service, rounds repository.Round, publisher *event.ResilientPublisher) Service {
	return &service{
		registry:  registry,
		selector:  selector,
		pools:     pools,
		rounds:    rounds,
		publisher: publisher,
		validate:  validator.New(),
		newEngine: rng.NewRandom,
	}
}

// Play runs one spin end to end. The outcome and the pool adjustment are
// computed fully in memory before any persistence; the round record is
// written before the ledger so a settlement failure leaves a compensable
// round, never a half-applied ledger.
func (s *service) Play(ctx context.Context, req PlayRequest) (*PlayResult, error) {
	log := logger.FromContext(ctx)

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidBet, err)
	}

	table, err := s.registry.Get(ctx, req.GameID)
	if err != nil {
		return nil, err
	}

	bet := req.BetPerLine * int64(req.LineCount)
	totalBet := bet * req.CreditsPerLine

	limits, err := s.pools.CheckLimits(ctx, req.AgentID, bet, req.CreditsPerLine)
	if err != nil {
		return nil, err
	}

	winChance := limits.EffectiveWinChance
	if req.WinChanceOverride != nil && limits.Degradation == domain.DegradationNone {
		winChance = *req.WinChanceOverride
	}

	eng, err := s.newEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to create rng engine: %w", err)
	}

	result, err := s.selector.Resolve(table, bet, req.CreditsPerLine, winChance, limits.MaxMultiplier, eng)
	if err != nil {
		return nil, err
	}

	round := &domain.Round{
		ID:                 uuid.NewString(),
		AgentID:            req.AgentID,
		GameID:             req.GameID,
		PlayerID:           req.PlayerID,
		SessionID:          req.SessionID,
		BetPerLine:         req.BetPerLine,
		CreditsPerLine:     req.CreditsPerLine,
		LineCount:          req.LineCount,
		TotalBet:           totalBet,
		TotalWin:           result.TotalWin,
		Multiplier:         result.Multiplier,
		EffectiveWinChance: winChance,
		MaxMultiplier:      limits.MaxMultiplier,
		Phase:              limits.Phase,
		AuditSeed:          result.AuditSeed,
		IsWin:              result.IsWin,
		CreatedAt:          time.Now().UTC(),
	}
	if err := s.rounds.CreateRound(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to persist round: %w", err)
	}

	snapshot, err := s.pools.ProcessSpin(ctx, req.AgentID, pool.SpinSettlement{
		BetAmount:    totalBet,
		PayoutAmount: result.TotalWin,
		Multiplier:   result.Multiplier,
		Context: domain.RoundContext{
			SessionID: req.SessionID,
			RoundID:   round.ID,
			GameID:    req.GameID,
			PlayerID:  req.PlayerID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to settle spin: %w", err)
	}

	s.recordSpinMetrics(req, result, totalBet)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, event.NewRoundCompletedEvent(round)); err != nil {
			log.Warn("Failed to publish round event", "round_id", round.ID, "error", err)
		}
	}

	return &PlayResult{
		Round:  round,
		Spin:   result,
		Limits: limits,
		Pool:   snapshot,
	}, nil
}

// Replay reconstructs a settled round's randomness from its audit seed and
// re-resolves it with the stored inputs. The recomputed result must match
// the persisted amounts; a mismatch means the audit trail is broken.
func (s *service) Replay(ctx context.Context, roundID string) (*domain.SpinResult, error) {
	round, err := s.rounds.GetRound(ctx, roundID)
	if err != nil {
		return nil, err
	}

	table, err := s.registry.Get(ctx, round.GameID)
	if err != nil {
		return nil, err
	}

	eng, err := rng.RestoreFromAuditSeed(round.AuditSeed)
	if err != nil {
		return nil, err
	}

	bet := round.BetPerLine * int64(round.LineCount)
	result, err := s.selector.Resolve(table, bet, round.CreditsPerLine, round.EffectiveWinChance, round.MaxMultiplier, eng)
	if err != nil {
		return nil, err
	}

	if result.TotalWin != round.TotalWin {
		return nil, fmt.Errorf("replay mismatch for round %s: got win %d, recorded %d",
			roundID, result.TotalWin, round.TotalWin)
	}
	return result, nil
}

func (s *service) recordSpinMetrics(req PlayRequest, result *domain.SpinResult, totalBet int64) {
	outcomeLabel := "loss"
	switch {
	case result.IsMegaWin:
		outcomeLabel = "mega_win"
	case result.IsBigWin:
		outcomeLabel = "big_win"
	case result.IsWin:
		outcomeLabel = "win"
	}

	metrics.SpinsTotal.WithLabelValues(req.GameID, req.AgentID, outcomeLabel).Inc()
	metrics.SpinBetsTotal.WithLabelValues(req.GameID, req.AgentID).Add(float64(totalBet))
	if result.TotalWin > 0 {
		metrics.SpinPayoutsTotal.WithLabelValues(req.GameID, req.AgentID).Add(float64(result.TotalWin))
	}
}

// Shutdown waits for background event retries to finish.
func (s *service) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		if s.publisher != nil {
			s.publisher.Wait()
		}
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
