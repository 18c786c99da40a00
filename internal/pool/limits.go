package pool

import (
	"context"
	"fmt"

	"github.com/ultraselfai/game-provider-sub000/internal/domain"
	"github.com/ultraselfai/game-provider-sub000/internal/logger"
	"github.com/ultraselfai/game-provider-sub000/internal/metrics"
)

// Degradation ladder constants. Product-tuned values; keep as-is for
// behavioral compatibility with existing agent pools.
const (
	criticalMultiplierTier = 3
	reducedMultiplierTier  = 10
	criticalChanceFactor   = 0.1
	criticalChanceCeiling  = 2.0
)

// CheckLimits computes the odds the next spin may be resolved with. It never
// refuses a spin: an underfunded pool only reshapes the win chance and the
// payout ceiling. Phase transitions are evaluated lazily here; a discovered
// transition is persisted so reporting matches what the spin actually used.
// The ledger itself is not touched. The read-resolve-persist step runs under
// the agent lock so a concurrent settlement cannot slip a balance change in
// between and leave the stored phase derived from a stale balance.
func (s *service) CheckLimits(ctx context.Context, agentID string, bet, creditsPerLine int64) (*domain.PayoutLimits, error) {
	if bet <= 0 || creditsPerLine <= 0 {
		return nil, fmt.Errorf("%w: bet=%d credits_per_line=%d", domain.ErrInvalidBet, bet, creditsPerLine)
	}

	var limits *domain.PayoutLimits
	err := s.locks.WithLock(agentID, func() error {
		p, err := s.getOrCreate(ctx, agentID)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		phase, changed := resolvePhase(p, now)
		if changed {
			if err := s.repo.UpdatePoolPhase(ctx, agentID, phase, false, nil); err != nil {
				return fmt.Errorf("failed to persist phase transition: %w", err)
			}
			logger.FromContext(ctx).Info("Pool phase transition",
				"agent_id", agentID, "from", p.Phase, "to", phase, "balance", p.Balance)
			if phase != p.Phase {
				s.publishPhaseChange(ctx, agentID, p.Phase, phase, false, p.Balance)
			}
			p.Phase = phase
			p.PhaseManual = false
			p.PhaseExpiresAt = nil
		}

		phaseCfg := p.PhaseConfigFor(phase)
		limits = computeLimits(p.Balance, bet*creditsPerLine, phaseCfg, p.Config)
		limits.Phase = phase
		return nil
	})
	if err != nil {
		return nil, err
	}

	if limits.Degradation != domain.DegradationNone {
		metrics.DegradedLimitsTotal.WithLabelValues(limits.Degradation).Inc()
	}

	return limits, nil
}

// computeLimits bounds the next payout by the pool's risk budget, then walks
// the degradation ladder when the resulting multiplier ceiling is tight.
func computeLimits(balance, totalBet int64, phaseCfg domain.PhaseConfig, cfg domain.PoolConfig) *domain.PayoutLimits {
	poolLimit := int64(float64(balance) * cfg.MaxRiskPercent / 100)
	maxPayout := poolLimit
	if cfg.MaxAbsolutePayout < maxPayout {
		maxPayout = cfg.MaxAbsolutePayout
	}

	var maxMultiplierFromPool int64
	if totalBet > 0 {
		maxMultiplierFromPool = maxPayout / totalBet
	}

	effMax := maxMultiplierFromPool
	if phaseCfg.MaxMultiplier < effMax {
		effMax = phaseCfg.MaxMultiplier
	}

	effChance := phaseCfg.WinChance
	degradation := domain.DegradationNone

	switch {
	case balance <= 0:
		effChance = 0
		effMax = 0
		degradation = domain.DegradationDrained
	case effMax > 0 && effMax < criticalMultiplierTier:
		effChance = phaseCfg.WinChance * criticalChanceFactor
		if effChance > criticalChanceCeiling {
			effChance = criticalChanceCeiling
		}
		degradation = domain.DegradationCritical
	case effMax >= criticalMultiplierTier && effMax < reducedMultiplierTier:
		effChance = phaseCfg.WinChance * float64(effMax) / float64(reducedMultiplierTier)
		degradation = domain.DegradationReduced
	}

	return &domain.PayoutLimits{
		EffectiveWinChance: effChance,
		MaxMultiplier:      effMax,
		PoolBalance:        balance,
		Degradation:        degradation,
	}
}
