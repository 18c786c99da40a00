package pool

import (
	"time"

	"github.com/ultraselfai/game-provider-sub000/internal/domain"
)

// resolvePhase evaluates the phase state machine for the current balance.
// A manual pin holds until its expiry; afterwards (and for unpinned pools)
// the balance decides: below the retention threshold the pool retains, at or
// above the release threshold it releases, otherwise it runs normal.
//
// Returns the effective phase and whether the stored state changed (phase
// moved or a pin lapsed) and needs persisting.
func resolvePhase(p *domain.LiquidityPool, now time.Time) (domain.PoolPhase, bool) {
	if p.PhaseManual {
		if p.PhaseExpiresAt == nil || now.Before(*p.PhaseExpiresAt) {
			return p.Phase, false
		}
		// Pin lapsed; fall through to automatic evaluation
	}

	auto := autoPhase(p.Balance, p.Config)
	changed := p.PhaseManual || auto != p.Phase
	return auto, changed
}

func autoPhase(balance int64, cfg domain.PoolConfig) domain.PoolPhase {
	switch {
	case balance < cfg.RetentionThreshold:
		return domain.PhaseRetention
	case balance >= cfg.ReleaseThreshold:
		return domain.PhaseRelease
	default:
		return domain.PhaseNormal
	}
}
