// Package outcome turns a target win chance into one concrete curated
// result. The sampling scheme is the house-edge mechanism and must not be
// "improved": out of an abstract pool of 100 slots, winChance slots are
// filled from the shuffled win table and the rest from the shuffled loss
// table, then one entry is picked uniformly from the shuffled union.
package outcome

import (
	"fmt"
	"math"

	"github.com/ultraselfai/game-provider-sub000/internal/domain"
	"github.com/ultraselfai/game-provider-sub000/internal/rng"
)

const slotPoolSize = 100

// Selector resolves spins against static outcome tables. It is stateless and
// safe for concurrent use; all randomness comes from the caller's engine.
type Selector struct{}

// NewSelector creates a Selector.
func NewSelector() *Selector {
	return &Selector{}
}

// Resolve produces one spin result. maxMultiplier bounds the worst-case
// payout: candidates above the cap are excluded before the final pick, with
// losses as the fallback so the player is never refused a spin. Pass
// domain.NoMultiplierCap to disable the cap.
//
// The engine must be exclusive to this call; its audit seed is captured
// before any draw so the spin can be replayed.
func (s *Selector) Resolve(table *domain.GameOutcomeTable, bet, creditsPerLine int64, winChance float64, maxMultiplier int64, eng *rng.Engine) (*domain.SpinResult, error) {
	if table == nil || table.Size() == 0 {
		return nil, domain.ErrEmptyOutcomeTable
	}
	if bet <= 0 || creditsPerLine <= 0 {
		return nil, fmt.Errorf("%w: bet=%d credits_per_line=%d", domain.ErrInvalidBet, bet, creditsPerLine)
	}
	if winChance < 0 || winChance > 100 {
		return nil, fmt.Errorf("%w: got %v", domain.ErrInvalidWinChance, winChance)
	}

	auditSeed := eng.GenerateAuditSeed()

	shuffledWins := rng.Shuffle(eng, table.Wins)
	shuffledLosses := rng.Shuffle(eng, table.Losses)

	winCount := int(math.Floor(float64(slotPoolSize) * winChance / 100))
	loseCount := slotPoolSize - winCount

	candidates := make([]domain.PredefinedResult, 0, winCount+loseCount)
	candidates = append(candidates, shuffledWins[:minInt(winCount, len(shuffledWins))]...)
	candidates = append(candidates, shuffledLosses[:minInt(loseCount, len(shuffledLosses))]...)

	if maxMultiplier != domain.NoMultiplierCap {
		candidates = applyCap(candidates, shuffledLosses, maxMultiplier)
	}
	if len(candidates) == 0 {
		// A one-sided table combined with an extreme win chance or cap can
		// empty the set; never refuse the spin, fall back to whatever the
		// table has, cheapest win last.
		switch {
		case len(shuffledLosses) > 0:
			candidates = shuffledLosses
		default:
			candidates = []domain.PredefinedResult{cheapestWin(shuffledWins)}
		}
	}

	pick := rng.Pick(eng, rng.Shuffle(eng, candidates))

	return buildResult(pick, bet, creditsPerLine, auditSeed), nil
}

// applyCap removes candidates whose multiplier exceeds the cap. If the filter
// empties the set, the full loss table stands in so a result always exists.
func applyCap(candidates, losses []domain.PredefinedResult, maxMult int64) []domain.PredefinedResult {
	kept := candidates[:0:0]
	for _, c := range candidates {
		if c.MultiplierUnits <= maxMult {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 && len(losses) > 0 {
		kept = append(kept, losses...)
	}
	return kept
}

func cheapestWin(wins []domain.PredefinedResult) domain.PredefinedResult {
	best := wins[0]
	for _, w := range wins[1:] {
		if w.MultiplierUnits < best.MultiplierUnits {
			best = w
		}
	}
	return best
}

func buildResult(pick domain.PredefinedResult, bet, creditsPerLine int64, auditSeed string) *domain.SpinResult {
	grid := make([]int, len(pick.Grid))
	copy(grid, pick.Grid)

	lines := make([]domain.WinLine, len(pick.WinningLines))
	for i, l := range pick.WinningLines {
		lines[i] = l
		lines[i].Cells = append([]int(nil), l.Cells...)
		lines[i].WinAmount = creditsPerLine * bet * l.BasePayoutUnits
	}

	totalWin := creditsPerLine * bet * pick.BasePayoutUnits

	return &domain.SpinResult{
		Grid:         grid,
		WinningLines: lines,
		TotalWin:     totalWin,
		Multiplier:   pick.MultiplierUnits,
		IsWin:        totalWin > 0,
		IsBigWin:     totalWin >= domain.BigWinBetMultiple*bet,
		IsMegaWin:    totalWin >= domain.MegaWinBetMultiple*bet,
		AuditSeed:    auditSeed,
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
