package domain

import "time"

// PoolPhase is one of the three liquidity risk regimes.
type PoolPhase string

// Valid reports whether p is a known phase.
func (p PoolPhase) Valid() bool {
	switch p {
	case PhaseRetention, PhaseNormal, PhaseRelease:
		return true
	}
	return false
}

// LedgerEntryKind identifies the source of a balance change.
type LedgerEntryKind string

// PhaseConfig is the (winChance%, maxMultiplier) lever for one phase.
type PhaseConfig struct {
	WinChance     float64 `json:"win_chance"`
	MaxMultiplier int64   `json:"max_multiplier"`
}

// PoolConfig is the fully-populated risk configuration a pool is created
// with. It is produced by config.ResolvePoolConfig; no field may be left at
// its zero value except by explicit choice.
type PoolConfig struct {
	Retention          PhaseConfig `json:"retention"`
	Normal             PhaseConfig `json:"normal"`
	Release            PhaseConfig `json:"release"`
	RetentionThreshold int64       `json:"retention_threshold"`
	ReleaseThreshold   int64       `json:"release_threshold"`
	MaxRiskPercent     float64     `json:"max_risk_percent"`
	MaxAbsolutePayout  int64       `json:"max_absolute_payout"`
}

// LiquidityPool is the per-agent liquidity ledger head. One pool per agent,
// created lazily with balance 0 in the retention phase. Mutated exclusively
// through the pool governor; callers never write fields directly.
type LiquidityPool struct {
	AgentID        string     `json:"agent_id"`
	Balance        int64      `json:"balance"`
	Phase          PoolPhase  `json:"phase"`
	PhaseManual    bool       `json:"phase_manual"`
	PhaseExpiresAt *time.Time `json:"phase_expires_at,omitempty"`
	Config         PoolConfig `json:"config"`
	TotalBets      int64      `json:"total_bets"`
	TotalPayouts   int64      `json:"total_payouts"`
	TotalSpins     int64      `json:"total_spins"`
	TotalWins      int64      `json:"total_wins"`
	BiggestPayout  int64      `json:"biggest_payout"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// PhaseConfigFor returns the lever pair for the given phase.
func (p *LiquidityPool) PhaseConfigFor(phase PoolPhase) PhaseConfig {
	switch phase {
	case PhaseRelease:
		return p.Config.Release
	case PhaseNormal:
		return p.Config.Normal
	default:
		return p.Config.Retention
	}
}

// RealRTP is the observed return-to-player percentage, 0 before any bets.
func (p *LiquidityPool) RealRTP() float64 {
	if p.TotalBets == 0 {
		return 0
	}
	return float64(p.TotalPayouts) / float64(p.TotalBets) * 100
}

// NetProfit is total bets minus total payouts.
func (p *LiquidityPool) NetProfit() int64 {
	return p.TotalBets - p.TotalPayouts
}

// WinRate is the observed winning-spin percentage, 0 before any spins.
func (p *LiquidityPool) WinRate() float64 {
	if p.TotalSpins == 0 {
		return 0
	}
	return float64(p.TotalWins) / float64(p.TotalSpins) * 100
}

// LedgerEntry is one immutable, signed balance change. Amount is positive for
// bets and deposits and negative for payouts and withdrawals. The invariant
// BalanceAfter == BalanceBefore + Amount holds for every entry.
type LedgerEntry struct {
	ID            string          `json:"id"`
	AgentID       string          `json:"agent_id"`
	Kind          LedgerEntryKind `json:"kind"`
	Amount        int64           `json:"amount"`
	BalanceBefore int64           `json:"balance_before"`
	BalanceAfter  int64           `json:"balance_after"`
	Phase         PoolPhase       `json:"phase"`
	SessionID     string          `json:"session_id,omitempty"`
	RoundID       string          `json:"round_id,omitempty"`
	GameID        string          `json:"game_id,omitempty"`
	PlayerID      string          `json:"player_id,omitempty"`
	BetAmount     int64           `json:"bet_amount,omitempty"`
	Multiplier    int64           `json:"multiplier,omitempty"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// LedgerFilter narrows ledger listings.
type LedgerFilter struct {
	Kind  *LedgerEntryKind
	Since *time.Time
	Until *time.Time
	Limit int
}

// PayoutLimits is the read-only answer from CheckLimits: the odds the next
// spin is allowed to be resolved with.
type PayoutLimits struct {
	EffectiveWinChance float64   `json:"effective_win_chance"`
	MaxMultiplier      int64     `json:"max_multiplier"`
	Phase              PoolPhase `json:"phase"`
	PoolBalance        int64     `json:"pool_balance"`
	Degradation        string    `json:"degradation"`
}

// PoolSnapshot is the reporting view of a pool, including derived fields.
type PoolSnapshot struct {
	AgentID        string     `json:"agent_id"`
	Balance        int64      `json:"balance"`
	Phase          PoolPhase  `json:"phase"`
	PhaseManual    bool       `json:"phase_manual"`
	PhaseExpiresAt *time.Time `json:"phase_expires_at,omitempty"`
	TotalBets      int64      `json:"total_bets"`
	TotalPayouts   int64      `json:"total_payouts"`
	TotalSpins     int64      `json:"total_spins"`
	TotalWins      int64      `json:"total_wins"`
	BiggestPayout  int64      `json:"biggest_payout"`
	RealRTP        float64    `json:"real_rtp"`
	NetProfit      int64      `json:"net_profit"`
	WinRate        float64    `json:"win_rate"`
}

// Snapshot derives the reporting view from the pool state.
func (p *LiquidityPool) Snapshot() *PoolSnapshot {
	return &PoolSnapshot{
		AgentID:        p.AgentID,
		Balance:        p.Balance,
		Phase:          p.Phase,
		PhaseManual:    p.PhaseManual,
		PhaseExpiresAt: p.PhaseExpiresAt,
		TotalBets:      p.TotalBets,
		TotalPayouts:   p.TotalPayouts,
		TotalSpins:     p.TotalSpins,
		TotalWins:      p.TotalWins,
		BiggestPayout:  p.BiggestPayout,
		RealRTP:        p.RealRTP(),
		NetProfit:      p.NetProfit(),
		WinRate:        p.WinRate(),
	}
}
