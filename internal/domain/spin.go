package domain

import "time"

// SpinResult is the outcome of one resolved spin. Produced once by the
// outcome selector and immutable afterward; the caller owns it after return.
type SpinResult struct {
	Grid         []int     `json:"grid"`
	WinningLines []WinLine `json:"winning_lines"`
	TotalWin     int64     `json:"total_win"`
	Multiplier   int64     `json:"multiplier"`
	IsWin        bool      `json:"is_win"`
	IsBigWin     bool      `json:"is_big_win"`
	IsMegaWin    bool      `json:"is_mega_win"`
	AuditSeed    string    `json:"audit_seed"`
}

// RoundContext carries settlement identifiers attached to ledger entries.
type RoundContext struct {
	SessionID string `json:"session_id,omitempty"`
	RoundID   string `json:"round_id,omitempty"`
	GameID    string `json:"game_id,omitempty"`
	PlayerID  string `json:"player_id,omitempty"`
}

// Round is the persisted record of one settled spin. It stores everything
// needed to replay the spin from its audit seed: the table inputs and the
// effective limits the governor granted at the time.
type Round struct {
	ID                 string    `json:"id"`
	AgentID            string    `json:"agent_id"`
	GameID             string    `json:"game_id"`
	PlayerID           string    `json:"player_id"`
	SessionID          string    `json:"session_id"`
	BetPerLine         int64     `json:"bet_per_line"`
	CreditsPerLine     int64     `json:"credits_per_line"`
	LineCount          int       `json:"line_count"`
	TotalBet           int64     `json:"total_bet"`
	TotalWin           int64     `json:"total_win"`
	Multiplier         int64     `json:"multiplier"`
	EffectiveWinChance float64   `json:"effective_win_chance"`
	MaxMultiplier      int64     `json:"max_multiplier"`
	Phase              PoolPhase `json:"phase"`
	AuditSeed          string    `json:"audit_seed"`
	IsWin              bool      `json:"is_win"`
	CreatedAt          time.Time `json:"created_at"`
}
