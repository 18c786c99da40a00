package domain

// WinLine describes one payline hit inside a predefined result. BasePayoutUnits
// is the per-line payout in bet units; WinAmount is the realized amount for a
// concrete spin (creditsPerLine x bet x BasePayoutUnits) and is only populated
// on results returned by the outcome selector.
type WinLine struct {
	LineIndex       int     `json:"line_index"`
	SymbolID        int     `json:"symbol_id"`
	MatchCount      int     `json:"match_count"`
	BasePayoutUnits int64   `json:"base_payout_units"`
	Cells           []int   `json:"cells"`
	WinAmount       int64   `json:"win_amount,omitempty"`
}

// PredefinedResult is one curated grid from a game's outcome table. Grid is a
// row-major sequence of symbol IDs with fixed length rows x cols.
type PredefinedResult struct {
	Grid            []int     `json:"grid"`
	WinningLines    []WinLine `json:"winning_lines"`
	MultiplierUnits int64     `json:"multiplier_units"`
	BasePayoutUnits int64     `json:"base_payout_units"`
}

// GameOutcomeTable holds the full curated outcome set for one game: wins
// (payout > 0) and losses (payout == 0) are disjoint by construction. Tables
// are loaded once at registration and shared read-only across spins.
type GameOutcomeTable struct {
	GameID string             `json:"game_id"`
	Rows   int                `json:"rows"`
	Cols   int                `json:"cols"`
	Lines  int                `json:"lines"`
	Wins   []PredefinedResult `json:"wins"`
	Losses []PredefinedResult `json:"losses"`
}

// Size returns the total number of curated entries.
func (t *GameOutcomeTable) Size() int {
	return len(t.Wins) + len(t.Losses)
}
