package game

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ultraselfai/game-provider-sub000/internal/domain"
)

var validate = validator.New()

// tableFile is the on-disk shape of a game outcome table.
type tableFile struct {
	GameID string       `json:"game_id" validate:"required"`
	Rows   int          `json:"rows" validate:"required,min=1"`
	Cols   int          `json:"cols" validate:"required,min=1"`
	Lines  int          `json:"lines" validate:"required,min=1"`
	Wins   []resultFile `json:"wins" validate:"dive"`
	Losses []resultFile `json:"losses" validate:"dive"`
}

type resultFile struct {
	Grid            []int      `json:"grid" validate:"required"`
	WinningLines    []lineFile `json:"winning_lines" validate:"dive"`
	MultiplierUnits int64      `json:"multiplier_units" validate:"min=0"`
	BasePayoutUnits int64      `json:"base_payout_units" validate:"min=0"`
}

type lineFile struct {
	LineIndex       int   `json:"line_index" validate:"min=0"`
	SymbolID        int   `json:"symbol_id" validate:"min=0"`
	MatchCount      int   `json:"match_count" validate:"min=2"`
	BasePayoutUnits int64 `json:"base_payout_units" validate:"min=1"`
	Cells           []int `json:"cells" validate:"required,min=2"`
}

// toDomain validates the file semantically and converts it. A table that
// passes here is safe for the outcome selector: wins pay, losses do not, and
// every grid has the declared shape.
func (f *tableFile) toDomain() (*domain.GameOutcomeTable, error) {
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidTable, err)
	}

	if len(f.Wins)+len(f.Losses) == 0 {
		return nil, fmt.Errorf("%w: game %s", domain.ErrEmptyOutcomeTable, f.GameID)
	}

	gridLen := f.Rows * f.Cols
	for i, w := range f.Wins {
		if len(w.Grid) != gridLen {
			return nil, fmt.Errorf("%w: win %d grid length %d, want %d", domain.ErrInvalidTable, i, len(w.Grid), gridLen)
		}
		if w.BasePayoutUnits <= 0 {
			return nil, fmt.Errorf("%w: win %d has no payout", domain.ErrInvalidTable, i)
		}
	}
	for i, l := range f.Losses {
		if len(l.Grid) != gridLen {
			return nil, fmt.Errorf("%w: loss %d grid length %d, want %d", domain.ErrInvalidTable, i, len(l.Grid), gridLen)
		}
		if l.BasePayoutUnits != 0 || len(l.WinningLines) != 0 {
			return nil, fmt.Errorf("%w: loss %d carries a payout", domain.ErrInvalidTable, i)
		}
	}

	table := &domain.GameOutcomeTable{
		GameID: f.GameID,
		Rows:   f.Rows,
		Cols:   f.Cols,
		Lines:  f.Lines,
		Wins:   make([]domain.PredefinedResult, len(f.Wins)),
		Losses: make([]domain.PredefinedResult, len(f.Losses)),
	}
	for i, w := range f.Wins {
		table.Wins[i] = w.toDomain()
	}
	for i, l := range f.Losses {
		table.Losses[i] = l.toDomain()
	}
	return table, nil
}

func (r resultFile) toDomain() domain.PredefinedResult {
	out := domain.PredefinedResult{
		Grid:            append([]int(nil), r.Grid...),
		MultiplierUnits: r.MultiplierUnits,
		BasePayoutUnits: r.BasePayoutUnits,
	}
	for _, l := range r.WinningLines {
		out.WinningLines = append(out.WinningLines, domain.WinLine{
			LineIndex:       l.LineIndex,
			SymbolID:        l.SymbolID,
			MatchCount:      l.MatchCount,
			BasePayoutUnits: l.BasePayoutUnits,
			Cells:           append([]int(nil), l.Cells...),
		})
	}
	return out
}
