// Package postgres implements the repository interfaces on PostgreSQL via
// pgx. Ledger mutations run inside transactions that lock the pool row with
// SELECT ... FOR UPDATE, so the per-agent in-process lock is backed by
// storage-level serialization.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ultraselfai/game-provider-sub000/internal/domain"
	"github.com/ultraselfai/game-provider-sub000/internal/repository"
)

const poolColumns = `agent_id, balance, phase, phase_manual, phase_expires_at, config,
		total_bets, total_payouts, total_spins, total_wins, biggest_payout,
		created_at, updated_at`

type poolRepository struct {
	db *pgxpool.Pool
}

// NewPoolRepository creates a new PostgreSQL pool repository
func NewPoolRepository(db *pgxpool.Pool) repository.Pool {
	return &poolRepository{db: db}
}

func (r *poolRepository) GetPool(ctx context.Context, agentID string) (*domain.LiquidityPool, error) {
	query := `SELECT ` + poolColumns + ` FROM liquidity_pools WHERE agent_id = $1`
	return scanPool(r.db.QueryRow(ctx, query, agentID), agentID)
}

// CreatePool inserts a new pool row. ON CONFLICT DO NOTHING makes concurrent
// creation for the same agent idempotent.
func (r *poolRepository) CreatePool(ctx context.Context, pool *domain.LiquidityPool) error {
	configJSON, err := json.Marshal(pool.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal pool config: %w", err)
	}

	query := `
		INSERT INTO liquidity_pools (agent_id, balance, phase, phase_manual, phase_expires_at, config)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (agent_id) DO NOTHING
	`
	_, err = r.db.Exec(ctx, query,
		pool.AgentID, pool.Balance, pool.Phase, pool.PhaseManual, pool.PhaseExpiresAt, configJSON)
	return err
}

func (r *poolRepository) UpdatePoolPhase(ctx context.Context, agentID string, phase domain.PoolPhase, manual bool, expiresAt *time.Time) error {
	query := `
		UPDATE liquidity_pools
		SET phase = $2, phase_manual = $3, phase_expires_at = $4, updated_at = NOW()
		WHERE agent_id = $1
	`
	tag, err := r.db.Exec(ctx, query, agentID, phase, manual, expiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrPoolNotFound, agentID)
	}
	return nil
}

func (r *poolRepository) ListLedgerEntries(ctx context.Context, agentID string, filter domain.LedgerFilter) ([]domain.LedgerEntry, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id, agent_id, kind, amount, balance_before, balance_after, phase,
			session_id, round_id, game_id, player_id, bet_amount, multiplier, note, created_at
		FROM pool_ledger
		WHERE agent_id = $1`)

	args := []interface{}{agentID}
	argNum := 2

	if filter.Kind != nil {
		fmt.Fprintf(&queryBuilder, " AND kind = $%d", argNum)
		args = append(args, *filter.Kind)
		argNum++
	}

	if filter.Since != nil {
		fmt.Fprintf(&queryBuilder, " AND created_at >= $%d", argNum)
		args = append(args, *filter.Since)
		argNum++
	}

	if filter.Until != nil {
		fmt.Fprintf(&queryBuilder, " AND created_at <= $%d", argNum)
		args = append(args, *filter.Until)
		argNum++
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC")

	if filter.Limit > 0 {
		fmt.Fprintf(&queryBuilder, " LIMIT $%d", argNum)
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		err := rows.Scan(&e.ID, &e.AgentID, &e.Kind, &e.Amount, &e.BalanceBefore, &e.BalanceAfter,
			&e.Phase, &e.SessionID, &e.RoundID, &e.GameID, &e.PlayerID,
			&e.BetAmount, &e.Multiplier, &e.Note, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *poolRepository) BeginTx(ctx context.Context) (repository.PoolTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &poolTx{tx: tx}, nil
}

type poolTx struct {
	tx pgx.Tx
}

func (t *poolTx) GetPoolForUpdate(ctx context.Context, agentID string) (*domain.LiquidityPool, error) {
	query := `SELECT ` + poolColumns + ` FROM liquidity_pools WHERE agent_id = $1 FOR UPDATE`
	return scanPool(t.tx.QueryRow(ctx, query, agentID), agentID)
}

func (t *poolTx) UpdatePool(ctx context.Context, pool *domain.LiquidityPool) error {
	configJSON, err := json.Marshal(pool.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal pool config: %w", err)
	}

	query := `
		UPDATE liquidity_pools
		SET balance = $2, phase = $3, phase_manual = $4, phase_expires_at = $5, config = $6,
			total_bets = $7, total_payouts = $8, total_spins = $9, total_wins = $10,
			biggest_payout = $11, updated_at = NOW()
		WHERE agent_id = $1
	`
	tag, err := t.tx.Exec(ctx, query,
		pool.AgentID, pool.Balance, pool.Phase, pool.PhaseManual, pool.PhaseExpiresAt, configJSON,
		pool.TotalBets, pool.TotalPayouts, pool.TotalSpins, pool.TotalWins, pool.BiggestPayout)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrPoolNotFound, pool.AgentID)
	}
	return nil
}

func (t *poolTx) AppendLedgerEntry(ctx context.Context, entry *domain.LedgerEntry) error {
	query := `
		INSERT INTO pool_ledger (id, agent_id, kind, amount, balance_before, balance_after, phase,
			session_id, round_id, game_id, player_id, bet_amount, multiplier, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := t.tx.Exec(ctx, query,
		entry.ID, entry.AgentID, entry.Kind, entry.Amount, entry.BalanceBefore, entry.BalanceAfter,
		entry.Phase, entry.SessionID, entry.RoundID, entry.GameID, entry.PlayerID,
		entry.BetAmount, entry.Multiplier, entry.Note, entry.CreatedAt)
	return err
}

func (t *poolTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *poolTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func scanPool(row pgx.Row, agentID string) (*domain.LiquidityPool, error) {
	var p domain.LiquidityPool
	var configJSON []byte

	err := row.Scan(&p.AgentID, &p.Balance, &p.Phase, &p.PhaseManual, &p.PhaseExpiresAt, &configJSON,
		&p.TotalBets, &p.TotalPayouts, &p.TotalSpins, &p.TotalWins, &p.BiggestPayout,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPoolNotFound, agentID)
		}
		return nil, err
	}

	if err := json.Unmarshal(configJSON, &p.Config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pool config: %w", err)
	}
	return &p, nil
}
