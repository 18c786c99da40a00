package repository

import (
	"context"
	"time"

	"github.com/ultraselfai/game-provider-sub000/internal/domain"
)

// Pool defines persistence for liquidity pools and their ledgers.
type Pool interface {
	// GetPool returns the pool for an agent or domain.ErrPoolNotFound.
	GetPool(ctx context.Context, agentID string) (*domain.LiquidityPool, error)

	// CreatePool inserts a new pool row. Creation is idempotent per agent;
	// a concurrent create for the same agent must not produce two rows.
	CreatePool(ctx context.Context, pool *domain.LiquidityPool) error

	// UpdatePoolPhase persists a phase transition outside a ledger mutation.
	UpdatePoolPhase(ctx context.Context, agentID string, phase domain.PoolPhase, manual bool, expiresAt *time.Time) error

	// ListLedgerEntries returns entries for an agent, newest first.
	ListLedgerEntries(ctx context.Context, agentID string, filter domain.LedgerFilter) ([]domain.LedgerEntry, error)

	// BeginTx starts a ledger mutation transaction.
	BeginTx(ctx context.Context) (PoolTx, error)
}
