package repository

import (
	"context"

	"github.com/ultraselfai/game-provider-sub000/internal/domain"
)

// PoolTx defines the transactional operations for one ledger mutation. The
// pool row is read FOR UPDATE so storage-level serialization backs the
// in-process per-agent lock.
type PoolTx interface {
	GetPoolForUpdate(ctx context.Context, agentID string) (*domain.LiquidityPool, error)
	UpdatePool(ctx context.Context, pool *domain.LiquidityPool) error
	AppendLedgerEntry(ctx context.Context, entry *domain.LedgerEntry) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
