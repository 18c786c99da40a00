package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ultraselfai/game-provider-sub000/internal/domain"
	"github.com/ultraselfai/game-provider-sub000/internal/repository"
)

// memoryRepo is an in-memory repository.Pool with real transaction semantics:
// GetPoolForUpdate hands out a copy and Commit writes it back atomically, so
// the governor's locking discipline is exercised for real.
type memoryRepo struct {
	mu      sync.Mutex
	pools   map[string]*domain.LiquidityPool
	entries map[string][]domain.LedgerEntry

	// Error injection
	beginTxErr error
	commitErr  error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		pools:   make(map[string]*domain.LiquidityPool),
		entries: make(map[string][]domain.LedgerEntry),
	}
}

func (r *memoryRepo) GetPool(ctx context.Context, agentID string) (*domain.LiquidityPool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pools[agentID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPoolNotFound, agentID)
	}
	cp := *p
	return &cp, nil
}

func (r *memoryRepo) CreatePool(ctx context.Context, pool *domain.LiquidityPool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pools[pool.AgentID]; exists {
		return nil
	}
	cp := *pool
	r.pools[pool.AgentID] = &cp
	return nil
}

func (r *memoryRepo) UpdatePoolPhase(ctx context.Context, agentID string, phase domain.PoolPhase, manual bool, expiresAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pools[agentID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrPoolNotFound, agentID)
	}
	p.Phase = phase
	p.PhaseManual = manual
	p.PhaseExpiresAt = expiresAt
	return nil
}

func (r *memoryRepo) ListLedgerEntries(ctx context.Context, agentID string, filter domain.LedgerFilter) ([]domain.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.LedgerEntry
	all := r.entries[agentID]
	for i := len(all) - 1; i >= 0; i-- { // newest first
		e := all[i]
		if filter.Kind != nil && e.Kind != *filter.Kind {
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

func (r *memoryRepo) BeginTx(ctx context.Context) (repository.PoolTx, error) {
	if r.beginTxErr != nil {
		return nil, r.beginTxErr
	}
	return &memoryTx{repo: r}, nil
}

// allEntries returns the full ledger for an agent, oldest first.
func (r *memoryRepo) allEntries(agentID string) []domain.LedgerEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.LedgerEntry(nil), r.entries[agentID]...)
}

type memoryTx struct {
	repo    *memoryRepo
	pending *domain.LiquidityPool
	entries []domain.LedgerEntry
	closed  bool
}

func (t *memoryTx) GetPoolForUpdate(ctx context.Context, agentID string) (*domain.LiquidityPool, error) {
	p, err := t.repo.GetPool(ctx, agentID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (t *memoryTx) UpdatePool(ctx context.Context, pool *domain.LiquidityPool) error {
	cp := *pool
	t.pending = &cp
	return nil
}

func (t *memoryTx) AppendLedgerEntry(ctx context.Context, entry *domain.LedgerEntry) error {
	t.entries = append(t.entries, *entry)
	return nil
}

func (t *memoryTx) Commit(ctx context.Context) error {
	if t.repo.commitErr != nil {
		return t.repo.commitErr
	}

	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	if t.pending != nil {
		t.repo.pools[t.pending.AgentID] = t.pending
	}
	for _, e := range t.entries {
		t.repo.entries[e.AgentID] = append(t.repo.entries[e.AgentID], e)
	}
	t.closed = true
	return nil
}

func (t *memoryTx) Rollback(ctx context.Context) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	t.closed = true
	return nil
}
