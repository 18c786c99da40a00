package pool

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ultraselfai/game-provider-sub000/internal/domain"
)

func TestProcessSpinConcurrentSameAgent(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	const workers = 50

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ProcessSpin(ctx, "agent-1", SpinSettlement{BetAmount: 10})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	snapshot, err := svc.Snapshot(ctx, "agent-1")
	require.NoError(t, err)

	// No lost updates: every bet landed exactly once
	assert.Equal(t, int64(10*workers), snapshot.Balance)
	assert.Equal(t, int64(workers), snapshot.TotalSpins)
	assert.Len(t, repo.allEntries("agent-1"), workers)
}

func TestProcessSpinConcurrentLedgerChain(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	const workers = 30

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			settlement := SpinSettlement{BetAmount: 10}
			if n%3 == 0 {
				settlement.PayoutAmount = 5
				settlement.Multiplier = 1
			}
			_, err := svc.ProcessSpin(ctx, "agent-1", settlement)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// Every entry must chain: balanceAfter == balanceBefore + amount, and
	// each entry's before must equal the previous entry's after
	entries := repo.allEntries("agent-1")
	require.NotEmpty(t, entries)

	var prev *domain.LedgerEntry
	for i := range entries {
		e := entries[i]
		assert.Equal(t, e.BalanceAfter, e.BalanceBefore+e.Amount, "entry %d breaks the balance invariant", i)
		if prev != nil {
			assert.Equal(t, prev.BalanceAfter, e.BalanceBefore, "entry %d does not chain from its predecessor", i)
		}
		prev = &entries[i]
	}
}

func TestConcurrentDistinctAgentsDoNotInterfere(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	const agents = 10
	const spinsPerAgent = 20

	var wg sync.WaitGroup
	for a := 0; a < agents; a++ {
		for s := 0; s < spinsPerAgent; s++ {
			wg.Add(1)
			go func(agent string) {
				defer wg.Done()
				_, err := svc.ProcessSpin(ctx, agent, SpinSettlement{BetAmount: 10})
				assert.NoError(t, err)
			}(agentName(a))
		}
	}
	wg.Wait()

	for a := 0; a < agents; a++ {
		snapshot, err := svc.Snapshot(ctx, agentName(a))
		require.NoError(t, err)
		assert.Equal(t, int64(10*spinsPerAgent), snapshot.Balance)
		assert.Equal(t, int64(spinsPerAgent), snapshot.TotalSpins)
	}
}

func TestConcurrentManualTransfers(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	seedPool(t, repo, svc, "agent-1", 10_000)

	const workers = 20

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			var err error
			if n%2 == 0 {
				_, err = svc.ManualDeposit(ctx, "agent-1", 100, "")
			} else {
				_, err = svc.ManualWithdraw(ctx, "agent-1", 100, "")
			}
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// Equal deposits and withdrawals cancel out
	snapshot, err := svc.Snapshot(ctx, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, int64(10_000), snapshot.Balance)
}

func agentName(i int) string {
	return "agent-" + string(rune('a'+i))
}

func TestCheckLimitsHoldsAgentLock(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	seedPool(t, repo, svc, "agent-1", 5_000)

	// While the agent lock is held no CheckLimits call may read the pool,
	// so the phase it persists is always derived from a settled balance.
	mu := svc.locks.GetLock("agent-1")
	mu.Lock()

	done := make(chan error, 1)
	go func() {
		_, err := svc.CheckLimits(ctx, "agent-1", 10, 1)
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("CheckLimits completed while the agent lock was held")
	case <-time.After(50 * time.Millisecond):
	}

	mu.Unlock()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("CheckLimits did not finish after the lock was released")
	}

	snapshot, err := svc.Snapshot(ctx, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseNormal, snapshot.Phase)
}
