package pool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ultraselfai/game-provider-sub000/internal/domain"
)

func TestProcessSpinLedgerFlow(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	seedPool(t, repo, svc, "agent-1", 100)

	// Bet 10, payout 50: 100 -> 110 -> 60
	snapshot, err := svc.ProcessSpin(ctx, "agent-1", SpinSettlement{
		BetAmount:    10,
		PayoutAmount: 50,
		Multiplier:   5,
		Context:      domain.RoundContext{RoundID: "round-1", GameID: "classic-fruits", PlayerID: "player-9"},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(60), snapshot.Balance)
	assert.Equal(t, int64(10), snapshot.TotalBets)
	assert.Equal(t, int64(50), snapshot.TotalPayouts)
	assert.Equal(t, int64(1), snapshot.TotalSpins)
	assert.Equal(t, int64(1), snapshot.TotalWins)
	assert.Equal(t, int64(50), snapshot.BiggestPayout)

	entries := repo.allEntries("agent-1")
	require.Len(t, entries, 3) // seed deposit, bet, payout

	bet, payout := entries[1], entries[2]
	assert.Equal(t, domain.EntryKindBet, bet.Kind)
	assert.Equal(t, int64(10), bet.Amount)
	assert.Equal(t, int64(100), bet.BalanceBefore)
	assert.Equal(t, int64(110), bet.BalanceAfter)
	assert.Equal(t, "round-1", bet.RoundID)

	assert.Equal(t, domain.EntryKindPayout, payout.Kind)
	assert.Equal(t, int64(-50), payout.Amount)
	assert.Equal(t, int64(110), payout.BalanceBefore)
	assert.Equal(t, int64(60), payout.BalanceAfter)
	assert.Equal(t, int64(5), payout.Multiplier)
}

func TestProcessSpinLossWritesSingleEntry(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	seedPool(t, repo, svc, "agent-1", 100)

	snapshot, err := svc.ProcessSpin(ctx, "agent-1", SpinSettlement{BetAmount: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(110), snapshot.Balance)
	assert.Equal(t, int64(1), snapshot.TotalSpins)
	assert.Zero(t, snapshot.TotalWins)

	entries := repo.allEntries("agent-1")
	require.Len(t, entries, 2)
	assert.Equal(t, domain.EntryKindBet, entries[1].Kind)
}

func TestProcessSpinValidation(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.ProcessSpin(ctx, "agent-1", SpinSettlement{BetAmount: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.ProcessSpin(ctx, "agent-1", SpinSettlement{BetAmount: 10, PayoutAmount: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestProcessSpinPayoutCanOverdrawPool(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	seedPool(t, repo, svc, "agent-1", 20)

	// An already-resolved spin settles even past zero; CheckLimits is what
	// prevents granting such odds in the first place
	snapshot, err := svc.ProcessSpin(ctx, "agent-1", SpinSettlement{
		BetAmount:    10,
		PayoutAmount: 100,
		Multiplier:   10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-70), snapshot.Balance)
}

func TestManualDepositAndWithdraw(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	snapshot, err := svc.ManualDeposit(ctx, "agent-1", 500, "opening float")
	require.NoError(t, err)
	assert.Equal(t, int64(500), snapshot.Balance)

	snapshot, err = svc.ManualWithdraw(ctx, "agent-1", 200, "skim")
	require.NoError(t, err)
	assert.Equal(t, int64(300), snapshot.Balance)

	entries := repo.allEntries("agent-1")
	require.Len(t, entries, 2)
	assert.Equal(t, domain.EntryKindManualDeposit, entries[0].Kind)
	assert.Equal(t, int64(500), entries[0].Amount)
	assert.Equal(t, "opening float", entries[0].Note)
	assert.Equal(t, domain.EntryKindManualWithdraw, entries[1].Kind)
	assert.Equal(t, int64(-200), entries[1].Amount)
}

func TestManualWithdrawOverdraftRejected(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	seedPool(t, repo, svc, "agent-1", 100)

	_, err := svc.ManualWithdraw(ctx, "agent-1", 150, "")
	assert.ErrorIs(t, err, domain.ErrInsufficientPool)

	// Balance and ledger untouched
	snapshot, err := svc.Snapshot(ctx, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), snapshot.Balance)
	assert.Len(t, repo.allEntries("agent-1"), 1)
}

func TestManualTransferValidation(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.ManualDeposit(ctx, "agent-1", 0, "")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.ManualWithdraw(ctx, "agent-1", -5, "")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestSetPhasePinsAndExpires(t *testing.T) {
	repo := newMemoryRepo()
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(repo)
	svc.now = func() time.Time { return current }
	ctx := context.Background()

	seedPool(t, repo, svc, "agent-1", 15_000) // would auto-release

	require.NoError(t, svc.SetPhase(ctx, "agent-1", domain.PhaseRetention, time.Hour))

	limits, err := svc.CheckLimits(ctx, "agent-1", 10, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseRetention, limits.Phase)

	// Advance past the pin expiry; automatic evaluation resumes
	current = current.Add(2 * time.Hour)

	limits, err = svc.CheckLimits(ctx, "agent-1", 10, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseRelease, limits.Phase)
}

func TestSetPhaseIndefinite(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	seedPool(t, repo, svc, "agent-1", 15_000)

	require.NoError(t, svc.SetPhase(ctx, "agent-1", domain.PhaseNormal, 0))

	limits, err := svc.CheckLimits(ctx, "agent-1", 10, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseNormal, limits.Phase)
}

func TestSetPhaseRejectsUnknownPhase(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	err := svc.SetPhase(context.Background(), "agent-1", domain.PoolPhase("bogus"), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidPhase)
}

func TestSnapshotDerivedFields(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	seedPool(t, repo, svc, "agent-1", 1_000)

	_, err := svc.ProcessSpin(ctx, "agent-1", SpinSettlement{BetAmount: 100, PayoutAmount: 80, Multiplier: 1})
	require.NoError(t, err)
	_, err = svc.ProcessSpin(ctx, "agent-1", SpinSettlement{BetAmount: 100})
	require.NoError(t, err)

	snapshot, err := svc.Snapshot(ctx, "agent-1")
	require.NoError(t, err)

	assert.Equal(t, int64(200), snapshot.TotalBets)
	assert.Equal(t, int64(80), snapshot.TotalPayouts)
	assert.InDelta(t, 40.0, snapshot.RealRTP, 1e-9)  // 80/200
	assert.Equal(t, int64(120), snapshot.NetProfit)  // 200-80
	assert.InDelta(t, 50.0, snapshot.WinRate, 1e-9)  // 1 of 2
}

func TestSnapshotUnknownAgent(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	_, err := svc.Snapshot(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrPoolNotFound)
}

func TestLedgerFilterByKind(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	seedPool(t, repo, svc, "agent-1", 100)
	_, err := svc.ProcessSpin(ctx, "agent-1", SpinSettlement{BetAmount: 10, PayoutAmount: 5, Multiplier: 1})
	require.NoError(t, err)

	kind := domain.EntryKindBet
	entries, err := svc.Ledger(ctx, "agent-1", domain.LedgerFilter{Kind: &kind})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.EntryKindBet, entries[0].Kind)
}
