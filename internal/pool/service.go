// Package pool implements the per-agent liquidity governor: the phase state
// machine, the payout-limit computation for the next spin, and the only code
// path allowed to mutate a pool's ledger.
package pool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ultraselfai/game-provider-sub000/internal/concurrency"
	"github.com/ultraselfai/game-provider-sub000/internal/domain"
	"github.com/ultraselfai/game-provider-sub000/internal/event"
	"github.com/ultraselfai/game-provider-sub000/internal/logger"
	"github.com/ultraselfai/game-provider-sub000/internal/metrics"
	"github.com/ultraselfai/game-provider-sub000/internal/repository"
)

// SpinSettlement carries the amounts of one resolved spin into the ledger.
type SpinSettlement struct {
	BetAmount    int64
	PayoutAmount int64
	Multiplier   int64
	Context      domain.RoundContext
}

// Service defines the interface for liquidity pool operations
type Service interface {
	CheckLimits(ctx context.Context, agentID string, bet, creditsPerLine int64) (*domain.PayoutLimits, error)
	ProcessSpin(ctx context.Context, agentID string, settlement SpinSettlement) (*domain.PoolSnapshot, error)
	ManualDeposit(ctx context.Context, agentID string, amount int64, note string) (*domain.PoolSnapshot, error)
	ManualWithdraw(ctx context.Context, agentID string, amount int64, note string) (*domain.PoolSnapshot, error)
	SetPhase(ctx context.Context, agentID string, phase domain.PoolPhase, duration time.Duration) error
	Snapshot(ctx context.Context, agentID string) (*domain.PoolSnapshot, error)
	Ledger(ctx context.Context, agentID string, filter domain.LedgerFilter) ([]domain.LedgerEntry, error)
}

type service struct {
	repo      repository.Pool
	locks     *concurrency.LockManager
	defaults  domain.PoolConfig
	publisher *event.ResilientPublisher
	now       func() time.Time // Injectable for testing
}

// NewService creates a new pool governor service. The publisher may be nil
// when phase change notifications are not needed.
func NewService(repo repository.Pool, locks *concurrency.LockManager, defaults domain.PoolConfig, publisher *event.ResilientPublisher) Service {
	return &service{
		repo:      repo,
		locks:     locks,
		defaults:  defaults,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *service) publishPhaseChange(ctx context.Context, agentID string, from, to domain.PoolPhase, manual bool, balance int64) {
	if s.publisher == nil {
		return
	}
	evt := event.NewPoolPhaseChangedEvent(agentID, from, to, manual, balance)
	if err := s.publisher.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish phase change event",
			"agent_id", agentID, "error", err)
	}
}

// getOrCreate loads the agent's pool, creating it lazily on first reference
// with balance 0 in the retention phase.
func (s *service) getOrCreate(ctx context.Context, agentID string) (*domain.LiquidityPool, error) {
	p, err := s.repo.GetPool(ctx, agentID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrPoolNotFound) {
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}

	now := s.now().UTC()
	p = &domain.LiquidityPool{
		AgentID:   agentID,
		Balance:   0,
		Phase:     domain.PhaseRetention,
		Config:    s.defaults,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreatePool(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	logger.FromContext(ctx).Info("Created liquidity pool", "agent_id", agentID)
	return p, nil
}

// ProcessSpin posts one settled spin to the ledger: a bet entry, then a
// payout entry when the spin won. The per-agent lock plus the FOR UPDATE
// transaction guarantee a total order of ledger entries per pool.
func (s *service) ProcessSpin(ctx context.Context, agentID string, settlement SpinSettlement) (*domain.PoolSnapshot, error) {
	if settlement.BetAmount <= 0 {
		return nil, fmt.Errorf("%w: bet=%d", domain.ErrInvalidAmount, settlement.BetAmount)
	}
	if settlement.PayoutAmount < 0 {
		return nil, fmt.Errorf("%w: payout=%d", domain.ErrInvalidAmount, settlement.PayoutAmount)
	}

	var snapshot *domain.PoolSnapshot
	err := s.locks.WithLock(agentID, func() error {
		if _, err := s.getOrCreate(ctx, agentID); err != nil {
			return err
		}

		tx, err := s.repo.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer repository.SafeRollback(ctx, tx)

		p, err := tx.GetPoolForUpdate(ctx, agentID)
		if err != nil {
			return fmt.Errorf("failed to lock pool row: %w", err)
		}

		now := s.now().UTC()

		balanceAfterBet := p.Balance + settlement.BetAmount
		betEntry := s.newEntry(p, domain.EntryKindBet, settlement.BetAmount, p.Balance, now)
		betEntry.SessionID = settlement.Context.SessionID
		betEntry.RoundID = settlement.Context.RoundID
		betEntry.GameID = settlement.Context.GameID
		betEntry.PlayerID = settlement.Context.PlayerID
		betEntry.BetAmount = settlement.BetAmount
		if err := tx.AppendLedgerEntry(ctx, betEntry); err != nil {
			return fmt.Errorf("failed to append bet entry: %w", err)
		}

		p.Balance = balanceAfterBet
		p.TotalBets += settlement.BetAmount
		p.TotalSpins++

		if settlement.PayoutAmount > 0 {
			payoutEntry := s.newEntry(p, domain.EntryKindPayout, -settlement.PayoutAmount, balanceAfterBet, now)
			payoutEntry.SessionID = settlement.Context.SessionID
			payoutEntry.RoundID = settlement.Context.RoundID
			payoutEntry.GameID = settlement.Context.GameID
			payoutEntry.PlayerID = settlement.Context.PlayerID
			payoutEntry.BetAmount = settlement.BetAmount
			payoutEntry.Multiplier = settlement.Multiplier
			if err := tx.AppendLedgerEntry(ctx, payoutEntry); err != nil {
				return fmt.Errorf("failed to append payout entry: %w", err)
			}

			p.Balance = balanceAfterBet - settlement.PayoutAmount
			p.TotalPayouts += settlement.PayoutAmount
			p.TotalWins++
			if settlement.PayoutAmount > p.BiggestPayout {
				p.BiggestPayout = settlement.PayoutAmount
			}
		}

		p.UpdatedAt = now
		if err := tx.UpdatePool(ctx, p); err != nil {
			return fmt.Errorf("failed to update pool: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}

		snapshot = p.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PoolBalance.WithLabelValues(agentID).Set(float64(snapshot.Balance))
	metrics.LedgerEntriesTotal.WithLabelValues(string(domain.EntryKindBet)).Inc()
	if settlement.PayoutAmount > 0 {
		metrics.LedgerEntriesTotal.WithLabelValues(string(domain.EntryKindPayout)).Inc()
	}

	return snapshot, nil
}

// ManualDeposit credits operator funds into the pool.
func (s *service) ManualDeposit(ctx context.Context, agentID string, amount int64, note string) (*domain.PoolSnapshot, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: deposit=%d", domain.ErrInvalidAmount, amount)
	}
	return s.manualTransfer(ctx, agentID, domain.EntryKindManualDeposit, amount, note)
}

// ManualWithdraw debits operator funds from the pool. Withdrawing more than
// the current balance is rejected.
func (s *service) ManualWithdraw(ctx context.Context, agentID string, amount int64, note string) (*domain.PoolSnapshot, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: withdraw=%d", domain.ErrInvalidAmount, amount)
	}
	return s.manualTransfer(ctx, agentID, domain.EntryKindManualWithdraw, -amount, note)
}

// manualTransfer follows the same lock -> read -> compute -> append ->
// persist pattern as ProcessSpin. Amount is already signed.
func (s *service) manualTransfer(ctx context.Context, agentID string, kind domain.LedgerEntryKind, amount int64, note string) (*domain.PoolSnapshot, error) {
	var snapshot *domain.PoolSnapshot
	err := s.locks.WithLock(agentID, func() error {
		if _, err := s.getOrCreate(ctx, agentID); err != nil {
			return err
		}

		tx, err := s.repo.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer repository.SafeRollback(ctx, tx)

		p, err := tx.GetPoolForUpdate(ctx, agentID)
		if err != nil {
			return fmt.Errorf("failed to lock pool row: %w", err)
		}

		if kind == domain.EntryKindManualWithdraw && p.Balance+amount < 0 {
			return fmt.Errorf("%w: balance=%d withdraw=%d", domain.ErrInsufficientPool, p.Balance, -amount)
		}

		now := s.now().UTC()
		entry := s.newEntry(p, kind, amount, p.Balance, now)
		entry.Note = note
		if err := tx.AppendLedgerEntry(ctx, entry); err != nil {
			return fmt.Errorf("failed to append ledger entry: %w", err)
		}

		p.Balance += amount
		p.UpdatedAt = now
		if err := tx.UpdatePool(ctx, p); err != nil {
			return fmt.Errorf("failed to update pool: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}

		snapshot = p.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PoolBalance.WithLabelValues(agentID).Set(float64(snapshot.Balance))
	metrics.LedgerEntriesTotal.WithLabelValues(string(kind)).Inc()

	return snapshot, nil
}

func (s *service) newEntry(p *domain.LiquidityPool, kind domain.LedgerEntryKind, amount, balanceBefore int64, now time.Time) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:            uuid.NewString(),
		AgentID:       p.AgentID,
		Kind:          kind,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceBefore + amount,
		Phase:         p.Phase,
		CreatedAt:     now,
	}
}

// SetPhase pins the pool to a phase, disabling automatic transitions until
// the pin expires. A zero duration pins indefinitely.
func (s *service) SetPhase(ctx context.Context, agentID string, phase domain.PoolPhase, duration time.Duration) error {
	if !phase.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidPhase, phase)
	}

	return s.locks.WithLock(agentID, func() error {
		p, err := s.getOrCreate(ctx, agentID)
		if err != nil {
			return err
		}

		var expiresAt *time.Time
		if duration > 0 {
			t := s.now().UTC().Add(duration)
			expiresAt = &t
		}
		if err := s.repo.UpdatePoolPhase(ctx, agentID, phase, true, expiresAt); err != nil {
			return fmt.Errorf("failed to set phase: %w", err)
		}
		logger.FromContext(ctx).Info("Pool phase pinned",
			"agent_id", agentID, "phase", phase, "expires_at", expiresAt)
		if phase != p.Phase {
			s.publishPhaseChange(ctx, agentID, p.Phase, phase, true, p.Balance)
		}
		return nil
	})
}

// Snapshot returns the reporting view of the pool.
func (s *service) Snapshot(ctx context.Context, agentID string) (*domain.PoolSnapshot, error) {
	p, err := s.repo.GetPool(ctx, agentID)
	if err != nil {
		return nil, err
	}
	return p.Snapshot(), nil
}

// Ledger lists ledger entries for the agent, newest first.
func (s *service) Ledger(ctx context.Context, agentID string, filter domain.LedgerFilter) ([]domain.LedgerEntry, error) {
	return s.repo.ListLedgerEntries(ctx, agentID, filter)
}
