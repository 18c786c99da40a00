package spin

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ultraselfai/game-provider-sub000/internal/domain"
	"github.com/ultraselfai/game-provider-sub000/internal/pool"
)

type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) Get(ctx context.Context, gameID string) (*domain.GameOutcomeTable, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GameOutcomeTable), args.Error(1)
}

func (m *mockRegistry) GameIDs() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

type mockPoolService struct {
	mock.Mock
}

func (m *mockPoolService) CheckLimits(ctx context.Context, agentID string, bet, creditsPerLine int64) (*domain.PayoutLimits, error) {
	args := m.Called(ctx, agentID, bet, creditsPerLine)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayoutLimits), args.Error(1)
}

func (m *mockPoolService) ProcessSpin(ctx context.Context, agentID string, settlement pool.SpinSettlement) (*domain.PoolSnapshot, error) {
	args := m.Called(ctx, agentID, settlement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PoolSnapshot), args.Error(1)
}

func (m *mockPoolService) ManualDeposit(ctx context.Context, agentID string, amount int64, note string) (*domain.PoolSnapshot, error) {
	args := m.Called(ctx, agentID, amount, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PoolSnapshot), args.Error(1)
}

func (m *mockPoolService) ManualWithdraw(ctx context.Context, agentID string, amount int64, note string) (*domain.PoolSnapshot, error) {
	args := m.Called(ctx, agentID, amount, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PoolSnapshot), args.Error(1)
}

func (m *mockPoolService) SetPhase(ctx context.Context, agentID string, phase domain.PoolPhase, duration time.Duration) error {
	args := m.Called(ctx, agentID, phase, duration)
	return args.Error(0)
}

func (m *mockPoolService) Snapshot(ctx context.Context, agentID string) (*domain.PoolSnapshot, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PoolSnapshot), args.Error(1)
}

func (m *mockPoolService) Ledger(ctx context.Context, agentID string, filter domain.LedgerFilter) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, agentID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

type mockRoundRepo struct {
	mock.Mock
}

func (m *mockRoundRepo) CreateRound(ctx context.Context, round *domain.Round) error {
	args := m.Called(ctx, round)
	return args.Error(0)
}

func (m *mockRoundRepo) GetRound(ctx context.Context, roundID string) (*domain.Round, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Round), args.Error(1)
}
