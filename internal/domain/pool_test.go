package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolPhaseValid(t *testing.T) {
	assert.True(t, PhaseRetention.Valid())
	assert.True(t, PhaseNormal.Valid())
	assert.True(t, PhaseRelease.Valid())
	assert.False(t, PoolPhase("").Valid())
	assert.False(t, PoolPhase("panic").Valid())
}

func TestPhaseConfigFor(t *testing.T) {
	p := &LiquidityPool{
		Config: PoolConfig{
			Retention: PhaseConfig{WinChance: 20, MaxMultiplier: 10},
			Normal:    PhaseConfig{WinChance: 45, MaxMultiplier: 50},
			Release:   PhaseConfig{WinChance: 60, MaxMultiplier: 100},
		},
	}

	assert.Equal(t, 45.0, p.PhaseConfigFor(PhaseNormal).WinChance)
	assert.Equal(t, 60.0, p.PhaseConfigFor(PhaseRelease).WinChance)
	assert.Equal(t, 20.0, p.PhaseConfigFor(PhaseRetention).WinChance)
	// Unknown phases fall back to the most conservative levers
	assert.Equal(t, 20.0, p.PhaseConfigFor(PoolPhase("bogus")).WinChance)
}

func TestDerivedFields(t *testing.T) {
	p := &LiquidityPool{
		TotalBets:    1_000,
		TotalPayouts: 940,
		TotalSpins:   100,
		TotalWins:    45,
	}

	assert.InDelta(t, 94.0, p.RealRTP(), 1e-9)
	assert.Equal(t, int64(60), p.NetProfit())
	assert.InDelta(t, 45.0, p.WinRate(), 1e-9)
}

func TestDerivedFieldsZeroActivity(t *testing.T) {
	p := &LiquidityPool{}

	assert.Zero(t, p.RealRTP())
	assert.Zero(t, p.NetProfit())
	assert.Zero(t, p.WinRate())
}

func TestSnapshotCarriesDerivedFields(t *testing.T) {
	p := &LiquidityPool{
		AgentID:      "agent-1",
		Balance:      5_000,
		Phase:        PhaseNormal,
		TotalBets:    200,
		TotalPayouts: 80,
		TotalSpins:   2,
		TotalWins:    1,
	}

	s := p.Snapshot()
	assert.Equal(t, "agent-1", s.AgentID)
	assert.Equal(t, int64(5_000), s.Balance)
	assert.InDelta(t, 40.0, s.RealRTP, 1e-9)
	assert.Equal(t, int64(120), s.NetProfit)
	assert.InDelta(t, 50.0, s.WinRate, 1e-9)
}
