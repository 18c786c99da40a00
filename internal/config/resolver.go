package config

import (
	"github.com/ultraselfai/game-provider-sub000/internal/domain"
)

// PoolSettings is a partial pool risk configuration. Zero values mean
// "not set here, look further down the priority chain".
type PoolSettings struct {
	Retention          domain.PhaseConfig
	Normal             domain.PhaseConfig
	Release            domain.PhaseConfig
	RetentionThreshold int64
	ReleaseThreshold   int64
	MaxRiskPercent     float64
	MaxAbsolutePayout  int64
}

// Hard defaults for pool risk configuration. Amounts are minor units.
const (
	DefaultRetentionThreshold = 1_000_00
	DefaultReleaseThreshold   = 10_000_00
	DefaultMaxRiskPercent     = 30.0
	DefaultMaxAbsolutePayout  = 50_000_00
)

// Default phase levers
var (
	DefaultRetentionPhase = domain.PhaseConfig{WinChance: 20, MaxMultiplier: 10}
	DefaultNormalPhase    = domain.PhaseConfig{WinChance: 45, MaxMultiplier: 50}
	DefaultReleasePhase   = domain.PhaseConfig{WinChance: 60, MaxMultiplier: 100}
)

// ResolvePoolConfig collapses the three configuration layers into one
// fully-populated pool config: per-agent DB override beats static service
// settings, which beat the hard defaults. Every field of the result is set;
// no caller ever sees a partial config.
func ResolvePoolConfig(override, static *PoolSettings) domain.PoolConfig {
	cfg := domain.PoolConfig{
		Retention:          DefaultRetentionPhase,
		Normal:             DefaultNormalPhase,
		Release:            DefaultReleasePhase,
		RetentionThreshold: DefaultRetentionThreshold,
		ReleaseThreshold:   DefaultReleaseThreshold,
		MaxRiskPercent:     DefaultMaxRiskPercent,
		MaxAbsolutePayout:  DefaultMaxAbsolutePayout,
	}

	for _, layer := range []*PoolSettings{static, override} {
		if layer == nil {
			continue
		}
		applyLayer(&cfg, layer)
	}
	return cfg
}

func applyLayer(cfg *domain.PoolConfig, layer *PoolSettings) {
	applyPhase(&cfg.Retention, layer.Retention)
	applyPhase(&cfg.Normal, layer.Normal)
	applyPhase(&cfg.Release, layer.Release)

	if layer.RetentionThreshold > 0 {
		cfg.RetentionThreshold = layer.RetentionThreshold
	}
	if layer.ReleaseThreshold > 0 {
		cfg.ReleaseThreshold = layer.ReleaseThreshold
	}
	if layer.MaxRiskPercent > 0 {
		cfg.MaxRiskPercent = layer.MaxRiskPercent
	}
	if layer.MaxAbsolutePayout > 0 {
		cfg.MaxAbsolutePayout = layer.MaxAbsolutePayout
	}
}

func applyPhase(dst *domain.PhaseConfig, src domain.PhaseConfig) {
	if src.WinChance > 0 {
		dst.WinChance = src.WinChance
	}
	if src.MaxMultiplier > 0 {
		dst.MaxMultiplier = src.MaxMultiplier
	}
}
