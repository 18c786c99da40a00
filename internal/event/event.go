package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ultraselfai/game-provider-sub000/internal/domain"
)

// EventSchemaVersion is the current event payload schema version
const EventSchemaVersion = "1.0"

// Type represents the type of an event
type Type string

// Common event types
const (
	RoundCompleted   Type = "round.completed"
	PoolPhaseChanged Type = "pool.phase_changed"
	PoolManualTx     Type = "pool.manual_transfer"
)

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// RoundCompletedPayloadV1 is the typed payload for round.completed events
type RoundCompletedPayloadV1 struct {
	RoundID    string  `json:"round_id"`
	AgentID    string  `json:"agent_id"`
	GameID     string  `json:"game_id"`
	PlayerID   string  `json:"player_id"`
	TotalBet   int64   `json:"total_bet"`
	TotalWin   int64   `json:"total_win"`
	Multiplier int64   `json:"multiplier"`
	IsWin      bool    `json:"is_win"`
	IsBigWin   bool    `json:"is_big_win"`
	IsMegaWin  bool    `json:"is_mega_win"`
	WinChance  float64 `json:"win_chance"`
	Timestamp  int64   `json:"timestamp"`
}

// PoolPhaseChangedPayloadV1 is the typed payload for pool.phase_changed events
type PoolPhaseChangedPayloadV1 struct {
	AgentID   string           `json:"agent_id"`
	From      domain.PoolPhase `json:"from"`
	To        domain.PoolPhase `json:"to"`
	Manual    bool             `json:"manual"`
	Balance   int64            `json:"balance"`
	Timestamp int64            `json:"timestamp"`
}

// NewRoundCompletedEvent creates a round.completed event with a typed payload
func NewRoundCompletedEvent(round *domain.Round) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RoundCompleted,
		Payload: RoundCompletedPayloadV1{
			RoundID:    round.ID,
			AgentID:    round.AgentID,
			GameID:     round.GameID,
			PlayerID:   round.PlayerID,
			TotalBet:   round.TotalBet,
			TotalWin:   round.TotalWin,
			Multiplier: round.Multiplier,
			IsWin:      round.IsWin,
			IsBigWin:   round.TotalWin >= domain.BigWinBetMultiple*round.BetPerLine*int64(round.LineCount),
			IsMegaWin:  round.TotalWin >= domain.MegaWinBetMultiple*round.BetPerLine*int64(round.LineCount),
			WinChance:  round.EffectiveWinChance,
			Timestamp:  time.Now().Unix(),
		},
	}
}

// NewPoolPhaseChangedEvent creates a pool.phase_changed event
func NewPoolPhaseChangedEvent(agentID string, from, to domain.PoolPhase, manual bool, balance int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    PoolPhaseChanged,
		Payload: PoolPhaseChangedPayloadV1{
			AgentID:   agentID,
			From:      from,
			To:        to,
			Manual:    manual,
			Balance:   balance,
			Timestamp: time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers synchronously.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d handler(s) failed for event %s: %v", len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
