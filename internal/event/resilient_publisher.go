package event

import (
	"context"
	"sync"
	"time"

	"github.com/ultraselfai/game-provider-sub000/internal/logger"
	"github.com/ultraselfai/game-provider-sub000/internal/metrics"
)

// ResilientConfig configures the ResilientPublisher
type ResilientConfig struct {
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultResilientConfig returns sensible retry defaults
func DefaultResilientConfig() ResilientConfig {
	return ResilientConfig{
		MaxRetries: 3,
		RetryDelay: 500 * time.Millisecond,
	}
}

// ResilientPublisher wraps an Event Bus to add retry logic. A failed publish
// never fails the spin that produced it; retries run detached from the
// request, and events that exhaust their retries go to the dead-letter file.
type ResilientPublisher struct {
	inner      Bus
	config     ResilientConfig
	deadLetter *DeadLetterWriter
	wg         sync.WaitGroup
}

// NewResilientPublisher creates a new ResilientPublisher. deadLetter may be
// nil, in which case exhausted events are dropped after logging.
func NewResilientPublisher(inner Bus, config ResilientConfig, deadLetter *DeadLetterWriter) *ResilientPublisher {
	return &ResilientPublisher{
		inner:      inner,
		config:     config,
		deadLetter: deadLetter,
	}
}

// Publish attempts to publish an event. If it fails, it initiates a
// background retry loop and returns nil to the caller immediately.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		metrics.EventsPublished.WithLabelValues(string(event.Type)).Inc()
		return nil
	}

	logger.Warn("Failed to publish event, initiating async retry",
		"event_type", event.Type,
		"error", err,
		"retries", p.config.MaxRetries)

	p.wg.Add(1)
	go p.retryLoop(event)

	return nil
}

func (p *ResilientPublisher) retryLoop(event Event) {
	defer p.wg.Done()

	// Detached context: the originating request may already be done
	ctx := context.Background()

	var lastErr error
	for attempt := 1; attempt <= p.config.MaxRetries; attempt++ {
		time.Sleep(p.config.RetryDelay * time.Duration(attempt))

		if lastErr = p.inner.Publish(ctx, event); lastErr == nil {
			metrics.EventsPublished.WithLabelValues(string(event.Type)).Inc()
			return
		}
	}

	metrics.EventHandlerErrors.WithLabelValues(string(event.Type)).Inc()

	if p.deadLetter != nil {
		err := p.deadLetter.Write(event, p.config.MaxRetries, lastErr)
		if err == nil {
			logger.Warn("Event dead-lettered after exhausting retries",
				"event_type", event.Type,
				"retries", p.config.MaxRetries)
			return
		}
		logger.Error("Failed to write dead letter entry",
			"event_type", event.Type,
			"error", err)
	}

	logger.Error("Dropping event after exhausting retries",
		"event_type", event.Type,
		"retries", p.config.MaxRetries)
}

// Wait blocks until all background retries finish. Used during shutdown.
func (p *ResilientPublisher) Wait() {
	p.wg.Wait()
}
