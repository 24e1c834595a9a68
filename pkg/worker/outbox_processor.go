package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dentalbright/booking-api/internal/model"
	"github.com/dentalbright/booking-api/internal/repository"
	"github.com/dentalbright/booking-api/pkg/logger"
	"github.com/dentalbright/booking-api/pkg/messaging"
	"github.com/dentalbright/booking-api/pkg/metrics"
)

type OutboxProcessorConfig struct {
	BatchSize     int
	PollInterval  time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// OutboxProcessor drains pending outbox events into the message broker so
// downstream consumers (confirmation calls, emails) see every booking
// exactly once per successful publish.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	config  OutboxProcessorConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	config OutboxProcessorConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *OutboxProcessor {
	if config.BatchSize <= 0 {
		panic("BatchSize must be greater than 0")
	}
	if config.PollInterval <= 0 {
		panic("PollInterval must be greater than 0")
	}
	if config.RetryAttempts <= 0 {
		panic("RetryAttempts must be greater than 0")
	}
	if config.RetryDelay <= 0 {
		panic("RetryDelay must be greater than 0")
	}

	return &OutboxProcessor{
		repo:    repo,
		broker:  broker,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("Starting outbox processor")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Shutting down outbox processor")
			return
		case <-ticker.C:
			if err := p.processEvents(ctx); err != nil {
				p.logger.Error(err, "Failed to process events")
			}
		}
	}
}

// processEvents runs one claim-and-publish batch. The repository holds the
// claim open for the whole call and records each outcome, so a returned
// publish error fails just that event.
func (p *OutboxProcessor) processEvents(ctx context.Context) error {
	timer := prometheus.NewTimer(p.metrics.OutboxProcessingLatency)
	defer timer.ObserveDuration()

	err := p.repo.ProcessPending(ctx, p.config.BatchSize, func(event *model.OutboxEvent) error {
		return p.publishEvent(ctx, event)
	})
	if err != nil {
		p.metrics.DatabaseOperations.WithLabelValues("process_pending", "error").Inc()
		return fmt.Errorf("failed to process pending events: %w", err)
	}
	p.metrics.DatabaseOperations.WithLabelValues("process_pending", "success").Inc()
	return nil
}

func (p *OutboxProcessor) publishEvent(ctx context.Context, event *model.OutboxEvent) error {
	err := retry(p.config.RetryAttempts, p.config.RetryDelay, func() error {
		p.metrics.OutboxRetries.WithLabelValues(event.EventType).Inc()
		return p.broker.Publish(ctx, event.EventType, event.Payload)
	})
	if err != nil {
		p.metrics.OutboxEventsFailed.Inc()
		p.logger.Error(err, "Failed to publish event",
			"event_id", event.ID.String(),
			"event_type", event.EventType)
		return err
	}

	p.metrics.OutboxEventsProcessed.Inc()
	return nil
}

func retry(attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return err
}
