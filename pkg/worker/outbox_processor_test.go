package worker

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalbright/booking-api/internal/model"
	"github.com/dentalbright/booking-api/pkg/logger"
	"github.com/dentalbright/booking-api/pkg/metrics"
)

// One metrics instance for the whole test binary; the collectors register
// themselves globally.
var testMetrics = metrics.NewMetrics("dentalbright", "workertest")

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{
		Level:      logger.ErrorLevel,
		TimeFormat: time.RFC3339,
		Output:     io.Discard,
	})
}

// memOutboxRepo mirrors the claim semantics of the Postgres layer: a batch
// of pending events is handed to handle one by one, failures are recorded
// with an advanced retry count and the rest of the batch continues.
type memOutboxRepo struct {
	events []*model.OutboxEvent
}

func (r *memOutboxRepo) Create(_ context.Context, e *model.OutboxEvent) error {
	clone := *e
	clone.ID = uuid.New()
	clone.Status = model.OutboxStatusPending
	r.events = append(r.events, &clone)
	return nil
}

func (r *memOutboxRepo) ProcessPending(_ context.Context, limit int, handle func(event *model.OutboxEvent) error) error {
	claimed := 0
	for _, e := range r.events {
		if e.Status != model.OutboxStatusPending || claimed >= limit {
			continue
		}
		claimed++
		if err := handle(e); err != nil {
			msg := err.Error()
			e.Status = model.OutboxStatusFailed
			e.ErrorMessage = &msg
			e.RetryCount++
			continue
		}
		e.Status = model.OutboxStatusProcessed
	}
	return nil
}

type fakeBroker struct {
	published   []string
	failChannel string
	failFirst   int
	calls       int
}

func (b *fakeBroker) Publish(_ context.Context, channel string, _ interface{}) error {
	b.calls++
	if b.failChannel != "" && channel == b.failChannel {
		return errors.New("broker unavailable")
	}
	if b.calls <= b.failFirst {
		return errors.New("broker unavailable")
	}
	b.published = append(b.published, channel)
	return nil
}

func (b *fakeBroker) Subscribe(_ context.Context, _ string) (<-chan []byte, error) {
	return nil, nil
}

func (b *fakeBroker) Close() error { return nil }

func newTestProcessor(repo *memOutboxRepo, broker *fakeBroker, batchSize int) *OutboxProcessor {
	return NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
		BatchSize:     batchSize,
		PollInterval:  time.Second,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	}, testLogger(), testMetrics)
}

func addEvent(t *testing.T, repo *memOutboxRepo, eventType string) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &model.OutboxEvent{
		EventType: eventType,
		Payload:   []byte(`{}`),
	}))
}

func TestProcessEventsPublishesBatch(t *testing.T) {
	repo := &memOutboxRepo{}
	broker := &fakeBroker{}
	addEvent(t, repo, model.EventAppointmentCreated)
	addEvent(t, repo, model.EventAppointmentCanceled)

	p := newTestProcessor(repo, broker, 10)
	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, []string{model.EventAppointmentCreated, model.EventAppointmentCanceled}, broker.published)
	for _, e := range repo.events {
		assert.Equal(t, model.OutboxStatusProcessed, e.Status)
		assert.Equal(t, 0, e.RetryCount)
	}
}

func TestProcessEventsFailureDoesNotStopBatch(t *testing.T) {
	repo := &memOutboxRepo{}
	broker := &fakeBroker{failChannel: model.EventAppointmentRescheduled}
	addEvent(t, repo, model.EventAppointmentCreated)
	addEvent(t, repo, model.EventAppointmentRescheduled)
	addEvent(t, repo, model.EventAppointmentCanceled)

	p := newTestProcessor(repo, broker, 10)
	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, model.OutboxStatusProcessed, repo.events[0].Status)
	assert.Equal(t, model.OutboxStatusProcessed, repo.events[2].Status)

	failed := repo.events[1]
	assert.Equal(t, model.OutboxStatusFailed, failed.Status)
	assert.Equal(t, 1, failed.RetryCount)
	require.NotNil(t, failed.ErrorMessage)
	assert.Contains(t, *failed.ErrorMessage, "broker unavailable")
}

func TestProcessEventsRetriesTransientFailure(t *testing.T) {
	repo := &memOutboxRepo{}
	broker := &fakeBroker{failFirst: 1}
	addEvent(t, repo, model.EventAppointmentCreated)

	p := newTestProcessor(repo, broker, 10)
	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, 2, broker.calls)
	assert.Equal(t, model.OutboxStatusProcessed, repo.events[0].Status)
}

func TestProcessEventsRespectsBatchSize(t *testing.T) {
	repo := &memOutboxRepo{}
	broker := &fakeBroker{}
	addEvent(t, repo, model.EventAppointmentCreated)
	addEvent(t, repo, model.EventAppointmentCreated)

	p := newTestProcessor(repo, broker, 1)
	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, model.OutboxStatusProcessed, repo.events[0].Status)
	assert.Equal(t, model.OutboxStatusPending, repo.events[1].Status)
}
