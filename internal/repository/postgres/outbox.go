package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dentalbright/booking-api/internal/model"
)

func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	query := `
		INSERT INTO outbox_events (id, event_type, payload, status, retry_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	event.ID = uuid.New()
	event.Status = model.OutboxStatusPending
	event.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.EventType,
		event.Payload,
		event.Status,
		event.RetryCount,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}

// ProcessPending claims up to limit pending events and hands each to handle.
// The claim is a SELECT ... FOR UPDATE SKIP LOCKED inside a transaction that
// stays open until every outcome is recorded, so concurrent workers never
// pick up the same event. A handle error marks that event failed and the
// batch moves on.
func (r *outboxRepository) ProcessPending(ctx context.Context, limit int, handle func(event *model.OutboxEvent) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin outbox transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		SELECT id, event_type, payload, status, error_message, retry_count, created_at, processed_at
		FROM outbox_events
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`
	var events []*model.OutboxEvent
	if err := tx.SelectContext(ctx, &events, query, model.OutboxStatusPending, limit); err != nil {
		return fmt.Errorf("failed to get pending events: %w", err)
	}

	for _, event := range events {
		if handleErr := handle(event); handleErr != nil {
			errMsg := handleErr.Error()
			if err := updateStatusTx(ctx, tx, event.ID, model.OutboxStatusFailed, &errMsg); err != nil {
				return err
			}
			continue
		}
		if err := updateStatusTx(ctx, tx, event.ID, model.OutboxStatusProcessed, nil); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// retry_count advances only on failure; a clean publish leaves it untouched.
func updateStatusTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error {
	query := `
		UPDATE outbox_events
		SET status = $2,
			error_message = $3,
			retry_count = CASE WHEN $2 = 'FAILED' THEN retry_count + 1 ELSE retry_count END,
			processed_at = $4
		WHERE id = $1
	`
	now := time.Now()
	if _, err := tx.ExecContext(ctx, query, id, status, errorMessage, &now); err != nil {
		return fmt.Errorf("failed to update outbox event status: %w", err)
	}
	return nil
}
