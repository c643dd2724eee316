package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/hongyangchun/QQClub-sub003/internal/storage"
)

// Outbox methods.

// AppendDomainEvent enqueues one notification record. Duplicate IDs are
// ignored so retried mutations stay idempotent.
func (s *Store) AppendDomainEvent(ctx context.Context, rec storage.DomainEventRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(rec.ID) == "" {
		return fmt.Errorf("domain event id is required")
	}
	if strings.TrimSpace(rec.Type) == "" {
		return fmt.Errorf("domain event type is required")
	}

	const insertSQL = `
INSERT INTO domain_events (
    id, event_type, event_id, subject_id, actor_id, payload, created_at, dispatched
) VALUES (?, ?, ?, ?, ?, ?, ?, 0)
ON CONFLICT(id) DO NOTHING
`
	if _, err := s.sqlDB.ExecContext(
		ctx,
		insertSQL,
		rec.ID,
		rec.Type,
		rec.EventID,
		rec.SubjectID,
		rec.ActorID,
		rec.Payload,
		toMillis(rec.CreatedAt),
	); err != nil {
		return fmt.Errorf("append domain event: %w", err)
	}
	return nil
}

// ListPendingDomainEvents returns undispatched records oldest first.
func (s *Store) ListPendingDomainEvents(ctx context.Context, limit int) ([]storage.DomainEventRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}

	const listSQL = `
SELECT id, event_type, event_id, subject_id, actor_id, payload, created_at, dispatched
FROM domain_events WHERE dispatched = 0 ORDER BY created_at, id LIMIT ?
`
	rows, err := s.sqlDB.QueryContext(ctx, listSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending domain events: %w", err)
	}
	defer rows.Close()

	var records []storage.DomainEventRecord
	for rows.Next() {
		var rec storage.DomainEventRecord
		var createdAt int64
		var dispatched int
		if err := rows.Scan(
			&rec.ID,
			&rec.Type,
			&rec.EventID,
			&rec.SubjectID,
			&rec.ActorID,
			&rec.Payload,
			&createdAt,
			&dispatched,
		); err != nil {
			return nil, fmt.Errorf("scan domain event: %w", err)
		}
		rec.CreatedAt = fromMillis(createdAt)
		rec.Dispatched = dispatched != 0
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending domain events: %w", err)
	}
	return records, nil
}

// MarkDomainEventDispatched flags one record as delivered.
func (s *Store) MarkDomainEventDispatched(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("domain event id is required")
	}

	res, err := s.sqlDB.ExecContext(ctx, "UPDATE domain_events SET dispatched = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("mark domain event dispatched: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark domain event rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
