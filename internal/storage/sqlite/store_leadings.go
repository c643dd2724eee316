package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hongyangchun/QQClub-sub003/internal/storage"
)

// Leading methods.

// CreateLeading inserts the daily leading content. The schedule_id unique
// constraint surfaces as ErrDuplicate.
func (s *Store) CreateLeading(ctx context.Context, l storage.LeadingRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("leading id is required")
	}
	if strings.TrimSpace(l.ScheduleID) == "" {
		return fmt.Errorf("schedule id is required")
	}

	const insertSQL = `
INSERT INTO leadings (
    id, schedule_id, event_id, leader_user_id,
    reading_suggestion, questions, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`
	if _, err := s.sqlDB.ExecContext(
		ctx,
		insertSQL,
		l.ID,
		l.ScheduleID,
		l.EventID,
		l.LeaderUserID,
		l.ReadingSuggestion,
		l.Questions,
		toMillis(l.CreatedAt),
		toMillis(l.UpdatedAt),
	); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("insert leading: %w", err)
	}
	return nil
}

// UpdateLeading rewrites the content of an existing leading row.
func (s *Store) UpdateLeading(ctx context.Context, l storage.LeadingRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("leading id is required")
	}

	const updateSQL = `
UPDATE leadings SET leader_user_id = ?, reading_suggestion = ?, questions = ?, updated_at = ?
WHERE id = ?
`
	res, err := s.sqlDB.ExecContext(
		ctx,
		updateSQL,
		l.LeaderUserID,
		l.ReadingSuggestion,
		l.Questions,
		toMillis(l.UpdatedAt),
		l.ID,
	)
	if err != nil {
		return fmt.Errorf("update leading: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update leading rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetLeadingBySchedule fetches the leading content for one day.
func (s *Store) GetLeadingBySchedule(ctx context.Context, scheduleID string) (storage.LeadingRecord, error) {
	if err := s.ready(ctx); err != nil {
		return storage.LeadingRecord{}, err
	}
	if strings.TrimSpace(scheduleID) == "" {
		return storage.LeadingRecord{}, fmt.Errorf("schedule id is required")
	}

	const getSQL = `
SELECT id, schedule_id, event_id, leader_user_id,
       reading_suggestion, questions, created_at, updated_at
FROM leadings WHERE schedule_id = ?
`
	row := s.sqlDB.QueryRowContext(ctx, getSQL, scheduleID)

	var rec storage.LeadingRecord
	var createdAt, updatedAt int64
	if err := row.Scan(
		&rec.ID,
		&rec.ScheduleID,
		&rec.EventID,
		&rec.LeaderUserID,
		&rec.ReadingSuggestion,
		&rec.Questions,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.LeadingRecord{}, storage.ErrNotFound
		}
		return storage.LeadingRecord{}, fmt.Errorf("get leading: %w", err)
	}
	rec.CreatedAt = fromMillis(createdAt)
	rec.UpdatedAt = fromMillis(updatedAt)
	return rec, nil
}

// HasLeadingForSchedule reports whether content exists for the day.
func (s *Store) HasLeadingForSchedule(ctx context.Context, scheduleID string) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	if strings.TrimSpace(scheduleID) == "" {
		return false, fmt.Errorf("schedule id is required")
	}

	var found int
	row := s.sqlDB.QueryRowContext(ctx, "SELECT 1 FROM leadings WHERE schedule_id = ? LIMIT 1", scheduleID)
	if err := row.Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check schedule leading: %w", err)
	}
	return true, nil
}
