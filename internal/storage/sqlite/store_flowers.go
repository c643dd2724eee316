package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hongyangchun/QQClub-sub003/internal/storage"
)

// Flower methods.

// CreateFlower inserts a reward row, marks its check-in as rewarded, and
// bumps the recipient's counter, all in one transaction. The check_in_id
// unique constraint surfaces as ErrDuplicate.
func (s *Store) CreateFlower(ctx context.Context, f storage.FlowerRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("flower id is required")
	}
	if strings.TrimSpace(f.CheckInID) == "" {
		return fmt.Errorf("check-in id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create flower: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertSQL = `
INSERT INTO flowers (
    id, check_in_id, giver_user_id, recipient_user_id,
    schedule_id, event_id, comment, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`
	if _, err := tx.ExecContext(
		ctx,
		insertSQL,
		f.ID,
		f.CheckInID,
		f.GiverUserID,
		f.RecipientUserID,
		f.ScheduleID,
		f.EventID,
		f.Comment,
		toMillis(f.CreatedAt),
	); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("insert flower: %w", err)
	}

	const lockCheckInSQL = `
UPDATE check_ins SET has_flower = 1, updated_at = ? WHERE id = ?
`
	if _, err := tx.ExecContext(ctx, lockCheckInSQL, toMillis(f.CreatedAt), f.CheckInID); err != nil {
		return fmt.Errorf("mark check-in rewarded: %w", err)
	}

	const bumpSQL = `
UPDATE enrollments SET flowers_received = flowers_received + 1, updated_at = ?
WHERE event_id = ? AND user_id = ?
`
	if _, err := tx.ExecContext(ctx, bumpSQL, toMillis(f.CreatedAt), f.EventID, f.RecipientUserID); err != nil {
		return fmt.Errorf("bump flower counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create flower: %w", err)
	}
	return nil
}

// ListFlowersBySchedule returns a day's rewards in grant order.
func (s *Store) ListFlowersBySchedule(ctx context.Context, scheduleID string) ([]storage.FlowerRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(scheduleID) == "" {
		return nil, fmt.Errorf("schedule id is required")
	}

	const listSQL = `
SELECT id, check_in_id, giver_user_id, recipient_user_id,
       schedule_id, event_id, comment, created_at
FROM flowers WHERE schedule_id = ? ORDER BY created_at, id
`
	rows, err := s.sqlDB.QueryContext(ctx, listSQL, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("list flowers: %w", err)
	}
	defer rows.Close()

	var flowers []storage.FlowerRecord
	for rows.Next() {
		var rec storage.FlowerRecord
		var createdAt int64
		if err := rows.Scan(
			&rec.ID,
			&rec.CheckInID,
			&rec.GiverUserID,
			&rec.RecipientUserID,
			&rec.ScheduleID,
			&rec.EventID,
			&rec.Comment,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan flower: %w", err)
		}
		rec.CreatedAt = fromMillis(createdAt)
		flowers = append(flowers, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list flowers: %w", err)
	}
	return flowers, nil
}

// CountFlowersByRecipient counts rewards a user received on an event.
func (s *Store) CountFlowersByRecipient(ctx context.Context, eventID, userID string) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	if strings.TrimSpace(eventID) == "" || strings.TrimSpace(userID) == "" {
		return 0, fmt.Errorf("event id and user id are required")
	}

	var count int
	row := s.sqlDB.QueryRowContext(
		ctx,
		"SELECT COUNT(*) FROM flowers WHERE event_id = ? AND recipient_user_id = ?",
		eventID,
		userID,
	)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count flowers: %w", err)
	}
	return count, nil
}

// HasFlowerForSchedule reports whether any reward was issued for the day.
// It feeds the backup worklist.
func (s *Store) HasFlowerForSchedule(ctx context.Context, scheduleID string) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	if strings.TrimSpace(scheduleID) == "" {
		return false, fmt.Errorf("schedule id is required")
	}

	var found int
	row := s.sqlDB.QueryRowContext(ctx, "SELECT 1 FROM flowers WHERE schedule_id = ? LIMIT 1", scheduleID)
	if err := row.Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check schedule flowers: %w", err)
	}
	return true, nil
}
