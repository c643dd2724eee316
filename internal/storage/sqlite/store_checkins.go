package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hongyangchun/QQClub-sub003/internal/storage"
)

// CheckIn methods.

// CreateCheckIn inserts a submission row and bumps the enrollment counter
// in one transaction. The (user, schedule) unique constraint surfaces as
// ErrDuplicate.
func (s *Store) CreateCheckIn(ctx context.Context, c storage.CheckInRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("check-in id is required")
	}
	if strings.TrimSpace(c.ScheduleID) == "" || strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("schedule id and user id are required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create check-in: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertSQL = `
INSERT INTO check_ins (
    id, user_id, schedule_id, event_id, enrollment_id,
    content, word_count, has_flower, submitted_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
`
	if _, err := tx.ExecContext(
		ctx,
		insertSQL,
		c.ID,
		c.UserID,
		c.ScheduleID,
		c.EventID,
		c.EnrollmentID,
		c.Content,
		c.WordCount,
		toMillis(c.SubmittedAt),
		toMillis(c.UpdatedAt),
	); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("insert check-in: %w", err)
	}

	const bumpSQL = `
UPDATE enrollments SET check_ins_count = check_ins_count + 1, updated_at = ?
WHERE id = ?
`
	if _, err := tx.ExecContext(ctx, bumpSQL, toMillis(c.SubmittedAt), c.EnrollmentID); err != nil {
		return fmt.Errorf("bump check-in counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create check-in: %w", err)
	}
	return nil
}

// GetCheckIn fetches one submission by ID.
func (s *Store) GetCheckIn(ctx context.Context, id string) (storage.CheckInRecord, error) {
	if err := s.ready(ctx); err != nil {
		return storage.CheckInRecord{}, err
	}
	if strings.TrimSpace(id) == "" {
		return storage.CheckInRecord{}, fmt.Errorf("check-in id is required")
	}

	const getSQL = `
SELECT id, user_id, schedule_id, event_id, enrollment_id,
       content, word_count, has_flower, submitted_at, updated_at
FROM check_ins WHERE id = ?
`
	row := s.sqlDB.QueryRowContext(ctx, getSQL, id)
	rec, err := scanCheckIn(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.CheckInRecord{}, storage.ErrNotFound
		}
		return storage.CheckInRecord{}, fmt.Errorf("get check-in: %w", err)
	}
	return rec, nil
}

// UpdateCheckIn rewrites the mutable fields of a submission row.
func (s *Store) UpdateCheckIn(ctx context.Context, c storage.CheckInRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("check-in id is required")
	}

	const updateSQL = `
UPDATE check_ins SET content = ?, word_count = ?, has_flower = ?, updated_at = ?
WHERE id = ?
`
	hasFlower := 0
	if c.HasFlower {
		hasFlower = 1
	}
	res, err := s.sqlDB.ExecContext(
		ctx,
		updateSQL,
		c.Content,
		c.WordCount,
		hasFlower,
		toMillis(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("update check-in: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update check-in rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListCheckInsBySchedule returns a day's submissions in submission order.
func (s *Store) ListCheckInsBySchedule(ctx context.Context, scheduleID string) ([]storage.CheckInRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(scheduleID) == "" {
		return nil, fmt.Errorf("schedule id is required")
	}

	const listSQL = `
SELECT id, user_id, schedule_id, event_id, enrollment_id,
       content, word_count, has_flower, submitted_at, updated_at
FROM check_ins WHERE schedule_id = ? ORDER BY submitted_at, id
`
	rows, err := s.sqlDB.QueryContext(ctx, listSQL, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	defer rows.Close()

	var checkIns []storage.CheckInRecord
	for rows.Next() {
		rec, err := scanCheckIn(rows)
		if err != nil {
			return nil, fmt.Errorf("scan check-in: %w", err)
		}
		checkIns = append(checkIns, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	return checkIns, nil
}

// HasCheckInsForSchedule reports whether any submission exists for the day.
// It backs the freshness guard on leading content edits.
func (s *Store) HasCheckInsForSchedule(ctx context.Context, scheduleID string) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	if strings.TrimSpace(scheduleID) == "" {
		return false, fmt.Errorf("schedule id is required")
	}

	var found int
	row := s.sqlDB.QueryRowContext(ctx, "SELECT 1 FROM check_ins WHERE schedule_id = ? LIMIT 1", scheduleID)
	if err := row.Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check schedule check-ins: %w", err)
	}
	return true, nil
}

// CountCheckInsByEnrollment counts stored submissions for completion rates.
func (s *Store) CountCheckInsByEnrollment(ctx context.Context, enrollmentID string) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	if strings.TrimSpace(enrollmentID) == "" {
		return 0, fmt.Errorf("enrollment id is required")
	}

	var count int
	row := s.sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM check_ins WHERE enrollment_id = ?", enrollmentID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count check-ins: %w", err)
	}
	return count, nil
}

func scanCheckIn(row rowScanner) (storage.CheckInRecord, error) {
	var rec storage.CheckInRecord
	var submittedAt, updatedAt int64
	var hasFlower int

	if err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.ScheduleID,
		&rec.EventID,
		&rec.EnrollmentID,
		&rec.Content,
		&rec.WordCount,
		&hasFlower,
		&submittedAt,
		&updatedAt,
	); err != nil {
		return storage.CheckInRecord{}, err
	}

	rec.HasFlower = hasFlower != 0
	rec.SubmittedAt = fromMillis(submittedAt)
	rec.UpdatedAt = fromMillis(updatedAt)
	return rec, nil
}
