package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hongyangchun/QQClub-sub003/internal/storage"
)

// Schedule methods.

// ListSchedules returns every reading plan day of an event in day order.
func (s *Store) ListSchedules(ctx context.Context, eventID string) ([]storage.ScheduleRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(eventID) == "" {
		return nil, fmt.Errorf("event id is required")
	}

	const listSQL = `
SELECT id, event_id, day_number, date, reading_progress, daily_leader_user_id
FROM schedules WHERE event_id = ? ORDER BY day_number
`
	rows, err := s.sqlDB.QueryContext(ctx, listSQL, eventID)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var schedules []storage.ScheduleRecord
	for rows.Next() {
		rec, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

// GetSchedule fetches one reading plan day by event and day number.
func (s *Store) GetSchedule(ctx context.Context, eventID string, dayNumber int) (storage.ScheduleRecord, error) {
	if err := s.ready(ctx); err != nil {
		return storage.ScheduleRecord{}, err
	}
	if strings.TrimSpace(eventID) == "" {
		return storage.ScheduleRecord{}, fmt.Errorf("event id is required")
	}

	const getSQL = `
SELECT id, event_id, day_number, date, reading_progress, daily_leader_user_id
FROM schedules WHERE event_id = ? AND day_number = ?
`
	row := s.sqlDB.QueryRowContext(ctx, getSQL, eventID, dayNumber)
	rec, err := scanSchedule(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ScheduleRecord{}, storage.ErrNotFound
		}
		return storage.ScheduleRecord{}, fmt.Errorf("get schedule: %w", err)
	}
	return rec, nil
}

// ClaimDailyLeader performs the set-if-null claim as a single conditional
// update, so exactly one of N concurrent claimants succeeds.
func (s *Store) ClaimDailyLeader(ctx context.Context, scheduleID, userID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(scheduleID) == "" {
		return fmt.Errorf("schedule id is required")
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required")
	}

	const claimSQL = `
UPDATE schedules SET daily_leader_user_id = ?
WHERE id = ? AND daily_leader_user_id IS NULL
`
	res, err := s.sqlDB.ExecContext(ctx, claimSQL, userID, scheduleID)
	if err != nil {
		return fmt.Errorf("claim daily leader: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("claim daily leader rows affected: %w", err)
	}
	if affected == 0 {
		var exists int
		row := s.sqlDB.QueryRowContext(ctx, "SELECT 1 FROM schedules WHERE id = ?", scheduleID)
		if err := row.Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("check schedule exists: %w", err)
		}
		return storage.ErrAlreadyClaimed
	}
	return nil
}

func scanSchedule(row rowScanner) (storage.ScheduleRecord, error) {
	var rec storage.ScheduleRecord
	var dateMillis int64
	var leader sql.NullString

	if err := row.Scan(
		&rec.ID,
		&rec.EventID,
		&rec.DayNumber,
		&dateMillis,
		&rec.ReadingProgress,
		&leader,
	); err != nil {
		return storage.ScheduleRecord{}, err
	}

	rec.Date = fromMillis(dateMillis)
	if leader.Valid {
		rec.DailyLeaderUserID = leader.String
	}
	return rec, nil
}
