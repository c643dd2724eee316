package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hongyangchun/QQClub-sub003/internal/domain/event"
	"github.com/hongyangchun/QQClub-sub003/internal/storage"
)

// Event methods.

// CreateEventWithSchedules persists the event row and its full reading plan
// in one transaction.
func (s *Store) CreateEventWithSchedules(ctx context.Context, evt storage.EventRecord, schedules []storage.ScheduleRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(evt.ID) == "" {
		return fmt.Errorf("event id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create event: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertEventSQL = `
INSERT INTO events (
    id, title, book_ref, start_date, end_date, days_count,
    min_participants, max_participants, fee_terms,
    status, approval_status, assignment_type,
    leader_user_id, approver_user_id, rejection_reason, approved_at,
    version, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	if _, err := tx.ExecContext(
		ctx,
		insertEventSQL,
		evt.ID,
		evt.Title,
		evt.BookRef,
		toMillis(evt.StartDate),
		toMillis(evt.EndDate),
		evt.DaysCount,
		evt.MinParticipants,
		evt.MaxParticipants,
		evt.FeeTerms,
		event.StatusLabel(evt.Status),
		event.ApprovalLabel(evt.Approval),
		event.AssignmentLabel(evt.Assignment),
		evt.LeaderUserID,
		evt.ApproverUserID,
		evt.RejectionReason,
		toNullMillis(evt.ApprovedAt),
		evt.Version,
		toMillis(evt.CreatedAt),
		toMillis(evt.UpdatedAt),
	); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("insert event: %w", err)
	}

	const insertScheduleSQL = `
INSERT INTO schedules (id, event_id, day_number, date, reading_progress, daily_leader_user_id)
VALUES (?, ?, ?, ?, ?, NULL)
`
	for _, sched := range schedules {
		if _, err := tx.ExecContext(
			ctx,
			insertScheduleSQL,
			sched.ID,
			sched.EventID,
			sched.DayNumber,
			toMillis(sched.Date),
			sched.ReadingProgress,
		); err != nil {
			if isUniqueViolation(err) {
				return storage.ErrDuplicate
			}
			return fmt.Errorf("insert schedule day %d: %w", sched.DayNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create event: %w", err)
	}
	return nil
}

// GetEvent fetches one event row by ID.
func (s *Store) GetEvent(ctx context.Context, id string) (storage.EventRecord, error) {
	if err := s.ready(ctx); err != nil {
		return storage.EventRecord{}, err
	}
	if strings.TrimSpace(id) == "" {
		return storage.EventRecord{}, fmt.Errorf("event id is required")
	}

	const getEventSQL = `
SELECT id, title, book_ref, start_date, end_date, days_count,
       min_participants, max_participants, fee_terms,
       status, approval_status, assignment_type,
       leader_user_id, approver_user_id, rejection_reason, approved_at,
       version, created_at, updated_at
FROM events WHERE id = ?
`
	row := s.sqlDB.QueryRowContext(ctx, getEventSQL, id)
	rec, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.EventRecord{}, storage.ErrNotFound
		}
		return storage.EventRecord{}, fmt.Errorf("get event: %w", err)
	}
	return rec, nil
}

// UpdateEvent writes the full record guarded by an optimistic version
// check. A losing writer gets ErrVersionConflict (or ErrNotFound when the
// row is gone).
func (s *Store) UpdateEvent(ctx context.Context, evt storage.EventRecord, expectedVersion int64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(evt.ID) == "" {
		return fmt.Errorf("event id is required")
	}

	const updateEventSQL = `
UPDATE events SET
    title = ?, book_ref = ?, start_date = ?, end_date = ?, days_count = ?,
    min_participants = ?, max_participants = ?, fee_terms = ?,
    status = ?, approval_status = ?, assignment_type = ?,
    leader_user_id = ?, approver_user_id = ?, rejection_reason = ?, approved_at = ?,
    version = version + 1, updated_at = ?
WHERE id = ? AND version = ?
`
	res, err := s.sqlDB.ExecContext(
		ctx,
		updateEventSQL,
		evt.Title,
		evt.BookRef,
		toMillis(evt.StartDate),
		toMillis(evt.EndDate),
		evt.DaysCount,
		evt.MinParticipants,
		evt.MaxParticipants,
		evt.FeeTerms,
		event.StatusLabel(evt.Status),
		event.ApprovalLabel(evt.Approval),
		event.AssignmentLabel(evt.Assignment),
		evt.LeaderUserID,
		evt.ApproverUserID,
		evt.RejectionReason,
		toNullMillis(evt.ApprovedAt),
		toMillis(evt.UpdatedAt),
		evt.ID,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update event rows affected: %w", err)
	}
	if affected == 0 {
		if _, getErr := s.GetEvent(ctx, evt.ID); errors.Is(getErr, storage.ErrNotFound) {
			return storage.ErrNotFound
		}
		return storage.ErrVersionConflict
	}
	return nil
}

// ListEvents returns a page of events in reverse creation order using
// keyset pagination; the token is the last event ID of the previous page.
func (s *Store) ListEvents(ctx context.Context, pageSize int, pageToken string) (storage.EventPage, error) {
	if err := s.ready(ctx); err != nil {
		return storage.EventPage{}, err
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	const baseSQL = `
SELECT id, title, book_ref, start_date, end_date, days_count,
       min_participants, max_participants, fee_terms,
       status, approval_status, assignment_type,
       leader_user_id, approver_user_id, rejection_reason, approved_at,
       version, created_at, updated_at
FROM events
`
	var rows *sql.Rows
	var err error
	pageToken = strings.TrimSpace(pageToken)
	if pageToken == "" {
		rows, err = s.sqlDB.QueryContext(ctx, baseSQL+"ORDER BY created_at DESC, id DESC LIMIT ?", pageSize+1)
	} else {
		const afterSQL = `
WHERE (created_at, id) < (
    (SELECT created_at FROM events WHERE id = ?), ?
)
ORDER BY created_at DESC, id DESC LIMIT ?
`
		rows, err = s.sqlDB.QueryContext(ctx, baseSQL+afterSQL, pageToken, pageToken, pageSize+1)
	}
	if err != nil {
		return storage.EventPage{}, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var page storage.EventPage
	for rows.Next() {
		rec, err := scanEvent(rows)
		if err != nil {
			return storage.EventPage{}, fmt.Errorf("scan event: %w", err)
		}
		page.Events = append(page.Events, rec)
	}
	if err := rows.Err(); err != nil {
		return storage.EventPage{}, fmt.Errorf("list events: %w", err)
	}
	if len(page.Events) > pageSize {
		page.Events = page.Events[:pageSize]
		page.NextPageToken = page.Events[pageSize-1].ID
	}
	return page, nil
}

// DeleteEvent removes the event row; schedules, enrollments, and their
// dependents cascade through foreign keys.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("event id is required")
	}

	res, err := s.sqlDB.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (storage.EventRecord, error) {
	var rec storage.EventRecord
	var startDate, endDate, createdAt, updatedAt int64
	var approvedAt sql.NullInt64
	var statusLabel, approvalLabel, assignmentLabel string

	if err := row.Scan(
		&rec.ID,
		&rec.Title,
		&rec.BookRef,
		&startDate,
		&endDate,
		&rec.DaysCount,
		&rec.MinParticipants,
		&rec.MaxParticipants,
		&rec.FeeTerms,
		&statusLabel,
		&approvalLabel,
		&assignmentLabel,
		&rec.LeaderUserID,
		&rec.ApproverUserID,
		&rec.RejectionReason,
		&approvedAt,
		&rec.Version,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.EventRecord{}, err
	}

	status, err := event.StatusFromLabel(statusLabel)
	if err != nil {
		return storage.EventRecord{}, err
	}
	approval, err := event.ApprovalFromLabel(approvalLabel)
	if err != nil {
		return storage.EventRecord{}, err
	}
	assignment, err := event.AssignmentFromLabel(assignmentLabel)
	if err != nil {
		return storage.EventRecord{}, err
	}

	rec.StartDate = fromMillis(startDate)
	rec.EndDate = fromMillis(endDate)
	rec.Status = status
	rec.Approval = approval
	rec.Assignment = assignment
	rec.ApprovedAt = fromNullMillis(approvedAt)
	rec.CreatedAt = fromMillis(createdAt)
	rec.UpdatedAt = fromMillis(updatedAt)
	return rec, nil
}
