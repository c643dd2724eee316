package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hongyangchun/QQClub-sub003/internal/domain/enrollment"
	"github.com/hongyangchun/QQClub-sub003/internal/storage"
)

// Enrollment methods.

// CreateEnrollment inserts a participation row. The (user, event) unique
// constraint surfaces as ErrDuplicate.
func (s *Store) CreateEnrollment(ctx context.Context, enr storage.EnrollmentRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(enr.ID) == "" {
		return fmt.Errorf("enrollment id is required")
	}
	if strings.TrimSpace(enr.EventID) == "" || strings.TrimSpace(enr.UserID) == "" {
		return fmt.Errorf("event id and user id are required")
	}

	const insertSQL = `
INSERT INTO enrollments (
    id, user_id, event_id, enrollment_type, status,
    enrolled_at, check_ins_count, flowers_received, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	if _, err := s.sqlDB.ExecContext(
		ctx,
		insertSQL,
		enr.ID,
		enr.UserID,
		enr.EventID,
		enrollment.TypeLabel(enr.Type),
		enrollment.StatusLabel(enr.Status),
		toMillis(enr.EnrolledAt),
		enr.CheckInsCount,
		enr.FlowersReceived,
		toMillis(enr.UpdatedAt),
	); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

// UpdateEnrollment rewrites the mutable fields of an enrollment row.
func (s *Store) UpdateEnrollment(ctx context.Context, enr storage.EnrollmentRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(enr.ID) == "" {
		return fmt.Errorf("enrollment id is required")
	}

	const updateSQL = `
UPDATE enrollments SET
    enrollment_type = ?, status = ?, check_ins_count = ?, flowers_received = ?, updated_at = ?
WHERE id = ?
`
	res, err := s.sqlDB.ExecContext(
		ctx,
		updateSQL,
		enrollment.TypeLabel(enr.Type),
		enrollment.StatusLabel(enr.Status),
		enr.CheckInsCount,
		enr.FlowersReceived,
		toMillis(enr.UpdatedAt),
		enr.ID,
	)
	if err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update enrollment rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetEnrollment fetches one enrollment by its (event, user) pair.
func (s *Store) GetEnrollment(ctx context.Context, eventID, userID string) (storage.EnrollmentRecord, error) {
	if err := s.ready(ctx); err != nil {
		return storage.EnrollmentRecord{}, err
	}
	if strings.TrimSpace(eventID) == "" || strings.TrimSpace(userID) == "" {
		return storage.EnrollmentRecord{}, fmt.Errorf("event id and user id are required")
	}

	const getSQL = `
SELECT id, user_id, event_id, enrollment_type, status,
       enrolled_at, check_ins_count, flowers_received, updated_at
FROM enrollments WHERE event_id = ? AND user_id = ?
`
	row := s.sqlDB.QueryRowContext(ctx, getSQL, eventID, userID)
	rec, err := scanEnrollment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.EnrollmentRecord{}, storage.ErrNotFound
		}
		return storage.EnrollmentRecord{}, fmt.Errorf("get enrollment: %w", err)
	}
	return rec, nil
}

// ListEnrollments returns every enrollment of an event in join order.
func (s *Store) ListEnrollments(ctx context.Context, eventID string) ([]storage.EnrollmentRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(eventID) == "" {
		return nil, fmt.Errorf("event id is required")
	}

	const listSQL = `
SELECT id, user_id, event_id, enrollment_type, status,
       enrolled_at, check_ins_count, flowers_received, updated_at
FROM enrollments WHERE event_id = ? ORDER BY enrolled_at, id
`
	rows, err := s.sqlDB.QueryContext(ctx, listSQL, eventID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []storage.EnrollmentRecord
	for rows.Next() {
		rec, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		enrollments = append(enrollments, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// CountActiveParticipants counts enrolled participant-type rows for the
// min/max participant guards.
func (s *Store) CountActiveParticipants(ctx context.Context, eventID string) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	if strings.TrimSpace(eventID) == "" {
		return 0, fmt.Errorf("event id is required")
	}

	const countSQL = `
SELECT COUNT(*) FROM enrollments
WHERE event_id = ? AND enrollment_type = ? AND status = ?
`
	var count int
	row := s.sqlDB.QueryRowContext(
		ctx,
		countSQL,
		eventID,
		enrollment.TypeLabel(enrollment.TypeParticipant),
		enrollment.StatusLabel(enrollment.StatusEnrolled),
	)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}
	return count, nil
}

func scanEnrollment(row rowScanner) (storage.EnrollmentRecord, error) {
	var rec storage.EnrollmentRecord
	var enrolledAt, updatedAt int64
	var typeLabel, statusLabel string

	if err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.EventID,
		&typeLabel,
		&statusLabel,
		&enrolledAt,
		&rec.CheckInsCount,
		&rec.FlowersReceived,
		&updatedAt,
	); err != nil {
		return storage.EnrollmentRecord{}, err
	}

	enrollmentType, err := enrollment.TypeFromLabel(typeLabel)
	if err != nil {
		return storage.EnrollmentRecord{}, err
	}
	status, err := enrollment.StatusFromLabel(statusLabel)
	if err != nil {
		return storage.EnrollmentRecord{}, err
	}

	rec.Type = enrollmentType
	rec.Status = status
	rec.EnrolledAt = fromMillis(enrolledAt)
	rec.UpdatedAt = fromMillis(updatedAt)
	return rec, nil
}
