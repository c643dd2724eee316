// Package enrollment models a user's participation record in a reading event.
package enrollment

import (
	"fmt"
	"strings"
	"time"

	"github.com/hongyangchun/QQClub-sub003/internal/domain/event"
	apperrors "github.com/hongyangchun/QQClub-sub003/internal/platform/errors"
	"github.com/hongyangchun/QQClub-sub003/internal/platform/id"
)

// Type distinguishes reading participants from silent observers.
type Type int

// Status tracks the participation state of an enrollment.
type Status int

const (
	// TypeUnspecified represents an invalid enrollment type.
	TypeUnspecified Type = iota
	// TypeParticipant enrolls a user into the daily check-in cadence.
	TypeParticipant
	// TypeObserver enrolls a user as a read-only follower.
	TypeObserver
)

const (
	// StatusUnspecified represents an invalid enrollment status.
	StatusUnspecified Status = iota
	// StatusEnrolled marks an active enrollment.
	StatusEnrolled
	// StatusCompleted marks an enrollment whose event finished.
	StatusCompleted
	// StatusWithdrawn marks an enrollment the user left.
	StatusWithdrawn
)

// Enrollment is one user's participation record in one event.
// The (UserID, EventID) pair is unique at the storage boundary.
type Enrollment struct {
	ID      string
	UserID  string
	EventID string
	Type    Type
	Status  Status
	// EnrolledAt is the UTC instant the user joined.
	EnrolledAt time.Time
	// CheckInsCount and FlowersReceived are running counters maintained by
	// the aggregator; CompletionRate derives from them on demand.
	CheckInsCount   int
	FlowersReceived int
	UpdatedAt       time.Time
}

// Enroll creates a participation record for an open event.
// participantCount is the number of active participants before this call and
// only gates participant enrollments.
func Enroll(evt event.Event, userID string, enrollmentType Type, participantCount int, now func() time.Time, idGenerator func() (string, error)) (Enrollment, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Enrollment{}, apperrors.New(apperrors.CodeEnrollmentInvalidType, "user is required to enroll")
	}
	if enrollmentType != TypeParticipant && enrollmentType != TypeObserver {
		return Enrollment{}, apperrors.New(apperrors.CodeEnrollmentInvalidType, "enrollment type must be participant or observer")
	}
	if evt.Status != event.StatusEnrolling {
		return Enrollment{}, apperrors.WithMetadata(
			apperrors.CodeEnrollmentClosed,
			"event is not open for enrollment",
			map[string]string{"Status": event.StatusLabel(evt.Status)},
		)
	}
	if enrollmentType == TypeParticipant && evt.MaxParticipants > 0 && participantCount >= evt.MaxParticipants {
		return Enrollment{}, apperrors.WithMetadata(
			apperrors.CodeEnrollmentFull,
			fmt.Sprintf("event is full: %d participants enrolled", participantCount),
			map[string]string{"Max": fmt.Sprintf("%d", evt.MaxParticipants)},
		)
	}

	enrollmentID, err := idGenerator()
	if err != nil {
		return Enrollment{}, fmt.Errorf("generate enrollment id: %w", err)
	}
	enrolledAt := now().UTC()
	return Enrollment{
		ID:         enrollmentID,
		UserID:     userID,
		EventID:    evt.ID,
		Type:       enrollmentType,
		Status:     StatusEnrolled,
		EnrolledAt: enrolledAt,
		UpdatedAt:  enrolledAt,
	}, nil
}

// Withdraw deactivates an enrollment. Withdrawn enrollments keep their
// counters but no longer authorize check-ins or claims.
func Withdraw(enr Enrollment, now func() time.Time) (Enrollment, error) {
	if now == nil {
		now = time.Now
	}
	if enr.Status != StatusEnrolled {
		return Enrollment{}, apperrors.New(apperrors.CodeEnrollmentInactive, "enrollment is not active")
	}
	updated := enr
	updated.Status = StatusWithdrawn
	updated.UpdatedAt = now().UTC()
	return updated, nil
}

// EnsureActive verifies the enrollment still authorizes participation.
func EnsureActive(enr Enrollment) error {
	if enr.Status != StatusEnrolled {
		return apperrors.New(apperrors.CodeEnrollmentInactive, "enrollment is not active")
	}
	return nil
}

// MarkCompleted closes an active enrollment when its event completes.
func MarkCompleted(enr Enrollment, now func() time.Time) Enrollment {
	if now == nil {
		now = time.Now
	}
	if enr.Status != StatusEnrolled {
		return enr
	}
	updated := enr
	updated.Status = StatusCompleted
	updated.UpdatedAt = now().UTC()
	return updated
}

// TypeLabel returns a stable label for an enrollment type.
func TypeLabel(t Type) string {
	switch t {
	case TypeParticipant:
		return "PARTICIPANT"
	case TypeObserver:
		return "OBSERVER"
	default:
		return "UNSPECIFIED"
	}
}

// StatusLabel returns a stable label for an enrollment status.
func StatusLabel(s Status) string {
	switch s {
	case StatusEnrolled:
		return "ENROLLED"
	case StatusCompleted:
		return "COMPLETED"
	case StatusWithdrawn:
		return "WITHDRAWN"
	default:
		return "UNSPECIFIED"
	}
}

// TypeFromLabel parses a string label into a Type.
func TypeFromLabel(value string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "PARTICIPANT":
		return TypeParticipant, nil
	case "OBSERVER":
		return TypeObserver, nil
	default:
		return TypeUnspecified, fmt.Errorf("unknown enrollment type: %s", value)
	}
}

// StatusFromLabel parses a string label into a Status.
func StatusFromLabel(value string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "ENROLLED":
		return StatusEnrolled, nil
	case "COMPLETED":
		return StatusCompleted, nil
	case "WITHDRAWN":
		return StatusWithdrawn, nil
	default:
		return StatusUnspecified, fmt.Errorf("unknown enrollment status: %s", value)
	}
}
