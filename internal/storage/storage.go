// Package storage defines the persistence contracts for the reading event
// engine. Implementations guarantee the uniqueness constraints the domain
// relies on: one schedule per (event, day), one enrollment per (user,
// event), one check-in per (user, schedule), one flower per check-in, one
// leading per schedule, and the set-if-null claim on daily leadership.
package storage

import (
	"context"
	"time"

	"github.com/hongyangchun/QQClub-sub003/internal/domain/enrollment"
	"github.com/hongyangchun/QQClub-sub003/internal/domain/event"
	apperrors "github.com/hongyangchun/QQClub-sub003/internal/platform/errors"
)

// ErrNotFound indicates a requested persistence record is missing.
// Callers use this to differentiate between legitimate "no such entity"
// states and transport or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrDuplicate indicates a write lost to a uniqueness constraint, such as a
// second check-in for the same day or a second flower on one check-in.
var ErrDuplicate = apperrors.New(apperrors.CodeDuplicateSubmission, "record already exists")

// ErrAlreadyClaimed indicates a leadership claim lost the set-if-null race.
// This is an expected outcome; callers refresh and show the new leader.
var ErrAlreadyClaimed = apperrors.New(apperrors.CodeLeadershipAlreadyClaimed, "daily leadership already claimed")

// ErrVersionConflict indicates a lifecycle write lost an optimistic locking
// race; the losing transition fails instead of silently overwriting.
var ErrVersionConflict = apperrors.New(apperrors.CodeEventInvalidTransition, "event was modified concurrently")

// EventRecord captures the reading event row.
type EventRecord struct {
	ID              string
	Title           string
	BookRef         string
	StartDate       time.Time
	EndDate         time.Time
	DaysCount       int
	MinParticipants int
	MaxParticipants int
	FeeTerms        string
	Status          event.Status
	Approval        event.ApprovalStatus
	Assignment      event.AssignmentType
	LeaderUserID    string
	ApproverUserID  string
	RejectionReason string
	ApprovedAt      *time.Time
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ScheduleRecord captures one reading plan day.
type ScheduleRecord struct {
	ID                string
	EventID           string
	DayNumber         int
	Date              time.Time
	ReadingProgress   string
	DailyLeaderUserID string
}

// EnrollmentRecord captures one user's participation row.
type EnrollmentRecord struct {
	ID              string
	UserID          string
	EventID         string
	Type            enrollment.Type
	Status          enrollment.Status
	EnrolledAt      time.Time
	CheckInsCount   int
	FlowersReceived int
	UpdatedAt       time.Time
}

// CheckInRecord captures one daily submission row.
type CheckInRecord struct {
	ID           string
	UserID       string
	ScheduleID   string
	EventID      string
	EnrollmentID string
	Content      string
	WordCount    int
	HasFlower    bool
	SubmittedAt  time.Time
	UpdatedAt    time.Time
}

// FlowerRecord captures one reward row.
type FlowerRecord struct {
	ID              string
	CheckInID       string
	GiverUserID     string
	RecipientUserID string
	ScheduleID      string
	EventID         string
	Comment         string
	CreatedAt       time.Time
}

// LeadingRecord captures the daily leading content row.
type LeadingRecord struct {
	ID                string
	ScheduleID        string
	EventID           string
	LeaderUserID      string
	ReadingSuggestion string
	Questions         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DomainEventRecord is one outbox row awaiting dispatch to the notification
// collaborator. Dispatch failures never roll back the mutation that
// produced the row.
type DomainEventRecord struct {
	ID         string
	Type       string
	EventID    string
	SubjectID  string
	ActorID    string
	Payload    string
	CreatedAt  time.Time
	Dispatched bool
}

// EventPage describes a page of event records.
type EventPage struct {
	Events        []EventRecord
	NextPageToken string
}

// EventStore owns the reading event rows and their lifecycle writes.
type EventStore interface {
	// CreateEventWithSchedules persists the event and its full reading plan
	// in one transaction; if either fails, both roll back.
	CreateEventWithSchedules(ctx context.Context, evt EventRecord, schedules []ScheduleRecord) error
	GetEvent(ctx context.Context, id string) (EventRecord, error)
	// UpdateEvent writes the record only if the stored version still equals
	// expectedVersion, bumping it by one. Losing writers receive
	// ErrVersionConflict.
	UpdateEvent(ctx context.Context, evt EventRecord, expectedVersion int64) error
	// ListEvents returns a page of events ordered by creation time
	// descending, starting after the page token.
	ListEvents(ctx context.Context, pageSize int, pageToken string) (EventPage, error)
	// DeleteEvent removes the event; schedules cascade with it.
	DeleteEvent(ctx context.Context, id string) error
}

// ScheduleStore owns the reading plan rows.
type ScheduleStore interface {
	ListSchedules(ctx context.Context, eventID string) ([]ScheduleRecord, error)
	GetSchedule(ctx context.Context, eventID string, dayNumber int) (ScheduleRecord, error)
	// ClaimDailyLeader sets the daily leader only if none is set, as one
	// conditional update. Exactly one concurrent claimant succeeds; the
	// rest receive ErrAlreadyClaimed.
	ClaimDailyLeader(ctx context.Context, scheduleID, userID string) error
}

// EnrollmentStore owns participation rows and the counters on them.
type EnrollmentStore interface {
	// CreateEnrollment inserts a new row; a second insert for the same
	// (user, event) pair returns ErrDuplicate.
	CreateEnrollment(ctx context.Context, enr EnrollmentRecord) error
	UpdateEnrollment(ctx context.Context, enr EnrollmentRecord) error
	GetEnrollment(ctx context.Context, eventID, userID string) (EnrollmentRecord, error)
	ListEnrollments(ctx context.Context, eventID string) ([]EnrollmentRecord, error)
	// CountActiveParticipants counts enrolled participant-type rows.
	CountActiveParticipants(ctx context.Context, eventID string) (int, error)
}

// CheckInStore owns daily submission rows.
type CheckInStore interface {
	CreateCheckIn(ctx context.Context, c CheckInRecord) error
	GetCheckIn(ctx context.Context, id string) (CheckInRecord, error)
	UpdateCheckIn(ctx context.Context, c CheckInRecord) error
	ListCheckInsBySchedule(ctx context.Context, scheduleID string) ([]CheckInRecord, error)
	HasCheckInsForSchedule(ctx context.Context, scheduleID string) (bool, error)
	CountCheckInsByEnrollment(ctx context.Context, enrollmentID string) (int, error)
}

// FlowerStore owns reward rows.
type FlowerStore interface {
	// CreateFlower also marks the check-in as rewarded in one transaction.
	CreateFlower(ctx context.Context, f FlowerRecord) error
	ListFlowersBySchedule(ctx context.Context, scheduleID string) ([]FlowerRecord, error)
	CountFlowersByRecipient(ctx context.Context, eventID, userID string) (int, error)
	HasFlowerForSchedule(ctx context.Context, scheduleID string) (bool, error)
}

// LeadingStore owns the daily leading content rows.
type LeadingStore interface {
	CreateLeading(ctx context.Context, l LeadingRecord) error
	UpdateLeading(ctx context.Context, l LeadingRecord) error
	GetLeadingBySchedule(ctx context.Context, scheduleID string) (LeadingRecord, error)
	HasLeadingForSchedule(ctx context.Context, scheduleID string) (bool, error)
}

// OutboxStore owns domain event rows awaiting notification dispatch.
type OutboxStore interface {
	AppendDomainEvent(ctx context.Context, rec DomainEventRecord) error
	ListPendingDomainEvents(ctx context.Context, limit int) ([]DomainEventRecord, error)
	MarkDomainEventDispatched(ctx context.Context, id string) error
}

// Store aggregates every persistence contract the engine consumes.
type Store interface {
	EventStore
	ScheduleStore
	EnrollmentStore
	CheckInStore
	FlowerStore
	LeadingStore
	OutboxStore
	Close() error
}
