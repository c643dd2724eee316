// Package event holds the reading event aggregate and its lifecycle rules.
//
// A reading event moves along two axes: the activity status
// (draft -> enrolling -> in_progress -> completed) and the approval status
// (pending -> approved/rejected). The activity status may only leave
// draft/enrolling once the event is approved; every transition helper in
// this package enforces that invariant.
package event

import (
	"fmt"
	"strings"
	"time"

	"github.com/hongyangchun/QQClub-sub003/internal/domain/date"
	apperrors "github.com/hongyangchun/QQClub-sub003/internal/platform/errors"
	"github.com/hongyangchun/QQClub-sub003/internal/platform/id"
)

// Status describes the activity lifecycle of a reading event.
type Status int

// ApprovalStatus describes the review state of a reading event.
type ApprovalStatus int

// AssignmentType describes how daily leadership is assigned.
type AssignmentType int

const (
	// StatusUnspecified represents an invalid status value.
	StatusUnspecified Status = iota
	// StatusDraft indicates the event has not been approved yet.
	StatusDraft
	// StatusEnrolling indicates the event is approved and open for enrollment.
	StatusEnrolling
	// StatusInProgress indicates the reading period is underway.
	StatusInProgress
	// StatusCompleted indicates the reading period has ended.
	StatusCompleted
)

const (
	// ApprovalUnspecified represents an invalid approval status value.
	ApprovalUnspecified ApprovalStatus = iota
	// ApprovalPending indicates the event awaits admin review.
	ApprovalPending
	// ApprovalApproved indicates an admin approved the event.
	ApprovalApproved
	// ApprovalRejected indicates an admin rejected the event.
	ApprovalRejected
)

const (
	// AssignmentUnspecified represents an invalid assignment type value.
	AssignmentUnspecified AssignmentType = iota
	// AssignmentVoluntary lets participants claim daily leadership.
	AssignmentVoluntary
	// AssignmentAssigned means the group leader assigns days up front.
	AssignmentAssigned
)

// DefaultRejectionReason is recorded when an admin rejects without a reason.
const DefaultRejectionReason = "does not meet the community guidelines"

var (
	// ErrEmptyTitle indicates a missing event title.
	ErrEmptyTitle = apperrors.New(apperrors.CodeEventTitleEmpty, "event title is required")
	// ErrMissingBook indicates a missing book reference.
	ErrMissingBook = apperrors.New(apperrors.CodeEventBookMissing, "book reference is required")
	// ErrMissingLeader indicates a missing group leader.
	ErrMissingLeader = apperrors.New(apperrors.CodeEventLeaderMissing, "group leader is required")
	// ErrInvalidDates indicates end date precedes start date.
	ErrInvalidDates = apperrors.New(apperrors.CodeEventInvalidDates, "end date must not precede start date")
	// ErrInvalidAssignment indicates a missing or unknown assignment type.
	ErrInvalidAssignment = apperrors.New(apperrors.CodeEventInvalidAssignment, "leader assignment type is required")
)

// Event represents one group reading activity.
type Event struct {
	ID      string
	Title   string
	BookRef string
	// StartDate and EndDate are UTC calendar days, inclusive on both ends.
	StartDate time.Time
	EndDate   time.Time
	// DaysCount equals the number of schedules generated at creation and
	// never changes afterwards.
	DaysCount       int
	MinParticipants int
	MaxParticipants int
	FeeTerms        string
	Status          Status
	Approval        ApprovalStatus
	Assignment      AssignmentType
	LeaderUserID    string
	ApproverUserID  string
	RejectionReason string
	ApprovedAt      *time.Time
	// Version supports optimistic locking on lifecycle transitions.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Schedule is one calendar day of the event's reading plan.
type Schedule struct {
	ID      string
	EventID string
	// DayNumber is 1-based and unique per event.
	DayNumber int
	// Date equals event start date plus DayNumber-1.
	Date            time.Time
	ReadingProgress string
	// DailyLeaderUserID is empty until a participant claims the day.
	DailyLeaderUserID string
}

// CreateInput describes the metadata needed to create a reading event.
type CreateInput struct {
	Title           string
	BookRef         string
	StartDate       time.Time
	EndDate         time.Time
	MinParticipants int
	MaxParticipants int
	FeeTerms        string
	Assignment      AssignmentType
	LeaderUserID    string
	// DailyProgress optionally carries per-day reading progress notes,
	// indexed by day number minus one. Missing entries stay empty.
	DailyProgress []string
}

// Create builds a new draft event and its full reading plan. The caller
// persists the event and schedules in one transaction; if either fails,
// both roll back.
func Create(input CreateInput, now func() time.Time, idGenerator func() (string, error)) (Event, []Schedule, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateInput(input)
	if err != nil {
		return Event{}, nil, err
	}

	eventID, err := idGenerator()
	if err != nil {
		return Event{}, nil, fmt.Errorf("generate event id: %w", err)
	}

	daysCount := date.DaysBetween(normalized.StartDate, normalized.EndDate) + 1
	createdAt := now().UTC()
	evt := Event{
		ID:              eventID,
		Title:           normalized.Title,
		BookRef:         normalized.BookRef,
		StartDate:       normalized.StartDate,
		EndDate:         normalized.EndDate,
		DaysCount:       daysCount,
		MinParticipants: normalized.MinParticipants,
		MaxParticipants: normalized.MaxParticipants,
		FeeTerms:        normalized.FeeTerms,
		Status:          StatusDraft,
		Approval:        ApprovalPending,
		Assignment:      normalized.Assignment,
		LeaderUserID:    normalized.LeaderUserID,
		Version:         1,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}

	schedules := make([]Schedule, 0, daysCount)
	for day := 1; day <= daysCount; day++ {
		scheduleID, err := idGenerator()
		if err != nil {
			return Event{}, nil, fmt.Errorf("generate schedule id: %w", err)
		}
		progress := ""
		if day-1 < len(normalized.DailyProgress) {
			progress = strings.TrimSpace(normalized.DailyProgress[day-1])
		}
		schedules = append(schedules, Schedule{
			ID:              scheduleID,
			EventID:         eventID,
			DayNumber:       day,
			Date:            date.AddDays(normalized.StartDate, day-1),
			ReadingProgress: progress,
		})
	}

	return evt, schedules, nil
}

// NormalizeCreateInput trims and validates event creation metadata.
func NormalizeCreateInput(input CreateInput) (CreateInput, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return CreateInput{}, ErrEmptyTitle
	}
	input.BookRef = strings.TrimSpace(input.BookRef)
	if input.BookRef == "" {
		return CreateInput{}, ErrMissingBook
	}
	input.LeaderUserID = strings.TrimSpace(input.LeaderUserID)
	if input.LeaderUserID == "" {
		return CreateInput{}, ErrMissingLeader
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return CreateInput{}, ErrInvalidDates
	}
	input.StartDate = date.Of(input.StartDate)
	input.EndDate = date.Of(input.EndDate)
	if input.EndDate.Before(input.StartDate) {
		return CreateInput{}, ErrInvalidDates
	}
	if input.Assignment == AssignmentUnspecified {
		return CreateInput{}, ErrInvalidAssignment
	}
	if input.MinParticipants < 0 || input.MaxParticipants < 0 ||
		(input.MaxParticipants > 0 && input.MinParticipants > input.MaxParticipants) {
		return CreateInput{}, apperrors.WithMetadata(
			apperrors.CodeEventInvalidBounds,
			fmt.Sprintf("participant bounds invalid: min=%d max=%d", input.MinParticipants, input.MaxParticipants),
			map[string]string{
				"Min": fmt.Sprintf("%d", input.MinParticipants),
				"Max": fmt.Sprintf("%d", input.MaxParticipants),
			},
		)
	}
	input.FeeTerms = strings.TrimSpace(input.FeeTerms)
	return input, nil
}

// invalidTransition builds the standard transition error.
func invalidTransition(from Event, toStatus Status, toApproval ApprovalStatus) error {
	fromLabel := StatusLabel(from.Status)
	if from.Approval != ApprovalApproved {
		fromLabel = fmt.Sprintf("%s/%s", StatusLabel(from.Status), ApprovalLabel(from.Approval))
	}
	toLabel := StatusLabel(toStatus)
	if toApproval != ApprovalUnspecified {
		toLabel = ApprovalLabel(toApproval)
	}
	return apperrors.WithMetadata(
		apperrors.CodeEventInvalidTransition,
		fmt.Sprintf("event transition not allowed: %s -> %s", fromLabel, toLabel),
		map[string]string{"FromStatus": fromLabel, "ToStatus": toLabel},
	)
}

// SubmitForApproval returns the event queued for admin review again.
// Only a rejected draft can be resubmitted; freshly created events are
// already pending.
func SubmitForApproval(evt Event, now func() time.Time) (Event, error) {
	if now == nil {
		now = time.Now
	}
	if evt.Status != StatusDraft || evt.Approval != ApprovalRejected {
		return Event{}, invalidTransition(evt, StatusDraft, ApprovalPending)
	}
	updated := evt
	updated.Approval = ApprovalPending
	updated.RejectionReason = ""
	updated.UpdatedAt = now().UTC()
	return updated, nil
}

// Approve records an admin approval and opens enrollment.
func Approve(evt Event, approverUserID string, now func() time.Time) (Event, error) {
	if now == nil {
		now = time.Now
	}
	if evt.Approval != ApprovalPending {
		return Event{}, invalidTransition(evt, StatusEnrolling, ApprovalApproved)
	}
	approvedAt := now().UTC()
	updated := evt
	updated.Approval = ApprovalApproved
	updated.Status = StatusEnrolling
	updated.ApproverUserID = strings.TrimSpace(approverUserID)
	updated.ApprovedAt = &approvedAt
	updated.UpdatedAt = approvedAt
	return updated, nil
}

// Reject records an admin rejection with a reason.
func Reject(evt Event, approverUserID, reason string, now func() time.Time) (Event, error) {
	if now == nil {
		now = time.Now
	}
	if evt.Approval != ApprovalPending {
		return Event{}, invalidTransition(evt, StatusDraft, ApprovalRejected)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultRejectionReason
	}
	updated := evt
	updated.Approval = ApprovalRejected
	updated.ApproverUserID = strings.TrimSpace(approverUserID)
	updated.RejectionReason = reason
	updated.UpdatedAt = now().UTC()
	return updated, nil
}

// Start moves an enrolling event into its reading period.
// Guards: the caller is the group leader, the start date has arrived, and
// enough participants enrolled.
func Start(evt Event, callerUserID string, participantCount int, today time.Time) (Event, error) {
	if evt.Status != StatusEnrolling || evt.Approval != ApprovalApproved {
		return Event{}, invalidTransition(evt, StatusInProgress, ApprovalUnspecified)
	}
	if callerUserID != evt.LeaderUserID {
		return Event{}, cannotStart("only the group leader may start the event")
	}
	if date.Of(today).Before(evt.StartDate) {
		return Event{}, cannotStart("the start date has not arrived")
	}
	if participantCount < evt.MinParticipants {
		return Event{}, cannotStart(fmt.Sprintf("%d of %d required participants enrolled", participantCount, evt.MinParticipants))
	}
	updated := evt
	updated.Status = StatusInProgress
	updated.UpdatedAt = date.Of(today)
	return updated, nil
}

func cannotStart(reason string) error {
	return apperrors.WithMetadata(
		apperrors.CodeEventCannotStart,
		"event cannot start: "+reason,
		map[string]string{"Reason": reason},
	)
}

// Complete closes the reading period once the end date has passed.
func Complete(evt Event, today time.Time) (Event, error) {
	if evt.Status != StatusInProgress {
		return Event{}, invalidTransition(evt, StatusCompleted, ApprovalUnspecified)
	}
	if !date.Of(today).After(evt.EndDate) {
		return Event{}, apperrors.New(apperrors.CodeEventCannotComplete, "event cannot complete before its end date has passed")
	}
	updated := evt
	updated.Status = StatusCompleted
	updated.UpdatedAt = date.Of(today)
	return updated, nil
}

// EnsureDestroyable reports whether the event may be deleted.
// Only drafts and rejected events are deletable; schedules cascade.
func EnsureDestroyable(evt Event) error {
	if evt.Status == StatusDraft || evt.Approval == ApprovalRejected {
		return nil
	}
	return apperrors.New(apperrors.CodeEventCannotDelete, "only draft or rejected events can be deleted")
}

// Editable reports whether the group leader may still edit the record.
// Admins override this check at the policy layer.
func Editable(evt Event) bool {
	return evt.Status == StatusDraft || evt.Status == StatusEnrolling
}

// ScheduleFor returns the schedule with the given day number.
func ScheduleFor(schedules []Schedule, dayNumber int) (Schedule, bool) {
	for _, s := range schedules {
		if s.DayNumber == dayNumber {
			return s, true
		}
	}
	return Schedule{}, false
}

// StatusLabel returns a stable label for an event status.
func StatusLabel(status Status) string {
	switch status {
	case StatusDraft:
		return "DRAFT"
	case StatusEnrolling:
		return "ENROLLING"
	case StatusInProgress:
		return "IN_PROGRESS"
	case StatusCompleted:
		return "COMPLETED"
	default:
		return "UNSPECIFIED"
	}
}

// ApprovalLabel returns a stable label for an approval status.
func ApprovalLabel(approval ApprovalStatus) string {
	switch approval {
	case ApprovalPending:
		return "PENDING"
	case ApprovalApproved:
		return "APPROVED"
	case ApprovalRejected:
		return "REJECTED"
	default:
		return "UNSPECIFIED"
	}
}

// AssignmentLabel returns a stable label for an assignment type.
func AssignmentLabel(assignment AssignmentType) string {
	switch assignment {
	case AssignmentVoluntary:
		return "VOLUNTARY"
	case AssignmentAssigned:
		return "ASSIGNED"
	default:
		return "UNSPECIFIED"
	}
}

// StatusFromLabel parses a string label into a Status.
// It trims whitespace and matches case-insensitively.
func StatusFromLabel(value string) (Status, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return StatusUnspecified, fmt.Errorf("event status is required")
	}
	switch strings.ToUpper(trimmed) {
	case "DRAFT":
		return StatusDraft, nil
	case "ENROLLING":
		return StatusEnrolling, nil
	case "IN_PROGRESS":
		return StatusInProgress, nil
	case "COMPLETED":
		return StatusCompleted, nil
	default:
		return StatusUnspecified, fmt.Errorf("unknown event status: %s", trimmed)
	}
}

// ApprovalFromLabel parses a string label into an ApprovalStatus.
// It trims whitespace and matches case-insensitively.
func ApprovalFromLabel(value string) (ApprovalStatus, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ApprovalUnspecified, fmt.Errorf("approval status is required")
	}
	switch strings.ToUpper(trimmed) {
	case "PENDING":
		return ApprovalPending, nil
	case "APPROVED":
		return ApprovalApproved, nil
	case "REJECTED":
		return ApprovalRejected, nil
	default:
		return ApprovalUnspecified, fmt.Errorf("unknown approval status: %s", trimmed)
	}
}

// AssignmentFromLabel parses a string label into an AssignmentType.
// It trims whitespace and matches case-insensitively.
func AssignmentFromLabel(value string) (AssignmentType, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return AssignmentUnspecified, fmt.Errorf("assignment type is required")
	}
	switch strings.ToUpper(trimmed) {
	case "VOLUNTARY":
		return AssignmentVoluntary, nil
	case "ASSIGNED":
		return AssignmentAssigned, nil
	default:
		return AssignmentUnspecified, fmt.Errorf("unknown assignment type: %s", trimmed)
	}
}
