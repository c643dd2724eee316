package service

import (
	"context"

	"github.com/hongyangchun/QQClub-sub003/internal/domain/date"
	"github.com/hongyangchun/QQClub-sub003/internal/domain/enrollment"
	"github.com/hongyangchun/QQClub-sub003/internal/domain/event"
	"github.com/hongyangchun/QQClub-sub003/internal/domain/policy"
	apperrors "github.com/hongyangchun/QQClub-sub003/internal/platform/errors"
)

// Domain event types emitted to the notification outbox.
const (
	DomainEventApprovalRequired  = "event.approval.required"
	DomainEventApproved          = "event.approved"
	DomainEventRejected          = "event.rejected"
	DomainEventStarted           = "event.started"
	DomainEventCompleted         = "event.completed"
	DomainEventEnrollmentCreated = "event.enrollment.created"
	DomainEventWithdrawn         = "event.enrollment.withdrawn"
	DomainEventCheckInSubmitted  = "checkin.submitted"
	DomainEventFlowerGiven       = "flower.given"
	DomainEventLeadingPublished  = "leading.published"
	DomainEventLeadershipClaimed = "leadership.claimed"
)

// EventDetail bundles an event with its reading plan.
type EventDetail struct {
	Event     event.Event
	Schedules []event.Schedule
}

// CreateEventInput carries the caller-supplied event metadata. The group
// leader is always the authenticated caller.
type CreateEventInput struct {
	Title           string
	BookRef         string
	StartDate       string
	EndDate         string
	MinParticipants int
	MaxParticipants int
	FeeTerms        string
	Assignment      event.AssignmentType
	DailyProgress   []string
}

// CreateEvent creates a draft event with its full reading plan and queues
// it for admin review.
func (s *Service) CreateEvent(ctx context.Context, in CreateEventInput) (EventDetail, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return EventDetail{}, err
	}

	startDate, err := date.Parse(in.StartDate)
	if err != nil {
		return EventDetail{}, apperrors.Wrap(apperrors.CodeEventInvalidDates, "invalid start date", err)
	}
	endDate, err := date.Parse(in.EndDate)
	if err != nil {
		return EventDetail{}, apperrors.Wrap(apperrors.CodeEventInvalidDates, "invalid end date", err)
	}

	evt, schedules, err := event.Create(event.CreateInput{
		Title:           in.Title,
		BookRef:         in.BookRef,
		StartDate:       startDate,
		EndDate:         endDate,
		MinParticipants: in.MinParticipants,
		MaxParticipants: in.MaxParticipants,
		FeeTerms:        in.FeeTerms,
		Assignment:      in.Assignment,
		LeaderUserID:    caller.UserID,
		DailyProgress:   in.DailyProgress,
	}, s.clock, s.idGenerator)
	if err != nil {
		return EventDetail{}, err
	}

	if err := s.store.CreateEventWithSchedules(ctx, eventToRecord(evt), schedulesToRecords(schedules)); err != nil {
		return EventDetail{}, err
	}

	s.emit(ctx, DomainEventApprovalRequired, evt.ID, evt.ID, caller.UserID)
	return EventDetail{Event: evt, Schedules: schedules}, nil
}

// GetEventDetail returns an event and its reading plan.
func (s *Service) GetEventDetail(ctx context.Context, eventID string) (EventDetail, error) {
	evt, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return EventDetail{}, err
	}
	schedRecs, err := s.store.ListSchedules(ctx, eventID)
	if err != nil {
		return EventDetail{}, err
	}
	return EventDetail{Event: evt, Schedules: schedulesFromRecords(schedRecs)}, nil
}

// ListEvents returns a page of events in reverse creation order.
func (s *Service) ListEvents(ctx context.Context, pageSize int, pageToken string) ([]event.Event, string, error) {
	if pageSize <= 0 {
		pageSize = defaultListEventsPageSize
	}
	if pageSize > maxListEventsPageSize {
		pageSize = maxListEventsPageSize
	}

	page, err := s.store.ListEvents(ctx, pageSize, pageToken)
	if err != nil {
		return nil, "", err
	}
	events := make([]event.Event, 0, len(page.Events))
	for _, rec := range page.Events {
		events = append(events, eventFromRecord(rec))
	}
	return events, page.NextPageToken, nil
}

// SubmitForApproval re-queues a rejected draft for admin review.
func (s *Service) SubmitForApproval(ctx context.Context, eventID string) (event.Event, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return event.Event{}, err
	}
	evt, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return event.Event{}, err
	}

	roles, err := s.resolveRoles(ctx, caller, evt)
	if err != nil {
		return event.Event{}, err
	}
	decision := policy.Decide(policy.Request{Action: policy.ActionEditEvent, Roles: roles, Event: evt})
	if err := decision.Err(policy.ActionEditEvent); err != nil {
		return event.Event{}, err
	}

	updated, err := event.SubmitForApproval(evt, s.clock)
	if err != nil {
		return event.Event{}, err
	}
	if err := s.store.UpdateEvent(ctx, eventToRecord(updated), evt.Version); err != nil {
		return event.Event{}, err
	}
	updated.Version = evt.Version + 1

	s.emit(ctx, DomainEventApprovalRequired, evt.ID, evt.ID, caller.UserID)
	return updated, nil
}

// ApproveEvent records an admin approval and opens enrollment.
func (s *Service) ApproveEvent(ctx context.Context, eventID string) (event.Event, error) {
	return s.reviewEvent(ctx, eventID, "", true)
}

// RejectEvent records an admin rejection with an optional reason.
func (s *Service) RejectEvent(ctx context.Context, eventID, reason string) (event.Event, error) {
	return s.reviewEvent(ctx, eventID, reason, false)
}

func (s *Service) reviewEvent(ctx context.Context, eventID, reason string, approve bool) (event.Event, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return event.Event{}, err
	}
	evt, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return event.Event{}, err
	}

	roles, err := s.resolveRoles(ctx, caller, evt)
	if err != nil {
		return event.Event{}, err
	}
	decision := policy.Decide(policy.Request{Action: policy.ActionReviewEvent, Roles: roles, Event: evt})
	if err := decision.Err(policy.ActionReviewEvent); err != nil {
		return event.Event{}, err
	}

	var updated event.Event
	var eventType string
	if approve {
		updated, err = event.Approve(evt, caller.UserID, s.clock)
		eventType = DomainEventApproved
	} else {
		updated, err = event.Reject(evt, caller.UserID, reason, s.clock)
		eventType = DomainEventRejected
	}
	if err != nil {
		return event.Event{}, err
	}
	if err := s.store.UpdateEvent(ctx, eventToRecord(updated), evt.Version); err != nil {
		return event.Event{}, err
	}
	updated.Version = evt.Version + 1

	s.emit(ctx, eventType, evt.ID, evt.ID, caller.UserID)
	return updated, nil
}

// StartEvent moves an enrolling event into its reading period. Only the
// group leader may start it, once the start date has arrived and enough
// participants enrolled.
func (s *Service) StartEvent(ctx context.Context, eventID string) (event.Event, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return event.Event{}, err
	}
	evt, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return event.Event{}, err
	}

	participantCount, err := s.store.CountActiveParticipants(ctx, eventID)
	if err != nil {
		return event.Event{}, err
	}

	updated, err := event.Start(evt, caller.UserID, participantCount, s.today())
	if err != nil {
		return event.Event{}, err
	}
	if err := s.store.UpdateEvent(ctx, eventToRecord(updated), evt.Version); err != nil {
		return event.Event{}, err
	}
	updated.Version = evt.Version + 1

	s.emit(ctx, DomainEventStarted, evt.ID, evt.ID, caller.UserID)
	return updated, nil
}

// CompleteEvent closes the reading period once the end date has passed and
// settles every active enrollment. The group leader or an admin may call
// it.
func (s *Service) CompleteEvent(ctx context.Context, eventID string) (event.Event, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return event.Event{}, err
	}
	evt, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return event.Event{}, err
	}

	if caller.UserID != evt.LeaderUserID && !caller.Admin {
		return event.Event{}, apperrors.WithMetadata(
			apperrors.CodePermissionDenied,
			"only the group leader or an admin may complete the event",
			map[string]string{"Reason": policy.ReasonWrongRole},
		)
	}

	updated, err := event.Complete(evt, s.today())
	if err != nil {
		return event.Event{}, err
	}
	if err := s.store.UpdateEvent(ctx, eventToRecord(updated), evt.Version); err != nil {
		return event.Event{}, err
	}
	updated.Version = evt.Version + 1

	if err := s.settleEnrollments(ctx, eventID); err != nil {
		return event.Event{}, err
	}

	s.emit(ctx, DomainEventCompleted, evt.ID, evt.ID, caller.UserID)
	return updated, nil
}

// settleEnrollments marks every active enrollment completed.
func (s *Service) settleEnrollments(ctx context.Context, eventID string) error {
	records, err := s.store.ListEnrollments(ctx, eventID)
	if err != nil {
		return err
	}
	for _, rec := range records {
		enr := enrollmentFromRecord(rec)
		if enr.Status != enrollment.StatusEnrolled {
			continue
		}
		settled := enrollment.MarkCompleted(enr, s.clock)
		if err := s.store.UpdateEnrollment(ctx, enrollmentToRecord(settled)); err != nil {
			return err
		}
	}
	return nil
}

// EditEventInput carries the fields a group leader may still change.
// Dates are immutable; the reading plan never regenerates.
type EditEventInput struct {
	Title           string
	BookRef         string
	MinParticipants int
	MaxParticipants int
	FeeTerms        string
}

// EditEvent updates event metadata while the record is still editable.
// Admin override is unconditional.
func (s *Service) EditEvent(ctx context.Context, eventID string, in EditEventInput) (event.Event, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return event.Event{}, err
	}
	evt, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return event.Event{}, err
	}

	roles, err := s.resolveRoles(ctx, caller, evt)
	if err != nil {
		return event.Event{}, err
	}
	decision := policy.Decide(policy.Request{Action: policy.ActionEditEvent, Roles: roles, Event: evt})
	if err := decision.Err(policy.ActionEditEvent); err != nil {
		return event.Event{}, err
	}

	normalized, err := event.NormalizeCreateInput(event.CreateInput{
		Title:           in.Title,
		BookRef:         in.BookRef,
		StartDate:       evt.StartDate,
		EndDate:         evt.EndDate,
		MinParticipants: in.MinParticipants,
		MaxParticipants: in.MaxParticipants,
		FeeTerms:        in.FeeTerms,
		Assignment:      evt.Assignment,
		LeaderUserID:    evt.LeaderUserID,
	})
	if err != nil {
		return event.Event{}, err
	}

	updated := evt
	updated.Title = normalized.Title
	updated.BookRef = normalized.BookRef
	updated.MinParticipants = normalized.MinParticipants
	updated.MaxParticipants = normalized.MaxParticipants
	updated.FeeTerms = normalized.FeeTerms
	updated.UpdatedAt = s.clock().UTC()

	if err := s.store.UpdateEvent(ctx, eventToRecord(updated), evt.Version); err != nil {
		return event.Event{}, err
	}
	updated.Version = evt.Version + 1
	return updated, nil
}

// DeleteEvent removes a draft or rejected event together with its plan.
func (s *Service) DeleteEvent(ctx context.Context, eventID string) error {
	caller, err := s.caller(ctx)
	if err != nil {
		return err
	}
	evt, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return err
	}

	roles, err := s.resolveRoles(ctx, caller, evt)
	if err != nil {
		return err
	}
	decision := policy.Decide(policy.Request{Action: policy.ActionEditEvent, Roles: roles, Event: evt})
	if err := decision.Err(policy.ActionEditEvent); err != nil {
		return err
	}
	if err := event.EnsureDestroyable(evt); err != nil {
		return err
	}

	return s.store.DeleteEvent(ctx, eventID)
}
