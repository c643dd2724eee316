package service

import (
	"context"

	"github.com/hongyangchun/QQClub-sub003/internal/domain/leading"
	"github.com/hongyangchun/QQClub-sub003/internal/domain/policy"
)

// PublishLeading creates the leading content for one schedule day. The
// day's daily leader may publish from the evening before through the day
// itself; the group leader may publish any time as full-time backup.
func (s *Service) PublishLeading(ctx context.Context, eventID string, dayNumber int, suggestion, questions string) (leading.Leading, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return leading.Leading{}, err
	}
	evt, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return leading.Leading{}, err
	}
	schedRec, err := s.store.GetSchedule(ctx, eventID, dayNumber)
	if err != nil {
		return leading.Leading{}, err
	}
	sched := scheduleFromRecord(schedRec)

	roles, err := s.resolveRoles(ctx, caller, evt)
	if err != nil {
		return leading.Leading{}, err
	}
	decision := policy.Decide(policy.Request{
		Action:    policy.ActionPublishLeading,
		Roles:     roles,
		Event:     evt,
		DayNumber: sched.DayNumber,
		DayDate:   sched.Date,
		Today:     s.today(),
	})
	if err := decision.Err(policy.ActionPublishLeading); err != nil {
		return leading.Leading{}, err
	}

	l, err := leading.Publish(sched, caller.UserID, suggestion, questions, s.clock, s.idGenerator)
	if err != nil {
		return leading.Leading{}, err
	}
	if err := s.store.CreateLeading(ctx, leadingToRecord(l, eventID)); err != nil {
		return leading.Leading{}, err
	}

	s.emit(ctx, DomainEventLeadingPublished, eventID, l.ID, caller.UserID)
	return l, nil
}

// EditLeading replaces existing leading content under the same permission
// rule as publishing, plus the freshness guard: no edits once check-ins
// exist for the day.
func (s *Service) EditLeading(ctx context.Context, eventID string, dayNumber int, suggestion, questions string) (leading.Leading, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return leading.Leading{}, err
	}
	evt, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return leading.Leading{}, err
	}
	schedRec, err := s.store.GetSchedule(ctx, eventID, dayNumber)
	if err != nil {
		return leading.Leading{}, err
	}
	sched := scheduleFromRecord(schedRec)

	existingRec, err := s.store.GetLeadingBySchedule(ctx, sched.ID)
	if err != nil {
		return leading.Leading{}, err
	}
	hasCheckIns, err := s.store.HasCheckInsForSchedule(ctx, sched.ID)
	if err != nil {
		return leading.Leading{}, err
	}

	roles, err := s.resolveRoles(ctx, caller, evt)
	if err != nil {
		return leading.Leading{}, err
	}
	decision := policy.Decide(policy.Request{
		Action:         policy.ActionEditLeading,
		Roles:          roles,
		Event:          evt,
		DayNumber:      sched.DayNumber,
		DayDate:        sched.Date,
		Today:          s.today(),
		DayHasCheckIns: hasCheckIns,
	})
	if err := decision.Err(policy.ActionEditLeading); err != nil {
		return leading.Leading{}, err
	}

	edited, err := leading.Edit(leadingFromRecord(existingRec), suggestion, questions, s.clock)
	if err != nil {
		return leading.Leading{}, err
	}
	edited.LeaderUserID = caller.UserID
	if err := s.store.UpdateLeading(ctx, leadingToRecord(edited, eventID)); err != nil {
		return leading.Leading{}, err
	}
	return edited, nil
}

// GetLeading returns the leading content for one schedule day, if any.
func (s *Service) GetLeading(ctx context.Context, eventID string, dayNumber int) (leading.Leading, error) {
	schedRec, err := s.store.GetSchedule(ctx, eventID, dayNumber)
	if err != nil {
		return leading.Leading{}, err
	}
	rec, err := s.store.GetLeadingBySchedule(ctx, schedRec.ID)
	if err != nil {
		return leading.Leading{}, err
	}
	return leadingFromRecord(rec), nil
}
