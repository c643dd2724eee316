package service

import (
	"context"

	"github.com/hongyangchun/QQClub-sub003/internal/domain/checkin"
)

const checkInMinWordsDefault = checkin.DefaultMinWords

// SubmitCheckIn records the caller's daily submission for one schedule
// day. Duplicate submissions fail on the (user, schedule) constraint.
func (s *Service) SubmitCheckIn(ctx context.Context, eventID string, dayNumber int, content string) (checkin.CheckIn, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return checkin.CheckIn{}, err
	}

	schedRec, err := s.store.GetSchedule(ctx, eventID, dayNumber)
	if err != nil {
		return checkin.CheckIn{}, err
	}
	enrRec, err := s.store.GetEnrollment(ctx, eventID, caller.UserID)
	if err != nil {
		return checkin.CheckIn{}, err
	}

	c, err := checkin.Submit(
		scheduleFromRecord(schedRec),
		enrollmentFromRecord(enrRec),
		content,
		s.minCheckInWords,
		s.today(),
		s.clock,
		s.idGenerator,
	)
	if err != nil {
		return checkin.CheckIn{}, err
	}
	if err := s.store.CreateCheckIn(ctx, checkInToRecord(c, eventID)); err != nil {
		return checkin.CheckIn{}, err
	}

	s.emit(ctx, DomainEventCheckInSubmitted, eventID, c.ID, caller.UserID)
	return c, nil
}

// EditCheckIn replaces the content of the caller's own submission, while
// no flower is attached yet.
func (s *Service) EditCheckIn(ctx context.Context, checkInID, content string) (checkin.CheckIn, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return checkin.CheckIn{}, err
	}

	rec, err := s.store.GetCheckIn(ctx, checkInID)
	if err != nil {
		return checkin.CheckIn{}, err
	}

	edited, err := checkin.Edit(checkInFromRecord(rec), caller.UserID, content, s.minCheckInWords, s.clock)
	if err != nil {
		return checkin.CheckIn{}, err
	}
	if err := s.store.UpdateCheckIn(ctx, checkInToRecord(edited, rec.EventID)); err != nil {
		return checkin.CheckIn{}, err
	}
	return edited, nil
}
