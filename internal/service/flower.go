package service

import (
	"context"

	"github.com/hongyangchun/QQClub-sub003/internal/domain/flower"
	"github.com/hongyangchun/QQClub-sub003/internal/domain/policy"
)

// GiveFlower rewards a check-in. The caller must be the day's daily leader
// inside the flower window, or the group leader at any time. The window is
// checked at grant time only; later days never invalidate a granted
// flower.
func (s *Service) GiveFlower(ctx context.Context, checkInID, comment string) (flower.Flower, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return flower.Flower{}, err
	}

	ciRec, err := s.store.GetCheckIn(ctx, checkInID)
	if err != nil {
		return flower.Flower{}, err
	}
	evt, err := s.loadEvent(ctx, ciRec.EventID)
	if err != nil {
		return flower.Flower{}, err
	}

	sched, err := s.findSchedule(ctx, evt.ID, ciRec.ScheduleID)
	if err != nil {
		return flower.Flower{}, err
	}

	roles, err := s.resolveRoles(ctx, caller, evt)
	if err != nil {
		return flower.Flower{}, err
	}
	decision := policy.Decide(policy.Request{
		Action:    policy.ActionGiveFlower,
		Roles:     roles,
		Event:     evt,
		DayNumber: sched.DayNumber,
		DayDate:   sched.Date,
		Today:     s.today(),
	})
	if err := decision.Err(policy.ActionGiveFlower); err != nil {
		return flower.Flower{}, err
	}

	f, err := flower.Give(checkInFromRecord(ciRec), caller.UserID, comment, s.clock, s.idGenerator)
	if err != nil {
		return flower.Flower{}, err
	}
	if err := s.store.CreateFlower(ctx, flowerToRecord(f, evt.ID)); err != nil {
		return flower.Flower{}, err
	}

	s.emit(ctx, DomainEventFlowerGiven, evt.ID, f.CheckInID, caller.UserID)
	return f, nil
}
