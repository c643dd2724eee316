package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/hongyangchun/QQClub-sub003/internal/domain/event"
	"github.com/hongyangchun/QQClub-sub003/internal/domain/policy"
	apperrors "github.com/hongyangchun/QQClub-sub003/internal/platform/errors"
	"github.com/hongyangchun/QQClub-sub003/internal/storage"
)

// ClaimDailyLeadership claims day leadership for the caller.
//
// The policy check and the conditional update are deliberately separate
// layers: the policy rejects obvious misuse early, and the set-if-null
// write settles races so exactly one concurrent claimant wins.
func (s *Service) ClaimDailyLeadership(ctx context.Context, eventID string, dayNumber int) (event.Schedule, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return event.Schedule{}, err
	}
	evt, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return event.Schedule{}, err
	}

	if evt.Assignment != event.AssignmentVoluntary {
		return event.Schedule{}, apperrors.New(
			apperrors.CodeLeadershipClaimNotAllowed,
			"daily leadership is assigned by the group leader on this event",
		)
	}

	schedRec, err := s.store.GetSchedule(ctx, eventID, dayNumber)
	if err != nil {
		return event.Schedule{}, err
	}
	sched := scheduleFromRecord(schedRec)

	roles, err := s.resolveRoles(ctx, caller, evt)
	if err != nil {
		return event.Schedule{}, err
	}
	decision := policy.Decide(policy.Request{
		Action:     policy.ActionClaimLeadership,
		Roles:      roles,
		Event:      evt,
		DayNumber:  sched.DayNumber,
		DayDate:    sched.Date,
		Today:      s.today(),
		DayClaimed: sched.DailyLeaderUserID != "",
	})
	if err := decision.Err(policy.ActionClaimLeadership); err != nil {
		return event.Schedule{}, err
	}

	if err := s.store.ClaimDailyLeader(ctx, sched.ID, caller.UserID); err != nil {
		return event.Schedule{}, claimConflict(err, sched.DayNumber)
	}
	sched.DailyLeaderUserID = caller.UserID

	s.emit(ctx, DomainEventLeadershipClaimed, eventID, sched.ID, caller.UserID)
	return sched, nil
}

// claimConflict annotates a lost claim race with the day number so the
// rendered message can name the day.
func claimConflict(err error, dayNumber int) error {
	if !errors.Is(err, storage.ErrAlreadyClaimed) {
		return err
	}
	return apperrors.WithMetadata(
		apperrors.CodeLeadershipAlreadyClaimed,
		fmt.Sprintf("day %d was claimed concurrently", dayNumber),
		map[string]string{"DayNumber": strconv.Itoa(dayNumber)},
	)
}
