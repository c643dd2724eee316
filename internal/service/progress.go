package service

import (
	"context"

	"github.com/hongyangchun/QQClub-sub003/internal/domain/policy"
	"github.com/hongyangchun/QQClub-sub003/internal/domain/progress"
	apperrors "github.com/hongyangchun/QQClub-sub003/internal/platform/errors"
)

// ParticipantProgress summarizes one enrollment's standing.
type ParticipantProgress struct {
	UserID          string
	CheckInsCount   int
	FlowersReceived int
	CompletionRate  float64
}

// EventProgress returns the completion standing of every enrollment on an
// event. Counts come from stored rows, so only check-ins that passed
// content validation contribute.
func (s *Service) EventProgress(ctx context.Context, eventID string) ([]ParticipantProgress, error) {
	evt, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListEnrollments(ctx, eventID)
	if err != nil {
		return nil, err
	}

	result := make([]ParticipantProgress, 0, len(records))
	for _, rec := range records {
		checkIns, err := s.store.CountCheckInsByEnrollment(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		flowers, err := s.store.CountFlowersByRecipient(ctx, eventID, rec.UserID)
		if err != nil {
			return nil, err
		}
		result = append(result, ParticipantProgress{
			UserID:          rec.UserID,
			CheckInsCount:   checkIns,
			FlowersReceived: flowers,
			CompletionRate:  progress.CompletionRate(checkIns, evt.DaysCount),
		})
	}
	return result, nil
}

// BackupWorklist surfaces the schedule days the group leader should cover:
// every arrived day still missing leading content or a flower. Only the
// group leader or an admin may read it.
func (s *Service) BackupWorklist(ctx context.Context, eventID string) ([]progress.BackupNeed, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	evt, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if caller.UserID != evt.LeaderUserID && !caller.Admin {
		return nil, apperrors.WithMetadata(
			apperrors.CodePermissionDenied,
			"only the group leader or an admin may view the backup worklist",
			map[string]string{"Reason": policy.ReasonWrongRole},
		)
	}

	schedRecs, err := s.store.ListSchedules(ctx, eventID)
	if err != nil {
		return nil, err
	}

	facts := make(map[string]progress.DayFacts, len(schedRecs))
	for _, rec := range schedRecs {
		hasLeading, err := s.store.HasLeadingForSchedule(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		hasFlower, err := s.store.HasFlowerForSchedule(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		facts[rec.ID] = progress.DayFacts{HasLeading: hasLeading, HasFlower: hasFlower}
	}

	return progress.SchedulesNeedingBackup(schedulesFromRecords(schedRecs), facts, s.today()), nil
}
