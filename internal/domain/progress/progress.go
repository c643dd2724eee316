// Package progress holds the read-side aggregations: participant
// completion rates and the backup worklist for the group leader.
package progress

import (
	"time"

	"github.com/hongyangchun/QQClub-sub003/internal/domain/date"
	"github.com/hongyangchun/QQClub-sub003/internal/domain/event"
)

// CompletionRate returns the fraction of event days a participant checked
// in for, in [0, 1]. Only check-ins that passed minimum content validation
// count, which the caller guarantees by counting stored rows.
func CompletionRate(checkInsCompleted, daysCount int) float64 {
	if daysCount <= 0 {
		return 0
	}
	if checkInsCompleted < 0 {
		checkInsCompleted = 0
	}
	rate := float64(checkInsCompleted) / float64(daysCount)
	if rate > 1 {
		return 1
	}
	return rate
}

// BackupNeed flags one schedule day the group leader should cover.
type BackupNeed struct {
	Schedule event.Schedule
	// MissingContent is set when the day has no leading content yet.
	MissingContent bool
	// MissingFlowers is set when no flower was issued for the day yet.
	MissingFlowers bool
	// Urgent marks days already behind schedule.
	Urgent bool
}

// DayFacts reports what already exists for one schedule day.
type DayFacts struct {
	HasLeading bool
	HasFlower  bool
}

// SchedulesNeedingBackup returns every schedule whose date has arrived or
// passed and that still misses leading content or a flower, in day order.
// Pure read; facts are keyed by schedule ID.
func SchedulesNeedingBackup(schedules []event.Schedule, facts map[string]DayFacts, today time.Time) []BackupNeed {
	today = date.Of(today)
	var needs []BackupNeed
	for _, s := range schedules {
		if s.Date.After(today) {
			continue
		}
		f := facts[s.ID]
		if f.HasLeading && f.HasFlower {
			continue
		}
		needs = append(needs, BackupNeed{
			Schedule:       s,
			MissingContent: !f.HasLeading,
			MissingFlowers: !f.HasFlower,
			Urgent:         s.Date.Before(today),
		})
	}
	return needs
}
