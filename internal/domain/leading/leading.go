// Package leading models the leader-authored content for one schedule day:
// a reading suggestion plus discussion questions.
package leading

import (
	"fmt"
	"strings"
	"time"

	"github.com/hongyangchun/QQClub-sub003/internal/domain/event"
	apperrors "github.com/hongyangchun/QQClub-sub003/internal/platform/errors"
	"github.com/hongyangchun/QQClub-sub003/internal/platform/id"
)

// Leading is the daily leading content. At most one exists per schedule,
// enforced by a storage uniqueness constraint.
type Leading struct {
	ID         string
	ScheduleID string
	// LeaderUserID is whoever authored the content, which under the backup
	// rule may be the group leader rather than the day's daily leader.
	LeaderUserID      string
	ReadingSuggestion string
	Questions         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Publish builds the leading content for a schedule day. Authorization
// windows are checked in the policy layer beforehand.
func Publish(schedule event.Schedule, leaderUserID, suggestion, questions string, now func() time.Time, idGenerator func() (string, error)) (Leading, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	suggestion = strings.TrimSpace(suggestion)
	if suggestion == "" {
		return Leading{}, apperrors.New(apperrors.CodeLeadingSuggestionEmpty, "reading suggestion is required")
	}
	leaderUserID = strings.TrimSpace(leaderUserID)
	if leaderUserID == "" {
		return Leading{}, apperrors.New(apperrors.CodeEventLeaderMissing, "leader is required")
	}

	leadingID, err := idGenerator()
	if err != nil {
		return Leading{}, fmt.Errorf("generate leading id: %w", err)
	}
	createdAt := now().UTC()
	return Leading{
		ID:                leadingID,
		ScheduleID:        schedule.ID,
		LeaderUserID:      leaderUserID,
		ReadingSuggestion: suggestion,
		Questions:         strings.TrimSpace(questions),
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
	}, nil
}

// Edit replaces the content of existing leading material. The freshness
// guard (no edits once check-ins exist) lives in the policy layer.
func Edit(l Leading, suggestion, questions string, now func() time.Time) (Leading, error) {
	if now == nil {
		now = time.Now
	}
	suggestion = strings.TrimSpace(suggestion)
	if suggestion == "" {
		return Leading{}, apperrors.New(apperrors.CodeLeadingSuggestionEmpty, "reading suggestion is required")
	}

	updated := l
	updated.ReadingSuggestion = suggestion
	updated.Questions = strings.TrimSpace(questions)
	updated.UpdatedAt = now().UTC()
	return updated, nil
}
