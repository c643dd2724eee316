// Package checkin models a participant's daily reading submission.
package checkin

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/hongyangchun/QQClub-sub003/internal/domain/date"
	"github.com/hongyangchun/QQClub-sub003/internal/domain/enrollment"
	"github.com/hongyangchun/QQClub-sub003/internal/domain/event"
	apperrors "github.com/hongyangchun/QQClub-sub003/internal/platform/errors"
	"github.com/hongyangchun/QQClub-sub003/internal/platform/id"
)

// DefaultMinWords is the minimum content length unless configured otherwise.
const DefaultMinWords = 20

// CheckIn is one participant's submission for one schedule day.
// The (UserID, ScheduleID) pair is unique at the storage boundary.
type CheckIn struct {
	ID           string
	UserID       string
	ScheduleID   string
	EnrollmentID string
	Content      string
	WordCount    int
	// HasFlower locks the record against author edits once a reward
	// is attached.
	HasFlower   bool
	SubmittedAt time.Time
	UpdatedAt   time.Time
}

// WordCount counts content length in runes, skipping whitespace. CJK text
// carries one word per rune, so rune counting treats both scripts fairly
// where space-splitting would not.
func WordCount(content string) int {
	count := 0
	for _, r := range content {
		if !unicode.IsSpace(r) {
			count++
		}
	}
	return count
}

// Submit creates a check-in for a schedule day.
// Guards: the enrollment is an active participant record, the day has
// arrived, and the content meets the minimum length. Duplicate submissions
// are caught by the storage uniqueness constraint.
func Submit(schedule event.Schedule, enr enrollment.Enrollment, content string, minWords int, today time.Time, now func() time.Time, idGenerator func() (string, error)) (CheckIn, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	if minWords <= 0 {
		minWords = DefaultMinWords
	}

	if err := enrollment.EnsureActive(enr); err != nil {
		return CheckIn{}, err
	}
	if enr.Type != enrollment.TypeParticipant {
		return CheckIn{}, apperrors.New(apperrors.CodeEnrollmentInvalidType, "only participants submit check-ins")
	}
	if date.Of(today).Before(schedule.Date) {
		return CheckIn{}, apperrors.WithMetadata(
			apperrors.CodeCheckInDayNotArrived,
			fmt.Sprintf("day %d has not arrived yet", schedule.DayNumber),
			map[string]string{
				"DayNumber": fmt.Sprintf("%d", schedule.DayNumber),
				"Date":      date.Format(schedule.Date),
			},
		)
	}
	content = strings.TrimSpace(content)
	wordCount := WordCount(content)
	if wordCount < minWords {
		return CheckIn{}, tooShort(wordCount, minWords)
	}

	checkInID, err := idGenerator()
	if err != nil {
		return CheckIn{}, fmt.Errorf("generate check-in id: %w", err)
	}
	submittedAt := now().UTC()
	return CheckIn{
		ID:           checkInID,
		UserID:       enr.UserID,
		ScheduleID:   schedule.ID,
		EnrollmentID: enr.ID,
		Content:      content,
		WordCount:    wordCount,
		SubmittedAt:  submittedAt,
		UpdatedAt:    submittedAt,
	}, nil
}

// Edit replaces the content of an existing check-in.
// Only the author may edit, and only while no flower is attached.
func Edit(c CheckIn, callerUserID, content string, minWords int, now func() time.Time) (CheckIn, error) {
	if now == nil {
		now = time.Now
	}
	if minWords <= 0 {
		minWords = DefaultMinWords
	}

	if callerUserID != c.UserID {
		return CheckIn{}, apperrors.WithMetadata(
			apperrors.CodePermissionDenied,
			"only the author may edit a check-in",
			map[string]string{"Reason": "wrong_role"},
		)
	}
	if c.HasFlower {
		return CheckIn{}, apperrors.New(apperrors.CodeCheckInLocked, "check-in is locked once it has received a flower")
	}
	content = strings.TrimSpace(content)
	wordCount := WordCount(content)
	if wordCount < minWords {
		return CheckIn{}, tooShort(wordCount, minWords)
	}

	updated := c
	updated.Content = content
	updated.WordCount = wordCount
	updated.UpdatedAt = now().UTC()
	return updated, nil
}

func tooShort(got, want int) error {
	return apperrors.WithMetadata(
		apperrors.CodeCheckInContentTooShort,
		fmt.Sprintf("check-in content too short: %d of %d words", got, want),
		map[string]string{
			"Count": fmt.Sprintf("%d", got),
			"Min":   fmt.Sprintf("%d", want),
		},
	)
}
