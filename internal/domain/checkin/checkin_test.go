package checkin

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hongyangchun/QQClub-sub003/internal/domain/enrollment"
	"github.com/hongyangchun/QQClub-sub003/internal/domain/event"
	apperrors "github.com/hongyangchun/QQClub-sub003/internal/platform/errors"
)

var fixedNow = func() time.Time {
	return time.Date(2026, 4, 10, 20, 0, 0, 0, time.UTC)
}

func staticID() (string, error) { return "ci-1", nil }

func testSchedule() event.Schedule {
	return event.Schedule{
		ID:        "sch-3",
		EventID:   "evt-1",
		DayNumber: 3,
		Date:      time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
	}
}

func activeEnrollment() enrollment.Enrollment {
	return enrollment.Enrollment{
		ID:      "enr-1",
		UserID:  "user-1",
		EventID: "evt-1",
		Type:    enrollment.TypeParticipant,
		Status:  enrollment.StatusEnrolled,
	}
}

func longContent() string {
	return strings.Repeat("read ", 10)
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 0},
		{"spaces only", "   \n\t ", 0},
		{"latin", "today I read two chapters", 21},
		{"cjk", "今天读完了第三章", 8},
		{"mixed with newlines", "第1章\nnotes", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WordCount(tt.content); got != tt.want {
				t.Fatalf("word count = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSubmit(t *testing.T) {
	today := testSchedule().Date

	c, err := Submit(testSchedule(), activeEnrollment(), longContent(), 20, today, fixedNow, staticID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if c.UserID != "user-1" || c.ScheduleID != "sch-3" || c.EnrollmentID != "enr-1" {
		t.Fatalf("references = %+v", c)
	}
	if c.WordCount != 40 {
		t.Fatalf("word count = %d, want 40", c.WordCount)
	}
	if c.HasFlower {
		t.Fatal("new check-in should have no flower")
	}
}

func TestSubmitGuards(t *testing.T) {
	schedule := testSchedule()
	withdrawn := activeEnrollment()
	withdrawn.Status = enrollment.StatusWithdrawn
	observer := activeEnrollment()
	observer.Type = enrollment.TypeObserver

	tests := []struct {
		name     string
		enr      enrollment.Enrollment
		content  string
		today    time.Time
		wantCode apperrors.Code
	}{
		{"day not arrived", activeEnrollment(), longContent(), schedule.Date.AddDate(0, 0, -1), apperrors.CodeCheckInDayNotArrived},
		{"late submission allowed", activeEnrollment(), longContent(), schedule.Date.AddDate(0, 0, 3), ""},
		{"too short", activeEnrollment(), "太短了", schedule.Date, apperrors.CodeCheckInContentTooShort},
		{"withdrawn enrollment", withdrawn, longContent(), schedule.Date, apperrors.CodeEnrollmentInactive},
		{"observer cannot check in", observer, longContent(), schedule.Date, apperrors.CodeEnrollmentInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Submit(schedule, tt.enr, tt.content, 20, tt.today, fixedNow, staticID)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("submit: %v", err)
				}
				return
			}
			if apperrors.CodeOf(err) != tt.wantCode {
				t.Fatalf("error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestSubmitEarlyErrorNamesTheDay(t *testing.T) {
	schedule := testSchedule()

	_, err := Submit(schedule, activeEnrollment(), longContent(), 20, schedule.Date.AddDate(0, 0, -1), fixedNow, staticID)
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if appErr.Metadata["DayNumber"] != "3" {
		t.Fatalf("metadata = %v, want DayNumber 3", appErr.Metadata)
	}
}

func TestSubmitCJKMeetsThreshold(t *testing.T) {
	// 20 Chinese characters pass the default threshold even though the
	// content contains no spaces at all.
	content := strings.Repeat("读书笔记", 5)

	c, err := Submit(testSchedule(), activeEnrollment(), content, 0, testSchedule().Date, fixedNow, staticID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if c.WordCount != 20 {
		t.Fatalf("word count = %d, want 20", c.WordCount)
	}
}

func TestEdit(t *testing.T) {
	c, err := Submit(testSchedule(), activeEnrollment(), longContent(), 20, testSchedule().Date, fixedNow, staticID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	edited, err := Edit(c, "user-1", strings.Repeat("more ", 8), 20, fixedNow)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.WordCount != 32 {
		t.Fatalf("word count = %d, want 32", edited.WordCount)
	}

	if _, err := Edit(c, "user-2", longContent(), 20, fixedNow); apperrors.CodeOf(err) != apperrors.CodePermissionDenied {
		t.Fatalf("non-author edit should fail, got %v", err)
	}

	c.HasFlower = true
	if _, err := Edit(c, "user-1", longContent(), 20, fixedNow); apperrors.CodeOf(err) != apperrors.CodeCheckInLocked {
		t.Fatalf("rewarded check-in edit should fail, got %v", err)
	}
}
