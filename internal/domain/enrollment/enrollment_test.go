package enrollment

import (
	"testing"
	"time"

	"github.com/hongyangchun/QQClub-sub003/internal/domain/event"
	apperrors "github.com/hongyangchun/QQClub-sub003/internal/platform/errors"
)

var fixedNow = func() time.Time {
	return time.Date(2026, 4, 5, 12, 0, 0, 0, time.UTC)
}

func staticID() (string, error) { return "enr-1", nil }

func openEvent() event.Event {
	return event.Event{
		ID:              "evt-1",
		Status:          event.StatusEnrolling,
		Approval:        event.ApprovalApproved,
		MinParticipants: 2,
		MaxParticipants: 3,
	}
}

func TestEnroll(t *testing.T) {
	enr, err := Enroll(openEvent(), "user-1", TypeParticipant, 0, fixedNow, staticID)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if enr.Status != StatusEnrolled || enr.Type != TypeParticipant {
		t.Fatalf("enrollment = %s/%s", StatusLabel(enr.Status), TypeLabel(enr.Type))
	}
	if enr.EventID != "evt-1" || enr.UserID != "user-1" {
		t.Fatalf("references = %q/%q", enr.EventID, enr.UserID)
	}
	if !enr.EnrolledAt.Equal(fixedNow()) {
		t.Fatalf("enrolled at = %v", enr.EnrolledAt)
	}
}

func TestEnrollGuards(t *testing.T) {
	inProgress := openEvent()
	inProgress.Status = event.StatusInProgress

	tests := []struct {
		name         string
		evt          event.Event
		userID       string
		typ          Type
		participants int
		wantCode     apperrors.Code
	}{
		{"closed event", inProgress, "user-1", TypeParticipant, 0, apperrors.CodeEnrollmentClosed},
		{"full event", openEvent(), "user-1", TypeParticipant, 3, apperrors.CodeEnrollmentFull},
		{"observer ignores capacity", openEvent(), "user-1", TypeObserver, 3, ""},
		{"missing type", openEvent(), "user-1", TypeUnspecified, 0, apperrors.CodeEnrollmentInvalidType},
		{"missing user", openEvent(), "  ", TypeParticipant, 0, apperrors.CodeEnrollmentInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Enroll(tt.evt, tt.userID, tt.typ, tt.participants, fixedNow, staticID)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("enroll: %v", err)
				}
				return
			}
			if apperrors.CodeOf(err) != tt.wantCode {
				t.Fatalf("error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestWithdraw(t *testing.T) {
	enr, err := Enroll(openEvent(), "user-1", TypeParticipant, 0, fixedNow, staticID)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}

	withdrawn, err := Withdraw(enr, fixedNow)
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if withdrawn.Status != StatusWithdrawn {
		t.Fatalf("status = %s", StatusLabel(withdrawn.Status))
	}

	if _, err := Withdraw(withdrawn, fixedNow); apperrors.CodeOf(err) != apperrors.CodeEnrollmentInactive {
		t.Fatalf("double withdraw should fail, got %v", err)
	}
	if err := EnsureActive(withdrawn); apperrors.CodeOf(err) != apperrors.CodeEnrollmentInactive {
		t.Fatalf("withdrawn enrollment should be inactive, got %v", err)
	}
}

func TestMarkCompleted(t *testing.T) {
	enr, err := Enroll(openEvent(), "user-1", TypeParticipant, 0, fixedNow, staticID)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}

	completed := MarkCompleted(enr, fixedNow)
	if completed.Status != StatusCompleted {
		t.Fatalf("status = %s", StatusLabel(completed.Status))
	}

	withdrawn, _ := Withdraw(enr, fixedNow)
	if got := MarkCompleted(withdrawn, fixedNow); got.Status != StatusWithdrawn {
		t.Fatalf("withdrawn enrollment should stay withdrawn, got %s", StatusLabel(got.Status))
	}
}

func TestLabelRoundTrips(t *testing.T) {
	for _, typ := range []Type{TypeParticipant, TypeObserver} {
		parsed, err := TypeFromLabel(TypeLabel(typ))
		if err != nil || parsed != typ {
			t.Fatalf("type round trip failed for %s: %v", TypeLabel(typ), err)
		}
	}
	for _, status := range []Status{StatusEnrolled, StatusCompleted, StatusWithdrawn} {
		parsed, err := StatusFromLabel(StatusLabel(status))
		if err != nil || parsed != status {
			t.Fatalf("status round trip failed for %s: %v", StatusLabel(status), err)
		}
	}
	if _, err := TypeFromLabel("bogus"); err == nil {
		t.Fatal("expected error for unknown type label")
	}
}
