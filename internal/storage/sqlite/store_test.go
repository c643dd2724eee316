package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hongyangchun/QQClub-sub003/internal/domain/enrollment"
	"github.com/hongyangchun/QQClub-sub003/internal/domain/event"
	"github.com/hongyangchun/QQClub-sub003/internal/storage"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qqclub.db")
	store, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func day(n int) time.Time {
	return time.Date(2026, 4, 9+n, 0, 0, 0, 0, time.UTC)
}

func eventRecord(id string) storage.EventRecord {
	createdAt := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	return storage.EventRecord{
		ID:              id,
		Title:           "Deep Work",
		BookRef:         "book-42",
		StartDate:       day(1),
		EndDate:         day(7),
		DaysCount:       7,
		MinParticipants: 3,
		MaxParticipants: 20,
		Status:          event.StatusDraft,
		Approval:        event.ApprovalPending,
		Assignment:      event.AssignmentVoluntary,
		LeaderUserID:    "leader-1",
		Version:         1,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
}

func scheduleRecords(eventID string, days int) []storage.ScheduleRecord {
	schedules := make([]storage.ScheduleRecord, 0, days)
	for i := 1; i <= days; i++ {
		schedules = append(schedules, storage.ScheduleRecord{
			ID:        fmt.Sprintf("%s-sch-%d", eventID, i),
			EventID:   eventID,
			DayNumber: i,
			Date:      day(i),
		})
	}
	return schedules
}

func seedEvent(t *testing.T, store *Store, id string, days int) storage.EventRecord {
	t.Helper()
	rec := eventRecord(id)
	rec.DaysCount = days
	rec.EndDate = day(days)
	if err := store.CreateEventWithSchedules(context.Background(), rec, scheduleRecords(id, days)); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return rec
}

func seedEnrollment(t *testing.T, store *Store, eventID, userID string) storage.EnrollmentRecord {
	t.Helper()
	rec := storage.EnrollmentRecord{
		ID:         "enr-" + userID,
		UserID:     userID,
		EventID:    eventID,
		Type:       enrollment.TypeParticipant,
		Status:     enrollment.StatusEnrolled,
		EnrolledAt: day(0),
		UpdatedAt:  day(0),
	}
	if err := store.CreateEnrollment(context.Background(), rec); err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}
	return rec
}

func seedCheckIn(t *testing.T, store *Store, eventID, scheduleID, userID string) storage.CheckInRecord {
	t.Helper()
	rec := storage.CheckInRecord{
		ID:           "ci-" + scheduleID + "-" + userID,
		UserID:       userID,
		ScheduleID:   scheduleID,
		EventID:      eventID,
		EnrollmentID: "enr-" + userID,
		Content:      "finished the assigned chapters",
		WordCount:    28,
		SubmittedAt:  day(1),
		UpdatedAt:    day(1),
	}
	if err := store.CreateCheckIn(context.Background(), rec); err != nil {
		t.Fatalf("seed check-in: %v", err)
	}
	return rec
}

func TestCreateEventWithSchedulesRoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	seedEvent(t, store, "evt-1", 7)

	got, err := store.GetEvent(ctx, "evt-1")
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if got.Title != "Deep Work" || got.Status != event.StatusDraft || got.Approval != event.ApprovalPending {
		t.Fatalf("event = %+v", got)
	}
	if !got.StartDate.Equal(day(1)) || !got.EndDate.Equal(day(7)) {
		t.Fatalf("dates = %v..%v", got.StartDate, got.EndDate)
	}

	schedules, err := store.ListSchedules(ctx, "evt-1")
	if err != nil {
		t.Fatalf("list schedules: %v", err)
	}
	if len(schedules) != 7 {
		t.Fatalf("schedules = %d, want 7", len(schedules))
	}
	for i, s := range schedules {
		if s.DayNumber != i+1 || !s.Date.Equal(day(i+1)) {
			t.Fatalf("schedule %d = %+v", i, s)
		}
		if s.DailyLeaderUserID != "" {
			t.Fatalf("schedule %d should start unclaimed", i)
		}
	}
}

func TestCreateEventRollsBackOnScheduleConflict(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	rec := eventRecord("evt-1")
	schedules := scheduleRecords("evt-1", 3)
	schedules[2].DayNumber = 2 // collides with day 2

	err := store.CreateEventWithSchedules(ctx, rec, schedules)
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	if _, err := store.GetEvent(ctx, "evt-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("event row should have rolled back, got %v", err)
	}
}

func TestGetEventNotFound(t *testing.T) {
	store := newStore(t)

	_, err := store.GetEvent(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateEventVersionCheck(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	rec := seedEvent(t, store, "evt-1", 3)

	rec.Status = event.StatusEnrolling
	rec.Approval = event.ApprovalApproved
	if err := store.UpdateEvent(ctx, rec, 1); err != nil {
		t.Fatalf("update event: %v", err)
	}

	got, err := store.GetEvent(ctx, "evt-1")
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if got.Version != 2 || got.Status != event.StatusEnrolling {
		t.Fatalf("event = version %d status %s", got.Version, event.StatusLabel(got.Status))
	}

	// A second writer still holding version 1 loses.
	if err := store.UpdateEvent(ctx, rec, 1); !errors.Is(err, storage.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}

	missing := rec
	missing.ID = "missing"
	if err := store.UpdateEvent(ctx, missing, 1); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListEventsPagination(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		rec := eventRecord(fmt.Sprintf("evt-%d", i))
		rec.CreatedAt = day(i)
		rec.UpdatedAt = day(i)
		if err := store.CreateEventWithSchedules(ctx, rec, nil); err != nil {
			t.Fatalf("seed event %d: %v", i, err)
		}
	}

	first, err := store.ListEvents(ctx, 2, "")
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if len(first.Events) != 2 || first.Events[0].ID != "evt-5" || first.Events[1].ID != "evt-4" {
		t.Fatalf("first page = %+v", first.Events)
	}
	if first.NextPageToken == "" {
		t.Fatal("expected next page token")
	}

	second, err := store.ListEvents(ctx, 2, first.NextPageToken)
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(second.Events) != 2 || second.Events[0].ID != "evt-3" {
		t.Fatalf("second page = %+v", second.Events)
	}

	last, err := store.ListEvents(ctx, 2, second.NextPageToken)
	if err != nil {
		t.Fatalf("list last page: %v", err)
	}
	if len(last.Events) != 1 || last.NextPageToken != "" {
		t.Fatalf("last page = %+v token %q", last.Events, last.NextPageToken)
	}
}

func TestDeleteEventCascades(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	seedEvent(t, store, "evt-1", 3)
	seedEnrollment(t, store, "evt-1", "user-1")

	if err := store.DeleteEvent(ctx, "evt-1"); err != nil {
		t.Fatalf("delete event: %v", err)
	}

	schedules, err := store.ListSchedules(ctx, "evt-1")
	if err != nil {
		t.Fatalf("list schedules: %v", err)
	}
	if len(schedules) != 0 {
		t.Fatalf("schedules should cascade, got %d", len(schedules))
	}
	if _, err := store.GetEnrollment(ctx, "evt-1", "user-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("enrollment should cascade, got %v", err)
	}

	if err := store.DeleteEvent(ctx, "evt-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second delete should report not found, got %v", err)
	}
}

func TestClaimDailyLeader(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	seedEvent(t, store, "evt-1", 3)

	if err := store.ClaimDailyLeader(ctx, "evt-1-sch-2", "user-1"); err != nil {
		t.Fatalf("claim: %v", err)
	}

	sched, err := store.GetSchedule(ctx, "evt-1", 2)
	if err != nil {
		t.Fatalf("get schedule: %v", err)
	}
	if sched.DailyLeaderUserID != "user-1" {
		t.Fatalf("daily leader = %q", sched.DailyLeaderUserID)
	}

	if err := store.ClaimDailyLeader(ctx, "evt-1-sch-2", "user-2"); !errors.Is(err, storage.ErrAlreadyClaimed) {
		t.Fatalf("expected already claimed, got %v", err)
	}
	if err := store.ClaimDailyLeader(ctx, "missing", "user-2"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClaimDailyLeaderConcurrent(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	seedEvent(t, store, "evt-1", 1)

	const claimants = 8
	results := make([]error, claimants)
	var wg sync.WaitGroup
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = store.ClaimDailyLeader(ctx, "evt-1-sch-1", fmt.Sprintf("user-%d", i))
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range results {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, storage.ErrAlreadyClaimed):
		default:
			t.Fatalf("claimant %d: unexpected error %v", i, err)
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}
}

func TestEnrollmentLifecycle(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	seedEvent(t, store, "evt-1", 3)
	rec := seedEnrollment(t, store, "evt-1", "user-1")

	if err := store.CreateEnrollment(ctx, rec); !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("expected duplicate enrollment, got %v", err)
	}

	count, err := store.CountActiveParticipants(ctx, "evt-1")
	if err != nil {
		t.Fatalf("count participants: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}

	rec.Status = enrollment.StatusWithdrawn
	if err := store.UpdateEnrollment(ctx, rec); err != nil {
		t.Fatalf("update enrollment: %v", err)
	}
	count, err = store.CountActiveParticipants(ctx, "evt-1")
	if err != nil {
		t.Fatalf("count participants: %v", err)
	}
	if count != 0 {
		t.Fatalf("withdrawn rows should not count, got %d", count)
	}

	list, err := store.ListEnrollments(ctx, "evt-1")
	if err != nil {
		t.Fatalf("list enrollments: %v", err)
	}
	if len(list) != 1 || list[0].Status != enrollment.StatusWithdrawn {
		t.Fatalf("enrollments = %+v", list)
	}
}

func TestCheckInUniquePerUserAndDay(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	seedEvent(t, store, "evt-1", 3)
	seedEnrollment(t, store, "evt-1", "user-1")
	rec := seedCheckIn(t, store, "evt-1", "evt-1-sch-1", "user-1")

	dup := rec
	dup.ID = "ci-other"
	if err := store.CreateCheckIn(ctx, dup); !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("expected duplicate check-in, got %v", err)
	}

	// The counter bumped exactly once.
	enr, err := store.GetEnrollment(ctx, "evt-1", "user-1")
	if err != nil {
		t.Fatalf("get enrollment: %v", err)
	}
	if enr.CheckInsCount != 1 {
		t.Fatalf("check-ins count = %d, want 1", enr.CheckInsCount)
	}

	has, err := store.HasCheckInsForSchedule(ctx, "evt-1-sch-1")
	if err != nil || !has {
		t.Fatalf("has check-ins = %v err %v", has, err)
	}
	has, err = store.HasCheckInsForSchedule(ctx, "evt-1-sch-2")
	if err != nil || has {
		t.Fatalf("day 2 should have no check-ins, got %v err %v", has, err)
	}

	count, err := store.CountCheckInsByEnrollment(ctx, "enr-user-1")
	if err != nil || count != 1 {
		t.Fatalf("count by enrollment = %d err %v", count, err)
	}
}

func TestCreateFlowerLocksCheckInAndCounts(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	seedEvent(t, store, "evt-1", 3)
	seedEnrollment(t, store, "evt-1", "user-1")
	ci := seedCheckIn(t, store, "evt-1", "evt-1-sch-1", "user-1")

	flw := storage.FlowerRecord{
		ID:              "flw-1",
		CheckInID:       ci.ID,
		GiverUserID:     "leader-1",
		RecipientUserID: "user-1",
		ScheduleID:      ci.ScheduleID,
		EventID:         "evt-1",
		Comment:         "well done",
		CreatedAt:       day(1),
	}
	if err := store.CreateFlower(ctx, flw); err != nil {
		t.Fatalf("create flower: %v", err)
	}

	dup := flw
	dup.ID = "flw-2"
	if err := store.CreateFlower(ctx, dup); !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("expected duplicate flower, got %v", err)
	}

	got, err := store.GetCheckIn(ctx, ci.ID)
	if err != nil {
		t.Fatalf("get check-in: %v", err)
	}
	if !got.HasFlower {
		t.Fatal("check-in should be marked rewarded")
	}

	enr, err := store.GetEnrollment(ctx, "evt-1", "user-1")
	if err != nil {
		t.Fatalf("get enrollment: %v", err)
	}
	if enr.FlowersReceived != 1 {
		t.Fatalf("flowers received = %d, want 1", enr.FlowersReceived)
	}

	count, err := store.CountFlowersByRecipient(ctx, "evt-1", "user-1")
	if err != nil || count != 1 {
		t.Fatalf("count flowers = %d err %v", count, err)
	}
	has, err := store.HasFlowerForSchedule(ctx, ci.ScheduleID)
	if err != nil || !has {
		t.Fatalf("has flower = %v err %v", has, err)
	}
}

func TestLeadingUniquePerSchedule(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	seedEvent(t, store, "evt-1", 3)

	rec := storage.LeadingRecord{
		ID:                "ld-1",
		ScheduleID:        "evt-1-sch-1",
		EventID:           "evt-1",
		LeaderUserID:      "leader-1",
		ReadingSuggestion: "chapters 1-2",
		CreatedAt:         day(1),
		UpdatedAt:         day(1),
	}
	if err := store.CreateLeading(ctx, rec); err != nil {
		t.Fatalf("create leading: %v", err)
	}

	dup := rec
	dup.ID = "ld-2"
	if err := store.CreateLeading(ctx, dup); !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("expected duplicate leading, got %v", err)
	}

	rec.ReadingSuggestion = "chapters 1-3"
	rec.UpdatedAt = day(2)
	if err := store.UpdateLeading(ctx, rec); err != nil {
		t.Fatalf("update leading: %v", err)
	}

	got, err := store.GetLeadingBySchedule(ctx, "evt-1-sch-1")
	if err != nil {
		t.Fatalf("get leading: %v", err)
	}
	if got.ReadingSuggestion != "chapters 1-3" {
		t.Fatalf("suggestion = %q", got.ReadingSuggestion)
	}

	has, err := store.HasLeadingForSchedule(ctx, "evt-1-sch-2")
	if err != nil || has {
		t.Fatalf("day 2 should have no leading, got %v err %v", has, err)
	}
}

func TestOutboxDispatchCycle(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		rec := storage.DomainEventRecord{
			ID:        fmt.Sprintf("de-%d", i),
			Type:      "flower.given",
			EventID:   "evt-1",
			SubjectID: fmt.Sprintf("ci-%d", i),
			ActorID:   "leader-1",
			CreatedAt: day(i),
		}
		if err := store.AppendDomainEvent(ctx, rec); err != nil {
			t.Fatalf("append domain event: %v", err)
		}
	}

	// Idempotent re-append.
	if err := store.AppendDomainEvent(ctx, storage.DomainEventRecord{ID: "de-1", Type: "flower.given", CreatedAt: day(1)}); err != nil {
		t.Fatalf("re-append: %v", err)
	}

	pending, err := store.ListPendingDomainEvents(ctx, 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 3 || pending[0].ID != "de-1" {
		t.Fatalf("pending = %+v", pending)
	}

	if err := store.MarkDomainEventDispatched(ctx, "de-1"); err != nil {
		t.Fatalf("mark dispatched: %v", err)
	}
	pending, err = store.ListPendingDomainEvents(ctx, 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != "de-2" {
		t.Fatalf("pending after dispatch = %+v", pending)
	}

	if err := store.MarkDomainEventDispatched(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStoreGuards(t *testing.T) {
	var nilStore *Store
	if err := nilStore.ClaimDailyLeader(context.Background(), "sch", "user"); err == nil {
		t.Fatal("expected error from nil store")
	}

	store := newStore(t)
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.GetEvent(cancelled, "evt-1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
