package progress

import (
	"testing"
	"time"

	"github.com/hongyangchun/QQClub-sub003/internal/domain/event"
)

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		days      int
		want      float64
	}{
		{"none", 0, 7, 0},
		{"half", 3, 6, 0.5},
		{"all", 7, 7, 1},
		{"capped above one", 9, 7, 1},
		{"zero days", 3, 0, 0},
		{"negative count", -1, 7, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompletionRate(tt.completed, tt.days); got != tt.want {
				t.Fatalf("rate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSchedulesNeedingBackup(t *testing.T) {
	day := func(n int) time.Time {
		return time.Date(2026, 4, 9+n, 0, 0, 0, 0, time.UTC)
	}
	schedules := []event.Schedule{
		{ID: "sch-1", DayNumber: 1, Date: day(1)},
		{ID: "sch-2", DayNumber: 2, Date: day(2)},
		{ID: "sch-3", DayNumber: 3, Date: day(3)},
		{ID: "sch-4", DayNumber: 4, Date: day(4)},
	}
	facts := map[string]DayFacts{
		"sch-1": {HasLeading: true, HasFlower: true},
		"sch-2": {HasLeading: true},
		"sch-3": {},
	}

	// Today is day 3: day 4 is in the future, day 1 is fully covered.
	needs := SchedulesNeedingBackup(schedules, facts, day(3))
	if len(needs) != 2 {
		t.Fatalf("needs = %d, want 2", len(needs))
	}

	if needs[0].Schedule.ID != "sch-2" || needs[0].MissingContent || !needs[0].MissingFlowers {
		t.Fatalf("day 2 need = %+v", needs[0])
	}
	if !needs[0].Urgent {
		t.Fatal("day 2 is behind schedule, should be urgent")
	}

	if needs[1].Schedule.ID != "sch-3" || !needs[1].MissingContent || !needs[1].MissingFlowers {
		t.Fatalf("day 3 need = %+v", needs[1])
	}
	if needs[1].Urgent {
		t.Fatal("day 3 is today, not yet urgent")
	}
}

func TestSchedulesNeedingBackupEmpty(t *testing.T) {
	if needs := SchedulesNeedingBackup(nil, nil, time.Now()); needs != nil {
		t.Fatalf("expected no needs, got %v", needs)
	}
}
