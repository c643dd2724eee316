package service

import (
	"github.com/hongyangchun/QQClub-sub003/internal/domain/checkin"
	"github.com/hongyangchun/QQClub-sub003/internal/domain/enrollment"
	"github.com/hongyangchun/QQClub-sub003/internal/domain/event"
	"github.com/hongyangchun/QQClub-sub003/internal/domain/flower"
	"github.com/hongyangchun/QQClub-sub003/internal/domain/leading"
	"github.com/hongyangchun/QQClub-sub003/internal/storage"
)

func eventToRecord(evt event.Event) storage.EventRecord {
	return storage.EventRecord{
		ID:              evt.ID,
		Title:           evt.Title,
		BookRef:         evt.BookRef,
		StartDate:       evt.StartDate,
		EndDate:         evt.EndDate,
		DaysCount:       evt.DaysCount,
		MinParticipants: evt.MinParticipants,
		MaxParticipants: evt.MaxParticipants,
		FeeTerms:        evt.FeeTerms,
		Status:          evt.Status,
		Approval:        evt.Approval,
		Assignment:      evt.Assignment,
		LeaderUserID:    evt.LeaderUserID,
		ApproverUserID:  evt.ApproverUserID,
		RejectionReason: evt.RejectionReason,
		ApprovedAt:      evt.ApprovedAt,
		Version:         evt.Version,
		CreatedAt:       evt.CreatedAt,
		UpdatedAt:       evt.UpdatedAt,
	}
}

func eventFromRecord(rec storage.EventRecord) event.Event {
	return event.Event{
		ID:              rec.ID,
		Title:           rec.Title,
		BookRef:         rec.BookRef,
		StartDate:       rec.StartDate,
		EndDate:         rec.EndDate,
		DaysCount:       rec.DaysCount,
		MinParticipants: rec.MinParticipants,
		MaxParticipants: rec.MaxParticipants,
		FeeTerms:        rec.FeeTerms,
		Status:          rec.Status,
		Approval:        rec.Approval,
		Assignment:      rec.Assignment,
		LeaderUserID:    rec.LeaderUserID,
		ApproverUserID:  rec.ApproverUserID,
		RejectionReason: rec.RejectionReason,
		ApprovedAt:      rec.ApprovedAt,
		Version:         rec.Version,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
}

func scheduleToRecord(sched event.Schedule) storage.ScheduleRecord {
	return storage.ScheduleRecord{
		ID:                sched.ID,
		EventID:           sched.EventID,
		DayNumber:         sched.DayNumber,
		Date:              sched.Date,
		ReadingProgress:   sched.ReadingProgress,
		DailyLeaderUserID: sched.DailyLeaderUserID,
	}
}

func scheduleFromRecord(rec storage.ScheduleRecord) event.Schedule {
	return event.Schedule{
		ID:                rec.ID,
		EventID:           rec.EventID,
		DayNumber:         rec.DayNumber,
		Date:              rec.Date,
		ReadingProgress:   rec.ReadingProgress,
		DailyLeaderUserID: rec.DailyLeaderUserID,
	}
}

func schedulesToRecords(schedules []event.Schedule) []storage.ScheduleRecord {
	records := make([]storage.ScheduleRecord, 0, len(schedules))
	for _, sched := range schedules {
		records = append(records, scheduleToRecord(sched))
	}
	return records
}

func schedulesFromRecords(records []storage.ScheduleRecord) []event.Schedule {
	schedules := make([]event.Schedule, 0, len(records))
	for _, rec := range records {
		schedules = append(schedules, scheduleFromRecord(rec))
	}
	return schedules
}

func enrollmentToRecord(enr enrollment.Enrollment) storage.EnrollmentRecord {
	return storage.EnrollmentRecord{
		ID:              enr.ID,
		UserID:          enr.UserID,
		EventID:         enr.EventID,
		Type:            enr.Type,
		Status:          enr.Status,
		EnrolledAt:      enr.EnrolledAt,
		CheckInsCount:   enr.CheckInsCount,
		FlowersReceived: enr.FlowersReceived,
		UpdatedAt:       enr.UpdatedAt,
	}
}

func enrollmentFromRecord(rec storage.EnrollmentRecord) enrollment.Enrollment {
	return enrollment.Enrollment{
		ID:              rec.ID,
		UserID:          rec.UserID,
		EventID:         rec.EventID,
		Type:            rec.Type,
		Status:          rec.Status,
		EnrolledAt:      rec.EnrolledAt,
		CheckInsCount:   rec.CheckInsCount,
		FlowersReceived: rec.FlowersReceived,
		UpdatedAt:       rec.UpdatedAt,
	}
}

func checkInToRecord(c checkin.CheckIn, eventID string) storage.CheckInRecord {
	return storage.CheckInRecord{
		ID:           c.ID,
		UserID:       c.UserID,
		ScheduleID:   c.ScheduleID,
		EventID:      eventID,
		EnrollmentID: c.EnrollmentID,
		Content:      c.Content,
		WordCount:    c.WordCount,
		HasFlower:    c.HasFlower,
		SubmittedAt:  c.SubmittedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func checkInFromRecord(rec storage.CheckInRecord) checkin.CheckIn {
	return checkin.CheckIn{
		ID:           rec.ID,
		UserID:       rec.UserID,
		ScheduleID:   rec.ScheduleID,
		EnrollmentID: rec.EnrollmentID,
		Content:      rec.Content,
		WordCount:    rec.WordCount,
		HasFlower:    rec.HasFlower,
		SubmittedAt:  rec.SubmittedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

func flowerToRecord(f flower.Flower, eventID string) storage.FlowerRecord {
	return storage.FlowerRecord{
		ID:              f.ID,
		CheckInID:       f.CheckInID,
		GiverUserID:     f.GiverUserID,
		RecipientUserID: f.RecipientUserID,
		ScheduleID:      f.ScheduleID,
		EventID:         eventID,
		Comment:         f.Comment,
		CreatedAt:       f.CreatedAt,
	}
}

func leadingToRecord(l leading.Leading, eventID string) storage.LeadingRecord {
	return storage.LeadingRecord{
		ID:                l.ID,
		ScheduleID:        l.ScheduleID,
		EventID:           eventID,
		LeaderUserID:      l.LeaderUserID,
		ReadingSuggestion: l.ReadingSuggestion,
		Questions:         l.Questions,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

func leadingFromRecord(rec storage.LeadingRecord) leading.Leading {
	return leading.Leading{
		ID:                rec.ID,
		ScheduleID:        rec.ScheduleID,
		LeaderUserID:      rec.LeaderUserID,
		ReadingSuggestion: rec.ReadingSuggestion,
		Questions:         rec.Questions,
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}
}
