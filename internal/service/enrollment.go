package service

import (
	"context"

	"github.com/hongyangchun/QQClub-sub003/internal/domain/enrollment"
)

// Enroll joins the caller into an open event as a participant or observer.
// The (user, event) uniqueness constraint turns a second enrollment into a
// duplicate error.
func (s *Service) Enroll(ctx context.Context, eventID string, enrollmentType enrollment.Type) (enrollment.Enrollment, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return enrollment.Enrollment{}, err
	}
	evt, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return enrollment.Enrollment{}, err
	}

	participantCount, err := s.store.CountActiveParticipants(ctx, eventID)
	if err != nil {
		return enrollment.Enrollment{}, err
	}

	enr, err := enrollment.Enroll(evt, caller.UserID, enrollmentType, participantCount, s.clock, s.idGenerator)
	if err != nil {
		return enrollment.Enrollment{}, err
	}
	if err := s.store.CreateEnrollment(ctx, enrollmentToRecord(enr)); err != nil {
		return enrollment.Enrollment{}, err
	}

	s.emit(ctx, DomainEventEnrollmentCreated, eventID, enr.ID, caller.UserID)
	return enr, nil
}

// Withdraw deactivates the caller's enrollment.
func (s *Service) Withdraw(ctx context.Context, eventID string) (enrollment.Enrollment, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return enrollment.Enrollment{}, err
	}

	rec, err := s.store.GetEnrollment(ctx, eventID, caller.UserID)
	if err != nil {
		return enrollment.Enrollment{}, err
	}
	withdrawn, err := enrollment.Withdraw(enrollmentFromRecord(rec), s.clock)
	if err != nil {
		return enrollment.Enrollment{}, err
	}
	if err := s.store.UpdateEnrollment(ctx, enrollmentToRecord(withdrawn)); err != nil {
		return enrollment.Enrollment{}, err
	}

	s.emit(ctx, DomainEventWithdrawn, eventID, withdrawn.ID, caller.UserID)
	return withdrawn, nil
}
