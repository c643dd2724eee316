// Package service wires the domain rules, the authorization policy, and
// the storage contracts into the operations callers invoke. Every method
// takes the caller identity from the request context; nothing here reads
// ambient session state.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/hongyangchun/QQClub-sub003/internal/domain/enrollment"
	"github.com/hongyangchun/QQClub-sub003/internal/domain/event"
	"github.com/hongyangchun/QQClub-sub003/internal/domain/role"
	apperrors "github.com/hongyangchun/QQClub-sub003/internal/platform/errors"
	"github.com/hongyangchun/QQClub-sub003/internal/platform/id"
	"github.com/hongyangchun/QQClub-sub003/internal/platform/requestctx"
	"github.com/hongyangchun/QQClub-sub003/internal/storage"
)

const (
	defaultListEventsPageSize = 20
	maxListEventsPageSize     = 100
)

// Service exposes the reading event engine.
type Service struct {
	store           storage.Store
	clock           func() time.Time
	idGenerator     func() (string, error)
	minCheckInWords int
}

// Option overrides a Service dependency, mainly for tests.
type Option func(*Service)

// WithClock injects a deterministic clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator injects a deterministic ID source.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *Service) {
		if gen != nil {
			s.idGenerator = gen
		}
	}
}

// WithMinCheckInWords overrides the minimum check-in content length.
func WithMinCheckInWords(minWords int) Option {
	return func(s *Service) {
		if minWords > 0 {
			s.minCheckInWords = minWords
		}
	}
}

// New creates a Service with default dependencies.
func New(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:           store,
		clock:           time.Now,
		idGenerator:     id.NewID,
		minCheckInWords: checkInMinWordsDefault,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// caller extracts the authenticated identity or fails with a permission
// error carrying the unauthenticated reason.
func (s *Service) caller(ctx context.Context) (requestctx.Caller, error) {
	caller, ok := requestctx.CallerFromContext(ctx)
	if !ok || caller.UserID == "" {
		return requestctx.Caller{}, apperrors.WithMetadata(
			apperrors.CodePermissionDenied,
			"caller identity is required",
			map[string]string{"Reason": "unauthenticated"},
		)
	}
	return caller, nil
}

// today returns the current calendar day per the injected clock.
func (s *Service) today() time.Time {
	return s.clock().UTC()
}

// loadEvent fetches an event and converts it to its domain form.
func (s *Service) loadEvent(ctx context.Context, eventID string) (event.Event, error) {
	rec, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return event.Event{}, err
	}
	return eventFromRecord(rec), nil
}

// resolveRoles computes the caller's role set on an event, loading the
// enrollment and claimed schedule days the resolver needs.
func (s *Service) resolveRoles(ctx context.Context, caller requestctx.Caller, evt event.Event) (role.Set, error) {
	var enr *enrollment.Enrollment
	enrRec, err := s.store.GetEnrollment(ctx, evt.ID, caller.UserID)
	switch {
	case err == nil:
		e := enrollmentFromRecord(enrRec)
		enr = &e
	case errors.Is(err, storage.ErrNotFound):
		// No enrollment resolves to guest standing.
	default:
		return role.Set{}, err
	}

	schedRecs, err := s.store.ListSchedules(ctx, evt.ID)
	if err != nil {
		return role.Set{}, err
	}
	return role.Resolve(caller.UserID, caller.Admin, evt, enr, schedulesFromRecords(schedRecs)), nil
}

// findSchedule locates one schedule of an event by its row ID.
func (s *Service) findSchedule(ctx context.Context, eventID, scheduleID string) (event.Schedule, error) {
	records, err := s.store.ListSchedules(ctx, eventID)
	if err != nil {
		return event.Schedule{}, err
	}
	for _, rec := range records {
		if rec.ID == scheduleID {
			return scheduleFromRecord(rec), nil
		}
	}
	return event.Schedule{}, storage.ErrNotFound
}

// emit appends a domain event to the outbox. Notification delivery is a
// collaborator concern; append failures are logged and never roll back the
// mutation that produced them.
func (s *Service) emit(ctx context.Context, eventType, eventID, subjectID, actorID string) {
	recordID, err := s.idGenerator()
	if err != nil {
		log.Printf("event=outbox_emit_failed type=%s event_id=%s error=%q", eventType, eventID, err)
		return
	}
	rec := storage.DomainEventRecord{
		ID:        recordID,
		Type:      eventType,
		EventID:   eventID,
		SubjectID: subjectID,
		ActorID:   actorID,
		CreatedAt: s.clock().UTC(),
	}
	if err := s.store.AppendDomainEvent(ctx, rec); err != nil {
		log.Printf("event=outbox_emit_failed type=%s event_id=%s error=%q", eventType, eventID, err)
	}
}
