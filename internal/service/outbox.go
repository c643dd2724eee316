package service

import (
	"context"
	"log"

	"github.com/hongyangchun/QQClub-sub003/internal/storage"
)

// Dispatcher delivers one domain event to the notification collaborator.
type Dispatcher func(ctx context.Context, rec storage.DomainEventRecord) error

// DispatchPending delivers undispatched domain events oldest first and
// returns how many were delivered. A failing record stops the pass; it
// stays pending and retries on the next one.
func (s *Service) DispatchPending(ctx context.Context, dispatch Dispatcher, limit int) (int, error) {
	if dispatch == nil {
		return 0, nil
	}

	pending, err := s.store.ListPendingDomainEvents(ctx, limit)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, rec := range pending {
		if err := dispatch(ctx, rec); err != nil {
			log.Printf("event=outbox_dispatch_failed type=%s id=%s error=%q", rec.Type, rec.ID, err)
			return delivered, err
		}
		if err := s.store.MarkDomainEventDispatched(ctx, rec.ID); err != nil {
			return delivered, err
		}
		delivered++
	}
	return delivered, nil
}
