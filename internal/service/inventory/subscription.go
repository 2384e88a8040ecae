package inventory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/kirinyoku/hemolink/internal/domain"
)

// Subscription is the handle for a live inventory feed. Updates delivers a
// fresh record after every committed stock change for the venue; Cancel is
// idempotent and safe to call any number of times.
type Subscription struct {
	updates chan *domain.InventoryRecord

	cancelOnce sync.Once
	cancel     context.CancelFunc
}

// Updates returns the channel of fresh inventory records. It is closed after
// Cancel or when the subscription's context ends.
func (s *Subscription) Updates() <-chan *domain.InventoryRecord {
	return s.updates
}

// Cancel tears the subscription down. Calling it again is a no-op.
func (s *Subscription) Cancel() {
	s.cancelOnce.Do(s.cancel)
}

// Subscribe returns the current inventory snapshot plus a live handle whose
// Updates channel delivers the venue's record after each stock change. The
// feed ends when ctx is done or Cancel is called.
//
// Returns:
//   - error: inventory.ErrVenueNotFound if the venue has no inventory.
func (s *Service) Subscribe(ctx context.Context, venueID uuid.UUID) (*domain.InventoryRecord, *Subscription, error) {
	const op = "service.inventory.Subscribe"

	snapshot, err := s.Snapshot(ctx, venueID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s:%w", op, err)
	}

	subCtx, cancel := context.WithCancel(ctx)

	sub := &Subscription{
		updates: make(chan *domain.InventoryRecord, 8),
		cancel:  cancel,
	}

	go func() {
		defer close(sub.updates)

		err := s.pubsub.Subscribe(subCtx, func(ctx context.Context, changed uuid.UUID) {
			if changed != venueID {
				return
			}

			rec, err := s.store.Inventory().Get(ctx, venueID)
			if err != nil {
				s.logger.Error("inventory refresh failed",
					"venue_id", venueID,
					"error", err,
				)
				return
			}

			select {
			case sub.updates <- rec:
			default:
				// a slow consumer drops intermediate snapshots; the next
				// update carries the full current state anyway
			}
		})
		if err != nil && subCtx.Err() == nil {
			s.logger.Error("inventory subscription ended",
				"venue_id", venueID,
				"error", err,
			)
		}
	}()

	return snapshot, sub, nil
}
