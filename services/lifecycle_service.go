package services

import (
	"context"
	"log"
	"time"

	"baequest_server/models"
)

// LifecycleService drives the two time-based eviction mechanisms: the
// per-event expiry sweep and the daily blanket auto-checkout. Both share the
// presence registry but trigger and scope independently.
type LifecycleService struct {
	Gatherings GatheringStore
	Presence   PresenceRegistry
	Broadcast  Broadcaster

	// SweepWindow is how far back each sweep pass looks for just-expired
	// events; set it to the sweep interval so each endTime is seen once.
	SweepWindow time.Duration
	Now         func() time.Time
}

func (ls *LifecycleService) now() time.Time {
	if ls.Now != nil {
		return ls.Now()
	}
	return time.Now()
}

type expiredPayload struct {
	GatheringID string `json:"gatheringId"`
}

type forceCheckoutPayload struct {
	Message     string `json:"message"`
	GatheringID string `json:"gatheringId"`
}

// SweepExpired finds events whose window closed during the last sweep
// interval and evicts everyone still present. Eviction is per user and
// conditional, so a check-in racing the sweep is never clobbered.
func (ls *LifecycleService) SweepExpired(ctx context.Context) error {
	now := ls.now()
	expired, err := ls.Gatherings.ListEndedBetween(ctx, now.Add(-ls.SweepWindow), now)
	if err != nil {
		return err
	}

	for _, event := range expired {
		log.Printf("Event expired: %s (%s)", event.Name, event.ID)
		ls.Broadcast.ToAll(models.SocketEventExpired, expiredPayload{GatheringID: event.ID})

		present, err := ls.Presence.ListPresent(ctx, event.ID, "")
		if err != nil {
			log.Printf("Failed to list users at expired event %s: %v", event.ID, err)
			continue
		}

		for _, userID := range present {
			evicted, err := ls.Presence.ForceCheckOut(ctx, userID, event.ID)
			if err != nil {
				log.Printf("Failed to force-checkout user %s from event %s: %v", userID, event.ID, err)
				continue
			}
			if evicted {
				ls.Broadcast.ToRoom(event.Room(), models.SocketForceCheckout, forceCheckoutPayload{
					Message:     "This event has ended",
					GatheringID: event.ID,
				})
			}
		}
	}
	return nil
}

// AutoCheckoutAll is the daily "everyone goes home" reset: every presence
// record nulled and every gathering's present set emptied, regardless of
// individual event windows.
func (ls *LifecycleService) AutoCheckoutAll(ctx context.Context) error {
	cleared, err := ls.Presence.ClearAllRecords(ctx)
	if err != nil {
		return err
	}
	if err := ls.Gatherings.ClearAllPresence(ctx); err != nil {
		return err
	}
	log.Printf("✅ Daily auto-checkout cleared %d presence records", cleared)
	return nil
}
