package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"baequest_server/models"
	"baequest_server/utils"
)

// CheckinResult is what a check-in attempt produces. TooFar marks the soft
// geofence rejection: the caller still gets the gathering and a human
// message, and the HTTP layer maps it to a success status.
type CheckinResult struct {
	TooFar    bool                    `json:"-"`
	Message   string                  `json:"message,omitempty"`
	Gathering *models.Gathering       `json:"gathering,omitempty"`
	Record    *models.PresenceRecord  `json:"presenceRecord,omitempty"`
	Users     []models.CompatibleUser `json:"compatibleUsers,omitempty"`
}

// GoingResult is the outcome of an interest toggle.
type GoingResult struct {
	IsGoing    bool `json:"isGoing"`
	GoingCount int  `json:"goingCount"`
}

// CheckinService orchestrates check-ins, check-outs, and interest toggles
// across the gathering store, presence registry, compatibility filter, and
// broadcaster. SMS and feedback email run on the background worker and never
// block or fail the request that triggered them.
type CheckinService struct {
	Gatherings GatheringStore
	Presence   PresenceRegistry
	Profiles   ProfileDirectory
	Feedback   FeedbackCreator
	Broadcast  Broadcaster
	Notifier   Notifier
	Tasks      *Background

	// CheckinRadiusKm is the geofence radius for events (1 mile by default).
	CheckinRadiusKm float64
	Now             func() time.Time
}

func (cs *CheckinService) now() time.Time {
	if cs.Now != nil {
		return cs.Now()
	}
	return time.Now()
}

type checkedInPayload struct {
	User        *models.PresenceRecord `json:"user"`
	GatheringID string                 `json:"gatheringId"`
}

type checkedOutPayload struct {
	UserID      string `json:"userId"`
	GatheringID string `json:"gatheringId"`
}

type goingPayload struct {
	GatheringID string `json:"gatheringId"`
	Count       int    `json:"count"`
	UserID      string `json:"userId"`
}

// CheckInEvent handles an event check-in: geofence, registry mutation,
// compatible list, broadcast, and async SMS to compatible attendees.
func (cs *CheckinService) CheckInEvent(ctx context.Context, userID, eventID string, lat, lng float64) (*CheckinResult, error) {
	viewer, err := cs.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	gathering, err := cs.Gatherings.GetGathering(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if gathering.Ended(cs.now()) {
		return nil, ErrEventEnded
	}

	distance := utils.CalculateDistance(lat, lng, gathering.Lat, gathering.Lng)
	if distance > cs.CheckinRadiusKm {
		return &CheckinResult{
			TooFar:    true,
			Gathering: gathering,
			Message: fmt.Sprintf("You are %.1f miles away from %s. Check-in requires being within 1 mile.",
				utils.KilometersToMiles(distance), gathering.Name),
		}, nil
	}

	record, err := cs.Presence.CheckIn(ctx, models.PresenceRecord{
		UserID:      userID,
		GatheringID: eventID,
		Lat:         lat,
		Lng:         lng,
	})
	if err != nil {
		return nil, err
	}

	users, err := cs.compatibleUsers(ctx, viewer, eventID)
	if err != nil {
		return nil, err
	}

	cs.Broadcast.ToRoom(gathering.Room(), models.SocketUserCheckedIn, checkedInPayload{
		User:        record,
		GatheringID: eventID,
	})
	cs.notifyCheckin(viewer, gathering, users)

	return &CheckinResult{Gathering: gathering, Record: record, Users: users}, nil
}

// CheckInPlace handles an untimed place check-in. Places have no geofence
// and are created on first check-in.
func (cs *CheckinService) CheckInPlace(ctx context.Context, userID, placeID, placeName, placeAddress string) (*CheckinResult, error) {
	viewer, err := cs.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	gathering, err := cs.Gatherings.EnsurePlace(ctx, placeID, placeName, placeAddress)
	if err != nil {
		return nil, err
	}

	record, err := cs.Presence.CheckIn(ctx, models.PresenceRecord{
		UserID:       userID,
		GatheringID:  placeID,
		PlaceName:    placeName,
		PlaceAddress: placeAddress,
	})
	if err != nil {
		return nil, err
	}

	users, err := cs.compatibleUsers(ctx, viewer, placeID)
	if err != nil {
		return nil, err
	}

	cs.Broadcast.ToRoom(gathering.Room(), models.SocketUserCheckedIn, checkedInPayload{
		User:        record,
		GatheringID: placeID,
	})
	cs.notifyCheckin(viewer, gathering, users)

	return &CheckinResult{Gathering: gathering, Record: record, Users: users}, nil
}

// CheckOut removes the user's presence and kicks off the feedback request.
func (cs *CheckinService) CheckOut(ctx context.Context, userID, gatheringID string) error {
	gathering, err := cs.Gatherings.GetGathering(ctx, gatheringID)
	if err != nil {
		return err
	}

	if err := cs.Presence.CheckOut(ctx, userID, gatheringID); err != nil {
		return err
	}

	cs.Broadcast.ToRoom(gathering.Room(), models.SocketUserCheckedOut, checkedOutPayload{
		UserID:      userID,
		GatheringID: gatheringID,
	})

	cs.Tasks.Go("feedback-request", func() error {
		return cs.Feedback.RequestFeedback(context.Background(), userID, gathering)
	})
	return nil
}

// ToggleGoing flips interest in an event and broadcasts the new count to
// everyone, not just the room — "going" is visible before arrival.
func (cs *CheckinService) ToggleGoing(ctx context.Context, userID, eventID string) (*GoingResult, error) {
	isGoing, count, err := cs.Gatherings.ToggleGoing(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	cs.Broadcast.ToAll(models.SocketEventGoingUpdated, goingPayload{
		GatheringID: eventID,
		Count:       count,
		UserID:      userID,
	})
	return &GoingResult{IsGoing: isGoing, GoingCount: count}, nil
}

// ListCompatible returns the compatible present users for a viewer.
func (cs *CheckinService) ListCompatible(ctx context.Context, userID, gatheringID string) ([]models.CompatibleUser, error) {
	viewer, err := cs.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := cs.Gatherings.GetGathering(ctx, gatheringID); err != nil {
		return nil, err
	}
	return cs.compatibleUsers(ctx, viewer, gatheringID)
}

func (cs *CheckinService) compatibleUsers(ctx context.Context, viewer *models.UserProfile, gatheringID string) ([]models.CompatibleUser, error) {
	presentIDs, err := cs.Presence.ListPresent(ctx, gatheringID, viewer.UserID)
	if err != nil {
		return nil, err
	}
	profiles, err := cs.Profiles.GetProfilesByIDs(ctx, presentIDs)
	if err != nil {
		return nil, err
	}
	return FilterCompatible(viewer, profiles), nil
}

// notifyCheckin texts the compatible attendees who have a phone number on
// file. Fire and forget: the response never waits on SNS.
func (cs *CheckinService) notifyCheckin(viewer *models.UserProfile, gathering *models.Gathering, users []models.CompatibleUser) {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.UserID)
	}
	if len(ids) == 0 {
		return
	}

	cs.Tasks.Go("checkin-sms", func() error {
		profiles, err := cs.Profiles.GetProfilesByIDs(context.Background(), ids)
		if err != nil {
			return err
		}
		for _, p := range profiles {
			if p.PhoneNumber == "" {
				continue
			}
			if err := cs.Notifier.CheckinSMS(context.Background(), p.PhoneNumber, viewer.Name, gathering.Name); err != nil {
				log.Printf("Failed to send check-in SMS to user %s: %v", p.UserID, err)
			}
		}
		return nil
	})
}
