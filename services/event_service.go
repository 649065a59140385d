package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"baequest_server/models"
	"baequest_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// GatheringStore is the persistence surface the check-in and lifecycle
// services need for gatherings themselves.
type GatheringStore interface {
	GetGathering(ctx context.Context, gatheringID string) (*models.Gathering, error)
	// EnsurePlace creates a place gathering on first check-in; subsequent
	// calls return the existing one.
	EnsurePlace(ctx context.Context, placeID, name, address string) (*models.Gathering, error)
	// ToggleGoing flips the user's membership in an event's interested set
	// and returns the new state plus the going count.
	ToggleGoing(ctx context.Context, eventID, userID string) (bool, int, error)
	// ListEndedBetween returns events whose end time fell in (from, to].
	ListEndedBetween(ctx context.Context, from, to time.Time) ([]models.Gathering, error)
	// ClearAllPresence empties every gathering's present set.
	ClearAllPresence(ctx context.Context) error
}

type EventService struct {
	Dynamo *DynamoService
	Now    func() time.Time
}

func (es *EventService) now() time.Time {
	if es.Now != nil {
		return es.Now()
	}
	return time.Now()
}

// CreateEventInput carries the fields accepted on event creation.
type CreateEventInput struct {
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	StartTime   int64   `json:"startTime"`
	EndTime     int64   `json:"endTime"`
}

// CreateEvent validates the time window and persists a new curated event.
func (es *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (*models.Gathering, error) {
	if in.EndTime <= in.StartTime {
		return nil, ErrInvalidWindow
	}

	gathering := models.Gathering{
		ID:          uuid.NewString(),
		Kind:        models.GatheringKindEvent,
		Name:        in.Name,
		Address:     in.Address,
		City:        in.City,
		State:       in.State,
		Description: in.Description,
		Lat:         in.Lat,
		Lng:         in.Lng,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		CreatedAt:   es.now().Unix(),
	}

	if err := es.Dynamo.PutItem(ctx, models.GatheringsTable, gathering); err != nil {
		return nil, err
	}
	return &gathering, nil
}

// GetGathering implements GatheringStore.
func (es *EventService) GetGathering(ctx context.Context, gatheringID string) (*models.Gathering, error) {
	item, err := es.Dynamo.GetItem(ctx, models.GatheringsTable, gatheringKey(gatheringID))
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrGatheringNotFound
		}
		return nil, err
	}

	var gathering models.Gathering
	if err := attributevalue.UnmarshalMap(item, &gathering); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gathering: %w", err)
	}
	return &gathering, nil
}

// EnsurePlace implements GatheringStore.
func (es *EventService) EnsurePlace(ctx context.Context, placeID, name, address string) (*models.Gathering, error) {
	place := models.Gathering{
		ID:        placeID,
		Kind:      models.GatheringKindPlace,
		Name:      name,
		Address:   address,
		CreatedAt: es.now().Unix(),
	}

	err := es.Dynamo.PutItemWithCondition(ctx, models.GatheringsTable, place,
		"attribute_not_exists(gatheringId)", nil)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return es.GetGathering(ctx, placeID)
		}
		return nil, err
	}
	return &place, nil
}

// ToggleGoing implements GatheringStore.
func (es *EventService) ToggleGoing(ctx context.Context, eventID, userID string) (bool, int, error) {
	gathering, err := es.GetGathering(ctx, eventID)
	if err != nil {
		return false, 0, err
	}
	if !gathering.IsEvent() {
		return false, 0, ErrNotAnEvent
	}

	going := false
	for _, id := range gathering.UsersGoing {
		if id == userID {
			going = true
			break
		}
	}

	expr := "ADD usersGoing :u"
	if going {
		expr = "DELETE usersGoing :u"
	}
	values := map[string]types.AttributeValue{
		":u": &types.AttributeValueMemberSS{Value: []string{userID}},
	}
	updated, err := es.Dynamo.UpdateItemWithCondition(ctx, models.GatheringsTable,
		expr, gatheringKey(eventID), values, nil, "attribute_exists(gatheringId)")
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return false, 0, ErrGatheringNotFound
		}
		return false, 0, err
	}

	count := len(utils.ExtractStringSet(updated, "usersGoing"))
	return !going, count, nil
}

// ListActiveEvents returns events that have not yet ended, decorated with
// the per-viewer counts the frontend renders.
func (es *EventService) ListActiveEvents(ctx context.Context, viewerID string) ([]models.EventSummary, error) {
	now := es.now().Unix()

	var gatherings []models.Gathering
	err := es.Dynamo.ScanWithFilter(ctx, models.GatheringsTable, func(item map[string]types.AttributeValue) bool {
		return utils.ExtractString(item, "kind") == models.GatheringKindEvent &&
			utils.ExtractNumber(item, "endTime") > now
	}, &gatherings)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.EventSummary, 0, len(gatherings))
	for _, g := range gatherings {
		summary := models.EventSummary{
			Gathering:      g,
			GoingCount:     len(g.UsersGoing),
			CheckedInCount: len(g.CheckedInUsers),
		}
		for _, id := range g.UsersGoing {
			if id == viewerID {
				summary.IsUserGoing = true
				break
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// ListNearbyEvents returns currently-active events within radiusKm of the
// given point.
func (es *EventService) ListNearbyEvents(ctx context.Context, lat, lng, radiusKm float64) ([]models.Gathering, error) {
	now := es.now().Unix()

	var gatherings []models.Gathering
	err := es.Dynamo.ScanWithFilter(ctx, models.GatheringsTable, func(item map[string]types.AttributeValue) bool {
		return utils.ExtractString(item, "kind") == models.GatheringKindEvent &&
			utils.ExtractNumber(item, "startTime") <= now &&
			utils.ExtractNumber(item, "endTime") >= now
	}, &gatherings)
	if err != nil {
		return nil, err
	}

	nearby := make([]models.Gathering, 0, len(gatherings))
	for _, g := range gatherings {
		if utils.CalculateDistance(lat, lng, g.Lat, g.Lng) <= radiusKm {
			nearby = append(nearby, g)
		}
	}
	return nearby, nil
}

// ListEndedBetween implements GatheringStore.
func (es *EventService) ListEndedBetween(ctx context.Context, from, to time.Time) ([]models.Gathering, error) {
	var ended []models.Gathering
	err := es.Dynamo.ScanWithFilter(ctx, models.GatheringsTable, func(item map[string]types.AttributeValue) bool {
		endTime := utils.ExtractNumber(item, "endTime")
		return utils.ExtractString(item, "kind") == models.GatheringKindEvent &&
			endTime > from.Unix() && endTime <= to.Unix()
	}, &ended)
	if err != nil {
		return nil, err
	}
	return ended, nil
}

// ClearAllPresence implements GatheringStore.
func (es *EventService) ClearAllPresence(ctx context.Context) error {
	var occupied []models.Gathering
	err := es.Dynamo.ScanWithFilter(ctx, models.GatheringsTable, func(item map[string]types.AttributeValue) bool {
		return len(utils.ExtractStringSet(item, "checkedInUsers")) > 0
	}, &occupied)
	if err != nil {
		return err
	}

	for _, g := range occupied {
		_, err := es.Dynamo.UpdateItem(ctx, models.GatheringsTable,
			"REMOVE checkedInUsers", gatheringKey(g.ID), nil, nil)
		if err != nil {
			return err
		}
	}
	return nil
}
