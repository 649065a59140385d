package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"baequest_server/models"
	"baequest_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// PresenceRegistry owns who is checked in where. Implementations must make
// the membership add/remove atomic with respect to concurrent requests
// against the same gathering.
type PresenceRegistry interface {
	// CheckIn records the user at rec.GatheringID, removing any previous
	// membership elsewhere first. Idempotent for repeat check-ins at the
	// same gathering. Fails with ErrGatheringNotFound for unknown gatherings.
	CheckIn(ctx context.Context, rec models.PresenceRecord) (*models.PresenceRecord, error)
	// CheckOut removes the user from the gathering and clears their record.
	// Not an error when the user was never present.
	CheckOut(ctx context.Context, userID, gatheringID string) error
	// ListPresent returns the present user ids, excluding excludeUserID.
	ListPresent(ctx context.Context, gatheringID, excludeUserID string) ([]string, error)
	CountPresent(ctx context.Context, gatheringID string) (int, error)
	// ForceCheckOut clears the user's record only if it still references the
	// gathering, so a record legitimately re-created mid-sweep survives.
	// Returns whether the user was actually evicted.
	ForceCheckOut(ctx context.Context, userID, gatheringID string) (bool, error)
	// ClearAllRecords nulls every live presence record (daily auto-checkout).
	ClearAllRecords(ctx context.Context) (int, error)
}

// PresenceService is the DynamoDB-backed registry. Gathering membership is a
// string set mutated with single ADD/DELETE updates, which is what makes
// concurrent check-ins against the same gathering safe.
type PresenceService struct {
	Dynamo *DynamoService
	Now    func() time.Time
}

func (ps *PresenceService) now() time.Time {
	if ps.Now != nil {
		return ps.Now()
	}
	return time.Now()
}

func recordKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}

func gatheringKey(gatheringID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"gatheringId": &types.AttributeValueMemberS{Value: gatheringID},
	}
}

// CheckIn implements PresenceRegistry.
func (ps *PresenceService) CheckIn(ctx context.Context, rec models.PresenceRecord) (*models.PresenceRecord, error) {
	// Validate the gathering and join its set in one atomic update. ADD on a
	// string set is idempotent, so a repeat check-in cannot duplicate the user.
	err := ps.addToSet(ctx, rec.GatheringID, rec.UserID)
	if err != nil {
		return nil, err
	}

	// At-most-one-location: leave the previous gathering, if any.
	if old, err := ps.getRecord(ctx, rec.UserID); err == nil {
		if old.CheckedIn() && old.GatheringID != rec.GatheringID {
			if err := ps.removeFromSet(ctx, old.GatheringID, rec.UserID); err != nil {
				return nil, err
			}
		}
	} else if !errors.Is(err, ErrItemNotFound) {
		return nil, err
	}

	rec.UpdatedAt = ps.now().Unix()
	if err := ps.Dynamo.PutItem(ctx, models.PresenceRecordsTable, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// CheckOut implements PresenceRegistry.
func (ps *PresenceService) CheckOut(ctx context.Context, userID, gatheringID string) error {
	if err := ps.removeFromSet(ctx, gatheringID, userID); err != nil {
		return err
	}
	return ps.clearRecord(ctx, userID, "")
}

// ForceCheckOut implements PresenceRegistry.
func (ps *PresenceService) ForceCheckOut(ctx context.Context, userID, gatheringID string) (bool, error) {
	if err := ps.clearRecord(ctx, userID, gatheringID); err != nil {
		if IsConditionalCheckFailed(err) {
			// The user already moved on; nothing to evict.
			return false, nil
		}
		return false, err
	}
	if err := ps.removeFromSet(ctx, gatheringID, userID); err != nil {
		return false, err
	}
	return true, nil
}

// ListPresent implements PresenceRegistry.
func (ps *PresenceService) ListPresent(ctx context.Context, gatheringID, excludeUserID string) ([]string, error) {
	item, err := ps.Dynamo.GetItem(ctx, models.GatheringsTable, gatheringKey(gatheringID))
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrGatheringNotFound
		}
		return nil, err
	}

	members := utils.ExtractStringSet(item, "checkedInUsers")
	present := make([]string, 0, len(members))
	for _, id := range members {
		if id == excludeUserID {
			continue
		}
		present = append(present, id)
	}
	return present, nil
}

// CountPresent implements PresenceRegistry.
func (ps *PresenceService) CountPresent(ctx context.Context, gatheringID string) (int, error) {
	present, err := ps.ListPresent(ctx, gatheringID, "")
	if err != nil {
		return 0, err
	}
	return len(present), nil
}

// ClearAllRecords implements PresenceRegistry.
func (ps *PresenceService) ClearAllRecords(ctx context.Context) (int, error) {
	var live []models.PresenceRecord
	err := ps.Dynamo.ScanWithFilter(ctx, models.PresenceRecordsTable, func(item map[string]types.AttributeValue) bool {
		return utils.ExtractString(item, "gatheringId") != ""
	}, &live)
	if err != nil {
		return 0, err
	}
	if len(live) == 0 {
		return 0, nil
	}

	now := ps.now().Unix()
	writes := make([]types.WriteRequest, 0, len(live))
	for _, rec := range live {
		cleared := rec
		cleared.GatheringID = ""
		cleared.PlaceName = ""
		cleared.PlaceAddress = ""
		cleared.UpdatedAt = now
		item, err := attributevalue.MarshalMap(cleared)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal presence record: %w", err)
		}
		writes = append(writes, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
	}

	if err := ps.Dynamo.BatchWriteItems(ctx, models.PresenceRecordsTable, writes); err != nil {
		return 0, err
	}
	return len(live), nil
}

func (ps *PresenceService) getRecord(ctx context.Context, userID string) (*models.PresenceRecord, error) {
	item, err := ps.Dynamo.GetItem(ctx, models.PresenceRecordsTable, recordKey(userID))
	if err != nil {
		return nil, err
	}
	var rec models.PresenceRecord
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal presence record: %w", err)
	}
	return &rec, nil
}

// clearRecord removes the gathering reference from a record, keeping the last
// coordinate. With requireGatheringID set, the update is conditional on the
// record still referencing that gathering.
func (ps *PresenceService) clearRecord(ctx context.Context, userID, requireGatheringID string) error {
	update := "REMOVE gatheringId, placeName, placeAddress SET updatedAt = :t"
	values := map[string]types.AttributeValue{
		":t": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", ps.now().Unix())},
	}
	condition := "attribute_exists(userId)"
	if requireGatheringID != "" {
		condition = "gatheringId = :g"
		values[":g"] = &types.AttributeValueMemberS{Value: requireGatheringID}
	}

	_, err := ps.Dynamo.UpdateItemWithCondition(ctx, models.PresenceRecordsTable, update, recordKey(userID), values, nil, condition)
	if err != nil {
		if requireGatheringID == "" && IsConditionalCheckFailed(err) {
			// No record at all: checkout of an absent user is a no-op.
			return nil
		}
		return err
	}
	return nil
}

func (ps *PresenceService) addToSet(ctx context.Context, gatheringID, userID string) error {
	values := map[string]types.AttributeValue{
		":u": &types.AttributeValueMemberSS{Value: []string{userID}},
	}
	_, err := ps.Dynamo.UpdateItemWithCondition(ctx, models.GatheringsTable,
		"ADD checkedInUsers :u", gatheringKey(gatheringID), values, nil,
		"attribute_exists(gatheringId)")
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return ErrGatheringNotFound
		}
		return err
	}
	return nil
}

func (ps *PresenceService) removeFromSet(ctx context.Context, gatheringID, userID string) error {
	values := map[string]types.AttributeValue{
		":u": &types.AttributeValueMemberSS{Value: []string{userID}},
	}
	_, err := ps.Dynamo.UpdateItemWithCondition(ctx, models.GatheringsTable,
		"DELETE checkedInUsers :u", gatheringKey(gatheringID), values, nil,
		"attribute_exists(gatheringId)")
	if err != nil {
		if IsConditionalCheckFailed(err) {
			// Gathering vanished; membership is gone either way.
			log.Printf("Gathering %s missing while removing user %s", gatheringID, userID)
			return nil
		}
		return err
	}
	return nil
}
