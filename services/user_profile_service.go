package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"baequest_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ProfileDirectory is the read side of the profile store the matching core
// consumes: who is this user, and who are these users.
type ProfileDirectory interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	GetProfilesByIDs(ctx context.Context, userIDs []string) ([]models.UserProfile, error)
}

type UserProfileService struct {
	Dynamo *DynamoService
}

// AddUserProfile adds a new user profile to DynamoDB
func (ups *UserProfileService) AddUserProfile(ctx context.Context, profile models.UserProfile) (*models.UserProfile, error) {
	err := ups.Dynamo.PutItem(ctx, models.UserProfilesTable, profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfile retrieves a user profile by ID
func (ups *UserProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := ups.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// GetProfilesByIDs fetches the profiles for the given user ids. Users with
// no profile yet are skipped rather than failing the whole lookup.
func (ups *UserProfileService) GetProfilesByIDs(ctx context.Context, userIDs []string) ([]models.UserProfile, error) {
	profiles := make([]models.UserProfile, 0, len(userIDs))
	for _, id := range userIDs {
		profile, err := ups.GetProfile(ctx, id)
		if err != nil {
			if errors.Is(err, ErrProfileNotFound) {
				log.Printf("No profile for checked-in user %s, skipping", id)
				continue
			}
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	return profiles, nil
}

// DeleteUserProfile removes a user profile from DynamoDB
func (ups *UserProfileService) DeleteUserProfile(ctx context.Context, userID string) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	return ups.Dynamo.DeleteItem(ctx, models.UserProfilesTable, key)
}
