package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"baequest_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const feedbackTTL = 7 * 24 * time.Hour

// FeedbackCreator is what the checkout path needs: request feedback once.
type FeedbackCreator interface {
	RequestFeedback(ctx context.Context, userID string, gathering *models.Gathering) error
}

type FeedbackService struct {
	Dynamo      *DynamoService
	Profiles    ProfileDirectory
	Email       EmailSender
	FrontendURL string
	Now         func() time.Time
}

func (fs *FeedbackService) now() time.Time {
	if fs.Now != nil {
		return fs.Now()
	}
	return time.Now()
}

// RequestFeedback creates the feedback request for (user, gathering) and
// emails the feedback link. A request that already exists is left untouched
// and no second email goes out.
func (fs *FeedbackService) RequestFeedback(ctx context.Context, userID string, gathering *models.Gathering) error {
	token, err := newFeedbackToken()
	if err != nil {
		return err
	}

	now := fs.now()
	request := models.EventFeedback{
		UserID:        userID,
		GatheringID:   gathering.ID,
		GatheringName: gathering.Name,
		Address:       gathering.Address,
		Token:         token,
		CreatedAt:     now.Unix(),
		ExpiresAt:     now.Add(feedbackTTL).Unix(),
	}

	// The condition on the key makes "at most one request per user and
	// gathering" hold even when two checkouts race.
	err = fs.Dynamo.PutItemWithCondition(ctx, models.EventFeedbackTable, request,
		"attribute_not_exists(userId)", nil)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			log.Printf("Feedback request already exists for user %s at %s", userID, gathering.ID)
			return nil
		}
		return err
	}

	profile, err := fs.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if profile.EmailID == "" {
		return nil
	}

	details := FeedbackEmailDetails{
		GatheringName: gathering.Name,
		Date:          now.Format("Monday, January 2, 2006"),
		Location:      gathering.Address,
		FeedbackURL:   fmt.Sprintf("%s/event-feedback?token=%s", fs.FrontendURL, token),
	}
	if err := fs.Email.FeedbackEmail(ctx, profile.EmailID, details); err != nil {
		return err
	}

	_, err = fs.Dynamo.UpdateItem(ctx, models.EventFeedbackTable,
		"SET emailSent = :sent", feedbackKey(userID, gathering.ID),
		map[string]types.AttributeValue{":sent": &types.AttributeValueMemberBOOL{Value: true}}, nil)
	return err
}

// GetByToken resolves a feedback request from its emailed token, rejecting
// expired or already-submitted ones.
func (fs *FeedbackService) GetByToken(ctx context.Context, token string) (*models.EventFeedback, error) {
	items, err := fs.Dynamo.QueryItemsWithIndex(ctx, models.EventFeedbackTable, models.FeedbackTokenIndex,
		"#token = :token",
		map[string]types.AttributeValue{":token": &types.AttributeValueMemberS{Value: token}},
		map[string]string{"#token": "token"},
		1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrFeedbackNotFound
	}

	var request models.EventFeedback
	if err := attributevalue.UnmarshalMap(items[0], &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feedback request: %w", err)
	}

	if request.Submitted {
		return nil, ErrFeedbackSubmitted
	}
	if fs.now().Unix() > request.ExpiresAt {
		return nil, ErrFeedbackExpired
	}
	return &request, nil
}

// SubmitFeedback records the rating and comment for a pending request.
func (fs *FeedbackService) SubmitFeedback(ctx context.Context, token string, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}

	request, err := fs.GetByToken(ctx, token)
	if err != nil {
		return err
	}

	_, err = fs.Dynamo.UpdateItem(ctx, models.EventFeedbackTable,
		"SET rating = :rating, #comment = :comment, submitted = :submitted, submittedAt = :at",
		feedbackKey(request.UserID, request.GatheringID),
		map[string]types.AttributeValue{
			":rating":    &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", rating)},
			":comment":   &types.AttributeValueMemberS{Value: comment},
			":submitted": &types.AttributeValueMemberBOOL{Value: true},
			":at":        &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", fs.now().Unix())},
		},
		map[string]string{"#comment": "comment"})
	return err
}

func feedbackKey(userID, gatheringID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId":      &types.AttributeValueMemberS{Value: userID},
		"gatheringId": &types.AttributeValueMemberS{Value: gatheringID},
	}
}

func newFeedbackToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate feedback token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
