package services_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"baequest_server/models"
	"baequest_server/services"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockEmail struct{ mock.Mock }

func (m *mockEmail) FeedbackEmail(ctx context.Context, to string, details services.FeedbackEmailDetails) error {
	return m.Called(ctx, to, details).Error(0)
}

func newFeedbackService(client *mockDynamoClient, profiles *mockProfiles, email *mockEmail) *services.FeedbackService {
	return &services.FeedbackService{
		Dynamo:      &services.DynamoService{Client: client},
		Profiles:    profiles,
		Email:       email,
		FrontendURL: "https://baequests.com",
		Now:         func() time.Time { return time.Unix(1700000000, 0) },
	}
}

func feedbackItem(token string, submitted bool, expiresAt int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId":      &types.AttributeValueMemberS{Value: "u1"},
		"gatheringId": &types.AttributeValueMemberS{Value: "e1"},
		"token":       &types.AttributeValueMemberS{Value: token},
		"submitted":   &types.AttributeValueMemberBOOL{Value: submitted},
		"expiresAt":   &types.AttributeValueMemberN{Value: strconv.FormatInt(expiresAt, 10)},
	}
}

func TestRequestFeedbackSendsEmail(t *testing.T) {
	client := new(mockDynamoClient)
	profiles := new(mockProfiles)
	email := new(mockEmail)

	client.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		return *in.TableName == models.EventFeedbackTable &&
			in.ConditionExpression != nil && *in.ConditionExpression == "attribute_not_exists(userId)"
	})).Return(&dynamodb.PutItemOutput{}, nil)
	prof := profile("u1", models.GenderFemale, models.OrientationStraight)
	prof.EmailID = "ana@example.com"
	profiles.On("GetProfile", mock.Anything, "u1").Return(prof, nil)
	email.On("FeedbackEmail", mock.Anything, "ana@example.com", mock.MatchedBy(func(d services.FeedbackEmailDetails) bool {
		return d.GatheringName == "Rooftop Social" &&
			len(d.FeedbackURL) > len("https://baequests.com/event-feedback?token=")
	})).Return(nil)
	client.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
		return *in.TableName == models.EventFeedbackTable && *in.UpdateExpression == "SET emailSent = :sent"
	})).Return(&dynamodb.UpdateItemOutput{}, nil)

	svc := newFeedbackService(client, profiles, email)
	err := svc.RequestFeedback(context.Background(), "u1", &models.Gathering{
		ID: "e1", Kind: models.GatheringKindEvent, Name: "Rooftop Social", Address: "123 Main St",
	})
	assert.NoError(t, err)
	email.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestRequestFeedbackAtMostOnce(t *testing.T) {
	client := new(mockDynamoClient)
	profiles := new(mockProfiles)
	email := new(mockEmail)

	// Second checkout for the same (user, gathering): the conditional put
	// loses and nothing else happens.
	client.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

	svc := newFeedbackService(client, profiles, email)
	err := svc.RequestFeedback(context.Background(), "u1", &models.Gathering{ID: "e1", Name: "Rooftop Social"})
	assert.NoError(t, err)

	profiles.AssertNotCalled(t, "GetProfile", mock.Anything, mock.Anything)
	email.AssertNotCalled(t, "FeedbackEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestFeedbackNoEmailOnFile(t *testing.T) {
	client := new(mockDynamoClient)
	profiles := new(mockProfiles)
	email := new(mockEmail)

	client.On("PutItem", mock.Anything, mock.Anything).Return(&dynamodb.PutItemOutput{}, nil)
	profiles.On("GetProfile", mock.Anything, "u1").Return(profile("u1", models.GenderMale, models.OrientationGay), nil)

	svc := newFeedbackService(client, profiles, email)
	err := svc.RequestFeedback(context.Background(), "u1", &models.Gathering{ID: "e1", Name: "Rooftop Social"})
	assert.NoError(t, err)

	email.AssertNotCalled(t, "FeedbackEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetByTokenNotFound(t *testing.T) {
	client := new(mockDynamoClient)

	client.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return *in.IndexName == models.FeedbackTokenIndex
	})).Return(&dynamodb.QueryOutput{}, nil)

	svc := newFeedbackService(client, new(mockProfiles), new(mockEmail))
	_, err := svc.GetByToken(context.Background(), "nope")
	assert.ErrorIs(t, err, services.ErrFeedbackNotFound)
}

func TestGetByTokenSubmitted(t *testing.T) {
	client := new(mockDynamoClient)

	client.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{feedbackItem("tok", true, 1700600000)},
	}, nil)

	svc := newFeedbackService(client, new(mockProfiles), new(mockEmail))
	_, err := svc.GetByToken(context.Background(), "tok")
	assert.ErrorIs(t, err, services.ErrFeedbackSubmitted)
}

func TestGetByTokenExpired(t *testing.T) {
	client := new(mockDynamoClient)

	client.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{feedbackItem("tok", false, 1699999999)},
	}, nil)

	svc := newFeedbackService(client, new(mockProfiles), new(mockEmail))
	_, err := svc.GetByToken(context.Background(), "tok")
	assert.ErrorIs(t, err, services.ErrFeedbackExpired)
}

func TestGetByTokenPending(t *testing.T) {
	client := new(mockDynamoClient)

	client.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{feedbackItem("tok", false, 1700600000)},
	}, nil)

	svc := newFeedbackService(client, new(mockProfiles), new(mockEmail))
	request, err := svc.GetByToken(context.Background(), "tok")
	assert.NoError(t, err)
	assert.Equal(t, "u1", request.UserID)
	assert.Equal(t, "e1", request.GatheringID)
}

func TestSubmitFeedbackRejectsBadRating(t *testing.T) {
	svc := newFeedbackService(new(mockDynamoClient), new(mockProfiles), new(mockEmail))

	assert.Error(t, svc.SubmitFeedback(context.Background(), "tok", 0, ""))
	assert.Error(t, svc.SubmitFeedback(context.Background(), "tok", 6, ""))
}

func TestSubmitFeedbackRecordsRating(t *testing.T) {
	client := new(mockDynamoClient)

	client.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{feedbackItem("tok", false, 1700600000)},
	}, nil)
	client.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
		key := in.Key["userId"].(*types.AttributeValueMemberS)
		rating := in.ExpressionAttributeValues[":rating"].(*types.AttributeValueMemberN)
		return *in.TableName == models.EventFeedbackTable && key.Value == "u1" && rating.Value == "4"
	})).Return(&dynamodb.UpdateItemOutput{}, nil)

	svc := newFeedbackService(client, new(mockProfiles), new(mockEmail))
	err := svc.SubmitFeedback(context.Background(), "tok", 4, "great vibes")
	assert.NoError(t, err)
	client.AssertExpectations(t)
}
