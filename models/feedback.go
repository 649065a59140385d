package models

// EventFeedback is the post-checkout feedback request. Created at most once
// per (user, gathering); addressable by an emailed token until ExpiresAt.
type EventFeedback struct {
	UserID        string `json:"userId" dynamodbav:"userId"`
	GatheringID   string `json:"gatheringId" dynamodbav:"gatheringId"`
	GatheringName string `json:"gatheringName" dynamodbav:"gatheringName,omitempty"`
	Address       string `json:"address,omitempty" dynamodbav:"address,omitempty"`
	Token         string `json:"-" dynamodbav:"token"`
	Rating        int    `json:"rating,omitempty" dynamodbav:"rating,omitempty"`
	Comment       string `json:"comment,omitempty" dynamodbav:"comment,omitempty"`
	Submitted     bool   `json:"submitted" dynamodbav:"submitted"`
	SubmittedAt   int64  `json:"submittedAt,omitempty" dynamodbav:"submittedAt,omitempty"`
	EmailSent     bool   `json:"emailSent" dynamodbav:"emailSent"`
	CreatedAt     int64  `json:"createdAt" dynamodbav:"createdAt"`
	ExpiresAt     int64  `json:"expiresAt" dynamodbav:"expiresAt"`
}

// EventFeedbackTable is the DynamoDB table name for feedback requests.
// FeedbackTokenIndex is its GSI keyed on token.
const (
	EventFeedbackTable = "EventFeedback"
	FeedbackTokenIndex = "token-index"
)
