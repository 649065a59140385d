package services

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// Notifier is the outbound SMS channel. Best effort only: callers log
// failures and move on.
type Notifier interface {
	CheckinSMS(ctx context.Context, toPhone, checkedInName, gatheringName string) error
}

// FeedbackEmailDetails fills the post-checkout feedback email template.
type FeedbackEmailDetails struct {
	GatheringName string
	Date          string
	Location      string
	FeedbackURL   string
}

// EmailSender is the outbound email channel, also best effort.
type EmailSender interface {
	FeedbackEmail(ctx context.Context, to string, details FeedbackEmailDetails) error
}

// SNSAPI is the slice of the SNS client used for SMS delivery.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier sends check-in SMS through AWS SNS. With a nil client it
// silently no-ops, so deployments without SMS credentials just skip texts.
type SNSNotifier struct {
	Client            SNSAPI
	OriginationNumber string
}

// CheckinSMS implements Notifier.
func (n *SNSNotifier) CheckinSMS(ctx context.Context, toPhone, checkedInName, gatheringName string) error {
	if n.Client == nil || toPhone == "" {
		return nil
	}

	message := fmt.Sprintf("%s just checked in at %s on BaeQuest! Open the app to connect.", checkedInName, gatheringName)
	input := &sns.PublishInput{
		Message:     &message,
		PhoneNumber: &toPhone,
	}
	if n.OriginationNumber != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.MM.SMS.OriginationNumber": {
				DataType:    strPtr("String"),
				StringValue: &n.OriginationNumber,
			},
		}
	}

	_, err := n.Client.Publish(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to publish SMS: %w", err)
	}
	return nil
}

func strPtr(s string) *string { return &s }

// SMTPEmailSender delivers email over plain SMTP. With no host configured it
// no-ops.
type SMTPEmailSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// FeedbackEmail implements EmailSender.
func (s *SMTPEmailSender) FeedbackEmail(_ context.Context, to string, details FeedbackEmailDetails) error {
	if s.Host == "" || to == "" {
		return nil
	}

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)

	body := fmt.Sprintf(
		"<p>Thanks for stopping by %s on %s (%s)!</p>"+
			"<p>How was it? <a href=\"%s\">Leave quick feedback</a>. The link works for 7 days.</p>",
		details.GatheringName, details.Date, details.Location, details.FeedbackURL)

	msg := []byte(fmt.Sprintf("From: BaeQuest <%s>\r\n", s.From) +
		fmt.Sprintf("To: %s\r\n", to) +
		fmt.Sprintf("Subject: How was %s?\r\n", details.GatheringName) +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	if err := smtp.SendMail(addr, auth, s.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send feedback email: %w", err)
	}
	return nil
}
