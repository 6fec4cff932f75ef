package services

import (
	"context"
	"fmt"

	"tripbazaar/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"
)

// EmailSender delivers transactional mail. Implementations must be safe
// for concurrent use.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SESSender delivers mail through AWS SES.
type SESSender struct {
	client *ses.Client
	from   string
	log    *zap.Logger
}

// LogSender is the local fallback used when no AWS region is configured.
// It writes the message to the log instead of delivering it.
type LogSender struct {
	log *zap.Logger
}

// NewEmailSender returns an SES-backed sender when region is set, a
// log-only sender otherwise.
func NewEmailSender(ctx context.Context, region, from string, log *zap.Logger) (EmailSender, error) {
	if region == "" {
		log.Warn("AWS_REGION not set, emails will be logged instead of sent")
		return &LogSender{log: log}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	return &SESSender{
		client: ses.NewFromConfig(cfg),
		from:   from,
		log:    log,
	}, nil
}

func (s *SESSender) Send(ctx context.Context, to, subject, body string) error {
	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(body),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	})
	if err != nil {
		s.log.Error("failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		return fmt.Errorf("sending email: %w", err)
	}

	s.log.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func (l *LogSender) Send(ctx context.Context, to, subject, body string) error {
	l.log.Info("email (log only)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}

// BookingConfirmationEmail renders the subject and body for a confirmed
// booking.
func BookingConfirmationEmail(booking models.Booking) (subject, body string) {
	subject = fmt.Sprintf("Booking Confirmed - #%d", booking.ID)
	body = fmt.Sprintf(
		"Dear Customer,\n\n"+
			"Your %s booking has been confirmed.\n\n"+
			"Booking ID: %d\n"+
			"Travel Date: %s\n"+
			"Passengers: %d\n"+
			"Total Amount: INR %d\n"+
			"Status: %s\n\n"+
			"Thank you for booking with TripBazaar.\n",
		booking.BookingType, booking.ID, booking.TravelDate,
		len(booking.Passengers), booking.TotalAmount, booking.Status)
	return subject, body
}
