package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/closerly/backend/internal/models"
)

// SESNotifier emails the sales team when a booking is accepted
type SESNotifier struct {
	sesClient     *ses.Client
	fromAddress   string
	notifyAddress string
	logger        *slog.Logger
}

// NewSESNotifier creates an SES-backed booking notifier
func NewSESNotifier(region, fromAddress, notifyAddress string, logger *slog.Logger) (*SESNotifier, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESNotifier{
		sesClient:     ses.NewFromConfig(cfg),
		fromAddress:   fromAddress,
		notifyAddress: notifyAddress,
		logger:        logger,
	}, nil
}

// NotifyBookingAccepted sends a plain-text summary of the accepted booking
func (s *SESNotifier) NotifyBookingAccepted(ctx context.Context, booking *models.Booking) error {
	subject := fmt.Sprintf("New call booking: %s %s (%s)", booking.FirstName, booking.LastName, booking.CompanyName)

	preferredDate := "not specified"
	if booking.PreferredDate != nil {
		preferredDate = booking.PreferredDate.Format(time.RFC1123)
	}

	body := fmt.Sprintf(`A new call booking was accepted.

Name:            %s %s
Job title:       %s
Company:         %s
Email:           %s (business: %t)
Phone:           %s
Industry:        %s
Annual revenue:  %s
Sales team size: %d
Channels:        %s
Objective:       %s
Urgency:         %s
Preferred date:  %s (%s)
Platform:        %s

Main challenge:
%s
`,
		booking.FirstName, booking.LastName,
		booking.JobTitle,
		booking.CompanyName,
		booking.Email, booking.IsBusinessEmail,
		booking.Phone,
		booking.Industry,
		booking.AnnualRevenue,
		booking.SalesTeamSize,
		strings.Join(booking.CurrentChannels, ", "),
		booking.CallObjective,
		booking.Urgency,
		preferredDate, booking.Timezone,
		booking.PreferredPlatform,
		booking.MainChallenge,
	)

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{s.notifyAddress},
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
	}

	if _, err := s.sesClient.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send booking notification: %w", err)
	}

	s.logger.Info("booking notification sent", slog.String("booking_id", booking.ID))
	return nil
}
